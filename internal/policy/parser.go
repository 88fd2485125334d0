package policy

import (
	"strings"
	"unicode"
)

// Stats counts what Parse did with a policy expression.
type Stats struct {
	// Chains is the number of chains rooted at the requested entry point.
	Chains int
	// Applied is the number of operations recorded into the descriptor.
	Applied int
	// Skipped is the number of malformed or unrecognized fragments.
	Skipped int
}

// Parse turns a policy expression into the descriptor for one plan kind.
//
// A nil cfg yields Default(kind). Otherwise only chains whose origin is the
// configuration parameter and whose root is kind's entry point are read.
// Malformed fragments are skipped without error; Stats reports how many.
func Parse(cfg *Config, kind Kind) (Descriptor, Stats) {
	if cfg == nil {
		return Default(kind), Stats{}
	}

	d := NewDescriptor()

	var stats Stats

	for _, chain := range cfg.Chains {
		if !rootedAt(chain, kind) {
			continue
		}

		stats.Chains++
		parseCalls(chain.Calls[1:], &d, &stats)
	}

	return d, stats
}

// rootedAt walks the chain back to its root and checks that it is the entry
// point of kind, called on the configuration parameter.
func rootedAt(chain *Chain, kind Kind) bool {
	root, ok := chain.Root()
	if !ok {
		return false
	}

	return chain.Origin == OriginParameter && root.Name == kind.EntryPoint()
}

func parseCalls(calls []Call, d *Descriptor, stats *Stats) {
	for i := 0; i < len(calls); i++ {
		call := calls[i]

		switch call.Name {
		case CallTry:
			s, ok := strategyArg(call)
			if !ok {
				stats.Skipped++
				continue
			}

			d.Strategies = append(d.Strategies, s)
			stats.Applied++

		case CallIgnore:
			name, ok := memberArg(call)
			if !ok {
				stats.Skipped++
				continue
			}

			d.Ignored[name] = struct{}{}
			stats.Applied++

		case CallIgnoreID:
			d.Ignored[IDMember] = struct{}{}
			stats.Applied++

		case CallMap, CallMapParameter:
			expr, ok := completion(calls, i)
			if !ok {
				stats.Skipped++
				continue
			}

			var target string
			if call.Name == CallMap {
				target, ok = memberArg(call)
			} else {
				target, ok = parameterArg(call)
			}

			// The completion belongs to this call either way.
			i++

			if !ok {
				stats.Skipped += 2
				continue
			}

			if call.Name == CallMap {
				d.MemberOverrides[target] = expr
			} else {
				d.ParameterOverrides[strings.ToLower(target)] = expr
			}

			stats.Applied++

		default:
			// Includes a From/FromSource with nothing to complete.
			stats.Skipped++
		}
	}
}

// completion returns the expression of the From/FromSource call following
// calls[i].
func completion(calls []Call, i int) (Expr, bool) {
	if i+1 >= len(calls) {
		return Expr{}, false
	}

	next := calls[i+1]
	if next.Name != CallFrom && next.Name != CallFromSource {
		return Expr{}, false
	}

	arg, ok := next.FirstArg()
	if !ok || (arg.Kind != ArgExpr && arg.Kind != ArgString && arg.Kind != ArgMember) {
		return Expr{}, false
	}

	expr := Expr{Text: strings.TrimSpace(arg.Text)}
	if expr.IsZero() {
		return Expr{}, false
	}

	return expr, true
}

func strategyArg(call Call) (Strategy, bool) {
	arg, ok := call.FirstArg()
	if !ok {
		return 0, false
	}

	switch arg.Kind {
	case ArgInt:
		s := Strategy(arg.Int)
		return s, s.IsValid()
	case ArgString:
		return ParseStrategy(arg.Text)
	default:
		return 0, false
	}
}

func memberArg(call Call) (string, bool) {
	arg, ok := call.FirstArg()
	if !ok || (arg.Kind != ArgMember && arg.Kind != ArgString) {
		return "", false
	}

	return MemberName(arg.Text)
}

func parameterArg(call Call) (string, bool) {
	arg, ok := call.FirstArg()
	if !ok || arg.Kind != ArgString {
		return "", false
	}

	name := strings.TrimSpace(arg.Text)

	return name, isIdent(name)
}

// MemberName extracts the member name from a selector. Accepted forms:
//   - "Name"
//   - "d.Name"
//   - "d => d.Name"
//   - "d => (object)d.Name"
func MemberName(sel string) (string, bool) {
	body := sel
	if _, after, found := strings.Cut(sel, "=>"); found {
		body = after
	}

	body = strings.TrimSpace(body)
	if i := strings.LastIndex(body, "."); i >= 0 {
		body = body[i+1:]
	}

	if strings.HasPrefix(body, "(") {
		if j := strings.Index(body, ")"); j >= 0 {
			body = body[j+1:]
		}
	}

	body = strings.TrimSpace(body)

	return body, isIdent(body)
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}

		return false
	}

	return true
}

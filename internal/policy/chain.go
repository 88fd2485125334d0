package policy

// Entry points and operations of the policy grammar:
//
//	ForCreation() | ForModification() | ForProjection()
//	  .Try(strategy)
//	  .Ignore(member) | .IgnoreId()
//	  .Map(member).From(expr) | .Map(member).FromSource(expr)
//	  .MapParameter(name).FromSource(expr)
const (
	EntryCreation     = "ForCreation"
	EntryModification = "ForModification"
	EntryProjection   = "ForProjection"

	CallTry          = "Try"
	CallIgnore       = "Ignore"
	CallIgnoreID     = "IgnoreId"
	CallMap          = "Map"
	CallMapParameter = "MapParameter"
	CallFrom         = "From"
	CallFromSource   = "FromSource"
)

// ArgKind tags an Arg.
type ArgKind int

const (
	ArgInt    ArgKind = iota // strategy value
	ArgString                // literal, e.g. a parameter name or strategy name
	ArgMember                // member selector, e.g. "Name" or "d => d.Name"
	ArgExpr                  // opaque host expression
)

// Arg is one argument of a recorded call.
type Arg struct {
	Kind ArgKind
	Int  int
	Text string
}

// IntArg returns an integer argument.
func IntArg(n int) Arg { return Arg{Kind: ArgInt, Int: n} }

// StringArg returns a string literal argument.
func StringArg(s string) Arg { return Arg{Kind: ArgString, Text: s} }

// MemberArg returns a member selector argument.
func MemberArg(sel string) Arg { return Arg{Kind: ArgMember, Text: sel} }

// ExprArg returns an expression argument.
func ExprArg(expr string) Arg { return Arg{Kind: ArgExpr, Text: expr} }

// Call is one recorded method call of a chain.
type Call struct {
	Name string
	Args []Arg
}

// FirstArg returns the first argument, if any.
func (c Call) FirstArg() (Arg, bool) {
	if len(c.Args) == 0 {
		return Arg{}, false
	}

	return c.Args[0], true
}

// Origin is what a chain is rooted at.
type Origin int

const (
	// OriginParameter is the configuration parameter handed to the policy.
	OriginParameter Origin = iota
	// OriginOther is anything else (a local, a field...). Such chains are
	// never applied.
	OriginOther
)

// Chain is a fluent call chain in call order. Calls[0] is the entry point.
type Chain struct {
	Origin Origin
	Calls  []Call
}

// Root returns the entry-point call.
func (c *Chain) Root() (Call, bool) {
	if c == nil || len(c.Calls) == 0 {
		return Call{}, false
	}

	return c.Calls[0], true
}

// Config is a recorded policy expression: every chain configured for one
// mapper. A nil *Config means "no policy".
type Config struct {
	Chains []*Chain
}

// NewConfig returns an empty policy expression.
func NewConfig() *Config {
	return &Config{}
}

// Append adds a chain decoded from another representation.
func (c *Config) Append(chain *Chain) {
	c.Chains = append(c.Chains, chain)
}

// ForCreation starts a chain configuring the Creation plan.
func (c *Config) ForCreation() *Builder { return c.start(EntryCreation) }

// ForModification starts a chain configuring the Modification plan.
func (c *Config) ForModification() *Builder { return c.start(EntryModification) }

// ForProjection starts a chain configuring the Projection plan.
func (c *Config) ForProjection() *Builder { return c.start(EntryProjection) }

func (c *Config) start(entry string) *Builder {
	chain := &Chain{Origin: OriginParameter, Calls: []Call{{Name: entry}}}
	c.Chains = append(c.Chains, chain)

	return &Builder{chain: chain}
}

// Builder records the calls of one chain.
type Builder struct {
	chain *Chain
}

func (b *Builder) record(name string, args ...Arg) {
	b.chain.Calls = append(b.chain.Calls, Call{Name: name, Args: args})
}

// Try appends a strategy.
func (b *Builder) Try(s Strategy) *Builder {
	b.record(CallTry, IntArg(int(s)))
	return b
}

// Ignore excludes a destination member from member matching.
func (b *Builder) Ignore(member string) *Builder {
	b.record(CallIgnore, MemberArg(member))
	return b
}

// IgnoreID excludes the "Id" member.
func (b *Builder) IgnoreID() *Builder {
	b.record(CallIgnoreID)
	return b
}

// Map starts a destination member override.
func (b *Builder) Map(member string) *TargetBuilder {
	b.record(CallMap, MemberArg(member))
	return &TargetBuilder{b: b}
}

// MapParameter starts a constructor or factory parameter override.
func (b *Builder) MapParameter(name string) *TargetBuilder {
	b.record(CallMapParameter, StringArg(name))
	return &TargetBuilder{b: b}
}

// TargetBuilder completes a Map or MapParameter call.
type TargetBuilder struct {
	b *Builder
}

// From sets the override expression.
func (t *TargetBuilder) From(expr string) *Builder {
	t.b.record(CallFrom, ExprArg(expr))
	return t.b
}

// FromSource sets the override expression.
func (t *TargetBuilder) FromSource(expr string) *Builder {
	t.b.record(CallFromSource, ExprArg(expr))
	return t.b
}

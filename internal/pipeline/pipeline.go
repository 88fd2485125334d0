package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"mapper-planner/internal/analyze"
	"mapper-planner/internal/ctxlog"
	"mapper-planner/internal/diagnostic"
	"mapper-planner/internal/metrics"
	"mapper-planner/internal/plan"
	"mapper-planner/internal/policy"
	"mapper-planner/internal/registry"
)

// Options configures a run.
type Options struct {
	// Workers bounds concurrent mapper planning. Zero means GOMAXPROCS.
	Workers int
	// Metrics, when set, records plan and mapper metrics.
	Metrics *metrics.Collector
}

func (o Options) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}

	return runtime.GOMAXPROCS(0)
}

// MapperResult holds the plans of one mapper definition.
type MapperResult struct {
	Definition registry.Definition
	// Plans are in projection, creation, modification order. A faulted
	// mapper has none.
	Plans []*plan.MappingPlan
	// Diagnostics are scoped to the mapper rather than to one of its plans.
	Diagnostics diagnostic.Diagnostics
	Faulted     bool
	Duration    time.Duration
}

// Plan returns the plan of the given kind.
func (r *MapperResult) Plan(kind policy.Kind) (*plan.MappingPlan, bool) {
	for _, p := range r.Plans {
		if p.Kind == kind {
			return p, true
		}
	}

	return nil, false
}

// Emittable reports whether the creation path of the mapper can be
// generated.
func (r *MapperResult) Emittable() bool {
	if r.Faulted {
		return false
	}

	p, ok := r.Plan(policy.KindCreation)

	return ok && p.Emittable()
}

// Report is the outcome of a run.
type Report struct {
	RunID   string
	Mappers []MapperResult
	// Diagnostics merges mapper and plan diagnostics in mapper order.
	Diagnostics diagnostic.Diagnostics
	// EmissionOrder lists mapper names so that each follows the mappers it
	// delegates to. Empty when the dependencies form a cycle.
	EmissionOrder []string
}

// Plans returns every plan in mapper order.
func (r *Report) Plans() []*plan.MappingPlan {
	var plans []*plan.MappingPlan
	for i := range r.Mappers {
		plans = append(plans, r.Mappers[i].Plans...)
	}

	return plans
}

// Document returns the serializable form of the report.
func (r *Report) Document() *plan.Document {
	return plan.NewDocument(r.RunID, r.Plans())
}

// indexed carries a result back to the slot of its definition.
type indexed struct {
	i   int
	res MapperResult
}

// Run plans every definition of snap against catalog.
//
// Cancelling ctx stops scheduling new mappers; mappers already started run to
// completion. The returned error is the context error in that case, and the
// report then only holds the mappers that were planned.
func Run(ctx context.Context, snap *registry.Snapshot, catalog analyze.Catalog, opts Options) (*Report, error) {
	log := ctxlog.FromContext(ctx)
	defs := snap.Definitions()
	planner := plan.NewPlanner(snap)

	// One slot per definition; sends never block.
	out := make(chan indexed, len(defs))

	g := new(errgroup.Group)
	g.SetLimit(opts.workers())

	var runErr error

	for i := range defs {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}

		g.Go(func() error {
			out <- indexed{i: i, res: planMapper(ctx, planner, catalog, defs[i], opts.Metrics)}
			return nil
		})
	}

	_ = g.Wait()
	close(out)

	slots := make([]*MapperResult, len(defs))
	for r := range out {
		slots[r.i] = &r.res
	}

	report := &Report{RunID: uuid.NewString()}

	for _, r := range slots {
		if r == nil {
			continue
		}

		report.Mappers = append(report.Mappers, *r)
		report.Diagnostics.Merge(r.Diagnostics)

		for _, p := range r.Plans {
			report.Diagnostics.Merge(p.Diagnostics)
		}
	}

	report.EmissionOrder = emissionOrder(ctx, report)

	log.Info("planning finished",
		"run_id", report.RunID,
		"mappers", len(report.Mappers),
		"errors", len(report.Diagnostics.Errors),
		"warnings", len(report.Diagnostics.Warnings))

	return report, runErr
}

func emissionOrder(ctx context.Context, report *Report) []string {
	names := make([]string, 0, len(report.Mappers))
	for i := range report.Mappers {
		names = append(names, report.Mappers[i].Definition.Name)
	}

	order, err := plan.EmissionOrder(names, plan.Dependencies(report.Plans()))
	if err != nil {
		ctxlog.FromContext(ctx).Warn("no emission order", "error", err)
		return nil
	}

	return order
}

// planMapper builds the three plans of def. Any panic is turned into an
// unexpected-error diagnostic on the result.
func planMapper(
	ctx context.Context,
	planner *plan.Planner,
	catalog analyze.Catalog,
	def registry.Definition,
	m *metrics.Collector,
) (res MapperResult) {
	log := ctxlog.FromContext(ctx).With("mapper", def.Name)
	start := time.Now()
	res.Definition = def

	defer func() {
		if r := recover(); r != nil {
			log.Error("mapper planning panicked", "panic", r, "stack", string(debug.Stack()))
			res.fault(fmt.Sprint(r))
		}

		res.Duration = time.Since(start)
		m.RecordMapper(res.Duration, res.Faulted)

		for _, p := range res.Plans {
			m.RecordPlan(p)
		}
	}()

	src, ok := catalog.Shape(def.Source)
	if !ok {
		res.fault(fmt.Sprintf("%s: %v", def.Source, analyze.ErrShapeNotFound))
		return res
	}

	dst, ok := catalog.Shape(def.Destination)
	if !ok {
		res.fault(fmt.Sprintf("%s: %v", def.Destination, analyze.ErrShapeNotFound))
		return res
	}

	for _, kind := range policy.Kinds() {
		desc, stats := policy.Parse(def.Policy, kind)
		if stats.Skipped > 0 {
			log.Debug("policy fragments skipped", "kind", kind.String(), "skipped", stats.Skipped)
		}

		req := plan.Request{Kind: kind, Mapper: def.Name, Policy: desc}
		if kind == policy.KindProjection {
			req.Source, req.Destination = src, dst
		} else {
			req.Source, req.Destination = dst, src
		}

		res.Plans = append(res.Plans, planner.Plan(req))
	}

	log.Debug("mapper planned", "emittable", res.Emittable())

	return res
}

// fault abandons the mapper: its plans are dropped and an unexpected error
// is reported in their place.
func (r *MapperResult) fault(msg string) {
	r.Faulted = true
	r.Plans = nil
	r.Diagnostics.Report(diagnostic.UnexpectedError, diagnostic.Location{
		Mapper:   r.Definition.Name,
		TypePair: r.Definition.Source.Short() + " -> " + r.Definition.Destination.Short(),
	}, msg)
}

package pipeline

// Pipeline is the DSL-facing builder combining a DependencyGraph with a
// middleware chain and a concurrency policy (§3, §4.6). It is either
// named-mode (graph non-empty, dispatches to the Scheduler) or
// linear-mode (graph empty, sequential list non-empty, runs the simpler
// linear runner) — the two are not mixed at the scheduler level (§3
// Invariant).
type Pipeline struct {
	graph      *DependencyGraph
	middleware []Middleware
	policy     ConcurrencyPolicy
	linear     []StepFn // unnamed steps, run in definition order when graph is empty
}

// Option configures a Pipeline at construction time.
type Option func(*Pipeline)

// WithConcurrency sets the policy used to fan out parallel levels.
func WithConcurrency(policy ConcurrencyPolicy) Option {
	return func(p *Pipeline) { p.policy = policy }
}

// NewPipeline creates an empty, configurable Pipeline.
func NewPipeline(opts ...Option) *Pipeline {
	p := &Pipeline{
		graph:  NewDependencyGraph(),
		policy: ConcurrencyAuto,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// UseMiddleware registers a middleware. It affects only steps added after
// this call (§4.5 declaration-order semantics) — middleware composition
// is folded at the moment a step is added, not recomputed per call (§9).
func (p *Pipeline) UseMiddleware(m Middleware) *Pipeline {
	p.middleware = append(p.middleware, m)
	return p
}

// Step declares a named, regular step with explicit dependencies. fn is
// wrapped with the middleware chain registered so far before being
// inserted into the graph.
func (p *Pipeline) Step(name string, fn StepFn, dependsOn ...string) error {
	return p.graph.AddStep(name, foldMiddleware(fn, p.middleware), dependsOn, false)
}

// OptionalStep declares a step that is dormant until some other step
// activates it at runtime (§3 Step dependency kind, §4.2 Edge cases).
// Its static dependency set is always empty.
func (p *Pipeline) OptionalStep(name string, fn StepFn) error {
	return p.graph.AddStep(name, foldMiddleware(fn, p.middleware), nil, true)
}

// ParallelGroup declares a named set of sibling steps sharing
// dependencies (§3 ParallelGroup, §4.2 addParallelGroup). Members must
// already be declared via Step/OptionalStep.
func (p *Pipeline) ParallelGroup(name string, members []string, dependsOn ...string) error {
	return p.graph.AddParallelGroup(name, members, dependsOn)
}

// AnonymousStep appends fn to the sequential fallback list used by the
// linear runner when the graph is empty (§3 Pipeline Invariant). fn is
// wrapped with the middleware chain registered so far.
func (p *Pipeline) AnonymousStep(fn StepFn) *Pipeline {
	p.linear = append(p.linear, foldMiddleware(fn, p.middleware))
	return p
}

// Graph exposes the underlying DependencyGraph for introspection.
func (p *Pipeline) Graph() *DependencyGraph { return p.graph }

// ParallelOrder exposes the graph's level partition (§6 Introspection).
func (p *Pipeline) ParallelOrder() ([][]string, error) { return p.graph.ParallelOrder() }

// TopologicalOrder exposes the graph's linear extension (§6 Introspection).
func (p *Pipeline) TopologicalOrder() ([]string, error) { return p.graph.TopologicalOrder() }

// Call invokes the pipeline: named-mode hands off to the Scheduler;
// linear-mode runs the sequential fallback list (§4.6).
func (p *Pipeline) Call(input Result) (Result, error) {
	if p.graph.Size() > 0 {
		if _, err := p.graph.ParallelOrder(); err != nil {
			return Result{}, err
		}
		executor, err := NewParallelExecutor(p.policy)
		if err != nil {
			return Result{}, err
		}
		return NewScheduler(p.graph, executor).Run(input)
	}
	return p.runLinear(input), nil
}

// CallParallel is an alias for Call: named-mode execution is always the
// level-grouped scheduler; when the graph is empty this degrades to the
// same sequential runner as Call (§6).
func (p *Pipeline) CallParallel(input Result) (Result, error) {
	return p.Call(input)
}

// runLinear runs the sequential fallback list in order, short-circuiting
// on the first halted Result (§4.3 Linear runner).
func (p *Pipeline) runLinear(input Result) Result {
	current := input
	for _, fn := range p.linear {
		current = fn(current)
		if !current.Continuing() {
			return current
		}
	}
	return current
}

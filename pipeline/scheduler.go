package pipeline

// Scheduler drives a DependencyGraph: it computes the next ready set each
// iteration, runs single-ready steps sequentially and multi-ready levels
// through a ParallelExecutor, merges parallel results, propagates halts,
// and processes activation requests (§4.3).
type Scheduler struct {
	graph    *DependencyGraph
	executor ParallelExecutor
}

// NewScheduler builds a Scheduler for graph using executor for any level
// with more than one ready member.
func NewScheduler(graph *DependencyGraph, executor ParallelExecutor) *Scheduler {
	return &Scheduler{graph: graph, executor: executor}
}

// Run executes graph starting from input, following the main loop of
// §4.3, and returns the final Result.
func (s *Scheduler) Run(input Result) (Result, error) {
	executed := make(map[string]bool)
	activated := make(map[string]bool)
	current := input

	for {
		activeDeps := s.activeDeps(activated)
		ready := readySet(activeDeps, executed, s.graph.StepNames())

		if len(ready) == 0 {
			return current, nil
		}

		if len(ready) == 1 {
			name := ready[0]
			fn, _ := s.lookup(name)
			out := fn(current)
			executed[name] = true
			current = out

			if !out.Continuing() {
				return current, nil
			}
			if err := s.processActivations(out, activated, executed, name); err != nil {
				return Result{}, err
			}
			continue
		}

		fns := make([]StepFn, len(ready))
		for i, name := range ready {
			fn, _ := s.lookup(name)
			fns[i] = fn
		}

		outputs := s.executor.Run(current, fns)

		if halted, ok := firstHalt(outputs); ok {
			return halted, nil
		}

		merged := mergeLevel(current, outputs)
		for _, name := range ready {
			executed[name] = true
		}
		for i, out := range outputs {
			if err := s.processActivations(out, activated, executed, ready[i]); err != nil {
				return Result{}, err
			}
		}
		current = merged
	}
}

func (s *Scheduler) lookup(name string) (StepFn, bool) {
	_, fn, _, ok := s.graph.Step(name)
	return fn, ok
}

// activeDeps computes the dependency map of §4.3 step 1: every non-optional
// step, plus every activated optional step, excluding any step whose
// dependency set still contains an unactivated optional name (deferred,
// §4.2 Edge cases) — and within each remaining step's dependency set,
// dropping any optional dependency that is not (yet) activated so it
// cannot block the dependent forever.
func (s *Scheduler) activeDeps(activated map[string]bool) map[string][]string {
	activeDeps := make(map[string][]string)

	for _, name := range s.graph.StepNames() {
		k, _, deps, _ := s.graph.Step(name)
		if k == KindOptional {
			if !activated[name] {
				continue
			}
			activeDeps[name] = nil
			continue
		}

		blocked := false
		var filtered []string
		for _, d := range deps {
			if s.graph.IsOptional(d) {
				if !activated[d] {
					blocked = true
					break
				}
				filtered = append(filtered, d)
				continue
			}
			filtered = append(filtered, d)
		}
		if blocked {
			continue
		}
		activeDeps[name] = filtered
	}

	return activeDeps
}

// readySet returns steps in activeDeps whose dependencies are all in
// executed and which are not themselves executed yet (§4.3 step 2), in
// declOrder's order (the order steps were declared on the graph) so that
// fan-out and the later parallel merge both treat "last" as "last
// declared", not "last alphabetically".
func readySet(activeDeps map[string][]string, executed map[string]bool, declOrder []string) []string {
	var ready []string
	for _, name := range declOrder {
		deps, ok := activeDeps[name]
		if !ok || executed[name] {
			continue
		}
		satisfied := true
		for _, d := range deps {
			if !executed[d] {
				satisfied = false
				break
			}
		}
		if satisfied {
			ready = append(ready, name)
		}
	}
	return ready
}

// firstHalt returns the first output (in declared order) whose Continue
// is false, per §4.3 step 5a: a halted sibling short-circuits the whole
// level and its Result is returned as-is, discarding the rest.
func firstHalt(outputs []Result) (Result, bool) {
	for _, r := range outputs {
		if !r.Continuing() {
			return r, true
		}
	}
	return Result{}, false
}

// mergeLevel implements the §4.3 parallel merge rules: value from the
// last member, context merged last-write-wins in declared order, errors
// concatenated per category in declared order, activated_steps unioned
// preserving first occurrence, continue forced true (any halt already
// short-circuited in firstHalt).
func mergeLevel(input Result, outputs []Result) Result {
	merged := input
	merged.cont = true

	var lastValue any
	mergedContext := map[string]any{}
	mergedErrors := map[string][]string{}
	var activateOrder []string
	seenActivate := map[string]bool{}

	for i, r := range outputs {
		if i == len(outputs)-1 {
			lastValue = r.value
		}
		for k, v := range r.context {
			mergedContext[k] = v
		}
		for k, msgs := range r.errors {
			mergedErrors[k] = append(mergedErrors[k], msgs...)
		}
		for _, a := range r.activate {
			if !seenActivate[a] {
				seenActivate[a] = true
				activateOrder = append(activateOrder, a)
			}
		}
	}

	merged.value = lastValue
	if len(mergedContext) > 0 {
		merged.context = mergedContext
	} else {
		merged.context = nil
	}
	if len(mergedErrors) > 0 {
		merged.errors = mergedErrors
	} else {
		merged.errors = nil
	}
	merged.activate = activateOrder

	return merged
}

// processActivations validates and records the activation requests
// carried by out, attributing failures to attributedTo (§4.3 Activation
// rules). Activation is idempotent: names already activated or already
// executed are silently skipped.
func (s *Scheduler) processActivations(out Result, activated map[string]bool, executed map[string]bool, attributedTo string) error {
	for _, name := range out.ActivatedSteps() {
		if activated[name] || executed[name] {
			continue
		}
		if !s.graph.IsDeclared(name) {
			return &UnknownStep{Step: name, AttributedTo: attributedTo}
		}
		if !s.graph.IsOptional(name) {
			return &NotOptional{Step: name, AttributedTo: attributedTo}
		}
		activated[name] = true
	}
	return nil
}

package pipeline

import "sort"

// DependencyGraph stores step callables, static dependencies, optional
// flags, and named parallel groups (§4.2). It expands group references to
// member sets at build time so the scheduler only ever deals with a
// name -> set-of-names dependency map (§9 "name expansion ... at build
// time").
type DependencyGraph struct {
	steps     map[string]*step
	order     []string // declaration order, for deterministic iteration
	groups    map[string]*parallelGroup
	groupDeps map[string][]string // group name -> its own dependsOn, before expansion onto members
}

// NewDependencyGraph creates an empty graph.
func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		steps:     make(map[string]*step),
		groups:    make(map[string]*parallelGroup),
		groupDeps: make(map[string][]string),
	}
}

// AddStep records a step's callable and (already-applied) middleware
// chain after expanding any group references in dependsOn. Reserved names
// and duplicate names are rejected (§4.2 addStep).
func (g *DependencyGraph) AddStep(name string, fn StepFn, dependsOn []string, optional bool) error {
	if isReserved(name) {
		return &ReservedName{Name: name}
	}
	if _, exists := g.steps[name]; exists {
		return &DuplicateName{Name: name}
	}
	if _, exists := g.groups[name]; exists {
		return &DuplicateName{Name: name}
	}
	if fn == nil {
		return &StepNotCallable{Step: name}
	}

	k := KindRegular
	deps := g.expandDependencies(dependsOn)
	if optional {
		k = KindOptional
		deps = nil // optional steps have no static dependency set (§3)
	}

	g.steps[name] = &step{name: name, fn: fn, kind: k, dependsOn: deps}
	g.order = append(g.order, name)
	return nil
}

// AddParallelGroup records a named group of sibling steps and rewrites
// each member's dependency set to include the group's own dependsOn
// (union), per §4.2 addParallelGroup. Members must already be declared
// via AddStep before the group is added.
func (g *DependencyGraph) AddParallelGroup(name string, members []string, dependsOn []string) error {
	if isReserved(name) {
		return &ReservedName{Name: name}
	}
	if _, exists := g.groups[name]; exists {
		return &DuplicateName{Name: name}
	}
	if _, exists := g.steps[name]; exists {
		return &DuplicateName{Name: name}
	}

	expandedGroupDeps := g.expandDependencies(dependsOn)
	g.groups[name] = &parallelGroup{name: name, members: append([]string{}, members...), dependsOn: expandedGroupDeps}
	g.groupDeps[name] = expandedGroupDeps

	for _, m := range members {
		st, exists := g.steps[m]
		if !exists || st.kind != KindRegular {
			// Missing or optional members are reported by Validate, not here;
			// building the group itself never fails on that account.
			continue
		}
		st.dependsOn = unionStrings(st.dependsOn, expandedGroupDeps)
	}

	// Steps declared before the group may already name it in their
	// dependsOn; replace those references with the member list now.
	for _, other := range g.order {
		st := g.steps[other]
		for i, d := range st.dependsOn {
			if d == name {
				expanded := append(append([]string{}, st.dependsOn[:i]...), members...)
				st.dependsOn = dedupeStrings(append(expanded, st.dependsOn[i+1:]...))
				break
			}
		}
	}

	return nil
}

// expandDependencies replaces any element naming a declared group with
// that group's member list, and drops the none/nothing sentinels, per
// §4.2 expandDependencies.
func (g *DependencyGraph) expandDependencies(deps []string) []string {
	var out []string
	for _, d := range deps {
		switch d {
		case ReservedNone, ReservedNothing, "":
			continue
		}
		if grp, ok := g.groups[d]; ok {
			out = append(out, grp.members...)
			continue
		}
		out = append(out, d)
	}
	return dedupeStrings(out)
}

// Validate performs the structural checks of §6.6: missing dependencies,
// cycles, and steps unreachable because of a missing dependency. It does
// not raise; it reports. Scheduling (CyclicDependency, §4.2 cycleCheck)
// is a separate, fatal check performed by ParallelOrder/TopologicalOrder.
func (g *DependencyGraph) Validate() []ValidationError {
	var errs []ValidationError

	for _, name := range g.order {
		st := g.steps[name]
		for _, dep := range st.dependsOn {
			if _, ok := g.steps[dep]; !ok {
				errs = append(errs, ValidationError{
					Type:    ValidationMissingDependency,
					Steps:   []string{name, dep},
					Message: "step \"" + name + "\" depends on non-existent step \"" + dep + "\"",
				})
			}
		}
	}

	if cycles := g.detectCycles(); len(cycles) > 0 {
		for _, c := range cycles {
			errs = append(errs, ValidationError{
				Type:    ValidationCycle,
				Steps:   c,
				Message: "circular dependency: " + joinStrings(c),
			})
		}
		return errs // unreachable-detection assumes an acyclic graph
	}

	for _, name := range g.order {
		st := g.steps[name]
		for _, dep := range st.dependsOn {
			if _, ok := g.steps[dep]; !ok {
				errs = append(errs, ValidationError{
					Type:    ValidationUnreachable,
					Steps:   []string{name},
					Message: "step \"" + name + "\" is unreachable (depends on a non-existent step)",
				})
				break
			}
		}
	}

	return errs
}

// detectCycles finds cycles via DFS over regular steps' static
// dependency edges.
func (g *DependencyGraph) detectCycles() [][]string {
	var cycles [][]string
	visited := make(map[string]bool)
	onStack := make(map[string]bool)
	var path []string

	var dfs func(node string)
	dfs = func(node string) {
		visited[node] = true
		onStack[node] = true
		path = append(path, node)

		st, ok := g.steps[node]
		if ok {
			for _, dep := range st.dependsOn {
				if _, exists := g.steps[dep]; !exists {
					continue
				}
				if !visited[dep] {
					dfs(dep)
				} else if onStack[dep] {
					start := -1
					for i, n := range path {
						if n == dep {
							start = i
							break
						}
					}
					if start >= 0 {
						cycle := append([]string{}, path[start:]...)
						cycle = append(cycle, dep)
						cycles = append(cycles, cycle)
					}
				}
			}
		}

		path = path[:len(path)-1]
		onStack[node] = false
	}

	for _, name := range g.order {
		if !visited[name] {
			dfs(name)
		}
	}
	return cycles
}

// ParallelOrder computes the longest-path-level partition over regular
// steps: level = 1 + max(level of regular deps), with empty-dep steps at
// level 0 (§4.2 parallelOrder). Optional steps are excluded — they are
// injected by the scheduler on activation, not part of the static plan.
// Returns CyclicDependency if the regular-step subgraph has a cycle.
func (g *DependencyGraph) ParallelOrder() ([][]string, error) {
	levels, _, err := g.levelsOf(g.regularStepNames())
	if err != nil {
		return nil, err
	}
	return levels, nil
}

// TopologicalOrder returns any linear extension consistent with the
// level partition (§4.2 topologicalOrder).
func (g *DependencyGraph) TopologicalOrder() ([]string, error) {
	levels, _, err := g.levelsOf(g.regularStepNames())
	if err != nil {
		return nil, err
	}
	var out []string
	for _, lvl := range levels {
		out = append(out, lvl...)
	}
	return out, nil
}

func (g *DependencyGraph) regularStepNames() []string {
	var names []string
	for _, name := range g.order {
		if g.steps[name].kind == KindRegular {
			names = append(names, name)
		}
	}
	return names
}

// levelsOf runs Kahn's algorithm restricted to the given node set,
// returning the level partition and the set of nodes actually scheduled.
// Any node left unprocessed after the queue drains is part of a cycle.
func (g *DependencyGraph) levelsOf(nodes []string) ([][]string, map[string]bool, error) {
	inSet := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		inSet[n] = true
	}

	inDegree := make(map[string]int, len(nodes))
	reverse := make(map[string][]string)
	for _, n := range nodes {
		deg := 0
		for _, dep := range g.steps[n].dependsOn {
			if inSet[dep] {
				deg++
				reverse[dep] = append(reverse[dep], n)
			}
		}
		inDegree[n] = deg
	}

	var queue []string
	for _, n := range nodes {
		if inDegree[n] == 0 {
			queue = append(queue, n)
		}
	}
	sort.Strings(queue)

	scheduled := make(map[string]bool, len(nodes))
	var levels [][]string

	for len(queue) > 0 {
		level := append([]string{}, queue...)
		sort.Strings(level)
		levels = append(levels, level)

		var next []string
		for _, n := range queue {
			scheduled[n] = true
			for _, dependent := range reverse[n] {
				inDegree[dependent]--
				if inDegree[dependent] == 0 {
					next = append(next, dependent)
				}
			}
		}
		sort.Strings(next)
		queue = next
	}

	if len(scheduled) != len(nodes) {
		var unresolved []string
		for _, n := range nodes {
			if !scheduled[n] {
				unresolved = append(unresolved, n)
			}
		}
		sort.Strings(unresolved)
		return nil, nil, &CyclicDependency{Nodes: unresolved}
	}

	return levels, scheduled, nil
}

// Step returns a declared step's record, if any.
func (g *DependencyGraph) Step(name string) (k StepKind, fn StepFn, dependsOn []string, ok bool) {
	st, exists := g.steps[name]
	if !exists {
		return 0, nil, nil, false
	}
	return st.kind, st.fn, st.dependsOn, true
}

// StepNames returns every declared step's name, including optional ones,
// in declaration order.
func (g *DependencyGraph) StepNames() []string {
	return append([]string{}, g.order...)
}

// IsOptional reports whether name is a declared optional step.
func (g *DependencyGraph) IsOptional(name string) bool {
	st, ok := g.steps[name]
	return ok && st.kind == KindOptional
}

// IsDeclared reports whether name is a declared step (regular or
// optional).
func (g *DependencyGraph) IsDeclared(name string) bool {
	_, ok := g.steps[name]
	return ok
}

// Size returns the number of declared steps (regular and optional).
func (g *DependencyGraph) Size() int {
	return len(g.steps)
}

func unionStrings(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	var out []string
	for _, s := range a {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, s := range b {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func dedupeStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	var out []string
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func joinStrings(ss []string) string {
	out := ""
	for i, s := range ss {
		if i > 0 {
			out += " -> "
		}
		out += s
	}
	return out
}

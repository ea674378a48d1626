package pipeline

import (
	"errors"
	"reflect"
	"testing"
)

func noop(r Result) Result { return r }

func TestAddStepRejectsReservedNames(t *testing.T) {
	t.Parallel()
	g := NewDependencyGraph()
	for _, name := range []string{ReservedNone, ReservedNothing, ReservedOptional} {
		err := g.AddStep(name, noop, nil, false)
		var reserved *ReservedName
		if !errors.As(err, &reserved) {
			t.Fatalf("expected ReservedName for %q, got %v", name, err)
		}
	}
}

func TestAddStepRejectsDuplicates(t *testing.T) {
	t.Parallel()
	g := NewDependencyGraph()
	if err := g.AddStep("a", noop, nil, false); err != nil {
		t.Fatal(err)
	}
	err := g.AddStep("a", noop, nil, false)
	var dup *DuplicateName
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateName, got %v", err)
	}
}

func TestAddStepRejectsNilCallable(t *testing.T) {
	t.Parallel()
	g := NewDependencyGraph()
	err := g.AddStep("a", nil, nil, false)
	var notCallable *StepNotCallable
	if !errors.As(err, &notCallable) {
		t.Fatalf("expected StepNotCallable, got %v", err)
	}
}

func TestParallelGroupExpandsIntoDependencies(t *testing.T) {
	t.Parallel()
	g := NewDependencyGraph()
	mustAdd(t, g, "base", nil, false)
	mustAdd(t, g, "b1", nil, false)
	mustAdd(t, g, "b2", nil, false)
	mustAdd(t, g, "after", []string{"grp"}, false)

	if err := g.AddParallelGroup("grp", []string{"b1", "b2"}, []string{"base"}); err != nil {
		t.Fatal(err)
	}

	_, _, deps, _ := g.Step("b1")
	if !reflect.DeepEqual(deps, []string{"base"}) {
		t.Fatalf("expected group dependsOn injected onto member, got %v", deps)
	}

	_, _, afterDeps, _ := g.Step("after")
	if len(afterDeps) != 2 {
		t.Fatalf("expected 'after' deps expanded to group members, got %v", afterDeps)
	}
}

func TestParallelOrderDiamond(t *testing.T) {
	t.Parallel()
	g := NewDependencyGraph()
	mustAdd(t, g, "A", nil, false)
	mustAdd(t, g, "B", []string{"A"}, false)
	mustAdd(t, g, "C", []string{"A"}, false)
	mustAdd(t, g, "D", []string{"B", "C"}, false)

	levels, err := g.ParallelOrder()
	if err != nil {
		t.Fatal(err)
	}
	want := [][]string{{"A"}, {"B", "C"}, {"D"}}
	if !reflect.DeepEqual(levels, want) {
		t.Fatalf("got %v, want %v", levels, want)
	}
}

func TestParallelOrderExcludesOptionalSteps(t *testing.T) {
	t.Parallel()
	g := NewDependencyGraph()
	mustAdd(t, g, "A", nil, false)
	mustAdd(t, g, "opt", nil, true)

	levels, err := g.ParallelOrder()
	if err != nil {
		t.Fatal(err)
	}
	want := [][]string{{"A"}}
	if !reflect.DeepEqual(levels, want) {
		t.Fatalf("optional step leaked into static plan: %v", levels)
	}
}

func TestCyclicDependencyRejected(t *testing.T) {
	t.Parallel()
	g := NewDependencyGraph()
	mustAdd(t, g, "A", []string{"B"}, false)
	mustAdd(t, g, "B", []string{"C"}, false)
	mustAdd(t, g, "C", []string{"A"}, false)

	_, err := g.ParallelOrder()
	var cyc *CyclicDependency
	if !errors.As(err, &cyc) {
		t.Fatalf("expected CyclicDependency, got %v", err)
	}
	if len(cyc.Nodes) != 3 {
		t.Fatalf("expected all three cyclic nodes listed, got %v", cyc.Nodes)
	}
}

func TestValidateMissingDependency(t *testing.T) {
	t.Parallel()
	g := NewDependencyGraph()
	mustAdd(t, g, "A", []string{"ghost"}, false)

	errs := g.Validate()
	foundMissing, foundUnreachable := false, false
	for _, e := range errs {
		if e.Type == ValidationMissingDependency {
			foundMissing = true
		}
		if e.Type == ValidationUnreachable {
			foundUnreachable = true
		}
	}
	if !foundMissing || !foundUnreachable {
		t.Fatalf("expected missing_dependency and unreachable findings, got %v", errs)
	}
}

func TestTopologicalOrderConsistentWithLevels(t *testing.T) {
	t.Parallel()
	g := NewDependencyGraph()
	mustAdd(t, g, "A", nil, false)
	mustAdd(t, g, "B", []string{"A"}, false)

	order, err := g.TopologicalOrder()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(order, []string{"A", "B"}) {
		t.Fatalf("got %v", order)
	}
}

func mustAdd(t *testing.T, g *DependencyGraph, name string, deps []string, optional bool) {
	t.Helper()
	if err := g.AddStep(name, noop, deps, optional); err != nil {
		t.Fatalf("AddStep(%q) failed: %v", name, err)
	}
}

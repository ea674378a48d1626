package pipeline

import (
	"reflect"
	"testing"
)

func TestLinearModeRunsInDefinitionOrder(t *testing.T) {
	t.Parallel()
	var order []string
	p := NewPipeline()
	p.AnonymousStep(func(r Result) Result {
		order = append(order, "first")
		return r
	})
	p.AnonymousStep(func(r Result) Result {
		order = append(order, "second")
		return r
	})

	out, err := p.Call(NewResult("x"))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(order, []string{"first", "second"}) {
		t.Fatalf("order = %v", order)
	}
	if out.Value() != "x" {
		t.Fatalf("value = %v, want x unchanged", out.Value())
	}
}

func TestLinearModeHaltsOnFirstHalt(t *testing.T) {
	t.Parallel()
	var ran bool
	p := NewPipeline()
	p.AnonymousStep(func(r Result) Result { return r.Halt("stop") })
	p.AnonymousStep(func(r Result) Result {
		ran = true
		return r
	})

	out, err := p.Call(NewResult(nil))
	if err != nil {
		t.Fatal(err)
	}
	if ran {
		t.Fatalf("step after halt should not run")
	}
	if out.Value() != "stop" {
		t.Fatalf("value = %v, want stop", out.Value())
	}
}

func TestParallelGroupRunsMembersConcurrently(t *testing.T) {
	t.Parallel()
	p := NewPipeline()
	must(t, p.Step("base", noop))
	must(t, p.Step("m1", func(r Result) Result { return r.WithContext("m1", true) }))
	must(t, p.Step("m2", func(r Result) Result { return r.WithContext("m2", true) }))
	must(t, p.ParallelGroup("grp", []string{"m1", "m2"}, "base"))
	must(t, p.Step("after", noop, "grp"))

	levels, err := p.ParallelOrder()
	if err != nil {
		t.Fatal(err)
	}
	if len(levels) != 3 || len(levels[1]) != 2 {
		t.Fatalf("unexpected level partition: %v", levels)
	}

	out, err := p.Call(NewResult(nil))
	if err != nil {
		t.Fatal(err)
	}
	m1, _ := out.ContextValue("m1")
	m2, _ := out.ContextValue("m2")
	if m1 != true || m2 != true {
		t.Fatalf("expected both group members' context merged, got %v", out.Context())
	}
}

func TestWithConcurrencyOption(t *testing.T) {
	t.Parallel()
	p := NewPipeline(WithConcurrency(ConcurrencyThreads))
	if p.policy != ConcurrencyThreads {
		t.Fatalf("policy = %v, want threads", p.policy)
	}
}

func TestCallParallelIsAliasForCall(t *testing.T) {
	t.Parallel()
	p := NewPipeline()
	must(t, p.Step("only", func(r Result) Result { return r.WithContext("ran", true) }))

	out, err := p.CallParallel(NewResult(nil))
	if err != nil {
		t.Fatal(err)
	}
	v, _ := out.ContextValue("ran")
	if v != true {
		t.Fatalf("CallParallel did not dispatch to the scheduler")
	}
}

func TestGraphIntrospectionExposesDeclaredSteps(t *testing.T) {
	t.Parallel()
	p := NewPipeline()
	must(t, p.Step("a", noop))
	must(t, p.OptionalStep("b", noop))

	names := p.Graph().StepNames()
	if !reflect.DeepEqual(names, []string{"a", "b"}) {
		t.Fatalf("names = %v", names)
	}
	if !p.Graph().IsOptional("b") {
		t.Fatalf("expected b to be optional")
	}
}

package pipeline

import "testing"

func TestResultImmutability(t *testing.T) {
	t.Parallel()
	r := NewResult(1).WithContext("a", 1).WithError("cat", "msg")

	before := r
	_ = r.WithContext("b", 2)
	_ = r.WithError("cat", "msg2")
	_ = r.Continue(99)
	_ = r.Halt(nil)
	_ = r.Activate("x")

	if before.Value() != r.Value() {
		t.Fatalf("receiver value changed: %v vs %v", before.Value(), r.Value())
	}
	if len(r.Context()) != 1 {
		t.Fatalf("receiver context mutated: %v", r.Context())
	}
	if len(r.Errors()["cat"]) != 1 {
		t.Fatalf("receiver errors mutated: %v", r.Errors())
	}
	if !r.Continuing() {
		t.Fatalf("receiver continue flag mutated")
	}
}

func TestWithContextOverwrite(t *testing.T) {
	t.Parallel()
	r := NewResult(nil).WithContext("k", 1).WithContext("k", 2)
	v, ok := r.ContextValue("k")
	if !ok || v != 2 {
		t.Fatalf("expected overwritten value 2, got %v (%v)", v, ok)
	}
}

func TestWithErrorAppends(t *testing.T) {
	t.Parallel()
	r := NewResult(nil).WithError("validation", "a").WithError("validation", "b")
	got := r.Errors()["validation"]
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("expected [a b], got %v", got)
	}
}

func TestContinuePreservesHalt(t *testing.T) {
	t.Parallel()
	halted := NewResult("x").Halt(nil)
	resumed := halted.Continue("y")
	if resumed.Continuing() {
		t.Fatalf("Continue() resurrected a halted Result")
	}
	if resumed.Value() != "y" {
		t.Fatalf("Continue() should still replace the value, got %v", resumed.Value())
	}
}

func TestHaltStickiness(t *testing.T) {
	t.Parallel()
	halted := NewResult("x").Halt("y")
	if halted.Continuing() {
		t.Fatalf("Halt() did not set continue=false")
	}
	if halted.Value() != "y" {
		t.Fatalf("Halt(v) should replace value when v is non-nil")
	}

	haltedKeepValue := NewResult("x").Halt(nil)
	if haltedKeepValue.Value() != "x" {
		t.Fatalf("Halt(nil) should preserve value, got %v", haltedKeepValue.Value())
	}
}

func TestActivateDeduplicationIsSchedulerResponsibility(t *testing.T) {
	t.Parallel()
	r := NewResult(nil).Activate("a", "a", "b")
	got := r.ActivatedSteps()
	if len(got) != 3 {
		t.Fatalf("Result.Activate should not dedupe (scheduler's job), got %v", got)
	}
}

func TestHasErrors(t *testing.T) {
	t.Parallel()
	if NewResult(nil).HasErrors() {
		t.Fatalf("fresh Result should have no errors")
	}
	if !NewResult(nil).WithError("x", "y").HasErrors() {
		t.Fatalf("expected HasErrors true after WithError")
	}
}

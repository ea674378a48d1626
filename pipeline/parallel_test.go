package pipeline

import (
	"errors"
	"reflect"
	"sync/atomic"
	"testing"
)

func TestNewParallelExecutorRejectsUnknownPolicy(t *testing.T) {
	t.Parallel()
	_, err := NewParallelExecutor("yolo")
	var invalid *InvalidConcurrency
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidConcurrency, got %v", err)
	}
}

func TestNewParallelExecutorAcceptsKnownPolicies(t *testing.T) {
	t.Parallel()
	for _, p := range []ConcurrencyPolicy{ConcurrencyAuto, ConcurrencyThreads, ConcurrencyCooperative, ""} {
		if _, err := NewParallelExecutor(p); err != nil {
			t.Fatalf("policy %q rejected: %v", p, err)
		}
	}
}

func TestGoroutineExecutorPreservesOrder(t *testing.T) {
	t.Parallel()
	exec := goroutineExecutor{}
	fns := []StepFn{
		func(r Result) Result { return r.WithContext("who", "a") },
		func(r Result) Result { return r.WithContext("who", "b") },
		func(r Result) Result { return r.WithContext("who", "c") },
	}
	out := exec.Run(NewResult(nil), fns)
	var got []string
	for _, r := range out {
		v, _ := r.ContextValue("who")
		got = append(got, v.(string))
	}
	if !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("output order = %v, want [a b c]", got)
	}
}

func TestGoroutineExecutorInvokesEveryMemberOnce(t *testing.T) {
	t.Parallel()
	var counter int64
	exec := goroutineExecutor{}
	fn := func(r Result) Result {
		atomic.AddInt64(&counter, 1)
		return r
	}
	fns := make([]StepFn, 8)
	for i := range fns {
		fns[i] = fn
	}
	exec.Run(NewResult(nil), fns)
	if counter != int64(len(fns)) {
		t.Fatalf("expected every member invoked exactly once, got %d", counter)
	}
}

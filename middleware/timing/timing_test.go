package timing

import (
	"testing"
	"time"

	"github.com/flowforge/flowcore/pipeline"
)

func TestNewRecordsDuration(t *testing.T) {
	t.Parallel()
	mw := New("slow")
	fn := mw(func(r pipeline.Result) pipeline.Result {
		time.Sleep(5 * time.Millisecond)
		return r
	})

	out := fn(pipeline.NewResult(nil))
	v, ok := out.ContextValue("timing.slow")
	if !ok {
		t.Fatalf("expected timing.slow recorded")
	}
	d, ok := v.(time.Duration)
	if !ok || d < 5*time.Millisecond {
		t.Fatalf("got %v", v)
	}
}

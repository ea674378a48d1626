// Package timing provides a minimal instrumentation middleware: proof
// that wall-clock measurement needs no engine hook beyond the core's
// existing middleware composition mechanism.
package timing

import (
	"time"

	"github.com/flowforge/flowcore/pipeline"
)

// New returns a Middleware that records the wrapped step's wall-clock
// duration into the Result's context under "timing.<stepName>".
func New(stepName string) pipeline.Middleware {
	key := "timing." + stepName
	return func(next pipeline.StepFn) pipeline.StepFn {
		return func(r pipeline.Result) pipeline.Result {
			start := time.Now()
			out := next(r)
			return out.WithContext(key, time.Since(start))
		}
	}
}

// Package retry is an example user-written retry policy, confirming the
// core's Non-goal that retries are not an engine built-in (§1): a
// pipeline.Middleware, composed exactly like any other, is sufficient.
package retry

import (
	"time"

	"github.com/flowforge/flowcore/pipeline"
)

// New returns a Middleware that re-invokes the wrapped step up to
// maxAttempts times (the first call plus maxAttempts-1 retries) whenever
// the returned Result both continues and carries at least one message
// under errCategory, waiting backoff between attempts. The last attempt's
// Result is returned regardless of outcome.
func New(maxAttempts int, errCategory string, backoff time.Duration) pipeline.Middleware {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return func(next pipeline.StepFn) pipeline.StepFn {
		return func(r pipeline.Result) pipeline.Result {
			var out pipeline.Result
			for attempt := 0; attempt < maxAttempts; attempt++ {
				out = next(r)
				if !failedUnder(out, errCategory) {
					return out
				}
				if attempt < maxAttempts-1 && backoff > 0 {
					time.Sleep(backoff)
				}
			}
			return out
		}
	}
}

func failedUnder(r pipeline.Result, category string) bool {
	return r.Continuing() && len(r.Errors()[category]) > 0
}

// Package progress provides a middleware that reports step lifecycle as
// pipeline.ProgressEvent values on a channel, for internal/dashboard (or
// any other observer) to subscribe to.
package progress

import "github.com/flowforge/flowcore/pipeline"

// New returns a Middleware that sends a ProgressStepStart event before
// the wrapped step runs and a ProgressStepDone or ProgressStepHalted
// event after, on events. Sends are non-blocking: a full or nil channel
// never stalls the pipeline.
func New(stepName string, events chan<- pipeline.ProgressEvent) pipeline.Middleware {
	return func(next pipeline.StepFn) pipeline.StepFn {
		return func(r pipeline.Result) pipeline.Result {
			send(events, pipeline.ProgressEvent{Type: pipeline.ProgressStepStart, Step: stepName})
			out := next(r)
			evtType := pipeline.ProgressStepDone
			if !out.Continuing() {
				evtType = pipeline.ProgressStepHalted
			}
			send(events, pipeline.ProgressEvent{Type: evtType, Step: stepName})
			return out
		}
	}
}

func send(events chan<- pipeline.ProgressEvent, evt pipeline.ProgressEvent) {
	if events == nil {
		return
	}
	select {
	case events <- evt:
	default:
	}
}

package pipeline

// ProgressEventType classifies a ProgressEvent.
type ProgressEventType string

const (
	ProgressStepStart    ProgressEventType = "step_start"
	ProgressStepDone     ProgressEventType = "step_done"
	ProgressStepHalted   ProgressEventType = "step_halted"
	ProgressLevelStart   ProgressEventType = "level_start"
	ProgressPipelineDone ProgressEventType = "pipeline_done"
)

// ProgressEvent is an observational record of scheduling progress,
// emitted by middleware/progress and consumed by internal/dashboard. It
// carries no scheduling authority of its own — the core never reads one
// back.
type ProgressEvent struct {
	Type  ProgressEventType
	Step  string
	Level int
}

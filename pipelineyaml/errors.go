package pipelineyaml

import "fmt"

// UnknownKind is raised when a step definition names a kind that was never
// registered in the StepRegistry passed to Load.
type UnknownKind struct {
	Step string
	Kind string
}

func (e *UnknownKind) Error() string {
	return fmt.Sprintf("step %q references unregistered kind %q", e.Step, e.Kind)
}

// UnsupportedFormat is raised when a definition file's extension is
// neither a recognized YAML nor TOML suffix.
type UnsupportedFormat struct {
	Path string
}

func (e *UnsupportedFormat) Error() string {
	return fmt.Sprintf("unsupported definition format: %q (want .yaml, .yml, or .toml)", e.Path)
}

// TemplateError wraps a failure resolving a ${...} placeholder at load
// time, naming the offending reference.
type TemplateError struct {
	Ref     string
	Message string
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("template reference %q: %s", e.Ref, e.Message)
}

// GateParseError is raised when a gate expression cannot be parsed.
type GateParseError struct {
	Expr    string
	Message string
}

func (e *GateParseError) Error() string {
	return fmt.Sprintf("gate expression %q: %s", e.Expr, e.Message)
}

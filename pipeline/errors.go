package pipeline

import (
	"fmt"
	"strings"
)

// Engine-level errors (§7): raised synchronously at build time or at the
// moment of an offending activation. They are never recorded into a
// Result's error map — that plane is reserved for domain errors a step
// chooses to accumulate.

// CyclicDependency is raised when the dependency graph contains a cycle.
// Nodes lists the steps Kahn's algorithm left unprocessed (those involved
// in or downstream of the cycle), sorted by name.
type CyclicDependency struct {
	Nodes []string
}

func (e *CyclicDependency) Error() string {
	return fmt.Sprintf("cyclic dependency among steps: %s", strings.Join(e.Nodes, ", "))
}

// UnknownStep is raised when a Result activates a name that was never
// declared in the graph.
type UnknownStep struct {
	Step         string
	AttributedTo string
}

func (e *UnknownStep) Error() string {
	return fmt.Sprintf("step %q activated unknown step %q", e.AttributedTo, e.Step)
}

// NotOptional is raised when a Result activates a name that is declared
// but is not an optional step.
type NotOptional struct {
	Step         string
	AttributedTo string
}

func (e *NotOptional) Error() string {
	return fmt.Sprintf("step %q activated %q, which is not an optional step", e.AttributedTo, e.Step)
}

// ReservedName is raised when a step or parallel group is declared with a
// reserved identifier (none, nothing, optional).
type ReservedName struct {
	Name string
}

func (e *ReservedName) Error() string {
	return fmt.Sprintf("%q is a reserved name and cannot be used as a step or group name", e.Name)
}

// DuplicateName is raised when a step or group name is declared twice.
type DuplicateName struct {
	Name string
}

func (e *DuplicateName) Error() string {
	return fmt.Sprintf("%q is already declared", e.Name)
}

// UnknownDependency describes a step whose dependency set names a step or
// group that was never declared. Nothing in this package returns it:
// DependencyGraph.Validate reports that case as a missing_dependency
// finding instead.
type UnknownDependency struct {
	Step       string
	Dependency string
}

func (e *UnknownDependency) Error() string {
	return fmt.Sprintf("step %q depends on undeclared name %q", e.Step, e.Dependency)
}

// InvalidConcurrency is raised when a Pipeline is configured with an
// unrecognized concurrency policy.
type InvalidConcurrency struct {
	Policy string
}

func (e *InvalidConcurrency) Error() string {
	return fmt.Sprintf("invalid concurrency policy %q (want auto, threads, or cooperative)", e.Policy)
}

// StepNotCallable is raised when a step is declared with a nil callable.
type StepNotCallable struct {
	Step string
}

func (e *StepNotCallable) Error() string {
	return fmt.Sprintf("step %q has no callable", e.Step)
}

// ValidationErrorType classifies a non-fatal structural finding returned
// by DependencyGraph.Validate.
type ValidationErrorType string

const (
	ValidationMissingDependency ValidationErrorType = "missing_dependency"
	ValidationCycle             ValidationErrorType = "cycle"
	ValidationUnreachable       ValidationErrorType = "unreachable"
)

// ValidationError is one structural finding from DependencyGraph.Validate.
// Unlike CyclicDependency et al., these are collected rather than raised,
// so a caller can report every problem in a single pass (§6.6).
type ValidationError struct {
	Type    ValidationErrorType
	Steps   []string
	Message string
}

func (e ValidationError) Error() string { return e.Message }

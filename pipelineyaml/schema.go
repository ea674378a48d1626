// Package pipelineyaml loads declarative pipeline definitions (YAML or
// TOML) into a *pipeline.Pipeline, keeping step shape as data while step
// behavior stays compiled Go code supplied through a StepRegistry.
package pipelineyaml

import "github.com/flowforge/flowcore/pipeline"

// Definition is the decodable shape of a pipeline document.
type Definition struct {
	Name           string             `yaml:"name" toml:"name"`
	Concurrency    string             `yaml:"concurrency,omitempty" toml:"concurrency,omitempty"`
	Vars           map[string]any     `yaml:"vars,omitempty" toml:"vars,omitempty"`
	Steps          []StepDef          `yaml:"steps" toml:"steps"`
	ParallelGroups []ParallelGroupDef `yaml:"parallel_groups,omitempty" toml:"parallel_groups,omitempty"`
}

// StepDef describes one step: its registry kind, its static dependency
// set, whether it is optional, and free-form construction parameters.
type StepDef struct {
	ID          string         `yaml:"id" toml:"id"`
	Kind        string         `yaml:"kind" toml:"kind"`
	Description string         `yaml:"description,omitempty" toml:"description,omitempty"`
	DependsOn   []string       `yaml:"depends_on,omitempty" toml:"depends_on,omitempty"`
	Optional    bool           `yaml:"optional,omitempty" toml:"optional,omitempty"`
	With        map[string]any `yaml:"with,omitempty" toml:"with,omitempty"`
}

// ParallelGroupDef describes a named set of sibling steps.
type ParallelGroupDef struct {
	Name      string   `yaml:"name" toml:"name"`
	Members   []string `yaml:"members" toml:"members"`
	DependsOn []string `yaml:"depends_on,omitempty" toml:"depends_on,omitempty"`
}

// StepRegistry maps a symbolic step kind (the Definition's `kind` field)
// to a constructor that turns a step's `with` parameters into a callable.
// Registering a kind a Definition never references is harmless; referencing
// a kind never registered is an UnknownKind error at load time.
type StepRegistry map[string]StepConstructor

// StepConstructor builds a pipeline.StepFn from a step's free-form
// parameters, already template-resolved.
type StepConstructor func(with map[string]any) (pipeline.StepFn, error)

// concurrencyPolicy maps a Definition's textual concurrency field to the
// core's ConcurrencyPolicy, defaulting to auto when absent.
func concurrencyPolicy(s string) pipeline.ConcurrencyPolicy {
	switch s {
	case "threads":
		return pipeline.ConcurrencyThreads
	case "cooperative":
		return pipeline.ConcurrencyCooperative
	default:
		return pipeline.ConcurrencyAuto
	}
}

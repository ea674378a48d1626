package pipelineyaml

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/flowforge/flowcore/pipeline"
)

// Load parses the definition at path (format inferred from its
// extension), resolves template placeholders, and builds a
// *pipeline.Pipeline through the core's normal AddStep/AddParallelGroup
// calls — any engine-level error (ReservedName, CyclicDependency, ...)
// still originates from the pipeline package, not from the loader.
func Load(path string, reg StepRegistry) (*pipeline.Pipeline, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var def Definition
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &def); err != nil {
			return nil, err
		}
	case ".toml":
		if _, err := toml.Decode(string(raw), &def); err != nil {
			return nil, err
		}
	default:
		return nil, &UnsupportedFormat{Path: path}
	}

	return Build(&def, reg)
}

// LoadObserved is Load with each step's callable passed through observe
// (if non-nil) before being registered. See BuildObserved.
func LoadObserved(path string, reg StepRegistry, observe StepObserver) (*pipeline.Pipeline, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var def Definition
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &def); err != nil {
			return nil, err
		}
	case ".toml":
		if _, err := toml.Decode(string(raw), &def); err != nil {
			return nil, err
		}
	default:
		return nil, &UnsupportedFormat{Path: path}
	}

	return BuildObserved(&def, reg, observe)
}

// LoadDefinition parses the definition at path without building a
// *pipeline.Pipeline, for callers that only need the declared shape (step
// descriptions, raw step list) rather than a runnable graph.
func LoadDefinition(path string) (*Definition, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var def Definition
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &def); err != nil {
			return nil, err
		}
	case ".toml":
		if _, err := toml.Decode(string(raw), &def); err != nil {
			return nil, err
		}
	default:
		return nil, &UnsupportedFormat{Path: path}
	}

	return &def, nil
}

// Build constructs a *pipeline.Pipeline from an already-decoded
// Definition, resolving placeholders and wiring each step's kind against
// reg before handing shape to the core.
func Build(def *Definition, reg StepRegistry) (*pipeline.Pipeline, error) {
	return BuildObserved(def, reg, nil)
}

// StepObserver wraps a step's callable before it enters the graph, keyed
// by the step's declared ID. It lets a caller attach cross-cutting
// concerns (logging, progress reporting) that need to know which step
// they're wrapping, without the StepRegistry's constructors needing to
// know their own ID.
type StepObserver func(id string, fn pipeline.StepFn) pipeline.StepFn

// BuildObserved is Build with each step's callable passed through observe
// (if non-nil) before being registered.
func BuildObserved(def *Definition, reg StepRegistry, observe StepObserver) (*pipeline.Pipeline, error) {
	resolved, err := resolveDefinition(def)
	if err != nil {
		return nil, err
	}

	p := pipeline.NewPipeline(pipeline.WithConcurrency(concurrencyPolicy(resolved.Concurrency)))

	for _, st := range resolved.Steps {
		ctor, ok := reg[st.Kind]
		if !ok {
			return nil, &UnknownKind{Step: st.ID, Kind: st.Kind}
		}
		fn, err := ctor(st.With)
		if err != nil {
			return nil, err
		}
		if observe != nil {
			fn = observe(st.ID, fn)
		}
		if st.Optional {
			if err := p.OptionalStep(st.ID, fn); err != nil {
				return nil, err
			}
			continue
		}
		if err := p.Step(st.ID, fn, st.DependsOn...); err != nil {
			return nil, err
		}
	}

	for _, grp := range resolved.ParallelGroups {
		if err := p.ParallelGroup(grp.Name, grp.Members, grp.DependsOn...); err != nil {
			return nil, err
		}
	}

	if _, err := p.ParallelOrder(); err != nil {
		return nil, err
	}

	return p, nil
}

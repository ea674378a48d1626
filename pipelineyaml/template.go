package pipelineyaml

import (
	"fmt"
	"regexp"
	"strings"
)

// placeholderPattern matches ${...} references. They are resolved once at
// load time against a static scope (vars and each step's own with
// parameters), not per-call against runtime execution state.
var placeholderPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// resolveScope holds the static values a Definition's placeholders may
// reference: vars.<name> and steps.<id>.<key>, both populated from the
// literal document before any step callable runs.
type resolveScope struct {
	vars  map[string]any
	steps map[string]map[string]any
}

func newResolveScope(def *Definition) *resolveScope {
	scope := &resolveScope{
		vars:  make(map[string]any, len(def.Vars)),
		steps: make(map[string]map[string]any, len(def.Steps)),
	}
	for k, v := range def.Vars {
		scope.vars[k] = v
	}
	for _, st := range def.Steps {
		scope.steps[st.ID] = st.With
	}
	return scope
}

func (s *resolveScope) lookup(ref string) (any, error) {
	parts := strings.SplitN(ref, ".", 3)
	switch {
	case len(parts) == 2 && parts[0] == "vars":
		v, ok := s.vars[parts[1]]
		if !ok {
			return nil, fmt.Errorf("undefined var %q", parts[1])
		}
		return v, nil
	case len(parts) == 3 && parts[0] == "steps":
		step, ok := s.steps[parts[1]]
		if !ok {
			return nil, fmt.Errorf("undefined step %q", parts[1])
		}
		v, ok := step[parts[2]]
		if !ok {
			return nil, fmt.Errorf("step %q has no field %q", parts[1], parts[2])
		}
		return v, nil
	default:
		return nil, fmt.Errorf("reference must be vars.<name> or steps.<id>.<field>")
	}
}

// resolveString substitutes every ${...} reference in s against scope,
// formatting resolved non-string values with fmt.Sprint.
func resolveString(s string, scope *resolveScope) (string, error) {
	var outerErr error
	out := placeholderPattern.ReplaceAllStringFunc(s, func(match string) string {
		ref := strings.TrimSpace(match[2 : len(match)-1])
		v, err := scope.lookup(ref)
		if err != nil {
			if outerErr == nil {
				outerErr = &TemplateError{Ref: ref, Message: err.Error()}
			}
			return match
		}
		return fmt.Sprint(v)
	})
	if outerErr != nil {
		return "", outerErr
	}
	return out, nil
}

// resolveValue recurses through strings, slices, and maps, resolving
// placeholders anywhere one appears. Other value kinds pass through
// unchanged.
func resolveValue(v any, scope *resolveScope) (any, error) {
	switch t := v.(type) {
	case string:
		return resolveString(t, scope)
	case []any:
		out := make([]any, len(t))
		for i, elem := range t {
			resolved, err := resolveValue(elem, scope)
			if err != nil {
				return nil, err
			}
			out[i] = resolved
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, elem := range t {
			resolved, err := resolveValue(elem, scope)
			if err != nil {
				return nil, err
			}
			out[k] = resolved
		}
		return out, nil
	default:
		return v, nil
	}
}

// resolveDefinition returns a copy of def with every `with` parameter and
// every var default placeholder-resolved. Steps are resolved in declaration
// order, so a later step's `with` that references an earlier step sees that
// step's already-resolved value.
func resolveDefinition(def *Definition) (*Definition, error) {
	scope := newResolveScope(def)
	resolved := *def

	resolvedVars := make(map[string]any, len(def.Vars))
	for k, v := range def.Vars {
		rv, err := resolveValue(v, scope)
		if err != nil {
			return nil, err
		}
		resolvedVars[k] = rv
		scope.vars[k] = rv
	}
	resolved.Vars = resolvedVars

	resolvedSteps := make([]StepDef, len(def.Steps))
	for i, st := range def.Steps {
		rw, err := resolveValue(st.With, scope)
		if err != nil {
			return nil, err
		}
		withMap, _ := rw.(map[string]any)
		st.With = withMap
		resolvedSteps[i] = st
		scope.steps[st.ID] = withMap
	}
	resolved.Steps = resolvedSteps

	return &resolved, nil
}

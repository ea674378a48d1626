package pipeline

// Result is the immutable carrier threaded through every step. Every
// mutator returns a fresh Result; the receiver is left untouched. Fields
// other than the one a mutator targets are preserved exactly, including
// Continue — constructing a new Result from With* never resurrects a
// halted pipeline (see Continue's doc comment).
type Result struct {
	value    any
	context  map[string]any
	errors   map[string][]string
	cont     bool
	activate []string
}

// NewResult creates the initial Result a Pipeline call starts from.
// Continue defaults to true.
func NewResult(value any) Result {
	return Result{value: value, cont: true}
}

// Value returns the carried payload.
func (r Result) Value() any { return r.value }

// Context returns the accumulated context map. Callers must not mutate the
// returned map; treat it as read-only.
func (r Result) Context() map[string]any { return r.context }

// ContextValue returns a single context entry and whether it was present.
func (r Result) ContextValue(key string) (any, bool) {
	v, ok := r.context[key]
	return v, ok
}

// Errors returns the accumulated error map, keyed by category. Callers
// must not mutate the returned map.
func (r Result) Errors() map[string][]string { return r.errors }

// HasErrors reports whether any category has at least one message.
func (r Result) HasErrors() bool {
	for _, msgs := range r.errors {
		if len(msgs) > 0 {
			return true
		}
	}
	return false
}

// Continuing reports whether the scheduler should keep dispatching steps
// after this Result.
func (r Result) Continuing() bool { return r.cont }

// ActivatedSteps returns the steps this Result requested be activated,
// in the order they were requested. Duplicates are not deduplicated here;
// the scheduler deduplicates against its own activation set (§4.3).
func (r Result) ActivatedSteps() []string { return r.activate }

// WithContext returns a copy with key=value added or overwritten in the
// context map. O(size of context).
func (r Result) WithContext(key string, value any) Result {
	next := r.clone()
	if next.context == nil {
		next.context = make(map[string]any, 1)
	}
	next.context[key] = value
	return next
}

// WithError returns a copy with msg appended to the message sequence under
// key, creating the sequence if absent.
func (r Result) WithError(key, msg string) Result {
	next := r.clone()
	if next.errors == nil {
		next.errors = make(map[string][]string, 1)
	}
	existing := next.errors[key]
	appended := make([]string, len(existing)+1)
	copy(appended, existing)
	appended[len(existing)] = msg
	next.errors[key] = appended
	return next
}

// Continue returns a copy with the value replaced and the Continue flag
// preserved exactly as it was. This is deliberately NOT a resume: if the
// receiver is already halted, the copy remains halted. Resurrecting a
// halted Result is only possible by building a fresh one with NewResult.
func (r Result) Continue(value any) Result {
	next := r.clone()
	next.value = value
	return next
}

// Halt returns a copy with Continue set to false. If v is non-nil, the
// value is also replaced; otherwise the existing value is preserved.
func (r Result) Halt(v any) Result {
	next := r.clone()
	next.cont = false
	if v != nil {
		next.value = v
	}
	return next
}

// Activate returns a copy with names appended to the pending activation
// list. Duplicates are tolerated here; the scheduler is responsible for
// deduplication and for rejecting unknown or non-optional names.
func (r Result) Activate(names ...string) Result {
	if len(names) == 0 {
		return r
	}
	next := r.clone()
	next.activate = append(append([]string{}, next.activate...), names...)
	return next
}

// clone performs a shallow copy: the context/error maps are copied so
// later mutation through one Result can never be observed through another,
// but the values they hold are shared.
func (r Result) clone() Result {
	next := Result{
		value: r.value,
		cont:  r.cont,
	}
	if r.context != nil {
		next.context = make(map[string]any, len(r.context))
		for k, v := range r.context {
			next.context[k] = v
		}
	}
	if r.errors != nil {
		next.errors = make(map[string][]string, len(r.errors))
		for k, v := range r.errors {
			cp := make([]string, len(v))
			copy(cp, v)
			next.errors[k] = cp
		}
	}
	if len(r.activate) > 0 {
		next.activate = append([]string{}, r.activate...)
	}
	return next
}

package pipeline

// foldMiddleware composes a chain of middleware around fn. Registration
// order defines application order: middleware declared later wraps
// earlier, i.e. it is innermost (§4.5). For middlewares M1 then M2
// registered in that order, the effective callable is M1(M2(step))
// (§8 Testable property 7), which this fold produces by walking the
// slice in reverse and wrapping fn with each middleware in turn, so the
// first-registered middleware ends up applied last (outermost).
func foldMiddleware(fn StepFn, chain []Middleware) StepFn {
	wrapped := fn
	for i := len(chain) - 1; i >= 0; i-- {
		wrapped = chain[i](wrapped)
	}
	return wrapped
}

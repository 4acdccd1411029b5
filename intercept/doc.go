// Package intercept implements the two interceptor variants and the factory
// that selects between them.
//
//   - CallInterceptor wraps a single callable. Every completed invocation is
//     recorded as a core.Fingerprint; a calibration predicate classifies
//     results into misfires, recomputed over the whole log whenever the
//     predicate changes.
//   - CompositeInterceptor wraps a core.Composite. Callable and composite
//     members are wrapped lazily on first read (at most once per member
//     name) and written back into the composite's slot; primitive members are
//     only observed.
//   - Factory dispatches a raw value to the matching variant and passes every
//     other kind through unchanged.
//
// Interception is explicit: callers substitute the returned interceptor for
// the original value. All interceptors are safe for concurrent use.
package intercept

package intercept

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/hupe1980/autopsy/core"
)

// CallInterceptor wraps a single callable and records one fingerprint per
// completed invocation.
//
// Invariants:
//   - fingerprints are kept in call order
//   - misfires is exactly the subsequence of fingerprints failing the active
//     predicate; it is rebuilt from the full log on every Calibrate
//
// Predicates run while the interceptor's lock is held and must not call back
// into the same interceptor.
type CallInterceptor struct {
	id   string
	name string
	opts Options

	mu           sync.Mutex
	fn           core.Func
	predicate    core.Predicate
	fingerprints []core.Fingerprint
	misfires     []core.Fingerprint
}

// NewCallInterceptor wraps fn.
func NewCallInterceptor(fn core.Func, optFns ...func(o *Options)) *CallInterceptor {
	opts := buildOptions(optFns)
	name := opts.Name
	if name == "" {
		name = funcName(fn)
	}
	return &CallInterceptor{id: core.NewID(), name: name, opts: opts, fn: fn}
}

// ID returns the interceptor's unique identifier.
func (c *CallInterceptor) ID() string { return c.id }

// Kind always returns core.KindCallable.
func (c *CallInterceptor) Kind() core.Kind { return core.KindCallable }

// Name returns the label used in logs and reports.
func (c *CallInterceptor) Name() string { return c.name }

// Func returns a core.Func routing through the interceptor, for call sites
// that expect a plain callable.
func (c *CallInterceptor) Func() core.Func { return c.Call }

// Call executes the wrapped callable with ctx and args, measuring wall clock
// and process CPU time around it. Errors and panics from the callable reach
// the caller unchanged and leave no fingerprint behind.
func (c *CallInterceptor) Call(ctx context.Context, args ...any) (any, error) {
	c.mu.Lock()
	fn := c.fn
	c.mu.Unlock()

	cpuStart := c.opts.CPUClock()
	start := time.Now()
	result, err := fn(ctx, args...)
	elapsed := time.Since(start)
	cpu := c.opts.CPUClock().Sub(cpuStart)

	if err != nil {
		c.opts.Logger.Debug("intercept.call.failed", "callable", c.name, "duration", elapsed, "error", err.Error())
		return result, err
	}

	fp := core.Fingerprint{Args: slices.Clone(args), Result: result, Duration: elapsed, CPU: cpu}

	c.mu.Lock()
	c.fingerprints = append(c.fingerprints, fp)
	misfire := c.predicate != nil && !c.check(c.predicate, result)
	if misfire {
		c.misfires = append(c.misfires, fp)
	}
	c.mu.Unlock()

	c.opts.Logger.Debug("intercept.call.complete", "callable", c.name, "duration", elapsed, "cpu", cpu.Total())
	if misfire {
		c.opts.Logger.Warn("intercept.misfire", "callable", c.name, "result", result)
	}
	return result, nil
}

// Calibrate installs p as the active predicate and reclassifies every
// recorded fingerprint against it. A nil predicate removes calibration.
func (c *CallInterceptor) Calibrate(p core.Predicate) {
	c.mu.Lock()
	c.predicate = p
	c.misfires = nil
	if p != nil {
		for _, fp := range c.fingerprints {
			if !c.check(p, fp.Result) {
				c.misfires = append(c.misfires, fp)
			}
		}
	}
	total, misfires := len(c.fingerprints), len(c.misfires)
	c.mu.Unlock()

	c.opts.Logger.Debug("intercept.calibrate", "callable", c.name, "fingerprints", total, "misfires", misfires)
}

// Calibrated reports whether a predicate is installed.
func (c *CallInterceptor) Calibrated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.predicate != nil
}

// Dump hands the current misfires and fingerprints to sink and resets both
// to empty. The predicate stays installed. A nil sink just drains.
func (c *CallInterceptor) Dump(sink func(misfires, fingerprints []core.Fingerprint)) {
	c.mu.Lock()
	misfires, fingerprints := c.misfires, c.fingerprints
	c.misfires, c.fingerprints = nil, nil
	c.mu.Unlock()

	if sink != nil {
		sink(nonNil(misfires), nonNil(fingerprints))
	}
}

// Summary returns the current state without clearing it.
func (c *CallInterceptor) Summary() core.CallSummary {
	c.mu.Lock()
	defer c.mu.Unlock()
	return core.CallSummary{
		ID:           c.id,
		Name:         c.name,
		Misfires:     nonNil(slices.Clone(c.misfires)),
		Fingerprints: nonNil(slices.Clone(c.fingerprints)),
	}
}

// rebind points the interceptor at a new callable, keeping its log.
func (c *CallInterceptor) rebind(fn core.Func) {
	c.mu.Lock()
	c.fn = fn
	c.mu.Unlock()
}

// check evaluates p, treating a panicking predicate as a failed check.
func (c *CallInterceptor) check(p core.Predicate, result any) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			c.opts.Logger.Warn("intercept.calibrate.panic", "callable", c.name, "panic", r)
			ok = false
		}
	}()
	return p(result)
}

func nonNil(fps []core.Fingerprint) []core.Fingerprint {
	if fps == nil {
		return []core.Fingerprint{}
	}
	return fps
}

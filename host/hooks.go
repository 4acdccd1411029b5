package host

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/hupe1980/autopsy/logging"
)

// HookType names the lifecycle point a hook runs at.
type HookType string

const (
	// HookCompletion runs when the program body returns normally.
	HookCompletion HookType = "completion"

	// HookForcedExit runs when the process is asked to exit, explicitly or
	// by signal.
	HookForcedExit HookType = "forced_exit"

	// HookFatal runs for an unrecoverable synchronous failure.
	HookFatal HookType = "fatal"

	// HookUnobserved runs, before completion or forced exit, for each
	// background task that failed without anyone calling its Err.
	HookUnobserved HookType = "unobserved"
)

// HookContext carries the signal specific data to hooks. Only the fields
// relevant to Type are populated.
type HookContext struct {
	Type HookType

	// Code is the exit status (completion, forced exit).
	Code int

	// Err and Stack describe a fatal failure.
	Err   error
	Stack []byte

	// Reason and Handle describe an unobserved asynchronous failure.
	Reason any
	Handle any
}

// Hook is a lifecycle callback.
//
// Hooks run synchronously on the goroutine that raised the signal, in
// registration order. A hook returning an error does not stop the hooks
// after it.
type Hook interface {
	// Type returns the lifecycle point this hook handles.
	Type() HookType

	// Execute performs the hook logic.
	Execute(ctx context.Context, hc *HookContext) error
}

// FunctionHook wraps a function as a Hook.
type FunctionHook struct {
	hookType HookType
	fn       func(ctx context.Context, hc *HookContext) error
}

// NewFunctionHook creates a function based hook.
func NewFunctionHook(hookType HookType, fn func(ctx context.Context, hc *HookContext) error) *FunctionHook {
	return &FunctionHook{hookType: hookType, fn: fn}
}

// Type returns the hook type.
func (h *FunctionHook) Type() HookType { return h.hookType }

// Execute calls the wrapped function.
func (h *FunctionHook) Execute(ctx context.Context, hc *HookContext) error {
	if h.fn == nil {
		return nil
	}
	return h.fn(ctx, hc)
}

// LoggingHook logs every signal of its type.
type LoggingHook struct {
	hookType HookType
	logger   logging.Logger
}

// NewLoggingHook creates a hook logging signals of hookType to logger.
func NewLoggingHook(hookType HookType, logger logging.Logger) *LoggingHook {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &LoggingHook{hookType: hookType, logger: logger}
}

// Type returns the hook type.
func (h *LoggingHook) Type() HookType { return h.hookType }

// Execute logs the signal.
func (h *LoggingHook) Execute(_ context.Context, hc *HookContext) error {
	switch hc.Type {
	case HookFatal:
		msg := "<nil>"
		if hc.Err != nil {
			msg = hc.Err.Error()
		}
		h.logger.Error("host.fatal", "error", msg)
	case HookUnobserved:
		h.logger.Warn("host.unobserved", "reason", fmt.Sprint(hc.Reason))
	default:
		h.logger.Info("host."+string(hc.Type), "code", hc.Code)
	}
	return nil
}

// Registry stores hooks by type. It is safe for concurrent use; hooks may
// register further hooks while running.
type Registry struct {
	mu    sync.RWMutex
	hooks map[HookType][]Hook
}

// NewRegistry creates an empty hook registry.
func NewRegistry() *Registry {
	return &Registry{hooks: make(map[HookType][]Hook)}
}

// Register adds a hook. Hooks of one type run in registration order.
func (r *Registry) Register(h Hook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks[h.Type()] = append(r.hooks[h.Type()], h)
}

// Count returns the number of hooks registered for hookType.
func (r *Registry) Count(hookType HookType) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.hooks[hookType])
}

// Execute runs every hook registered for hc.Type and joins their errors.
func (r *Registry) Execute(ctx context.Context, hc *HookContext) error {
	r.mu.RLock()
	hooks := append([]Hook(nil), r.hooks[hc.Type]...)
	r.mu.RUnlock()

	var errs []error
	for _, h := range hooks {
		if err := h.Execute(ctx, hc); err != nil {
			errs = append(errs, fmt.Errorf("%s hook: %w", hc.Type, err))
		}
	}
	return errors.Join(errs...)
}

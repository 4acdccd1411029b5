package host

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"sync/atomic"
	"syscall"

	"github.com/hupe1980/autopsy/core"
	"github.com/hupe1980/autopsy/logging"
)

// Options configures a ProcessHost.
type Options struct {
	// Logger receives host events. Defaults to logging.NoOpLogger.
	Logger logging.Logger

	// ExitFunc terminates the process. Defaults to os.Exit; tests replace it.
	ExitFunc func(code int)

	// Signals that trigger a forced exit while Listen is active.
	Signals []os.Signal

	// Stderr receives the failure banner for fatal failures.
	Stderr io.Writer
}

// ProcessHost is the core.Host for a Go program. See the package
// documentation for how each signal category is raised.
type ProcessHost struct {
	*Registry
	opts    Options
	exiting atomic.Bool
	failed  failedTasks
}

var _ core.Host = (*ProcessHost)(nil)

// New creates a ProcessHost.
func New(optFns ...func(o *Options)) *ProcessHost {
	opts := Options{
		Logger:   logging.NoOpLogger{},
		ExitFunc: os.Exit,
		Signals:  []os.Signal{os.Interrupt, syscall.SIGTERM},
		Stderr:   os.Stderr,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	if opts.ExitFunc == nil {
		opts.ExitFunc = os.Exit
	}
	if opts.Stderr == nil {
		opts.Stderr = io.Discard
	}
	return &ProcessHost{Registry: NewRegistry(), opts: opts}
}

// OnCompletion registers fn for graceful completion.
func (h *ProcessHost) OnCompletion(fn func(code int)) {
	h.Register(NewFunctionHook(HookCompletion, func(_ context.Context, hc *HookContext) error {
		fn(hc.Code)
		return nil
	}))
}

// OnForcedExit registers fn for forced exits.
func (h *ProcessHost) OnForcedExit(fn func(code int)) {
	h.Register(NewFunctionHook(HookForcedExit, func(_ context.Context, hc *HookContext) error {
		fn(hc.Code)
		return nil
	}))
}

// OnFatal registers fn for unrecoverable synchronous failures.
func (h *ProcessHost) OnFatal(fn func(err error, stack []byte)) {
	h.Register(NewFunctionHook(HookFatal, func(_ context.Context, hc *HookContext) error {
		fn(hc.Err, hc.Stack)
		return nil
	}))
}

// OnUnobserved registers fn for unobserved asynchronous failures.
func (h *ProcessHost) OnUnobserved(fn func(reason any, handle any)) {
	h.Register(NewFunctionHook(HookUnobserved, func(_ context.Context, hc *HookContext) error {
		fn(hc.Reason, hc.Handle)
		return nil
	}))
}

// Exiting reports whether Exit has been called.
func (h *ProcessHost) Exiting() bool { return h.exiting.Load() }

// Exit fires the forced exit hooks and terminates the process with code.
// Only the first call does anything: a call made while an exit is already
// in progress (for example from inside a forced exit hook) returns
// immediately and the first call's code wins.
func (h *ProcessHost) Exit(code int) {
	if !h.exiting.CompareAndSwap(false, true) {
		return
	}
	h.flushUnobserved()
	h.fire(&HookContext{Type: HookForcedExit, Code: code})
	h.opts.ExitFunc(code)
}

// Run executes main as the program body, with signal handling active. A
// normal return fires the completion hooks with code 0. A returned error or
// a panic is an unrecoverable failure: the fatal hooks fire, then the
// process exits with status 1 unless a hook already started an exit.
func (h *ProcessHost) Run(main func(ctx context.Context) error) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stop := h.Listen(ctx)
	defer stop()

	if err, stack := h.runMain(ctx, main); err != nil {
		h.Fail(err, stack)
		return
	}
	h.flushUnobserved()
	h.fire(&HookContext{Type: HookCompletion, Code: 0})
	h.Exit(0)
}

func (h *ProcessHost) runMain(ctx context.Context, main func(ctx context.Context) error) (err error, stack []byte) {
	defer func() {
		if r := recover(); r != nil {
			err, stack = panicError(r), debug.Stack()
		}
	}()
	if err := main(ctx); err != nil {
		return err, debug.Stack()
	}
	return nil, nil
}

// Fail raises an unrecoverable synchronous failure: the failure banner is
// written to Stderr, the fatal hooks fire, then Exit(1) runs.
func (h *ProcessHost) Fail(err error, stack []byte) {
	fmt.Fprintf(h.opts.Stderr, "fatal: %v\n\n%s\n", err, stack)
	h.fire(&HookContext{Type: HookFatal, Err: err, Stack: stack})
	h.Exit(1)
}

// Listen turns the configured signals into forced exits with status
// 128+signal number until ctx is done or stop is called.
func (h *ProcessHost) Listen(ctx context.Context) (stop func()) {
	if len(h.opts.Signals) == 0 {
		return func() {}
	}
	ctx, cancel := context.WithCancel(ctx)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, h.opts.Signals...)
	go func() {
		select {
		case sig := <-sigCh:
			h.opts.Logger.Info("host.signal", "signal", sig.String())
			h.Exit(exitCodeFor(sig))
		case <-ctx.Done():
		}
	}()
	return func() {
		signal.Stop(sigCh)
		cancel()
	}
}

func (h *ProcessHost) fire(hc *HookContext) {
	if err := h.Execute(context.Background(), hc); err != nil {
		h.opts.Logger.Error("host.hook.failed", "hook", string(hc.Type), "error", err.Error())
	}
}

func exitCodeFor(sig os.Signal) int {
	if s, ok := sig.(syscall.Signal); ok {
		return 128 + int(s)
	}
	return 1
}

func panicError(r any) error {
	if err, ok := r.(error); ok {
		return fmt.Errorf("panic: %w", err)
	}
	return fmt.Errorf("panic: %v", r)
}

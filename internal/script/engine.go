package script

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dop251/goja"

	"github.com/GriffinCanCode/AgentShell/internal/infrastructure/logging"
)

// ConsoleFunc receives console output produced by scripts.
type ConsoleFunc func(level, message string)

// Config controls engine behavior.
type Config struct {
	// EvalTimeout bounds a single Eval call. Zero means no limit.
	EvalTimeout time.Duration

	// Console receives script console output. Defaults to the logger.
	Console ConsoleFunc
}

// Engine wraps a single goja runtime. The runtime itself is not
// goroutine-safe: every touch from outside the owning loop must go
// through Do, which shares the lock Eval holds.
type Engine struct {
	rt  *goja.Runtime
	cfg Config
	log *logging.Logger

	mu sync.Mutex
}

// New creates an engine with hardened globals.
func New(cfg Config, log *logging.Logger) (*Engine, error) {
	e := &Engine{
		rt:  goja.New(),
		cfg: cfg,
		log: log.Component("script"),
	}
	if e.cfg.Console == nil {
		e.cfg.Console = e.logConsole
	}
	if err := e.setupGlobals(); err != nil {
		return nil, err
	}
	return e, nil
}

// Runtime exposes the underlying runtime for components that attach
// globals at boot. Callers must hold the engine via Do when the shell
// is already running.
func (e *Engine) Runtime() *goja.Runtime {
	return e.rt
}

// Do runs fn while holding the engine lock. This is how the control
// plane touches the namespace without racing the REPL.
func (e *Engine) Do(fn func(rt *goja.Runtime)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.rt)
}

// Eval executes src with a watchdog that interrupts the runtime when
// the timeout or the context expires.
func (e *Engine) Eval(ctx context.Context, src string) (goja.Value, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	done := make(chan struct{})
	defer close(done)

	var timeout <-chan time.Time
	if e.cfg.EvalTimeout > 0 {
		timer := time.NewTimer(e.cfg.EvalTimeout)
		defer timer.Stop()
		timeout = timer.C
	}

	go func() {
		select {
		case <-timeout:
			e.rt.Interrupt("eval timeout exceeded")
		case <-ctx.Done():
			e.rt.Interrupt("cancelled")
		case <-done:
		}
	}()

	val, err := e.rt.RunString(src)
	if err != nil {
		// Leave the runtime usable after an interrupt.
		if _, ok := err.(*goja.InterruptedError); ok {
			e.rt.ClearInterrupt()
			return nil, fmt.Errorf("eval interrupted: %w", err)
		}
		return nil, err
	}
	return val, nil
}

// Export converts a goja value to a plain Go value, mapping
// null/undefined to nil.
func Export(val goja.Value) interface{} {
	if val == nil || goja.IsUndefined(val) || goja.IsNull(val) {
		return nil
	}
	return val.Export()
}

// setupGlobals removes host-environment globals scripts must not see
// and installs console.
func (e *Engine) setupGlobals() error {
	e.rt.Set("require", goja.Undefined())
	e.rt.Set("process", goja.Undefined())
	e.rt.Set("module", goja.Undefined())
	e.rt.Set("exports", goja.Undefined())

	console := e.rt.NewObject()
	for _, level := range []string{"log", "info", "warn", "error"} {
		if err := console.Set(level, e.makeConsoleFunc(level)); err != nil {
			return err
		}
	}
	return e.rt.Set("console", console)
}

// makeConsoleFunc creates one console method.
func (e *Engine) makeConsoleFunc(level string) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		var msg string
		for i, arg := range call.Arguments {
			if i > 0 {
				msg += " "
			}
			msg += arg.String()
		}
		e.cfg.Console(level, msg)
		return goja.Undefined()
	}
}

func (e *Engine) logConsole(level, message string) {
	switch level {
	case "error":
		e.log.Error(message)
	case "warn":
		e.log.Warn(message)
	default:
		e.log.Info(message)
	}
}

// Close releases the runtime.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rt = nil
	return nil
}

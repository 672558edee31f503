// Package lifecycle supervises the render work of dwm-status. It races the
// work against termination signals and writes exactly one farewell line to
// the sink when either side finishes.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"github.com/opd-ai/go-dwmstatus/internal/logging"
	"github.com/opd-ai/go-dwmstatus/internal/sink"
)

// DefaultShutdownTimeout bounds the wait for the work to return after it
// has been cancelled.
const DefaultShutdownTimeout = 2 * time.Second

// DefaultName prefixes the farewell lines.
const DefaultName = "dwm-status"

// Controller owns the shutdown sequence.
type Controller struct {
	// Sink receives the farewell line. Required.
	Sink *sink.Serial
	// Name identifies the daemon in farewell lines. Defaults to DefaultName.
	Name string
	// ShutdownTimeout defaults to DefaultShutdownTimeout.
	ShutdownTimeout time.Duration
	// Logger defaults to a discarding logger.
	Logger logging.Logger
}

// Outcome describes how Run ended.
type Outcome struct {
	// Signal is the termination signal received, or nil when the work
	// returned on its own.
	Signal os.Signal
	// Err is the work's error. A work function cancelled after a signal
	// usually reports context.Canceled here.
	Err error
	// Farewell is the line written to the sink.
	Farewell string
	// TimedOut is set when the work did not return within the shutdown
	// timeout after a signal.
	TimedOut bool
}

// ExitCode maps the outcome to a process exit status: 0 after a signal or
// a clean return, 1 when the work failed on its own.
func (o Outcome) ExitCode() int {
	if o.Signal != nil {
		return 0
	}
	if o.Err != nil && !errors.Is(o.Err, context.Canceled) {
		return 1
	}
	return 0
}

// Run starts work and waits for it to return or for a value on signals,
// whichever comes first. The sink is sealed with the farewell line before
// Run returns, so no render from work can follow it. After a signal, work's
// context is cancelled and Run waits at most ShutdownTimeout for it.
func (c *Controller) Run(ctx context.Context, signals <-chan os.Signal, work func(context.Context) error) Outcome {
	logger := c.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	timeout := c.ShutdownTimeout
	if timeout <= 0 {
		timeout = DefaultShutdownTimeout
	}

	workCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- work(workCtx)
	}()

	var out Outcome
	select {
	case err := <-done:
		out.Err = err
		out.Farewell = c.name() + ": done."
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("work failed", "err", err)
		} else {
			logger.Info("work finished")
		}
		c.seal(logger, out.Farewell)

	case sig := <-signals:
		out.Signal = sig
		out.Farewell = Farewell(c.name(), sig)
		logger.Info("termination signal received", "signal", SignalName(sig))

		// Seal first so a render racing with cancellation is rejected.
		c.seal(logger, out.Farewell)
		cancel()

		timer := time.NewTimer(timeout)
		defer timer.Stop()
		select {
		case out.Err = <-done:
		case <-timer.C:
			out.TimedOut = true
			logger.Warn("work did not stop in time", "timeout", timeout)
		}
	}
	return out
}

func (c *Controller) name() string {
	if c.Name == "" {
		return DefaultName
	}
	return c.Name
}

func (c *Controller) seal(logger logging.Logger, text string) {
	if c.Sink == nil {
		return
	}
	if c.Sink.Sealed() {
		logger.Debug("sink already sealed, farewell skipped", "farewell", text)
		return
	}
	if err := c.Sink.Seal(text); err != nil {
		logger.Debug("farewell not displayed", "err", err)
	}
}

// Farewell renders the line shown after sig, e.g.
// "dwm-status stopped with signal INT.".
func Farewell(name string, sig os.Signal) string {
	return fmt.Sprintf("%s stopped with signal %s.", name, SignalName(sig))
}

// SignalName returns the short upper-case name of sig without the SIG
// prefix. Signals unknown to the platform fall back to sig.String().
func SignalName(sig os.Signal) string {
	if sig == nil {
		return "UNKNOWN"
	}
	if s, ok := sig.(syscall.Signal); ok {
		if name := unix.SignalName(s); name != "" {
			return strings.TrimPrefix(name, "SIG")
		}
	}
	return sig.String()
}

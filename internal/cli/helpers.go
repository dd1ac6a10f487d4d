package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/aretw0/storechat/internal/config"
	"github.com/aretw0/storechat/internal/logging"
	"github.com/aretw0/storechat/pkg/domain"
)

// SignalContext wraps a context and captures the signal that cancelled it.
type SignalContext struct {
	context.Context
	Cancel func()
	start  sync.Once
	stop   sync.Once
	sigCh  chan os.Signal
	sigVal os.Signal
	mu     sync.Mutex
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
// It acts as a drop-in replacement for signal.NotifyContext but allows retrieving the signal.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		Cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}

	sc.start.Do(func() {
		signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			select {
			case sig := <-sc.sigCh:
				sc.mu.Lock()
				sc.sigVal = sig
				sc.mu.Unlock()
				sc.Cancel()
			case <-sc.Context.Done():
			}
			sc.stop.Do(func() {
				signal.Stop(sc.sigCh)
			})
		}()
	})

	return sc
}

// Signal returns the signal that caused the context to be cancelled, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sigVal
}

// createLogger configures the application logger from the log section.
// debug forces the debug level.
func createLogger(cfg config.Log, debug bool) *slog.Logger {
	level := logging.ParseLevel(cfg.Level)
	if debug {
		level = slog.LevelDebug
	}
	return logging.New(level, logging.Format(cfg.Format))
}

func createDebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTransition: func(ctx context.Context, e *domain.TransitionEvent) {
			logger.Debug("Transition", "user", e.UserID, "from", e.From, "to", e.To)
		},
		OnCheckoutStep: func(ctx context.Context, e *domain.CheckoutEvent) {
			if e.Step == "" {
				logger.Debug("Checkout ended", "user", e.UserID)
				return
			}
			logger.Debug("Checkout step", "user", e.UserID, "step", e.Step)
		},
		OnOrderFinalized: func(ctx context.Context, e *domain.OrderEvent) {
			logger.Info("Order finalized",
				"user", e.UserID,
				"order_id", e.Order.ID,
				"lines", len(e.Order.Lines),
				"total", e.Order.Totals.Total,
			)
		},
	}
}

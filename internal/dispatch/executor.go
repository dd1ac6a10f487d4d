package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/storechat/internal/logging"
	"github.com/aretw0/storechat/internal/metrics"
	"github.com/aretw0/storechat/internal/present"
	"github.com/aretw0/storechat/pkg/domain"
	"github.com/aretw0/storechat/pkg/ports"
	"golang.org/x/sync/errgroup"
)

// DefaultNotifyTimeout bounds the attendant notification fan-out.
const DefaultNotifyTimeout = 10 * time.Second

// Executor delivers the actions decided by the state machines.
// Delivery is best-effort: failures are logged and counted, never returned.
type Executor struct {
	sender        ports.Sender
	presenter     *present.Presenter
	notifiers     []ports.Notifier
	notifyTimeout time.Duration
	metrics       *metrics.Metrics
	logger        *slog.Logger
}

// ExecutorOption configures the Executor.
type ExecutorOption func(*Executor)

// WithNotifiers registers the attendant notifiers run on ActionNotify.
func WithNotifiers(n ...ports.Notifier) ExecutorOption {
	return func(e *Executor) { e.notifiers = append(e.notifiers, n...) }
}

// WithNotifyTimeout overrides DefaultNotifyTimeout.
func WithNotifyTimeout(d time.Duration) ExecutorOption {
	return func(e *Executor) {
		if d > 0 {
			e.notifyTimeout = d
		}
	}
}

// WithExecutorMetrics records delivery failures.
func WithExecutorMetrics(m *metrics.Metrics) ExecutorOption {
	return func(e *Executor) { e.metrics = m }
}

// WithExecutorLogger configures a logger for the Executor.
func WithExecutorLogger(logger *slog.Logger) ExecutorOption {
	return func(e *Executor) { e.logger = logger }
}

// NewExecutor creates an Executor over sender.
func NewExecutor(sender ports.Sender, opts ...ExecutorOption) *Executor {
	e := &Executor{
		sender:        sender,
		notifyTimeout: DefaultNotifyTimeout,
		logger:        logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.presenter = present.New(sender, present.WithLogger(e.logger))
	return e
}

// Execute performs actions in order.
func (e *Executor) Execute(ctx context.Context, actions []domain.Action) {
	for _, a := range actions {
		switch a.Type {
		case domain.ActionSendText:
			text, _ := a.Payload.(string)
			if err := e.sender.SendText(ctx, a.To, text); err != nil {
				e.failed("text", a.To, err)
			}

		case domain.ActionSendImage:
			img, _ := a.Payload.(domain.Image)
			e.sendImage(ctx, a.To, img)

		case domain.ActionPresent:
			list, _ := a.Payload.(domain.ChoiceList)
			fellBack, err := e.presenter.Present(ctx, a.To, list)
			if fellBack {
				e.metrics.DeliveryFailed("list")
			}
			if err != nil {
				e.failed("text", a.To, err)
			}

		case domain.ActionNotify:
			order, _ := a.Payload.(domain.Order)
			e.notify(ctx, order)

		default:
			e.logger.Warn("Unknown action type", "type", a.Type, "user", a.To)
		}
	}
}

// sendImage degrades to the caption as plain text when the image cannot be sent.
func (e *Executor) sendImage(ctx context.Context, to string, img domain.Image) {
	err := e.sender.SendImage(ctx, to, img.URL, img.Caption)
	if err == nil {
		return
	}
	e.failed("image", to, err)
	if img.Caption == "" {
		return
	}
	if err := e.sender.SendText(ctx, to, img.Caption); err != nil {
		e.failed("text", to, err)
	}
}

// notify fans the order out to every notifier. It detaches from the turn's
// cancellation but stays bounded by notifyTimeout.
func (e *Executor) notify(ctx context.Context, order domain.Order) {
	if len(e.notifiers) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.notifyTimeout)
	defer cancel()

	var g errgroup.Group
	for _, n := range e.notifiers {
		g.Go(func() error {
			if err := n.Notify(ctx, order); err != nil {
				e.failed("notify", order.UserID, err)
				return fmt.Errorf("notifier %T: %w", n, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		e.logger.Debug("Attendant notification incomplete", "order", order.ID, "err", err)
	}
}

func (e *Executor) failed(kind, to string, err error) {
	e.metrics.DeliveryFailed(kind)
	e.logger.Warn("Delivery failed", "kind", kind, "user", to, "err", err)
}

// Package sendgrid e-mails finalized orders to the store through SendGrid.
package sendgrid

import (
	"context"
	"fmt"
	"html"
	"log/slog"

	"github.com/aretw0/storechat/pkg/domain"
	"github.com/aretw0/storechat/pkg/ports"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

const sendEndpoint = "/v3/mail/send"

// Config holds the SendGrid credentials and addresses.
type Config struct {
	APIKey   string
	From     string
	FromName string
	To       string
}

// Notifier implements ports.Notifier.
type Notifier struct {
	cfg    Config
	format func(domain.Order) string
	client *sendgrid.Client
	logger *slog.Logger
}

var _ ports.Notifier = (*Notifier)(nil)

// Option configures a Notifier.
type Option func(*Notifier)

// WithHost points the client at another API host (tests).
func WithHost(host string) Option {
	return func(n *Notifier) {
		req := sendgrid.GetRequest(n.cfg.APIKey, sendEndpoint, host)
		req.Method = "POST"
		n.client = &sendgrid.Client{Request: req}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(n *Notifier) {
		n.logger = logger
	}
}

// New creates a notifier. format renders the order body.
func New(cfg Config, format func(domain.Order) string, opts ...Option) *Notifier {
	n := &Notifier{
		cfg:    cfg,
		format: format,
		client: sendgrid.NewSendClient(cfg.APIKey),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

func (n *Notifier) Notify(ctx context.Context, order domain.Order) error {
	if n.cfg.From == "" || n.cfg.To == "" {
		return fmt.Errorf("%w: sendgrid: from and to addresses are required", domain.ErrDelivery)
	}

	body := n.format(order)
	subject := fmt.Sprintf("New order from %s", order.Customer.Name)
	msg := mail.NewSingleEmail(
		mail.NewEmail(n.cfg.FromName, n.cfg.From),
		subject,
		mail.NewEmail("", n.cfg.To),
		body,
		fmt.Sprintf("<pre>%s</pre>", html.EscapeString(body)),
	)

	resp, err := n.client.SendWithContext(ctx, msg)
	if err != nil {
		return fmt.Errorf("%w: sendgrid: %w", domain.ErrDelivery, err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("%w: sendgrid status %d: %s", domain.ErrDelivery, resp.StatusCode, resp.Body)
	}

	n.logger.Info("Order e-mailed", "order_id", order.ID, "to", n.cfg.To, "status", resp.StatusCode)
	return nil
}

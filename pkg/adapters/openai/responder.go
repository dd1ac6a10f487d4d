// Package openai implements the natural-language responder on the OpenAI
// chat completions API.
package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/aretw0/storechat/pkg/domain"
	"github.com/aretw0/storechat/pkg/ports"
	"github.com/cenkalti/backoff/v5"
	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	DefaultModel       = "gpt-4o-mini"
	DefaultMaxTokens   = 500
	DefaultTemperature = 0.7
	DefaultMaxRetries  = 3
	DefaultHistorySize = 20
)

// Config holds the model settings.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	// Temperature is sent as given; nil means DefaultTemperature.
	Temperature *float64
	MaxRetries  int
	// HistorySize caps the remembered messages per user (user and assistant
	// messages both count).
	HistorySize int
}

// Responder implements ports.Responder.
type Responder struct {
	client  oai.Client
	cfg     Config
	profile Profile
	catalog ports.Catalog
	logger  *slog.Logger
	backoff func() backoff.BackOff

	mu      sync.Mutex
	history map[string][]turn
}

var _ ports.Responder = (*Responder)(nil)

type turn struct {
	user      string
	assistant string
}

// Option configures a Responder.
type Option func(*Responder)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Responder) {
		r.logger = logger
	}
}

// WithBackOff overrides the retry schedule (tests use a zero backoff).
func WithBackOff(b func() backoff.BackOff) Option {
	return func(r *Responder) {
		r.backoff = b
	}
}

// WithHTTPClient sets the HTTP client used by the SDK.
func WithHTTPClient(c *http.Client) Option {
	return func(r *Responder) {
		r.client = newClient(r.cfg, option.WithHTTPClient(c))
	}
}

// New creates a responder. The catalog feeds the system prompt on every call.
func New(cfg Config, profile Profile, catalog ports.Catalog, opts ...Option) *Responder {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.Temperature == nil {
		t := DefaultTemperature
		cfg.Temperature = &t
	}
	if cfg.HistorySize <= 0 {
		cfg.HistorySize = DefaultHistorySize
	}

	r := &Responder{
		client:  newClient(cfg),
		cfg:     cfg,
		profile: profile,
		catalog: catalog,
		logger:  slog.New(slog.DiscardHandler),
		backoff: func() backoff.BackOff { return backoff.NewExponentialBackOff() },
		history: make(map[string][]turn),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func newClient(cfg Config, extra ...option.RequestOption) oai.Client {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		// Retries are owned by Generate.
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return oai.NewClient(append(opts, extra...)...)
}

// Generate answers free text. Transient API failures are retried with
// exponential backoff up to MaxRetries attempts; an exhausted budget returns
// the last error. The exchange is remembered only on success.
func (r *Responder) Generate(ctx context.Context, text, userID string, cart *domain.CartContext) (string, error) {
	system, err := BuildSystemPrompt(ctx, r.profile, r.catalog)
	if err != nil {
		return "", fmt.Errorf("build prompt: %w", err)
	}

	messages := []oai.ChatCompletionMessageParamUnion{oai.SystemMessage(system)}
	for _, t := range r.turns(userID) {
		messages = append(messages, oai.UserMessage(t.user), oai.AssistantMessage(t.assistant))
	}
	messages = append(messages, oai.UserMessage(WithCartContext(text, cart)))

	params := oai.ChatCompletionNewParams{
		Model:       oai.ChatModel(r.cfg.Model),
		Messages:    messages,
		MaxTokens:   oai.Int(int64(r.cfg.MaxTokens)),
		Temperature: oai.Float(*r.cfg.Temperature),
	}

	attempt := 0
	reply, err := backoff.Retry(ctx, func() (string, error) {
		attempt++
		resp, err := r.client.Chat.Completions.New(ctx, params)
		if err != nil {
			r.logger.Warn("Responder attempt failed", "attempt", attempt, "max", r.cfg.MaxRetries, "err", err)
			if !retryable(err) {
				return "", backoff.Permanent(err)
			}
			return "", err
		}
		if len(resp.Choices) == 0 {
			return "", nil
		}
		return strings.TrimSpace(resp.Choices[0].Message.Content), nil
	},
		backoff.WithBackOff(r.backoff()),
		backoff.WithMaxTries(uint(r.cfg.MaxRetries)),
	)
	if err != nil {
		return "", err
	}

	if reply != "" {
		r.remember(userID, turn{user: text, assistant: reply})
	}
	return reply, nil
}

// retryable reports whether an API error is worth another attempt.
func retryable(err error) bool {
	var apiErr *oai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= 500
	}
	return !errors.Is(err, context.Canceled)
}

func (r *Responder) turns(userID string) []turn {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]turn(nil), r.history[userID]...)
}

func (r *Responder) remember(userID string, t turn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	h := append(r.history[userID], t)
	if limit := r.cfg.HistorySize / 2; limit > 0 && len(h) > limit {
		h = h[len(h)-limit:]
	}
	r.history[userID] = h
}

// Forget drops a user's conversation history.
func (r *Responder) Forget(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.history, userID)
}

// Package gateway sends outbound messages through an HTTP messaging gateway.
//
// Every message is a JSON POST to {base}/messages authenticated with a bearer
// token. Images are fetched by the sender and forwarded inline, so the gateway
// never reaches back to the catalog's image host.
package gateway

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/storechat/pkg/domain"
	"github.com/aretw0/storechat/pkg/ports"
)

const (
	DefaultTimeout      = 10 * time.Second
	DefaultImageTimeout = 15 * time.Second

	// maxImageBytes bounds a fetched product image.
	maxImageBytes = 5 << 20
)

// Payload is the body posted to the gateway.
type Payload struct {
	To      string             `json:"to"`
	Type    string             `json:"type"`
	Text    string             `json:"text,omitempty"`
	Image   *Image             `json:"image,omitempty"`
	List    *domain.ChoiceList `json:"list,omitempty"`
	Caption string             `json:"caption,omitempty"`
}

// Image carries fetched image bytes.
type Image struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

// Sender implements ports.Sender against the gateway API.
type Sender struct {
	baseURL      string
	token        string
	client       *http.Client
	imageClient  *http.Client
	imageTimeout time.Duration
	logger       *slog.Logger
}

var _ ports.Sender = (*Sender)(nil)

// Option configures a Sender.
type Option func(*Sender)

// WithToken sets the bearer token.
func WithToken(token string) Option {
	return func(s *Sender) {
		s.token = token
	}
}

// WithTimeout bounds each call to the gateway.
func WithTimeout(d time.Duration) Option {
	return func(s *Sender) {
		if d > 0 {
			s.client.Timeout = d
		}
	}
}

// WithImageTimeout bounds each image fetch.
func WithImageTimeout(d time.Duration) Option {
	return func(s *Sender) {
		if d > 0 {
			s.imageTimeout = d
		}
	}
}

// WithHTTPClient replaces the client used to reach the gateway.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Sender) {
		s.client = c
	}
}

// WithImageClient replaces the client used to fetch images.
func WithImageClient(c *http.Client) Option {
	return func(s *Sender) {
		s.imageClient = c
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Sender) {
		s.logger = logger
	}
}

// New creates a gateway sender for baseURL.
func New(baseURL string, opts ...Option) *Sender {
	s := &Sender{
		baseURL:      strings.TrimRight(baseURL, "/"),
		client:       &http.Client{Timeout: DefaultTimeout},
		imageClient:  &http.Client{},
		imageTimeout: DefaultImageTimeout,
		logger:       slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Sender) SendText(ctx context.Context, to, text string) error {
	return s.post(ctx, Payload{To: to, Type: "text", Text: text})
}

// SendImage fetches the image and forwards it with the caption. When the
// image cannot be fetched the caption is sent as plain text instead.
func (s *Sender) SendImage(ctx context.Context, to, url, caption string) error {
	img, err := s.fetchImage(ctx, url)
	if err != nil {
		s.logger.Warn("Image fetch failed, sending caption only", "url", url, "err", err)
		if caption == "" {
			return nil
		}
		return s.SendText(ctx, to, caption)
	}
	return s.post(ctx, Payload{To: to, Type: "image", Image: img, Caption: caption})
}

func (s *Sender) SendList(ctx context.Context, to string, list domain.ChoiceList) error {
	return s.post(ctx, Payload{To: to, Type: "list", List: &list})
}

func (s *Sender) fetchImage(ctx context.Context, url string) (*Image, error) {
	ctx, cancel := context.WithTimeout(ctx, s.imageTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.imageClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxImageBytes {
		return nil, fmt.Errorf("image exceeds %d bytes", maxImageBytes)
	}

	mime := resp.Header.Get("Content-Type")
	if mime == "" {
		mime = http.DetectContentType(data)
	}
	return &Image{MimeType: mime, Data: base64.StdEncoding.EncodeToString(data)}, nil
}

func (s *Sender) post(ctx context.Context, p Payload) error {
	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", domain.ErrDelivery, p.Type, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/messages", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrDelivery, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s to %s: %v", domain.ErrDelivery, p.Type, p.To, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	switch {
	case resp.StatusCode == http.StatusNotImplemented && p.Type == "list":
		return domain.ErrUnsupported
	case resp.StatusCode >= 300:
		return fmt.Errorf("%w: %s to %s: gateway status %d", domain.ErrDelivery, p.Type, p.To, resp.StatusCode)
	}
	s.logger.Debug("Message sent", "to", p.To, "type", p.Type)
	return nil
}

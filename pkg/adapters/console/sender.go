// Package console is a terminal transport: it reads customer lines from
// stdin and prints bot messages to stdout. It has no list support, so lists
// arrive as numbered text.
package console

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/aretw0/storechat/pkg/domain"
	"github.com/aretw0/storechat/pkg/ports"
	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// ContentRenderer turns bot text into terminal output.
type ContentRenderer func(string) (string, error)

// Sender implements ports.Sender on a writer.
type Sender struct {
	mu       sync.Mutex
	w        io.Writer
	renderer ContentRenderer
	output   *termenv.Output
}

var _ ports.Sender = (*Sender)(nil)

// Option configures a Sender.
type Option func(*Sender)

// WithRenderer sets the content renderer. A nil renderer prints text as is.
func WithRenderer(r ContentRenderer) Option {
	return func(s *Sender) {
		s.renderer = r
	}
}

// NewSender creates a console sender on w (stdout when nil).
func NewSender(w io.Writer, opts ...Option) *Sender {
	if w == nil {
		w = os.Stdout
	}
	s := &Sender{w: w, output: termenv.NewOutput(w)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// NewRenderer returns a glamour markdown renderer. The bot's *bold* markers
// are doubled so they survive markdown rendering.
func NewRenderer() (ContentRenderer, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithPreservedNewLines(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return nil, err
	}
	return func(text string) (string, error) {
		return r.Render(toMarkdown(text))
	}, nil
}

// toMarkdown converts chat-style *bold* into markdown **bold**.
func toMarkdown(text string) string {
	var b strings.Builder
	for i, part := range strings.Split(text, "*") {
		if i > 0 {
			b.WriteString("**")
		}
		b.WriteString(part)
	}
	return b.String()
}

func (s *Sender) SendText(_ context.Context, _ string, text string) error {
	out := text
	if s.renderer != nil {
		if rendered, err := s.renderer(text); err == nil {
			out = rendered
		}
	}
	return s.print(strings.TrimSpace(out))
}

func (s *Sender) SendImage(ctx context.Context, to, url, caption string) error {
	label := s.output.String("[image] " + url).Faint().String()
	if err := s.print(label); err != nil {
		return err
	}
	if caption == "" {
		return nil
	}
	return s.SendText(ctx, to, caption)
}

func (s *Sender) SendList(context.Context, string, domain.ChoiceList) error {
	return domain.ErrUnsupported
}

func (s *Sender) print(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := fmt.Fprintf(s.w, "%s\n\n", text); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrDelivery, err)
	}
	return nil
}

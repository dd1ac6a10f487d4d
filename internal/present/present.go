// Package present delivers choice lists, degrading to numbered text when the
// transport cannot render them, and resolves replies back to rows.
package present

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"unicode"

	"github.com/aretw0/storechat/internal/logging"
	"github.com/aretw0/storechat/pkg/domain"
	"github.com/aretw0/storechat/pkg/ports"
)

// Presenter sends choice lists through a Sender.
type Presenter struct {
	sender ports.Sender
	logger *slog.Logger
}

// Option configures the Presenter.
type Option func(*Presenter)

// WithLogger configures a logger for the Presenter.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Presenter) {
		p.logger = logger
	}
}

// New creates a Presenter over sender.
func New(sender ports.Sender, opts ...Option) *Presenter {
	p := &Presenter{sender: sender, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Present tries the structured list first. On any error it sends the rendered
// fallback text instead; only a failure of that text send is returned.
// It reports whether the fallback was used.
func (p *Presenter) Present(ctx context.Context, to string, list domain.ChoiceList) (fellBack bool, err error) {
	listErr := p.sender.SendList(ctx, to, list)
	if listErr == nil {
		return false, nil
	}
	p.logger.Debug("List message failed, using text fallback", "user", to, "err", listErr)

	if err := p.sender.SendText(ctx, to, RenderFallback(list)); err != nil {
		return true, fmt.Errorf("%w: fallback text: %w", domain.ErrDelivery, err)
	}
	return true, nil
}

// RenderFallback renders list as numbered text. Ordinals run across sections.
func RenderFallback(list domain.ChoiceList) string {
	var b strings.Builder
	if list.Prompt != "" {
		b.WriteString(list.Prompt)
		b.WriteString("\n\n")
	}
	n := 1
	for _, s := range list.Sections {
		if s.Title != "" {
			fmt.Fprintf(&b, "*%s*\n\n", s.Title)
		}
		for _, r := range s.Rows {
			fmt.Fprintf(&b, "%d️⃣ %s", n, r.Label)
			if r.Description != "" {
				b.WriteString(" — ")
				b.WriteString(r.Description)
			}
			b.WriteString("\n")
			n++
		}
		b.WriteString("\n")
	}
	b.WriteString("💬 Type the option number")
	if list.Footer != "" {
		b.WriteString("\n\n")
		b.WriteString(list.Footer)
	}
	return b.String()
}

// Resolve maps a reply to a row of list: a structured selection id first, then
// a 1-based global ordinal, then a case-insensitive label (leading emoji
// optional) or row id.
func Resolve(list domain.ChoiceList, msg domain.Message) (domain.Row, bool) {
	rows := list.Rows()

	if msg.IsSelection() {
		for _, r := range rows {
			if r.ID == msg.SelectionID {
				return r, true
			}
		}
		return domain.Row{}, false
	}

	text := msg.Text()
	if text == "" {
		return domain.Row{}, false
	}
	if n, ok := Ordinal(text); ok && n <= len(rows) {
		return rows[n-1], true
	}
	for _, r := range rows {
		if strings.EqualFold(r.Label, text) || strings.EqualFold(bareLabel(r.Label), text) || r.ID == text {
			return r, true
		}
	}
	return domain.Row{}, false
}

// bareLabel drops leading emoji and punctuation, so "🥟 Fried Snacks" matches "fried snacks".
func bareLabel(label string) string {
	return strings.TrimLeftFunc(label, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Ordinal parses a positive integer reply made of digits only.
func Ordinal(text string) (int, bool) {
	text = strings.TrimSpace(text)
	if !isDigits(text) {
		return 0, false
	}
	n, err := strconv.Atoi(text)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/storechat/pkg/domain"
	"github.com/muesli/termenv"
)

// Handler processes one inbound message.
type Handler func(ctx context.Context, msg domain.Message)

// Loop reads lines from r and hands each to handle as a text message from
// userID. It returns on EOF, when ":q" is typed, or when ctx is done.
func Loop(ctx context.Context, r io.Reader, w io.Writer, userID string, handle Handler) error {
	lines := make(chan string)
	errs := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		errs <- sc.Err()
	}()

	prompt := termenv.NewOutput(w).String("> ").Bold().String()
	for {
		fmt.Fprint(w, prompt)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				fmt.Fprintln(w)
				return <-errs
			}
			if strings.TrimSpace(line) == ":q" {
				return nil
			}
			handle(ctx, domain.Message{From: userID, Body: line, Type: domain.MessageText})
		}
	}
}

// PrintBanner writes the store name in the terminal's accent colors.
func PrintBanner(w io.Writer, name, version string) {
	out := termenv.NewOutput(w)
	p := out.ColorProfile()
	title := out.String("  🛒 " + name).Bold().Foreground(p.Color("#a78bfa"))
	sub := out.String("  storechat " + strings.TrimSpace(version) + "  ·  type :q to leave").Faint()

	fmt.Fprintln(w)
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, sub)
	fmt.Fprintln(w)
}

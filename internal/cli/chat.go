package cli

import (
	"context"
	"io"
	"os"

	"github.com/aretw0/storechat/internal/config"
	"github.com/aretw0/storechat/pkg/adapters/console"
	"github.com/aretw0/storechat/pkg/domain"
)

// ChatOptions configures the chat command.
type ChatOptions struct {
	Config  config.Config
	Debug   bool
	Version string
	UserID  string
	Plain   bool
}

// Chat runs a local conversation on the terminal.
func Chat(opts ChatOptions) error {
	return chat(opts, os.Stdin, os.Stdout, console.IsTerminal(os.Stdout))
}

func chat(opts ChatOptions, in io.Reader, out io.Writer, tty bool) error {
	cfg := opts.Config
	logger := createLogger(cfg.Log, opts.Debug)

	var senderOpts []console.Option
	if tty && !opts.Plain {
		renderer, err := console.NewRenderer()
		if err != nil {
			logger.Warn("Markdown rendering disabled", "err", err)
		} else {
			senderOpts = append(senderOpts, console.WithRenderer(renderer))
		}
	}

	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()

	app, err := Build(sigCtx, cfg, console.NewSender(out, senderOpts...), logger)
	if err != nil {
		return err
	}
	defer app.Close()

	if tty {
		console.PrintBanner(out, cfg.Store.Name, opts.Version)
	}

	userID := opts.UserID
	if userID == "" {
		userID = "local"
	}
	err = console.Loop(sigCtx, in, out, userID, func(ctx context.Context, msg domain.Message) {
		if err := app.Dispatcher.Handle(ctx, msg); err != nil {
			logger.Error("Turn failed", "err", err)
		}
	})
	if sigCtx.Signal() != nil {
		return nil
	}
	return err
}

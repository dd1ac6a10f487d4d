package ports

import (
	"context"

	"github.com/aretw0/storechat/pkg/domain"
)

// Sender is the outbound side of the messaging transport.
// The core never manages the connection lifecycle.
type Sender interface {
	SendText(ctx context.Context, to, text string) error

	// SendImage delivers an image. Transports degrade to a caption-only text
	// when the image cannot be fetched.
	SendImage(ctx context.Context, to, url, caption string) error

	// SendList delivers a structured list. Transports without list support
	// return domain.ErrUnsupported.
	SendList(ctx context.Context, to string, list domain.ChoiceList) error
}

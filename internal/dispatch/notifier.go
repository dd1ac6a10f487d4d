package dispatch

import (
	"context"
	"fmt"

	"github.com/aretw0/storechat/internal/checkout"
	"github.com/aretw0/storechat/pkg/domain"
	"github.com/aretw0/storechat/pkg/ports"
)

// AttendantNotifier sends the order notice to the store's own messaging id.
type AttendantNotifier struct {
	sender      ports.Sender
	attendantID string
}

// NewAttendantNotifier creates a notifier that messages attendantID.
func NewAttendantNotifier(sender ports.Sender, attendantID string) *AttendantNotifier {
	return &AttendantNotifier{sender: sender, attendantID: attendantID}
}

func (n *AttendantNotifier) Notify(ctx context.Context, order domain.Order) error {
	if err := n.sender.SendText(ctx, n.attendantID, checkout.FormatNotice(order)); err != nil {
		return fmt.Errorf("%w: attendant notice: %w", domain.ErrDelivery, err)
	}
	return nil
}

package domain

// ActionType identifies a side-effect requested from the host.
type ActionType string

// Standard Action Types
const (
	// ActionSendText sends a plain text message.
	// Payload: string
	ActionSendText ActionType = "SEND_TEXT"

	// ActionSendImage sends an image with caption.
	// Payload: Image
	ActionSendImage ActionType = "SEND_IMAGE"

	// ActionPresent sends a choice list, degrading to numbered text.
	// Payload: ChoiceList
	ActionPresent ActionType = "PRESENT_CHOICES"

	// ActionNotify hands a finalized order to the attendant notifiers.
	// Payload: Order. Best-effort: failures never reach the customer.
	ActionNotify ActionType = "NOTIFY_ATTENDANT"
)

// Action represents a side-effect that the engine requests the host to perform.
// Engines decide; the dispatcher delivers.
type Action struct {
	Type    ActionType
	To      string
	Payload any
}

// Image is the payload of ActionSendImage.
type Image struct {
	URL     string
	Caption string
}

// Text builds an ActionSendText.
func Text(to, body string) Action {
	return Action{Type: ActionSendText, To: to, Payload: body}
}

// SendImage builds an ActionSendImage.
func SendImage(to, url, caption string) Action {
	return Action{Type: ActionSendImage, To: to, Payload: Image{URL: url, Caption: caption}}
}

// Present builds an ActionPresent.
func Present(to string, list ChoiceList) Action {
	return Action{Type: ActionPresent, To: to, Payload: list}
}

// Notify builds an ActionNotify.
func Notify(order Order) Action {
	return Action{Type: ActionNotify, To: order.UserID, Payload: order}
}

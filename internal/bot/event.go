package bot

import "context"

// Event is one inbound chat update, reduced to what the state machine needs.
// Exactly one of Text or Callback is meaningful; IsCallback disambiguates.
type Event struct {
	ChatID    int64
	MessageID int

	Text       string
	Callback   string
	IsCallback bool

	FirstName string
	LastName  string
}

// Button is one inline keyboard button: a visible label and the payload
// delivered back when pressed.
type Button struct {
	Label string
	Data  string
}

// Keyboard is an ordered list of button rows.
type Keyboard [][]Button

// Responder delivers outbound messages to the chat platform.
type Responder interface {
	SendText(ctx context.Context, chatID int64, text string, kb Keyboard) error
	SendPhoto(ctx context.Context, chatID int64, photo []byte, caption string, kb Keyboard) error
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
}

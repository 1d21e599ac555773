// Package session persists per-chat conversation state for the shop bot.
package session

import (
	"context"
	"errors"
)

// State identifies a step of the shopping conversation.
type State string

const (
	// StateStart renders the product menu on the next event.
	StateStart State = "START"
	// StateMenu re-shows the product menu after checkout finishes.
	StateMenu State = "HANDLE_MENU"
	// StateDescription handles product cards, weight picks and navigation.
	StateDescription State = "HANDLE_DESCRIPTION"
	// StateCart handles line item removal, cancellation and payment.
	StateCart State = "HANDLE_CART"
	// StateWaitEmail collects and confirms the checkout email.
	StateWaitEmail State = "WAIT_EMAIL"
)

// Known reports whether s is one of the recognized conversation states.
func (s State) Known() bool {
	switch s {
	case StateStart, StateMenu, StateDescription, StateCart, StateWaitEmail:
		return true
	}
	return false
}

// ErrNotFound is returned when a chat has no stored value for the requested key.
var ErrNotFound = errors.New("session: not found")

// Store keeps conversation state and checkout scratch fields per chat.
//
// GetState returns ErrNotFound for a chat that never received /start;
// the dispatch layer initializes the state before any other lookup.
type Store interface {
	GetState(ctx context.Context, chatID int64) (State, error)
	SetState(ctx context.Context, chatID int64, st State) error

	SetEmail(ctx context.Context, chatID int64, email string) error
	Email(ctx context.Context, chatID int64) (string, error)

	SetCustomerID(ctx context.Context, chatID int64, customerID int64) error
	CustomerID(ctx context.Context, chatID int64) (int64, error)
}

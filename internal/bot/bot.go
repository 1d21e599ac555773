// Package bot implements the shopping conversation: a five-state machine
// dispatching chat events to handlers that call the shop CMS and render
// replies through a Responder.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Michael-Zapivahin/fish-market-bot/internal/logger"
	"github.com/Michael-Zapivahin/fish-market-bot/internal/session"
	"github.com/Michael-Zapivahin/fish-market-bot/internal/shop"
)

// Shop is the slice of the CMS client the conversation handlers need.
type Shop interface {
	Products(ctx context.Context) ([]shop.Product, error)
	Product(ctx context.Context, id int64) (shop.Product, error)
	ProductImage(ctx context.Context, id int64) ([]byte, error)
	GetOrCreateCart(ctx context.Context, chatID int64) (int64, error)
	AddLineItem(ctx context.Context, cartID, productID int64, quantityKg float64) (shop.LineItem, error)
	CartItems(ctx context.Context, chatID int64) ([]shop.LineItem, error)
	DeleteLineItem(ctx context.Context, id int64) error
	DeleteAllLineItems(ctx context.Context, chatID int64) error
	GetOrCreateCustomer(ctx context.Context, name, email string) (int64, error)
}

// Bot owns the conversation state machine.
type Bot struct {
	store  session.Store
	locker *session.Locker
	shop   Shop
	out    Responder
}

// New assembles a Bot from its dependencies.
func New(store session.Store, sh Shop, out Responder) *Bot {
	return &Bot{
		store:  store,
		locker: session.NewLocker(),
		shop:   sh,
		out:    out,
	}
}

// Dispatch is the single funnel for every inbound event. It resolves the
// chat's state, runs the matching handler, and persists the state the
// handler returned. A failing handler leaves the stored state untouched and
// the user gets a generic failure notice. The whole read-run-write sequence
// holds the per-chat lock so events for one chat never interleave.
func (b *Bot) Dispatch(ctx context.Context, ev Event) error {
	b.locker.Lock(ev.ChatID)
	defer b.locker.Unlock(ev.ChatID)

	if !ev.IsCallback && ev.Text == "/start" {
		if err := b.store.SetState(ctx, ev.ChatID, session.StateStart); err != nil {
			return b.fail(ctx, ev.ChatID, fmt.Errorf("init session: %w", err))
		}
	}

	st, err := b.store.GetState(ctx, ev.ChatID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			// The chat never sent /start; nothing to resume.
			return b.out.SendText(ctx, ev.ChatID, msgPressStart, nil)
		}
		return b.fail(ctx, ev.ChatID, fmt.Errorf("load session: %w", err))
	}
	if !st.Known() {
		return b.fail(ctx, ev.ChatID, fmt.Errorf("unrecognized session state %q", st))
	}

	next, err := b.handle(ctx, st, ev)
	if err != nil {
		return b.fail(ctx, ev.ChatID, fmt.Errorf("state %s: %w", st, err))
	}

	if err := b.store.SetState(ctx, ev.ChatID, next); err != nil {
		return b.fail(ctx, ev.ChatID, fmt.Errorf("persist state %s: %w", next, err))
	}

	logger.Debug(ctx, "bot", "event.handled",
		slog.String("state", string(st)),
		slog.String("next_state", string(next)),
	)
	return nil
}

func (b *Bot) handle(ctx context.Context, st session.State, ev Event) (session.State, error) {
	switch st {
	case session.StateStart:
		return b.handleStart(ctx, ev)
	case session.StateMenu:
		return b.handleMenu(ctx, ev)
	case session.StateDescription:
		return b.handleDescription(ctx, ev)
	case session.StateCart:
		return b.handleCart(ctx, ev)
	case session.StateWaitEmail:
		return b.handleWaitEmail(ctx, ev)
	}
	// Unreachable: Dispatch rejects unknown states before handling.
	return st, fmt.Errorf("no handler for state %q", st)
}

// Help sends the usage text without touching the conversation state.
func (b *Bot) Help(ctx context.Context, chatID int64) error {
	return b.out.SendText(ctx, chatID, msgHelp, nil)
}

// fail is the dispatch error boundary: log, notify the chat, keep the state.
func (b *Bot) fail(ctx context.Context, chatID int64, err error) error {
	logger.Error(ctx, "bot", "event.failed",
		slog.String("status", "fail"),
		slog.Int64("chat_id", chatID),
		slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
	)
	if sendErr := b.out.SendText(ctx, chatID, msgSomethingWrong, nil); sendErr != nil {
		logger.Warn(ctx, "bot", "notice.failed",
			slog.Int64("chat_id", chatID),
			slog.String("err", sendErr.Error()),
		)
	}
	return nil
}

package bot

import (
	"context"
	"strings"

	"github.com/Michael-Zapivahin/fish-market-bot/internal/session"
)

// handleStart shows the product menu and always advances to the
// description state, which owns all menu navigation.
func (b *Bot) handleStart(ctx context.Context, ev Event) (session.State, error) {
	if err := b.showMenu(ctx, ev.ChatID); err != nil {
		return session.StateStart, err
	}
	return session.StateDescription, nil
}

// handleMenu re-shows the product menu after checkout completed. Any button
// press brings the user back into the browsing flow.
func (b *Bot) handleMenu(ctx context.Context, ev Event) (session.State, error) {
	if !ev.IsCallback {
		return session.StateMenu, nil
	}
	if err := b.showMenu(ctx, ev.ChatID); err != nil {
		return session.StateMenu, err
	}
	if err := b.out.DeleteMessage(ctx, ev.ChatID, ev.MessageID); err != nil {
		return session.StateMenu, err
	}
	return session.StateDescription, nil
}

// handleDescription drives product cards, add-to-cart and navigation.
func (b *Bot) handleDescription(ctx context.Context, ev Event) (session.State, error) {
	if !ev.IsCallback {
		return session.StateDescription, nil
	}

	switch p := parsePayload(ev.Callback); p.kind {
	case payloadProduct:
		product, err := b.shop.Product(ctx, p.productID)
		if err != nil {
			return session.StateDescription, err
		}
		image, err := b.shop.ProductImage(ctx, p.productID)
		if err != nil {
			return session.StateDescription, err
		}
		if err := b.out.SendPhoto(ctx, ev.ChatID, image, productCaption(product), weightKeyboard(p.productID)); err != nil {
			return session.StateDescription, err
		}
		if err := b.out.DeleteMessage(ctx, ev.ChatID, ev.MessageID); err != nil {
			return session.StateDescription, err
		}
		return session.StateDescription, nil

	case payloadWeight:
		cartID, err := b.shop.GetOrCreateCart(ctx, ev.ChatID)
		if err != nil {
			return session.StateDescription, err
		}
		quantityKg := float64(p.grams) / 1000
		if _, err := b.shop.AddLineItem(ctx, cartID, p.productID, quantityKg); err != nil {
			return session.StateDescription, err
		}
		if err := b.out.SendText(ctx, ev.ChatID, msgAddedToCart, nil); err != nil {
			return session.StateDescription, err
		}
		return session.StateDescription, nil

	case payloadBack:
		if err := b.out.DeleteMessage(ctx, ev.ChatID, ev.MessageID); err != nil {
			return session.StateDescription, err
		}
		if err := b.showMenu(ctx, ev.ChatID); err != nil {
			return session.StateDescription, err
		}
		return session.StateDescription, nil

	case payloadCart:
		if err := b.showCart(ctx, ev.ChatID); err != nil {
			return session.StateDescription, err
		}
		if err := b.out.DeleteMessage(ctx, ev.ChatID, ev.MessageID); err != nil {
			return session.StateDescription, err
		}
		return session.StateCart, nil
	}

	return session.StateDescription, nil
}

// handleCart drives line item removal, cancellation and the payment entry.
func (b *Bot) handleCart(ctx context.Context, ev Event) (session.State, error) {
	if !ev.IsCallback {
		return session.StateCart, nil
	}

	switch p := parsePayload(ev.Callback); p.kind {
	case payloadRemoveItem:
		if err := b.shop.DeleteLineItem(ctx, p.itemID); err != nil {
			return session.StateCart, err
		}
		if err := b.showCart(ctx, ev.ChatID); err != nil {
			return session.StateCart, err
		}
		return session.StateCart, nil

	case payloadCancelCart:
		if err := b.shop.DeleteAllLineItems(ctx, ev.ChatID); err != nil {
			return session.StateCart, err
		}
		if err := b.showMenu(ctx, ev.ChatID); err != nil {
			return session.StateCart, err
		}
		return session.StateDescription, nil

	case payloadPayment:
		if err := b.out.SendText(ctx, ev.ChatID, msgAskEmail, nil); err != nil {
			return session.StateCart, err
		}
		return session.StateWaitEmail, nil
	}

	return session.StateCart, nil
}

// handleWaitEmail captures an e-mail, asks for confirmation, and on confirm
// creates or reuses the customer record.
func (b *Bot) handleWaitEmail(ctx context.Context, ev Event) (session.State, error) {
	if ev.IsCallback {
		switch parsePayload(ev.Callback).kind {
		case payloadEmailYes:
			email, err := b.store.Email(ctx, ev.ChatID)
			if err != nil {
				return session.StateWaitEmail, err
			}
			name := strings.TrimSpace(ev.FirstName + " " + ev.LastName)
			customerID, err := b.shop.GetOrCreateCustomer(ctx, name, email)
			if err != nil {
				return session.StateWaitEmail, err
			}
			if err := b.store.SetCustomerID(ctx, ev.ChatID, customerID); err != nil {
				return session.StateWaitEmail, err
			}
			if err := b.out.SendText(ctx, ev.ChatID, msgOrderAccepted, nil); err != nil {
				return session.StateWaitEmail, err
			}
			if err := b.out.DeleteMessage(ctx, ev.ChatID, ev.MessageID); err != nil {
				return session.StateWaitEmail, err
			}
			return session.StateMenu, nil

		case payloadEmailNo:
			if err := b.out.SendText(ctx, ev.ChatID, msgAskEmailAgain, nil); err != nil {
				return session.StateWaitEmail, err
			}
			if err := b.out.DeleteMessage(ctx, ev.ChatID, ev.MessageID); err != nil {
				return session.StateWaitEmail, err
			}
			return session.StateWaitEmail, nil
		}
		return session.StateWaitEmail, nil
	}

	email := strings.TrimSpace(ev.Text)
	if email == "" {
		return session.StateWaitEmail, nil
	}
	if err := b.store.SetEmail(ctx, ev.ChatID, email); err != nil {
		return session.StateWaitEmail, err
	}
	if err := b.out.SendText(ctx, ev.ChatID, confirmEmailText(email), confirmEmailKeyboard()); err != nil {
		return session.StateWaitEmail, err
	}
	return session.StateWaitEmail, nil
}

func (b *Bot) showMenu(ctx context.Context, chatID int64) error {
	products, err := b.shop.Products(ctx)
	if err != nil {
		return err
	}
	return b.out.SendText(ctx, chatID, msgChooseProduct, menuKeyboard(products))
}

func (b *Bot) showCart(ctx context.Context, chatID int64) error {
	items, err := b.shop.CartItems(ctx, chatID)
	if err != nil {
		return err
	}
	text, kb := renderCart(items)
	return b.out.SendText(ctx, chatID, text, kb)
}

package bot

import (
	"bytes"
	"context"
	"strconv"

	tele "gopkg.in/telebot.v4"

	"github.com/Michael-Zapivahin/fish-market-bot/internal/telegram"
)

// TelebotResponder implements Responder on top of a telebot instance.
// Sends are synchronous so replies within one chat keep their order.
type TelebotResponder struct {
	bot *tele.Bot
}

// NewTelebotResponder wraps a telebot instance.
func NewTelebotResponder(b *tele.Bot) *TelebotResponder {
	return &TelebotResponder{bot: b}
}

// SendText delivers a plain text message with an optional inline keyboard.
func (r *TelebotResponder) SendText(_ context.Context, chatID int64, text string, kb Keyboard) error {
	_, err := r.bot.Send(tele.ChatID(chatID), text, sendOptions(kb))
	return err
}

// SendPhoto delivers a photo with a caption and an optional inline keyboard.
func (r *TelebotResponder) SendPhoto(_ context.Context, chatID int64, photo []byte, caption string, kb Keyboard) error {
	p := &tele.Photo{
		File:    tele.FromReader(bytes.NewReader(photo)),
		Caption: caption,
	}
	_, err := r.bot.Send(tele.ChatID(chatID), p, sendOptions(kb))
	return err
}

// DeleteMessage removes a previously sent message.
func (r *TelebotResponder) DeleteMessage(_ context.Context, chatID int64, messageID int) error {
	return r.bot.Delete(tele.StoredMessage{
		MessageID: strconv.Itoa(messageID),
		ChatID:    chatID,
	})
}

func sendOptions(kb Keyboard) *tele.SendOptions {
	opts := &tele.SendOptions{}
	if len(kb) > 0 {
		opts.ReplyMarkup = markup(kb)
	}
	return opts
}

func markup(kb Keyboard) *tele.ReplyMarkup {
	inline := make([][]tele.InlineButton, len(kb))
	for i, row := range kb {
		r := make([]tele.InlineButton, len(row))
		for j, btn := range row {
			r[j] = tele.InlineButton{Text: btn.Label, Data: btn.Data}
		}
		inline[i] = r
	}
	return &tele.ReplyMarkup{InlineKeyboard: inline}
}

// Handler adapts the dispatcher to a telebot handler. It is bound to
// /start, text messages and callback presses alike; the state machine
// decides what the event means.
func (b *Bot) Handler() tele.HandlerFunc {
	return func(c tele.Context) error {
		if c.Callback() != nil {
			_ = c.Respond()
		}
		return b.Dispatch(telegram.ContextFrom(c), eventFrom(c))
	}
}

func eventFrom(c tele.Context) Event {
	ev := Event{}
	if chat := c.Chat(); chat != nil {
		ev.ChatID = chat.ID
	}
	if sender := c.Sender(); sender != nil {
		ev.FirstName = sender.FirstName
		ev.LastName = sender.LastName
	}
	if msg := c.Message(); msg != nil {
		ev.MessageID = msg.ID
	}
	if cb := c.Callback(); cb != nil {
		ev.IsCallback = true
		ev.Callback = cb.Data
	} else {
		ev.Text = c.Text()
	}
	return ev
}

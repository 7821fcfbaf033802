// Package bot is the Telegram front-end of the card registry.
package bot

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/avvvet/card-registry/internal/cardsvc/service"
)

// API is the part of *tgbotapi.BotAPI the bot uses.
type API interface {
	GetUpdates(config tgbotapi.UpdateConfig) ([]tgbotapi.Update, error)
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type CardCommands interface {
	Register(ctx context.Context, ownerID, rawCardID, displayName string) service.RegisterResult
	MyCard(ctx context.Context, ownerID string) service.LookupResult
}

type Bot struct {
	api         API
	cards       CardCommands
	username    string
	pollTimeout int
	retry       *backoff.ExponentialBackOff
}

// NewBot builds a bot answering commands addressed to username, or to no bot
// in particular.
func NewBot(api API, cards CardCommands, username string) *Bot {
	return &Bot{
		api:         api,
		cards:       cards,
		username:    username,
		pollTimeout: 60,
		retry:       newRetry(time.Second),
	}
}

func newRetry(initial time.Duration) *backoff.ExponentialBackOff {
	return backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(initial),
		backoff.WithMaxInterval(30*initial),
		backoff.WithMaxElapsedTime(0),
	)
}

// Connect creates the Telegram client for token against endpoint, a
// tgbotapi.APIEndpoint style format string.
func Connect(token, endpoint string) (*tgbotapi.BotAPI, error) {
	if err := tgbotapi.SetLogger(log.WithField("component", "telegram")); err != nil {
		return nil, err
	}

	api, err := tgbotapi.NewBotAPIWithAPIEndpoint(token, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	log.Infof("authorized on telegram account %s", api.Self.UserName)
	return api, nil
}

// RegisterCommands publishes the command menu, English by default and Polish
// for Polish clients.
func (b *Bot) RegisterCommands() error {
	configs := []tgbotapi.Chattable{
		tgbotapi.NewSetMyCommands(catalog[0].commands()...),
	}
	for i, tag := range supported[1:] {
		configs = append(configs, tgbotapi.NewSetMyCommandsWithScopeAndLanguage(
			tgbotapi.NewBotCommandScopeDefault(), tag.String(), catalog[i+1].commands()...))
	}

	for _, c := range configs {
		if _, err := b.api.Request(c); err != nil {
			return fmt.Errorf("set bot commands: %w", err)
		}
	}
	return nil
}

// fatalPoll reports whether Telegram refused the poll in a way retrying
// cannot fix: a revoked or unknown token, or another poller on the same token.
func fatalPoll(err error) bool {
	var tgErr *tgbotapi.Error
	if !errors.As(err, &tgErr) {
		return false
	}
	switch tgErr.Code {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound, http.StatusConflict:
		return true
	}
	return false
}

// Run long-polls Telegram and handles every update in its own goroutine. It
// returns when ctx is cancelled or when Telegram rejects the bot outright.
// Network and server errors are retried with exponential backoff.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.pollTimeout
	b.retry.Reset()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		updates, err := b.poll(ctx, u)
		switch {
		case ctx.Err() != nil:
			return ctx.Err()
		case fatalPoll(err):
			return fmt.Errorf("telegram getUpdates: %w", err)
		case err != nil:
			wait := b.retry.NextBackOff()
			var tgErr *tgbotapi.Error
			if errors.As(err, &tgErr) && tgErr.RetryAfter > 0 {
				wait = time.Duration(tgErr.RetryAfter) * time.Second
			}
			log.Warnf("Failed to get telegram updates, retrying in %s: %v", wait, err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
			continue
		}

		b.retry.Reset()
		for _, update := range updates {
			if update.UpdateID >= u.Offset {
				u.Offset = update.UpdateID + 1
			}
			go b.HandleUpdate(ctx, update)
		}
	}
}

// poll runs one getUpdates call. The call itself cannot be cancelled, so a
// cancelled ctx abandons it.
func (b *Bot) poll(ctx context.Context, u tgbotapi.UpdateConfig) ([]tgbotapi.Update, error) {
	type result struct {
		updates []tgbotapi.Update
		err     error
	}
	done := make(chan result, 1)
	go func() {
		updates, err := b.api.GetUpdates(u)
		done <- result{updates, err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		return r.updates, r.err
	}
}

// command returns the command name, or "" when the command is addressed to
// another bot.
func (b *Bot) command(msg *tgbotapi.Message) string {
	name, target, found := strings.Cut(msg.CommandWithAt(), "@")
	if found && !strings.EqualFold(target, b.username) {
		return ""
	}
	return name
}

func displayName(u *tgbotapi.User) string {
	if u.UserName != "" {
		return u.UserName
	}
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// HandleUpdate answers one command message. Anything else is ignored.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil || msg.Chat == nil || !msg.IsCommand() {
		return
	}

	cmd := b.command(msg)
	if cmd == "" {
		return
	}

	ownerID := strconv.FormatInt(msg.From.ID, 10)
	text := localize(msg.From.LanguageCode)
	entry := log.WithFields(log.Fields{
		"interaction": uuid.NewString(),
		"owner":       ownerID,
		"command":     cmd,
	})

	var reply string
	switch actionFor(cmd) {
	case actionAdd:
		res := b.cards.Register(ctx, ownerID, msg.CommandArguments(), displayName(msg.From))
		entry = entry.WithField("outcome", res.Status.String())
		switch res.Status {
		case service.RegisterCreated:
			reply = fmt.Sprintf(text.added, res.Card.ID)
		case service.RegisterUpdated:
			reply = fmt.Sprintf(text.updated, res.Card.ID)
		case service.RegisterInvalidFormat:
			reply = text.invalid
		default:
			reply = text.addFailed
		}
	case actionMine:
		res := b.cards.MyCard(ctx, ownerID)
		entry = entry.WithField("outcome", res.Status.String())
		switch res.Status {
		case service.LookupFound:
			reply = fmt.Sprintf(text.cardLine, res.Card.Username, res.Card.ID)
		case service.LookupNotRegistered:
			reply = text.notRegistered
		default:
			reply = text.lookupFailed
		}
	case actionHelp:
		reply = text.help
	default:
		return
	}

	entry.Info("handled command")

	// outside private chats the reply goes straight to the sender
	out := tgbotapi.NewMessage(msg.From.ID, reply)
	if msg.Chat.IsPrivate() {
		out = tgbotapi.NewMessage(msg.Chat.ID, reply)
		out.ReplyToMessageID = msg.MessageID
	}
	if _, err := b.api.Send(out); err != nil {
		entry.Errorf("Failed to send telegram reply: %v", err)
	}
}

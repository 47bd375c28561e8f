// Package notifier shares articles to a Telegram chat.
package notifier

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/0x0BSoD/newsApp/internal/model"
)

var ErrNoChat = errors.New("notifier: telegram chat is not configured")

// Sender is satisfied by *tgbotapi.BotAPI.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Notifier struct {
	bot    Sender
	chatID int64
}

func New(bot Sender, chatID int64) *Notifier {
	return &Notifier{bot: bot, chatID: chatID}
}

// Share posts the article to the configured chat. summary replaces the
// description in the message body when it is not empty.
func (n *Notifier) Share(ctx context.Context, article model.Article, summary string) error {
	if n.bot == nil || n.chatID == 0 {
		return ErrNoChat
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	log.Printf("[INFO] sharing article %q", article.Title)

	if _, err := n.bot.Send(n.message(article, summary)); err != nil {
		return fmt.Errorf("send article: %w", err)
	}

	return nil
}

func (n *Notifier) message(article model.Article, summary string) tgbotapi.MessageConfig {
	const msgFormat = "*%s*%s\n\n%s\n\\#%s"

	body := summary
	if body == "" {
		body = article.Description
	}
	if body != "" {
		body = "\n\n" + body
	}

	msg := tgbotapi.NewMessage(n.chatID, fmt.Sprintf(
		msgFormat,
		escape(article.Title),
		escape(body),
		escape(article.URL),
		escape(hashtag(article.Source.Name)),
	))
	msg.ParseMode = tgbotapi.ModeMarkdownV2

	return msg
}

func escape(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, s)
}

func hashtag(name string) string {
	return strings.Join(strings.FieldsFunc(name, func(r rune) bool {
		return r == ' ' || r == '-' || r == '.'
	}), "")
}

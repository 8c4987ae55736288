package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"tree-service-leads/internal/config"
	"tree-service-leads/internal/domain/model"
	"tree-service-leads/internal/domain/phone"
	"tree-service-leads/internal/domain/ports/adapter"
	"tree-service-leads/internal/infra/logging"
)

var _ adapter.LeadNotifier = (*LeadNotifier)(nil)

// sender is the part of tgbotapi.BotAPI the notifier uses.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// LeadNotifier posts new warm leads to a staff chat.
type LeadNotifier struct {
	bot    sender
	chatID int64
	dev    bool
	log    *zerolog.Logger
}

func NewLeadNotifier(cfg config.NotifyConfig, dev bool, logger *zerolog.Logger) (*LeadNotifier, error) {
	if cfg.TelegramToken == "" {
		return nil, errors.New("telegram token is empty")
	}
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	return newLeadNotifier(bot, cfg.TelegramChatID, dev, logger), nil
}

func newLeadNotifier(bot sender, chatID int64, dev bool, logger *zerolog.Logger) *LeadNotifier {
	return &LeadNotifier{
		bot:    bot,
		chatID: chatID,
		dev:    dev,
		log:    logging.Component(logger, "telegram_notifier"),
	}
}

func (n *LeadNotifier) NotifyWarmLead(ctx context.Context, lead *model.WarmLead) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	msg := tgbotapi.NewMessage(n.chatID, leadText(lead, n.dev))
	msg.DisableWebPagePreview = true
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("send lead notification: %w", err)
	}
	n.log.Debug().Str("lead_id", lead.ID).Msg("warm lead notification sent")
	return nil
}

func leadText(lead *model.WarmLead, dev bool) string {
	var b strings.Builder
	b.WriteString("New warm lead\n")
	b.WriteString("Phone: ")
	if dev {
		b.WriteString(phone.Format(lead.PhoneNumber))
	} else {
		b.WriteString(logging.RedactPhone(lead.PhoneNumber, false))
	}
	if lead.SourceCampaign != nil {
		b.WriteString("\nCampaign: " + *lead.SourceCampaign)
	}
	if lead.FirstReplyText != nil {
		b.WriteString("\nReply: " + *lead.FirstReplyText)
	}
	return b.String()
}

var _ adapter.LeadNotifier = NoopNotifier{}

// NoopNotifier is used when no bot token is configured.
type NoopNotifier struct{}

func (NoopNotifier) NotifyWarmLead(context.Context, *model.WarmLead) error { return nil }

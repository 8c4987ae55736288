package usecase

import (
	"context"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"tree-service-leads/internal/domain"
	"tree-service-leads/internal/domain/model"
	"tree-service-leads/internal/domain/phone"
	"tree-service-leads/internal/domain/ports/adapter"
	"tree-service-leads/internal/domain/ports/repository"
	"tree-service-leads/internal/infra/logging"
	"tree-service-leads/internal/infra/metrics"
)

// Intent is the classified meaning of an inbound SMS body.
type Intent string

const (
	IntentNone     Intent = "none"
	IntentOptOut   Intent = "opt_out"
	IntentInterest Intent = "interest"
)

var (
	optOutPattern   = regexp.MustCompile(`(?i)\b(stop|unsubscribe|cancel|opt\s*out|remove)\b`)
	interestPattern = regexp.MustCompile(`(?i)\b(yes|sure|interested|quote|help|call\s*me|please)\b`)
)

// Classify checks opt-out words before interest words.
func Classify(body string) Intent {
	switch {
	case optOutPattern.MatchString(body):
		return IntentOptOut
	case interestPattern.MatchString(body):
		return IntentInterest
	default:
		return IntentNone
	}
}

// Compile-time check
var _ InboundUseCase = (*inboundUC)(nil)

type InboundUseCase interface {
	// HandleSMS classifies body and records the matching state change for
	// the sender. Store failures are logged; the intent is still returned.
	HandleSMS(ctx context.Context, from, body string) (Intent, error)
}

type inboundUC struct {
	optOuts  repository.OptOutRepository
	leads    repository.WarmLeadRepository
	notifier adapter.LeadNotifier
	campaign string
	dev      bool

	log *zerolog.Logger
}

func NewInboundUseCase(optOuts repository.OptOutRepository, leads repository.WarmLeadRepository, notifier adapter.LeadNotifier, campaign string, dev bool, logger *zerolog.Logger) *inboundUC {
	return &inboundUC{
		optOuts:  optOuts,
		leads:    leads,
		notifier: notifier,
		campaign: campaign,
		dev:      dev,
		log:      logging.Component(logger, "inbound_uc"),
	}
}

func (u *inboundUC) HandleSMS(ctx context.Context, from, body string) (Intent, error) {
	defer logging.TraceDuration(u.log, "InboundUC.HandleSMS")()

	if u.optOuts == nil || u.leads == nil {
		return IntentNone, domain.ErrNotConfigured
	}
	key, ok := phone.Key(from)
	if !ok {
		metrics.IncInboundSMS("invalid_phone")
		return IntentNone, domain.Invalid(domain.MsgInvalidPhone)
	}

	body = strings.TrimSpace(body)
	intent := Classify(body)
	metrics.IncInboundSMS(string(intent))
	log := logging.With(ctx, u.log).With().Str("phone", logging.RedactPhone(key, u.dev)).Str("intent", string(intent)).Logger()

	switch intent {
	case IntentOptOut:
		o, err := model.NewOptOut(key, model.OptOutSourceSMS)
		if err != nil {
			return intent, err
		}
		if err := u.optOuts.Create(ctx, repository.NoTX, o); err != nil {
			log.Error().Err(err).Msg("record opt-out")
			return intent, nil
		}
		log.Info().Msg("opt-out recorded")

	case IntentInterest:
		wl, err := model.NewWarmLead(key, body, u.campaign)
		if err != nil {
			return intent, err
		}
		created, err := u.leads.CreateIfAbsent(ctx, repository.NoTX, wl)
		if err != nil {
			log.Error().Err(err).Msg("record warm lead")
			return intent, nil
		}
		if !created {
			log.Debug().Msg("warm lead already exists")
			return intent, nil
		}
		log.Info().Msg("warm lead created")
		u.notify(ctx, wl, &log)
	}
	return intent, nil
}

func (u *inboundUC) notify(ctx context.Context, wl *model.WarmLead, log *zerolog.Logger) {
	if u.notifier == nil {
		return
	}
	if err := u.notifier.NotifyWarmLead(ctx, wl); err != nil {
		metrics.IncLeadNotification("error")
		log.Warn().Err(err).Msg("notify staff of warm lead")
		return
	}
	metrics.IncLeadNotification("sent")
}

package model

import (
	"strings"
	"time"

	"tree-service-leads/internal/domain"
)

// AppConfigID is the primary key of the singleton settings row.
const AppConfigID = "default"

// Defaults used when a settings column is NULL or the row is missing.
const (
	DefaultCompanyName             = "Tree Service"
	DefaultMessageTemplate         = ""
	DefaultSMSDelaySec             = 1
	DefaultIncludeUnknownPhoneType = true
	DefaultAddressesCSVName        = "propwire_addresses.csv"
	DefaultDailyBatchLimit         = 450
)

// AppConfig mirrors the app_config row; every setting is nullable.
type AppConfig struct {
	ID                      string     `json:"id"`
	CompanyName             *string    `json:"company_name"`
	MessageTemplate         *string    `json:"message_template"`
	SMSDelaySec             *int       `json:"sms_delay_sec"`
	IncludeUnknownPhoneType *bool      `json:"include_unknown_phone_type"`
	AddressesCSVName        *string    `json:"addresses_csv_name"`
	UpdatedAt               *time.Time `json:"updated_at"`
}

// AppConfigForm is the full settings form saved by staff.
type AppConfigForm struct {
	CompanyName             string `json:"company_name"`
	MessageTemplate         string `json:"message_template"`
	SMSDelaySec             int    `json:"sms_delay_sec"`
	IncludeUnknownPhoneType bool   `json:"include_unknown_phone_type"`
	AddressesCSVName        string `json:"addresses_csv_name"`
}

// NewAppConfig validates a form into the singleton row.
func NewAppConfig(f AppConfigForm, now time.Time) (*AppConfig, error) {
	if f.SMSDelaySec < 0 {
		return nil, domain.Invalid(domain.MsgInvalidSMSDelay)
	}
	name := strings.TrimSpace(f.CompanyName)
	csv := strings.TrimSpace(f.AddressesCSVName)
	tmpl := f.MessageTemplate
	delay := f.SMSDelaySec
	incl := f.IncludeUnknownPhoneType
	return &AppConfig{
		ID:                      AppConfigID,
		CompanyName:             &name,
		MessageTemplate:         &tmpl,
		SMSDelaySec:             &delay,
		IncludeUnknownPhoneType: &incl,
		AddressesCSVName:        &csv,
		UpdatedAt:               &now,
	}, nil
}

// CampaignSettings are the effective settings with defaults filled in.
type CampaignSettings struct {
	CompanyName             string `json:"company_name"`
	MessageTemplate         string `json:"message_template"`
	SMSDelaySec             int    `json:"sms_delay_sec"`
	IncludeUnknownPhoneType bool   `json:"include_unknown_phone_type"`
	AddressesCSVName        string `json:"addresses_csv_name"`
}

func DefaultCampaignSettings() CampaignSettings {
	return CampaignSettings{
		CompanyName:             DefaultCompanyName,
		MessageTemplate:         DefaultMessageTemplate,
		SMSDelaySec:             DefaultSMSDelaySec,
		IncludeUnknownPhoneType: DefaultIncludeUnknownPhoneType,
		AddressesCSVName:        DefaultAddressesCSVName,
	}
}

// Effective is nil-safe: a missing row yields the defaults.
func (c *AppConfig) Effective() CampaignSettings {
	s := DefaultCampaignSettings()
	if c == nil {
		return s
	}
	if c.CompanyName != nil {
		s.CompanyName = *c.CompanyName
	}
	if c.MessageTemplate != nil {
		s.MessageTemplate = *c.MessageTemplate
	}
	if c.SMSDelaySec != nil {
		s.SMSDelaySec = *c.SMSDelaySec
	}
	if c.IncludeUnknownPhoneType != nil {
		s.IncludeUnknownPhoneType = *c.IncludeUnknownPhoneType
	}
	if c.AddressesCSVName != nil {
		s.AddressesCSVName = *c.AddressesCSVName
	}
	return s
}

// Payload is the ambient part of every job payload.
func (s CampaignSettings) Payload(dailyBatchLimit int) map[string]any {
	if dailyBatchLimit <= 0 {
		dailyBatchLimit = DefaultDailyBatchLimit
	}
	return map[string]any{
		"company_name":               s.CompanyName,
		"message_template":           s.MessageTemplate,
		"sms_delay_sec":              s.SMSDelaySec,
		"include_unknown_phone_type": s.IncludeUnknownPhoneType,
		"addresses_csv_name":         s.AddressesCSVName,
		"daily_batch_limit":          dailyBatchLimit,
	}
}

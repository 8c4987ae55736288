package usecase

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"tree-service-leads/internal/domain"
	"tree-service-leads/internal/domain/model"
	"tree-service-leads/internal/domain/phone"
)

const (
	// SMSMaxLen bounds free-text SMS bodies enqueued by staff.
	SMSMaxLen = 160

	DefaultWarmLeadMessage = "Thanks for your interest! We'll be in touch shortly."
)

// ambientSchema covers the fields every job carries.
var ambientSchema = map[string]any{
	"company_name":               map[string]any{"type": "string"},
	"message_template":           map[string]any{"type": "string"},
	"sms_delay_sec":              map[string]any{"type": "integer", "minimum": 0},
	"include_unknown_phone_type": map[string]any{"type": "boolean"},
	"addresses_csv_name":         map[string]any{"type": "string"},
	"daily_batch_limit":          map[string]any{"type": "integer", "minimum": 1},
}

var actionSchemas = map[model.JobAction]struct {
	props    map[string]any
	required []string
}{
	model.ActionBuildSMSList: {props: map[string]any{
		"city":  map[string]any{"type": "string", "minLength": 1},
		"state": map[string]any{"type": "string", "minLength": 1, "maxLength": 2},
		"zip":   map[string]any{"type": "string", "pattern": "^[0-9]{1,10}$"},
	}},
	model.ActionSendWarmLeadMessage: {
		props:    map[string]any{"message": map[string]any{"type": "string", "minLength": 1, "maxLength": SMSMaxLen}},
		required: []string{"message"},
	},
	model.ActionSendSingleSMS: {
		props: map[string]any{
			"phone":   map[string]any{"type": "string", "pattern": "^[0-9]{10}$"},
			"message": map[string]any{"type": "string", "minLength": 1, "maxLength": SMSMaxLen},
		},
		required: []string{"phone", "message"},
	},
}

// payloadValidator holds one compiled schema per action.
type payloadValidator struct {
	schemas map[model.JobAction]*jsonschema.Schema
}

func newPayloadValidator() (*payloadValidator, error) {
	v := &payloadValidator{schemas: make(map[model.JobAction]*jsonschema.Schema, len(model.JobActions))}
	for _, action := range model.JobActions {
		props := make(map[string]any, len(ambientSchema)+3)
		required := make([]string, 0, len(ambientSchema)+2)
		for k, s := range ambientSchema {
			props[k] = s
			required = append(required, k)
		}
		if extra, ok := actionSchemas[action]; ok {
			for k, s := range extra.props {
				props[k] = s
			}
			required = append(required, extra.required...)
		}
		doc, err := json.Marshal(map[string]any{
			"$schema":    "https://json-schema.org/draft/2020-12/schema",
			"type":       "object",
			"properties": props,
			"required":   required,
		})
		if err != nil {
			return nil, fmt.Errorf("marshal %s schema: %w", action, err)
		}
		url := string(action) + ".json"
		c := jsonschema.NewCompiler()
		if err := c.AddResource(url, bytes.NewReader(doc)); err != nil {
			return nil, fmt.Errorf("add %s schema: %w", action, err)
		}
		s, err := c.Compile(url)
		if err != nil {
			return nil, fmt.Errorf("compile %s schema: %w", action, err)
		}
		v.schemas[action] = s
	}
	return v, nil
}

// Validate checks payload as it will be stored, after a JSON round trip.
func (v *payloadValidator) Validate(action model.JobAction, payload map[string]any) error {
	s, ok := v.schemas[action]
	if !ok {
		return domain.Invalid(domain.MsgUnknownJobAction)
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return &domain.ValidationError{Message: domain.MsgInvalidJobPayload, Cause: err}
	}
	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return &domain.ValidationError{Message: domain.MsgInvalidJobPayload, Cause: err}
	}
	if err := s.Validate(doc); err != nil {
		return &domain.ValidationError{Message: domain.MsgInvalidJobPayload, Cause: err}
	}
	return nil
}

// mergePayload lays fields over ambient and normalizes the per-action keys.
func mergePayload(action model.JobAction, ambient, fields map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(ambient)+len(fields))
	for k, v := range ambient {
		out[k] = v
	}
	for k, v := range fields {
		out[k] = v
	}

	switch action {
	case model.ActionBuildSMSList:
		setOrDrop(out, "city", strings.TrimSpace(stringField(out, "city")))
		state := strings.ToUpper(strings.TrimSpace(stringField(out, "state")))
		if utf8.RuneCountInString(state) > 2 {
			state = string([]rune(state)[:2])
		}
		setOrDrop(out, "state", state)
		setOrDrop(out, "zip", digitsOnly(stringField(out, "zip"), 10))

	case model.ActionSendWarmLeadMessage:
		msg := strings.TrimSpace(stringField(out, "message"))
		if msg == "" {
			msg = DefaultWarmLeadMessage
		}
		if utf8.RuneCountInString(msg) > SMSMaxLen {
			return nil, domain.Invalid(domain.MsgMessageTooLong)
		}
		out["message"] = msg

	case model.ActionSendSingleSMS:
		key, ok := phone.Key(stringField(out, "phone"))
		if !ok {
			return nil, domain.Invalid(domain.MsgEnterValidPhone)
		}
		out["phone"] = key
		msg := strings.TrimSpace(stringField(out, "message"))
		if msg == "" {
			return nil, domain.Invalid(domain.MsgMessageRequired)
		}
		if utf8.RuneCountInString(msg) > SMSMaxLen {
			return nil, domain.Invalid(domain.MsgMessageTooLong)
		}
		out["message"] = msg
	}
	return out, nil
}

func stringField(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func setOrDrop(m map[string]any, key, val string) {
	if val == "" {
		delete(m, key)
		return
	}
	m[key] = val
}

func digitsOnly(s string, limit int) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) && r < utf8.RuneSelf {
			b.WriteRune(r)
			if b.Len() == limit {
				break
			}
		}
	}
	return b.String()
}

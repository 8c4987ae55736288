package model

import (
	"time"

	"tree-service-leads/internal/domain"
	"tree-service-leads/internal/domain/phone"

	"github.com/google/uuid"
)

const (
	OptOutSourceSMS    = "SMS reply"
	OptOutSourceManual = "Manual"
)

// OptOut records a do-not-contact request. Rows are a log, not a set.
type OptOut struct {
	ID          string    `json:"id"`
	PhoneNumber string    `json:"phone_number"`
	Date        time.Time `json:"date"`
	Source      string    `json:"source"`
}

// NewOptOut expects an already validated phone key.
func NewOptOut(key, source string) (*OptOut, error) {
	if !phone.Valid(key) {
		return nil, domain.ErrInvalidArgument
	}
	return &OptOut{
		ID:          uuid.NewString(),
		PhoneNumber: key,
		Date:        time.Now(),
		Source:      source,
	}, nil
}

// OptOutPatch is a partial update. Nil fields are left unchanged.
type OptOutPatch struct {
	PhoneNumber *string `json:"phone_number"`
	Source      *string `json:"source"`
}

func (p OptOutPatch) Empty() bool { return p.PhoneNumber == nil && p.Source == nil }

package model

import (
	"strings"
	"time"

	"tree-service-leads/internal/domain"
	"tree-service-leads/internal/domain/phone"

	"github.com/google/uuid"
)

// ContactNote is a free-form staff annotation keyed by phone.
type ContactNote struct {
	ID          string    `json:"id"`
	PhoneNumber string    `json:"phone_number"`
	Note        string    `json:"note"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewContactNote(rawPhone, note string) (*ContactNote, error) {
	key, ok := phone.Key(rawPhone)
	if !ok {
		return nil, domain.Invalid(domain.MsgInvalidPhone)
	}
	text, err := CleanNote(note)
	if err != nil {
		return nil, err
	}
	return &ContactNote{
		ID:          uuid.NewString(),
		PhoneNumber: key,
		Note:        text,
		CreatedAt:   time.Now(),
	}, nil
}

// CleanNote trims note and rejects empty text.
func CleanNote(note string) (string, error) {
	t := strings.TrimSpace(note)
	if t == "" {
		return "", domain.Invalid(domain.MsgNoteRequired)
	}
	return t, nil
}

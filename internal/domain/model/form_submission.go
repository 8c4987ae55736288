package model

import (
	"time"

	"tree-service-leads/internal/domain"

	"github.com/google/uuid"
)

// FormSubmission is one entry from the public contact form.
type FormSubmission struct {
	ID        string    `json:"id"`
	Name      *string   `json:"name"`
	Phone     *string   `json:"phone"`
	Address   *string   `json:"address"`
	Email     *string   `json:"email"`
	Message   *string   `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// FormInput is the raw form as posted by a visitor.
type FormInput struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// NewFormSubmission trims every field; blanks are stored as NULL.
func NewFormSubmission(in FormInput) (*FormSubmission, error) {
	fs := &FormSubmission{
		ID:        uuid.NewString(),
		Name:      TrimmedOrNil(in.Name),
		Phone:     TrimmedOrNil(in.Phone),
		Address:   TrimmedOrNil(in.Address),
		Email:     TrimmedOrNil(in.Email),
		Message:   TrimmedOrNil(in.Message),
		CreatedAt: time.Now(),
	}
	if fs.Name == nil || fs.Phone == nil {
		return nil, domain.Invalid(domain.MsgNameAndPhone)
	}
	return fs, nil
}

type FormSubmissionPatch struct {
	Name    NullableString `json:"name"`
	Phone   NullableString `json:"phone"`
	Address NullableString `json:"address"`
	Email   NullableString `json:"email"`
	Message NullableString `json:"message"`
}

func (p FormSubmissionPatch) Empty() bool {
	return !p.Name.Set && !p.Phone.Set && !p.Address.Set && !p.Email.Set && !p.Message.Set
}

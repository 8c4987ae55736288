package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound        = errors.New("entity not found")
	ErrAlreadyExists   = errors.New("entity already exists")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotConfigured   = errors.New("datastore not configured")

	// Storage errors
	ErrReadDatabaseRow    = errors.New("failed to read database row")
	ErrInvalidExecContext = errors.New("invalid execution context for query")
)

// Messages shown to staff and visitors as-is.
const (
	MsgNotConfigured     = "Datastore not configured. Set database.url."
	MsgInvalidPhone      = "Invalid phone."
	MsgEnterValidPhone   = "Enter a valid 10-digit phone number."
	MsgNoteRequired      = "Note is required."
	MsgFormUnavailable   = "Form is temporarily unavailable."
	MsgNameAndPhone      = "Name and phone are required."
	MsgInvalidSMSDelay   = "SMS delay must be zero or more seconds."
	MsgMessageRequired   = "Message is required."
	MsgMessageTooLong    = "Message must be 160 characters or fewer."
	MsgUnknownJobAction  = "Unknown job action."
	MsgInvalidJobPayload = "Job payload is invalid."
)

// ValidationError carries a user-facing message. It matches ErrInvalidArgument.
type ValidationError struct {
	Message string
	Cause   error
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrInvalidArgument, e.Cause}
	}
	return []error{ErrInvalidArgument}
}

// Invalid builds a ValidationError with the given message.
func Invalid(msg string) error {
	return &ValidationError{Message: msg}
}

// UserMessage returns the user-facing message of err, or fallback when err
// carries none.
func UserMessage(err error, fallback string) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	if errors.Is(err, ErrNotConfigured) {
		return MsgNotConfigured
	}
	return fallback
}

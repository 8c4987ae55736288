package model

import (
	"bytes"
	"encoding/json"
)

// NullableString is a patch field that tells an absent key from an explicit null.
type NullableString struct {
	Set   bool
	Value *string
}

func (n *NullableString) UnmarshalJSON(b []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		n.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	n.Value = &s
	return nil
}

// SetString is a present, non-null patch value.
func SetString(s string) NullableString { return NullableString{Set: true, Value: &s} }

// SetNull is a present null patch value.
func SetNull() NullableString { return NullableString{Set: true} }

// TrimmedOrNil returns nil for blank input, the trimmed value otherwise.
func TrimmedOrNil(s string) *string {
	t := trimSpace(s)
	if t == "" {
		return nil
	}
	return &t
}

// Deref returns the pointed-to string or "".
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

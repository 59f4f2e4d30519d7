package models

import (
	"bytes"
	"errors"
)

// Message is an opaque message payload kept as its encoded JSON value.
// The digest pipeline never looks inside it; it is carried from input to
// output unchanged.
type Message []byte

// MarshalJSON returns the raw value. A nil message encodes as null.
func (m Message) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}
	return m, nil
}

// UnmarshalJSON stores a copy of the raw value.
func (m *Message) UnmarshalJSON(data []byte) error {
	if m == nil {
		return errors.New("models.Message: UnmarshalJSON on nil pointer")
	}
	*m = append((*m)[0:0], data...)
	return nil
}

// Size returns the length of the encoded value in bytes.
func (m Message) Size() int {
	return len(bytes.TrimSpace(m))
}

// String returns the encoded value.
func (m Message) String() string {
	return string(m)
}

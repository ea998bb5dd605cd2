package irc

import (
	"errors"
	"fmt"
)

var (
	// ErrNoMatch reports a line that does not conform to the message grammar.
	ErrNoMatch = errors.New("line does not match message grammar")
	// ErrNoCommand reports a line with no command token.
	ErrNoCommand = errors.New("line is missing a command")
	// ErrInvalid reports a malformed command token or an unserializable message.
	ErrInvalid = errors.New("invalid message")
)

// PromotionError reports a Generic command whose code matches a known mapping
// but whose parameters do not fit the typed shape. The message is still usable
// in its Generic form.
type PromotionError struct {
	Code   Code
	Reason string
}

func (e *PromotionError) Error() string {
	return fmt.Sprintf("promote %s: %s", e.Code, e.Reason)
}

func (e *PromotionError) Unwrap() error {
	return ErrInvalid
}

// Package irc implements the wire codec and the command taxonomy for the
// IRC client protocol: a parser from raw CRLF-terminated lines to structured
// messages, the inverse serializer, and the mapping between well-known
// commands and their generic wire shape.
package irc

import (
	"fmt"
	"strconv"
	"strings"
)

// Tag is a single IRCv3 message tag. Value is nil when the key appeared
// without "=". Tag-value escape sequences are not implemented.
type Tag struct {
	Key   string
	Value *string
}

// Message is one protocol line in structured form. An empty Prefix means the
// line carried no prefix segment.
type Message struct {
	Tags    []Tag
	Prefix  string
	Command Command
}

// Parse converts one raw line, including the terminating CRLF, into a
// Message. Grammar failures return a nil-command Message and one of
// ErrNoMatch, ErrNoCommand or ErrInvalid. When the line is grammatical but a
// known command code has the wrong shape, Parse returns the message with its
// Generic command together with a *PromotionError, so callers can degrade
// instead of dropping the line.
func Parse(line string) (Message, error) {
	rest, ok := strings.CutSuffix(line, "\r\n")
	if !ok {
		return Message{}, fmt.Errorf("%w: %q", ErrNoMatch, line)
	}
	if strings.ContainsAny(rest, "\r\n\x00") {
		return Message{}, fmt.Errorf("%w: %q", ErrNoMatch, line)
	}

	var msg Message

	if strings.HasPrefix(rest, "@") {
		rawTags, tail, found := strings.Cut(rest[1:], " ")
		if !found || rawTags == "" {
			return Message{}, fmt.Errorf("%w: %q", ErrNoMatch, line)
		}
		for _, entry := range strings.Split(rawTags, ";") {
			if key, value, ok := strings.Cut(entry, "="); ok {
				v := value
				msg.Tags = append(msg.Tags, Tag{Key: key, Value: &v})
			} else {
				msg.Tags = append(msg.Tags, Tag{Key: entry})
			}
		}
		rest = tail
	}

	if strings.HasPrefix(rest, ":") {
		prefix, tail, found := strings.Cut(rest[1:], " ")
		if !found || prefix == "" {
			return Message{}, fmt.Errorf("%w: %q", ErrNoMatch, line)
		}
		msg.Prefix = prefix
		rest = tail
	}

	token, tail, hasParams := strings.Cut(rest, " ")
	if token == "" || token[0] == ':' {
		// A trailing parameter in the command position means the line has
		// no command at all.
		return Message{}, fmt.Errorf("%w: %q", ErrNoCommand, line)
	}
	code, err := parseCode(token)
	if err != nil {
		return Message{}, err
	}

	gen := Generic{Code: code}
	if hasParams {
		rest = tail
		for rest != "" {
			if rest[0] == ':' {
				trailing := rest[1:]
				gen.Trailing = &trailing
				break
			}
			param, tail, _ := strings.Cut(rest, " ")
			if param == "" {
				return Message{}, fmt.Errorf("%w: %q", ErrNoMatch, line)
			}
			gen.Params = append(gen.Params, param)
			rest = tail
		}
	}

	cmd, perr := Promote(gen)
	if perr != nil {
		msg.Command = gen
		return msg, perr
	}
	msg.Command = cmd
	return msg, nil
}

// Serialize emits the wire form of the message, terminated by CRLF. It fails
// with ErrInvalid rather than produce an ambiguous line: no middle parameter
// may contain space, CR, LF or NUL, or begin with a colon. A final middle
// parameter that needs the trailing position is emitted there, matching what
// a parser will read back.
func (m Message) Serialize() (string, error) {
	var b strings.Builder

	if len(m.Tags) > 0 {
		b.WriteByte('@')
		for i, tag := range m.Tags {
			if i > 0 {
				b.WriteByte(';')
			}
			if invalidTagPart(tag.Key) {
				return "", fmt.Errorf("%w: tag key %q", ErrInvalid, tag.Key)
			}
			b.WriteString(tag.Key)
			if tag.Value != nil {
				if invalidTagPart(*tag.Value) {
					return "", fmt.Errorf("%w: tag value %q", ErrInvalid, *tag.Value)
				}
				b.WriteByte('=')
				b.WriteString(*tag.Value)
			}
		}
		b.WriteByte(' ')
	}

	if m.Prefix != "" {
		if strings.ContainsAny(m.Prefix, " \r\n\x00") {
			return "", fmt.Errorf("%w: prefix %q", ErrInvalid, m.Prefix)
		}
		b.WriteByte(':')
		b.WriteString(m.Prefix)
		b.WriteByte(' ')
	}

	if m.Command == nil {
		return "", fmt.Errorf("%w: no command", ErrInvalid)
	}
	gen := Demote(m.Command)
	b.WriteString(gen.Code.String())

	for i, param := range gen.Params {
		if strings.ContainsAny(param, "\r\n\x00") {
			return "", fmt.Errorf("%w: parameter %q", ErrInvalid, param)
		}
		last := i == len(gen.Params)-1 && gen.Trailing == nil
		if strings.ContainsRune(param, ' ') || strings.HasPrefix(param, ":") || param == "" {
			if !last {
				return "", fmt.Errorf("%w: middle parameter %q", ErrInvalid, param)
			}
			b.WriteString(" :")
			b.WriteString(param)
			continue
		}
		b.WriteByte(' ')
		b.WriteString(param)
	}

	if gen.Trailing != nil {
		if strings.ContainsAny(*gen.Trailing, "\r\n\x00") {
			return "", fmt.Errorf("%w: trailing %q", ErrInvalid, *gen.Trailing)
		}
		b.WriteString(" :")
		b.WriteString(*gen.Trailing)
	}

	b.WriteString("\r\n")
	return b.String(), nil
}

func invalidTagPart(s string) bool {
	return strings.ContainsAny(s, " ;\r\n\x00")
}

// Code is a command token: either a text verb of uppercase ASCII letters or a
// three-digit numeric reply code. The zero value is not a valid code.
type Code struct {
	text    string
	num     uint16
	numeric bool
}

func TextCode(verb string) Code {
	return Code{text: verb}
}

func NumericCode(n uint16) Code {
	return Code{num: n, numeric: true}
}

func (c Code) IsNumeric() bool {
	return c.numeric
}

// Num returns the numeric reply code, valid only when IsNumeric.
func (c Code) Num() uint16 {
	return c.num
}

// Verb returns the text command, valid only when not numeric.
func (c Code) Verb() string {
	return c.text
}

// String renders the wire token; numeric codes are zero-padded to three
// digits.
func (c Code) String() string {
	if c.numeric {
		return fmt.Sprintf("%03d", c.num)
	}
	return c.text
}

func parseCode(token string) (Code, error) {
	switch ch := token[0]; {
	case ch >= '0' && ch <= '9':
		if len(token) != 3 {
			return Code{}, fmt.Errorf("%w: numeric command %q", ErrInvalid, token)
		}
		n, err := strconv.ParseUint(token, 10, 16)
		if err != nil {
			return Code{}, fmt.Errorf("%w: numeric command %q", ErrInvalid, token)
		}
		return NumericCode(uint16(n)), nil
	case ch >= 'A' && ch <= 'Z':
		for i := 0; i < len(token); i++ {
			if token[i] < 'A' || token[i] > 'Z' {
				return Code{}, fmt.Errorf("%w: command %q", ErrInvalid, token)
			}
		}
		return TextCode(token), nil
	default:
		return Code{}, fmt.Errorf("%w: command %q", ErrInvalid, token)
	}
}

package session

import "ircengine/internal/app/domain/irc"

type EventKind int

const (
	// EventRaw carries every successfully parsed message, before any
	// semantic event derived from it.
	EventRaw EventKind = iota
	EventStatusChange
	EventWelcome
	EventError
	EventNotice
	EventMotd
	EventUnhandled
	// EventParseError surfaces a recoverable per-line failure: grammar
	// errors, promotion errors, and MOTD ordering violations.
	EventParseError
)

func (k EventKind) String() string {
	switch k {
	case EventRaw:
		return "raw"
	case EventStatusChange:
		return "status_change"
	case EventWelcome:
		return "welcome"
	case EventError:
		return "error"
	case EventNotice:
		return "notice"
	case EventMotd:
		return "motd"
	case EventUnhandled:
		return "unhandled"
	case EventParseError:
		return "parse_error"
	}
	return "unknown"
}

// Event is one notification delivered to handlers. Which payload fields are
// set depends on Kind: Message for Raw and Unhandled, Text for Welcome,
// Notice and Error, Err and Line for ParseError.
type Event struct {
	Kind    EventKind
	Message *irc.Message
	Text    string
	Err     error
	Line    string
}

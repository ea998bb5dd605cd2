// Package session holds the per-connection state derived from the stream:
// connection status, the MOTD accumulator, server info, and the event types
// delivered to handlers.
package session

import (
	"errors"
	"fmt"
)

type Status int

const (
	StatusConnecting Status = iota
	StatusConnected
	StatusDisconnected
)

func (s Status) String() string {
	switch s {
	case StatusConnecting:
		return "connecting"
	case StatusConnected:
		return "connected"
	case StatusDisconnected:
		return "disconnected"
	}
	return "unknown"
}

// ErrMotdOrder reports a MOTD reply received outside the
// start -> lines -> end sequence.
var ErrMotdOrder = errors.New("out-of-order MOTD reply")

type MotdPhase int

const (
	MotdEmpty MotdPhase = iota
	MotdBuilding
	MotdDone
)

func (p MotdPhase) String() string {
	switch p {
	case MotdEmpty:
		return "empty"
	case MotdBuilding:
		return "building"
	case MotdDone:
		return "done"
	}
	return "unknown"
}

// Motd accumulates the multi-line message of the day. The zero value is the
// empty state. Ordering violations return ErrMotdOrder and leave the
// already-accumulated text untouched.
type Motd struct {
	Phase MotdPhase
	Text  string
}

func (m *Motd) Start(line string) error {
	if m.Phase != MotdEmpty {
		return fmt.Errorf("%w: start while %s", ErrMotdOrder, m.Phase)
	}
	m.Text = line + "\n"
	m.Phase = MotdBuilding
	return nil
}

func (m *Motd) Append(line string) error {
	if m.Phase != MotdBuilding {
		return fmt.Errorf("%w: line while %s", ErrMotdOrder, m.Phase)
	}
	m.Text += line + "\n"
	return nil
}

// Finish appends the final line without a trailing newline and seals the
// accumulator.
func (m *Motd) Finish(line string) error {
	if m.Phase != MotdBuilding {
		return fmt.Errorf("%w: end while %s", ErrMotdOrder, m.Phase)
	}
	m.Text += line
	m.Phase = MotdDone
	return nil
}

// ServerInfo carries the fields announced by the 004 reply.
type ServerInfo struct {
	Name              string
	Version           string
	UserModes         string
	ChannelModes      string
	ChannelModeParams *string
}

// Context is an immutable snapshot of the connection state at the moment an
// event was raised.
type Context struct {
	Status Status
	Motd   Motd
}

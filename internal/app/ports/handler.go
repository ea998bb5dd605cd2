package ports

import "ircengine/internal/app/domain/session"

// HandlerPort receives every event raised by the dispatcher, in registration
// order. Handlers run on the read-loop goroutine and must return quickly; a
// handler that blocks stalls all protocol processing, including keepalive
// replies.
type HandlerPort interface {
	OnEvent(ctx session.Context, ev session.Event)
}

// HandlerFunc adapts a function to HandlerPort.
type HandlerFunc func(ctx session.Context, ev session.Event)

func (f HandlerFunc) OnEvent(ctx session.Context, ev session.Event) {
	f(ctx, ev)
}

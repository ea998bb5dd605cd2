package app

import (
	"log/slog"

	"ircengine/internal/app/domain/irc"
	"ircengine/internal/app/domain/session"
	"ircengine/internal/app/ports"
	"ircengine/pkg/logger"
)

// logEvents is the default handler: it mirrors the session events into the
// structured log.
func logEvents(log logger.Logger) ports.HandlerPort {
	return ports.HandlerFunc(func(ctx session.Context, ev session.Event) {
		switch ev.Kind {
		case session.EventStatusChange:
			log.Info("Connection status changed", slog.String("status", ctx.Status.String()))
		case session.EventWelcome:
			log.Info(ev.Text)
		case session.EventNotice:
			log.Info("Server notice", slog.String("text", ev.Text))
		case session.EventError:
			log.Error("Server error", nil, slog.String("text", ev.Text))
		case session.EventMotd:
			log.Info(ctx.Motd.Text)
		case session.EventParseError:
			log.Warn("Unusable line", slog.String("line", ev.Line), slog.String("error", ev.Err.Error()))
		case session.EventUnhandled:
			log.Debug("Unhandled command", slog.String("command", irc.Demote(ev.Message.Command).Code.String()))
		}
	})
}

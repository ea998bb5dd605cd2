package ports

import "ircengine/internal/app/domain/session"

type ClientPort interface {
	Connect() error
	Say(target, text string) error
	Join(channel string) error
	Part(channel string) error
	Quit(reason string) error
	Context() session.Context
	ServerInfo() session.ServerInfo
	Close() error
}

package config

import "time"

const (
	TransportTCP       = "tcp"
	TransportWebSocket = "websocket"
)

func (m *Manager) GetDefault() *Config {
	return &Config{
		App: App{
			LogLevel: "info",
			Nickname: "ircengine",
		},
		Server: Server{
			Address:   "irc.libera.chat:6697",
			Transport: TransportTCP,
			TLS:       true,
		},
		Limiter: Limiter{
			Requests: 3,
			Per:      30 * time.Second,
		},
		History: History{
			Capacity: 256,
			TTL:      time.Hour,
		},
	}
}

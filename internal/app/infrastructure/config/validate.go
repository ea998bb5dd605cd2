package config

import (
	"errors"
	"fmt"
	"strings"
)

func (m *Manager) validate(cfg *Config) error {
	// app
	validLevels := map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "error": true, "fatal": true}
	if cfg.App.LogLevel != "" && !validLevels[cfg.App.LogLevel] {
		return fmt.Errorf("app.log_level must be one of trace, debug, info, warn, error, fatal; got %s", cfg.App.LogLevel)
	}

	if cfg.App.Nickname == "" {
		return errors.New("app.nickname is required")
	}
	if strings.ContainsAny(cfg.App.Nickname, " \r\n\x00") {
		return errors.New("app.nickname must not contain whitespace")
	}
	if cfg.App.Username == "" {
		cfg.App.Username = cfg.App.Nickname
	}
	if cfg.App.Realname == "" {
		cfg.App.Realname = cfg.App.Nickname
	}

	// server
	if cfg.Server.Address == "" {
		return errors.New("server.address is required")
	}
	switch cfg.Server.Transport {
	case TransportTCP, TransportWebSocket:
	case "":
		cfg.Server.Transport = TransportTCP
	default:
		return fmt.Errorf("server.transport must be %q or %q; got %s", TransportTCP, TransportWebSocket, cfg.Server.Transport)
	}

	// http
	if cfg.HTTP.Listen != "" && cfg.HTTP.AuthToken == "" {
		return errors.New("http.auth_token is required when http.listen is set")
	}

	// limiter
	if (cfg.Limiter.Requests != 0 && cfg.Limiter.Per == 0) || (cfg.Limiter.Requests == 0 && cfg.Limiter.Per != 0) {
		return errors.New("limiter.requests and limiter.per must both be set or both be zero")
	}

	// history
	if cfg.History.Capacity < 0 {
		return errors.New("history.capacity must not be negative")
	}

	return nil
}

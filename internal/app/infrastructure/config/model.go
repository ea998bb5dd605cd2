package config

import "time"

type Config struct {
	App     App     `json:"app"`
	Server  Server  `json:"server"`
	HTTP    HTTP    `json:"http"`
	Limiter Limiter `json:"limiter"`
	History History `json:"history"`
}

type App struct {
	LogLevel string `json:"log_level"`
	Nickname string `json:"nickname"`
	Username string `json:"username"`
	Realname string `json:"realname"`
	Password string `json:"password"`
}

type Server struct {
	// Address is a host:port for the tcp transport or a ws:// / wss:// URL
	// for the websocket transport.
	Address   string `json:"address"`
	Transport string `json:"transport"`
	TLS       bool   `json:"tls"`
}

type HTTP struct {
	// Listen is empty when the HTTP surface is disabled.
	Listen    string `json:"listen"`
	AuthToken string `json:"auth_token"`
}

type Limiter struct {
	Requests int           `json:"requests"`
	Per      time.Duration `json:"per"`
}

type History struct {
	Capacity int           `json:"capacity"`
	TTL      time.Duration `json:"ttl"`
}

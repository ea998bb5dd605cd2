package app

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"ircengine/internal/app/adapters/client"
	router "ircengine/internal/app/adapters/http"
	"ircengine/internal/app/adapters/metrics"
	"ircengine/internal/app/adapters/transport"
	"ircengine/internal/app/infrastructure/config"
	"ircengine/internal/app/infrastructure/storage"
	"ircengine/internal/app/ports"
	"ircengine/pkg/logger"
)

const configPath = "config.json"

func New() error {
	log := logger.New()

	manager, err := config.New(configPath)
	if err != nil {
		log.Fatal("Error loading config", err)
	}

	cfg := manager.Get()
	log.SetLogLevel(cfg.App.LogLevel)

	prometheus.MustRegister(metrics.LineProcessingTime)

	var tr ports.TransportPort
	switch cfg.Server.Transport {
	case config.TransportWebSocket:
		tr, err = transport.DialWebSocket(cfg.Server.Address)
	default:
		tr, err = transport.DialTCP(cfg.Server.Address, cfg.Server.TLS)
	}
	if err != nil {
		log.Error("Error connecting to server", err)
		return err
	}

	history := storage.NewHistory(cfg.History.Capacity, cfg.History.TTL)
	prefixedLog := logger.NewPrefixedLogger(log, cfg.Server.Address)

	c := client.New(log, manager, tr, history, logEvents(prefixedLog))
	if err := c.Connect(); err != nil {
		log.Error("Error registering with server", err)
		return err
	}
	log.Info(fmt.Sprintf("[%s] Client started", cfg.Server.Address))

	if cfg.HTTP.Listen == "" {
		return nil
	}
	return router.NewRouter(log, manager, c, history).Run()
}

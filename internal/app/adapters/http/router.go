package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ircengine/internal/app/adapters/http/handlers"
	"ircengine/internal/app/infrastructure/config"
	"ircengine/internal/app/ports"
	"ircengine/pkg/logger"
)

type Router struct {
	router   *gin.Engine
	handlers *handlers.Handlers

	log     logger.Logger
	manager *config.Manager
}

func NewRouter(log logger.Logger, manager *config.Manager, client ports.ClientPort, history ports.HistoryPort) *Router {
	r := &Router{
		router:   gin.Default(),
		handlers: handlers.New(log, manager, client, history),
		log:      log,
		manager:  manager,
	}
	cfg := manager.Get()

	pprofGroup := r.router.Group("/", gin.BasicAuth(gin.Accounts{
		"admin": cfg.HTTP.AuthToken,
	}))
	pprof.Register(pprofGroup)

	r.router.GET("/metrics", gin.BasicAuth(gin.Accounts{
		"admin": cfg.HTTP.AuthToken,
	}), gin.WrapH(promhttp.Handler()))

	r.router.GET("/healthcheck", r.handlers.HealthcheckHandler)
	r.router.GET("/status", r.handlers.StatusHandler)
	r.router.GET("/history", r.handlers.HistoryHandler)
	return r
}

func (r *Router) Run() error {
	srv := r.newServer(r.manager.Get().HTTP.Listen, r.router)
	return srv.ListenAndServe()
}

func (r *Router) newServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}
}

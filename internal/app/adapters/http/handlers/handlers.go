package handlers

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/cpu"

	"ircengine/internal/app/infrastructure/config"
	"ircengine/internal/app/ports"
	"ircengine/pkg/logger"
)

var startApp = time.Now()

type Handlers struct {
	log     logger.Logger
	manager *config.Manager
	client  ports.ClientPort
	history ports.HistoryPort
}

func New(log logger.Logger, manager *config.Manager, client ports.ClientPort, history ports.HistoryPort) *Handlers {
	return &Handlers{
		log:     log,
		manager: manager,
		client:  client,
		history: history,
	}
}

func (h *Handlers) HealthcheckHandler(c *gin.Context) {
	uptime := time.Since(startApp)

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	percent, _ := cpu.Percent(0, false)
	if len(percent) == 0 {
		percent = append(percent, 0)
	}

	c.JSON(http.StatusOK, gin.H{
		"uptime":     uptime.Truncate(time.Second).String(),
		"cpu":        fmt.Sprintf("%.2f%%", percent[0]),
		"memory_mb":  m.Sys / 1024 / 1024,
		"connection": h.client.Context().Status.String(),
	})
}

func (h *Handlers) StatusHandler(c *gin.Context) {
	ctx := h.client.Context()
	info := h.client.ServerInfo()

	c.JSON(http.StatusOK, gin.H{
		"status":         ctx.Status.String(),
		"motd_phase":     ctx.Motd.Phase.String(),
		"motd":           ctx.Motd.Text,
		"server_name":    info.Name,
		"server_version": info.Version,
	})
}

func (h *Handlers) HistoryHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.history.Recent())
}

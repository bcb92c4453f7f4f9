package controllers

import (
	"fmt"
	"net/http"
	"time"

	"blogd/app/blog"
	"blogd/app/config"

	"github.com/sirupsen/logrus"
)

// HealthController reports on the running installation.
type HealthController struct {
	controller
	platform *config.PlatformContext
}

type blogStatus struct {
	ID      string `json:"id"`
	Started bool   `json:"started"`
}

type healthResponse struct {
	Status        string       `json:"status"`
	Version       string       `json:"version"`
	BuildDate     string       `json:"build_date"`
	Uptime        string       `json:"uptime"`
	UptimeSeconds float64      `json:"uptime_seconds"`
	MemoryUsed    uint64       `json:"memory_used"`
	MemoryTotal   uint64       `json:"memory_total"`
	Blogs         []blogStatus `json:"blogs"`
}

func NewHealthController(manager *blog.Manager, platform *config.PlatformContext, log *logrus.Logger) *HealthController {
	return &HealthController{
		controller: controller{manager: manager, log: log},
		platform:   platform,
	}
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := hc.platform.Uptime(time.Now())
	used, total := hc.platform.MemoryUsage()
	resp := healthResponse{
		Status:        "ok",
		Version:       hc.platform.Version,
		BuildDate:     hc.platform.BuildDate,
		Uptime:        formatDuration(uptime),
		UptimeSeconds: uptime.Seconds(),
		MemoryUsed:    used,
		MemoryTotal:   total,
		Blogs:         []blogStatus{},
	}
	for _, b := range hc.manager.Blogs() {
		resp.Blogs = append(resp.Blogs, blogStatus{ID: b.ID(), Started: b.IsStarted()})
	}

	hc.sendJSON(w, http.StatusOK, resp)
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

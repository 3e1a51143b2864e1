package handlers

import (
	"net/http"
	"time"

	"videotube/internal/middleware"
)

// HealthResponse reports liveness and uptime.
type HealthResponse struct {
	Status     string    `json:"status"`
	Uptime     string    `json:"uptime"`
	ServerTime time.Time `json:"serverTime"`
}

// HandleHealth handles health check requests
func (s *Server) HandleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		health := HealthResponse{
			Status:     "ok",
			ServerTime: time.Now().UTC(),
		}
		if s.Metrics != nil {
			health.Uptime = s.Metrics.Uptime().Round(time.Second).String()
		}
		middleware.WriteSuccess(w, http.StatusOK, health, "Service is healthy")
	}
}

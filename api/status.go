package api

import (
	"net/http"
	"time"
)

type statusResponse struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime"`
	Version string `json:"version"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	uptime := time.Since(s.StartTime).Truncate(time.Second).String()

	writeJSON(w, http.StatusOK, statusResponse{
		Status:  "ok",
		Uptime:  uptime,
		Version: s.Version,
	})
}

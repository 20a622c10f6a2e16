package handlers

import (
	"encoding/json"
	"net/http"
	"time"
)

// HealthResponse is the health check payload
type HealthResponse struct {
	Status    string    `json:"status"`
	Service   string    `json:"service"`
	Timestamp time.Time `json:"timestamp"`
}

// HealthHandler reports service liveness for the platform health check
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(HealthResponse{
		Status:    "healthy",
		Service:   "mediashare",
		Timestamp: time.Now().UTC(),
	})
}

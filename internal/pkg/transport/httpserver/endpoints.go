package httpserver

import (
	"log"
	"net/http"
)

type Handlers struct {
	service NotificationsService
}

func newHandlers(s NotificationsService) *Handlers {
	return &Handlers{s}
}

func (e Handlers) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (e Handlers) ReadinessCheckHandler(w http.ResponseWriter, r *http.Request) {
	if err := e.service.HealthCheck(r.Context()); err != nil {
		log.Printf("Readiness check failed: %v", err)
		http.Error(w, "Not ready", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

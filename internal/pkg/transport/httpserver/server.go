package httpserver

import (
	"context"
	"fmt"
	"log"
	"net/http"
)

type httpServer struct {
	server *http.Server

	notifications NotificationsSet
}

func NewHttpServer(notifications NotificationsSet) *httpServer {
	return &httpServer{
		notifications: notifications,
	}
}

func (s *httpServer) ListenAndServe(httpAddr string) error {
	mux := http.NewServeMux()

	endpoints := newHandlers(s.notifications)

	// health and readiness handlers
	mux.HandleFunc("/health", endpoints.HealthCheckHandler)
	mux.HandleFunc("/ready", endpoints.ReadinessCheckHandler)

	// notifications business handlers
	mux.HandleFunc("/v1/status", s.notifications.StatusHandler)
	mux.HandleFunc("/v1/notifications/sweep", s.notifications.SweepHandler)

	s.server = &http.Server{Addr: fmt.Sprintf(":%s", httpAddr), Handler: mux}

	log.Printf("Starting HTTP server on port %s\n", httpAddr)
	return s.server.ListenAndServe()
}

func (t *httpServer) Shutdown(ctx context.Context) error {
	if t.server != nil {
		return t.server.Shutdown(ctx)
	}
	return nil
}

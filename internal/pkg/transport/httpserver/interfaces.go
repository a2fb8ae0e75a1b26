package httpserver

import (
	"context"
	"net/http"
)

// notifications
type NotificationsSet interface {
	NotificationsService
	NotificationsEndpoints
}

type NotificationsService interface {
	HealthCheck(ctx context.Context) error
}

type NotificationsEndpoints interface {
	SweepHandler(w http.ResponseWriter, r *http.Request)
	StatusHandler(w http.ResponseWriter, r *http.Request)
}

package controller

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/marcelotrevisani/roboto/internal/app/notifications/service"
)

type Service interface {
	Sweep(ctx context.Context) error
	GetStatus(ctx context.Context) (service.Status, error)
}

type NotificationsEndpoints struct {
	service Service
}

func New(s Service) *NotificationsEndpoints {
	return &NotificationsEndpoints{s}
}

// SweepHandler triggers an immediate notifications sweep.
func (e NotificationsEndpoints) SweepHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	err := e.service.Sweep(r.Context())
	if err != nil {
		log.Printf("Error sweeping notifications: %v", err)
		http.Error(w, "Error sweeping notifications", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	response := map[string]string{"message": "Notifications swept successfully"}
	err = json.NewEncoder(w).Encode(response)
	if err != nil {
		log.Printf("Error encoding response: %v", err)
		http.Error(w, "Error encoding response", http.StatusInternalServerError)
	}
}

// StatusHandler reports the poller status.
func (e NotificationsEndpoints) StatusHandler(w http.ResponseWriter, r *http.Request) {
	status, err := e.service.GetStatus(r.Context())
	if err != nil {
		log.Printf("Error building status response: %v", err)
		http.Error(w, "Error building status response", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(status); err != nil {
		log.Printf("Error encoding response: %v", err)
		http.Error(w, "Error encoding response", http.StatusInternalServerError)
	}
}

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/Lixing-Zhang/restaurant-menu/internal/models"
)

// productLister is the part of the menu service the health check needs
type productLister interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
}

// HealthHandler provides health check endpoint
type HealthHandler struct {
	menu   productLister
	logger *slog.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(menu productLister, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		menu:   menu,
		logger: logger,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Products  int       `json:"products"`
}

// ServeHTTP handles health check requests
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	products, err := h.menu.ListProducts(r.Context())
	if err != nil {
		h.logger.Error("health check could not read the menu", "error", err)
		WriteJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:    "unhealthy",
			Timestamp: time.Now().UTC(),
			Version:   "1.0.0",
		}, h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   "1.0.0",
		Products:  len(products),
	}, h.logger)
}

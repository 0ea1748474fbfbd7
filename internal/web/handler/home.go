package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mcoot/elevate/internal/web/templates/pages"
)

// HomeHandler handles the landing page and health check
type HomeHandler struct{}

// NewHomeHandler creates a new HomeHandler
func NewHomeHandler() *HomeHandler {
	return &HomeHandler{}
}

// Home renders the landing page
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	render(w, r, pages.Landing(pages.LandingData{
		PageData: pageData(r, "Home", "/"),
	}))
}

// Health reports liveness
func (h *HomeHandler) Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

package controller

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns the controller's HTTP handler. The websocket endpoint lives
// at "/" to match existing panels, with "/ws" as an alias.
func (c *Controller) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/", c.hub.ServeHTTP)
	r.Get("/ws", c.hub.ServeHTTP)
	r.Get("/api/schedule", c.HandleSchedule)
	r.Get("/api/light", c.HandleLight)
	r.Get("/api/panels", c.HandlePanels)
	r.Get("/healthz", c.HandleHealth)
	return r
}

func (c *Controller) HandleSchedule(w http.ResponseWriter, r *http.Request) {
	sched, ok := c.schedules.Current()
	if !ok {
		http.Error(w, "no schedule set", http.StatusNotFound)
		return
	}
	writeJSON(w, sched)
}

func (c *Controller) HandleLight(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, c.light.State())
}

type panelInfo struct {
	ID          string `json:"id"`
	RemoteAddr  string `json:"remote_addr"`
	ConnectedAt int64  `json:"connected_at"`
}

func (c *Controller) HandlePanels(w http.ResponseWriter, r *http.Request) {
	panels := c.registry.List()
	out := make([]panelInfo, 0, len(panels))
	for _, p := range panels {
		out = append(out, panelInfo{ID: p.ID(), RemoteAddr: p.RemoteAddr(), ConnectedAt: p.ConnectedAt().Unix()})
	}
	writeJSON(w, out)
}

func (c *Controller) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"status": "ok",
		"panels": c.registry.Len(),
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to write response", "error", err.Error())
	}
}

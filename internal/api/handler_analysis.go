package api

import (
	"net/http"

	"parquet-explorer/internal/domain"
)

type trendResponse struct {
	Table  string              `json:"table"`
	Points []domain.TrendPoint `json:"points"`
}

// Profile handles GET /profile?table=.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	table := r.URL.Query().Get("table")
	if table == "" {
		table = h.opts.DefaultTable
	}
	p, err := h.svc.Profiler.Profile(r.Context(), table)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Trend handles GET /trend?max_points=.
func (h *Handler) Trend(w http.ResponseWriter, r *http.Request) {
	maxPoints, err := intQuery(r, "max_points", h.opts.TrendMaxPoints)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	points, err := h.svc.Trend.Trend(r.Context(), maxPoints)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if points == nil {
		points = []domain.TrendPoint{}
	}
	writeJSON(w, http.StatusOK, trendResponse{Table: h.svc.Trend.Table(), Points: points})
}

// Stats handles GET /stats. Failures degrade to zero values.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Trend.Stats(r.Context()))
}

// GenerateChart handles POST /charts.
func (h *Handler) GenerateChart(w http.ResponseWriter, r *http.Request) {
	var cfg domain.ChartConfig
	if err := decodeJSON(r, &cfg, false); err != nil {
		h.writeError(w, r, err)
		return
	}
	data, err := h.svc.Charts.Generate(r.Context(), cfg)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

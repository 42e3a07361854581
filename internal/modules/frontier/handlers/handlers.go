// Package handlers provides HTTP handlers for frontier computation operations.
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/aristath/restaking-frontier/internal/modules/frontier"
	"github.com/aristath/restaking-frontier/internal/modules/render"
)

// Handler handles frontier HTTP requests
type Handler struct {
	calc       *frontier.Calculator
	renderer   *render.Renderer
	gridPoints int
	log        zerolog.Logger
}

// NewHandler creates a new frontier handler. gridPoints is the grid
// resolution used when a request does not specify one; values outside
// 1..MaxGridPoints fall back to the default.
func NewHandler(
	calc *frontier.Calculator,
	renderer *render.Renderer,
	gridPoints int,
	log zerolog.Logger,
) *Handler {
	log = log.With().Str("handler", "frontier").Logger()
	if gridPoints < 1 || gridPoints > frontier.MaxGridPoints {
		log.Warn().
			Int("grid_points", gridPoints).
			Int("default", frontier.DefaultGridPoints).
			Msg("Configured grid resolution out of range, using default")
		gridPoints = frontier.DefaultGridPoints
	}
	return &Handler{
		calc:       calc,
		renderer:   renderer,
		gridPoints: gridPoints,
		log:        log,
	}
}

// parseParams builds market parameters from query parameters, starting from
// the defaults so callers only send what they change.
func (h *Handler) parseParams(r *http.Request) (frontier.MarketParams, int, error) {
	q := r.URL.Query()
	params := frontier.DefaultParams()

	fields := []struct {
		name string
		dst  *float64
	}{
		{"mu1", &params.Mu1},
		{"mu2", &params.Mu2},
		{"sigma1", &params.Sigma1},
		{"sigma2", &params.Sigma2},
		{"rho", &params.Rho},
		{"rf", &params.RiskFree},
	}
	for _, f := range fields {
		raw := q.Get(f.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return params, 0, fmt.Errorf("invalid %s parameter: %q", f.name, raw)
		}
		*f.dst = v
	}

	nPoints := h.gridPoints
	if raw := q.Get("n"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return params, 0, fmt.Errorf("invalid n parameter: %q", raw)
		}
		nPoints = v
	}
	if nPoints < 1 || nPoints > frontier.MaxGridPoints {
		return params, 0, fmt.Errorf("n must be between 1 and %d", frontier.MaxGridPoints)
	}

	if err := params.Validate(); err != nil {
		return params, 0, err
	}

	return params, nPoints, nil
}

// HandleGetFrontier handles GET /api/frontier
func (h *Handler) HandleGetFrontier(w http.ResponseWriter, r *http.Request) {
	params, nPoints, err := h.parseParams(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	start := time.Now()
	result, err := h.calc.Compute(params, nPoints)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to compute frontier")
		http.Error(w, "Failed to compute frontier", http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"data": result,
		"metadata": map[string]interface{}{
			"timestamp":      time.Now().Format(time.RFC3339),
			"computation_id": uuid.New().String(),
			"duration_ms":    time.Since(start).Seconds() * 1000,
			"grid_points":    nPoints,
		},
	}

	if strings.Contains(r.Header.Get("Accept"), "application/x-msgpack") {
		h.writeMsgpack(w, http.StatusOK, response)
		return
	}
	h.writeJSON(w, http.StatusOK, response)
}

// HandleGetPlot handles GET /api/frontier/plot.svg
func (h *Handler) HandleGetPlot(w http.ResponseWriter, r *http.Request) {
	params, nPoints, err := h.parseParams(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.calc.Compute(params, nPoints)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to compute frontier")
		http.Error(w, "Failed to compute frontier", http.StatusInternalServerError)
		return
	}

	svg, err := h.renderer.Render(result)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to render plot")
		http.Error(w, "Failed to render plot", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(svg); err != nil {
		h.log.Error().Err(err).Msg("Failed to write SVG response")
	}
}

// HandleGetParameters handles GET /api/frontier/parameters
func (h *Handler) HandleGetParameters(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"data": map[string]interface{}{
			"sliders":         frontier.Sliders(),
			"defaults":        frontier.DefaultParams(),
			"grid_points":     h.gridPoints,
			"max_grid_points": frontier.MaxGridPoints,
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}

	h.writeJSON(w, http.StatusOK, response)
}

// Helper methods

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeMsgpack writes a MessagePack response, reusing the json field names so
// both encodings expose the same shape.
func (h *Handler) writeMsgpack(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/x-msgpack")
	w.WriteHeader(status)

	enc := msgpack.NewEncoder(w)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode msgpack response")
	}
}

// writeError writes an error response
func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{
		"error": message,
	})
}

// Package server provides the HTTP server and routing for the frontier service.
package server

import (
	"encoding/json"
	"net/http"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// SystemHandlers handles system monitoring endpoints
type SystemHandlers struct {
	log         zerolog.Logger
	startupTime time.Time
}

// NewSystemHandlers creates a new system handlers instance
func NewSystemHandlers(log zerolog.Logger) *SystemHandlers {
	return &SystemHandlers{
		log:         log.With().Str("component", "system_handlers").Logger(),
		startupTime: time.Now(),
	}
}

// SystemStatusResponse represents the system status response
type SystemStatusResponse struct {
	Status        string  `json:"status"`
	UptimeSeconds int     `json:"uptime_seconds"`
	CPUPercent    float64 `json:"cpu_percent"`
	RAMPercent    float64 `json:"ram_percent"`
	Goroutines    int     `json:"goroutines"`
	GoVersion     string  `json:"go_version"`
	Timestamp     string  `json:"timestamp"`
}

// GetSystemStatusSnapshot assembles the current process and host status.
// Collection failures degrade to zero readings rather than failing the call.
func (h *SystemHandlers) GetSystemStatusSnapshot() (SystemStatusResponse, error) {
	var firstErr error

	cpuAvg, ramPercent, err := h.getSystemStats()
	if err != nil {
		firstErr = err
	}

	return SystemStatusResponse{
		Status:        "healthy",
		UptimeSeconds: int(time.Since(h.startupTime).Seconds()),
		CPUPercent:    cpuAvg,
		RAMPercent:    ramPercent,
		Goroutines:    runtime.NumGoroutine(),
		GoVersion:     runtime.Version(),
		Timestamp:     time.Now().Format(time.RFC3339),
	}, firstErr
}

// HandleSystemStatus handles GET /api/system/status
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	h.log.Debug().Msg("Getting system status")

	response, err := h.GetSystemStatusSnapshot()
	if err != nil {
		h.log.Warn().Err(err).Msg("System status collected with warnings")
	}

	h.writeJSON(w, response)
}

// getSystemStats returns current CPU and RAM usage percentages.
// Uses a short interval (100ms) so the API call does not block for long.
func (h *SystemHandlers) getSystemStats() (float64, float64, error) {
	var firstErr error

	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
		firstErr = err
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		if firstErr == nil {
			firstErr = err
		}
		return cpuAvg, 0, firstErr
	}

	return cpuAvg, memStat.UsedPercent, firstErr
}

func (h *SystemHandlers) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

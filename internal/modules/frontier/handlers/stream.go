package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"nhooyr.io/websocket"

	"github.com/aristath/restaking-frontier/internal/modules/frontier"
)

const writeWait = 10 * time.Second

// streamRequest is one recompute request. Fields left out keep the defaults.
type streamRequest struct {
	frontier.MarketParams
	N int `json:"n"`
}

// HandleFrontierStream handles GET /api/frontier/ws. Each text frame carries
// parameter overrides and the computed result is pushed back on the same
// connection, so slider movements can recompute without per-request overhead.
// Requests on one connection are served in order, one at a time.
func (h *Handler) HandleFrontierStream(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to accept WebSocket connection")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "stream aborted")

	ctx := r.Context()
	h.log.Debug().Str("remote", r.RemoteAddr).Msg("Frontier stream opened")

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			closeStatus := websocket.CloseStatus(err)
			if closeStatus == websocket.StatusNormalClosure || closeStatus == websocket.StatusGoingAway {
				h.log.Debug().Int("status", int(closeStatus)).Msg("Frontier stream closed")
			} else if ctx.Err() != nil {
				h.log.Debug().Msg("Frontier stream cancelled by context")
			} else {
				h.log.Warn().Err(err).Msg("Unexpected frontier stream read error")
			}
			return
		}

		req := streamRequest{MarketParams: frontier.DefaultParams(), N: h.gridPoints}
		if err := json.Unmarshal(data, &req); err != nil {
			if err := h.writeStreamError(ctx, conn, "invalid request: "+err.Error()); err != nil {
				return
			}
			continue
		}
		if req.N < 1 || req.N > frontier.MaxGridPoints {
			if err := h.writeStreamError(ctx, conn, fmt.Sprintf("n must be between 1 and %d", frontier.MaxGridPoints)); err != nil {
				return
			}
			continue
		}

		start := time.Now()
		result, err := h.calc.Compute(req.MarketParams, req.N)
		if err != nil {
			if err := h.writeStreamError(ctx, conn, err.Error()); err != nil {
				return
			}
			continue
		}

		response := map[string]interface{}{
			"data": result,
			"metadata": map[string]interface{}{
				"timestamp":      time.Now().Format(time.RFC3339),
				"computation_id": uuid.New().String(),
				"duration_ms":    time.Since(start).Seconds() * 1000,
				"grid_points":    req.N,
			},
		}
		if err := h.writeStreamJSON(ctx, conn, response); err != nil {
			h.log.Warn().Err(err).Msg("Failed to write frontier stream response")
			return
		}
	}
}

func (h *Handler) writeStreamJSON(ctx context.Context, conn *websocket.Conn, v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}

	writeCtx, cancel := context.WithTimeout(ctx, writeWait)
	defer cancel()

	return conn.Write(writeCtx, websocket.MessageText, payload)
}

func (h *Handler) writeStreamError(ctx context.Context, conn *websocket.Conn, message string) error {
	return h.writeStreamJSON(ctx, conn, map[string]string{"error": message})
}

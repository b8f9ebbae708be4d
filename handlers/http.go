package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"genie/metrics"
	"genie/models"
	"genie/observability"
	"genie/session"
)

// NewMux wires every HTTP route. ping may be nil when there is no backing
// service to check.
func NewMux(ws http.Handler, sessions *session.Manager, ping func(context.Context) error) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/ws", ws)
	mux.Handle("GET /sessions/{id}/transcript", &TranscriptHandler{sessions: sessions})
	mux.HandleFunc("/health", healthHandler(ping))
	mux.Handle("/metrics", metrics.Handler())
	return withLogging(mux)
}

type transcriptResponse struct {
	SessionID string           `json:"session_id"`
	State     string           `json:"state"`
	Messages  []models.Message `json:"messages"`
}

// TranscriptHandler serves a live session's transcript.
type TranscriptHandler struct {
	sessions *session.Manager
}

func (h *TranscriptHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	conv, ok := h.sessions.Get(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error": "session not found",
		})
		return
	}
	writeJSON(w, http.StatusOK, transcriptResponse{
		SessionID: id,
		State:     conv.State().String(),
		Messages:  conv.Messages(),
	})
}

func healthHandler(ping func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ping != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// withLogging wraps a handler and logs every request.
func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		next.ServeHTTP(w, r)

		observability.Logger().Debug("http request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

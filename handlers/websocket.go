package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"genie/adapters"
	"genie/metrics"
	"genie/models"
	"genie/observability"
)

const endTimeout = 5 * time.Second

type WSHandler struct {
	bus            Bus
	allowedOrigins map[string]bool
	upgrader       websocket.Upgrader
	limit          rate.Limit
	burst          int
}

// NewWSHandler builds the /ws endpoint. Each connection may send rps frames
// per second with the given burst; rps <= 0 disables the limit.
func NewWSHandler(bus Bus, allowedOrigins []string, rps float64, burst int) *WSHandler {
	origins := make(map[string]bool)
	for _, o := range allowedOrigins {
		origins[o] = true
	}
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	if burst <= 0 {
		burst = 1
	}
	h := &WSHandler{bus: bus, allowedOrigins: origins, limit: limit, burst: burst}
	h.upgrader = websocket.Upgrader{CheckOrigin: h.checkOrigin}
	return h
}

func (h *WSHandler) checkOrigin(r *http.Request) bool {
	if len(h.allowedOrigins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true // allow non-browser clients
	}
	return h.allowedOrigins[origin]
}

func (h *WSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		observability.Logger().Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		sessionID = uuid.New().String()
	}
	userID := r.URL.Query().Get("user_id")

	ctx, cancel := context.WithCancel(observability.WithSession(r.Context(), sessionID))
	defer cancel()
	log := observability.LoggerFromContext(ctx)

	var writeMu sync.Mutex
	write := func(v models.WSResponse) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		return conn.WriteJSON(v)
	}

	events, unsubscribe, err := h.bus.Subscribe(ctx, sessionID)
	if err != nil {
		log.Error("subscribe failed", "error", err)
		_ = write(models.WSResponse{Type: models.EventError, Text: "Service unavailable. Please try again."})
		return
	}
	defer unsubscribe()

	if err := write(models.WSResponse{Type: models.EventConnected, SessionID: sessionID}); err != nil {
		log.Warn("failed to send connected message", "error", err)
		return
	}

	defer func() {
		endCtx, endCancel := context.WithTimeout(context.Background(), endTimeout)
		defer endCancel()
		if err := h.bus.Enqueue(endCtx, adapters.EndOfSession(sessionID, userID)); err != nil {
			log.Error("failed to end session", "error", err)
		}
	}()

	// Forward session events to the socket
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case resp, ok := <-events:
				if !ok {
					return
				}
				if err := write(resp); err != nil {
					log.Warn("failed to write to websocket", "error", err)
					cancel()
					return
				}
			}
		}
	}()

	limiter := rate.NewLimiter(h.limit, h.burst)
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("websocket closed unexpectedly", "error", err)
			}
			return
		}

		var incoming models.WSIncoming
		if err := json.Unmarshal(message, &incoming); err != nil {
			_ = write(models.WSResponse{
				Type: models.EventError,
				Text: "Invalid message format. Send JSON with a 'text' field.",
			})
			continue
		}
		if incoming.Text == "" {
			continue
		}

		if !limiter.Allow() {
			metrics.InboundRateLimited.Inc()
			_ = write(models.WSResponse{
				Type:      models.EventError,
				SessionID: sessionID,
				Text:      "You're sending messages too quickly. Please wait a moment.",
			})
			continue
		}

		envelope := adapters.NormalizeWebMessage(sessionID, userID, incoming)
		if err := h.bus.Enqueue(ctx, envelope); err != nil {
			log.Error("failed to enqueue message", "error", err)
			_ = write(models.WSResponse{
				Type: models.EventError,
				Text: "Sorry, I'm having trouble processing your message. Please try again.",
			})
		}
	}
}

package api

import (
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/fernwehr/salesloop/internal/outreach/application"
	"github.com/fernwehr/salesloop/internal/outreach/domain"
)

// deliveryEvent is one entry of the provider's webhook batch. Timestamps
// arrive as unix seconds.
type deliveryEvent struct {
	Event       string `json:"event"`
	Email       string `json:"email"`
	Timestamp   int64  `json:"timestamp"`
	SGMessageID string `json:"sg_message_id"`
}

// WebhookHandler ingests delivery event batches from the email provider.
// Requests must carry the shared bearer token.
type WebhookHandler struct {
	outreach *application.Service
	token    string
	logger   *slog.Logger
}

func NewWebhookHandler(outreach *application.Service, token string, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{outreach: outreach, token: token, logger: logger}
}

// ReceiveEvents handles POST /api/v1/webhooks/sendgrid/events. The provider
// retries failed deliveries, so events it already sent may arrive again;
// recording is append-only and tolerates that. Untracked event types are
// counted as ignored.
func (h *WebhookHandler) ReceiveEvents(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r) {
		writeError(w, http.StatusUnauthorized, "Invalid or missing bearer token")
		return
	}

	var events []deliveryEvent
	if err := json.NewDecoder(r.Body).Decode(&events); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed event payload")
		return
	}

	recorded, ignored := 0, 0
	for _, event := range events {
		eventType := domain.EventType(event.Event)
		if !eventType.IsValid() {
			ignored++
			continue
		}
		occurredAt := time.Unix(event.Timestamp, 0).UTC()
		if err := h.outreach.RecordEvent(r.Context(), event.SGMessageID, event.Email, eventType, occurredAt); err != nil {
			h.logger.ErrorContext(r.Context(), "failed to record delivery event",
				slog.String("event_type", event.Event),
				slog.String("message_id", event.SGMessageID),
				slog.String("error", err.Error()))
			writeError(w, http.StatusInternalServerError, "Failed to record events")
			return
		}
		recorded++
	}

	writeJSON(w, http.StatusOK, map[string]int{
		"recorded": recorded,
		"ignored":  ignored,
	})
}

func (h *WebhookHandler) authorized(r *http.Request) bool {
	if h.token == "" {
		return false
	}
	auth := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(auth, "Bearer ")
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(h.token)) == 1
}

package handler

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/collabhub/collabhub/internal/api/middleware"
	"github.com/collabhub/collabhub/internal/api/response"
	"github.com/collabhub/collabhub/internal/webhook"
)

const maxWebhookBody = 1 << 20

// WebhookVerifier answers subscription handshakes and checks delivery signatures.
type WebhookVerifier interface {
	Verify(mode, token, challenge string) (string, bool)
	CheckSignature(body []byte, header string) error
}

type webhookError struct {
	Error string `json:"error"`
}

// WebhookHandler handles the Instagram webhook endpoints. Every outcome is
// reported with status 200 so the platform does not retry deliveries.
type WebhookHandler struct {
	verifier WebhookVerifier
	sink     webhook.Sink
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(verifier WebhookVerifier, sink webhook.Sink) *WebhookHandler {
	return &WebhookHandler{verifier: verifier, sink: sink}
}

// Verify handles GET /api/webhooks/instagram.
func (h *WebhookHandler) Verify(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	challenge, ok := h.verifier.Verify(q.Get("hub.mode"), q.Get("hub.verify_token"), q.Get("hub.challenge"))
	if !ok {
		slog.Warn("webhook verification failed", "mode", q.Get("hub.mode"), "requestId", middleware.GetRequestID(r.Context()))
		response.Text(w, http.StatusOK, "Verification failed")
		return
	}

	response.Text(w, http.StatusOK, challenge)
}

// Receive handles POST /api/webhooks/instagram.
func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		slog.Warn("failed to read webhook body", "error", err, "requestId", requestID)
		response.JSON(w, http.StatusOK, webhookError{Error: "Failed to read body"})
		return
	}

	if err := h.verifier.CheckSignature(body, r.Header.Get(webhook.SignatureHeader)); err != nil {
		slog.Warn("rejected webhook delivery", "error", err, "requestId", requestID)
		response.JSON(w, http.StatusOK, webhookError{Error: "Invalid signature"})
		return
	}

	ev, err := webhook.Decode(body)
	if err != nil {
		slog.Warn("failed to decode webhook payload", "error", err, "requestId", requestID)
		response.JSON(w, http.StatusOK, webhookError{Error: "Invalid JSON payload"})
		return
	}

	if err := h.sink.Deliver(r.Context(), ev); err != nil {
		slog.Error("failed to process webhook", "error", err, "requestId", requestID)
		response.JSON(w, http.StatusOK, webhookError{Error: "Failed to process webhook"})
		return
	}

	response.JSON(w, http.StatusOK, successResponse{Success: true})
}

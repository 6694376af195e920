package stream

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	chatHandler "github.com/advocaid/assistant/backend/internal/handler/chat"
	chatService "github.com/advocaid/assistant/backend/internal/service/chat"
	"github.com/advocaid/assistant/backend/internal/service/fetch"
	"github.com/advocaid/assistant/backend/internal/service/topic"
	"github.com/advocaid/assistant/backend/pkg/utils"
)

// Handler delivers a turn over Server-Sent Events.
type Handler struct {
	chatSvc *chatService.Service
	logger  *slog.Logger
}

// New creates a new stream handler
func New(chatSvc *chatService.Service, logger *slog.Logger) *Handler {
	return &Handler{chatSvc: chatSvc, logger: logger}
}

// StreamResponse represents a streaming response chunk
type StreamResponse struct {
	Event      string            `json:"event"`
	Content    string            `json:"content,omitempty"`
	SessionID  string            `json:"sessionId,omitempty"`
	MessageID  string            `json:"messageId,omitempty"`
	Failure    fetch.Kind        `json:"failure,omitempty"`
	Suggestion *topic.Suggestion `json:"suggestion,omitempty"`
	Finished   bool              `json:"finished,omitempty"`
	Error      string            `json:"error,omitempty"`
}

// RegisterRoutes 注册SSE路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/stream/{sessionID}", h.handleStream)
}

func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	userMessage := r.URL.Query().Get("message")

	if err := h.HandleStreamRequest(r.Context(), w, sessionID, userMessage); err != nil {
		h.logger.Warn("stream request rejected", "session", sessionID, "error", err)
	}
}

// HandleStreamRequest accepts the message and streams start, message and end events.
// Rejections happen before any event is written and use a plain JSON error.
func (h *Handler) HandleStreamRequest(ctx context.Context, w http.ResponseWriter, sessionID, userMessage string) error {
	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return errors.New("streaming unsupported")
	}

	pending, err := h.chatSvc.Submit(ctx, sessionID, userMessage)
	if err != nil {
		utils.RespondError(w, chatHandler.StatusFor(err), err.Error())
		return err
	}

	utils.SetupSSEHeaders(w)
	w.WriteHeader(http.StatusOK)

	user := pending.UserMessage()
	h.send(w, flusher, StreamResponse{
		Event:     "start",
		SessionID: sessionID,
		MessageID: user.ID,
		Content:   user.Text,
	})

	result := pending.Resolve(ctx)

	h.send(w, flusher, StreamResponse{
		Event:     "message",
		SessionID: sessionID,
		MessageID: result.Bot.ID,
		Content:   result.Bot.Text,
		Failure:   result.Failure,
	})
	if result.Suggestion != nil {
		h.send(w, flusher, StreamResponse{
			Event:      "suggestion",
			SessionID:  sessionID,
			Suggestion: result.Suggestion,
		})
	}
	h.send(w, flusher, StreamResponse{
		Event:     "end",
		SessionID: sessionID,
		Finished:  true,
	})

	h.logger.Info("stream completed", "session", sessionID, "failure", result.Failure)
	return nil
}

// send writes a named event whose data repeats the event name for data-only clients.
func (h *Handler) send(w http.ResponseWriter, flusher http.Flusher, resp StreamResponse) {
	utils.SendSSEEvent(w, flusher, resp.Event, resp)
}

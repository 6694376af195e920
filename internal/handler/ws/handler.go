package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	chatHandler "github.com/advocaid/assistant/backend/internal/handler/chat"
	"github.com/advocaid/assistant/backend/internal/model/chat"
	chatService "github.com/advocaid/assistant/backend/internal/service/chat"
	"github.com/advocaid/assistant/backend/pkg/utils"
)

const (
	readTimeout  = 60 * time.Second
	pingInterval = 54 * time.Second
	writeTimeout = 10 * time.Second
)

// Handler WebSocket会话处理器。客户端通过同一连接提交消息、切换语言和反馈。
type Handler struct {
	chatSvc  *chatService.Service
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// New 创建WebSocket处理器。checkOrigin 为空时接受任意来源。
func New(chatSvc *chatService.Service, logger *slog.Logger, checkOrigin func(r *http.Request) bool) *Handler {
	if checkOrigin == nil {
		checkOrigin = func(*http.Request) bool { return true }
	}
	return &Handler{
		chatSvc: chatSvc,
		logger:  logger,
		upgrader: websocket.Upgrader{
			CheckOrigin:     checkOrigin,
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes 注册WebSocket路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/ws/{sessionID}", h.handleWebSocket)
}

type inboundMessage struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId"`
	Data      json.RawMessage `json:"data"`
}

type textPayload struct {
	Text string `json:"text"`
}

type languagePayload struct {
	Language string `json:"language"`
}

type feedbackPayload struct {
	MessageID string `json:"messageId"`
	Feedback  string `json:"feedback"`
}

type outgoingMessage struct {
	Type      string      `json:"type"`
	SessionID string      `json:"sessionId,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// conn serialises writes; gorilla allows one concurrent writer.
type conn struct {
	mu        sync.Mutex
	ws        *websocket.Conn
	sessionID string
	logger    *slog.Logger
}

func (c *conn) send(kind string, data interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
	msg := outgoingMessage{Type: kind, SessionID: c.sessionID, Data: data, Timestamp: time.Now().Unix()}
	if err := c.ws.WriteJSON(msg); err != nil {
		c.logger.Debug("websocket write failed", "session", c.sessionID, "type", kind, "error", err)
	}
}

func (c *conn) sendError(message string) {
	c.send("error", map[string]string{"message": message})
}

// handleWebSocket 处理WebSocket连接
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	session, err := h.chatSvc.GetSession(r.Context(), sessionID)
	if err != nil {
		utils.RespondError(w, chatHandler.StatusFor(err), err.Error())
		return
	}

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "session", sessionID, "error", err)
		return
	}
	defer ws.Close()

	c := &conn{ws: ws, sessionID: sessionID, logger: h.logger}
	h.logger.Info("websocket connected", "session", sessionID)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	_ = ws.SetReadDeadline(time.Now().Add(readTimeout))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(readTimeout))
	})
	go pingLoop(ctx, ws)

	c.send("connected", session.Snapshot())

	var turns sync.WaitGroup
	defer turns.Wait()

	for {
		var msg inboundMessage
		if err := ws.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("websocket read error", "session", sessionID, "error", err)
			}
			return
		}
		_ = ws.SetReadDeadline(time.Now().Add(readTimeout))

		if msg.SessionID != "" && msg.SessionID != sessionID {
			c.sendError("session mismatch")
			continue
		}
		h.handleMessage(ctx, c, session, &msg, &turns)
	}
}

func (h *Handler) handleMessage(ctx context.Context, c *conn, session *chatService.Session, msg *inboundMessage, turns *sync.WaitGroup) {
	switch msg.Type {
	case "submit":
		var payload textPayload
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			c.sendError("invalid submit payload")
			return
		}
		h.submit(ctx, c, session, payload.Text, turns)
	case "language":
		var payload languagePayload
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			c.sendError("invalid language payload")
			return
		}
		lang, ok := chat.ParseLanguage(payload.Language)
		if !ok {
			c.sendError("unsupported language " + payload.Language)
			return
		}
		c.send("language", map[string]any{"language": lang, "welcome": session.ChangeLanguage(lang)})
	case "draft":
		var payload textPayload
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			c.sendError("invalid draft payload")
			return
		}
		session.SetDraft(payload.Text)
	case "attach":
		var payload chat.Attachment
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			c.sendError("invalid attachment payload")
			return
		}
		if err := session.AddAttachment(payload); err != nil {
			c.sendError(err.Error())
			return
		}
		c.send("attachments", session.Attachments())
	case "detach":
		var payload chat.Attachment
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			c.sendError("invalid attachment payload")
			return
		}
		session.RemoveAttachment(payload.Filename)
		c.send("attachments", session.Attachments())
	case "feedback":
		var payload feedbackPayload
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			c.sendError("invalid feedback payload")
			return
		}
		feedback, ok := chat.ParseFeedback(payload.Feedback)
		if !ok {
			c.sendError("feedback must be like, dislike or empty")
			return
		}
		if err := session.Feedback(payload.MessageID, feedback); err != nil {
			c.sendError(err.Error())
			return
		}
		annotated, _ := session.Message(payload.MessageID)
		c.send("feedback", annotated)
	default:
		c.sendError("unsupported message type: " + msg.Type)
	}
}

// submit accepts the turn on the read goroutine and resolves it in the background,
// so language changes keep flowing while the reply is pending.
func (h *Handler) submit(ctx context.Context, c *conn, session *chatService.Session, text string, turns *sync.WaitGroup) {
	pending, err := h.chatSvc.Submit(ctx, session.ID(), text)
	if err != nil {
		if chatService.IsGuardRejection(err) {
			c.send("status", map[string]any{"status": session.Status(), "ignored": err.Error()})
			return
		}
		c.sendError(err.Error())
		return
	}

	c.send("message", pending.UserMessage())
	c.send("status", map[string]any{"status": chat.StatusAwaitingResponse})

	turns.Add(1)
	go func() {
		defer turns.Done()
		result := pending.Resolve(ctx)
		c.send("message", result.Bot)
		if result.Failure != "" {
			c.send("error", map[string]any{"message": "response unavailable", "kind": result.Failure})
		}
		if result.Suggestion != nil {
			c.send("suggestion", result.Suggestion)
		}
		c.send("status", map[string]any{"status": chat.StatusIdle})
	}()
}

// pingLoop 定期发送ping消息
func pingLoop(ctx context.Context, ws *websocket.Conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		}
	}
}

package chat

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/advocaid/assistant/backend/internal/model/chat"
	chatService "github.com/advocaid/assistant/backend/internal/service/chat"
	"github.com/advocaid/assistant/backend/pkg/utils"
)

// Handler 聊天服务的HTTP处理器
type Handler struct {
	chatSvc *chatService.Service
}

// New 创建聊天处理器
func New(chatSvc *chatService.Service) *Handler {
	return &Handler{chatSvc: chatSvc}
}

// RegisterRoutes 注册聊天相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/sessions", h.handleCreateSession)
	r.Route("/sessions/{sessionID}", func(r chi.Router) {
		r.Get("/", h.handleGetSession)
		r.Delete("/", h.handleDeleteSession)
		r.Post("/messages", h.handleSendMessage)
		r.Post("/messages/{messageID}/feedback", h.handleFeedback)
		r.Get("/messages/{messageID}/raw", h.handleRawMessage)
		r.Put("/language", h.handleChangeLanguage)
		r.Put("/draft", h.handleDraft)
		r.Post("/attachments", h.handleAddAttachment)
		r.Delete("/attachments/{name}", h.handleRemoveAttachment)
	})
}

// StatusFor 将服务层错误映射为HTTP状态码
func StatusFor(err error) int {
	switch {
	case errors.Is(err, chatService.ErrSessionNotFound), errors.Is(err, chatService.ErrMessageNotFound):
		return http.StatusNotFound
	case errors.Is(err, chatService.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, chatService.ErrAttachmentType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, chatService.ErrEmptyMessage), errors.Is(err, chatService.ErrFeedbackTarget):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func respondServiceError(w http.ResponseWriter, err error) {
	utils.RespondError(w, StatusFor(err), err.Error())
}

// handleCreateSession 创建会话。分类可来自请求体或 ?category= 查询参数。
func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Category string `json:"category"`
		Language string `json:"language"`
	}
	if err := utils.DecodeJSON(r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if payload.Category == "" {
		payload.Category = r.URL.Query().Get("category")
	}

	var lang chat.Language
	if payload.Language != "" {
		parsed, ok := chat.ParseLanguage(payload.Language)
		if !ok {
			utils.RespondError(w, http.StatusBadRequest, "unsupported language "+payload.Language)
			return
		}
		lang = parsed
	}

	session, err := h.chatSvc.CreateSession(r.Context(), strings.TrimSpace(payload.Category), lang)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusCreated, session.Snapshot())
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*chatService.Session, bool) {
	session, err := h.chatSvc.GetSession(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		respondServiceError(w, err)
		return nil, false
	}
	return session, true
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	utils.RespondJSON(w, http.StatusOK, session.Snapshot())
}

func (h *Handler) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.chatSvc.DeleteSession(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSendMessage 提交用户消息并同步等待回复
func (h *Handler) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Text string `json:"text"`
	}
	if err := utils.DecodeJSON(r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.chatSvc.Send(r.Context(), chi.URLParam(r, "sessionID"), payload.Text)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) handleChangeLanguage(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Language string `json:"language"`
	}
	if err := utils.DecodeJSON(r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	lang, ok := chat.ParseLanguage(payload.Language)
	if !ok {
		utils.RespondError(w, http.StatusBadRequest, "unsupported language "+payload.Language)
		return
	}

	session, ok := h.session(w, r)
	if !ok {
		return
	}
	welcome := session.ChangeLanguage(lang)
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"language": lang,
		"welcome":  welcome,
	})
}

func (h *Handler) handleDraft(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Text string `json:"text"`
	}
	if err := utils.DecodeJSON(r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	session.SetDraft(payload.Text)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleAddAttachment(w http.ResponseWriter, r *http.Request) {
	var payload chat.Attachment
	if err := utils.DecodeJSON(r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := session.AddAttachment(payload); err != nil {
		status := StatusFor(err)
		if status == http.StatusInternalServerError {
			status = http.StatusBadRequest
		}
		utils.RespondError(w, status, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusCreated, session.Attachments())
}

func (h *Handler) handleRemoveAttachment(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	if !session.RemoveAttachment(chi.URLParam(r, "name")) {
		utils.RespondError(w, http.StatusNotFound, "attachment not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleFeedback 对机器人消息点赞或点踩，空值清除反馈
func (h *Handler) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Feedback string `json:"feedback"`
	}
	if err := utils.DecodeJSON(r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	feedback, ok := chat.ParseFeedback(payload.Feedback)
	if !ok {
		utils.RespondError(w, http.StatusBadRequest, "feedback must be like, dislike or empty")
		return
	}

	session, ok := h.session(w, r)
	if !ok {
		return
	}
	messageID := chi.URLParam(r, "messageID")
	if err := session.Feedback(messageID, feedback); err != nil {
		respondServiceError(w, err)
		return
	}
	message, _ := session.Message(messageID)
	utils.RespondJSON(w, http.StatusOK, message)
}

// handleRawMessage 返回消息原文，供剪贴板复制
func (h *Handler) handleRawMessage(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	message, found := session.Message(chi.URLParam(r, "messageID"))
	if !found {
		respondServiceError(w, chatService.ErrMessageNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(message.Text))
}

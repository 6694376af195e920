package category

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/advocaid/assistant/backend/internal/model/category"
	"github.com/advocaid/assistant/backend/internal/model/persona"
	"github.com/advocaid/assistant/backend/pkg/utils"
)

// Handler 分类目录的HTTP处理器
type Handler struct {
	categories category.Store
}

func New(categories category.Store) *Handler {
	return &Handler{categories: categories}
}

// RegisterRoutes 注册分类相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/categories", h.handleList)
	r.Get("/categories/{ref}", h.handleGet)
}

// handleList 列出分类，可用 ?domain=legal|career 过滤
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	domain := r.URL.Query().Get("domain")
	switch persona.Domain(domain) {
	case "":
		utils.RespondJSON(w, http.StatusOK, h.categories.List())
	case persona.DomainLegal, persona.DomainCareer:
		utils.RespondJSON(w, http.StatusOK, h.categories.ListDomain(persona.Domain(domain)))
	default:
		utils.RespondError(w, http.StatusBadRequest, "unknown domain "+domain)
	}
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	c, ok := h.categories.Resolve(chi.URLParam(r, "ref"))
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "category not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, c)
}

package handler

import (
	"log/slog"
	"net/http"
	"net/url"
	"slices"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/advocaid/assistant/backend/internal/config"
	"github.com/advocaid/assistant/backend/internal/handler/category"
	"github.com/advocaid/assistant/backend/internal/handler/chat"
	"github.com/advocaid/assistant/backend/internal/handler/persona"
	"github.com/advocaid/assistant/backend/internal/handler/stream"
	"github.com/advocaid/assistant/backend/internal/handler/ws"
	middlewarePkg "github.com/advocaid/assistant/backend/internal/middleware"
	categoryModel "github.com/advocaid/assistant/backend/internal/model/category"
	personaModel "github.com/advocaid/assistant/backend/internal/model/persona"
	chatService "github.com/advocaid/assistant/backend/internal/service/chat"
	"github.com/advocaid/assistant/backend/pkg/utils"
)

// Deps groups what the router needs.
type Deps struct {
	Server     config.ServerConfig
	Personas   personaModel.Store
	PersonaID  string
	Categories categoryModel.Store
	Chat       *chatService.Service
	Provider   config.Provider
	Logger     *slog.Logger
}

// NewRouter wires HTTP routes to core services.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewarePkg.RequestLogger(deps.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS(deps.Server.AllowedOrigins))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]any{
			"status":   "ok",
			"provider": deps.Provider,
			"persona":  deps.PersonaID,
			"sessions": deps.Chat.Len(),
		})
	})

	limiter := middlewarePkg.NewRateLimiter(deps.Server.RateLimitWindow, deps.Server.RateLimitCapacity)

	r.Route("/api", func(api chi.Router) {
		persona.New(deps.Personas, deps.PersonaID).RegisterRoutes(api)
		category.New(deps.Categories).RegisterRoutes(api)

		// Turn-producing routes share the per-client limit.
		api.Group(func(limited chi.Router) {
			limited.Use(limiter.Middleware)
			chat.New(deps.Chat).RegisterRoutes(limited)
			stream.New(deps.Chat, deps.Logger).RegisterRoutes(limited)
			ws.New(deps.Chat, deps.Logger, originChecker(deps.Server.AllowedOrigins)).RegisterRoutes(limited)
		})
	})

	return r
}

// originChecker mirrors the CORS allow-list for WebSocket upgrades.
func originChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 || slices.Contains(allowed, "*") {
		return nil
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		if u, err := url.Parse(origin); err == nil && u.Host == r.Host {
			return true
		}
		return slices.Contains(allowed, origin)
	}
}

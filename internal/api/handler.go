package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/intelliking/skillhub/internal/cache"
	"github.com/intelliking/skillhub/internal/skill"
	"github.com/intelliking/skillhub/internal/store"
)

// SettingsStore is the persistence surface the handler needs.
// *store.Store satisfies it; tests use an in-memory implementation.
type SettingsStore interface {
	GetSettings(ctx context.Context, userID string) (*store.UserSettings, error)
	UpdateSettings(ctx context.Context, userID string, patch *store.SettingsPatch) (*store.UserSettings, error)
}

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	catalog  *skill.Catalog
	settings SettingsStore
	cache    *cache.CatalogCache
	logger   *zap.Logger
}

// NewHandler creates a new API handler. cache may be nil, in which case the
// catalog listing is served uncached.
func NewHandler(catalog *skill.Catalog, settings SettingsStore, catalogCache *cache.CatalogCache, logger *zap.Logger) *Handler {
	return &Handler{
		catalog:  catalog,
		settings: settings,
		cache:    catalogCache,
		logger:   logger,
	}
}

// Router builds the chi router with all routes.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-User-ID"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.healthCheck)
		r.Get("/skills", h.listSkills)
		r.Get("/settings", h.getSettings)
		r.Post("/settings", h.updateSettings)
		r.Post("/recall", h.recall)
	})

	return r
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "skillhub"})
}

// SkillListResponse is the envelope for the skills listing.
type SkillListResponse struct {
	Skills []*skill.Skill `json:"skills"`
}

func (h *Handler) listSkills(w http.ResponseWriter, r *http.Request) {
	if h.cache != nil {
		if skills, ok := h.cache.Get(r.Context()); ok {
			writeJSON(w, http.StatusOK, SkillListResponse{Skills: skills})
			return
		}
	}

	skills := h.catalog.List()
	if skills == nil {
		skills = []*skill.Skill{}
	}
	if h.cache != nil {
		h.cache.Set(r.Context(), skills)
	}
	writeJSON(w, http.StatusOK, SkillListResponse{Skills: skills})
}

// userID resolves the requesting user. Authentication is out of scope; the
// caller identifies itself via X-User-ID.
func userID(r *http.Request) string {
	if id := r.Header.Get("X-User-ID"); id != "" {
		return id
	}
	return "default"
}

func (h *Handler) getSettings(w http.ResponseWriter, r *http.Request) {
	us, err := h.settings.GetSettings(r.Context(), userID(r))
	if err != nil {
		if errors.Is(err, store.ErrSettingsNotFound) {
			// No row yet means nothing disabled.
			writeJSON(w, http.StatusOK, &store.UserSettings{
				UserID:              userID(r),
				DisabledMicroagents: []string{},
			})
			return
		}
		h.logger.Error("get settings failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, us)
}

func (h *Handler) updateSettings(w http.ResponseWriter, r *http.Request) {
	var patch store.SettingsPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if patch.DisabledMicroagents != nil {
		for _, name := range *patch.DisabledMicroagents {
			if name == "" {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "skill name must not be empty"})
				return
			}
		}
	}

	us, err := h.settings.UpdateSettings(r.Context(), userID(r), &patch)
	if err != nil {
		h.logger.Error("update settings failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, us)
}

type recallRequest struct {
	Message string `json:"message"`
}

// recall returns the knowledge skills triggered by a message, excluding the
// requesting user's disabled set.
func (h *Handler) recall(w http.ResponseWriter, r *http.Request) {
	var req recallRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if req.Message == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "message is required"})
		return
	}

	var disabled map[string]struct{}
	us, err := h.settings.GetSettings(r.Context(), userID(r))
	if err != nil && !errors.Is(err, store.ErrSettingsNotFound) {
		h.logger.Error("get settings for recall failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if us != nil {
		disabled = skill.DisabledSet(us.DisabledMicroagents)
	}

	matched := h.catalog.Match(req.Message, disabled)
	if matched == nil {
		matched = []*skill.Skill{}
	}
	writeJSON(w, http.StatusOK, SkillListResponse{Skills: matched})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

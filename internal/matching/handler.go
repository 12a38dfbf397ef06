package matching

import (
	"context"
	"errors"
	"net/http"

	"jobmate/board-service/internal/apperr"
	"jobmate/board-service/internal/auth"
	"jobmate/board-service/internal/httpx"
)

// PreferenceStore is the persistence the handler needs; *Store implements it.
type PreferenceStore interface {
	Preferences(ctx context.Context, seekerID string) (Preferences, error)
	Replace(ctx context.Context, seekerID string, p Preferences) error
}

// Handler serves the job seeker's own preferences.
//
//	GET /job-seeker/preferences
//	PUT /job-seeker/preferences  {categoryIds, fieldIds}
type Handler struct {
	store PreferenceStore
}

// NewHandler returns a configured Handler.
func NewHandler(store PreferenceStore) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes mounts the preference routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /job-seeker/preferences", h.get)
	mux.HandleFunc("PUT /job-seeker/preferences", h.put)
}

type preferencesBody struct {
	CategoryIDs []string `json:"categoryIds" validate:"max=50,dive,uuid"`
	FieldIDs    []string `json:"fieldIds" validate:"max=50,dive,uuid"`
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := auth.Require(r.Context(), auth.RoleJobSeeker)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	p, err := h.store.Preferences(r.Context(), id.UserID)
	if err != nil {
		httpx.WriteError(w, r, apperr.Upstream("preferences", err))
		return
	}
	httpx.OK(w, p)
}

func (h *Handler) put(w http.ResponseWriter, r *http.Request) {
	id, err := auth.Require(r.Context(), auth.RoleJobSeeker)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	var body preferencesBody
	if err := httpx.Decode(r, &body); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	p := Preferences{CategoryIDs: dedupe(body.CategoryIDs), FieldIDs: dedupe(body.FieldIDs)}
	if err := h.store.Replace(r.Context(), id.UserID, p); err != nil {
		if errors.Is(err, ErrUnknownReference) {
			httpx.WriteError(w, r, apperr.Validation("%s", err.Error()))
			return
		}
		httpx.WriteError(w, r, apperr.Upstream("replace preferences", err))
		return
	}
	httpx.OK(w, p)
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

package savedsearch

import (
	"net/http"

	"jobmate/board-service/internal/auth"
	"jobmate/board-service/internal/httpx"
)

// Handler serves the job seeker's saved searches.
//
//	POST   /saved-searches       {name, filters, resultCount} → 201
//	GET    /saved-searches
//	GET    /saved-searches/{id}
//	DELETE /saved-searches/{id}                               → 204
type Handler struct {
	svc *Service
}

// NewHandler returns a configured Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the saved search routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /saved-searches", h.create)
	mux.HandleFunc("GET /saved-searches", h.list)
	mux.HandleFunc("GET /saved-searches/{id}", h.load)
	mux.HandleFunc("DELETE /saved-searches/{id}", h.delete)
}

type createBody struct {
	Name        string         `json:"name"`
	Filters     map[string]any `json:"filters"`
	ResultCount int            `json:"resultCount"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	owner, err := auth.Require(r.Context(), auth.RoleJobSeeker)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	var body createBody
	if err := httpx.Decode(r, &body); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	saved, err := h.svc.Create(r.Context(), owner, body.Name, body.Filters, body.ResultCount)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.Created(w, saved)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	owner, err := auth.Require(r.Context(), auth.RoleJobSeeker)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	list, err := h.svc.List(r.Context(), owner)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.OK(w, map[string]any{"savedSearches": list})
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request) {
	owner, err := auth.Require(r.Context(), auth.RoleJobSeeker)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	saved, err := h.svc.Load(r.Context(), owner, id)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.OK(w, saved)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	owner, err := auth.Require(r.Context(), auth.RoleJobSeeker)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	if err := h.svc.Delete(r.Context(), owner, id); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.NoContent(w)
}

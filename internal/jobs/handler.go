package jobs

import (
	"net/http"
	"time"

	"jobmate/board-service/internal/auth"
	"jobmate/board-service/internal/httpx"
)

// Handler serves job listings and the employee job lifecycle.
//
// Routes:
//
//	GET   /jobs                         → basic search
//	GET   /jobs/search                  → advanced search with searchMetadata
//	GET   /jobs/{id}                    → one job
//	POST  /employee/jobs                → post a job for the caller's company
//	PUT   /employee/jobs/{id}           → edit a job
//	PATCH /employee/jobs/{id}/status    → activate / deactivate
type Handler struct {
	svc *Service
}

// NewHandler returns a configured Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the job routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /jobs", h.list)
	mux.HandleFunc("GET /jobs/search", h.search)
	mux.HandleFunc("GET /jobs/{id}", h.get)
	mux.HandleFunc("POST /employee/jobs", h.create)
	mux.HandleFunc("PUT /employee/jobs/{id}", h.update)
	mux.HandleFunc("PATCH /employee/jobs/{id}/status", h.setStatus)
}

// ─── Listing ─────────────────────────────────────────────────────────────────

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	c, err := ParseCriteria(r.URL.Query(), false)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	caller, _ := auth.FromContext(r.Context())
	res, err := h.svc.Search(r.Context(), caller, c)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.OK(w, res)
}

// SearchMetadata describes the constraints an advanced search applied.
type SearchMetadata struct {
	AppliedFilters map[string]any `json:"appliedFilters"`
	FilterCount    int            `json:"filterCount"`
	SortBy         SortKey        `json:"sortBy"`
	Advanced       bool           `json:"advanced"`
	SearchedAt     time.Time      `json:"searchedAt"`
}

type searchResponse struct {
	SearchResult
	SearchMetadata SearchMetadata `json:"searchMetadata"`
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	c, err := ParseCriteria(q, httpx.QueryBool(q, "advanced"))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	caller, _ := auth.FromContext(r.Context())
	res, err := h.svc.Search(r.Context(), caller, c)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	applied := c.Applied()
	httpx.OK(w, searchResponse{
		SearchResult: res,
		SearchMetadata: SearchMetadata{
			AppliedFilters: applied,
			FilterCount:    len(applied),
			SortBy:         c.SortBy,
			Advanced:       c.Advanced,
			SearchedAt:     h.svc.now().UTC(),
		},
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	caller, _ := auth.FromContext(r.Context())
	j, err := h.svc.Get(r.Context(), caller, id)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.OK(w, j)
}

// ─── Lifecycle ───────────────────────────────────────────────────────────────

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.Require(r.Context(), auth.RoleEmployee)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	var in Input
	if err := httpx.Decode(r, &in); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	j, err := h.svc.Create(r.Context(), caller, in)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.Created(w, j)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.Require(r.Context(), auth.RoleEmployee)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	var in Input
	if err := httpx.Decode(r, &in); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	j, err := h.svc.Update(r.Context(), caller, id, in)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.OK(w, j)
}

type statusBody struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

func (h *Handler) setStatus(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.Require(r.Context(), auth.RoleEmployee)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	var body statusBody
	if err := httpx.Decode(r, &body); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	j, err := h.svc.SetActive(r.Context(), caller, id, *body.IsActive)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.OK(w, j)
}

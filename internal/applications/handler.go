package applications

import (
	"net/http"

	"github.com/google/uuid"

	"jobmate/board-service/internal/apperr"
	"jobmate/board-service/internal/auth"
	"jobmate/board-service/internal/httpx"
)

// Handler serves the application workflow.
//
// Routes:
//
//	POST /job-applications              {jobId, notes}                       → apply
//	GET  /job-applications                                                   → seeker's own list
//	GET  /job-applications/{id}                                              → one application
//	GET  /employee/applications         ?jobId=&status=&includeArchived=&page=&limit=
//	PUT  /employee/applications         {applicationId, status, notes}
//	PUT  /employee/applications/bulk    {applicationIds, action, notes}
type Handler struct {
	svc *Service
}

// NewHandler returns a configured Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the application routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /job-applications", h.apply)
	mux.HandleFunc("GET /job-applications", h.listMine)
	mux.HandleFunc("GET /job-applications/{id}", h.get)
	mux.HandleFunc("GET /employee/applications", h.listForEmployer)
	mux.HandleFunc("PUT /employee/applications", h.updateStatus)
	mux.HandleFunc("PUT /employee/applications/bulk", h.bulkUpdate)
}

// ─── Job seeker ───────────────────────────────────────────────────────────────

type applyBody struct {
	JobID string  `json:"jobId" validate:"required,uuid"`
	Notes *string `json:"notes" validate:"omitempty,max=5000"`
}

func (h *Handler) apply(w http.ResponseWriter, r *http.Request) {
	seeker, err := auth.Require(r.Context(), auth.RoleJobSeeker)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	var body applyBody
	if err := httpx.Decode(r, &body); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	app, err := h.svc.Apply(r.Context(), seeker, body.JobID, body.Notes)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.Created(w, app)
}

func (h *Handler) listMine(w http.ResponseWriter, r *http.Request) {
	seeker, err := auth.Require(r.Context(), auth.RoleJobSeeker)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	list, err := h.svc.ListForSeeker(r.Context(), seeker)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.OK(w, map[string]any{"applications": list})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.FromContext(r.Context())
	if !ok {
		httpx.WriteError(w, r, apperr.Unauthorized("missing x-user-id header"))
		return
	}
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	app, err := h.svc.Get(r.Context(), caller, id)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.OK(w, app)
}

// ─── Employer ─────────────────────────────────────────────────────────────────

func (h *Handler) listForEmployer(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.Require(r.Context(), auth.RoleEmployee)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	q := r.URL.Query()
	page, err := httpx.ParsePage(q)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	f := EmployerFilter{
		JobID:           q.Get("jobId"),
		IncludeArchived: httpx.QueryBool(q, "includeArchived"),
		Page:            page,
	}
	if f.JobID != "" {
		if err := uuid.Validate(f.JobID); err != nil {
			httpx.WriteError(w, r, apperr.Validation("jobId must be a UUID"))
			return
		}
	}
	if raw := q.Get("status"); raw != "" {
		if f.Status, err = ParseStatus(raw); err != nil {
			httpx.WriteError(w, r, apperr.Validation("%s", err.Error()))
			return
		}
	}
	res, err := h.svc.ListForEmployer(r.Context(), caller, f)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.OK(w, res)
}

type statusBody struct {
	ApplicationID string  `json:"applicationId" validate:"required,uuid"`
	Status        string  `json:"status" validate:"required"`
	Notes         *string `json:"notes" validate:"omitempty,max=5000"`
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.Require(r.Context(), auth.RoleEmployee)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	var body statusBody
	if err := httpx.Decode(r, &body); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	app, err := h.svc.UpdateStatus(r.Context(), caller, body.ApplicationID, body.Status, body.Notes)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.OK(w, app)
}

type bulkBody struct {
	ApplicationIDs []string `json:"applicationIds" validate:"required,min=1,max=500"`
	Action         string   `json:"action" validate:"required"`
	Notes          *string  `json:"notes" validate:"omitempty,max=5000"`
}

func (h *Handler) bulkUpdate(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.Require(r.Context(), auth.RoleEmployee)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	var body bulkBody
	if err := httpx.Decode(r, &body); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	res, err := h.svc.BulkUpdate(r.Context(), caller, body.ApplicationIDs, body.Action, body.Notes)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.OK(w, res)
}

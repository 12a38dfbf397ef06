package reference

import (
	"context"
	"log/slog"
	"net/http"

	"jobmate/board-service/internal/httpx"
)

// Source is the read side the handler needs; *Accessor implements it.
type Source interface {
	Items(ctx context.Context, kind Kind) ([]Item, error)
	Categories(ctx context.Context) ([]Category, error)
}

// Handler serves the lookup tables.
//
// Routes:
//
//	GET /reference/implied-fields?categoryIds=a,b
//	GET /reference/{kind}
//
// Lookups are best effort: a failed read is logged and answered with an
// empty list so the page still renders.
type Handler struct {
	src Source
}

// NewHandler returns a Handler reading from src.
func NewHandler(src Source) *Handler {
	return &Handler{src: src}
}

// RegisterRoutes mounts the reference routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /reference/implied-fields", h.impliedFields)
	mux.HandleFunc("GET /reference/{kind}", h.list)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	kind, ok := ParseKind(r.PathValue("kind"))
	if !ok {
		httpx.Error(w, "unknown reference kind", http.StatusNotFound)
		return
	}

	if kind == KindCategories {
		cats, err := h.src.Categories(r.Context())
		if err != nil {
			slog.Warn("reference read failed, serving empty list", "kind", kind, "err", err)
			cats = []Category{}
		}
		httpx.OK(w, cats)
		return
	}

	items, err := h.src.Items(r.Context(), kind)
	if err != nil {
		slog.Warn("reference read failed, serving empty list", "kind", kind, "err", err)
		items = []Item{}
	}
	httpx.OK(w, items)
}

func (h *Handler) impliedFields(w http.ResponseWriter, r *http.Request) {
	selected := httpx.QueryList(r.URL.Query(), "categoryIds")
	cats, err := h.src.Categories(r.Context())
	if err != nil {
		slog.Warn("reference read failed, no implied fields", "err", err)
		cats = nil
	}
	httpx.OK(w, map[string][]string{"fieldIds": ImpliedFields(selected, cats)})
}

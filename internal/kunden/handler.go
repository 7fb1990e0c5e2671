package kunden

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/ruestwerk/ruestwerk-erp/internal/platform/httpx"
)

// Handler manages customer endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers customer routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.show)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.deactivate)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateKundeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	k, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.respondError(w, "create kunde", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, k)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	req := ListKundenRequest{
		Limit:  int(queryInt64(r, "limit")),
		Offset: int(queryInt64(r, "offset")),
	}
	if s := r.URL.Query().Get("search"); s != "" {
		req.Search = &s
	}
	if a := r.URL.Query().Get("aktiv"); a != "" {
		aktiv := a == "true"
		req.Aktiv = &aktiv
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	kunden, err := h.service.List(r.Context(), req)
	if err != nil {
		h.respondError(w, "list kunden", err)
		return
	}
	httpx.JSON(w, http.StatusOK, kunden)
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	k, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, "get kunde", err)
		return
	}
	httpx.JSON(w, http.StatusOK, k)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var req UpdateKundeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	k, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		h.respondError(w, "update kunde", err)
		return
	}
	httpx.JSON(w, http.StatusOK, k)
}

func (h *Handler) deactivate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	k, err := h.service.Deactivate(r.Context(), id)
	if err != nil {
		h.respondError(w, "deactivate kunde", err)
		return
	}
	httpx.JSON(w, http.StatusOK, k)
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid id")
		return 0, false
	}
	return id, true
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrDuplicateEmail):
		httpx.Problem(w, http.StatusConflict, "Duplicate", err.Error())
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

func queryInt64(r *http.Request, name string) int64 {
	v, _ := strconv.ParseInt(r.URL.Query().Get(name), 10, 64)
	return v
}

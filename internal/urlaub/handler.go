package urlaub

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/ruestwerk/ruestwerk-erp/internal/platform/httpx"
)

// Handler manages vacation endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers vacation routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/bilanz/{mitarbeiterID}", h.bilanz)
	r.Get("/{id}", h.show)
	r.Post("/{id}/genehmigen", h.approve)
	r.Post("/{id}/ablehnen", h.reject)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateAntragRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	a, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.respondError(w, "create urlaubsantrag", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, a)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	req := ListAntraegeRequest{
		Limit:  int(queryInt64(r, "limit")),
		Offset: int(queryInt64(r, "offset")),
	}
	if m := queryInt64(r, "mitarbeiterId"); m > 0 {
		req.MitarbeiterID = &m
	}
	if s := r.URL.Query().Get("status"); s != "" {
		status := Status(s)
		req.Status = &status
	}
	if j := int(queryInt64(r, "jahr")); j > 0 {
		req.Jahr = &j
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	antraege, err := h.service.List(r.Context(), req)
	if err != nil {
		h.respondError(w, "list urlaub", err)
		return
	}
	httpx.JSON(w, http.StatusOK, antraege)
}

func (h *Handler) bilanz(w http.ResponseWriter, r *http.Request) {
	mitarbeiterID, err := strconv.ParseInt(chi.URLParam(r, "mitarbeiterID"), 10, 64)
	if err != nil || mitarbeiterID <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid mitarbeiter id")
		return
	}
	bilanz, err := h.service.Bilanz(r.Context(), mitarbeiterID, int(queryInt64(r, "jahr")))
	if err != nil {
		h.respondError(w, "urlaub bilanz", err)
		return
	}
	httpx.JSON(w, http.StatusOK, bilanz)
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	a, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, "get urlaubsantrag", err)
		return
	}
	httpx.JSON(w, http.StatusOK, a)
}

func (h *Handler) approve(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	a, err := h.service.Approve(r.Context(), id)
	if err != nil {
		h.respondError(w, "approve urlaubsantrag", err)
		return
	}
	httpx.JSON(w, http.StatusOK, a)
}

func (h *Handler) reject(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	a, err := h.service.Reject(r.Context(), id)
	if err != nil {
		h.respondError(w, "reject urlaubsantrag", err)
		return
	}
	httpx.JSON(w, http.StatusOK, a)
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
	case errors.Is(err, ErrMitarbeiterNichtGefunden), errors.Is(err, ErrZeitraumUngueltig):
		httpx.Problem(w, http.StatusUnprocessableEntity, "Unprocessable", err.Error())
	case errors.Is(err, ErrUebergangUngueltig):
		httpx.Problem(w, http.StatusConflict, "Conflict", err.Error())
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

func queryInt64(r *http.Request, name string) int64 {
	v, _ := strconv.ParseInt(r.URL.Query().Get(name), 10, 64)
	return v
}

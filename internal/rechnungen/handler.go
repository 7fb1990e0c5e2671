package rechnungen

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/ruestwerk/ruestwerk-erp/internal/platform/httpx"
)

// Handler manages invoice endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers invoice routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/aging", h.aging)
	r.Get("/{id}", h.show)
	r.Put("/{id}", h.update)
	r.Post("/{id}/stellen", h.post)
	r.Post("/{id}/bezahlt", h.markPaid)
	r.Post("/{id}/stornieren", h.void)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateRechnungRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	re, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.respondError(w, "create rechnung", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, re)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	req := ListRechnungenRequest{
		Limit:  int(queryInt64(r, "limit")),
		Offset: int(queryInt64(r, "offset")),
	}
	if k := queryInt64(r, "kundeId"); k > 0 {
		req.KundeID = &k
	}
	if p := queryInt64(r, "projektId"); p > 0 {
		req.ProjektID = &p
	}
	if s := r.URL.Query().Get("status"); s != "" {
		status := Status(s)
		req.Status = &status
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	rechnungen, err := h.service.List(r.Context(), req)
	if err != nil {
		h.respondError(w, "list rechnungen", err)
		return
	}
	httpx.JSON(w, http.StatusOK, rechnungen)
}

func (h *Handler) aging(w http.ResponseWriter, r *http.Request) {
	var asOf time.Time
	if raw := r.URL.Query().Get("asOf"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid asOf date")
			return
		}
		asOf = parsed
	}
	bucket, err := h.service.Aging(r.Context(), asOf)
	if err != nil {
		h.respondError(w, "rechnungen aging", err)
		return
	}
	httpx.JSON(w, http.StatusOK, bucket)
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	re, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, "get rechnung", err)
		return
	}
	httpx.JSON(w, http.StatusOK, re)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var req UpdateRechnungRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	re, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		h.respondError(w, "update rechnung", err)
		return
	}
	httpx.JSON(w, http.StatusOK, re)
}

func (h *Handler) post(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	re, err := h.service.Post(r.Context(), id)
	if err != nil {
		h.respondError(w, "post rechnung", err)
		return
	}
	httpx.JSON(w, http.StatusOK, re)
}

func (h *Handler) markPaid(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	re, err := h.service.MarkPaid(r.Context(), id)
	if err != nil {
		h.respondError(w, "mark rechnung paid", err)
		return
	}
	httpx.JSON(w, http.StatusOK, re)
}

func (h *Handler) void(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	re, err := h.service.Void(r.Context(), id)
	if err != nil {
		h.respondError(w, "void rechnung", err)
		return
	}
	httpx.JSON(w, http.StatusOK, re)
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
	case errors.Is(err, ErrAngebotNichtGefunden), errors.Is(err, ErrBetragFehlt):
		httpx.Problem(w, http.StatusUnprocessableEntity, "Unprocessable", err.Error())
	case errors.Is(err, ErrUebergangUngueltig):
		httpx.Problem(w, http.StatusConflict, "Invalid Transition", err.Error())
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

func queryInt64(r *http.Request, name string) int64 {
	v, _ := strconv.ParseInt(r.URL.Query().Get(name), 10, 64)
	return v
}

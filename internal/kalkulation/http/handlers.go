// Package http exposes the kalkulation JSON API.
package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/ruestwerk/ruestwerk-erp/internal/kalkulation"
	"github.com/ruestwerk/ruestwerk-erp/internal/platform/cache"
	"github.com/ruestwerk/ruestwerk-erp/internal/platform/httpx"
)

// Handler manages kalkulation endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *kalkulation.Service
	cache    *cache.ReportCache
	validate *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *kalkulation.Service, reportCache *cache.ReportCache) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		cache:    reportCache,
		validate: validator.New(),
	}
}

// MountProjektRoutes registers the per-project kalkulation routes on the
// projekte subtree.
func (h *Handler) MountProjektRoutes(r chi.Router) {
	r.Get("/{projektID}/vorkalkulation", h.getVorkalkulation)
	r.Put("/{projektID}/vorkalkulation", h.putVorkalkulation)
	r.Get("/{projektID}/nachkalkulation", h.getNachkalkulation)
	r.Post("/{projektID}/nachkalkulation/berechnen", h.berechneNachkalkulation)
	r.Get("/{projektID}/kalkulation/export.csv", h.exportCSV)
}

// MountSettingsRoutes registers the parameter singleton routes.
func (h *Handler) MountSettingsRoutes(r chi.Router) {
	r.Get("/kalkulationsparameter", h.getParameter)
	r.Put("/kalkulationsparameter", h.putParameter)
}

type vorkalkulationRequest struct {
	SollStundenAufbau float64  `json:"sollStundenAufbau" validate:"gte=0"`
	SollStundenAbbau  float64  `json:"sollStundenAbbau" validate:"gte=0"`
	Stundensatz       float64  `json:"stundensatz" validate:"required,gt=0"`
	Materialkosten    *float64 `json:"materialkosten,omitempty" validate:"omitempty,gte=0"`
	Gemeinkosten      *float64 `json:"gemeinkosten,omitempty" validate:"omitempty,gte=0"`
	Gewinn            *float64 `json:"gewinn,omitempty"`
	Quelle            string   `json:"quelle,omitempty" validate:"omitempty,oneof=manuell angebot"`
	AngebotID         *int64   `json:"angebotId,omitempty"`
	ErstelltVon       string   `json:"erstelltVon,omitempty" validate:"omitempty,max=200"`
}

type parameterRequest struct {
	StandardStundensatz float64                       `json:"standardStundensatz" validate:"required,gt=0"`
	Verteilungsfaktor   kalkulation.Verteilungsfaktor `json:"verteilungsfaktor"`
	Rundungsregel       string                        `json:"rundungsregel" validate:"required,oneof=kaufmaennisch auf ab"`
	Farbschwellen       kalkulation.Farbschwellen     `json:"farbschwellen"`
}

func (h *Handler) getParameter(w http.ResponseWriter, r *http.Request) {
	params, err := h.service.Parameter(r.Context())
	if err != nil {
		h.respondError(w, r, "get kalkulationsparameter", err)
		return
	}
	httpx.JSON(w, http.StatusOK, params)
}

func (h *Handler) putParameter(w http.ResponseWriter, r *http.Request) {
	var req parameterRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	params := kalkulation.KalkulationsParameter{
		StandardStundensatz: req.StandardStundensatz,
		Verteilungsfaktor:   req.Verteilungsfaktor,
		Rundungsregel:       kalkulation.Rundungsregel(req.Rundungsregel),
		Farbschwellen:       req.Farbschwellen,
	}
	if err := h.service.SetParameter(r.Context(), params); err != nil {
		h.respondError(w, r, "put kalkulationsparameter", err)
		return
	}
	httpx.JSON(w, http.StatusOK, params)
}

func (h *Handler) getVorkalkulation(w http.ResponseWriter, r *http.Request) {
	projektID, ok := h.projektID(w, r)
	if !ok {
		return
	}
	v, err := h.service.Vorkalkulation(r.Context(), projektID)
	if err != nil {
		h.respondError(w, r, "get vorkalkulation", err)
		return
	}
	httpx.JSON(w, http.StatusOK, v)
}

func (h *Handler) putVorkalkulation(w http.ResponseWriter, r *http.Request) {
	projektID, ok := h.projektID(w, r)
	if !ok {
		return
	}
	var req vorkalkulationRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	v, err := h.service.SpeichereVorkalkulation(r.Context(), projektID, kalkulation.VorkalkulationInput{
		SollStundenAufbau: req.SollStundenAufbau,
		SollStundenAbbau:  req.SollStundenAbbau,
		Stundensatz:       req.Stundensatz,
		Materialkosten:    req.Materialkosten,
		Gemeinkosten:      req.Gemeinkosten,
		Gewinn:            req.Gewinn,
		Quelle:            kalkulation.VorkalkulationsQuelle(req.Quelle),
		AngebotID:         req.AngebotID,
		ErstelltVon:       req.ErstelltVon,
	})
	if err != nil {
		h.respondError(w, r, "put vorkalkulation", err)
		return
	}
	httpx.JSON(w, http.StatusOK, v)
}

func (h *Handler) getNachkalkulation(w http.ResponseWriter, r *http.Request) {
	projektID, ok := h.projektID(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	var cached kalkulation.Nachkalkulation
	key, keyErr := h.cache.BuildKey(ctx, "nachkalkulation", strconv.FormatInt(projektID, 10))
	if keyErr == nil {
		if err := h.cache.Get(ctx, key, &cached); err == nil {
			httpx.JSON(w, http.StatusOK, cached)
			return
		}
	}

	n, err := h.service.Nachkalkulation(ctx, projektID)
	if err != nil {
		h.respondError(w, r, "get nachkalkulation", err)
		return
	}
	if keyErr == nil {
		if err := h.cache.Set(ctx, key, n); err != nil {
			h.logger.Warn("cache nachkalkulation", slog.Any("error", err))
		}
	}
	httpx.JSON(w, http.StatusOK, n)
}

// berechneNachkalkulation triggers a synchronous recompute. The regular
// path is asynchronous via time entry mutations; this endpoint exists
// for admin tooling and debugging.
func (h *Handler) berechneNachkalkulation(w http.ResponseWriter, r *http.Request) {
	projektID, ok := h.projektID(w, r)
	if !ok {
		return
	}
	n, err := h.service.BerechneNachkalkulation(r.Context(), projektID)
	if err != nil {
		h.respondError(w, r, "berechne nachkalkulation", err)
		return
	}
	httpx.JSON(w, http.StatusOK, n)
}

func (h *Handler) exportCSV(w http.ResponseWriter, r *http.Request) {
	projektID, ok := h.projektID(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	name, err := h.service.ProjektName(ctx, projektID)
	if err != nil {
		h.respondError(w, r, "export kalkulation", err)
		return
	}
	vor, err := h.service.Vorkalkulation(ctx, projektID)
	if err != nil {
		h.respondError(w, r, "export kalkulation", err)
		return
	}
	nach, err := h.service.Nachkalkulation(ctx, projektID)
	if err != nil {
		h.respondError(w, r, "export kalkulation", err)
		return
	}
	rows, err := kalkulation.ExportRows(name, &vor, &nach)
	if err != nil {
		h.respondError(w, r, "export kalkulation", err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="kalkulation-%d.csv"`, projektID))
	if err := kalkulation.WriteCSV(w, rows); err != nil {
		h.logger.Error("write kalkulation csv", slog.Any("error", err))
	}
}

func (h *Handler) projektID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "projektID"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid projekt id")
		return 0, false
	}
	return id, true
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, kalkulation.ErrProjektNichtGefunden):
		httpx.Problem(w, http.StatusNotFound, "Not Found", "projekt nicht gefunden")
	case errors.Is(err, kalkulation.ErrVorkalkulationFehlt):
		httpx.Problem(w, http.StatusNotFound, "Not Found", "vorkalkulation nicht vorhanden")
	case errors.Is(err, kalkulation.ErrNochNichtBerechnet):
		httpx.Problem(w, http.StatusNotFound, "Not Found", "noch nicht berechnet")
	case errors.Is(err, kalkulation.ErrDatenFehlen):
		httpx.Problem(w, http.StatusUnprocessableEntity, "Missing Data", err.Error())
	case errors.Is(err, kalkulation.ErrParameterUngueltig),
		errors.Is(err, kalkulation.ErrVorkalkulationUngueltig):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

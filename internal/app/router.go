package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ruestwerk/ruestwerk-erp/internal/angebote"
	kalkulationhttp "github.com/ruestwerk/ruestwerk-erp/internal/kalkulation/http"
	"github.com/ruestwerk/ruestwerk-erp/internal/kunden"
	"github.com/ruestwerk/ruestwerk-erp/internal/mitarbeiter"
	"github.com/ruestwerk/ruestwerk-erp/internal/observability"
	"github.com/ruestwerk/ruestwerk-erp/internal/projekte"
	"github.com/ruestwerk/ruestwerk-erp/internal/rechnungen"
	"github.com/ruestwerk/ruestwerk-erp/internal/urlaub"
	"github.com/ruestwerk/ruestwerk-erp/internal/zeiterfassung"
	"github.com/ruestwerk/ruestwerk-erp/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger             *slog.Logger
	Config             *Config
	KundenHandler      *kunden.Handler
	MitarbeiterHandler *mitarbeiter.Handler
	ProjekteHandler    *projekte.Handler
	AngeboteHandler    *angebote.Handler
	RechnungenHandler  *rechnungen.Handler
	ZeitHandler        *zeiterfassung.Handler
	UrlaubHandler      *urlaub.Handler
	KalkulationHandler *kalkulationhttp.Handler
	JobHandler         *jobs.Handler
	Metrics            *observability.Metrics
}

// NewRouter constructs the chi.Router with Rüstwerk defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	if params.KundenHandler != nil {
		r.Route("/kunden", params.KundenHandler.MountRoutes)
	}
	if params.MitarbeiterHandler != nil {
		r.Route("/mitarbeiter", params.MitarbeiterHandler.MountRoutes)
	}
	if params.ProjekteHandler != nil {
		r.Route("/projekte", func(r chi.Router) {
			params.ProjekteHandler.MountRoutes(r)
			if params.KalkulationHandler != nil {
				params.KalkulationHandler.MountProjektRoutes(r)
			}
		})
	}
	if params.AngeboteHandler != nil {
		r.Route("/angebote", params.AngeboteHandler.MountRoutes)
	}
	if params.RechnungenHandler != nil {
		r.Route("/rechnungen", params.RechnungenHandler.MountRoutes)
	}
	if params.ZeitHandler != nil {
		r.Route("/zeiterfassung", params.ZeitHandler.MountRoutes)
	}
	if params.UrlaubHandler != nil {
		r.Route("/urlaub", params.UrlaubHandler.MountRoutes)
	}
	if params.KalkulationHandler != nil {
		r.Route("/settings", params.KalkulationHandler.MountSettingsRoutes)
	}
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}

	return r
}

package kalkulation

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// RepositoryPort defines persistence methods for the calculation core.
type RepositoryPort interface {
	GetVorkalkulation(ctx context.Context, projektID int64) (*Vorkalkulation, error)
	SaveVorkalkulation(ctx context.Context, projektID int64, v Vorkalkulation) error
	GetNachkalkulation(ctx context.Context, projektID int64) (*Nachkalkulation, error)
	SaveNachkalkulation(ctx context.Context, projektID int64, n Nachkalkulation, verlauf VerlaufEintrag) error
	GetParameter(ctx context.Context) (*KalkulationsParameter, error)
	SaveParameter(ctx context.Context, p KalkulationsParameter) error
	FreigegebeneEintraege(ctx context.Context, projektID int64) ([]ZeitEintrag, error)
	ProjekteMitVorkalkulation(ctx context.Context) ([]int64, error)
	ProjektName(ctx context.Context, projektID int64) (string, error)
}

// Recomputer submits asynchronous recompute requests.
type Recomputer interface {
	EnqueueRecompute(ctx context.Context, projektID int64) error
}

// CacheInvalidator drops cached report payloads after a snapshot write.
type CacheInvalidator interface {
	Bump(ctx context.Context) error
}

// RecomputeObserver counts recompute outcomes.
type RecomputeObserver interface {
	ObserveRecompute(outcome string)
}

// Service orchestrates budget storage, aggregation and variance
// computation. It is the single entry point invoked whenever a time
// entry mutation changes a project's approved actuals.
type Service struct {
	repo       RepositoryPort
	aggregator *Aggregator
	queue      Recomputer
	cache      CacheInvalidator
	metrics    RecomputeObserver
	logger     *slog.Logger
	now        func() time.Time
}

// ServiceConfig collects Service dependencies; Queue, Cache and Metrics
// are optional.
type ServiceConfig struct {
	Repo    RepositoryPort
	Queue   Recomputer
	Cache   CacheInvalidator
	Metrics RecomputeObserver
	Logger  *slog.Logger
}

// NewService builds the service.
func NewService(cfg ServiceConfig) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:       cfg.Repo,
		aggregator: NewAggregator(cfg.Repo),
		queue:      cfg.Queue,
		cache:      cfg.Cache,
		metrics:    cfg.Metrics,
		logger:     logger,
		now:        time.Now,
	}
}

// Parameter returns the single active parameter set, falling back to
// the documented defaults when none has been stored yet.
func (s *Service) Parameter(ctx context.Context) (KalkulationsParameter, error) {
	p, err := s.repo.GetParameter(ctx)
	if err != nil {
		return KalkulationsParameter{}, fmt.Errorf("kalkulation: parameter laden: %w", err)
	}
	if p == nil {
		return DefaultParameter(), nil
	}
	return *p, nil
}

// SetParameter validates and replaces the singleton wholesale.
func (s *Service) SetParameter(ctx context.Context, p KalkulationsParameter) error {
	if err := p.Validate(); err != nil {
		return err
	}
	p.ZuletztGeaendert = s.now()
	if err := s.repo.SaveParameter(ctx, p); err != nil {
		return fmt.Errorf("kalkulation: parameter speichern: %w", err)
	}
	s.bumpCache(ctx)
	return nil
}

// Vorkalkulation returns the stored budget of a project.
func (s *Service) Vorkalkulation(ctx context.Context, projektID int64) (Vorkalkulation, error) {
	v, err := s.repo.GetVorkalkulation(ctx, projektID)
	if err != nil {
		return Vorkalkulation{}, err
	}
	if v == nil {
		return Vorkalkulation{}, ErrVorkalkulationFehlt
	}
	return *v, nil
}

// SpeichereVorkalkulation computes the derived budget fields, stores the
// budget on the project and schedules a recompute of the snapshot.
func (s *Service) SpeichereVorkalkulation(ctx context.Context, projektID int64, in VorkalkulationInput) (Vorkalkulation, error) {
	if err := in.Validate(); err != nil {
		return Vorkalkulation{}, err
	}
	params, err := s.Parameter(ctx)
	if err != nil {
		return Vorkalkulation{}, err
	}
	regel := params.Rundungsregel

	quelle := in.Quelle
	if quelle == "" {
		quelle = QuelleManuell
	}

	sollUmsatzAufbau := in.SollStundenAufbau * in.Stundensatz
	sollUmsatzAbbau := in.SollStundenAbbau * in.Stundensatz
	v := Vorkalkulation{
		SollStundenAufbau: RundeStunden(in.SollStundenAufbau, regel),
		SollStundenAbbau:  RundeStunden(in.SollStundenAbbau, regel),
		Stundensatz:       in.Stundensatz,
		SollUmsatzAufbau:  RundeBetrag(sollUmsatzAufbau, regel),
		SollUmsatzAbbau:   RundeBetrag(sollUmsatzAbbau, regel),
		GesamtSollStunden: RundeStunden(in.SollStundenAufbau+in.SollStundenAbbau, regel),
		GesamtSollUmsatz:  RundeBetrag(sollUmsatzAufbau+sollUmsatzAbbau, regel),
		Materialkosten:    in.Materialkosten,
		Gemeinkosten:      in.Gemeinkosten,
		Gewinn:            in.Gewinn,
		Quelle:            quelle,
		AngebotID:         in.AngebotID,
		ErstelltAm:        s.now(),
		ErstelltVon:       in.ErstelltVon,
	}
	if err := s.repo.SaveVorkalkulation(ctx, projektID, v); err != nil {
		return Vorkalkulation{}, fmt.Errorf("kalkulation: vorkalkulation speichern: %w", err)
	}
	s.EnqueueRecompute(ctx, projektID)
	return v, nil
}

// Nachkalkulation returns the current snapshot of a project.
func (s *Service) Nachkalkulation(ctx context.Context, projektID int64) (Nachkalkulation, error) {
	n, err := s.repo.GetNachkalkulation(ctx, projektID)
	if err != nil {
		return Nachkalkulation{}, err
	}
	if n == nil {
		return Nachkalkulation{}, ErrNochNichtBerechnet
	}
	return *n, nil
}

// BerechneNachkalkulation performs a full recompute for the project and
// persists the resulting snapshot wholesale. Every run reads the
// complete current state, so concurrent runs are safe: the last write
// wins and the next qualifying mutation self-heals any staleness.
func (s *Service) BerechneNachkalkulation(ctx context.Context, projektID int64) (Nachkalkulation, error) {
	vor, err := s.repo.GetVorkalkulation(ctx, projektID)
	if err != nil {
		s.observe("error")
		return Nachkalkulation{}, err
	}
	if vor == nil {
		s.observe("skipped")
		return Nachkalkulation{}, ErrVorkalkulationFehlt
	}

	params, err := s.Parameter(ctx)
	if err != nil {
		s.observe("error")
		return Nachkalkulation{}, err
	}

	actuals, err := s.aggregator.Aggregate(ctx, projektID)
	if err != nil {
		s.observe("error")
		return Nachkalkulation{}, err
	}

	nach := ComputeNachkalkulation(*vor, actuals, params, s.now())

	verlauf := VerlaufEintrag{
		Datum:            nach.LetzteBerechnung,
		IstStundenAufbau: nach.IstStundenAufbau,
		IstStundenAbbau:  nach.IstStundenAbbau,
		IstUmsatzGesamt:  nach.GesamtIstUmsatz,
		Erfuellungsgrad:  nach.Erfuellungsgrad,
	}
	if err := s.repo.SaveNachkalkulation(ctx, projektID, nach, verlauf); err != nil {
		s.observe("error")
		return Nachkalkulation{}, fmt.Errorf("kalkulation: nachkalkulation speichern: %w", err)
	}
	s.bumpCache(ctx)
	s.observe("ok")
	return nach, nil
}

// EnqueueRecompute submits a fire-and-forget recompute. Failures are
// logged and never propagated; the triggering mutation must not fail
// because the queue is unavailable.
func (s *Service) EnqueueRecompute(ctx context.Context, projektID int64) {
	if s.queue == nil {
		return
	}
	if err := s.queue.EnqueueRecompute(ctx, projektID); err != nil {
		s.logger.Error("enqueue kalkulation recompute",
			slog.Int64("projekt_id", projektID), slog.Any("error", err))
	}
}

// ResyncAlle re-enqueues recomputes for every project carrying a budget.
// Used by the nightly cron as a safety net for lost triggers.
func (s *Service) ResyncAlle(ctx context.Context) (int, error) {
	ids, err := s.repo.ProjekteMitVorkalkulation(ctx)
	if err != nil {
		return 0, fmt.Errorf("kalkulation: resync projektliste: %w", err)
	}
	for _, id := range ids {
		s.EnqueueRecompute(ctx, id)
	}
	return len(ids), nil
}

// ProjektName resolves the display name used by the export.
func (s *Service) ProjektName(ctx context.Context, projektID int64) (string, error) {
	return s.repo.ProjektName(ctx, projektID)
}

func (s *Service) bumpCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Bump(ctx); err != nil {
		s.logger.Warn("bump report cache", slog.Any("error", err))
	}
}

func (s *Service) observe(outcome string) {
	if s.metrics != nil {
		s.metrics.ObserveRecompute(outcome)
	}
}

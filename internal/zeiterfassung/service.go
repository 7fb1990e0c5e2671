package zeiterfassung

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

var (
	// ErrNotFound occurs when an entry is missing.
	ErrNotFound = errors.New("zeiterfassung: eintrag nicht gefunden")
	// ErrUngueltig occurs on invalid input.
	ErrUngueltig = errors.New("zeiterfassung: eintrag ungueltig")
)

// RepositoryPort defines data access methods for time entries.
type RepositoryPort interface {
	Create(ctx context.Context, e Eintrag) (*Eintrag, error)
	Get(ctx context.Context, id int64) (*Eintrag, error)
	Update(ctx context.Context, e Eintrag) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, req ListEintraegeRequest) ([]Eintrag, error)
}

// Recomputer submits asynchronous Nachkalkulation recomputes.
type Recomputer interface {
	EnqueueRecompute(ctx context.Context, projektID int64) error
}

// Service handles time entry business logic. Every mutation that can
// change a project's approved-actuals set schedules a full recompute;
// the enqueue is fire-and-forget so the mutation itself never fails on
// queue trouble.
type Service struct {
	repo   RepositoryPort
	queue  Recomputer
	logger *slog.Logger
	now    func() time.Time
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, queue Recomputer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, queue: queue, logger: logger, now: time.Now}
}

// Create stores a new entry. New entries default to offen; an entry
// created already approved triggers a recompute immediately.
func (s *Service) Create(ctx context.Context, req CreateEintragRequest) (*Eintrag, error) {
	datum, err := time.Parse("2006-01-02", req.Datum)
	if err != nil {
		return nil, fmt.Errorf("%w: datum", ErrUngueltig)
	}
	status := StatusOffen
	if req.Status != "" {
		status = Status(req.Status)
	}
	now := s.now()
	e, err := s.repo.Create(ctx, Eintrag{
		MitarbeiterID:  req.MitarbeiterID,
		ProjektID:      req.ProjektID,
		Datum:          datum,
		Stunden:        req.Stunden,
		Taetigkeitstyp: req.Taetigkeitstyp,
		Bemerkung:      req.Bemerkung,
		Status:         status,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		return nil, err
	}
	if e.Status == StatusFreigegeben {
		s.triggerRecompute(ctx, e.ProjektID)
	}
	return e, nil
}

// Get returns one entry.
func (s *Service) Get(ctx context.Context, id int64) (*Eintrag, error) {
	e, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, ErrNotFound
	}
	return e, nil
}

// List returns entries matching the filter.
func (s *Service) List(ctx context.Context, req ListEintraegeRequest) ([]Eintrag, error) {
	if req.Limit == 0 {
		req.Limit = 100
	}
	return s.repo.List(ctx, req)
}

// Update applies partial changes. Recomputes are triggered for every
// project whose approved set could have changed: the old project when
// the entry was approved, the new one when it is approved afterwards.
func (s *Service) Update(ctx context.Context, id int64, req UpdateEintragRequest) (*Eintrag, error) {
	e, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	warFreigegeben := e.Status == StatusFreigegeben
	altesProjekt := e.ProjektID

	if req.ProjektID != nil {
		e.ProjektID = *req.ProjektID
	}
	if req.Datum != nil {
		datum, err := time.Parse("2006-01-02", *req.Datum)
		if err != nil {
			return nil, fmt.Errorf("%w: datum", ErrUngueltig)
		}
		e.Datum = datum
	}
	if req.Stunden != nil {
		e.Stunden = *req.Stunden
	}
	if req.Taetigkeitstyp != nil {
		e.Taetigkeitstyp = *req.Taetigkeitstyp
	}
	if req.Bemerkung != nil {
		e.Bemerkung = req.Bemerkung
	}
	if req.Status != nil {
		e.Status = Status(*req.Status)
	}
	e.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, *e); err != nil {
		return nil, err
	}

	istFreigegeben := e.Status == StatusFreigegeben
	if warFreigegeben {
		s.triggerRecompute(ctx, altesProjekt)
	}
	if istFreigegeben && (!warFreigegeben || e.ProjektID != altesProjekt) {
		s.triggerRecompute(ctx, e.ProjektID)
	}
	return e, nil
}

// Delete removes an entry; deleting an approved one shrinks the
// actuals, so the project is recomputed.
func (s *Service) Delete(ctx context.Context, id int64) error {
	e, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if e.Status == StatusFreigegeben {
		s.triggerRecompute(ctx, e.ProjektID)
	}
	return nil
}

// Freigeben approves an entry. Approving an already approved entry is a
// no-op, which keeps repeated submits harmless.
func (s *Service) Freigeben(ctx context.Context, id int64) (*Eintrag, error) {
	return s.setStatus(ctx, id, StatusFreigegeben)
}

// Zuruecksetzen reverts an entry to offen, removing it from the actuals.
func (s *Service) Zuruecksetzen(ctx context.Context, id int64) (*Eintrag, error) {
	return s.setStatus(ctx, id, StatusOffen)
}

func (s *Service) setStatus(ctx context.Context, id int64, status Status) (*Eintrag, error) {
	e, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if e.Status == status {
		return e, nil
	}
	e.Status = status
	e.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, *e); err != nil {
		return nil, err
	}
	s.triggerRecompute(ctx, e.ProjektID)
	return e, nil
}

func (s *Service) triggerRecompute(ctx context.Context, projektID int64) {
	if s.queue == nil {
		return
	}
	if err := s.queue.EnqueueRecompute(ctx, projektID); err != nil {
		s.logger.Error("enqueue recompute",
			slog.Int64("projekt_id", projektID), slog.Any("error", err))
	}
}

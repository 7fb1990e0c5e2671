package projekte

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// ErrUebergangUngueltig occurs on a status transition the lifecycle forbids.
var ErrUebergangUngueltig = errors.New("projekte: statusuebergang ungueltig")

// RepositoryPort defines data access methods for projects.
type RepositoryPort interface {
	Create(ctx context.Context, p Projekt) (*Projekt, error)
	Get(ctx context.Context, id int64) (*Projekt, error)
	Update(ctx context.Context, p Projekt) error
	List(ctx context.Context, req ListProjekteRequest) ([]Projekt, error)
	StundenSummary(ctx context.Context, projektID int64) (*StundenSummary, error)
}

// Service handles project business logic.
type Service struct {
	repo RepositoryPort
	now  func() time.Time
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Create stores a new project in status geplant.
func (s *Service) Create(ctx context.Context, req CreateProjektRequest) (*Projekt, error) {
	baubeginn, err := parseDatum(req.Baubeginn)
	if err != nil {
		return nil, err
	}
	bauende, err := parseDatum(req.Bauende)
	if err != nil {
		return nil, err
	}
	now := s.now()
	return s.repo.Create(ctx, Projekt{
		Name:           req.Name,
		KundeID:        req.KundeID,
		Adresse:        req.Adresse,
		Baubeginn:      baubeginn,
		Bauende:        bauende,
		Status:         StatusGeplant,
		MitarbeiterIDs: req.MitarbeiterIDs,
		Notizen:        req.Notizen,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
}

// Get returns one project.
func (s *Service) Get(ctx context.Context, id int64) (*Projekt, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}
	return p, nil
}

// Detail loads the project and its approved-hours summary concurrently.
func (s *Service) Detail(ctx context.Context, id int64) (*ProjektDetail, error) {
	var detail ProjektDetail
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.Get(gctx, id)
		if err != nil {
			return err
		}
		detail.Projekt = *p
		return nil
	})
	g.Go(func() error {
		summary, err := s.repo.StundenSummary(gctx, id)
		if err != nil {
			return err
		}
		detail.Stunden = *summary
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &detail, nil
}

// List returns projects matching the filter.
func (s *Service) List(ctx context.Context, req ListProjekteRequest) ([]Projekt, error) {
	if req.Limit == 0 {
		req.Limit = 100
	}
	return s.repo.List(ctx, req)
}

// Update applies partial changes and guards the status lifecycle.
func (s *Service) Update(ctx context.Context, id int64, req UpdateProjektRequest) (*Projekt, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Status != nil && *req.Status != p.Status {
		if !transitionErlaubt(p.Status, *req.Status) {
			return nil, fmt.Errorf("%w: %s -> %s", ErrUebergangUngueltig, p.Status, *req.Status)
		}
		p.Status = *req.Status
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.KundeID != nil {
		p.KundeID = req.KundeID
	}
	if req.Adresse != nil {
		p.Adresse = req.Adresse
	}
	if req.Baubeginn != nil {
		baubeginn, err := parseDatum(req.Baubeginn)
		if err != nil {
			return nil, err
		}
		p.Baubeginn = baubeginn
	}
	if req.Bauende != nil {
		bauende, err := parseDatum(req.Bauende)
		if err != nil {
			return nil, err
		}
		p.Bauende = bauende
	}
	if req.MitarbeiterIDs != nil {
		p.MitarbeiterIDs = req.MitarbeiterIDs
	}
	if req.Notizen != nil {
		p.Notizen = req.Notizen
	}
	p.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, *p); err != nil {
		return nil, err
	}
	return p, nil
}

// transitionErlaubt encodes the forward-only project lifecycle.
func transitionErlaubt(from, to Status) bool {
	switch from {
	case StatusGeplant:
		return to == StatusAktiv
	case StatusAktiv:
		return to == StatusAbgeschlossen
	default:
		return false
	}
}

func parseDatum(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil, fmt.Errorf("parse datum: %w", err)
	}
	return &t, nil
}

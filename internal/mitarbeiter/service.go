package mitarbeiter

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const defaultUrlaubstage = 30

// RepositoryPort defines data access methods for employees.
type RepositoryPort interface {
	Create(ctx context.Context, m Mitarbeiter) (*Mitarbeiter, error)
	Get(ctx context.Context, id int64) (*Mitarbeiter, error)
	Update(ctx context.Context, m Mitarbeiter) error
	List(ctx context.Context, req ListMitarbeiterRequest) ([]Mitarbeiter, error)
}

// Service handles employee business logic.
type Service struct {
	repo RepositoryPort
	now  func() time.Time
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Create stores a new active employee with a bcrypt bootstrap credential.
func (s *Service) Create(ctx context.Context, req CreateMitarbeiterRequest) (*Mitarbeiter, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	urlaubstage := req.Urlaubstage
	if urlaubstage == 0 {
		urlaubstage = defaultUrlaubstage
	}
	eintritt, err := parseDatum(req.Eintrittsdatum)
	if err != nil {
		return nil, err
	}
	now := s.now()
	return s.repo.Create(ctx, Mitarbeiter{
		Name:           req.Name,
		Email:          req.Email,
		Position:       req.Position,
		Stundensatz:    req.Stundensatz,
		Urlaubstage:    urlaubstage,
		Eintrittsdatum: eintritt,
		Aktiv:          true,
		PasswordHash:   string(hash),
		CreatedAt:      now,
		UpdatedAt:      now,
	})
}

// Get returns one employee.
func (s *Service) Get(ctx context.Context, id int64) (*Mitarbeiter, error) {
	m, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrNotFound
	}
	return m, nil
}

// List returns employees matching the filter.
func (s *Service) List(ctx context.Context, req ListMitarbeiterRequest) ([]Mitarbeiter, error) {
	if req.Limit == 0 {
		req.Limit = 100
	}
	return s.repo.List(ctx, req)
}

// Update applies partial changes.
func (s *Service) Update(ctx context.Context, id int64, req UpdateMitarbeiterRequest) (*Mitarbeiter, error) {
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		m.Name = *req.Name
	}
	if req.Email != nil {
		m.Email = *req.Email
	}
	if req.Position != nil {
		m.Position = req.Position
	}
	if req.Stundensatz != nil {
		m.Stundensatz = req.Stundensatz
	}
	if req.Urlaubstage != nil {
		m.Urlaubstage = *req.Urlaubstage
	}
	if req.Eintrittsdatum != nil {
		eintritt, err := parseDatum(req.Eintrittsdatum)
		if err != nil {
			return nil, err
		}
		m.Eintrittsdatum = eintritt
	}
	if req.Aktiv != nil {
		m.Aktiv = *req.Aktiv
	}
	m.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, *m); err != nil {
		return nil, err
	}
	return m, nil
}

// UrlaubsStammdaten resolves the vacation entitlement data of one
// employee. found is false when the employee does not exist.
func (s *Service) UrlaubsStammdaten(ctx context.Context, id int64) (float64, *time.Time, bool, error) {
	m, err := s.repo.Get(ctx, id)
	if err != nil {
		return 0, nil, false, err
	}
	if m == nil {
		return 0, nil, false, nil
	}
	return m.Urlaubstage, m.Eintrittsdatum, true, nil
}

// Deactivate marks an employee inactive instead of deleting history.
func (s *Service) Deactivate(ctx context.Context, id int64) (*Mitarbeiter, error) {
	inactive := false
	return s.Update(ctx, id, UpdateMitarbeiterRequest{Aktiv: &inactive})
}

func parseDatum(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil, fmt.Errorf("parse eintrittsdatum: %w", err)
	}
	return &t, nil
}

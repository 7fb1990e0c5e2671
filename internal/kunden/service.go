package kunden

import (
	"context"
	"time"
)

// RepositoryPort defines data access methods for customers.
type RepositoryPort interface {
	Create(ctx context.Context, k Kunde) (*Kunde, error)
	Get(ctx context.Context, id int64) (*Kunde, error)
	Update(ctx context.Context, k Kunde) error
	List(ctx context.Context, req ListKundenRequest) ([]Kunde, error)
}

// Service handles customer business logic.
type Service struct {
	repo RepositoryPort
	now  func() time.Time
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Create stores a new active customer.
func (s *Service) Create(ctx context.Context, req CreateKundeRequest) (*Kunde, error) {
	now := s.now()
	return s.repo.Create(ctx, Kunde{
		Name:            req.Name,
		Ansprechpartner: req.Ansprechpartner,
		Email:           req.Email,
		Telefon:         req.Telefon,
		Adresse:         req.Adresse,
		Notizen:         req.Notizen,
		Aktiv:           true,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
}

// Get returns one customer.
func (s *Service) Get(ctx context.Context, id int64) (*Kunde, error) {
	k, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if k == nil {
		return nil, ErrNotFound
	}
	return k, nil
}

// List returns customers matching the filter.
func (s *Service) List(ctx context.Context, req ListKundenRequest) ([]Kunde, error) {
	if req.Limit == 0 {
		req.Limit = 100
	}
	return s.repo.List(ctx, req)
}

// Update applies partial changes.
func (s *Service) Update(ctx context.Context, id int64, req UpdateKundeRequest) (*Kunde, error) {
	k, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		k.Name = *req.Name
	}
	if req.Ansprechpartner != nil {
		k.Ansprechpartner = req.Ansprechpartner
	}
	if req.Email != nil {
		k.Email = req.Email
	}
	if req.Telefon != nil {
		k.Telefon = req.Telefon
	}
	if req.Adresse != nil {
		k.Adresse = req.Adresse
	}
	if req.Notizen != nil {
		k.Notizen = req.Notizen
	}
	if req.Aktiv != nil {
		k.Aktiv = *req.Aktiv
	}
	k.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, *k); err != nil {
		return nil, err
	}
	return k, nil
}

// Deactivate marks a customer inactive instead of deleting history.
func (s *Service) Deactivate(ctx context.Context, id int64) (*Kunde, error) {
	inactive := false
	return s.Update(ctx, id, UpdateKundeRequest{Aktiv: &inactive})
}

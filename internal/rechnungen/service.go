package rechnungen

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrUebergangUngueltig occurs on a lifecycle transition that is not allowed.
	ErrUebergangUngueltig = errors.New("rechnungen: statusuebergang ungueltig")
	// ErrBetragFehlt occurs when a free-form invoice has no amount.
	ErrBetragFehlt = errors.New("rechnungen: betrag fehlt")
	// ErrAngebotNichtGefunden occurs when the referenced quotation is missing.
	ErrAngebotNichtGefunden = errors.New("rechnungen: angebot nicht gefunden")
)

// RepositoryPort defines data access methods for invoices.
type RepositoryPort interface {
	Create(ctx context.Context, re Rechnung) (*Rechnung, error)
	Get(ctx context.Context, id int64) (*Rechnung, error)
	Update(ctx context.Context, re Rechnung) error
	List(ctx context.Context, req ListRechnungenRequest) ([]Rechnung, error)
	ListOffenePosted(ctx context.Context) ([]Rechnung, error)
}

// AngebotQuelle resolves an accepted quotation's total so an invoice can
// be created from it. found is false when no such quotation exists.
type AngebotQuelle interface {
	AngebotSumme(ctx context.Context, angebotID int64) (summe float64, found bool, err error)
}

// Service handles invoice business logic.
type Service struct {
	repo     RepositoryPort
	angebote AngebotQuelle
	now      func() time.Time
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, angebote AngebotQuelle) *Service {
	return &Service{repo: repo, angebote: angebote, now: time.Now}
}

// Create stores a new draft invoice, free-form or from a quotation.
func (s *Service) Create(ctx context.Context, req CreateRechnungRequest) (*Rechnung, error) {
	betrag := req.Betrag
	if req.AngebotID != nil {
		summe, found, err := s.angebote.AngebotSumme(ctx, *req.AngebotID)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, ErrAngebotNichtGefunden
		}
		betrag = summe
	}
	if betrag <= 0 {
		return nil, ErrBetragFehlt
	}
	faelligkeit, err := parseDatum(req.Faelligkeit)
	if err != nil {
		return nil, err
	}
	now := s.now()
	return s.repo.Create(ctx, Rechnung{
		Nummer:      s.nummer(now),
		KundeID:     req.KundeID,
		ProjektID:   req.ProjektID,
		AngebotID:   req.AngebotID,
		Betreff:     req.Betreff,
		Betrag:      betrag,
		Status:      StatusEntwurf,
		Faelligkeit: faelligkeit,
		Notizen:     req.Notizen,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

// Get returns one invoice.
func (s *Service) Get(ctx context.Context, id int64) (*Rechnung, error) {
	re, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if re == nil {
		return nil, ErrNotFound
	}
	return re, nil
}

// List returns invoices matching the filter.
func (s *Service) List(ctx context.Context, req ListRechnungenRequest) ([]Rechnung, error) {
	if req.Limit == 0 {
		req.Limit = 100
	}
	return s.repo.List(ctx, req)
}

// Update applies partial changes; drafts and posted invoices only.
func (s *Service) Update(ctx context.Context, id int64, req UpdateRechnungRequest) (*Rechnung, error) {
	re, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if re.Status == StatusBezahlt || re.Status == StatusStorniert {
		return nil, fmt.Errorf("%w: %s ist nicht editierbar", ErrUebergangUngueltig, re.Status)
	}
	if req.Betreff != nil {
		re.Betreff = *req.Betreff
	}
	if req.Betrag != nil {
		if re.Status != StatusEntwurf {
			return nil, fmt.Errorf("%w: betrag nur im entwurf aenderbar", ErrUebergangUngueltig)
		}
		re.Betrag = *req.Betrag
	}
	if req.Faelligkeit != nil {
		faelligkeit, err := parseDatum(req.Faelligkeit)
		if err != nil {
			return nil, err
		}
		re.Faelligkeit = faelligkeit
	}
	if req.Mahnstufe != nil {
		re.Mahnstufe = *req.Mahnstufe
	}
	if req.Notizen != nil {
		re.Notizen = req.Notizen
	}
	re.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, *re); err != nil {
		return nil, err
	}
	return re, nil
}

// Post moves a draft to offen and stamps the issue date.
func (s *Service) Post(ctx context.Context, id int64) (*Rechnung, error) {
	re, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if re.Status != StatusEntwurf {
		return nil, fmt.Errorf("%w: %s -> offen", ErrUebergangUngueltig, re.Status)
	}
	now := s.now()
	re.Status = StatusOffen
	re.GestelltAm = &now
	if re.Faelligkeit == nil {
		due := now.AddDate(0, 0, 14)
		re.Faelligkeit = &due
	}
	re.UpdatedAt = now
	if err := s.repo.Update(ctx, *re); err != nil {
		return nil, err
	}
	return re, nil
}

// MarkPaid settles a posted invoice.
func (s *Service) MarkPaid(ctx context.Context, id int64) (*Rechnung, error) {
	re, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if re.Status != StatusOffen {
		return nil, fmt.Errorf("%w: %s -> bezahlt", ErrUebergangUngueltig, re.Status)
	}
	now := s.now()
	re.Status = StatusBezahlt
	re.BezahltAm = &now
	re.UpdatedAt = now
	if err := s.repo.Update(ctx, *re); err != nil {
		return nil, err
	}
	return re, nil
}

// Void cancels a draft or posted invoice.
func (s *Service) Void(ctx context.Context, id int64) (*Rechnung, error) {
	re, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if re.Status != StatusEntwurf && re.Status != StatusOffen {
		return nil, fmt.Errorf("%w: %s -> storniert", ErrUebergangUngueltig, re.Status)
	}
	re.Status = StatusStorniert
	re.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, *re); err != nil {
		return nil, err
	}
	return re, nil
}

// Aging groups open posted invoices by days overdue.
func (s *Service) Aging(ctx context.Context, asOf time.Time) (AgingBucket, error) {
	rechnungen, err := s.repo.ListOffenePosted(ctx)
	if err != nil {
		return AgingBucket{}, err
	}
	if asOf.IsZero() {
		asOf = s.now()
	}
	var bucket AgingBucket
	for _, re := range rechnungen {
		if re.Faelligkeit == nil {
			bucket.Current += re.Betrag
			continue
		}
		days := int(asOf.Sub(*re.Faelligkeit).Hours() / 24)
		switch {
		case days <= 0:
			bucket.Current += re.Betrag
		case days <= 30:
			bucket.Bucket30 += re.Betrag
		case days <= 60:
			bucket.Bucket60 += re.Betrag
		case days <= 90:
			bucket.Bucket90 += re.Betrag
		default:
			bucket.Bucket120 += re.Betrag
		}
	}
	return bucket, nil
}

// nummer formats the invoice number RE-<year>-<uuid8>.
func (s *Service) nummer(now time.Time) string {
	return fmt.Sprintf("RE-%d-%s", now.Year(), uuid.NewString()[:8])
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

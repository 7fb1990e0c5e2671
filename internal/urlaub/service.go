package urlaub

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	// ErrZeitraumUngueltig occurs when bis lies before von or no working
	// day falls into the range.
	ErrZeitraumUngueltig = errors.New("urlaub: zeitraum ungueltig")
	// ErrUebergangUngueltig occurs when deciding an already decided request.
	ErrUebergangUngueltig = errors.New("urlaub: antrag bereits entschieden")
	// ErrMitarbeiterNichtGefunden occurs when the employee is unknown.
	ErrMitarbeiterNichtGefunden = errors.New("urlaub: mitarbeiter nicht gefunden")
)

// RepositoryPort defines data access methods for vacation requests.
type RepositoryPort interface {
	Create(ctx context.Context, a Antrag) (*Antrag, error)
	Get(ctx context.Context, id int64) (*Antrag, error)
	UpdateStatus(ctx context.Context, a Antrag) error
	List(ctx context.Context, req ListAntraegeRequest) ([]Antrag, error)
	GenommeneTage(ctx context.Context, mitarbeiterID int64, jahr int) (float64, error)
}

// MitarbeiterQuelle resolves the entitlement data of an employee.
// found is false when the employee does not exist.
type MitarbeiterQuelle interface {
	UrlaubsStammdaten(ctx context.Context, mitarbeiterID int64) (urlaubstage float64, eintritt *time.Time, found bool, err error)
}

// Service handles vacation business logic.
type Service struct {
	repo        RepositoryPort
	mitarbeiter MitarbeiterQuelle
	now         func() time.Time
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, mitarbeiter MitarbeiterQuelle) *Service {
	return &Service{repo: repo, mitarbeiter: mitarbeiter, now: time.Now}
}

// Create stores a new vacation request in status beantragt.
func (s *Service) Create(ctx context.Context, req CreateAntragRequest) (*Antrag, error) {
	von, err := time.Parse("2006-01-02", req.Von)
	if err != nil {
		return nil, fmt.Errorf("parse von: %w", err)
	}
	bis, err := time.Parse("2006-01-02", req.Bis)
	if err != nil {
		return nil, fmt.Errorf("parse bis: %w", err)
	}
	if bis.Before(von) {
		return nil, fmt.Errorf("%w: bis vor von", ErrZeitraumUngueltig)
	}
	tage := Arbeitstage(von, bis)
	if tage == 0 {
		return nil, fmt.Errorf("%w: kein arbeitstag im zeitraum", ErrZeitraumUngueltig)
	}
	if _, _, found, err := s.mitarbeiter.UrlaubsStammdaten(ctx, req.MitarbeiterID); err != nil {
		return nil, err
	} else if !found {
		return nil, ErrMitarbeiterNichtGefunden
	}
	now := s.now()
	return s.repo.Create(ctx, Antrag{
		MitarbeiterID: req.MitarbeiterID,
		Von:           von,
		Bis:           bis,
		Tage:          tage,
		Status:        StatusBeantragt,
		Kommentar:     req.Kommentar,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
}

// Get returns one request.
func (s *Service) Get(ctx context.Context, id int64) (*Antrag, error) {
	a, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrNotFound
	}
	return a, nil
}

// List returns requests matching the filter.
func (s *Service) List(ctx context.Context, req ListAntraegeRequest) ([]Antrag, error) {
	if req.Limit == 0 {
		req.Limit = 100
	}
	return s.repo.List(ctx, req)
}

// Approve grants a pending request.
func (s *Service) Approve(ctx context.Context, id int64) (*Antrag, error) {
	return s.decide(ctx, id, StatusGenehmigt)
}

// Reject denies a pending request.
func (s *Service) Reject(ctx context.Context, id int64) (*Antrag, error) {
	return s.decide(ctx, id, StatusAbgelehnt)
}

func (s *Service) decide(ctx context.Context, id int64, to Status) (*Antrag, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Status != StatusBeantragt {
		return nil, fmt.Errorf("%w: %s", ErrUebergangUngueltig, a.Status)
	}
	a.Status = to
	a.UpdatedAt = s.now()
	if err := s.repo.UpdateStatus(ctx, *a); err != nil {
		return nil, err
	}
	return a, nil
}

// Bilanz computes the vacation balance of an employee for a year. The
// entitlement is pro-rated by month in the joining year.
func (s *Service) Bilanz(ctx context.Context, mitarbeiterID int64, jahr int) (*Bilanz, error) {
	if jahr == 0 {
		jahr = s.now().Year()
	}
	urlaubstage, eintritt, found, err := s.mitarbeiter.UrlaubsStammdaten(ctx, mitarbeiterID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrMitarbeiterNichtGefunden
	}
	genommen, err := s.repo.GenommeneTage(ctx, mitarbeiterID, jahr)
	if err != nil {
		return nil, err
	}
	anspruch := Anspruch(urlaubstage, eintritt, jahr)
	return &Bilanz{
		MitarbeiterID: mitarbeiterID,
		Jahr:          jahr,
		Anspruch:      anspruch,
		Genommen:      genommen,
		Verbleibend:   anspruch - genommen,
	}, nil
}

// Anspruch pro-rates the annual entitlement: full outside the joining
// year, by remaining months including the joining month inside it, and
// zero before the employee joined. Half days are kept.
func Anspruch(urlaubstage float64, eintritt *time.Time, jahr int) float64 {
	if eintritt == nil || eintritt.Year() < jahr {
		return urlaubstage
	}
	if eintritt.Year() > jahr {
		return 0
	}
	monate := 12 - int(eintritt.Month()) + 1
	return math.Round(urlaubstage*float64(monate)/12*2) / 2
}

// Arbeitstage counts Mon-Fri days in the inclusive range.
func Arbeitstage(von, bis time.Time) float64 {
	var tage float64
	for d := von; !d.After(bis); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			tage++
		}
	}
	return tage
}

package angebote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ruestwerk/ruestwerk-erp/internal/kalkulation"
)

var (
	// ErrUebergangUngueltig occurs on a lifecycle transition that is not allowed.
	ErrUebergangUngueltig = errors.New("angebote: statusuebergang ungueltig")
	// ErrNurEntwurfEditierbar occurs when editing a quotation past draft.
	ErrNurEntwurfEditierbar = errors.New("angebote: nur entwuerfe sind editierbar")
	// ErrKeinProjekt occurs when an accept wants to seed a budget but the
	// quotation is not linked to a project.
	ErrKeinProjekt = errors.New("angebote: kein projekt verknuepft")
)

// RepositoryPort defines data access methods for quotations.
type RepositoryPort interface {
	Create(ctx context.Context, a Angebot) (*Angebot, error)
	Get(ctx context.Context, id int64) (*Angebot, error)
	Update(ctx context.Context, a Angebot) error
	List(ctx context.Context, req ListAngeboteRequest) ([]Angebot, error)
}

// VorkalkulationSeeder lets an accepted quotation become the linked
// project's budget. Satisfied by the kalkulation service.
type VorkalkulationSeeder interface {
	SpeichereVorkalkulation(ctx context.Context, projektID int64, in kalkulation.VorkalkulationInput) (kalkulation.Vorkalkulation, error)
	Parameter(ctx context.Context) (kalkulation.KalkulationsParameter, error)
}

// Service handles quotation business logic.
type Service struct {
	repo   RepositoryPort
	seeder VorkalkulationSeeder
	now    func() time.Time
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, seeder VorkalkulationSeeder) *Service {
	return &Service{repo: repo, seeder: seeder, now: time.Now}
}

// Create stores a new draft quotation.
func (s *Service) Create(ctx context.Context, req CreateAngebotRequest) (*Angebot, error) {
	gueltigBis, err := parseDatum(req.GueltigBis)
	if err != nil {
		return nil, err
	}
	now := s.now()
	positionen := toPositionen(req.Positionen)
	return s.repo.Create(ctx, Angebot{
		Nummer:     s.nummer(now),
		KundeID:    req.KundeID,
		ProjektID:  req.ProjektID,
		Titel:      req.Titel,
		Positionen: positionen,
		Summe:      summe(positionen),
		Status:     StatusEntwurf,
		GueltigBis: gueltigBis,
		Notizen:    req.Notizen,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
}

// Get returns one quotation.
func (s *Service) Get(ctx context.Context, id int64) (*Angebot, error) {
	a, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrNotFound
	}
	return a, nil
}

// List returns quotations matching the filter.
func (s *Service) List(ctx context.Context, req ListAngeboteRequest) ([]Angebot, error) {
	if req.Limit == 0 {
		req.Limit = 100
	}
	return s.repo.List(ctx, req)
}

// Update applies partial changes; only drafts are editable.
func (s *Service) Update(ctx context.Context, id int64, req UpdateAngebotRequest) (*Angebot, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Status != StatusEntwurf {
		return nil, ErrNurEntwurfEditierbar
	}
	if req.Titel != nil {
		a.Titel = *req.Titel
	}
	if req.Positionen != nil {
		a.Positionen = toPositionen(req.Positionen)
		a.Summe = summe(a.Positionen)
	}
	if req.GueltigBis != nil {
		gueltigBis, err := parseDatum(req.GueltigBis)
		if err != nil {
			return nil, err
		}
		a.GueltigBis = gueltigBis
	}
	if req.Notizen != nil {
		a.Notizen = req.Notizen
	}
	a.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, *a); err != nil {
		return nil, err
	}
	return a, nil
}

// Send marks a draft as sent to the customer.
func (s *Service) Send(ctx context.Context, id int64) (*Angebot, error) {
	return s.transition(ctx, id, StatusVersendet, StatusEntwurf)
}

// Reject marks a sent quotation as rejected.
func (s *Service) Reject(ctx context.Context, id int64) (*Angebot, error) {
	return s.transition(ctx, id, StatusAbgelehnt, StatusVersendet)
}

// Accept marks a sent quotation as accepted and, when hour splits are
// provided, seeds the linked project's budget from it.
func (s *Service) Accept(ctx context.Context, id int64, req AcceptAngebotRequest) (*Angebot, error) {
	a, err := s.transition(ctx, id, StatusAngenommen, StatusVersendet)
	if err != nil {
		return nil, err
	}
	if req.SollStundenAufbau == nil && req.SollStundenAbbau == nil {
		return a, nil
	}
	if a.ProjektID == nil {
		return nil, ErrKeinProjekt
	}
	satz, err := s.stundensatz(ctx, req.Stundensatz)
	if err != nil {
		return nil, err
	}
	in := kalkulation.VorkalkulationInput{
		Stundensatz: satz,
		Quelle:      kalkulation.QuelleAngebot,
		AngebotID:   &a.ID,
		ErstelltVon: req.ErstelltVon,
	}
	if req.SollStundenAufbau != nil {
		in.SollStundenAufbau = *req.SollStundenAufbau
	}
	if req.SollStundenAbbau != nil {
		in.SollStundenAbbau = *req.SollStundenAbbau
	}
	if _, err := s.seeder.SpeichereVorkalkulation(ctx, *a.ProjektID, in); err != nil {
		return nil, fmt.Errorf("vorkalkulation aus angebot: %w", err)
	}
	return a, nil
}

// AngebotSumme resolves a quotation total for invoicing. found is false
// when the quotation does not exist.
func (s *Service) AngebotSumme(ctx context.Context, id int64) (float64, bool, error) {
	a, err := s.repo.Get(ctx, id)
	if err != nil {
		return 0, false, err
	}
	if a == nil {
		return 0, false, nil
	}
	return a.Summe, true, nil
}

func (s *Service) transition(ctx context.Context, id int64, to Status, allowedFrom Status) (*Angebot, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Status != allowedFrom {
		return nil, fmt.Errorf("%w: %s -> %s", ErrUebergangUngueltig, a.Status, to)
	}
	a.Status = to
	a.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, *a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) stundensatz(ctx context.Context, override *float64) (float64, error) {
	if override != nil {
		return *override, nil
	}
	params, err := s.seeder.Parameter(ctx)
	if err != nil {
		return 0, err
	}
	return params.StandardStundensatz, nil
}

// nummer formats the quotation number AG-<year>-<uuid8>.
func (s *Service) nummer(now time.Time) string {
	return fmt.Sprintf("AG-%d-%s", now.Year(), uuid.NewString()[:8])
}

func toPositionen(reqs []PositionRequest) []Position {
	positionen := make([]Position, 0, len(reqs))
	for _, p := range reqs {
		positionen = append(positionen, Position{
			Bezeichnung: p.Bezeichnung,
			Menge:       p.Menge,
			Einzelpreis: p.Einzelpreis,
		})
	}
	return positionen
}

func summe(positionen []Position) float64 {
	var total float64
	for _, p := range positionen {
		total += p.Summe()
	}
	return total
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

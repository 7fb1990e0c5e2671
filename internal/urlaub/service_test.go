package urlaub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type memoryAntragRepo struct {
	antraege map[int64]*Antrag
	nextID   int64
}

func newMemoryAntragRepo() *memoryAntragRepo {
	return &memoryAntragRepo{antraege: make(map[int64]*Antrag)}
}

func (r *memoryAntragRepo) Create(ctx context.Context, a Antrag) (*Antrag, error) {
	r.nextID++
	a.ID = r.nextID
	r.antraege[a.ID] = &a
	kopie := a
	return &kopie, nil
}

func (r *memoryAntragRepo) Get(ctx context.Context, id int64) (*Antrag, error) {
	a, ok := r.antraege[id]
	if !ok {
		return nil, nil
	}
	kopie := *a
	return &kopie, nil
}

func (r *memoryAntragRepo) UpdateStatus(ctx context.Context, a Antrag) error {
	if _, ok := r.antraege[a.ID]; !ok {
		return ErrNotFound
	}
	r.antraege[a.ID] = &a
	return nil
}

func (r *memoryAntragRepo) List(ctx context.Context, req ListAntraegeRequest) ([]Antrag, error) {
	var result []Antrag
	for _, a := range r.antraege {
		result = append(result, *a)
	}
	return result, nil
}

func (r *memoryAntragRepo) GenommeneTage(ctx context.Context, mitarbeiterID int64, jahr int) (float64, error) {
	var tage float64
	for _, a := range r.antraege {
		if a.MitarbeiterID == mitarbeiterID && a.Status == StatusGenehmigt && a.Von.Year() == jahr {
			tage += a.Tage
		}
	}
	return tage, nil
}

type staticMitarbeiterQuelle struct {
	urlaubstage float64
	eintritt    *time.Time
	found       bool
}

func (q staticMitarbeiterQuelle) UrlaubsStammdaten(ctx context.Context, mitarbeiterID int64) (float64, *time.Time, bool, error) {
	return q.urlaubstage, q.eintritt, q.found, nil
}

func TestArbeitstage(t *testing.T) {
	// Mon 2026-03-02 .. Fri 2026-03-06
	require.InDelta(t, 5, Arbeitstage(
		time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC)), 0.001)
	// Spanning a weekend: Fri .. Mon
	require.InDelta(t, 2, Arbeitstage(
		time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)), 0.001)
	// Weekend only
	require.Zero(t, Arbeitstage(
		time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)))
}

func TestAnspruchProRata(t *testing.T) {
	require.InDelta(t, 30, Anspruch(30, nil, 2026), 0.001)

	alt := time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC)
	require.InDelta(t, 30, Anspruch(30, &alt, 2026), 0.001)

	// Joined in July: 6 of 12 months remain.
	juli := time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC)
	require.InDelta(t, 15, Anspruch(30, &juli, 2026), 0.001)

	// Joined after the requested year.
	zukunft := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)
	require.Zero(t, Anspruch(30, &zukunft, 2026))

	// Odd month counts round to half days.
	nov := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	require.InDelta(t, 5, Anspruch(30, &nov, 2026), 0.001)
}

func TestCreateAntrag(t *testing.T) {
	svc := NewService(newMemoryAntragRepo(), staticMitarbeiterQuelle{urlaubstage: 30, found: true})

	a, err := svc.Create(context.Background(), CreateAntragRequest{
		MitarbeiterID: 1, Von: "2026-03-02", Bis: "2026-03-06",
	})
	require.NoError(t, err)
	require.Equal(t, StatusBeantragt, a.Status)
	require.InDelta(t, 5, a.Tage, 0.001)
}

func TestCreateAntragZeitraumUngueltig(t *testing.T) {
	svc := NewService(newMemoryAntragRepo(), staticMitarbeiterQuelle{urlaubstage: 30, found: true})

	_, err := svc.Create(context.Background(), CreateAntragRequest{
		MitarbeiterID: 1, Von: "2026-03-06", Bis: "2026-03-02",
	})
	require.ErrorIs(t, err, ErrZeitraumUngueltig)

	_, err = svc.Create(context.Background(), CreateAntragRequest{
		MitarbeiterID: 1, Von: "2026-03-07", Bis: "2026-03-08",
	})
	require.ErrorIs(t, err, ErrZeitraumUngueltig)
}

func TestCreateAntragUnbekannterMitarbeiter(t *testing.T) {
	svc := NewService(newMemoryAntragRepo(), staticMitarbeiterQuelle{})

	_, err := svc.Create(context.Background(), CreateAntragRequest{
		MitarbeiterID: 99, Von: "2026-03-02", Bis: "2026-03-06",
	})
	require.ErrorIs(t, err, ErrMitarbeiterNichtGefunden)
}

func TestApproveRejectLebenszyklus(t *testing.T) {
	repo := newMemoryAntragRepo()
	svc := NewService(repo, staticMitarbeiterQuelle{urlaubstage: 30, found: true})

	a, err := svc.Create(context.Background(), CreateAntragRequest{
		MitarbeiterID: 1, Von: "2026-03-02", Bis: "2026-03-06",
	})
	require.NoError(t, err)

	genehmigt, err := svc.Approve(context.Background(), a.ID)
	require.NoError(t, err)
	require.Equal(t, StatusGenehmigt, genehmigt.Status)

	// Already decided.
	_, err = svc.Reject(context.Background(), a.ID)
	require.ErrorIs(t, err, ErrUebergangUngueltig)
}

func TestBilanz(t *testing.T) {
	repo := newMemoryAntragRepo()
	svc := NewService(repo, staticMitarbeiterQuelle{urlaubstage: 30, found: true})

	a, err := svc.Create(context.Background(), CreateAntragRequest{
		MitarbeiterID: 1, Von: "2026-03-02", Bis: "2026-03-06",
	})
	require.NoError(t, err)
	_, err = svc.Approve(context.Background(), a.ID)
	require.NoError(t, err)

	// A pending request does not count yet.
	_, err = svc.Create(context.Background(), CreateAntragRequest{
		MitarbeiterID: 1, Von: "2026-06-01", Bis: "2026-06-05",
	})
	require.NoError(t, err)

	bilanz, err := svc.Bilanz(context.Background(), 1, 2026)
	require.NoError(t, err)
	require.InDelta(t, 30, bilanz.Anspruch, 0.001)
	require.InDelta(t, 5, bilanz.Genommen, 0.001)
	require.InDelta(t, 25, bilanz.Verbleibend, 0.001)
}

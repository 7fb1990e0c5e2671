package angebote

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ruestwerk/ruestwerk-erp/internal/kalkulation"
)

type memoryAngebotRepo struct {
	angebote map[int64]*Angebot
	nextID   int64
}

func newMemoryAngebotRepo() *memoryAngebotRepo {
	return &memoryAngebotRepo{angebote: make(map[int64]*Angebot)}
}

func (r *memoryAngebotRepo) Create(ctx context.Context, a Angebot) (*Angebot, error) {
	r.nextID++
	a.ID = r.nextID
	r.angebote[a.ID] = &a
	kopie := a
	return &kopie, nil
}

func (r *memoryAngebotRepo) Get(ctx context.Context, id int64) (*Angebot, error) {
	a, ok := r.angebote[id]
	if !ok {
		return nil, nil
	}
	kopie := *a
	return &kopie, nil
}

func (r *memoryAngebotRepo) Update(ctx context.Context, a Angebot) error {
	if _, ok := r.angebote[a.ID]; !ok {
		return ErrNotFound
	}
	r.angebote[a.ID] = &a
	return nil
}

func (r *memoryAngebotRepo) List(ctx context.Context, req ListAngeboteRequest) ([]Angebot, error) {
	var result []Angebot
	for _, a := range r.angebote {
		result = append(result, *a)
	}
	return result, nil
}

type fakeSeeder struct {
	gespeichert map[int64]kalkulation.VorkalkulationInput
}

func newFakeSeeder() *fakeSeeder {
	return &fakeSeeder{gespeichert: make(map[int64]kalkulation.VorkalkulationInput)}
}

func (s *fakeSeeder) SpeichereVorkalkulation(ctx context.Context, projektID int64, in kalkulation.VorkalkulationInput) (kalkulation.Vorkalkulation, error) {
	if err := in.Validate(); err != nil {
		return kalkulation.Vorkalkulation{}, err
	}
	s.gespeichert[projektID] = in
	return kalkulation.Vorkalkulation{}, nil
}

func (s *fakeSeeder) Parameter(ctx context.Context) (kalkulation.KalkulationsParameter, error) {
	return kalkulation.DefaultParameter(), nil
}

func TestCreateBerechnetSummeUndNummer(t *testing.T) {
	svc := NewService(newMemoryAngebotRepo(), newFakeSeeder())

	a, err := svc.Create(context.Background(), CreateAngebotRequest{
		KundeID: 1,
		Titel:   "Fassadengeruest Nordseite",
		Positionen: []PositionRequest{
			{Bezeichnung: "Aufbau", Menge: 100, Einzelpreis: 40},
			{Bezeichnung: "Standzeit", Menge: 4, Einzelpreis: 250},
		},
	})
	require.NoError(t, err)
	require.Equal(t, StatusEntwurf, a.Status)
	require.InDelta(t, 5000, a.Summe, 0.001)
	require.True(t, strings.HasPrefix(a.Nummer, "AG-"))
	require.Len(t, strings.Split(a.Nummer, "-"), 3)
}

func TestUpdateNurImEntwurf(t *testing.T) {
	svc := NewService(newMemoryAngebotRepo(), newFakeSeeder())

	a, err := svc.Create(context.Background(), CreateAngebotRequest{
		KundeID:    1,
		Titel:      "Geruest",
		Positionen: []PositionRequest{{Bezeichnung: "Aufbau", Menge: 1, Einzelpreis: 100}},
	})
	require.NoError(t, err)

	_, err = svc.Send(context.Background(), a.ID)
	require.NoError(t, err)

	titel := "Neuer Titel"
	_, err = svc.Update(context.Background(), a.ID, UpdateAngebotRequest{Titel: &titel})
	require.ErrorIs(t, err, ErrNurEntwurfEditierbar)
}

func TestLebenszyklus(t *testing.T) {
	svc := NewService(newMemoryAngebotRepo(), newFakeSeeder())

	a, err := svc.Create(context.Background(), CreateAngebotRequest{
		KundeID:    1,
		Titel:      "Geruest",
		Positionen: []PositionRequest{{Bezeichnung: "Aufbau", Menge: 1, Einzelpreis: 100}},
	})
	require.NoError(t, err)

	// Accepting a draft directly is not allowed.
	_, err = svc.Accept(context.Background(), a.ID, AcceptAngebotRequest{})
	require.ErrorIs(t, err, ErrUebergangUngueltig)

	versendet, err := svc.Send(context.Background(), a.ID)
	require.NoError(t, err)
	require.Equal(t, StatusVersendet, versendet.Status)

	angenommen, err := svc.Accept(context.Background(), a.ID, AcceptAngebotRequest{})
	require.NoError(t, err)
	require.Equal(t, StatusAngenommen, angenommen.Status)

	_, err = svc.Reject(context.Background(), a.ID)
	require.ErrorIs(t, err, ErrUebergangUngueltig)
}

func TestAcceptSeedetVorkalkulation(t *testing.T) {
	seeder := newFakeSeeder()
	svc := NewService(newMemoryAngebotRepo(), seeder)

	projektID := int64(7)
	a, err := svc.Create(context.Background(), CreateAngebotRequest{
		KundeID:    1,
		ProjektID:  &projektID,
		Titel:      "Geruest",
		Positionen: []PositionRequest{{Bezeichnung: "Aufbau", Menge: 100, Einzelpreis: 40}},
	})
	require.NoError(t, err)
	_, err = svc.Send(context.Background(), a.ID)
	require.NoError(t, err)

	aufbau, abbau := 100.0, 50.0
	_, err = svc.Accept(context.Background(), a.ID, AcceptAngebotRequest{
		SollStundenAufbau: &aufbau,
		SollStundenAbbau:  &abbau,
	})
	require.NoError(t, err)

	in, ok := seeder.gespeichert[projektID]
	require.True(t, ok)
	require.InDelta(t, 100, in.SollStundenAufbau, 0.001)
	require.InDelta(t, 50, in.SollStundenAbbau, 0.001)
	// Default hourly rate comes from the active parameter set.
	require.InDelta(t, 72, in.Stundensatz, 0.001)
	require.Equal(t, kalkulation.QuelleAngebot, in.Quelle)
	require.NotNil(t, in.AngebotID)
	require.Equal(t, a.ID, *in.AngebotID)
}

func TestAcceptOhneProjektMitStunden(t *testing.T) {
	svc := NewService(newMemoryAngebotRepo(), newFakeSeeder())

	a, err := svc.Create(context.Background(), CreateAngebotRequest{
		KundeID:    1,
		Titel:      "Geruest",
		Positionen: []PositionRequest{{Bezeichnung: "Aufbau", Menge: 1, Einzelpreis: 100}},
	})
	require.NoError(t, err)
	_, err = svc.Send(context.Background(), a.ID)
	require.NoError(t, err)

	aufbau := 10.0
	_, err = svc.Accept(context.Background(), a.ID, AcceptAngebotRequest{SollStundenAufbau: &aufbau})
	require.ErrorIs(t, err, ErrKeinProjekt)
}

func TestAngebotSumme(t *testing.T) {
	svc := NewService(newMemoryAngebotRepo(), newFakeSeeder())

	a, err := svc.Create(context.Background(), CreateAngebotRequest{
		KundeID:    1,
		Titel:      "Geruest",
		Positionen: []PositionRequest{{Bezeichnung: "Aufbau", Menge: 2, Einzelpreis: 300}},
	})
	require.NoError(t, err)

	summe, found, err := svc.AngebotSumme(context.Background(), a.ID)
	require.NoError(t, err)
	require.True(t, found)
	require.InDelta(t, 600, summe, 0.001)

	_, found, err = svc.AngebotSumme(context.Background(), 999)
	require.NoError(t, err)
	require.False(t, found)
}

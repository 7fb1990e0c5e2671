package kalkulation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type memoryKalkulationRepo struct {
	vorkalkulationen map[int64]*Vorkalkulation
	nachkalkulation  map[int64]*Nachkalkulation
	verlauf          map[int64][]VerlaufEintrag
	parameter        *KalkulationsParameter
	eintraege        map[int64][]ZeitEintrag
	namen            map[int64]string
}

func newMemoryKalkulationRepo() *memoryKalkulationRepo {
	return &memoryKalkulationRepo{
		vorkalkulationen: make(map[int64]*Vorkalkulation),
		nachkalkulation:  make(map[int64]*Nachkalkulation),
		verlauf:          make(map[int64][]VerlaufEintrag),
		eintraege:        make(map[int64][]ZeitEintrag),
		namen:            map[int64]string{1: "Geruest Nord"},
	}
}

func (r *memoryKalkulationRepo) GetVorkalkulation(ctx context.Context, projektID int64) (*Vorkalkulation, error) {
	if _, ok := r.namen[projektID]; !ok {
		return nil, ErrProjektNichtGefunden
	}
	return r.vorkalkulationen[projektID], nil
}

func (r *memoryKalkulationRepo) SaveVorkalkulation(ctx context.Context, projektID int64, v Vorkalkulation) error {
	if _, ok := r.namen[projektID]; !ok {
		return ErrProjektNichtGefunden
	}
	r.vorkalkulationen[projektID] = &v
	return nil
}

func (r *memoryKalkulationRepo) GetNachkalkulation(ctx context.Context, projektID int64) (*Nachkalkulation, error) {
	if _, ok := r.namen[projektID]; !ok {
		return nil, ErrProjektNichtGefunden
	}
	return r.nachkalkulation[projektID], nil
}

func (r *memoryKalkulationRepo) SaveNachkalkulation(ctx context.Context, projektID int64, n Nachkalkulation, verlauf VerlaufEintrag) error {
	if _, ok := r.namen[projektID]; !ok {
		return ErrProjektNichtGefunden
	}
	r.nachkalkulation[projektID] = &n
	r.verlauf[projektID] = append(r.verlauf[projektID], verlauf)
	if len(r.verlauf[projektID]) > 100 {
		r.verlauf[projektID] = r.verlauf[projektID][len(r.verlauf[projektID])-100:]
	}
	return nil
}

func (r *memoryKalkulationRepo) GetParameter(ctx context.Context) (*KalkulationsParameter, error) {
	return r.parameter, nil
}

func (r *memoryKalkulationRepo) SaveParameter(ctx context.Context, p KalkulationsParameter) error {
	r.parameter = &p
	return nil
}

func (r *memoryKalkulationRepo) FreigegebeneEintraege(ctx context.Context, projektID int64) ([]ZeitEintrag, error) {
	return r.eintraege[projektID], nil
}

func (r *memoryKalkulationRepo) ProjekteMitVorkalkulation(ctx context.Context) ([]int64, error) {
	var ids []int64
	for id := range r.vorkalkulationen {
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *memoryKalkulationRepo) ProjektName(ctx context.Context, projektID int64) (string, error) {
	name, ok := r.namen[projektID]
	if !ok {
		return "", ErrProjektNichtGefunden
	}
	return name, nil
}

type fakeRecomputeQueue struct {
	enqueued []int64
	err      error
}

func (q *fakeRecomputeQueue) EnqueueRecompute(ctx context.Context, projektID int64) error {
	if q.err != nil {
		return q.err
	}
	q.enqueued = append(q.enqueued, projektID)
	return nil
}

func TestParameterDefaultsOhneGespeicherten(t *testing.T) {
	svc := NewService(ServiceConfig{Repo: newMemoryKalkulationRepo()})

	params, err := svc.Parameter(context.Background())
	require.NoError(t, err)
	require.InDelta(t, 72, params.StandardStundensatz, 0.001)
	require.InDelta(t, 60, params.Verteilungsfaktor.Aufbau, 0.001)
	require.InDelta(t, 40, params.Verteilungsfaktor.Abbau, 0.001)
	require.Equal(t, RundungKaufmaennisch, params.Rundungsregel)
}

func TestSetParameterValidiert(t *testing.T) {
	repo := newMemoryKalkulationRepo()
	svc := NewService(ServiceConfig{Repo: repo})

	bad := DefaultParameter()
	bad.Verteilungsfaktor = Verteilungsfaktor{Aufbau: 80, Abbau: 30}
	require.ErrorIs(t, svc.SetParameter(context.Background(), bad), ErrParameterUngueltig)
	require.Nil(t, repo.parameter)

	good := DefaultParameter()
	good.StandardStundensatz = 85
	require.NoError(t, svc.SetParameter(context.Background(), good))
	require.NotNil(t, repo.parameter)
	require.InDelta(t, 85, repo.parameter.StandardStundensatz, 0.001)
	require.False(t, repo.parameter.ZuletztGeaendert.IsZero())
}

func TestSpeichereVorkalkulationBerechnetAbgeleiteteFelder(t *testing.T) {
	repo := newMemoryKalkulationRepo()
	queue := &fakeRecomputeQueue{}
	svc := NewService(ServiceConfig{Repo: repo, Queue: queue})

	v, err := svc.SpeichereVorkalkulation(context.Background(), 1, VorkalkulationInput{
		SollStundenAufbau: 100,
		SollStundenAbbau:  50,
		Stundensatz:       40,
	})
	require.NoError(t, err)
	require.InDelta(t, 4000, v.SollUmsatzAufbau, 0.001)
	require.InDelta(t, 2000, v.SollUmsatzAbbau, 0.001)
	require.InDelta(t, 150, v.GesamtSollStunden, 0.001)
	require.InDelta(t, 6000, v.GesamtSollUmsatz, 0.001)
	require.Equal(t, QuelleManuell, v.Quelle)
	require.Equal(t, []int64{1}, queue.enqueued)
}

func TestSpeichereVorkalkulationUngueltig(t *testing.T) {
	svc := NewService(ServiceConfig{Repo: newMemoryKalkulationRepo()})

	_, err := svc.SpeichereVorkalkulation(context.Background(), 1, VorkalkulationInput{
		SollStundenAufbau: -1,
		Stundensatz:       40,
	})
	require.ErrorIs(t, err, ErrVorkalkulationUngueltig)

	_, err = svc.SpeichereVorkalkulation(context.Background(), 1, VorkalkulationInput{
		SollStundenAufbau: 10,
		Stundensatz:       0,
	})
	require.ErrorIs(t, err, ErrVorkalkulationUngueltig)
}

func TestBerechneNachkalkulationOhneVorkalkulation(t *testing.T) {
	repo := newMemoryKalkulationRepo()
	svc := NewService(ServiceConfig{Repo: repo})

	_, err := svc.BerechneNachkalkulation(context.Background(), 1)
	require.ErrorIs(t, err, ErrVorkalkulationFehlt)
	require.Nil(t, repo.nachkalkulation[1])
	require.Empty(t, repo.verlauf[1])
}

func TestBerechneNachkalkulationSchreibtSnapshotUndVerlauf(t *testing.T) {
	repo := newMemoryKalkulationRepo()
	repo.eintraege[1] = []ZeitEintrag{
		{MitarbeiterID: 1, MitarbeiterName: "Anna", Stunden: 110, Taetigkeitstyp: TaetigkeitAufbau},
		{MitarbeiterID: 2, MitarbeiterName: "Bernd", Stunden: 45, Taetigkeitstyp: TaetigkeitAbbau},
	}
	svc := NewService(ServiceConfig{Repo: repo})

	_, err := svc.SpeichereVorkalkulation(context.Background(), 1, VorkalkulationInput{
		SollStundenAufbau: 100,
		SollStundenAbbau:  50,
		Stundensatz:       40,
	})
	require.NoError(t, err)

	nach, err := svc.BerechneNachkalkulation(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, StatusImPlan, nach.Status)
	require.InDelta(t, 102, nach.AbweichungUmsatzProzent, 0.001)

	require.NotNil(t, repo.nachkalkulation[1])
	require.Len(t, repo.verlauf[1], 1)
	require.InDelta(t, 6200, repo.verlauf[1][0].IstUmsatzGesamt, 0.001)
}

func TestBerechneNachkalkulationIdempotent(t *testing.T) {
	repo := newMemoryKalkulationRepo()
	repo.eintraege[1] = []ZeitEintrag{
		{MitarbeiterID: 1, MitarbeiterName: "Anna", Stunden: 42, Taetigkeitstyp: TaetigkeitAufbau},
	}
	svc := NewService(ServiceConfig{Repo: repo})
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC) }

	_, err := svc.SpeichereVorkalkulation(context.Background(), 1, VorkalkulationInput{
		SollStundenAufbau: 40,
		Stundensatz:       72,
	})
	require.NoError(t, err)

	erste, err := svc.BerechneNachkalkulation(context.Background(), 1)
	require.NoError(t, err)
	zweite, err := svc.BerechneNachkalkulation(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, erste, zweite)
	require.Len(t, repo.verlauf[1], 2)
}

func TestEnqueueRecomputeVerschlucktFehler(t *testing.T) {
	repo := newMemoryKalkulationRepo()
	queue := &fakeRecomputeQueue{err: context.DeadlineExceeded}
	svc := NewService(ServiceConfig{Repo: repo, Queue: queue})

	// Queue failure must not fail the budget save.
	_, err := svc.SpeichereVorkalkulation(context.Background(), 1, VorkalkulationInput{
		SollStundenAufbau: 10,
		Stundensatz:       40,
	})
	require.NoError(t, err)
}

func TestResyncAlle(t *testing.T) {
	repo := newMemoryKalkulationRepo()
	repo.namen[2] = "Geruest Sued"
	queue := &fakeRecomputeQueue{}
	svc := NewService(ServiceConfig{Repo: repo, Queue: queue})

	for _, id := range []int64{1, 2} {
		_, err := svc.SpeichereVorkalkulation(context.Background(), id, VorkalkulationInput{
			SollStundenAufbau: 10,
			Stundensatz:       40,
		})
		require.NoError(t, err)
	}
	queue.enqueued = nil

	count, err := svc.ResyncAlle(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, count)
	require.ElementsMatch(t, []int64{1, 2}, queue.enqueued)
}

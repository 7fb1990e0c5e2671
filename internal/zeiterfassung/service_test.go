package zeiterfassung

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type memoryEintragRepo struct {
	eintraege map[int64]*Eintrag
	nextID    int64
}

func newMemoryEintragRepo() *memoryEintragRepo {
	return &memoryEintragRepo{eintraege: make(map[int64]*Eintrag)}
}

func (r *memoryEintragRepo) Create(ctx context.Context, e Eintrag) (*Eintrag, error) {
	r.nextID++
	e.ID = r.nextID
	r.eintraege[e.ID] = &e
	kopie := e
	return &kopie, nil
}

func (r *memoryEintragRepo) Get(ctx context.Context, id int64) (*Eintrag, error) {
	e, ok := r.eintraege[id]
	if !ok {
		return nil, nil
	}
	kopie := *e
	return &kopie, nil
}

func (r *memoryEintragRepo) Update(ctx context.Context, e Eintrag) error {
	if _, ok := r.eintraege[e.ID]; !ok {
		return ErrNotFound
	}
	r.eintraege[e.ID] = &e
	return nil
}

func (r *memoryEintragRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.eintraege[id]; !ok {
		return ErrNotFound
	}
	delete(r.eintraege, id)
	return nil
}

func (r *memoryEintragRepo) List(ctx context.Context, req ListEintraegeRequest) ([]Eintrag, error) {
	var result []Eintrag
	for _, e := range r.eintraege {
		result = append(result, *e)
	}
	return result, nil
}

type fakeQueue struct {
	enqueued []int64
	err      error
}

func (q *fakeQueue) EnqueueRecompute(ctx context.Context, projektID int64) error {
	if q.err != nil {
		return q.err
	}
	q.enqueued = append(q.enqueued, projektID)
	return nil
}

func TestCreateOffenTriggertNicht(t *testing.T) {
	queue := &fakeQueue{}
	svc := NewService(newMemoryEintragRepo(), queue, nil)

	e, err := svc.Create(context.Background(), CreateEintragRequest{
		MitarbeiterID: 1, ProjektID: 7, Datum: "2026-03-02", Stunden: 8, Taetigkeitstyp: TypAufbau,
	})
	require.NoError(t, err)
	require.Equal(t, StatusOffen, e.Status)
	require.Empty(t, queue.enqueued)
}

func TestCreateFreigegebenTriggert(t *testing.T) {
	queue := &fakeQueue{}
	svc := NewService(newMemoryEintragRepo(), queue, nil)

	e, err := svc.Create(context.Background(), CreateEintragRequest{
		MitarbeiterID: 1, ProjektID: 7, Datum: "2026-03-02", Stunden: 8,
		Taetigkeitstyp: TypAufbau, Status: string(StatusFreigegeben),
	})
	require.NoError(t, err)
	require.Equal(t, StatusFreigegeben, e.Status)
	require.Equal(t, []int64{7}, queue.enqueued)
}

func TestFreigebenTriggertEinmal(t *testing.T) {
	queue := &fakeQueue{}
	svc := NewService(newMemoryEintragRepo(), queue, nil)

	e, err := svc.Create(context.Background(), CreateEintragRequest{
		MitarbeiterID: 1, ProjektID: 7, Datum: "2026-03-02", Stunden: 8, Taetigkeitstyp: TypAufbau,
	})
	require.NoError(t, err)

	_, err = svc.Freigeben(context.Background(), e.ID)
	require.NoError(t, err)
	require.Equal(t, []int64{7}, queue.enqueued)

	// Approving again is a no-op.
	_, err = svc.Freigeben(context.Background(), e.ID)
	require.NoError(t, err)
	require.Equal(t, []int64{7}, queue.enqueued)
}

func TestZuruecksetzenTriggert(t *testing.T) {
	queue := &fakeQueue{}
	svc := NewService(newMemoryEintragRepo(), queue, nil)

	e, err := svc.Create(context.Background(), CreateEintragRequest{
		MitarbeiterID: 1, ProjektID: 7, Datum: "2026-03-02", Stunden: 8,
		Taetigkeitstyp: TypAbbau, Status: string(StatusFreigegeben),
	})
	require.NoError(t, err)
	queue.enqueued = nil

	zurueck, err := svc.Zuruecksetzen(context.Background(), e.ID)
	require.NoError(t, err)
	require.Equal(t, StatusOffen, zurueck.Status)
	require.Equal(t, []int64{7}, queue.enqueued)
}

func TestUpdateOffenerEintragTriggertNicht(t *testing.T) {
	queue := &fakeQueue{}
	svc := NewService(newMemoryEintragRepo(), queue, nil)

	e, err := svc.Create(context.Background(), CreateEintragRequest{
		MitarbeiterID: 1, ProjektID: 7, Datum: "2026-03-02", Stunden: 8, Taetigkeitstyp: TypAufbau,
	})
	require.NoError(t, err)

	neueStunden := 6.5
	_, err = svc.Update(context.Background(), e.ID, UpdateEintragRequest{Stunden: &neueStunden})
	require.NoError(t, err)
	require.Empty(t, queue.enqueued)
}

func TestUpdateFreigegebenerEintragTriggert(t *testing.T) {
	queue := &fakeQueue{}
	svc := NewService(newMemoryEintragRepo(), queue, nil)

	e, err := svc.Create(context.Background(), CreateEintragRequest{
		MitarbeiterID: 1, ProjektID: 7, Datum: "2026-03-02", Stunden: 8,
		Taetigkeitstyp: TypAufbau, Status: string(StatusFreigegeben),
	})
	require.NoError(t, err)
	queue.enqueued = nil

	neueStunden := 9.0
	_, err = svc.Update(context.Background(), e.ID, UpdateEintragRequest{Stunden: &neueStunden})
	require.NoError(t, err)
	require.Equal(t, []int64{7}, queue.enqueued)
}

func TestUpdateProjektwechselTriggertBeideProjekte(t *testing.T) {
	queue := &fakeQueue{}
	svc := NewService(newMemoryEintragRepo(), queue, nil)

	e, err := svc.Create(context.Background(), CreateEintragRequest{
		MitarbeiterID: 1, ProjektID: 7, Datum: "2026-03-02", Stunden: 8,
		Taetigkeitstyp: TypAufbau, Status: string(StatusFreigegeben),
	})
	require.NoError(t, err)
	queue.enqueued = nil

	neuesProjekt := int64(9)
	_, err = svc.Update(context.Background(), e.ID, UpdateEintragRequest{ProjektID: &neuesProjekt})
	require.NoError(t, err)
	require.ElementsMatch(t, []int64{7, 9}, queue.enqueued)
}

func TestDeleteFreigegebenerEintragTriggert(t *testing.T) {
	queue := &fakeQueue{}
	svc := NewService(newMemoryEintragRepo(), queue, nil)

	e, err := svc.Create(context.Background(), CreateEintragRequest{
		MitarbeiterID: 1, ProjektID: 7, Datum: "2026-03-02", Stunden: 8,
		Taetigkeitstyp: TypAbbau, Status: string(StatusFreigegeben),
	})
	require.NoError(t, err)
	queue.enqueued = nil

	require.NoError(t, svc.Delete(context.Background(), e.ID))
	require.Equal(t, []int64{7}, queue.enqueued)

	require.ErrorIs(t, svc.Delete(context.Background(), e.ID), ErrNotFound)
}

func TestQueueFehlerVerschluckt(t *testing.T) {
	queue := &fakeQueue{err: context.DeadlineExceeded}
	svc := NewService(newMemoryEintragRepo(), queue, nil)

	// The mutation succeeds even when the queue is down.
	e, err := svc.Create(context.Background(), CreateEintragRequest{
		MitarbeiterID: 1, ProjektID: 7, Datum: "2026-03-02", Stunden: 8,
		Taetigkeitstyp: TypAufbau, Status: string(StatusFreigegeben),
	})
	require.NoError(t, err)
	require.NotNil(t, e)
}

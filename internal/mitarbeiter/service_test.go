package mitarbeiter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type memoryMitarbeiterRepo struct {
	mitarbeiter map[int64]*Mitarbeiter
	nextID      int64
}

func newMemoryMitarbeiterRepo() *memoryMitarbeiterRepo {
	return &memoryMitarbeiterRepo{mitarbeiter: make(map[int64]*Mitarbeiter)}
}

func (r *memoryMitarbeiterRepo) Create(ctx context.Context, m Mitarbeiter) (*Mitarbeiter, error) {
	for _, other := range r.mitarbeiter {
		if other.Email == m.Email {
			return nil, ErrDuplicateEmail
		}
	}
	r.nextID++
	m.ID = r.nextID
	r.mitarbeiter[m.ID] = &m
	kopie := m
	return &kopie, nil
}

func (r *memoryMitarbeiterRepo) Get(ctx context.Context, id int64) (*Mitarbeiter, error) {
	m, ok := r.mitarbeiter[id]
	if !ok {
		return nil, nil
	}
	kopie := *m
	return &kopie, nil
}

func (r *memoryMitarbeiterRepo) Update(ctx context.Context, m Mitarbeiter) error {
	if _, ok := r.mitarbeiter[m.ID]; !ok {
		return ErrNotFound
	}
	r.mitarbeiter[m.ID] = &m
	return nil
}

func (r *memoryMitarbeiterRepo) List(ctx context.Context, req ListMitarbeiterRequest) ([]Mitarbeiter, error) {
	var result []Mitarbeiter
	for _, m := range r.mitarbeiter {
		result = append(result, *m)
	}
	return result, nil
}

func TestCreateHashtPasswort(t *testing.T) {
	svc := NewService(newMemoryMitarbeiterRepo())

	m, err := svc.Create(context.Background(), CreateMitarbeiterRequest{
		Name:     "Anna Albers",
		Email:    "anna@ruestwerk.de",
		Password: "streng-geheim",
	})
	require.NoError(t, err)
	require.NotEqual(t, "streng-geheim", m.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(m.PasswordHash), []byte("streng-geheim")))
	require.True(t, m.Aktiv)
	// Default annual entitlement.
	require.InDelta(t, 30, m.Urlaubstage, 0.001)
}

func TestCreateDoppelteEmail(t *testing.T) {
	svc := NewService(newMemoryMitarbeiterRepo())

	_, err := svc.Create(context.Background(), CreateMitarbeiterRequest{
		Name: "Anna", Email: "anna@ruestwerk.de", Password: "streng-geheim",
	})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateMitarbeiterRequest{
		Name: "Anders", Email: "anna@ruestwerk.de", Password: "streng-geheim",
	})
	require.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestDeactivate(t *testing.T) {
	svc := NewService(newMemoryMitarbeiterRepo())

	m, err := svc.Create(context.Background(), CreateMitarbeiterRequest{
		Name: "Anna", Email: "anna@ruestwerk.de", Password: "streng-geheim",
	})
	require.NoError(t, err)

	inaktiv, err := svc.Deactivate(context.Background(), m.ID)
	require.NoError(t, err)
	require.False(t, inaktiv.Aktiv)
}

func TestUrlaubsStammdaten(t *testing.T) {
	svc := NewService(newMemoryMitarbeiterRepo())

	eintritt := "2026-07-15"
	m, err := svc.Create(context.Background(), CreateMitarbeiterRequest{
		Name: "Anna", Email: "anna@ruestwerk.de", Password: "streng-geheim",
		Urlaubstage: 28, Eintrittsdatum: &eintritt,
	})
	require.NoError(t, err)

	tage, datum, found, err := svc.UrlaubsStammdaten(context.Background(), m.ID)
	require.NoError(t, err)
	require.True(t, found)
	require.InDelta(t, 28, tage, 0.001)
	require.NotNil(t, datum)
	require.Equal(t, 2026, datum.Year())

	_, _, found, err = svc.UrlaubsStammdaten(context.Background(), 99)
	require.NoError(t, err)
	require.False(t, found)
}

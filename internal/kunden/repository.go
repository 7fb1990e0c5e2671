package kunden

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound occurs when a customer is missing.
	ErrNotFound = errors.New("kunden: nicht gefunden")
	// ErrDuplicateEmail occurs when the email is already taken.
	ErrDuplicateEmail = errors.New("kunden: email bereits vergeben")
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const kundeColumns = `id, name, ansprechpartner, email, telefon, adresse, notizen, aktiv, created_at, updated_at`

// Create inserts a customer.
func (r *Repository) Create(ctx context.Context, k Kunde) (*Kunde, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO kunden (name, ansprechpartner, email, telefon, adresse, notizen, aktiv, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`,
		k.Name, k.Ansprechpartner, k.Email, k.Telefon, k.Adresse, k.Notizen, k.Aktiv, k.CreatedAt, k.UpdatedAt).
		Scan(&k.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.ConstraintName == "uq_kunden_email" {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return &k, nil
}

// Get returns one customer; nil when missing.
func (r *Repository) Get(ctx context.Context, id int64) (*Kunde, error) {
	var k Kunde
	err := r.pool.QueryRow(ctx, `SELECT `+kundeColumns+` FROM kunden WHERE id = $1`, id).
		Scan(&k.ID, &k.Name, &k.Ansprechpartner, &k.Email, &k.Telefon, &k.Adresse, &k.Notizen, &k.Aktiv, &k.CreatedAt, &k.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &k, nil
}

// Update replaces mutable fields.
func (r *Repository) Update(ctx context.Context, k Kunde) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE kunden
		SET name = $2, ansprechpartner = $3, email = $4, telefon = $5, adresse = $6, notizen = $7, aktiv = $8, updated_at = $9
		WHERE id = $1`,
		k.ID, k.Name, k.Ansprechpartner, k.Email, k.Telefon, k.Adresse, k.Notizen, k.Aktiv, k.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.ConstraintName == "uq_kunden_email" {
			return ErrDuplicateEmail
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns customers matching the filter.
func (r *Repository) List(ctx context.Context, req ListKundenRequest) ([]Kunde, error) {
	query := `SELECT ` + kundeColumns + ` FROM kunden WHERE 1=1`
	args := []any{}
	idx := 1
	if req.Aktiv != nil {
		query += ` AND aktiv = $` + strconv.Itoa(idx)
		args = append(args, *req.Aktiv)
		idx++
	}
	if req.Search != nil && *req.Search != "" {
		query += ` AND name ILIKE $` + strconv.Itoa(idx)
		args = append(args, "%"+*req.Search+"%")
		idx++
	}
	query += fmt.Sprintf(` ORDER BY name LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, req.Limit, req.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var kunden []Kunde
	for rows.Next() {
		var k Kunde
		if err := rows.Scan(&k.ID, &k.Name, &k.Ansprechpartner, &k.Email, &k.Telefon, &k.Adresse, &k.Notizen, &k.Aktiv, &k.CreatedAt, &k.UpdatedAt); err != nil {
			return nil, err
		}
		kunden = append(kunden, k)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return kunden, nil
}

package angebote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound occurs when a quotation is missing.
var ErrNotFound = errors.New("angebote: nicht gefunden")

// Repository provides PostgreSQL backed persistence. Line items are a
// JSONB column replaced wholesale on every write.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const angebotColumns = `id, nummer, kunde_id, projekt_id, titel, positionen, summe, status, gueltig_bis, notizen, created_at, updated_at`

// Create inserts a quotation.
func (r *Repository) Create(ctx context.Context, a Angebot) (*Angebot, error) {
	raw, err := json.Marshal(a.Positionen)
	if err != nil {
		return nil, err
	}
	err = r.pool.QueryRow(ctx, `
		INSERT INTO angebote (nummer, kunde_id, projekt_id, titel, positionen, summe, status, gueltig_bis, notizen, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`,
		a.Nummer, a.KundeID, a.ProjektID, a.Titel, raw, a.Summe, a.Status, a.GueltigBis, a.Notizen, a.CreatedAt, a.UpdatedAt).
		Scan(&a.ID)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Get returns one quotation; nil when missing.
func (r *Repository) Get(ctx context.Context, id int64) (*Angebot, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+angebotColumns+` FROM angebote WHERE id = $1`, id)
	a, err := scanAngebot(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Update replaces mutable fields.
func (r *Repository) Update(ctx context.Context, a Angebot) error {
	raw, err := json.Marshal(a.Positionen)
	if err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE angebote
		SET titel = $2, positionen = $3, summe = $4, status = $5, gueltig_bis = $6, notizen = $7, updated_at = $8
		WHERE id = $1`,
		a.ID, a.Titel, raw, a.Summe, a.Status, a.GueltigBis, a.Notizen, a.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns quotations matching the filter.
func (r *Repository) List(ctx context.Context, req ListAngeboteRequest) ([]Angebot, error) {
	query := `SELECT ` + angebotColumns + ` FROM angebote WHERE 1=1`
	args := []any{}
	idx := 1
	if req.KundeID != nil {
		query += ` AND kunde_id = $` + strconv.Itoa(idx)
		args = append(args, *req.KundeID)
		idx++
	}
	if req.Status != nil {
		query += ` AND status = $` + strconv.Itoa(idx)
		args = append(args, *req.Status)
		idx++
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, req.Limit, req.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var angebote []Angebot
	for rows.Next() {
		a, err := scanAngebot(rows)
		if err != nil {
			return nil, err
		}
		angebote = append(angebote, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return angebote, nil
}

func scanAngebot(row pgx.Row) (*Angebot, error) {
	var (
		a   Angebot
		raw []byte
	)
	if err := row.Scan(&a.ID, &a.Nummer, &a.KundeID, &a.ProjektID, &a.Titel, &raw, &a.Summe,
		&a.Status, &a.GueltigBis, &a.Notizen, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &a.Positionen); err != nil {
			return nil, fmt.Errorf("angebote: positionen dekodieren: %w", err)
		}
	}
	return &a, nil
}

package zeiterfassung

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a new time entry.
func (r *Repository) Create(ctx context.Context, e Eintrag) (*Eintrag, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO zeiterfassung (mitarbeiter_id, projekt_id, datum, stunden, taetigkeitstyp, bemerkung, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`,
		e.MitarbeiterID, e.ProjektID, e.Datum, e.Stunden, e.Taetigkeitstyp, e.Bemerkung, e.Status, e.CreatedAt, e.UpdatedAt).
		Scan(&e.ID)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Get returns one entry; nil when missing.
func (r *Repository) Get(ctx context.Context, id int64) (*Eintrag, error) {
	var e Eintrag
	err := r.pool.QueryRow(ctx, `
		SELECT id, mitarbeiter_id, projekt_id, datum, stunden, taetigkeitstyp, bemerkung, status, created_at, updated_at
		FROM zeiterfassung WHERE id = $1`, id).
		Scan(&e.ID, &e.MitarbeiterID, &e.ProjektID, &e.Datum, &e.Stunden, &e.Taetigkeitstyp, &e.Bemerkung, &e.Status, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Update replaces the full row.
func (r *Repository) Update(ctx context.Context, e Eintrag) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE zeiterfassung
		SET mitarbeiter_id = $2, projekt_id = $3, datum = $4, stunden = $5, taetigkeitstyp = $6, bemerkung = $7, status = $8, updated_at = $9
		WHERE id = $1`,
		e.ID, e.MitarbeiterID, e.ProjektID, e.Datum, e.Stunden, e.Taetigkeitstyp, e.Bemerkung, e.Status, e.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an entry.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM zeiterfassung WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns entries matching the filter, newest first.
func (r *Repository) List(ctx context.Context, req ListEintraegeRequest) ([]Eintrag, error) {
	query := `
		SELECT id, mitarbeiter_id, projekt_id, datum, stunden, taetigkeitstyp, bemerkung, status, created_at, updated_at
		FROM zeiterfassung WHERE 1=1`
	args := []any{}
	idx := 1
	if req.ProjektID > 0 {
		query += ` AND projekt_id = $` + strconv.Itoa(idx)
		args = append(args, req.ProjektID)
		idx++
	}
	if req.MitarbeiterID > 0 {
		query += ` AND mitarbeiter_id = $` + strconv.Itoa(idx)
		args = append(args, req.MitarbeiterID)
		idx++
	}
	if req.Status != "" {
		query += ` AND status = $` + strconv.Itoa(idx)
		args = append(args, req.Status)
		idx++
	}
	query += fmt.Sprintf(` ORDER BY datum DESC, id DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, req.Limit, req.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var eintraege []Eintrag
	for rows.Next() {
		var e Eintrag
		if err := rows.Scan(&e.ID, &e.MitarbeiterID, &e.ProjektID, &e.Datum, &e.Stunden, &e.Taetigkeitstyp, &e.Bemerkung, &e.Status, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		eintraege = append(eintraege, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return eintraege, nil
}

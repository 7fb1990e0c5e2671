package urlaub

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound occurs when a vacation request is missing.
var ErrNotFound = errors.New("urlaub: antrag nicht gefunden")

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const antragColumns = `id, mitarbeiter_id, von, bis, tage, status, kommentar, created_at, updated_at`

// Create inserts a vacation request.
func (r *Repository) Create(ctx context.Context, a Antrag) (*Antrag, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO urlaub (mitarbeiter_id, von, bis, tage, status, kommentar, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		a.MitarbeiterID, a.Von, a.Bis, a.Tage, a.Status, a.Kommentar, a.CreatedAt, a.UpdatedAt).
		Scan(&a.ID)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Get returns one request; nil when missing.
func (r *Repository) Get(ctx context.Context, id int64) (*Antrag, error) {
	var a Antrag
	err := r.pool.QueryRow(ctx, `SELECT `+antragColumns+` FROM urlaub WHERE id = $1`, id).
		Scan(&a.ID, &a.MitarbeiterID, &a.Von, &a.Bis, &a.Tage, &a.Status, &a.Kommentar, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// UpdateStatus moves a request through its lifecycle.
func (r *Repository) UpdateStatus(ctx context.Context, a Antrag) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE urlaub SET status = $2, updated_at = $3 WHERE id = $1`,
		a.ID, a.Status, a.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns requests matching the filter.
func (r *Repository) List(ctx context.Context, req ListAntraegeRequest) ([]Antrag, error) {
	query := `SELECT ` + antragColumns + ` FROM urlaub WHERE 1=1`
	args := []any{}
	idx := 1
	if req.MitarbeiterID != nil {
		query += ` AND mitarbeiter_id = $` + strconv.Itoa(idx)
		args = append(args, *req.MitarbeiterID)
		idx++
	}
	if req.Status != nil {
		query += ` AND status = $` + strconv.Itoa(idx)
		args = append(args, *req.Status)
		idx++
	}
	if req.Jahr != nil {
		query += ` AND EXTRACT(YEAR FROM von) = $` + strconv.Itoa(idx)
		args = append(args, *req.Jahr)
		idx++
	}
	query += fmt.Sprintf(` ORDER BY von DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, req.Limit, req.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var antraege []Antrag
	for rows.Next() {
		var a Antrag
		if err := rows.Scan(&a.ID, &a.MitarbeiterID, &a.Von, &a.Bis, &a.Tage, &a.Status, &a.Kommentar, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		antraege = append(antraege, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return antraege, nil
}

// GenommeneTage sums approved vacation days of one employee in a year.
func (r *Repository) GenommeneTage(ctx context.Context, mitarbeiterID int64, jahr int) (float64, error) {
	var tage float64
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(tage), 0) FROM urlaub
		WHERE mitarbeiter_id = $1 AND status = 'genehmigt' AND EXTRACT(YEAR FROM von) = $2`,
		mitarbeiterID, jahr).Scan(&tage)
	return tage, err
}

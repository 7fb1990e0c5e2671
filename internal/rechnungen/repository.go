package rechnungen

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound occurs when an invoice is missing.
var ErrNotFound = errors.New("rechnungen: nicht gefunden")

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const rechnungColumns = `id, nummer, kunde_id, projekt_id, angebot_id, betreff, betrag, status, faelligkeit, gestellt_am, bezahlt_am, mahnstufe, notizen, created_at, updated_at`

// Create inserts an invoice.
func (r *Repository) Create(ctx context.Context, re Rechnung) (*Rechnung, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO rechnungen (nummer, kunde_id, projekt_id, angebot_id, betreff, betrag, status, faelligkeit, gestellt_am, bezahlt_am, mahnstufe, notizen, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14) RETURNING id`,
		re.Nummer, re.KundeID, re.ProjektID, re.AngebotID, re.Betreff, re.Betrag, re.Status,
		re.Faelligkeit, re.GestelltAm, re.BezahltAm, re.Mahnstufe, re.Notizen, re.CreatedAt, re.UpdatedAt).
		Scan(&re.ID)
	if err != nil {
		return nil, err
	}
	return &re, nil
}

// Get returns one invoice; nil when missing.
func (r *Repository) Get(ctx context.Context, id int64) (*Rechnung, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+rechnungColumns+` FROM rechnungen WHERE id = $1`, id)
	re, err := scanRechnung(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return re, nil
}

// Update replaces mutable fields.
func (r *Repository) Update(ctx context.Context, re Rechnung) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE rechnungen
		SET betreff = $2, betrag = $3, status = $4, faelligkeit = $5, gestellt_am = $6, bezahlt_am = $7, mahnstufe = $8, notizen = $9, updated_at = $10
		WHERE id = $1`,
		re.ID, re.Betreff, re.Betrag, re.Status, re.Faelligkeit, re.GestelltAm, re.BezahltAm, re.Mahnstufe, re.Notizen, re.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns invoices matching the filter.
func (r *Repository) List(ctx context.Context, req ListRechnungenRequest) ([]Rechnung, error) {
	query := `SELECT ` + rechnungColumns + ` FROM rechnungen WHERE 1=1`
	args := []any{}
	idx := 1
	if req.KundeID != nil {
		query += ` AND kunde_id = $` + strconv.Itoa(idx)
		args = append(args, *req.KundeID)
		idx++
	}
	if req.ProjektID != nil {
		query += ` AND projekt_id = $` + strconv.Itoa(idx)
		args = append(args, *req.ProjektID)
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
	var rechnungen []Rechnung
	for rows.Next() {
		re, err := scanRechnung(rows)
		if err != nil {
			return nil, err
		}
		rechnungen = append(rechnungen, *re)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return rechnungen, nil
}

// ListOffenePosted returns posted, unpaid invoices for the aging report.
func (r *Repository) ListOffenePosted(ctx context.Context) ([]Rechnung, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+rechnungColumns+` FROM rechnungen WHERE status = 'offen' ORDER BY faelligkeit NULLS LAST`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var rechnungen []Rechnung
	for rows.Next() {
		re, err := scanRechnung(rows)
		if err != nil {
			return nil, err
		}
		rechnungen = append(rechnungen, *re)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return rechnungen, nil
}

func scanRechnung(row pgx.Row) (*Rechnung, error) {
	var re Rechnung
	if err := row.Scan(&re.ID, &re.Nummer, &re.KundeID, &re.ProjektID, &re.AngebotID, &re.Betreff, &re.Betrag,
		&re.Status, &re.Faelligkeit, &re.GestelltAm, &re.BezahltAm, &re.Mahnstufe, &re.Notizen, &re.CreatedAt, &re.UpdatedAt); err != nil {
		return nil, err
	}
	return &re, nil
}

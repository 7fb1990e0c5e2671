package projekte

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ruestwerk/ruestwerk-erp/internal/kalkulation"
)

// ErrNotFound occurs when a project is missing.
var ErrNotFound = errors.New("projekte: nicht gefunden")

// Repository provides PostgreSQL backed persistence. The two embedded
// kalkulation documents are JSONB columns and read-only from here;
// writes go through the kalkulation repository.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const projektColumns = `id, name, kunde_id, adresse, baubeginn, bauende, status, mitarbeiter_ids, notizen, vorkalkulation, nachkalkulation, created_at, updated_at`

// Create inserts a project.
func (r *Repository) Create(ctx context.Context, p Projekt) (*Projekt, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO projekte (name, kunde_id, adresse, baubeginn, bauende, status, mitarbeiter_ids, notizen, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`,
		p.Name, p.KundeID, p.Adresse, p.Baubeginn, p.Bauende, p.Status, p.MitarbeiterIDs, p.Notizen, p.CreatedAt, p.UpdatedAt).
		Scan(&p.ID)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Get returns one project; nil when missing.
func (r *Repository) Get(ctx context.Context, id int64) (*Projekt, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+projektColumns+` FROM projekte WHERE id = $1`, id)
	p, err := scanProjekt(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Update replaces mutable fields; kalkulation columns are untouched.
func (r *Repository) Update(ctx context.Context, p Projekt) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE projekte
		SET name = $2, kunde_id = $3, adresse = $4, baubeginn = $5, bauende = $6, status = $7, mitarbeiter_ids = $8, notizen = $9, updated_at = $10
		WHERE id = $1`,
		p.ID, p.Name, p.KundeID, p.Adresse, p.Baubeginn, p.Bauende, p.Status, p.MitarbeiterIDs, p.Notizen, p.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns projects matching the filter.
func (r *Repository) List(ctx context.Context, req ListProjekteRequest) ([]Projekt, error) {
	query := `SELECT ` + projektColumns + ` FROM projekte WHERE 1=1`
	args := []any{}
	idx := 1
	if req.Status != nil {
		query += ` AND status = $` + strconv.Itoa(idx)
		args = append(args, *req.Status)
		idx++
	}
	if req.KundeID != nil {
		query += ` AND kunde_id = $` + strconv.Itoa(idx)
		args = append(args, *req.KundeID)
		idx++
	}
	if req.Search != nil && *req.Search != "" {
		query += ` AND name ILIKE $` + strconv.Itoa(idx)
		args = append(args, "%"+*req.Search+"%")
		idx++
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, req.Limit, req.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var projekte []Projekt
	for rows.Next() {
		p, err := scanProjekt(rows)
		if err != nil {
			return nil, err
		}
		projekte = append(projekte, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return projekte, nil
}

// StundenSummary aggregates the approved hours of one project by phase.
func (r *Repository) StundenSummary(ctx context.Context, projektID int64) (*StundenSummary, error) {
	var s StundenSummary
	err := r.pool.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(stunden) FILTER (WHERE taetigkeitstyp = 'abbau'), 0),
			COALESCE(SUM(stunden) FILTER (WHERE taetigkeitstyp IS DISTINCT FROM 'abbau'), 0),
			COUNT(*)
		FROM zeiterfassung
		WHERE projekt_id = $1 AND status = 'freigegeben'`, projektID).
		Scan(&s.StundenAbbau, &s.StundenAufbau, &s.Eintraege)
	if err != nil {
		return nil, err
	}
	s.StundenGesamt = s.StundenAufbau + s.StundenAbbau
	return &s, nil
}

func scanProjekt(row pgx.Row) (*Projekt, error) {
	var (
		p       Projekt
		rawVor  []byte
		rawNach []byte
	)
	if err := row.Scan(&p.ID, &p.Name, &p.KundeID, &p.Adresse, &p.Baubeginn, &p.Bauende, &p.Status,
		&p.MitarbeiterIDs, &p.Notizen, &rawVor, &rawNach, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if len(rawVor) > 0 {
		var v kalkulation.Vorkalkulation
		if err := json.Unmarshal(rawVor, &v); err != nil {
			return nil, fmt.Errorf("projekte: vorkalkulation dekodieren: %w", err)
		}
		p.Vorkalkulation = &v
	}
	if len(rawNach) > 0 {
		var n kalkulation.Nachkalkulation
		if err := json.Unmarshal(rawNach, &n); err != nil {
			return nil, fmt.Errorf("projekte: nachkalkulation dekodieren: %w", err)
		}
		p.Nachkalkulation = &n
	}
	return &p, nil
}

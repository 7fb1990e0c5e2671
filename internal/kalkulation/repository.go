package kalkulation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides PostgreSQL backed persistence. Vorkalkulation and
// Nachkalkulation live as JSONB columns on the projekte row and are
// always replaced wholesale, never patched field by field.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetVorkalkulation loads the budget of a project; nil when none is stored.
func (r *Repository) GetVorkalkulation(ctx context.Context, projektID int64) (*Vorkalkulation, error) {
	var raw []byte
	err := r.pool.QueryRow(ctx,
		`SELECT vorkalkulation FROM projekte WHERE id = $1`, projektID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProjektNichtGefunden
	}
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var v Vorkalkulation
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("kalkulation: vorkalkulation dekodieren: %w", err)
	}
	return &v, nil
}

// SaveVorkalkulation replaces the budget of a project.
func (r *Repository) SaveVorkalkulation(ctx context.Context, projektID int64, v Vorkalkulation) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE projekte SET vorkalkulation = $2, updated_at = now() WHERE id = $1`,
		projektID, raw)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProjektNichtGefunden
	}
	return nil
}

// GetNachkalkulation loads the current snapshot; nil when never computed.
func (r *Repository) GetNachkalkulation(ctx context.Context, projektID int64) (*Nachkalkulation, error) {
	var raw []byte
	err := r.pool.QueryRow(ctx,
		`SELECT nachkalkulation FROM projekte WHERE id = $1`, projektID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProjektNichtGefunden
	}
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var n Nachkalkulation
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, fmt.Errorf("kalkulation: nachkalkulation dekodieren: %w", err)
	}
	return &n, nil
}

// SaveNachkalkulation overwrites the snapshot and appends one history
// entry, keeping only the most recent 100 for trend charts.
func (r *Repository) SaveNachkalkulation(ctx context.Context, projektID int64, n Nachkalkulation, verlauf VerlaufEintrag) error {
	rawNach, err := json.Marshal(n)
	if err != nil {
		return err
	}
	rawVerlauf, err := json.Marshal([]VerlaufEintrag{verlauf})
	if err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE projekte SET
			nachkalkulation = $2,
			kalkulationsverlauf = (
				SELECT COALESCE(jsonb_agg(elem ORDER BY ord), '[]'::jsonb)
				FROM (
					SELECT elem, ord
					FROM jsonb_array_elements(COALESCE(kalkulationsverlauf, '[]'::jsonb) || $3::jsonb)
						WITH ORDINALITY AS t(elem, ord)
					ORDER BY ord DESC
					LIMIT 100
				) trimmed
			),
			updated_at = now()
		WHERE id = $1`,
		projektID, rawNach, rawVerlauf)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProjektNichtGefunden
	}
	return nil
}

// GetParameter loads the parameter singleton; nil when never stored.
func (r *Repository) GetParameter(ctx context.Context) (*KalkulationsParameter, error) {
	var raw []byte
	err := r.pool.QueryRow(ctx,
		`SELECT kalkulationsparameter FROM einstellungen WHERE id = 1`).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var p KalkulationsParameter
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("kalkulation: parameter dekodieren: %w", err)
	}
	return &p, nil
}

// SaveParameter upserts the parameter singleton atomically.
func (r *Repository) SaveParameter(ctx context.Context, p KalkulationsParameter) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO einstellungen (id, kalkulationsparameter) VALUES (1, $1)
		ON CONFLICT (id) DO UPDATE SET kalkulationsparameter = EXCLUDED.kalkulationsparameter`,
		raw)
	return err
}

// FreigegebeneEintraege returns approved time entries for the project.
// The status filter is hard: offen entries never contribute.
func (r *Repository) FreigegebeneEintraege(ctx context.Context, projektID int64) ([]ZeitEintrag, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT z.mitarbeiter_id, m.name, z.stunden, z.taetigkeitstyp
		FROM zeiterfassung z
		JOIN mitarbeiter m ON m.id = z.mitarbeiter_id
		WHERE z.projekt_id = $1 AND z.status = 'freigegeben'
		ORDER BY z.id`, projektID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var eintraege []ZeitEintrag
	for rows.Next() {
		var e ZeitEintrag
		if err := rows.Scan(&e.MitarbeiterID, &e.MitarbeiterName, &e.Stunden, &e.Taetigkeitstyp); err != nil {
			return nil, err
		}
		eintraege = append(eintraege, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return eintraege, nil
}

// ProjekteMitVorkalkulation lists ids of non-archived projects carrying a budget.
func (r *Repository) ProjekteMitVorkalkulation(ctx context.Context) ([]int64, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id FROM projekte
		WHERE vorkalkulation IS NOT NULL AND status <> 'abgeschlossen'
		ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// ProjektName resolves a project's display name.
func (r *Repository) ProjektName(ctx context.Context, projektID int64) (string, error) {
	var name string
	err := r.pool.QueryRow(ctx, `SELECT name FROM projekte WHERE id = $1`, projektID).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrProjektNichtGefunden
	}
	return name, err
}

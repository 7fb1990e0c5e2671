package mitarbeiter

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
	// ErrNotFound occurs when an employee is missing.
	ErrNotFound = errors.New("mitarbeiter: nicht gefunden")
	// ErrDuplicateEmail occurs when the email is already taken.
	ErrDuplicateEmail = errors.New("mitarbeiter: email bereits vergeben")
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const mitarbeiterColumns = `id, name, email, position, stundensatz, urlaubstage, eintrittsdatum, aktiv, password_hash, created_at, updated_at`

// Create inserts an employee.
func (r *Repository) Create(ctx context.Context, m Mitarbeiter) (*Mitarbeiter, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO mitarbeiter (name, email, position, stundensatz, urlaubstage, eintrittsdatum, aktiv, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`,
		m.Name, m.Email, m.Position, m.Stundensatz, m.Urlaubstage, m.Eintrittsdatum, m.Aktiv, m.PasswordHash, m.CreatedAt, m.UpdatedAt).
		Scan(&m.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.ConstraintName == "uq_mitarbeiter_email" {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return &m, nil
}

// Get returns one employee; nil when missing.
func (r *Repository) Get(ctx context.Context, id int64) (*Mitarbeiter, error) {
	var m Mitarbeiter
	err := r.pool.QueryRow(ctx, `SELECT `+mitarbeiterColumns+` FROM mitarbeiter WHERE id = $1`, id).
		Scan(&m.ID, &m.Name, &m.Email, &m.Position, &m.Stundensatz, &m.Urlaubstage, &m.Eintrittsdatum, &m.Aktiv, &m.PasswordHash, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Update replaces mutable fields.
func (r *Repository) Update(ctx context.Context, m Mitarbeiter) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE mitarbeiter
		SET name = $2, email = $3, position = $4, stundensatz = $5, urlaubstage = $6, eintrittsdatum = $7, aktiv = $8, updated_at = $9
		WHERE id = $1`,
		m.ID, m.Name, m.Email, m.Position, m.Stundensatz, m.Urlaubstage, m.Eintrittsdatum, m.Aktiv, m.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.ConstraintName == "uq_mitarbeiter_email" {
			return ErrDuplicateEmail
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns employees matching the filter.
func (r *Repository) List(ctx context.Context, req ListMitarbeiterRequest) ([]Mitarbeiter, error) {
	query := `SELECT ` + mitarbeiterColumns + ` FROM mitarbeiter WHERE 1=1`
	args := []any{}
	idx := 1
	if req.Aktiv != nil {
		query += ` AND aktiv = $` + strconv.Itoa(idx)
		args = append(args, *req.Aktiv)
		idx++
	}
	if req.Search != nil && *req.Search != "" {
		query += ` AND (name ILIKE $` + strconv.Itoa(idx) + ` OR email ILIKE $` + strconv.Itoa(idx) + `)`
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
	var mitarbeiter []Mitarbeiter
	for rows.Next() {
		var m Mitarbeiter
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Position, &m.Stundensatz, &m.Urlaubstage, &m.Eintrittsdatum, &m.Aktiv, &m.PasswordHash, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		mitarbeiter = append(mitarbeiter, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return mitarbeiter, nil
}

// Package repo contains all database access logic for the Benefits API.
// It holds SQL and row mapping only.
// Every query filters on deleted_at IS NULL, so soft-deleted rows are invisible.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/benefits-api/internal/domain"
)

// uniqueViolation is the Postgres SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Integration tests pass a transaction that is rolled back after each test.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// BenefitRepo defines the persistence operations for Benefits.
// The service layer depends on this interface, not the Postgres implementation.
type BenefitRepo interface {
	// Create inserts a new benefit and returns the persisted record (with
	// DB-generated id, created_at, and updated_at populated).
	// Returns domain.ErrDuplicateName if a live benefit already has the name.
	Create(ctx context.Context, b domain.Benefit) (domain.Benefit, error)

	// GetByID retrieves a live benefit by primary key.
	// Returns domain.ErrNotFound if it does not exist or was soft-deleted.
	GetByID(ctx context.Context, id int64) (domain.Benefit, error)

	// GetByName retrieves a live benefit by exact (case-sensitive) name.
	// Returns domain.ErrNotFound if none matches.
	GetByName(ctx context.Context, name string) (domain.Benefit, error)

	// List returns every live benefit ordered by id.
	List(ctx context.Context) ([]domain.Benefit, error)

	// ListPaged returns one page of live benefits ordered by id, plus the
	// total number of live benefits.
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Benefit, int64, error)

	// Update applies the non-nil fields of patch and refreshes updated_at.
	// patch.ClearDescription stores NULL in description.
	// Returns domain.ErrNotFound if the benefit does not exist or was soft-deleted,
	// domain.ErrDuplicateName if the new name collides with a live benefit.
	Update(ctx context.Context, id int64, patch domain.BenefitPatch) (domain.Benefit, error)

	// SoftDelete stamps deleted_at on a live benefit.
	// Returns domain.ErrNotFound if it does not exist or was already deleted.
	SoftDelete(ctx context.Context, id int64) error
}

// pgBenefitRepo is the Postgres implementation of BenefitRepo.
type pgBenefitRepo struct {
	db db
}

// NewBenefitRepo constructs a BenefitRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewBenefitRepo(db db) BenefitRepo {
	return &pgBenefitRepo{db: db}
}

const benefitColumns = `id, name, description, is_active, created_at, updated_at, deleted_at`

// Create inserts a new benefit row and returns the full persisted record.
func (r *pgBenefitRepo) Create(ctx context.Context, b domain.Benefit) (domain.Benefit, error) {
	const q = `
		INSERT INTO benefits (name, description, is_active)
		VALUES (@name, @description, @is_active)
		RETURNING ` + benefitColumns

	args := pgx.NamedArgs{
		"name":        b.Name,
		"description": b.Description, // nil becomes NULL
		"is_active":   b.IsActive,
	}

	result, err := scanBenefit(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Benefit{}, fmt.Errorf("repo.BenefitRepo.Create: %w", mapConstraintError(err))
	}
	return result, nil
}

// GetByID retrieves a live benefit by primary key.
func (r *pgBenefitRepo) GetByID(ctx context.Context, id int64) (domain.Benefit, error) {
	const q = `
		SELECT ` + benefitColumns + `
		FROM benefits
		WHERE id = @id AND deleted_at IS NULL`

	result, err := scanBenefit(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Benefit{}, fmt.Errorf("repo.BenefitRepo.GetByID: %w", err)
	}
	return result, nil
}

// GetByName retrieves a live benefit by exact name.
func (r *pgBenefitRepo) GetByName(ctx context.Context, name string) (domain.Benefit, error) {
	const q = `
		SELECT ` + benefitColumns + `
		FROM benefits
		WHERE name = @name AND deleted_at IS NULL`

	result, err := scanBenefit(r.db.QueryRow(ctx, q, pgx.NamedArgs{"name": name}))
	if err != nil {
		return domain.Benefit{}, fmt.Errorf("repo.BenefitRepo.GetByName: %w", err)
	}
	return result, nil
}

// List returns all live benefits ordered by id.
func (r *pgBenefitRepo) List(ctx context.Context) ([]domain.Benefit, error) {
	const q = `
		SELECT ` + benefitColumns + `
		FROM benefits
		WHERE deleted_at IS NULL
		ORDER BY id`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.BenefitRepo.List: %w", err)
	}
	benefits, err := collectBenefits(rows)
	if err != nil {
		return nil, fmt.Errorf("repo.BenefitRepo.List: %w", err)
	}
	return benefits, nil
}

// ListPaged returns one page of live benefits and the total live count.
// The count and the page are separate statements; under concurrent writes
// they may disagree by the rows changed in between.
func (r *pgBenefitRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Benefit, int64, error) {
	const countQ = `SELECT COUNT(*) FROM benefits WHERE deleted_at IS NULL`

	var total int64
	if err := r.db.QueryRow(ctx, countQ).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.BenefitRepo.ListPaged: count: %w", err)
	}

	const q = `
		SELECT ` + benefitColumns + `
		FROM benefits
		WHERE deleted_at IS NULL
		ORDER BY id
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"limit": p.Limit, "offset": p.Offset()})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.BenefitRepo.ListPaged: %w", err)
	}
	benefits, err := collectBenefits(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.BenefitRepo.ListPaged: %w", err)
	}
	return benefits, total, nil
}

// Update applies a partial patch. COALESCE keeps the current value for every
// field the patch leaves nil.
func (r *pgBenefitRepo) Update(ctx context.Context, id int64, patch domain.BenefitPatch) (domain.Benefit, error) {
	const q = `
		UPDATE benefits
		SET name        = COALESCE(@name, name),
		    description = CASE WHEN @clear_description::boolean THEN NULL
		                       ELSE COALESCE(@description, description) END,
		    is_active   = COALESCE(@is_active, is_active),
		    updated_at  = now()
		WHERE id = @id AND deleted_at IS NULL
		RETURNING ` + benefitColumns

	args := pgx.NamedArgs{
		"id":                id,
		"name":              patch.Name,
		"description":       patch.Description,
		"clear_description": patch.ClearDescription,
		"is_active":         patch.IsActive,
	}

	result, err := scanBenefit(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Benefit{}, fmt.Errorf("repo.BenefitRepo.Update: %w", mapConstraintError(err))
	}
	return result, nil
}

// SoftDelete marks a live benefit as deleted without removing the row.
func (r *pgBenefitRepo) SoftDelete(ctx context.Context, id int64) error {
	const q = `
		UPDATE benefits
		SET deleted_at = now(),
		    updated_at = now()
		WHERE id = @id AND deleted_at IS NULL`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.BenefitRepo.SoftDelete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.BenefitRepo.SoftDelete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scanBenefit to be
// reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanBenefit maps a single database row into a domain.Benefit.
func scanBenefit(s scanner) (domain.Benefit, error) {
	var (
		b           domain.Benefit
		description pgtype.Text
		deletedAt   pgtype.Timestamptz
	)

	err := s.Scan(&b.ID, &b.Name, &description, &b.IsActive, &b.CreatedAt, &b.UpdatedAt, &deletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Benefit{}, domain.ErrNotFound
		}
		return domain.Benefit{}, err
	}

	if description.Valid {
		d := description.String
		b.Description = &d
	}
	if deletedAt.Valid {
		t := deletedAt.Time
		b.DeletedAt = &t
	}
	return b, nil
}

// collectBenefits drains rows into a non-nil slice and closes them.
func collectBenefits(rows pgx.Rows) ([]domain.Benefit, error) {
	defer rows.Close()

	benefits := []domain.Benefit{}
	for rows.Next() {
		b, err := scanBenefit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		benefits = append(benefits, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return benefits, nil
}

// mapConstraintError translates a unique violation on the name index into
// domain.ErrDuplicateName. Other errors are returned unchanged.
func mapConstraintError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateName, pgErr.Detail)
	}
	return err
}

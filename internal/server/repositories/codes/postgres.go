package codes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/quickqr/internal/common"
	"github.com/dmitrijs2005/quickqr/internal/dbx"
	"github.com/dmitrijs2005/quickqr/internal/server/models"
)

const columns = `id, owner_id, name, type, content, styling, mode, scan_count, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCode(s scanner) (*models.Code, error) {
	c := &models.Code{}
	err := s.Scan(&c.ID, &c.OwnerID, &c.Name, &c.Type, &c.Content, &c.Styling,
		&c.Mode, &c.ScanCount, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *PostgresRepository) Create(ctx context.Context, code *models.Code) (*models.Code, error) {
	query :=
		`INSERT INTO codes (owner_id, name, type, content, styling, mode)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING ` + columns

	c, err := scanCode(r.db.QueryRowContext(ctx, query,
		code.OwnerID, code.Name, code.Type, code.Content, code.Styling, code.Mode))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Code, error) {
	query := `SELECT ` + columns + ` FROM codes WHERE id = $1`

	c, err := scanCode(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id string, p models.CodePatch) (*models.Code, error) {
	query :=
		`UPDATE codes SET
		   name = COALESCE($2, name),
		   type = COALESCE($3, type),
		   content = COALESCE($4, content),
		   styling = CASE WHEN $5 THEN $6 ELSE styling END,
		   updated_at = now()
		 WHERE id = $1
		 RETURNING ` + columns

	c, err := scanCode(r.db.QueryRowContext(ctx, query,
		id, p.Name, p.Type, p.Content, p.StylingSet, p.Styling))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM codes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.ExpectOne(res)
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Code, error) {
	query := `SELECT ` + columns + ` FROM codes WHERE owner_id = $1 ORDER BY updated_at DESC`
	return r.list(ctx, query, ownerID)
}

func (r *PostgresRepository) ListAll(ctx context.Context) ([]*models.Code, error) {
	query := `SELECT ` + columns + ` FROM codes ORDER BY updated_at DESC`
	return r.list(ctx, query)
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]*models.Code, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Code, 0)
	for rows.Next() {
		c, err := scanCode(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) IncrementScans(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE codes SET scan_count = scan_count + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.ExpectOne(res)
}

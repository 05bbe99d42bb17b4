package scans

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/quickqr/internal/dbx"
	"github.com/dmitrijs2005/quickqr/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, s *models.Scan) error {
	query :=
		`INSERT INTO scans (id, code_id, device, os, timezone, referrer, scanned_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 `
	_, err := r.db.ExecContext(ctx, query, s.ID, s.CodeID, s.Device, s.OS, s.Timezone, s.Referrer, s.ScannedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListByCode(ctx context.Context, codeID string) ([]*models.Scan, error) {
	query :=
		`SELECT id, code_id, device, os, timezone, referrer, scanned_at FROM scans
		 WHERE code_id = $1
		 ORDER BY scanned_at DESC
		 `
	rows, err := r.db.QueryContext(ctx, query, codeID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Scan, 0)
	for rows.Next() {
		s := &models.Scan{}
		if err := rows.Scan(&s.ID, &s.CodeID, &s.Device, &s.OS, &s.Timezone, &s.Referrer, &s.ScannedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

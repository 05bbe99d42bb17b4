package drafts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/quickqr/internal/client/models"
	"github.com/dmitrijs2005/quickqr/internal/common"
	"github.com/dmitrijs2005/quickqr/internal/dbx"
)

type SQLiteRepository struct {
	db  dbx.DBTX
	now func() time.Time
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db, now: time.Now}
}

func (r *SQLiteRepository) Save(ctx context.Context, d models.Draft) error {
	if d.Name == "" {
		return fmt.Errorf("save draft: %w: empty name", common.ErrValidation)
	}

	var styling any
	if d.Styling != nil {
		styling = string(d.Styling)
	}

	query := `
		INSERT INTO drafts (name, code_id, type, content, styling, mode, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			code_id = excluded.code_id,
			type = excluded.type,
			content = excluded.content,
			styling = excluded.styling,
			mode = excluded.mode,
			updated_at = excluded.updated_at
	`
	_, err := r.db.ExecContext(ctx, query,
		d.Name, d.CodeID, d.Type, string(d.Content), styling, d.Mode, r.now().UTC())
	if err != nil {
		return fmt.Errorf("save draft %q: %w", d.Name, err)
	}
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, name string) (models.Draft, error) {
	query := `SELECT name, code_id, type, content, styling, mode, updated_at FROM drafts WHERE name = ?`

	var (
		d       models.Draft
		content string
		styling sql.NullString
	)
	err := r.db.QueryRowContext(ctx, query, name).
		Scan(&d.Name, &d.CodeID, &d.Type, &content, &styling, &d.Mode, &d.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Draft{}, common.ErrNotFound
	}
	if err != nil {
		return models.Draft{}, fmt.Errorf("get draft %q: %w", name, err)
	}

	d.Content = []byte(content)
	if styling.Valid {
		d.Styling = []byte(styling.String)
	}
	return d, nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]models.Draft, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name, code_id, type, mode, updated_at FROM drafts ORDER BY updated_at DESC, name`)
	if err != nil {
		return nil, fmt.Errorf("list drafts: %w", err)
	}
	defer rows.Close()

	var result []models.Draft
	for rows.Next() {
		var d models.Draft
		if err := rows.Scan(&d.Name, &d.CodeID, &d.Type, &d.Mode, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan draft: %w", err)
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate drafts: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, name string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM drafts WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete draft %q: %w", name, err)
	}
	return dbx.ExpectOne(res)
}

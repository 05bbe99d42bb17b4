package drafts

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/quickqr/internal/client/migrations"
	"github.com/dmitrijs2005/quickqr/internal/client/models"
	"github.com/dmitrijs2005/quickqr/internal/common"
)

func setupRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	goose.SetBaseFS(migrations.Migrations)
	require.NoError(t, goose.SetDialect("sqlite3"))
	require.NoError(t, goose.Up(db, "."))

	return NewSQLiteRepository(db)
}

func TestSaveAndGet(t *testing.T) {
	r := setupRepo(t)
	ctx := context.Background()

	in := models.Draft{
		Name:    "flyer",
		Type:    "url",
		Content: []byte(`{"url":"https://example.com"}`),
		Styling: []byte(`{"width":300}`),
		Mode:    "dynamic",
	}
	require.NoError(t, r.Save(ctx, in))

	got, err := r.Get(ctx, "flyer")
	require.NoError(t, err)
	require.Equal(t, in.Name, got.Name)
	require.Equal(t, in.Type, got.Type)
	require.JSONEq(t, string(in.Content), string(got.Content))
	require.JSONEq(t, string(in.Styling), string(got.Styling))
	require.Equal(t, "dynamic", got.Mode)
	require.Empty(t, got.CodeID)
}

func TestSave_NilStylingStaysNil(t *testing.T) {
	r := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, models.Draft{Name: "plain", Type: "text", Content: []byte(`{"text":"hi"}`), Mode: "static"}))

	got, err := r.Get(ctx, "plain")
	require.NoError(t, err)
	require.Nil(t, got.Styling)
}

func TestSave_OverwritesByName(t *testing.T) {
	r := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, models.Draft{Name: "d", Type: "text", Content: []byte(`{"text":"a"}`), Mode: "static"}))
	require.NoError(t, r.Save(ctx, models.Draft{Name: "d", CodeID: "abc", Type: "url", Content: []byte(`{"url":"x"}`), Mode: "static"}))

	got, err := r.Get(ctx, "d")
	require.NoError(t, err)
	require.Equal(t, "abc", got.CodeID)
	require.Equal(t, "url", got.Type)

	list, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestSave_RequiresName(t *testing.T) {
	r := setupRepo(t)
	err := r.Save(context.Background(), models.Draft{Type: "text"})
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestList_NewestFirst(t *testing.T) {
	r := setupRepo(t)
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return base }
	require.NoError(t, r.Save(ctx, models.Draft{Name: "old", Type: "text", Content: []byte(`{}`), Mode: "static"}))
	r.now = func() time.Time { return base.Add(time.Hour) }
	require.NoError(t, r.Save(ctx, models.Draft{Name: "new", Type: "text", Content: []byte(`{}`), Mode: "static"}))

	list, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "new", list[0].Name)
	require.Equal(t, "old", list[1].Name)
	require.Nil(t, list[0].Content)
}

func TestGetAndDelete_Unknown(t *testing.T) {
	r := setupRepo(t)
	ctx := context.Background()

	_, err := r.Get(ctx, "nope")
	require.ErrorIs(t, err, common.ErrNotFound)
	require.ErrorIs(t, r.Delete(ctx, "nope"), common.ErrNotFound)
}

func TestDelete(t *testing.T) {
	r := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, models.Draft{Name: "gone", Type: "text", Content: []byte(`{}`), Mode: "static"}))
	require.NoError(t, r.Delete(ctx, "gone"))

	_, err := r.Get(ctx, "gone")
	require.ErrorIs(t, err, common.ErrNotFound)
}

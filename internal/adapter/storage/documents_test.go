package storage

import (
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/niksmo/misslily/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) (DocumentsRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	r := NewDocumentsRepository(db)
	r.now = func() time.Time {
		return time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	}
	r.newID = func() string { return "doc-1" }
	return r, mock
}

func TestDocumentsRepositoryAddDocument(t *testing.T) {
	t.Run("Regular", func(t *testing.T) {
		r, mock := newTestRepository(t)

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO documents")).
			WithArgs(
				"products", "doc-1", `{"name":"Red Dress"}`,
				time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC),
			).
			WillReturnResult(sqlmock.NewResult(0, 1))

		id, err := r.AddDocument(t.Context(), domain.Products, map[string]any{
			"name":      "Red Dress",
			"id":        "client-id",
			"createdAt": "ignored",
		})
		require.NoError(t, err)
		assert.Equal(t, "doc-1", id)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("UnknownCollection", func(t *testing.T) {
		r, mock := newTestRepository(t)

		_, err := r.AddDocument(t.Context(), domain.Collection("users"), nil)
		assert.ErrorIs(t, err, ErrInvalidQuery)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("StoreError", func(t *testing.T) {
		r, mock := newTestRepository(t)

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO documents")).
			WillReturnError(sql.ErrConnDone)

		_, err := r.AddDocument(t.Context(), domain.Categories, map[string]any{})
		assert.ErrorIs(t, err, sql.ErrConnDone)
	})
}

func TestDocumentsRepositorySetDocument(t *testing.T) {
	t.Run("Upsert", func(t *testing.T) {
		r, mock := newTestRepository(t)

		mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (collection, id)")).
			WithArgs(
				"instagramConfig", "main", `{"username":"misslily"}`,
				time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC),
			).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := r.SetDocument(t.Context(), domain.InstagramSettings, "main",
			map[string]any{"username": "misslily", "updatedAt": "ignored"})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("UnknownCollection", func(t *testing.T) {
		r, mock := newTestRepository(t)

		err := r.SetDocument(t.Context(), domain.Collection("users"), "main", nil)
		assert.ErrorIs(t, err, ErrInvalidQuery)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDocumentsRepositoryGetDocument(t *testing.T) {
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("Found", func(t *testing.T) {
		r, mock := newTestRepository(t)

		rows := sqlmock.NewRows([]string{"id", "data", "created_at", "updated_at"}).
			AddRow("p1", []byte(`{"name":"Blue Top","price":"500"}`), created, created)
		mock.ExpectQuery(regexp.QuoteMeta("FROM documents")).
			WithArgs("products", "p1").
			WillReturnRows(rows)

		d, err := r.GetDocument(t.Context(), domain.Products, "p1")
		require.NoError(t, err)
		assert.Equal(t, "p1", d.ID)
		assert.Equal(t, "Blue Top", d.Data["name"])
		assert.Equal(t, created, d.CreatedAt)

		p := domain.DecodeProduct(d)
		assert.Equal(t, "500", p.Price.String())
	})

	t.Run("Missing", func(t *testing.T) {
		r, mock := newTestRepository(t)

		mock.ExpectQuery(regexp.QuoteMeta("FROM documents")).
			WithArgs("products", "nope").
			WillReturnRows(sqlmock.NewRows(
				[]string{"id", "data", "created_at", "updated_at"},
			))

		_, err := r.GetDocument(t.Context(), domain.Products, "nope")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestDocumentsRepositoryQueryCollection(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("EqualsAndNameOrder", func(t *testing.T) {
		r, mock := newTestRepository(t)

		rows := sqlmock.NewRows([]string{"id", "data", "created_at", "updated_at"}).
			AddRow("p1", []byte(`{"name":"a"}`), now, now).
			AddRow("p2", []byte(`{"name":"b"}`), now, now)

		mock.ExpectQuery(regexp.QuoteMeta(
			"WHERE collection = $1 AND data @> $2::jsonb ORDER BY data->>$3 ASC, id ASC",
		)).
			WithArgs("products", `{"categoryId":"A","isActive":true}`, "name").
			WillReturnRows(rows)

		ds, err := r.QueryCollection(t.Context(), domain.Query{
			Collection: domain.Products,
			Equals:     map[string]any{"categoryId": "A", "isActive": true},
			OrderBy:    domain.OrderBy{Field: "name"},
		})
		require.NoError(t, err)
		require.Len(t, ds, 2)
		assert.Equal(t, "p1", ds[0].ID)
		assert.Equal(t, "p2", ds[1].ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NewestFirst", func(t *testing.T) {
		r, mock := newTestRepository(t)

		mock.ExpectQuery(regexp.QuoteMeta(
			"WHERE collection = $1 ORDER BY created_at DESC, id ASC",
		)).
			WithArgs("contactMessages").
			WillReturnRows(sqlmock.NewRows(
				[]string{"id", "data", "created_at", "updated_at"},
			))

		ds, err := r.QueryCollection(t.Context(), domain.Query{
			Collection: domain.ContactMessages,
			OrderBy:    domain.OrderBy{Field: "createdAt", Desc: true},
		})
		require.NoError(t, err)
		assert.NotNil(t, ds)
		assert.Empty(t, ds)
	})

	t.Run("RejectsUnsafeField", func(t *testing.T) {
		r, mock := newTestRepository(t)

		_, err := r.QueryCollection(t.Context(), domain.Query{
			Collection: domain.Products,
			OrderBy:    domain.OrderBy{Field: "name; DROP TABLE documents"},
		})
		assert.ErrorIs(t, err, ErrInvalidQuery)

		_, err = r.QueryCollection(t.Context(), domain.Query{
			Collection: domain.Products,
			Equals:     map[string]any{"a'b": 1},
		})
		assert.ErrorIs(t, err, ErrInvalidQuery)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDocumentsRepositoryUpdateDelete(t *testing.T) {
	t.Run("UpdateMergesPatch", func(t *testing.T) {
		r, mock := newTestRepository(t)

		mock.ExpectExec(regexp.QuoteMeta("SET data = data || $3::jsonb")).
			WithArgs(
				"categories", "c1", `{"isActive":false}`,
				time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC),
			).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := r.UpdateDocument(t.Context(), domain.Categories, "c1",
			map[string]any{"isActive": false})
		require.NoError(t, err)
	})

	t.Run("UpdateMissing", func(t *testing.T) {
		r, mock := newTestRepository(t)

		mock.ExpectExec(regexp.QuoteMeta("UPDATE documents")).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := r.UpdateDocument(t.Context(), domain.Categories, "c1",
			map[string]any{"isActive": false})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		r, mock := newTestRepository(t)

		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM documents")).
			WithArgs("products", "p1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, r.DeleteDocument(t.Context(), domain.Products, "p1"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

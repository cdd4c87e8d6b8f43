package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"spdocs/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

var documentCols = []string{
	"id", "title", "description", "document_type", "created_date",
	"modified_date", "created_by", "modified_by", "is_active", "file_path", "file_size",
}

func addDocumentRow(rows *sqlmock.Rows, id int64, title string, active bool, created time.Time) *sqlmock.Rows {
	return rows.AddRow(id, title, nil, "Spec", created, nil, "alice", nil, active, nil, nil)
}

func testDocument(title string, created time.Time) *model.Document {
	return &model.Document{
		Title:        title,
		DocumentType: "Spec",
		CreatedDate:  created,
		CreatedBy:    "alice",
		IsActive:     true,
	}
}

func TestDocumentPostgres_ListActive(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	rows := sqlmock.NewRows(documentCols)
	addDocumentRow(rows, 2, "newer", true, time.Now().UTC())
	addDocumentRow(rows, 1, "older", true, time.Now().UTC().Add(-time.Hour))

	mock.ExpectQuery("SELECT (.+) FROM documents WHERE is_active = TRUE ORDER BY created_date DESC").
		WillReturnRows(rows)

	docs, err := repo.ListActive(ctx)

	assert.NoError(t, err)
	assert.Len(t, docs, 2)
	assert.Equal(t, int64(2), docs[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_FindActiveByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows(documentCols)
		addDocumentRow(rows, 7, "found", true, time.Now())

		mock.ExpectQuery("SELECT (.+) FROM documents WHERE id = (.+) AND is_active = TRUE").
			WithArgs(int64(7)).
			WillReturnRows(rows)

		doc, err := repo.FindActiveByID(ctx, 7)

		assert.NoError(t, err)
		assert.NotNil(t, doc)
		assert.Equal(t, int64(7), doc.ID)
		assert.True(t, doc.IsActive)
	})

	t.Run("missing or inactive", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM documents WHERE id = (.+) AND is_active = TRUE").
			WithArgs(int64(99)).
			WillReturnError(sql.ErrNoRows)

		doc, err := repo.FindActiveByID(ctx, 99)

		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, doc)
	})
}

func TestDocumentPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	rows := sqlmock.NewRows(documentCols)
	addDocumentRow(rows, 1, "A", true, now)

	mock.ExpectQuery("INSERT INTO documents").
		WithArgs("A", nil, "Spec", now, "alice", true, nil, nil).
		WillReturnRows(rows)

	stored, err := repo.Create(ctx, testDocument("A", now))

	assert.NoError(t, err)
	assert.Equal(t, int64(1), stored.ID)
	assert.True(t, stored.IsActive)
	assert.Nil(t, stored.ModifiedDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	t.Run("replaces mutable fields", func(t *testing.T) {
		now := time.Now().UTC()
		doc := testDocument("B", now)
		doc.ID = 3
		by := "bob"
		doc.ModifiedBy = &by
		doc.ModifiedDate = &now

		rows := sqlmock.NewRows(documentCols).
			AddRow(int64(3), "B", nil, "Spec", now, now, "alice", "bob", true, nil, nil)

		mock.ExpectQuery("UPDATE documents").
			WithArgs("B", nil, "Spec", "bob", nil, nil, now, int64(3)).
			WillReturnRows(rows)

		stored, err := repo.Update(ctx, doc)

		assert.NoError(t, err)
		assert.Equal(t, "bob", *stored.ModifiedBy)
		assert.NotNil(t, stored.ModifiedDate)
	})

	t.Run("missing or inactive", func(t *testing.T) {
		now := time.Now().UTC()
		doc := testDocument("B", now)
		doc.ID = 99
		by := "bob"
		doc.ModifiedBy = &by
		doc.ModifiedDate = &now

		mock.ExpectQuery("UPDATE documents").
			WillReturnError(sql.ErrNoRows)

		stored, err := repo.Update(ctx, doc)

		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, stored)
	})
}

func TestDocumentPostgres_SoftDelete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()
	when := time.Now().UTC()

	t.Run("existing row matched", func(t *testing.T) {
		mock.ExpectExec("UPDATE documents SET is_active = FALSE").
			WithArgs(when, int64(5)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		ok, err := repo.SoftDelete(ctx, 5, when)

		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("missing row", func(t *testing.T) {
		mock.ExpectExec("UPDATE documents SET is_active = FALSE").
			WithArgs(when, int64(999)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		ok, err := repo.SoftDelete(ctx, 999, when)

		assert.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestDocumentPostgres_ListByType(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	rows := sqlmock.NewRows(documentCols)
	addDocumentRow(rows, 1, "spec doc", true, time.Now())

	mock.ExpectQuery("SELECT (.+) FROM get_documents_by_type").
		WithArgs("Spec").
		WillReturnRows(rows)

	docs, err := repo.ListByType(ctx, "Spec")

	assert.NoError(t, err)
	assert.Len(t, docs, 1)
	assert.Equal(t, "Spec", docs[0].DocumentType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_ListByUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT (.+) FROM get_documents_by_user").
		WithArgs("nobody").
		WillReturnRows(sqlmock.NewRows(documentCols))

	docs, err := repo.ListByUser(ctx, "nobody")

	assert.NoError(t, err)
	assert.NotNil(t, docs)
	assert.Empty(t, docs)
}

func TestDocumentPostgres_SetActive(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	t.Run("existing id", func(t *testing.T) {
		mock.ExpectQuery("SELECT activate_deactivate_document").
			WithArgs(int64(4), true).
			WillReturnRows(sqlmock.NewRows([]string{"activate_deactivate_document"}).AddRow(1))

		affected, err := repo.SetActive(ctx, 4, true)

		assert.NoError(t, err)
		assert.Equal(t, int64(1), affected)
	})

	t.Run("missing id reports zero rows", func(t *testing.T) {
		mock.ExpectQuery("SELECT activate_deactivate_document").
			WithArgs(int64(999), false).
			WillReturnRows(sqlmock.NewRows([]string{"activate_deactivate_document"}).AddRow(0))

		affected, err := repo.SetActive(ctx, 999, false)

		assert.NoError(t, err)
		assert.Zero(t, affected)
	})
}

func TestDocumentPostgres_NextCategoryCode(t *testing.T) {
	ctx := context.Background()

	newRepo := func(t *testing.T) (*DocumentPostgres, sqlmock.Sqlmock, func()) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
		}
		return NewDocumentPostgres(db), mock, func() { db.Close() }
	}

	t.Run("minted code", func(t *testing.T) {
		repo, mock, cleanup := newRepo(t)
		defer cleanup()

		mock.ExpectQuery("SELECT get_next_category_code").
			WithArgs("Math").
			WillReturnRows(sqlmock.NewRows([]string{"get_next_category_code"}).AddRow("MAT-0001"))

		code, err := repo.NextCategoryCode(ctx, "Math")

		assert.NoError(t, err)
		assert.Equal(t, "MAT-0001", code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("null output maps to empty string", func(t *testing.T) {
		repo, mock, cleanup := newRepo(t)
		defer cleanup()

		mock.ExpectQuery("SELECT get_next_category_code").
			WithArgs("Math").
			WillReturnRows(sqlmock.NewRows([]string{"get_next_category_code"}).AddRow(nil))

		code, err := repo.NextCategoryCode(ctx, "Math")

		assert.NoError(t, err)
		assert.Empty(t, code)
	})

	t.Run("no row maps to empty string", func(t *testing.T) {
		repo, mock, cleanup := newRepo(t)
		defer cleanup()

		mock.ExpectQuery("SELECT get_next_category_code").
			WithArgs("Math").
			WillReturnError(sql.ErrNoRows)

		code, err := repo.NextCategoryCode(ctx, "Math")

		assert.NoError(t, err)
		assert.Empty(t, code)
	})
}

func TestDocumentPostgres_UpdateFilePath(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()

	rows := sqlmock.NewRows(documentCols).
		AddRow(int64(2), "A", nil, "Spec", now, now, "alice", nil, true, "documents/abc.pdf", int64(2048))

	mock.ExpectQuery("UPDATE documents SET file_path = (.+)").
		WithArgs("documents/abc.pdf", int64(2048), now, int64(2)).
		WillReturnRows(rows)

	doc, err := repo.UpdateFilePath(ctx, 2, "documents/abc.pdf", 2048, now)

	assert.NoError(t, err)
	assert.Equal(t, "documents/abc.pdf", *doc.FilePath)
	assert.Equal(t, int64(2048), *doc.FileSize)
	assert.NoError(t, mock.ExpectationsWereMet())
}

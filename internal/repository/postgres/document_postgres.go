package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"spdocs/internal/model"
	"spdocs/internal/repository"
)

// documentColumns is the scan order shared by every query in this file.
const documentColumns = `id, title, description, document_type, created_date, modified_date, created_by, modified_by, is_active, file_path, file_size`

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized statements; the filtered reads,
// the activation toggle and code generation go through server-side routines.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*model.Document, error) {
	var d model.Document
	if err := row.Scan(
		&d.ID,
		&d.Title,
		&d.Description,
		&d.DocumentType,
		&d.CreatedDate,
		&d.ModifiedDate,
		&d.CreatedBy,
		&d.ModifiedBy,
		&d.IsActive,
		&d.FilePath,
		&d.FileSize,
	); err != nil {
		return nil, err
	}
	return &d, nil
}

func collectDocuments(rows *sql.Rows) ([]model.Document, error) {
	defer rows.Close()
	items := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// ListActive returns active documents ordered newest first.
func (r *DocumentPostgres) ListActive(ctx context.Context) ([]model.Document, error) {
	const q = `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE is_active = TRUE
		ORDER BY created_date DESC
	`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	return collectDocuments(rows)
}

// FindActiveByID fetches a single active document. A soft-deleted row is
// indistinguishable from a missing one here: both surface sql.ErrNoRows.
func (r *DocumentPostgres) FindActiveByID(ctx context.Context, id int64) (*model.Document, error) {
	const q = `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE id = $1 AND is_active = TRUE
	`
	return scanDocument(r.db.QueryRowContext(ctx, q, id))
}

// Create inserts a new row and returns it with the generated id.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	const q = `
		INSERT INTO documents (title, description, document_type, created_date, created_by, is_active, file_path, file_size)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + documentColumns + `
	`
	row := r.db.QueryRowContext(ctx, q,
		doc.Title,
		doc.Description,
		doc.DocumentType,
		doc.CreatedDate,
		doc.CreatedBy,
		doc.IsActive,
		doc.FilePath,
		doc.FileSize,
	)
	return scanDocument(row)
}

// Update replaces the mutable fields of an active row. Missing or
// inactive ids surface sql.ErrNoRows via the empty RETURNING set.
func (r *DocumentPostgres) Update(ctx context.Context, doc *model.Document) (*model.Document, error) {
	const q = `
		UPDATE documents
		SET title = $1, description = $2, document_type = $3, modified_by = $4,
		    file_path = $5, file_size = $6, modified_date = $7
		WHERE id = $8 AND is_active = TRUE
		RETURNING ` + documentColumns + `
	`
	row := r.db.QueryRowContext(ctx, q,
		doc.Title,
		doc.Description,
		doc.DocumentType,
		doc.ModifiedBy,
		doc.FilePath,
		doc.FileSize,
		doc.ModifiedDate,
		doc.ID,
	)
	return scanDocument(row)
}

// SoftDelete clears the active flag on the row with the given id. The
// flag write is idempotent: an already-inactive row still counts as
// matched as long as the id exists.
func (r *DocumentPostgres) SoftDelete(ctx context.Context, id int64, when time.Time) (bool, error) {
	const q = `
		UPDATE documents
		SET is_active = FALSE, modified_date = $1
		WHERE id = $2
	`
	res, err := r.db.ExecContext(ctx, q, when, id)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// ListByType returns whatever rows the get_documents_by_type routine
// yields, mapped through the shared scan path.
func (r *DocumentPostgres) ListByType(ctx context.Context, documentType string) ([]model.Document, error) {
	const q = `SELECT ` + documentColumns + ` FROM get_documents_by_type($1)`
	rows, err := r.db.QueryContext(ctx, q, documentType)
	if err != nil {
		return nil, err
	}
	return collectDocuments(rows)
}

// ListByUser returns whatever rows the get_documents_by_user routine yields.
func (r *DocumentPostgres) ListByUser(ctx context.Context, userName string) ([]model.Document, error) {
	const q = `SELECT ` + documentColumns + ` FROM get_documents_by_user($1)`
	rows, err := r.db.QueryContext(ctx, q, userName)
	if err != nil {
		return nil, err
	}
	return collectDocuments(rows)
}

// SetActive invokes the activation routine and returns the affected-row
// count it reports.
func (r *DocumentPostgres) SetActive(ctx context.Context, id int64, active bool) (int64, error) {
	const q = `SELECT activate_deactivate_document($1, $2)`
	var affected int64
	if err := r.db.QueryRowContext(ctx, q, id, active).Scan(&affected); err != nil {
		return 0, err
	}
	return affected, nil
}

// NextCategoryCode mints the next sequential code for a category.
// The routine runs on an explicitly acquired connection that is released
// on every path; a NULL or absent output maps to an empty string.
func (r *DocumentPostgres) NextCategoryCode(ctx context.Context, category string) (string, error) {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return "", err
	}
	defer conn.Close()

	const q = `SELECT get_next_category_code($1)`
	var code sql.NullString
	if err := conn.QueryRowContext(ctx, q, category).Scan(&code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	if !code.Valid {
		return "", nil
	}
	return code.String, nil
}

// UpdateFilePath stamps the stored file reference on an active row.
func (r *DocumentPostgres) UpdateFilePath(ctx context.Context, id int64, path string, size int64, when time.Time) (*model.Document, error) {
	const q = `
		UPDATE documents
		SET file_path = $1, file_size = $2, modified_date = $3
		WHERE id = $4 AND is_active = TRUE
		RETURNING ` + documentColumns + `
	`
	return scanDocument(r.db.QueryRowContext(ctx, q, path, size, when, id))
}

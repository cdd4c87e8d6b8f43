// Package repository contains data access layer abstractions.
// Implementations live in subpackages (e.g. postgres) inside this directory.
package repository

import (
	"context"
	"time"

	"spdocs/internal/model"
)

// DocumentRepository defines persistence operations for documents.
// No business logic here; lookups that require an active row report a
// missing or inactive id as sql.ErrNoRows and leave the mapping to the
// service layer.
type DocumentRepository interface {
	// ListActive returns all active documents, newest first.
	ListActive(ctx context.Context) ([]model.Document, error)

	// FindActiveByID returns the document with the given id if it is
	// active. Inactive rows are reported the same as missing ones.
	FindActiveByID(ctx context.Context, id int64) (*model.Document, error)

	// Create inserts a new row and returns it with the store-assigned id.
	// The caller supplies CreatedDate and IsActive.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// Update replaces the mutable fields of an active row and returns the
	// stored result. Optional fields set to nil become NULL.
	Update(ctx context.Context, doc *model.Document) (*model.Document, error)

	// SoftDelete clears the active flag and stamps modified_date on the
	// row with the given id, regardless of its current flag. It reports
	// whether a row matched.
	SoftDelete(ctx context.Context, id int64, when time.Time) (bool, error)

	// ListByType invokes the get_documents_by_type server-side routine.
	// Row selection and ordering belong to the routine.
	ListByType(ctx context.Context, documentType string) ([]model.Document, error)

	// ListByUser invokes the get_documents_by_user server-side routine.
	ListByUser(ctx context.Context, userName string) ([]model.Document, error)

	// SetActive invokes the activate_deactivate_document routine and
	// returns the affected-row count it reports.
	SetActive(ctx context.Context, id int64, active bool) (int64, error)

	// NextCategoryCode invokes the get_next_category_code routine on a
	// dedicated connection and returns the minted code. An absent output
	// yields an empty string, not an error.
	NextCategoryCode(ctx context.Context, category string) (string, error)

	// UpdateFilePath stamps file_path, file_size and modified_date on an
	// active row and returns the stored result.
	UpdateFilePath(ctx context.Context, id int64, path string, size int64, when time.Time) (*model.Document, error)
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"spdocs/internal/model"
	"spdocs/internal/repository"
	"spdocs/internal/storage"
)

var (
	ErrNotFound         = errors.New("document not found")
	ErrCategoryRequired = errors.New("category is required")
	ErrNoFile           = errors.New("document has no file attached")
	ErrReaderNil        = errors.New("reader is nil")
)

// presignExpiry bounds how long a generated download URL stays valid.
const presignExpiry = 15 * time.Minute

// DocumentService defines the use cases for handling documents.
type DocumentService interface {
	// List returns all active documents, newest first.
	List(ctx context.Context) ([]model.Document, error)

	// Get returns an active document by id; ErrNotFound covers both
	// missing and soft-deleted ids.
	Get(ctx context.Context, id int64) (*model.Document, error)

	// Create validates the request and inserts a new active document.
	Create(ctx context.Context, req model.CreateDocumentRequest) (*model.Document, error)

	// Update validates the request and fully replaces the mutable fields
	// of an active document.
	Update(ctx context.Context, id int64, req model.UpdateDocumentRequest) (*model.Document, error)

	// Delete soft-deletes a document by id.
	Delete(ctx context.Context, id int64) error

	// ListByType returns documents matching the given type via the
	// store-side filter.
	ListByType(ctx context.Context, documentType string) ([]model.Document, error)

	// ListByUser returns documents created by the given user via the
	// store-side filter.
	ListByUser(ctx context.Context, userName string) ([]model.Document, error)

	// SetStatus activates or deactivates a document; ErrNotFound when the
	// id does not exist.
	SetStatus(ctx context.Context, id int64, active bool) error

	// NextLessonCode mints the next sequential lesson code for a
	// category. The category must be non-blank; an exhausted generator
	// yields an empty string, not an error.
	NextLessonCode(ctx context.Context, category string) (string, error)

	// AttachFile uploads content to object storage and stamps the
	// document's file reference, rolling the object back if the database
	// write fails.
	AttachFile(ctx context.Context, id int64, r io.Reader, originalFilename, contentType string, size int64) (*model.Document, error)

	// FileURL returns a presigned download URL for the document's file.
	FileURL(ctx context.Context, id int64) (string, error)
}

type documentService struct {
	store storage.Storage
	repo  repository.DocumentRepository
	log   *slog.Logger
}

// NewDocumentService constructs a new DocumentService. A nil logger
// falls back to slog.Default.
func NewDocumentService(store storage.Storage, repo repository.DocumentRepository, log *slog.Logger) DocumentService {
	if log == nil {
		log = slog.Default()
	}
	return &documentService{store: store, repo: repo, log: log}
}

func (s *documentService) List(ctx context.Context) ([]model.Document, error) {
	docs, err := s.repo.ListActive(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "list documents", "error", err)
		return nil, err
	}
	return docs, nil
}

func (s *documentService) Get(ctx context.Context, id int64) (*model.Document, error) {
	doc, err := s.repo.FindActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		s.log.ErrorContext(ctx, "get document", "id", id, "error", err)
		return nil, err
	}
	return doc, nil
}

func (s *documentService) Create(ctx context.Context, req model.CreateDocumentRequest) (*model.Document, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	doc := &model.Document{
		Title:        req.Title,
		Description:  req.Description,
		DocumentType: req.DocumentType,
		CreatedDate:  time.Now().UTC(),
		CreatedBy:    req.CreatedBy,
		IsActive:     true,
		FilePath:     req.FilePath,
		FileSize:     req.FileSize,
	}
	stored, err := s.repo.Create(ctx, doc)
	if err != nil {
		s.log.ErrorContext(ctx, "create document", "error", err)
		return nil, err
	}
	return stored, nil
}

func (s *documentService) Update(ctx context.Context, id int64, req model.UpdateDocumentRequest) (*model.Document, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	doc := &model.Document{
		ID:           id,
		Title:        req.Title,
		Description:  req.Description,
		DocumentType: req.DocumentType,
		ModifiedBy:   &req.ModifiedBy,
		ModifiedDate: &now,
		FilePath:     req.FilePath,
		FileSize:     req.FileSize,
	}
	stored, err := s.repo.Update(ctx, doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		s.log.ErrorContext(ctx, "update document", "id", id, "error", err)
		return nil, err
	}
	return stored, nil
}

func (s *documentService) Delete(ctx context.Context, id int64) error {
	matched, err := s.repo.SoftDelete(ctx, id, time.Now().UTC())
	if err != nil {
		s.log.ErrorContext(ctx, "delete document", "id", id, "error", err)
		return err
	}
	if !matched {
		return ErrNotFound
	}
	return nil
}

func (s *documentService) ListByType(ctx context.Context, documentType string) ([]model.Document, error) {
	docs, err := s.repo.ListByType(ctx, documentType)
	if err != nil {
		s.log.ErrorContext(ctx, "list documents by type", "document_type", documentType, "error", err)
		return nil, err
	}
	return docs, nil
}

func (s *documentService) ListByUser(ctx context.Context, userName string) ([]model.Document, error) {
	docs, err := s.repo.ListByUser(ctx, userName)
	if err != nil {
		s.log.ErrorContext(ctx, "list documents by user", "user_name", userName, "error", err)
		return nil, err
	}
	return docs, nil
}

func (s *documentService) SetStatus(ctx context.Context, id int64, active bool) error {
	affected, err := s.repo.SetActive(ctx, id, active)
	if err != nil {
		s.log.ErrorContext(ctx, "set document status", "id", id, "active", active, "error", err)
		return err
	}
	if affected < 1 {
		return ErrNotFound
	}
	return nil
}

func (s *documentService) NextLessonCode(ctx context.Context, category string) (string, error) {
	if strings.TrimSpace(category) == "" {
		return "", ErrCategoryRequired
	}
	code, err := s.repo.NextCategoryCode(ctx, category)
	if err != nil {
		s.log.ErrorContext(ctx, "next lesson code", "category", category, "error", err)
		return "", err
	}
	return code, nil
}

func (s *documentService) AttachFile(ctx context.Context, id int64, r io.Reader, originalFilename, contentType string, size int64) (*model.Document, error) {
	if r == nil {
		return nil, ErrReaderNil
	}

	// The target must exist and be active before anything is uploaded.
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	key := filepath.ToSlash(filepath.Join("documents", uuid.New().String()+filepath.Ext(originalFilename)))
	obj, err := s.store.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        size,
		ContentType: contentType,
		Metadata:    map[string]string{"original-filename": originalFilename},
	})
	if err != nil {
		s.log.ErrorContext(ctx, "attach file", "id", id, "error", err)
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	stored, err := s.repo.UpdateFilePath(ctx, id, obj.Key, obj.Size, time.Now().UTC())
	if err != nil {
		// Roll the object back so storage does not leak unreferenced files.
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			s.log.ErrorContext(ctx, "attach file rollback", "id", id, "key", key, "error", delErr)
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		s.log.ErrorContext(ctx, "attach file", "id", id, "error", err)
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	return stored, nil
}

func (s *documentService) FileURL(ctx context.Context, id int64) (string, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if doc.FilePath == nil || *doc.FilePath == "" {
		return "", ErrNoFile
	}
	u, err := s.store.PresignGet(ctx, *doc.FilePath, presignExpiry)
	if err != nil {
		s.log.ErrorContext(ctx, "presign file url", "id", id, "error", err)
		return "", err
	}
	return u, nil
}

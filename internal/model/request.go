package model

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Column length limits, mirrored from the documents table schema.
const (
	MaxTitleLen        = 255
	MaxDescriptionLen  = 1000
	MaxDocumentTypeLen = 50
	MaxUserNameLen     = 100
	MaxFilePathLen     = 500
)

// CreateDocumentRequest is the input shape for creating a document.
// The store assigns ID and CreatedDate; IsActive always starts true.
type CreateDocumentRequest struct {
	Title        string  `json:"title"`
	Description  *string `json:"description"`
	DocumentType string  `json:"documentType"`
	CreatedBy    string  `json:"createdBy"`
	FilePath     *string `json:"filePath"`
	FileSize     *int64  `json:"fileSize"`
}

// UpdateDocumentRequest is the input shape for updating a document.
// Updates are a full replace of the mutable fields: an omitted optional
// field clears the stored value.
type UpdateDocumentRequest struct {
	Title        string  `json:"title"`
	Description  *string `json:"description"`
	DocumentType string  `json:"documentType"`
	ModifiedBy   string  `json:"modifiedBy"`
	FilePath     *string `json:"filePath"`
	FileSize     *int64  `json:"fileSize"`
}

// FieldError names one invalid request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates per-field failures for a request.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// Validate checks required fields and length limits.
func (r *CreateDocumentRequest) Validate() error {
	var ve ValidationError
	checkRequired(&ve, "title", r.Title, MaxTitleLen)
	checkOptional(&ve, "description", r.Description, MaxDescriptionLen)
	checkRequired(&ve, "documentType", r.DocumentType, MaxDocumentTypeLen)
	checkRequired(&ve, "createdBy", r.CreatedBy, MaxUserNameLen)
	checkOptional(&ve, "filePath", r.FilePath, MaxFilePathLen)
	checkFileSize(&ve, r.FileSize)
	return ve.orNil()
}

// Validate checks required fields and length limits.
func (r *UpdateDocumentRequest) Validate() error {
	var ve ValidationError
	checkRequired(&ve, "title", r.Title, MaxTitleLen)
	checkOptional(&ve, "description", r.Description, MaxDescriptionLen)
	checkRequired(&ve, "documentType", r.DocumentType, MaxDocumentTypeLen)
	checkRequired(&ve, "modifiedBy", r.ModifiedBy, MaxUserNameLen)
	checkOptional(&ve, "filePath", r.FilePath, MaxFilePathLen)
	checkFileSize(&ve, r.FileSize)
	return ve.orNil()
}

func checkRequired(ve *ValidationError, field, value string, max int) {
	if strings.TrimSpace(value) == "" {
		ve.add(field, "is required")
		return
	}
	if utf8.RuneCountInString(value) > max {
		ve.add(field, fmt.Sprintf("must be at most %d characters", max))
	}
}

func checkOptional(ve *ValidationError, field string, value *string, max int) {
	if value == nil {
		return
	}
	if utf8.RuneCountInString(*value) > max {
		ve.add(field, fmt.Sprintf("must be at most %d characters", max))
	}
}

func checkFileSize(ve *ValidationError, size *int64) {
	if size != nil && *size < 0 {
		ve.add("fileSize", "must not be negative")
	}
}

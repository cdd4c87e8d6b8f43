package model

import "time"

// Document is a row in the documents table. Pointer fields map to
// nullable columns. Rows are never physically deleted; "delete" flips
// IsActive and stamps ModifiedDate.
type Document struct {
	ID           int64      `json:"id"`
	Title        string     `json:"title"`
	Description  *string    `json:"description"`
	DocumentType string     `json:"documentType"`
	CreatedDate  time.Time  `json:"createdDate"`
	ModifiedDate *time.Time `json:"modifiedDate"`
	CreatedBy    string     `json:"createdBy"`
	ModifiedBy   *string    `json:"modifiedBy"`
	IsActive     bool       `json:"isActive"`
	FilePath     *string    `json:"filePath"`
	FileSize     *int64     `json:"fileSize"`
}

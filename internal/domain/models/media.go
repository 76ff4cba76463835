package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Media struct {
	ID               uuid.UUID  `db:"id" json:"id"`
	UploaderID       uuid.UUID  `db:"uploader_id" json:"uploader_id"`
	ProjectID        *uuid.UUID `db:"project_id" json:"project_id,omitempty"`
	StorageKey       string     `db:"storage_key" json:"storage_key"`
	OriginalFilename string     `db:"original_filename" json:"original_filename"`
	MimeType         string     `db:"mime_type" json:"mime_type"`
	FileSize         int64      `db:"file_size" json:"file_size"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
}

func (m *Media) Validate() error {
	if m.UploaderID == uuid.Nil {
		return fmt.Errorf("uploader_id is required")
	}
	if m.StorageKey == "" {
		return fmt.Errorf("storage_key is required")
	}
	if m.FileSize <= 0 {
		return fmt.Errorf("file_size must be positive")
	}
	return nil
}

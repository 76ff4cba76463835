package dto

import (
	"mime/multipart"
	"time"

	"github.com/google/uuid"
)

type MediaUploadInput struct {
	File       *multipart.FileHeader `json:"-"`
	UploaderID uuid.UUID             `json:"uploader_id" validate:"required" swaggertype:"string" format:"uuid"`
	ProjectID  *uuid.UUID            `json:"project_id,omitempty" swaggertype:"string" format:"uuid"`
}

type MediaResponse struct {
	ID               uuid.UUID  `json:"id" swaggertype:"string" format:"uuid"`
	UploaderID       uuid.UUID  `json:"uploader_id" swaggertype:"string" format:"uuid"`
	ProjectID        *uuid.UUID `json:"project_id,omitempty" swaggertype:"string" format:"uuid"`
	OriginalFilename string     `json:"original_filename"`
	MimeType         string     `json:"mime_type"`
	FileSize         int64      `json:"file_size"`
	URL              string     `json:"url,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

package entity

import (
	"time"

	"github.com/google/uuid"
)

// ReceiptFile represents an ingested source file for data transfer between layers.
type ReceiptFile struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	SourcePath  string    `json:"source_path"`
	ContentHash string    `json:"content_hash"` // hex-encoded sha256
	FileExt     string    `json:"file_ext"`
	FileSize    int64     `json:"file_size"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

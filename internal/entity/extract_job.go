package entity

import (
	"time"

	"github.com/google/uuid"
)

// ExtractJob represents one OCR+parse run over a receipt file.
type ExtractJob struct {
	ID           uuid.UUID  `json:"id"`
	FileID       uuid.UUID  `json:"file_id"`
	ReceiptID    *uuid.UUID `json:"receipt_id,omitempty"`
	Format       string     `json:"format"`
	Status       string     `json:"status"`
	OCRText      string     `json:"ocr_text,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
	NeedsReview  bool       `json:"needs_review"`
	StartedAt    time.Time  `json:"started_at"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
}

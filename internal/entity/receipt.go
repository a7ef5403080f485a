package entity

import (
	"time"

	"github.com/google/uuid"
)

// Receipt represents a stored receipt for data transfer between layers.
type Receipt struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	FileName    string    `json:"file_name"`
	FileURL     string    `json:"file_url,omitempty"`
	TxDate      string    `json:"tx_date"` // YYYY-MM-DD
	Merchant    string    `json:"merchant"`
	Category    string    `json:"category"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description"`
	OCRText     string    `json:"ocr_text,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

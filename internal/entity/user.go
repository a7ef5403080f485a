package entity

import (
	"time"

	"github.com/google/uuid"
)

// User represents an application user. ExternalUID is the opaque identifier
// assigned by the upstream auth provider; receipts are keyed by it.
type User struct {
	ID          uuid.UUID `json:"id"`
	ExternalUID string    `json:"external_uid"`
	CreatedAt   time.Time `json:"created_at"`
}

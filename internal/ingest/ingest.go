package ingest

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/receiptiq/receiptiq/constants"
)

// IngestionResult is the outcome for a single file.
type IngestionResult struct {
	SourcePath   string    `json:"source_path"`
	FileID       string    `json:"file_id,omitempty"`
	Deduplicated bool      `json:"deduplicated"`
	HashHex      string    `json:"hash_hex,omitempty"`
	FileExt      string    `json:"file_ext,omitempty"`
	FileSize     int64     `json:"file_size,omitempty"`
	UploadedAt   time.Time `json:"uploaded_at,omitempty"`
	Err          string    `json:"err,omitempty"`
}

// DirStats aggregates a directory walk.
type DirStats struct {
	Scanned      int `json:"scanned"`
	Matched      int `json:"matched"`
	Succeeded    int `json:"succeeded"`
	Deduplicated int `json:"deduplicated"`
	Failed       int `json:"failed"`
}

// AllowedExt checks if a file extension is in the allowed set (defaults to pdf/jpg/jpeg/png/txt).
func AllowedExt(ext string) bool {
	ext = constants.NormalizeExt(ext)
	_, ok := constants.AllowedExtensions[ext]
	return ok
}

// IsHidden checks if a file or directory is hidden (starts with '.').
func IsHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".")
}

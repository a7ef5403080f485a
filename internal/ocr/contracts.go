package ocr

import (
	"context"
	"time"
)

// TextExtractor turns a stored receipt file into raw text.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (ExtractionResult, error)
}

type ExtractionResult struct {
	Text       string
	SourceType string // constants.PDF | constants.IMAGE | constants.TXT
	Method     string // "remote-ocr" | "text-file"
	Language   string
	Duration   time.Duration
	Warnings   []string
	Confidence float32
}

package ocr

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeuristicConfidence(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float32
	}{
		{"empty", "", 0.2},
		{"date only", "visited on 03/15/2024", 0.4},
		{"currency only", "paid in ZAR", 0.35},
		{"date currency amount", "03/15/2024 $ 1,234.56", 0.7},
		{"long rich text", "Invoice 2024\nTotal: $1,234.56\n" + strings.Repeat("line item\n", 12), 0.8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, heuristicConfidence(tt.text), 0.001)
		})
	}
}

package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractAmount(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
	}{
		{"balance due outranks bare large number", "Balance Due: R 1,234.56\nref 2024001", 1234.56},
		{"total label", "Total: $45.67", 45.67},
		{"amount label", "Amount: 99.50", 99.50},
		{"sum label", "Sum: 12.00", 12.00},
		{"due label", "Due: 77.10", 77.10},
		{"thousands separator with rand prefix", "Total: R218,040.00", 218040.00},
		{"comma only is thousands", "Total: 1,234", 1234.00},
		{"space thousands", "Total: R 12 500.00", 12500.00},
		{"dollar prefix", "Fuel: $55.23", 55.23},
		{"euro prefix", "Price €31.99 each", 31.99},
		{"pound prefix", "£20.00", 20.00},
		{"symbol suffix", "55.23$", 55.23},
		{"invoice total label", "Invoice total: 5,000.00", 5000.00},
		{"labeled beats larger symbol amount", "Deposit $9,999.00\nTotal: $45.00", 45.00},
		{"higher value wins within same priority", "$10.00 and $25.00", 25.00},
		{"bare large number fallback", "ref\n42500\nend", 42500.00},
		{"small bare numbers ignored", "Qty 4 x 12", 0},
		{"bare number too large rejected", "123456789", 0},
		{"negative never produced", "-55.23", 0},
		{"rounding half up", "Total: $10.555", 10.56},
		{"nothing", "Fresh Market", 0},
		{"empty", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractAmount(tt.text, nil))
		})
	}
}

func TestExtractAmount_PriorityRanking(t *testing.T) {
	tr := &Trace{}
	got := extractAmount("Balance Due: R 1,234.56\nTotal: R 2,000.00\n987654", tr)

	// The labeled "Balance Due" wins even though both the "Total" line and
	// the bare number carry larger values.
	assert.Equal(t, 1234.56, got)
	require.NotNil(t, tr.AmountPick)
	assert.Equal(t, 10, tr.AmountPick.Priority)
	assert.GreaterOrEqual(t, len(tr.AmountCandidates), 3)
}

func TestExtractAmount_StableTieBreak(t *testing.T) {
	// Same priority (currency symbol tier beats Rand tier order-wise) and
	// same value: the candidate produced first in the scan wins.
	tr := &Trace{}
	got := extractAmount("R50.00 then $50.00", tr)

	assert.Equal(t, 50.00, got)
	require.NotNil(t, tr.AmountPick)
	assert.Equal(t, "$50.00", tr.AmountPick.MatchedText)
}

func TestExtractAmount_BareNumberMagnitudePriority(t *testing.T) {
	// 150000 (priority 5) must beat 60000 (priority 4) even though both
	// are bare numbers; and a labeled small amount still beats both.
	assert.Equal(t, 150000.00, extractAmount("60000\n150000", nil))
	assert.Equal(t, 45.00, extractAmount("60000\n150000\nTotal: 45.00", nil))
}

func TestNormalizeAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"218,040.00", "218040", false},
		{"1,234", "1234", false},
		{"12 500.00", "12500", false},
		{"1,234,567.89", "1234567.89", false},
		{"55.23", "55.23", false},
		{"100.", "100", false},
		{"", "", true},
		{"abc", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := normalizeAmount(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

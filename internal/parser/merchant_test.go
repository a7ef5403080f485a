package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractMerchant(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"simple first line", "Shell\nFuel: $55.23", "Shell"},
		{"receipt header skipped", "Receipt #20394\nFresh Market\nTotal: $45.67", "Fresh Market"},
		{"thank you skipped", "Thank You!\nThe Garden Restaurant", "The Garden Restaurant"},
		{"phone line skipped", "Phone: 555-0100\nCorner Cafe", "Corner Cafe"},
		{"website skipped", "www.acme.example\nAcme Hardware", "Acme Hardware"},
		{"email skipped", "billing@acme.example\nAcme Hardware", "Acme Hardware"},
		{"currency line skipped", "$45.67\nFresh Market", "Fresh Market"},
		{"date line skipped", "03/15/2024\nFresh Market", "Fresh Market"},
		{"leading digit skipped", "123 Industrial Rd\nBuilders Depot", "Builders Depot"},
		{"legal suffix accepted", "ACME TRADING (PTY) LTD", "ACME TRADING (PTY) LTD"},
		{"lowercase alphabetic shape", "corner bakery", "corner bakery"},
		{"nothing qualifies", "12\n$\n@x\n9", UnknownMerchant},
		{"empty", "", UnknownMerchant},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractMerchant(tt.text, nil))
		})
	}
}

func TestExtractMerchant_TruncatesLongNames(t *testing.T) {
	long := "The Extraordinarily Long Business Name Trading Store Of Greater Example City"
	got := extractMerchant(long, nil)
	assert.Len(t, []rune(got), 50)
	assert.True(t, strings.HasPrefix(long, got))
}

func TestExtractMerchant_FallbackBeyondFirstFiveLines(t *testing.T) {
	// The first five lines are all disqualified; the fallback scans the
	// whole text with only the basic exclusions, no shape requirement.
	text := "1 Main Rd\n2024/01/01\n$5.00\n99\n042\ncorner bakery llp & sons #7"
	assert.Equal(t, "corner bakery llp & sons #7", extractMerchant(text, nil))
}

func TestExtractMerchant_FirstFiveLinesOnlyForShapes(t *testing.T) {
	// A shaped name on line 6 is not considered by the shape pass, but the
	// fallback still finds the earliest acceptable line.
	lines := []string{"1a", "2b", "3c", "4d", "5e", "Fresh Market"}
	assert.Equal(t, "Fresh Market", extractMerchant(strings.Join(lines, "\n"), nil))
}

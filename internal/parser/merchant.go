package parser

import (
	"regexp"
	"strings"
	"unicode"
)

// Lines that are clearly not a business name: boilerplate words, contact
// details, monetary values, or date-like content.
var (
	merchantNoiseWords = regexp.MustCompile(`(?i)receipt|thank|address|phone|www`)
	merchantCurrency   = regexp.MustCompile(currencySym)
	merchantDateLike   = regexp.MustCompile(`[0-9]{1,4}[./\-][0-9]{1,2}[./\-][0-9]{2,4}`)
)

// Business-name shapes, tried in order against each surviving line.
type merchantShape struct {
	name string
	re   *regexp.Regexp
}

var merchantShapes = []merchantShape{
	{"capitalized", regexp.MustCompile(`^[A-Z][A-Za-z0-9&'.,\- ]{2,39}$`)},
	{"legal-suffix", regexp.MustCompile(`(?i)\b(llc|inc|corp|ltd|restaurant|store|market|shop)\b`)},
	{"alphabetic", regexp.MustCompile(`^[A-Za-z ]{4,30}$`)},
}

const maxMerchantLen = 50

// extractMerchant picks a business name from the first 5 non-empty lines,
// falling back to the first line anywhere that passes the basic
// exclusions. Returns UnknownMerchant when nothing qualifies.
func extractMerchant(text string, tr *Trace) string {
	lines := nonEmptyLines(text)

	limit := len(lines)
	if limit > 5 {
		limit = 5
	}
	for _, line := range lines[:limit] {
		if skipMerchantLine(line) {
			continue
		}
		for _, shape := range merchantShapes {
			if shape.re.MatchString(line) {
				if tr != nil {
					tr.MerchantLine = line
					tr.MerchantShape = shape.name
				}
				return truncateRunes(line, maxMerchantLen)
			}
		}
	}

	// No shaped candidate in the header: take the first line anywhere that
	// passes the basic exclusions. No shape requirement here.
	for _, line := range lines {
		n := len(line)
		if n < 3 || n > 49 {
			continue
		}
		if startsWithDigit(line) || strings.Contains(line, "@") || merchantCurrency.MatchString(line) {
			continue
		}
		if tr != nil {
			tr.MerchantLine = line
			tr.MerchantFallback = true
		}
		return line
	}

	return UnknownMerchant
}

func skipMerchantLine(line string) bool {
	return startsWithDigit(line) ||
		merchantNoiseWords.MatchString(line) ||
		strings.Contains(line, "@") ||
		merchantCurrency.MatchString(line) ||
		merchantDateLike.MatchString(line)
}

func nonEmptyLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func startsWithDigit(s string) bool {
	for _, r := range s {
		return unicode.IsDigit(r)
	}
	return false
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

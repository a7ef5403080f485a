package ocr

import (
	"regexp"
	"strings"
)

var (
	confDate   = regexp.MustCompile(`\b(19|20)[0-9]{2}\b|[0-9]{1,2}[/.-][0-9]{1,2}[/.-][0-9]{2,4}`)
	confCurr   = regexp.MustCompile(`\b(usd|zar|eur|gbp|rand)\b|[$£€¥₹]`)
	confAmount = regexp.MustCompile(`\b[0-9]{1,3}(,[0-9]{3})*\.[0-9]{2}\b`)
)

// heuristicConfidence scores decoded text on common receipt artifacts
// (something date-ish, currency-ish, amount-ish, and enough content).
// Remote providers rarely report usable per-word confidence, so this
// stands in for it.
func heuristicConfidence(txt string) float32 {
	low := strings.ToLower(txt)
	score := float32(0.2) // base
	if confDate.MatchString(low) {
		score += 0.2
	}
	if confCurr.MatchString(low) {
		score += 0.15
	}
	if confAmount.MatchString(low) {
		score += 0.15
	}
	if len(txt) > 120 {
		score += 0.1
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}

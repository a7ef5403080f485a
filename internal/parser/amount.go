package parser

import (
	"regexp"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// AmountCandidate is a provisional amount paired with the trust score of
// the pattern that produced it. Higher priority means the pattern is a
// more reliable indicator of the payable total.
type AmountCandidate struct {
	Value       float64 `json:"value"`
	MatchedText string  `json:"matched_text"`
	Priority    int     `json:"priority"`
}

// currencySym covers the supported symbols; the Rand-style "R" prefix is
// handled by its own pattern because a bare R is too common a letter.
const currencySym = `[$£€¥₹]`

type amountPattern struct {
	re       *regexp.Regexp
	priority int
}

var amountPatterns = []amountPattern{
	// Labeled totals first: explicit labels far outrank any bare number.
	{regexp.MustCompile(`(?i)balance\s+due\s*[:#]?\s*(?:R\s?|` + currencySym + `\s?)?([0-9][0-9,. ]*)`), 10},
	{regexp.MustCompile(`(?i)\b(?:total|amount|sum|due)\s*[:#]?\s*(?:R\s?|` + currencySym + `\s?)?([0-9][0-9,. ]*)`), 8},
	{regexp.MustCompile(currencySym + `\s?([0-9][0-9,. ]*)`), 7},
	{regexp.MustCompile(`\bR\s?([0-9]{1,3}(?:[, ][0-9]{3})*(?:\.[0-9]{1,2})?)\b`), 7},
	{regexp.MustCompile(`([0-9][0-9,.]*)\s?` + currencySym), 6},
	{regexp.MustCompile(`(?i)invoice\s+total\s*[:#]?\s*(?:R\s?|` + currencySym + `\s?)?([0-9][0-9,. ]*)`), 6},
}

// Bare numbers need 5+ digits to avoid matching quantities, and get a
// magnitude-scaled priority: they only ever win when nothing labeled or
// currency-marked was found.
var bareLargeNumber = regexp.MustCompile(`\b[0-9]{5,}(?:\.[0-9]{1,2})?\b`)

func barePriority(v decimal.Decimal) int {
	switch {
	case v.GreaterThan(decimal.NewFromInt(100000)):
		return 5
	case v.GreaterThan(decimal.NewFromInt(50000)):
		return 4
	case v.GreaterThan(decimal.NewFromInt(10000)):
		return 3
	default:
		return 1
	}
}

var (
	amountFloor = decimal.Zero
	amountCeil  = decimal.NewFromInt(100_000_000) // anything this large is an ID, not a total
)

// extractAmount scans text for monetary candidates, ranks them by
// (priority desc, value desc) and returns the winner rounded half-up to
// 2 decimals, or 0 when nothing plausible was found. Ties keep scan
// order (stable sort), so the first-seen candidate wins.
func extractAmount(text string, tr *Trace) float64 {
	type scored struct {
		dec decimal.Decimal
		c   AmountCandidate
	}
	var candidates []scored

	add := func(matched, numeric string, priority int) {
		v, err := normalizeAmount(numeric)
		if err != nil {
			return // malformed numeric parse: discard the candidate, never abort
		}
		if !v.GreaterThan(amountFloor) || !v.LessThan(amountCeil) {
			return
		}
		if priority < 0 {
			priority = barePriority(v)
		}
		candidates = append(candidates, scored{v, AmountCandidate{
			Value:       v.InexactFloat64(),
			MatchedText: strings.TrimSpace(matched),
			Priority:    priority,
		}})
	}

	for _, p := range amountPatterns {
		for _, m := range p.re.FindAllStringSubmatch(text, -1) {
			add(m[0], m[1], p.priority)
		}
	}
	for _, m := range bareLargeNumber.FindAllString(text, -1) {
		add(m, m, -1)
	}

	if tr != nil {
		for _, s := range candidates {
			tr.AmountCandidates = append(tr.AmountCandidates, s.c)
		}
	}
	if len(candidates) == 0 {
		return 0
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].c.Priority != candidates[j].c.Priority {
			return candidates[i].c.Priority > candidates[j].c.Priority
		}
		return candidates[i].dec.GreaterThan(candidates[j].dec)
	})

	top := candidates[0]
	if tr != nil {
		pick := top.c
		tr.AmountPick = &pick
	}
	return top.dec.Round(2).InexactFloat64()
}

// normalizeAmount converts a matched numeric string to a decimal,
// resolving thousands separators: a comma with no period is a thousands
// separator; with both present, everything after the last period is the
// decimal part.
func normalizeAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.TrimRight(s, ".,")

	hasComma := strings.Contains(s, ",")
	hasDot := strings.Contains(s, ".")
	switch {
	case hasComma && !hasDot:
		s = strings.ReplaceAll(s, ",", "")
	case hasComma && hasDot:
		idx := strings.LastIndex(s, ".")
		intPart := strings.NewReplacer(",", "", ".", "").Replace(s[:idx])
		s = intPart + "." + s[idx+1:]
	}
	return decimal.NewFromString(s)
}

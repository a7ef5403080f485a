package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Date pattern tiers, most specific first. The scan stops at the first
// tier that yields an accepted date, so a labeled "Date:" always beats a
// bare numeric match further down the text.
type dateTier struct {
	name string
	re   *regexp.Regexp
}

var dateTiers = []dateTier{
	{"date-issued", regexp.MustCompile(`(?i)date\s+issued\s*[:#]?\s*([0-9]{1,4}[./\-][0-9]{1,2}[./\-][0-9]{2,4})`)},
	{"date-label", regexp.MustCompile(`(?i)\bdate\s*[:#]?\s*([0-9]{1,4}[./\-][0-9]{1,2}[./\-][0-9]{2,4})`)},
	{"numeric-dmy", regexp.MustCompile(`\b([0-9]{1,2}[./\-][0-9]{1,2}[./\-][0-9]{4})\b`)},
	{"numeric-ymd", regexp.MustCompile(`\b([0-9]{4}[./\-][0-9]{1,2}[./\-][0-9]{1,2})\b`)},
	{"numeric-2y", regexp.MustCompile(`\b([0-9]{1,2}[./\-][0-9]{1,2}[./\-][0-9]{2})\b`)},
	{"month-day-year", regexp.MustCompile(`(?i)\b(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+([0-9]{1,2})(?:st|nd|rd|th)?\s*,?\s+([0-9]{4})`)},
	{"day-month-year", regexp.MustCompile(`(?i)\b([0-9]{1,2})(?:st|nd|rd|th)?\s+(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s*,?\s+([0-9]{4})`)},
}

var monthsByPrefix = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// extractDate scans text through the pattern tiers and returns the first
// accepted date as YYYY-MM-DD. found is false when no tier produced a
// plausible date; the caller substitutes the processing date.
func extractDate(text string, tr *Trace) (string, bool) {
	for _, tier := range dateTiers {
		for _, m := range tier.re.FindAllStringSubmatch(text, -1) {
			var t time.Time
			var ok bool
			switch tier.name {
			case "month-day-year":
				t, ok = buildDate(m[3], monthOf(m[1]), m[2])
			case "day-month-year":
				t, ok = buildDate(m[3], monthOf(m[2]), m[1])
			default:
				t, ok = parseNumericDate(m[1])
			}
			if !ok {
				continue
			}
			if tr != nil {
				tr.DateTier = tier.name
				tr.DateMatch = m[0]
			}
			return t.Format("2006-01-02"), true
		}
	}
	return "", false
}

func monthOf(name string) string {
	m := monthsByPrefix[strings.ToLower(name[:3])]
	return fmt.Sprintf("%d", int(m))
}

// parseNumericDate interprets a separator-delimited numeric token.
// Separators '.' and '-' are normalized to '/'. A leading 4-digit part is
// treated as the year; otherwise day-first is tried before month-first,
// and the first valid calendar date wins. Ambiguous orderings like
// 03/04/2024 are accepted as-is; resolving them would need a locale
// decision the source data does not carry.
func parseNumericDate(token string) (time.Time, bool) {
	norm := strings.NewReplacer(".", "/", "-", "/").Replace(token)
	parts := strings.Split(norm, "/")
	if len(parts) != 3 {
		return time.Time{}, false
	}

	if len(parts[0]) == 4 {
		return buildDate(parts[0], parts[1], parts[2])
	}
	if t, ok := buildDate(parts[2], parts[1], parts[0]); ok { // day-first
		return t, true
	}
	return buildDate(parts[2], parts[0], parts[1]) // month-first
}

// buildDate constructs a calendar date from year/month/day strings,
// expanding 2-digit years to 20xx. Accepted years lie in (1900, 2030)
// exclusive.
func buildDate(ys, ms, ds string) (time.Time, bool) {
	year, err := strconv.Atoi(ys)
	if err != nil {
		return time.Time{}, false
	}
	if year < 100 {
		year += 2000
	}
	month, err := strconv.Atoi(ms)
	if err != nil {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(ds)
	if err != nil {
		return time.Time{}, false
	}

	if year <= 1900 || year >= 2030 || month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != time.Month(month) || t.Day() != day {
		// day overflowed the month (e.g. Feb 30)
		return time.Time{}, false
	}
	return t, true
}

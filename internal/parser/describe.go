package parser

import (
	"fmt"
	"regexp"
	"strings"
)

const maxListedKeywords = 4

// Contextual phrases used when no itemization domain hits.
var (
	vehicleContext = regexp.MustCompile(`(?i)\b(auction|vehicle|vin)\b`)
	invoiceContext = regexp.MustCompile(`(?i)\b(invoice|pro[\s-]?forma)\b`)
	lotNumber      = regexp.MustCompile(`(?i)\blot\s*(?:no\.?|number|#)?\s*[:#]?\s*([0-9]+)`)
	vehicleDesc    = regexp.MustCompile(`\b((?:19|20)[0-9]{2}\s+[A-Z][A-Za-z-]+\s+[A-Za-z0-9-]+)`)
)

// describe synthesizes a human-readable description. The itemization pass
// runs first: if any domain keyword list has a hit, the description names
// that domain and its first few matched keywords. Otherwise contextual
// phrase detection picks a base phrase.
//
// The amount is appended when present; the extracted date is appended
// only when there is no amount to anchor the description, so a record
// with both stays short ("Purchase from Shell - $55.23").
func describe(text, merchant string, amount float64, date string, dateFound bool, tr *Trace) string {
	desc, itemized := itemize(text, tr)
	if !itemized {
		desc = contextualPhrase(text, merchant)
	}

	if amount > 0 {
		desc += fmt.Sprintf(" - $%.2f", amount)
	} else if dateFound {
		desc += " on " + date
	}
	return desc
}

// itemize scans the whole text for domain keywords and reports the first
// domain (in taxonomy order) with at least one hit.
func itemize(text string, tr *Trace) (string, bool) {
	hits := itemMatcher.Match([]byte(strings.ToLower(text)))
	if len(hits) == 0 {
		return "", false
	}

	perDomain := make([][]string, len(itemDomains))
	for _, h := range hits {
		ref := itemRefs[h]
		perDomain[ref.domain] = append(perDomain[ref.domain], ref.keyword)
	}

	for di, kws := range perDomain {
		if len(kws) == 0 {
			continue
		}
		if tr != nil {
			tr.ItemDomain = itemDomains[di].label
			tr.ItemKeywords = kws
		}
		listed := kws
		more := false
		if len(listed) > maxListedKeywords {
			listed = listed[:maxListedKeywords]
			more = true
		}
		desc := itemDomains[di].label + " (" + strings.Join(listed, ", ")
		if more {
			desc += " and more"
		}
		return desc + ")", true
	}
	return "", false
}

func contextualPhrase(text, merchant string) string {
	switch {
	case vehicleContext.MatchString(text):
		if m := lotNumber.FindStringSubmatch(text); m != nil {
			return "Vehicle auction purchase (Lot " + m[1] + ")"
		}
		if m := vehicleDesc.FindStringSubmatch(text); m != nil {
			return "Vehicle purchase - " + m[1]
		}
		return "Vehicle purchase"
	case invoiceContext.MatchString(text):
		return "Invoice payment"
	default:
		return "Purchase from " + merchant
	}
}

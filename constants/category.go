package constants

import (
	"strings"
)

type Category string

const (
	Groceries      Category = "Groceries"
	Transportation Category = "Transportation"
	Dining         Category = "Dining"
	Healthcare     Category = "Healthcare"
	Clothing       Category = "Clothing"
	General        Category = "General"
)

var allCategories = []Category{
	Groceries,
	Transportation,
	Dining,
	Healthcare,
	Clothing,
	General,
}

func AsStringSlice() []string {
	result := make([]string, len(allCategories))
	for i, cat := range allCategories {
		result[i] = string(cat)
	}
	return result
}

// IsValid reports whether s is exactly one of the closed category set.
func IsValid(s string) bool {
	for _, cat := range allCategories {
		if s == string(cat) {
			return true
		}
	}
	return false
}

func Canonicalize(input string) (Category, bool) {
	if input == "" {
		return General, false
	}

	normalized := strings.ToLower(strings.TrimSpace(input))

	// synonyms map
	synonyms := map[string]Category{
		"grocery":     Groceries,
		"supermarket": Groceries,
		"food":        Groceries,
		"fuel":        Transportation,
		"gas":         Transportation,
		"transport":   Transportation,
		"travel":      Transportation,
		"restaurant":  Dining,
		"meals":       Dining,
		"takeaway":    Dining,
		"medical":     Healthcare,
		"pharmacy":    Healthcare,
		"health":      Healthcare,
		"apparel":     Clothing,
		"fashion":     Clothing,
	}

	if cat, ok := synonyms[normalized]; ok {
		return cat, true
	}

	// check if it matches any category string
	for _, cat := range allCategories {
		if normalized == strings.ToLower(string(cat)) {
			return cat, true
		}
	}

	return General, false
}

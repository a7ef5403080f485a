package parser

import (
	"strings"

	"github.com/receiptiq/receiptiq/constants"
)

// The coarse classification taxonomy. Groups are checked in this fixed
// order and the first keyword hit wins, so a receipt mentioning both
// "restaurant" and "pharmacy" classifies as Dining. Each group mixes
// brand names with generic category words; all checks run over the
// lowercased merchant name and full text together.
type categoryRule struct {
	category constants.Category
	keywords []string
}

var categoryRules = []categoryRule{
	{constants.Groceries, []string{
		"grocery", "grocer", "supermarket", "market", "spar", "checkers",
		"woolworths", "pick n pay", "kroger", "aldi", "lidl", "whole foods",
		"trader joe", "food lover",
	}},
	{constants.Transportation, []string{
		"shell", "engen", "caltex", "sasol", "chevron", "exxon", "texaco",
		"fuel", "petrol", "diesel", "gas station", "uber", "taxi", "toll",
		"parking",
	}},
	{constants.Dining, []string{
		"restaurant", "cafe", "coffee", "diner", "grill", "pizza", "burger",
		"bistro", "bakery", "takeaway", "steakhouse", "mcdonald", "kfc",
		"nando",
	}},
	{constants.Healthcare, []string{
		"pharmacy", "chemist", "clinic", "hospital", "medical", "doctor",
		"dental", "optometrist", "dischem", "dis-chem", "clicks", "health",
	}},
	{constants.Clothing, []string{
		"clothing", "apparel", "boutique", "fashion", "outfitters",
		"footwear", "shoes", "menswear", "h&m", "zara", "mr price",
	}},
}

// classify assigns one of the fixed categories from merchant name and
// full text, defaulting to General.
func classify(text, merchant string, tr *Trace) constants.Category {
	haystack := strings.ToLower(merchant + "\n" + text)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(haystack, kw) {
				if tr != nil {
					tr.CategoryKeyword = kw
				}
				return rule.category
			}
		}
	}
	return constants.General
}

package pipeline

// BuildReceiptJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map describing one parsed receipt record. Every stored record is
// checked against it before it reaches the repository, so a parser
// regression surfaces as a failed job instead of a bad row.
func BuildReceiptJSONSchema(allowedCategories []string) map[string]any {
	props := map[string]any{
		"tx_date":     map[string]any{"type": "string", "pattern": `^\d{4}-\d{2}-\d{2}$`},
		"merchant":    map[string]any{"type": "string", "minLength": 1, "maxLength": 50},
		"category":    map[string]any{"type": "string"},
		"amount":      map[string]any{"type": "number", "minimum": 0.0},
		"description": map[string]any{"type": "string", "minLength": 1},
	}
	required := []string{"tx_date", "merchant", "category", "amount", "description"}

	if len(allowedCategories) > 0 {
		props["category"] = map[string]any{
			"type": "string",
			"enum": allowedCategories,
		}
	}

	return map[string]any{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}

package parser

// Trace captures the intermediate candidates and decisions of one Parse
// call. It exists purely for diagnostics; nothing in the pipeline depends
// on it.
type Trace struct {
	DateTier  string `json:"date_tier,omitempty"`  // pattern tier that produced the date
	DateMatch string `json:"date_match,omitempty"` // raw substring the date came from

	AmountCandidates []AmountCandidate `json:"amount_candidates,omitempty"`
	AmountPick       *AmountCandidate  `json:"amount_pick,omitempty"`

	MerchantLine     string `json:"merchant_line,omitempty"` // line the merchant came from
	MerchantShape    string `json:"merchant_shape,omitempty"`
	MerchantFallback bool   `json:"merchant_fallback,omitempty"`

	CategoryKeyword string `json:"category_keyword,omitempty"` // keyword that decided the category

	ItemDomain   string   `json:"item_domain,omitempty"` // itemization domain used for the description
	ItemKeywords []string `json:"item_keywords,omitempty"`
}

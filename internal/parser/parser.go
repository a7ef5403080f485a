package parser

import (
	"time"

	"github.com/receiptiq/receiptiq/constants"
)

// UnknownMerchant is the sentinel merchant name used when no candidate
// line qualifies.
const UnknownMerchant = "Unknown Merchant"

// Fields is the structured record produced from raw OCR text.
// Every field has a documented default, so Parse is a total function:
// it never fails on unparseable content.
type Fields struct {
	TxDate      string             `json:"tx_date"` // YYYY-MM-DD, always a valid date
	DateFound   bool               `json:"date_found"`
	Merchant    string             `json:"merchant"` // never empty
	Category    constants.Category `json:"category"` // one of the closed set
	Amount      float64            `json:"amount"`   // >= 0, rounded to 2 decimals
	Description string             `json:"description"`
	RawText     string             `json:"raw_text"`
}

// Parser converts raw OCR text into Fields. It holds no mutable state:
// all pattern tables and keyword lists are package-level constants, so a
// single Parser is safe for concurrent use.
type Parser struct {
	now   func() time.Time
	trace func(*Trace)
}

type Option func(*Parser)

// WithClock overrides the processing-time source used for the default-date
// fallback. Tests use this to pin "today".
func WithClock(now func() time.Time) Option {
	return func(p *Parser) {
		if now != nil {
			p.now = now
		}
	}
}

// WithTrace installs a hook that receives the intermediate candidates and
// decisions of every Parse call. Useful for debugging misclassifications
// without giving up the pure-function contract.
func WithTrace(fn func(*Trace)) Option {
	return func(p *Parser) { p.trace = fn }
}

func New(opts ...Option) *Parser {
	p := &Parser{now: time.Now}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Parse runs the four extraction stages over rawText and assembles the
// record. Stages 1-3 (date, amount, merchant) are independent scans of the
// same text; stage 4 (category + description) consumes their results.
func (p *Parser) Parse(rawText string) Fields {
	tr := &Trace{}

	date, found := extractDate(rawText, tr)
	if !found {
		date = p.now().Format("2006-01-02")
	}
	amount := extractAmount(rawText, tr)
	merchant := extractMerchant(rawText, tr)
	category := classify(rawText, merchant, tr)
	description := describe(rawText, merchant, amount, date, found, tr)

	if p.trace != nil {
		p.trace(tr)
	}

	return Fields{
		TxDate:      date,
		DateFound:   found,
		Merchant:    merchant,
		Category:    category,
		Amount:      amount,
		Description: description,
		RawText:     rawText,
	}
}

// Sentinel returns the well-formed all-defaults record substituted by the
// pipeline when OCR produced no usable text. The parser itself is never
// invoked for such files.
func (p *Parser) Sentinel(rawText string) Fields {
	return Fields{
		TxDate:      p.now().Format("2006-01-02"),
		Merchant:    UnknownMerchant,
		Category:    constants.General,
		Amount:      0,
		Description: "Receipt could not be read",
		RawText:     rawText,
	}
}

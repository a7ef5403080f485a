package parser

import "github.com/cloudflare/ahocorasick"

// The fine itemization taxonomy: domain keyword lists used only to build
// richer descriptions. Independent of the classification taxonomy in
// classify.go; a hit here never changes the category.
type itemDomain struct {
	label    string
	keywords []string
}

var itemDomains = []itemDomain{
	{"Building materials", []string{
		"cement", "concrete", "lumber", "timber", "plywood", "drywall",
		"brick", "paint", "primer", "nails", "screws", "bolts", "hammer",
		"drill", "sandpaper", "tile", "grout", "insulation", "roofing",
		"gravel", "rebar", "mortar", "varnish", "sealant", "plaster",
	}},
	{"Medical items", []string{
		"prescription", "tablet", "capsule", "syrup", "ointment", "bandage",
		"gauze", "syringe", "vitamin", "antibiotic", "paracetamol",
		"ibuprofen", "aspirin", "consultation", "x-ray", "vaccine",
		"thermometer", "inhaler", "insulin", "antiseptic",
	}},
	{"Automotive parts", []string{
		"tyre", "tire", "brake", "clutch", "radiator", "alternator",
		"spark plug", "oil filter", "air filter", "windscreen", "wiper",
		"exhaust", "suspension", "gearbox", "headlight", "bumper",
		"oil change", "wheel alignment", "coolant", "fan belt",
	}},
	{"Food items", []string{
		"bread", "milk", "eggs", "cheese", "butter", "rice", "pasta",
		"sugar", "flour", "juice", "chicken", "beef", "fish", "apples",
		"bananas", "tomatoes", "potatoes", "onions", "cereal", "yogurt",
		"chocolate", "biscuits", "margarine", "jam",
	}},
	{"Office supplies", []string{
		"pens", "pencils", "stapler", "staples", "envelopes", "folders",
		"binder", "toner", "ink cartridge", "notebook", "whiteboard",
		"markers", "paperclips", "printer paper", "laminating", "shredder",
		"diary", "highlighter", "labels", "copy paper",
	}},
}

// A single Aho-Corasick matcher over every domain keyword: one pass over
// the text finds all distinct hits in the order they appear.
var (
	itemMatcher *ahocorasick.Matcher
	itemRefs    []itemRef // pattern index -> owning domain + keyword
)

type itemRef struct {
	domain  int
	keyword string
}

func init() {
	var patterns []string
	for di, d := range itemDomains {
		for _, kw := range d.keywords {
			patterns = append(patterns, kw)
			itemRefs = append(itemRefs, itemRef{domain: di, keyword: kw})
		}
	}
	itemMatcher = ahocorasick.NewStringMatcher(patterns)
}

package model

// Document is the checklist content: an ordered list of chapters.
// It is loaded once and treated as read-only afterwards.
type Document struct {
	Chapters []Chapter `json:"chapters"`
}

type Chapter struct {
	Title    string    `json:"chapter"`
	Summary  string    `json:"summary"`
	Sections []Section `json:"sections"`
}

type Section struct {
	Title string `json:"title"`
	Items []Item `json:"items"`
}

// Item is one checklist entry. Content is always exactly one of Prose or Equation.
type Item struct {
	Label   string
	Content Content

	// Derivation holds optional expandable steps shown under the item.
	Derivation []DerivationEntry
	// DerivationSummary overrides the expand/collapse caption when set.
	DerivationSummary string
}

// Content is the body of an item.
type Content interface {
	isContent()
}

// Prose is a plain text item. Detail is used when the item has a label;
// Text is the fallback body.
type Prose struct {
	Detail string
	Text   string
}

// Equation is an item whose body is one or more TeX expressions.
type Equation struct {
	Lines []string
}

func (Prose) isContent()    {}
func (Equation) isContent() {}

// DerivationEntry is one block of an item's derivation.
type DerivationEntry interface {
	isDerivationEntry()
}

type DerivHeading struct {
	Text string
}

type DerivEquation struct {
	Tex     string
	Display bool
}

type DerivList struct {
	Items []string
}

type DerivText struct {
	Text string
}

func (DerivHeading) isDerivationEntry()  {}
func (DerivEquation) isDerivationEntry() {}
func (DerivList) isDerivationEntry()     {}
func (DerivText) isDerivationEntry()     {}

// ItemCount returns the number of items across all chapters.
func (d Document) ItemCount() int {
	n := 0
	for _, ch := range d.Chapters {
		n += ch.ItemCount()
	}
	return n
}

func (c Chapter) ItemCount() int {
	n := 0
	for _, s := range c.Sections {
		n += len(s.Items)
	}
	return n
}

// IsEquation reports whether the item body is an Equation.
func (it Item) IsEquation() bool {
	_, ok := it.Content.(Equation)
	return ok
}

// HasDerivation reports whether the item carries derivation steps.
func (it Item) HasDerivation() bool {
	return len(it.Derivation) > 0
}

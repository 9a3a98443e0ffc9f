// internal/models/card.go
package models

// Card is a single UNO card encoded as its face label: a color letter
// followed by a rank ("R5", "GSkip", "BDraw2"), or a bare wild label
// ("Wild", "WildDraw4"). Cards are value types; two cards with the same
// label are interchangeable.
type Card string

// Colors holds the four color prefixes in canonical order.
var Colors = []string{"R", "G", "B", "Y"}

// Actions holds the colored action ranks; the deck carries two of each per color.
var Actions = []string{"Skip", "Reverse", "Draw2"}

// Wilds holds the colorless wild labels; the deck carries four of each.
var Wilds = []Card{"Wild", "WildDraw4"}

// IsWild reports whether the card is a Wild or WildDraw4.
func (c Card) IsWild() bool {
	return c == "Wild" || c == "WildDraw4"
}

// Color returns the single-letter color prefix, or "" for wild cards.
func (c Card) Color() string {
	if c.IsWild() || len(c) == 0 {
		return ""
	}
	return string(c[0])
}

// Rank returns the numeric or action portion of the label, or the full
// label for wild cards, so that "R5"/"B5" share a rank and "Wild" is its
// own rank.
func (c Card) Rank() string {
	if c.IsWild() {
		return string(c)
	}
	if len(c) < 2 {
		return ""
	}
	return string(c[1:])
}

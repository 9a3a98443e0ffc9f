// internal/game/rules.go
package game

import "github.com/mfigueroa/uno/internal/models"

// IsValidPlay reports whether card may legally be played on top of current.
//
// Wild cards are always legal, and any card is legal on top of a wild: the
// color a wild stands for is never declared or tracked. Otherwise the card
// must match the current card's color or rank. Action cards participate in
// legality only; Skip/Reverse/Draw2 effects on turn order are not modeled.
func IsValidPlay(card, current models.Card) bool {
	if card.IsWild() {
		return true
	}
	if current.IsWild() {
		return true
	}
	return card.Color() == current.Color() || card.Rank() == current.Rank()
}

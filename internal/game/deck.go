// internal/game/deck.go
package game

import (
	"math/rand"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/mfigueroa/uno/internal/models"
)

// DeckSize is the canonical number of cards in a full deck. The sum of the
// draw pile, discard pile, and every hand in a room equals this at all times.
const DeckSize = 108

// InitialHandSize is the number of cards dealt to each seat at game start.
const InitialHandSize = 7

// BuildDeck produces the canonical deck: per color one 0, two each of 1-9,
// two each of Skip/Reverse/Draw2, plus four Wild and four WildDraw4. The
// composition is fixed; ordering is the caller's problem.
func BuildDeck() []models.Card {
	deck := make([]models.Card, 0, DeckSize)
	for _, color := range models.Colors {
		deck = append(deck, models.Card(color+"0"))
		for n := 1; n <= 9; n++ {
			c := models.Card(color + strconv.Itoa(n))
			deck = append(deck, c, c)
		}
		for _, action := range models.Actions {
			c := models.Card(color + action)
			deck = append(deck, c, c)
		}
	}
	for _, wild := range models.Wilds {
		for i := 0; i < 4; i++ {
			deck = append(deck, wild)
		}
	}
	return deck
}

// ShuffleDeck permutes cards in place with a time-seeded source and returns
// the same slice.
func ShuffleDeck(cards []models.Card) []models.Card {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	r.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
	return cards
}

// dealInitialHands removes InitialHandSize cards per seat from the front of
// the deck, in roster order, and returns the hands plus the remaining deck.
func dealInitialHands(playerIDs []uuid.UUID, deck []models.Card) (map[uuid.UUID][]models.Card, []models.Card) {
	hands := make(map[uuid.UUID][]models.Card, len(playerIDs))
	for _, id := range playerIDs {
		hand := make([]models.Card, InitialHandSize)
		copy(hand, deck[:InitialHandSize])
		deck = deck[InitialHandSize:]
		hands[id] = hand
	}
	return hands, deck
}

// pickStartingCard pops cards off the front of the deck until a non-wild
// card turns up, requeueing each skipped wild at the back. If the search
// exhausts the deck the last popped card stands even if it is wild; that
// fallback is an accepted degenerate opening, not an error.
func pickStartingCard(deck []models.Card) (models.Card, []models.Card) {
	if len(deck) == 0 {
		return "", deck
	}
	var first models.Card
	for attempts := len(deck); ; attempts-- {
		first = deck[0]
		deck = deck[1:]
		if !first.IsWild() || attempts <= 1 || len(deck) == 0 {
			return first, deck
		}
		deck = append(deck, first)
	}
}

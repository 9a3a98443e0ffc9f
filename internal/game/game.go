// internal/game/game.go
package game

import (
	"log"

	"github.com/google/uuid"
	"github.com/mfigueroa/uno/internal/models"
)

// Game is the authoritative turn state for one room once all four seats
// fill. The owning room serializes every call under its lock; nothing here
// locks on its own.
type Game struct {
	// Players is the seating order fixed at start. Leaving players are
	// removed, shrinking the turn order; no seats are refilled mid-game.
	Players []uuid.UUID

	// Hands maps each seat to its cards. A departed player's hand stays in
	// the map, abandoned, so the full-deck conservation invariant holds.
	Hands map[uuid.UUID][]models.Card

	Deck        []models.Card
	DiscardPile []models.Card
	CurrentCard models.Card
	TurnIndex   int
}

// NewGame deals InitialHandSize cards to each seat from the front of the
// supplied deck in roster order, exposes a starting card, and returns the
// in-play state. The starting card seeds the discard pile, which is never
// empty afterwards.
func NewGame(playerIDs []uuid.UUID, deck []models.Card) *Game {
	players := make([]uuid.UUID, len(playerIDs))
	copy(players, playerIDs)

	hands, deck := dealInitialHands(players, deck)
	first, deck := pickStartingCard(deck)

	return &Game{
		Players:     players,
		Hands:       hands,
		Deck:        deck,
		DiscardPile: []models.Card{first},
		CurrentCard: first,
		TurnIndex:   0,
	}
}

// CurrentPlayer returns the only seat allowed to act.
func (g *Game) CurrentPlayer() uuid.UUID {
	return g.Players[g.TurnIndex]
}

// Draw moves the top card of the draw pile into playerID's hand. Drawing
// never ends the turn. When the draw pile is empty, the discard pile minus
// its retained top card is reshuffled into a fresh draw pile; if that still
// yields nothing (fewer than two cards ever discarded) ErrNoCardsAvailable
// is returned with no state mutated.
func (g *Game) Draw(playerID uuid.UUID) (models.Card, error) {
	if playerID != g.CurrentPlayer() {
		return "", ErrNotYourTurn
	}
	if len(g.Deck) == 0 {
		if len(g.DiscardPile) <= 1 {
			return "", ErrNoCardsAvailable
		}
		top := g.DiscardPile[len(g.DiscardPile)-1]
		rest := make([]models.Card, len(g.DiscardPile)-1)
		copy(rest, g.DiscardPile[:len(g.DiscardPile)-1])
		g.Deck = ShuffleDeck(rest)
		g.DiscardPile = []models.Card{top}
		log.Printf("game: draw pile exhausted, reshuffled %d discard card(s)", len(g.Deck))
	}
	card := g.Deck[0]
	g.Deck = g.Deck[1:]
	g.Hands[playerID] = append(g.Hands[playerID], card)
	return card, nil
}

// Play validates that playerID holds card and that it is legal on the
// current card, then moves it to the top of the discard pile and advances
// the turn one seat. Duplicates are interchangeable; the first matching
// hand index is removed.
func (g *Game) Play(playerID uuid.UUID, card models.Card) error {
	if playerID != g.CurrentPlayer() {
		return ErrNotYourTurn
	}
	hand := g.Hands[playerID]
	idx := -1
	for i, c := range hand {
		if c == card {
			idx = i
			break
		}
	}
	if idx == -1 {
		return ErrCardNotHeld
	}
	if !IsValidPlay(card, g.CurrentCard) {
		return ErrIllegalPlay
	}
	g.Hands[playerID] = append(hand[:idx], hand[idx+1:]...)
	g.DiscardPile = append(g.DiscardPile, card)
	g.CurrentCard = card
	g.TurnIndex = (g.TurnIndex + 1) % len(g.Players)
	return nil
}

// EndTurn passes the turn without playing. Draw deliberately does not end
// the turn, so a player who drew and cannot or will not play yields with
// this instead.
func (g *Game) EndTurn(playerID uuid.UUID) error {
	if playerID != g.CurrentPlayer() {
		return ErrNotYourTurn
	}
	g.TurnIndex = (g.TurnIndex + 1) % len(g.Players)
	return nil
}

// RemovePlayer drops playerID from the turn order, preserving the order of
// the remaining seats; play continues with the shrunken roster. The
// abandoned hand stays in Hands. TurnIndex is adjusted so the seat that was
// due to act next still acts next.
func (g *Game) RemovePlayer(playerID uuid.UUID) {
	idx := -1
	for i, id := range g.Players {
		if id == playerID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return
	}
	g.Players = append(g.Players[:idx], g.Players[idx+1:]...)
	if len(g.Players) == 0 {
		g.TurnIndex = 0
		return
	}
	if idx < g.TurnIndex {
		g.TurnIndex--
	}
	g.TurnIndex %= len(g.Players)
}

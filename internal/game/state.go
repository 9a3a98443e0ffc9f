// internal/game/state.go
package game

import "github.com/mfigueroa/uno/internal/models"

// State is the wire snapshot broadcast to every seat after each accepted
// action. The server is authoritative, so the full state, hands included,
// goes to everyone; clients render what they are told.
type State struct {
	Players     []string                 `json:"players"`
	Hands       map[string][]models.Card `json:"hands"`
	DiscardPile []models.Card            `json:"discardPile"`
	CurrentCard models.Card              `json:"currentCard"`
	TurnIndex   int                      `json:"turnIndex"`
}

// Snapshot deep-copies the game into a State that is safe to marshal after
// the room lock is released.
func (g *Game) Snapshot() State {
	st := State{
		Players:     make([]string, len(g.Players)),
		Hands:       make(map[string][]models.Card, len(g.Hands)),
		DiscardPile: append([]models.Card(nil), g.DiscardPile...),
		CurrentCard: g.CurrentCard,
		TurnIndex:   g.TurnIndex,
	}
	for i, id := range g.Players {
		st.Players[i] = id.String()
	}
	for id, hand := range g.Hands {
		st.Hands[id.String()] = append([]models.Card(nil), hand...)
	}
	return st
}

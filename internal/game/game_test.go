// internal/game/game_test.go
package game

import (
	"testing"

	"github.com/google/uuid"
	"github.com/mfigueroa/uno/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newFixedGame builds a 4-player game with a hand-picked layout so tests
// don't depend on shuffle order.
func newFixedGame() (*Game, []uuid.UUID) {
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New(), uuid.New()}
	g := &Game{
		Players: append([]uuid.UUID(nil), ids...),
		Hands: map[uuid.UUID][]models.Card{
			ids[0]: {"R5", "R9", "B5", "B7", "Wild"},
			ids[1]: {"G2", "GSkip", "Y0"},
			ids[2]: {"YDraw2", "B1"},
			ids[3]: {"RReverse"},
		},
		Deck:        []models.Card{"G7", "B9", "Y4"},
		DiscardPile: []models.Card{"R3"},
		CurrentCard: "R3",
		TurnIndex:   0,
	}
	return g, ids
}

// totalCards sums every pile so conservation checks read cleanly.
func totalCards(g *Game) int {
	n := len(g.Deck) + len(g.DiscardPile)
	for _, hand := range g.Hands {
		n += len(hand)
	}
	return n
}

func TestNewGameDeal(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New(), uuid.New()}
	g := NewGame(ids, ShuffleDeck(BuildDeck()))

	require.NotNil(t, g)
	assert.Equal(t, ids, g.Players)
	for _, id := range ids {
		assert.Len(t, g.Hands[id], InitialHandSize)
	}
	require.Len(t, g.DiscardPile, 1)
	assert.Equal(t, g.DiscardPile[0], g.CurrentCard)
	assert.False(t, g.CurrentCard.IsWild(), "a full deck always yields a non-wild opener")
	assert.Equal(t, 0, g.TurnIndex)
	assert.Equal(t, DeckSize, totalCards(g))
}

func TestIsValidPlay(t *testing.T) {
	cases := []struct {
		card    models.Card
		current models.Card
		want    bool
	}{
		{"R9", "R5", true},  // color match
		{"B5", "R5", true},  // rank match
		{"B7", "R5", false}, // neither
		{"Wild", "R5", true},
		{"WildDraw4", "R5", true},
		{"B7", "Wild", true}, // anything on a wild
		{"GSkip", "RSkip", true},
		{"GSkip", "G4", true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, IsValidPlay(tc.card, tc.current), "%s on %s", tc.card, tc.current)
	}
}

func TestPlayOutOfTurn(t *testing.T) {
	g, ids := newFixedGame()

	err := g.Play(ids[1], "G2")
	assert.ErrorIs(t, err, ErrNotYourTurn)
	assert.Equal(t, 0, g.TurnIndex)

	_, err = g.Draw(ids[2])
	assert.ErrorIs(t, err, ErrNotYourTurn)

	err = g.EndTurn(ids[3])
	assert.ErrorIs(t, err, ErrNotYourTurn)
}

func TestPlayCardNotHeld(t *testing.T) {
	g, ids := newFixedGame()

	err := g.Play(ids[0], "G9")
	assert.ErrorIs(t, err, ErrCardNotHeld)
	assert.Equal(t, models.Card("R3"), g.CurrentCard)
	assert.Len(t, g.Hands[ids[0]], 5)
}

func TestPlayIllegalCard(t *testing.T) {
	g, ids := newFixedGame()

	// B7 matches neither color R nor rank 3.
	err := g.Play(ids[0], "B7")
	assert.ErrorIs(t, err, ErrIllegalPlay)
	assert.Equal(t, models.Card("R3"), g.CurrentCard)
	assert.Len(t, g.Hands[ids[0]], 5)
	assert.Equal(t, 0, g.TurnIndex)
}

func TestPlayAdvancesTurn(t *testing.T) {
	g, ids := newFixedGame()
	before := totalCards(g)

	require.NoError(t, g.Play(ids[0], "R5"))
	assert.Equal(t, models.Card("R5"), g.CurrentCard)
	assert.Equal(t, []models.Card{"R3", "R5"}, g.DiscardPile)
	assert.Len(t, g.Hands[ids[0]], 4)
	assert.Equal(t, 1, g.TurnIndex)
	assert.Equal(t, before, totalCards(g))

	// G2 matches neither the color nor the rank of R5.
	err := g.Play(ids[1], "G2")
	assert.ErrorIs(t, err, ErrIllegalPlay)

	require.NoError(t, g.EndTurn(ids[1]))
	assert.Equal(t, 2, g.TurnIndex)
}

func TestPlayWildAlwaysLegal(t *testing.T) {
	g, ids := newFixedGame()

	require.NoError(t, g.Play(ids[0], "Wild"))
	assert.Equal(t, models.Card("Wild"), g.CurrentCard)

	// Any card goes on a wild.
	require.NoError(t, g.EndTurn(ids[1]))
	require.NoError(t, g.EndTurn(ids[2]))
	require.NoError(t, g.Play(ids[3], "RReverse"))
	assert.Equal(t, models.Card("RReverse"), g.CurrentCard)
}

func TestDrawDoesNotAdvanceTurn(t *testing.T) {
	g, ids := newFixedGame()

	card, err := g.Draw(ids[0])
	require.NoError(t, err)
	assert.Equal(t, models.Card("G7"), card)
	assert.Equal(t, 0, g.TurnIndex)
	assert.Contains(t, g.Hands[ids[0]], models.Card("G7"))
	assert.Len(t, g.Deck, 2)

	// Same player may keep drawing.
	card, err = g.Draw(ids[0])
	require.NoError(t, err)
	assert.Equal(t, models.Card("B9"), card)
	assert.Equal(t, 0, g.TurnIndex)
}

func TestDrawReshufflesDiscard(t *testing.T) {
	g, ids := newFixedGame()
	g.Deck = nil
	g.DiscardPile = []models.Card{"R1", "R5", "B3"}
	g.CurrentCard = "B3"

	card, err := g.Draw(ids[0])
	require.NoError(t, err)

	// The retained top card stays on the discard pile; the drawn card is
	// one of the two reshuffled ones and the other becomes the deck.
	assert.Equal(t, []models.Card{"B3"}, g.DiscardPile)
	assert.Contains(t, []models.Card{"R1", "R5"}, card)
	require.Len(t, g.Deck, 1)
	assert.Contains(t, []models.Card{"R1", "R5"}, g.Deck[0])
	assert.NotEqual(t, card, g.Deck[0])
	assert.Equal(t, models.Card("B3"), g.CurrentCard)
}

func TestDrawNoCardsAvailable(t *testing.T) {
	g, ids := newFixedGame()
	g.Deck = nil
	g.DiscardPile = []models.Card{"R3"}

	handBefore := append([]models.Card(nil), g.Hands[ids[0]]...)

	_, err := g.Draw(ids[0])
	assert.ErrorIs(t, err, ErrNoCardsAvailable)

	// Nothing moved: state must be untouched on failure.
	assert.Empty(t, g.Deck)
	assert.Equal(t, []models.Card{"R3"}, g.DiscardPile)
	assert.Equal(t, handBefore, g.Hands[ids[0]])
	assert.Equal(t, 0, g.TurnIndex)
}

func TestCardConservationAcrossActions(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New(), uuid.New()}
	g := NewGame(ids, ShuffleDeck(BuildDeck()))

	for i := 0; i < 40; i++ {
		current := g.CurrentPlayer()
		played := false
		for _, c := range g.Hands[current] {
			if IsValidPlay(c, g.CurrentCard) {
				require.NoError(t, g.Play(current, c))
				played = true
				break
			}
		}
		if !played {
			_, err := g.Draw(current)
			if err != nil {
				require.ErrorIs(t, err, ErrNoCardsAvailable)
			}
			require.NoError(t, g.EndTurn(current))
		}
		assert.Equal(t, DeckSize, totalCards(g), "after action %d", i)
	}
}

func TestRemovePlayerBeforeCurrent(t *testing.T) {
	g, ids := newFixedGame()
	g.TurnIndex = 2
	before := totalCards(g)

	g.RemovePlayer(ids[0])

	require.Len(t, g.Players, 3)
	assert.Equal(t, []uuid.UUID{ids[1], ids[2], ids[3]}, g.Players)
	// The seat that was due to act still acts.
	assert.Equal(t, ids[2], g.CurrentPlayer())
	// The abandoned hand stays put, so no cards leave the table.
	assert.Len(t, g.Hands[ids[0]], 5)
	assert.Equal(t, before, totalCards(g))
}

func TestRemoveCurrentPlayer(t *testing.T) {
	g, ids := newFixedGame()
	g.TurnIndex = 1

	g.RemovePlayer(ids[1])

	require.Len(t, g.Players, 3)
	// Turn passes to the seat that followed the departed one.
	assert.Equal(t, ids[2], g.CurrentPlayer())
}

func TestRemoveLastSeatWrapsTurn(t *testing.T) {
	g, ids := newFixedGame()
	g.TurnIndex = 3

	g.RemovePlayer(ids[3])

	require.Len(t, g.Players, 3)
	assert.Equal(t, 0, g.TurnIndex)
	assert.Equal(t, ids[0], g.CurrentPlayer())
}

func TestRemoveUnknownPlayerIsNoop(t *testing.T) {
	g, ids := newFixedGame()
	g.RemovePlayer(uuid.New())
	assert.Equal(t, ids, g.Players)
	assert.Equal(t, 0, g.TurnIndex)
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	g, ids := newFixedGame()
	st := g.Snapshot()

	st.Hands[ids[0].String()][0] = "Y9"
	st.DiscardPile[0] = "Y9"

	assert.Equal(t, models.Card("R5"), g.Hands[ids[0]][0])
	assert.Equal(t, models.Card("R3"), g.DiscardPile[0])
}

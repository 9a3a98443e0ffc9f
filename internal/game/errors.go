// internal/game/errors.go
package game

import "errors"

// Engine errors are caller-local: the gateway reports them to the issuing
// connection only. None of them leave the game state mutated.
var (
	ErrNotYourTurn      = errors.New("it is not your turn")
	ErrCardNotHeld      = errors.New("you do not hold that card")
	ErrIllegalPlay      = errors.New("card cannot be played on the current card")
	ErrNoCardsAvailable = errors.New("no cards available to draw")

	// ErrNotStarted marks actions issued before four seats are filled; the
	// gateway drops these silently rather than replying.
	ErrNotStarted = errors.New("game has not started")
)

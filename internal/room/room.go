// internal/room/room.go
package room

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mfigueroa/uno/internal/cache"
	"github.com/mfigueroa/uno/internal/game"
	"github.com/mfigueroa/uno/internal/models"
)

// MaxSeats is the fixed room capacity; the game starts the moment the last
// seat fills.
const MaxSeats = 4

// EventType tags an outbound gateway message.
type EventType string

const (
	EventRoomCreated EventType = "room_created"
	EventPlayerList  EventType = "player_list"
	EventGameStarted EventType = "game_started"
	EventGameState   EventType = "game_state"
	EventCardDrawn   EventType = "card_drawn"
	EventError       EventType = "error"
)

// Event is the uniform payload shape delivered to clients. Fields are
// omitted when empty so each event type carries only what it needs.
type Event struct {
	Type    EventType     `json:"type"`
	Room    string        `json:"room,omitempty"`
	Players []string      `json:"players,omitempty"`
	State   *game.State   `json:"state,omitempty"`
	Card    models.Card   `json:"card,omitempty"`
	Hand    []models.Card `json:"hand,omitempty"`
	Message string        `json:"message,omitempty"`
}

// Room aggregates one session: a draw pile built and shuffled at creation,
// the seated players in join order, and the turn state once the table is
// full. Every mutation is serialized under Mu. Rooms never share locks, so
// play in one room cannot block another.
type Room struct {
	Code string

	Players []*models.Player

	// Deck is the shuffled draw pile while the room is in the lobby state.
	// Ownership moves to Game when the fourth seat fills.
	Deck []models.Card

	// Game is nil until MaxSeats players are seated.
	Game *game.Game

	// BroadcastFn delivers an event to every seat; BroadcastToPlayerFn to a
	// single seat. Both are fire-and-forget: the engine never waits for
	// delivery. If nil, delivery is skipped.
	BroadcastFn         func(ev Event)
	BroadcastToPlayerFn func(playerID uuid.UUID, ev Event)

	// OnEmpty is invoked after the last player leaves so the registry can
	// discard the room.
	OnEmpty func(code string)

	// JournalFn receives each accepted action's journal record. When nil,
	// records are published asynchronously to the shared Redis queue.
	// Called with the room lock held; implementations must not call back
	// into the room.
	JournalFn func(rec cache.RoomActionRecord)

	Mu sync.Mutex

	actionIndex int
}

// NewRoom builds and shuffles a fresh deck and seats owner as the only
// player. The game state stays absent until the room fills.
func NewRoom(code string, owner *models.Player) *Room {
	return &Room{
		Code:    code,
		Players: []*models.Player{owner},
		Deck:    game.ShuffleDeck(game.BuildDeck()),
	}
}

// AddPlayer seats p at the end of the join order. Filling the fourth seat
// starts the game: hands are dealt, a starting card is exposed, and both
// the roster and the in-play state are broadcast.
func (r *Room) AddPlayer(p *models.Player) error {
	r.Mu.Lock()
	if len(r.Players) >= MaxSeats {
		r.Mu.Unlock()
		return ErrRoomFull
	}
	r.Players = append(r.Players, p)
	r.logAction(p.ID, "join_room", nil)

	var started *game.State
	if len(r.Players) == MaxSeats && r.Game == nil {
		ids := make([]uuid.UUID, len(r.Players))
		for i, pl := range r.Players {
			ids[i] = pl.ID
		}
		r.Game = game.NewGame(ids, r.Deck)
		r.Deck = nil // the game owns the draw pile from here on
		st := r.Game.Snapshot()
		started = &st
		r.logAction(uuid.Nil, "game_start", map[string]interface{}{"players": len(ids)})
		log.Printf("room %s: fourth seat filled, game started", r.Code)
	}
	roster := r.rosterUnsafe()
	r.Mu.Unlock()

	r.broadcast(Event{Type: EventPlayerList, Room: r.Code, Players: roster})
	if started != nil {
		r.broadcast(Event{Type: EventGameStarted, Room: r.Code, State: started})
	}
	return nil
}

// HandleDraw draws a card for playerID. On success the updated state goes
// to the whole room and the drawn card, with the caller's refreshed hand,
// goes privately to the caller. Drawing does not advance the turn.
func (r *Room) HandleDraw(playerID uuid.UUID) error {
	r.Mu.Lock()
	if r.Game == nil {
		r.Mu.Unlock()
		return game.ErrNotStarted
	}
	card, err := r.Game.Draw(playerID)
	if err != nil {
		r.Mu.Unlock()
		return err
	}
	hand := append([]models.Card(nil), r.Game.Hands[playerID]...)
	st := r.Game.Snapshot()
	r.logAction(playerID, "draw_card", map[string]interface{}{"deckSize": len(r.Game.Deck)})
	r.Mu.Unlock()

	r.broadcast(Event{Type: EventGameState, Room: r.Code, State: &st})
	r.broadcastTo(playerID, Event{Type: EventCardDrawn, Room: r.Code, Card: card, Hand: hand})
	return nil
}

// HandlePlay plays card for playerID and, on success, broadcasts the
// updated state. Validation failures are returned without mutation or
// broadcast.
func (r *Room) HandlePlay(playerID uuid.UUID, card models.Card) error {
	r.Mu.Lock()
	if r.Game == nil {
		r.Mu.Unlock()
		return game.ErrNotStarted
	}
	if err := r.Game.Play(playerID, card); err != nil {
		r.Mu.Unlock()
		return err
	}
	st := r.Game.Snapshot()
	r.logAction(playerID, "play_card", map[string]interface{}{"card": string(card)})
	r.Mu.Unlock()

	r.broadcast(Event{Type: EventGameState, Room: r.Code, State: &st})
	return nil
}

// HandleEndTurn yields the caller's turn without playing and broadcasts the
// updated state.
func (r *Room) HandleEndTurn(playerID uuid.UUID) error {
	r.Mu.Lock()
	if r.Game == nil {
		r.Mu.Unlock()
		return game.ErrNotStarted
	}
	if err := r.Game.EndTurn(playerID); err != nil {
		r.Mu.Unlock()
		return err
	}
	st := r.Game.Snapshot()
	r.logAction(playerID, "end_turn", nil)
	r.Mu.Unlock()

	r.broadcast(Event{Type: EventGameState, Room: r.Code, State: &st})
	return nil
}

// RemovePlayer unseats playerID, preserving the order of the remaining
// seats. Mid-game the turn order shrinks and play continues; the departed
// hand is abandoned. When the last seat empties, OnEmpty fires so the
// registry can discard the room; nothing is broadcast to an empty room.
func (r *Room) RemovePlayer(playerID uuid.UUID) {
	r.Mu.Lock()
	idx := -1
	for i, p := range r.Players {
		if p.ID == playerID {
			idx = i
			break
		}
	}
	if idx == -1 {
		r.Mu.Unlock()
		return
	}
	r.Players = append(r.Players[:idx], r.Players[idx+1:]...)
	if r.Game != nil {
		r.Game.RemovePlayer(playerID)
	}
	r.logAction(playerID, "leave_room", nil)
	roster := r.rosterUnsafe()
	empty := len(r.Players) == 0
	onEmpty := r.OnEmpty
	r.Mu.Unlock()

	if empty {
		if onEmpty != nil {
			onEmpty(r.Code)
		}
		return
	}
	r.broadcast(Event{Type: EventPlayerList, Room: r.Code, Players: roster})
}

// Roster returns the current seat order as player id strings.
func (r *Room) Roster() []string {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	return r.rosterUnsafe()
}

// View is the read-only summary returned by the room list endpoint.
type View struct {
	Code    string   `json:"code"`
	Players []string `json:"players"`
	InPlay  bool     `json:"inPlay"`
}

// View snapshots the room for listing.
func (r *Room) View() View {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	return View{Code: r.Code, Players: r.rosterUnsafe(), InPlay: r.Game != nil}
}

// rosterUnsafe returns the seat order. Assumes lock is held.
func (r *Room) rosterUnsafe() []string {
	ids := make([]string, len(r.Players))
	for i, p := range r.Players {
		ids[i] = p.ID.String()
	}
	return ids
}

// broadcast delivers ev to every seat. Call without the lock held.
func (r *Room) broadcast(ev Event) {
	if r.BroadcastFn != nil {
		r.BroadcastFn(ev)
	}
}

// broadcastTo delivers ev to a single seat. Call without the lock held.
func (r *Room) broadcastTo(playerID uuid.UUID, ev Event) {
	if r.BroadcastToPlayerFn != nil {
		r.BroadcastToPlayerFn(playerID, ev)
	}
}

// logAction publishes a journal record for an accepted mutation. Assumes
// lock is held, which makes the index sequence strictly increasing; the
// publish itself is asynchronous and best-effort.
func (r *Room) logAction(actor uuid.UUID, actionType string, payload map[string]interface{}) {
	rec := cache.RoomActionRecord{
		RoomCode:      r.Code,
		ActionIndex:   r.actionIndex,
		ActorID:       actor,
		ActionType:    actionType,
		ActionPayload: payload,
		Timestamp:     time.Now().UnixMilli(),
	}
	r.actionIndex++
	if r.JournalFn != nil {
		r.JournalFn(rec)
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := cache.PublishRoomAction(ctx, rec); err != nil {
			log.Printf("room %s: journal publish failed: %v", r.Code, err)
		}
	}()
}

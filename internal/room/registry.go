// internal/room/registry.go
package room

import (
	"errors"
	"log"
	"math/rand"
	"sync"

	"github.com/mfigueroa/uno/internal/models"
)

// Registry errors are reported to the issuing connection only, like the
// engine's own taxonomy.
var (
	ErrRoomNotFound = errors.New("room does not exist")
	ErrRoomFull     = errors.New("room is full")
)

const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength   = 6
)

// Registry tracks live rooms keyed by their short code. The registry mutex
// guards only the map; each room serializes its own mutations, so activity
// in one room never blocks another.
type Registry struct {
	mu    sync.Mutex
	rooms map[string]*Room

	// OnCreate, when set, runs on every new room before it becomes visible
	// in the registry. Delivery callbacks wired here are in place before
	// any other connection can find the room, so they are never written
	// again after publication.
	OnCreate func(r *Room)
}

// NewRegistry initializes and returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]*Room)}
}

// CreateRoom allocates a fresh room code, builds and shuffles a deck, and
// seats owner as the first player. Codes are re-rolled until they miss the
// live set, so two rooms can never share a code.
func (reg *Registry) CreateRoom(owner *models.Player) *Room {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	code := newCode()
	for {
		if _, taken := reg.rooms[code]; !taken {
			break
		}
		code = newCode()
	}

	r := NewRoom(code, owner)
	r.OnEmpty = func(code string) { reg.Delete(code) }
	if reg.OnCreate != nil {
		reg.OnCreate(r)
	}
	reg.rooms[code] = r
	log.Printf("registry: created room %s for player %s", code, owner.ID)
	return r
}

// Join seats p in the room identified by code.
func (reg *Registry) Join(code string, p *models.Player) (*Room, error) {
	r, ok := reg.Get(code)
	if !ok {
		return nil, ErrRoomNotFound
	}
	if err := r.AddPlayer(p); err != nil {
		return nil, err
	}
	return r, nil
}

// Get retrieves a live room by its code.
func (reg *Registry) Get(code string) (*Room, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	r, ok := reg.rooms[code]
	return r, ok
}

// Delete removes a room from the registry. Typically reached through the
// room's OnEmpty callback.
func (reg *Registry) Delete(code string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if _, ok := reg.rooms[code]; ok {
		delete(reg.rooms, code)
		log.Printf("registry: destroyed room %s", code)
	}
}

// List returns a snapshot view of every live room, for the debug listing
// endpoint.
func (reg *Registry) List() []View {
	reg.mu.Lock()
	rooms := make([]*Room, 0, len(reg.rooms))
	for _, r := range reg.rooms {
		rooms = append(rooms, r)
	}
	reg.mu.Unlock()

	views := make([]View, 0, len(rooms))
	for _, r := range rooms {
		views = append(views, r.View())
	}
	return views
}

// newCode returns a random 6-character uppercase alphanumeric room code.
func newCode() string {
	b := make([]byte, codeLength)
	for i := range b {
		b[i] = codeAlphabet[rand.Intn(len(codeAlphabet))]
	}
	return string(b)
}

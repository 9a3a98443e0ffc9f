// internal/handlers/ws.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mfigueroa/uno/internal/game"
	"github.com/mfigueroa/uno/internal/middleware"
	"github.com/mfigueroa/uno/internal/models"
	"github.com/mfigueroa/uno/internal/room"
)

// Command is the closed set of inbound client messages. The gateway
// validates shape here; unknown or malformed commands are dropped without a
// reply, so clients must validate their payloads before dispatch.
type Command struct {
	Type string `json:"type"`

	// Room carries the target room code for join_room.
	Room string `json:"room,omitempty"`

	// Card carries the card label for play_card.
	Card models.Card `json:"card,omitempty"`
}

// session tracks one connection's identity and the room it currently
// occupies. A connection sits in at most one room.
type session struct {
	player *models.Player
	room   *room.Room
}

// WSHandler upgrades the connection for the game gateway, establishes the
// guest identity, and runs the command read loop until the client goes
// away. Disconnection is handled as an ordinary leave.
func WSHandler(logger *logrus.Logger, srv *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Identity first: the cookie must be set before the upgrade hijacks
		// the response.
		playerID, err := EnsureGuest(w, r)
		if err != nil {
			logger.Warnf("guest identity failed: %v", err)
			http.Error(w, "could not establish identity", http.StatusInternalServerError)
			return
		}

		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"uno"},
			OriginPatterns: []string{"*"}, // Adjust for production security.
		})
		if err != nil {
			logger.Warnf("websocket accept error: %v", err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "handler exit")

		if c.Subprotocol() != "uno" {
			c.Close(BadSubprotocolError, "client must speak the uno subprotocol")
			return
		}
		middleware.LogWebSocketConnect(logger, r.RemoteAddr, r.URL.Path)

		sess := &session{
			player: &models.Player{ID: playerID, Connected: true, Conn: c},
		}

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		readErr := readCommands(ctx, c, srv, sess, logger)

		// Cleanup: leaving is the only disconnect handling there is. The
		// room keeps playing with the shrunken roster; an empty room is
		// discarded by the registry.
		if sess.room != nil {
			sess.room.RemovePlayer(sess.player.ID)
			sess.room = nil
		}
		middleware.LogWebSocketDisconnect(logger, r.RemoteAddr, r.URL.Path, readErr)
	}
}

// readCommands reads and dispatches client commands until the connection
// closes or the context is cancelled. Returns the terminal read error, or
// nil for a normal closure.
func readCommands(ctx context.Context, c *websocket.Conn, srv *Server, sess *session, logger *logrus.Logger) error {
	for {
		msgType, data, err := c.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				return nil
			}
			if strings.Contains(err.Error(), "context canceled") {
				return nil
			}
			return err
		}

		if msgType != websocket.MessageText {
			logger.Warnf("player %s: non-text message type %d, ignoring", sess.player.ID, msgType)
			continue
		}

		var cmd Command
		if err := json.Unmarshal(data, &cmd); err != nil {
			// Malformed payloads are dropped, not answered.
			logger.Warnf("player %s: invalid command json: %v", sess.player.ID, err)
			continue
		}

		srv.dispatch(ctx, c, cmd, sess, logger)
	}
}

// dispatch routes a single validated command. Engine and registry errors
// are caller-local: they go back on the issuing connection only and never
// touch room state.
func (srv *Server) dispatch(ctx context.Context, c *websocket.Conn, cmd Command, sess *session, logger *logrus.Logger) {
	logger.Debugf("player %s: command %q", sess.player.ID, cmd.Type)

	switch cmd.Type {
	case "create_room":
		if sess.room != nil {
			sendError(c, "already in a room", logger)
			return
		}
		r := srv.Registry.CreateRoom(sess.player)
		sess.room = r
		r.BroadcastToPlayerFn(sess.player.ID, room.Event{Type: room.EventRoomCreated, Room: r.Code})
		r.BroadcastFn(room.Event{Type: room.EventPlayerList, Room: r.Code, Players: r.Roster()})

	case "join_room":
		if sess.room != nil {
			sendError(c, "already in a room", logger)
			return
		}
		if cmd.Room == "" {
			return // malformed, dropped
		}
		r, err := srv.Registry.Join(strings.ToUpper(cmd.Room), sess.player)
		if err != nil {
			sendError(c, err.Error(), logger)
			return
		}
		sess.room = r

	case "draw_card":
		if sess.room == nil {
			return
		}
		if err := sess.room.HandleDraw(sess.player.ID); err != nil {
			reportEngineError(c, err, logger)
		}

	case "play_card":
		if sess.room == nil {
			return
		}
		if cmd.Card == "" {
			return // malformed, dropped
		}
		if err := sess.room.HandlePlay(sess.player.ID, cmd.Card); err != nil {
			reportEngineError(c, err, logger)
		}

	case "end_turn":
		if sess.room == nil {
			return
		}
		if err := sess.room.HandleEndTurn(sess.player.ID); err != nil {
			reportEngineError(c, err, logger)
		}

	case "ping":
		sendEvent(c, map[string]string{"type": "pong"}, logger)

	default:
		// Unknown command types are ignored per the gateway contract.
		logger.Warnf("player %s: unknown command type %q, ignoring", sess.player.ID, cmd.Type)
	}
}

// reportEngineError sends an engine failure back to the caller, except for
// pre-start actions, which are dropped silently.
func reportEngineError(c *websocket.Conn, err error, logger *logrus.Logger) {
	if err == game.ErrNotStarted {
		return
	}
	sendError(c, err.Error(), logger)
}

// attachBroadcasts wires a room's outbound delivery to its players'
// websocket connections. Runs from the registry's OnCreate hook, before
// the room is visible to other connections, so the callbacks are never
// reassigned once anyone can read them. Writes run asynchronously with a
// short timeout; the engine never waits for delivery.
func attachBroadcasts(r *room.Room, logger *logrus.Logger) {
	r.BroadcastFn = func(ev room.Event) {
		r.Mu.Lock()
		targets := make([]*models.Player, 0, len(r.Players))
		for _, p := range r.Players {
			if p.Connected && p.Conn != nil {
				targets = append(targets, p)
			}
		}
		r.Mu.Unlock()

		data, err := json.Marshal(ev)
		if err != nil {
			logger.Errorf("failed to marshal %s event for room %s: %v", ev.Type, r.Code, err)
			return
		}
		go func() {
			for _, p := range targets {
				writeWithTimeout(p.Conn, data, logger)
			}
		}()
	}

	r.BroadcastToPlayerFn = func(playerID uuid.UUID, ev room.Event) {
		var target *websocket.Conn
		r.Mu.Lock()
		for _, p := range r.Players {
			if p.ID == playerID {
				if p.Connected && p.Conn != nil {
					target = p.Conn
				}
				break
			}
		}
		r.Mu.Unlock()
		if target == nil {
			return
		}

		data, err := json.Marshal(ev)
		if err != nil {
			logger.Errorf("failed to marshal private %s event for room %s: %v", ev.Type, r.Code, err)
			return
		}
		go writeWithTimeout(target, data, logger)
	}
}

// writeWithTimeout performs a single bounded websocket write. Failures are
// logged and otherwise ignored; the read loop detects dead connections.
func writeWithTimeout(c *websocket.Conn, data []byte, logger *logrus.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := c.Write(ctx, websocket.MessageText, data); err != nil {
		logger.Warnf("websocket write failed: %v", err)
	}
}

// sendEvent marshals and writes a message to a single connection.
func sendEvent(c *websocket.Conn, message interface{}, logger *logrus.Logger) {
	data, err := json.Marshal(message)
	if err != nil {
		logger.Errorf("failed to marshal outbound message: %v", err)
		return
	}
	writeWithTimeout(c, data, logger)
}

// sendError delivers a caller-local error notice.
func sendError(c *websocket.Conn, msg string, logger *logrus.Logger) {
	sendEvent(c, room.Event{Type: room.EventError, Message: msg}, logger)
}

package server

import (
	"strings"
	"sync/atomic"
	"unicode"

	"github.com/charmbracelet/log"

	"github.com/tomz197/archers/internal/game"
	"github.com/tomz197/archers/internal/loop/config"
	"github.com/tomz197/archers/internal/object"
	"github.com/tomz197/archers/internal/physics"
)

// ClientHandle represents a client's connection to the server. Its game is
// only touched by the server goroutine; the client reads Snapshot and
// EventsCh.
type ClientHandle struct {
	ID        int
	SessionID string
	Username  string
	EventsCh  chan ClientEvent // closed when the client is unregistered
	Logger    *log.Logger

	game     *game.Game
	snapshot atomic.Pointer[game.Snapshot]
}

// Snapshot returns the latest published frame of this client's duel.
func (h *ClientHandle) Snapshot() game.Snapshot {
	return *h.snapshot.Load()
}

func (h *ClientHandle) publish() {
	snap := h.game.Snapshot()
	h.snapshot.Store(&snap)
}

// send delivers an event, dropping it when the client is not keeping up.
func (h *ClientHandle) send(ev ClientEvent) {
	select {
	case h.EventsCh <- ev:
	default:
	}
}

// Command is one frame of player intent.
type Command struct {
	Aim          float64 // degrees to add to the bow angle
	ToggleCharge bool
	Confirm      bool // start, retry, next level or restart, depending on the screen
}

// Empty reports whether the command does nothing.
func (c Command) Empty() bool {
	return c.Aim == 0 && !c.ToggleCharge && !c.Confirm
}

// ClientCommand is a command from a specific client.
type ClientCommand struct {
	ClientID int
	Command  Command
}

// ClientEventType identifies the type of client event.
type ClientEventType int

const (
	EventHit ClientEventType = iota
	EventBounce
	EventShot
	EventStateChange
	EventServerShutdown
)

// ClientEvent is feedback sent from the server to one client.
type ClientEvent struct {
	Type ClientEventType

	Target object.Side // EventHit
	Damage int         // EventHit

	Pos physics.Vec2 // EventBounce, EventShot
	Vel physics.Vec2 // EventShot

	From, To game.State // EventStateChange
}

// sessionHooks forwards game feedback to the client and level results to the
// leaderboard.
type sessionHooks struct {
	server *Server
	handle *ClientHandle
}

var _ game.Hooks = sessionHooks{}

func (h sessionHooks) OnHit(target object.Side, damage int) {
	h.handle.send(ClientEvent{Type: EventHit, Target: target, Damage: damage})
}

func (h sessionHooks) OnShotFired(pos, vel physics.Vec2) {
	h.handle.send(ClientEvent{Type: EventShot, Pos: pos, Vel: vel})
}

func (h sessionHooks) OnBounce(pos physics.Vec2) {
	h.handle.send(ClientEvent{Type: EventBounce, Pos: pos})
}

func (h sessionHooks) OnStateChange(from, to game.State) {
	h.handle.send(ClientEvent{Type: EventStateChange, From: from, To: to})
	if to.Finished() {
		lv := h.handle.game.Level().ID
		h.handle.Logger.Info("level finished", "level", lv, "result", to)
		h.server.enqueueRecord(record{
			username: h.handle.Username,
			level:    lv,
			won:      to == game.StateGameWin,
		})
	}
}

// defaultUsername names clients that connect without one.
const defaultUsername = "archer"

// SanitizeUsername strips control characters and surrounding space and
// limits the name to MaxUsernameLength runes.
func SanitizeUsername(name string) string {
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, name)
	name = strings.TrimSpace(name)
	if r := []rune(name); len(r) > config.MaxUsernameLength {
		name = string(r[:config.MaxUsernameLength])
	}
	if name == "" {
		return defaultUsername
	}
	return name
}

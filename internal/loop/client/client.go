// Package client renders one player's duel in a terminal and turns key
// presses into server commands.
package client

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/tomz197/archers/internal/draw"
	"github.com/tomz197/archers/internal/game"
	"github.com/tomz197/archers/internal/input"
	"github.com/tomz197/archers/internal/loop/config"
	"github.com/tomz197/archers/internal/loop/server"
	"github.com/tomz197/archers/internal/object"
)

// Client handles rendering and input for a single connection.
type Client struct {
	server       server.GameServer
	handle       *server.ClientHandle
	state        *ClientState
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter // Accumulates UI text for chunked output
	writer       io.Writer
	inputStream  *input.Stream
	lastInput    time.Time
	termSizeFunc draw.TermSizeFunc
	styles       styles
	rng          *rand.Rand
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Username     string
	// Renderer styles the HUD for this connection's terminal. Defaults to a
	// renderer detecting the capabilities of the writer.
	Renderer *lipgloss.Renderer
}

// NewClient creates a new client connected to the given server.
func NewClient(gs server.GameServer, r *bufio.Reader, w io.Writer, opts ClientOptions) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	renderer := opts.Renderer
	if renderer == nil {
		renderer = lipgloss.NewRenderer(w)
	}

	termWidth, termHeight, _ := termSizeFunc()
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	canvas := draw.NewScaledCanvas(renderWidth, renderHeight, config.ViewWidth, config.ViewHeight)
	canvas.SetOffset(offsetCol, offsetRow)

	return &Client{
		server:       gs,
		handle:       gs.RegisterClient(opts.Username),
		state:        NewClientState(),
		canvas:       canvas,
		chunkWriter:  draw.NewChunkWriter(w, offsetCol, offsetRow),
		writer:       w,
		inputStream:  input.StartStream(r),
		lastInput:    time.Now(),
		termSizeFunc: termSizeFunc,
		styles:       newStyles(renderer),
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Username returns the name the server registered this client under.
func (c *Client) Username() string {
	return c.handle.Username
}

// Run starts the client loop. Blocks until the client quits, disconnects or
// the server stops.
func (c *Client) Run() error {
	draw.HideCursor(c.writer)
	defer draw.ShowCursor(c.writer)
	draw.ClearScreen(c.writer)
	defer c.server.UnregisterClient(c.handle.ID)

	lastTime := time.Now()
	for c.state.Running {
		frameStart := time.Now()
		c.state.delta = frameStart.Sub(lastTime)
		lastTime = frameStart

		c.processInput()
		c.processServerEvents()
		c.updateScreen()
		c.update()

		if err := c.drawFrame(); err != nil {
			return fmt.Errorf("draw frame: %w", err)
		}

		elapsed := time.Since(frameStart)
		if elapsed < config.ClientTargetFrameTime {
			time.Sleep(config.ClientTargetFrameTime - elapsed)
		}
	}

	c.state.clearEffects()
	draw.ClearScreen(c.writer)
	return nil
}

// processInput reads input and sends it to the server.
func (c *Client) processInput() {
	c.state.Input = input.ReadInput(c.inputStream)
	in := c.state.Input

	if in.Any() {
		c.lastInput = time.Now()
		c.state.isInactive = false
	} else if time.Since(c.lastInput).Seconds() > config.InactivityDisconnectUser {
		c.handle.Logger.Info("disconnecting inactive client")
		c.state.Running = false
	} else if time.Since(c.lastInput).Seconds() > config.InactivityWarnUser {
		c.state.isInactive = true
	}

	if in.Quit || c.inputStream.Closed() {
		c.state.Running = false
		return
	}
	if c.state.shuttingDown {
		return
	}

	c.server.SendCommand(c.handle.ID, commandFor(in, c.handle.Snapshot().State))
}

// commandFor maps a frame of key presses onto a command for the given
// screen. SPACE works as confirm outside of play, like ENTER.
func commandFor(in input.Input, state game.State) server.Command {
	if state != game.StatePlaying {
		return server.Command{Confirm: in.Enter || in.Space}
	}
	return server.Command{
		Aim:          float64(in.AimSteps()) * config.AimStep,
		ToggleCharge: in.Space,
	}
}

// processServerEvents handles events from the server.
func (c *Client) processServerEvents() {
	for {
		select {
		case event, ok := <-c.handle.EventsCh:
			if !ok {
				c.state.Running = false
				return
			}
			c.handleEvent(event)
		default:
			return
		}
	}
}

func (c *Client) handleEvent(event server.ClientEvent) {
	snap := c.handle.Snapshot()
	switch event.Type {
	case server.EventHit:
		at := snap.PlayerAnchor
		if event.Target == object.SideAI {
			at = snap.AIAnchor
		}
		c.state.addParticles(object.SpawnBurst(at, config.HitParticles, config.HitSpeed, config.HitLifetime, c.rng), config.MaxParticles)
		c.state.popups = append(c.state.popups, popup{
			target: event.Target,
			text:   fmt.Sprintf("-%d", event.Damage),
			ttl:    popupSeconds,
		})
	case server.EventBounce:
		c.state.addParticles(object.SpawnBurst(event.Pos, config.BounceParticles, config.BounceSpeed, config.BounceLifetime, c.rng), config.MaxParticles)
	case server.EventShot:
		c.state.addParticles(object.SpawnTrail(event.Pos, event.Vel.Angle(), c.rng), config.MaxParticles)
	case server.EventStateChange:
		if event.To != game.StatePlaying {
			input.ResetKeyInput(c.inputStream)
		}
		if event.From != game.StatePlaying {
			c.state.clearEffects()
		}
	case server.EventServerShutdown:
		c.state.shuttingDown = true
		c.state.shutdownTimer = config.ShutdownDisplaySeconds
	}
}

// update advances client-side effects and timers.
func (c *Client) update() {
	dt := c.state.delta.Seconds()
	c.state.updateEffects(dt)

	if snap := c.handle.Snapshot(); snap.Arrow.Active {
		c.state.addParticles(object.SpawnTrail(snap.Arrow.Pos, snap.Arrow.Angle, c.rng), config.MaxParticles)
	}

	if c.state.shuttingDown {
		c.state.shutdownTimer -= dt
		if c.state.shutdownTimer <= 0 {
			c.state.Running = false
		}
	}
}

// updateScreen handles terminal resize, clamping to max render resolution.
// On actual size changes, clears the terminal to remove residual pixels
// outside the new canvas area (e.g. old borders or offset content).
func (c *Client) updateScreen() {
	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	if renderWidth != c.canvas.TerminalWidth() || renderHeight != c.canvas.TerminalHeight() ||
		offsetCol != c.canvas.OffsetCol() || offsetRow != c.canvas.OffsetRow() {
		draw.ClearScreen(c.writer)
		c.canvas.ForceRedraw()
	}

	c.canvas.Resize(renderWidth, renderHeight)
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.chunkWriter.SetOffset(offsetCol, offsetRow)
	c.state.tooSmall = termWidth < config.MinTermWidth || termHeight < config.MinTermHeight
}

// clampTermSize clamps terminal dimensions to the max render resolution and computes
// the centering offset for the render area.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = min(termWidth, config.MaxTermWidth)
	renderHeight = min(termHeight, config.MaxTermHeight)
	offsetCol = (termWidth - renderWidth) / 2
	offsetRow = (termHeight - renderHeight) / 2
	return
}

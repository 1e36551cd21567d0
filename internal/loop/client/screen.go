package client

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/tomz197/archers/internal/draw"
	"github.com/tomz197/archers/internal/game"
	"github.com/tomz197/archers/internal/level"
	"github.com/tomz197/archers/internal/loop/config"
	"github.com/tomz197/archers/internal/object"
	"github.com/tomz197/archers/internal/physics"
)

const (
	hpBarWidth    = 10
	powerBarWidth = 20
	bowLength     = 30.0
	arrowLength   = 25.0
)

var titleArt = []string{
	`    _   ___  ___ _  _ ___ ___  ___ `,
	`   /_\ | _ \/ __| || | __| _ \/ __|`,
	`  / _ \|   / (__| __ | _||   /\__ \`,
	` /_/ \_\_|_\\___|_||_|___|_|_\|___/`,
}

// drawFrame draws the current frame.
func (c *Client) drawFrame() error {
	snap := c.handle.Snapshot()

	// On screen transitions, do a full terminal clear so UI elements from
	// the previous screen don't persist.
	if snap.State != c.state.prevGameState || c.state.isInactive != c.state.wasInactive ||
		c.state.shuttingDown != c.state.wasShutdown {
		c.chunkWriter.WriteString("\033[H\033[2J")
		c.canvas.ForceRedraw()
		c.state.prevGameState = snap.State
		c.state.wasInactive = c.state.isInactive
		c.state.wasShutdown = c.state.shuttingDown
	}

	c.canvas.Clear()
	if c.state.tooSmall {
		c.canvas.Render(c.chunkWriter)
		c.centered(c.canvas.TerminalHeight()/2, c.styles.warn.Render(
			fmt.Sprintf("Terminal too small, need %dx%d", config.MinTermWidth, config.MinTermHeight)))
		return c.chunkWriter.Flush()
	}

	c.drawField(snap)
	c.canvas.Render(c.chunkWriter)
	c.canvas.RenderBorder(c.chunkWriter)
	c.drawUI(snap)

	return c.chunkWriter.Flush()
}

// drawField draws the terrain, both archers, the arrow and effects.
func (c *Client) drawField(snap game.Snapshot) {
	cv := c.canvas
	cv.FillRect(0, object.Floor, config.ViewWidth, config.ViewHeight-object.Floor, draw.ColorBrown)

	for _, o := range snap.Obstacles {
		cv.FillRect(o.Pos.X, o.Pos.Y, o.W, o.H, materialColor(o.Material))
	}

	playerPower := 0.0
	if snap.Charging {
		playerPower = snap.Power
	}
	c.drawArcher(snap.PlayerAnchor, draw.ColorBlue, snap.Aim, playerPower, 1)
	c.drawArcher(snap.AIAnchor, draw.ColorRed, snap.AIAim, snap.AIPower, -1)

	for _, p := range snap.Preview() {
		cv.Set(p.X, p.Y, draw.ColorDimYellow)
	}

	if snap.Arrow.Active {
		tip := snap.Arrow.Pos
		tail := tip.Sub(physics.FromAngle(snap.Arrow.Angle, arrowLength))
		cv.DrawLine(point(tail), point(tip), draw.ColorWhite)
		cv.Set(tip.X, tip.Y, draw.ColorYellow)
	}

	for _, p := range c.state.particles {
		if p.Visible() {
			cv.Set(p.Pos.X, p.Pos.Y, draw.ColorOrange)
		}
	}
}

// drawArcher draws an archer at its anchor. dir is -1 for the mirrored AI.
func (c *Client) drawArcher(at physics.Vec2, color draw.Color, aimDeg, power float64, dir float64) {
	cv := c.canvas
	cv.FillRect(at.X-10, at.Y-5, 20, 40, color)
	cv.FillCircle(draw.Point{X: at.X, Y: at.Y - 18}, 12, draw.ColorWhite)

	a := physics.Radians(aimDeg)
	facing := physics.V(dir*math.Cos(a), math.Sin(a))
	cv.DrawLine(point(at), point(at.Add(facing.Scale(bowLength))), draw.ColorSand)
	if power > 0 {
		pull := power / object.MaxPower * 15
		cv.DrawLine(point(at), point(at.Sub(facing.Scale(pull))), draw.ColorWhite)
	}
}

func materialColor(m object.Material) draw.Color {
	switch m {
	case object.Wood:
		return draw.ColorOrange
	case object.Wall:
		return draw.ColorSlate
	default:
		return draw.ColorGrey
	}
}

func point(v physics.Vec2) draw.Point {
	return draw.Point{X: v.X, Y: v.Y}
}

// drawUI draws the text overlay for the current screen.
func (c *Client) drawUI(snap game.Snapshot) {
	if c.state.shuttingDown {
		c.drawShutdownScreen()
		return
	}
	if c.state.isInactive {
		c.drawInactivityScreen()
		return
	}

	switch snap.State {
	case game.StateStart:
		c.drawStartScreen()
	case game.StatePlaying:
		c.drawHUD(snap)
	case game.StateLevelWin:
		c.drawLevelWinScreen(snap)
	case game.StateGameOver:
		c.drawGameOverScreen(snap)
	case game.StateGameWin:
		c.drawGameWinScreen(snap)
	}
}

// text writes s at a 1-based canvas position and marks the cells under it so
// the canvas repaints them once the text is gone.
func (c *Client) text(col, row int, s string) {
	c.chunkWriter.WriteAt(col, row, s)
	c.canvas.MarkTextDirty(col, row, lipgloss.Width(s))
}

// centered writes a line horizontally centered on row.
func (c *Client) centered(row int, s string) {
	c.text(max(1, (c.canvas.TerminalWidth()-lipgloss.Width(s))/2+1), row, s)
}

// block writes a multi-line string centered on the canvas with its first
// line at row. Returns the row after the block.
func (c *Client) block(row int, s string) int {
	col := max(1, (c.canvas.TerminalWidth()-lipgloss.Width(s))/2+1)
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		c.text(col, row+i, line)
	}
	return row + len(lines)
}

func blink() bool {
	return time.Now().UnixMilli()/600%2 == 0
}

// drawHUD draws the in-game HUD.
func (c *Client) drawHUD(snap game.Snapshot) {
	st := c.styles
	width := c.canvas.TerminalWidth()
	height := c.canvas.TerminalHeight()

	left := st.player.Render("YOU") + " " + c.bar(snap.PlayerHP, game.MaxHP, hpBarWidth) + st.text.Render(fmt.Sprintf(" %3d", snap.PlayerHP))
	c.text(2, 1, left)

	right := st.text.Render(fmt.Sprintf("%3d ", snap.AIHP)) + c.bar(snap.AIHP, game.MaxHP, hpBarWidth) + " " + st.ai.Render("AI")
	c.text(width-lipgloss.Width(right), 1, right)

	c.centered(1, st.title.Render(fmt.Sprintf("LEVEL %d/%d", snap.Level.ID, snap.LevelCount))+
		st.text.Render("   "+formatTime(snap.TimeLeft)))
	c.centered(2, turnBanner(st, snap))

	if snap.Turn == game.TurnPlayer {
		line := st.dim.Render(fmt.Sprintf("AIM %4.0f°", -snap.Aim))
		if snap.Charging {
			line += "   " + st.text.Render("POWER ") + c.bar(int(math.Round(snap.Power)), object.MaxPower, powerBarWidth) +
				st.text.Render(fmt.Sprintf(" %2.0f", snap.Power))
		}
		c.centered(3, line)
	}

	for _, p := range c.state.popups {
		at := snap.PlayerAnchor
		if p.target == object.SideAI {
			at = snap.AIAnchor
		}
		col, row := c.canvas.LogicalToTerminal(at.X, at.Y-60)
		c.text(max(1, col-len(p.text)/2), max(4, row), st.warn.Render(p.text))
	}

	c.text(2, height, st.dim.Render("Honor: ")+st.text.Render(snap.Honor.Title)+"   "+st.dim.Render(lastShotText(snap)))
	info := st.dim.Render(fmt.Sprintf("AI accuracy %2.0f%%  archers online %d",
		snap.Level.AIAccuracy*100, c.server.Players()))
	c.text(max(1, width-lipgloss.Width(info)), height, info)
}

// bar renders value out of total as a width-cell gauge.
func (c *Client) bar(value, total, width int) string {
	filled := 0
	if total > 0 {
		filled = min(width, max(0, int(math.Round(float64(value)*float64(width)/float64(total)))))
	}
	return c.styles.bar.Render(strings.Repeat("█", filled)) +
		c.styles.barEmpty.Render(strings.Repeat("░", width-filled))
}

func turnBanner(st styles, snap game.Snapshot) string {
	switch snap.Turn {
	case game.TurnPlayer:
		if snap.Charging {
			return st.player.Render("DRAWING THE BOW") + st.dim.Render("  SPACE to release")
		}
		return st.player.Render("YOUR TURN") + st.dim.Render("  ←/→ aim  SPACE draw")
	case game.TurnAI:
		if snap.AIDrawing {
			return st.ai.Render("AI IS DRAWING")
		}
		return st.ai.Render("AI IS THINKING")
	default:
		if snap.LastShooter == object.SideAI {
			return st.ai.Render("INCOMING")
		}
		return st.player.Render("ARROW AWAY")
	}
}

// lastShotText describes how the previous flight ended.
func lastShotText(snap game.Snapshot) string {
	who := "Your"
	if snap.LastShooter == object.SideAI {
		who = "AI"
	}
	switch snap.LastImpact.Kind {
	case object.ImpactHit:
		return fmt.Sprintf("%s arrow hit for %d", who, snap.LastImpact.Damage)
	case object.ImpactTerrain:
		return fmt.Sprintf("%s arrow stuck in the terrain", who)
	case object.ImpactOutOfBounds:
		return fmt.Sprintf("%s arrow flew off the field", who)
	default:
		return ""
	}
}

// formatTime renders a countdown as m:ss, or ∞ on the untimed last level.
func formatTime(seconds int) string {
	if seconds == level.Unlimited {
		return "∞"
	}
	seconds = max(seconds, 0)
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// drawStartScreen draws the title screen and the leaderboard.
func (c *Client) drawStartScreen() {
	st := c.styles
	row := max(2, c.canvas.TerminalHeight()/2-9)

	row = c.block(row, st.title.Render(strings.Join(titleArt, "\n")))
	c.centered(row+1, st.subtitle.Render("~ A turn-based archery duel over SSH ~"))

	controls := st.heading.Render("Controls") + "\n" + st.text.Render(strings.Join([]string{
		"←/→ or A/D . . . Aim",
		"SPACE  . . . Draw/Release",
		"ENTER  . . . . . Continue",
		"Q  . . . . . . . . . Quit",
	}, "\n"))
	panels := st.panel.Render(controls)
	if top := c.server.TopScores(); len(top) > 0 {
		panels = lipgloss.JoinHorizontal(lipgloss.Top, panels, " ", st.panel.Render(c.leaderboard()))
	}
	row = c.block(row+3, panels)

	if blink() {
		c.centered(row+1, st.warn.Render(">>  Press ENTER to Start  <<"))
	}
	c.centered(row+3, st.dim.Render("Playing as "+c.handle.Username))
}

// leaderboard renders the cached top list.
func (c *Client) leaderboard() string {
	st := c.styles
	lines := []string{st.heading.Render("Hall of Honor")}
	for _, e := range c.server.TopScores() {
		name := e.Username
		if e.Username == c.handle.Username {
			name = st.player.Render(fmt.Sprintf("%-*s", config.MaxUsernameLength, name))
		} else {
			name = st.text.Render(fmt.Sprintf("%-*s", config.MaxUsernameLength, name))
		}
		lines = append(lines, fmt.Sprintf("%2d. %s %s %s",
			e.Rank, name, st.text.Render(fmt.Sprintf("L%-3d", e.Level)), st.dim.Render(e.Honor().Title)))
	}
	return strings.Join(lines, "\n")
}

func (c *Client) drawLevelWinScreen(snap game.Snapshot) {
	st := c.styles
	row := c.canvas.TerminalHeight()/2 - 3
	c.centered(row, st.good.Render(fmt.Sprintf("LEVEL %d CLEARED", snap.Level.ID)))
	c.centered(row+2, st.text.Render("Honor: ")+st.title.Render(snap.Honor.Title))
	c.centered(row+3, st.dim.Render(fmt.Sprintf("Next: level %d, time limit %s",
		snap.Level.ID+1, formatTime(level.TimeLimit(snap.Level.ID+1)))))
	if blink() {
		c.centered(row+5, st.warn.Render(">>  Press ENTER for the next level  <<"))
	}
}

func (c *Client) drawGameOverScreen(snap game.Snapshot) {
	st := c.styles
	row := c.canvas.TerminalHeight()/2 - 3
	title := "OUT OF TIME"
	if snap.PlayerHP == 0 {
		title = "YOU WERE SHOT"
	}
	c.centered(row, st.ai.Render(title))
	c.centered(row+2, st.text.Render(fmt.Sprintf("Reached level %d of %d", snap.Level.ID, snap.LevelCount)))
	c.centered(row+3, st.text.Render("Honor: ")+st.title.Render(snap.Honor.Title))
	if blink() {
		c.centered(row+5, st.warn.Render(fmt.Sprintf(">>  Press ENTER to retry level %d  <<", snap.Level.ID)))
	}
}

func (c *Client) drawGameWinScreen(snap game.Snapshot) {
	st := c.styles
	row := c.canvas.TerminalHeight()/2 - 3
	c.centered(row, st.good.Render("VICTORY"))
	c.centered(row+2, st.text.Render(fmt.Sprintf("All %d levels cleared", snap.LevelCount)))
	c.centered(row+3, st.text.Render("Honor: ")+st.title.Render(snap.Honor.Title))
	if blink() {
		c.centered(row+5, st.warn.Render(">>  Press ENTER to play again  <<"))
	}
}

// drawInactivityScreen draws the inactivity warning screen.
func (c *Client) drawInactivityScreen() {
	st := c.styles
	row := c.canvas.TerminalHeight() / 2
	c.centered(row-2, st.warn.Render("INACTIVITY WARNING"))
	c.centered(row, st.text.Render(fmt.Sprintf(
		"You have been inactive for too long. You will be disconnected in %d seconds.",
		int(config.InactivityDisconnectUser-time.Since(c.lastInput).Seconds()),
	)))
	c.centered(row+2, st.dim.Render("Press any key to continue"))
}

// drawShutdownScreen draws the server shutdown notification screen.
func (c *Client) drawShutdownScreen() {
	st := c.styles
	row := c.canvas.TerminalHeight() / 2
	c.centered(row-3, st.warn.Render("SERVER SHUTTING DOWN"))
	c.centered(row-1, st.text.Render("The server is restarting for maintenance."))
	c.centered(row, st.text.Render("Please reconnect in a moment."))
	c.centered(row+2, st.text.Render(fmt.Sprintf("Disconnecting in %d seconds...", int(c.state.shutdownTimer)+1)))
	c.centered(row+4, st.dim.Render("Press Q to disconnect now"))
}

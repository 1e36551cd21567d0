package game

import "github.com/tomz197/archers/internal/object"

// HP returns the hit points of an archer.
func (g *Game) HP(side object.Side) int {
	if side == object.SideAI {
		return g.aiHP
	}
	return g.playerHP
}

// resolveHit applies damage to target. A killing hit ends the level after
// HitDelay so the hit can be seen and heard first.
func (g *Game) resolveHit(target object.Side, damage int) {
	g.sound.Play(ToneHit)
	g.hooks.OnHit(target, damage)

	hp := &g.playerHP
	if target == object.SideAI {
		hp = &g.aiHP
	}
	*hp = max(0, *hp-damage)
	if *hp > 0 || g.defeatPending {
		return
	}

	g.defeatPending = true
	g.sched.After(HitDelay, func() { g.defeat(target) })
}

func (g *Game) defeat(loser object.Side) {
	if g.state != StatePlaying {
		return
	}
	if loser == object.SidePlayer {
		g.setState(StateGameOver)
		return
	}
	if g.lastLevel() {
		g.won = true
		g.setState(StateGameWin)
		return
	}
	g.setState(StateLevelWin)
}

package game

import "time"

// Scheduler runs deferred callbacks against a virtual clock that only moves
// when Advance is called. Every callback remembers the generation it was
// scheduled in; CancelAll starts a new generation so callbacks queued for a
// previous level or state never fire.
type Scheduler struct {
	now    time.Duration
	gen    uint64
	seq    uint64
	timers []*timer
}

type timer struct {
	at        time.Duration
	every     time.Duration // zero for one-shot timers
	fn        func()
	gen       uint64
	seq       uint64
	cancelled bool
}

// Token cancels a single scheduled callback. The zero Token is valid and does nothing.
type Token struct {
	t *timer
}

// Cancel stops the callback from running again. Safe to call more than once.
func (tk Token) Cancel() {
	if tk.t != nil {
		tk.t.cancelled = true
	}
}

// Now returns the virtual time.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// After runs fn once, d after the current virtual time.
func (s *Scheduler) After(d time.Duration, fn func()) Token {
	return s.add(d, 0, fn)
}

// Every runs fn each d, starting d from now, until cancelled.
func (s *Scheduler) Every(d time.Duration, fn func()) Token {
	if d <= 0 {
		panic("game: non-positive interval for Scheduler.Every")
	}
	return s.add(d, d, fn)
}

func (s *Scheduler) add(d, every time.Duration, fn func()) Token {
	if d < 0 {
		d = 0
	}
	s.seq++
	t := &timer{at: s.now + d, every: every, fn: fn, gen: s.gen, seq: s.seq}
	s.timers = append(s.timers, t)
	return Token{t: t}
}

// CancelAll drops every pending callback.
func (s *Scheduler) CancelAll() {
	s.gen++
	for _, t := range s.timers {
		t.cancelled = true
	}
	s.timers = s.timers[:0]
}

// Pending returns the number of live callbacks.
func (s *Scheduler) Pending() int {
	n := 0
	for _, t := range s.timers {
		if !t.cancelled && t.gen == s.gen {
			n++
		}
	}
	return n
}

// Advance moves the clock forward by dt, running due callbacks in time order.
// Callbacks may schedule or cancel others; anything that becomes due within
// the same window runs too.
func (s *Scheduler) Advance(dt time.Duration) {
	end := s.now + dt
	for {
		t := s.next(end)
		if t == nil {
			break
		}
		s.now = t.at
		if t.every > 0 {
			t.at += t.every
		} else {
			s.remove(t)
		}
		if t.cancelled || t.gen != s.gen {
			continue
		}
		t.fn()
	}
	s.now = end
	s.compact()
}

// next returns the earliest timer due by end, in scheduling order on ties.
func (s *Scheduler) next(end time.Duration) *timer {
	var best *timer
	for _, t := range s.timers {
		if t.cancelled || t.gen != s.gen || t.at > end {
			continue
		}
		if best == nil || t.at < best.at || (t.at == best.at && t.seq < best.seq) {
			best = t
		}
	}
	return best
}

func (s *Scheduler) remove(target *timer) {
	for i, t := range s.timers {
		if t == target {
			s.timers = append(s.timers[:i], s.timers[i+1:]...)
			return
		}
	}
}

func (s *Scheduler) compact() {
	kept := s.timers[:0]
	for _, t := range s.timers {
		if !t.cancelled && t.gen == s.gen {
			kept = append(kept, t)
		}
	}
	clear(s.timers[len(kept):])
	s.timers = kept
}

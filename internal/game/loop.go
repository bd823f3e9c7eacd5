package game

import (
	"sync"
	"time"
)

const (
	InputChanSize = 64
	FrameChanSize = 2
)

// KeyHoldTicks is how long a tapped control stays held. Terminals report
// key presses but not releases, so a tap holds the control for a few
// ticks and key repeat keeps extending it.
var KeyHoldTicks = SecsToTicks(0.3)

// Action is a player control.
type Action int

const (
	ActionNone Action = iota
	ActionLeft
	ActionRight
	ActionJump
	ActionZoomIn
	ActionZoomOut
	ActionPanUp
	ActionPanDown
	ActionPanLeft
	ActionPanRight
	ActionCenter
)

// InputEvent carries a player control into the loop. Pressed is the new
// state of a held control; Tap marks a press without a matching release.
type InputEvent struct {
	Action  Action
	Pressed bool
	Tap     bool
}

// Loop drives one Game in real time. Input is queued on a buffered channel
// and applied at the start of the next tick; a snapshot is published
// after every tick.
type Loop struct {
	game     *Game
	interval time.Duration

	inputCh chan InputEvent
	frames  chan Snapshot
	stopCh  chan struct{}
	stop    sync.Once

	tickCount uint64
	holds     map[Action]uint64 // tick at which a tapped control is released
}

// NewLoop returns a loop for g ticking every TickInterval.
func NewLoop(g *Game) *Loop {
	return &Loop{
		game:     g,
		interval: TickInterval,
		inputCh:  make(chan InputEvent, InputChanSize),
		frames:   make(chan Snapshot, FrameChanSize),
		stopCh:   make(chan struct{}),
		holds:    make(map[Action]uint64),
	}
}

// Send queues an input event. It never blocks; events that do not fit in
// the queue are dropped and Send returns false.
func (l *Loop) Send(ev InputEvent) bool {
	select {
	case l.inputCh <- ev:
		return true
	default:
		return false
	}
}

// Frames returns the channel snapshots are published on. Slow readers
// miss frames, but the final snapshot of a finished round is always
// delivered. The channel is closed when Run returns.
func (l *Loop) Frames() <-chan Snapshot {
	return l.frames
}

// Run ticks the game until the round ends or Stop is called.
func (l *Loop) Run() {
	defer close(l.frames)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	l.publish(l.game.Snapshot(l.tickCount, nil))
	for {
		select {
		case <-l.stopCh:
			return
		case <-ticker.C:
			s := l.tick()
			if s.Outcome == EventNone {
				l.publish(s)
				continue
			}
			select {
			case l.frames <- s:
			case <-l.stopCh:
			}
			return
		}
	}
}

// Stop ends Run. It is safe to call more than once.
func (l *Loop) Stop() {
	l.stop.Do(func() { close(l.stopCh) })
}

func (l *Loop) publish(s Snapshot) {
	select {
	case l.frames <- s:
	default:
		// Drop frame for slow client
	}
}

func (l *Loop) tick() Snapshot {
	// Drain all pending input events
	for drained := false; !drained; {
		select {
		case ev := <-l.inputCh:
			l.processInput(ev)
		default:
			drained = true
		}
	}

	l.tickCount++
	for a, until := range l.holds {
		if l.tickCount >= until {
			l.setHeld(a, false)
			delete(l.holds, a)
		}
	}

	events := l.game.Tick(l.interval)
	return l.game.Snapshot(l.tickCount, events)
}

func (l *Loop) processInput(ev InputEvent) {
	g := l.game
	switch ev.Action {
	case ActionLeft, ActionRight, ActionZoomIn, ActionZoomOut:
		if ev.Tap {
			l.tap(ev.Action)
			return
		}
		delete(l.holds, ev.Action)
		l.setHeld(ev.Action, ev.Pressed)
	case ActionJump:
		if ev.Pressed {
			g.Jump()
		}
	case ActionPanUp:
		g.PanCamera(0, -PanStep)
	case ActionPanDown:
		g.PanCamera(0, PanStep)
	case ActionPanLeft:
		g.PanCamera(-PanStep, 0)
	case ActionPanRight:
		g.PanCamera(PanStep, 0)
	case ActionCenter:
		g.CenterCamera()
	}
}

// tap holds a control for KeyHoldTicks and releases its opposite.
func (l *Loop) tap(a Action) {
	if opp := opposite(a); opp != ActionNone {
		delete(l.holds, opp)
		l.setHeld(opp, false)
	}
	l.holds[a] = l.tickCount + uint64(KeyHoldTicks)
	l.setHeld(a, true)
}

func (l *Loop) setHeld(a Action, pressed bool) {
	switch a {
	case ActionLeft:
		l.game.SetMoving(false, pressed)
	case ActionRight:
		l.game.SetMoving(true, pressed)
	case ActionZoomIn:
		l.game.SetZoom(true, pressed)
	case ActionZoomOut:
		l.game.SetZoom(false, pressed)
	}
}

func opposite(a Action) Action {
	switch a {
	case ActionLeft:
		return ActionRight
	case ActionRight:
		return ActionLeft
	case ActionZoomIn:
		return ActionZoomOut
	case ActionZoomOut:
		return ActionZoomIn
	}
	return ActionNone
}

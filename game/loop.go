package game

import (
	"context"
	"math/rand"
	"strings"
	"time"
)

// FrameID identifies a requested frame so it can be cancelled.
type FrameID int

// Scheduler delivers one callback per request on the next display refresh,
// passing a monotonic timestamp in milliseconds.
type Scheduler interface {
	RequestFrame(fn func(now float64)) FrameID
	CancelFrame(id FrameID)
}

// PointerEvent is a pointer move or touch carrying a screen-space y and the
// on-screen bounds of the surface.
type PointerEvent struct {
	ClientY    float64
	RectTop    float64
	RectHeight float64
}

// InputSource registers a pointer listener. The returned func deregisters it.
type InputSource interface {
	Listen(fn func(PointerEvent)) (stop func())
}

// ScoreSubmitter persists a finished session's score and returns the new
// record id. It returns ErrUnauthenticated when no identity is attached.
type ScoreSubmitter interface {
	Submit(ctx context.Context, score int, playerName string) (string, error)
}

// Submission describes what Restart did with the finished session.
type Submission struct {
	Attempted  bool
	RecordID   string
	Score      int
	PlayerName string
}

// Loop drives a State from a Scheduler and an InputSource. It is not safe for
// concurrent use; every method must be called from the thread that runs the
// scheduler's callbacks.
type Loop struct {
	state     *State
	surface   Surface
	scheduler Scheduler
	input     InputSource
	scores    ScoreSubmitter
	rng       Rand

	running   bool
	pending   bool
	frame     FrameID
	epoch     float64
	haveEpoch bool
	stopInput func()
}

// NewLoop returns a stopped loop. A nil surface, or a nil pointer of a
// concrete surface type, makes Start fail with ErrNoSurface.
func NewLoop(surface Surface, scheduler Scheduler, input InputSource, scores ScoreSubmitter) *Loop {
	if missing(surface) {
		surface = nil
	}
	return &Loop{
		state:     NewState(),
		surface:   surface,
		scheduler: scheduler,
		input:     input,
		scores:    scores,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// WithRand replaces the spawn randomness source.
func (l *Loop) WithRand(rng Rand) *Loop {
	l.rng = rng
	return l
}

// Start registers input and schedules the first frame. Without a surface
// nothing is started.
func (l *Loop) Start() error {
	if l.surface == nil || l.scheduler == nil {
		return ErrNoSurface
	}
	if l.running {
		return nil
	}
	l.running = true
	if l.input != nil {
		l.stopInput = l.input.Listen(l.onPointer)
	}
	l.schedule()
	return nil
}

// Stop cancels any pending frame and deregisters input. The state is kept.
func (l *Loop) Stop() {
	if !l.running {
		return
	}
	l.running = false
	if l.pending {
		l.scheduler.CancelFrame(l.frame)
		l.pending = false
	}
	if l.stopInput != nil {
		l.stopInput()
		l.stopInput = nil
	}
}

// Restart leaves GameOver. A non-blank name submits the final score exactly
// once; the session is reset whether or not the submission succeeded, and the
// submission error is returned to the caller.
func (l *Loop) Restart(ctx context.Context, playerName string) (Submission, error) {
	if l.state.Status != GameOver {
		return Submission{}, ErrNotOver
	}

	sub := Submission{
		Score:      l.state.Score,
		PlayerName: strings.TrimSpace(playerName),
	}

	var err error
	if sub.PlayerName != "" {
		sub.Attempted = true
		if l.scores == nil {
			err = ErrNoScoreService
		} else {
			sub.RecordID, err = l.scores.Submit(ctx, sub.Score, sub.PlayerName)
		}
	}

	l.state.Reset()
	l.haveEpoch = false
	if l.running && !l.pending {
		l.schedule()
	}
	return sub, err
}

func (l *Loop) Status() Status { return l.state.Status }
func (l *Loop) Score() int     { return l.state.Score }

// Running reports whether the loop is started and has a frame outstanding.
func (l *Loop) Running() bool { return l.running && l.pending }

func (l *Loop) schedule() {
	l.frame = l.scheduler.RequestFrame(l.onFrame)
	l.pending = true
}

func (l *Loop) onFrame(now float64) {
	l.pending = false
	if !l.running {
		return
	}
	if !l.haveEpoch {
		l.epoch = now
		l.haveEpoch = true
	}
	if Step(l.state, now-l.epoch, l.surface, l.rng) {
		l.schedule()
	}
}

func (l *Loop) onPointer(ev PointerEvent) {
	if l.surface == nil {
		return
	}
	if y, ok := PointerToSurface(ev.ClientY, ev.RectTop, ev.RectHeight); ok {
		l.state.MovePlayer(y)
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"log"
	"sync"
	"time"
	"unicode/utf8"

	"spacedodge/game"
	"spacedodge/scoreclient"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	maxNameLen    = 20
	submitTimeout = 5 * time.Second
)

var overlayColor = color.RGBA{0, 0, 0, 0x80}

// App implements ebiten.Game around a game.Loop.
type App struct {
	loop    *game.Loop
	frames  *game.FrameQueue
	input   *pointerInput
	surface *imageSurface
	scores  *scoreclient.Client
	submits *scoreclient.BackgroundSubmitter
	start   time.Time

	name   []rune
	notice string

	boardMu sync.RWMutex
	board   []scoreclient.Entry
}

func newApp(scores *scoreclient.Client) *App {
	a := &App{
		frames:  game.NewFrameQueue(),
		input:   &pointerInput{},
		surface: newImageSurface(int(game.SurfaceWidth), int(game.SurfaceHeight)),
		scores:  scores,
		submits: scoreclient.NewBackgroundSubmitter(scores, submitTimeout),
		start:   time.Now(),
	}
	a.loop = game.NewLoop(a.surface, a.frames, a.input, a.submits)
	return a
}

func (a *App) Start() error { return a.loop.Start() }
func (a *App) Stop()        { a.loop.Stop() }

func (a *App) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	a.drainSubmits()
	a.input.poll()
	a.frames.Flush(float64(time.Since(a.start).Microseconds()) / 1000)

	if a.loop.Status() == game.GameOver {
		a.updateGameOver()
	}
	return nil
}

func (a *App) updateGameOver() {
	for _, r := range ebiten.AppendInputChars(nil) {
		if len(a.name) < maxNameLen && utf8.ValidRune(r) {
			a.name = append(a.name, r)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) && len(a.name) > 0 {
		a.name = a.name[:len(a.name)-1]
	}
	if !inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		return
	}

	sub, err := a.loop.Restart(context.Background(), string(a.name))
	a.name = a.name[:0]
	switch {
	case err != nil:
		log.Printf("Restart failed: %v", err)
	case sub.Attempted:
		a.notice = fmt.Sprintf("Saving %d for %s...", sub.Score, sub.PlayerName)
	default:
		a.notice = ""
	}
}

// drainSubmits applies finished background submissions without blocking.
func (a *App) drainSubmits() {
	for {
		select {
		case res := <-a.submits.Results():
			a.notice = describeSubmission(res)
			if res.Err != nil {
				log.Printf("Score not saved: %v", res.Err)
				continue
			}
			if res.BoardErr != nil {
				log.Printf("Leaderboard refresh after submit failed: %v", res.BoardErr)
				continue
			}
			a.setBoard(res.Board)
		default:
			return
		}
	}
}

func describeSubmission(res scoreclient.SubmitResult) string {
	switch {
	case errors.Is(res.Err, game.ErrUnauthenticated):
		return "Not saved: sign in to save scores"
	case res.Err != nil:
		return "Not saved: server unavailable"
	default:
		return fmt.Sprintf("Saved %d for %s", res.Score, res.PlayerName)
	}
}

func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{0xf1, 0xf5, 0xf9, 0xff})
	screen.DrawImage(a.surface.img, nil)

	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Score: %d", a.loop.Score()), 8, 8)
	if a.notice != "" {
		ebitenutil.DebugPrintAt(screen, a.notice, 8, int(game.SurfaceHeight)-20)
	}
	a.drawBoard(screen, int(game.SurfaceWidth)-150, 8)

	if a.loop.Status() != game.GameOver {
		return
	}

	vector.DrawFilledRect(screen, 0, 0, game.SurfaceWidth, game.SurfaceHeight, overlayColor, false)
	cx, cy := int(game.SurfaceWidth)/2-80, int(game.SurfaceHeight)/2-40
	ebitenutil.DebugPrintAt(screen, "Game Over!", cx, cy)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Score: %d", a.loop.Score()), cx, cy+16)
	ebitenutil.DebugPrintAt(screen, "Name: "+string(a.name)+"_", cx, cy+40)
	ebitenutil.DebugPrintAt(screen, "Enter: play again", cx, cy+64)
}

func (a *App) drawBoard(screen *ebiten.Image, x, y int) {
	a.boardMu.RLock()
	defer a.boardMu.RUnlock()

	ebitenutil.DebugPrintAt(screen, "Top Scores", x, y)
	for i, e := range a.board {
		line := fmt.Sprintf("%d. %s: %d", i+1, e.PlayerName, e.Score)
		ebitenutil.DebugPrintAt(screen, line, x, y+16*(i+1))
	}
}

func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return int(game.SurfaceWidth), int(game.SurfaceHeight)
}

func (a *App) setBoard(entries []scoreclient.Entry) {
	a.boardMu.Lock()
	a.board = entries
	a.boardMu.Unlock()
}

// watchLeaderboard keeps the board current until ctx is done, reconnecting
// after a dropped socket.
func (a *App) watchLeaderboard(ctx context.Context) {
	if entries, err := a.scores.TopScores(ctx); err == nil {
		a.setBoard(entries)
	} else {
		log.Printf("Initial leaderboard fetch failed: %v", err)
	}

	for {
		err := a.scores.WatchLeaderboard(ctx, a.setBoard)
		if ctx.Err() != nil {
			return
		}
		log.Printf("Leaderboard watch ended: %v", err)

		select {
		case <-ctx.Done():
			return
		case <-time.After(2 * time.Second):
		}
	}
}

package game

// Status is the terminal-or-not state of a session.
type Status int

const (
	Running Status = iota
	GameOver
)

func (s Status) String() string {
	switch s {
	case Running:
		return "running"
	case GameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Rect is an axis-aligned rectangle in surface units, origin top-left.
type Rect struct {
	X, Y, W, H float64
}

func (r Rect) Left() float64   { return r.X }
func (r Rect) Right() float64  { return r.X + r.W }
func (r Rect) Top() float64    { return r.Y }
func (r Rect) Bottom() float64 { return r.Y + r.H }

type Obstacle struct {
	Rect
}

// State is the whole of one session. It is owned by a single loop and is
// never shared.
type State struct {
	Status    Status
	Score     int
	Speed     int
	PlayerY   float64 // vertical centre of the player
	Obstacles []*Obstacle
	LastSpawn float64 // ms timestamp of the last spawn
}

// NewState returns a fresh running session with the player centred.
func NewState() *State {
	s := &State{}
	s.Reset()
	return s
}

func (s *State) Reset() {
	s.Status = Running
	s.Score = 0
	s.Speed = BaseSpeed
	s.PlayerY = SurfaceHeight / 2
	s.Obstacles = nil
	s.LastSpawn = 0
}

// PlayerRect is the player's hitbox for the current vertical centre.
func (s *State) PlayerRect() Rect {
	return Rect{
		X: PlayerX,
		Y: s.PlayerY - PlayerHeight/2,
		W: PlayerWidth,
		H: PlayerHeight,
	}
}

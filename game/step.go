package game

// Rand is the source of spawn randomness. *math/rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// SpeedFor is the scroll speed for a given score.
func SpeedFor(score int) int {
	return min(MaxSpeed, BaseSpeed+score/ScorePerSpeedUp)
}

// Step advances s by one frame at time now (milliseconds of game time) and
// draws the result into surf. It reports whether another frame should be
// scheduled. A session that is already over is left untouched.
func Step(s *State, now float64, surf Surface, rng Rand) bool {
	if s.Status != Running || missing(surf) {
		return false
	}

	if now-s.LastSpawn > SpawnIntervalMS {
		spawn(s, rng)
		s.LastSpawn = now
	}

	surf.Clear()
	player := s.PlayerRect()
	surf.FillRect(player.X, player.Y, player.W, player.H, PlayerColor)

	kept := s.Obstacles[:0]
	for _, o := range s.Obstacles {
		o.X -= float64(s.Speed)

		if Overlaps(player, o.Rect) {
			s.Status = GameOver
			continue
		}

		surf.FillRect(o.X, o.Y, o.W, o.H, ObstacleColor)
		if o.X > -o.W {
			kept = append(kept, o)
		}
	}
	clear(s.Obstacles[len(kept):])
	s.Obstacles = kept

	if s.Status != Running {
		return false
	}

	s.Score++
	s.Speed = SpeedFor(s.Score)
	return true
}

func spawn(s *State, rng Rand) {
	h := rng.Float64()*(SurfaceHeight/3) + ObstacleMinHeight
	s.Obstacles = append(s.Obstacles, &Obstacle{Rect{
		X: SurfaceWidth,
		Y: rng.Float64() * (SurfaceHeight - h),
		W: ObstacleWidth,
		H: h,
	}})
}

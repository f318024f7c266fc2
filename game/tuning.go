package game

const (
	SurfaceWidth  = 480.0
	SurfaceHeight = 360.0

	PlayerX      = 50.0
	PlayerWidth  = 30.0
	PlayerHeight = 30.0

	ObstacleWidth     = 20.0
	ObstacleMinHeight = 30.0
	SpawnIntervalMS   = 2000.0 // strict: spawns once now-lastSpawn exceeds this

	BaseSpeed       = 2
	MaxSpeed        = 8
	ScorePerSpeedUp = 1000 // each full thousand adds one unit of speed
)

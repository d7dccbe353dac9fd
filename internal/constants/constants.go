package constants

import "time"

const (
	ResultCacheTTL = 5 * time.Minute
)

const (
	CamaraderieTimeout = 5 * time.Second
	DatabaseTimeout    = 5 * time.Second
	BroadcastTimeout   = 3 * time.Second
	SimulationTimeout  = 30 * time.Second
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	// MatchDurationMinutes is the fixed length of a simulated match.
	MatchDurationMinutes = 60

	// MaxActivePlayers is the roster cap per side in one simulation.
	MaxActivePlayers = 12

	// DefaultStadiumCapacity and DefaultStadiumAtmosphere apply when a team
	// has no stadium row.
	DefaultStadiumCapacity   = 5000
	DefaultStadiumAtmosphere = 50
)

const (
	// LiveRecentEventLimit bounds the abbreviated event log on a live snapshot.
	LiveRecentEventLimit = 10
)

package domain

import (
	"time"
)

// Field sizes a team can configure.
const (
	FieldSizeStandard = "Standard"
	FieldSizeLarge    = "Large"
	FieldSizeSmall    = "Small"
)

// Tactical focus choices.
const (
	FocusBalanced  = "Balanced"
	FocusOffensive = "Offensive"
	FocusDefensive = "Defensive"
	FocusPassing   = "Passing"
	FocusRunning   = "Running"
)

// Match lifecycle states stored on the match record.
const (
	StatusScheduled = "SCHEDULED"
	StatusLive      = "LIVE"
	StatusCompleted = "COMPLETED"
)

// Match types.
const (
	MatchTypeLeague     = "league"
	MatchTypeTournament = "tournament"
	MatchTypeExhibition = "exhibition"
)

// Winner values on a simulation result.
const (
	WinnerHome = "home"
	WinnerAway = "away"
	WinnerDraw = "draw"
)

// Event types produced by the generator.
const (
	EventGoal           = "goal"
	EventInjury         = "injury"
	EventSubstitution   = "substitution"
	EventTacticalChange = "tactical_change"
	EventMomentumShift  = "momentum_shift"
)

// Event importance tags.
const (
	ImportanceLow    = "low"
	ImportanceMedium = "medium"
	ImportanceHigh   = "high"
)

// Injury severities.
const (
	SeverityMinor    = "minor"
	SeverityModerate = "moderate"
	SeveritySevere   = "severe"
)

// Fatigue buckets derived from post-match stamina.
const (
	FatigueFresh     = "fresh"
	FatigueTired     = "tired"
	FatigueExhausted = "exhausted"
)

// Team sides within a single match.
const (
	SideHome = "home"
	SideAway = "away"
)

// PlayerSnapshot is one rostered player as read from the store. The engine
// never mutates it; stamina deltas come back as StaminaUpdate records.
type PlayerSnapshot struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Role           string `json:"role"`
	Speed          int    `json:"speed"`
	Power          int    `json:"power"`
	Throwing       int    `json:"throwing"`
	Catching       int    `json:"catching"`
	Kicking        int    `json:"kicking"`
	Stamina        int    `json:"stamina"`
	Leadership     int    `json:"leadership"`
	Agility        int    `json:"agility"`
	CurrentStamina int    `json:"current_stamina"` // 0-100, pre-match
}

// AttributeAverage is the mean of the eight core attributes.
func (p PlayerSnapshot) AttributeAverage() float64 {
	sum := p.Speed + p.Power + p.Throwing + p.Catching +
		p.Kicking + p.Stamina + p.Leadership + p.Agility
	return float64(sum) / 8.0
}

// Stadium holds the venue data revenue resolution needs.
type Stadium struct {
	Name       string `json:"name"`
	Capacity   int    `json:"capacity"`
	Atmosphere int    `json:"atmosphere"` // 0-100
}

// TeamSnapshot is the read-only input for one side of a simulation: roster,
// tactical configuration, and venue.
type TeamSnapshot struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Roster          []PlayerSnapshot `json:"roster"` // active players, at most 12
	FieldSize       string           `json:"field_size"`
	TacticalFocus   string           `json:"tactical_focus"`
	AggressionLevel int              `json:"aggression_level"` // 1-3
	CoachTactics    int              `json:"coach_tactics"`    // lead coach's tactics rating, 0 when absent
	Camaraderie     int              `json:"camaraderie"`      // raw team chemistry, 0-100
	Stadium         Stadium          `json:"stadium"`
}

// MatchRecord mirrors the authoritative match row in the external store.
type MatchRecord struct {
	ID           string    `json:"id"`
	HomeTeamID   string    `json:"home_team_id"`
	AwayTeamID   string    `json:"away_team_id"`
	Type         string    `json:"type"` // "league", "tournament", "exhibition"
	Status       string    `json:"status"`
	HomeScore    int       `json:"home_score"`
	AwayScore    int       `json:"away_score"`
	Simulated    bool      `json:"simulated"`
	ScheduledDay int       `json:"scheduled_day"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// MatchEvent is one notable moment in a match timeline.
type MatchEvent struct {
	Minute      int    `json:"minute"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Importance  string `json:"importance"`
}

// FinalScore is the score pair of a completed simulation.
type FinalScore struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// PlayerMatchStat is one player's derived line for a single match.
type PlayerMatchStat struct {
	PlayerID          string `json:"player_id"`
	PlayerName        string `json:"player_name"`
	TeamID            string `json:"team_id"`
	Side              string `json:"side"` // "home" or "away"
	MinutesPlayed     int    `json:"minutes_played"`
	PassesAttempted   int    `json:"passes_attempted"`
	PassesCompleted   int    `json:"passes_completed"`
	RushingAttempts   int    `json:"rushing_attempts"`
	YardsGained       int    `json:"yards_gained"`
	Tackles           int    `json:"tackles"`
	Blocks            int    `json:"blocks"`
	Turnovers         int    `json:"turnovers"`
	Points            int    `json:"points"`
	PerformanceRating int    `json:"performance_rating"`
}

// PlayerInjury is one injury produced by an injury-type event.
type PlayerInjury struct {
	PlayerID    string `json:"player_id"`
	PlayerName  string `json:"player_name"`
	TeamID      string `json:"team_id"`
	Severity    string `json:"severity"`
	DaysOut     int    `json:"days_out"`
	Description string `json:"description"`
}

// StaminaUpdate is the advisory stamina delta for one player. The persistence
// layer applies it; the engine only reports it.
type StaminaUpdate struct {
	PlayerID      string `json:"player_id"`
	PlayerName    string `json:"player_name"`
	StaminaBefore int    `json:"stamina_before"`
	StaminaAfter  int    `json:"stamina_after"`
	Fatigue       string `json:"fatigue"`
}

// TacticalModifiers is the multiplier bundle derived from a team's field-size
// and tactical-focus configuration.
type TacticalModifiers struct {
	Offense float64 `json:"offense"`
	Defense float64 `json:"defense"`
	Passing float64 `json:"passing"`
	Running float64 `json:"running"`
}

// TeamMatchEffects reports the additive bonuses and tactical multipliers that
// shaped one side's simulation.
type TeamMatchEffects struct {
	TeamID           string            `json:"team_id"`
	CamaraderieBonus float64           `json:"camaraderie_bonus"`
	CoachingBonus    float64           `json:"coaching_bonus"`
	AtmosphereBonus  float64           `json:"atmosphere_bonus"`
	TotalModifier    float64           `json:"total_modifier"`
	Tactical         TacticalModifiers `json:"tactical"`
	AggressionLevel  int               `json:"aggression_level"`
}

// SimulationResult is the immutable outcome of one simulation call. All
// fields are part of the stable public contract.
type SimulationResult struct {
	MatchID          string            `json:"match_id"`
	FinalScore       FinalScore        `json:"final_score"`
	MatchDuration    int               `json:"match_duration"` // minutes
	Winner           string            `json:"winner"`
	PlayerStats      []PlayerMatchStat `json:"player_stats"`
	Injuries         []PlayerInjury    `json:"injuries"`
	StaminaUpdates   []StaminaUpdate   `json:"stamina_updates"`
	RevenueGenerated int64             `json:"revenue_generated"`
	Attendance       int               `json:"attendance"`
	MVPPlayerName    string            `json:"mvp_player_name"`
	MatchSummary     string            `json:"match_summary"`
	HomeEffects      TeamMatchEffects  `json:"home_effects"`
	AwayEffects      TeamMatchEffects  `json:"away_effects"`
	Events           []MatchEvent      `json:"events"`
	KeyEvents        []MatchEvent      `json:"key_events"`
	SimulatedAt      time.Time         `json:"simulated_at"`
}

// SideTally is a per-side counter pair on a live snapshot.
type SideTally struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// LiveMatchState is the in-memory snapshot of an in-progress match served to
// pollers. It exists only inside the live-state cache.
type LiveMatchState struct {
	MatchID      string       `json:"match_id"`
	Status       string       `json:"status"`
	Minute       int          `json:"minute"`
	HomeScore    int          `json:"home_score"`
	AwayScore    int          `json:"away_score"`
	LastSync     time.Time    `json:"last_sync"`
	LastUpdate   time.Time    `json:"last_update"`
	RecentEvents []MatchEvent `json:"recent_events"`
	Possession   SideTally    `json:"possession"`
	Shots        SideTally    `json:"shots"`
	Tackles      SideTally    `json:"tackles"`
}

// ValidFieldSize reports whether s is a recognized field size.
func ValidFieldSize(s string) bool {
	switch s {
	case FieldSizeStandard, FieldSizeLarge, FieldSizeSmall:
		return true
	}
	return false
}

// ValidTacticalFocus reports whether s is a recognized tactical focus.
func ValidTacticalFocus(s string) bool {
	switch s {
	case FocusBalanced, FocusOffensive, FocusDefensive, FocusPassing, FocusRunning:
		return true
	}
	return false
}

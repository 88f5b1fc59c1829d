package domain

import (
	"strings"

	"github.com/hammamikhairi/scorekeep/internal/gameclock"
)

// Default values for a freshly mounted or reset scoreboard. The default
// clock is gameclock.Default.
const (
	DefaultTeamName = "Team"
	DefaultPeriod   = "Quarter"

	// DefaultTitle is the event title shown above the board.
	DefaultTitle = "Atmiya Badminton 2026"
)

// Team selects one side of the scoreboard.
type Team int

const (
	Team1 Team = iota + 1
	Team2
)

// String returns a human-readable team slot.
func (t Team) String() string {
	switch t {
	case Team1:
		return "team1"
	case Team2:
		return "team2"
	default:
		return "unknown"
	}
}

// Valid reports whether t names one of the two slots.
func (t Team) Valid() bool {
	return t == Team1 || t == Team2
}

// State is a read-only snapshot of the scoreboard. Display surfaces
// receive a copy every time any field changes.
type State struct {
	Team1Name string `json:"team1Name"`
	Team2Name string `json:"team2Name"`
	Score1    int    `json:"score1"`
	Score2    int    `json:"score2"`

	// Clock is the display field. It may hold operator-typed text that
	// is not in canonical M:SS form.
	Clock string `json:"clock"`
	// ClockSeconds is Clock parsed to seconds.
	ClockSeconds int `json:"clockSeconds"`

	Period  string `json:"period"`
	Running bool   `json:"running"`

	// Version increases with every mutation.
	Version uint64 `json:"version"`
}

// Score returns the score for the given team.
func (s State) Score(t Team) int {
	if t == Team2 {
		return s.Score2
	}
	return s.Score1
}

// Name returns the display name for the given team.
func (s State) Name(t Team) string {
	if t == Team2 {
		return s.Team2Name
	}
	return s.Team1Name
}

// TeamNames is the persisted pair of team names.
type TeamNames struct {
	Team1Name string `json:"team1Name"`
	Team2Name string `json:"team2Name"`
}

// DefaultTeamNames returns the pair used whenever nothing usable is stored.
func DefaultTeamNames() TeamNames {
	return TeamNames{Team1Name: DefaultTeamName, Team2Name: DefaultTeamName}
}

// Defaults holds the initial configuration of a scoreboard. Team names
// are only used until the name store has been read.
type Defaults struct {
	Team1Name string `yaml:"team1_name"`
	Team2Name string `yaml:"team2_name"`
	Score1    int    `yaml:"team1_score"`
	Score2    int    `yaml:"team2_score"`
	Period    string `yaml:"period_label"`
	Clock     string `yaml:"game_clock"`
}

// StandardDefaults returns Team/Team, 0-0, Quarter, 12:00.
func StandardDefaults() Defaults {
	return Defaults{
		Team1Name: DefaultTeamName,
		Team2Name: DefaultTeamName,
		Period:    DefaultPeriod,
		Clock:     gameclock.Default,
	}
}

// Normalized returns names with blank (empty or whitespace-only) entries
// replaced by DefaultTeamName.
func (n TeamNames) Normalized() TeamNames {
	if strings.TrimSpace(n.Team1Name) == "" {
		n.Team1Name = DefaultTeamName
	}
	if strings.TrimSpace(n.Team2Name) == "" {
		n.Team2Name = DefaultTeamName
	}
	return n
}

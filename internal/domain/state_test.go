package domain

import (
	"testing"

	"github.com/hammamikhairi/scorekeep/internal/gameclock"
)

func TestStandardDefaultsClock(t *testing.T) {
	d := StandardDefaults()
	if d.Clock != gameclock.Default {
		t.Fatalf("expected clock %q, got %q", gameclock.Default, d.Clock)
	}
	if got := gameclock.Parse(d.Clock); got != gameclock.DefaultSeconds {
		t.Fatalf("default clock parses to %d, want %d", got, gameclock.DefaultSeconds)
	}
}

func TestStateAccessors(t *testing.T) {
	s := State{Team1Name: "Hawks", Team2Name: "Owls", Score1: 3, Score2: 5}

	tests := []struct {
		team      Team
		wantName  string
		wantScore int
	}{
		{Team1, "Hawks", 3},
		{Team2, "Owls", 5},
	}
	for _, tt := range tests {
		t.Run(tt.team.String(), func(t *testing.T) {
			if got := s.Name(tt.team); got != tt.wantName {
				t.Fatalf("Name = %q, want %q", got, tt.wantName)
			}
			if got := s.Score(tt.team); got != tt.wantScore {
				t.Fatalf("Score = %d, want %d", got, tt.wantScore)
			}
		})
	}
}

func TestTeamValid(t *testing.T) {
	for team, want := range map[Team]bool{Team1: true, Team2: true, 0: false, 3: false} {
		if got := team.Valid(); got != want {
			t.Errorf("Team(%d).Valid() = %t, want %t", team, got, want)
		}
	}
}

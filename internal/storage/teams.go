package storage

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/hammamikhairi/scorekeep/internal/domain"
	"github.com/hammamikhairi/scorekeep/internal/logger"
)

// TeamsKey is the fixed key the team-name pair is stored under.
const TeamsKey = "scoreboard-teams"

// Compile-time interface check.
var _ domain.NameStore = (*TeamStore)(nil)

// TeamStore persists the team-name pair as one JSON record under
// TeamsKey. It never reports errors: reads fall back to the default
// names and failed writes leave the previous record in place.
//
// A nil backend models an environment with no storage at all.
type TeamStore struct {
	backend Backend
	log     *logger.Logger
}

// NewTeamStore creates a name store on backend, which may be nil.
func NewTeamStore(backend Backend, log *logger.Logger) *TeamStore {
	return &TeamStore{backend: backend, log: log}
}

// storedNames mirrors domain.TeamNames with optional fields, so missing
// and null values can be told apart from set ones.
type storedNames struct {
	Team1Name *string `json:"team1Name"`
	Team2Name *string `json:"team2Name"`
}

// Get returns the stored names. Each field falls back to the default
// when it is missing, empty, or the record cannot be read.
func (s *TeamStore) Get(ctx context.Context) domain.TeamNames {
	names := domain.DefaultTeamNames()
	if s.backend == nil {
		return names
	}

	raw, err := s.backend.Get(ctx, TeamsKey)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.log.Debug("team store: read failed, using defaults: %v", err)
		}
		return names
	}
	if len(raw) == 0 {
		return names
	}

	var stored storedNames
	if err := json.Unmarshal(raw, &stored); err != nil {
		s.log.Debug("team store: unparseable record, using defaults: %v", err)
		return names
	}

	if stored.Team1Name != nil && *stored.Team1Name != "" {
		names.Team1Name = *stored.Team1Name
	}
	if stored.Team2Name != nil && *stored.Team2Name != "" {
		names.Team2Name = *stored.Team2Name
	}
	return names
}

// Set writes names. Blank names are replaced with the default before
// writing. Failures are logged at debug level and otherwise ignored.
func (s *TeamStore) Set(ctx context.Context, names domain.TeamNames) {
	if s.backend == nil {
		return
	}

	names = names.Normalized()
	raw, err := json.Marshal(names)
	if err != nil {
		s.log.Debug("team store: encoding names: %v", err)
		return
	}
	if err := s.backend.Set(ctx, TeamsKey, raw); err != nil {
		s.log.Debug("team store: write failed, keeping previous record: %v", err)
	}
}

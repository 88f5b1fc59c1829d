package domain

import "context"

// NameStore persists the team-name pair across sessions. Get never
// fails: implementations return DefaultTeamNames when nothing usable is
// stored. Set is best effort and swallows failures.
type NameStore interface {
	Get(ctx context.Context) TeamNames
	Set(ctx context.Context, names TeamNames)
}

// Horn sounds the end-of-clock signal. Implementations can play audio,
// flash the terminal, or do nothing.
type Horn interface {
	Sound(ctx context.Context) error
}

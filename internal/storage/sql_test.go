package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/hammamikhairi/scorekeep/internal/domain"
)

func openSQLite(t *testing.T) *SQLBackend {
	t.Helper()
	sb, err := OpenSQL(DriverSQLite, filepath.Join(t.TempDir(), "scorekeep.db"), quietLog())
	if err != nil {
		t.Fatalf("OpenSQL: %v", err)
	}
	t.Cleanup(func() { sb.Close() })
	return sb
}

func TestSQLBackendUpsert(t *testing.T) {
	ctx := context.Background()
	sb := openSQLite(t)

	if _, err := sb.Get(ctx, TeamsKey); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := sb.Set(ctx, TeamsKey, []byte(`{"team1Name":"A"}`)); err != nil {
		t.Fatalf("first set: %v", err)
	}
	if err := sb.Set(ctx, TeamsKey, []byte(`{"team1Name":"B"}`)); err != nil {
		t.Fatalf("second set: %v", err)
	}

	got, err := sb.Get(ctx, TeamsKey)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != `{"team1Name":"B"}` {
		t.Fatalf("expected latest value, got %s", got)
	}
}

func TestTeamStoreOnSQLiteSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "teams.db")

	sb, err := OpenSQL(DriverSQLite, path, quietLog())
	if err != nil {
		t.Fatalf("OpenSQL: %v", err)
	}
	NewTeamStore(sb, quietLog()).Set(ctx, domain.TeamNames{Team1Name: "Hawks", Team2Name: " "})
	sb.Close()

	sb, err = OpenSQL(DriverSQLite, path, quietLog())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer sb.Close()

	got := NewTeamStore(sb, quietLog()).Get(ctx)
	if got != (domain.TeamNames{Team1Name: "Hawks", Team2Name: "Team"}) {
		t.Fatalf("unexpected names after reopen %+v", got)
	}
}

func TestOpenSQLUnknownDriver(t *testing.T) {
	if _, err := OpenSQL("oracle", "whatever", quietLog()); err == nil {
		t.Fatal("expected error for unregistered driver")
	}
}

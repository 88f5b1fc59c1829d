package display

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"

	"github.com/hammamikhairi/scorekeep/internal/domain"
	"github.com/hammamikhairi/scorekeep/internal/input"
	"github.com/hammamikhairi/scorekeep/internal/logger"
	"github.com/hammamikhairi/scorekeep/internal/scoreboard"
	"github.com/hammamikhairi/scorekeep/internal/storage"
)

type fixture struct {
	board *scoreboard.Board
	store *storage.TeamStore
	m     model
}

func setupModel(t *testing.T) *fixture {
	t.Helper()
	return setupModelWithNames(t, domain.DefaultTeamNames())
}

// setupModelWithNames persists names before the board is mounted.
func setupModelWithNames(t *testing.T, names domain.TeamNames) *fixture {
	t.Helper()
	ctx := context.Background()
	log := logger.New(logger.LevelOff, nil)

	store := storage.NewTeamStore(storage.NewMemoryBackend(log), log)
	store.Set(ctx, names)
	board := scoreboard.New(store, log, scoreboard.WithClock(clockwork.NewFakeClock()))
	t.Cleanup(board.Close)
	board.Mount(ctx)

	kb := input.NewKeyboard()
	ctrl := input.NewController(board, log)
	sub := ctrl.Bind(ctx, kb)
	t.Cleanup(sub.Close)

	m := newModel(ctx, board, kb, ctrl, "Finals")
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return &fixture{board: board, store: store, m: next.(model)}
}

func (f *fixture) send(msg tea.Msg) tea.Cmd {
	next, cmd := f.m.Update(msg)
	f.m = next.(model)
	return cmd
}

func (f *fixture) key(k tea.KeyType) tea.Cmd {
	return f.send(tea.KeyMsg{Type: k})
}

func (f *fixture) typeText(s string) {
	for _, r := range s {
		f.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// click presses the left button on the first zone matching pred.
func (f *fixture) click(t *testing.T, pred func(zone) bool) {
	t.Helper()
	for _, z := range f.m.render().zones {
		if pred(z) {
			f.send(tea.MouseMsg{X: z.start, Y: z.row, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
			return
		}
	}
	t.Fatal("no matching zone on screen")
}

func onAction(a input.Action) func(zone) bool {
	return func(z zone) bool { return z.action == a }
}

func onField(field int) func(zone) bool {
	return func(z zone) bool { return z.field == field }
}

func TestArrowKeysChangeScores(t *testing.T) {
	f := setupModel(t)

	f.key(tea.KeyUp)
	f.key(tea.KeyUp)
	f.key(tea.KeyRight)
	f.key(tea.KeyDown)
	f.key(tea.KeyLeft)
	f.key(tea.KeyLeft)

	s := f.board.Snapshot()
	if s.Score1 != 1 || s.Score2 != 0 {
		t.Fatalf("expected 1/0, got %d/%d", s.Score1, s.Score2)
	}
	if f.m.snap.Score1 != 1 {
		t.Fatalf("model not synced: %+v", f.m.snap)
	}
}

func TestSpaceTogglesAndZeroResets(t *testing.T) {
	f := setupModel(t)

	f.key(tea.KeyUp)
	f.key(tea.KeySpace)
	if !f.board.Running() {
		t.Fatal("expected running after space")
	}
	if !strings.Contains(f.m.View(), "Pause") {
		t.Fatal("start control should read Pause while running")
	}

	f.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'0'}})
	s := f.board.Snapshot()
	if s.Running || s.Score1 != 0 || s.Clock != "12:00" {
		t.Fatalf("expected reset state, got %+v", s)
	}
	if !strings.Contains(f.m.View(), "Start") {
		t.Fatal("start control should read Start while idle")
	}
}

func TestShortcutsIgnoredWhileEditing(t *testing.T) {
	f := setupModel(t)

	f.key(tea.KeyTab)
	if f.m.focus != fieldTeam1 {
		t.Fatalf("expected team 1 field focused, got %d", f.m.focus)
	}

	f.key(tea.KeyUp)
	f.typeText("0")
	if s := f.board.Snapshot(); s.Score1 != 0 {
		t.Fatalf("arrow changed score while editing: %+v", s)
	}
	if got := f.board.Snapshot().Team1Name; got != "Team0" {
		t.Fatalf("expected typed digit in name, got %q", got)
	}
}

func TestEditingNamePersistsOnBlur(t *testing.T) {
	f := setupModel(t)
	ctx := context.Background()

	f.click(t, onField(fieldTeam1))
	if f.m.focus != fieldTeam1 {
		t.Fatalf("click did not focus team 1 field (focus %d)", f.m.focus)
	}
	for i := 0; i < len("Team"); i++ {
		f.key(tea.KeyBackspace)
	}
	f.typeText("Hawks")

	if got := f.board.Snapshot().Team1Name; got != "Hawks" {
		t.Fatalf("expected Hawks in memory, got %q", got)
	}
	if got := f.store.Get(ctx); got.Team1Name != "Team" {
		t.Fatalf("name persisted before blur: %+v", got)
	}

	f.key(tea.KeyEsc)
	if f.m.focus != noField {
		t.Fatal("esc should blur the field")
	}
	if got := f.store.Get(ctx); got != (domain.TeamNames{Team1Name: "Hawks", Team2Name: "Team"}) {
		t.Fatalf("unexpected stored names %+v", got)
	}
}

func TestLongStoredNameSurvivesEdit(t *testing.T) {
	const long = "Saint Xavier College Eagles Reserve"
	f := setupModelWithNames(t, domain.TeamNames{Team1Name: long, Team2Name: "Owls"})

	if got := f.m.fields[fieldTeam1].Value(); got != long {
		t.Fatalf("field shows %q after mount, want %q", got, long)
	}

	f.key(tea.KeyTab)
	f.key(tea.KeyBackspace)
	f.key(tea.KeyEsc)

	want := long[:len(long)-1]
	if got := f.store.Get(context.Background()).Team1Name; got != want {
		t.Fatalf("stored %q, want %q", got, want)
	}
}

func TestClockFieldAcceptsLongText(t *testing.T) {
	f := setupModel(t)

	f.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	f.send(tea.KeyMsg{Type: tea.KeyCtrlU})
	f.typeText("123456:00")
	f.key(tea.KeyEnter)

	s := f.board.Snapshot()
	if s.Clock != "123456:00" || s.ClockSeconds != 123456*60 {
		t.Fatalf("unexpected clock %q (%d s)", s.Clock, s.ClockSeconds)
	}
}

func TestTabCyclesFields(t *testing.T) {
	f := setupModel(t)

	f.key(tea.KeyTab)
	want := []int{fieldPeriod, fieldClock, fieldTeam2, fieldTeam1}
	for _, w := range want {
		f.key(tea.KeyTab)
		if f.m.focus != w {
			t.Fatalf("expected focus %d, got %d", w, f.m.focus)
		}
	}
	f.key(tea.KeyShiftTab)
	if f.m.focus != fieldTeam2 {
		t.Fatalf("shift+tab should wrap to team 2, got %d", f.m.focus)
	}
}

func TestPeriodAndClockEdits(t *testing.T) {
	f := setupModel(t)

	f.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'p'}})
	f.send(tea.KeyMsg{Type: tea.KeyCtrlU})
	f.typeText("Set 2")
	f.key(tea.KeyEnter)

	f.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	f.send(tea.KeyMsg{Type: tea.KeyCtrlU})
	f.typeText("0:45")
	f.key(tea.KeyEnter)

	s := f.board.Snapshot()
	if s.Period != "Set 2" || s.Clock != "0:45" || s.ClockSeconds != 45 {
		t.Fatalf("unexpected state %+v", s)
	}
	if toneFor(s) != toneCritical {
		t.Fatal("45 seconds should draw the clock as critical")
	}
}

func TestControlClicks(t *testing.T) {
	f := setupModel(t)

	f.click(t, onAction(input.ActionIncScore2))
	f.click(t, onAction(input.ActionIncScore2))
	f.click(t, onAction(input.ActionDecScore2))
	f.click(t, onAction(input.ActionIncScore1))
	f.click(t, onAction(input.ActionDecScore1))
	f.click(t, onAction(input.ActionDecScore1))

	s := f.board.Snapshot()
	if s.Score1 != 0 || s.Score2 != 1 {
		t.Fatalf("expected 0/1, got %d/%d", s.Score1, s.Score2)
	}

	f.click(t, onAction(input.ActionToggleTimer))
	if !f.board.Running() {
		t.Fatal("start control did not start the clock")
	}
	f.click(t, onAction(input.ActionReset))
	if f.board.Running() || f.board.Snapshot().Score2 != 0 {
		t.Fatalf("reset control did not reset: %+v", f.board.Snapshot())
	}
}

func TestClickOutsideBlursAndCommits(t *testing.T) {
	f := setupModel(t)

	f.click(t, onField(fieldTeam2))
	f.send(tea.KeyMsg{Type: tea.KeyCtrlU})
	f.key(tea.KeyEsc)

	got := f.store.Get(context.Background())
	if got.Team2Name != "Team" {
		t.Fatalf("blank name should persist as Team, got %q", got.Team2Name)
	}
	if f.board.Snapshot().Team2Name != "" {
		t.Fatal("in-memory name should stay blank")
	}

	f.click(t, onField(fieldPeriod))
	f.send(tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if f.m.focus != noField {
		t.Fatal("clicking empty space should blur")
	}
}

func TestRefreshPicksUpExternalChanges(t *testing.T) {
	f := setupModel(t)

	f.board.Increment(domain.Team2)
	f.board.SetPeriod("Final")
	if f.m.snap.Score2 != 0 {
		t.Fatal("model changed without a refresh")
	}

	f.send(refreshMsg{})
	if f.m.snap.Score2 != 1 || f.m.fields[fieldPeriod].Value() != "Final" {
		t.Fatalf("refresh not applied: %+v", f.m.snap)
	}
	if !strings.Contains(f.m.View(), "Final") {
		t.Fatal("view missing period")
	}
}

func TestQuit(t *testing.T) {
	for _, msg := range []tea.KeyMsg{
		{Type: tea.KeyCtrlC},
		{Type: tea.KeyRunes, Runes: []rune{'q'}},
	} {
		f := setupModel(t)
		cmd := f.send(msg)
		if cmd == nil {
			t.Fatalf("%s: expected a quit command", msg)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Fatalf("%s: expected QuitMsg", msg)
		}
	}
}

func TestHeaderShowsTitle(t *testing.T) {
	f := setupModel(t)
	view := f.m.View()
	for _, want := range []string{"Finals", "Live Scoreboard", "12:00", "Team"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestWindowTitle(t *testing.T) {
	f := setupModelWithNames(t, domain.TeamNames{Team1Name: "Hawks", Team2Name: "Owls"})
	f.board.Increment(domain.Team2)
	f.send(refreshMsg{})

	if got, want := f.m.windowTitle(), "Hawks 0 : 1 Owls  12:00"; got != want {
		t.Fatalf("windowTitle() = %q, want %q", got, want)
	}
}

func TestKeyName(t *testing.T) {
	cases := []struct {
		msg  tea.KeyMsg
		want string
	}{
		{tea.KeyMsg{Type: tea.KeyUp}, input.KeyArrowUp},
		{tea.KeyMsg{Type: tea.KeyDown}, input.KeyArrowDown},
		{tea.KeyMsg{Type: tea.KeyLeft}, input.KeyArrowLeft},
		{tea.KeyMsg{Type: tea.KeyRight}, input.KeyArrowRight},
		{tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, input.KeySpace},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'0'}}, input.KeyZero},
	}
	for _, tc := range cases {
		if got := keyName(tc.msg); got != tc.want {
			t.Errorf("keyName(%s) = %q, want %q", tc.msg, got, tc.want)
		}
	}
}

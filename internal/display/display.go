// Package display provides the operator's terminal UI using Bubble Tea.
//
// The [UI] renders the scoreboard read-only from board snapshots. Key
// presses go through the shared [input.Keyboard] so the same shortcut
// table applies to every surface; on-screen controls are clicked with
// the mouse and routed through the [input.Controller].
package display

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hammamikhairi/scorekeep/internal/domain"
	"github.com/hammamikhairi/scorekeep/internal/gameclock"
	"github.com/hammamikhairi/scorekeep/internal/input"
	"github.com/hammamikhairi/scorekeep/internal/logger"
)

// Board is what the display reads and edits directly. Score and timer
// changes go through the input controller instead.
type Board interface {
	Snapshot() domain.State
	Subscribe(fn func(s domain.State)) (unsubscribe func())
	SetTeamName(team domain.Team, name string)
	SetPeriod(label string)
	SetClock(text string)
	CommitNames(ctx context.Context)
}

// Editable fields, in tab order.
const (
	noField = iota - 1
	fieldTeam1
	fieldPeriod
	fieldClock
	fieldTeam2
	fieldCount
)

// Option configures the UI.
type Option func(*UI)

// WithTitle sets the event title shown above the board.
func WithTitle(title string) Option {
	return func(u *UI) {
		u.title = title
	}
}

// WithBanner shows the ASCII banner when the terminal is tall enough.
func WithBanner(on bool) Option {
	return func(u *UI) {
		u.banner = on
	}
}

// WithProgramOptions passes extra options to the Bubble Tea program.
func WithProgramOptions(opts ...tea.ProgramOption) Option {
	return func(u *UI) {
		u.progOpts = append(u.progOpts, opts...)
	}
}

// ── UI ───────────────────────────────────────────────────────────

// UI manages the terminal through Bubble Tea.
//
// Call [NewUI] then [UI.Run] (blocking). Other goroutines may call
// [UI.Quit] at any time.
type UI struct {
	board    Board
	kb       *input.Keyboard
	ctrl     *input.Controller
	log      *logger.Logger
	title    string
	banner   bool
	progOpts []tea.ProgramOption

	program *tea.Program
	readyCh chan struct{}
	quitCh  chan struct{}
	done    atomic.Bool
}

// NewUI creates the display. kb must have ctrl bound to it for the
// keyboard shortcuts to take effect.
func NewUI(board Board, kb *input.Keyboard, ctrl *input.Controller, log *logger.Logger, opts ...Option) *UI {
	u := &UI{
		board:   board,
		kb:      kb,
		ctrl:    ctrl,
		log:     log,
		title:   domain.DefaultTitle,
		readyCh: make(chan struct{}),
		quitCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// WaitReady blocks until the Bubble Tea event loop is running.
func (u *UI) WaitReady() { <-u.readyCh }

// Quit tells Bubble Tea to exit.
func (u *UI) Quit() {
	if u.program != nil && !u.done.Load() {
		u.program.Quit()
	}
}

// QuitChan is closed when Run returns.
func (u *UI) QuitChan() <-chan struct{} { return u.quitCh }

// Run starts the Bubble Tea event loop. Blocks until the operator quits
// or ctx is done.
func (u *UI) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Coalesce change notifications; the model re-reads the snapshot.
	refresh := make(chan struct{}, 1)
	unsubscribe := u.board.Subscribe(func(domain.State) {
		select {
		case refresh <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	m := newModel(ctx, u.board, u.kb, u.ctrl, u.title)
	m.banner = u.banner
	m.refresh = refresh
	m.readyCh = u.readyCh

	opts := append([]tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	}, u.progOpts...)

	u.program = tea.NewProgram(m, opts...)
	u.log.Debug("display: starting")
	_, err := u.program.Run()
	u.done.Store(true)
	close(u.quitCh)

	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// ── Bubble Tea model ─────────────────────────────────────────────

type model struct {
	ctx     context.Context
	board   Board
	kb      *input.Keyboard
	ctrl    *input.Controller
	title   string
	banner  bool
	refresh <-chan struct{}
	readyCh chan struct{}

	fields [fieldCount]textinput.Model
	focus  int
	snap   domain.State
	pulse  bool
	width  int
	height int
}

// Messages.
type (
	refreshMsg struct{}
	pulseMsg   time.Time
)

func newModel(ctx context.Context, board Board, kb *input.Keyboard, ctrl *input.Controller, title string) model {
	m := model{
		ctx:   ctx,
		board: board,
		kb:    kb,
		ctrl:  ctrl,
		title: title,
		focus: noField,
	}

	placeholders := [fieldCount]string{
		fieldTeam1:  domain.DefaultTeamName,
		fieldPeriod: domain.DefaultPeriod,
		fieldClock:  gameclock.Default,
		fieldTeam2:  domain.DefaultTeamName,
	}
	for i := range m.fields {
		// Plain prompt keeps textinput's width math correct.
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = placeholders[i]
		ti.PlaceholderStyle = placeholderStyle
		ti.CharLimit = 0
		ti.Width = colWidth - 4
		ti.Cursor.Style = focusMarkStyle
		m.fields[i] = ti
	}
	m.fields[fieldTeam1].TextStyle = teamStyle
	m.fields[fieldTeam2].TextStyle = teamStyle
	m.fields[fieldPeriod].TextStyle = periodStyle

	m.sync(board.Snapshot())
	return m
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		pulseCmd(),
		waitRefresh(m.ctx, m.refresh),
		signalReady(m.readyCh),
	)
}

func signalReady(ch chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		close(ch)
		return nil
	}
}

func pulseCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return pulseMsg(t)
	})
}

// waitRefresh turns the next board change into a refreshMsg.
func waitRefresh(ctx context.Context, ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case <-ch:
			return refreshMsg{}
		case <-ctx.Done():
			return nil
		}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case refreshMsg:
		m.sync(m.board.Snapshot())
		return m, tea.Batch(
			waitRefresh(m.ctx, m.refresh),
			tea.SetWindowTitle(m.windowTitle()),
		)

	case pulseMsg:
		m.pulse = !m.pulse
		return m, pulseCmd()

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	// Cursor blink and friends.
	if m.focus != noField {
		var cmd tea.Cmd
		m.fields[m.focus], cmd = m.fields[m.focus].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	target := input.TargetNone
	if m.focus != noField {
		target = input.TargetTextField
	}
	ev := &input.KeyEvent{Key: keyName(msg), Target: target}
	if m.kb.Dispatch(ev) {
		m.sync(m.board.Snapshot())
		return m, nil
	}

	if m.focus == noField {
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "tab", "1":
			return m.setFocus(fieldTeam1)
		case "shift+tab", "2":
			return m.setFocus(fieldTeam2)
		case "p":
			return m.setFocus(fieldPeriod)
		case "c":
			return m.setFocus(fieldClock)
		}
		return m, nil
	}

	switch msg.Type {
	case tea.KeyEsc, tea.KeyEnter:
		return m.setFocus(noField)
	case tea.KeyTab:
		return m.setFocus((m.focus + 1) % fieldCount)
	case tea.KeyShiftTab:
		return m.setFocus((m.focus + fieldCount - 1) % fieldCount)
	}

	f := m.focus
	before := m.fields[f].Value()
	var cmd tea.Cmd
	m.fields[f], cmd = m.fields[f].Update(msg)
	if v := m.fields[f].Value(); v != before {
		m.apply(f, v)
	}
	return m, cmd
}

func (m model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}

	z, ok := m.render().hit(msg.X, msg.Y)
	if !ok {
		return m.setFocus(noField)
	}
	if z.field != noField {
		return m.setFocus(z.field)
	}

	// Clicking a control takes focus away from any field first.
	next, cmd := m.setFocus(noField)
	nm := next.(model)
	nm.ctrl.Do(nm.ctx, z.action)
	nm.sync(nm.board.Snapshot())
	return nm, cmd
}

// setFocus moves focus to f (or nowhere). Leaving a team-name field
// persists both names.
func (m model) setFocus(f int) (tea.Model, tea.Cmd) {
	prev := m.focus
	if prev == f {
		return m, nil
	}
	if prev != noField {
		m.fields[prev].Blur()
	}
	if prev == fieldTeam1 || prev == fieldTeam2 {
		m.board.CommitNames(m.ctx)
	}

	m.focus = f
	if f == noField {
		return m, nil
	}
	m.fields[f].CursorEnd()
	return m, m.fields[f].Focus()
}

// apply writes an edited field back to the board.
func (m model) apply(f int, v string) {
	switch f {
	case fieldTeam1:
		m.board.SetTeamName(domain.Team1, v)
	case fieldTeam2:
		m.board.SetTeamName(domain.Team2, v)
	case fieldPeriod:
		m.board.SetPeriod(v)
	case fieldClock:
		m.board.SetClock(v)
	}
}

// sync makes the fields show s. Fields always mirror the board, so a
// running clock overwrites a clock being edited.
func (m *model) sync(s domain.State) {
	m.snap = s
	values := [fieldCount]string{
		fieldTeam1:  s.Team1Name,
		fieldPeriod: s.Period,
		fieldClock:  s.Clock,
		fieldTeam2:  s.Team2Name,
	}
	for i, v := range values {
		if m.fields[i].Value() != v {
			m.fields[i].SetValue(v)
		}
	}
}

// keyName maps a Bubble Tea key to the shortcut table's key names.
func keyName(msg tea.KeyMsg) string {
	switch msg.Type {
	case tea.KeyUp:
		return input.KeyArrowUp
	case tea.KeyDown:
		return input.KeyArrowDown
	case tea.KeyLeft:
		return input.KeyArrowLeft
	case tea.KeyRight:
		return input.KeyArrowRight
	case tea.KeySpace:
		return input.KeySpace
	}
	return msg.String()
}

// ── View ─────────────────────────────────────────────────────────

// clockTone is how urgently the clock is drawn.
type clockTone int

const (
	toneIdle clockTone = iota
	toneRunning
	toneCritical
)

func toneFor(s domain.State) clockTone {
	switch {
	case gameclock.Critical(s.ClockSeconds):
		return toneCritical
	case s.Running:
		return toneRunning
	default:
		return toneIdle
	}
}

func (m model) View() string {
	return m.render().String()
}

func (m model) termWidth() int {
	if m.width > 0 {
		return m.width
	}
	return termWidth()
}

// render draws the board. View and mouse hit testing share it.
func (m model) render() *canvas {
	s := m.snap
	width := m.termWidth()
	c := newCanvas(width)

	if m.banner && m.height >= 20 {
		for _, l := range bannerLines(width) {
			c.line(l)
		}
		c.line("")
	}

	c.indented(titleStyle.Render(m.title))
	c.indented(subtitleStyle.Render("Live Scoreboard"))
	c.line("")

	c.columns(
		[]part{editable(m.fieldView(fieldTeam1), fieldTeam1)},
		[]part{editable(m.fieldView(fieldPeriod), fieldPeriod)},
		[]part{editable(m.fieldView(fieldTeam2), fieldTeam2)},
	)
	c.line("")
	c.columns(
		[]part{plain(scoreStyle.Render(strconv.Itoa(s.Score(domain.Team1))))},
		[]part{editable(m.fieldView(fieldClock), fieldClock)},
		[]part{plain(scoreStyle.Render(strconv.Itoa(s.Score(domain.Team2))))},
	)
	c.line("")

	startLabel := "Start"
	if s.Running {
		startLabel = "Pause"
	}
	c.columns(
		[]part{
			button(buttonStyle.Render("+"), input.ActionIncScore1), spacer,
			button(buttonStyle.Render("-"), input.ActionDecScore1),
		},
		[]part{
			button(buttonPrimaryStyle.Render(startLabel), input.ActionToggleTimer), spacer,
			button(buttonStyle.Render("Reset"), input.ActionReset),
		},
		[]part{
			button(buttonStyle.Render("+"), input.ActionIncScore2), spacer,
			button(buttonStyle.Render("-"), input.ActionDecScore2),
		},
	)
	c.line("")
	c.line(m.statusBar(width))
	return c
}

// fieldView renders one editable field with a focus marker.
func (m model) fieldView(f int) string {
	ti := m.fields[f]
	if f == fieldClock {
		switch toneFor(m.snap) {
		case toneCritical:
			st := clockUrgentStyle
			if m.snap.Running && m.pulse {
				st = st.Faint(true)
			}
			ti.TextStyle = st
		case toneRunning:
			ti.TextStyle = clockRunStyle
		default:
			ti.TextStyle = clockIdleStyle
		}
	}
	if f == m.focus {
		return focusMarkStyle.Render("› ") + ti.View()
	}
	return ti.View()
}

func (m model) statusBar(width int) string {
	state := sepStyle.Render("❚❚ idle")
	if m.snap.Running {
		state = liveStyle.Render("● live")
	}

	help := "↑/↓ team 1   →/← team 2   space start/pause   0 reset   tab edit   q quit"
	if m.focus != noField {
		help = "typing   tab next field   enter/esc done"
	}

	content := " " + state + sepStyle.Render("  │  ") + help + " "
	return barBg.Width(width).Render(content)
}

func (m model) windowTitle() string {
	s := m.snap
	return fmt.Sprintf("%s %d : %d %s  %s",
		s.Name(domain.Team1), s.Score(domain.Team1),
		s.Score(domain.Team2), s.Name(domain.Team2), s.Clock)
}

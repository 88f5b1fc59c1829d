package input

import (
	"context"

	"github.com/hammamikhairi/scorekeep/internal/domain"
	"github.com/hammamikhairi/scorekeep/internal/logger"
)

// Board is the set of scoreboard operations the controller drives.
type Board interface {
	Increment(team domain.Team)
	Decrement(team domain.Team)
	Toggle()
	Reset(ctx context.Context)
}

// Action is a discrete operator control, as bound to on-screen buttons.
type Action int

const (
	ActionNone Action = iota
	ActionIncScore1
	ActionDecScore1
	ActionIncScore2
	ActionDecScore2
	ActionToggleTimer
	ActionReset
)

// String returns a human-readable action name.
func (a Action) String() string {
	switch a {
	case ActionIncScore1:
		return "inc_score1"
	case ActionDecScore1:
		return "dec_score1"
	case ActionIncScore2:
		return "inc_score2"
	case ActionDecScore2:
		return "dec_score2"
	case ActionToggleTimer:
		return "toggle_timer"
	case ActionReset:
		return "reset"
	default:
		return "none"
	}
}

// keyActions is the keyboard shortcut table.
var keyActions = map[string]Action{
	KeyArrowUp:    ActionIncScore1,
	KeyArrowDown:  ActionDecScore1,
	KeyArrowRight: ActionIncScore2,
	KeyArrowLeft:  ActionDecScore2,
	KeySpace:      ActionToggleTimer,
	KeyZero:       ActionReset,
}

// ActionForKey returns the action bound to key, or ActionNone.
func ActionForKey(key string) Action {
	return keyActions[key]
}

// Controller applies operator actions to a board.
type Controller struct {
	board Board
	log   *logger.Logger
}

// NewController creates a controller for board.
func NewController(board Board, log *logger.Logger) *Controller {
	return &Controller{board: board, log: log}
}

// Do performs a single action.
func (c *Controller) Do(ctx context.Context, a Action) {
	c.log.Debug("input: %s", a)
	switch a {
	case ActionIncScore1:
		c.board.Increment(domain.Team1)
	case ActionDecScore1:
		c.board.Decrement(domain.Team1)
	case ActionIncScore2:
		c.board.Increment(domain.Team2)
	case ActionDecScore2:
		c.board.Decrement(domain.Team2)
	case ActionToggleTimer:
		c.board.Toggle()
	case ActionReset:
		c.board.Reset(ctx)
	}
}

// HandleKey is the keyboard handler. Keys pressed while a text field has
// focus are left alone; bound keys are consumed.
func (c *Controller) HandleKey(ctx context.Context, ev *KeyEvent) {
	if ev.Target == TargetTextField {
		return
	}
	a := ActionForKey(ev.Key)
	if a == ActionNone {
		return
	}
	ev.PreventDefault()
	c.Do(ctx, a)
}

// Bind attaches the controller to kb. Close the returned subscription on
// teardown.
func (c *Controller) Bind(ctx context.Context, kb *Keyboard) *Subscription {
	return kb.Attach(func(ev *KeyEvent) {
		c.HandleKey(ctx, ev)
	})
}

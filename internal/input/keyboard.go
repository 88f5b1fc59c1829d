// Package input maps operator key presses and control clicks to
// scoreboard actions.
//
// [Keyboard] is the process-wide key source. Handlers are attached with
// [Keyboard.Attach] and stay attached until the returned [Subscription]
// is closed, so a display that mounts and unmounts repeatedly never
// leaves stale handlers behind.
package input

import (
	"sort"
	"sync"
)

// Key names as delivered in KeyEvent.Key.
const (
	KeyArrowUp    = "ArrowUp"
	KeyArrowDown  = "ArrowDown"
	KeyArrowLeft  = "ArrowLeft"
	KeyArrowRight = "ArrowRight"
	KeySpace      = " "
	KeyZero       = "0"
)

// Target says where keyboard focus was when the key was pressed.
type Target int

const (
	// TargetNone means no text field has focus.
	TargetNone Target = iota
	// TargetTextField means an editable text field has focus.
	TargetTextField
)

// KeyEvent is one key press.
type KeyEvent struct {
	Key    string
	Target Target

	prevented bool
}

// PreventDefault marks the key as consumed so the caller skips its own
// handling of it.
func (e *KeyEvent) PreventDefault() { e.prevented = true }

// DefaultPrevented reports whether a handler consumed the key.
func (e *KeyEvent) DefaultPrevented() bool { return e.prevented }

// Handler receives key events.
type Handler func(ev *KeyEvent)

// Keyboard fans key events out to attached handlers. Safe for
// concurrent use.
type Keyboard struct {
	mu       sync.Mutex
	handlers map[uint64]Handler
	next     uint64
}

// NewKeyboard creates a key source with no handlers attached.
func NewKeyboard() *Keyboard {
	return &Keyboard{handlers: make(map[uint64]Handler)}
}

// Attach registers h until the returned subscription is closed.
func (k *Keyboard) Attach(h Handler) *Subscription {
	k.mu.Lock()
	defer k.mu.Unlock()

	k.next++
	id := k.next
	k.handlers[id] = h
	return &Subscription{kb: k, id: id}
}

// Dispatch delivers ev to every attached handler in attach order and
// reports whether any of them prevented the default.
func (k *Keyboard) Dispatch(ev *KeyEvent) bool {
	k.mu.Lock()
	ids := make([]uint64, 0, len(k.handlers))
	for id := range k.handlers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	hs := make([]Handler, 0, len(ids))
	for _, id := range ids {
		hs = append(hs, k.handlers[id])
	}
	k.mu.Unlock()

	for _, h := range hs {
		h(ev)
	}
	return ev.prevented
}

// Len returns the number of attached handlers.
func (k *Keyboard) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.handlers)
}

func (k *Keyboard) detach(id uint64) {
	k.mu.Lock()
	defer k.mu.Unlock()
	delete(k.handlers, id)
}

// Subscription is an attached handler. Close releases it.
type Subscription struct {
	kb   *Keyboard
	id   uint64
	once sync.Once
}

// Close detaches the handler. Safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() { s.kb.detach(s.id) })
}

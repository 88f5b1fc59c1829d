// Package horn sounds the end-of-period buzzer through the system audio
// device.
package horn

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/hammamikhairi/scorekeep/internal/domain"
	"github.com/hammamikhairi/scorekeep/internal/logger"
)

// Compile-time interface checks.
var (
	_ domain.Horn = (*Speaker)(nil)
	_ domain.Horn = (*NoOp)(nil)
)

// ErrSilentTone is returned by NewSpeaker for a tone that renders no
// samples.
var ErrSilentTone = errors.New("horn tone has no samples")

// Option configures a Speaker.
type Option func(*Speaker)

// WithTone overrides the default buzzer tone.
func WithTone(t Tone) Option {
	return func(s *Speaker) {
		s.tone = t
	}
}

// Speaker plays the horn through oto.
type Speaker struct {
	ctx  *oto.Context
	log  *logger.Logger
	tone Tone
	pcm  []byte

	mu     sync.Mutex
	active *oto.Player // currently playing, nil when idle
}

// NewSpeaker initializes the system audio context. Returns an error if the
// audio device is unavailable. oto allows one context per process.
func NewSpeaker(log *logger.Logger, opts ...Option) (*Speaker, error) {
	s := &Speaker{log: log, tone: DefaultTone()}
	for _, opt := range opts {
		opt(s)
	}
	s.pcm = s.tone.PCM()
	if len(s.pcm) == 0 {
		return nil, ErrSilentTone
	}

	op := &oto.NewContextOptions{
		SampleRate:   SampleRate,
		ChannelCount: ChannelCount,
		Format:       oto.FormatSignedInt16LE,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-ready

	s.ctx = ctx
	log.Debug("horn initialized (%.0fHz, %s)", s.tone.Frequency, s.tone.Duration)
	return s, nil
}

// Sound plays the horn and blocks until it finishes or ctx is done.
// A horn already sounding is cut off first.
func (s *Speaker) Sound(ctx context.Context) error {
	s.Stop()
	player := s.ctx.NewPlayer(bytes.NewReader(s.pcm))

	s.mu.Lock()
	s.active = player
	s.mu.Unlock()

	player.Play()
	s.log.Debug("horn: playing %d bytes of PCM", len(s.pcm))

	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	for player.IsPlaying() {
		select {
		case <-ctx.Done():
			player.Pause()
		case <-ticker.C:
		}
	}

	s.mu.Lock()
	if s.active == player {
		s.active = nil
	}
	s.mu.Unlock()

	return player.Close()
}

// Stop interrupts the horn, if sounding. Safe to call concurrently and
// when nothing is playing.
func (s *Speaker) Stop() {
	s.mu.Lock()
	active := s.active
	s.mu.Unlock()

	if active != nil {
		active.Pause()
		s.log.Debug("horn: interrupted")
	}
}

// NoOp is a horn that only logs. Used when audio is disabled or the
// device could not be opened.
type NoOp struct {
	log *logger.Logger
}

// NewNoOp creates a silent horn.
func NewNoOp(log *logger.Logger) *NoOp {
	return &NoOp{log: log}
}

// Sound does nothing.
func (n *NoOp) Sound(ctx context.Context) error {
	n.log.Debug("horn no-op: time expired")
	return nil
}

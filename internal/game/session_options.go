package game

import (
	"io"
	"math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/cardroom/holdem/internal/randutil"
)

// Option configures a Session at construction time.
type Option func(*Session)

// WithLogger sets the session's structured logger. The default discards
// everything.
func WithLogger(logger *log.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// WithSeed seeds the session's random source, making shuffles and button
// selection reproducible.
func WithSeed(seed int64) Option {
	return func(s *Session) { s.rng = randutil.New(seed) }
}

// WithRNG supplies the random source directly.
func WithRNG(rng *rand.Rand) Option {
	return func(s *Session) { s.rng = rng }
}

// WithClock sets the clock used to timestamp events. Tests inject
// quartz.NewMock.
func WithClock(clock quartz.Clock) Option {
	return func(s *Session) { s.clock = clock }
}

// WithEventBus replaces the session's event bus.
func WithEventBus(bus EventBus) Option {
	return func(s *Session) { s.bus = bus }
}

// WithPlayerNames overrides the default seat names. Extra names are
// ignored; missing ones keep their defaults.
func WithPlayerNames(names []string) Option {
	return func(s *Session) {
		for i, name := range names {
			if i >= len(s.players) {
				break
			}
			if name != "" {
				s.players[i].Name = name
			}
		}
	}
}

func (s *Session) fillDefaults() {
	if s.rng == nil {
		s.rng = randutil.NewFromTime()
	}
	if s.clock == nil {
		s.clock = quartz.NewReal()
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	if s.bus == nil {
		s.bus = NewEventBus()
	}
}

package system

import (
	"context"
	"time"

	"github.com/l1jgo/arena/internal/core/clock"
	"github.com/l1jgo/arena/internal/core/ecs"
	"github.com/l1jgo/arena/internal/core/event"
	"go.uber.org/zap"
)

// Loop drives one world at a fixed tick: dispatch last frame's events,
// update every system, then flush deferred destruction.
type Loop struct {
	world *ecs.World
	bus   *event.Bus
	tower clock.Tower
	tick  time.Duration
	log   *zap.Logger

	frame    uint64
	hooks    []func(frame uint64)
	maxDelta time.Duration
}

func NewLoop(world *ecs.World, bus *event.Bus, tower clock.Tower, tick time.Duration, log *zap.Logger) *Loop {
	if tower == nil {
		tower = clock.Nop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Loop{
		world:    world,
		bus:      bus,
		tower:    tower,
		tick:     tick,
		log:      log,
		maxDelta: 4 * tick,
	}
}

// Frame is the number of completed frames.
func (l *Loop) Frame() uint64 { return l.frame }

// AfterFrame registers fn to run after every completed frame.
func (l *Loop) AfterFrame(fn func(frame uint64)) {
	l.hooks = append(l.hooks, fn)
}

// Step runs exactly one frame with the given wall delta. The game delta is
// the wall delta capped at four ticks so a stalled process does not tunnel
// bodies through each other.
func (l *Loop) Step(wall time.Duration) {
	if l.bus != nil {
		l.bus.SwapBuffers()
		l.bus.DispatchAll()
	}

	game := wall
	if l.maxDelta > 0 && game > l.maxDelta {
		game = l.maxDelta
	}
	l.world.Update(wall, game, l.tower)

	destroyed := l.world.FinishUpdate()
	if l.bus != nil {
		for _, id := range destroyed {
			event.Emit(l.bus, event.EntityDestroyed{Entity: id, Frame: l.frame})
		}
	}

	l.frame++
	for _, fn := range l.hooks {
		fn(l.frame)
	}
}

// Run ticks until ctx is cancelled. Returns nil on cancellation.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.tick)
	defer ticker.Stop()

	last := time.Now()
	l.log.Info("simulation loop started", zap.Duration("tick", l.tick))
	for {
		select {
		case now := <-ticker.C:
			l.Step(now.Sub(last))
			last = now
		case <-ctx.Done():
			l.log.Info("simulation loop stopped", zap.Uint64("frames", l.frame))
			return nil
		}
	}
}

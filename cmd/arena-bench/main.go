// arena-bench drives a dense scene headlessly and prints per-system timings.
//
// Profiling:
// go build ./cmd/arena-bench
// ./arena-bench -mode cpu -frames 2000
// go tool pprof -http=":8000" ./arena-bench cpu.pprof
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/l1jgo/arena/internal/component"
	"github.com/l1jgo/arena/internal/core/clock"
	"github.com/l1jgo/arena/internal/core/ecs"
	"github.com/l1jgo/arena/internal/core/event"
	coresys "github.com/l1jgo/arena/internal/core/system"
	"github.com/l1jgo/arena/internal/geom"
	"github.com/l1jgo/arena/internal/spatial"
	"github.com/l1jgo/arena/internal/system"
	"github.com/pkg/profile"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func main() {
	bodies := flag.Int("bodies", 2000, "number of moving bodies")
	frames := flag.Int("frames", 1000, "frames to simulate")
	arena := flag.Float64("size", 4000, "arena side length")
	cell := flag.Float64("cell", spatial.DefaultCellSize, "spatial hash cell size")
	seed := flag.Int64("seed", 1, "random seed")
	mode := flag.String("mode", "", "profile mode: cpu, mem or trace (empty = off)")
	flag.Parse()

	if p := startProfile(*mode); p != nil {
		defer p.Stop()
	}

	if err := run(*bodies, *frames, *arena, *cell, *seed); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func startProfile(mode string) interface{ Stop() } {
	switch mode {
	case "cpu":
		return profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook)
	case "mem":
		return profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook)
	case "trace":
		return profile.Start(profile.TraceProfile, profile.ProfilePath("."), profile.NoShutdownHook)
	}
	return nil
}

func run(bodies, frames int, size, cell float64, seed int64) error {
	if bodies <= 0 || frames <= 0 {
		return fmt.Errorf("bodies and frames must be positive")
	}
	rng := rand.New(rand.NewSource(seed))
	const tick = 16 * time.Millisecond

	world := ecs.NewWorld(zap.NewNop())
	grid := spatial.NewGrid(cell)
	bus := event.NewBus()
	collision := system.NewCollisionSystem(grid, bus, zap.NewNop())
	collision.AddRule(system.ColliderRule{
		Name:  "hit",
		Left:  component.TypesOf(component.Attack),
		Right: component.TypesOf(component.Vulnerable),
	})
	collision.AddRule(system.ColliderRule{
		Name:  "block",
		Left:  component.TypesOf(component.Mobile),
		Right: component.TypesOf(component.Solid),
	})
	pushOut := system.NewPushOutSystem()
	world.AddSystem(coresys.PriorityMovement, system.NewMovementSystem())
	world.AddSystem(coresys.PrioritySpatialHash, system.NewSpatialHashSystem(grid))
	world.AddSystem(coresys.PriorityCollision, collision)
	world.AddSystem(coresys.PriorityResolve, pushOut)

	contacts := 0
	event.Subscribe(bus, func(event.Contact) { contacts++ })

	for i := 0; i < bodies; i++ {
		id := world.AddEntity()
		world.AddComponent(id, component.NewPosition(rng.Float64()*size, rng.Float64()*size, rng.Float64()*6.28))
		w, h := 8+rng.Float64()*24, 8+rng.Float64()*24
		var shape *component.CollisionShape
		switch i % 4 {
		case 0:
			shape = component.NewRect(w, h, geom.Vec2{}, component.Solid)
		case 1:
			shape = component.NewRect(w, h, geom.Vec2{}, component.Mobile, component.Attack)
		default:
			shape = component.NewRect(w, h, geom.Vec2{}, component.Mobile, component.Vulnerable)
		}
		world.AddComponent(id, shape)
		if i%4 != 0 {
			world.AddComponent(id, component.NewVelocity(rng.Float64()*200-100, rng.Float64()*200-100, rng.Float64()-0.5))
		}
	}

	profiler := clock.NewProfiler()
	loop := coresys.NewLoop(world, bus, profiler, tick, zap.NewNop())
	loop.AfterFrame(func(uint64) { pushOut.EndFrame() })

	start := time.Now()
	for f := 0; f < frames; f++ {
		loop.Step(tick)
	}
	elapsed := time.Since(start)

	p := message.NewPrinter(language.English)
	p.Printf("%d bodies, %d frames in %v (%.1f frames/s)\n", bodies, frames, elapsed.Round(time.Millisecond),
		float64(frames)/elapsed.Seconds())
	p.Printf("%d contacts, %d occupied cells\n\n", contacts, grid.OccupiedCells())
	return clock.WriteReport(os.Stdout, profiler.Snapshot())
}

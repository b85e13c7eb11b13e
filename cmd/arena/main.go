package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/l1jgo/arena/internal/config"
	"github.com/l1jgo/arena/internal/core/clock"
	"github.com/l1jgo/arena/internal/core/ecs"
	"github.com/l1jgo/arena/internal/core/event"
	coresys "github.com/l1jgo/arena/internal/core/system"
	"github.com/l1jgo/arena/internal/data"
	"github.com/l1jgo/arena/internal/persist"
	"github.com/l1jgo/arena/internal/scripting"
	"github.com/l1jgo/arena/internal/spatial"
	"github.com/l1jgo/arena/internal/system"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(name string) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m            arena simulation kernel        \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mworld:\033[0m %s\n\n", name)
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

// ── Main simulation logic ─────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/arena.toml"
	if p := os.Getenv("ARENA_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Sim.Name)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. World, broad-phase grid and event bus
	world := ecs.NewWorld(log)
	world.TimeScale().SetScale(cfg.Sim.TimeScale)
	if cfg.Sim.Frozen {
		world.TimeScale().Freeze()
	}
	grid := spatial.NewGrid(cfg.Sim.CellSize)
	bus := event.NewBus()

	// 4. Systems, lowest priority first
	printSection("systems")
	movement := system.NewMovementSystem()
	hash := system.NewSpatialHashSystem(grid)
	collision := system.NewCollisionSystem(grid, bus, log)
	pushOut := system.NewPushOutSystem()
	stats := system.NewDebugStatsSystem()
	world.AddSystem(coresys.PriorityMovement, movement)
	world.AddSystem(coresys.PrioritySpatialHash, hash)
	world.AddSystem(coresys.PriorityCollision, collision)
	world.AddSystem(coresys.PriorityResolve, pushOut)
	world.AddSystem(coresys.PriorityDebug, stats)
	for _, info := range world.Systems() {
		printOK(fmt.Sprintf("%-14s priority %d", info.Name, info.Priority))
	}
	fmt.Println()

	// 5. Data
	printSection("data")
	rules, err := data.LoadColliderRules(cfg.Data.ColliderRules)
	if err != nil {
		return fmt.Errorf("load collider rules: %w", err)
	}
	for i := range rules {
		collision.AddRule(system.ColliderRule{
			Name:  rules[i].Name,
			Left:  rules[i].LeftTypes(),
			Right: rules[i].RightTypes(),
		})
	}
	printStat("collider rules", len(rules))

	spawns, err := data.LoadSpawnList(cfg.Data.SpawnList)
	if err != nil {
		return fmt.Errorf("load spawn list: %w", err)
	}
	ids := spawns.Populate(world)
	printStat("bodies", len(ids))
	printStat("grid cells", grid.OccupiedCells())
	fmt.Println()

	// 6. Debug console
	console := scripting.NewConsole(world, collision, log)
	defer console.Close()
	if cfg.Data.ConsoleScript != "" {
		if err := console.RunFile(cfg.Data.ConsoleScript); err != nil {
			return fmt.Errorf("console script: %w", err)
		}
	}

	event.Subscribe(bus, func(c event.Contact) {
		log.Debug("contact",
			zap.String("rule", c.Rule),
			zap.Int32("a", int32(c.A)),
			zap.Int32("b", int32(c.B)),
			zap.Float64("depth", c.Amount))
	})
	event.Subscribe(bus, func(e event.EntityDestroyed) {
		log.Debug("entity destroyed", zap.Int32("entity", int32(e.Entity)), zap.Uint64("frame", e.Frame))
	})

	// 7. Profiling
	var tower clock.Tower = clock.Nop{}
	var profiler *clock.Profiler
	if cfg.Profile.Enabled {
		profiler = clock.NewProfiler()
		tower = profiler
	}

	loop := coresys.NewLoop(world, bus, tower, cfg.Sim.TickRate, log)
	loop.AfterFrame(func(uint64) { pushOut.EndFrame() })

	var report func() ([]clock.Sample, error)
	if profiler != nil && !cfg.Profile.Persist {
		report = func() ([]clock.Sample, error) { return profiler.Snapshot(), nil }
	}
	if profiler != nil && cfg.Profile.Persist {
		printSection("profile store")
		repo, runID, closeDB, err := openProfileStore(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer closeDB()
		writer := persist.NewProfileWriter(repo, runID, 16, log)
		done := make(chan struct{})
		go func() {
			writer.Run(ctx)
			close(done)
		}()
		defer func() {
			stop()
			<-done
		}()

		every := cfg.Profile.FlushEvery
		loop.AfterFrame(func(frame uint64) {
			if frame%every == 0 {
				writer.Submit(frame, profiler.Snapshot())
				profiler.Reset()
			}
		})
		report = func() ([]clock.Sample, error) {
			stop()
			<-done
			rctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := repo.SaveSamples(rctx, runID, loop.Frame(), profiler.Snapshot()); err != nil {
				return nil, err
			}
			return repo.Totals(rctx, runID)
		}
		fmt.Println()
	}

	log.Info("simulation ready",
		zap.Duration("tick", cfg.Sim.TickRate),
		zap.Int("entities", len(world.Entities())),
		zap.Bool("frozen", world.TimeScale().Frozen()))

	// 8. Run until signalled
	if err := loop.Run(ctx); err != nil {
		return err
	}

	if report != nil {
		samples, err := report()
		if err != nil {
			return fmt.Errorf("profile totals: %w", err)
		}
		if err := clock.WriteReport(os.Stdout, samples); err != nil {
			return fmt.Errorf("write profile report: %w", err)
		}
	}
	s := stats.Stats()
	log.Info("simulation stopped",
		zap.Uint64("frames", loop.Frame()),
		zap.Int("entities", s.Entities),
		zap.Int("contacts", collision.Stats().Contacts))
	return nil
}

// openProfileStore connects, migrates and opens a run. The returned func
// closes the pool.
func openProfileStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (*persist.ProfileRepo, int64, func(), error) {
	dbCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	db, err := persist.NewDB(dbCtx, cfg.Database, log)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("database: %w", err)
	}
	printOK("PostgreSQL connected")

	version, err := persist.RunMigrations(dbCtx, db.Pool)
	if err != nil {
		db.Close()
		return nil, 0, nil, fmt.Errorf("migrations: %w", err)
	}
	printOK(fmt.Sprintf("schema at version %d", version))

	repo := persist.NewProfileRepo(db)
	runID, err := repo.StartRun(dbCtx, cfg.Profile.Label, cfg.Sim.TickRate)
	if err != nil {
		db.Close()
		return nil, 0, nil, err
	}
	printStat("profile run", int(runID))
	return repo, runID, db.Close, nil
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}

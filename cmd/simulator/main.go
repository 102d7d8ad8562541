package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nethrin/wavegate/internal/arena"
	"github.com/nethrin/wavegate/internal/config"
	"github.com/nethrin/wavegate/internal/data"
	"github.com/nethrin/wavegate/internal/enemy"
	"github.com/nethrin/wavegate/internal/event"
	"github.com/nethrin/wavegate/internal/model"
	"github.com/nethrin/wavegate/internal/scaling"
	"github.com/nethrin/wavegate/internal/wave"
)

const ConfigPath = "config/orchestrator.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx, cancel); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

// staticPlayer is the simulator's stand-in player locator.
type staticPlayer struct {
	pos model.Position
}

func (p *staticPlayer) PlayerPosition() (model.Position, bool) {
	return p.pos, true
}

func run(ctx context.Context, cancel context.CancelFunc) error {
	cfgPath := ConfigPath
	if p := os.Getenv("WAVEGATE_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadOrchestrator(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))

	slog.Info("wavegate simulator starting",
		"config", cfgPath,
		"infinite", cfg.InfiniteMode,
		"difficulty", cfg.DifficultyMultiplier)

	lib, err := data.LoadArchetypes(cfg.ArchetypesPath)
	if err != nil {
		return fmt.Errorf("loading archetypes: %w", err)
	}
	waves, err := data.LoadWaves(cfg.WavesPath, lib)
	if err != nil {
		return fmt.Errorf("loading waves: %w", err)
	}
	slog.Info("authored data loaded", "archetypes", lib.Count(), "waves", len(waves))

	anchors := make([]model.Position, 0, len(cfg.Spawn.Anchors))
	for _, a := range cfg.Spawn.Anchors {
		anchors = append(anchors, model.NewPosition(a.X, a.Y, a.Z))
	}
	field := arena.New(cfg.Arena.Width, cfg.Arena.Height, cfg.Arena.CellSize, anchors)
	player := &staticPlayer{}

	bus := event.NewBus()
	bus.Subscribe(event.HandlerFunc(logEvent))

	var orchestrator *wave.Orchestrator
	director := enemy.NewDirector(
		func(h model.EnemyHandle) error { return orchestrator.OnEnemyDied(h) },
		time.Duration(cfg.AutoResolveSeconds)*time.Second,
	)

	resolver := wave.NewPositionResolver(
		wave.ResolverConfig{
			MinPlayerDistance: cfg.Spawn.MinPlayerDistance,
			MaxPlayerDistance: cfg.Spawn.MaxPlayerDistance,
			JitterRadius:      cfg.Spawn.JitterRadius,
			SampleRadius:      cfg.Spawn.SampleRadius,
		},
		field.Anchors(), player, field, nil,
	)

	orchestrator = wave.New(waves, lib, director, resolver, bus, wave.Options{
		InfiniteMode:     cfg.InfiniteMode,
		GlobalMultiplier: cfg.DifficultyMultiplier,
		Scaling: scaling.Config{
			HealthIncrement: cfg.HealthIncrement,
			DamageIncrement: cfg.DamageIncrement,
			SpawnRateGrowth: cfg.SpawnRateGrowth,
			RewardGrowth:    cfg.RewardGrowth,
		},
		RestDuration: time.Duration(cfg.RestSeconds) * time.Second,
		RestPerWave:  time.Duration(cfg.RestPerWaveSeconds) * time.Second,
		RestMax:      time.Duration(cfg.RestMaxSeconds) * time.Second,
	})

	// End the process once the playthrough resolves either way.
	bus.Subscribe(event.HandlerFunc(func(e event.Event) {
		if e.Kind == event.KindGameOver {
			slog.Info("playthrough finished", "victory", e.Victory)
			cancel()
		}
	}))

	loop := wave.NewLoop(orchestrator, time.Duration(cfg.TickMillis)*time.Millisecond)

	if err := orchestrator.StartGame(); err != nil {
		return fmt.Errorf("starting game: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return loop.Start(gctx) })
	g.Go(func() error { return director.RunAutoResolve(gctx) })
	return g.Wait()
}

// logEvent prints the notification stream.
func logEvent(e event.Event) {
	switch e.Kind {
	case event.KindWaveStarted:
		slog.Info("event: wave started", "wave", e.WaveIndex)
	case event.KindPreparationTick:
		slog.Debug("event: preparation", "wave", e.WaveIndex, "remaining", e.Remaining)
	case event.KindPopulationChanged:
		slog.Debug("event: population", "alive", e.Alive, "spawned", e.Spawned)
	case event.KindEnemySpawned:
		slog.Debug("event: enemy spawned", "handle", e.Handle, "archetype", e.ArchetypeID)
	case event.KindBossSpawned:
		slog.Info("event: boss spawned", "handle", e.Handle, "archetype", e.ArchetypeID)
	case event.KindBossDefeated:
		slog.Info("event: boss defeated", "wave", e.WaveIndex)
	case event.KindWaveCompleted:
		slog.Info("event: wave completed",
			"wave", e.WaveIndex,
			"currency", e.Reward.Currency,
			"premium", e.Reward.Premium,
			"experience", e.Reward.Experience)
	case event.KindWaveSkipped:
		slog.Info("event: wave skipped", "to", e.WaveIndex)
	case event.KindAllWavesCompleted:
		slog.Info("event: all waves completed")
	case event.KindGameOver:
		slog.Info("event: game over", "victory", e.Victory)
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

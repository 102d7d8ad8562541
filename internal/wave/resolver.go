package wave

import (
	"log/slog"
	"math"
	"math/rand/v2"

	"github.com/nethrin/wavegate/internal/model"
)

// ResolverConfig holds the spatial parameters for position resolution.
type ResolverConfig struct {
	MinPlayerDistance float64 // surrounding-pattern inner radius
	MaxPlayerDistance float64 // surrounding-pattern outer radius
	JitterRadius      float64 // planar offset applied to every result
	SampleRadius      float64 // terrain snap search radius
}

// PositionResolver turns a spawn pattern into a concrete world position.
// Candidates are jittered to avoid exact-overlap spawns and snapped to a
// traversable surface when a terrain query is available. Every failure mode
// degrades to a cruder position; Resolve never errors.
type PositionResolver struct {
	cfg     ResolverConfig
	anchors []model.Position
	player  PlayerLocator
	terrain TerrainQuery
	rng     *rand.Rand
}

// NewPositionResolver creates a resolver. player and terrain may be nil;
// the corresponding behaviors degrade per the resolution rules. rng may be
// nil, in which case a time-seeded source is used.
func NewPositionResolver(
	cfg ResolverConfig,
	anchors []model.Position,
	player PlayerLocator,
	terrain TerrainQuery,
	rng *rand.Rand,
) *PositionResolver {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &PositionResolver{
		cfg:     cfg,
		anchors: anchors,
		player:  player,
		terrain: terrain,
		rng:     rng,
	}
}

// Resolve computes a spawn position for pattern. spawnedSoFar is the
// running per-wave spawn counter, used by the sequential pattern for
// anchor round-robin.
func (r *PositionResolver) Resolve(pattern model.SpawnPattern, spawnedSoFar int) model.Position {
	base := r.basePosition(pattern, spawnedSoFar)
	candidate := r.jitter(base)

	if r.terrain == nil {
		return candidate
	}
	if snapped, ok := r.terrain.Sample(candidate, r.cfg.SampleRadius); ok {
		return snapped
	}

	// No traversable surface near the candidate: fall back to a plain
	// anchor position without the offset. Diagnostics only, never an error.
	slog.Debug("no traversable surface near spawn candidate, using raw anchor",
		"pattern", pattern,
		"x", candidate.X,
		"y", candidate.Y)
	if len(r.anchors) > 0 {
		return r.anchors[r.rng.IntN(len(r.anchors))]
	}
	return base
}

func (r *PositionResolver) basePosition(pattern model.SpawnPattern, spawnedSoFar int) model.Position {
	switch pattern {
	case model.PatternSingle:
		if len(r.anchors) > 0 {
			return r.anchors[0]
		}
		return model.Position{}

	case model.PatternSequential:
		if len(r.anchors) > 0 {
			return r.anchors[spawnedSoFar%len(r.anchors)]
		}
		return r.aroundPlayer()

	case model.PatternSurrounding:
		return r.aroundPlayer()

	case model.PatternRandom:
		if len(r.anchors) > 0 {
			return r.anchors[r.rng.IntN(len(r.anchors))]
		}
		return r.aroundPlayer()
	}

	slog.Warn("unknown spawn pattern, using world origin", "pattern", pattern)
	return model.Position{}
}

// aroundPlayer samples a polar coordinate around the player within the
// configured distance band. Without a player it degrades to the first
// anchor, then to the world origin.
func (r *PositionResolver) aroundPlayer() model.Position {
	player, ok := r.playerPosition()
	if !ok {
		slog.Debug("player locator unavailable, falling back to anchors")
		if len(r.anchors) > 0 {
			return r.anchors[0]
		}
		return model.Position{}
	}

	angle := r.rng.Float64() * 2 * math.Pi
	span := r.cfg.MaxPlayerDistance - r.cfg.MinPlayerDistance
	dist := r.cfg.MinPlayerDistance + r.rng.Float64()*span
	return player.Offset(math.Cos(angle)*dist, math.Sin(angle)*dist)
}

func (r *PositionResolver) playerPosition() (model.Position, bool) {
	if r.player == nil {
		return model.Position{}, false
	}
	return r.player.PlayerPosition()
}

// jitter applies a small uniform planar offset bounded by JitterRadius.
func (r *PositionResolver) jitter(pos model.Position) model.Position {
	if r.cfg.JitterRadius <= 0 {
		return pos
	}
	dx := (r.rng.Float64()*2 - 1) * r.cfg.JitterRadius
	dy := (r.rng.Float64()*2 - 1) * r.cfg.JitterRadius
	return pos.Offset(dx, dy)
}

package system

import (
	"time"

	"github.com/l1jgo/arena/internal/component"
	"github.com/l1jgo/arena/internal/core/ecs"
)

// DebugStats is a frame summary for inspection tooling.
type DebugStats struct {
	Frames    uint64
	LastDelta time.Duration
	Entities  int
	Moved     int
}

// DebugStatsSystem is debug-exempt so inspection stays live while the
// world is frozen.
type DebugStatsSystem struct {
	ecs.BaseSystem
	stats DebugStats
}

func NewDebugStatsSystem() *DebugStatsSystem {
	s := &DebugStatsSystem{
		BaseSystem: ecs.NewBaseSystem("debug_stats",
			ecs.SignatureOf(component.TypePosition),
			ecs.SignatureOf(component.TypePosition)),
	}
	s.MarkDebugExempt()
	return s
}

func (s *DebugStatsSystem) Stats() DebugStats { return s.stats }

func (s *DebugStatsSystem) OnClear() { s.stats = DebugStats{} }

func (s *DebugStatsSystem) Update(delta time.Duration, aspects *ecs.AspectMap, dirty *ecs.EntitySet) {
	s.stats.Frames++
	s.stats.LastDelta = delta
	s.stats.Entities = aspects.Len()
	s.stats.Moved = dirty.Len()
}

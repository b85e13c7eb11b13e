package system

import (
	"time"

	"github.com/l1jgo/arena/internal/component"
	"github.com/l1jgo/arena/internal/core/ecs"
	"github.com/l1jgo/arena/internal/spatial"
)

// SpatialHashSystem keeps the broad-phase grid in step with entity positions.
// Entities with a CollisionShape occupy every cell touched by their bounding
// circle; point entities occupy one cell. Re-indexing happens only for
// entities whose Position or CollisionShape signalled this frame.
type SpatialHashSystem struct {
	ecs.BaseSystem
	grid *spatial.Grid
}

func NewSpatialHashSystem(grid *spatial.Grid) *SpatialHashSystem {
	return &SpatialHashSystem{
		BaseSystem: ecs.NewBaseSystem("spatial_hash",
			ecs.SignatureOf(component.TypePosition),
			ecs.SignatureOf(component.TypePosition, component.TypeCollisionShape)),
		grid: grid,
	}
}

func (s *SpatialHashSystem) Grid() *spatial.Grid { return s.grid }

// CellsFor computes the cells an entity should occupy right now.
func (s *SpatialHashSystem) CellsFor(c *ecs.Container) []spatial.Cell {
	pos := component.PositionOf(c)
	if pos == nil {
		return nil
	}
	if shape := component.ShapeOf(c); shape != nil {
		return s.grid.CellsForCircle(shape.Center(pos.Point()), shape.MaxDistance())
	}
	return s.grid.CellsForPoint(pos.Point())
}

func (s *SpatialHashSystem) index(a ecs.Aspect) {
	s.grid.Insert(a.Entity(), s.CellsFor(a.Container()))
}

func (s *SpatialHashSystem) OnAdd(a ecs.Aspect)    { s.index(a) }
func (s *SpatialHashSystem) OnRemove(a ecs.Aspect) { s.grid.Remove(a.Entity()) }
func (s *SpatialHashSystem) OnClear()              { s.grid.Clear() }

// OnEnabled rebuilds the grid, which went stale while disabled.
func (s *SpatialHashSystem) OnEnabled(aspects *ecs.AspectMap) {
	s.grid.Clear()
	aspects.Each(s.index)
}

func (s *SpatialHashSystem) Update(_ time.Duration, aspects *ecs.AspectMap, dirty *ecs.EntitySet) {
	for _, id := range dirty.Slice() {
		if a, ok := aspects.Get(id); ok {
			s.index(a)
		}
	}
}

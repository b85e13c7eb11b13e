package event

import (
	"github.com/l1jgo/arena/internal/core/ecs"
	"github.com/l1jgo/arena/internal/geom"
)

// Contact is emitted once per accepted collision pair per frame, seen from A.
type Contact struct {
	Rule   string
	A      ecs.EntityID
	B      ecs.EntityID
	Axis   geom.Vec2
	Amount float64
}

// EntityDestroyed is emitted for every entity removed at the end of a frame.
type EntityDestroyed struct {
	Entity ecs.EntityID
	Frame  uint64
}

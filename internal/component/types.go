package component

import "github.com/l1jgo/arena/internal/core/ecs"

// Component type tags. Order is fixed at init and must stay stable.
var (
	TypePosition       = ecs.DefineComponentType("Position")
	TypeVelocity       = ecs.DefineComponentType("Velocity")
	TypeCollisionShape = ecs.DefineComponentType("CollisionShape")
)

// PositionOf returns the entity's Position, or nil.
func PositionOf(c *ecs.Container) *Position {
	p, _ := ecs.Lookup[*Position](c, TypePosition)
	return p
}

// VelocityOf returns the entity's Velocity, or nil.
func VelocityOf(c *ecs.Container) *Velocity {
	v, _ := ecs.Lookup[*Velocity](c, TypeVelocity)
	return v
}

// ShapeOf returns the entity's CollisionShape, or nil.
func ShapeOf(c *ecs.Container) *CollisionShape {
	s, _ := ecs.Lookup[*CollisionShape](c, TypeCollisionShape)
	return s
}

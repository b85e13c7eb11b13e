package system

import (
	"time"

	"github.com/l1jgo/arena/internal/component"
	"github.com/l1jgo/arena/internal/core/ecs"
)

// moveAspect caches the integrated components and the distance covered
// since the entity started moving.
type moveAspect struct {
	ecs.BaseAspect
	pos       *component.Position
	vel       *component.Velocity
	travelled float64
}

// MovementSystem integrates Velocity into Position every frame.
type MovementSystem struct {
	ecs.BaseSystem
}

func NewMovementSystem() *MovementSystem {
	return &MovementSystem{
		BaseSystem: ecs.NewBaseSystem("movement",
			ecs.SignatureOf(component.TypePosition, component.TypeVelocity), 0),
	}
}

func (s *MovementSystem) NewAspect(id ecs.EntityID, c *ecs.Container) ecs.Aspect {
	return &moveAspect{
		BaseAspect: ecs.MakeAspect(id, c),
		pos:        component.PositionOf(c),
		vel:        component.VelocityOf(c),
	}
}

func (s *MovementSystem) Update(delta time.Duration, aspects *ecs.AspectMap, _ *ecs.EntitySet) {
	dt := delta.Seconds()
	if dt == 0 {
		return
	}
	aspects.Each(func(a ecs.Aspect) {
		m := a.(*moveAspect)
		step := m.vel.Linear().Scale(dt)
		m.pos.Translate(step)
		if spin := m.vel.Angular(); spin != 0 {
			m.pos.SetAngle(m.pos.Angle() + spin*dt)
		}
		m.travelled += step.Len()
	})
}

// Travelled reports the distance id has covered while a member, or 0.
func Travelled(aspects *ecs.AspectMap, id ecs.EntityID) float64 {
	if m, ok := ecs.Typed[*moveAspect](aspects, id); ok {
		return m.travelled
	}
	return 0
}

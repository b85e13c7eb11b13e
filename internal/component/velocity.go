package component

import (
	"github.com/l1jgo/arena/internal/core/ecs"
	"github.com/l1jgo/arena/internal/geom"
)

// Velocity is linear velocity in units/second plus angular velocity in radians/second.
type Velocity struct {
	ecs.Signal
	linear  geom.Vec2
	angular float64
}

func NewVelocity(vx, vy, spin float64) *Velocity {
	return &Velocity{linear: geom.V(vx, vy), angular: spin}
}

func (v *Velocity) ComponentType() ecs.ComponentType { return TypeVelocity }

func (v *Velocity) Linear() geom.Vec2 { return v.linear }
func (v *Velocity) Angular() float64  { return v.angular }

func (v *Velocity) SetLinear(l geom.Vec2) {
	if v.linear == l {
		return
	}
	v.linear = l
	v.Fire()
}

func (v *Velocity) SetAngular(a float64) {
	if v.angular == a {
		return
	}
	v.angular = a
	v.Fire()
}

package component

import (
	"github.com/l1jgo/arena/internal/core/ecs"
	"github.com/l1jgo/arena/internal/geom"
)

// Position is an entity's world point and facing angle in radians.
// Setters fire the component signal only when the value changes.
type Position struct {
	ecs.Signal
	point geom.Vec2
	angle float64
}

func NewPosition(x, y, angle float64) *Position {
	return &Position{point: geom.V(x, y), angle: angle}
}

func (p *Position) ComponentType() ecs.ComponentType { return TypePosition }

func (p *Position) Point() geom.Vec2 { return p.point }
func (p *Position) Angle() float64   { return p.angle }

func (p *Position) Set(point geom.Vec2) {
	if p.point == point {
		return
	}
	p.point = point
	p.Fire()
}

func (p *Position) SetAngle(angle float64) {
	if p.angle == angle {
		return
	}
	p.angle = angle
	p.Fire()
}

// Translate moves the point by d.
func (p *Position) Translate(d geom.Vec2) {
	if d.IsZero() {
		return
	}
	p.Set(p.point.Add(d))
}

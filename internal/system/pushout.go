package system

import (
	"time"

	"github.com/l1jgo/arena/internal/component"
	"github.com/l1jgo/arena/internal/core/ecs"
)

// PushOutSystem moves Mobile bodies out of the Solid shapes they overlap,
// using the minimum translation vector recorded by the collision pass, and
// marks each settled pair resolved so later consumers in the same frame skip
// it. Resolution is frame-scoped: EndFrame forgets the pairs settled this frame.
type PushOutSystem struct {
	ecs.BaseSystem
	touched []*component.CollisionShape
	pushes  int
}

func NewPushOutSystem() *PushOutSystem {
	return &PushOutSystem{
		BaseSystem: ecs.NewBaseSystem("push_out",
			ecs.SignatureOf(component.TypePosition, component.TypeCollisionShape), 0),
	}
}

// Pushes is the number of separations applied in the last update.
func (s *PushOutSystem) Pushes() int { return s.pushes }

func (s *PushOutSystem) Update(_ time.Duration, aspects *ecs.AspectMap, _ *ecs.EntitySet) {
	s.pushes = 0
	aspects.Each(func(a ecs.Aspect) {
		pos := component.PositionOf(a.Container())
		shape := component.ShapeOf(a.Container())
		if !shape.Types().Has(component.Mobile) || len(shape.CollisionsFresh) == 0 {
			return
		}
		for _, other := range shape.Contacts() {
			if shape.IsResolved(other) {
				continue
			}
			oa, ok := aspects.Get(other)
			if !ok {
				continue
			}
			otherShape := component.ShapeOf(oa.Container())
			if !otherShape.Types().Has(component.Solid) {
				continue
			}
			pos.Translate(shape.CollisionsFresh[other].Separation())
			shape.MarkResolved(other)
			otherShape.MarkResolved(a.Entity())
			s.touched = append(s.touched, shape, otherShape)
			s.pushes++
		}
	})
}

// EndFrame resets the resolved sets this system wrote. Called by the frame
// loop after FinishUpdate.
func (s *PushOutSystem) EndFrame() {
	for _, shape := range s.touched {
		shape.ResetResolved()
	}
	s.touched = s.touched[:0]
}

func (s *PushOutSystem) OnClear() { s.touched = s.touched[:0] }

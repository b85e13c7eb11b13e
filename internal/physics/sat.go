// Package physics implements the narrow-phase separating axis test for convex polygons.
package physics

import (
	"math"

	"github.com/l1jgo/arena/internal/geom"
)

// CollisionInfo is a minimum translation vector. Amount is signed: positive
// means the first shape lies on the negative side of the second along Axis,
// so the first shape separates by moving -Axis*Amount.
type CollisionInfo struct {
	Axis   geom.Vec2
	Amount float64
}

// Reversed returns the same contact seen from the other shape.
func (c CollisionInfo) Reversed() CollisionInfo {
	return CollisionInfo{Axis: c.Axis, Amount: -c.Amount}
}

// Depth is the unsigned penetration.
func (c CollisionInfo) Depth() float64 { return math.Abs(c.Amount) }

// Separation is the displacement that moves the owning shape out of contact.
func (c CollisionInfo) Separation() geom.Vec2 { return c.Axis.Scale(-c.Amount) }

// Tester runs the separating axis test, reusing per-shape projection
// buffers between calls. Not safe for concurrent use.
type Tester struct {
	r1 []geom.Range
	r2 []geom.Range
}

// Collides tests two convex polygons given their world vertices and axis sets.
// Axes are tested in axes1 ++ axes2 order without deduplication; on a tie the
// earliest axis wins. Returns false on the first separating axis.
func (t *Tester) Collides(v1, axes1, v2, axes2 []geom.Vec2) (bool, CollisionInfo) {
	best := CollisionInfo{}
	bestDepth := math.Inf(1)

	for _, axes := range [2][]geom.Vec2{axes1, axes2} {
		r1, r2 := t.project(v1, v2, axes)
		for i, axis := range axes {
			if !r1[i].Overlaps(r2[i]) {
				return false, CollisionInfo{}
			}
			forward := r1[i].Max - r2[i].Min
			backward := r2[i].Max - r1[i].Min
			depth, sign := forward, 1.0
			if backward < forward {
				depth, sign = backward, -1.0
			}
			if depth < bestDepth {
				bestDepth = depth
				best = CollisionInfo{Axis: axis, Amount: sign * depth}
			}
		}
	}
	if math.IsInf(bestDepth, 1) {
		// no axes at all: degenerate input never overlaps
		return false, CollisionInfo{}
	}
	return true, best
}

// project fills both shapes' range buffers for one axis set.
func (t *Tester) project(v1, v2, axes []geom.Vec2) ([]geom.Range, []geom.Range) {
	if cap(t.r1) < len(axes) {
		t.r1 = make([]geom.Range, len(axes))
		t.r2 = make([]geom.Range, len(axes))
	}
	r1, r2 := t.r1[:len(axes)], t.r2[:len(axes)]
	geom.ProjectAll(v1, axes, r1)
	geom.ProjectAll(v2, axes, r2)
	return r1, r2
}

package component

import (
	"fmt"
	"math"
	"sort"

	"github.com/l1jgo/arena/internal/core/ecs"
	"github.com/l1jgo/arena/internal/geom"
	"github.com/l1jgo/arena/internal/physics"
)

// CollisionShape is a convex polygon attached to an entity. Local vertices
// are relative to the shape centre, which sits at Position+Offset in world
// space. World vertices, edges and axes are memoized on the (point, angle)
// pair last queried; callers must not mutate the returned slices.
//
// CollisionsFresh and CollisionsResolved are written by the collision pass
// and read by gameplay systems within the same frame.
type CollisionShape struct {
	ecs.Signal

	local    []geom.Vec2
	offset   geom.Vec2
	types    CollisionTypes
	disabled bool

	sqMaxDistance float64
	maxDistance   float64

	valid      bool
	cachePoint geom.Vec2
	cacheAngle float64
	vertices   []geom.Vec2
	edges      []geom.Vec2
	axes       []geom.Vec2

	CollisionsFresh    map[ecs.EntityID]physics.CollisionInfo
	CollisionsResolved map[ecs.EntityID]struct{}
}

// NewPolygon builds a shape from convex, counter-clockwise local vertices.
func NewPolygon(vertices []geom.Vec2, offset geom.Vec2, types ...CollisionType) *CollisionShape {
	if len(vertices) < 3 {
		panic(fmt.Errorf("component: polygon needs at least 3 vertices, got %d", len(vertices)))
	}
	s := &CollisionShape{
		local:              append([]geom.Vec2(nil), vertices...),
		offset:             offset,
		types:              TypesOf(types...),
		vertices:           make([]geom.Vec2, len(vertices)),
		edges:              make([]geom.Vec2, len(vertices)),
		axes:               make([]geom.Vec2, len(vertices)),
		CollisionsFresh:    make(map[ecs.EntityID]physics.CollisionInfo, 4),
		CollisionsResolved: make(map[ecs.EntityID]struct{}, 4),
	}
	for _, v := range s.local {
		if d := v.LenSq(); d > s.sqMaxDistance {
			s.sqMaxDistance = d
		}
	}
	s.maxDistance = math.Sqrt(s.sqMaxDistance)
	return s
}

// NewRect builds a w×h rectangle centred on the shape origin.
func NewRect(w, h float64, offset geom.Vec2, types ...CollisionType) *CollisionShape {
	return NewPolygon(geom.RectCorners(w, h), offset, types...)
}

func (s *CollisionShape) ComponentType() ecs.ComponentType { return TypeCollisionShape }

func (s *CollisionShape) Local() []geom.Vec2     { return s.local }
func (s *CollisionShape) Offset() geom.Vec2      { return s.offset }
func (s *CollisionShape) Types() CollisionTypes  { return s.types }
func (s *CollisionShape) Disabled() bool         { return s.disabled }
func (s *CollisionShape) SqMaxDistance() float64 { return s.sqMaxDistance }
func (s *CollisionShape) MaxDistance() float64   { return s.maxDistance }

func (s *CollisionShape) SetDisabled(d bool) {
	if s.disabled == d {
		return
	}
	s.disabled = d
	s.Fire()
}

func (s *CollisionShape) SetOffset(o geom.Vec2) {
	if s.offset == o {
		return
	}
	s.offset = o
	s.valid = false
	s.Fire()
}

func (s *CollisionShape) SetTypes(t CollisionTypes) {
	if s.types == t {
		return
	}
	s.types = t
	s.Fire()
}

// Center is the shape centre in world space for an owner at point.
func (s *CollisionShape) Center(point geom.Vec2) geom.Vec2 {
	return point.Add(s.offset)
}

// Vertices returns world-space vertices for an owner at (point, angle).
func (s *CollisionShape) Vertices(point geom.Vec2, angle float64) []geom.Vec2 {
	s.refresh(point, angle)
	return s.vertices
}

// Edges returns unit edge directions matching Vertices.
func (s *CollisionShape) Edges(point geom.Vec2, angle float64) []geom.Vec2 {
	s.refresh(point, angle)
	return s.edges
}

// Axes returns the outward edge normals used as SAT axes.
func (s *CollisionShape) Axes(point geom.Vec2, angle float64) []geom.Vec2 {
	s.refresh(point, angle)
	return s.axes
}

// refresh recomputes the world cache only when (point, angle) moved.
func (s *CollisionShape) refresh(point geom.Vec2, angle float64) {
	if s.valid && s.cachePoint == point && s.cacheAngle == angle {
		return
	}
	// local vertices turn by -angle
	geom.Transform(s.local, point.Add(s.offset), -angle, s.vertices)
	geom.Edges(s.vertices, s.edges)
	geom.Normals(s.edges, s.axes)
	s.cachePoint, s.cacheAngle = point, angle
	s.valid = true
}

// MarkResolved records that a gameplay system settled the contact with other this frame.
func (s *CollisionShape) MarkResolved(other ecs.EntityID) {
	s.CollisionsResolved[other] = struct{}{}
}

func (s *CollisionShape) IsResolved(other ecs.EntityID) bool {
	_, ok := s.CollisionsResolved[other]
	return ok
}

// ResetResolved forgets every settled contact. Only the owner of the
// resolution semantics calls this; the collision pass never does.
func (s *CollisionShape) ResetResolved() {
	for id := range s.CollisionsResolved {
		delete(s.CollisionsResolved, id)
	}
}

// ClearFresh drops this frame's contacts.
func (s *CollisionShape) ClearFresh() {
	for id := range s.CollisionsFresh {
		delete(s.CollisionsFresh, id)
	}
}

// Contacts lists the entities in CollisionsFresh in ascending id order.
func (s *CollisionShape) Contacts() []ecs.EntityID {
	out := make([]ecs.EntityID, 0, len(s.CollisionsFresh))
	for id := range s.CollisionsFresh {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

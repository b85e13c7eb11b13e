package component

import (
	"math"
	"testing"
	"time"

	"github.com/l1jgo/arena/internal/core/ecs"
	"github.com/l1jgo/arena/internal/geom"
	"github.com/l1jgo/arena/internal/physics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const eps = 1e-9

func TestRectMaxDistance(t *testing.T) {
	s := NewRect(6, 8, geom.Vec2{})
	assert.InDelta(t, 25.0, s.SqMaxDistance(), eps)
	assert.InDelta(t, 5.0, s.MaxDistance(), eps)
}

func TestPolygonNeedsThreeVertices(t *testing.T) {
	assert.Panics(t, func() { NewPolygon([]geom.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}}, geom.Vec2{}) })
}

func TestShapeWorldVerticesAndAxes(t *testing.T) {
	s := NewRect(10, 10, geom.V(1, 0), Solid)
	v := s.Vertices(geom.V(10, 20), 0)
	require.Len(t, v, 4)
	assert.Equal(t, geom.V(6, 15), v[0])
	assert.Equal(t, geom.V(16, 25), v[2])

	axes := s.Axes(geom.V(10, 20), 0)
	want := []geom.Vec2{{X: 0, Y: -1}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: -1, Y: 0}}
	for i := range want {
		assert.True(t, axes[i].ApproxEqual(want[i], eps), "axis %d = %v", i, axes[i])
	}
	edges := s.Edges(geom.V(10, 20), 0)
	assert.True(t, edges[0].ApproxEqual(geom.V(1, 0), eps))
}

func TestShapeRotatesByNegativeAngle(t *testing.T) {
	s := NewPolygon([]geom.Vec2{{X: 1, Y: 0}, {X: 0, Y: 1}, {X: -1, Y: 0}}, geom.Vec2{})
	v := s.Vertices(geom.Vec2{}, math.Pi/2)
	// (1,0) turned by -90° lands on (0,-1)
	assert.True(t, v[0].ApproxEqual(geom.V(0, -1), eps), "got %v", v[0])
}

func TestShapeCacheIsMemoized(t *testing.T) {
	s := NewRect(2, 2, geom.Vec2{})
	first := s.Vertices(geom.V(3, 3), 0.5)
	snapshot := append([]geom.Vec2(nil), first...)

	again := s.Vertices(geom.V(3, 3), 0.5)
	assert.Same(t, &first[0], &again[0], "same backing array")
	assert.Equal(t, snapshot, again)

	moved := s.Vertices(geom.V(4, 3), 0.5)
	assert.True(t, moved[0].ApproxEqual(snapshot[0].Add(geom.V(1, 0)), eps))

	s.SetOffset(geom.V(0, 1))
	shifted := s.Vertices(geom.V(4, 3), 0.5)
	assert.True(t, shifted[0].ApproxEqual(snapshot[0].Add(geom.V(1, 1)), eps))
}

func TestResolvedAndFreshSets(t *testing.T) {
	s := NewRect(1, 1, geom.Vec2{})
	s.MarkResolved(4)
	assert.True(t, s.IsResolved(4))
	s.ResetResolved()
	assert.False(t, s.IsResolved(4))

	s.CollisionsFresh[9] = physicsInfo(1)
	s.CollisionsFresh[2] = physicsInfo(2)
	assert.Equal(t, []ecs.EntityID{2, 9}, s.Contacts())
	s.ClearFresh()
	assert.Empty(t, s.CollisionsFresh)
}

func TestCollisionTypeParsing(t *testing.T) {
	got, err := ParseCollisionType(" Vulnerable ")
	require.NoError(t, err)
	assert.Equal(t, Vulnerable, got)

	_, err = ParseCollisionType("ghost")
	assert.Error(t, err)
	assert.Panics(t, func() { MustCollisionType("ghost") })

	var doc struct {
		Tags []CollisionType `yaml:"tags"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("tags: [mobile, attack]"), &doc))
	assert.Equal(t, []CollisionType{Mobile, Attack}, doc.Tags)

	set := TypesOf(Mobile, Attack)
	assert.True(t, set.Contains(TypesOf(Attack)))
	assert.False(t, set.Contains(TypesOf(Attack, Solid)))
	assert.Equal(t, "{mobile,attack}", set.String())
}

type positionWatcher struct {
	ecs.BaseSystem
	seen int
}

func (s *positionWatcher) Update(_ time.Duration, _ *ecs.AspectMap, dirty *ecs.EntitySet) {
	s.seen += dirty.Len()
}

func TestSettersFireOnlyOnChange(t *testing.T) {
	w := ecs.NewWorld(nil)
	watch := &positionWatcher{BaseSystem: ecs.NewBaseSystem("watch",
		ecs.SignatureOf(TypePosition), ecs.SignatureOf(TypePosition, TypeCollisionShape))}
	w.AddSystem(0, watch)

	e := w.AddEntity()
	pos := NewPosition(0, 0, 0)
	w.AddComponent(e, pos)
	w.Update(0, 0, nil)
	assert.Equal(t, 1, watch.seen)

	pos.Set(geom.V(0, 0))
	pos.SetAngle(0)
	pos.Translate(geom.Vec2{})
	w.Update(0, 0, nil)
	assert.Equal(t, 1, watch.seen)

	pos.Translate(geom.V(1, 0))
	w.Update(0, 0, nil)
	assert.Equal(t, 2, watch.seen)

	shape := NewRect(1, 1, geom.Vec2{})
	w.AddComponent(e, shape)
	shape.SetDisabled(true)
	w.Update(0, 0, nil)
	assert.Equal(t, 3, watch.seen)

	assert.Same(t, pos, PositionOf(w.Container(e)))
	assert.Same(t, shape, ShapeOf(w.Container(e)))
	assert.Nil(t, VelocityOf(w.Container(e)))
}

func physicsInfo(amount float64) physics.CollisionInfo {
	return physics.CollisionInfo{Axis: geom.V(1, 0), Amount: amount}
}

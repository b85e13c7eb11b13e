package system

import (
	"fmt"
	"time"

	"github.com/l1jgo/arena/internal/component"
	"github.com/l1jgo/arena/internal/core/ecs"
	"github.com/l1jgo/arena/internal/core/event"
	"github.com/l1jgo/arena/internal/physics"
	"github.com/l1jgo/arena/internal/spatial"
	"go.uber.org/zap"
)

// ColliderRule pairs a left and a right filter. An entity plays a role when
// its shape carries every tag of that side's filter.
type ColliderRule struct {
	Name  string
	Left  component.CollisionTypes
	Right component.CollisionTypes
}

type ruleState struct {
	rule  ColliderRule
	left  *ecs.EntitySet
	right *ecs.EntitySet
}

func (r *ruleState) assign(id ecs.EntityID, types component.CollisionTypes) {
	if types.Contains(r.rule.Left) {
		r.left.Add(id)
	} else {
		r.left.Remove(id)
	}
	if types.Contains(r.rule.Right) {
		r.right.Add(id)
	} else {
		r.right.Remove(id)
	}
}

func (r *ruleState) drop(id ecs.EntityID) {
	r.left.Remove(id)
	r.right.Remove(id)
}

// CollisionStats counts work done by the last pass.
type CollisionStats struct {
	Candidates   int
	BoundRejects int
	SATTests     int
	Resolved     int
	Contacts     int
}

// CollisionSystem runs the collision pass: spatial-hash broad phase,
// bounding-circle rejection, SAT narrow phase, then symmetric records in
// both shapes' CollisionsFresh. It never resets CollisionsResolved.
type CollisionSystem struct {
	ecs.BaseSystem
	grid *spatial.Grid
	bus  *event.Bus
	log  *zap.Logger

	rules  []*ruleState
	byName map[string]*ruleState

	members  *ecs.EntitySet
	tracked  map[ecs.EntityID]ecs.Aspect
	previous []*component.CollisionShape
	seen     map[ecs.EntityID]struct{}
	sat      physics.Tester
	stats    CollisionStats
}

// NewCollisionSystem reads entity cells from grid, which must be maintained
// by a SpatialHashSystem at lower priority. bus may be nil.
func NewCollisionSystem(grid *spatial.Grid, bus *event.Bus, log *zap.Logger) *CollisionSystem {
	if log == nil {
		log = zap.NewNop()
	}
	return &CollisionSystem{
		BaseSystem: ecs.NewBaseSystem("collision",
			ecs.SignatureOf(component.TypePosition, component.TypeCollisionShape),
			ecs.SignatureOf(component.TypeCollisionShape)),
		grid:    grid,
		bus:     bus,
		log:     log,
		byName:  make(map[string]*ruleState, 8),
		members: ecs.NewEntitySet(),
		tracked: make(map[ecs.EntityID]ecs.Aspect, 64),
		seen:    make(map[ecs.EntityID]struct{}, 32),
	}
}

// AddRule registers a collider rule. Rule names are unique; membership is
// computed for entities already tracked.
func (s *CollisionSystem) AddRule(rule ColliderRule) {
	if _, dup := s.byName[rule.Name]; dup {
		panic(fmt.Errorf("collision: rule %q already registered", rule.Name))
	}
	r := &ruleState{rule: rule, left: ecs.NewEntitySet(), right: ecs.NewEntitySet()}
	s.rules = append(s.rules, r)
	s.byName[rule.Name] = r
	for _, id := range s.members.Slice() {
		if shape := component.ShapeOf(s.tracked[id].Container()); shape != nil {
			r.assign(id, shape.Types())
		}
	}
}

// Rules lists the registered rules in evaluation order.
func (s *CollisionSystem) Rules() []ColliderRule {
	out := make([]ColliderRule, len(s.rules))
	for i, r := range s.rules {
		out[i] = r.rule
	}
	return out
}

// Members returns the left and right role sets of a rule; read-only.
func (s *CollisionSystem) Members(rule string) (left, right []ecs.EntityID, ok bool) {
	r, ok := s.byName[rule]
	if !ok {
		return nil, nil, false
	}
	return r.left.Slice(), r.right.Slice(), true
}

func (s *CollisionSystem) Stats() CollisionStats { return s.stats }

func (s *CollisionSystem) OnAdd(a ecs.Aspect) {
	s.members.Add(a.Entity())
	s.tracked[a.Entity()] = a
	s.assign(a)
}

func (s *CollisionSystem) OnRemove(a ecs.Aspect) {
	s.members.Remove(a.Entity())
	delete(s.tracked, a.Entity())
	for _, r := range s.rules {
		r.drop(a.Entity())
	}
}

func (s *CollisionSystem) OnClear() {
	s.members.Clear()
	s.tracked = make(map[ecs.EntityID]ecs.Aspect, 64)
	for _, r := range s.rules {
		r.left.Clear()
		r.right.Clear()
	}
	s.previous = s.previous[:0]
	s.stats = CollisionStats{}
}

func (s *CollisionSystem) assign(a ecs.Aspect) {
	shape := component.ShapeOf(a.Container())
	if shape == nil {
		return
	}
	for _, r := range s.rules {
		r.assign(a.Entity(), shape.Types())
	}
}

// Update runs one collision pass.
func (s *CollisionSystem) Update(_ time.Duration, aspects *ecs.AspectMap, dirty *ecs.EntitySet) {
	// shapes whose tags changed may switch roles
	for _, id := range dirty.Slice() {
		if a, ok := aspects.Get(id); ok {
			s.assign(a)
		}
	}

	for _, shape := range s.previous {
		shape.ClearFresh()
	}
	s.previous = s.previous[:0]
	s.stats = CollisionStats{}

	for _, r := range s.rules {
		for _, lid := range r.left.Slice() {
			la, ok := aspects.Get(lid)
			if !ok {
				s.log.Warn("collision: left member without aspect",
					zap.String("rule", r.rule.Name), zap.Int32("entity", int32(lid)))
				continue
			}
			s.grid.Near(lid, s.seen, func(rid ecs.EntityID) {
				if !r.right.Has(rid) {
					return
				}
				s.stats.Candidates++
				ra, ok := aspects.Get(rid)
				if !ok {
					s.log.Warn("collision: right member without aspect",
						zap.String("rule", r.rule.Name), zap.Int32("entity", int32(rid)))
					return
				}
				s.testPair(r, la, ra)
			})
		}
	}
}

func (s *CollisionSystem) testPair(r *ruleState, la, ra ecs.Aspect) {
	a, b := la.Entity(), ra.Entity()
	pa, sa := component.PositionOf(la.Container()), component.ShapeOf(la.Container())
	pb, sb := component.PositionOf(ra.Container()), component.ShapeOf(ra.Container())
	if pa == nil || sa == nil || pb == nil || sb == nil {
		s.log.Warn("collision: candidate missing position or shape",
			zap.String("rule", r.rule.Name), zap.Int32("left", int32(a)), zap.Int32("right", int32(b)))
		return
	}
	if sa.Disabled() || sb.Disabled() {
		return
	}
	if _, done := sa.CollisionsFresh[b]; done {
		return
	}

	reach := sa.MaxDistance() + sb.MaxDistance()
	if sa.Center(pa.Point()).DistSq(sb.Center(pb.Point())) > reach*reach {
		s.stats.BoundRejects++
		return
	}

	s.stats.SATTests++
	hit, info := s.sat.Collides(
		sa.Vertices(pa.Point(), pa.Angle()), sa.Axes(pa.Point(), pa.Angle()),
		sb.Vertices(pb.Point(), pb.Angle()), sb.Axes(pb.Point(), pb.Angle()),
	)
	if !hit {
		return
	}
	if sa.IsResolved(b) || sb.IsResolved(a) {
		s.stats.Resolved++
		return
	}

	sa.CollisionsFresh[b] = info
	sb.CollisionsFresh[a] = info.Reversed()
	s.previous = append(s.previous, sa, sb)
	s.stats.Contacts++

	if s.bus != nil {
		event.Emit(s.bus, event.Contact{Rule: r.rule.Name, A: a, B: b, Axis: info.Axis, Amount: info.Amount})
	}
}

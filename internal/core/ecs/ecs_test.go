package ecs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var (
	typeA = DefineComponentType("TestA")
	typeB = DefineComponentType("TestB")
	typeC = DefineComponentType("TestC")
)

type compA struct {
	Signal
	v int
}

func (c *compA) ComponentType() ComponentType { return typeA }

func (c *compA) Set(v int) {
	if c.v == v {
		return
	}
	c.v = v
	c.Fire()
}

type compB struct{ Signal }

func (c *compB) ComponentType() ComponentType { return typeB }

type compC struct{ Signal }

func (c *compC) ComponentType() ComponentType { return typeC }

func newComp(t ComponentType) Component {
	switch t {
	case typeA:
		return &compA{}
	case typeB:
		return &compB{}
	default:
		return &compC{}
	}
}

type recordingSystem struct {
	BaseSystem
	trace *[]string

	added    []EntityID
	removed  []EntityID
	dirty    [][]EntityID
	deltas   []time.Duration
	enabled  int
	disabled int
	clears   int
}

func newRecorder(name string, required, interest Signature, trace *[]string) *recordingSystem {
	return &recordingSystem{BaseSystem: NewBaseSystem(name, required, interest), trace: trace}
}

func (s *recordingSystem) Update(delta time.Duration, _ *AspectMap, dirty *EntitySet) {
	if s.trace != nil {
		*s.trace = append(*s.trace, s.Name())
	}
	s.deltas = append(s.deltas, delta)
	s.dirty = append(s.dirty, append([]EntityID(nil), dirty.Slice()...))
}

func (s *recordingSystem) OnAdd(a Aspect)        { s.added = append(s.added, a.Entity()) }
func (s *recordingSystem) OnRemove(a Aspect)     { s.removed = append(s.removed, a.Entity()) }
func (s *recordingSystem) OnEnabled(*AspectMap)  { s.enabled++ }
func (s *recordingSystem) OnDisabled(*AspectMap) { s.disabled++ }
func (s *recordingSystem) OnClear()              { s.clears++ }
func (s *recordingSystem) lastDirty() []EntityID { return s.dirty[len(s.dirty)-1] }

func TestContainerRejectsDuplicateAndMissing(t *testing.T) {
	c := NewContainer(7)
	c.Add(&compA{})
	assert.Panics(t, func() { c.Add(&compA{}) })
	assert.Panics(t, func() { c.Delete(typeB) })

	c.Add(&compC{})
	assert.True(t, c.Has(typeA, typeC))
	assert.False(t, c.Has(typeA, typeB))
	assert.True(t, c.Has())
	assert.Equal(t, []ComponentType{typeA, typeC}, c.SortedKeys())
	assert.Equal(t, SignatureOf(typeA, typeC), c.Keys())

	got, ok := Lookup[*compA](c, typeA)
	require.True(t, ok)
	assert.NotNil(t, got)
	_, ok = Lookup[*compB](c, typeB)
	assert.False(t, ok)

	c.Delete(typeA)
	assert.Equal(t, 1, c.Len())
}

func TestComponentTypeNames(t *testing.T) {
	got, err := ComponentTypeByName("TestB")
	require.NoError(t, err)
	assert.Equal(t, typeB, got)
	assert.Equal(t, "TestB", typeB.String())

	_, err = ComponentTypeByName("Nope")
	assert.Error(t, err)
	assert.Panics(t, func() { MustComponentType("Nope") })
	assert.Panics(t, func() { DefineComponentType("TestA") })
}

func TestMembershipTracksSuperset(t *testing.T) {
	w := NewWorld(zaptest.NewLogger(t))
	sigs := []Signature{
		SignatureOf(typeA),
		SignatureOf(typeA, typeB),
		SignatureOf(typeB, typeC),
		SignatureOf(typeA, typeB, typeC),
	}
	systems := make([]*recordingSystem, len(sigs))
	for i, sig := range sigs {
		systems[i] = newRecorder(string(rune('a'+i)), sig, 0, nil)
		w.AddSystem(i, systems[i])
	}

	verify := func(id EntityID) {
		keys := w.Container(id).Keys()
		for _, s := range systems {
			assert.Equal(t, keys.Contains(s.Signature()), w.Aspects(s).Has(id),
				"system %s entity %d keys %s", s.Name(), id, keys)
		}
	}

	e1, e2 := w.AddEntity(), w.AddEntity()
	ops := []struct {
		id  EntityID
		add bool
		t   ComponentType
	}{
		{e1, true, typeA}, {e1, true, typeB}, {e2, true, typeC}, {e1, true, typeC},
		{e2, true, typeB}, {e1, false, typeA}, {e2, true, typeA}, {e1, false, typeC},
		{e2, false, typeB}, {e1, true, typeA},
	}
	for _, op := range ops {
		if op.add {
			w.AddComponent(op.id, newComp(op.t))
		} else {
			w.RemoveComponent(op.id, op.t)
		}
		verify(e1)
		verify(e2)
	}
}

func TestAddSystemEvaluatesExistingEntities(t *testing.T) {
	w := NewWorld(nil)
	e := w.AddEntity()
	w.AddComponent(e, &compA{})
	w.AddComponent(e, &compB{})
	other := w.AddEntity()
	w.AddComponent(other, &compB{})

	s := newRecorder("late", SignatureOf(typeA, typeB), 0, nil)
	w.AddSystem(0, s)
	assert.Equal(t, []EntityID{e}, s.added)
	assert.Equal(t, 1, w.Aspects(s).Len())
}

func TestAddSystemRejectsInvalid(t *testing.T) {
	w := NewWorld(nil)
	assert.Panics(t, func() { w.AddSystem(0, newRecorder("empty", 0, 0, nil)) })

	s := newRecorder("once", SignatureOf(typeA), 0, nil)
	w.AddSystem(0, s)
	assert.Panics(t, func() { w.AddSystem(1, s) })
	assert.Panics(t, func() { w.AddSystem(1, newRecorder("once", SignatureOf(typeB), 0, nil)) })
}

func TestUpdateRunsBucketsInPriorityOrder(t *testing.T) {
	var trace []string
	w := NewWorld(nil)
	w.AddSystem(5, newRecorder("p5-first", SignatureOf(typeA), 0, &trace))
	w.AddSystem(1, newRecorder("p1", SignatureOf(typeA), 0, &trace))
	w.AddSystem(5, newRecorder("p5-second", SignatureOf(typeA), 0, &trace))
	w.AddSystem(3, newRecorder("p3", SignatureOf(typeA), 0, &trace))

	w.Update(time.Millisecond, time.Millisecond, nil)
	assert.Equal(t, []string{"p1", "p3", "p5-first", "p5-second"}, trace)

	names := make([]string, 0, 4)
	for _, info := range w.Systems() {
		names = append(names, info.Name)
	}
	assert.Equal(t, trace, names)
}

func TestDirtyDeliveredExactlyOnce(t *testing.T) {
	w := NewWorld(nil)
	s := newRecorder("watch", SignatureOf(typeA), SignatureOf(typeA), nil)
	w.AddSystem(0, s)

	e := w.AddEntity()
	a := &compA{}
	w.AddComponent(e, a)

	w.Update(time.Millisecond, time.Millisecond, nil)
	assert.Equal(t, []EntityID{e}, s.lastDirty(), "attach fires once")

	w.Update(time.Millisecond, time.Millisecond, nil)
	assert.Empty(t, s.lastDirty())

	a.Set(3)
	a.Set(3) // unchanged, no signal
	w.Update(time.Millisecond, time.Millisecond, nil)
	assert.Equal(t, []EntityID{e}, s.lastDirty())

	w.Update(time.Millisecond, time.Millisecond, nil)
	assert.Empty(t, s.lastDirty())
}

func TestDirtyIgnoresNonMembersAndUninterested(t *testing.T) {
	w := NewWorld(nil)
	watchAB := newRecorder("ab", SignatureOf(typeA, typeB), SignatureOf(typeA), nil)
	blind := newRecorder("blind", SignatureOf(typeA), 0, nil)
	w.AddSystem(0, watchAB)
	w.AddSystem(0, blind)

	e := w.AddEntity()
	a := &compA{}
	w.AddComponent(e, a)
	a.Set(9)

	w.Update(0, 0, nil)
	assert.Empty(t, watchAB.lastDirty(), "not a member yet")
	assert.Empty(t, blind.lastDirty(), "no interest declared")
}

func TestRemoveComponentSignalReachesInterestedMembers(t *testing.T) {
	w := NewWorld(nil)
	s := newRecorder("needs-b", SignatureOf(typeB), SignatureOf(typeA), nil)
	w.AddSystem(0, s)

	e := w.AddEntity()
	a := &compA{}
	w.AddComponent(e, a)
	w.AddComponent(e, &compB{})
	w.Update(0, 0, nil)

	removed := w.RemoveComponent(e, typeA)
	assert.Same(t, a, removed)
	w.Update(0, 0, nil)
	assert.Equal(t, []EntityID{e}, s.lastDirty())

	a.Set(42) // detached component no longer signals
	w.Update(0, 0, nil)
	assert.Empty(t, s.lastDirty())
}

func TestDetachPurgesDirtySet(t *testing.T) {
	w := NewWorld(nil)
	s := newRecorder("a", SignatureOf(typeA), SignatureOf(typeA), nil)
	w.AddSystem(0, s)
	e := w.AddEntity()
	w.AddComponent(e, &compA{})
	w.RemoveComponent(e, typeA)

	w.Update(0, 0, nil)
	assert.Empty(t, s.lastDirty())
	assert.Equal(t, []EntityID{e}, s.removed)
}

func TestRemoveEntityIsDeferred(t *testing.T) {
	w := NewWorld(nil)
	s := newRecorder("a", SignatureOf(typeA), 0, nil)
	w.AddSystem(0, s)
	e := w.AddEntity()
	w.AddComponent(e, &compA{})

	w.RemoveEntity(e)
	w.Update(0, 0, nil)
	assert.True(t, w.Aspects(s).Has(e))
	assert.True(t, w.Alive(e))
	assert.Empty(t, s.removed)
	assert.Equal(t, 1, w.PendingDestroy())

	destroyed := w.FinishUpdate()
	assert.Equal(t, []EntityID{e}, destroyed)
	assert.False(t, w.Aspects(s).Has(e))
	assert.False(t, w.Alive(e))
	assert.Equal(t, []EntityID{e}, s.removed)

	w.RemoveEntity(e)
	assert.Empty(t, w.FinishUpdate(), "second removal is a no-op")
}

func TestClearResetsIDsAndNotifiesSystems(t *testing.T) {
	w := NewWorld(nil)
	s := newRecorder("a", SignatureOf(typeA), 0, nil)
	w.AddSystem(0, s)
	for i := 0; i < 3; i++ {
		w.AddComponent(w.AddEntity(), &compA{})
	}
	w.Clear()

	assert.Equal(t, 0, w.Aspects(s).Len())
	assert.Len(t, s.removed, 3)
	assert.Equal(t, 1, s.clears)
	assert.Empty(t, w.Entities())
	assert.Equal(t, EntityID(0), w.AddEntity())
}

func TestEnableDisableToggle(t *testing.T) {
	w := NewWorld(nil)
	s := newRecorder("a", SignatureOf(typeA), 0, nil)
	w.AddSystem(0, s)

	w.DisableSystem(s)
	w.DisableSystem(s)
	assert.Equal(t, 1, s.disabled)
	w.Update(0, 0, nil)
	assert.Empty(t, s.deltas)

	require.NoError(t, w.ToggleSystemByName("a"))
	assert.True(t, s.Enabled())
	assert.Equal(t, 1, s.enabled)
	w.Update(0, 0, nil)
	assert.Len(t, s.deltas, 1)

	assert.Error(t, w.EnableSystemByName("missing"))
}

func TestFrozenRunsOnlyDebugExempt(t *testing.T) {
	var trace []string
	w := NewWorld(nil)
	game := newRecorder("game", SignatureOf(typeA), 0, &trace)
	debug := newRecorder("debug", SignatureOf(typeA), 0, &trace)
	debug.MarkDebugExempt()
	w.AddSystem(0, game)
	w.AddSystem(1, debug)

	w.TimeScale().Freeze()
	w.Update(16*time.Millisecond, 16*time.Millisecond, nil)
	assert.Equal(t, []string{"debug"}, trace)
	assert.Equal(t, 16*time.Millisecond, debug.deltas[0])

	w.TimeScale().Unfreeze()
	w.TimeScale().SetScale(0.5)
	w.Update(16*time.Millisecond, 16*time.Millisecond, nil)
	assert.Equal(t, 8*time.Millisecond, game.deltas[0])
}

type countingTower struct{ starts, ends []string }

func (c *countingTower) Start(n string) { c.starts = append(c.starts, n) }
func (c *countingTower) End(n string)   { c.ends = append(c.ends, n) }

func TestUpdateReportsToTower(t *testing.T) {
	w := NewWorld(nil)
	w.AddSystem(0, newRecorder("one", SignatureOf(typeA), 0, nil))
	w.AddSystem(1, newRecorder("two", SignatureOf(typeB), 0, nil))
	tower := &countingTower{}
	w.Update(0, 0, tower)
	assert.Equal(t, []string{"one", "two"}, tower.starts)
	assert.Equal(t, tower.starts, tower.ends)
}

func TestEntitySetSwapRemove(t *testing.T) {
	s := NewEntitySet()
	for i := EntityID(0); i < 4; i++ {
		assert.True(t, s.Add(i))
	}
	assert.False(t, s.Add(2))
	assert.True(t, s.Remove(1))
	assert.False(t, s.Remove(1))
	assert.Equal(t, []EntityID{0, 3, 2}, s.Slice())
	s.Clear()
	assert.Equal(t, 0, s.Len())
}

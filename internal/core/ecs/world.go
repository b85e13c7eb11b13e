package ecs

import (
	"fmt"
	"time"

	"github.com/l1jgo/arena/internal/core/clock"
	"go.uber.org/zap"
)

// World is the top-level ECS container. It owns entity allocation, the
// per-entity component containers, the registered systems with their aspect
// maps and dirty sets, and a deferred destruction queue flushed by FinishUpdate.
// Accessed only from the simulation goroutine — no locks.
type World struct {
	log *zap.Logger

	nextID       EntityID
	containers   map[EntityID]*Container
	alive        *EntitySet
	destroyQueue []EntityID
	destroyed    []EntityID

	entries  []*systemEntry
	bySystem map[System]*systemEntry
	byName   map[string]*systemEntry
	sched    schedule
	dirty    dirtyChannel

	timeScale *clock.TimeScale
}

func NewWorld(log *zap.Logger) *World {
	if log == nil {
		log = zap.NewNop()
	}
	return &World{
		log:          log,
		containers:   make(map[EntityID]*Container, 256),
		alive:        NewEntitySet(),
		destroyQueue: make([]EntityID, 0, 64),
		bySystem:     make(map[System]*systemEntry, 16),
		byName:       make(map[string]*systemEntry, 16),
		timeScale:    clock.NewTimeScale(),
	}
}

// TimeScale is the slow-motion policy applied by Update.
func (w *World) TimeScale() *clock.TimeScale { return w.timeScale }

// ── Entities ────────────────────────────────────────────────────────

// AddEntity allocates the next id with an empty container.
func (w *World) AddEntity() EntityID {
	id := w.nextID
	w.nextID++
	w.containers[id] = NewContainer(id)
	w.alive.Add(id)
	return id
}

// Alive reports whether id has a container (including entities queued for destruction).
func (w *World) Alive(id EntityID) bool {
	_, ok := w.containers[id]
	return ok
}

// Container returns the entity's components, or nil for unknown ids.
func (w *World) Container(id EntityID) *Container {
	return w.containers[id]
}

// Entities lists live entity ids; read-only, invalidated by Add/destroy.
func (w *World) Entities() []EntityID { return w.alive.Slice() }

// RemoveEntity queues id for destruction at the next FinishUpdate. The
// entity and its aspects stay valid until then.
func (w *World) RemoveEntity(id EntityID) {
	w.destroyQueue = append(w.destroyQueue, id)
}

// PendingDestroy is the number of queued removals.
func (w *World) PendingDestroy() int { return len(w.destroyQueue) }

// FinishUpdate destroys every entity queued by RemoveEntity and returns the
// ids actually destroyed. The slice is reused by the next call.
func (w *World) FinishUpdate() []EntityID {
	w.destroyed = w.destroyed[:0]
	for len(w.destroyQueue) > 0 {
		// hooks may queue more removals; keep draining
		queue := w.destroyQueue
		w.destroyQueue = make([]EntityID, 0, cap(queue))
		for _, id := range queue {
			if w.destroyEntity(id) {
				w.destroyed = append(w.destroyed, id)
			}
		}
	}
	return w.destroyed
}

func (w *World) destroyEntity(id EntityID) bool {
	c, ok := w.containers[id]
	if !ok {
		return false
	}
	for _, e := range w.entries {
		w.detach(e, id)
	}
	for _, t := range c.SortedKeys() {
		c.Get(t).bind(nil)
	}
	delete(w.containers, id)
	w.alive.Remove(id)
	return true
}

// Clear destroys every entity immediately, resets id allocation to 0 and
// calls OnClear on every system.
func (w *World) Clear() {
	for len(w.alive.Slice()) > 0 {
		ids := append([]EntityID(nil), w.alive.Slice()...)
		for _, id := range ids {
			w.destroyEntity(id)
		}
	}
	w.destroyQueue = w.destroyQueue[:0]
	w.nextID = 0
	for _, e := range w.entries {
		e.dirty.Clear()
		e.sys.OnClear()
	}
	w.log.Debug("world cleared", zap.Int("systems", len(w.entries)))
}

// ── Components ──────────────────────────────────────────────────────

// AddComponent attaches comp to id, binds its signal to dirty propagation,
// re-evaluates membership in every system and fires the signal once so
// interested systems see the entity on this frame.
func (w *World) AddComponent(id EntityID, comp Component) {
	c := w.mustContainer(id)
	c.Add(comp)
	t := comp.ComponentType()
	comp.bind(func() { w.dirty.notify(id, t) })
	w.checkAll(id, c)
	w.dirty.notify(id, t)
}

// RemoveComponent detaches the component of type t, re-evaluates membership
// and then fires the removed component's signal.
func (w *World) RemoveComponent(id EntityID, t ComponentType) Component {
	c := w.mustContainer(id)
	comp := c.Delete(t)
	w.checkAll(id, c)
	w.dirty.notify(id, t)
	comp.bind(nil)
	return comp
}

func (w *World) mustContainer(id EntityID) *Container {
	c, ok := w.containers[id]
	if !ok {
		panic(fmt.Errorf("ecs: unknown entity %d", id))
	}
	return c
}

func (w *World) checkAll(id EntityID, c *Container) {
	for _, e := range w.entries {
		w.check(e, id, c)
	}
}

// check creates or destroys e's aspect for id so that membership matches
// the superset test.
func (w *World) check(e *systemEntry, id EntityID, c *Container) {
	matches := c.Keys().Contains(e.sys.Signature())
	has := e.aspects.Has(id)
	switch {
	case matches && !has:
		a := e.sys.NewAspect(id, c)
		e.aspects.put(a)
		e.sys.OnAdd(a)
	case !matches && has:
		w.detach(e, id)
	}
}

func (w *World) detach(e *systemEntry, id EntityID) {
	a, ok := e.aspects.remove(id)
	if !ok {
		return
	}
	e.dirty.Remove(id)
	e.sys.OnRemove(a)
}

// ── Systems ─────────────────────────────────────────────────────────

// AddSystem registers s under priority. Lower priorities run first; equal
// priorities run in registration order. Existing entities are evaluated
// immediately.
func (w *World) AddSystem(priority int, s System) {
	if s.Signature().IsEmpty() {
		panic(fmt.Errorf("ecs: system %q has an empty required signature", s.Name()))
	}
	if _, dup := w.bySystem[s]; dup {
		panic(fmt.Errorf("ecs: system %q already registered", s.Name()))
	}
	if _, dup := w.byName[s.Name()]; dup {
		panic(fmt.Errorf("ecs: a system named %q is already registered", s.Name()))
	}

	e := &systemEntry{
		sys:      s,
		priority: priority,
		aspects:  NewAspectMap(),
		dirty:    NewEntitySet(),
	}
	w.entries = append(w.entries, e)
	w.bySystem[s] = e
	w.byName[s.Name()] = e
	w.sched.insert(e)
	w.dirty.register(e)

	for _, id := range w.alive.Slice() {
		w.check(e, id, w.containers[id])
	}

	w.log.Debug("system registered",
		zap.String("system", s.Name()),
		zap.Int("priority", priority),
		zap.Stringer("signature", s.Signature()),
		zap.Stringer("interest", s.DirtyInterest()),
		zap.Int("aspects", e.aspects.Len()),
	)
}

// Aspects returns the live aspect map of a registered system.
func (w *World) Aspects(s System) *AspectMap {
	if e, ok := w.bySystem[s]; ok {
		return e.aspects
	}
	return nil
}

// SystemByName looks up a registered system.
func (w *World) SystemByName(name string) (System, bool) {
	e, ok := w.byName[name]
	if !ok {
		return nil, false
	}
	return e.sys, true
}

// SystemInfo is an inspection snapshot of one registered system.
type SystemInfo struct {
	Name        string
	Priority    int
	Enabled     bool
	DebugExempt bool
	Aspects     int
	Dirty       int
}

// Systems lists registered systems in execution order.
func (w *World) Systems() []SystemInfo {
	out := make([]SystemInfo, 0, len(w.entries))
	w.sched.each(func(e *systemEntry) {
		out = append(out, SystemInfo{
			Name:        e.sys.Name(),
			Priority:    e.priority,
			Enabled:     e.sys.Enabled(),
			DebugExempt: e.sys.DebugExempt(),
			Aspects:     e.aspects.Len(),
			Dirty:       e.dirty.Len(),
		})
	})
	return out
}

func (w *World) EnableSystem(s System)  { w.setEnabled(s, true) }
func (w *World) DisableSystem(s System) { w.setEnabled(s, false) }
func (w *World) ToggleSystem(s System)  { w.setEnabled(s, !s.Enabled()) }

func (w *World) EnableSystemByName(name string) error {
	return w.byNameDo(name, w.EnableSystem)
}

func (w *World) DisableSystemByName(name string) error {
	return w.byNameDo(name, w.DisableSystem)
}

func (w *World) ToggleSystemByName(name string) error {
	return w.byNameDo(name, w.ToggleSystem)
}

func (w *World) byNameDo(name string, fn func(System)) error {
	e, ok := w.byName[name]
	if !ok {
		return fmt.Errorf("ecs: no system named %q", name)
	}
	fn(e.sys)
	return nil
}

func (w *World) setEnabled(s System, on bool) {
	e, ok := w.bySystem[s]
	if !ok {
		panic(fmt.Errorf("ecs: system %q is not registered", s.Name()))
	}
	if s.Enabled() == on {
		return
	}
	s.setEnabled(on)
	if on {
		s.OnEnabled(e.aspects)
	} else {
		s.OnDisabled(e.aspects)
	}
	w.log.Debug("system toggled", zap.String("system", s.Name()), zap.Bool("enabled", on))
}

// ── Frame ───────────────────────────────────────────────────────────

// Update runs one frame: systems in ascending priority, each followed by
// clearing its dirty set. While the time scale is frozen only debug-exempt
// systems run. tower may be nil.
func (w *World) Update(wallDelta, gameDelta time.Duration, tower clock.Tower) {
	if tower == nil {
		tower = clock.Nop{}
	}
	delta, frozen := w.timeScale.Effective(wallDelta, gameDelta)
	w.sched.each(func(e *systemEntry) {
		if !e.sys.Enabled() || (frozen && !e.sys.DebugExempt()) {
			return
		}
		name := e.sys.Name()
		tower.Start(name)
		e.sys.Update(delta, e.aspects, e.dirty)
		tower.End(name)
		e.dirty.Clear()
	})
}

package ecs

// Aspect is a system's cached view of one matching entity. Systems that need
// per-entity state (integrators, blackboards) embed BaseAspect in their own
// struct and return it from System.NewAspect; its lifetime equals the membership.
type Aspect interface {
	Entity() EntityID
	Container() *Container
}

// BaseAspect is the minimal Aspect.
type BaseAspect struct {
	entity    EntityID
	container *Container
}

// MakeAspect binds a BaseAspect to an entity's container.
func MakeAspect(id EntityID, c *Container) BaseAspect {
	return BaseAspect{entity: id, container: c}
}

func (a *BaseAspect) Entity() EntityID      { return a.entity }
func (a *BaseAspect) Container() *Container { return a.container }

// AspectMap holds a system's live aspects keyed by entity, iterated in a
// deterministic order (see EntitySet).
type AspectMap struct {
	ids     *EntitySet
	aspects map[EntityID]Aspect
}

func NewAspectMap() *AspectMap {
	return &AspectMap{ids: NewEntitySet(), aspects: make(map[EntityID]Aspect, 64)}
}

func (m *AspectMap) Get(id EntityID) (Aspect, bool) {
	a, ok := m.aspects[id]
	return a, ok
}

func (m *AspectMap) Has(id EntityID) bool {
	_, ok := m.aspects[id]
	return ok
}

func (m *AspectMap) Len() int { return m.ids.Len() }

// IDs returns the member entities; read-only, invalidated by membership changes.
func (m *AspectMap) IDs() []EntityID { return m.ids.Slice() }

// Each visits every aspect. fn must not add or remove components.
func (m *AspectMap) Each(fn func(Aspect)) {
	for _, id := range m.ids.Slice() {
		fn(m.aspects[id])
	}
}

func (m *AspectMap) put(a Aspect) {
	m.ids.Add(a.Entity())
	m.aspects[a.Entity()] = a
}

func (m *AspectMap) remove(id EntityID) (Aspect, bool) {
	a, ok := m.aspects[id]
	if !ok {
		return nil, false
	}
	delete(m.aspects, id)
	m.ids.Remove(id)
	return a, true
}

// Typed returns the aspect for id as A.
func Typed[A Aspect](m *AspectMap, id EntityID) (A, bool) {
	a, ok := m.aspects[id].(A)
	return a, ok
}

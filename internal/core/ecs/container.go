package ecs

import "fmt"

// Container is the per-entity component storage: one slot per ComponentType,
// plus a signature mirroring which slots are filled. It never notifies
// systems; the World does that after mutating it.
type Container struct {
	entity EntityID
	slots  [MaxComponentTypes]Component
	keys   Signature
}

func NewContainer(id EntityID) *Container {
	return &Container{entity: id}
}

func (c *Container) Entity() EntityID { return c.entity }

// Add stores comp. A second component of the same type is a programming error.
func (c *Container) Add(comp Component) {
	t := comp.ComponentType()
	if c.keys.Has(t) {
		panic(fmt.Errorf("ecs: entity %d already has component %s", c.entity, t))
	}
	c.slots[t] = comp
	c.keys = c.keys.With(t)
}

// Delete removes and returns the component of type t, which must be present.
func (c *Container) Delete(t ComponentType) Component {
	if !c.keys.Has(t) {
		panic(fmt.Errorf("ecs: entity %d has no component %s", c.entity, t))
	}
	comp := c.slots[t]
	c.slots[t] = nil
	c.keys = c.keys.Without(t)
	return comp
}

// Get returns the component of type t, or nil.
func (c *Container) Get(t ComponentType) Component {
	return c.slots[t]
}

// Has reports whether every listed type is present.
func (c *Container) Has(types ...ComponentType) bool {
	return c.keys.Contains(SignatureOf(types...))
}

// Keys is the set of present types.
func (c *Container) Keys() Signature { return c.keys }

// SortedKeys lists present types in ascending order, for inspection output.
func (c *Container) SortedKeys() []ComponentType { return c.keys.Types() }

func (c *Container) Len() int { return c.keys.Len() }

// Lookup fetches the component of type t as T. ok is false when absent or of another Go type.
func Lookup[T Component](c *Container, t ComponentType) (T, bool) {
	v, ok := c.Get(t).(T)
	return v, ok
}

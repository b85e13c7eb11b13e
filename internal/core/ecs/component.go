package ecs

import (
	"fmt"
	"math/bits"
)

// ComponentType is the closed, numeric tag identifying a component kind.
// Types are defined once at package init by the host via DefineComponentType.
type ComponentType uint8

// MaxComponentTypes bounds the number of definable component types so that a
// Signature fits in one machine word.
const MaxComponentTypes = 64

var typeNames = make([]string, 0, MaxComponentTypes)

// DefineComponentType allocates the next ComponentType under name.
// Intended for package-level var initialisation; not safe for concurrent use.
func DefineComponentType(name string) ComponentType {
	if len(typeNames) >= MaxComponentTypes {
		panic(fmt.Errorf("ecs: cannot define component type %q: limit of %d reached", name, MaxComponentTypes))
	}
	for _, n := range typeNames {
		if n == name {
			panic(fmt.Errorf("ecs: component type %q defined twice", name))
		}
	}
	typeNames = append(typeNames, name)
	return ComponentType(len(typeNames) - 1)
}

// ComponentTypeByName resolves a type from its defined name.
func ComponentTypeByName(name string) (ComponentType, error) {
	for i, n := range typeNames {
		if n == name {
			return ComponentType(i), nil
		}
	}
	return 0, fmt.Errorf("ecs: unknown component type %q", name)
}

// MustComponentType is ComponentTypeByName for names known at build time.
func MustComponentType(name string) ComponentType {
	t, err := ComponentTypeByName(name)
	if err != nil {
		panic(err)
	}
	return t
}

func (t ComponentType) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("ComponentType(%d)", uint8(t))
}

// Signature is a bitmask of component types.
type Signature uint64

func SignatureOf(types ...ComponentType) Signature {
	var s Signature
	for _, t := range types {
		s |= 1 << t
	}
	return s
}

func (s Signature) With(t ComponentType) Signature    { return s | 1<<t }
func (s Signature) Without(t ComponentType) Signature { return s &^ (1 << t) }
func (s Signature) Has(t ComponentType) bool          { return s&(1<<t) != 0 }
func (s Signature) IsEmpty() bool                     { return s == 0 }
func (s Signature) Len() int                          { return bits.OnesCount64(uint64(s)) }

// Contains reports whether s is a superset of other.
func (s Signature) Contains(other Signature) bool { return s&other == other }

// Types lists the members in ascending type order.
func (s Signature) Types() []ComponentType {
	out := make([]ComponentType, 0, s.Len())
	for v := uint64(s); v != 0; v &= v - 1 {
		out = append(out, ComponentType(bits.TrailingZeros64(v)))
	}
	return out
}

func (s Signature) String() string {
	out := "{"
	for i, t := range s.Types() {
		if i > 0 {
			out += ","
		}
		out += t.String()
	}
	return out + "}"
}

// Component is implemented by every value stored in a Container. The
// unexported bind method is satisfied by embedding Signal.
type Component interface {
	ComponentType() ComponentType
	bind(notify func())
}

// Signal is embedded in components. Fire must be called from every setter
// that actually changes semantically relevant state; the world binds it to
// dirty propagation while the component is attached.
type Signal struct {
	notify func()
}

// Fire notifies the world that the owning component changed. No-op while detached.
func (s *Signal) Fire() {
	if s.notify != nil {
		s.notify()
	}
}

func (s *Signal) bind(notify func()) { s.notify = notify }

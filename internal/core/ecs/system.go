package ecs

import "time"

// System processes every entity whose components are a superset of Signature.
// Concrete systems embed BaseSystem for the lifecycle defaults and implement Update.
type System interface {
	Name() string
	// Signature is the required-component set; it must not be empty.
	Signature() Signature
	// DirtyInterest lists the component types whose signals resurface a
	// member entity in the dirty set passed to Update.
	DirtyInterest() Signature
	// DebugExempt systems keep running while the world is frozen.
	DebugExempt() bool

	NewAspect(id EntityID, c *Container) Aspect
	Update(delta time.Duration, aspects *AspectMap, dirty *EntitySet)

	OnAdd(a Aspect)
	OnRemove(a Aspect)
	OnEnabled(aspects *AspectMap)
	OnDisabled(aspects *AspectMap)
	OnClear()

	Enabled() bool
	setEnabled(on bool)
}

// BaseSystem supplies the System bookkeeping and no-op hooks.
type BaseSystem struct {
	name        string
	signature   Signature
	interest    Signature
	debugExempt bool
	disabled    bool
}

// NewBaseSystem describes a system requiring `required` and watching `interest`.
func NewBaseSystem(name string, required, interest Signature) BaseSystem {
	return BaseSystem{name: name, signature: required, interest: interest}
}

// MarkDebugExempt keeps the system live while the world is frozen.
func (s *BaseSystem) MarkDebugExempt() { s.debugExempt = true }

func (s *BaseSystem) Name() string             { return s.name }
func (s *BaseSystem) Signature() Signature     { return s.signature }
func (s *BaseSystem) DirtyInterest() Signature { return s.interest }
func (s *BaseSystem) DebugExempt() bool        { return s.debugExempt }
func (s *BaseSystem) Enabled() bool            { return !s.disabled }
func (s *BaseSystem) setEnabled(on bool)       { s.disabled = !on }

func (s *BaseSystem) NewAspect(id EntityID, c *Container) Aspect {
	a := MakeAspect(id, c)
	return &a
}

func (s *BaseSystem) OnAdd(Aspect)          {}
func (s *BaseSystem) OnRemove(Aspect)       {}
func (s *BaseSystem) OnEnabled(*AspectMap)  {}
func (s *BaseSystem) OnDisabled(*AspectMap) {}
func (s *BaseSystem) OnClear()              {}

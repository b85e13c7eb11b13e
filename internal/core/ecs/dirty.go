package ecs

// dirtyChannel routes component signals to the systems that declared interest
// in the component's type. Built incrementally as systems register.
type dirtyChannel struct {
	interested [MaxComponentTypes][]*systemEntry
}

func (d *dirtyChannel) register(e *systemEntry) {
	for _, t := range e.sys.DirtyInterest().Types() {
		d.interested[t] = append(d.interested[t], e)
	}
}

// notify marks id dirty in every interested system currently holding an aspect for it.
func (d *dirtyChannel) notify(id EntityID, t ComponentType) {
	for _, e := range d.interested[t] {
		if e.aspects.Has(id) {
			e.dirty.Add(id)
		}
	}
}

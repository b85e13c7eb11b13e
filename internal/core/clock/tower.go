// Package clock holds the frame timing collaborators of the simulation: the
// per-system timing tower and the time-scaling policy.
package clock

// Tower receives start/end calls around every system update, keyed by
// system name. Implementations must tolerate unmatched calls.
type Tower interface {
	Start(name string)
	End(name string)
}

// Nop discards all timing calls.
type Nop struct{}

func (Nop) Start(string) {}
func (Nop) End(string)   {}

package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventsArriveNextFrame(t *testing.T) {
	b := NewBus()
	var got []EntityDestroyed
	Subscribe(b, func(e EntityDestroyed) { got = append(got, e) })

	Emit(b, EntityDestroyed{Entity: 3, Frame: 1})
	assert.Equal(t, 1, b.Pending())
	b.DispatchAll()
	assert.Empty(t, got, "not visible in the emitting frame")

	b.SwapBuffers()
	b.DispatchAll()
	assert.Equal(t, []EntityDestroyed{{Entity: 3, Frame: 1}}, got)
	assert.Equal(t, 0, b.Pending())

	b.SwapBuffers()
	b.DispatchAll()
	assert.Len(t, got, 1, "delivered once")
}

func TestHandlersFilterByType(t *testing.T) {
	b := NewBus()
	contacts := 0
	Subscribe(b, func(Contact) { contacts++ })
	Emit(b, EntityDestroyed{Entity: 1})
	Emit(b, Contact{A: 1, B: 2})
	Emit(b, Contact{A: 2, B: 1})
	b.SwapBuffers()
	b.DispatchAll()
	assert.Equal(t, 2, contacts)
}

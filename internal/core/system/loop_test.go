package system

import (
	"context"
	"testing"
	"time"

	"github.com/l1jgo/arena/internal/core/ecs"
	"github.com/l1jgo/arena/internal/core/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var typeProbe = ecs.DefineComponentType("loop_probe")

type probe struct{ ecs.Signal }

func (*probe) ComponentType() ecs.ComponentType { return typeProbe }

type deltaRecorder struct {
	ecs.BaseSystem
	deltas []time.Duration
}

func newDeltaRecorder() *deltaRecorder {
	return &deltaRecorder{BaseSystem: ecs.NewBaseSystem("recorder", ecs.SignatureOf(typeProbe), 0)}
}

func (s *deltaRecorder) Update(delta time.Duration, _ *ecs.AspectMap, _ *ecs.EntitySet) {
	s.deltas = append(s.deltas, delta)
}

func TestStepCapsGameDelta(t *testing.T) {
	w := ecs.NewWorld(zaptest.NewLogger(t))
	rec := newDeltaRecorder()
	w.AddSystem(PriorityInput, rec)
	loop := NewLoop(w, nil, nil, 10*time.Millisecond, zaptest.NewLogger(t))

	loop.Step(10 * time.Millisecond)
	loop.Step(time.Second)
	assert.Equal(t, []time.Duration{10 * time.Millisecond, 40 * time.Millisecond}, rec.deltas)
	assert.Equal(t, uint64(2), loop.Frame())
}

func TestStepFlushesAndAnnouncesDestruction(t *testing.T) {
	w := ecs.NewWorld(zaptest.NewLogger(t))
	bus := event.NewBus()
	loop := NewLoop(w, bus, nil, 10*time.Millisecond, nil)

	var gone []event.EntityDestroyed
	event.Subscribe(bus, func(e event.EntityDestroyed) { gone = append(gone, e) })
	var hooked []uint64
	loop.AfterFrame(func(frame uint64) { hooked = append(hooked, frame) })

	id := w.AddEntity()
	w.AddComponent(id, &probe{})
	w.RemoveEntity(id)

	loop.Step(10 * time.Millisecond)
	assert.False(t, w.Alive(id))
	assert.Empty(t, gone)
	assert.Equal(t, 1, bus.Pending())

	loop.Step(10 * time.Millisecond)
	require.Len(t, gone, 1)
	assert.Equal(t, event.EntityDestroyed{Entity: id, Frame: 0}, gone[0])
	assert.Equal(t, []uint64{1, 2}, hooked)
}

func TestRunStopsOnCancel(t *testing.T) {
	w := ecs.NewWorld(nil)
	loop := NewLoop(w, event.NewBus(), nil, time.Millisecond, zaptest.NewLogger(t))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	require.NoError(t, loop.Run(ctx))
	assert.Positive(t, loop.Frame())
}

func TestPrioritiesOrderKernelStages(t *testing.T) {
	assert.Less(t, PriorityMovement, PrioritySpatialHash)
	assert.Less(t, PrioritySpatialHash, PriorityCollision)
	assert.Less(t, PriorityCollision, PriorityResolve)
	assert.Less(t, PriorityResolve, PriorityDebug)
}

package persist

import (
	"context"
	"time"

	"github.com/l1jgo/arena/internal/core/clock"
	"go.uber.org/zap"
)

// SampleSink is where flushed samples end up; *ProfileRepo in production.
type SampleSink interface {
	SaveSamples(ctx context.Context, runID int64, frame uint64, samples []clock.Sample) error
}

type batch struct {
	frame   uint64
	samples []clock.Sample
}

// ProfileWriter moves sample batches off the simulation goroutine. Submit
// never blocks; batches are dropped when the queue is full.
type ProfileWriter struct {
	sink    SampleSink
	runID   int64
	queue   chan batch
	timeout time.Duration
	log     *zap.Logger
	dropped int
}

func NewProfileWriter(sink SampleSink, runID int64, queueSize int, log *zap.Logger) *ProfileWriter {
	return &ProfileWriter{
		sink:    sink,
		runID:   runID,
		queue:   make(chan batch, queueSize),
		timeout: 5 * time.Second,
		log:     log,
	}
}

// Submit queues samples taken at frame. Called from the simulation goroutine.
func (w *ProfileWriter) Submit(frame uint64, samples []clock.Sample) bool {
	select {
	case w.queue <- batch{frame: frame, samples: samples}:
		return true
	default:
		w.dropped++
		w.log.Warn("profile queue full, dropping samples",
			zap.Uint64("frame", frame), zap.Int("dropped", w.dropped))
		return false
	}
}

// Run drains the queue until ctx is cancelled, then flushes what is left.
func (w *ProfileWriter) Run(ctx context.Context) {
	for {
		select {
		case b := <-w.queue:
			w.save(ctx, b)
		case <-ctx.Done():
			for {
				select {
				case b := <-w.queue:
					w.save(context.Background(), b)
				default:
					return
				}
			}
		}
	}
}

func (w *ProfileWriter) save(ctx context.Context, b batch) {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()
	if err := w.sink.SaveSamples(ctx, w.runID, b.frame, b.samples); err != nil {
		w.log.Error("save profile samples", zap.Uint64("frame", b.frame), zap.Error(err))
	}
}

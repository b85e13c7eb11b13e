package clock

import (
	"fmt"
	"io"
	"sort"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Sample aggregates the timings recorded for one system name.
type Sample struct {
	Name  string
	Count int64
	Total time.Duration
	Max   time.Duration
}

// Mean is the average duration per call.
func (s Sample) Mean() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Count)
}

// Profiler is a Tower that aggregates wall time per system.
// Accessed only from the simulation goroutine — no locks.
type Profiler struct {
	now     func() time.Time
	started map[string]time.Time
	samples map[string]*Sample
	order   []string
}

func NewProfiler() *Profiler {
	return NewProfilerWithClock(time.Now)
}

// NewProfilerWithClock injects the time source, for deterministic tests.
func NewProfilerWithClock(now func() time.Time) *Profiler {
	return &Profiler{
		now:     now,
		started: make(map[string]time.Time, 16),
		samples: make(map[string]*Sample, 16),
	}
}

func (p *Profiler) Start(name string) {
	p.started[name] = p.now()
}

func (p *Profiler) End(name string) {
	t0, ok := p.started[name]
	if !ok {
		return
	}
	delete(p.started, name)
	d := p.now().Sub(t0)
	s := p.samples[name]
	if s == nil {
		s = &Sample{Name: name}
		p.samples[name] = s
		p.order = append(p.order, name)
	}
	s.Count++
	s.Total += d
	if d > s.Max {
		s.Max = d
	}
}

// Snapshot copies the current aggregates in first-seen order.
func (p *Profiler) Snapshot() []Sample {
	out := make([]Sample, 0, len(p.order))
	for _, n := range p.order {
		out = append(out, *p.samples[n])
	}
	return out
}

// Reset drops all aggregates and open measurements.
func (p *Profiler) Reset() {
	p.started = make(map[string]time.Time, 16)
	p.samples = make(map[string]*Sample, 16)
	p.order = p.order[:0]
}

// WriteReport prints a table of samples sorted by total time, heaviest first.
func WriteReport(w io.Writer, samples []Sample) error {
	sorted := append([]Sample(nil), samples...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Total > sorted[j].Total })

	pr := message.NewPrinter(language.English)
	if _, err := fmt.Fprintf(w, "%-24s %12s %14s %12s %12s\n", "system", "calls", "total(µs)", "mean(µs)", "max(µs)"); err != nil {
		return err
	}
	for _, s := range sorted {
		line := pr.Sprintf("%-24s %12d %14d %12d %12d\n",
			s.Name, s.Count, s.Total.Microseconds(), s.Mean().Microseconds(), s.Max.Microseconds())
		if _, err := io.WriteString(w, line); err != nil {
			return err
		}
	}
	return nil
}

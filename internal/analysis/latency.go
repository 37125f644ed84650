// Package analysis summarises recent lookup latencies.
package analysis

import (
	"fmt"
	"math"
	"slices"
	"time"
)

type Summary struct {
	Count  int
	Min    time.Duration
	Max    time.Duration
	Mean   time.Duration
	Median time.Duration
	P90    time.Duration
	P95    time.Duration
}

// Summarize computes nearest-rank statistics over samples.
func Summarize(samples []time.Duration) Summary {
	n := len(samples)
	if n == 0 {
		return Summary{}
	}
	sorted := slices.Clone(samples)
	slices.Sort(sorted)

	var sum time.Duration
	for _, d := range sorted {
		sum += d
	}
	median := sorted[n/2]
	if n%2 == 0 {
		median = (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return Summary{
		Count:  n,
		Min:    sorted[0],
		Max:    sorted[n-1],
		Mean:   sum / time.Duration(n),
		Median: median,
		P90:    Percentile(sorted, 90),
		P95:    Percentile(sorted, 95),
	}
}

// Percentile expects sorted input.
func Percentile(sorted []time.Duration, p int) time.Duration {
	n := len(sorted)
	switch {
	case n == 0:
		return 0
	case p <= 0:
		return sorted[0]
	case p >= 100:
		return sorted[n-1]
	}
	idx := int(math.Ceil(float64(p)/100*float64(n))) - 1
	return sorted[min(max(idx, 0), n-1)]
}

// String renders a compact one-line form, e.g. "p50 120ms p95 340ms (12)".
func (s Summary) String() string {
	if s.Count == 0 {
		return ""
	}
	return fmt.Sprintf("p50 %s p95 %s (%d)", round(s.Median), round(s.P95), s.Count)
}

func round(d time.Duration) time.Duration {
	if d >= time.Second {
		return d.Round(10 * time.Millisecond)
	}
	return d.Round(time.Millisecond)
}

// Window is a fixed size ring of the most recent samples. It is not safe for
// concurrent use.
type Window struct {
	buf  []time.Duration
	next int
	full bool
}

func NewWindow(size int) *Window {
	if size <= 0 {
		size = 1
	}
	return &Window{buf: make([]time.Duration, size)}
}

func (w *Window) Add(d time.Duration) {
	w.buf[w.next] = d
	w.next = (w.next + 1) % len(w.buf)
	if w.next == 0 {
		w.full = true
	}
}

func (w *Window) Len() int {
	if w.full {
		return len(w.buf)
	}
	return w.next
}

// Samples returns the retained samples, oldest first.
func (w *Window) Samples() []time.Duration {
	if !w.full {
		return slices.Clone(w.buf[:w.next])
	}
	return append(slices.Clone(w.buf[w.next:]), w.buf[:w.next]...)
}

func (w *Window) Summary() Summary {
	return Summarize(w.Samples())
}

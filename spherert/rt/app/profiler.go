package app

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Profiler accumulates CPU time per named scope between Resets.
type Profiler struct {
	totals map[string]time.Duration
	counts map[string]int
	starts map[string]time.Time
	order  []string
}

func NewProfiler() *Profiler {
	return &Profiler{
		totals: make(map[string]time.Duration),
		counts: make(map[string]int),
		starts: make(map[string]time.Time),
	}
}

func (p *Profiler) BeginScope(name string) {
	p.starts[name] = time.Now()
	if !slices.Contains(p.order, name) {
		p.order = append(p.order, name)
	}
}

func (p *Profiler) EndScope(name string) {
	start, ok := p.starts[name]
	if !ok {
		return
	}
	delete(p.starts, name)
	p.record(name, time.Since(start))
}

func (p *Profiler) record(name string, d time.Duration) {
	if !slices.Contains(p.order, name) {
		p.order = append(p.order, name)
	}
	p.totals[name] += d
	p.counts[name]++
}

// Average returns the mean duration of a scope since the last Reset.
func (p *Profiler) Average(name string) time.Duration {
	n := p.counts[name]
	if n == 0 {
		return 0
	}
	return p.totals[name] / time.Duration(n)
}

// Reset clears accumulated times but keeps the display order.
func (p *Profiler) Reset() {
	clear(p.totals)
	clear(p.counts)
}

func (p *Profiler) StatsString() string {
	var sb strings.Builder
	sb.WriteString("Timings (CPU avg):\n")
	for _, name := range p.order {
		ms := float64(p.Average(name).Microseconds()) / 1000.0
		fmt.Fprintf(&sb, "  %-10s: %.2f ms (%d)\n", name, ms, p.counts[name])
	}
	return sb.String()
}

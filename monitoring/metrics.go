// Package monitoring keeps in-process counters for the classification service.
package monitoring

import (
	"fmt"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"
)

// LatencyStat aggregates classification latency.
type LatencyStat struct {
	Count int64         `json:"count"`
	Total time.Duration `json:"total_ns"`
	Min   time.Duration `json:"min_ns"`
	Max   time.Duration `json:"max_ns"`
}

// Average returns the mean latency, or zero before the first sample.
func (s LatencyStat) Average() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Count)
}

// Snapshot is a point-in-time copy of Metrics.
type Snapshot struct {
	Uptime          string           `json:"uptime"`
	Classifications map[string]int64 `json:"classifications"`
	CacheHits       int64            `json:"cache_hits"`
	Errors          int64            `json:"errors"`
	BlankRejected   int64            `json:"blank_rejected"`
	Latency         LatencyStat      `json:"latency"`
	AverageLatency  string           `json:"average_latency"`
}

// Metrics is safe for concurrent use.
type Metrics struct {
	metricsLock sync.RWMutex

	startTime       time.Time
	classifications map[string]int64
	cacheHits       int64
	errors          int64
	blank           int64
	latency         LatencyStat
}

func NewMetrics() *Metrics {
	return &Metrics{
		startTime:       time.Now(),
		classifications: make(map[string]int64),
	}
}

// RecordClassification counts a successful classification by label.
func (m *Metrics) RecordClassification(label string, cached bool, elapsed time.Duration) {
	m.metricsLock.Lock()
	defer m.metricsLock.Unlock()

	m.classifications[label]++
	if cached {
		m.cacheHits++
	}

	s := &m.latency
	if s.Count == 0 || elapsed < s.Min {
		s.Min = elapsed
	}
	if elapsed > s.Max {
		s.Max = elapsed
	}
	s.Count++
	s.Total += elapsed
}

func (m *Metrics) RecordError() {
	m.metricsLock.Lock()
	defer m.metricsLock.Unlock()

	m.errors++
}

// RecordBlank counts input rejected as blank.
func (m *Metrics) RecordBlank() {
	m.metricsLock.Lock()
	defer m.metricsLock.Unlock()

	m.blank++
}

func (m *Metrics) GetUptime() time.Duration {
	return time.Since(m.startTime)
}

func (m *Metrics) Snapshot() Snapshot {
	m.metricsLock.RLock()
	defer m.metricsLock.RUnlock()

	counts := make(map[string]int64, len(m.classifications))
	for label, n := range m.classifications {
		counts[label] = n
	}

	return Snapshot{
		Uptime:          m.GetUptime().Round(time.Second).String(),
		Classifications: counts,
		CacheHits:       m.cacheHits,
		Errors:          m.errors,
		BlankRejected:   m.blank,
		Latency:         m.latency,
		AverageLatency:  m.latency.Average().String(),
	}
}

// GetSystemStats reports runtime memory and goroutine figures.
func (m *Metrics) GetSystemStats() map[string]interface{} {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return map[string]interface{}{
		"uptime":     m.GetUptime().String(),
		"goroutines": runtime.NumGoroutine(),
		"memory": map[string]interface{}{
			"alloc":      mem.Alloc,
			"heap_alloc": mem.HeapAlloc,
			"heap_sys":   mem.HeapSys,
			"gc_count":   mem.NumGC,
		},
		"num_cpu": runtime.NumCPU(),
	}
}

// ExportPrometheus renders the counters in the Prometheus text format.
func (m *Metrics) ExportPrometheus() string {
	snap := m.Snapshot()
	var b strings.Builder

	b.WriteString("# HELP newsguard_classifications_total Classified documents by label\n")
	b.WriteString("# TYPE newsguard_classifications_total counter\n")
	labels := make([]string, 0, len(snap.Classifications))
	for label := range snap.Classifications {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		fmt.Fprintf(&b, "newsguard_classifications_total{label=%q} %d\n", label, snap.Classifications[label])
	}

	writeCounter(&b, "newsguard_cache_hits_total", "Predictions served from the memo cache", snap.CacheHits)
	writeCounter(&b, "newsguard_errors_total", "Failed classifications", snap.Errors)
	writeCounter(&b, "newsguard_blank_rejected_total", "Requests rejected for blank text", snap.BlankRejected)

	b.WriteString("# HELP newsguard_classify_seconds Classification latency\n")
	b.WriteString("# TYPE newsguard_classify_seconds summary\n")
	fmt.Fprintf(&b, "newsguard_classify_seconds_sum %f\n", snap.Latency.Total.Seconds())
	fmt.Fprintf(&b, "newsguard_classify_seconds_count %d\n", snap.Latency.Count)

	writeGauge(&b, "newsguard_goroutines", "Number of goroutines", float64(runtime.NumGoroutine()))
	writeGauge(&b, "newsguard_uptime_seconds", "Seconds since start", m.GetUptime().Seconds())
	return b.String()
}

func writeCounter(b *strings.Builder, name, help string, value int64) {
	fmt.Fprintf(b, "# HELP %s %s\n# TYPE %s counter\n%s %d\n", name, help, name, name, value)
}

func writeGauge(b *strings.Builder, name, help string, value float64) {
	fmt.Fprintf(b, "# HELP %s %s\n# TYPE %s gauge\n%s %f\n", name, help, name, name, value)
}

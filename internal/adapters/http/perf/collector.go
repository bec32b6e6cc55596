package perf

import (
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultRingSize is the default capacity of the ring buffer.
const DefaultRingSize = 10000

// EntryKind distinguishes HTTP requests from store operations.
type EntryKind uint8

const (
	KindRequest EntryKind = iota
	KindStore
)

// Entry is a single timing record.
type Entry struct {
	Kind       EntryKind
	Name       string // "GET /api/events" or "firestore.events.List"
	StatusCode int    // HTTP status; 0 for store operations
	Failed     bool   // store operation returned an error
	DurationMs float64
	Timestamp  time.Time
}

func (e Entry) isError() bool {
	if e.Kind == KindRequest {
		return e.StatusCode >= 500
	}
	return e.Failed
}

// Collector keeps the most recent entries in a fixed-size ring.
// Record never allocates; aggregation happens in Snapshot.
type Collector struct {
	mu      sync.Mutex
	entries []Entry
	pos     int
	count   atomic.Int64
}

// NewCollector creates a collector holding up to size entries.
// POST: size <= 0 selects DefaultRingSize
func NewCollector(size int) *Collector {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &Collector{entries: make([]Entry, size)}
}

// Record stores e, overwriting the oldest entry when the ring is full.
func (c *Collector) Record(e Entry) {
	c.mu.Lock()
	c.entries[c.pos] = e
	c.pos = (c.pos + 1) % len(c.entries)
	c.mu.Unlock()
	c.count.Add(1)
}

// TotalRecorded returns the number of entries ever recorded.
func (c *Collector) TotalRecorded() int64 {
	return c.count.Load()
}

// Stat aggregates timings for one request route or store operation.
type Stat struct {
	Name   string  `json:"name"`
	Count  int     `json:"count"`
	Errors int     `json:"errors"`
	AvgMs  float64 `json:"avgMs"`
	MaxMs  float64 `json:"maxMs"`
	total  float64
}

// Snapshot is the aggregated view served to administrators.
type Snapshot struct {
	TotalRecorded int64   `json:"totalRecorded"`
	RequestP50Ms  float64 `json:"requestP50Ms"`
	RequestP95Ms  float64 `json:"requestP95Ms"`
	RequestP99Ms  float64 `json:"requestP99Ms"`
	SlowRequests  []Stat  `json:"slowRequests"`
	SlowStoreOps  []Stat  `json:"slowStoreOps"`
}

// Snapshot aggregates entries recorded at or after since and keeps the topN slowest names per kind.
func (c *Collector) Snapshot(since time.Time, topN int) Snapshot {
	c.mu.Lock()
	buf := make([]Entry, len(c.entries))
	copy(buf, c.entries)
	c.mu.Unlock()

	var durations []float64
	byKind := map[EntryKind]map[string]*Stat{
		KindRequest: {},
		KindStore:   {},
	}
	for _, e := range buf {
		if e.Timestamp.IsZero() || e.Timestamp.Before(since) {
			continue
		}
		stats, ok := byKind[e.Kind]
		if !ok {
			continue
		}
		if e.Kind == KindRequest {
			durations = append(durations, e.DurationMs)
		}
		s := stats[e.Name]
		if s == nil {
			s = &Stat{Name: e.Name}
			stats[e.Name] = s
		}
		s.Count++
		s.total += e.DurationMs
		s.MaxMs = math.Max(s.MaxMs, e.DurationMs)
		if e.isError() {
			s.Errors++
		}
	}

	snap := Snapshot{
		TotalRecorded: c.TotalRecorded(),
		SlowRequests:  slowest(byKind[KindRequest], topN),
		SlowStoreOps:  slowest(byKind[KindStore], topN),
	}
	if len(durations) > 0 {
		sort.Float64s(durations)
		snap.RequestP50Ms = percentile(durations, 50)
		snap.RequestP95Ms = percentile(durations, 95)
		snap.RequestP99Ms = percentile(durations, 99)
	}
	return snap
}

// percentile interpolates the p-th percentile of a sorted slice.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := (p / 100) * float64(len(sorted)-1)
	lower := int(math.Floor(idx))
	upper := int(math.Ceil(idx))
	if lower == upper || upper >= len(sorted) {
		return sorted[lower]
	}
	frac := idx - float64(lower)
	return sorted[lower]*(1-frac) + sorted[upper]*frac
}

// slowest orders stats by average duration, descending, ties by name.
func slowest(stats map[string]*Stat, n int) []Stat {
	list := make([]Stat, 0, len(stats))
	for _, s := range stats {
		s.AvgMs = s.total / float64(s.Count)
		list = append(list, *s)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].AvgMs != list[j].AvgMs {
			return list[i].AvgMs > list[j].AvgMs
		}
		return list[i].Name < list[j].Name
	})
	if n > 0 && len(list) > n {
		list = list[:n]
	}
	return list
}

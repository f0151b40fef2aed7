// Package simlog aggregates per-episode statistics into a bounded ring
// buffer the host can drain, mirroring the log_buffer surface spec.md §6
// describes. Grounded on the teacher's internal/game/event_log.go
// (circular-buffer-plus-stats discipline) stripped of the async
// goroutine/rate-limiter machinery that exists there only to survive a
// hostile network client — this buffer has exactly one writer (the step
// loop) and no network input, so there's nothing to rate-limit.
package simlog

import (
	"io"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"
)

// Entry is one completed episode's summary, matching
// original_source/src/types.h's logEntry.
type Entry struct {
	EpisodeID string
	Reward    []float64
	Length    int
	Winner    int // -1 if no single winner (e.g. time limit)
	Stats     []DroneStats
}

// DroneStats mirrors original_source/src/types.h's droneStats for CSV
// export; kept separate from sim.Stats so this package doesn't import sim
// (sim imports simlog, not the reverse).
type DroneStats struct {
	DistanceTraveled float64
	ShotsFired       float64
	ShotsHit         float64
	ShotsTaken       float64
	OwnShotsTaken    float64
	WeaponsPickedUp  float64
}

// Buffer is a fixed-capacity ring of Entry values.
type Buffer struct {
	entries  []Entry
	capacity int
	next     int
	size     int
}

// NewBuffer creates a buffer holding up to capacity episode entries.
func NewBuffer(capacity int) *Buffer {
	return &Buffer{entries: make([]Entry, capacity), capacity: capacity}
}

// Append records a completed episode, overwriting the oldest entry once the
// buffer is full.
func (b *Buffer) Append(e Entry) {
	if e.EpisodeID == "" {
		e.EpisodeID = uuid.NewString()
	}
	b.entries[b.next] = e
	b.next = (b.next + 1) % b.capacity
	if b.size < b.capacity {
		b.size++
	}
}

// AggregateAndClear returns every entry currently buffered and empties the
// buffer, matching the log_buffer_aggregate_clear operation spec.md §6
// names (a host periodically drains accumulated stats for reporting).
func (b *Buffer) AggregateAndClear() []Entry {
	out := make([]Entry, 0, b.size)
	for i := 0; i < b.size; i++ {
		idx := (b.next - b.size + i + b.capacity) % b.capacity
		out = append(out, b.entries[idx])
	}
	b.next = 0
	b.size = 0
	return out
}

// Len returns the number of entries currently buffered.
func (b *Buffer) Len() int { return b.size }

// droneStatRow is one drone's line in a CSV export: Entry/DroneStats
// flattened, since gocsv can't marshal the nested per-drone slices Entry
// carries directly.
type droneStatRow struct {
	EpisodeID        string  `csv:"episode_id"`
	Length           int     `csv:"length"`
	Winner           int     `csv:"winner"`
	DroneIdx         int     `csv:"drone_idx"`
	Reward           float64 `csv:"reward"`
	DistanceTraveled float64 `csv:"distance_traveled"`
	ShotsFired       float64 `csv:"shots_fired"`
	ShotsHit         float64 `csv:"shots_hit"`
	ShotsTaken       float64 `csv:"shots_taken"`
	OwnShotsTaken    float64 `csv:"own_shots_taken"`
	WeaponsPickedUp  float64 `csv:"weapons_picked_up"`
}

// ExportCSV writes one row per drone per episode to w, for offline
// inspection of a benchmark run's aggregated stats.
func ExportCSV(entries []Entry, w io.Writer) error {
	rows := make([]*droneStatRow, 0, len(entries))
	for _, e := range entries {
		for i, s := range e.Stats {
			reward := 0.0
			if i < len(e.Reward) {
				reward = e.Reward[i]
			}
			rows = append(rows, &droneStatRow{
				EpisodeID:        e.EpisodeID,
				Length:           e.Length,
				Winner:           e.Winner,
				DroneIdx:         i,
				Reward:           reward,
				DistanceTraveled: s.DistanceTraveled,
				ShotsFired:       s.ShotsFired,
				ShotsHit:         s.ShotsHit,
				ShotsTaken:       s.ShotsTaken,
				OwnShotsTaken:    s.OwnShotsTaken,
				WeaponsPickedUp:  s.WeaponsPickedUp,
			})
		}
	}
	return gocsv.Marshal(rows, w)
}
</content>

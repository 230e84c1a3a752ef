// Package ingest implements the timeline ingestion contract: the data document
// handed to the chart engine, its JSON and YAML encodings, validation, and loading
// from files or HTTP sources.
package ingest

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Event is one mark on the timeline.
type Event struct {
	Group string  `json:"group" yaml:"group"` // Category, drives color and legend
	ID    string  `json:"id" yaml:"id"`       // Lane id, events with the same id share a lane
	Name  string  `json:"name" yaml:"name"`   // Label text shown on hover
	Link  string  `json:"link" yaml:"link"`   // Navigation target
	Time  float64 `json:"time" yaml:"time"`   // Start, unix seconds

	// EndTime is nil for point events, >= 0 for closed intervals and negative for
	// open-ended intervals that fade out towards the right edge.
	EndTime *float64 `json:"endTime,omitempty" yaml:"endTime,omitempty"`
}

// IsInterval reports whether the event spans a range rather than a point.
func (e Event) IsInterval() bool {
	return e.EndTime != nil
}

// IsOpenEnded reports whether the event is an ongoing interval.
func (e Event) IsOpenEnded() bool {
	return e.EndTime != nil && *e.EndTime < 0
}

// Start returns the event start as a UTC time.
func (e Event) Start() time.Time {
	return SecondsToTime(e.Time)
}

// Key returns a stable identity for the event built from its content.
// Events with identical content produce identical keys; callers that need
// uniqueness use Keys.
func (e Event) Key() string {
	end := "-"
	if e.EndTime != nil {
		end = strconv.FormatFloat(*e.EndTime, 'g', -1, 64)
	}
	return strings.Join([]string{
		e.Group,
		e.ID,
		strconv.FormatFloat(e.Time, 'g', -1, 64),
		end,
		e.Name,
	}, "|")
}

// Keys returns one unique key per event. Exact duplicates receive an occurrence
// suffix so every event keeps its own mark.
func Keys(events []Event) []string {
	seen := make(map[string]int, len(events))
	keys := make([]string, len(events))
	for i, e := range events {
		k := e.Key()
		n := seen[k]
		seen[k] = n + 1
		if n > 0 {
			k = fmt.Sprintf("%s#%d", k, n)
		}
		keys[i] = k
	}
	return keys
}

// SecondsToTime converts fractional unix seconds to a UTC time.
func SecondsToTime(sec float64) time.Time {
	whole, frac := math.Modf(sec)
	return time.Unix(int64(whole), int64(frac*1e9)).UTC()
}

// Float returns a pointer to v, for building events with an EndTime.
func Float(v float64) *float64 {
	return &v
}

// Data is the document produced by the external fetch collaborator.
type Data struct {
	TypeNames map[string]string `json:"type_names" yaml:"type_names"` // Category -> display label
	TypeOrder []string          `json:"type_order" yaml:"type_order"` // Legend and color ordering
	Events    []Event           `json:"events" yaml:"events"`
}

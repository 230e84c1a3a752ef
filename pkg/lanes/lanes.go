// Package lanes assigns every distinct event id its own horizontal lane.
//
// Ids are ranked by the earliest time at which they occur; the earliest id gets
// the lane nearest the baseline and later ids stack upwards, one lane height
// plus a one pixel gap apart. The ranking controls visual density only: all
// marks of an id land on its lane regardless of when they occur.
package lanes

import (
	"math"
	"sort"

	"timelinechart/pkg/ingest"
)

// Assignment is the output of Assign.
type Assignment struct {
	// Y maps an event id to the top coordinate of its lane.
	Y map[string]float64

	// Order lists ids from the baseline lane upwards.
	Order []string

	// MinY is the smallest (topmost) lane coordinate, or the baseline when
	// there are no events.
	MinY float64
}

// Lane returns the lane coordinate of id and whether the id is known.
func (a Assignment) Lane(id string) (float64, bool) {
	y, ok := a.Y[id]
	return y, ok
}

// Assign computes lanes for events. Lane i is placed at
// baseline - i*(laneHeight+1); ids with equal earliest times keep the order in
// which they first appear in events.
func Assign(events []ingest.Event, baseline, laneHeight float64) Assignment {
	earliest := make(map[string]float64, len(events))
	var order []string
	for _, e := range events {
		cur, seen := earliest[e.ID]
		if !seen {
			order = append(order, e.ID)
			earliest[e.ID] = e.Time
			continue
		}
		earliest[e.ID] = math.Min(cur, e.Time)
	}

	sort.SliceStable(order, func(i, j int) bool {
		return earliest[order[i]] < earliest[order[j]]
	})

	a := Assignment{
		Y:     make(map[string]float64, len(order)),
		Order: order,
		MinY:  baseline,
	}
	for i, id := range order {
		y := baseline - float64(i)*(laneHeight+1)
		a.Y[id] = y
		a.MinY = math.Min(a.MinY, y)
	}
	return a
}

package lanes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timelinechart/pkg/ingest"
)

func TestAssignOrdersByEarliestTime(t *testing.T) {
	events := []ingest.Event{
		{ID: "a", Group: "x", Time: 100},
		{ID: "b", Group: "x", Time: 50},
	}
	a := Assign(events, 300, 8)

	assert.Equal(t, []string{"b", "a"}, a.Order)
	assert.Equal(t, 300.0, a.Y["b"])
	assert.Equal(t, 291.0, a.Y["a"])
	assert.Less(t, a.Y["a"], a.Y["b"], "later ids stack above earlier ones")
	assert.Equal(t, 291.0, a.MinY)
}

func TestAssignUsesMinimumPerID(t *testing.T) {
	events := []ingest.Event{
		{ID: "a", Time: 500},
		{ID: "b", Time: 200},
		{ID: "a", Time: 10},
		{ID: "c", Time: 300},
	}
	a := Assign(events, 0, 4)

	assert.Equal(t, []string{"a", "b", "c"}, a.Order)
	assert.Equal(t, 0.0, a.Y["a"])
	assert.Equal(t, -5.0, a.Y["b"])
	assert.Equal(t, -10.0, a.Y["c"])
	assert.Equal(t, -10.0, a.MinY)
}

func TestAssignTiesKeepInputOrder(t *testing.T) {
	events := []ingest.Event{
		{ID: "z", Time: 7},
		{ID: "m", Time: 7},
		{ID: "a", Time: 7},
		{ID: "early", Time: 1},
	}
	a := Assign(events, 100, 8)
	assert.Equal(t, []string{"early", "z", "m", "a"}, a.Order)
}

func TestAssignDistinctMinimaNeverShareLane(t *testing.T) {
	var events []ingest.Event
	for i, id := range []string{"q", "w", "e", "r", "t", "y"} {
		events = append(events, ingest.Event{ID: id, Time: float64(100 - i*7)})
	}
	a := Assign(events, 300, 8)

	seen := map[float64]string{}
	for id, y := range a.Y {
		other, dup := seen[y]
		require.False(t, dup, "%s and %s share lane %v", id, other, y)
		seen[y] = id
	}
	for i := 1; i < len(a.Order); i++ {
		assert.Greater(t, a.Y[a.Order[i-1]], a.Y[a.Order[i]])
	}
}

func TestAssignEmpty(t *testing.T) {
	a := Assign(nil, 300, 8)
	assert.Empty(t, a.Order)
	assert.Equal(t, 300.0, a.MinY)
	_, ok := a.Lane("missing")
	assert.False(t, ok)
}

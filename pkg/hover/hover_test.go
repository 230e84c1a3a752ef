package hover

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timelinechart/pkg/scene"
	"timelinechart/pkg/schedule"
)

type fixture struct {
	clock   *schedule.Manual
	ctrl    *Controller
	a, b    *scene.Node
	visited []string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{clock: schedule.NewManual(time.Unix(0, 0))}
	root := scene.New("g")
	f.a = root.Append("rect").SetNum("x", 10).SetNum("y", 20).SetNum("stroke-width", 0.5)
	f.b = root.Append("rect").SetNum("x", 40).SetNum("y", 20).SetNum("stroke-width", 0.5)
	nav := NavigatorFunc(func(link string) { f.visited = append(f.visited, link) })
	f.ctrl = New(NewLabel(root), f.clock, nav, DefaultConfig(), zerolog.Nop())
	return f
}

func TestEnterShowsLabel(t *testing.T) {
	f := newFixture(t)
	f.ctrl.Enter(f.a, Target{Text: "Alpha", Link: "/a"})

	label := f.ctrl.Label()
	assert.Equal(t, "Alpha", label.Text)
	assert.Equal(t, 8.0, label.NumAttr("x"))
	assert.Equal(t, 18.0, label.NumAttr("y"))
	anchor, _ := label.Attr("text-anchor")
	assert.Equal(t, "end", anchor)
	assert.True(t, f.ctrl.Visible())
	assert.Equal(t, 1.0, f.a.NumAttr("stroke-width"))

	tr, ok := f.a.Transition()
	require.True(t, ok)
	assert.Equal(t, 100*time.Millisecond, tr.Duration)

	assert.True(t, f.ctrl.Click())
	assert.Equal(t, []string{"/a"}, f.visited)
}

func TestLeaveDismissesAfterDelay(t *testing.T) {
	f := newFixture(t)
	f.ctrl.Enter(f.a, Target{Text: "Alpha", Link: "/a"})
	f.ctrl.Leave(f.a)

	assert.Equal(t, 0.5, f.a.NumAttr("stroke-width"))
	assert.Equal(t, 1, f.ctrl.Pending())

	f.clock.Advance(2999 * time.Millisecond)
	assert.True(t, f.ctrl.Visible())

	f.clock.Advance(time.Millisecond)
	assert.False(t, f.ctrl.Visible())
	assert.Zero(t, f.ctrl.Pending())

	tr, ok := f.ctrl.Label().Transition()
	require.True(t, ok)
	assert.Equal(t, time.Second, tr.Duration)
	cursor, _ := f.ctrl.Label().Attr("cursor")
	assert.Equal(t, "default", cursor)

	assert.False(t, f.ctrl.Click(), "click is unbound after dismissal")
	assert.Empty(t, f.visited)
}

func TestReenterCancelsPendingDismissal(t *testing.T) {
	f := newFixture(t)
	f.ctrl.Enter(f.a, Target{Text: "A", Link: "/a"})
	f.ctrl.Leave(f.a) // t=0, due at 3000ms

	f.clock.Advance(time.Second)
	f.ctrl.Enter(f.b, Target{Text: "B", Link: "/b"}) // t=1000ms
	assert.Zero(t, f.ctrl.Pending())

	f.clock.Advance(2 * time.Second) // t=3000ms
	assert.True(t, f.ctrl.Visible())
	assert.Equal(t, "B", f.ctrl.Label().Text)

	f.clock.Advance(time.Hour)
	assert.True(t, f.ctrl.Visible(), "no spurious hide later")
	assert.Zero(t, f.clock.Pending())

	assert.True(t, f.ctrl.Click())
	assert.Equal(t, []string{"/b"}, f.visited)
}

func TestRapidLeavesOnlyLatestHides(t *testing.T) {
	f := newFixture(t)
	f.ctrl.Enter(f.a, Target{Text: "A"})
	first := f.ctrl.Leave(f.a)
	f.clock.Advance(500 * time.Millisecond)
	f.ctrl.Enter(f.b, Target{Text: "B"})
	second := f.ctrl.Leave(f.b)
	assert.Greater(t, second, first)

	f.clock.Advance(2600 * time.Millisecond) // first would be due here
	assert.True(t, f.ctrl.Visible())

	f.clock.Advance(400 * time.Millisecond)
	assert.False(t, f.ctrl.Visible())
	assert.Zero(t, f.ctrl.Pending())
}

func TestStaleCallbackIsNoop(t *testing.T) {
	f := newFixture(t)
	f.ctrl.Enter(f.a, Target{Text: "A"})

	s := &session{token: 42, canceled: true}
	f.ctrl.dismiss(s)
	assert.True(t, f.ctrl.Visible())

	// A session no longer in the table is stale too.
	f.ctrl.dismiss(&session{token: 7})
	assert.True(t, f.ctrl.Visible())
}

func TestSetFontScale(t *testing.T) {
	f := newFixture(t)
	f.ctrl.SetFontScale(16, 4, 0)
	assert.Equal(t, 4.0, f.ctrl.Label().NumAttr("font-size"))
	f.ctrl.SetFontScale(16, 0, 0)
	assert.Equal(t, 16.0, f.ctrl.Label().NumAttr("font-size"))
}

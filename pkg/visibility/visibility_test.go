package visibility

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func newController(categories []string, initial map[string]bool) *Controller {
	return New(categories, initial, zerolog.Nop())
}

func TestDefaults(t *testing.T) {
	c := newController([]string{"paper", "committee"}, map[string]bool{".type_committee": false})

	assert.True(t, c.Default("paper"))
	assert.False(t, c.Default("committee"))
	assert.True(t, c.IsVisible("paper"))
	assert.False(t, c.IsVisible("committee"))
	assert.True(t, c.AllDefault())
	assert.False(t, c.AllVisible())
	assert.Equal(t, []string{"committee"}, c.Hidden())
}

func TestResolveKey(t *testing.T) {
	categories := []string{"talk", "type_a", ".net", ".type_b"}
	tests := []struct {
		key  string
		want string
	}{
		{key: "talk", want: "talk"},
		{key: ".type_talk", want: "talk"},
		{key: "type_a", want: "type_a"},
		{key: ".type_type_a", want: "type_a"},
		{key: ".net", want: ".net"},
		{key: ".type_b", want: ".type_b"},
		{key: "type_talk", want: "type_talk"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ResolveKey(tt.key, categories), tt.key)
	}
	assert.Equal(t, "type_talk", Class("talk"))
}

func TestPrefixedCategoryNames(t *testing.T) {
	c := newController([]string{"type_a", ".net", "b"}, map[string]bool{".net": false})
	assert.False(t, c.IsVisible(".net"))
	assert.True(t, c.AllDefault())

	assert.Equal(t, ModeIsolateDefault, c.Click("type_a"))
	assert.Equal(t, map[string]bool{"type_a": true, ".net": false, "b": false}, c.Snapshot())

	assert.Equal(t, ModeToggle, c.Click(".net"))
	assert.True(t, c.IsVisible(".net"))

	// A selector and the exact key for the same category: the exact key wins.
	c.SetInitial(map[string]bool{"b": false, ".type_b": true})
	c.Reset()
	assert.False(t, c.IsVisible("b"))
}

func TestClickModes(t *testing.T) {
	tests := []struct {
		name    string
		initial map[string]bool
		clicks  []string
		modes   []Mode
		want    map[string]bool
	}{
		{
			name:   "isolate from all default",
			clicks: []string{"a"},
			modes:  []Mode{ModeIsolateDefault},
			want:   map[string]bool{"a": true, "b": false, "c": false},
		},
		{
			name:    "isolate inverse when clicked default is hidden",
			initial: map[string]bool{"c": false},
			clicks:  []string{"c"},
			modes:   []Mode{ModeIsolateDefault},
			want:    map[string]bool{"a": true, "b": true, "c": true},
		},
		{
			name:    "isolate from all visible",
			initial: map[string]bool{"c": false},
			clicks:  []string{"c", "b"},
			modes:   []Mode{ModeIsolateDefault, ModeIsolate},
			want:    map[string]bool{"a": false, "b": true, "c": false},
		},
		{
			name:   "toggle in mixed state",
			clicks: []string{"a", "b"},
			modes:  []Mode{ModeIsolateDefault, ModeToggle},
			want:   map[string]bool{"a": true, "b": true, "c": false},
		},
		{
			name:   "all hidden restores defaults",
			clicks: []string{"a", "a"},
			modes:  []Mode{ModeIsolateDefault, ModeToggle},
			want:   map[string]bool{"a": true, "b": true, "c": true},
		},
		{
			name:   "unknown category",
			clicks: []string{"zzz"},
			modes:  []Mode{ModeNone},
			want:   map[string]bool{"a": true, "b": true, "c": true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newController([]string{"a", "b", "c"}, tt.initial)
			for i, g := range tt.clicks {
				assert.Equal(t, tt.modes[i], c.Click(g), "click %d on %s", i, g)
			}
			assert.Equal(t, tt.want, c.Snapshot())
		})
	}
}

func TestClickEveryCategoryReturnsToDefault(t *testing.T) {
	c := newController([]string{"a", "b", "c"}, nil)
	for _, g := range c.Categories() {
		c.Click(g)
	}
	assert.True(t, c.AllDefault())
	assert.True(t, c.AllVisible())
}

func TestAllHiddenFallbackReturnsToDefault(t *testing.T) {
	initial := map[string]bool{"b": false}
	c := newController([]string{"a", "b", "c"}, initial)
	start := c.Snapshot()

	c.Click("a")
	assert.Equal(t, map[string]bool{"a": true, "b": false, "c": false}, c.Snapshot())

	// Hiding the last visible category trips the fallback.
	c.Click("a")
	assert.True(t, c.AllDefault())
	assert.Equal(t, start, c.Snapshot())
}

func TestSingleCategoryNeverHides(t *testing.T) {
	c := newController([]string{"x"}, nil)
	for i := 0; i < 4; i++ {
		c.Click("x")
		assert.True(t, c.IsVisible("x"))
	}
}

func TestSetCategoriesResets(t *testing.T) {
	c := newController([]string{"a", "b"}, nil)
	c.Click("a")
	assert.False(t, c.IsVisible("b"))

	c.SetCategories([]string{"a", "b", "b"})
	assert.Equal(t, []string{"a", "b"}, c.Categories())
	assert.True(t, c.AllVisible())
}

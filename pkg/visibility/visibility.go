// Package visibility implements the legend's per-category show/hide state.
//
// Every category has a configured default (visible unless overridden) and a
// current value. A legend click is resolved against the pre-click state of all
// categories in one of three modes; see Controller.Click.
package visibility

import (
	"strings"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

// Mode is the rule a legend click was resolved with.
type Mode int

const (
	// ModeNone means the click referenced no known category.
	ModeNone Mode = iota
	// ModeIsolateDefault: every category was at its default.
	ModeIsolateDefault
	// ModeIsolate: every category was visible.
	ModeIsolate
	// ModeToggle: mixed state, only the clicked category flips.
	ModeToggle
)

func (m Mode) String() string {
	switch m {
	case ModeIsolateDefault:
		return "isolate-default"
	case ModeIsolate:
		return "isolate"
	case ModeToggle:
		return "toggle"
	default:
		return "none"
	}
}

// ClassPrefix tags nodes that belong to a category.
const ClassPrefix = "type_"

// Class returns the node class for category g.
func Class(g string) string {
	return ClassPrefix + g
}

// ResolveKey maps an initial override key to a category. A key naming one of
// categories exactly is that category; otherwise a ".type_<g>" selector names
// g. Any other key is returned unchanged.
func ResolveKey(key string, categories []string) string {
	if lo.Contains(categories, key) {
		return key
	}
	if g, ok := strings.CutPrefix(key, "."+ClassPrefix); ok {
		return g
	}
	return key
}

// Controller holds the initial and current visibility maps.
type Controller struct {
	categories []string
	overrides  map[string]bool // as configured, keys unresolved
	initial    map[string]bool
	current    map[string]bool
	logger     zerolog.Logger
}

// New returns a controller over categories with the given initial overrides.
// Override keys are resolved with ResolveKey.
func New(categories []string, initial map[string]bool, logger zerolog.Logger) *Controller {
	c := &Controller{logger: logger}
	c.SetInitial(initial)
	c.SetCategories(categories)
	return c
}

// SetCategories replaces the category set and resets current state to the
// initial overrides.
func (c *Controller) SetCategories(categories []string) {
	c.categories = lo.Uniq(categories)
	c.resolve()
	c.Reset()
}

// SetInitial replaces the initial overrides. Current state is left alone until
// the next Reset.
func (c *Controller) SetInitial(initial map[string]bool) {
	c.overrides = make(map[string]bool, len(initial))
	for k, v := range initial {
		c.overrides[k] = v
	}
	c.resolve()
}

// resolve rebuilds the initial map from the overrides. An exact category key
// takes precedence over a selector naming the same category.
func (c *Controller) resolve() {
	c.initial = make(map[string]bool, len(c.overrides))
	for k, v := range c.overrides {
		if g := ResolveKey(k, c.categories); g == k || !lo.HasKey(c.overrides, g) {
			c.initial[g] = v
		}
	}
}

// Reset copies the initial overrides into the current state.
func (c *Controller) Reset() {
	c.current = make(map[string]bool, len(c.initial))
	for k, v := range c.initial {
		c.current[k] = v
	}
}

// Categories returns the categories the click rules range over.
func (c *Controller) Categories() []string {
	return append([]string(nil), c.categories...)
}

// IsVisible reports the current visibility of g; unset categories are visible.
func (c *Controller) IsVisible(g string) bool {
	v, ok := c.current[g]
	return !ok || v
}

// Default returns the configured default of g; categories without an override
// default to visible.
func (c *Controller) Default(g string) bool {
	v, ok := c.initial[g]
	return !ok || v
}

// IsDefault reports whether g is at its configured default. A category without
// an override counts as default only while it is visible.
func (c *Controller) IsDefault(g string) bool {
	v, ok := c.initial[g]
	if !ok {
		return c.IsVisible(g)
	}
	return v == c.current[g]
}

// AllDefault reports whether every category is at its default.
func (c *Controller) AllDefault() bool {
	return lo.EveryBy(c.categories, c.IsDefault)
}

// AllVisible reports whether every category is visible.
func (c *Controller) AllVisible() bool {
	return lo.EveryBy(c.categories, c.IsVisible)
}

// Hidden returns the hidden categories in category order.
func (c *Controller) Hidden() []string {
	return lo.Reject(c.categories, func(g string, _ int) bool { return c.IsVisible(g) })
}

// Snapshot returns the current visibility of every category.
func (c *Controller) Snapshot() map[string]bool {
	return lo.SliceToMap(c.categories, func(g string) (string, bool) {
		return g, c.IsVisible(g)
	})
}

// Click applies a legend click on g and returns the mode it was resolved with.
//
// All modes are decided against the pre-click state:
//   - all at default: g becomes visible, every other category takes the
//     negation of g's default;
//   - all visible: g is isolated;
//   - otherwise g alone is toggled.
//
// If the result hides every category, all categories return to their defaults.
func (c *Controller) Click(g string) Mode {
	if !lo.Contains(c.categories, g) {
		c.logger.Debug().Str("category", g).Msg("Ignoring click on unknown category")
		return ModeNone
	}

	var mode Mode
	switch {
	case c.AllDefault():
		mode = ModeIsolateDefault
		others := !c.Default(g)
		for _, cur := range c.categories {
			c.current[cur] = cur == g || others
		}
	case c.AllVisible():
		mode = ModeIsolate
		for _, cur := range c.categories {
			c.current[cur] = cur == g
		}
	default:
		mode = ModeToggle
		c.current[g] = !c.IsVisible(g)
	}

	if len(c.categories) > 0 && len(c.Hidden()) == len(c.categories) {
		c.logger.Debug().Msg("Every category hidden, restoring defaults")
		for _, cur := range c.categories {
			c.current[cur] = c.Default(cur)
		}
	}

	c.logger.Debug().
		Str("category", g).
		Stringer("mode", mode).
		Strs("hidden", c.Hidden()).
		Msg("Legend click")
	return mode
}

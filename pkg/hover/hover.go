// Package hover drives the chart's single shared tooltip label.
//
// Entering a mark shows the label next to it at once. Leaving a mark opens a
// dismissal session that hides the label after a delay, unless another mark is
// entered first: every enter cancels all open sessions, so a stale dismissal
// can never hide a label that now belongs to a different mark.
package hover

import (
	"time"

	"github.com/rs/zerolog"

	"timelinechart/pkg/scene"
	"timelinechart/pkg/schedule"
)

// Defaults.
const (
	DefaultDismissDelay        = 3 * time.Second
	DefaultEmphasisDuration    = 100 * time.Millisecond
	DefaultFadeDuration        = 1000 * time.Millisecond
	DefaultStrokeWidth         = 0.5
	DefaultEmphasisStrokeWidth = 1.0
	ease                       = "cubic-in-out"
)

// Navigator opens event links.
type Navigator interface {
	Navigate(link string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(link string)

// Navigate calls f(link).
func (f NavigatorFunc) Navigate(link string) { f(link) }

// Config holds label timing and stroke settings.
type Config struct {
	DismissDelay        time.Duration
	EmphasisDuration    time.Duration
	FadeDuration        time.Duration
	StrokeWidth         float64
	EmphasisStrokeWidth float64
}

// DefaultConfig returns the standard label behaviour.
func DefaultConfig() Config {
	return Config{
		DismissDelay:        DefaultDismissDelay,
		EmphasisDuration:    DefaultEmphasisDuration,
		FadeDuration:        DefaultFadeDuration,
		StrokeWidth:         DefaultStrokeWidth,
		EmphasisStrokeWidth: DefaultEmphasisStrokeWidth,
	}
}

// Target is what a mark shows in the label.
type Target struct {
	Text string
	Link string
}

type session struct {
	token    uint64
	timer    schedule.Timer
	canceled bool
}

// Controller owns the label node and the open dismissal sessions.
type Controller struct {
	label    *scene.Node
	sched    schedule.Scheduler
	nav      Navigator
	cfg      Config
	sessions map[uint64]*session
	next     uint64
	logger   zerolog.Logger
}

// NewLabel appends the label node to parent.
func NewLabel(parent *scene.Node) *scene.Node {
	return parent.Append("text").
		AddClass("label").
		SetNum("opacity", 1).
		SetAttr("cursor", "default")
}

// New creates a controller for label. nav may be nil.
func New(label *scene.Node, sched schedule.Scheduler, nav Navigator, cfg Config, logger zerolog.Logger) *Controller {
	return &Controller{
		label:    label,
		sched:    sched,
		nav:      nav,
		cfg:      cfg,
		sessions: make(map[uint64]*session),
		logger:   logger,
	}
}

// Label returns the label node.
func (c *Controller) Label() *scene.Node {
	return c.label
}

// Enter emphasizes mark and moves the label to it, cancelling every pending
// dismissal.
func (c *Controller) Enter(mark *scene.Node, target Target) {
	mark.SetNum("stroke-width", c.cfg.EmphasisStrokeWidth).Animate(c.cfg.EmphasisDuration, ease)

	c.label.
		SetNum("x", mark.NumAttr("x")-2).
		SetNum("y", mark.NumAttr("y")-2).
		SetAttr("text-anchor", "end").
		SetAttr("alignment-baseline", "bottom").
		SetAttr("cursor", "pointer").
		SetText(target.Text)
	c.label.On("click", func() { c.navigate(target.Link) })
	c.label.SetNum("opacity", 1).Animate(c.cfg.EmphasisDuration, ease)

	canceled := c.CancelAll()
	c.logger.Debug().
		Str("text", target.Text).
		Int("canceled", canceled).
		Msg("Hover enter")
}

// Leave reverts mark's emphasis and opens a dismissal session. It returns the
// session token.
func (c *Controller) Leave(mark *scene.Node) uint64 {
	mark.SetNum("stroke-width", c.cfg.StrokeWidth).Animate(c.cfg.EmphasisDuration, ease)

	s := &session{token: c.next}
	c.next++
	c.sessions[s.token] = s
	s.timer = c.sched.AfterFunc(c.cfg.DismissDelay, func() { c.dismiss(s) })

	c.logger.Debug().Uint64("token", s.token).Msg("Hover leave, dismissal scheduled")
	return s.token
}

// CancelAll cancels every open session and returns how many there were.
func (c *Controller) CancelAll() int {
	n := len(c.sessions)
	for token, s := range c.sessions {
		s.canceled = true
		if s.timer != nil {
			s.timer.Stop()
		}
		delete(c.sessions, token)
	}
	return n
}

// Pending returns the number of open sessions.
func (c *Controller) Pending() int {
	return len(c.sessions)
}

// Visible reports whether the label is currently shown.
func (c *Controller) Visible() bool {
	v, _ := c.label.Attr("opacity")
	return v != "0"
}

// Click fires the label's click binding and reports whether one was bound.
func (c *Controller) Click() bool {
	return c.label.Fire("click")
}

// SetFontScale keeps the label at a constant on-screen size under zoom.
func (c *Controller) SetFontScale(baseSize, scale float64, d time.Duration) {
	if scale <= 0 {
		scale = 1
	}
	c.label.SetNum("font-size", baseSize/scale).Animate(d, ease)
}

func (c *Controller) dismiss(s *session) {
	if s.canceled || c.sessions[s.token] != s {
		c.logger.Debug().Uint64("token", s.token).Msg("Skipping canceled dismissal")
		return
	}
	delete(c.sessions, s.token)

	c.label.On("click", nil)
	c.label.SetAttr("cursor", "default")
	c.label.SetNum("opacity", 0).Animate(c.cfg.FadeDuration, ease)
	c.logger.Debug().Uint64("token", s.token).Msg("Hover label dismissed")
}

func (c *Controller) navigate(link string) {
	if c.nav == nil || link == "" {
		return
	}
	c.nav.Navigate(link)
}

// Package chart is the timeline engine.
//
// A Chart lays events out in lanes along a time axis, colors them by category,
// and keeps the scene in sync with its inputs through keyed reconciliation.
// It owns the pan/zoom transform, the legend visibility state, and the hover
// label. All methods must be called from one goroutine; timers run through the
// configured scheduler.
package chart

import (
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"timelinechart/pkg/hover"
	"timelinechart/pkg/ingest"
	"timelinechart/pkg/join"
	"timelinechart/pkg/lanes"
	"timelinechart/pkg/scene"
	"timelinechart/pkg/schedule"
	"timelinechart/pkg/timescale"
	"timelinechart/pkg/viewport"
	"timelinechart/pkg/visibility"
)

// Params are the construction parameters of a chart. Zero sizes fall back to
// the configured layout.
type Params struct {
	Content    *scene.Node // Container the svg element is appended to
	Legend     *scene.Node // Container legend entries are appended to
	Width      float64
	Height     float64
	Radius     float64
	TextHeight float64
}

// Option configures a Chart.
type Option func(*Chart)

// WithLogger sets the chart logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Chart) {
		c.logger = logger
	}
}

// WithScheduler sets the scheduler used for hover dismissal.
func WithScheduler(s schedule.Scheduler) Option {
	return func(c *Chart) {
		c.sched = s
	}
}

// WithNavigator sets the handler for mark and label clicks.
func WithNavigator(nav hover.Navigator) Option {
	return func(c *Chart) {
		c.nav = nav
	}
}

// markDatum is the unit of the mark join.
type markDatum struct {
	key   string
	event ingest.Event
}

type gradient struct {
	id    string
	color string
}

// Chart is the timeline engine state.
type Chart struct {
	cfg    Config
	params Params
	logger zerolog.Logger
	sched  schedule.Scheduler
	nav    hover.Navigator

	// inputs
	typeNames map[string]string
	typeOrder []string
	events    []ingest.Event
	initial   map[string]bool

	// scene
	svg    *scene.Node
	defs   *scene.Node
	axisG  *scene.Node
	inner  *scene.Node
	base   *scene.Node
	hosts  []*scene.Node
	marks  *join.Join[string, markDatum, *scene.Node]
	grads  *join.Join[string, gradient, *scene.Node]
	legend *join.Join[string, string, *scene.Node]
	ticks  *join.Join[int64, timescale.Tick, *scene.Node]

	// derived state, rebuilt by Update
	lanes      lanes.Assignment
	colors     *palette
	scale      *timescale.Scale
	visible    *timescale.Scale
	categories []string
	gradients  map[string]string
	byKey      map[string]ingest.Event
	hovered    string

	view  *viewport.Controller
	vis   *visibility.Controller
	hover *hover.Controller
}

// New builds an empty chart inside p.Content and p.Legend. Nil containers are
// replaced with detached div nodes.
func New(p Params, cfg Config, opts ...Option) *Chart {
	if p.Content == nil {
		p.Content = scene.New("div")
	}
	if p.Legend == nil {
		p.Legend = scene.New("div")
	}
	p.Width = lo.Ternary(p.Width > 0, p.Width, cfg.Layout.Width)
	p.Height = lo.Ternary(p.Height > 0, p.Height, cfg.Layout.Height)
	p.Radius = lo.Ternary(p.Radius > 0, p.Radius, cfg.Layout.Radius)
	p.TextHeight = lo.Ternary(p.TextHeight > 0, p.TextHeight, cfg.Layout.TextHeight)

	c := &Chart{
		cfg:       cfg,
		params:    p,
		logger:    zerolog.Nop(),
		typeNames: map[string]string{},
		initial:   map[string]bool{},
		gradients: map[string]string{},
		byKey:     map[string]ingest.Event{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.sched == nil {
		c.sched = schedule.NewManual(time.Unix(0, 0))
	}
	c.SetInitialVisibility(cfg.Visibility.Initial)

	c.svg = p.Content.Append("svg").
		SetAttr("xmlns", scene.SVGNamespace).
		SetNum("width", p.Width).
		SetNum("height", p.Height+p.TextHeight).
		SetStyle("border", cfg.Style.Border).
		SetStyle("background", cfg.Style.Background).
		SetStyle("font-family", cfg.Style.FontFamily)
	c.defs = c.svg.Append("defs")
	c.axisG = c.svg.Append("g").AddClass("x", "axis")
	c.inner = c.svg.Append("g").AddClass("inner")
	c.base = c.inner.Append("g").AddClass("base")

	c.hover = hover.New(hover.NewLabel(c.base), c.sched, c.nav, hover.Config{
		DismissDelay:        cfg.Hover.DismissDelay,
		EmphasisDuration:    cfg.Animation.Emphasis,
		FadeDuration:        cfg.Animation.Fade,
		StrokeWidth:         cfg.Hover.StrokeWidth,
		EmphasisStrokeWidth: cfg.Hover.EmphasisStrokeWidth,
	}, c.logger.With().Str("component", "hover").Logger())

	c.view = viewport.NewController(p.Width, p.Height,
		viewport.WithScaleExtent(cfg.Zoom.ScaleMin, cfg.Zoom.ScaleMax),
		viewport.WithWheelSensitivity(cfg.Zoom.WheelSensitivity),
		viewport.WithTransitionDuration(cfg.Animation.Transition),
		viewport.WithLogger(c.logger.With().Str("component", "viewport").Logger()),
		viewport.WithListener(c.applyTransform),
	)
	c.vis = visibility.New(nil, c.initial, c.logger.With().Str("component", "visibility").Logger())

	c.marks = join.New(join.Hooks[string, markDatum, *scene.Node]{
		Key:     func(d markDatum) string { return d.key },
		Create:  c.createMark,
		Update:  c.updateMark,
		Destroy: func(_ string, n *scene.Node) { n.Remove() },
	})
	c.grads = join.New(join.Hooks[string, gradient, *scene.Node]{
		Key:     func(g gradient) string { return g.id },
		Create:  c.createGradient,
		Update:  updateGradient,
		Destroy: func(_ string, n *scene.Node) { n.Remove() },
	})
	c.legend = join.New(join.Hooks[string, string, *scene.Node]{
		Key:     func(g string) string { return g },
		Create:  c.createLegendEntry,
		Update:  c.updateLegendEntry,
		Destroy: func(_ string, n *scene.Node) { n.Remove() },
	})
	c.ticks = join.New(join.Hooks[int64, timescale.Tick, *scene.Node]{
		Key:     func(t timescale.Tick) int64 { return t.Time.UnixMilli() },
		Create:  c.createTick,
		Update:  c.updateTick,
		Destroy: func(_ int64, n *scene.Node) { n.Remove() },
	})

	c.scale = timescale.FromSeconds(nil, 0, p.Width)
	c.visible = c.scale.Copy()
	return c
}

// SetTypeNames replaces the category display labels. A nil map is ignored.
func (c *Chart) SetTypeNames(names map[string]string) {
	if names != nil {
		c.typeNames = names
	}
}

// SetTypeOrder replaces the category order. A nil slice is ignored.
func (c *Chart) SetTypeOrder(order []string) {
	if order != nil {
		c.typeOrder = order
	}
}

// SetEvents replaces the event list. A nil slice is ignored.
func (c *Chart) SetEvents(events []ingest.Event) {
	if events != nil {
		c.events = events
	}
}

// SetInitialVisibility replaces the per-category visibility defaults. Keys may
// be categories or ".type_<category>" selectors, resolved against the
// categories on the next Update. A nil map is ignored.
func (c *Chart) SetInitialVisibility(initial map[string]bool) {
	if initial == nil {
		return
	}
	c.initial = make(map[string]bool, len(initial))
	for k, v := range initial {
		c.initial[k] = v
	}
}

// SetData applies every field of an ingestion document.
func (c *Chart) SetData(d *ingest.Data) {
	c.SetTypeNames(d.TypeNames)
	c.SetTypeOrder(d.TypeOrder)
	c.SetEvents(d.Events)
}

// AttachHost registers an external tree whose "type_<category>" and
// "group_header" nodes follow the legend state.
func (c *Chart) AttachHost(root *scene.Node) {
	if root != nil && !lo.Contains(c.hosts, root) {
		c.hosts = append(c.hosts, root)
	}
}

// Update re-renders the chart from the current inputs: lanes, colors,
// visibility, legend, scale, axis, marks, and gradients, then fits the content
// into view without animation. Calling it twice with unchanged inputs produces
// the same scene.
func (c *Chart) Update() {
	c.lanes = lanes.Assign(c.events, c.params.Height, c.params.Radius)

	groups := lo.Uniq(lo.Map(c.events, func(e ingest.Event, _ int) string { return e.Group }))
	c.categories = legendCategories(c.typeOrder, groups)
	c.colors = newPalette(c.cfg.Marks.Palette, c.categories)

	c.vis.SetInitial(c.initial)
	c.vis.SetCategories(groups)
	c.legend.Apply(c.categories)
	c.applyVisibility()

	secs := lo.Map(c.events, func(e ingest.Event, _ int) float64 { return e.Time })
	c.scale = timescale.FromSeconds(secs, 0, c.params.Width).NiceCount(c.cfg.Axis.TickCount)
	c.visible = c.scale.Copy()
	c.axisG.SetAttr("transform", "translate(0,"+scene.Num(c.params.Height)+")")
	c.renderAxis()

	keys := ingest.Keys(c.events)
	data := make([]markDatum, len(c.events))
	for i, e := range c.events {
		data[i] = markDatum{key: keys[i], event: e}
	}
	c.gradients = map[string]string{fadeStroke: "black"}
	c.byKey = make(map[string]ingest.Event, len(data))
	c.hovered = ""
	cs := c.marks.Apply(data)
	c.applyMarkOpacity()
	c.base.AppendNode(c.hover.Label())

	c.applyGradients()

	c.logger.Debug().
		Int("events", len(c.events)).
		Int("lanes", len(c.lanes.Order)).
		Int("categories", len(c.categories)).
		Int("added", len(cs.Added)).
		Int("removed", len(cs.Removed)).
		Bool("marks_changed", cs.HasChanges()).
		Bool("empty", !c.scale.Valid()).
		Msg("Chart updated")

	c.showAll(false)
}

// contentRect is the area fitted into view by showAll.
func (c *Chart) contentRect() viewport.Rect {
	top := min(0, c.lanes.MinY)
	return viewport.Rect{X: 0, Y: top, Width: c.params.Width, Height: c.params.Height - top}
}

func (c *Chart) showAll(smooth bool) viewport.Transform {
	return c.view.FitRectangle(c.contentRect(), c.cfg.Layout.FitMargin, true, smooth)
}

// applyTransform re-renders everything that depends on the transform.
func (c *Chart) applyTransform(a viewport.Animation) {
	t := a.To
	d := a.Transition.Duration
	c.inner.SetAttr("transform", t.String()).Animate(d, a.Transition.EaseName)
	c.visible.SetRange(t.Translate[0], t.Translate[0]+c.params.Width*t.Scale)
	c.renderAxis()
	c.axisG.Animate(d, a.Transition.EaseName)
	c.hover.SetFontScale(c.cfg.Hover.FontSize, t.Scale, d)
}

// Transform returns the current viewport transform.
func (c *Chart) Transform() viewport.Transform {
	return c.view.Transform()
}

// Lanes returns the lane assignment of the last Update.
func (c *Chart) Lanes() lanes.Assignment {
	return c.lanes
}

// Scale returns the layout time scale of the last Update.
func (c *Chart) Scale() *timescale.Scale {
	return c.scale
}

// VisibleScale returns the time scale as currently shown on screen.
func (c *Chart) VisibleScale() *timescale.Scale {
	return c.visible
}

// Categories returns the legend categories in color order.
func (c *Chart) Categories() []string {
	return append([]string(nil), c.categories...)
}

// Color returns the color assigned to category g.
func (c *Chart) Color(g string) string {
	if c.colors == nil {
		return c.cfg.Marks.Palette[0]
	}
	return c.colors.Color(g)
}

// IsVisible reports the legend state of category g.
func (c *Chart) IsVisible(g string) bool {
	return c.vis.IsVisible(g)
}

// Visibility returns the current visibility of every event category.
func (c *Chart) Visibility() map[string]bool {
	return c.vis.Snapshot()
}

// Hover exposes the label controller.
func (c *Chart) Hover() *hover.Controller {
	return c.hover
}

// SVG returns the svg element.
func (c *Chart) SVG() *scene.Node {
	return c.svg
}

// LegendNode returns the legend container.
func (c *Chart) LegendNode() *scene.Node {
	return c.params.Legend
}

// Mark returns the node bound to an event key.
func (c *Chart) Mark(key string) (*scene.Node, bool) {
	return c.marks.Get(key)
}

// MarkKeys returns the bound event keys in data order.
func (c *Chart) MarkKeys() []string {
	return c.marks.Keys()
}

// Gradients returns the ids of the gradient definitions.
func (c *Chart) Gradients() []string {
	return c.grads.Keys()
}

// WriteSVG writes the chart as a standalone SVG document.
func (c *Chart) WriteSVG(w io.Writer) error {
	return scene.WriteDocument(w, c.svg)
}

// WriteLegend writes the legend as an HTML fragment.
func (c *Chart) WriteLegend(w io.Writer) error {
	_, err := io.WriteString(w, scene.Render(c.params.Legend, scene.HTML))
	return err
}

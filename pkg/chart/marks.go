package chart

import (
	"fmt"
	"sort"
	"strings"

	"timelinechart/pkg/ingest"
	"timelinechart/pkg/scene"
)

const (
	fadeStroke    = "fade-stroke"
	fadePrefix    = "fade_"
	secondsPerDay = 24 * 60 * 60
)

func (c *Chart) createMark(d markDatum) *scene.Node {
	n := c.base.Append("rect").AddClass("event")
	key := d.key
	n.On("mouseover", func() { c.PointerEnter(key) })
	n.On("mouseout", func() { c.PointerLeave(key) })
	n.On("click", func() { c.ClickMark(key) })
	return n
}

// updateMark recomputes every attribute of a mark.
func (c *Chart) updateMark(d markDatum, n *scene.Node) {
	e := d.event
	n.Data = d.key
	c.byKey[d.key] = e
	x := c.scale.XSeconds(e.Time)
	y, _ := c.lanes.Lane(e.ID)

	n.SetNum("x", x).
		SetNum("y", y).
		SetNum("width", c.markWidth(e, x)).
		SetNum("height", c.params.Radius).
		SetAttr("fill", c.markFill(e)).
		SetAttr("stroke", c.markStroke(e)).
		SetNum("stroke-width", c.cfg.Hover.StrokeWidth).
		SetAttr("data-group", e.Group).
		SetStyle("cursor", "pointer")
	n.Animate(0, "")
}

// markWidth is the radius for point events, the padded span for closed
// intervals, and the distance to the canvas edge for open-ended intervals.
func (c *Chart) markWidth(e ingest.Event, x float64) float64 {
	switch {
	case !e.IsInterval():
		return c.params.Radius
	case e.IsOpenEnded():
		return c.params.Width - x
	default:
		pad := float64(c.cfg.Marks.IntervalPaddingDays * secondsPerDay)
		return c.scale.XSeconds(*e.EndTime+pad) - x
	}
}

// markFill registers a fade gradient for open-ended intervals, one per
// category.
func (c *Chart) markFill(e ingest.Event) string {
	color := c.colors.Color(e.Group)
	if !e.IsOpenEnded() {
		return color
	}
	id := gradientID(e.Group)
	if _, ok := c.gradients[id]; !ok {
		c.gradients[id] = color
	}
	return "url(#" + id + ")"
}

// gradientID returns the fade gradient id of category g. Characters other than
// ASCII letters, digits and '-' are hex escaped after '_', so every category
// gets a distinct id that is safe inside url(#...).
func gradientID(g string) string {
	var b strings.Builder
	b.WriteString(fadePrefix)
	for _, c := range []byte(g) {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-':
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, "_%02x", c)
		}
	}
	return b.String()
}

func (c *Chart) markStroke(e ingest.Event) string {
	if e.IsOpenEnded() {
		return "url(#" + fadeStroke + ")"
	}
	return c.cfg.Marks.Stroke
}

// applyMarkOpacity dims marks of hidden categories. Marks stay in place.
func (c *Chart) applyMarkOpacity() {
	for _, n := range c.marks.Nodes() {
		g, _ := n.Attr("data-group")
		if c.vis.IsVisible(g) {
			n.SetStyle("opacity", "")
		} else {
			n.SetStyle("opacity", scene.Num(c.cfg.Marks.HiddenOpacity))
		}
	}
}

// applyGradients reconciles the gradient definitions registered by the last
// mark pass. The shared stroke gradient comes first.
func (c *Chart) applyGradients() {
	ids := make([]string, 0, len(c.gradients))
	for id := range c.gradients {
		if id != fadeStroke {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	list := []gradient{{id: fadeStroke, color: c.gradients[fadeStroke]}}
	for _, id := range ids {
		list = append(list, gradient{id: id, color: c.gradients[id]})
	}
	c.grads.Apply(list)
}

func (c *Chart) createGradient(g gradient) *scene.Node {
	n := c.defs.Append("linearGradient")
	n.Append("stop").SetNum("offset", 0)
	n.Append("stop").SetNum("offset", 1).SetAttr("stop-color", "white")
	return n
}

func updateGradient(g gradient, n *scene.Node) {
	n.ID = g.id
	n.Children[0].SetAttr("stop-color", g.color)
}

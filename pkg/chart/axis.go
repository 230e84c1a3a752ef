package chart

import (
	"timelinechart/pkg/scene"
	"timelinechart/pkg/timescale"
)

// tickPadding separates tick labels from the axis line.
const tickPadding = 3

func (c *Chart) tickFormat() timescale.TickFormat {
	if c.cfg.Axis.Format == "auto" {
		return timescale.DefaultFormat
	}
	return timescale.YearFormat
}

// renderAxis redraws the axis from the visible scale. Ticks cover the part of
// the time domain currently on screen; grid lines span the lane area.
func (c *Chart) renderAxis() {
	var ticks []timescale.Tick
	if c.visible.Valid() {
		ticks = c.visible.TicksBetween(0, c.params.Width, c.cfg.Axis.TickCount)
	}
	c.ticks.Apply(ticks)
	for _, n := range c.ticks.Nodes() {
		c.axisG.AppendNode(n)
	}

	r0, r1 := c.visible.Range()
	h := scene.Num(-c.params.Height)
	domain := c.axisG.ByClass("domain")
	var path *scene.Node
	if len(domain) == 0 {
		path = c.axisG.Append("path").AddClass("domain").SetAttr("fill", "none").SetAttr("stroke", "black")
	} else {
		path = domain[0]
	}
	// Outer ticks share the inner tick size, so the domain path spans the lanes.
	path.SetAttr("d", "M"+scene.Num(r0)+","+h+"V0H"+scene.Num(r1)+"V"+h)
	c.axisG.AppendNode(path)
}

func (c *Chart) createTick(t timescale.Tick) *scene.Node {
	n := c.axisG.Append("g").AddClass("tick")
	n.Append("line").SetAttr("stroke", "black").SetAttr("stroke-opacity", "0.2")
	n.Append("text").
		SetAttr("text-anchor", "middle").
		SetAttr("dy", ".71em").
		SetNum("y", tickPadding)
	return n
}

func (c *Chart) updateTick(t timescale.Tick, n *scene.Node) {
	n.Data = t.Time
	n.SetAttr("transform", "translate("+scene.Num(t.X)+",0)")
	n.Children[0].SetNum("x2", 0).SetNum("y2", -c.params.Height)
	n.Children[1].SetText(c.tickFormat()(t))
}

// TickLabels returns the labels of the rendered axis ticks, left to right.
func (c *Chart) TickLabels() []string {
	out := make([]string, 0, c.ticks.Len())
	for _, n := range c.ticks.Nodes() {
		out = append(out, n.Children[1].Text)
	}
	return out
}

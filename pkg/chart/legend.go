package chart

import (
	"timelinechart/pkg/scene"
	"timelinechart/pkg/visibility"
)

// unknownLabel is shown for categories without a display name.
const unknownLabel = "???"

// Host page classes that follow the legend state.
const (
	groupHeaderClass = "group_header"
	memberPrefix     = "mg_"
)

func (c *Chart) createLegendEntry(g string) *scene.Node {
	entry := c.params.Legend.Append("div").AddClass("legend-entry")
	entry.Append("span").AddClass("legend-color")
	entry.Append("span").SetText(" ").SetStyle("vertical-align", "middle")
	entry.Append("span").AddClass("legend-text")
	entry.On("click", func() { c.ClickLegend(g) })
	return entry
}

func (c *Chart) updateLegendEntry(g string, entry *scene.Node) {
	entry.Data = g
	entry.SetAttr("data-group", g)
	entry.SetStyle("cursor", "pointer")

	text := entry.Children[2]
	text.SetText(c.CategoryLabel(g)).SetStyle("vertical-align", "middle")

	entry.Children[0].
		SetStyle("width", "1em").
		SetStyle("height", "1em").
		SetStyle("border", "solid 1px black").
		SetStyle("background-color", c.colors.Color(g)).
		SetStyle("display", "inline-block").
		SetStyle("vertical-align", "middle")
}

// CategoryLabel returns the display name of category g.
func (c *Chart) CategoryLabel(g string) string {
	if name, ok := c.typeNames[g]; ok && name != "" {
		return name
	}
	return unknownLabel
}

// applyVisibility pushes the legend state to the legend entries, every node
// tagged with a category class, the event marks, and host group headers.
func (c *Chart) applyVisibility() {
	hidden := scene.Num(c.cfg.Marks.HiddenOpacity)
	opacity := func(visible bool) string {
		if visible {
			return ""
		}
		return hidden
	}

	for _, entry := range c.legend.Nodes() {
		g, _ := entry.Data.(string)
		o := opacity(c.vis.IsVisible(g))
		entry.Children[0].SetStyle("opacity", o)
		entry.Children[2].SetStyle("opacity", o)
	}

	for _, g := range c.vis.Categories() {
		display := ""
		if !c.vis.IsVisible(g) {
			display = "none"
		}
		for _, n := range c.selectAll(visibility.Class(g)) {
			n.SetStyle("display", display)
		}
	}

	c.applyMarkOpacity()
	c.applyGroupHeaders()
}

// applyGroupHeaders hides a host group header when every member node of its
// section is hidden. A header without members is hidden as well.
func (c *Chart) applyGroupHeaders() {
	for _, header := range c.selectAll(groupHeaderClass) {
		allHidden := true
		for _, m := range c.selectAll(memberPrefix + header.ID) {
			if !m.Hidden() {
				allHidden = false
				break
			}
		}
		if allHidden {
			header.SetStyle("display", "none")
		} else {
			header.SetStyle("display", "")
		}
	}
}

// selectAll finds nodes carrying class in the chart, the legend, and every
// attached host tree.
func (c *Chart) selectAll(class string) []*scene.Node {
	roots := append([]*scene.Node{c.params.Content, c.params.Legend}, c.hosts...)
	var out []*scene.Node
	seen := map[*scene.Node]bool{}
	for _, r := range roots {
		for _, n := range r.ByClass(class) {
			if !seen[n] {
				seen[n] = true
				out = append(out, n)
			}
		}
	}
	return out
}

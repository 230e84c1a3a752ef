package chart

import (
	"timelinechart/pkg/hover"
	"timelinechart/pkg/scene"
	"timelinechart/pkg/viewport"
	"timelinechart/pkg/visibility"
)

// Pan moves the canvas by a drag delta in screen pixels.
func (c *Chart) Pan(dx, dy float64) viewport.Transform {
	return c.view.Pan(dx, dy)
}

// Wheel zooms around the screen point (x, y). Positive deltaY zooms out.
func (c *Chart) Wheel(x, y, deltaY float64) viewport.Transform {
	return c.view.Wheel(x, y, deltaY)
}

// ZoomAt zooms by factor around the screen point (x, y).
func (c *Chart) ZoomAt(x, y, factor float64) viewport.Transform {
	return c.view.ZoomAt(x, y, factor)
}

// ZoomGesture applies a transform computed by a live gesture.
func (c *Chart) ZoomGesture(translate [2]float64, scale float64) viewport.Transform {
	return c.view.ApplyZoomGesture(translate, scale)
}

// DoubleClick animates back to the full extent.
func (c *Chart) DoubleClick() viewport.Transform {
	return c.showAll(true)
}

// ClickLegend applies a legend click on category g.
func (c *Chart) ClickLegend(g string) visibility.Mode {
	mode := c.vis.Click(g)
	c.applyVisibility()
	return mode
}

// PointerEnter shows the label for the mark bound to key.
func (c *Chart) PointerEnter(key string) bool {
	n, d, ok := c.mark(key)
	if !ok {
		return false
	}
	c.hovered = key
	c.hover.Enter(n, hover.Target{Text: d.event.Name, Link: d.event.Link})
	return true
}

// PointerLeave starts the delayed dismissal for the mark bound to key.
func (c *Chart) PointerLeave(key string) bool {
	n, _, ok := c.mark(key)
	if !ok {
		return false
	}
	if c.hovered == key {
		c.hovered = ""
	}
	c.hover.Leave(n)
	return true
}

// PointerOut ends the hover of the current mark, if any.
func (c *Chart) PointerOut() bool {
	if c.hovered == "" {
		return false
	}
	return c.PointerLeave(c.hovered)
}

// Hovered returns the key of the mark under the pointer.
func (c *Chart) Hovered() string {
	return c.hovered
}

// ClickMark navigates to the link of the event bound to key.
func (c *Chart) ClickMark(key string) bool {
	_, d, ok := c.mark(key)
	if !ok {
		return false
	}
	c.navigate(d.event.Link)
	return true
}

// ClickLabel fires the label's click binding.
func (c *Chart) ClickLabel() bool {
	return c.hover.Click()
}

// MarkAt returns the key of the topmost mark under the screen point (x, y).
func (c *Chart) MarkAt(x, y float64) (string, bool) {
	cx, cy := c.Transform().Invert(x, y)
	n := scene.HitTest(c.base, cx, cy, func(n *scene.Node) bool { return n.HasClass("event") })
	if n == nil {
		return "", false
	}
	key, ok := n.Data.(string)
	return key, ok
}

// labelAt reports whether the screen point (x, y) is on the label while it is
// clickable.
func (c *Chart) labelAt(x, y float64) bool {
	label := c.hover.Label()
	if !label.Bound("click") || !c.hover.Visible() {
		return false
	}
	cx, cy := c.Transform().Invert(x, y)
	b, ok := label.Bounds()
	return ok && b.Contains(cx, cy)
}

// PointerMove dispatches enter and leave for a pointer at the screen point
// (x, y) and returns the key of the hovered mark.
func (c *Chart) PointerMove(x, y float64) (string, bool) {
	key, ok := c.MarkAt(x, y)
	if c.hovered != "" && c.hovered != key {
		c.PointerLeave(c.hovered)
	}
	if ok && c.hovered != key {
		c.PointerEnter(key)
	}
	return key, ok
}

// ClickAt handles a click at the screen point (x, y): the label takes
// precedence over marks. It reports whether anything handled the click.
func (c *Chart) ClickAt(x, y float64) bool {
	if c.labelAt(x, y) {
		return c.ClickLabel()
	}
	if key, ok := c.MarkAt(x, y); ok {
		return c.ClickMark(key)
	}
	return false
}

func (c *Chart) mark(key string) (*scene.Node, markDatum, bool) {
	n, ok := c.marks.Get(key)
	if !ok {
		c.logger.Debug().Str("key", key).Msg("No mark for key")
		return nil, markDatum{}, false
	}
	return n, markDatum{key: key, event: c.byKey[key]}, true
}

func (c *Chart) navigate(link string) {
	if c.nav == nil || link == "" {
		return
	}
	c.logger.Debug().Str("link", link).Msg("Navigating")
	c.nav.Navigate(link)
}

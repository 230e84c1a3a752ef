package scene

import (
	"strings"
	"unicode/utf8"
)

// Box is an axis-aligned rectangle.
type Box struct {
	X, Y          float64
	Width, Height float64
}

// Contains reports whether (x, y) lies inside the box, edges included.
func (b Box) Contains(x, y float64) bool {
	return x >= b.X && x <= b.X+b.Width && y >= b.Y && y <= b.Y+b.Height
}

// TextBounds holds estimated text dimensions.
type TextBounds struct {
	Width  float64
	Height float64
}

// EstimateTextBounds estimates the rendered size of a single line of text.
// Character widths are approximated conservatively so hit boxes err large.
func EstimateTextBounds(text string, fontSize float64) TextBounds {
	avgCharWidth := fontSize * 0.7
	lineHeight := fontSize * 1.5
	return TextBounds{
		Width:  float64(utf8.RuneCountInString(text)) * avgCharWidth,
		Height: lineHeight,
	}
}

// Bounds returns the node's box in its own coordinate space. Rects use their
// geometry; text uses the estimated bounds around its anchor point, honoring
// text-anchor. Other nodes have no bounds.
func (n *Node) Bounds() (Box, bool) {
	switch n.Tag {
	case "rect":
		return Box{
			X:      n.NumAttr("x"),
			Y:      n.NumAttr("y"),
			Width:  n.NumAttr("width"),
			Height: n.NumAttr("height"),
		}, true
	case "text":
		if strings.TrimSpace(n.Text) == "" {
			return Box{}, false
		}
		size := n.NumAttr("font-size")
		if size <= 0 {
			size = 16
		}
		tb := EstimateTextBounds(n.Text, size)
		x := n.NumAttr("x")
		anchor, _ := n.Attr("text-anchor")
		switch anchor {
		case "end":
			x -= tb.Width
		case "middle":
			x -= tb.Width / 2
		}
		return Box{X: x, Y: n.NumAttr("y") - tb.Height, Width: tb.Width, Height: tb.Height}, true
	}
	return Box{}, false
}

// HitTest returns the topmost node under (x, y) that satisfies accept.
// Later siblings paint over earlier ones; subtrees with display:none are
// skipped. Coordinates are in root's space; node transforms are not applied.
func HitTest(root *Node, x, y float64, accept func(*Node) bool) *Node {
	var hit *Node
	root.Walk(func(n *Node) bool {
		if n.Hidden() {
			return false
		}
		if accept != nil && !accept(n) {
			return true
		}
		if b, ok := n.Bounds(); ok && b.Contains(x, y) {
			hit = n
		}
		return true
	})
	return hit
}

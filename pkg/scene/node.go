// Package scene is a small retained-mode document tree for SVG and HTML output.
//
// Nodes carry ordered attributes and inline styles, CSS classes, text, bound
// data, event handlers, and an optional transition describing how their last
// change should be animated by a client. The tree is serialized with Render.
package scene

import (
	"math"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Attr is a name/value pair.
type Attr struct {
	Name  string
	Value string
}

// Transition describes how the latest attribute change of a node animates.
type Transition struct {
	Duration time.Duration
	Ease     string
}

// Handler is invoked when a node receives an event.
type Handler func()

// Node is an element in the scene tree.
type Node struct {
	Tag      string
	ID       string
	Text     string
	Data     any
	Children []*Node

	classes    []string
	attrs      []Attr
	style      []Attr
	handlers   map[string]Handler
	transition *Transition
	parent     *Node
}

// New creates a detached node.
func New(tag string) *Node {
	return &Node{Tag: tag}
}

// Append creates a child node at the end of n's children.
func (n *Node) Append(tag string) *Node {
	return n.AppendNode(New(tag))
}

// AppendNode attaches child at the end of n's children, detaching it from any
// previous parent.
func (n *Node) AppendNode(child *Node) *Node {
	child.Remove()
	child.parent = n
	n.Children = append(n.Children, child)
	return child
}

// Insert attaches child before the child at index i.
func (n *Node) Insert(i int, child *Node) *Node {
	child.Remove()
	child.parent = n
	i = max(0, min(i, len(n.Children)))
	n.Children = slices.Insert(n.Children, i, child)
	return child
}

// Remove detaches n from its parent.
func (n *Node) Remove() {
	if n.parent == nil {
		return
	}
	p := n.parent
	if i := slices.Index(p.Children, n); i >= 0 {
		p.Children = slices.Delete(p.Children, i, i+1)
	}
	n.parent = nil
}

// Parent returns the parent node, or nil.
func (n *Node) Parent() *Node {
	return n.parent
}

// SetAttr sets an attribute, keeping the position of an existing one.
// An empty value removes the attribute.
func (n *Node) SetAttr(name, value string) *Node {
	n.attrs = setPair(n.attrs, name, value)
	return n
}

// SetNum sets a numeric attribute.
func (n *Node) SetNum(name string, v float64) *Node {
	return n.SetAttr(name, Num(v))
}

// Attr returns the value of an attribute.
func (n *Node) Attr(name string) (string, bool) {
	return getPair(n.attrs, name)
}

// NumAttr returns a numeric attribute, or 0 when absent or malformed.
func (n *Node) NumAttr(name string) float64 {
	v, ok := n.Attr(name)
	if !ok {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return f
}

// Attrs returns a copy of the attributes in insertion order.
func (n *Node) Attrs() []Attr {
	return slices.Clone(n.attrs)
}

// SetStyle sets an inline style property. An empty value removes it.
func (n *Node) SetStyle(name, value string) *Node {
	n.style = setPair(n.style, name, value)
	return n
}

// Style returns an inline style property.
func (n *Node) Style(name string) (string, bool) {
	return getPair(n.style, name)
}

// Hidden reports whether n has display:none.
func (n *Node) Hidden() bool {
	v, _ := n.Style("display")
	return v == "none"
}

// SetClass adds or removes a class.
func (n *Node) SetClass(class string, on bool) *Node {
	i := slices.Index(n.classes, class)
	switch {
	case on && i < 0:
		n.classes = append(n.classes, class)
	case !on && i >= 0:
		n.classes = slices.Delete(n.classes, i, i+1)
	}
	return n
}

// AddClass adds one or more classes.
func (n *Node) AddClass(classes ...string) *Node {
	for _, c := range classes {
		n.SetClass(c, true)
	}
	return n
}

// HasClass reports whether n carries class.
func (n *Node) HasClass(class string) bool {
	return slices.Contains(n.classes, class)
}

// Classes returns a copy of n's classes.
func (n *Node) Classes() []string {
	return slices.Clone(n.classes)
}

// SetText replaces the text content.
func (n *Node) SetText(text string) *Node {
	n.Text = text
	return n
}

// On binds a handler for event; a nil handler unbinds it.
func (n *Node) On(event string, h Handler) *Node {
	if h == nil {
		delete(n.handlers, event)
		return n
	}
	if n.handlers == nil {
		n.handlers = make(map[string]Handler)
	}
	n.handlers[event] = h
	return n
}

// Bound reports whether a handler is bound for event.
func (n *Node) Bound(event string) bool {
	_, ok := n.handlers[event]
	return ok
}

// Fire invokes the handler for event and reports whether one was bound.
func (n *Node) Fire(event string) bool {
	h, ok := n.handlers[event]
	if !ok {
		return false
	}
	h()
	return true
}

// Animate records the transition for the node's latest change. A zero duration
// clears it.
func (n *Node) Animate(d time.Duration, ease string) *Node {
	if d <= 0 {
		n.transition = nil
		return n
	}
	n.transition = &Transition{Duration: d, Ease: ease}
	return n
}

// Transition returns the node's pending transition, if any.
func (n *Node) Transition() (Transition, bool) {
	if n.transition == nil {
		return Transition{}, false
	}
	return *n.transition, true
}

// Walk visits n and its descendants depth-first in document order. Returning
// false from fn skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// FindAll returns every node in the subtree matching pred, in document order.
func (n *Node) FindAll(pred func(*Node) bool) []*Node {
	var out []*Node
	n.Walk(func(x *Node) bool {
		if pred(x) {
			out = append(out, x)
		}
		return true
	})
	return out
}

// ByClass returns every node in the subtree carrying class.
func (n *Node) ByClass(class string) []*Node {
	return n.FindAll(func(x *Node) bool { return x.HasClass(class) })
}

// Num formats v for attribute output, rounded to six decimals.
func Num(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	r := math.Round(v*1e6) / 1e6
	if r == 0 {
		r = 0 // drop negative zero
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

func setPair(list []Attr, name, value string) []Attr {
	for i, a := range list {
		if a.Name == name {
			if value == "" {
				return slices.Delete(list, i, i+1)
			}
			list[i].Value = value
			return list
		}
	}
	if value == "" {
		return list
	}
	return append(list, Attr{Name: name, Value: value})
}

func getPair(list []Attr, name string) (string, bool) {
	for _, a := range list {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

func styleString(list []Attr) string {
	parts := make([]string, 0, len(list))
	for _, a := range list {
		parts = append(parts, a.Name+": "+a.Value)
	}
	return strings.Join(parts, "; ")
}

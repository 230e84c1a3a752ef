package scene

import (
	"fmt"
	"io"
	"strings"
)

// Mode selects the serialization dialect.
type Mode int

const (
	// SVG self-closes empty elements.
	SVG Mode = iota
	// HTML always writes a closing tag.
	HTML
)

// XMLHeader is written before standalone SVG documents.
const XMLHeader = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"

// SVGNamespace is the xmlns of the root svg element.
const SVGNamespace = "http://www.w3.org/2000/svg"

// Render serializes n and its subtree.
func Render(n *Node, mode Mode) string {
	var b strings.Builder
	writeNode(&b, n, mode)
	return b.String()
}

// WriteDocument writes a standalone SVG document rooted at n.
func WriteDocument(w io.Writer, n *Node) error {
	if _, err := io.WriteString(w, XMLHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if _, err := io.WriteString(w, Render(n, SVG)); err != nil {
		return fmt.Errorf("writing document: %w", err)
	}
	return nil
}

func writeNode(b *strings.Builder, n *Node, mode Mode) {
	b.WriteByte('<')
	b.WriteString(n.Tag)
	if n.ID != "" {
		writeAttr(b, "id", n.ID)
	}
	if len(n.classes) > 0 {
		writeAttr(b, "class", strings.Join(n.classes, " "))
	}
	for _, a := range n.attrs {
		writeAttr(b, a.Name, a.Value)
	}
	if len(n.style) > 0 {
		writeAttr(b, "style", styleString(n.style))
	}
	if n.transition != nil {
		writeAttr(b, "data-transition", fmt.Sprintf("%dms %s", n.transition.Duration.Milliseconds(), n.transition.Ease))
	}

	if n.Text == "" && len(n.Children) == 0 && mode == SVG {
		b.WriteString("/>")
		return
	}
	b.WriteByte('>')
	b.WriteString(EscapeXML(n.Text))
	for _, c := range n.Children {
		writeNode(b, c, mode)
	}
	b.WriteString("</")
	b.WriteString(n.Tag)
	b.WriteByte('>')
}

func writeAttr(b *strings.Builder, name, value string) {
	b.WriteByte(' ')
	b.WriteString(name)
	b.WriteString(`="`)
	b.WriteString(EscapeXML(value))
	b.WriteByte('"')
}

// EscapeXML escapes the five XML special characters.
func EscapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	s = strings.ReplaceAll(s, "'", "&apos;")
	return s
}

package chart

import "github.com/samber/lo"

// palette is an ordinal color scale: categories take colors in domain order,
// wrapping around the palette. Categories outside the domain are appended on
// first lookup.
type palette struct {
	colors []string
	index  map[string]int
	order  []string
}

func newPalette(colors []string, domain []string) *palette {
	p := &palette{colors: colors, index: make(map[string]int)}
	for _, g := range domain {
		p.add(g)
	}
	return p
}

func (p *palette) add(g string) int {
	if i, ok := p.index[g]; ok {
		return i
	}
	i := len(p.order)
	p.index[g] = i
	p.order = append(p.order, g)
	return i
}

// Color returns the color of category g.
func (p *palette) Color(g string) string {
	return p.colors[p.add(g)%len(p.colors)]
}

// Domain returns the categories seen so far, in color order.
func (p *palette) Domain() []string {
	return append([]string(nil), p.order...)
}

// legendCategories returns the type order followed by any event groups missing
// from it, in first-seen order.
func legendCategories(typeOrder, groups []string) []string {
	order := lo.Uniq(typeOrder)
	missing := lo.Without(lo.Uniq(groups), order...)
	return append(order, missing...)
}

// Package filter implements the client-side price filter over rendered
// place cards. It reads card attributes only and never fetches data.
package filter

import (
	"math"
	"strconv"
	"strings"

	"hbnb_web/internal/render"
)

// All is the sentinel ceiling value meaning "no ceiling".
const All = "all"

type Option struct {
	Value string
	Label string
}

// Options is the fixed set of price ceilings offered to the user.
func Options() []Option {
	return []Option{
		{All, "All Prices"},
		{"10", "Up to $10"},
		{"50", "Up to $50"},
		{"100", "Up to $100"},
	}
}

// Ceiling is a parsed filter value. The zero value means no ceiling.
type Ceiling struct {
	Max   float64
	Limit bool
}

func (c Ceiling) String() string {
	if !c.Limit {
		return All
	}
	return strconv.FormatFloat(c.Max, 'f', -1, 64)
}

// ParseCeiling reads a filter value. "all", empty, non-finite and
// unparseable values mean no ceiling.
func ParseCeiling(s string) Ceiling {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, All) {
		return Ceiling{}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return Ceiling{}
	}
	return Ceiling{Max: f, Limit: true}
}

// Visible reports whether a card with the given data-price passes c.
func (c Ceiling) Visible(priceAttr string) bool {
	if !c.Limit {
		return true
	}
	p, err := strconv.ParseFloat(strings.TrimSpace(priceAttr), 64)
	if err != nil {
		return false
	}
	return p <= c.Max
}

// Apply toggles visibility of every place card under root. Cards are never
// removed.
func Apply(root *render.Node, c Ceiling) {
	for _, card := range root.FindClass("place-card") {
		price, _ := card.Get("data-price")
		card.Hidden = !c.Visible(price)
	}
}

// Populate fills a select node with the fixed options, marking the one
// matching c as selected.
func Populate(sel *render.Node, c Ceiling) {
	sel.Children = nil
	current := c.String()
	for _, o := range Options() {
		render.Option(sel, o.Value, o.Label, o.Value == current)
	}
}

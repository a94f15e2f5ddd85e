package render

import (
	"html"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"

	"hbnb_web/internal/domain"
)

// Fixed user-facing strings.
const (
	MsgNoPlaces        = "No places available at the moment."
	MsgNoReviews       = "No reviews yet. Be the first to review!"
	FallbackTitle      = "Unnamed Place"
	FallbackPrice      = "N/A"
	FallbackSummary    = "No description available"
	FallbackDesc       = "No description available."
	FallbackCoordinate = "N/A"
	FallbackHost       = "Unknown"
	FallbackAuthor     = "Anonymous"
	FallbackReviewText = "No comment provided."
	FallbackAmenity    = "Unnamed amenity"
	FallbackDate       = "Unknown date"

	MaxStars     = 5
	SummaryLimit = 100
	StarGlyph    = "⭐"
)

var strict = bluemonday.StrictPolicy()

// clean strips any markup from backend free text. The serializer escapes
// the result, so entities are decoded here to avoid double escaping.
func clean(s string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

func orDefault(s, fallback string) string {
	if s = clean(s); s == "" {
		return fallback
	}
	return s
}

// Truncate keeps the first n characters of s and appends "..." when s is
// longer than n.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}

// Stars repeats the star glyph rating times, capped at MaxStars;
// non-positive ratings give "".
func Stars(rating int) string {
	if rating <= 0 {
		return ""
	}
	return strings.Repeat(StarGlyph, min(rating, MaxStars))
}

func formatNumber(v *float64, fallback string) string {
	if v == nil {
		return fallback
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// PriceAttr is the value stored in a card's data-price attribute. Absent
// prices are stored empty and never pass a numeric ceiling.
func PriceAttr(v *float64) string { return formatNumber(v, "") }

// personName renders "First Last" with a fallback for the first name.
func personName(p *domain.Person, fallback string) string {
	first, last := "", ""
	if p != nil {
		first, last = clean(p.FirstName), clean(p.LastName)
	}
	if first == "" {
		first = fallback
	}
	return strings.TrimSpace(first + " " + last)
}

package render

import (
	"net/url"

	"hbnb_web/internal/domain"
)

// PlaceList renders the #places-list container: one card per place, or the
// fixed "no places" message.
func PlaceList(places []domain.Place) *Node {
	list := El("section", "places-list").Set("id", "places-list")
	if len(places) == 0 {
		return list.Append(El("p", "empty-state", Text(MsgNoPlaces)))
	}
	for _, p := range places {
		list.Append(placeCard(p))
	}
	return list
}

func placeCard(p domain.Place) *Node {
	summary := FallbackSummary
	if d := clean(p.Description); d != "" {
		summary = Truncate(d, SummaryLimit)
	}
	card := El("div", "place-card",
		El("h3", "", Text(orDefault(p.Title, FallbackTitle))),
		El("p", "place-price",
			El("strong", "", Text("Price per night:")),
			Text(" $"+formatNumber(p.Price, FallbackPrice)),
		),
		El("p", "place-summary", Text(summary)),
		El("a", "details-button", Text("View Details")).Set("href", PlaceURL(p.ID)),
	)
	card.Set("data-id", p.ID)
	card.Set("data-price", PriceAttr(p.Price))
	return card
}

// PlaceURL is the details page link for a place.
func PlaceURL(id string) string {
	return "/place?" + url.Values{"id": {id}}.Encode()
}

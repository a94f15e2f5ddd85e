package render

import (
	"golang.org/x/text/language"

	"hbnb_web/internal/domain"
)

type Options struct {
	Locale language.Tag
}

// PlaceDetails renders the #place-details container. The amenities block is
// present only when the place has amenities; the reviews block always is.
func PlaceDetails(p domain.Place, opts Options) *Node {
	c := DetailsContainer()
	info := El("div", "place-info",
		El("h1", "", Text(orDefault(p.Title, FallbackTitle))),
		El("p", "place-price",
			El("strong", "", Text("Price per night:")),
			Text(" $"+formatNumber(p.Price, FallbackPrice)),
		),
		El("p", "place-description", Text(orDefault(p.Description, FallbackDesc))),
		El("p", "place-location",
			El("strong", "", Text("Location:")),
			Text(" Latitude "+formatNumber(p.Latitude, FallbackCoordinate)+
				", Longitude "+formatNumber(p.Longitude, FallbackCoordinate)),
		),
		El("p", "place-host",
			El("strong", "", Text("Host:")),
			Text(" "+personName(p.Owner, FallbackHost)),
		),
	)
	c.Append(info)

	if len(p.Amenities) > 0 {
		ul := El("ul", "amenities-list")
		for _, a := range p.Amenities {
			ul.Append(El("li", "", Text(orDefault(a.Name, FallbackAmenity))))
		}
		c.Append(El("div", "amenities-section", El("h2", "", Text("Amenities")), ul))
	}

	return c.Append(Reviews(p.Reviews, opts))
}

// DetailsContainer is the empty #place-details section.
func DetailsContainer() *Node {
	return El("section", "place-details").Set("id", "place-details")
}

// DetailsMessage replaces the details container content with a single
// message, used for missing ids and failed fetches.
func DetailsMessage(msg string) *Node {
	return DetailsContainer().Append(El("p", "error", Text(msg)))
}

package render

import (
	"strconv"

	"hbnb_web/internal/domain"
)

func Reviews(reviews []domain.Review, opts Options) *Node {
	sec := El("div", "reviews-section", El("h2", "", Text("Reviews")))
	if len(reviews) == 0 {
		return sec.Append(El("p", "empty-state", Text(MsgNoReviews)))
	}
	for _, r := range reviews {
		card := El("div", "review-card",
			El("p", "review-user", El("strong", "", Text(personName(r.User, FallbackAuthor)))),
			El("p", "review-rating", Text("Rating: "+Stars(r.Rating))),
			El("p", "review-text", Text(orDefault(r.Text, FallbackReviewText))),
			El("p", "review-date", El("em", "", Text(FormatDate(r.CreatedAt, opts.Locale)))),
		)
		card.Set("data-rating", strconv.Itoa(max(r.Rating, 0)))
		sec.Append(card)
	}
	return sec
}

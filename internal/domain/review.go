package domain

type Review struct {
	ID        string  `json:"id,omitempty"`
	PlaceID   string  `json:"place_id,omitempty"`
	Rating    int     `json:"rating"`
	Text      string  `json:"text"`
	User      *Person `json:"user,omitempty"`
	CreatedAt string  `json:"created_at,omitempty"` // backend timestamp, parsed at render time
}

// NewReview is the body of a review submission.
type NewReview struct {
	PlaceID string `json:"place_id"`
	Rating  int    `json:"rating"`
	Text    string `json:"text"`
}

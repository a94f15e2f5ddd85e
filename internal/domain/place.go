package domain

import (
	"encoding/json"
	"strings"
)

type Place struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Price       *float64  `json:"price"`
	Description string    `json:"description"`
	Latitude    *float64  `json:"latitude"`
	Longitude   *float64  `json:"longitude"`
	Owner       *Person   `json:"owner,omitempty"`
	Amenities   []Amenity `json:"amenities,omitempty"`
	Reviews     []Review  `json:"reviews,omitempty"`
}

// Person is the owner of a place or the author of a review.
type Person struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type Amenity struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// UnmarshalJSON accepts either a bare name or an {id,name} object.
func (a *Amenity) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err == nil {
		*a = Amenity{Name: strings.TrimSpace(name)}
		return nil
	}
	type plain Amenity
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*a = Amenity(p)
	return nil
}

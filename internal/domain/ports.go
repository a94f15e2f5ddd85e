package domain

import (
	"context"
	"time"
)

// Backend is the HBnB REST API as seen by the front end. An empty token
// means the call is made without an Authorization header.
type Backend interface {
	Login(ctx context.Context, email, password string) (string, error)
	ListPlaces(ctx context.Context, token string) ([]Place, error)
	GetPlace(ctx context.Context, token, id string) (Place, error)
	CreateReview(ctx context.Context, token string, r NewReview) (Review, error)
}

// SubmitGuard admits at most one pending submission per key.
type SubmitGuard interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

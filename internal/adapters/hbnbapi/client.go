// internal/adapters/hbnbapi/client.go
package hbnbapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"hbnb_web/internal/adapters/observability"
	"hbnb_web/internal/domain"
)

// ErrNoToken is returned when a 2xx login answer carries no access_token.
var ErrNoToken = errors.New("hbnb: login response has no access_token")

// Client talks to the HBnB REST API. Every call is a single attempt.
type Client struct {
	base string
	hc   *http.Client
	rl   *rate.Limiter
}

func New(base string, rps int, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid API base %q", base)
	}
	if rps <= 0 {
		rps = 20
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: timeout},
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

// ---- Public API ----

func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	in := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{email, password}
	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := c.do(ctx, "login", http.MethodPost, "/auth/login", "", in, &out); err != nil {
		return "", err
	}
	if out.AccessToken == "" {
		return "", ErrNoToken
	}
	return out.AccessToken, nil
}

func (c *Client) ListPlaces(ctx context.Context, token string) ([]domain.Place, error) {
	var out []domain.Place
	if err := c.do(ctx, "list_places", http.MethodGet, "/places/", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetPlace(ctx context.Context, token, id string) (domain.Place, error) {
	var out domain.Place
	err := c.do(ctx, "get_place", http.MethodGet, "/places/"+url.PathEscape(id), token, nil, &out)
	return out, err
}

func (c *Client) CreateReview(ctx context.Context, token string, r domain.NewReview) (domain.Review, error) {
	var out domain.Review
	err := c.do(ctx, "create_review", http.MethodPost, "/reviews/", token, r, &out)
	return out, err
}

// ---- Internals ----

// do sends one request and classifies the answer: transport failures become
// *domain.TransportError, non-2xx statuses *domain.APIError, anything else is
// decoded into out.
func (c *Client) do(ctx context.Context, op, method, path, token string, body, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return &domain.TransportError{Op: op, Err: err}
	}

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode body: %w", op, err)
		}
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rdr)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "hbnb-web/1.0")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("hbnb", op, 0, time.Since(start))
		return &domain.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()
	observability.ObserveExternal("hbnb", op, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &domain.APIError{Op: op, Status: resp.StatusCode, Message: errorMessage(resp.Body)}
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode: %w", op, err)
	}
	return nil
}

// errorMessage pulls `message`, or failing that `error`, out of a small
// JSON error body. Non-JSON bodies yield "".
func errorMessage(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 4096))
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(b, &body); err != nil {
		return ""
	}
	if m := strings.TrimSpace(body.Message); m != "" {
		return m
	}
	return strings.TrimSpace(body.Error)
}

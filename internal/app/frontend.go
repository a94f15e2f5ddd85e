package app

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"hbnb_web/internal/domain"
	"hbnb_web/internal/filter"
	"hbnb_web/internal/render"
	"hbnb_web/internal/session"
)

// User-facing messages.
const (
	MsgLoginFields       = "Please provide both email and password."
	MsgLoginFallback     = "Invalid credentials"
	MsgLoginTransport    = "An error occurred during login. Please try again."
	MsgNoPlaceID         = "Error: No place ID provided."
	MsgNoPlaceIDReview   = "Error: No place ID found."
	MsgDetailsFailed     = "Error loading place details. Please try again later."
	MsgLoginRequired     = "You must be logged in to submit a review."
	MsgReviewFields      = "Please provide both a rating and review text."
	MsgReviewOK          = "Review submitted successfully!"
	MsgReviewFallback    = "Unknown error"
	MsgReviewTransport   = "An error occurred while submitting the review. Please try again."
	MsgSubmissionPending = "A submission is already in progress. Please wait."
)

type Config struct {
	TokenTTL time.Duration // lifetime of the token cookie set by login
	LockTTL  time.Duration // upper bound on a pending submission lock
}

// Frontend runs the page workflows: gate, fetch, typed result, render.
type Frontend struct {
	api   domain.Backend
	guard domain.SubmitGuard
	cfg   Config
}

func NewFrontend(api domain.Backend, guard domain.SubmitGuard, cfg Config) *Frontend {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = session.TokenTTL
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = 30 * time.Second
	}
	return &Frontend{api: api, guard: guard, cfg: cfg}
}

// ---- login ----

type LoginResult struct {
	Redirect string // set on success
	Email    string // echoed back into the form on failure
	Notice   *render.Notice
}

func (f *Frontend) Login(ctx context.Context, s *session.Session, email, password string) LoginResult {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return LoginResult{Email: email, Notice: errNotice(MsgLoginFields)}
	}

	release, ok := f.acquire(ctx, guardKey("login", strings.ToLower(email)))
	if !ok {
		return LoginResult{Email: email, Notice: infoNotice(MsgSubmissionPending)}
	}
	defer release()

	tok, err := f.api.Login(ctx, email, password)
	if err != nil {
		var apiErr *domain.APIError
		if errors.As(err, &apiErr) {
			log.Info().Int("status", apiErr.Status).Msg("login rejected")
			return LoginResult{Email: email, Notice: errNotice("Login failed: " + apiErr.MessageOr(MsgLoginFallback))}
		}
		log.Error().Err(err).Msg("login request failed")
		return LoginResult{Email: email, Notice: errNotice(MsgLoginTransport)}
	}

	s.SetToken(tok, f.cfg.TokenTTL)
	return LoginResult{Redirect: "/"}
}

// ---- place list ----

type IndexResult struct {
	Auth    Auth
	List    *render.Node // #places-list, filtered
	Ceiling filter.Ceiling
	Reload  bool // token was rejected and cleared; reload the page
}

func (f *Frontend) Index(ctx context.Context, s *session.Session, c filter.Ceiling) IndexResult {
	auth := Gate(s)
	res := IndexResult{Auth: auth, Ceiling: c, List: emptyList()}
	if !auth.Authenticated() {
		// the list endpoint needs a bearer in this UI
		return res
	}

	places, err := f.api.ListPlaces(ctx, auth.Token)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			log.Info().Msg("token rejected by backend; clearing")
			s.ClearToken()
			res.Reload = true
			return res
		}
		logFetchErr(ctx, err).Stringer("mode", auth.Mode).Msg("list places failed")
		return res
	}

	res.List = render.PlaceList(places)
	filter.Apply(res.List, c)
	return res
}

func emptyList() *render.Node {
	return render.El("section", "places-list").Set("id", "places-list")
}

// ---- place details ----

type DetailsResult struct {
	Auth    Auth
	PlaceID string
	Place   *domain.Place // nil unless the fetch succeeded
	Details *render.Node  // #place-details
}

func (f *Frontend) PlaceDetails(ctx context.Context, s *session.Session, placeID string, opts render.Options) DetailsResult {
	auth := Gate(s)
	res := DetailsResult{Auth: auth, PlaceID: placeID}
	if strings.TrimSpace(placeID) == "" {
		res.Details = render.DetailsMessage(MsgNoPlaceID)
		return res
	}

	p, err := f.api.GetPlace(ctx, auth.Token, placeID)
	if err != nil {
		logFetchErr(ctx, err).Str("place_id", placeID).Stringer("mode", auth.Mode).Msg("get place failed")
		res.Details = render.DetailsMessage(MsgDetailsFailed)
		return res
	}
	res.Place = &p
	res.Details = render.PlaceDetails(p, opts)
	return res
}

// ---- review submission ----

type ReviewResult struct {
	Redirect string // always set: the place page, or /login
	Notice   render.Notice
	Sent     bool // a request reached the backend
}

// SubmitReview posts a review and leaves the outcome in the session flash;
// the caller redirects so the detail flow re-runs on the next page load.
func (f *Frontend) SubmitReview(ctx context.Context, s *session.Session, placeID, rating, text string) ReviewResult {
	auth := Gate(s)
	if !auth.Authenticated() {
		return f.flash(s, ReviewResult{Redirect: "/login", Notice: render.Notice{Kind: render.NoticeError, Text: MsgLoginRequired}}, "", "")
	}
	if strings.TrimSpace(placeID) == "" {
		return f.flash(s, ReviewResult{Redirect: "/", Notice: render.Notice{Kind: render.NoticeError, Text: MsgNoPlaceIDReview}}, "", "")
	}
	back := render.PlaceURL(placeID)

	n, err := strconv.Atoi(strings.TrimSpace(rating))
	if err != nil || strings.TrimSpace(text) == "" {
		return f.flash(s, ReviewResult{Redirect: back, Notice: render.Notice{Kind: render.NoticeError, Text: MsgReviewFields}}, rating, text)
	}

	release, ok := f.acquire(ctx, guardKey("review", auth.Token))
	if !ok {
		return f.flash(s, ReviewResult{Redirect: back, Notice: render.Notice{Kind: render.NoticeInfo, Text: MsgSubmissionPending}}, rating, text)
	}
	defer release()

	_, err = f.api.CreateReview(ctx, auth.Token, domain.NewReview{PlaceID: placeID, Rating: n, Text: text})
	if err != nil {
		res := ReviewResult{Redirect: back, Sent: true}
		var apiErr *domain.APIError
		if errors.As(err, &apiErr) {
			log.Warn().Int("status", apiErr.Status).Str("place_id", placeID).Msg("review rejected")
			res.Notice = render.Notice{Kind: render.NoticeError, Text: "Failed to submit review: " + apiErr.MessageOr(MsgReviewFallback)}
		} else {
			log.Error().Err(err).Str("place_id", placeID).Msg("review request failed")
			res.Notice = render.Notice{Kind: render.NoticeError, Text: MsgReviewTransport}
		}
		return f.flash(s, res, rating, text)
	}

	return f.flash(s, ReviewResult{Redirect: back, Sent: true, Notice: render.Notice{Kind: render.NoticeSuccess, Text: MsgReviewOK}}, "", "")
}

func (f *Frontend) flash(s *session.Session, r ReviewResult, rating, draft string) ReviewResult {
	s.SetFlash(session.Flash{Kind: string(r.Notice.Kind), Text: r.Notice.Text, Rating: rating, Draft: draft})
	return r
}

// NoticeFromFlash converts a session flash back into a page notice.
func NoticeFromFlash(fl session.Flash) render.Notice {
	return render.Notice{Kind: render.NoticeKind(fl.Kind), Text: fl.Text}
}

// ---- helpers ----

// acquire takes the submission lock for key. A failing guard backend does
// not block submissions.
func (f *Frontend) acquire(ctx context.Context, key string) (func(), bool) {
	if f.guard == nil {
		return func() {}, true
	}
	ok, err := f.guard.Acquire(ctx, key, f.cfg.LockTTL)
	if err != nil {
		log.Warn().Err(err).Msg("submit guard unavailable; proceeding unguarded")
		return func() {}, true
	}
	if !ok {
		return nil, false
	}
	return func() {
		// the request context may already be done; release on a fresh one
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()
		if err := f.guard.Release(rctx, key); err != nil {
			log.Warn().Err(err).Msg("submit guard release failed")
		}
	}, true
}

// logFetchErr picks the level for a failed read. A canceled context means
// the visitor navigated away and the late result is simply dropped.
func logFetchErr(ctx context.Context, err error) *zerolog.Event {
	if ctx.Err() != nil {
		return log.Debug().Err(err).Bool("canceled", true)
	}
	var te *domain.TransportError
	if errors.As(err, &te) {
		return log.Error().Err(err)
	}
	return log.Warn().Err(err)
}

func errNotice(msg string) *render.Notice  { return &render.Notice{Kind: render.NoticeError, Text: msg} }
func infoNotice(msg string) *render.Notice { return &render.Notice{Kind: render.NoticeInfo, Text: msg} }

package app_test

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hbnb_web/internal/app"
	"hbnb_web/internal/domain"
	"hbnb_web/internal/filter"
	"hbnb_web/internal/render"
	"hbnb_web/internal/session"
)

// ---- fakes ----

type fakeBackend struct {
	mu     sync.Mutex
	calls  []string
	tokens []string

	loginTok  string
	loginErr  error
	places    []domain.Place
	listErr   error
	place     domain.Place
	placeErr  error
	reviewErr error
	sent      []domain.NewReview
}

func (f *fakeBackend) record(op, token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, op)
	f.tokens = append(f.tokens, token)
}

func (f *fakeBackend) Login(ctx context.Context, email, password string) (string, error) {
	f.record("login", "")
	return f.loginTok, f.loginErr
}

func (f *fakeBackend) ListPlaces(ctx context.Context, token string) ([]domain.Place, error) {
	f.record("list", token)
	return f.places, f.listErr
}

func (f *fakeBackend) GetPlace(ctx context.Context, token, id string) (domain.Place, error) {
	f.record("get:"+id, token)
	return f.place, f.placeErr
}

func (f *fakeBackend) CreateReview(ctx context.Context, token string, r domain.NewReview) (domain.Review, error) {
	f.record("review", token)
	f.mu.Lock()
	f.sent = append(f.sent, r)
	f.mu.Unlock()
	return domain.Review{PlaceID: r.PlaceID, Rating: r.Rating, Text: r.Text}, f.reviewErr
}

type stubGuard struct {
	ok  bool
	err error
}

func (g stubGuard) Acquire(context.Context, string, time.Duration) (bool, error) { return g.ok, g.err }
func (g stubGuard) Release(context.Context, string) error { return nil }

func withToken(tok string) (*session.Session, *session.MemoryStore) {
	ms := session.NewMemoryStore()
	if tok != "" {
		ms.Set(session.TokenName, tok, session.TokenTTL)
	}
	return session.New(ms), ms
}

func ptr(f float64) *float64 { return &f }

var ctx = context.Background()

// ---- gate ----

func TestGate(t *testing.T) {
	s, _ := withToken("")
	assert.Equal(t, app.Anonymous, app.Gate(s).Mode)
	assert.Equal(t, "anonymous", app.Gate(s).Mode.String())

	s, _ = withToken("tok")
	a := app.Gate(s)
	assert.True(t, a.Authenticated())
	assert.Equal(t, "tok", a.Token)
	assert.Equal(t, "authenticated", a.Mode.String())
}

// ---- login ----

func TestLogin_SetsTokenForSevenDays(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ms := session.NewMemoryStore().WithClock(func() time.Time { return now })
	be := &fakeBackend{loginTok: "abc"}
	f := app.NewFrontend(be, app.NewMemoryGuard(), app.Config{})

	res := f.Login(ctx, session.New(ms), "a@b.c", "pw")

	assert.Equal(t, "/", res.Redirect)
	assert.Nil(t, res.Notice)
	tok, ok := ms.Get(session.TokenName)
	require.True(t, ok)
	assert.Equal(t, "abc", tok)
	exp, _ := ms.Expiry(session.TokenName)
	assert.Equal(t, now.Add(7*24*time.Hour), exp)
}

func TestLogin_EmptyFieldsIssueNoRequest(t *testing.T) {
	be := &fakeBackend{}
	f := app.NewFrontend(be, nil, app.Config{})
	s, _ := withToken("")

	res := f.Login(ctx, s, "  ", "pw")

	require.NotNil(t, res.Notice)
	assert.Equal(t, app.MsgLoginFields, res.Notice.Text)
	assert.Empty(t, be.calls)
}

func TestLogin_Failures(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"backend message", &domain.APIError{Op: "login", Status: 401, Message: "Wrong password"}, "Login failed: Wrong password"},
		{"fallback", &domain.APIError{Op: "login", Status: 401}, "Login failed: Invalid credentials"},
		{"transport", &domain.TransportError{Op: "login", Err: &net.OpError{Op: "dial", Err: errors.New("refused")}}, app.MsgLoginTransport},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := app.NewFrontend(&fakeBackend{loginErr: tc.err}, nil, app.Config{})
			s, ms := withToken("")

			res := f.Login(ctx, s, "a@b.c", "pw")

			assert.Empty(t, res.Redirect)
			assert.Equal(t, "a@b.c", res.Email)
			require.NotNil(t, res.Notice)
			assert.Equal(t, tc.want, res.Notice.Text)
			_, ok := ms.Get(session.TokenName)
			assert.False(t, ok)
		})
	}
}

func TestLogin_PendingSubmissionRejected(t *testing.T) {
	be := &fakeBackend{loginTok: "abc"}
	f := app.NewFrontend(be, stubGuard{ok: false}, app.Config{})
	s, _ := withToken("")

	res := f.Login(ctx, s, "a@b.c", "pw")

	require.NotNil(t, res.Notice)
	assert.Equal(t, app.MsgSubmissionPending, res.Notice.Text)
	assert.Empty(t, be.calls)
}

func TestLogin_GuardErrorFailsOpen(t *testing.T) {
	be := &fakeBackend{loginTok: "abc"}
	f := app.NewFrontend(be, stubGuard{err: errors.New("redis down")}, app.Config{})
	s, _ := withToken("")

	assert.Equal(t, "/", f.Login(ctx, s, "a@b.c", "pw").Redirect)
}

// ---- index ----

func TestIndex_AnonymousSkipsFetch(t *testing.T) {
	be := &fakeBackend{}
	f := app.NewFrontend(be, nil, app.Config{})
	s, _ := withToken("")

	res := f.Index(ctx, s, filter.Ceiling{})

	assert.Equal(t, app.Anonymous, res.Auth.Mode)
	assert.Empty(t, be.calls)
	assert.Empty(t, res.List.Children)
}

func TestIndex_RendersAndFilters(t *testing.T) {
	be := &fakeBackend{places: []domain.Place{{ID: "a", Price: ptr(20)}, {ID: "b", Price: ptr(80)}}}
	f := app.NewFrontend(be, nil, app.Config{})
	s, _ := withToken("tok")

	res := f.Index(ctx, s, filter.ParseCeiling("50"))

	assert.Equal(t, []string{"tok"}, be.tokens)
	cards := res.List.FindClass("place-card")
	require.Len(t, cards, 2)
	assert.False(t, cards[0].Hidden)
	assert.True(t, cards[1].Hidden)
}

func TestIndex_UnauthorizedClearsTokenAndReloads(t *testing.T) {
	for _, tok := range []string{"expired", "garbage", "x"} {
		t.Run(tok, func(t *testing.T) {
			be := &fakeBackend{listErr: &domain.APIError{Op: "list_places", Status: 401}}
			f := app.NewFrontend(be, nil, app.Config{})
			s, ms := withToken(tok)

			res := f.Index(ctx, s, filter.Ceiling{})

			assert.True(t, res.Reload)
			_, ok := ms.Get(session.TokenName)
			assert.False(t, ok)
		})
	}
}

func TestIndex_OtherFailureKeepsToken(t *testing.T) {
	be := &fakeBackend{listErr: &domain.APIError{Op: "list_places", Status: 500}}
	f := app.NewFrontend(be, nil, app.Config{})
	s, ms := withToken("tok")

	res := f.Index(ctx, s, filter.Ceiling{})

	assert.False(t, res.Reload)
	assert.Empty(t, res.List.Children)
	_, ok := ms.Get(session.TokenName)
	assert.True(t, ok)
}

// ---- details ----

func TestPlaceDetails_MissingID(t *testing.T) {
	be := &fakeBackend{}
	f := app.NewFrontend(be, nil, app.Config{})
	s, _ := withToken("tok")

	res := f.PlaceDetails(ctx, s, "", render.Options{})

	assert.Empty(t, be.calls)
	assert.Equal(t, app.MsgNoPlaceID, res.Details.TextContent())
}

func TestPlaceDetails_AnonymousWithoutAmenities(t *testing.T) {
	be := &fakeBackend{place: domain.Place{ID: "p1", Title: "Loft"}}
	f := app.NewFrontend(be, nil, app.Config{})
	s, _ := withToken("")

	res := f.PlaceDetails(ctx, s, "p1", render.Options{})

	assert.Equal(t, []string{"get:p1"}, be.calls)
	assert.Equal(t, []string{""}, be.tokens)
	require.NotNil(t, res.Place)
	assert.Empty(t, res.Details.FindClass("amenities-section"))
	assert.Len(t, res.Details.FindClass("reviews-section"), 1)
}

func TestPlaceDetails_FailureReplacesContent(t *testing.T) {
	be := &fakeBackend{placeErr: &domain.APIError{Op: "get_place", Status: 404}}
	f := app.NewFrontend(be, nil, app.Config{})
	s, _ := withToken("tok")

	res := f.PlaceDetails(ctx, s, "nope", render.Options{})

	assert.Nil(t, res.Place)
	assert.Equal(t, app.MsgDetailsFailed, res.Details.TextContent())
	assert.Equal(t, []string{"tok"}, be.tokens)
}

// ---- review ----

func takeFlash(t *testing.T, s *session.Session) session.Flash {
	t.Helper()
	fl, ok := s.TakeFlash()
	require.True(t, ok, "expected a flash")
	return fl
}

func TestSubmitReview_RequiresToken(t *testing.T) {
	be := &fakeBackend{}
	f := app.NewFrontend(be, nil, app.Config{})
	s, _ := withToken("")

	res := f.SubmitReview(ctx, s, "p1", "5", "great")

	assert.Equal(t, "/login", res.Redirect)
	assert.Equal(t, app.MsgLoginRequired, takeFlash(t, s).Text)
	assert.Empty(t, be.calls)
}

func TestSubmitReview_MissingInputIssuesNoRequest(t *testing.T) {
	for name, in := range map[string][2]string{
		"empty rating": {"", "great"},
		"empty text":   {"4", "   "},
		"bogus rating": {"four", "great"},
	} {
		t.Run(name, func(t *testing.T) {
			be := &fakeBackend{}
			f := app.NewFrontend(be, nil, app.Config{})
			s, _ := withToken("tok")

			res := f.SubmitReview(ctx, s, "p1", in[0], in[1])

			assert.False(t, res.Sent)
			assert.Equal(t, "/place?id=p1", res.Redirect)
			fl := takeFlash(t, s)
			assert.Equal(t, app.MsgReviewFields, fl.Text)
			assert.Equal(t, in[1], fl.Draft)
			assert.Empty(t, be.calls)
		})
	}
}

func TestSubmitReview_Success(t *testing.T) {
	be := &fakeBackend{}
	f := app.NewFrontend(be, app.NewMemoryGuard(), app.Config{})
	s, _ := withToken("tok")

	res := f.SubmitReview(ctx, s, "p1", "4", "Lovely stay")

	assert.True(t, res.Sent)
	assert.Equal(t, "/place?id=p1", res.Redirect)
	require.Len(t, be.sent, 1)
	assert.Equal(t, domain.NewReview{PlaceID: "p1", Rating: 4, Text: "Lovely stay"}, be.sent[0])
	assert.Equal(t, []string{"tok"}, be.tokens)

	fl := takeFlash(t, s)
	assert.Equal(t, app.MsgReviewOK, fl.Text)
	assert.Empty(t, fl.Draft, "form is cleared after success")
	assert.Empty(t, fl.Rating)

	// lock released: a second submission goes through
	f.SubmitReview(ctx, s, "p1", "5", "Again")
	assert.Len(t, be.sent, 2)
}

func TestSubmitReview_Failures(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"backend message", &domain.APIError{Op: "create_review", Status: 400, Message: "You cannot review your own place"}, "Failed to submit review: You cannot review your own place"},
		{"fallback", &domain.APIError{Op: "create_review", Status: 500}, "Failed to submit review: Unknown error"},
		{"transport", &domain.TransportError{Op: "create_review", Err: errors.New("reset")}, app.MsgReviewTransport},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := app.NewFrontend(&fakeBackend{reviewErr: tc.err}, nil, app.Config{})
			s, _ := withToken("tok")

			res := f.SubmitReview(ctx, s, "p1", "3", "meh")

			assert.True(t, res.Sent)
			fl := takeFlash(t, s)
			assert.Equal(t, tc.want, fl.Text)
			assert.Equal(t, "meh", fl.Draft)
			assert.Equal(t, "3", fl.Rating)
		})
	}
}

func TestSubmitReview_PendingSubmissionRejected(t *testing.T) {
	be := &fakeBackend{}
	f := app.NewFrontend(be, stubGuard{ok: false}, app.Config{})
	s, _ := withToken("tok")

	res := f.SubmitReview(ctx, s, "p1", "4", "dup")

	assert.False(t, res.Sent)
	assert.Equal(t, app.MsgSubmissionPending, takeFlash(t, s).Text)
	assert.Empty(t, be.calls)
}

// ---- guard ----

func TestMemoryGuard(t *testing.T) {
	g := app.NewMemoryGuard()

	ok, err := g.Acquire(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = g.Acquire(ctx, "k", time.Minute)
	assert.False(t, ok, "second acquire while pending")

	ok, _ = g.Acquire(ctx, "other", time.Minute)
	assert.True(t, ok)

	require.NoError(t, g.Release(ctx, "k"))
	ok, _ = g.Acquire(ctx, "k", time.Minute)
	assert.True(t, ok)
}

func TestMemoryGuard_LockExpires(t *testing.T) {
	g := app.NewMemoryGuard()

	ok, _ := g.Acquire(ctx, "k", time.Millisecond)
	require.True(t, ok)
	time.Sleep(5 * time.Millisecond)

	ok, _ = g.Acquire(ctx, "k", time.Minute)
	assert.True(t, ok, "expired lock must not block")
}

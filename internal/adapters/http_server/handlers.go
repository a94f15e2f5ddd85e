package httpserver

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/gorilla/securecookie"
	"github.com/rs/zerolog/log"

	"hbnb_web/internal/app"
	"hbnb_web/internal/filter"
	"hbnb_web/internal/render"
	"hbnb_web/internal/session"
)

//go:embed static
var staticFiles embed.FS

const maxFormBytes = 64 << 10

type Handlers struct {
	F            *app.Frontend
	CookieSecure bool
	Codec        *securecookie.SecureCookie // signs the flash cookie; nil: per-process key
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Get("/", h.index)
	s.mux.Get("/index.html", h.index)
	s.mux.Get("/login", h.loginPage)
	s.mux.Get("/login.html", h.loginPage)
	s.mux.Post("/login", h.login)
	s.mux.Get("/place", h.place)
	s.mux.Get("/place.html", h.place)
	s.mux.Post("/place/reviews", h.submitReview)

	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		log.Fatal().Err(err).Msg("embedded static assets missing")
	}
	s.mux.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(sub))))

	s.mux.NotFound(h.notFound)
}

func (h *Handlers) session(w http.ResponseWriter, r *http.Request) *session.Session {
	return session.New(session.NewCookieStore(w, r, h.CookieSecure)).WithCodec(h.Codec)
}

// takeFlash pops the pending flash and returns it with its page notice.
func takeFlash(s *session.Session) (session.Flash, []render.Notice) {
	fl, ok := s.TakeFlash()
	if !ok {
		return session.Flash{}, nil
	}
	return fl, []render.Notice{app.NoticeFromFlash(fl)}
}

func writePage(w http.ResponseWriter, status int, root *render.Node) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := render.WriteDocument(w, root); err != nil {
		log.Error().Err(err).Msg("write page failed")
	}
}

func (h *Handlers) index(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	res := h.F.Index(r.Context(), s, filter.ParseCeiling(r.URL.Query().Get("price")))
	if res.Reload {
		http.Redirect(w, r, r.URL.RequestURI(), http.StatusSeeOther)
		return
	}
	_, notices := takeFlash(s)

	form := render.PriceFilterForm()
	filter.Populate(form.FindID("price-filter"), res.Ceiling)

	writePage(w, http.StatusOK, render.Page(render.PageData{
		Title:         "Places",
		Authenticated: res.Auth.Authenticated(),
		Notices:       notices,
	}, form, res.List))
}

func (h *Handlers) loginPage(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	_, notices := takeFlash(s)
	h.renderLogin(w, s, "", notices)
}

func (h *Handlers) renderLogin(w http.ResponseWriter, s *session.Session, email string, notices []render.Notice) {
	writePage(w, http.StatusOK, render.Page(render.PageData{
		Title:         "Login",
		Authenticated: app.Gate(s).Authenticated(),
		Notices:       notices,
	}, render.LoginForm(email)))
}

func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	s := h.session(w, r)
	res := h.F.Login(r.Context(), s, r.PostForm.Get("email"), r.PostForm.Get("password"))
	if res.Redirect != "" {
		http.Redirect(w, r, res.Redirect, http.StatusSeeOther)
		return
	}
	var notices []render.Notice
	if res.Notice != nil {
		notices = append(notices, *res.Notice)
	}
	h.renderLogin(w, s, res.Email, notices)
}

func (h *Handlers) place(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	id := r.URL.Query().Get("id")
	fl, notices := takeFlash(s)

	res := h.F.PlaceDetails(r.Context(), s, id, render.Options{
		Locale: render.MatchLocale(r.Header.Get("Accept-Language")),
	})

	title := "Place"
	if res.Place != nil && res.Place.Title != "" {
		title = res.Place.Title
	}
	writePage(w, http.StatusOK, render.Page(render.PageData{
		Title:         title,
		Authenticated: res.Auth.Authenticated(),
		Notices:       notices,
	},
		res.Details,
		render.ReviewForm(id, res.Auth.Authenticated() && id != "", fl.Rating, fl.Draft),
	))
}

func (h *Handlers) submitReview(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	s := h.session(w, r)
	id := r.URL.Query().Get("id")
	res := h.F.SubmitReview(r.Context(), s, id, r.PostForm.Get("rating"), r.PostForm.Get("text"))
	log.Debug().Str("place_id", id).Bool("sent", res.Sent).Str("notice", string(res.Notice.Kind)).Msg("review submission handled")
	http.Redirect(w, r, res.Redirect, http.StatusSeeOther)
}

func (h *Handlers) notFound(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	writePage(w, http.StatusNotFound, render.Page(render.PageData{
		Title:         "Not found",
		Authenticated: app.Gate(s).Authenticated(),
	}, render.El("p", "error", render.Text("Page not found."))))
}

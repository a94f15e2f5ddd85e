package render

import (
	"net/url"
	"strconv"
)

type NoticeKind string

const (
	NoticeInfo    NoticeKind = "info"
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notice is a message surfaced to the user at the top of a page.
type Notice struct {
	Kind NoticeKind
	Text string
}

type PageData struct {
	Title         string
	Authenticated bool
	Notices       []Notice
}

// Page wraps body nodes with the site chrome. The login link is hidden for
// authenticated visitors.
func Page(d PageData, body ...*Node) *Node {
	title := "HBnB"
	if d.Title != "" {
		title = d.Title + " | HBnB"
	}
	login := El("a", "login-button", Text("Login")).Set("id", "login-link").Set("href", "/login")
	login.Hidden = d.Authenticated

	header := El("header", "",
		El("a", "logo", Text("HBnB")).Set("href", "/"),
		El("nav", "", login),
	)

	content := El("main", "")
	if len(d.Notices) > 0 {
		box := El("div", "notices").Set("role", "status")
		for _, n := range d.Notices {
			box.Append(El("p", "notice notice-"+string(n.Kind), Text(n.Text)))
		}
		content.Append(box)
	}
	content.Append(body...)

	return El("html", "",
		El("head", "",
			El("meta", "").Set("charset", "utf-8"),
			El("title", "", Text(title)),
			El("link", "").Set("rel", "stylesheet").Set("href", "/static/styles.css"),
		),
		El("body", "", header, content,
			El("footer", "", El("p", "", Text("All rights reserved"))),
		),
	).Set("lang", "en")
}

// LoginForm renders #login-form. The email is echoed back after a failed
// attempt; the password never is.
func LoginForm(email string) *Node {
	return El("form", "login-form",
		El("label", "", Text("Email")).Set("for", "email"),
		El("input", "").Set("type", "email").Set("id", "email").Set("name", "email").Set("value", email).Set("required", ""),
		El("label", "", Text("Password")).Set("for", "password"),
		El("input", "").Set("type", "password").Set("id", "password").Set("name", "password").Set("required", ""),
		submitButton("Login"),
	).Set("id", "login-form").Set("method", "post").Set("action", "/login")
}

// PriceFilterForm renders the filter form with an empty #price-filter select.
func PriceFilterForm() *Node {
	return El("form", "filter",
		El("label", "", Text("Max price:")).Set("for", "price-filter"),
		El("select", "").Set("id", "price-filter").Set("name", "price"),
		El("button", "", Text("Filter")).Set("type", "submit"),
	).Set("id", "filter").Set("method", "get").Set("action", "/")
}

// Option appends an <option> to a select node.
func Option(sel *Node, value, label string, selected bool) {
	o := El("option", "", Text(label)).Set("value", value)
	if selected {
		o.Set("selected", "")
	}
	sel.Append(o)
}

// ReviewForm renders the #add-review section. It is hidden unless visible
// is set; rating and text prefill the fields after a rejected submission.
func ReviewForm(placeID string, visible bool, rating, text string) *Node {
	sel := El("select", "").Set("id", "rating").Set("name", "rating")
	Option(sel, "", "Select a rating", rating == "")
	for i := 1; i <= 5; i++ {
		v := strconv.Itoa(i)
		Option(sel, v, v, rating == v)
	}
	form := El("form", "review-form",
		El("label", "", Text("Rating:")).Set("for", "rating"),
		sel,
		El("label", "", Text("Your review:")).Set("for", "review-text"),
		El("textarea", "", Text(text)).Set("id", "review-text").Set("name", "text"),
		submitButton("Submit Review"),
	).Set("id", "review-form").Set("method", "post").
		Set("action", "/place/reviews?"+url.Values{"id": {placeID}}.Encode())

	sec := El("section", "add-review", El("h2", "", Text("Add a Review")), form).Set("id", "add-review")
	sec.Hidden = !visible
	return sec
}

// submitButton is marked data-disable-on-submit; the server-side submit
// guard still rejects duplicates that get through.
func submitButton(label string) *Node {
	return El("button", "", Text(label)).Set("type", "submit").Set("data-disable-on-submit", "")
}

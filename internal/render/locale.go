package render

import (
	"strings"
	"time"

	"golang.org/x/text/language"
)

var supported = []language.Tag{
	language.AmericanEnglish, // first entry is the fallback
	language.BritishEnglish,
	language.French,
	language.Spanish,
	language.German,
	language.Italian,
	language.Portuguese,
	language.Japanese,
	language.Chinese,
	language.Korean,
}

var matcher = language.NewMatcher(supported)

// MatchLocale picks the supported locale closest to an Accept-Language value.
func MatchLocale(acceptLanguage string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return language.AmericanEnglish
	}
	_, idx, _ := matcher.Match(tags...)
	return supported[idx]
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// FormatDate renders a backend timestamp as a short date for locale.
func FormatDate(ts string, locale language.Tag) string {
	ts = strings.TrimSpace(ts)
	if ts == "" {
		return FallbackDate
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, ts); err == nil {
			return t.Format(dateLayout(locale))
		}
	}
	return FallbackDate
}

func dateLayout(tag language.Tag) string {
	base, _ := tag.Base()
	region, _ := tag.Region()
	switch base.String() {
	case "en":
		if r := region.String(); r == "US" || r == "ZZ" {
			return "1/2/2006"
		}
		return "02/01/2006"
	case "fr", "es", "it", "pt":
		return "02/01/2006"
	case "de":
		return "2.1.2006"
	case "ja", "zh":
		return "2006/1/2"
	case "ko":
		return "2006. 1. 2."
	}
	return "1/2/2006"
}

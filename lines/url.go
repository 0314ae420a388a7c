package lines

import (
	"net/url"
	"strings"
)

// SafeURL returns href when it is relative or uses the http, https or mailto
// scheme, and "" for anything else (javascript:, data:, unparseable input).
func SafeURL(href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	switch u.Scheme {
	case "", "http", "https", "mailto":
		return href
	}
	return ""
}

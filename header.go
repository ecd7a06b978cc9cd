package cookiebridge

import (
	"net/http"
	"net/url"
	"strings"
)

// SetCookieHeader renders c as a Set-Cookie header string.
//
// Attribute order is fixed: Domain, Path, Secure, HttpOnly, SameSite, Expires.
// Absent optional attributes are omitted, never emitted empty.
func SetCookieHeader(c Cookie) string {
	var b strings.Builder
	b.WriteString(c.Name)
	b.WriteByte('=')
	b.WriteString(url.QueryEscape(c.Value))

	if c.Domain != "" {
		b.WriteString("; Domain=")
		b.WriteString(c.Domain)
	}
	if c.Path != "" {
		b.WriteString("; Path=")
		b.WriteString(c.Path)
	}
	if c.Secure {
		b.WriteString("; Secure")
	}
	if c.HTTPOnly {
		b.WriteString("; HttpOnly")
	}
	if c.SameSite != "" {
		b.WriteString("; SameSite=")
		b.WriteString(capitalize(string(c.SameSite)))
	}
	if c.Expires != nil {
		b.WriteString("; Expires=")
		b.WriteString(c.Expires.UTC().Format(http.TimeFormat))
	}
	return b.String()
}

// capitalize uppercases the first letter and leaves the rest unchanged.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

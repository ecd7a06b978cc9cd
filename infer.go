package cookiebridge

import "errors"

// ErrMissingDomain is returned when a cookie has no domain and no fallback
// domain is available to substitute.
var ErrMissingDomain = errors.New("cookiebridge: cookie domain required")

// OriginURL derives the origin URL used to address c in a Store.
//
// The scheme is https when c.Secure is set, http otherwise; a leading dot on
// the domain ("include subdomains") is trimmed so both forms map to the same
// reachable URL. The path is appended as given: callers default an empty path
// to "/" before deriving.
func OriginURL(c Cookie) (string, error) {
	host := normalizeHost(c.Domain)
	if host == "" {
		return "", ErrMissingDomain
	}
	scheme := "http"
	if c.Secure {
		scheme = "https"
	}
	return scheme + "://" + host + c.Path, nil
}

// withOriginURL returns a copy of c whose URL is populated, deriving it when
// the record carries none.
func withOriginURL(c Cookie) (Cookie, error) {
	if c.URL != "" {
		return c, nil
	}
	u, err := OriginURL(c)
	if err != nil {
		return c, err
	}
	c.URL = u
	return c, nil
}

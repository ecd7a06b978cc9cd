package cookiebridge

import (
	"errors"
	"net/url"
	"strings"
)

// ErrNoActiveURL is returned when an operation needs the active tab's URL and
// the request carried none.
var ErrNoActiveURL = errors.New("cookiebridge: active tab URL required")

type requestOrigin struct {
	scheme string
	host   string
	path   string
}

func parseOrigin(rawURL string) (requestOrigin, error) {
	if strings.TrimSpace(rawURL) == "" {
		return requestOrigin{}, ErrNoActiveURL
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return requestOrigin{}, err
	}
	if u.Scheme == "" || u.Hostname() == "" {
		return requestOrigin{}, errors.New("cookiebridge: URL must include scheme and host")
	}
	return requestOrigin{
		scheme: strings.ToLower(u.Scheme),
		host:   normalizeHost(u.Hostname()),
		path:   normalizePath(u.EscapedPath()),
	}, nil
}

func cookieMatchesOrigin(c Cookie, o requestOrigin) bool {
	if c.Domain == "" || o.host == "" {
		return false
	}
	if !hostMatchesCookieDomain(o.host, c.Domain) {
		return false
	}
	if c.Secure && o.scheme != "https" && o.scheme != "wss" {
		return false
	}
	return pathMatchesCookiePath(o.path, c.Path)
}

func hostMatchesCookieDomain(host, cookieDomain string) bool {
	host = normalizeHost(host)
	cookieDomain = normalizeHost(cookieDomain)
	if host == "" || cookieDomain == "" {
		return false
	}
	if host == cookieDomain {
		return true
	}
	return strings.HasSuffix(host, "."+cookieDomain)
}

func pathMatchesCookiePath(requestPath, cookiePath string) bool {
	requestPath = normalizePath(requestPath)
	cookiePath = normalizePath(cookiePath)
	if cookiePath == "/" {
		return true
	}
	if requestPath == cookiePath {
		return true
	}
	if !strings.HasPrefix(requestPath, cookiePath) {
		return false
	}
	if cookiePath[len(cookiePath)-1] == '/' {
		return true
	}
	return len(requestPath) > len(cookiePath) && requestPath[len(cookiePath)] == '/'
}

func normalizeHost(host string) string {
	host = strings.TrimSpace(host)
	host = strings.TrimPrefix(host, ".")
	return strings.ToLower(host)
}

func normalizePath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" || path[0] != '/' {
		return "/"
	}
	return path
}

func dedupeCookies(cookies []Cookie) []Cookie {
	if len(cookies) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(cookies))
	out := make([]Cookie, 0, len(cookies))
	for _, c := range cookies {
		key := c.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}
	return out
}

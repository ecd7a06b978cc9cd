package cookiebridge

import "time"

// Browser identifies a cookie store flavor.
type Browser string

const (
	// BrowserChrome is Google Chrome.
	BrowserChrome Browser = "chrome"
	// BrowserChromium is Chromium.
	BrowserChromium Browser = "chromium"
	// BrowserEdge is Microsoft Edge.
	BrowserEdge Browser = "edge"
	// BrowserBrave is Brave Browser.
	BrowserBrave Browser = "brave"
	// BrowserVivaldi is Vivaldi.
	BrowserVivaldi Browser = "vivaldi"
	// BrowserOpera is Opera.
	BrowserOpera Browser = "opera"

	// BrowserFirefox is Mozilla Firefox.
	BrowserFirefox Browser = "firefox"
)

// SameSite is the cookie SameSite attribute.
type SameSite string

const (
	// SameSiteNone is SameSite=None.
	SameSiteNone SameSite = "None"
	// SameSiteLax is SameSite=Lax.
	SameSiteLax SameSite = "Lax"
	// SameSiteStrict is SameSite=Strict.
	SameSiteStrict SameSite = "Strict"
)

// Cookie is one cookie record. The natural key is (Name, Domain, Path).
//
// Cookie values are never mutated in place: defaulting a field or attaching a
// derived URL produces a new value.
type Cookie struct {
	Name     string
	Value    string
	Domain   string
	Path     string
	Secure   bool
	HTTPOnly bool
	SameSite SameSite

	// Expires is absent for session cookies.
	Expires *time.Time

	// URL is the origin URL a Store should address the cookie with.
	// Empty means it must be derived via OriginURL before any write.
	URL string
}

// Key returns the (name, domain, path) identity key.
func (c Cookie) Key() string {
	return c.Name + "\x00" + normalizeHost(c.Domain) + "\x00" + c.Path
}

// ItemResult is the outcome of one record inside a bulk operation.
type ItemResult struct {
	Name    string `json:"name"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// BulkResult aggregates the outcomes of a bulk operation. Succeeded+Failed
// always equals Total, and Items holds every input record exactly once.
// Item order follows completion order, not input order.
type BulkResult struct {
	Total     int          `json:"totalCount"`
	Succeeded int          `json:"successCount"`
	Failed    int          `json:"failureCount"`
	Items     []ItemResult `json:"perItem"`
}

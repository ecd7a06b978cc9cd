package cookiebridge

import "context"

// RemovalDetail describes a cookie removed from a Store.
type RemovalDetail struct {
	URL  string `json:"url"`
	Name string `json:"name"`
}

// Store is a browser cookie store addressed by origin URL and cookie name.
//
// Set returns the stored cookie, or nil when the store rejected the write;
// Remove returns nil when nothing was removed. A nil result with a nil error
// is how stores report "not found", which callers cannot distinguish from
// other per-record failures.
type Store interface {
	GetAll(ctx context.Context, originURL string) ([]Cookie, error)
	Set(ctx context.Context, c Cookie) (*Cookie, error)
	Remove(ctx context.Context, originURL, name string) (*RemovalDetail, error)
}

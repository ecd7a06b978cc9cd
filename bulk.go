package cookiebridge

import (
	"context"
	"fmt"
)

// Coordinator drives cookie operations against a Store. Bulk operations fan
// out one store call per record and fan the outcomes back in over a channel;
// the aggregated result is delivered exactly once, after every record has
// completed. Nothing is shared across invocations and concurrent bulk
// operations are not serialized against each other.
type Coordinator struct {
	store Store
}

// NewCoordinator returns a Coordinator backed by store.
func NewCoordinator(store Store) *Coordinator {
	return &Coordinator{store: store}
}

// List returns the de-duplicated cookies the store associates with originURL.
func (co *Coordinator) List(ctx context.Context, originURL string) ([]Cookie, error) {
	cookies, err := co.store.GetAll(ctx, originURL)
	if err != nil {
		return nil, err
	}
	return dedupeCookies(cookies), nil
}

// Save writes a single cookie, deriving its URL when the record carries none.
func (co *Coordinator) Save(ctx context.Context, c Cookie) (*Cookie, error) {
	c, err := withOriginURL(c)
	if err != nil {
		return nil, err
	}
	saved, err := co.store.Set(ctx, c)
	if err != nil {
		return nil, err
	}
	if saved == nil {
		return nil, fmt.Errorf("cookiebridge: store rejected cookie %q", c.Name)
	}
	return saved, nil
}

// Delete removes a single cookie keyed by origin URL and name.
func (co *Coordinator) Delete(ctx context.Context, originURL, name string) (*RemovalDetail, error) {
	detail, err := co.store.Remove(ctx, originURL, name)
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, fmt.Errorf("cookiebridge: cookie %q not removed", name)
	}
	return detail, nil
}

// DeleteAll removes every given cookie and aggregates the per-record
// outcomes. A record succeeds iff the store reports a removal detail; "not
// found" counts as a failure. Empty input returns a zero summary without
// touching the store.
func (co *Coordinator) DeleteAll(ctx context.Context, cookies []Cookie) BulkResult {
	return co.fanOut(cookies, func(c Cookie) ItemResult {
		c, err := withOriginURL(c)
		if err != nil {
			return ItemResult{Name: c.Name, Error: err.Error()}
		}
		detail, err := co.store.Remove(ctx, c.URL, c.Name)
		_ = err // the delete path only reports removed / not removed
		return ItemResult{Name: c.Name, Success: detail != nil}
	})
}

// Import writes every given cookie and aggregates the per-record outcomes.
// A record missing its domain gets fallbackDomain substituted; with no
// fallback available it fails without affecting siblings. Empty paths default
// to "/". Empty input returns a zero summary without touching the store.
func (co *Coordinator) Import(ctx context.Context, cookies []Cookie, fallbackDomain string) BulkResult {
	return co.fanOut(cookies, func(c Cookie) ItemResult {
		if c.Domain == "" {
			if fallbackDomain == "" {
				return ItemResult{Name: c.Name, Error: ErrMissingDomain.Error()}
			}
			c.Domain = fallbackDomain
		}
		if c.Path == "" {
			c.Path = "/"
		}
		c, err := withOriginURL(c)
		if err != nil {
			return ItemResult{Name: c.Name, Error: err.Error()}
		}
		saved, err := co.store.Set(ctx, c)
		item := ItemResult{Name: c.Name, Success: saved != nil && err == nil}
		if err != nil {
			item.Error = err.Error()
		}
		return item
	})
}

// fanOut runs op once per record in its own goroutine and collects the
// outcomes. Completion order is unspecified; the result is assembled only
// after all records have reported.
func (co *Coordinator) fanOut(cookies []Cookie, op func(Cookie) ItemResult) BulkResult {
	out := BulkResult{Total: len(cookies), Items: []ItemResult{}}
	if len(cookies) == 0 {
		return out
	}

	results := make(chan ItemResult, len(cookies))
	for _, c := range cookies {
		go func(c Cookie) {
			results <- op(c)
		}(c)
	}

	for range cookies {
		item := <-results
		out.Items = append(out.Items, item)
		if item.Success {
			out.Succeeded++
		} else {
			out.Failed++
		}
	}
	return out
}

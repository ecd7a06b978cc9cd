package cookiebridge

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeStore completes each call after a small random delay so bulk tests
// exercise out-of-order completion.
type fakeStore struct {
	mu      sync.Mutex
	calls   int
	cookies map[string]Cookie

	rejectNames map[string]bool // Set returns nil, Remove removes nothing
	errNames    map[string]bool // Set returns an error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		cookies:     make(map[string]Cookie),
		rejectNames: make(map[string]bool),
		errNames:    make(map[string]bool),
	}
}

func (f *fakeStore) jitter() {
	time.Sleep(time.Duration(rand.Intn(3)) * time.Millisecond)
}

func (f *fakeStore) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeStore) GetAll(_ context.Context, _ string) ([]Cookie, error) {
	f.jitter()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	out := make([]Cookie, 0, len(f.cookies))
	for _, c := range f.cookies {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeStore) Set(_ context.Context, c Cookie) (*Cookie, error) {
	f.jitter()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.errNames[c.Name] {
		return nil, context.DeadlineExceeded
	}
	if f.rejectNames[c.Name] {
		return nil, nil
	}
	f.cookies[c.Key()] = c
	saved := c
	return &saved, nil
}

func (f *fakeStore) Remove(_ context.Context, originURL, name string) (*RemovalDetail, error) {
	f.jitter()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.rejectNames[name] {
		return nil, nil
	}
	return &RemovalDetail{URL: originURL, Name: name}, nil
}

func makeCookies(names ...string) []Cookie {
	out := make([]Cookie, 0, len(names))
	for _, name := range names {
		out = append(out, Cookie{Name: name, Value: "v", Domain: "example.com", Path: "/"})
	}
	return out
}

func TestDeleteAll_EmptyInput(t *testing.T) {
	store := newFakeStore()
	co := NewCoordinator(store)

	result := co.DeleteAll(context.Background(), nil)
	if result.Total != 0 || result.Succeeded != 0 || result.Failed != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.Items == nil || len(result.Items) != 0 {
		t.Fatalf("want empty items, got %#v", result.Items)
	}
	if store.callCount() != 0 {
		t.Fatalf("store touched %d times", store.callCount())
	}
}

func TestDeleteAll_AllSucceed(t *testing.T) {
	store := newFakeStore()
	co := NewCoordinator(store)
	cookies := makeCookies("a", "b", "c", "d", "e")

	result := co.DeleteAll(context.Background(), cookies)
	if result.Total != 5 || result.Succeeded != 5 || result.Failed != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if len(result.Items) != 5 {
		t.Fatalf("want 5 items, got %d", len(result.Items))
	}
}

func TestDeleteAll_OneFailureDoesNotBlockSiblings(t *testing.T) {
	store := newFakeStore()
	store.rejectNames["c"] = true
	co := NewCoordinator(store)
	cookies := makeCookies("a", "b", "c", "d", "e")

	result := co.DeleteAll(context.Background(), cookies)
	if result.Total != 5 || result.Succeeded != 4 || result.Failed != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}

	seen := map[string]int{}
	for _, item := range result.Items {
		seen[item.Name]++
		if item.Name == "c" && item.Success {
			t.Fatalf("c should have failed")
		}
	}
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		if seen[name] != 1 {
			t.Fatalf("record %q reported %d times", name, seen[name])
		}
	}
}

func TestDeleteAll_CountsAlwaysAddUp(t *testing.T) {
	store := newFakeStore()
	store.rejectNames["b"] = true
	store.rejectNames["d"] = true
	co := NewCoordinator(store)

	result := co.DeleteAll(context.Background(), makeCookies("a", "b", "c", "d"))
	if result.Succeeded+result.Failed != result.Total {
		t.Fatalf("counts do not add up: %+v", result)
	}
}

func TestImport_EmptyInput(t *testing.T) {
	store := newFakeStore()
	co := NewCoordinator(store)

	result := co.Import(context.Background(), nil, "example.com")
	if result.Total != 0 || len(result.Items) != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if store.callCount() != 0 {
		t.Fatalf("store touched %d times", store.callCount())
	}
}

func TestImport_FallbackDomainSubstituted(t *testing.T) {
	store := newFakeStore()
	co := NewCoordinator(store)
	cookies := []Cookie{{Name: "a", Value: "1"}}

	result := co.Import(context.Background(), cookies, "fallback.example")
	if result.Succeeded != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}

	stored, ok := store.cookies[Cookie{Name: "a", Domain: "fallback.example", Path: "/"}.Key()]
	if !ok {
		t.Fatalf("cookie not stored under fallback domain: %#v", store.cookies)
	}
	if stored.URL != "http://fallback.example/" {
		t.Fatalf("unexpected derived URL %q", stored.URL)
	}
}

func TestImport_MissingDomainNoFallback(t *testing.T) {
	store := newFakeStore()
	co := NewCoordinator(store)
	cookies := []Cookie{
		{Name: "orphan", Value: "1"},
		{Name: "ok", Value: "2", Domain: "example.com"},
	}

	result := co.Import(context.Background(), cookies, "")
	if result.Total != 2 || result.Succeeded != 1 || result.Failed != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
	for _, item := range result.Items {
		if item.Name == "orphan" {
			if item.Success {
				t.Fatalf("orphan should have failed")
			}
			if !strings.Contains(item.Error, "domain required") {
				t.Fatalf("unexpected error %q", item.Error)
			}
		}
	}
	// The failed record must not have reached the store.
	if store.callCount() != 1 {
		t.Fatalf("want 1 store call, got %d", store.callCount())
	}
}

func TestImport_BackendErrorRetained(t *testing.T) {
	store := newFakeStore()
	store.errNames["bad"] = true
	co := NewCoordinator(store)

	result := co.Import(context.Background(), makeCookies("bad", "good"), "")
	if result.Succeeded != 1 || result.Failed != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
	for _, item := range result.Items {
		if item.Name == "bad" && item.Error == "" {
			t.Fatalf("backend error not retained")
		}
	}
}

func TestImport_DefaultsEmptyPath(t *testing.T) {
	store := newFakeStore()
	co := NewCoordinator(store)

	result := co.Import(context.Background(), []Cookie{{Name: "a", Domain: "example.com"}}, "")
	if result.Succeeded != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if _, ok := store.cookies[Cookie{Name: "a", Domain: "example.com", Path: "/"}.Key()]; !ok {
		t.Fatalf("path not defaulted: %#v", store.cookies)
	}
}

func TestSave_DerivesURL(t *testing.T) {
	store := newFakeStore()
	co := NewCoordinator(store)

	saved, err := co.Save(context.Background(), Cookie{Name: "a", Domain: "example.com", Path: "/", Secure: true})
	if err != nil {
		t.Fatal(err)
	}
	if saved.URL != "https://example.com/" {
		t.Fatalf("got %q", saved.URL)
	}
}

func TestSave_MissingDomain(t *testing.T) {
	store := newFakeStore()
	co := NewCoordinator(store)

	if _, err := co.Save(context.Background(), Cookie{Name: "a"}); err == nil {
		t.Fatalf("expected error")
	}
	if store.callCount() != 0 {
		t.Fatalf("store touched %d times", store.callCount())
	}
}

func TestDelete_NotFoundIsError(t *testing.T) {
	store := newFakeStore()
	store.rejectNames["gone"] = true
	co := NewCoordinator(store)

	if _, err := co.Delete(context.Background(), "http://example.com/", "gone"); err == nil {
		t.Fatalf("expected error for nil removal detail")
	}
}

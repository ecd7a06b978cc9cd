package cookiebridge

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

func TestFirefoxStore_SetGetRemove(t *testing.T) {
	ctx := context.Background()
	s := NewFirefoxStore(filepath.Join(t.TempDir(), "cookies.sqlite"))

	expires := time.Now().Add(time.Hour).Truncate(time.Second).UTC()
	if _, err := s.Set(ctx, Cookie{
		Name:     "sid",
		Value:    "hello",
		Domain:   "example.com",
		Path:     "/app",
		Secure:   true,
		SameSite: SameSiteStrict,
		Expires:  &expires,
	}); err != nil {
		t.Fatal(err)
	}

	cookies, err := s.GetAll(ctx, "https://example.com/app/page")
	if err != nil {
		t.Fatal(err)
	}
	if len(cookies) != 1 {
		t.Fatalf("want 1 cookie, got %d", len(cookies))
	}
	c := cookies[0]
	if c.Value != "hello" || c.Path != "/app" || c.SameSite != SameSiteStrict {
		t.Fatalf("round trip lost attributes: %#v", c)
	}
	if c.Expires == nil || !c.Expires.Equal(expires) {
		t.Fatalf("expires mismatch: %v != %v", c.Expires, expires)
	}

	detail, err := s.Remove(ctx, "https://example.com/app", "sid")
	if err != nil {
		t.Fatal(err)
	}
	if detail == nil {
		t.Fatalf("expected removal detail")
	}

	detail, err = s.Remove(ctx, "https://example.com/app", "sid")
	if err != nil {
		t.Fatal(err)
	}
	if detail != nil {
		t.Fatalf("expected nil detail on second removal")
	}
}

func TestFirefoxStore_PathScoping(t *testing.T) {
	ctx := context.Background()
	s := NewFirefoxStore(filepath.Join(t.TempDir(), "cookies.sqlite"))

	if _, err := s.Set(ctx, Cookie{Name: "scoped", Value: "v", Domain: "example.com", Path: "/admin"}); err != nil {
		t.Fatal(err)
	}

	cookies, err := s.GetAll(ctx, "http://example.com/")
	if err != nil {
		t.Fatal(err)
	}
	if len(cookies) != 0 {
		t.Fatalf("path-scoped cookie served outside its path: %#v", cookies)
	}

	cookies, err = s.GetAll(ctx, "http://example.com/admin/users")
	if err != nil {
		t.Fatal(err)
	}
	if len(cookies) != 1 {
		t.Fatalf("path-scoped cookie missing: %#v", cookies)
	}
}

func TestResolveFirefoxDB_ProfilesINI(t *testing.T) {
	if runtime.GOOS != "linux" && runtime.GOOS != "darwin" {
		t.Skip("no firefox roots on this platform")
	}

	home := t.TempDir()
	t.Setenv("HOME", home)

	var root string
	if runtime.GOOS == "darwin" {
		root = filepath.Join(home, "Library", "Application Support", "Firefox")
	} else {
		root = filepath.Join(home, ".mozilla", "firefox")
	}
	profDir := filepath.Join(root, "abc.default-release")
	if err := os.MkdirAll(profDir, 0o755); err != nil {
		t.Fatal(err)
	}

	ini := "[Profile0]\nName=default-release\nIsRelative=1\nPath=abc.default-release\n"
	if err := os.WriteFile(filepath.Join(root, "profiles.ini"), []byte(ini), 0o644); err != nil {
		t.Fatal(err)
	}
	dbPath := filepath.Join(profDir, "cookies.sqlite")
	if err := os.WriteFile(dbPath, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := resolveFirefoxDB("")
	if err != nil {
		t.Fatal(err)
	}
	if got != dbPath {
		t.Fatalf("got %q want %q", got, dbPath)
	}

	got, err = resolveFirefoxDB("default-release")
	if err != nil {
		t.Fatal(err)
	}
	if got != dbPath {
		t.Fatalf("named profile got %q", got)
	}

	if _, err := resolveFirefoxDB("no-such-profile"); err == nil {
		t.Fatalf("unknown profile accepted")
	}
}

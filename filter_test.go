package cookiebridge

import "testing"

func TestCookieMatchesOrigin_DomainPathSecure(t *testing.T) {
	o := requestOrigin{scheme: "https", host: "app.example.com", path: "/a/b"}
	c := Cookie{Name: "sid", Value: "x", Domain: "example.com", Path: "/a", Secure: true}

	if !cookieMatchesOrigin(c, o) {
		t.Fatalf("expected match")
	}
	o.scheme = "http"
	if cookieMatchesOrigin(c, o) {
		t.Fatalf("expected no match for secure over http")
	}
}

func TestPathMatchesCookiePath(t *testing.T) {
	cases := []struct {
		request, cookie string
		want            bool
	}{
		{"/a/b", "/", true},
		{"/a/b", "/a", true},
		{"/a/b", "/a/", true},
		{"/ab", "/a", false},
		{"/a", "/a/b", false},
	}
	for _, tc := range cases {
		if got := pathMatchesCookiePath(tc.request, tc.cookie); got != tc.want {
			t.Fatalf("pathMatchesCookiePath(%q, %q) = %v", tc.request, tc.cookie, got)
		}
	}
}

func TestParseOrigin(t *testing.T) {
	o, err := parseOrigin("HTTPS://Example.COM/Path")
	if err != nil {
		t.Fatal(err)
	}
	if o.scheme != "https" || o.host != "example.com" || o.path != "/Path" {
		t.Fatalf("unexpected origin %#v", o)
	}

	if _, err := parseOrigin(""); err != ErrNoActiveURL {
		t.Fatalf("want ErrNoActiveURL, got %v", err)
	}
	if _, err := parseOrigin("example.com"); err == nil {
		t.Fatalf("scheme-less URL accepted")
	}
}

func TestDedupeCookies(t *testing.T) {
	cookies := []Cookie{
		{Name: "a", Domain: "example.com", Path: "/", Value: "1"},
		{Name: "a", Domain: ".example.com", Path: "/", Value: "2"},
		{Name: "b", Domain: "example.com", Path: "/", Value: "3"},
	}
	out := dedupeCookies(cookies)
	if len(out) != 2 {
		t.Fatalf("want 2 got %d", len(out))
	}
	if out[0].Value != "1" {
		t.Fatalf("keeps first")
	}
}

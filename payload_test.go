package cookiebridge

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"
)

func TestParseCookiesJSON_Array(t *testing.T) {
	raw := []byte(`[{"name":"a","value":"b","domain":"example.com","path":"/","secure":true,"httpOnly":true,"sameSite":"lax","expirationDate":1735689600}]`)
	cookies, err := ParseCookiesJSON(raw)
	if err != nil {
		t.Fatal(err)
	}
	if len(cookies) != 1 {
		t.Fatalf("want 1 cookie got %d", len(cookies))
	}
	c := cookies[0]
	if c.SameSite != SameSiteLax {
		t.Fatalf("want SameSite Lax got %q", c.SameSite)
	}
	if c.Expires == nil || c.Expires.Unix() != 1735689600 {
		t.Fatalf("unexpected expires %v", c.Expires)
	}
	if !c.Secure || !c.HTTPOnly {
		t.Fatalf("flags lost: %#v", c)
	}
}

func TestParseCookiesJSON_Wrapper(t *testing.T) {
	raw := []byte(`{"cookies":[{"name":"a","value":"b","domain":"example.com","path":"/"}]}`)
	cookies, err := ParseCookiesJSON(raw)
	if err != nil {
		t.Fatal(err)
	}
	if len(cookies) != 1 || cookies[0].Name != "a" {
		t.Fatalf("unexpected cookies %#v", cookies)
	}
}

func TestParseCookiesJSON_NotAList(t *testing.T) {
	for _, raw := range []string{`{"foo":1}`, `"cookies"`, `42`, `not json`} {
		if _, err := ParseCookiesJSON([]byte(raw)); err == nil {
			t.Fatalf("payload %q should be rejected", raw)
		}
	}
}

func TestParseCookiesJSON_Empty(t *testing.T) {
	if _, err := ParseCookiesJSON([]byte("   \n")); err == nil {
		t.Fatalf("empty payload should be rejected")
	}
}

func TestReadImportSource_Base64AndFile(t *testing.T) {
	raw := []byte(`[{"name":"a","value":"b","domain":"example.com","path":"/"}]`)

	cookies, err := ReadImportSource(ImportSource{Base64: base64.StdEncoding.EncodeToString(raw)})
	if err != nil {
		t.Fatal(err)
	}
	if len(cookies) != 1 {
		t.Fatalf("want 1 got %d", len(cookies))
	}

	p := filepath.Join(t.TempDir(), "cookies.json")
	if err := os.WriteFile(p, raw, 0o644); err != nil {
		t.Fatal(err)
	}
	cookies, err = ReadImportSource(ImportSource{File: p})
	if err != nil {
		t.Fatal(err)
	}
	if len(cookies) != 1 {
		t.Fatalf("want 1 got %d", len(cookies))
	}

	if _, err := ReadImportSource(ImportSource{}); err == nil {
		t.Fatalf("empty source should be rejected")
	}
}

func TestWireExpiration_StringAndJunk(t *testing.T) {
	if got := parseWireExpiration("2025-01-01T00:00:00Z"); got == nil || got.Year() != 2025 {
		t.Fatalf("RFC3339 expiration not parsed: %v", got)
	}
	if got := parseWireExpiration(float64(-1)); got != nil {
		t.Fatalf("negative expiration should be nil, got %v", got)
	}
	if got := parseWireExpiration(true); got != nil {
		t.Fatalf("junk expiration should be nil, got %v", got)
	}
}

func TestToWire_RoundTripsSameSiteAndExpiry(t *testing.T) {
	raw := []byte(`[{"name":"a","value":"b","domain":"example.com","path":"/","sameSite":"strict","expirationDate":100}]`)
	cookies, err := ParseCookiesJSON(raw)
	if err != nil {
		t.Fatal(err)
	}
	w := toWire(cookies[0])
	if w.SameSite != "Strict" {
		t.Fatalf("got %q", w.SameSite)
	}
	if w.Expiration != float64(100) {
		t.Fatalf("got %v", w.Expiration)
	}
}

package cookiebridge

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"os"
	"time"
)

// wireCookie is the JSON shape cookies travel in, both in extension messages
// and in import files.
type wireCookie struct {
	Name       string      `json:"name"`
	Value      string      `json:"value"`
	Domain     string      `json:"domain"`
	Path       string      `json:"path"`
	Secure     bool        `json:"secure"`
	HTTPOnly   bool        `json:"httpOnly"`
	SameSite   string      `json:"sameSite,omitempty"`
	Expiration interface{} `json:"expirationDate,omitempty"`
	URL        string      `json:"url,omitempty"`
}

type cookiesPayload struct {
	Cookies []wireCookie `json:"cookies"`
}

// ImportSource is a cookie payload to import (raw JSON, base64, or a file).
// If multiple are set, JSON wins over Base64 over File.
type ImportSource struct {
	JSON   []byte
	Base64 string
	File   string
}

// ParseCookiesJSON decodes an import payload. Both a bare `[...]` array and a
// `{"cookies": [...]}` wrapper are accepted; anything else is a malformed
// payload and is rejected before any store call can happen.
func ParseCookiesJSON(raw []byte) ([]Cookie, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, errors.New("cookiebridge: empty cookie payload")
	}

	var payload cookiesPayload
	if err := json.Unmarshal(raw, &payload); err == nil && len(payload.Cookies) > 0 {
		return fromWireCookies(payload.Cookies), nil
	}

	var arr []wireCookie
	if err := json.Unmarshal(raw, &arr); err != nil {
		return nil, err
	}
	return fromWireCookies(arr), nil
}

// ReadImportSource loads the raw bytes of in and parses them.
func ReadImportSource(in ImportSource) ([]Cookie, error) {
	switch {
	case len(in.JSON) > 0:
		return ParseCookiesJSON(in.JSON)
	case in.Base64 != "":
		b, err := base64.StdEncoding.DecodeString(in.Base64)
		if err != nil {
			return nil, err
		}
		return ParseCookiesJSON(b)
	case in.File != "":
		b, err := os.ReadFile(in.File)
		if err != nil {
			return nil, err
		}
		return ParseCookiesJSON(b)
	default:
		return nil, errors.New("cookiebridge: no import source provided")
	}
}

func fromWireCookies(in []wireCookie) []Cookie {
	out := make([]Cookie, 0, len(in))
	for _, w := range in {
		out = append(out, fromWire(w))
	}
	return out
}

func fromWire(w wireCookie) Cookie {
	c := Cookie{
		Name:     w.Name,
		Value:    w.Value,
		Domain:   w.Domain,
		Path:     w.Path,
		Secure:   w.Secure,
		HTTPOnly: w.HTTPOnly,
		SameSite: normalizeSameSite(w.SameSite),
		URL:      w.URL,
	}
	c.Expires = parseWireExpiration(w.Expiration)
	return c
}

func toWire(c Cookie) wireCookie {
	w := wireCookie{
		Name:     c.Name,
		Value:    c.Value,
		Domain:   c.Domain,
		Path:     c.Path,
		Secure:   c.Secure,
		HTTPOnly: c.HTTPOnly,
		URL:      c.URL,
	}
	if c.SameSite != "" {
		w.SameSite = string(c.SameSite)
	}
	if c.Expires != nil {
		w.Expiration = float64(c.Expires.Unix())
	}
	return w
}

func toWireCookies(in []Cookie) []wireCookie {
	out := make([]wireCookie, 0, len(in))
	for _, c := range in {
		out = append(out, toWire(c))
	}
	return out
}

func parseWireExpiration(v interface{}) *time.Time {
	switch vv := v.(type) {
	case nil:
		return nil
	case float64:
		// JSON numbers come through as float64; Unix seconds.
		sec := int64(vv)
		if sec <= 0 {
			return nil
		}
		t := time.Unix(sec, 0).UTC()
		return &t
	case string:
		if vv == "" {
			return nil
		}
		if t, err := time.Parse(time.RFC3339, vv); err == nil {
			tt := t.UTC()
			return &tt
		}
		return nil
	default:
		return nil
	}
}

func normalizeSameSite(v string) SameSite {
	switch v {
	case "Strict", "strict":
		return SameSiteStrict
	case "Lax", "lax":
		return SameSiteLax
	case "None", "none", "NoRestriction", "no_restriction":
		return SameSiteNone
	default:
		return ""
	}
}

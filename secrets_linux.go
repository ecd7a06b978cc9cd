//go:build linux && !android

package cookiebridge

import (
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

// safeStoragePassword returns the Safe Storage password for b's v11 cookie
// values. The environment override wins; otherwise the session keyring is
// asked. Empty means only v10 ("peanuts") values are usable.
func safeStoragePassword(b Browser) string {
	if override := strings.TrimSpace(os.Getenv(envKeySafeStoragePassword(b))); override != "" {
		return override
	}

	service, account := safeStorageSecret(b)
	if pw, err := keyring.Get(service, account); err == nil {
		return strings.TrimSpace(pw)
	}
	return ""
}

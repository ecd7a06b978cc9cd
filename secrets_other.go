//go:build !linux || android

package cookiebridge

import (
	"os"
	"strings"
)

// safeStoragePassword falls back to the environment override on platforms
// without a supported keyring integration.
func safeStoragePassword(b Browser) string {
	return strings.TrimSpace(os.Getenv(envKeySafeStoragePassword(b)))
}

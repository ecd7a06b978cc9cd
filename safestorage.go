package cookiebridge

import "fmt"

// safeStorageSecret maps a Chromium-family browser to its keyring service and
// account names.
func safeStorageSecret(b Browser) (service, account string) {
	//nolint:exhaustive // Only Chromium-family browsers keep a Safe Storage secret.
	switch b {
	case BrowserChrome:
		return "Chrome Safe Storage", "Chrome"
	case BrowserChromium:
		return "Chromium Safe Storage", "Chromium"
	case BrowserEdge:
		return "Microsoft Edge Safe Storage", "Microsoft Edge"
	case BrowserBrave:
		return "Brave Safe Storage", "Brave"
	case BrowserVivaldi:
		return "Vivaldi Safe Storage", "Vivaldi"
	case BrowserOpera:
		return "Opera Safe Storage", "Opera"
	default:
		return fmt.Sprintf("%s Safe Storage", b), string(b)
	}
}

// envKeySafeStoragePassword names the environment override for b's Safe
// Storage password. Used for deterministic tooling and CI.
func envKeySafeStoragePassword(b Browser) string {
	//nolint:exhaustive // Only Chromium-family browsers map to Safe Storage env overrides.
	switch b {
	case BrowserChrome:
		return "COOKIEBRIDGE_CHROME_SAFE_STORAGE_PASSWORD"
	case BrowserEdge:
		return "COOKIEBRIDGE_EDGE_SAFE_STORAGE_PASSWORD"
	case BrowserBrave:
		return "COOKIEBRIDGE_BRAVE_SAFE_STORAGE_PASSWORD"
	case BrowserChromium:
		return "COOKIEBRIDGE_CHROMIUM_SAFE_STORAGE_PASSWORD"
	case BrowserVivaldi:
		return "COOKIEBRIDGE_VIVALDI_SAFE_STORAGE_PASSWORD"
	case BrowserOpera:
		return "COOKIEBRIDGE_OPERA_SAFE_STORAGE_PASSWORD"
	default:
		return "COOKIEBRIDGE_SAFE_STORAGE_PASSWORD"
	}
}

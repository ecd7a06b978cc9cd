package cookiebridge

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// HostName is the native messaging host identifier. Extension manifests must
// reference this exact name.
const HostName = "com.steipete.cookiebridge"

// ChromeManifest is the Chrome/Chromium native messaging host manifest.
type ChromeManifest struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Path           string   `json:"path"`
	Type           string   `json:"type"`
	AllowedOrigins []string `json:"allowed_origins"`
}

// FirefoxManifest is the Firefox native messaging host manifest.
type FirefoxManifest struct {
	Name              string   `json:"name"`
	Description       string   `json:"description"`
	Path              string   `json:"path"`
	Type              string   `json:"type"`
	AllowedExtensions []string `json:"allowed_extensions"`
}

const manifestDescription = "Cookie manager native messaging host"

// GenerateChromeManifest renders the manifest for Chrome-family browsers.
func GenerateChromeManifest(hostPath, extensionID string) []byte {
	b, _ := json.MarshalIndent(ChromeManifest{
		Name:           HostName,
		Description:    manifestDescription,
		Path:           hostPath,
		Type:           "stdio",
		AllowedOrigins: []string{"chrome-extension://" + extensionID + "/"},
	}, "", "  ")
	return b
}

// GenerateFirefoxManifest renders the manifest for Firefox.
func GenerateFirefoxManifest(hostPath, extensionID string) []byte {
	b, _ := json.MarshalIndent(FirefoxManifest{
		Name:              HostName,
		Description:       manifestDescription,
		Path:              hostPath,
		Type:              "stdio",
		AllowedExtensions: []string{extensionID},
	}, "", "  ")
	return b
}

// ManifestInstaller writes native messaging manifests into the per-user
// locations each browser scans.
type ManifestInstaller struct {
	HostPath           string
	ChromeExtensionID  string
	FirefoxExtensionID string

	// BaseDir overrides the home directory; used by tests.
	BaseDir string
}

func (m *ManifestInstaller) homeDir() string {
	if m.BaseDir != "" {
		return m.BaseDir
	}
	home, _ := os.UserHomeDir()
	return home
}

// InstallChrome writes the manifest for a Chrome-family browser and returns
// the manifest path.
func (m *ManifestInstaller) InstallChrome(b Browser) (string, error) {
	if m.HostPath == "" {
		return "", errors.New("cookiebridge: host path is required")
	}
	if m.ChromeExtensionID == "" {
		return "", errors.New("cookiebridge: chrome extension ID is required")
	}
	path := manifestPath(b, runtime.GOOS, m.homeDir())
	if path == "" {
		return "", fmt.Errorf("cookiebridge: no manifest location for %s on %s", b, runtime.GOOS)
	}
	return path, writeManifest(path, GenerateChromeManifest(m.HostPath, m.ChromeExtensionID))
}

// InstallFirefox writes the Firefox manifest and returns the manifest path.
func (m *ManifestInstaller) InstallFirefox() (string, error) {
	if m.HostPath == "" {
		return "", errors.New("cookiebridge: host path is required")
	}
	if m.FirefoxExtensionID == "" {
		return "", errors.New("cookiebridge: firefox extension ID is required")
	}
	path := manifestPath(BrowserFirefox, runtime.GOOS, m.homeDir())
	if path == "" {
		return "", fmt.Errorf("cookiebridge: no manifest location for firefox on %s", runtime.GOOS)
	}
	return path, writeManifest(path, GenerateFirefoxManifest(m.HostPath, m.FirefoxExtensionID))
}

// UninstallManifest removes a previously installed manifest. Removing a
// manifest that is already gone is not an error.
func UninstallManifest(path string) error {
	err := os.Remove(path)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

func writeManifest(path string, manifest []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, manifest, 0o644)
}

func manifestPath(b Browser, goos, homeDir string) string {
	file := HostName + ".json"

	switch goos {
	case "darwin":
		appSupport := filepath.Join(homeDir, "Library", "Application Support")
		switch b {
		case BrowserChrome:
			return filepath.Join(appSupport, "Google", "Chrome", "NativeMessagingHosts", file)
		case BrowserChromium:
			return filepath.Join(appSupport, "Chromium", "NativeMessagingHosts", file)
		case BrowserEdge:
			return filepath.Join(appSupport, "Microsoft Edge", "NativeMessagingHosts", file)
		case BrowserBrave:
			return filepath.Join(appSupport, "BraveSoftware", "Brave-Browser", "NativeMessagingHosts", file)
		case BrowserFirefox:
			return filepath.Join(appSupport, "Mozilla", "NativeMessagingHosts", file)
		}
	case "linux":
		switch b {
		case BrowserChrome:
			return filepath.Join(homeDir, ".config", "google-chrome", "NativeMessagingHosts", file)
		case BrowserChromium:
			return filepath.Join(homeDir, ".config", "chromium", "NativeMessagingHosts", file)
		case BrowserEdge:
			return filepath.Join(homeDir, ".config", "microsoft-edge", "NativeMessagingHosts", file)
		case BrowserBrave:
			return filepath.Join(homeDir, ".config", "BraveSoftware", "Brave-Browser", "NativeMessagingHosts", file)
		case BrowserFirefox:
			return filepath.Join(homeDir, ".mozilla", "native-messaging-hosts", file)
		}
	}
	return ""
}

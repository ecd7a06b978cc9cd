package cookiebridge

import (
	"os"
	"path/filepath"
	"runtime"
)

// chromiumUserDataDirs returns the user-data roots to probe for b's profiles.
func chromiumUserDataDirs(b Browser) []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}

	switch runtime.GOOS {
	case "darwin":
		appSupport := filepath.Join(home, "Library", "Application Support")
		switch b {
		case BrowserChrome:
			return []string{filepath.Join(appSupport, "Google", "Chrome")}
		case BrowserChromium:
			return []string{filepath.Join(appSupport, "Chromium")}
		case BrowserEdge:
			return []string{filepath.Join(appSupport, "Microsoft Edge")}
		case BrowserBrave:
			return []string{filepath.Join(appSupport, "BraveSoftware", "Brave-Browser")}
		case BrowserVivaldi:
			return []string{filepath.Join(appSupport, "Vivaldi")}
		case BrowserOpera:
			return []string{filepath.Join(appSupport, "com.operasoftware.Opera")}
		}
	case "linux":
		config := filepath.Join(home, ".config")
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			config = xdg
		}
		switch b {
		case BrowserChrome:
			return []string{filepath.Join(config, "google-chrome")}
		case BrowserChromium:
			return []string{filepath.Join(config, "chromium")}
		case BrowserEdge:
			return []string{filepath.Join(config, "microsoft-edge")}
		case BrowserBrave:
			return []string{filepath.Join(config, "BraveSoftware", "Brave-Browser")}
		case BrowserVivaldi:
			return []string{filepath.Join(config, "vivaldi")}
		case BrowserOpera:
			return []string{filepath.Join(config, "opera")}
		}
	}
	return nil
}

// firefoxRoots returns the directories that may hold profiles.ini.
func firefoxRoots() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}

	switch runtime.GOOS {
	case "darwin":
		return []string{filepath.Join(home, "Library", "Application Support", "Firefox")}
	case "linux":
		return []string{
			filepath.Join(home, ".mozilla", "firefox"),
			filepath.Join(home, "snap", "firefox", "common", ".mozilla", "firefox"),
		}
	}
	return nil
}

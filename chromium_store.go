package cookiebridge

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ChromiumStore is a Store over a Chromium-format Cookies database.
//
// Reads go through a snapshot copy so they never contend with a running
// browser; writes go straight to the database and should only happen while
// the browser holding it is closed.
type ChromiumStore struct {
	dbPath      string
	key         []byte   // Safe Storage key used for writes; nil writes clear values
	decryptKeys [][]byte // candidate keys for v10/v11 reads
}

// NewChromiumStore opens a Store over the Cookies database at dbPath.
// password is the Safe Storage password; empty means new values are written
// in clear and only v10 ("peanuts") values can be decrypted on read.
func NewChromiumStore(dbPath, password string) *ChromiumStore {
	s := &ChromiumStore{dbPath: dbPath}
	if password != "" {
		s.key = deriveSafeStorageKey(password)
	}
	s.decryptKeys = [][]byte{s.key, defaultSafeStorageKey(), deriveSafeStorageKey("")}
	return s
}

// OpenChromiumStore resolves b's Cookies database (honoring an optional
// profile override: a profile name, profile dir, or explicit DB path) and its
// Safe Storage password.
func OpenChromiumStore(b Browser, profileOverride string) (*ChromiumStore, error) {
	dbPath, err := resolveChromiumDB(b, profileOverride)
	if err != nil {
		return nil, err
	}
	return NewChromiumStore(dbPath, safeStoragePassword(b)), nil
}

// GetAll returns the cookies the database associates with originURL.
func (s *ChromiumStore) GetAll(ctx context.Context, originURL string) ([]Cookie, error) {
	origin, err := parseOrigin(originURL)
	if err != nil {
		return nil, err
	}

	snap, cleanup, err := snapshotDB(s.dbPath)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	db, err := openSQLite(ctx, snap, "ro")
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	metaVersion := chromiumMetaVersion(ctx, db)
	rows, err := chromiumReadRows(ctx, db, []string{origin.host})
	if err != nil {
		return nil, err
	}

	var out []Cookie
	for _, row := range rows {
		c, ok := s.rowToCookie(row, metaVersion)
		if !ok {
			continue
		}
		if !cookieMatchesOrigin(c, origin) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

// Set writes c, replacing any cookie with the same (host_key, name, path).
func (s *ChromiumStore) Set(ctx context.Context, c Cookie) (*Cookie, error) {
	if c.Name == "" {
		return nil, fmt.Errorf("cookiebridge: cookie name required")
	}
	if c.Domain == "" {
		return nil, ErrMissingDomain
	}
	if c.Path == "" {
		c.Path = "/"
	}

	db, err := openSQLite(ctx, s.dbPath, "rwc")
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	if err := chromiumEnsureSchema(ctx, db); err != nil {
		return nil, err
	}
	metaVersion := chromiumMetaVersion(ctx, db)

	hostKey := chromiumHostKey(c.Domain)
	value := c.Value
	var encrypted []byte
	if s.key != nil {
		encrypted, err = encryptCookieValue(c.Value, s.key, hostKey, metaVersion)
		if err != nil {
			return nil, err
		}
		value = ""
	}

	err = withTx(ctx, db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM cookies WHERE host_key = ? AND name = ? AND path = ?`,
			hostKey, c.Name, c.Path,
		); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO cookies (host_key, name, path, value, encrypted_value, expires_utc, is_secure, is_httponly, samesite)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			hostKey, c.Name, c.Path, value, encrypted,
			timeToChromiumExpires(c.Expires),
			boolToInt(c.Secure), boolToInt(c.HTTPOnly),
			sameSiteToInt(c.SameSite),
		)
		return err
	})
	if err != nil {
		return nil, err
	}

	saved := c
	return &saved, nil
}

// Remove deletes the cookie addressed by originURL and name. A nil detail
// with a nil error means nothing matched.
func (s *ChromiumStore) Remove(ctx context.Context, originURL, name string) (*RemovalDetail, error) {
	origin, err := parseOrigin(originURL)
	if err != nil {
		return nil, err
	}

	db, err := openSQLite(ctx, s.dbPath, "rw")
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	res, err := db.ExecContext(ctx,
		`DELETE FROM cookies WHERE (host_key = ? OR host_key = ?) AND name = ? AND path = ?`,
		origin.host, "."+origin.host, name, origin.path,
	)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	return &RemovalDetail{URL: originURL, Name: name}, nil
}

func (s *ChromiumStore) rowToCookie(row chromiumRow, metaVersion int64) (Cookie, bool) {
	if row.name == "" || row.hostKey == "" {
		return Cookie{}, false
	}

	value := row.value
	if value == "" && len(row.encryptedValue) > 0 {
		decoded, ok := decryptCookieValue(row.encryptedValue, s.decryptKeys, metaVersion)
		if !ok {
			return Cookie{}, false
		}
		value = decoded
	}

	c := Cookie{
		Name:     row.name,
		Value:    value,
		Domain:   strings.TrimPrefix(row.hostKey, "."),
		Path:     row.path,
		Secure:   row.isSecure,
		HTTPOnly: row.isHTTPOnly,
		SameSite: sameSiteFromInt(row.sameSite),
	}
	if c.Path == "" {
		c.Path = "/"
	}
	if t, ok := chromiumExpiresToTime(row.expiresUTC); ok {
		c.Expires = &t
	}
	return c, true
}

// chromiumHostKey preserves a leading dot ("include subdomains") and lowers
// the rest.
func chromiumHostKey(domain string) string {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if strings.HasPrefix(domain, ".") {
		return "." + normalizeHost(domain)
	}
	return normalizeHost(domain)
}

func sameSiteFromInt(v int64) SameSite {
	switch v {
	case 2:
		return SameSiteStrict
	case 1:
		return SameSiteLax
	case 0:
		return SameSiteNone
	default:
		return ""
	}
}

func sameSiteToInt(v SameSite) int64 {
	switch v {
	case SameSiteStrict:
		return 2
	case SameSiteLax:
		return 1
	case SameSiteNone:
		return 0
	default:
		return -1
	}
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func withTx(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// resolveChromiumDB locates b's Cookies database. An override may be an
// explicit DB path, a profile directory, or a profile name; without one the
// profiles listed in Local State are probed, Default first.
func resolveChromiumDB(b Browser, override string) (string, error) {
	override = strings.TrimSpace(override)
	if override != "" {
		if fi, err := os.Stat(override); err == nil {
			if !fi.IsDir() {
				return override, nil
			}
			if p := probeProfileDir(override); p != "" {
				return p, nil
			}
			return "", fmt.Errorf("cookiebridge: no Cookies DB in %q", override)
		}
	}

	for _, root := range chromiumUserDataDirs(b) {
		for _, profDir := range chromiumProfileDirs(root) {
			if override != "" && profDir != override {
				continue
			}
			if p := probeProfileDir(filepath.Join(root, profDir)); p != "" {
				return p, nil
			}
		}
	}
	if override != "" {
		return "", fmt.Errorf("cookiebridge: %s profile %q not found", b, override)
	}
	return "", fmt.Errorf("cookiebridge: %s cookie store not found", b)
}

func probeProfileDir(profileDir string) string {
	candidates := []string{
		filepath.Join(profileDir, "Network", "Cookies"),
		filepath.Join(profileDir, "Cookies"),
	}
	for _, p := range candidates {
		if fileExists(p) {
			return p
		}
	}
	return ""
}

// chromiumProfileDirs lists the profile directories under a user-data root,
// Default first, from the Local State info_cache.
func chromiumProfileDirs(userDataDir string) []string {
	out := []string{"Default"}

	raw, err := os.ReadFile(filepath.Join(userDataDir, "Local State"))
	if err != nil {
		return out
	}
	var localState struct {
		Profile struct {
			InfoCache map[string]json.RawMessage `json:"info_cache"`
		} `json:"profile"`
	}
	if err := json.Unmarshal(raw, &localState); err != nil {
		return out
	}
	for profDir := range localState.Profile.InfoCache {
		if profDir == "Default" {
			continue
		}
		out = append(out, profDir)
	}
	return out
}

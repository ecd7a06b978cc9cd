package cookiebridge

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-ini/ini"
)

// FirefoxStore is a Store over a Firefox cookies.sqlite database. Firefox
// keeps cookie values in clear, so there is no crypto involved.
type FirefoxStore struct {
	dbPath string
}

// NewFirefoxStore opens a Store over the cookies.sqlite at dbPath.
func NewFirefoxStore(dbPath string) *FirefoxStore {
	return &FirefoxStore{dbPath: dbPath}
}

// OpenFirefoxStore resolves the cookies.sqlite of a Firefox profile. The
// override may be an explicit DB path, a profile directory, or a profile
// name from profiles.ini; without one the first profile found wins.
func OpenFirefoxStore(profileOverride string) (*FirefoxStore, error) {
	dbPath, err := resolveFirefoxDB(profileOverride)
	if err != nil {
		return nil, err
	}
	return NewFirefoxStore(dbPath), nil
}

type firefoxRow struct {
	host     string
	name     string
	value    string
	path     string
	expiry   int64
	isSecure bool
	httpOnly bool
	sameSite int64
}

// GetAll returns the cookies the database associates with originURL.
func (s *FirefoxStore) GetAll(ctx context.Context, originURL string) ([]Cookie, error) {
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

	rows, err := firefoxReadRows(ctx, db, []string{origin.host})
	if err != nil {
		return nil, err
	}

	var out []Cookie
	for _, row := range rows {
		c, ok := firefoxRowToCookie(row)
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

// Set writes c, replacing any cookie with the same (host, name, path).
func (s *FirefoxStore) Set(ctx context.Context, c Cookie) (*Cookie, error) {
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

	if err := firefoxEnsureSchema(ctx, db); err != nil {
		return nil, err
	}

	host := chromiumHostKey(c.Domain)
	var expiry int64
	if c.Expires != nil {
		expiry = c.Expires.Unix()
	}

	err = withTx(ctx, db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM moz_cookies WHERE host = ? AND name = ? AND path = ?`,
			host, c.Name, c.Path,
		); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO moz_cookies (host, name, value, path, expiry, isSecure, isHttpOnly, sameSite)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			host, c.Name, c.Value, c.Path, expiry,
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
func (s *FirefoxStore) Remove(ctx context.Context, originURL, name string) (*RemovalDetail, error) {
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
		`DELETE FROM moz_cookies WHERE (host = ? OR host = ?) AND name = ? AND path = ?`,
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

const firefoxSchema = `
CREATE TABLE IF NOT EXISTS moz_cookies (
	id INTEGER PRIMARY KEY,
	host TEXT NOT NULL,
	name TEXT NOT NULL,
	value TEXT NOT NULL DEFAULT '',
	path TEXT NOT NULL DEFAULT '/',
	expiry INTEGER NOT NULL DEFAULT 0,
	isSecure INTEGER NOT NULL DEFAULT 0,
	isHttpOnly INTEGER NOT NULL DEFAULT 0,
	sameSite INTEGER NOT NULL DEFAULT 0,
	UNIQUE (host, name, path)
);
`

func firefoxEnsureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, firefoxSchema)
	return err
}

func firefoxReadRows(ctx context.Context, db *sql.DB, hosts []string) ([]firefoxRow, error) {
	where, args := hostWhereClause("host", hosts)
	query := `SELECT host, name, value, path, expiry, isSecure, isHttpOnly, sameSite FROM moz_cookies WHERE (` + where + `) ORDER BY expiry DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []firefoxRow
	for rows.Next() {
		var r firefoxRow
		var expiry sql.NullInt64
		var secure sql.NullInt64
		var httpOnly sql.NullInt64
		var sameSite sql.NullInt64

		if err := rows.Scan(&r.host, &r.name, &r.value, &r.path, &expiry, &secure, &httpOnly, &sameSite); err != nil {
			return nil, err
		}
		if expiry.Valid {
			r.expiry = expiry.Int64
		}
		r.isSecure = secure.Valid && secure.Int64 == 1
		r.httpOnly = httpOnly.Valid && httpOnly.Int64 == 1
		if sameSite.Valid {
			r.sameSite = sameSite.Int64
		}

		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func firefoxRowToCookie(r firefoxRow) (Cookie, bool) {
	if r.name == "" || r.host == "" {
		return Cookie{}, false
	}

	c := Cookie{
		Name:     r.name,
		Value:    r.value,
		Domain:   strings.TrimPrefix(r.host, "."),
		Path:     r.path,
		Secure:   r.isSecure,
		HTTPOnly: r.httpOnly,
		SameSite: sameSiteFromInt(r.sameSite),
	}
	if c.Path == "" {
		c.Path = "/"
	}
	if r.expiry > 0 {
		t := time.Unix(r.expiry, 0).UTC()
		c.Expires = &t
	}
	return c, true
}

// resolveFirefoxDB locates a cookies.sqlite via an explicit path, a profile
// directory, or the profiles listed in profiles.ini.
func resolveFirefoxDB(override string) (string, error) {
	override = strings.TrimSpace(override)
	if override != "" {
		if fi, err := os.Stat(override); err == nil {
			if fi.IsDir() {
				dbPath := filepath.Join(override, "cookies.sqlite")
				if fileExists(dbPath) {
					return dbPath, nil
				}
				return "", fmt.Errorf("cookiebridge: cookies.sqlite not found in %q", override)
			}
			return override, nil
		}
	}

	for _, root := range firefoxRoots() {
		cfg, err := ini.Load(filepath.Join(root, "profiles.ini"))
		if err != nil {
			continue
		}

		for _, secName := range cfg.SectionStrings() {
			if !strings.HasPrefix(secName, "Profile") {
				continue
			}
			sec := cfg.Section(secName)
			name := sec.Key("Name").String()
			pathStr := filepath.FromSlash(sec.Key("Path").String())
			if pathStr == "" {
				continue
			}
			if sec.Key("IsRelative").String() == "1" {
				pathStr = filepath.Join(root, pathStr)
			}
			dbPath := filepath.Join(pathStr, "cookies.sqlite")
			if !fileExists(dbPath) {
				continue
			}
			if override != "" && name != override && filepath.Base(pathStr) != override {
				continue
			}
			return dbPath, nil
		}
	}

	if override != "" {
		return "", fmt.Errorf("cookiebridge: Firefox profile %q not found", override)
	}
	return "", fmt.Errorf("cookiebridge: Firefox cookie store not found")
}

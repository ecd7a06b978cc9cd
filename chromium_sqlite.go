package cookiebridge

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver (pure Go).
)

type chromiumRow struct {
	hostKey        string
	name           string
	path           string
	value          string
	encryptedValue []byte
	expiresUTC     int64
	isSecure       bool
	isHTTPOnly     bool
	sameSite       int64
}

// snapshotDB copies the cookies DB (and WAL sidecars, where recent writes may
// live) into a temp dir so reads never contend with the running browser.
func snapshotDB(dbPath string) (snapshotPath string, cleanup func(), err error) {
	dir, err := os.MkdirTemp("", "cookiebridge-")
	if err != nil {
		return "", nil, err
	}
	cleanup = func() { _ = os.RemoveAll(dir) }

	target := filepath.Join(dir, filepath.Base(dbPath))
	if err := copyFile(dbPath, target); err != nil {
		cleanup()
		return "", nil, err
	}
	_ = copyFileIfExists(dbPath+"-wal", target+"-wal")
	_ = copyFileIfExists(dbPath+"-shm", target+"-shm")

	return target, cleanup, nil
}

func openSQLite(ctx context.Context, path, mode string) (*sql.DB, error) {
	dsn := "file:" + filepath.ToSlash(path) + "?mode=" + mode
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

const chromiumSchema = `
CREATE TABLE IF NOT EXISTS meta (
	key LONGVARCHAR NOT NULL UNIQUE PRIMARY KEY,
	value LONGVARCHAR
);
CREATE TABLE IF NOT EXISTS cookies (
	host_key TEXT NOT NULL,
	name TEXT NOT NULL,
	path TEXT NOT NULL,
	value TEXT NOT NULL DEFAULT '',
	encrypted_value BLOB DEFAULT '',
	expires_utc INTEGER NOT NULL DEFAULT 0,
	is_secure INTEGER NOT NULL DEFAULT 0,
	is_httponly INTEGER NOT NULL DEFAULT 0,
	samesite INTEGER NOT NULL DEFAULT -1,
	UNIQUE (host_key, name, path)
);
`

func chromiumEnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, chromiumSchema); err != nil {
		return err
	}
	_, err := db.ExecContext(ctx, `INSERT OR IGNORE INTO meta (key, value) VALUES ('version', '20')`)
	return err
}

func chromiumMetaVersion(ctx context.Context, db *sql.DB) int64 {
	if db == nil {
		return 0
	}
	var value string
	if err := db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = 'version'`).Scan(&value); err != nil {
		return 0
	}
	v, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

func chromiumReadRows(ctx context.Context, db *sql.DB, hosts []string) ([]chromiumRow, error) {
	where, args := hostWhereClause("host_key", hosts)
	query := strings.Join([]string{
		`SELECT host_key, name, path, value, encrypted_value, expires_utc, is_secure, is_httponly, samesite`,
		`FROM cookies`,
		`WHERE (` + where + `)`,
		`ORDER BY expires_utc DESC`,
	}, " ")

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []chromiumRow
	for rows.Next() {
		var r chromiumRow
		var encrypted []byte
		var expires sql.NullInt64
		var secure sql.NullInt64
		var httpOnly sql.NullInt64
		var sameSite sql.NullInt64

		if err := rows.Scan(&r.hostKey, &r.name, &r.path, &r.value, &encrypted, &expires, &secure, &httpOnly, &sameSite); err != nil {
			return nil, err
		}

		r.encryptedValue = encrypted
		if expires.Valid {
			r.expiresUTC = expires.Int64
		}
		r.isSecure = secure.Valid && secure.Int64 == 1
		r.isHTTPOnly = httpOnly.Valid && httpOnly.Int64 == 1
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

// hostWhereClause matches a host column against each host, its dotted form,
// and any parent-domain candidates.
func hostWhereClause(column string, hosts []string) (string, []any) {
	if len(hosts) == 0 {
		return "1=1", nil
	}

	var clauses []string
	var args []any
	for _, host := range hosts {
		host = normalizeHost(host)
		if host == "" {
			continue
		}
		for _, candidate := range expandHostCandidates(host) {
			clauses = append(clauses, column+" = ?", column+" = ?", column+" LIKE ?")
			args = append(args, candidate, "."+candidate, "%."+candidate)
		}
	}
	if len(clauses) == 0 {
		return "1=0", nil
	}
	return strings.Join(clauses, " OR "), args
}

func expandHostCandidates(host string) []string {
	parts := strings.Split(host, ".")
	cleaned := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		cleaned = append(cleaned, p)
	}
	if len(cleaned) <= 1 {
		return []string{host}
	}

	seen := make(map[string]struct{}, len(cleaned))
	var out []string
	add := func(h string) {
		if h == "" {
			return
		}
		if _, ok := seen[h]; ok {
			return
		}
		seen[h] = struct{}{}
		out = append(out, h)
	}

	add(host)
	for i := 1; i <= len(cleaned)-2; i++ {
		add(strings.Join(cleaned[i:], "."))
	}
	return out
}

// Chromium stores times as microseconds since 1601-01-01 UTC.
const windowsEpochDiffMicros = int64(11644473600000000)

func chromiumExpiresToTime(expiresUTC int64) (time.Time, bool) {
	unixMicros := expiresUTC - windowsEpochDiffMicros
	if unixMicros <= 0 {
		return time.Time{}, false
	}
	return time.Unix(0, unixMicros*1000).UTC(), true
}

func timeToChromiumExpires(t *time.Time) int64 {
	if t == nil {
		return 0
	}
	return t.UTC().UnixMicro() + windowsEpochDiffMicros
}

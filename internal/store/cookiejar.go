package store

import (
	"database/sql"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"path"
	"sync"
	"time"
)

// CookieJar is an http.CookieJar that mirrors every cookie it accepts into the
// session_cookies table, so one login serves later CLI invocations the way a
// browser keeps its cookies between page loads.
type CookieJar struct {
	db  *sql.DB
	now func() time.Time

	mu    sync.Mutex
	inner *cookiejar.Jar
	err   error
}

func NewCookieJar(db *sql.DB) (*CookieJar, error) {
	return newCookieJar(db, time.Now)
}

func newCookieJar(db *sql.DB, now func() time.Time) (*CookieJar, error) {
	inner, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	j := &CookieJar{db: db, now: now, inner: inner}
	if err := j.load(); err != nil {
		return nil, err
	}
	return j, nil
}

func (j *CookieJar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.inner.Cookies(u)
}

func (j *CookieJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.inner.SetCookies(u, cookies)
	origin := originOf(u)
	for _, c := range cookies {
		if err := j.persist(origin, u, c); err != nil && j.err == nil {
			j.err = err
		}
	}
}

// Err returns the first persistence failure. SetCookies cannot report errors itself.
func (j *CookieJar) Err() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.err
}

// Clear forgets every cookie, in memory and on disk.
func (j *CookieJar) Clear() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	inner, err := cookiejar.New(nil)
	if err != nil {
		return fmt.Errorf("reset cookie jar: %w", err)
	}
	j.inner = inner
	if _, err := j.db.Exec(`DELETE FROM session_cookies`); err != nil {
		return fmt.Errorf("clear session cookies: %w", err)
	}
	return nil
}

func (j *CookieJar) persist(origin string, u *url.URL, c *http.Cookie) error {
	cookiePath := c.Path
	if cookiePath == "" || cookiePath[0] != '/' {
		cookiePath = defaultPath(u.Path)
	}
	now := j.now()
	var expires *time.Time
	switch {
	case c.MaxAge < 0:
		return j.remove(origin, c.Name, cookiePath)
	case c.MaxAge > 0:
		t := now.Add(time.Duration(c.MaxAge) * time.Second)
		expires = &t
	case !c.Expires.IsZero():
		if !c.Expires.After(now) {
			return j.remove(origin, c.Name, cookiePath)
		}
		t := c.Expires
		expires = &t
	}

	var expiresRaw any
	if expires != nil {
		expiresRaw = expires.UTC().Format(time.RFC3339)
	}
	_, err := j.db.Exec(`
INSERT INTO session_cookies(origin, name, path, value, expires_at, secure, http_only, updated_at)
VALUES(?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(origin, name, path) DO UPDATE SET
  value=excluded.value, expires_at=excluded.expires_at, secure=excluded.secure,
  http_only=excluded.http_only, updated_at=excluded.updated_at
`, origin, c.Name, cookiePath, c.Value, expiresRaw, boolInt(c.Secure), boolInt(c.HttpOnly))
	if err != nil {
		return fmt.Errorf("save cookie %q: %w", c.Name, err)
	}
	return nil
}

func (j *CookieJar) remove(origin, name, cookiePath string) error {
	if _, err := j.db.Exec(`DELETE FROM session_cookies WHERE origin = ? AND name = ? AND path = ?`, origin, name, cookiePath); err != nil {
		return fmt.Errorf("delete cookie %q: %w", name, err)
	}
	return nil
}

func (j *CookieJar) load() error {
	now := j.now()
	if _, err := j.db.Exec(`DELETE FROM session_cookies WHERE expires_at IS NOT NULL AND expires_at <= ?`, now.UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("prune expired cookies: %w", err)
	}
	rows, err := j.db.Query(`SELECT origin, name, path, value, IFNULL(expires_at, ''), secure, http_only FROM session_cookies ORDER BY origin`)
	if err != nil {
		return fmt.Errorf("load session cookies: %w", err)
	}
	defer rows.Close()

	byOrigin := map[string][]*http.Cookie{}
	for rows.Next() {
		var origin, expiresRaw string
		var secure, httpOnly int
		c := &http.Cookie{}
		if err := rows.Scan(&origin, &c.Name, &c.Path, &c.Value, &expiresRaw, &secure, &httpOnly); err != nil {
			return fmt.Errorf("scan session cookie: %w", err)
		}
		if expiresRaw != "" {
			expires, err := time.Parse(time.RFC3339, expiresRaw)
			if err != nil {
				return fmt.Errorf("parse cookie expiry %q: %w", expiresRaw, err)
			}
			c.Expires = expires
		}
		c.Secure = secure == 1
		c.HttpOnly = httpOnly == 1
		byOrigin[origin] = append(byOrigin[origin], c)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate session cookies: %w", err)
	}
	for origin, cookies := range byOrigin {
		u, err := url.Parse(origin)
		if err != nil {
			return fmt.Errorf("parse cookie origin %q: %w", origin, err)
		}
		j.inner.SetCookies(u, cookies)
	}
	return nil
}

func originOf(u *url.URL) string {
	return u.Scheme + "://" + u.Host
}

// defaultPath follows RFC 6265 section 5.1.4.
func defaultPath(p string) string {
	if p == "" || p[0] != '/' {
		return "/"
	}
	dir := path.Dir(p)
	if dir == "." {
		return "/"
	}
	return dir
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

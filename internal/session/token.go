package session

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const CookieName = "access_token"

var ErrNoToken = errors.New("no session cookie")

// TokenInfo is what the client can read from its own session cookie.
type TokenInfo struct {
	UserID    int
	ExpiresAt time.Time
}

func (t TokenInfo) Expired(now time.Time) bool {
	return !t.ExpiresAt.IsZero() && !now.Before(t.ExpiresAt)
}

type tokenClaims struct {
	UserID int `json:"user_id"`
	jwt.RegisteredClaims
}

// Token decodes the access_token cookie the jar would send to apiURL. The signature
// is not checked: only the backend holds the key, and the result is for display.
func Token(jar http.CookieJar, apiURL string) (TokenInfo, error) {
	if jar == nil {
		return TokenInfo{}, ErrNoToken
	}
	u, err := url.Parse(apiURL)
	if err != nil {
		return TokenInfo{}, fmt.Errorf("parse api url: %w", err)
	}
	for _, c := range jar.Cookies(u) {
		if c.Name == CookieName && c.Value != "" {
			return ParseToken(c.Value)
		}
	}
	return TokenInfo{}, ErrNoToken
}

func ParseToken(raw string) (TokenInfo, error) {
	var claims tokenClaims
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		return TokenInfo{}, fmt.Errorf("decode session token: %w", err)
	}
	info := TokenInfo{UserID: claims.UserID}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	return info, nil
}

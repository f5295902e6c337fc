package recordstore

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is what the bearer token says about its holder. It is read
// without verification; the record store is the party that checks the token.
type Identity struct {
	UserID string
	Email  string
	Role   string
}

// Session carries the record store location and credentials for one logical
// caller. Build it once and share it by pointer.
type Session struct {
	baseURL  *url.URL
	token    string
	identity Identity
}

// NewSession validates baseURL and, when token is a JWT, extracts the caller
// identity from its claims. An empty token yields an anonymous session.
func NewSession(baseURL, token string) (*Session, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse record store url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("record store url must be http or https, got %q", baseURL)
	}

	s := &Session{baseURL: u, token: token}
	if token == "" {
		return s, nil
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("read token claims: %w", err)
	}
	s.identity = Identity{
		UserID: claimString(claims, "user_id"),
		Email:  claimString(claims, "email"),
		Role:   claimString(claims, "role"),
	}
	return s, nil
}

func claimString(claims jwt.MapClaims, key string) string {
	v, ok := claims[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Identity returns the caller identity read from the token.
func (s *Session) Identity() Identity {
	return s.identity
}

// Authenticated reports whether the session carries a bearer token.
func (s *Session) Authenticated() bool {
	return s.token != ""
}

// endpoint resolves path (with optional query) against the base URL.
func (s *Session) endpoint(path string, query url.Values) string {
	u := *s.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func (s *Session) authorization() string {
	if s.token == "" {
		return ""
	}
	return "Bearer " + s.token
}

// Package auth stores the optional AniList access token.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	credFileName = "credentials.json"
	// EnvToken overrides the stored token.
	EnvToken = "TIERLIST_ANILIST_TOKEN"
)

// ErrEmptyToken is returned by SetToken for a blank token.
var ErrEmptyToken = errors.New("empty token")

type TokenInfo struct {
	Token     string     `json:"token"`
	Source    string     `json:"source"`     // "env" | "file"
	CreatedAt time.Time  `json:"created_at"` // when it was saved
	ExpiresAt *time.Time `json:"expires_at"`
}

// Expired reports whether the token has a known expiry before now.
func (ti *TokenInfo) Expired(now time.Time) bool {
	return ti.ExpiresAt != nil && !ti.ExpiresAt.After(now)
}

func credsDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home: %w", err)
	}
	return filepath.Join(home, ".tierlist"), nil
}

// CredentialsPath is where SetToken writes.
func CredentialsPath() (string, error) {
	dir, err := credsDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, credFileName), nil
}

// GetToken returns the active token, or nil when logged out.
func GetToken() (*TokenInfo, error) {
	if env := stripBearer(os.Getenv(EnvToken)); env != "" {
		return &TokenInfo{Token: env, Source: "env"}, nil
	}

	p, err := CredentialsPath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	var ti TokenInfo
	if err := json.Unmarshal(b, &ti); err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	ti.Token = stripBearer(ti.Token)
	return &ti, nil
}

// Token is GetToken reduced to the usable token string. Expired or missing
// tokens and read failures all yield "".
func Token(now time.Time) string {
	ti, err := GetToken()
	if err != nil || ti == nil || ti.Expired(now) {
		return ""
	}
	return ti.Token
}

// SetToken saves token owner-readable only.
func SetToken(token string, expires *time.Time) error {
	token = stripBearer(token)
	if token == "" {
		return ErrEmptyToken
	}
	dir, err := credsDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	ti := TokenInfo{
		Token:     token,
		Source:    "file",
		CreatedAt: time.Now().UTC(),
		ExpiresAt: expires,
	}
	b, err := json.MarshalIndent(ti, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	p := filepath.Join(dir, credFileName)
	if err := os.WriteFile(p, b, 0o600); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// DeleteToken removes the saved token. Missing files are fine.
func DeleteToken() error {
	p, err := CredentialsPath()
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("remove: %w", err)
	}
	return nil
}

// stripBearer trims s and drops a leading "Bearer" scheme in any case.
// A bare scheme with no token leaves "".
func stripBearer(s string) string {
	s = strings.TrimSpace(s)
	const scheme = "bearer"
	if strings.EqualFold(s, scheme) {
		return ""
	}
	if len(s) > len(scheme) && strings.EqualFold(s[:len(scheme)], scheme) && (s[len(scheme)] == ' ' || s[len(scheme)] == '\t') {
		return strings.TrimSpace(s[len(scheme):])
	}
	return s
}

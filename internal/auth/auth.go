// Package auth implements the simulated login. A profile name is wrapped
// in a locally signed token on disk; nothing is ever verified against a
// service, it only selects whose cards and progress the app works on.
package auth

import (
	"crypto/rand"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNotLoggedIn reports that no valid login token exists.
var ErrNotLoggedIn = errors.New("auth: not logged in")

const keySize = 32

// Manager issues and reads the local login token.
type Manager struct {
	tokenPath string
	keyPath   string
}

// NewManager returns a Manager over the given token and key paths.
func NewManager(tokenPath, keyPath string) *Manager {
	return &Manager{tokenPath: tokenPath, keyPath: keyPath}
}

// Login signs a token for the profile name and writes it to disk.
func (m *Manager) Login(profile string) error {
	profile = strings.TrimSpace(profile)
	if profile == "" {
		return fmt.Errorf("profile name must not be empty")
	}
	key, err := m.loadOrCreateKey()
	if err != nil {
		return err
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:  profile,
		IssuedAt: jwt.NewNumericDate(time.Now()),
	})
	signed, err := token.SignedString(key)
	if err != nil {
		return fmt.Errorf("failed to sign token: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(m.tokenPath), 0o755); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	if err := os.WriteFile(m.tokenPath, []byte(signed), 0o600); err != nil {
		return fmt.Errorf("failed to write token: %w", err)
	}
	return nil
}

// Current returns the logged-in profile name, or ErrNotLoggedIn when no
// valid token exists.
func (m *Manager) Current() (string, error) {
	raw, err := os.ReadFile(m.tokenPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotLoggedIn
		}
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	key, err := os.ReadFile(m.keyPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotLoggedIn
		}
		return "", fmt.Errorf("failed to read signing key: %w", err)
	}
	parsed, err := jwt.ParseWithClaims(strings.TrimSpace(string(raw)), &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return key, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotLoggedIn, err)
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", ErrNotLoggedIn
	}
	return claims.Subject, nil
}

// Logout removes the login token. Logging out while logged out is fine.
func (m *Manager) Logout() error {
	if err := os.Remove(m.tokenPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove token: %w", err)
	}
	return nil
}

func (m *Manager) loadOrCreateKey() ([]byte, error) {
	key, err := os.ReadFile(m.keyPath)
	if err == nil && len(key) > 0 {
		return key, nil
	}
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read signing key: %w", err)
	}
	key = make([]byte, keySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate signing key: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(m.keyPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create key directory: %w", err)
	}
	if err := os.WriteFile(m.keyPath, key, 0o600); err != nil {
		return nil, fmt.Errorf("failed to write signing key: %w", err)
	}
	return key, nil
}

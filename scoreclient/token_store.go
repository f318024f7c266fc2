package scoreclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/zalando/go-keyring"
)

// ErrNoToken is returned by TokenStore.Load when nothing is stored.
var ErrNoToken = errors.New("scoreclient: no stored token")

// TokenStore keeps bearer tokens in the OS keychain, falling back to a
// private file where no keychain is reachable.
type TokenStore struct {
	service      string
	fallbackPath string
	mu           sync.Mutex
}

func NewTokenStore(service, fallbackPath string) *TokenStore {
	if strings.TrimSpace(service) == "" {
		service = "spacedodge"
	}
	return &TokenStore{
		service:      service,
		fallbackPath: fallbackPath,
	}
}

func (s *TokenStore) Save(account, token string) error {
	account = strings.TrimSpace(account)
	if account == "" {
		return errors.New("scoreclient: account is required")
	}

	err := keyring.Set(s.service, account, token)
	if err == nil {
		return nil
	}
	if !isKeyringUnavailable(err) {
		return fmt.Errorf("scoreclient: keyring set: %w", err)
	}
	if s.fallbackPath == "" {
		return fmt.Errorf("scoreclient: keyring unavailable and no fallback path configured: %w", err)
	}
	return s.updateFallback(func(tokens map[string]string) { tokens[account] = token })
}

func (s *TokenStore) Load(account string) (string, error) {
	account = strings.TrimSpace(account)
	if account == "" {
		return "", errors.New("scoreclient: account is required")
	}

	token, err := keyring.Get(s.service, account)
	if err == nil {
		return token, nil
	}
	if !errors.Is(err, keyring.ErrNotFound) && !isKeyringUnavailable(err) {
		return "", fmt.Errorf("scoreclient: keyring get: %w", err)
	}

	tokens, ferr := s.readFallback()
	if ferr != nil {
		return "", ferr
	}
	if token, ok := tokens[account]; ok {
		return token, nil
	}
	return "", ErrNoToken
}

func (s *TokenStore) Delete(account string) error {
	if err := keyring.Delete(s.service, account); err != nil &&
		!errors.Is(err, keyring.ErrNotFound) && !isKeyringUnavailable(err) {
		return fmt.Errorf("scoreclient: keyring delete: %w", err)
	}
	return s.updateFallback(func(tokens map[string]string) { delete(tokens, account) })
}

func isKeyringUnavailable(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "secret service") ||
		strings.Contains(msg, "dbus") ||
		strings.Contains(msg, "no keychain") ||
		strings.Contains(msg, "keyring backend not available")
}

func (s *TokenStore) readFallback() (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readFallbackUnlocked()
}

func (s *TokenStore) readFallbackUnlocked() (map[string]string, error) {
	tokens := map[string]string{}
	if s.fallbackPath == "" {
		return tokens, nil
	}
	raw, err := os.ReadFile(s.fallbackPath)
	if err != nil {
		if os.IsNotExist(err) {
			return tokens, nil
		}
		return nil, fmt.Errorf("scoreclient: read token file: %w", err)
	}
	if len(raw) == 0 {
		return tokens, nil
	}
	if err := json.Unmarshal(raw, &tokens); err != nil {
		return nil, fmt.Errorf("scoreclient: decode token file: %w", err)
	}
	return tokens, nil
}

func (s *TokenStore) updateFallback(fn func(map[string]string)) error {
	if s.fallbackPath == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tokens, err := s.readFallbackUnlocked()
	if err != nil {
		return err
	}
	fn(tokens)

	if err := os.MkdirAll(filepath.Dir(s.fallbackPath), 0o700); err != nil {
		return fmt.Errorf("scoreclient: mkdir token dir: %w", err)
	}
	raw, err := json.Marshal(tokens)
	if err != nil {
		return fmt.Errorf("scoreclient: encode token file: %w", err)
	}
	if err := os.WriteFile(s.fallbackPath, raw, 0o600); err != nil {
		return fmt.Errorf("scoreclient: write token file: %w", err)
	}
	return nil
}

// Package credstore persists portalctl's authenticated state between CLI
// invocations. The backend authenticates with a session cookie, so a
// short-lived CLI process has to carry that cookie (plus the last known
// session snapshot) across runs; the CSRF token is deliberately not stored,
// the SDK re-probes for a fresh one on the first write.
package credstore

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/atlasbahamas/portal-client/pkg/portal"
)

const (
	defaultDirName  = "atlasportal"
	defaultFileName = "credentials.yaml"
)

// Cookie is one persisted cookie pair for the API origin.
type Cookie struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

// Credentials is the on-disk state: the API origin's cookies and the last
// session snapshot the server reported.
type Credentials struct {
	Cookies []Cookie        `yaml:"cookies,omitempty"`
	Session *portal.Session `yaml:"session,omitempty"`
	SavedAt time.Time       `yaml:"saved_at"`
}

// Store reads and writes the credentials file.
type Store struct {
	path string
}

// New creates a store at path, or at the per-user default
// (~/.config/atlasportal/credentials.yaml) when path is empty.
func New(path string) (*Store, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(home, ".config", defaultDirName, defaultFileName)
	}
	return &Store{path: path}, nil
}

// Path returns the location of the credentials file.
func (s *Store) Path() string {
	return s.path
}

// Load reads the stored credentials. A missing file is not an error; it
// returns (nil, nil), meaning "not logged in".
func (s *Store) Load() (*Credentials, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}

	var creds Credentials
	if err := yaml.Unmarshal(raw, &creds); err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	return &creds, nil
}

// Save writes the credentials with owner-only permissions.
func (s *Store) Save(creds *Credentials) error {
	creds.SavedAt = time.Now().UTC()

	raw, err := yaml.Marshal(creds)
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create credentials directory: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	return nil
}

// Clear removes the credentials file. Clearing an absent file is a no-op.
func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove credentials: %w", err)
	}
	return nil
}

// SeedJar loads the stored cookies into a jar for the API origin.
func (c *Credentials) SeedJar(jar http.CookieJar, baseURL string) {
	origin, err := url.Parse(baseURL)
	if err != nil || origin.Host == "" {
		return
	}
	cookies := make([]*http.Cookie, 0, len(c.Cookies))
	for _, ck := range c.Cookies {
		cookies = append(cookies, &http.Cookie{Name: ck.Name, Value: ck.Value})
	}
	jar.SetCookies(origin, cookies)
}

// SnapshotJar captures the jar's cookies for the API origin so they can be
// persisted.
func SnapshotJar(jar http.CookieJar, baseURL string) []Cookie {
	origin, err := url.Parse(baseURL)
	if err != nil || origin.Host == "" {
		return nil
	}
	live := jar.Cookies(origin)
	cookies := make([]Cookie, 0, len(live))
	for _, ck := range live {
		cookies = append(cookies, Cookie{Name: ck.Name, Value: ck.Value})
	}
	return cookies
}

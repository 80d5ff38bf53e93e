package credstore

import (
	"net/http/cookiejar"
	"os"
	"path/filepath"
	"testing"

	"github.com/atlasbahamas/portal-client/pkg/portal"
)

func newTempStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "nested", "credentials.yaml"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return store
}

func TestLoadMissingFile(t *testing.T) {
	store := newTempStore(t)

	creds, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if creds != nil {
		t.Fatalf("missing file should mean not logged in, got %+v", creds)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := newTempStore(t)

	saved := &Credentials{
		Cookies: []Cookie{{Name: "ATLASBAHAMAS_SESSION", Value: "abc123"}},
		Session: &portal.Session{
			UserID:   7,
			FullName: "Tara Tenant",
			Username: "tara",
			Role:     portal.RoleTenant,
		},
	}
	if err := store.Save(saved); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.SavedAt.IsZero() {
		t.Fatal("Save must stamp SavedAt")
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded == nil || loaded.Session == nil {
		t.Fatalf("loaded = %+v", loaded)
	}
	if loaded.Session.Username != "tara" || loaded.Session.Role != portal.RoleTenant {
		t.Fatalf("session = %+v", loaded.Session)
	}
	if len(loaded.Cookies) != 1 || loaded.Cookies[0].Value != "abc123" {
		t.Fatalf("cookies = %+v", loaded.Cookies)
	}
}

func TestSavePermissions(t *testing.T) {
	store := newTempStore(t)

	if err := store.Save(&Credentials{}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	info, err := os.Stat(store.Path())
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("file mode = %o, want 600", perm)
	}
}

func TestClear(t *testing.T) {
	store := newTempStore(t)

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear on absent file: %v", err)
	}

	if err := store.Save(&Credentials{}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	creds, err := store.Load()
	if err != nil || creds != nil {
		t.Fatalf("Load after Clear = %+v, %v", creds, err)
	}
}

func TestJarRoundTrip(t *testing.T) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}

	creds := &Credentials{Cookies: []Cookie{{Name: "ATLASBAHAMAS_SESSION", Value: "xyz"}}}
	creds.SeedJar(jar, "http://localhost:8000")

	snapshot := SnapshotJar(jar, "http://localhost:8000")
	if len(snapshot) != 1 || snapshot[0].Name != "ATLASBAHAMAS_SESSION" || snapshot[0].Value != "xyz" {
		t.Fatalf("snapshot = %+v", snapshot)
	}
}

func TestJarBadOrigin(t *testing.T) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}

	(&Credentials{Cookies: []Cookie{{Name: "a", Value: "b"}}}).SeedJar(jar, "not a url")
	if got := SnapshotJar(jar, "not a url"); got != nil {
		t.Fatalf("snapshot of bad origin = %+v", got)
	}
}

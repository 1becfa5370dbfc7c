package backend

import (
	"context"
	"path/filepath"
	"testing"

	"findash/internal/config"
	"findash/internal/core"
)

func TestCreateBackendEachType(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	cases := []struct {
		name string
		cfg  Config
	}{
		{"jsonfile", Config{Type: JSONFileBackend, JSONDataDir: filepath.Join(dir, "json")}},
		{"sqlite", Config{Type: SQLiteBackend, SQLiteDBPath: filepath.Join(dir, "findash.db")}},
		{"memory", Config{Type: MemoryBackend}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			result, err := NewFactory(nil).CreateBackend(ctx, c.cfg)
			if err != nil {
				t.Fatalf("CreateBackend() error = %v", err)
			}
			if result.Cleanup != nil {
				defer func() {
					if err := result.Cleanup(); err != nil {
						t.Errorf("Cleanup() error = %v", err)
					}
				}()
			}

			p := core.UserProfile{ID: "u1", Name: "Ada", Email: "ada@example.com", PasswordHash: "h"}
			if err := result.Users.PutUser(ctx, p); err != nil {
				t.Fatalf("PutUser() error = %v", err)
			}
			got, err := result.Users.GetUser(ctx, "u1")
			if err != nil {
				t.Fatalf("GetUser() error = %v", err)
			}
			if got.Email != p.Email {
				t.Fatalf("GetUser() = %+v, want %+v", got, p)
			}

			if err := result.History.AppendEntry(ctx, "u1", core.HistoryEntry{ID: "e1"}); err != nil {
				t.Fatalf("AppendEntry() error = %v", err)
			}
			latest, err := result.History.LatestEntry(ctx, "u1")
			if err != nil {
				t.Fatalf("LatestEntry() error = %v", err)
			}
			if latest.ID != "e1" {
				t.Fatalf("LatestEntry().ID = %q, want e1", latest.ID)
			}
		})
	}
}

func TestCreateBackendRejectsInvalidConfig(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name string
		cfg  Config
	}{
		{"unknown type", Config{Type: BackendType("redis")}},
		{"jsonfile without dir", Config{Type: JSONFileBackend}},
		{"sqlite without path", Config{Type: SQLiteBackend}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := NewFactory(nil).CreateBackend(ctx, c.cfg); err == nil {
				t.Fatalf("CreateBackend(%+v) expected error", c.cfg)
			}
		})
	}
}

func TestFromAppConfig(t *testing.T) {
	cfg := &config.Config{
		DataBackend:  "sqlite",
		JSONDataDir:  "./data",
		SQLiteDBPath: "./data/findash.db",
	}

	bc, err := FromAppConfig(cfg)
	if err != nil {
		t.Fatalf("FromAppConfig() error = %v", err)
	}
	if bc.Type != SQLiteBackend || bc.SQLiteDBPath != "./data/findash.db" {
		t.Fatalf("FromAppConfig() = %+v", bc)
	}

	t.Run("nil config", func(t *testing.T) {
		if _, err := FromAppConfig(nil); err == nil {
			t.Fatal("expected error for nil config")
		}
	})

	t.Run("invalid backend", func(t *testing.T) {
		if _, err := FromAppConfig(&config.Config{DataBackend: "redis"}); err == nil {
			t.Fatal("expected error for unknown backend")
		}
	})
}

func TestBackendTypeIsValid(t *testing.T) {
	for _, bt := range GetBackendTypes() {
		if !bt.IsValid() {
			t.Fatalf("%s reported invalid", bt)
		}
	}
	if BackendType("redis").IsValid() {
		t.Fatal("redis reported valid")
	}
}

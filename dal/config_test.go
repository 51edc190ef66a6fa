package dal

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Host != "localhost" || cfg.Port != "5432" {
		t.Errorf("unexpected host defaults: %s:%s", cfg.Host, cfg.Port)
	}
	if cfg.MaxConns != 10 {
		t.Errorf("expected max_conns 10, got %d", cfg.MaxConns)
	}
	if cfg.ConnMaxLifetime != "1h" || cfg.ConnectTimeout != "5s" {
		t.Errorf("unexpected duration defaults: %s, %s", cfg.ConnMaxLifetime, cfg.ConnectTimeout)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid parts", Config{User: "svc", Name: "identity", ConnMaxLifetime: "1h", ConnectTimeout: "5s", MaxConns: 10}, false},
		{"valid dsn", Config{DSN: "postgres://svc:pw@db:5432/identity", ConnMaxLifetime: "1h", ConnectTimeout: "5s", MaxConns: 10}, false},
		{"missing user", Config{Name: "identity", ConnMaxLifetime: "1h", ConnectTimeout: "5s", MaxConns: 10}, true},
		{"missing name", Config{User: "svc", ConnMaxLifetime: "1h", ConnectTimeout: "5s", MaxConns: 10}, true},
		{"bad lifetime", Config{User: "svc", Name: "identity", ConnMaxLifetime: "soon", ConnectTimeout: "5s", MaxConns: 10}, true},
		{"min over max", Config{User: "svc", Name: "identity", ConnMaxLifetime: "1h", ConnectTimeout: "5s", MaxConns: 5, MinConns: 6}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() err=%v, wantErr=%v", err, tc.wantErr)
			}
		})
	}
}

func TestConfig_DSN(t *testing.T) {
	cfg := Config{User: "svc", Password: "pw", Host: "db", Port: "5433", Name: "identity"}
	want := "postgres://svc:pw@db:5433/identity"
	if got := cfg.dsn(); got != want {
		t.Errorf("dsn() = %q, want %q", got, want)
	}

	cfg.DSN = "postgres://other"
	if got := cfg.dsn(); got != "postgres://other" {
		t.Errorf("explicit DSN must win, got %q", got)
	}
}

func TestLoadSQLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.sql")
	if err := os.WriteFile(path, []byte("  SELECT * FROM users.customer\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	text, err := LoadSQLFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "SELECT * FROM users.customer" {
		t.Errorf("unexpected text: %q", text)
	}

	if _, err := LoadSQLFile(filepath.Join(dir, "missing.sql")); err == nil {
		t.Error("expected error for missing file")
	}

	empty := filepath.Join(dir, "empty.sql")
	_ = os.WriteFile(empty, []byte("  \n"), 0o600)
	if _, err := LoadSQLFile(empty); err == nil {
		t.Error("expected error for empty file")
	}
}

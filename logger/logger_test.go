package logger

import (
	"errors"
	"testing"
)

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Level != "info" {
		t.Errorf("expected level info, got %q", cfg.Level)
	}
	if cfg.Format != "json" {
		t.Errorf("expected format json, got %q", cfg.Format)
	}
	if cfg.Output != "stdout" {
		t.Errorf("expected output stdout, got %q", cfg.Output)
	}
	if !cfg.Timestamp {
		t.Error("expected timestamps on by default")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		level, format string
		wantErr       bool
	}{
		{"info", "json", false},
		{"debug", "console", false},
		{"verbose", "json", true},
		{"info", "xml", true},
	}
	for _, tc := range tests {
		cfg := Config{Level: tc.level, Format: tc.format, Output: "stdout"}
		err := cfg.Validate()
		if (err != nil) != tc.wantErr {
			t.Errorf("Validate(level=%q, format=%q) err=%v, wantErr=%v", tc.level, tc.format, err, tc.wantErr)
		}
	}
}

func TestFields(t *testing.T) {
	m := Fields("op", "insert", "rows", 3)
	if m["op"] != "insert" {
		t.Errorf("expected op=insert, got %v", m["op"])
	}
	if m["rows"] != 3 {
		t.Errorf("expected rows=3, got %v", m["rows"])
	}
	// Odd trailing value is dropped.
	if len(Fields("only")) != 0 {
		t.Error("expected dangling key to be dropped")
	}
}

func TestErrorFields(t *testing.T) {
	m := ErrorFields("fetch", errors.New("connection reset"))
	if m[FieldOperation] != "fetch" {
		t.Errorf("expected operation=fetch, got %v", m[FieldOperation])
	}
	if m[FieldError] != "connection reset" {
		t.Errorf("expected the error message, got %v", m[FieldError])
	}
}

func TestLogger_WithComponent(t *testing.T) {
	log := Nop().WithComponent("dal")
	// Must not panic and must keep returning a usable logger.
	log.Info("statement executed", Fields("rows", 1))
	log.WithError(nil).Debug("noop")
}

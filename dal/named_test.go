package dal

import (
	"encoding/json"
	"testing"

	"github.com/smplatform/identity/errors"
)

func TestRewriteNamed_OrderAndDedup(t *testing.T) {
	text := "UPDATE t SET a = %(a)s, b = %(b)s WHERE a <> %(a)s"
	rewritten, args, err := rewriteNamed(text, Payload{"a": 1, "b": 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "UPDATE t SET a = $1, b = $2 WHERE a <> $1"
	if rewritten != want {
		t.Errorf("got %q, want %q", rewritten, want)
	}
	if len(args) != 2 || args[0] != 1 || args[1] != 2 {
		t.Errorf("unexpected args: %v", args)
	}
}

func TestRewriteNamed_MissingParam(t *testing.T) {
	_, _, err := rewriteNamed("SELECT * FROM t WHERE id = %(id)s", Payload{})
	if !errors.HasCode(err, errors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
}

func TestRewriteNamed_NoPlaceholders(t *testing.T) {
	rewritten, args, err := rewriteNamed("SELECT 1", nil)
	if err != nil || rewritten != "SELECT 1" || len(args) != 0 {
		t.Errorf("got %q %v %v", rewritten, args, err)
	}
}

func TestRewriteBulk(t *testing.T) {
	batch := []Payload{
		{"username": "a", "password": "1"},
		{"username": "b", "password": "2"},
	}
	stmt, err := BuildBulkInsert(Descriptor{Table: "customer"}, batch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text, args, err := rewriteBulk(stmt.Text, stmt.Batch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "INSERT INTO customer (password, username) VALUES ($1, $2), ($3, $4)"
	if text != want {
		t.Errorf("got %q, want %q", text, want)
	}
	if len(args) != 4 || args[0] != "1" || args[1] != "a" || args[2] != "2" || args[3] != "b" {
		t.Errorf("unexpected args: %v", args)
	}
}

func TestRewriteBulk_Misaligned(t *testing.T) {
	_, _, err := rewriteBulk("INSERT INTO t (a) VALUES (%(a)s)", []Payload{{"a": 1}, {"a": 2}})
	if !errors.HasCode(err, errors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT for misaligned groups, got %v", err)
	}
}

func TestJSONParams_WrapsStructuredValues(t *testing.T) {
	stmt := Statement{
		Text: "INSERT INTO t (meta, tags, name, count) VALUES (%(meta)s, %(tags)s, %(name)s, %(count)s)",
		Params: Payload{
			"meta":  map[string]any{"k": "v"},
			"tags":  []string{"a", "b"},
			"name":  "alice",
			"count": 3,
		},
	}
	wrapped := JSONParams(stmt)

	if _, ok := wrapped.Params["meta"].(json.RawMessage); !ok {
		t.Errorf("expected meta wrapped as JSON, got %T", wrapped.Params["meta"])
	}
	if _, ok := wrapped.Params["tags"].(json.RawMessage); !ok {
		t.Errorf("expected tags wrapped as JSON, got %T", wrapped.Params["tags"])
	}
	if wrapped.Params["name"] != "alice" {
		t.Errorf("scalar string must pass through, got %v", wrapped.Params["name"])
	}
	if wrapped.Params["count"] != 3 {
		t.Errorf("scalar int must pass through, got %v", wrapped.Params["count"])
	}
	// Original statement is untouched.
	if _, ok := stmt.Params["meta"].(map[string]any); !ok {
		t.Error("JSONParams must not mutate the input statement")
	}
}

func TestJSONParams_Batch(t *testing.T) {
	stmt := Statement{
		Text:  "INSERT INTO t (meta) VALUES (%(meta)s)",
		Batch: []Payload{{"meta": map[string]any{"k": 1}}, {"meta": []int{1, 2}}},
	}
	wrapped := JSONParams(stmt)
	for i, p := range wrapped.Batch {
		if _, ok := p["meta"].(json.RawMessage); !ok {
			t.Errorf("payload %d: expected JSON wrapping, got %T", i, p["meta"])
		}
	}
}

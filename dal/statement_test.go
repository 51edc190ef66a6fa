package dal

import (
	"fmt"
	"strings"
	"testing"

	"github.com/smplatform/identity/errors"
)

var custDesc = Descriptor{Schema: "users", Table: "customer"}

func TestBuildSelect_Defaults(t *testing.T) {
	stmt := BuildSelect(custDesc, SelectOptions{})
	if stmt.Text != "SELECT * FROM users.customer" {
		t.Errorf("unexpected text: %q", stmt.Text)
	}
	if stmt.Params != nil {
		t.Errorf("expected no params, got %v", stmt.Params)
	}
}

func TestBuildSelect_AllOptions(t *testing.T) {
	stmt := BuildSelect(custDesc, SelectOptions{
		Fields:    []string{"id", "username"},
		Condition: Raw("exist = TRUE"),
		OrderBy:   "id DESC",
		Limit:     10,
		Offset:    20,
	})
	want := "SELECT id, username FROM users.customer WHERE exist = TRUE ORDER BY id DESC LIMIT 10 OFFSET 20"
	if stmt.Text != want {
		t.Errorf("got %q, want %q", stmt.Text, want)
	}
}

func TestBuildSelect_RawConditionVerbatim(t *testing.T) {
	// The raw escape hatch appends caller text untouched; the documented
	// trust boundary.
	raw := "username = 'alice' AND exist = TRUE"
	stmt := BuildSelect(custDesc, SelectOptions{Condition: Raw(raw)})
	if !strings.HasSuffix(stmt.Text, " WHERE "+raw) {
		t.Errorf("raw condition must be verbatim, got %q", stmt.Text)
	}
}

func TestBuildSelect_StructuredCondition(t *testing.T) {
	stmt := BuildSelect(custDesc, SelectOptions{
		Condition: And(Where("username", "=", "alice"), Where("exist", "=", true)),
	})
	if !strings.Contains(stmt.Text, "username = %(w_username_0)s AND exist = %(w_exist_1)s") {
		t.Errorf("unexpected predicate text: %q", stmt.Text)
	}
	if stmt.Params["w_username_0"] != "alice" {
		t.Errorf("expected username param, got %v", stmt.Params)
	}
	if stmt.Params["w_exist_1"] != true {
		t.Errorf("expected exist param, got %v", stmt.Params)
	}
}

func TestBuildInsert_ColumnsAndPlaceholdersCorrespond(t *testing.T) {
	p := Payload{"username": "alice", "password": "hash", "full_name": "Alice"}
	stmt := BuildInsert(custDesc, p)

	// Extract "(c1, c2, c3)" and "(%(k1)s, ...)" sections.
	open := strings.Index(stmt.Text, "(")
	closeIdx := strings.Index(stmt.Text, ")")
	cols := strings.Split(stmt.Text[open+1:closeIdx], ", ")

	valsPart := stmt.Text[strings.Index(stmt.Text, "VALUES (")+len("VALUES ("):]
	vals := strings.Split(strings.TrimSuffix(valsPart, ")"), ", ")

	if len(cols) != len(vals) {
		t.Fatalf("column list and placeholder list differ in length: %v vs %v", cols, vals)
	}
	for i, c := range cols {
		if want := fmt.Sprintf("%%(%s)s", c); vals[i] != want {
			t.Errorf("position %d: column %q has placeholder %q, want %q", i, c, vals[i], want)
		}
	}
	if len(stmt.Params) != 3 {
		t.Errorf("expected 3 params, got %v", stmt.Params)
	}
}

func TestBuildInsert_Returning(t *testing.T) {
	stmt := BuildInsert(custDesc, Payload{"username": "alice"}, "*")
	if !strings.HasSuffix(stmt.Text, " RETURNING *") {
		t.Errorf("expected RETURNING clause, got %q", stmt.Text)
	}
}

func TestBuildBulkInsert_EmptyBatch(t *testing.T) {
	_, err := BuildBulkInsert(custDesc, nil)
	if !errors.HasCode(err, errors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT for empty batch, got %v", err)
	}
}

func TestBuildBulkInsert_GroupPerPayload(t *testing.T) {
	batch := []Payload{
		{"username": "alice", "password": "h1"},
		{"username": "bob", "password": "h2"},
		{"username": "carol", "password": "h3"},
	}
	stmt, err := BuildBulkInsert(custDesc, batch, "id")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := strings.Count(stmt.Text, "(%(password)s, %(username)s)"); got != 3 {
		t.Errorf("expected 3 placeholder groups, got %d in %q", got, stmt.Text)
	}
	if !strings.HasSuffix(stmt.Text, " RETURNING id") {
		t.Errorf("expected RETURNING id, got %q", stmt.Text)
	}
	if len(stmt.Batch) != 3 {
		t.Errorf("expected batch of 3, got %d", len(stmt.Batch))
	}
}

func TestBuildUpdate(t *testing.T) {
	stmt := BuildUpdate(custDesc, Payload{"full_name": "Alice A"},
		Where("username", "=", "alice"), "*")
	want := "UPDATE users.customer SET full_name = %(full_name)s WHERE username = %(w_username_0)s RETURNING *"
	if stmt.Text != want {
		t.Errorf("got %q, want %q", stmt.Text, want)
	}
	if stmt.Params["full_name"] != "Alice A" || stmt.Params["w_username_0"] != "alice" {
		t.Errorf("unexpected params: %v", stmt.Params)
	}
}

func TestBuildSoftDelete(t *testing.T) {
	stmt := BuildSoftDelete(custDesc, Raw("id = 5"))
	want := "UPDATE users.customer SET exist = FALSE WHERE id = 5"
	if stmt.Text != want {
		t.Errorf("got %q, want %q", stmt.Text, want)
	}
}

func TestBuildDelete(t *testing.T) {
	stmt := BuildDelete(custDesc, Where("id", "=", 5), "id")
	want := "DELETE FROM users.customer WHERE id = %(w_id_0)s RETURNING id"
	if stmt.Text != want {
		t.Errorf("got %q, want %q", stmt.Text, want)
	}
	if stmt.Params["w_id_0"] != 5 {
		t.Errorf("unexpected params: %v", stmt.Params)
	}
}

func TestInsert_FromEntity(t *testing.T) {
	stmt := Insert(customer{Username: "alice"}, "*")
	if !strings.HasPrefix(stmt.Text, "INSERT INTO users.customer") {
		t.Errorf("unexpected text: %q", stmt.Text)
	}
	if stmt.Params["username"] != "alice" {
		t.Errorf("unexpected params: %v", stmt.Params)
	}
	if _, ok := stmt.Params["id"]; ok {
		t.Error("unset id must not appear in params")
	}
}

func TestBulkInsert_FromEntities(t *testing.T) {
	stmt, err := BulkInsert([]customer{{Username: "a"}, {Username: "b"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stmt.Batch) != 2 {
		t.Errorf("expected 2 payloads, got %d", len(stmt.Batch))
	}

	_, err = BulkInsert([]customer{})
	if !errors.HasCode(err, errors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
}

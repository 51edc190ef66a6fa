package dal

import (
	"fmt"
	"sort"
	"strings"

	"github.com/smplatform/identity/errors"
)

// Statement is a parameterized data-manipulation command plus its bound
// parameters, not yet executed. Exactly one of Params or Batch is set for
// parameterized statements. Statements are constructed per call and
// immediately consumed by the executor, never cached.
//
// Text uses named placeholders of the form %(name)s; the executor rewrites
// them to the driver's positional form at execution time.
type Statement struct {
	Text   string
	Params Payload
	Batch  []Payload
}

// SelectOptions tunes BuildSelect. The zero value selects every column with
// no predicate.
type SelectOptions struct {
	// Fields lists the columns to select; empty means *.
	Fields []string
	// Condition is the WHERE predicate (see Where and Raw).
	Condition Cond
	// OrderBy is appended verbatim after ORDER BY when non-empty.
	OrderBy string
	// Limit and Offset are appended when positive.
	Limit  int
	Offset int
}

// BuildSelect builds a SELECT against the descriptor's table.
func BuildSelect(d Descriptor, opts SelectOptions) Statement {
	cols := "*"
	if len(opts.Fields) > 0 {
		cols = strings.Join(opts.Fields, ", ")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s", cols, d.FullName())

	condText, params := compileCond(opts.Condition)
	if condText != "" {
		b.WriteString(" WHERE ")
		b.WriteString(condText)
	}
	if opts.OrderBy != "" {
		b.WriteString(" ORDER BY ")
		b.WriteString(opts.OrderBy)
	}
	if opts.Limit > 0 {
		fmt.Fprintf(&b, " LIMIT %d", opts.Limit)
	}
	if opts.Offset > 0 {
		fmt.Fprintf(&b, " OFFSET %d", opts.Offset)
	}
	return Statement{Text: b.String(), Params: params}
}

// BuildInsert builds a single-row INSERT from the payload. The column list
// and placeholder list are derived from the payload keys in one pass
// (sorted for determinism) so they always correspond positionally.
func BuildInsert(d Descriptor, p Payload, returning ...string) Statement {
	keys := sortedKeys(p)
	placeholders := make([]string, len(keys))
	for i, k := range keys {
		placeholders[i] = placeholder(k)
	}
	text := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		d.FullName(), strings.Join(keys, ", "), strings.Join(placeholders, ", "))
	return Statement{Text: text + returningClause(returning), Params: p}
}

// BuildBulkInsert builds one multi-row INSERT: a single placeholder group
// repeated per payload, with the payload list as the parameter batch.
// The column list is taken from the first payload only; callers must keep
// the batch uniform; divergent shapes are undefined behavior, not validated.
// An empty batch is malformed input.
func BuildBulkInsert(d Descriptor, batch []Payload, returning ...string) (Statement, error) {
	if len(batch) == 0 {
		return Statement{}, errors.Validation("bulk insert requires at least one payload")
	}
	keys := sortedKeys(batch[0])
	placeholders := make([]string, len(keys))
	for i, k := range keys {
		placeholders[i] = placeholder(k)
	}
	group := "(" + strings.Join(placeholders, ", ") + ")"
	groups := make([]string, len(batch))
	for i := range batch {
		groups[i] = group
	}

	text := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
		d.FullName(), strings.Join(keys, ", "), strings.Join(groups, ", "))
	return Statement{Text: text + returningClause(returning), Batch: batch}, nil
}

// BuildUpdate builds an UPDATE whose SET clause comes from the payload keys
// and whose WHERE predicate comes from cond.
func BuildUpdate(d Descriptor, p Payload, cond Cond, returning ...string) Statement {
	keys := sortedKeys(p)
	assignments := make([]string, len(keys))
	for i, k := range keys {
		assignments[i] = k + " = " + placeholder(k)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "UPDATE %s SET %s", d.FullName(), strings.Join(assignments, ", "))

	params := make(Payload, len(p))
	for k, v := range p {
		params[k] = v
	}
	appendWhere(&b, cond, params)
	b.WriteString(returningClause(returning))
	return Statement{Text: b.String(), Params: params}
}

// BuildSoftDelete builds an UPDATE that flips the conventional exist flag.
// Every soft-deletable table is assumed to carry an `exist` boolean column.
func BuildSoftDelete(d Descriptor, cond Cond, returning ...string) Statement {
	var b strings.Builder
	fmt.Fprintf(&b, "UPDATE %s SET exist = FALSE", d.FullName())
	params := Payload{}
	appendWhere(&b, cond, params)
	b.WriteString(returningClause(returning))
	if len(params) == 0 {
		params = nil
	}
	return Statement{Text: b.String(), Params: params}
}

// BuildDelete builds a hard DELETE.
func BuildDelete(d Descriptor, cond Cond, returning ...string) Statement {
	var b strings.Builder
	fmt.Fprintf(&b, "DELETE FROM %s", d.FullName())
	params := Payload{}
	appendWhere(&b, cond, params)
	b.WriteString(returningClause(returning))
	if len(params) == 0 {
		params = nil
	}
	return Statement{Text: b.String(), Params: params}
}

// --- Entity-level conveniences ---

// Select builds a SELECT for an entity type.
func Select(e Entity, opts SelectOptions) Statement {
	return BuildSelect(DescriptorOf(e), opts)
}

// Insert builds an INSERT from an entity instance.
func Insert(e Entity, returning ...string) Statement {
	return BuildInsert(DescriptorOf(e), PayloadOf(e), returning...)
}

// BulkInsert builds a multi-row INSERT from entity instances. Descriptor
// and column list come from the first entity.
func BulkInsert[E Entity](es []E, returning ...string) (Statement, error) {
	if len(es) == 0 {
		return Statement{}, errors.Validation("bulk insert requires at least one entity")
	}
	batch := make([]Payload, len(es))
	for i, e := range es {
		batch[i] = PayloadOf(e)
	}
	return BuildBulkInsert(DescriptorOf(es[0]), batch, returning...)
}

// Update builds an UPDATE from an entity instance's populated fields.
func Update(e Entity, cond Cond, returning ...string) Statement {
	return BuildUpdate(DescriptorOf(e), PayloadOf(e), cond, returning...)
}

// --- helpers ---

func placeholder(name string) string {
	return "%(" + name + ")s"
}

func sortedKeys(p Payload) []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func returningClause(cols []string) string {
	if len(cols) == 0 {
		return ""
	}
	return " RETURNING " + strings.Join(cols, ", ")
}

func appendWhere(b *strings.Builder, cond Cond, params Payload) {
	condText, condParams := compileCond(cond)
	if condText == "" {
		return
	}
	b.WriteString(" WHERE ")
	b.WriteString(condText)
	for k, v := range condParams {
		params[k] = v
	}
}

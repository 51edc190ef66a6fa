package dal

import (
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/smplatform/identity/errors"
)

// placeholderRe matches the named placeholder dialect %(name)s.
var placeholderRe = regexp.MustCompile(`%\(([A-Za-z0-9_]+)\)s`)

// rewriteNamed converts a single-payload statement from the %(name)s
// dialect to the driver's positional $n form. Each distinct name gets one
// positional argument regardless of how often it appears.
func rewriteNamed(text string, params Payload) (string, []any, error) {
	positions := map[string]int{}
	var args []any
	var missing string

	rewritten := placeholderRe.ReplaceAllStringFunc(text, func(m string) string {
		name := m[2 : len(m)-2]
		pos, ok := positions[name]
		if !ok {
			value, present := params[name]
			if !present {
				missing = name
				return m
			}
			args = append(args, value)
			pos = len(args)
			positions[name] = pos
		}
		return fmt.Sprintf("$%d", pos)
	})
	if missing != "" {
		return "", nil, errors.Validation(fmt.Sprintf("statement parameter %q has no value", missing))
	}
	return rewritten, args, nil
}

// rewriteBulk converts a multi-row statement (one identical placeholder
// group per payload, as emitted by BuildBulkInsert) to positional form:
// occurrence i binds to batch[i/groupSize], where groupSize is the number
// of placeholders per group.
func rewriteBulk(text string, batch []Payload) (string, []any, error) {
	total := len(placeholderRe.FindAllString(text, -1))
	if len(batch) == 0 || total == 0 || total%len(batch) != 0 {
		return "", nil, errors.Validation("bulk statement placeholders do not align with the payload batch")
	}
	groupSize := total / len(batch)

	args := make([]any, 0, total)
	var missing string
	i := 0
	rewritten := placeholderRe.ReplaceAllStringFunc(text, func(m string) string {
		name := m[2 : len(m)-2]
		value, present := batch[i/groupSize][name]
		if !present {
			missing = name
			return m
		}
		args = append(args, value)
		i++
		return fmt.Sprintf("$%d", len(args))
	})
	if missing != "" {
		return "", nil, errors.Validation(fmt.Sprintf("statement parameter %q has no value", missing))
	}
	return rewritten, args, nil
}

// orderedNames returns the distinct placeholder names in order of first
// appearance, with the statement text rewritten to positional form. Used by
// the batch executor, which binds the same statement once per payload.
func orderedNames(text string) (string, []string) {
	seen := map[string]int{}
	var names []string
	rewritten := placeholderRe.ReplaceAllStringFunc(text, func(m string) string {
		name := m[2 : len(m)-2]
		pos, ok := seen[name]
		if !ok {
			names = append(names, name)
			pos = len(names)
			seen[name] = pos
		}
		return fmt.Sprintf("$%d", pos)
	})
	return rewritten, names
}

func argsFor(names []string, p Payload) ([]any, error) {
	args := make([]any, len(names))
	for i, name := range names {
		value, ok := p[name]
		if !ok {
			return nil, errors.Validation(fmt.Sprintf("statement parameter %q has no value", name))
		}
		args[i] = value
	}
	return args, nil
}

// JSONParams returns a copy of the statement whose structured parameter
// values (maps and slices) are wrapped as JSON so the driver writes them to
// JSON columns instead of failing on an unsupported native type. Scalar
// values, byte slices, and already-encoded JSON pass through untouched.
func JSONParams(stmt Statement) Statement {
	if stmt.Params != nil {
		stmt.Params = wrapJSONValues(stmt.Params)
	}
	if stmt.Batch != nil {
		wrapped := make([]Payload, len(stmt.Batch))
		for i, p := range stmt.Batch {
			wrapped[i] = wrapJSONValues(p)
		}
		stmt.Batch = wrapped
	}
	return stmt
}

func wrapJSONValues(p Payload) Payload {
	out := make(Payload, len(p))
	for k, v := range p {
		out[k] = jsonValue(v)
	}
	return out
}

func jsonValue(v any) any {
	switch v.(type) {
	case nil, []byte, json.RawMessage, string:
		return v
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array:
		encoded, err := json.Marshal(v)
		if err != nil {
			// Leave the value as-is; the driver will report the real error
			// at execution time with full context.
			return v
		}
		return json.RawMessage(encoded)
	default:
		return v
	}
}

// sanitizeStatement trims a statement for log output.
func sanitizeStatement(text string) string {
	const max = 240
	text = strings.Join(strings.Fields(text), " ")
	if len(text) > max {
		return text[:max] + "…"
	}
	return text
}

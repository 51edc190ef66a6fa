// Package dal is the generic relational data access layer: entity
// descriptors, a pure SQL statement builder, and a transactional executor
// backed by a bounded pgx connection pool. It is deliberately not an ORM;
// statements are plain text with named %(name)s placeholders, and rows come
// back as ordered field-name → value mappings.
package dal

import (
	"reflect"
	"strings"
)

// Descriptor identifies a persisted record type's storage location.
// It is attached to entity types as a constant value and never appears
// in statement payloads.
type Descriptor struct {
	Schema string
	Table  string
}

// FullName returns "schema.table" when Schema is set, else just the table.
func (d Descriptor) FullName() string {
	if d.Schema != "" {
		return d.Schema + "." + d.Table
	}
	return d.Table
}

// Entity is implemented by every persisted record type. The descriptor is
// resolved by static dispatch; an empty Table falls back to the snake_case
// form of the type's name (see DescriptorOf).
type Entity interface {
	EntityDescriptor() Descriptor
}

// DescriptorOf resolves the effective descriptor for an entity, filling an
// empty table name with the snake_case of the entity's type name.
func DescriptorOf(e Entity) Descriptor {
	d := e.EntityDescriptor()
	if d.Table == "" {
		t := reflect.TypeOf(e)
		for t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
		d.Table = SnakeCase(t.Name())
	}
	return d
}

// SnakeCase converts a mixed/camel-case type name to snake_case by inserting
// an underscore before every uppercase letter not at position 0, then
// lowercasing. Consecutive uppercase letters each get their own separator
// ("ABCWidget" becomes "a_b_c_widget"); this literal behavior is relied on
// by existing table names and must not be replaced with an acronym-aware
// variant. The derivation is deterministic and idempotent.
func SnakeCase(name string) string {
	var b strings.Builder
	b.Grow(len(name) + 4)
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

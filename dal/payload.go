package dal

import (
	"reflect"
	"strings"
)

// Payload maps column names to values for a single statement execution.
// Keys are exactly the entity's populated fields; descriptor metadata is
// never a payload key.
type Payload = map[string]any

// PayloadOf derives a payload from an entity instance. Columns come from
// `db` struct tags (falling back to the snake_case field name); fields
// tagged `db:"-"` are excluded, and absent fields (nil pointers, nil maps,
// nil slices) are dropped. Pointer values are dereferenced.
func PayloadOf(e Entity) Payload {
	v := reflect.ValueOf(e)
	for v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	t := v.Type()

	p := make(Payload, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		col := f.Tag.Get("db")
		if col == "-" {
			continue
		}
		if idx := strings.Index(col, ","); idx >= 0 {
			col = col[:idx]
		}
		if col == "" {
			col = SnakeCase(f.Name)
		}

		fv := v.Field(i)
		switch fv.Kind() {
		case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
			if fv.IsNil() {
				continue
			}
			if fv.Kind() == reflect.Pointer {
				fv = fv.Elem()
			}
		}
		p[col] = fv.Interface()
	}
	return p
}

package table

import (
	"database/sql/driver"
	"fmt"
	"reflect"
	"strings"
	"time"
)

// Column describes one column of a table.
type Column[T any] struct {
	// ID identifies the column and must be unique within a table.
	ID string
	// AccessorKey names a struct field (by name, json/db tag or snake_case
	// form) or a map key. Ignored when Accessor is set.
	AccessorKey string
	Accessor    func(row T) any

	// Title is the explicit display title.
	Title string
	// Header is a plain string header, used when Title is empty.
	Header string

	Kind     Kind
	Renderer string

	Sortable   bool
	Filterable bool
	Hideable   bool
	Match      MatchMode

	// Width is a display hint in cells.
	Width int
}

func (c Column[T]) accessor() func(T) any {
	if c.Accessor != nil {
		return c.Accessor
	}
	key := c.AccessorKey
	if key == "" {
		key = c.ID
	}
	return keyAccessor[T](key)
}

func nilAccessor[T any](T) any { return nil }

// keyAccessor resolves key against T once and returns a reflective getter.
func keyAccessor[T any](key string) func(T) any {
	t := reflect.TypeOf((*T)(nil)).Elem()
	ptr := false
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
		ptr = true
	}

	switch t.Kind() {
	case reflect.Struct:
		idx, ok := findField(t, key)
		if !ok {
			return nilAccessor[T]
		}
		return func(row T) any {
			v := reflect.ValueOf(row)
			if !v.IsValid() {
				return nil
			}
			if ptr {
				if v.IsNil() {
					return nil
				}
				v = v.Elem()
			}
			f, err := v.FieldByIndexErr(idx)
			if err != nil {
				return nil
			}
			return f.Interface()
		}
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return nilAccessor[T]
		}
		mk := reflect.ValueOf(key).Convert(t.Key())
		return func(row T) any {
			v := reflect.ValueOf(row)
			if !v.IsValid() {
				return nil
			}
			if ptr {
				if v.IsNil() {
					return nil
				}
				v = v.Elem()
			}
			mv := v.MapIndex(mk)
			if !mv.IsValid() {
				return nil
			}
			return mv.Interface()
		}
	default:
		return nilAccessor[T]
	}
}

func findField(t reflect.Type, key string) ([]int, bool) {
	want := normalizeKey(key)
	var loose []int
	for _, f := range reflect.VisibleFields(t) {
		if !f.IsExported() || f.Anonymous {
			continue
		}
		if f.Name == key || tagName(f, "json") == key || tagName(f, "db") == key {
			return f.Index, true
		}
		if loose == nil && normalizeKey(f.Name) == want {
			loose = f.Index
		}
	}
	return loose, loose != nil
}

func tagName(f reflect.StructField, tag string) string {
	name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
	return name
}

func normalizeKey(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "_", "")
	return strings.ReplaceAll(s, "-", "")
}

// present unwraps pointers and driver.Valuer values (sql.Null*), reporting
// false when nothing is there.
func present(v any) (any, bool) {
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	v = rv.Interface()
	if valuer, ok := v.(driver.Valuer); ok {
		dv, err := valuer.Value()
		if err != nil || dv == nil {
			return nil, false
		}
		v = dv
	}
	return v, true
}

// stringValue is the canonical string form used for filtering.
func stringValue(v any) (string, bool) {
	v, ok := present(v)
	if !ok {
		return "", false
	}
	switch x := v.(type) {
	case string:
		return x, true
	case time.Time:
		if x.IsZero() {
			return "", false
		}
		return x.Format("2006-01-02"), true
	case []string:
		return strings.Join(x, ", "), true
	case fmt.Stringer:
		return x.String(), true
	default:
		return fmt.Sprint(x), true
	}
}

// compareValues orders two present values. Numbers, times and booleans
// compare natively; everything else compares by lower-cased string form.
func compareValues(a, b any) int {
	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	switch {
	case isInt(ra) && isInt(rb):
		return cmp3(ra.Int(), rb.Int())
	case isUint(ra) && isUint(rb):
		return cmp3(ra.Uint(), rb.Uint())
	case isNumber(ra) && isNumber(rb):
		return cmp3(toFloat(ra), toFloat(rb))
	case ra.Kind() == reflect.Bool && rb.Kind() == reflect.Bool:
		return cmp3(boolInt(ra.Bool()), boolInt(rb.Bool()))
	}
	if ta, ok := a.(time.Time); ok {
		if tb, ok := b.(time.Time); ok {
			return ta.Compare(tb)
		}
	}
	sa, _ := stringValue(a)
	sb, _ := stringValue(b)
	return strings.Compare(strings.ToLower(sa), strings.ToLower(sb))
}

func isInt(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func isUint(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

func isNumber(v reflect.Value) bool {
	return isInt(v) || isUint(v) || v.Kind() == reflect.Float32 || v.Kind() == reflect.Float64
}

func toFloat(v reflect.Value) float64 {
	switch {
	case isInt(v):
		return float64(v.Int())
	case isUint(v):
		return float64(v.Uint())
	default:
		return v.Float()
	}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func cmp3[N int | int64 | uint64 | float64](a, b N) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

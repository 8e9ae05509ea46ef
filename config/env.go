// Package config loads zipflow settings from YAML files and environment
// variables.
//
// Environment variable names follow the pattern:
//
//	{Prefix}_{SECTION}_{FIELD}
//
// Named nested structs add their field name as a path segment; embedded
// structs are flattened. Go field names are converted from CamelCase to
// UPPER_SNAKE_CASE:
//
//	BufferSize    → BUFFER_SIZE
//	PipeCapacity  → PIPE_CAPACITY
//	ReadTimeout   → READ_TIMEOUT
//
// Supported field types: string, bool, int*, uint*, float*, time.Duration and
// any type implementing encoding.TextUnmarshaler. Other fields are skipped.
//
// Example with the "serve" section:
//
//	ZIPFLOW_SERVE_ADDR=:8080
//	ZIPFLOW_SERVE_ARCHIVE_BUFFER_SIZE=131072
//	ZIPFLOW_SERVE_ARCHIVE_METHOD=store
//	ZIPFLOW_SERVE_READ_TIMEOUT=5s
package config

import (
	"encoding"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// DefaultPrefix is the environment variable prefix used by the package
// level functions.
const DefaultPrefix = "ZIPFLOW"

var (
	durationType        = reflect.TypeOf(time.Duration(0))
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
)

// Loader reads environment variables into settings structs.
type Loader struct {
	// Prefix for environment variable names.
	// Default: DefaultPrefix.
	Prefix string

	// lookup overrides os.LookupEnv for testing.
	lookup func(string) (string, bool)
}

func (l Loader) key(section string) string {
	prefix := l.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if s := normalizeSection(section); s != "" {
		return prefix + "_" + s
	}
	return prefix
}

func (l Loader) lookupEnv(key string) (string, bool) {
	if l.lookup != nil {
		return l.lookup(key)
	}
	return os.LookupEnv(key)
}

// Load overlays the struct pointed to by dst with values from environment
// variables. Fields without a set variable keep their current value, so
// Load is applied on top of defaults and file settings.
func (l Loader) Load(section string, dst any) error {
	v := reflect.ValueOf(dst)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("config: dst must be a pointer to a struct, got %T", dst)
	}
	return walk(l.key(section), v.Elem(), func(key string, fv reflect.Value) error {
		raw, ok := l.lookupEnv(key)
		if !ok {
			return nil
		}
		if err := setField(fv, raw); err != nil {
			return fmt.Errorf("config: %s: %w", key, err)
		}
		return nil
	})
}

// Keys returns the environment variable names Load checks for dst, which
// may be a struct or a pointer to one.
func (l Loader) Keys(section string, dst any) []string {
	t := reflect.TypeOf(dst)
	if t == nil {
		return nil
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}
	var keys []string
	_ = walk(l.key(section), reflect.New(t).Elem(), func(key string, _ reflect.Value) error {
		keys = append(keys, key)
		return nil
	})
	return keys
}

// Load overlays dst using a Loader with DefaultPrefix.
func Load(section string, dst any) error {
	return Loader{}.Load(section, dst)
}

// Keys returns the variable names for dst using a Loader with DefaultPrefix.
func Keys(section string, dst any) []string {
	return Loader{}.Keys(section, dst)
}

// walk calls fn for every settable leaf field of v with its variable name.
func walk(prefix string, v reflect.Value, fn func(key string, fv reflect.Value) error) error {
	t := v.Type()
	for i := range t.NumField() {
		field := t.Field(i)
		fv := v.Field(i)

		// Promoted fields of unexported embedded structs are still settable.
		if !field.IsExported() && !(field.Anonymous && field.Type.Kind() == reflect.Struct) {
			continue
		}

		key := prefix
		if !field.Anonymous {
			key = prefix + "_" + toUpperSnake(field.Name)
		}

		switch {
		case field.Type == durationType, isTextUnmarshaler(field.Type), isScalar(field.Type.Kind()):
			if !field.IsExported() {
				continue
			}
			if err := fn(key, fv); err != nil {
				return err
			}
		case field.Type.Kind() == reflect.Struct:
			if err := walk(key, fv, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

func isTextUnmarshaler(t reflect.Type) bool {
	return reflect.PointerTo(t).Implements(textUnmarshalerType)
}

func isScalar(k reflect.Kind) bool {
	switch k {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func setField(v reflect.Value, raw string) error {
	if v.Type() == durationType {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return err
		}
		v.SetInt(int64(d))
		return nil
	}
	if v.CanAddr() {
		if u, ok := v.Addr().Interface().(encoding.TextUnmarshaler); ok {
			return u.UnmarshalText([]byte(raw))
		}
	}

	switch v.Kind() {
	case reflect.String:
		v.SetString(raw)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(raw, 10, v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(raw, v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetFloat(f)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		v.SetBool(b)
	}
	return nil
}

// normalizeSection converts a section name to a variable name segment.
// Letters are uppercased, separators become underscores and anything else
// is dropped.
func normalizeSection(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(unicode.ToUpper(r))
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == ' ' || r == '_' || r == '.':
			b.WriteRune('_')
		}
	}
	return b.String()
}

// toUpperSnake converts a CamelCase field name to UPPER_SNAKE_CASE.
//
//	PipeCapacity → PIPE_CAPACITY
//	HTTPAddr     → HTTP_ADDR
func toUpperSnake(s string) string {
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteRune('_')
			}
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

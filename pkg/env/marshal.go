package env

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// MarshalEnv renders a struct tagged for caarlos0/env as .env content.
// Zero values are omitted, nested structs are flattened, and values that
// need it are double-quoted so godotenv reads them back unchanged. A desc
// tag is written as a comment above its variable.
func MarshalEnv(c any) (string, error) {
	v := reflect.ValueOf(c)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return "", fmt.Errorf("env: MarshalEnv expects a struct, got %s", v.Kind())
	}

	result := strings.Join(collect(v), "\n")
	if result != "" {
		result += "\n"
	}
	return result, nil
}

func collect(v reflect.Value) []string {
	var lines []string
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		val := v.Field(i)

		tag := field.Tag.Get("env")
		if tag == "" {
			if val.Kind() == reflect.Struct && field.Type != reflect.TypeOf(time.Time{}) {
				lines = append(lines, collect(val)...)
			}
			continue
		}

		// "KEY,required,notEmpty" -> KEY
		key := strings.Split(tag, ",")[0]
		if key == "" || isZeroValue(val) {
			continue
		}

		if desc := field.Tag.Get("desc"); desc != "" {
			lines = append(lines, "# "+desc)
		}
		lines = append(lines, fmt.Sprintf("%s=%s", key, quote(formatValue(val))))
	}
	return lines
}

// isZeroValue checks if a reflect.Value is the zero value for its type
func isZeroValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
		return v.IsNil()
	default:
		return v.IsZero()
	}
}

func formatValue(v reflect.Value) string {
	if d, ok := v.Interface().(time.Duration); ok {
		return d.String()
	}
	switch v.Kind() {
	case reflect.String:
		return v.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10)
	case reflect.Float32:
		return strconv.FormatFloat(v.Float(), 'f', -1, 32)
	case reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64)
	case reflect.Bool:
		return strconv.FormatBool(v.Bool())
	case reflect.Slice:
		parts := make([]string, v.Len())
		for i := range parts {
			parts[i] = formatValue(v.Index(i))
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprintf("%v", v.Interface())
	}
}

func quote(s string) string {
	if strings.ContainsAny(s, " \t#\"'\\=") {
		return strconv.Quote(s)
	}
	return s
}

package listquery

import (
	"fmt"
	"net/url"
	"reflect"
	"time"
)

// Encode serializes a flat value map into URL query values. Nil values,
// nil pointers and empty strings are dropped. Slices and arrays expand to
// repeated keys, skipping their own empty items.
func Encode(values map[string]any) url.Values {
	out := url.Values{}
	for key, value := range values {
		appendValue(out, key, value)
	}
	return out
}

func appendValue(out url.Values, key string, value any) {
	if value == nil {
		return
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return
		}
		appendValue(out, key, rv.Elem().Interface())
		return
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return
		}
		for i := 0; i < rv.Len(); i++ {
			appendValue(out, key, rv.Index(i).Interface())
		}
		return
	}
	if s := format(value); s != "" {
		out.Add(key, s)
	}
}

func format(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case time.Time:
		if v.IsZero() {
			return ""
		}
		return v.Format(time.RFC3339Nano)
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprint(value)
}

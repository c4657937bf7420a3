package value

import (
	"fmt"
	"reflect"
	"time"
)

// FromNative converts native Go data into state containers. Maps become *Map
// (non-string keys are formatted with fmt.Sprint), slices and arrays become
// *List, byte slices are copied, existing containers are returned as is and
// everything else is treated as a leaf.
func FromNative(v any) any {
	switch n := v.(type) {
	case nil, *Map, *List, string, bool, time.Time:
		return v
	case []byte:
		return copyBytes(n)
	case map[string]any:
		m := &Map{entries: make(map[string]any, len(n))}
		for key, entry := range n {
			m.entries[key] = FromNative(entry)
		}
		return m
	case []any:
		l := &List{items: make([]any, len(n))}
		for i, item := range n {
			l.items[i] = FromNative(item)
		}
		return l
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		if rv.IsNil() {
			return (*Map)(nil)
		}
		stringKeys := rv.Type().Key().Kind() == reflect.String
		m := &Map{entries: make(map[string]any, rv.Len())}
		iter := rv.MapRange()
		for iter.Next() {
			key := iter.Key()
			var name string
			if stringKeys {
				name = key.String()
			} else {
				name = fmt.Sprint(key.Interface())
			}
			m.entries[name] = FromNative(iter.Value().Interface())
		}
		return m
	case reflect.Slice:
		if rv.IsNil() {
			return (*List)(nil)
		}
		fallthrough
	case reflect.Array:
		l := &List{items: make([]any, rv.Len())}
		for i := 0; i < rv.Len(); i++ {
			l.items[i] = FromNative(rv.Index(i).Interface())
		}
		return l
	default:
		return v
	}
}

// ToNative converts containers back into map[string]any and []any trees.
// Shared containers are converted once per reference; cycles are cut by
// reporting the revisited container as nil.
func ToNative(v any) any {
	return toNative(v, map[any]struct{}{})
}

func toNative(v any, path map[any]struct{}) any {
	switch n := v.(type) {
	case *Map:
		if n == nil {
			return map[string]any(nil)
		}
		if _, ok := path[n]; ok {
			return nil
		}
		path[n] = struct{}{}
		defer delete(path, n)
		out := make(map[string]any, len(n.entries))
		for key, entry := range n.entries {
			out[key] = toNative(entry, path)
		}
		return out
	case *List:
		if n == nil {
			return []any(nil)
		}
		if _, ok := path[n]; ok {
			return nil
		}
		path[n] = struct{}{}
		defer delete(path, n)
		out := make([]any, len(n.items))
		for i, item := range n.items {
			out[i] = toNative(item, path)
		}
		return out
	default:
		return exposeLeaf(v)
	}
}

// exposeLeaf hands out leaves so callers cannot write through them into a
// container. Byte slices are the only mutable leaf kind FromNative keeps.
func exposeLeaf(v any) any {
	if b, ok := v.([]byte); ok {
		return copyBytes(b)
	}
	return v
}

func copyBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append([]byte{}, b...)
}

// Native returns the map as a map[string]any tree.
func (m *Map) Native() map[string]any {
	out, _ := ToNative(m).(map[string]any)
	return out
}

// Equal reports whether a and b hold the same data. Frozen state is ignored.
func Equal(a, b any) bool {
	return reflect.DeepEqual(ToNative(a), ToNative(b))
}

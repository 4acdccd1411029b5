package report

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"

	"github.com/hupe1980/autopsy/core"
)

// Marshal encodes v as indented JSON. Maps, slices and pointers that are
// already being encoded further up the current path are written as
// "[Circular <path>]" markers. Funcs and channels encode as null, errors as
// their message and interceptors as {"$interceptor": kind, "id": id}.
func Marshal(v any) ([]byte, error) {
	e := &encoder{onPath: map[visitKey]string{}}
	return json.MarshalIndent(e.walk(reflect.ValueOf(v), "~"), "", "  ")
}

type visitKey struct {
	ptr uintptr
	typ reflect.Type
	len int
}

type encoder struct {
	onPath map[visitKey]string
}

var (
	errorType     = reflect.TypeOf((*error)(nil)).Elem()
	marshalerType = reflect.TypeOf((*json.Marshaler)(nil)).Elem()
)

func (e *encoder) walk(v reflect.Value, path string) any {
	if !v.IsValid() {
		return nil
	}
	switch v.Kind() {
	case reflect.Interface:
		if v.IsNil() {
			return nil
		}
		return e.walk(v.Elem(), path)
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		if v.IsNil() {
			return nil
		}
	}
	if !v.CanInterface() {
		return nil
	}

	if ic, ok := v.Interface().(core.Interceptor); ok {
		return map[string]any{"$interceptor": ic.Kind().String(), "id": ic.ID()}
	}
	if v.Type().Implements(errorType) {
		return v.Interface().(error).Error()
	}
	if v.Type().Implements(marshalerType) {
		if raw, err := v.Interface().(json.Marshaler).MarshalJSON(); err == nil && json.Valid(raw) {
			return json.RawMessage(raw)
		}
	}

	switch v.Kind() {
	case reflect.Pointer:
		return e.enter(visitKey{ptr: v.Pointer(), typ: v.Type()}, path, func() any {
			return e.walk(v.Elem(), path)
		})
	case reflect.Map:
		return e.enter(visitKey{ptr: v.Pointer(), typ: v.Type()}, path, func() any {
			return e.walkMap(v, path)
		})
	case reflect.Slice:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return v.Bytes()
		}
		return e.enter(visitKey{ptr: v.Pointer(), typ: v.Type(), len: v.Len()}, path, func() any {
			return e.walkList(v, path)
		})
	case reflect.Array:
		return e.walkList(v, path)
	case reflect.Struct:
		return e.walkStruct(v, path)
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return nil
	case reflect.Complex64, reflect.Complex128:
		return fmt.Sprint(v.Complex())
	case reflect.Float32, reflect.Float64:
		if f := v.Float(); math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		return v.Interface()
	default:
		return v.Interface()
	}
}

// enter runs fn with key marked as being on the current path. A key that is
// already on the path yields the circular marker instead.
func (e *encoder) enter(key visitKey, path string, fn func() any) any {
	if at, ok := e.onPath[key]; ok {
		return "[Circular " + at + "]"
	}
	e.onPath[key] = path
	defer delete(e.onPath, key)
	return fn()
}

func (e *encoder) walkList(v reflect.Value, path string) any {
	out := make([]any, v.Len())
	for i := range out {
		out[i] = e.walk(v.Index(i), fmt.Sprintf("%s.%d", path, i))
	}
	return out
}

func (e *encoder) walkStruct(v reflect.Value, path string) any {
	out := map[string]any{}
	e.structFields(v, path, out)
	return out
}

func (e *encoder) structFields(v reflect.Value, path string, out map[string]any) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		name, omitEmpty, skip := parseTag(field)
		if skip {
			continue
		}
		fv := v.Field(i)
		if field.Anonymous && field.Tag.Get("json") == "" {
			if fv.Kind() == reflect.Pointer {
				if fv.IsNil() {
					continue
				}
				fv = fv.Elem()
			}
			if fv.Kind() == reflect.Struct {
				e.structFields(fv, path, out)
				continue
			}
		}
		if !field.IsExported() {
			continue
		}
		if omitEmpty && fv.IsZero() {
			continue
		}
		out[name] = e.walk(fv, path+"."+name)
	}
}

func parseTag(field reflect.StructField) (name string, omitEmpty, skip bool) {
	tag := field.Tag.Get("json")
	if tag == "-" {
		return "", false, true
	}
	name, opts, _ := strings.Cut(tag, ",")
	if name == "" {
		name = field.Name
	}
	for _, opt := range strings.Split(opts, ",") {
		if opt == "omitempty" {
			omitEmpty = true
		}
	}
	return name, omitEmpty, false
}

type mapEntry struct {
	key   string
	typ   string
	text  bool
	value reflect.Value
}

// walkMap encodes a map as an object. String keys keep their text. Other
// keys use their printed form; one that collides with a key already taken is
// suffixed with its type, then with a counter, so no value is lost. Entries
// are placed in a fixed order (string keys first, then by key and type), so
// the outcome does not depend on map iteration order.
func (e *encoder) walkMap(v reflect.Value, path string) any {
	entries := make([]mapEntry, 0, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		key, typ, text := mapKey(iter.Key())
		entries = append(entries, mapEntry{key: key, typ: typ, text: text, value: iter.Value()})
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.text != b.text {
			return a.text
		}
		if a.key != b.key {
			return a.key < b.key
		}
		return a.typ < b.typ
	})

	out := make(map[string]any, len(entries))
	for _, en := range entries {
		name := en.key
		if _, taken := out[name]; taken {
			name = fmt.Sprintf("%s (%s)", en.key, en.typ)
			for n := 2; ; n++ {
				if _, taken := out[name]; !taken {
					break
				}
				name = fmt.Sprintf("%s (%s)#%d", en.key, en.typ, n)
			}
		}
		out[name] = e.walk(en.value, path+"."+name)
	}
	return out
}

// mapKey returns the printed form of a map key, its dynamic type name and
// whether it is a string.
func mapKey(k reflect.Value) (key, typ string, text bool) {
	if k.Kind() == reflect.Interface {
		if k.IsNil() {
			return "<nil>", "nil", false
		}
		k = k.Elem()
	}
	typ = k.Type().String()
	if k.Kind() == reflect.String {
		return k.String(), typ, true
	}
	if k.CanInterface() {
		return fmt.Sprint(k.Interface()), typ, false
	}
	return fmt.Sprint(k), typ, false
}

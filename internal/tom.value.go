package internal

import (
	"fmt"
	"iter"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Indexer is implemented by values that can be indexed by a path segment.
type Indexer interface {
	Index(key string) (any, bool)
}

// Countable is implemented by values that report their own size.
type Countable interface {
	Count() (int, error)
}

// Cursor is a countable collection walked with Reset/Current/Next.
type Cursor interface {
	Countable
	Reset()
	Current() any
	Next()
}

// Stringify converts a resolved value to its template text.
func Stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		if val {
			return "1"
		}
		return ""
	case fmt.Stringer:
		return val.String()
	case error:
		return val.Error()
	case []byte:
		return string(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	}

	rv := indirect(reflect.ValueOf(v))
	if !rv.IsValid() {
		return ""
	}
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64)
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		if rv.Bool() {
			return "1"
		}
		return ""
	}
	return fmt.Sprint(rv.Interface())
}

// IsText returns true for values rendered as text and therefore escaped.
// Only nil, booleans and numbers are not text.
func IsText(v any) bool {
	switch v.(type) {
	case nil, bool:
		return false
	case string, []byte, fmt.Stringer, error:
		return true
	}

	rv := indirect(reflect.ValueOf(v))
	if !rv.IsValid() {
		return false
	}
	switch rv.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return false
	}
	return true
}

// IsComposite returns true for collections and structs that are not
// themselves text producers.
func IsComposite(v any) bool {
	switch v.(type) {
	case nil, []byte, fmt.Stringer, error:
		return false
	}
	rv := indirect(reflect.ValueOf(v))
	if !rv.IsValid() {
		return false
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map, reflect.Struct:
		return true
	}
	return false
}

// indirect dereferences pointers and interfaces until a concrete value.
func indirect(rv reflect.Value) reflect.Value {
	for rv.IsValid() && (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) {
		if rv.IsNil() {
			return reflect.Value{}
		}
		rv = rv.Elem()
	}
	return rv
}

// IndexValue indexes v by key. The second result reports whether v supports
// indexing by key at all; a miss on an indexable value yields (nil, true).
func IndexValue(v any, key string) (any, bool) {
	if ix, ok := v.(Indexer); ok {
		if val, found := ix.Index(key); found {
			return val, true
		}
		return nil, false
	}

	rv := indirect(reflect.ValueOf(v))
	if !rv.IsValid() {
		return nil, false
	}

	switch rv.Kind() {
	case reflect.Map:
		mk, ok := mapKey(rv.Type().Key(), key)
		if !ok {
			return nil, true
		}
		mv := rv.MapIndex(mk)
		if !mv.IsValid() {
			return nil, true
		}
		return mv.Interface(), true
	case reflect.Slice, reflect.Array:
		idx, err := strconv.Atoi(key)
		if err != nil {
			return nil, false
		}
		if idx < 0 || idx >= rv.Len() {
			return nil, true
		}
		return rv.Index(idx).Interface(), true
	}
	return nil, false
}

// mapKey converts a path segment to a key of the given map key type.
func mapKey(t reflect.Type, key string) (reflect.Value, bool) {
	switch t.Kind() {
	case reflect.String:
		return reflect.ValueOf(key).Convert(t), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return reflect.Value{}, false
		}
		return reflect.ValueOf(n).Convert(t), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(key, 10, 64)
		if err != nil {
			return reflect.Value{}, false
		}
		return reflect.ValueOf(n).Convert(t), true
	case reflect.Interface:
		return reflect.ValueOf(key), true
	}
	return reflect.Value{}, false
}

// exportedName upper-cases the first rune so template paths can use
// lower-case member names.
func exportedName(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToUpper(r)) + name[size:]
}

// MemberValue reads an exported struct field named name (or its capitalized form).
func MemberValue(v any, name string) (any, bool) {
	rv := indirect(reflect.ValueOf(v))
	if !rv.IsValid() || rv.Kind() != reflect.Struct {
		return nil, false
	}
	for _, candidate := range []string{name, exportedName(name)} {
		sf, ok := rv.Type().FieldByName(candidate)
		if !ok || !sf.IsExported() {
			continue
		}
		fv, err := rv.FieldByIndexErr(sf.Index)
		if err != nil {
			return nil, true
		}
		return fv.Interface(), true
	}
	return nil, false
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// CallMethod invokes a zero-argument method named name (or its capitalized
// form). Methods that need arguments, or whose trailing error is non-nil,
// yield nil. The second result reports whether a method was found.
func CallMethod(v any, name string) (any, bool) {
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	for _, candidate := range []string{name, exportedName(name)} {
		m := rv.MethodByName(candidate)
		if !m.IsValid() && rv.Kind() != reflect.Pointer && rv.Kind() != reflect.Interface {
			ptr := reflect.New(rv.Type())
			ptr.Elem().Set(rv)
			m = ptr.MethodByName(candidate)
		}
		if !m.IsValid() {
			continue
		}
		mt := m.Type()
		if mt.NumIn() != 0 || mt.NumOut() == 0 {
			return nil, true
		}
		out := m.Call(nil)
		switch {
		case len(out) == 1:
			if mt.Out(0) == errorType {
				return nil, true
			}
			return out[0].Interface(), true
		case len(out) == 2 && mt.Out(1) == errorType:
			if !out[1].IsNil() {
				return nil, true
			}
			return out[0].Interface(), true
		}
		return nil, true
	}
	return nil, false
}

// Count reports the size of v. countable is false for scalars.
func Count(v any) (n int, countable bool, err error) {
	if c, ok := v.(Countable); ok {
		n, err = c.Count()
		return n, true, err
	}
	rv := indirect(reflect.ValueOf(v))
	if !rv.IsValid() {
		return 0, false, nil
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len(), true, nil
	}
	return 0, false, nil
}

// Truthy applies loose truthiness: nil, false, zero numbers, "", "0" and
// empty collections are false.
func Truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != "" && val != "0"
	}
	if n, countable, err := Count(v); countable {
		return err == nil && n > 0
	}
	rv := indirect(reflect.ValueOf(v))
	if !rv.IsValid() {
		return false
	}
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool()
	case reflect.String:
		s := rv.String()
		return s != "" && s != "0"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0
	}
	return true
}

// IsEmpty is the negation of Truthy.
func IsEmpty(v any) bool {
	return !Truthy(v)
}

// ToNumber converts numeric values and numeric strings to float64.
func ToNumber(v any) (float64, bool) {
	rv := indirect(reflect.ValueOf(v))
	if !rv.IsValid() {
		return 0, false
	}
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	case reflect.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(rv.String()), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// LooseEqual compares numerically when both sides are numeric, by
// truthiness when either side is a bool, and by text otherwise.
func LooseEqual(a, b any) bool {
	if a == nil && b == nil {
		return true
	}
	_, aBool := a.(bool)
	_, bBool := b.(bool)
	if aBool || bBool {
		return Truthy(a) == Truthy(b)
	}
	if x, ok := ToNumber(a); ok {
		if y, ok := ToNumber(b); ok {
			return x == y
		}
	}
	return Stringify(a) == Stringify(b)
}

// Compare orders a and b numerically when possible, otherwise by text.
func Compare(a, b any) int {
	if x, ok := ToNumber(a); ok {
		if y, ok := ToNumber(b); ok {
			switch {
			case x < y:
				return -1
			case x > y:
				return 1
			default:
				return 0
			}
		}
	}
	return strings.Compare(Stringify(a), Stringify(b))
}

// Iterate returns a sequence over the items of v, or false if v is not
// iterable. Maps yield their values in sorted key order.
func Iterate(v any) (iter.Seq[any], bool) {
	switch val := v.(type) {
	case nil:
		return nil, false
	case iter.Seq[any]:
		return val, true
	case func(func(any) bool):
		return val, true
	case Cursor:
		return iterateCursor(val), true
	}

	rv := indirect(reflect.ValueOf(v))
	if !rv.IsValid() {
		return nil, false
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return func(yield func(any) bool) {
			for i := 0; i < rv.Len(); i++ {
				if !yield(rv.Index(i).Interface()) {
					return
				}
			}
		}, true
	case reflect.Map:
		keys := rv.MapKeys()
		sort.Slice(keys, func(i, j int) bool {
			return Compare(keys[i].Interface(), keys[j].Interface()) < 0
		})
		return func(yield func(any) bool) {
			for _, k := range keys {
				if !yield(rv.MapIndex(k).Interface()) {
					return
				}
			}
		}, true
	}
	return nil, false
}

func iterateCursor(c Cursor) iter.Seq[any] {
	return func(yield func(any) bool) {
		n, err := c.Count()
		if err != nil {
			return
		}
		c.Reset()
		for i := 0; i < n; i++ {
			if !yield(c.Current()) {
				return
			}
			c.Next()
		}
	}
}

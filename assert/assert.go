// Package assert holds the small set of test assertions used across the module.
// Every helper takes a trailing label that is printed on failure.
package assert

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

// Equal fails if want and got are not deeply equal.
func Equal(t testing.TB, want, got any, msg string) {
	t.Helper()
	if !reflect.DeepEqual(want, got) {
		t.Errorf("%s: want %#v, got %#v", msg, want, got)
	}
}

// NotEqual fails if a and b are deeply equal.
func NotEqual(t testing.TB, a, b any, msg string) {
	t.Helper()
	if reflect.DeepEqual(a, b) {
		t.Errorf("%s: values should differ, both are %#v", msg, a)
	}
}

// True fails if cond is false.
func True(t testing.TB, cond bool, msg string) {
	t.Helper()
	if !cond {
		t.Errorf("%s: expected true", msg)
	}
}

// False fails if cond is true.
func False(t testing.TB, cond bool, msg string) {
	t.Helper()
	if cond {
		t.Errorf("%s: expected false", msg)
	}
}

// Nil fails if v is not nil, including typed nils inside interfaces.
func Nil(t testing.TB, v any, msg string) {
	t.Helper()
	if !isNil(v) {
		t.Errorf("%s: expected nil, got %#v", msg, v)
	}
}

// NotNil fails if v is nil.
func NotNil(t testing.TB, v any, msg string) {
	t.Helper()
	if isNil(v) {
		t.Fatalf("%s: expected non-nil", msg)
	}
}

// Len fails if obj (slice, map, string) does not have length n.
func Len(t testing.TB, n int, obj any, msg string) {
	t.Helper()
	v := reflect.ValueOf(obj)
	switch v.Kind() {
	case reflect.Slice, reflect.Map, reflect.String, reflect.Array, reflect.Chan:
		if v.Len() != n {
			t.Errorf("%s: want len %d, got %d", msg, n, v.Len())
		}
	default:
		t.Errorf("%s: cannot take len of %T", msg, obj)
	}
}

// Contains fails if s does not contain substr.
func Contains(t testing.TB, s, substr, msg string) {
	t.Helper()
	if !strings.Contains(s, substr) {
		t.Errorf("%s: %q does not contain %q", msg, s, substr)
	}
}

// Error fails if err is nil.
func Error(t testing.TB, err error, msg string) {
	t.Helper()
	if err == nil {
		t.Fatalf("%s: expected error", msg)
	}
}

// NoError fails if err is not nil.
func NoError(t testing.TB, err error, msg string) {
	t.Helper()
	if err != nil {
		t.Fatalf("%s: unexpected error: %v", msg, err)
	}
}

// ErrorIs fails if err does not wrap target.
func ErrorIs(t testing.TB, err, target error, msg string) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Errorf("%s: want error wrapping %v, got %v", msg, target, err)
	}
}

// Greater fails unless a > b.
func Greater(t testing.TB, a, b int, msg string) {
	t.Helper()
	if a <= b {
		t.Errorf("%s: want %d > %d", msg, a, b)
	}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

package profile

import (
	"bytes"
	"encoding/json"
)

// Field is a JSON field that remembers whether its key was present. A present
// key with a null value decodes to Set=true, Value=nil, which is distinct from
// an absent key (Set=false).
type Field[T any] struct {
	Set   bool
	Value *T
}

// UnmarshalJSON is only invoked by encoding/json for keys present in the input.
func (f *Field[T]) UnmarshalJSON(b []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		f.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	f.Value = &v
	return nil
}

// IsNull reports whether the field was present with an explicit null.
func (f Field[T]) IsNull() bool {
	return f.Set && f.Value == nil
}

// Present builds a set field holding v.
func Present[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: &v}
}

// Null builds a set field holding an explicit null.
func Null[T any]() Field[T] {
	return Field[T]{Set: true}
}

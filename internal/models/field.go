package models

import "encoding/json"

// Field is a JSON member that remembers whether it was present in the
// request body. A present JSON null sets both Set and Null.
type Field[T any] struct {
	Value T
	Set   bool
	Null  bool
}

func Some[T any](v T) Field[T] {
	return Field[T]{Value: v, Set: true}
}

func Null[T any]() Field[T] {
	return Field[T]{Set: true, Null: true}
}

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if string(data) == "null" {
		f.Null = true
		var zero T
		f.Value = zero
		return nil
	}
	f.Null = false
	return json.Unmarshal(data, &f.Value)
}

// Ptr returns nil for an explicit null and a pointer to the value otherwise.
func (f Field[T]) Ptr() *T {
	if f.Null {
		return nil
	}
	v := f.Value
	return &v
}

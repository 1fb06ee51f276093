package models

import "encoding/json"

// Optional is a request field that tells "absent" apart from "null".
// Set is true whenever the key was present in the body; Null is true when
// its value was the JSON null.
type Optional[T any] struct {
	Value T
	Set   bool
	Null  bool
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}

func Null[T any]() Optional[T] {
	return Optional[T]{Set: true, Null: true}
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Null = true
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

// Ptr returns nil for null and a pointer to the value otherwise.
func (o Optional[T]) Ptr() *T {
	if o.Null {
		return nil
	}
	v := o.Value
	return &v
}

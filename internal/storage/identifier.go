package storage

import (
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"
)

var identifierPattern = regexp.MustCompile(`^[a-zA-Z0-9-]*$`)

// Identifier names a stored record. Identifiers double as file names, so they
// are restricted to letters, digits and hyphens.
type Identifier string

func (id Identifier) String() string {
	return string(id)
}

// Validate checks that the identifier is set and usable as a file name.
func (id Identifier) Validate() error {
	if id == "" {
		return fmt.Errorf("id must be set")
	}
	if !identifierPattern.MatchString(string(id)) {
		return fmt.Errorf("id must be alphanumeric")
	}
	return nil
}

// SmartIdentifier is a reference to a record in a Storer. It marshals as the
// bare key and is resolved to the record after loading.
type SmartIdentifier[T ValidatingSpec] struct {
	key string
	val T
}

func NewSmartIdentifier[T ValidatingSpec](key string) SmartIdentifier[T] {
	return SmartIdentifier[T]{key: key}
}

func NewResolvedSmartIdentifier[T ValidatingSpec](key string, val T) SmartIdentifier[T] {
	return SmartIdentifier[T]{key: key, val: val}
}

func (id *SmartIdentifier[T]) UnmarshalJSON(b []byte) error {
	return json.Unmarshal(b, &id.key)
}

func (id SmartIdentifier[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.key)
}

func (id SmartIdentifier[T]) Validate() error {
	if id.key == "" {
		return fmt.Errorf("%s identifier is required", typeName[T]())
	}
	return nil
}

// Resolve looks the key up in st. T must be a pointer type so a missing
// record can be detected.
func (id *SmartIdentifier[T]) Resolve(st Storer[T]) error {
	id.val = st.Get(id.key)
	if reflect.ValueOf(id.val).IsNil() {
		return fmt.Errorf("%s %q not found", typeName[T](), id.key)
	}
	return nil
}

// Key returns the referenced key.
func (id SmartIdentifier[T]) Key() string {
	return id.key
}

// Value returns the resolved record, or the zero value before Resolve.
func (id SmartIdentifier[T]) Value() T {
	return id.val
}

func typeName[T any]() string {
	var zero T
	t := reflect.TypeOf(zero)
	if t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return "record"
	}
	return t.Name()
}

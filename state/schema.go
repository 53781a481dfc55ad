// Package state describes the canonical structured record that flows through
// a workflow.
//
// A state type is a plain Go struct with exported fields only. Schema reads
// its shape once and then converts between values and Fields, rebuilds values
// from an exact field mapping, and merges partial updates field by field.
// An optional `state:"name"` tag renames a field.
package state

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

const tagName = "state"

// Fields is a field-name to value view of a state.
type Fields map[string]any

// Clone returns a shallow copy of f.
func (f Fields) Clone() Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Field describes one field of a state type.
type Field struct {
	Name  string
	Type  reflect.Type
	index int
}

// Schema is the compiled shape of the state type S. It is immutable and safe
// for concurrent use.
type Schema[S any] struct {
	typ    reflect.Type
	fields []Field
	byName map[string]int
}

// ShapeError reports a field mapping that does not match the state shape.
type ShapeError struct {
	Type    string
	Missing []string
	Extra   []string
}

func (e *ShapeError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing fields "+strings.Join(e.Missing, ", "))
	}
	if len(e.Extra) > 0 {
		parts = append(parts, "unexpected fields "+strings.Join(e.Extra, ", "))
	}
	return fmt.Sprintf("state %s: %s", e.Type, strings.Join(parts, "; "))
}

// NewSchema compiles the shape of S. S must be a struct whose fields are all
// exported and whose field names are unique after tag renaming.
func NewSchema[S any]() (*Schema[S], error) {
	typ := reflect.TypeOf((*S)(nil)).Elem()
	if typ.Kind() != reflect.Struct {
		return nil, fmt.Errorf("state type %s must be a struct, got %s", typ, typ.Kind())
	}

	s := &Schema[S]{
		typ:    typ,
		fields: make([]Field, 0, typ.NumField()),
		byName: make(map[string]int, typ.NumField()),
	}
	for i := 0; i < typ.NumField(); i++ {
		sf := typ.Field(i)
		if !sf.IsExported() {
			return nil, fmt.Errorf("state type %s: field %s is not exported", typ, sf.Name)
		}
		name := fieldName(sf)
		if _, dup := s.byName[name]; dup {
			return nil, fmt.Errorf("state type %s: duplicate field name %q", typ, name)
		}
		s.byName[name] = len(s.fields)
		s.fields = append(s.fields, Field{Name: name, Type: sf.Type, index: i})
	}
	return s, nil
}

// MustSchema is like NewSchema but panics on error.
func MustSchema[S any]() *Schema[S] {
	s, err := NewSchema[S]()
	if err != nil {
		panic(err)
	}
	return s
}

func fieldName(sf reflect.StructField) string {
	if tag, ok := sf.Tag.Lookup(tagName); ok {
		if name, _, _ := strings.Cut(tag, ","); name != "" {
			return name
		}
	}
	return sf.Name
}

// Type returns the reflected state type.
func (s *Schema[S]) Type() reflect.Type { return s.typ }

// Names returns the field names in declaration order.
func (s *Schema[S]) Names() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.Name
	}
	return names
}

// Field looks up a field by name.
func (s *Schema[S]) Field(name string) (Field, bool) {
	i, ok := s.byName[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// Fields returns the field view of v.
func (s *Schema[S]) Fields(v S) Fields {
	rv := reflect.ValueOf(v)
	out := make(Fields, len(s.fields))
	for _, f := range s.fields {
		out[f.Name] = rv.Field(f.index).Interface()
	}
	return out
}

// Build reconstructs a state value from an exact field mapping. Every field
// must be present and no other key may appear. Values are assigned as is, so
// pointers, channels and slices keep their identity.
func (s *Schema[S]) Build(fields Fields) (S, error) {
	return s.build(fields, false)
}

// Snapshot is like Build but gives slice and map fields their own backing
// storage, so writes through one snapshot are not visible in another.
// Elements are not copied.
func (s *Schema[S]) Snapshot(fields Fields) (S, error) {
	return s.build(fields, true)
}

func (s *Schema[S]) build(fields Fields, detach bool) (S, error) {
	var out S
	if err := s.checkShape(fields); err != nil {
		return out, err
	}

	rv := reflect.New(s.typ).Elem()
	for _, f := range s.fields {
		v := fields[f.Name]
		if err := checkAssignable(f, v); err != nil {
			return out, fmt.Errorf("state %s: field %s: %w", s.typ, f.Name, err)
		}
		if v == nil {
			continue
		}
		val := reflect.ValueOf(v)
		if detach {
			val = detachValue(val)
		}
		rv.Field(f.index).Set(val)
	}
	return rv.Interface().(S), nil
}

func detachValue(v reflect.Value) reflect.Value {
	switch v.Kind() {
	case reflect.Slice:
		if v.IsNil() {
			return v
		}
		c := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		reflect.Copy(c, v)
		return c
	case reflect.Map:
		if v.IsNil() {
			return v
		}
		c := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			c.SetMapIndex(iter.Key(), iter.Value())
		}
		return c
	}
	return v
}

// With returns a copy of v with the given fields replaced.
func (s *Schema[S]) With(v S, changes Fields) (S, error) {
	fields := s.Fields(v)
	var extra []string
	for k, val := range changes {
		if _, ok := s.byName[k]; !ok {
			extra = append(extra, k)
			continue
		}
		fields[k] = val
	}
	if len(extra) > 0 {
		sort.Strings(extra)
		var zero S
		return zero, &ShapeError{Type: s.typ.String(), Extra: extra}
	}
	return s.Build(fields)
}

func (s *Schema[S]) checkShape(fields Fields) error {
	var missing, extra []string
	for _, f := range s.fields {
		if _, ok := fields[f.Name]; !ok {
			missing = append(missing, f.Name)
		}
	}
	for k := range fields {
		if _, ok := s.byName[k]; !ok {
			extra = append(extra, k)
		}
	}
	if len(missing) == 0 && len(extra) == 0 {
		return nil
	}
	sort.Strings(extra)
	return &ShapeError{Type: s.typ.String(), Missing: missing, Extra: extra}
}

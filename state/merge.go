package state

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/tallen12/Resume-RAG/changeset"
)

// ErrUnknownField is returned when an update names a field the state does not
// have.
var ErrUnknownField = errors.New("unknown state field")

// FieldError reports a failure to merge one field of an update.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %q: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// Merge folds update into current and returns the new field mapping together
// with the names of the fields it wrote. current is never modified.
//
// update is either a struct whose field names are a subset of the state's,
// or a Fields/map[string]any. Each value is a changeset.ChangeSet or a raw
// value handled according to opts. Nil interface values and NoChange leave a
// field untouched and do not count as writes.
func (s *Schema[S]) Merge(current Fields, update any, opts ...changeset.Option) (Fields, []string, error) {
	if update == nil {
		return current, nil, nil
	}

	entries, err := s.updateEntries(update)
	if err != nil {
		return nil, nil, err
	}

	var (
		next    Fields
		written []string
	)
	for _, e := range entries {
		if changeset.IsNoop(e.value) {
			continue
		}
		f := s.fields[s.byName[e.name]]
		v, err := changeset.ApplyValue(current[e.name], e.value, opts...)
		if err != nil {
			return nil, nil, &FieldError{Field: e.name, Err: err}
		}
		if err := checkAssignable(f, v); err != nil {
			return nil, nil, &FieldError{Field: e.name, Err: err}
		}
		if next == nil {
			next = current.Clone()
		}
		next[e.name] = v
		written = append(written, e.name)
	}
	if next == nil {
		return current, nil, nil
	}
	return next, written, nil
}

type entry struct {
	name  string
	value any
}

// updateEntries lists the fields carried by an update in state declaration
// order.
func (s *Schema[S]) updateEntries(update any) ([]entry, error) {
	switch u := update.(type) {
	case Fields:
		return s.mapEntries(u)
	case map[string]any:
		return s.mapEntries(u)
	}

	rv := reflect.ValueOf(update)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("state %s: update must be a struct or field map, got %T", s.typ, update)
	}

	present := make(map[string]any, rv.NumField())
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		name := fieldName(sf)
		if _, ok := s.byName[name]; !ok {
			return nil, &FieldError{Field: name, Err: ErrUnknownField}
		}
		fv := rv.Field(i)
		if isNilInterface(fv) {
			continue
		}
		present[name] = fv.Interface()
	}
	return s.ordered(present), nil
}

func (s *Schema[S]) mapEntries(m map[string]any) ([]entry, error) {
	for k := range m {
		if _, ok := s.byName[k]; !ok {
			return nil, &FieldError{Field: k, Err: ErrUnknownField}
		}
	}
	return s.ordered(m), nil
}

func (s *Schema[S]) ordered(m map[string]any) []entry {
	out := make([]entry, 0, len(m))
	for _, f := range s.fields {
		if v, ok := m[f.Name]; ok {
			out = append(out, entry{name: f.Name, value: v})
		}
	}
	return out
}

// ValidateUpdateType checks that every exported field of the update type ut
// names a state field and can carry a value for it. Field maps are always
// accepted.
func (s *Schema[S]) ValidateUpdateType(ut reflect.Type) error {
	for ut.Kind() == reflect.Pointer {
		ut = ut.Elem()
	}
	if ut.Kind() == reflect.Map && ut.Key().Kind() == reflect.String {
		return nil
	}
	if ut.Kind() != reflect.Struct {
		return fmt.Errorf("update type %s must be a struct or field map", ut)
	}
	for i := 0; i < ut.NumField(); i++ {
		sf := ut.Field(i)
		if !sf.IsExported() {
			continue
		}
		name := fieldName(sf)
		f, ok := s.Field(name)
		if !ok {
			return fmt.Errorf("update type %s: field %q is not a field of %s", ut, name, s.typ)
		}
		// Interface-typed fields carry change sets; anything else is a raw value.
		if sf.Type.Kind() != reflect.Interface && !sf.Type.AssignableTo(f.Type) {
			return fmt.Errorf("update type %s: field %q has type %s, state field has type %s", ut, name, sf.Type, f.Type)
		}
	}
	return nil
}

func checkAssignable(f Field, v any) error {
	if v == nil {
		switch f.Type.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan:
			return nil
		}
		return fmt.Errorf("%w: nil is not a valid %s", changeset.ErrTypeMismatch, f.Type)
	}
	if vt := reflect.TypeOf(v); !vt.AssignableTo(f.Type) {
		return fmt.Errorf("%w: %s is not assignable to %s", changeset.ErrTypeMismatch, vt, f.Type)
	}
	return nil
}

func isNilInterface(v reflect.Value) bool {
	return v.Kind() == reflect.Interface && v.IsNil()
}

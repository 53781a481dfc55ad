package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"regexp"
	"strings"

	"github.com/invopop/jsonschema"
)

// ErrNotObject is returned when a JSON value that must be an object is not.
var ErrNotObject = errors.New("json value is not an object")

// JSONCodec encodes and decodes values of type T.
type JSONCodec[T any] struct {
	strict bool
	schema *jsonschema.Schema
}

// Option configures a JSONCodec.
type Option func(*options)

type options struct {
	strict                    bool
	allowAdditionalProperties bool
}

// DisallowUnknownFields makes Decode and FromObject reject objects with keys
// T does not declare.
func DisallowUnknownFields() Option {
	return func(o *options) { o.strict = true }
}

// AllowAdditionalProperties keeps additionalProperties open in the generated
// schema.
func AllowAdditionalProperties() Option {
	return func(o *options) { o.allowAdditionalProperties = true }
}

// NewJSONCodec returns a codec for T. The schema is reflected once, here.
func NewJSONCodec[T any](opts ...Option) *JSONCodec[T] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	r := &jsonschema.Reflector{
		ExpandedStruct:            true,
		DoNotReference:            true,
		AllowAdditionalProperties: o.allowAdditionalProperties,
	}
	var zero T
	return &JSONCodec[T]{
		strict: o.strict,
		schema: r.ReflectFromType(reflect.TypeOf(&zero).Elem()),
	}
}

// Encode marshals v.
func (c *JSONCodec[T]) Encode(v T) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode %T: %w", v, err)
	}
	return data, nil
}

// Decode unmarshals data into a new T.
func (c *JSONCodec[T]) Decode(data []byte) (T, error) {
	var v T
	dec := json.NewDecoder(bytes.NewReader(data))
	if c.strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(&v); err != nil {
		return v, fmt.Errorf("decode %T: %w", v, err)
	}
	if err := dec.Decode(&json.RawMessage{}); !errors.Is(err, io.EOF) {
		return v, fmt.Errorf("decode %T: trailing data after JSON value", v)
	}
	return v, nil
}

// ToObject encodes v as a generic JSON object. It fails with ErrNotObject
// when T does not encode to an object.
func (c *JSONCodec[T]) ToObject(v T) (map[string]any, error) {
	data, err := c.Encode(v)
	if err != nil {
		return nil, err
	}
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return nil, fmt.Errorf("encode %T: %w", v, err)
	}
	return EnforceObject(generic)
}

// FromObject decodes a generic JSON value into a new T.
func (c *JSONCodec[T]) FromObject(obj any) (T, error) {
	data, err := json.Marshal(obj)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("decode %T: %w", zero, err)
	}
	return c.Decode(data)
}

// Schema returns the JSON schema of T. Callers must not modify it.
func (c *JSONCodec[T]) Schema() *jsonschema.Schema {
	return c.schema
}

// SchemaJSON returns the JSON schema of T as JSON.
func (c *JSONCodec[T]) SchemaJSON() ([]byte, error) {
	data, err := json.Marshal(c.schema)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	return data, nil
}

// EnforceObject returns v as a JSON object.
func EnforceObject(v any) (map[string]any, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrNotObject, v)
	}
	return obj, nil
}

var fencedJSON = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(.*?)\\n?```")

// ExtractJSON pulls a JSON document out of a model response that may wrap it
// in a markdown code block or surrounding prose.
func ExtractJSON(response string) string {
	response = strings.TrimSpace(response)

	if strings.Contains(response, "```") {
		if m := fencedJSON.FindStringSubmatch(response); len(m) > 1 {
			return strings.TrimSpace(m[1])
		}
	}

	if start, end := strings.Index(response, "{"), strings.LastIndex(response, "}"); start >= 0 && end > start {
		return response[start : end+1]
	}
	if start, end := strings.Index(response, "["), strings.LastIndex(response, "]"); start >= 0 && end > start {
		return response[start : end+1]
	}
	return response
}

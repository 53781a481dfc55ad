package codec

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type profile struct {
	UserName string     `json:"user_name,omitempty"`
	UserID   *uuid.UUID `json:"user_id,omitempty"`
}

type bullets struct {
	BulletPoints []string `json:"bullet_points"`
}

func TestJSONCodec_EncodeDecode(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	c := NewJSONCodec[profile]()

	data, err := c.Encode(profile{UserName: "ada", UserID: &id})
	require.NoError(t, err)
	assert.JSONEq(t, `{"user_name":"ada","user_id":"`+id.String()+`"}`, string(data))

	got, err := c.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, "ada", got.UserName)
	require.NotNil(t, got.UserID)
	assert.Equal(t, id, *got.UserID)

	empty, err := c.Encode(profile{})
	require.NoError(t, err)
	assert.Equal(t, "{}", string(empty))
}

func TestJSONCodec_DecodeErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		codec *JSONCodec[profile]
		input string
	}{
		{name: "malformed", codec: NewJSONCodec[profile](), input: `{"user_name":`},
		{name: "wrong type", codec: NewJSONCodec[profile](), input: `{"user_name":1}`},
		{name: "trailing data", codec: NewJSONCodec[profile](), input: `{} {}`},
		{name: "trailing brace", codec: NewJSONCodec[profile](), input: `{"user_name":"a"}}`},
		{name: "trailing bracket", codec: NewJSONCodec[profile](), input: `{"user_name":"a"}]`},
		{name: "trailing garbage", codec: NewJSONCodec[profile](), input: `{"user_name":"a"} x`},
		{name: "unknown field in strict mode", codec: NewJSONCodec[profile](DisallowUnknownFields()), input: `{"role":"x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.codec.Decode([]byte(tt.input))
			assert.Error(t, err)
		})
	}

	_, err := NewJSONCodec[profile]().Decode([]byte(`{"role":"x"}`))
	assert.NoError(t, err, "unknown fields are ignored by default")

	_, err = NewJSONCodec[profile]().Decode([]byte("{\"user_name\":\"a\"}\n\t "))
	assert.NoError(t, err, "trailing whitespace is allowed")
}

func TestJSONCodec_Objects(t *testing.T) {
	t.Parallel()

	c := NewJSONCodec[bullets]()
	obj, err := c.ToObject(bullets{BulletPoints: []string{"a", "b"}})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"bullet_points": []any{"a", "b"}}, obj)

	back, err := c.FromObject(obj)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, back.BulletPoints)

	_, err = NewJSONCodec[[]string]().ToObject([]string{"x"})
	assert.ErrorIs(t, err, ErrNotObject)
}

func TestEnforceObject(t *testing.T) {
	t.Parallel()

	obj, err := EnforceObject(map[string]any{"k": 1.0})
	require.NoError(t, err)
	assert.Equal(t, 1.0, obj["k"])

	for _, v := range []any{nil, "s", 1.0, true, []any{}} {
		_, err := EnforceObject(v)
		assert.ErrorIs(t, err, ErrNotObject, "%T", v)
	}
}

func TestJSONCodec_Schema(t *testing.T) {
	t.Parallel()

	data, err := NewJSONCodec[bullets]().SchemaJSON()
	require.NoError(t, err)

	var schema struct {
		Type                 string                     `json:"type"`
		Properties           map[string]json.RawMessage `json:"properties"`
		Required             []string                   `json:"required"`
		AdditionalProperties *bool                      `json:"additionalProperties"`
	}
	require.NoError(t, json.Unmarshal(data, &schema))

	assert.Equal(t, "object", schema.Type)
	assert.Contains(t, schema.Properties, "bullet_points")
	assert.Equal(t, []string{"bullet_points"}, schema.Required)
	require.NotNil(t, schema.AdditionalProperties)
	assert.False(t, *schema.AdditionalProperties)

	var items struct {
		Type  string `json:"type"`
		Items struct {
			Type string `json:"type"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(schema.Properties["bullet_points"], &items))
	assert.Equal(t, "array", items.Type)
	assert.Equal(t, "string", items.Items.Type)

	open, err := NewJSONCodec[bullets](AllowAdditionalProperties()).SchemaJSON()
	require.NoError(t, err)
	assert.NotContains(t, string(open), `"additionalProperties":false`)
}

func TestExtractJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: `{"a":1}`, want: `{"a":1}`},
		{name: "fenced", in: "Here you go:\n```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "bare fence", in: "```\n[1,2]\n```", want: `[1,2]`},
		{name: "prose around object", in: `Sure! {"a":{"b":2}} Hope it helps.`, want: `{"a":{"b":2}}`},
		{name: "array", in: `result: [1, 2]`, want: `[1, 2]`},
		{name: "nothing", in: "  no json  ", want: "no json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractJSON(tt.in))
		})
	}
}

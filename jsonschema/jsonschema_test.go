package jsonschema_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rlch/typemock/extract"
	"github.com/rlch/typemock/jsonschema"
)

const (
	demoPath = "../testdata/demo.ts"
	edgePath = "../testdata/edge.ts"
)

func locate(t *testing.T, path, name string) *extract.Handle {
	t.Helper()

	h, ok, err := extract.Locate(path, name)
	require.NoError(t, err)
	require.True(t, ok, "declaration %s", name)

	return h
}

// generic returns the generated schema decoded into plain maps.
func generic(t *testing.T, h *extract.Handle) map[string]any {
	t.Helper()

	data, err := json.Marshal(jsonschema.Generate(h))
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))

	return out
}

func TestGenerate_Address(t *testing.T) {
	t.Parallel()

	s := jsonschema.Generate(locate(t, demoPath, "Address"))

	assert.Equal(t, "https://json-schema.org/draft/2020-12/schema", s.Version)
	assert.Equal(t, "Address", s.Title)
	assert.Equal(t, "A postal address.", s.Description)
	assert.Equal(t, "object", s.Type)
	assert.Equal(t, []string{"province", "city", "detail"}, s.Required)
	assert.Empty(t, s.Definitions)

	var keys []string
	for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}

	assert.Equal(t, []string{"province", "city", "detail", "zipCode"}, keys)

	zip, ok := s.Properties.Get("zipCode")
	require.True(t, ok)
	assert.Equal(t, "string", zip.Type)
	assert.Equal(t, "Postal code", zip.Description)
}

func TestGenerate_UserProfile(t *testing.T) {
	t.Parallel()

	doc := generic(t, locate(t, demoPath, "UserProfile"))

	props := doc["properties"].(map[string]any)

	level := props["level"].(map[string]any)
	assert.Equal(t, []any{"bronze", "silver", "gold", "platinum"}, level["enum"])

	address := props["address"].(map[string]any)
	assert.Equal(t, "#/$defs/Address", address["$ref"])

	tags := props["tags"].(map[string]any)
	assert.Equal(t, "array", tags["type"])
	assert.Equal(t, "#/$defs/UserTag", tags["items"].(map[string]any)["$ref"])

	settings := props["settings"].(map[string]any)
	assert.Equal(t, "object", settings["type"])
	assert.Equal(t, []any{"theme", "notifications", "language"}, settings["required"])
	assert.Equal(t, false, settings["additionalProperties"])

	defs := doc["$defs"].(map[string]any)
	assert.Len(t, defs, 2)
	assert.Contains(t, defs, "Address")
	assert.Contains(t, defs, "UserTag")
}

func TestGenerate_EdgeCases(t *testing.T) {
	t.Parallel()

	doc := generic(t, locate(t, edgePath, "Everything"))
	props := doc["properties"].(map[string]any)
	defs := doc["$defs"].(map[string]any)

	t.Run("enum declaration", func(t *testing.T) {
		t.Parallel()

		color := defs["Color"].(map[string]any)
		assert.Equal(t, []any{0.0, "green", 5.0, 6.0}, color["enum"])
	})

	t.Run("alias chain", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "#/$defs/Point", defs["PointRef"].(map[string]any)["$ref"])
		assert.Equal(t, "object", defs["Point"].(map[string]any)["type"])
	})

	t.Run("tuple", func(t *testing.T) {
		t.Parallel()

		pair := props["pair"].(map[string]any)
		assert.Len(t, pair["prefixItems"], 2)
		assert.Equal(t, false, pair["items"])
		assert.Equal(t, 2.0, pair["minItems"])
		assert.Equal(t, 2.0, pair["maxItems"])
	})

	t.Run("nullable object", func(t *testing.T) {
		t.Parallel()

		maybe := props["maybe"].(map[string]any)
		assert.Len(t, maybe["anyOf"], 2)
	})

	t.Run("merged intersection", func(t *testing.T) {
		t.Parallel()

		both := props["both"].(map[string]any)
		assert.Equal(t, []any{"a", "b"}, both["required"])
	})

	t.Run("cyclic alias", func(t *testing.T) {
		t.Parallel()

		loop := props["loop"].(map[string]any)
		assert.Equal(t, "Loop", loop["description"])
		assert.NotContains(t, loop, "$ref")
		assert.NotContains(t, defs, "Loop")
		assert.NotContains(t, defs, "LoopAgain")
	})

	t.Run("opaque", func(t *testing.T) {
		t.Parallel()

		external := props["external"].(map[string]any)
		assert.Equal(t, "External", external["description"])
	})

	t.Run("optional and readonly", func(t *testing.T) {
		t.Parallel()

		assert.NotContains(t, doc["required"], "legacy")
		assert.Equal(t, true, props["frozen"].(map[string]any)["readOnly"])
	})
}

func TestValidate_TemplateAndCyclicAlias(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "a.ts")
	src := "interface A {\n  s: `id-${string}`;\n  kind: `k-${number}` | \"plain\";\n  loop: Loop;\n}\ntype Loop = LoopAgain;\ntype LoopAgain = Loop;\n"
	require.NoError(t, os.WriteFile(path, []byte(src), 0o600))

	h := locate(t, path, "A")

	doc := generic(t, h)
	s := doc["properties"].(map[string]any)["s"].(map[string]any)
	assert.Equal(t, "string", s["type"])
	assert.Equal(t, "`id-${string}`", s["description"])
	assert.NotContains(t, s, "const")

	kind := doc["properties"].(map[string]any)["kind"].(map[string]any)
	assert.Len(t, kind["anyOf"], 2)
	assert.NotContains(t, kind, "enum")

	tests := []struct {
		name   string
		sample string
		valid  bool
	}{
		{"matching sample", `{"s": "id-7", "kind": "plain", "loop": 1}`, true},
		{"any value for a cyclic alias", `{"s": "id-7", "kind": "k-1", "loop": {"x": [1]}}`, true},
		{"template must be a string", `{"s": 7, "kind": "plain", "loop": 1}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res, err := jsonschema.Validate(h, []byte(tt.sample))
			require.NoError(t, err)
			assert.Equal(t, tt.valid, res.Valid, strings.Join(res.Errors, "\n"))
		})
	}
}

func TestGenerate_RecursiveDeclaration(t *testing.T) {
	t.Parallel()

	doc := generic(t, locate(t, edgePath, "ListNode"))

	next := doc["properties"].(map[string]any)["next"].(map[string]any)
	assert.Equal(t, "#/$defs/ListNode", next["$ref"])
	assert.Contains(t, doc["$defs"], "ListNode")
}

func TestValidate(t *testing.T) {
	t.Parallel()

	h := locate(t, demoPath, "UserProfile")

	v, err := jsonschema.NewValidator(h)
	require.NoError(t, err)

	valid := `{
		"id": "3f2b", "username": "ada", "email": "ada@example.com",
		"age": 36, "balance": 12.5, "isVip": true, "level": "gold",
		"hobbies": ["chess"], "favoriteArticleIds": [1, 2],
		"address": {"province": "ON", "city": "Toronto", "detail": "1 Main St"},
		"tags": [{"id": 1, "name": "early riser", "color": "#FF5733"}],
		"createdAt": "2024-01-01T00:00:00Z",
		"settings": {"theme": "dark", "notifications": false, "language": "en-US"}
	}`

	tests := []struct {
		name      string
		sample    string
		wantValid bool
	}{
		{name: "valid", sample: valid, wantValid: true},
		{
			name:      "wrong enum and missing field",
			sample:    `{"id": "x", "username": "u", "email": "e", "age": 1, "balance": 0, "isVip": false, "level": "diamond", "hobbies": [], "favoriteArticleIds": [], "address": {"province": "p", "city": "c"}, "tags": [], "createdAt": "t", "settings": {"theme": "light", "notifications": true, "language": "en"}}`,
			wantValid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res, err := v.Validate([]byte(tt.sample))
			require.NoError(t, err)
			assert.Equal(t, tt.wantValid, res.Valid, res.Errors)

			if tt.wantValid {
				assert.Empty(t, res.Errors)
				return
			}

			require.NotEmpty(t, res.Errors)

			joined := strings.Join(res.Errors, "\n")

			assert.Contains(t, joined, "/level")
			assert.Contains(t, joined, "/address")
			assert.Contains(t, joined, "detail")
		})
	}
}

func TestValidate_InvalidJSON(t *testing.T) {
	t.Parallel()

	_, err := jsonschema.Validate(locate(t, demoPath, "Address"), []byte("{nope"))
	require.ErrorIs(t, err, jsonschema.ErrInvalidJSON)
}

func TestValidate_AdditionalProperty(t *testing.T) {
	t.Parallel()

	res, err := jsonschema.Validate(locate(t, demoPath, "Address"),
		[]byte(`{"province": "p", "city": "c", "detail": "d", "country": "x"}`))
	require.NoError(t, err)
	assert.False(t, res.Valid)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "country")
}

package toggles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueTruthy(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want bool
	}{
		{"zero", Value{}, false},
		{"true", Bool(true), true},
		{"false", Bool(false), false},
		{"empty string", String(""), false},
		{"string false", String("false"), false},
		{"string", String("yarn"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.v.Truthy())
		})
	}
}

func TestParseValue(t *testing.T) {
	v, err := ParseValue(true)
	require.NoError(t, err)
	assert.Equal(t, Bool(true), v)

	v, err = ParseValue("pnpm")
	require.NoError(t, err)
	assert.True(t, v.IsString())
	assert.Equal(t, "pnpm", v.Str())

	_, err = ParseValue(3)
	assert.Error(t, err)
}

func TestParseFlag(t *testing.T) {
	assert.Equal(t, Bool(true), ParseFlag("true"))
	assert.Equal(t, Bool(false), ParseFlag(" FALSE "))
	assert.Equal(t, String("featureX"), ParseFlag("featureX"))
}

func TestTogglesWith(t *testing.T) {
	defaults := Toggles{"featureX": Bool(false), "lint": Bool(true)}
	merged := defaults.With(Toggles{"featureX": Bool(true)})

	assert.True(t, merged.Enabled("featureX"))
	assert.True(t, merged.Enabled("lint"))
	assert.False(t, defaults.Enabled("featureX"), "defaults must not be mutated")
	assert.False(t, merged.Enabled("missing"))
}

func TestFromMap(t *testing.T) {
	got, err := FromMap(map[string]any{"a": true, "b": "x"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got.Keys())

	_, err = FromMap(map[string]any{"bad": []any{1}})
	assert.Error(t, err)
}

package manifest

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeActionString(t *testing.T) {
	tests := []struct {
		action MergeAction
		want   string
		merge  bool
	}{
		{Override, "override", false},
		{MergeJSON, "mergeJson", true},
		{MergeFile, "mergeFile", true},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.action.String())
			assert.Equal(t, tt.merge, tt.action.IsMerge())
		})
	}
}

func TestFileActionJSON(t *testing.T) {
	a := FileAction{From: "/c/a.json", To: "/d/a.json", RelativePath: "a.json", Action: MergeJSON}

	data, err := json.Marshal(a)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"action":"mergeJson"`)

	var back FileAction
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, a, back)

	var bad MergeAction
	assert.Error(t, json.Unmarshal([]byte(`"squash"`), &bad))
}

func TestIgnoreEntries(t *testing.T) {
	m := Manifest{
		{RelativePath: "src/index.ts", GitPublish: true},
		{RelativePath: "tsconfig.json"},
		{RelativePath: ".babelrc", Success: true},
	}

	assert.Equal(t, []string{"src/index.ts", "tsconfig.json", ".babelrc"}, m.RelativePaths())
	assert.Equal(t, []string{"tsconfig.json", ".babelrc"}, m.IgnoreEntries())
	assert.Equal(t, 1, m.Succeeded())
}

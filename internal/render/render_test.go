package render

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tacogips/esops/internal/component"
	"github.com/tacogips/esops/internal/fsys"
	"github.com/tacogips/esops/internal/manifest"
	"github.com/tacogips/esops/internal/merge"
	"github.com/tacogips/esops/internal/toggles"
)

func writeTree(t *testing.T, fs fsys.FS, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		require.NoError(t, fs.WriteFile(filepath.Join(root, rel), []byte(content)))
	}
}

func readFile(t *testing.T, fs fsys.FS, p string) string {
	t.Helper()
	data, err := fs.ReadFile(p)
	require.NoError(t, err)
	return string(data)
}

func TestSkeletonClassifies(t *testing.T) {
	tg := toggles.Toggles{
		"mergeJson:package.json": toggles.Bool(true),
		"mergeFile:README.md":    toggles.Bool(true),
		"gitPublish:src/**":      toggles.Bool(true),
	}
	files := []string{"/comp/README.md", "/comp/package.json", "/comp/src/index.ts"}

	m, err := Skeleton("/comp", "/stage", files, tg)
	require.NoError(t, err)

	assert.Equal(t, manifest.Manifest{
		{From: "/comp/README.md", To: "/stage/README.md", RelativePath: "README.md", Action: manifest.MergeFile},
		{From: "/comp/package.json", To: "/stage/package.json", RelativePath: "package.json", Action: manifest.MergeJSON},
		{From: "/comp/src/index.ts", To: "/stage/src/index.ts", RelativePath: "src/index.ts", GitPublish: true},
	}, m)
}

func TestStageSequentialMerges(t *testing.T) {
	fs := fsys.Memory()
	writeTree(t, fs, "/", map[string]string{
		"a/package.json": `{"name":"a","scripts":{"build":"tsc"}}`,
		"b/package.json": `{"scripts":{"lint":"eslint"}}`,
		"a/notes.txt":    "from a",
		"b/notes.txt":    "from b",
	})

	m := manifest.Manifest{
		{From: "/a/package.json", To: "/stage/package.json", RelativePath: "package.json", Action: manifest.MergeJSON},
		{From: "/b/package.json", To: "/stage/package.json", RelativePath: "package.json", Action: manifest.MergeJSON},
		{From: "/a/notes.txt", To: "/stage/notes.txt", RelativePath: "notes.txt", Action: manifest.MergeFile},
		{From: "/b/notes.txt", To: "/stage/notes.txt", RelativePath: "notes.txt", Action: manifest.MergeFile},
	}

	staged, err := NewStager(fs).Stage(context.Background(), m)
	require.NoError(t, err)
	require.Len(t, staged, 4)
	for _, a := range staged {
		assert.True(t, a.Success)
	}
	assert.False(t, m[0].Success, "input manifest must not be mutated")

	assert.JSONEq(t, `{"name":"a","scripts":{"build":"tsc","lint":"eslint"}}`, readFile(t, fs, "/stage/package.json"))
	assert.Equal(t, "from a\nfrom b", readFile(t, fs, "/stage/notes.txt"))
}

func TestStageStopsAtFirstFailure(t *testing.T) {
	fs := fsys.Memory()
	writeTree(t, fs, "/", map[string]string{
		"a/index.ts": "a",
		"b/index.ts": "b",
		"b/other.ts": "other",
	})

	m := manifest.Manifest{
		{From: "/a/index.ts", To: "/stage/index.ts", RelativePath: "index.ts"},
		{From: "/b/index.ts", To: "/stage/index.ts", RelativePath: "index.ts"},
		{From: "/b/other.ts", To: "/stage/other.ts", RelativePath: "other.ts"},
	}

	staged, err := NewStager(fs).Stage(context.Background(), m)
	require.Error(t, err)
	assert.True(t, merge.IsFileNotToggledForMerge(err))
	assert.Len(t, staged, 1)
	assert.Equal(t, "a", readFile(t, fs, "/stage/index.ts"))
	assert.False(t, fs.Exists("/stage/other.ts"))
}

func TestStageHonoursCancellation(t *testing.T) {
	fs := fsys.Memory()
	writeTree(t, fs, "/", map[string]string{"a/x.txt": "x"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	staged, err := NewStager(fs).Stage(ctx, manifest.Manifest{
		{From: "/a/x.txt", To: "/stage/x.txt", RelativePath: "x.txt"},
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, staged)
	assert.False(t, fs.Exists("/stage/x.txt"))
}

func TestCommitManifestDedupes(t *testing.T) {
	staged := manifest.Manifest{
		{From: "/a/package.json", To: "/stage/package.json", RelativePath: "package.json", Action: manifest.Override, GitPublish: true, Success: true},
		{From: "/a/src/x.ts", To: "/stage/src/x.ts", RelativePath: "src/x.ts", Success: true},
		{From: "/b/package.json", To: "/stage/package.json", RelativePath: "package.json", Action: manifest.MergeJSON, Success: true},
	}

	got := CommitManifest(staged, "/proj")
	assert.Equal(t, manifest.Manifest{
		{From: "/stage/package.json", To: "/proj/package.json", RelativePath: "package.json", Action: manifest.MergeJSON},
		{From: "/stage/src/x.ts", To: "/proj/src/x.ts", RelativePath: "src/x.ts"},
	}, got)
}

func TestRenderComponent(t *testing.T) {
	fs := fsys.Memory()
	writeTree(t, fs, "/comp", map[string]string{
		"esops.toggles.json": `{
			"toggles": {"featureX": false},
			"include": {"feature/**": "featureX"},
			"mergeJson": {"package.json": true},
			"gitPublish": {"src/**": true}
		}`,
		"package.json": `{"name":"comp"}`,
		"src/index.ts": "export {}",
		"feature/x.ts": "x",
	})

	result, err := NewRenderer(fs).RenderComponent(context.Background(), "/comp", "/stage", nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"package.json", "src/index.ts"}, result.Manifest.RelativePaths())
	assert.Equal(t, []string{"feature/x.ts"}, result.Resolution.Excluded)
	assert.Equal(t, manifest.MergeJSON, result.Manifest[0].Action)
	assert.True(t, result.Manifest[1].GitPublish)
	assert.False(t, fs.Exists("/stage/esops.toggles.json"))
	assert.False(t, fs.Exists("/stage/feature/x.ts"))
	assert.Equal(t, "export {}", readFile(t, fs, "/stage/src/index.ts"))

	result, err = NewRenderer(fs).RenderComponent(context.Background(), "/comp", "/stage2",
		toggles.Toggles{"featureX": toggles.Bool(true)})
	require.NoError(t, err)
	assert.Contains(t, result.Manifest.RelativePaths(), "feature/x.ts")
}

func TestRenderComponentOrderingStable(t *testing.T) {
	fs := fsys.Memory()
	writeTree(t, fs, "/comp", map[string]string{
		"z.txt": "z", "a/b/c.txt": "c", "a/a.txt": "a", "m.txt": "m",
	})

	first, err := NewRenderer(fs).RenderComponent(context.Background(), "/comp", "/s1", nil)
	require.NoError(t, err)
	second, err := NewRenderer(fs).RenderComponent(context.Background(), "/comp", "/s2", nil)
	require.NoError(t, err)

	assert.Equal(t, first.Manifest.RelativePaths(), second.Manifest.RelativePaths())
	assert.Equal(t, []string{"a/a.txt", "a/b/c.txt", "m.txt", "z.txt"}, first.Manifest.RelativePaths())
}

func TestRenderComponentMissingRoot(t *testing.T) {
	_, err := NewRenderer(fsys.Memory()).RenderComponent(context.Background(), "/nope", "/stage", nil)
	require.Error(t, err)
	assert.True(t, component.IsPathNotFound(err))
}

func TestRenderComponentsShareStaging(t *testing.T) {
	fs := fsys.Memory()
	writeTree(t, fs, "/base", map[string]string{
		"esops.toggles.json": `{"mergeJson": {"package.json": true}}`,
		"package.json":       `{"name":"app","dependencies":{"a":"1"}}`,
	})
	writeTree(t, fs, "/lint", map[string]string{
		"esops.toggles.json": `{"mergeJson": {"package.json": true}}`,
		"package.json":       `{"devDependencies":{"eslint":"9"}}`,
	})

	r := NewRenderer(fs)
	_, err := r.RenderComponent(context.Background(), "/base", "/stage", nil)
	require.NoError(t, err)
	_, err = r.RenderComponent(context.Background(), "/lint", "/stage", nil)
	require.NoError(t, err)

	assert.JSONEq(t, `{"name":"app","dependencies":{"a":"1"},"devDependencies":{"eslint":"9"}}`,
		readFile(t, fs, "/stage/package.json"))
}

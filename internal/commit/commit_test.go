package commit

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tacogips/esops/internal/fsys"
	"github.com/tacogips/esops/internal/ignorefile"
	"github.com/tacogips/esops/internal/manifest"
	"github.com/tacogips/esops/internal/merge"
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

func entry(rel string, action manifest.MergeAction, publish bool) manifest.FileAction {
	return manifest.FileAction{
		From:         "/stage/" + rel,
		To:           "/proj/" + rel,
		RelativePath: rel,
		Action:       action,
		GitPublish:   publish,
	}
}

func TestPlan(t *testing.T) {
	fs := fsys.Memory()
	writeTree(t, fs, "/proj", map[string]string{
		"package.json": "{}",
		"index.ts":     "old",
	})

	p := NewEngine(fs).Plan(manifest.Manifest{
		entry("package.json", manifest.MergeJSON, false),
		entry("index.ts", manifest.Override, false),
		entry("new.ts", manifest.Override, false),
	})

	require.Len(t, p.Entries, 3)
	assert.True(t, p.HasConflicts())
	assert.Equal(t, "index.ts", p.Conflicts()[0].RelativePath)
	assert.Equal(t, "package.json", p.Merges()[0].RelativePath)
	assert.Equal(t, "new.ts", p.Creates()[0].RelativePath)
}

func TestCommitStagedCollisionLeavesTreeUntouched(t *testing.T) {
	fs := fsys.Memory()
	writeTree(t, fs, "/stage", map[string]string{
		"a.txt":    "new a",
		"index.ts": "new",
		"notes.md": "more",
	})
	writeTree(t, fs, "/proj", map[string]string{
		"index.ts":   "old",
		"notes.md":   "notes",
		".gitignore": "node_modules\n",
	})

	m := manifest.Manifest{
		entry("a.txt", manifest.Override, false),
		entry("index.ts", manifest.Override, false),
		entry("notes.md", manifest.MergeFile, false),
	}

	_, err := NewEngine(fs).Commit(context.Background(), m, "/proj", ModeStaged)
	require.Error(t, err)
	assert.True(t, merge.IsFileNotToggledForMerge(err))

	var me *merge.MergeError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, "index.ts", me.RelativePath)

	assert.Equal(t, "old", readFile(t, fs, "/proj/index.ts"))
	assert.Equal(t, "notes", readFile(t, fs, "/proj/notes.md"))
	assert.Equal(t, "node_modules\n", readFile(t, fs, "/proj/.gitignore"))
	assert.False(t, fs.Exists("/proj/a.txt"))
}

func TestCommitDirectOverwrites(t *testing.T) {
	fs := fsys.Memory()
	writeTree(t, fs, "/stage", map[string]string{"index.ts": "new"})
	writeTree(t, fs, "/proj", map[string]string{"index.ts": "old"})

	res, err := NewEngine(fs).Commit(context.Background(),
		manifest.Manifest{entry("index.ts", manifest.Override, false)}, "/proj", ModeDirect)
	require.NoError(t, err)
	assert.Equal(t, "new", readFile(t, fs, "/proj/index.ts"))
	assert.Equal(t, 1, res.Manifest.Succeeded())
}

func TestCommitMergesAndCopies(t *testing.T) {
	fs := fsys.Memory()
	writeTree(t, fs, "/stage", map[string]string{
		"package.json": `{"scripts":{"lint":"eslint"}}`,
		"src/index.ts": "export {}",
		"README.md":    "## Lint",
	})
	writeTree(t, fs, "/proj", map[string]string{
		"package.json": `{"name":"app","scripts":{"build":"tsc"}}`,
		"README.md":    "# App",
		".gitignore":   "node_modules\n",
	})

	m := manifest.Manifest{
		entry("README.md", manifest.MergeFile, true),
		entry("package.json", manifest.MergeJSON, true),
		entry("src/index.ts", manifest.Override, false),
	}

	res, err := NewEngine(fs).Commit(context.Background(), m, "/proj", ModeStaged)
	require.NoError(t, err)

	assert.JSONEq(t, `{"name":"app","scripts":{"build":"tsc","lint":"eslint"}}`, readFile(t, fs, "/proj/package.json"))
	assert.Equal(t, "# App\n## Lint", readFile(t, fs, "/proj/README.md"))
	assert.Equal(t, "export {}", readFile(t, fs, "/proj/src/index.ts"))

	assert.Equal(t, 3, res.Manifest.Succeeded())
	assert.True(t, res.GitignoreUpdated())
	assert.False(t, res.NpmignoreUpdated())
	assert.False(t, fs.Exists("/proj/.npmignore"))
	assert.Equal(t,
		"node_modules\n"+ignorefile.BeginMarker+"\n/src/index.ts\n"+ignorefile.EndMarker+"\n",
		readFile(t, fs, "/proj/.gitignore"))
}

func TestCommitUpdatesBothIgnoreFiles(t *testing.T) {
	fs := fsys.Memory()
	writeTree(t, fs, "/stage", map[string]string{"tsconfig.json": "{}"})
	writeTree(t, fs, "/proj", map[string]string{".gitignore": "", ".npmignore": ""})

	res, err := NewEngine(fs).Commit(context.Background(),
		manifest.Manifest{entry("tsconfig.json", manifest.Override, false)}, "/proj", ModeStaged)
	require.NoError(t, err)

	assert.Equal(t, []IgnoreUpdate{{".gitignore", true}, {".npmignore", true}}, res.IgnoreUpdates)
	want := ignorefile.BeginMarker + "\n/tsconfig.json\n" + ignorefile.EndMarker + "\n"
	assert.Equal(t, want, readFile(t, fs, "/proj/.gitignore"))
	assert.Equal(t, want, readFile(t, fs, "/proj/.npmignore"))
}

func TestCommitMergeMismatchStops(t *testing.T) {
	fs := fsys.Memory()
	writeTree(t, fs, "/stage", map[string]string{"package.json": `{"a":1}`, "z.txt": "z"})
	writeTree(t, fs, "/proj", map[string]string{"package.json": "broken"})

	res, err := NewEngine(fs).Commit(context.Background(), manifest.Manifest{
		entry("package.json", manifest.MergeJSON, false),
		entry("z.txt", manifest.Override, false),
	}, "/proj", ModeStaged)
	require.Error(t, err)
	assert.True(t, merge.IsMergeTypeMismatch(err))
	assert.Equal(t, 0, res.Manifest.Succeeded())
	assert.False(t, fs.Exists("/proj/z.txt"))
}

func TestCommitCustomIgnoreFiles(t *testing.T) {
	fs := fsys.Memory()
	writeTree(t, fs, "/stage", map[string]string{"x": "x"})
	writeTree(t, fs, "/proj", map[string]string{".dockerignore": "", ".gitignore": ""})

	e := NewEngine(fs)
	e.IgnoreFiles = []string{".dockerignore"}
	res, err := e.Commit(context.Background(), manifest.Manifest{entry("x", manifest.Override, false)}, "/proj", ModeStaged)
	require.NoError(t, err)

	assert.True(t, res.IgnoreUpdated(".dockerignore"))
	assert.False(t, res.GitignoreUpdated())
	assert.Equal(t, "", readFile(t, fs, "/proj/.gitignore"))
}

func TestCommitLeavesUnlistedSiblingsAlone(t *testing.T) {
	fs := fsys.Memory()
	writeTree(t, fs, "/stage", map[string]string{
		"package.json": `{"scripts":{"lint":"eslint"}}`,
	})
	writeTree(t, fs, "/proj", map[string]string{
		"package.json":     `{"name":"app"}`,
		"package.json.tmp": "USER DATA",
		".gitignore":       "node_modules\n",
		".gitignore.tmp":   "USER IGNORE",
	})

	m := manifest.Manifest{entry("package.json", manifest.MergeJSON, false)}
	_, err := NewEngine(fs).Commit(context.Background(), m, "/proj", ModeStaged)
	require.NoError(t, err)

	assert.JSONEq(t, `{"name":"app","scripts":{"lint":"eslint"}}`, readFile(t, fs, "/proj/package.json"))
	assert.Equal(t, "USER DATA", readFile(t, fs, "/proj/package.json.tmp"))
	assert.Equal(t, "USER IGNORE", readFile(t, fs, "/proj/.gitignore.tmp"))
	assert.Contains(t, readFile(t, fs, "/proj/.gitignore"), "/package.json")

	entries, err := fs.ReadDir("/proj")
	require.NoError(t, err)
	assert.Len(t, entries, 4)
}

// cancelAfterCopyFS cancels a context once the first file has been copied.
type cancelAfterCopyFS struct {
	fsys.FS
	cancel context.CancelFunc
}

func (c *cancelAfterCopyFS) ForceCopy(src, dst string) error {
	err := c.FS.ForceCopy(src, dst)
	c.cancel()
	return err
}

func TestCommitRunsToCompletionOnceStarted(t *testing.T) {
	mem := fsys.Memory()
	writeTree(t, mem, "/stage", map[string]string{"a": "A", "b": "B", "c": "C"})
	writeTree(t, mem, "/proj", map[string]string{".gitignore": "x\n", ".npmignore": "y\n"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	fs := &cancelAfterCopyFS{FS: mem, cancel: cancel}

	m := manifest.Manifest{
		entry("a", manifest.Override, false),
		entry("b", manifest.Override, false),
		entry("c", manifest.Override, false),
	}
	res, err := NewEngine(fs).Commit(ctx, m, "/proj", ModeStaged)
	require.NoError(t, err)
	require.Error(t, ctx.Err())

	assert.Equal(t, 3, res.Manifest.Succeeded())
	assert.Equal(t, "A", readFile(t, mem, "/proj/a"))
	assert.Equal(t, "B", readFile(t, mem, "/proj/b"))
	assert.Equal(t, "C", readFile(t, mem, "/proj/c"))
	assert.True(t, res.GitignoreUpdated())
	assert.True(t, res.NpmignoreUpdated())
	assert.Contains(t, readFile(t, mem, "/proj/.gitignore"), "/a\n/b\n/c\n")
	assert.Contains(t, readFile(t, mem, "/proj/.npmignore"), "/a\n/b\n/c\n")
}

func TestCommitCancelledBeforeStart(t *testing.T) {
	fs := fsys.Memory()
	writeTree(t, fs, "/stage", map[string]string{"a": "A"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewEngine(fs).Commit(ctx, manifest.Manifest{entry("a", manifest.Override, false)}, "/proj", ModeStaged)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, fs.Exists("/proj/a"))
}

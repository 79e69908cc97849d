package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderMarkdown_Plain(t *testing.T) {
	md := "# Files\n\n- `a.txt`\n"
	assert.Equal(t, md, renderMarkdown(md, false))
}

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	prevOut, prevErr := stdout, stderr
	stdout, stderr = buf, buf
	t.Cleanup(func() { stdout, stderr = prevOut, prevErr })
	return buf
}

func isolateEnv(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(home, "cache"))
	xdg.Reload()
	t.Cleanup(xdg.Reload)
	staging := filepath.Join(home, "staging")
	t.Setenv("ESOPS_STAGING__DIR", staging)
	return staging
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestRenderCommand(t *testing.T) {
	staging := isolateEnv(t)
	out := captureOutput(t)

	comp := t.TempDir()
	writeFile(t, filepath.Join(comp, "README.md"), "# hello\n")
	writeFile(t, filepath.Join(comp, "package.json"), `{"name":"base","scripts":{"build":"tsc"}}`)
	writeFile(t, filepath.Join(comp, "esops.toggles.yaml"), "mergeJson:\n  package.json: true\ngitPublish:\n  README.md: true\n")

	dest := t.TempDir()
	writeFile(t, filepath.Join(dest, "package.json"), `{"name":"app","private":true}`)
	writeFile(t, filepath.Join(dest, ".gitignore"), "node_modules\n")

	rootCmd.SetArgs([]string{"render", comp, "-C", dest, "--yes", "--no-color"})
	require.NoError(t, rootCmd.Execute(), out.String())

	readme, err := os.ReadFile(filepath.Join(dest, "README.md"))
	require.NoError(t, err)
	assert.Equal(t, "# hello\n", string(readme))

	pkg, err := os.ReadFile(filepath.Join(dest, "package.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"base","private":true,"scripts":{"build":"tsc"}}`, string(pkg))

	gitignore, err := os.ReadFile(filepath.Join(dest, ".gitignore"))
	require.NoError(t, err)
	assert.Contains(t, string(gitignore), "node_modules\n")
	assert.Contains(t, string(gitignore), "/package.json")
	assert.NotContains(t, string(gitignore), "/README.md")

	entries, err := os.ReadDir(staging)
	if err == nil {
		assert.Empty(t, entries, "staging directory should be removed")
	}
}

func TestVersionCommand(t *testing.T) {
	out := captureOutput(t)

	rootCmd.SetArgs([]string{"version", "--short"})
	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "dev\n", out.String())
}

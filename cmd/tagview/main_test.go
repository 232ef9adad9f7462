package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// project writes a config, a manifest and a view directory to a temporary
// directory and returns the config path.
func project(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"tagview.yaml": "views:\n  - path: views\ncache_dir: cache\nmanifest: components.yaml\n",
		"components.yaml": `components:
  - name: alert
    class: example.com/ui.Alert
    tags: ["alert:{type}"]
  - name: logo
    class: example.com/ui.Logo
    render: static
    tags: ["logo"]
`,
		"views/page.html": `<main><alert:info>Hi {{.Name}}</alert:info><logo></logo></main>`,
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return filepath.Join(dir, "tagview.yaml")
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "tagview version "+version+"\n", out)
}

func TestComponents(t *testing.T) {
	out, err := run(t, "components", "--config", project(t))
	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "example.com/ui.Alert")
	assert.Regexp(t, `logo\s+static\s+0\s+logo`, out)
}

func TestCompile(t *testing.T) {
	config := project(t)
	out, err := run(t, "compile", "-c", config, "page.html")
	require.NoError(t, err)
	assert.Contains(t, out, `{{component "alert" "`)
	assert.Contains(t, out, "<!-- logo -->")
	assert.NoDirExists(t, filepath.Join(filepath.Dir(config), "cache"))

	_, err = run(t, "compile", "-c", config, "missing.html")
	assert.Error(t, err)

	_, err = run(t, "compile", "-c", config)
	assert.Error(t, err)
}

func TestCache(t *testing.T) {
	config := project(t)
	cache := filepath.Join(filepath.Dir(config), "cache")
	require.NoError(t, os.MkdirAll(cache, 0o755))
	stale := filepath.Join(cache, "old-0000000000000000.tmpl")
	require.NoError(t, os.WriteFile(stale, []byte("x"), 0o644))

	out, err := run(t, "cache", "prune", "-c", config, "page.html")
	require.NoError(t, err)
	assert.Contains(t, out, "removing "+stale)
	assert.NoFileExists(t, stale)

	out, err = run(t, "cache", "clear", "-c", config)
	require.NoError(t, err)
	assert.Contains(t, out, "cleared")
	assert.NoDirExists(t, cache)
}

func TestGenerateAndClean(t *testing.T) {
	dir := t.TempDir()
	src := "package ui\n\nimport \"github.com/pthm/tagview\"\n\n//tagview:component tags=card\ntype Card struct {\n\ttagview.Base\n\tTitle string\n}\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "card.go"), []byte(src), 0o644))

	out, err := run(t, "generate", "--dry-run", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "generating")
	assert.NoFileExists(t, filepath.Join(dir, "card_tv.go"))

	_, err = run(t, "generate", dir)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "card_tv.go"))

	_, err = run(t, "clean", dir)
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(dir, "card_tv.go"))
}

func TestMissingConfig(t *testing.T) {
	_, err := run(t, "components", "--config", filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

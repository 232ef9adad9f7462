package tagview

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm/tagview/lib/views"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "templates", "page.html"), `<h1>{{.site}}</h1><logo></logo>`)
	writeFile(t, filepath.Join(dir, "mail", "welcome.html"), `<p>Welcome to {{.site}}</p>`)
	writeFile(t, filepath.Join(dir, "components.yaml"), testManifest)
	writeFile(t, filepath.Join(dir, "tagview.yaml"), `
views:
  - path: templates
    priority: 10
  - path: mail
    namespace: Mail
cache_dir: cache
auto_refresh: false
manifest: components.yaml
globals:
  site: Acme
`)

	cfg, err := LoadConfig(filepath.Join(dir, "tagview.yaml"))
	require.NoError(t, err)
	require.NotNil(t, cfg.AutoRefresh)
	assert.False(t, *cfg.AutoRefresh)
	assert.Equal(t, filepath.Join(dir, "cache"), cfg.Path(cfg.CacheDir))

	m, err := cfg.LoadManifest()
	require.NoError(t, err)
	reg := NewRegistry()
	require.NoError(t, reg.ApplyManifest(m, testConstructors()))

	opts, err := cfg.Options()
	require.NoError(t, err)
	compiler := NewCompiler(NewFactory(reg), opts...)
	ctx := context.Background()

	html, err := compiler.Render(ctx, "page.html", nil)
	require.NoError(t, err)
	assert.Equal(t, `<h1>Acme</h1><img src="/logo.svg" alt="logo">`, html)

	html, err = compiler.Render(ctx, "@Mail/welcome.html", nil)
	require.NoError(t, err)
	assert.Equal(t, `<p>Welcome to Acme</p>`, html)

	files, err := filepath.Glob(filepath.Join(dir, "cache", "page-*"+CacheExt))
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestConfigPath(t *testing.T) {
	cfg := &Config{base: "/srv/app"}
	assert.Equal(t, filepath.Join("/srv/app", "views"), cfg.Path("views"))
	assert.Equal(t, "/abs", cfg.Path("/abs"))
	assert.Equal(t, "", cfg.Path(""))

	parsed, err := ParseConfig(strings.NewReader("cache_dir: tmp\n"))
	require.NoError(t, err)
	assert.Equal(t, "tmp", parsed.Path(parsed.CacheDir))
}

func TestConfigErrors(t *testing.T) {
	_, err := ParseConfig(strings.NewReader("cache: tmp\n"))
	assert.Error(t, err)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	cfg, err := ParseConfig(strings.NewReader("views:\n  - path: nowhere\n    namespace: Mail\n"))
	require.NoError(t, err)
	cfg.base = t.TempDir()
	_, err = cfg.Options()
	assert.ErrorIs(t, err, views.ErrInvalidDirectory)

	m, err := (&Config{}).LoadManifest()
	require.NoError(t, err)
	assert.Nil(t, m)
}

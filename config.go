package tagview

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/pthm/tagview/lib/views"
)

// Config is the file based configuration of a compiler:
//
//	views:
//	  - path: templates
//	    priority: 10
//	  - path: vendor/mail/templates
//	    namespace: Mail
//	cache_dir: var/cache/views
//	auto_refresh: false
//	manifest: components.yaml
//	globals:
//	  site: Acme
//
// Relative paths are resolved against the directory of the config file.
type Config struct {
	Views       []ViewConfig   `yaml:"views"`
	CacheDir    string         `yaml:"cache_dir"`
	AutoRefresh *bool          `yaml:"auto_refresh"`
	Manifest    string         `yaml:"manifest"`
	Globals     map[string]any `yaml:"globals"`

	base string
}

// ViewConfig is one view directory. A directory with a namespace is only
// reachable as @Namespace/path.
type ViewConfig struct {
	Path      string `yaml:"path"`
	Priority  int    `yaml:"priority"`
	Namespace string `yaml:"namespace"`
}

// LoadConfig reads the config file at path.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("tagview: open config: %w", err)
	}
	defer f.Close()
	cfg, err := ParseConfig(f)
	if err != nil {
		return nil, err
	}
	cfg.base = filepath.Dir(path)
	return cfg, nil
}

// ParseConfig decodes a config. Relative paths stay relative to the working
// directory. Unknown keys are an error.
func ParseConfig(r io.Reader) (*Config, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var cfg Config
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return nil, fmt.Errorf("tagview: decode config: %w", err)
	}
	return &cfg, nil
}

// Path resolves p against the directory of the config file.
func (c *Config) Path(p string) string {
	if p == "" || filepath.IsAbs(p) || c.base == "" {
		return p
	}
	return filepath.Join(c.base, p)
}

// Loader builds the view loader the config describes.
func (c *Config) Loader() (*views.Loader, error) {
	l := views.New()
	for _, v := range c.Views {
		dir := c.Path(v.Path)
		if v.Namespace == "" {
			if err := l.AddPath(dir, v.Priority); err != nil {
				return nil, err
			}
			continue
		}
		info, err := os.Stat(dir)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", views.ErrInvalidDirectory, dir)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%w: %s is not a directory", views.ErrInvalidDirectory, dir)
		}
		if err := l.AddNamespace(v.Namespace, os.DirFS(dir)); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Options returns the compiler options the config describes.
func (c *Config) Options() ([]Option, error) {
	l, err := c.Loader()
	if err != nil {
		return nil, err
	}
	opts := []Option{WithLoader(l)}
	if c.CacheDir != "" {
		opts = append(opts, WithCacheDir(c.Path(c.CacheDir)))
	}
	if c.AutoRefresh != nil {
		opts = append(opts, WithAutoRefresh(*c.AutoRefresh))
	}
	if len(c.Globals) > 0 {
		opts = append(opts, WithGlobals(c.Globals))
	}
	return opts, nil
}

// LoadManifest loads the manifest the config names, nil when it names none.
func (c *Config) LoadManifest() (*Manifest, error) {
	if c.Manifest == "" {
		return nil, nil
	}
	return LoadManifestFile(c.Path(c.Manifest))
}

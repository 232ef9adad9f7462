package tagview

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/pthm/tagview/lib/views"
)

// CacheExt is the extension of compiled template files.
const CacheExt = ".tmpl"

// cacheFile returns the path compiled source of v is stored at, or "" when
// the compiler keeps compiled templates in memory only.
func (c *Compiler) cacheFile(v views.View, hash string) string {
	if c.cacheDir == "" {
		return ""
	}
	name := "inline"
	if !v.Inline {
		if s := slug(v.Name); s != "" {
			name = s
		}
	}
	return filepath.Join(c.cacheDir, name+"-"+hash+CacheExt)
}

func (c *Compiler) readCache(file string) (string, error) {
	if file == "" {
		return "", fs.ErrNotExist
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// writeCache stores compiled source. Failing to write only costs a
// recompile, so it is logged and otherwise ignored. Concurrent writers of the
// same file write the same bytes; the last one wins.
func (c *Compiler) writeCache(file, src string) {
	if file == "" {
		return
	}
	if err := os.MkdirAll(c.cacheDir, 0o755); err != nil {
		c.logger.Warn("cannot create cache directory", zap.String("dir", c.cacheDir), zap.Error(err))
		return
	}
	if err := os.WriteFile(file, []byte(src), 0o644); err != nil {
		c.logger.Warn("cannot write compiled template", zap.String("file", file), zap.Error(err))
	}
}

// ClearCache drops every compiled template, the memoised component renders
// and the cache directory.
func (c *Compiler) ClearCache() error {
	c.mu.Lock()
	c.templates = make(map[string]*compiled)
	c.mu.Unlock()
	c.factory.ClearCache()

	if c.cacheDir == "" {
		return nil
	}
	if err := os.RemoveAll(c.cacheDir); err != nil {
		return fmt.Errorf("tagview: clear cache: %w", err)
	}
	c.logger.Info("cleared template cache", zap.String("dir", c.cacheDir))
	return nil
}

// CacheFile returns the path view compiles to, "" without a cache
// directory. The view does not need to be compiled.
func (c *Compiler) CacheFile(view string) (string, error) {
	v, err := c.loader.Get(view)
	if err != nil {
		return "", err
	}
	return c.cacheFile(v, c.hash(v)), nil
}

// PruneCache removes compiled template files that neither a template in
// memory was loaded from nor one of the keep views compiles to, and returns
// their paths.
func (c *Compiler) PruneCache(keep ...string) ([]string, error) {
	if c.cacheDir == "" {
		return nil, nil
	}

	live := make(map[string]bool)
	for _, view := range keep {
		file, err := c.CacheFile(view)
		if err != nil {
			return nil, fmt.Errorf("tagview: prune cache: %w", err)
		}
		live[file] = true
	}
	c.mu.RLock()
	for _, entry := range c.templates {
		live[entry.file] = true
	}
	c.mu.RUnlock()

	files, err := filepath.Glob(filepath.Join(c.cacheDir, "*"+CacheExt))
	if err != nil {
		return nil, fmt.Errorf("tagview: prune cache: %w", err)
	}

	var removed []string
	var errs []error
	for _, file := range files {
		if live[file] {
			continue
		}
		if err := os.Remove(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
			continue
		}
		removed = append(removed, file)
	}
	if len(removed) > 0 {
		c.logger.Info("pruned template cache", zap.String("dir", c.cacheDir), zap.Int("files", len(removed)))
	}
	return removed, errors.Join(errs...)
}

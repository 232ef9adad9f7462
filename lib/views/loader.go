// Package views resolves view names to template source.
//
// A Loader searches a stack of directories, highest priority first.
// "@Namespace/path" names are looked up in the directory registered for that
// namespace only. Names without a template extension are inline views: the
// name itself is the template source. The loader locks itself on first
// lookup; adding directories afterwards fails with ErrLocked.
package views

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"regexp"
	"sort"
	"strings"
	"sync"
)

// Sentinel errors.
var (
	ErrViewNotFound     = errors.New("view not found")
	ErrLocked           = errors.New("view loader is locked")
	ErrInvalidNamespace = errors.New("invalid view namespace")
	ErrInvalidDirectory = errors.New("invalid view directory")
)

// Extensions are the file extensions that mark a view name as a file.
var Extensions = []string{".html", ".tmpl", ".gohtml"}

var namespacePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)

// View is resolved template source.
type View struct {
	// Name is the name the view was requested by.
	Name string

	// Path is the file path within its directory, empty for inline views.
	Path string

	Source string
	Inline bool
}

type directory struct {
	fsys     fs.FS
	label    string
	priority int
	order    int
}

// Loader resolves views. It is safe for concurrent use.
type Loader struct {
	mu         sync.Mutex
	dirs       []directory
	namespaces map[string]directory
	locked     bool
}

// New returns an empty, unlocked Loader.
func New() *Loader {
	return &Loader{namespaces: map[string]directory{}}
}

// AddDir adds a directory. Higher priorities are searched first; among equal
// priorities the directory added last wins.
func (l *Loader) AddDir(fsys fs.FS, label string, priority int) error {
	if fsys == nil {
		return fmt.Errorf("%w: %s: nil filesystem", ErrInvalidDirectory, label)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.locked {
		return fmt.Errorf("%w: cannot add %s", ErrLocked, label)
	}
	for i, d := range l.dirs {
		if label != "" && d.label == label {
			l.dirs = append(l.dirs[:i], l.dirs[i+1:]...)
			break
		}
	}
	l.dirs = append(l.dirs, directory{fsys: fsys, label: label, priority: priority, order: len(l.dirs)})
	return nil
}

// AddPath adds a directory on disk.
func (l *Loader) AddPath(dir string, priority int) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDirectory, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrInvalidDirectory, dir)
	}
	return l.AddDir(os.DirFS(dir), dir, priority)
}

// AddNamespace registers the directory searched for "@namespace/..." names.
func (l *Loader) AddNamespace(namespace string, fsys fs.FS) error {
	namespace = strings.TrimPrefix(strings.TrimSpace(namespace), "@")
	if !namespacePattern.MatchString(namespace) {
		return fmt.Errorf("%w: %q", ErrInvalidNamespace, namespace)
	}
	if fsys == nil {
		return fmt.Errorf("%w: @%s: nil filesystem", ErrInvalidDirectory, namespace)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.locked {
		return fmt.Errorf("%w: cannot add @%s", ErrLocked, namespace)
	}
	l.namespaces[namespace] = directory{fsys: fsys, label: "@" + namespace}
	return nil
}

// Lock sorts the directory stack and forbids further changes.
func (l *Loader) Lock() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lock()
}

func (l *Loader) lock() {
	if l.locked {
		return
	}
	sort.SliceStable(l.dirs, func(i, j int) bool {
		if l.dirs[i].priority != l.dirs[j].priority {
			return l.dirs[i].priority > l.dirs[j].priority
		}
		return l.dirs[i].order > l.dirs[j].order
	})
	l.locked = true
}

// Unlock allows directories to be added again.
func (l *Loader) Unlock() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.locked = false
}

// Locked reports whether the loader is locked.
func (l *Loader) Locked() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.locked
}

// Dirs returns the directory labels in search order.
func (l *Loader) Dirs() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lock()
	labels := make([]string, len(l.dirs))
	for i, d := range l.dirs {
		labels[i] = d.label
	}
	return labels
}

// Get resolves a view, locking the loader on first use.
func (l *Loader) Get(name string) (View, error) {
	l.mu.Lock()
	l.lock()
	dirs := l.dirs
	namespaces := l.namespaces
	l.mu.Unlock()

	if !IsFileName(name) {
		return View{Name: name, Source: name, Inline: true}, nil
	}

	if strings.HasPrefix(name, "@") {
		namespace, rest, ok := strings.Cut(name[1:], "/")
		if !ok {
			return View{}, fmt.Errorf("%w: %q: namespaced views must use a forward slash separator", ErrInvalidNamespace, name)
		}
		dir, ok := namespaces[namespace]
		if !ok {
			return View{}, fmt.Errorf("%w: %q: unknown namespace @%s", ErrViewNotFound, name, namespace)
		}
		return read(dir, name, rest)
	}

	for _, dir := range dirs {
		v, err := read(dir, name, name)
		if err == nil {
			return v, nil
		}
		if !errors.Is(err, ErrViewNotFound) {
			return View{}, err
		}
	}
	return View{}, fmt.Errorf("%w: %q", ErrViewNotFound, name)
}

// Exists reports whether name resolves to a view.
func (l *Loader) Exists(name string) bool {
	_, err := l.Get(name)
	return err == nil
}

func read(dir directory, name, file string) (View, error) {
	p := Clean(file)
	if !fs.ValidPath(p) {
		return View{}, fmt.Errorf("%w: %q: invalid path", ErrViewNotFound, name)
	}
	data, err := fs.ReadFile(dir.fsys, p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return View{}, fmt.Errorf("%w: %q", ErrViewNotFound, name)
		}
		return View{}, fmt.Errorf("read view %q from %s: %w", name, dir.label, err)
	}
	return View{Name: name, Path: p, Source: string(data)}, nil
}

// IsFileName reports whether name ends in a template extension.
func IsFileName(name string) bool {
	ext := strings.ToLower(path.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Clean normalises separators of a view path and strips leading slashes.
func Clean(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	p = path.Clean("/" + p)
	return strings.TrimPrefix(p, "/")
}

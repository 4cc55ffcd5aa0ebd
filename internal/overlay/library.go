package overlay

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/yildizm/chinchinbooth/internal/camera"
	"github.com/yildizm/chinchinbooth/internal/logger"
)

// ManifestFile names the optional overlay manifest inside the directory
const ManifestFile = "overlays.yaml"

// ErrNotFound is returned for an unknown overlay name
var ErrNotFound = errors.New("overlay not found")

// Manifest lists file overlays with display titles
type Manifest struct {
	Overlays []Overlay `yaml:"overlays"`
}

// Library holds the built-in overlays plus any found in a directory
type Library struct {
	dir string
	log *logger.Logger

	mu    sync.RWMutex
	items map[string]Overlay
	order []string
}

// NewLibrary creates a library. An empty dir serves built-ins only.
func NewLibrary(dir string, log *logger.Logger) *Library {
	if log == nil {
		log = logger.Nop()
	}
	l := &Library{dir: dir, log: log}
	l.replace(builtins())
	return l
}

// Load rescans the directory. Built-ins are always present; file overlays
// with a built-in name replace it.
func (l *Library) Load() error {
	items := builtins()
	if l.dir == "" {
		l.replace(items)
		return nil
	}

	files, err := scan(l.dir)
	if err != nil {
		l.replace(items)
		return err
	}
	for _, f := range files {
		replaced := false
		for i := range items {
			if items[i].Name == f.Name {
				items[i] = f
				replaced = true
			}
		}
		if !replaced {
			items = append(items, f)
		}
	}
	l.replace(items)
	l.log.DebugWithFields("overlays loaded", []logger.Field{logger.Count(len(items)), logger.F("dir", l.dir)})
	return nil
}

func (l *Library) replace(items []Overlay) {
	m := make(map[string]Overlay, len(items))
	order := make([]string, 0, len(items)+1)
	order = append(order, None)
	for _, o := range items {
		if _, dup := m[o.Name]; !dup {
			order = append(order, o.Name)
		}
		m[o.Name] = o
	}
	l.mu.Lock()
	l.items = m
	l.order = order
	l.mu.Unlock()
}

// scan reads the manifest, or falls back to every image in dir named after
// its file
func scan(dir string) ([]Overlay, error) {
	manifest, err := readManifest(filepath.Join(dir, ManifestFile))
	if err != nil {
		return nil, err
	}

	if manifest == nil {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to read overlay directory: %w", err)
		}
		manifest = &Manifest{}
		for _, e := range entries {
			if e.IsDir() || !isImage(e.Name()) {
				continue
			}
			name := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
			manifest.Overlays = append(manifest.Overlays, Overlay{Name: name, Path: e.Name()})
		}
		sort.Slice(manifest.Overlays, func(i, j int) bool {
			return manifest.Overlays[i].Name < manifest.Overlays[j].Name
		})
	}

	out := make([]Overlay, 0, len(manifest.Overlays))
	for _, o := range manifest.Overlays {
		if o.Name == "" || o.Name == None || o.Path == "" {
			continue
		}
		path := o.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		img, err := camera.DecodeFile(path)
		if err != nil {
			continue
		}
		if o.Title == "" {
			o.Title = o.Name
		}
		o.Source = SourceFile
		o.Path = path
		o.img = img
		out = append(out, o)
	}
	return out, nil
}

func readManifest(path string) (*Manifest, error) {
	// #nosec G304 - path is built from the configured overlay directory
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return &m, nil
}

func isImage(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range camera.ImageExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Get returns the named overlay. None and the empty name report false.
func (l *Library) Get(name string) (Overlay, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	o, ok := l.items[name]
	return o, ok
}

// Lookup is Get with an error for unknown names
func (l *Library) Lookup(name string) (Overlay, error) {
	if o, ok := l.Get(name); ok {
		return o, nil
	}
	return Overlay{}, fmt.Errorf("%w: %q", ErrNotFound, name)
}

// Names lists the selectable overlays starting with None
func (l *Library) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]string, len(l.order))
	copy(out, l.order)
	return out
}

// All returns the overlays in display order, without None
func (l *Library) All() []Overlay {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Overlay, 0, len(l.order)-1)
	for _, name := range l.order[1:] {
		out = append(out, l.items[name])
	}
	return out
}

// Next returns the overlay after current, wrapping around to None. An
// unknown current name restarts at None.
func (l *Library) Next(current string) string {
	names := l.Names()
	if current == "" {
		current = None
	}
	for i, name := range names {
		if name == current {
			return names[(i+1)%len(names)]
		}
	}
	return None
}

// Watch reloads the library whenever the directory changes, calling
// onChange after each reload. Bursts of events are coalesced over debounce.
// It blocks until ctx is done.
func (l *Library) Watch(ctx context.Context, debounce time.Duration, onChange func()) error {
	if l.dir == "" {
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() {
		if err := watcher.Close(); err != nil {
			l.log.Warn("failed to close watcher: %v", err)
		}
	}()

	if err := watcher.Add(l.dir); err != nil {
		return fmt.Errorf("failed to watch overlay directory: %w", err)
	}

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
				pending = time.After(debounce)
			}

		case <-pending:
			pending = nil
			if err := l.Load(); err != nil {
				l.log.WarnWithFields("overlay reload failed", []logger.Field{logger.Error(err)})
				continue
			}
			if onChange != nil {
				onChange()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			l.log.Warn("watcher error: %v", err)
		}
	}
}

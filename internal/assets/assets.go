// Package assets loads COLLADA documents from search roots and caches the
// resulting scene graphs.
package assets

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/Faultbox/midgard-scene/internal/config"
	"github.com/Faultbox/midgard-scene/pkg/collada"
	"github.com/Faultbox/midgard-scene/pkg/scene"
)

// Options configures a Manager.
type Options struct {
	Roots            []string
	UpAxisCorrection bool
	Logger           *zap.Logger

	// OnInvalidate, if set, is called with the identity of every cached
	// document dropped by Invalidate or the file watcher.
	OnInvalidate func(path string)
}

// OptionsFromConfig builds Options from the library and parser settings.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Roots:            cfg.Library.Roots,
		UpAxisCorrection: cfg.Parser.UpAxisCorrection,
	}
}

// Stats are cumulative cache counters.
type Stats struct {
	Hits   int64 // Load served from cache
	Misses int64 // Load that had to wait for a parse
	Parses int64 // documents actually parsed
}

// Manager resolves document names against its roots and keeps one parsed
// scene per file. Concurrent loads of one file share a single parse and
// distinct files are parsed one at a time, in the order they were requested.
// It is safe for concurrent use.
type Manager struct {
	opts    Options
	log     *zap.Logger
	parseFn func(path string, opts ...collada.Option) (*collada.Scene, error)

	mu    sync.RWMutex
	roots []string
	cache map[string]*collada.Scene

	parseMu ticketLock
	group   singleflight.Group

	hits, misses, parses atomic.Int64

	watchMu sync.Mutex
	watcher *fsnotify.Watcher
	done    chan struct{}
	wg      sync.WaitGroup
}

// NewManager creates a new document manager.
func NewManager(opts Options) *Manager {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	m := &Manager{
		opts:    opts,
		log:     log,
		parseFn: collada.ParseFile,
		cache:   make(map[string]*collada.Scene),
	}
	for _, r := range opts.Roots {
		m.AddRoot(r)
	}
	return m
}

// AddRoot adds a search root. Roots are searched in reverse order (last
// added = highest priority).
func (m *Manager) AddRoot(dir string) {
	m.mu.Lock()
	m.roots = append(m.roots, dir)
	m.mu.Unlock()
}

// Roots returns the search roots in the order they were added.
func (m *Manager) Roots() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.roots...)
}

// Resolve maps a document name to its identity, the cleaned absolute path
// of the file it names. Absolute names are used as is.
func (m *Manager) Resolve(name string) (string, error) {
	if filepath.IsAbs(name) {
		return statFile(filepath.Clean(name), name)
	}

	m.mu.RLock()
	roots := m.roots
	m.mu.RUnlock()

	for i := len(roots) - 1; i >= 0; i-- {
		path, err := filepath.Abs(filepath.Join(roots[i], name))
		if err != nil {
			continue
		}
		if _, err := statFile(path, name); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("document not found: %s: %w", name, fs.ErrNotExist)
}

func statFile(path, name string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("document not found: %s: %w", name, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("document %s is a directory: %w", name, fs.ErrNotExist)
	}
	return path, nil
}

// Document returns the parsed scene for name, parsing it on first use.
// The returned scene is shared; use Instantiate for an independent pose.
// Parse problems are logged and the partial scene is still cached.
func (m *Manager) Document(name string) (*collada.Scene, error) {
	path, err := m.Resolve(name)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	s, ok := m.cache[path]
	m.mu.RUnlock()
	if ok {
		m.hits.Add(1)
		return s, nil
	}
	m.misses.Add(1)

	v, err, shared := m.group.Do(path, func() (any, error) {
		return m.parse(path)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		m.log.Debug("joined in-flight parse", zap.String("document", path))
	}
	return v.(*collada.Scene), nil
}

func (m *Manager) parse(path string) (*collada.Scene, error) {
	m.parseMu.Lock()
	defer m.parseMu.Unlock()

	m.mu.RLock()
	s, ok := m.cache[path]
	m.mu.RUnlock()
	if ok {
		return s, nil
	}

	var opts []collada.Option
	if !m.opts.UpAxisCorrection {
		opts = append(opts, collada.WithoutUpAxisCorrection())
	}

	m.parses.Add(1)
	s, err := m.parseFn(path, opts...)
	if err != nil {
		m.log.Error("document failed to parse", zap.String("document", path), zap.Error(err))
		return nil, err
	}

	problems := multierr.Errors(s.Problems)
	for _, p := range problems {
		m.log.Warn("document problem", zap.String("document", path), zap.Error(p))
	}
	m.log.Info("document loaded",
		zap.String("document", path),
		zap.Int("nodes", s.Root.Count()),
		zap.Int("problems", len(problems)),
	)

	m.mu.Lock()
	m.cache[path] = s
	m.mu.Unlock()
	return s, nil
}

// Load returns the shared scene graph root for name.
func (m *Manager) Load(name string) (*scene.Node, error) {
	s, err := m.Document(name)
	if err != nil {
		return nil, err
	}
	return s.Root, nil
}

// Instantiate returns an independent copy of the scene graph for name. The
// copy has its own transforms and bounding volumes and shares the vertex
// streams of the cached tree.
func (m *Manager) Instantiate(name string) (*scene.Node, error) {
	root, err := m.Load(name)
	if err != nil {
		return nil, err
	}
	return root.Clone(), nil
}

// Invalidate drops the cached scene for name. It reports whether something
// was cached.
func (m *Manager) Invalidate(name string) bool {
	path, err := m.Resolve(name)
	if err != nil {
		// The file may be gone already; fall back to the name itself.
		path, err = filepath.Abs(name)
		if err != nil {
			return false
		}
	}
	return m.drop(path)
}

func (m *Manager) drop(path string) bool {
	m.mu.Lock()
	_, ok := m.cache[path]
	delete(m.cache, path)
	m.mu.Unlock()
	m.group.Forget(path)

	if ok {
		m.log.Debug("document invalidated", zap.String("document", path))
		if m.opts.OnInvalidate != nil {
			m.opts.OnInvalidate(path)
		}
	}
	return ok
}

// Cached returns the number of cached documents.
func (m *Manager) Cached() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.cache)
}

// Stats returns cache statistics.
func (m *Manager) Stats() Stats {
	return Stats{
		Hits:   m.hits.Load(),
		Misses: m.misses.Load(),
		Parses: m.parses.Load(),
	}
}

// Close stops the watcher and clears the cache.
func (m *Manager) Close() error {
	err := m.stopWatch()

	m.mu.Lock()
	m.cache = make(map[string]*collada.Scene)
	m.mu.Unlock()
	return err
}

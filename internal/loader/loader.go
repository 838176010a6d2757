// Package loader resolves suite manifests into runnable suites.
//
// Suites are registered by name at process start; a manifest file names
// one and carries its per-run settings. A manifest that cannot be
// resolved — relative path, unreadable file, malformed YAML, schema
// violation, unknown suite name — becomes a suite holding a single
// synthetic failing case, so one bad file never prevents the others from
// running.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lattice-dev/lattice/internal/suite"
)

// Loaded is one resolved manifest: the suite to run plus its per-run
// settings.
type Loaded struct {
	// Path is the manifest file the entry came from.
	Path string
	// Suite is the suite to execute. Always non-nil; load failures
	// yield a synthetic suite with a single failing case.
	Suite *suite.Suite
	// Timeout is the manifest's run-level timeout. Zero means the
	// engine default.
	Timeout time.Duration
	// Config is exposed to runnables through T.Config.
	Config map[string]any
}

var (
	mu       sync.RWMutex
	registry = map[string]*suite.Suite{}
)

// Register adds a suite under a manifest-addressable name. Registering
// an empty name, a nil suite, or a duplicate name panics: registration
// happens from init functions and a collision is a programming error.
func Register(name string, s *suite.Suite) {
	mu.Lock()
	defer mu.Unlock()
	if name == "" {
		panic("loader: suite name must not be empty")
	}
	if s == nil {
		panic(fmt.Sprintf("loader: suite %q is nil", name))
	}
	if _, exists := registry[name]; exists {
		panic(fmt.Sprintf("loader: suite %q already registered", name))
	}
	registry[name] = s
}

// Lookup returns the suite registered under name.
func Lookup(name string) (*suite.Suite, bool) {
	mu.RLock()
	defer mu.RUnlock()
	s, ok := registry[name]
	return s, ok
}

// Reset clears the registry. Tests only.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	registry = map[string]*suite.Suite{}
}

// Load resolves manifests at the given absolute paths. Parsing runs
// concurrently, but the returned slice follows argument order and
// execution stays strictly sequential in that order. Load never fails:
// every per-file problem is folded into a synthetic failing suite.
func Load(paths ...string) []Loaded {
	loaded := make([]Loaded, len(paths))
	var g errgroup.Group
	g.SetLimit(4)
	for i, path := range paths {
		g.Go(func() error {
			loaded[i] = loadOne(path)
			return nil
		})
	}
	g.Wait() //nolint:errcheck // goroutines never return errors
	return loaded
}

func loadOne(path string) Loaded {
	m, err := readManifest(path)
	if err != nil {
		return failed(path, err)
	}

	s, ok := Lookup(m.Suite)
	if !ok {
		return failed(path, fmt.Errorf("no suite registered under %q", m.Suite))
	}
	if s.Filename() == "" {
		s.SetFilename(path)
	}

	var timeout time.Duration
	if m.Timeout != "" {
		timeout, err = time.ParseDuration(m.Timeout)
		if err != nil {
			return failed(path, fmt.Errorf("invalid timeout %q: %w", m.Timeout, err))
		}
	}
	return Loaded{Path: path, Suite: s, Timeout: timeout, Config: m.Config}
}

// failed wraps a load error in a suite with one synthetic failing case.
func failed(path string, err error) Loaded {
	name := fmt.Sprintf("error when importing %s", filepath.Base(path))
	return Loaded{Path: path, Suite: suite.NewSynthetic(name, err)}
}

// readManifest reads and validates one manifest file.
func readManifest(path string) (*Manifest, error) {
	if !filepath.IsAbs(path) {
		return nil, fmt.Errorf("manifest path must be absolute, got %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	if err := validateManifest(path, data); err != nil {
		return nil, err
	}
	return decodeManifest(data)
}

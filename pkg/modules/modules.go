// Package modules indexes the modules of a site: every direct subdirectory of
// a configured search directory is a module, named after the directory.
package modules

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yaklabco/gomdhelp/internal/logging"
	"github.com/yaklabco/gomdhelp/pkg/fsutil"
)

// ErrRootNotFound is returned when the index root is not a directory.
var ErrRootNotFound = errors.New("root directory not found")

// Module describes one discovered module.
type Module struct {
	// Name is the machine name, equal to the directory name.
	Name string `json:"name"`

	// Title is the human name from <name>.info.yml, or Name.
	Title string `json:"title"`

	Description string `json:"description,omitempty"`

	// Path is the module directory relative to the root, slash separated.
	Path string `json:"path"`

	// Dir is the absolute module directory.
	Dir string `json:"-"`

	// Readme is the first non-empty README variant, or "".
	Readme string `json:"readme,omitempty"`
}

// HasReadme reports whether the module has a non-empty README.
func (m Module) HasReadme() bool {
	return m.Readme != ""
}

// Options configures Build.
type Options struct {
	Root string

	// SearchDirs are relative to Root. Earlier directories win on name clashes.
	SearchDirs []string

	// ReadmeFiles lists README names in lookup order.
	ReadmeFiles []string

	// Selected restricts Topics to the named modules. Empty means all.
	Selected []string
}

// Index is an immutable name to module map.
type Index struct {
	root     string
	modules  map[string]Module
	selected map[string]struct{}
}

type infoFile struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// Build scans the search directories. Missing search directories are skipped.
func Build(ctx context.Context, opts Options) (*Index, error) {
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}
	if !fsutil.IsDir(root) {
		return nil, fmt.Errorf("%w: %s", ErrRootNotFound, opts.Root)
	}

	logger := logging.FromContext(ctx)
	idx := &Index{
		root:    root,
		modules: make(map[string]Module),
	}
	if len(opts.Selected) > 0 {
		idx.selected = make(map[string]struct{}, len(opts.Selected))
		for _, name := range opts.Selected {
			idx.selected[name] = struct{}{}
		}
	}

	for _, searchDir := range opts.SearchDirs {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("module discovery cancelled: %w", ctx.Err())
		default:
		}

		dir := filepath.Join(root, filepath.FromSlash(searchDir))
		entries, err := os.ReadDir(dir)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				logger.Debug("module search directory missing", logging.FieldDir, dir)
				continue
			}
			return nil, fmt.Errorf("read %s: %w", searchDir, err)
		}

		for _, entry := range entries {
			name := entry.Name()
			if !entry.IsDir() || strings.HasPrefix(name, ".") {
				continue
			}
			if _, exists := idx.modules[name]; exists {
				continue
			}
			idx.modules[name] = loadModule(ctx, root, filepath.Join(dir, name), name, opts.ReadmeFiles)
		}
	}

	logger.Debug("module index built",
		logging.FieldRoot, root,
		logging.FieldModulesDiscovered, len(idx.modules),
	)

	return idx, nil
}

func loadModule(ctx context.Context, root, dir, name string, readmeFiles []string) Module {
	mod := Module{
		Name:  name,
		Title: name,
		Dir:   dir,
	}
	if rel, err := filepath.Rel(root, dir); err == nil {
		mod.Path = filepath.ToSlash(rel)
	}

	infoPath := filepath.Join(dir, name+".info.yml")
	if data, _, err := fsutil.ReadFile(ctx, infoPath); err == nil {
		var info infoFile
		if err := yaml.Unmarshal(data, &info); err != nil {
			logging.FromContext(ctx).Warn("invalid module info file",
				logging.FieldPath, infoPath,
				logging.FieldError, err,
			)
		} else {
			if info.Name != "" {
				mod.Title = info.Name
			}
			mod.Description = info.Description
		}
	}

	for _, file := range readmeFiles {
		info, err := os.Stat(filepath.Join(dir, file))
		if err == nil && info.Mode().IsRegular() && info.Size() > 0 {
			mod.Readme = file
			break
		}
	}

	return mod
}

// Root returns the absolute root directory.
func (idx *Index) Root() string {
	return idx.root
}

// Lookup returns the module with the given machine name.
func (idx *Index) Lookup(name string) (Module, bool) {
	mod, ok := idx.modules[name]
	return mod, ok
}

// Locate returns the absolute directory and root-relative path of a module.
func (idx *Index) Locate(name string) (string, string, bool) {
	mod, ok := idx.modules[name]
	if !ok {
		return "", "", false
	}
	return mod.Dir, mod.Path, true
}

// Modules returns every module sorted by name.
func (idx *Index) Modules() []Module {
	mods := make([]Module, 0, len(idx.modules))
	for _, mod := range idx.modules {
		mods = append(mods, mod)
	}
	sort.Slice(mods, func(i, j int) bool {
		return mods[i].Name < mods[j].Name
	})
	return mods
}

// Topics returns the selected modules that have a README, sorted by title.
func (idx *Index) Topics() []Module {
	var topics []Module
	for _, mod := range idx.modules {
		if !mod.HasReadme() {
			continue
		}
		if idx.selected != nil {
			if _, ok := idx.selected[mod.Name]; !ok {
				continue
			}
		}
		topics = append(topics, mod)
	}
	sort.Slice(topics, func(i, j int) bool {
		a, b := strings.ToLower(topics[i].Title), strings.ToLower(topics[j].Title)
		if a != b {
			return a < b
		}
		return topics[i].Name < topics[j].Name
	})
	return topics
}

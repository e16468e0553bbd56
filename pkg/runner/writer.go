package runner

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/yaklabco/gomdhelp/pkg/fsutil"
	"github.com/yaklabco/gomdhelp/pkg/readme"
)

// PageWriter persists a rendered page. It reports whether output changed.
type PageWriter interface {
	WritePage(ctx context.Context, page *readme.Page) (bool, error)
}

// DirWriter writes each page to {Dir}/{module}.html.
type DirWriter struct {
	Dir string

	// SkipNotFound leaves modules without README content unwritten.
	SkipNotFound bool
}

// WritePage writes page atomically, leaving unchanged files untouched.
func (w DirWriter) WritePage(ctx context.Context, page *readme.Page) (bool, error) {
	if page.NotFound && w.SkipNotFound {
		return false, nil
	}

	name := filepath.Base(filepath.Clean(page.Module))
	if name == "." || name == string(filepath.Separator) || name == "" {
		return false, fmt.Errorf("invalid module name %q", page.Module)
	}

	path := filepath.Join(w.Dir, name+".html")
	changed, err := fsutil.WriteAtomicIfChanged(ctx, path, []byte(page.Markup+"\n"), fsutil.DefaultFileMode)
	if err != nil {
		return false, fmt.Errorf("write %s: %w", page.Module, err)
	}
	return changed, nil
}

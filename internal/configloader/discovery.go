package configloader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/yaklabco/gomdhelp/pkg/fsutil"
)

// ConfigPaths lists the configuration files that apply to a working directory.
// Empty fields mean no file was found at that level.
type ConfigPaths struct {
	// System is /etc/gomdhelp/config.yaml (or %ProgramData%\gomdhelp on Windows).
	System string

	// User is $XDG_CONFIG_HOME/gomdhelp/config.yaml.
	User string

	// Project is the nearest .gomdhelp.yml above the working directory.
	Project string

	// Explicit comes from --config.
	Explicit string
}

//nolint:gochecknoglobals // Read-only lookup tables.
var (
	projectConfigFiles = []string{".gomdhelp.yml", ".gomdhelp.yaml", "gomdhelp.yml", "gomdhelp.yaml"}
	levelConfigFiles   = []string{"config.yaml", "config.yml"}
	vcsRootMarkers     = []string{".git", ".hg", ".svn"}
)

// DiscoverPaths finds the system, user and project configuration files for
// workDir.
func DiscoverPaths(ctx context.Context, workDir string) (*ConfigPaths, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context cancelled: %w", err)
	}

	project, err := FindProjectConfig(ctx, workDir)
	if err != nil {
		return nil, err
	}

	return &ConfigPaths{
		System:  firstExisting(systemConfigDir(), levelConfigFiles),
		User:    firstExisting(userConfigDir(), levelConfigFiles),
		Project: project,
	}, nil
}

func systemConfigDir() string {
	if runtime.GOOS != "windows" {
		return "/etc/gomdhelp"
	}
	programData := os.Getenv("ProgramData")
	if programData == "" {
		programData = `C:\ProgramData`
	}
	return filepath.Join(programData, "gomdhelp")
}

func userConfigDir() string {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "gomdhelp")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "gomdhelp")
}

// firstExisting returns the first of names that is a regular file in dir.
func firstExisting(dir string, names []string) string {
	if dir == "" {
		return ""
	}
	for _, name := range names {
		if path := filepath.Join(dir, name); fsutil.IsRegularFile(path) {
			return path
		}
	}
	return ""
}

// FindProjectConfig searches startDir and its parents for a project config
// file. The search ends at a VCS root, the home directory or the filesystem
// root, whichever comes first. An empty result means none was found.
func FindProjectConfig(ctx context.Context, startDir string) (string, error) {
	if startDir == "" {
		var err error
		if startDir, err = os.Getwd(); err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
	}

	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}

	home, _ := os.UserHomeDir()

	for {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("context cancelled: %w", err)
		}

		if path := firstExisting(dir, projectConfigFiles); path != "" {
			return path, nil
		}

		parent := filepath.Dir(dir)
		if isVCSRoot(dir) || dir == home || parent == dir {
			return "", nil
		}
		dir = parent
	}
}

func isVCSRoot(dir string) bool {
	for _, marker := range vcsRootMarkers {
		if fsutil.IsDir(filepath.Join(dir, marker)) {
			return true
		}
	}
	return false
}

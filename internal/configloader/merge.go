package configloader

import "github.com/yaklabco/gomdhelp/pkg/config"

// MergeAll folds configs left to right. A non-zero scalar in a later config
// wins; a non-nil list replaces the earlier list entirely.
func MergeAll(configs ...*config.Config) *config.Config {
	var result *config.Config
	for _, cfg := range configs {
		switch {
		case cfg == nil:
		case result == nil:
			clone := *cfg
			result = &clone
		default:
			mergeInto(result, cfg)
		}
	}
	return result
}

func mergeInto(dst, src *config.Config) {
	set(&dst.Root, src.Root)
	set(&dst.Host, src.Host)
	set(&dst.Language, src.Language)
	set(&dst.OutputDir, src.OutputDir)
	set(&dst.Jobs, src.Jobs)

	replace(&dst.ReadmeFiles, src.ReadmeFiles)
	replace(&dst.AllowedTags, src.AllowedTags)
	replace(&dst.ModulePaths, src.ModulePaths)
	replace(&dst.Modules, src.Modules)

	set(&dst.Snippet.Root, src.Snippet.Root)
	set(&dst.Snippet.Language, src.Snippet.Language)
	set(&dst.Snippet.Style, src.Snippet.Style)
	set(&dst.Snippet.Padding, src.Snippet.Padding)

	set(&dst.Server.Addr, src.Server.Addr)
	set(&dst.Server.ShutdownTimeout, src.Server.ShutdownTimeout)
}

func set[T comparable](dst *T, value T) {
	var zero T
	if value != zero {
		*dst = value
	}
}

func replace(dst *[]string, value []string) {
	if value != nil {
		*dst = append([]string(nil), value...)
	}
}

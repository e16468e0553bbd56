package runner

import (
	"context"
	"fmt"
	"strings"

	"github.com/yaklabco/gomdhelp/pkg/modules"
)

// TopicLister lists the modules offering help.
type TopicLister interface {
	Topics() []modules.Module
}

// Discover returns the modules to render. Explicit names are kept in the
// given order with duplicates and blanks removed; without names every topic
// of lister is used, in topic order.
func Discover(ctx context.Context, lister TopicLister, names []string) ([]string, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("discovery cancelled: %w", ctx.Err())
	default:
	}

	seen := make(map[string]struct{})
	var result []string
	add := func(name string) {
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		result = append(result, name)
	}

	if len(names) > 0 {
		for _, name := range names {
			add(name)
		}
		return result, nil
	}

	if lister == nil {
		return nil, nil
	}
	for _, mod := range lister.Topics() {
		add(mod.Name)
	}
	return result, nil
}

package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/ludo-technologies/kuma/domain"
	"github.com/ludo-technologies/kuma/internal/config"
	"github.com/ludo-technologies/kuma/internal/logging"
	ignore "github.com/sabhiram/go-gitignore"
	"golang.org/x/sync/errgroup"
)

// TargetResolver filters user paths through the include, exclude and
// gitignore rules of their configuration
type TargetResolver struct {
	maxConcurrency int

	mu         sync.Mutex
	gitignores map[string]*ignore.GitIgnore
}

// NewTargetResolver creates a new TargetResolver
func NewTargetResolver() *TargetResolver {
	return &TargetResolver{
		maxConcurrency: runtime.NumCPU(),
		gitignores:     make(map[string]*ignore.GitIgnore),
	}
}

// targetStatus is the verdict for one input path
type targetStatus struct {
	keep bool
	err  error
}

// Resolve returns the paths that should be handed to the tools, in input
// order, plus one error per path that could not be used
func (r *TargetResolver) Resolve(ctx context.Context, cfg *config.Config, paths []string) ([]string, []error) {
	logger := logging.FromContext(ctx)
	statuses := make([]targetStatus, len(paths))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(r.maxConcurrency)

	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-gCtx.Done():
				statuses[i] = targetStatus{err: gCtx.Err()}
				return nil
			default:
			}

			keep, err := r.check(cfg, path)
			statuses[i] = targetStatus{keep: keep, err: err}
			if !keep && err == nil {
				logger.Debug("excluded target", slog.String("path", path))
			}
			return nil
		})
	}
	_ = g.Wait()

	var targets []string
	var errs []error
	for i, st := range statuses {
		switch {
		case st.err != nil:
			errs = append(errs, st.err)
		case st.keep:
			targets = append(targets, paths[i])
		}
	}
	return targets, errs
}

// check decides whether a single path is analysed
func (r *TargetResolver) check(cfg *config.Config, path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, domain.NewFileNotFoundError(path, nil)
		}
		return false, domain.NewInvalidInputError(fmt.Sprintf("cannot access %s", path), err)
	}

	rel, inside := relativeTo(cfg.BaseDir, path)
	if !inside {
		return true, nil
	}
	if rel == "." {
		return true, nil
	}

	candidate := rel
	if info.IsDir() {
		candidate = rel + "/"
	}

	if matchesAny(cfg.Analysis.Exclude, rel, candidate) {
		return false, nil
	}

	if cfg.Analysis.RespectGitignore {
		gi, err := r.gitignore(cfg.BaseDir)
		if err != nil {
			return false, domain.NewConfigError("failed to read .gitignore", err)
		}
		if gi != nil && gi.MatchesPath(candidate) {
			return false, nil
		}
	}

	if !info.IsDir() && len(cfg.Analysis.Include) > 0 {
		return matchesAny(cfg.Analysis.Include, rel, filepath.Base(rel)), nil
	}

	return true, nil
}

// gitignore loads and caches the .gitignore at the root of baseDir
func (r *TargetResolver) gitignore(baseDir string) (*ignore.GitIgnore, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if gi, ok := r.gitignores[baseDir]; ok {
		return gi, nil
	}

	var gi *ignore.GitIgnore
	path := filepath.Join(baseDir, ".gitignore")
	if _, err := os.Stat(path); err == nil {
		gi, err = ignore.CompileIgnoreFile(path)
		if err != nil {
			return nil, err
		}
	}
	r.gitignores[baseDir] = gi
	return gi, nil
}

// relativeTo returns path relative to base in slash form, and whether path
// lies inside base
func relativeTo(base, path string) (string, bool) {
	if base == "" {
		return "", false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}
	rel, err := filepath.Rel(base, abs)
	if err != nil {
		return "", false
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// matchesAny reports whether any doublestar pattern matches one of names
func matchesAny(patterns []string, names ...string) bool {
	for _, pattern := range patterns {
		for _, name := range names {
			if matched, _ := doublestar.Match(pattern, name); matched {
				return true
			}
		}
	}
	return false
}

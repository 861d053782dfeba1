// Package commands implements the dekot CLI subcommands.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/src-d/enry/v2"

	"github.com/dekot-dev/dekot/internal/config"
	"github.com/dekot-dev/dekot/internal/resolve"
	"github.com/dekot-dev/dekot/pkg/syntax"
)

// kotlinLanguage is the enry language name for Kotlin sources.
const kotlinLanguage = "Kotlin"

// Sentinel errors for command execution.
var (
	// ErrNoKotlinSources indicates no Kotlin file was found under the given paths.
	ErrNoKotlinSources = errors.New("no Kotlin sources found")
	// ErrNoCandidate indicates no convertible declaration was found.
	ErrNoCandidate = errors.New("no convertible declaration found")
)

// engine bundles the parse cache and resolver shared by the analysis
// commands.
type engine struct {
	cfg      *config.Config
	cache    *syntax.Cache
	resolver *resolve.FileResolver
}

// newEngine loads configuration and builds the parser stack. A non-empty
// configPath overrides the default config search.
func newEngine(configPath string) (*engine, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	cache, err := syntax.NewCache(syntax.NewParser(), cfg.Cache.Size)
	if err != nil {
		return nil, err
	}

	resolver := resolve.NewFileResolver()

	if cfg.Stubs.Path != "" {
		stubsErr := resolver.LoadStubs(cfg.Stubs.Path)
		if stubsErr != nil {
			return nil, stubsErr
		}
	}

	return &engine{cfg: cfg, cache: cache, resolver: resolver}, nil
}

// parseAll reads and parses every Kotlin file under the given paths and
// registers their data classes with the resolver.
func (e *engine) parseAll(ctx context.Context, paths []string) ([]*syntax.Tree, error) {
	files, err := collectKotlinFiles(paths)
	if err != nil {
		return nil, err
	}

	if len(files) == 0 {
		return nil, ErrNoKotlinSources
	}

	trees := make([]*syntax.Tree, 0, len(files))

	for _, file := range files {
		content, readErr := os.ReadFile(file)
		if readErr != nil {
			return nil, fmt.Errorf("read %s: %w", file, readErr)
		}

		tree, parseErr := e.cache.Parse(ctx, file, content)
		if parseErr != nil {
			slog.Warn("skipping unparseable file", "path", file, "error", parseErr)

			continue
		}

		trees = append(trees, tree)
	}

	e.resolver.AddSources(trees...)

	return trees, nil
}

// parseFile parses a single Kotlin file and registers its data classes.
func (e *engine) parseFile(ctx context.Context, path string) (*syntax.Tree, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	tree, err := e.cache.Parse(ctx, path, content)
	if err != nil {
		return nil, err
	}

	e.resolver.AddSources(tree)

	return tree, nil
}

// collectKotlinFiles expands paths into the Kotlin files beneath them.
// Vendored directories and non-Kotlin files are skipped.
func collectKotlinFiles(paths []string) ([]string, error) {
	var files []string

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", root, err)
		}

		if !info.IsDir() {
			if isKotlinFile(root) {
				files = append(files, root)
			}

			continue
		}

		walkErr := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if entry.IsDir() {
				// Vendor patterns match on the trailing slash.
				if enry.IsVendor(path + "/") {
					return filepath.SkipDir
				}

				return nil
			}

			if isKotlinFile(path) {
				files = append(files, path)
			}

			return nil
		})
		if walkErr != nil {
			return nil, fmt.Errorf("walk %s: %w", root, walkErr)
		}
	}

	return files, nil
}

func isKotlinFile(path string) bool {
	return enry.GetLanguage(filepath.Base(path), nil) == kotlinLanguage
}

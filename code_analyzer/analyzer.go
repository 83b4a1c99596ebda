package code_analyzer

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/meysamhadeli/depscope/code_analyzer/contracts"
	"github.com/meysamhadeli/depscope/code_analyzer/models"
	"github.com/meysamhadeli/depscope/utils"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers bounds the concurrent parse/resolve fan-out. Unbounded
// fan-out would spike open file descriptors on large repositories.
const DefaultWorkers = 8

// Source file extensions that become graph nodes.
var sourceExtensions = map[string]struct{}{
	".js": {}, ".jsx": {}, ".mjs": {}, ".cjs": {},
	".ts": {}, ".tsx": {}, ".mts": {}, ".cts": {},
}

// DependencyAnalyzer scans a project tree and builds its dependency graph.
type DependencyAnalyzer struct {
	Cwd      string
	resolver *Resolver
	workers  int
}

// NewDependencyAnalyzer initializes a new DependencyAnalyzer.
func NewDependencyAnalyzer(cwd string, resolution ResolutionConfig, workers int) contracts.IDependencyAnalyzer {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if resolution.BaseDir == "" {
		resolution.BaseDir = cwd
	}

	return &DependencyAnalyzer{
		Cwd:      cwd,
		resolver: NewResolver(resolution),
		workers:  workers,
	}
}

// GetProjectFiles walks the project tree and returns the absolute paths of
// every source file that survives the ignore rules. Unreadable subtrees are
// skipped with a diagnostic; the walk itself never aborts.
func (analyzer *DependencyAnalyzer) GetProjectFiles(rootDir string) ([]string, error) {
	ignorePatterns, err := utils.GetIgnorePatterns(rootDir)
	if err != nil {
		return nil, err
	}

	var files []string

	err = filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Printf("Warning: skipping unreadable path %s: %v", path, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		relativePath, err := filepath.Rel(rootDir, path)
		if err != nil {
			return nil
		}
		relativePath = strings.ReplaceAll(relativePath, "\\", "/")

		if utils.IsDefaultIgnored(relativePath) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}

		if utils.IsIgnored(relativePath, ignorePatterns) {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if _, ok := sourceExtensions[ext]; !ok {
			return nil
		}

		absPath, err := filepath.Abs(path)
		if err != nil {
			log.Printf("Warning: cannot absolutize %s: %v", path, err)
			return nil
		}

		files = append(files, absPath)
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to walk project tree %s: %w", rootDir, err)
	}

	return files, nil
}

// ScanProject runs the full pipeline: discover files, parse and resolve each
// one concurrently, then fold the completed set into a graph. The graph is
// rebuilt from scratch on every call; there is no incremental state.
func (analyzer *DependencyAnalyzer) ScanProject(ctx context.Context, rootDir string) (*models.DependencyGraph, error) {
	files, err := analyzer.GetProjectFiles(rootDir)
	if err != nil {
		return nil, err
	}

	modules, err := analyzer.ScanFiles(ctx, files)
	if err != nil {
		return nil, err
	}

	return BuildDependencyGraph(modules, rootDir), nil
}

// ScanFiles parses and resolves an already-final candidate file list. Each
// file's summary and resolution result is written once by its worker before
// the fold reads any of them.
func (analyzer *DependencyAnalyzer) ScanFiles(ctx context.Context, files []string) ([]*ResolvedModule, error) {
	EnsureParserReady()

	modules := make([]*ResolvedModule, len(files))

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(analyzer.workers)

	for i, file := range files {
		i, file := i, file
		group.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			content, err := os.ReadFile(file)
			if err != nil {
				// A vanished or unreadable file degrades to an empty
				// summary so its node still exists.
				log.Printf("Warning: failed to read %s: %v", file, err)
				modules[i] = &ResolvedModule{Summary: &models.ModuleSummary{FilePath: file}}
				return nil
			}

			summary := ParseModule(file, content)
			modules[i] = ResolveModule(summary, analyzer.resolver)
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return modules, nil
}

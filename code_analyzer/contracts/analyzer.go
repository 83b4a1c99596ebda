package contracts

import (
	"context"

	"github.com/meysamhadeli/depscope/code_analyzer/models"
)

// IDependencyAnalyzer defines the interface for scanning a project tree and
// building its file-level dependency graph.
type IDependencyAnalyzer interface {
	GetProjectFiles(rootDir string) ([]string, error)
	ScanProject(ctx context.Context, rootDir string) (*models.DependencyGraph, error)
}

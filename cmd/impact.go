package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/meysamhadeli/depscope/code_analyzer"
	"github.com/meysamhadeli/depscope/constants/lipgloss"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	impactUseGit        bool
	impactGitRef        string
	impactSinceSnapshot bool
	impactMaxDepth      int
)

var impactCmd = &cobra.Command{
	Use:   "impact [files...]",
	Short: "Compute the blast radius of a set of changed files.",
	Long: `Computes the impacted closure of a change: the changed files plus every
file that transitively depends on them, bounded by the traversal depth. The
changed set comes from explicit arguments, from git, or from a diff against
the stored snapshot.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rootDependencies := handleRootCommand(cmd)
		return handleImpactCommand(rootDependencies, cmd, args)
	},
}

func init() {
	impactCmd.Flags().BoolVar(&impactUseGit, "git", false, "Take the changed set from 'git diff --name-only' plus untracked files.")
	impactCmd.Flags().StringVar(&impactGitRef, "ref", "HEAD", "Git ref to diff against when --git is set.")
	impactCmd.Flags().BoolVar(&impactSinceSnapshot, "since-snapshot", false, "Take the changed set from a diff against the stored snapshot.")
	impactCmd.Flags().IntVar(&impactMaxDepth, "max-depth", 0, "Override the configured traversal depth bound. Negative means unbounded.")
	rootCmd.AddCommand(impactCmd)
}

func handleImpactCommand(rootDependencies *RootDependencies, cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	changedFiles, err := collectChangedFiles(rootDependencies, args)
	if err != nil {
		return err
	}

	if impactUseGit {
		if branch, err := rootDependencies.GitOps.GetBranchName(); err == nil {
			fmt.Println(lipgloss.Gray.Render(fmt.Sprintf("Comparing %s against %s", branch, impactGitRef)))
		}
	}

	if len(changedFiles) == 0 {
		fmt.Println(lipgloss.Yellow.Render("No changed files detected, nothing to analyze."))
		return nil
	}

	spinner := pterm.DefaultSpinner.WithStyle(pterm.NewStyle(pterm.FgLightBlue)).WithRemoveWhenDone(true)
	spinnerScan, _ := spinner.Start("Building dependency graph...")

	graph, err := rootDependencies.Analyzer.ScanProject(ctx, rootDependencies.Cwd)

	spinnerScan.Stop()
	fmt.Print("\r")

	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	maxDepth := rootDependencies.Config.MaxDepth
	if cmd.Flags().Changed("max-depth") {
		maxDepth = impactMaxDepth
	}

	closure := code_analyzer.ComputeImpactedClosure(changedFiles, graph, maxDepth)

	fmt.Println(lipgloss.Green.Render(fmt.Sprintf("%d changed file(s), %d impacted in total (depth %d)", len(changedFiles), len(closure), maxDepth)))

	changedSet := make(map[string]struct{}, len(changedFiles))
	for _, changed := range changedFiles {
		changedSet[changed] = struct{}{}
	}

	for _, path := range code_analyzer.SortedPaths(closure) {
		display := path
		if node, ok := graph.Nodes[path]; ok {
			display = node.RelativePath
		}
		if _, isChanged := changedSet[path]; isChanged {
			fmt.Println(lipgloss.Yellow.Render("* " + display))
		} else {
			fmt.Println(lipgloss.Blue.Render("  " + display))
		}
	}

	return nil
}

// collectChangedFiles builds the changed set from arguments, git, or the
// stored snapshot, normalized to absolute paths.
func collectChangedFiles(rootDependencies *RootDependencies, args []string) ([]string, error) {
	var relative []string

	switch {
	case impactUseGit:
		if err := rootDependencies.GitOps.CheckGitRepo(); err != nil {
			return nil, err
		}
		// git diff prints paths relative to the repository root, git ls-files
		// relative to the invocation directory. The two need distinct bases
		// or every seed path is wrong when the root is not the cwd.
		repoRoot, err := rootDependencies.GitOps.GetRepoRoot()
		if err != nil {
			return nil, err
		}
		changed, err := rootDependencies.GitOps.ChangedFiles(impactGitRef)
		if err != nil {
			return nil, err
		}
		untracked, err := rootDependencies.GitOps.UntrackedFiles()
		if err != nil {
			return nil, err
		}
		return append(
			absolutePaths(changed, repoRoot),
			absolutePaths(untracked, rootDependencies.Cwd)...), nil

	case impactSinceSnapshot:
		manager := code_analyzer.NewSnapshotManager(rootDependencies.Cwd)
		stored, exists, err := manager.Load()
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, fmt.Errorf("no snapshot found, run 'depscope snapshot' first")
		}
		files, err := rootDependencies.Analyzer.GetProjectFiles(rootDependencies.Cwd)
		if err != nil {
			return nil, err
		}
		current, err := manager.Build(files)
		if err != nil {
			return nil, err
		}
		relative = manager.Diff(stored, current).Changed()

	default:
		relative = args
	}

	return absolutePaths(relative, rootDependencies.Cwd), nil
}

// absolutePaths resolves each path against base unless it is already absolute.
func absolutePaths(paths []string, base string) []string {
	absolute := make([]string, 0, len(paths))
	for _, path := range paths {
		if !filepath.IsAbs(path) {
			path = filepath.Join(base, path)
		}
		absolute = append(absolute, filepath.Clean(path))
	}
	return absolute
}

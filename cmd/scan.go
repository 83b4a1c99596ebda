package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"

	"github.com/meysamhadeli/depscope/code_analyzer"
	"github.com/meysamhadeli/depscope/constants/lipgloss"
	"github.com/meysamhadeli/depscope/utils"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	scanDir      string
	scanFormat   string
	scanShowDeps bool
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Build the dependency graph and print its summary.",
	Long: `Scans the project tree, parses every source file for import/export
statements, resolves the imports against the filesystem and prints the
resulting graph: node and edge counts, plus the per-file dependency map when
requested.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rootDependencies := handleRootCommand(cmd)
		return handleScanCommand(rootDependencies)
	},
}

func init() {
	scanCmd.Flags().StringVar(&scanDir, "dir", "", "Directory to scan. Defaults to the current working directory.")
	scanCmd.Flags().StringVar(&scanFormat, "format", "text", "Output format: 'text' or 'json'.")
	scanCmd.Flags().BoolVar(&scanShowDeps, "show-deps", false, "Print the per-file direct dependency map.")
	rootCmd.AddCommand(scanCmd)
}

func handleScanCommand(rootDependencies *RootDependencies) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	dir := rootDependencies.Cwd
	if scanDir != "" {
		absDir, err := filepath.Abs(scanDir)
		if err != nil {
			return fmt.Errorf("invalid scan directory %s: %w", scanDir, err)
		}
		dir = absDir
	}

	spinner := pterm.DefaultSpinner.WithStyle(pterm.NewStyle(pterm.FgLightBlue)).WithRemoveWhenDone(true)
	spinnerScan, _ := spinner.Start("Scanning project...")

	graph, err := rootDependencies.Analyzer.ScanProject(ctx, dir)

	spinnerScan.Stop()
	fmt.Print("\r")

	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	dependencyMap := code_analyzer.ExportDependencyMap(graph)

	if scanFormat == "json" {
		report := map[string]interface{}{
			"nodes": graph.NodeCount(),
			"edges": graph.EdgeCount(),
		}
		if scanShowDeps {
			report["dependencies"] = dependencyMap
		}
		encoded, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		return utils.RenderHighlighted(string(encoded)+"\n", "json", rootDependencies.Config.Theme)
	}

	summary := lipgloss.Green.Render(fmt.Sprintf("Scanned %d files, %d import edges", graph.NodeCount(), graph.EdgeCount()))
	fmt.Println(lipgloss.BoxStyle.Render(summary))

	if scanShowDeps {
		paths := make([]string, 0, len(dependencyMap))
		for path := range dependencyMap {
			paths = append(paths, path)
		}
		sort.Strings(paths)

		for _, path := range paths {
			fmt.Println(lipgloss.Blue.Render(path))
			for _, dep := range dependencyMap[path] {
				fmt.Println(lipgloss.Gray.Render("  -> " + dep))
			}
		}
	}

	return nil
}

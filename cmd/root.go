package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/meysamhadeli/depscope/code_analyzer"
	"github.com/meysamhadeli/depscope/code_analyzer/contracts"
	"github.com/meysamhadeli/depscope/config"
	"github.com/meysamhadeli/depscope/constants/lipgloss"
	"github.com/meysamhadeli/depscope/utils"
	"github.com/spf13/cobra"
)

// RootDependencies holds the wiring shared by all subcommands.
type RootDependencies struct {
	Cwd      string
	Config   *config.Config
	Analyzer contracts.IDependencyAnalyzer
	GitOps   *utils.GitOperations
}

var rootCmd = &cobra.Command{
	Use:   "depscope",
	Short: "Analyze the blast radius of source-code changes.",
	Long: `depscope scans a JavaScript/TypeScript project, extracts the import graph
between its files and answers reachability questions over it: what does a file
depend on, what depends on it, and which files are impacted when a given set of
files changes.`,
	Run: func(cmd *cobra.Command, args []string) {
		if versionFlag, _ := cmd.Flags().GetBool("version"); versionFlag {
			fmt.Println(config.DefaultConfig.Version)
			return
		}
		_ = cmd.Help()
	},
}

// handleRootCommand loads configuration and builds the shared dependencies.
func handleRootCommand(cmd *cobra.Command) *RootDependencies {
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error getting current directory: %v", err)))
		os.Exit(1)
	}

	cfg := config.LoadConfigs(cmd.Root(), cwd)

	baseDir := cfg.Resolution.BaseDir
	if baseDir == "" {
		baseDir = cwd
	}
	if !filepath.IsAbs(baseDir) {
		baseDir = filepath.Join(cwd, baseDir)
	}

	resolution := code_analyzer.ResolutionConfig{
		BaseDir:           baseDir,
		AliasTable:        cfg.Resolution.Aliases,
		ExtensionPriority: cfg.Resolution.Extensions,
	}

	return &RootDependencies{
		Cwd:      cwd,
		Config:   cfg,
		Analyzer: code_analyzer.NewDependencyAnalyzer(cwd, resolution, cfg.Workers),
		GitOps:   utils.NewGitOperations(cwd),
	}
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		os.Exit(1)
	}
}

func init() {
	config.InitFlags(rootCmd)
}

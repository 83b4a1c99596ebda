package cmd

import (
	"fmt"

	"github.com/meysamhadeli/depscope/code_analyzer"
	"github.com/meysamhadeli/depscope/constants/lipgloss"
	"github.com/spf13/cobra"
)

var snapshotDiff bool

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Record or diff a snapshot of the project file states.",
	Long: `Writes a manifest of every source file's content hash under .depscope/,
or diffs the current working tree against the stored manifest. The diff is
the change set 'impact --since-snapshot' runs on.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rootDependencies := handleRootCommand(cmd)
		return handleSnapshotCommand(rootDependencies)
	},
}

func init() {
	snapshotCmd.Flags().BoolVar(&snapshotDiff, "diff", false, "Diff the working tree against the stored snapshot instead of writing one.")
	rootCmd.AddCommand(snapshotCmd)
}

func handleSnapshotCommand(rootDependencies *RootDependencies) error {
	manager := code_analyzer.NewSnapshotManager(rootDependencies.Cwd)

	files, err := rootDependencies.Analyzer.GetProjectFiles(rootDependencies.Cwd)
	if err != nil {
		return err
	}

	current, err := manager.Build(files)
	if err != nil {
		return err
	}

	if !snapshotDiff {
		if err := manager.Save(current); err != nil {
			return err
		}
		fmt.Println(lipgloss.Green.Render(fmt.Sprintf("Snapshot written: %d files", len(current.Files))))
		return nil
	}

	stored, exists, err := manager.Load()
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("no snapshot found, run 'depscope snapshot' first")
	}

	diff := manager.Diff(stored, current)
	if diff.Empty() {
		fmt.Println(lipgloss.Green.Render("No changes since snapshot."))
		return nil
	}

	for _, path := range diff.Added {
		fmt.Println(lipgloss.Green.Render("A " + path))
	}
	for _, path := range diff.Modified {
		fmt.Println(lipgloss.Yellow.Render("M " + path))
	}
	for _, path := range diff.Removed {
		fmt.Println(lipgloss.Red.Render("D " + path))
	}

	return nil
}

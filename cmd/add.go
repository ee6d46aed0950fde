package cmd

import (
	"fmt"

	"timechart/internal/dataset"

	"github.com/spf13/cobra"
)

var (
	addDepth    int
	addExcludes []string
	addDryRun   bool
	addScan     bool
)

var addCmd = &cobra.Command{
	Use:   "add <path>...",
	Short: "Add CSV datasets, or scan a folder for them",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		paths := args
		if addScan {
			if addDepth < -1 {
				return fmt.Errorf("depth must be >= -1, got %d", addDepth)
			}
			if len(args) != 1 {
				return fmt.Errorf("usage: timechart add --scan <folder>")
			}

			found, err := dataset.Scan(args[0], addDepth, addExcludes)
			if err != nil {
				return err
			}
			if len(found) == 0 {
				fmt.Fprintln(out, "no datasets found")
				return nil
			}
			paths = found
		}

		if addDryRun {
			fmt.Fprintln(out, "dry run; datasets found:")
			for _, p := range paths {
				fmt.Fprintln(out, p)
			}
			return nil
		}

		added, err := dataset.AddPaths(paths)
		if err != nil {
			return err
		}
		if added == 0 {
			fmt.Fprintln(out, "no new datasets to add")
			return nil
		}
		fmt.Fprintf(out, "added %d datasets\n", added)
		return nil
	},
}

func init() {
	addCmd.Flags().BoolVar(&addScan, "scan", false, "Scan a folder recursively for CSV files")
	addCmd.Flags().IntVarP(&addDepth, "depth", "d", -1, "Maximum recursion depth with --scan (-1 for unlimited)")
	addCmd.Flags().StringArrayVarP(&addExcludes, "exclude", "x", nil, "Exclude directories with --scan (repeatable)")
	addCmd.Flags().BoolVar(&addDryRun, "dry-run", false, "Preview datasets without adding")

	rootCmd.AddCommand(addCmd)
}

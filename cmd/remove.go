package cmd

import (
	"fmt"

	"timechart/internal/dataset"

	"github.com/spf13/cobra"
)

var removeInvalid bool

var removeCmd = &cobra.Command{
	Use:   "remove [path]",
	Short: "Remove a dataset",
	Args: func(cmd *cobra.Command, args []string) error {
		if removeInvalid {
			if len(args) != 0 {
				return fmt.Errorf("usage: timechart remove --invalid")
			}
			return nil
		}
		if len(args) != 1 {
			return fmt.Errorf("usage: timechart remove <path>")
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		if removeInvalid {
			_, invalid, err := dataset.VerifyPaths()
			if err != nil {
				return err
			}
			if len(invalid) == 0 {
				fmt.Fprintln(out, "no invalid datasets")
				return nil
			}

			removed := 0
			for _, p := range invalid {
				if err := dataset.RemovePath(p); err != nil {
					return err
				}
				removed++
				fmt.Fprintln(out, p)
			}
			fmt.Fprintf(out, "removed %d datasets\n", removed)
			return nil
		}

		if err := dataset.RemovePath(args[0]); err != nil {
			return err
		}
		fmt.Fprintln(out, args[0])
		return nil
	},
}

func init() {
	removeCmd.Flags().BoolVar(&removeInvalid, "invalid", false, "Remove all invalid datasets")
	rootCmd.AddCommand(removeCmd)
}

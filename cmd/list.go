package cmd

import (
	"fmt"

	"timechart/internal/dataset"

	"github.com/spf13/cobra"
)

// listVerify 标志控制是否验证数据集路径的有效性。
var listVerify bool

// listCmd 实现 list 子命令，用于列出所有已添加的数据集。
// 用法: timechart list [--verify]
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List added datasets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// 加载已保存的数据集列表
		paths, err := dataset.LoadPaths()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(paths) == 0 {
			fmt.Fprintln(out, "no datasets added")
			return nil
		}

		// 不验证时直接输出列表
		if !listVerify {
			for _, p := range paths {
				fmt.Fprintln(out, p)
			}
			return nil
		}

		// 验证模式：检查每个数据集路径是否有效
		_, invalid, err := dataset.VerifyPaths()
		if err != nil {
			return err
		}
		invalidSet := make(map[string]struct{}, len(invalid))
		for _, p := range invalid {
			invalidSet[p] = struct{}{}
		}

		// 输出列表，无效数据集标记 (invalid)
		for _, p := range paths {
			if _, ok := invalidSet[p]; ok {
				fmt.Fprintf(out, "%s (invalid)\n", p)
				continue
			}
			fmt.Fprintln(out, p)
		}
		return nil
	},
}

// init 注册 list 命令及其标志。
func init() {
	listCmd.Flags().BoolVar(&listVerify, "verify", false, "Verify datasets on disk")

	rootCmd.AddCommand(listCmd)
}

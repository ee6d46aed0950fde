package cmd

import (
	"fmt"
	"os"
	"strings"

	"timechart/internal/config"
	"timechart/internal/dataset"
	"timechart/internal/dateparse"
	"timechart/internal/series"

	"github.com/spf13/cobra"
)

var detectDateField string

// detectCmd 实现 detect 子命令，用于报告日期格式探测结果。
// 参数是 CSV 文件时探测其日期列，否则当作单个日期样本；
// 不带参数时逐个探测已注册数据集的日期列。
// 用法: timechart detect [sample|file]
var detectCmd = &cobra.Command{
	Use:   "detect [sample|file]",
	Short: "Report the detected date format for a sample, a file, or each dataset",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDetect,
}

func init() {
	detectCmd.Flags().StringVar(&detectDateField, "date-field", "", "Date column name (default: config value)")

	rootCmd.AddCommand(detectCmd)
}

func runDetect(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	// 单参数模式：现存文件按数据集探测，否则按日期样本探测
	if len(args) == 1 {
		if st, err := os.Stat(args[0]); err == nil && st.Mode().IsRegular() {
			return detectFile(cmd, args[0])
		}

		sample := strings.TrimSpace(args[0])
		format := dateparse.Detect(sample)

		when, ok := format.Parse(sample)
		if !ok {
			when, ok = dateparse.FallbackParse(sample)
		}
		if !ok {
			return fmt.Errorf("cannot parse %q with any known date format", sample)
		}

		fmt.Fprintf(out, "format: %s\nparsed: %s\n", format.Name, when.Format("2006-01-02T15:04:05"))
		return nil
	}

	// 数据集模式
	dateField, err := resolveDetectDateField()
	if err != nil {
		return err
	}

	paths, err := dataset.LoadPaths()
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		fmt.Fprintln(out, "no datasets added")
		return nil
	}

	for _, path := range paths {
		raw, err := dataset.Load([]string{path})
		if err != nil {
			fmt.Fprintf(out, "%s: error: %v\n", path, err)
			continue
		}
		format := series.DetectFormat(raw, dateField)
		fmt.Fprintf(out, "%s: %s\n", path, format.Name)
	}
	return nil
}

// detectFile 探测单个 CSV 文件日期列的格式。
func detectFile(cmd *cobra.Command, path string) error {
	dateField, err := resolveDetectDateField()
	if err != nil {
		return err
	}

	raw, err := dataset.Load([]string{path})
	if err != nil {
		return err
	}

	format := series.DetectFormat(raw, dateField)
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", path, format.Name)
	return nil
}

// resolveDetectDateField 确定日期列名：命令行标志优先于配置。
func resolveDetectDateField() (string, error) {
	if f := strings.TrimSpace(detectDateField); f != "" {
		return f, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return "", err
	}
	return cfg.DateField, nil
}

package cmd

import (
	"fmt"
	"io"

	"timechart/internal/config"
	"timechart/internal/dataset"

	"github.com/spf13/cobra"
)

// doctorCmd 实现 doctor 子命令，一站式诊断环境和配置问题。
// 依次执行 5 项检查：配置合法性、数据集路径有效性、可读性、
// 日期列可解析性、性能预警。
// 有错误时返回非零退出码，仅警告时返回 0。
// 用法: timechart doctor
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose environment and configuration issues",
	Args:  cobra.NoArgs,
	RunE:  runDoctor,
}

// init 注册 doctor 命令。
func init() {
	rootCmd.AddCommand(doctorCmd)
}

// runDoctor 是 doctor 命令的核心逻辑，按顺序执行 5 项诊断检查：
//  1. 配置合法性（粒度、方式、财年起始月份、months、ticks）
//  2. 数据集路径有效性（路径存在且是普通文件）
//  3. 可读性（文件可打开且表头含日期列和指标列）
//  4. 日期列可解析性（首个样本能被某个已知格式识别）
//  5. 性能预警（数据集数量 >50 或单文件 >256MB）
//
// 输出使用 ✅/⚠️/❌ 分类显示，有错误时返回 error（exit 非零）。
func runDoctor(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Running diagnostics...")

	hasError := false

	// 1. 配置合法性检查
	cfg, cfgErr := config.Load()
	if cfgErr != nil {
		hasError = true
		fmt.Fprintf(out, "❌ Config: %v\n", cfgErr)
	} else if err := cfg.Validate(); err != nil {
		hasError = true
		fmt.Fprintf(out, "❌ Config: %v\n", err)
	} else {
		fmt.Fprintln(out, "✅ Config: OK")
	}

	// 2. 数据集路径有效性检查
	validPaths, invalidPaths, verifyErr := dataset.VerifyPaths()
	if verifyErr != nil {
		hasError = true
		fmt.Fprintf(out, "❌ Datasets: %v\n", verifyErr)
	} else {
		total := len(validPaths) + len(invalidPaths)
		switch {
		case total == 0:
			fmt.Fprintln(out, "⚠️  Datasets: no datasets added")
		case len(invalidPaths) == 0:
			fmt.Fprintf(out, "✅ Datasets: %d/%d valid\n", len(validPaths), total)
		default:
			hasError = true
			fmt.Fprintf(out, "❌ Datasets: %d/%d valid, %d invalid\n", len(validPaths), total, len(invalidPaths))
			printLines(out, invalidPaths)
		}
	}

	// 3. 可读性检查（需要有效数据集）
	if len(validPaths) == 0 {
		fmt.Fprintln(out, "⚠️  Readability: skipped (no valid datasets)")
	} else {
		readErrors := make([]string, 0)
		for _, path := range validPaths {
			if err := dataset.CheckReadable(path); err != nil {
				readErrors = append(readErrors, err.Error())
			}
		}
		if len(readErrors) == 0 {
			fmt.Fprintln(out, "✅ Readability: OK")
		} else {
			hasError = true
			fmt.Fprintf(out, "❌ Readability: %d issue(s)\n", len(readErrors))
			printLines(out, readErrors)
		}
	}

	// 4. 日期列可解析性检查（需要有效数据集和合法配置）
	if len(validPaths) == 0 || cfgErr != nil {
		fmt.Fprintln(out, "⚠️  Date parsing: skipped")
	} else {
		parseErrors := make([]string, 0)
		for _, path := range validPaths {
			if err := dataset.CheckDateField(path, cfg.DateField); err != nil {
				parseErrors = append(parseErrors, err.Error())
			}
		}
		if len(parseErrors) == 0 {
			fmt.Fprintln(out, "✅ Date parsing: OK")
		} else {
			hasError = true
			fmt.Fprintf(out, "❌ Date parsing: %d issue(s)\n", len(parseErrors))
			printLines(out, parseErrors)
		}
	}

	// 5. 性能预警（数据集数量、文件体积）
	performanceWarnings := dataset.CheckPerformance(validPaths)
	if len(performanceWarnings) == 0 {
		fmt.Fprintln(out, "✅ Performance: OK")
	} else {
		fmt.Fprintf(out, "⚠️  Performance: %d warning(s)\n", len(performanceWarnings))
		printLines(out, performanceWarnings)
	}

	if hasError {
		return fmt.Errorf("doctor found issues")
	}
	return nil
}

// printLines 将字符串列表以缩进列表形式输出，每行前加 "   - " 前缀。
func printLines(out io.Writer, lines []string) {
	for _, line := range lines {
		fmt.Fprintf(out, "   - %s\n", line)
	}
}

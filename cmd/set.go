package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"timechart/internal/config"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

// setCmd 实现 set 子命令，用于查看或修改默认配置。
// 支持两种模式：
// 1. timechart set - 显示当前配置
// 2. timechart set <key> <value> - 设置配置项
var setCmd = newSetCmd()

// newSetCmd 构建 set 命令，便于在测试中复用。
func newSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set [key] [value]",
		Short: "Set or show default configuration",
		Long: `View or modify default configuration.

Without arguments, displays the current configuration.
With key/value, sets the specified option. Supported keys:
date_field, metrics (comma-separated), granularity, method,
fiscal_start, months, ticks.`,
		Example: `  timechart set
  timechart set granularity month
  timechart set fiscal_start 4
  timechart set metrics revenue,units`,
		Args: validateSetArgs,
		RunE: runSet,
	}
}

// validateSetArgs 校验 set 参数格式。
func validateSetArgs(cmd *cobra.Command, args []string) error {
	// 无参数：显示配置
	if len(args) == 0 {
		return nil
	}
	// 设置配置需要正好两个参数
	if len(args) != 2 {
		return fmt.Errorf("usage: timechart set <key> <value>")
	}
	return nil
}

// runSet 执行 set 逻辑（显示或设置配置项）。
func runSet(cmd *cobra.Command, args []string) error {
	// 加载当前配置
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// 无参数时显示当前配置
	if len(args) == 0 {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "date_field: %s\n", cfg.DateField)
		fmt.Fprintf(out, "metrics: %s\n", metricsLabel(cfg.Metrics))
		fmt.Fprintf(out, "granularity: %s\n", cfg.Granularity)
		fmt.Fprintf(out, "method: %s\n", cfg.Method)
		fmt.Fprintf(out, "fiscal_start: %d\n", cfg.FiscalStart)
		fmt.Fprintf(out, "months: %d\n", cfg.Months)
		fmt.Fprintf(out, "ticks: %d\n", cfg.Ticks)
		return nil
	}

	key := args[0]
	val := strings.TrimSpace(args[1])

	// 根据 key 修改对应配置项；数值项先做类型转换，
	// 范围和枚举校验统一由 config.Save 执行。
	switch key {
	case "date_field":
		if val == "" {
			return fmt.Errorf("date_field cannot be empty")
		}
		cfg.DateField = val
	case "metrics":
		cfg.Metrics = splitMetrics(val)
	case "granularity":
		cfg.Granularity = val
	case "method":
		cfg.Method = val
	case "fiscal_start":
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid fiscal_start %q: %w", val, err)
		}
		cfg.FiscalStart = n
	case "months":
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid months %q: %w", val, err)
		}
		cfg.Months = n
	case "ticks":
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid ticks %q: %w", val, err)
		}
		cfg.Ticks = n
	default:
		return fmt.Errorf("unsupported key %q (supported: date_field, metrics, granularity, method, fiscal_start, months, ticks)", key)
	}

	// 保存修改后的配置（含校验）
	return config.Save(cfg)
}

// splitMetrics 将逗号分隔的指标列表切分并清洗。
func splitMetrics(val string) []string {
	return lo.Compact(lo.Map(strings.Split(val, ","), func(p string, _ int) string {
		return strings.TrimSpace(p)
	}))
}

func metricsLabel(metrics []string) string {
	if len(metrics) == 0 {
		return "(from dataset header)"
	}
	return strings.Join(metrics, ", ")
}

// init 注册 set 命令。
func init() {
	rootCmd.AddCommand(setCmd)
}

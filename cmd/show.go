package cmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"timechart/internal/axis"
	"timechart/internal/render"
	"timechart/internal/series"

	"github.com/spf13/cobra"
)

// 命令行标志变量
var (
	showFlags     chartFlags
	showFormat    string // 输出格式：table/line/json/csv
	showSecondary string // 次级标签粒度：auto/none/粒度名
	showPattern   string // date 粒度主标签的自定义格式
	showNoLegend  bool   // 是否隐藏图例（仅 table 输出）
	showNoSummary bool   // 是否隐藏摘要（table/line 输出）
	showNoCache   bool   // 是否绕过聚合结果缓存
)

// showCmd 实现 show 子命令，用于显示时间序列图表。
// 这是默认命令，当不带子命令运行 timechart 时也会执行。
// 用法: timechart show [-M metric] [-g granularity] [-f format]
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show time-series charts for registered datasets",
	Args:  cobra.NoArgs,
	RunE:  runShow,
}

// init 注册 show 命令并为根命令和 show 命令添加相同的标志。
func init() {
	addChartFlags(rootCmd)
	addChartFlags(showCmd)

	rootCmd.AddCommand(showCmd)
}

// addChartFlags 为指定命令添加图表相关的标志。
// 这样根命令和 show 子命令可以共享相同的标志。
func addChartFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&showFlags.metrics, "metric", "M", nil, "Metric column (repeatable; default: config or dataset header)")
	cmd.Flags().StringVar(&showFlags.dateField, "date-field", "", "Date column name (default: config value)")
	cmd.Flags().StringVarP(&showFlags.granularity, "granularity", "g", "", "Bucket granularity: date/day/week/month/quarter/year (default: config value)")
	cmd.Flags().StringVar(&showFlags.method, "method", "", "Aggregation method: sum/avg/min/max/count (default: config value)")
	cmd.Flags().IntVar(&showFlags.fiscalStart, "fiscal-start", 0, "Fiscal year start month 1-12 (default: config value)")
	cmd.Flags().IntVarP(&showFlags.months, "months", "m", 0, "Months to include (default: config value; ignored when --since/--until is set)")
	cmd.Flags().StringVar(&showFlags.since, "since", "", "Start date (YYYY-MM-DD, YYYY-MM, or relative like 2m/1w/1y)")
	cmd.Flags().StringVar(&showFlags.until, "until", "", "End date (YYYY-MM-DD, YYYY-MM, or relative like 2m/1w/1y)")
	cmd.Flags().IntVar(&showFlags.ticks, "ticks", 0, "Target tick count for quarter/year axes (default: config value)")
	cmd.Flags().StringVarP(&showFormat, "format", "f", "table", "Output format: table/line/json/csv")
	cmd.Flags().StringVar(&showSecondary, "secondary", "auto", "Secondary label granularity: auto/none/date/day/week/month/quarter/year")
	cmd.Flags().StringVar(&showPattern, "date-pattern", "", "Go layout for date-granularity labels (default: 2006-01-02)")
	cmd.Flags().BoolVar(&showNoLegend, "no-legend", false, "Hide legend in table output")
	cmd.Flags().BoolVar(&showNoSummary, "no-summary", false, "Hide summary in table/line output")
	cmd.Flags().BoolVar(&showNoCache, "no-cache", false, "Bypass the aggregation cache")
}

// runShow 是 show 命令的核心逻辑。
// 它加载并聚合已注册的数据集，然后以指定格式输出。
func runShow(cmd *cobra.Command, _ []string) error {
	ctx, err := prepareRun(showFlags)
	if err != nil {
		if err == errNoDatasetsAdded {
			fmt.Fprintln(cmd.OutOrStdout(), "no datasets added")
			return nil
		}
		return err
	}

	buckets, err := loadBuckets(cmd, ctx, showNoCache)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(buckets) == 0 {
		fmt.Fprintln(out, "no records in range")
		return nil
	}

	// 根据指定格式输出结果
	switch strings.ToLower(strings.TrimSpace(showFormat)) {
	case "", "table":
		return writeCharts(out, ctx, buckets, render.RenderChart)
	case "line":
		return writeCharts(out, ctx, buckets, render.RenderLine)
	case "json":
		return writeBucketJSON(out, buckets)
	case "csv":
		return writeBucketCSV(out, ctx.Metrics, buckets)
	default:
		return fmt.Errorf("unsupported format %q (supported: table, line, json, csv)", showFormat)
	}
}

// writeCharts 逐指标渲染图表，随后按需输出图例和摘要。
func writeCharts(out io.Writer, ctx *RunContext, buckets []series.AggregatedBucket, renderFn func(render.ChartData) string) error {
	for _, metric := range ctx.Metrics {
		chart := renderFn(render.ChartData{
			Buckets:     buckets,
			Metric:      metric,
			Granularity: ctx.Granularity,
			FiscalStart: ctx.FiscalStart,
			TargetTicks: ctx.Ticks,
			Axis:        axis.Options{Secondary: showSecondary, DatePattern: showPattern},
		})
		fmt.Fprint(out, chart)
		if !showNoSummary {
			fmt.Fprint(out, render.RenderSummary(render.CalculateSummary(buckets, metric)))
		}
		fmt.Fprintln(out)
	}

	if !showNoLegend {
		fmt.Fprint(out, render.RenderLegend())
	}
	return nil
}

// writeBucketJSON 将聚合桶以 JSON 数组输出，顺序与图表一致。
func writeBucketJSON(out io.Writer, buckets []series.AggregatedBucket) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(buckets)
}

// writeBucketCSV 将聚合桶以 CSV 格式输出。
// 表头为 key,start 加各指标列和 records 列；缺失的指标值输出空串。
func writeBucketCSV(out io.Writer, metrics []string, buckets []series.AggregatedBucket) error {
	w := csv.NewWriter(out)

	header := append([]string{"key", "start"}, metrics...)
	header = append(header, "records")
	if err := w.Write(header); err != nil {
		return err
	}

	for _, bucket := range buckets {
		row := make([]string, 0, len(header))
		row = append(row, bucket.Key, bucket.Start.Format("2006-01-02"))
		for _, metric := range metrics {
			if v, ok := bucket.Values[metric]; ok {
				row = append(row, formatMetric(v))
			} else {
				row = append(row, "")
			}
		}
		row = append(row, fmt.Sprintf("%d", bucket.SourceCount))
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func formatMetric(v float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.4f", v), "0"), ".")
}

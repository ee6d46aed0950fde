package cmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"timechart/internal/series"

	"github.com/spf13/cobra"
)

var (
	topFlags  chartFlags
	topFormat string

	topNumber  int
	topAll     bool
	topNoCache bool
)

// topCmd 实现 top 子命令，用于显示指标值最高的周期排行榜。
// 用法: timechart top [-n number|--all] [-M metric] [-g granularity] [-f format]
var topCmd = &cobra.Command{
	Use:   "top",
	Short: "Show top periods by metric value",
	Args:  cobra.NoArgs,
	RunE:  runTop,
}

func init() {
	topCmd.Flags().IntVarP(&topNumber, "number", "n", 10, "Number of periods to show")
	topCmd.Flags().BoolVar(&topAll, "all", false, "Show all periods")
	topCmd.MarkFlagsMutuallyExclusive("number", "all")

	topCmd.Flags().StringArrayVarP(&topFlags.metrics, "metric", "M", nil, "Metric column (repeatable; first one is ranked)")
	topCmd.Flags().StringVar(&topFlags.dateField, "date-field", "", "Date column name (default: config value)")
	topCmd.Flags().StringVarP(&topFlags.granularity, "granularity", "g", "", "Bucket granularity (default: config value)")
	topCmd.Flags().StringVar(&topFlags.method, "method", "", "Aggregation method (default: config value)")
	topCmd.Flags().IntVar(&topFlags.fiscalStart, "fiscal-start", 0, "Fiscal year start month 1-12 (default: config value)")
	topCmd.Flags().IntVarP(&topFlags.months, "months", "m", 0, "Months to include (default: config value; ignored when --since/--until is set)")
	topCmd.Flags().StringVar(&topFlags.since, "since", "", "Start date (YYYY-MM-DD, YYYY-MM, or relative like 2m/1w/1y)")
	topCmd.Flags().StringVar(&topFlags.until, "until", "", "End date (YYYY-MM-DD, YYYY-MM, or relative like 2m/1w/1y)")
	topCmd.Flags().StringVarP(&topFormat, "format", "f", "table", "Output format: table/json/csv")
	topCmd.Flags().BoolVar(&topNoCache, "no-cache", false, "Bypass the aggregation cache")

	rootCmd.AddCommand(topCmd)
}

func runTop(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	if !topAll && topNumber <= 0 {
		return fmt.Errorf("number must be > 0, got %d", topNumber)
	}

	ctx, err := prepareRun(topFlags)
	if err != nil {
		if err == errNoDatasetsAdded {
			fmt.Fprintln(out, "no datasets added")
			return nil
		}
		return err
	}

	buckets, err := loadBuckets(cmd, ctx, topNoCache)
	if err != nil {
		return err
	}

	limit := topNumber
	if topAll {
		limit = 0
	}

	// 排行榜只针对首个指标
	metric := ctx.Metrics[0]
	ranking := series.RankBuckets(buckets, metric, limit)

	switch strings.ToLower(strings.TrimSpace(topFormat)) {
	case "", "table":
		if len(ranking.Buckets) == 0 {
			fmt.Fprintln(out, "no records in range")
			return nil
		}
		return writeTopTable(out, metric, ranking, topRangeLabel(topFlags.since, topFlags.until, ctx.months, ctx.Since, ctx.Until))
	case "json":
		return writeTopJSON(out, ranking)
	case "csv":
		return writeTopCSV(out, ranking)
	default:
		return fmt.Errorf("unsupported format %q (supported: table, json, csv)", topFormat)
	}
}

func topRangeLabel(since, until string, months int, start, end time.Time) string {
	since = strings.TrimSpace(since)
	until = strings.TrimSpace(until)
	if since == "" && until == "" {
		return fmt.Sprintf("last %d months", months)
	}
	return fmt.Sprintf("%s to %s", start.Format("2006-01-02"), end.Format("2006-01-02"))
}

func writeTopTable(out io.Writer, metric string, ranking series.BucketRanking, rangeLabel string) error {
	keyWidth := len("Period")
	for _, r := range ranking.Buckets {
		if len(r.Key) > keyWidth {
			keyWidth = len(r.Key)
		}
	}

	rankWidth := len(fmt.Sprintf("%d", len(ranking.Buckets)))
	rankWidth = max(rankWidth, 2)

	valueWidth := len(metric)
	for _, r := range ranking.Buckets {
		if w := len(formatMetric(r.Value)); w > valueWidth {
			valueWidth = w
		}
	}
	if w := len(formatMetric(ranking.Total)); w > valueWidth {
		valueWidth = w
	}

	percentWidth := len("100.0%")

	lineLen := rankWidth + 3 + keyWidth + 1 + valueWidth + 1 + percentWidth
	rule := strings.Repeat("─", lineLen)

	fmt.Fprintf(out, "Top %d periods by %s (%s)\n", len(ranking.Buckets), metric, rangeLabel)
	fmt.Fprintln(out, rule)
	fmt.Fprintf(out, "%*s   %-*s %*s %*s\n", rankWidth, "#", keyWidth, "Period", valueWidth, metric, percentWidth, "%")
	fmt.Fprintln(out, rule)

	for i, r := range ranking.Buckets {
		percentStr := fmt.Sprintf("%.1f%%", r.Percent)
		fmt.Fprintf(out, "%*d   %-*s %*s %*s\n", rankWidth, i+1, keyWidth, r.Key, valueWidth, formatMetric(r.Value), percentWidth, percentStr)
	}

	fmt.Fprintln(out, rule)
	fmt.Fprintf(out, "%*s   %-*s %*s %*s\n", rankWidth, "", keyWidth, "Total", valueWidth, formatMetric(ranking.Total), percentWidth, "100.0%")

	return nil
}

func writeTopJSON(out io.Writer, ranking series.BucketRanking) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(ranking)
}

func writeTopCSV(out io.Writer, ranking series.BucketRanking) error {
	w := csv.NewWriter(out)
	if err := w.Write([]string{"key", "value", "percent"}); err != nil {
		return err
	}
	for _, r := range ranking.Buckets {
		if err := w.Write([]string{
			r.Key,
			formatMetric(r.Value),
			fmt.Sprintf("%.1f", r.Percent),
		}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

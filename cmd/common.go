package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"timechart/internal/cache"
	"timechart/internal/config"
	"timechart/internal/dataset"
	"timechart/internal/series"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

var errNoDatasetsAdded = errors.New("no datasets added")

// RunContext holds the common initialization result for chart commands.
type RunContext struct {
	Paths       []string
	DateField   string
	Metrics     []string
	Granularity series.Granularity
	Method      series.Method
	FiscalStart int
	Ticks       int
	Since       time.Time
	Until       time.Time

	months    int
	perRecord bool
}

// chartFlags 是图表类命令共享的标志集合。
type chartFlags struct {
	metrics     []string
	dateField   string
	granularity string
	method      string
	fiscalStart int
	months      int
	since       string
	until       string
	ticks       int
}

// prepareRun performs common command initialization:
// load config, load datasets, resolve flags against config, parse time range.
func prepareRun(flags chartFlags) (*RunContext, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	paths, err := dataset.LoadPaths()
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, errNoDatasetsAdded
	}

	dateField := strings.TrimSpace(flags.dateField)
	if dateField == "" {
		dateField = cfg.DateField
	}

	granularityName := strings.TrimSpace(flags.granularity)
	if granularityName == "" {
		granularityName = cfg.Granularity
	}
	granularity, err := series.ParseGranularity(granularityName)
	if err != nil {
		return nil, err
	}

	method, err := series.ParseMethod(firstNonEmpty(flags.method, cfg.Method))
	if err != nil {
		return nil, err
	}

	fiscalStart := flags.fiscalStart
	if fiscalStart == 0 {
		fiscalStart = cfg.FiscalStart
	}
	if fiscalStart < 1 || fiscalStart > 12 {
		return nil, fmt.Errorf("fiscal-start must be in 1..12, got %d", fiscalStart)
	}

	ticks := flags.ticks
	if ticks == 0 {
		ticks = cfg.Ticks
	}
	if ticks <= 0 {
		return nil, fmt.Errorf("ticks must be > 0, got %d", ticks)
	}

	since := strings.TrimSpace(flags.since)
	until := strings.TrimSpace(flags.until)

	resolvedMonths := flags.months
	if resolvedMonths == 0 {
		resolvedMonths = cfg.Months
	}
	rangeMonths := resolvedMonths
	if since != "" || until != "" {
		rangeMonths = cfg.Months
	}

	start, end, err := series.TimeRange(since, until, rangeMonths)
	if err != nil {
		return nil, err
	}

	metrics, err := resolveMetrics(flags.metrics, cfg.Metrics, paths, dateField)
	if err != nil {
		return nil, err
	}

	// 一个指标列都解析不出来时退化为未聚合模式：每条记录一个桶，
	// 合成 records 指标，绝不让整个命令失败。
	perRecord := false
	if len(metrics) == 0 {
		metrics = []string{"records"}
		granularity = series.GranularityDate
		perRecord = true
	}

	return &RunContext{
		Paths:       paths,
		DateField:   dateField,
		Metrics:     metrics,
		Granularity: granularity,
		Method:      method,
		FiscalStart: fiscalStart,
		Ticks:       ticks,
		Since:       start,
		Until:       end,
		months:      resolvedMonths,
		perRecord:   perRecord,
	}, nil
}

// resolveMetrics 确定指标列表：命令行 > 配置 > 首个数据集的表头推断
// （日期字段之外的全部列）。三处都推断不到时返回空列表而非错误，
// 由调用方回退到每记录一桶模式。
func resolveMetrics(flagMetrics, cfgMetrics, paths []string, dateField string) ([]string, error) {
	trim := func(metric string, _ int) string { return strings.TrimSpace(metric) }

	if cleaned := lo.Compact(lo.Map(flagMetrics, trim)); len(cleaned) > 0 {
		return cleaned, nil
	}
	if cleaned := lo.Compact(lo.Map(cfgMetrics, trim)); len(cleaned) > 0 {
		return cleaned, nil
	}

	header, err := dataset.Header(paths[0])
	if err != nil {
		return nil, err
	}
	return lo.Filter(header, func(name string, _ int) bool {
		return name != dateField && strings.TrimSpace(name) != ""
	}), nil
}

// loadBuckets 执行完整的聚合流水线：缓存查询、数据集加载、
// 格式探测、解析、时间过滤、聚合、缓存回写。
// 非致命问题（部分文件失败、丢弃的行）以 warning 输出到 stderr。
func loadBuckets(cmd *cobra.Command, ctx *RunContext, noCache bool) ([]series.AggregatedBucket, error) {
	if ctx.perRecord {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning: no metric columns resolved, charting one bucket per record")
	}

	key := cache.Key{
		Datasets:    ctx.Paths,
		Fingerprint: cache.Fingerprint(ctx.Paths),
		DateField:   ctx.DateField,
		Metrics:     ctx.Metrics,
		Granularity: string(ctx.Granularity),
		Method:      string(ctx.Method),
		FiscalStart: ctx.FiscalStart,
		TimeRange:   fmt.Sprintf("%s_%s", ctx.Since.Format("2006-01-02"), ctx.Until.Format("2006-01-02")),
	}

	if !noCache {
		if entry, err := cache.Load(key); err == nil {
			return entry.Buckets, nil
		}
	}

	raw, loadErr := dataset.Load(ctx.Paths)
	if loadErr != nil {
		if len(raw) == 0 {
			return nil, loadErr
		}
		fmt.Fprintln(cmd.ErrOrStderr(), "warning:", loadErr)
	}

	format := series.DetectFormat(raw, ctx.DateField)
	records, dropped := series.ParseRecords(raw, ctx.DateField, ctx.Metrics, format)
	if dropped > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: dropped %d rows with unparseable dates\n", dropped)
	}

	records = series.FilterRecords(records, ctx.Since, ctx.Until)
	buckets := series.Aggregate(records, ctx.Metrics, ctx.Granularity, ctx.Method, ctx.FiscalStart)
	if ctx.perRecord {
		for i := range buckets {
			buckets[i].Values["records"] = 1
		}
	}

	if !noCache {
		if err := cache.Save(key, buckets); err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "warning: save cache:", err)
		}
	}

	return buckets, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

package series

import (
	"fmt"
	"sort"
	"time"

	"timechart/internal/calendar"
)

// metricAccum 是单个桶内单个指标的累加器。
type metricAccum struct {
	sum float64
	min float64
	max float64
	n   int
}

func (a *metricAccum) add(v float64) {
	if a.n == 0 || v < a.min {
		a.min = v
	}
	if a.n == 0 || v > a.max {
		a.max = v
	}
	a.sum += v
	a.n++
}

func (a *metricAccum) value(method Method) float64 {
	switch method {
	case MethodAvg:
		return a.sum / float64(a.n)
	case MethodMin:
		return a.min
	case MethodMax:
		return a.max
	case MethodCount:
		return float64(a.n)
	default:
		return a.sum
	}
}

// bucketAccum 是单个桶的累加状态。
type bucketAccum struct {
	start       time.Time
	metrics     map[string]*metricAccum
	sourceCount int
}

// Aggregate 将解析后的记录按粒度分桶，并对每个指标独立合并。
// fiscalStartMonth 只影响 quarter 和 year 的分桶边界。
// 输出按桶起点升序排列。
//
// 保证：
//   - Σ bucket.SourceCount == len(records)（聚合绝不增减记录数）；
//   - day 粒度对日历日期互不相同的记录是恒等变换；
//   - 相同输入重复调用产出深度相等的结果；
//   - 空输入返回空切片。
//
// GranularityDate 即"不聚合"：直接走每记录一桶的路径。
func Aggregate(records []ParsedRecord, metrics []string, g Granularity, method Method, fiscalStartMonth int) []AggregatedBucket {
	if g == GranularityDate {
		return PerRecordBuckets(records, metrics)
	}

	accums := make(map[string]*bucketAccum)
	for _, record := range records {
		key, start := bucketKey(record.When, g, fiscalStartMonth)

		acc, ok := accums[key]
		if !ok {
			acc = &bucketAccum{start: start, metrics: make(map[string]*metricAccum)}
			accums[key] = acc
		}
		acc.sourceCount++

		for _, metric := range metrics {
			v, present := record.Values[metric]
			if !present {
				continue // 缺失值不参与合并，也不当作零
			}
			m, ok := acc.metrics[metric]
			if !ok {
				m = &metricAccum{}
				acc.metrics[metric] = m
			}
			m.add(v)
		}
	}

	out := make([]AggregatedBucket, 0, len(accums))
	for key, acc := range accums {
		values := make(map[string]float64, len(acc.metrics))
		for metric, m := range acc.metrics {
			values[metric] = m.value(method)
		}
		out = append(out, AggregatedBucket{
			Key:         key,
			Start:       acc.start,
			Values:      values,
			SourceCount: acc.sourceCount,
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}

// PerRecordBuckets 是聚合失败时的回退路径：每条记录原样成为一个桶，
// 指标值不做任何合并。当指标字段一个都解析不出来、或调用方显式要求
// 不聚合（GranularityDate）时使用，绝不让整个操作失败。
func PerRecordBuckets(records []ParsedRecord, metrics []string) []AggregatedBucket {
	sorted := make([]ParsedRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].When.Before(sorted[j].When) })

	out := make([]AggregatedBucket, 0, len(sorted))
	for i, record := range sorted {
		values := make(map[string]float64, len(record.Values))
		for _, metric := range metrics {
			if v, ok := record.Values[metric]; ok {
				values[metric] = v
			}
		}
		out = append(out, AggregatedBucket{
			// 序号后缀保证同一时间点的多条记录键仍唯一且可排序。
			Key:         fmt.Sprintf("%s#%06d", record.When.Format("2006-01-02T15:04:05"), i),
			Start:       record.When,
			Values:      values,
			SourceCount: 1,
		})
	}
	return out
}

// bucketKey 按粒度推导桶键和桶起点。
// 键是不透明字符串，但在同一粒度内字典序等价于时间序。
func bucketKey(t time.Time, g Granularity, fiscalStartMonth int) (string, time.Time) {
	loc := t.Location()

	switch g {
	case GranularityWeek:
		week, isoYear := calendar.ISOWeek(t)
		start := calendar.ISOWeekStart(isoYear, week, loc)
		return fmt.Sprintf("%04d-W%02d", isoYear, week), start

	case GranularityMonth:
		start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
		return start.Format("2006-01"), start

	case GranularityQuarter:
		quarter, fiscalYear := calendar.FiscalQuarter(t, fiscalStartMonth)
		return fmt.Sprintf("%04d-Q%d", fiscalYear, quarter), calendar.QuarterStart(t, fiscalStartMonth)

	case GranularityYear:
		fiscalYear := calendar.FiscalYearOf(t, fiscalStartMonth)
		return fmt.Sprintf("%04d", fiscalYear), calendar.FiscalYearStart(t, fiscalStartMonth)

	default: // day
		start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
		return start.Format("2006-01-02"), start
	}
}

package render

import (
	"fmt"
	"strings"

	"timechart/internal/series"
)

// Summary 表示单个指标在全部聚合桶上的统计摘要。
type Summary struct {
	Metric        string
	Total         float64 // 全部桶的指标值之和
	ActiveBuckets int     // 含该指标值的桶数
	TotalBuckets  int
	Records       int // 合并进全部桶的记录总数
	PeakKey       string
	PeakValue     float64
	Average       float64 // 按活跃桶计算的平均值
}

// CalculateSummary 基于聚合桶计算指标摘要。
// 峰值并列时取时间更晚的桶。
func CalculateSummary(buckets []series.AggregatedBucket, metric string) Summary {
	out := Summary{Metric: metric, TotalBuckets: len(buckets)}

	for _, bucket := range buckets {
		out.Records += bucket.SourceCount

		v, ok := bucket.Values[metric]
		if !ok {
			continue
		}

		out.Total += v
		out.ActiveBuckets++
		if out.ActiveBuckets == 1 || v >= out.PeakValue {
			out.PeakKey = bucket.Key
			out.PeakValue = v
		}
	}

	if out.ActiveBuckets > 0 {
		out.Average = out.Total / float64(out.ActiveBuckets)
	}
	return out
}

const summaryRuleLen = 36

// RenderSummary 渲染摘要信息，输出为多行纯文本，可直接输出到终端。
func RenderSummary(s Summary) string {
	var b strings.Builder
	b.WriteString(strings.Repeat("─", summaryRuleLen))
	b.WriteByte('\n')

	b.WriteString(fmt.Sprintf(
		"Total: %s %s │ Active: %d/%d %s\n",
		formatValue(s.Total),
		s.Metric,
		s.ActiveBuckets,
		s.TotalBuckets,
		pluralize(s.TotalBuckets, "bucket", "buckets"),
	))

	peakLabel := "-"
	if s.PeakKey != "" {
		peakLabel = s.PeakKey
	}
	b.WriteString(fmt.Sprintf(
		"Peak: %s (%s) │ Average: %.2f │ Records: %d\n",
		peakLabel,
		formatValue(s.PeakValue),
		s.Average,
		s.Records,
	))

	return b.String()
}

func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}

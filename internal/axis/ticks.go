package axis

import (
	"math"
	"time"

	"timechart/internal/series"

	"github.com/samber/lo"
)

// DefaultTargetTicks 是抽样策略的目标刻度数。
const DefaultTargetTicks = 6

// PlanTicks 决定坐标轴刻度集合。刻度总是取自按时间排序的桶起点。
//
// 双轨策略是有意的取舍（完整性 vs 可读性），不是缺陷：
//   - 密集策略：{date, day, week, month} 每个聚合桶一个刻度，逐桶标注，
//     对几百个点以内的漏斗是正确选择，不做自动抽稀；
//   - 抽样策略：{quarter, year} 在桶日期范围上按标准 "nice 整数" 步长
//     生成等距的缩减刻度集（目标数量固定，默认 6 个），
//     避免长跨度粗粒度下不可读的密度。
func PlanTicks(buckets []series.AggregatedBucket, g series.Granularity, targetTicks int) []time.Time {
	if len(buckets) == 0 {
		return nil
	}

	starts := lo.Map(buckets, func(b series.AggregatedBucket, _ int) time.Time { return b.Start })

	switch g {
	case series.GranularityQuarter, series.GranularityYear:
		return sampleTicks(starts, targetTicks)
	default:
		return starts
	}
}

// sampleTicks 按 nice 整数步长从桶起点中等距抽取约 targetTicks 个刻度。
func sampleTicks(starts []time.Time, targetTicks int) []time.Time {
	if targetTicks <= 0 {
		targetTicks = DefaultTargetTicks
	}
	if len(starts) <= targetTicks {
		return starts
	}

	step := niceStep(float64(len(starts)) / float64(targetTicks))
	out := make([]time.Time, 0, len(starts)/step+1)
	for i := 0; i < len(starts); i += step {
		out = append(out, starts[i])
	}
	return out
}

// niceStep 将原始步长向上取整到最近的 nice 整数（1、2、5 × 10^k）。
func niceStep(raw float64) int {
	if raw <= 1 {
		return 1
	}

	magnitude := math.Pow(10, math.Floor(math.Log10(raw)))
	for _, m := range []float64{1, 2, 5, 10} {
		if raw <= m*magnitude {
			return int(m * magnitude)
		}
	}
	return int(10 * magnitude)
}

package axis

import (
	"testing"

	"timechart/internal/series"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func monthlyBuckets(n int) []series.AggregatedBucket {
	buckets := make([]series.AggregatedBucket, 0, n)
	start := date(2020, 1, 1)
	for i := 0; i < n; i++ {
		s := start.AddDate(0, i, 0)
		buckets = append(buckets, series.AggregatedBucket{Key: s.Format("2006-01"), Start: s})
	}
	return buckets
}

func quarterlyBuckets(n int) []series.AggregatedBucket {
	buckets := make([]series.AggregatedBucket, 0, n)
	start := date(2010, 1, 1)
	for i := 0; i < n; i++ {
		s := start.AddDate(0, 3*i, 0)
		buckets = append(buckets, series.AggregatedBucket{Key: s.Format("2006-01"), Start: s})
	}
	return buckets
}

func TestPlanTicks_DensePolicy(t *testing.T) {
	// 细粒度每桶一个刻度，不做自动抽稀。
	for _, g := range []series.Granularity{series.GranularityDate, series.GranularityDay, series.GranularityWeek, series.GranularityMonth} {
		buckets := monthlyBuckets(200)
		ticks := PlanTicks(buckets, g, DefaultTargetTicks)
		require.Len(t, ticks, 200, "granularity %s", g)
		for i, tick := range ticks {
			assert.True(t, tick.Equal(buckets[i].Start))
		}
	}
}

func TestPlanTicks_SampledPolicy(t *testing.T) {
	// 粗粒度抽稀到约 target 个刻度。
	ticks := PlanTicks(quarterlyBuckets(40), series.GranularityQuarter, 6)
	assert.LessOrEqual(t, len(ticks), 8)
	assert.GreaterOrEqual(t, len(ticks), 4)

	// 抽样后仍保持时间升序。
	for i := 1; i < len(ticks); i++ {
		assert.True(t, ticks[i-1].Before(ticks[i]))
	}
}

func TestPlanTicks_SampledBelowTargetKeepsAll(t *testing.T) {
	ticks := PlanTicks(quarterlyBuckets(4), series.GranularityYear, 6)
	assert.Len(t, ticks, 4)
}

func TestPlanTicks_ZeroTargetUsesDefault(t *testing.T) {
	ticks := PlanTicks(quarterlyBuckets(40), series.GranularityQuarter, 0)
	assert.NotEmpty(t, ticks)
	assert.Less(t, len(ticks), 40)
}

func TestPlanTicks_Empty(t *testing.T) {
	assert.Nil(t, PlanTicks(nil, series.GranularityDay, 6))
}

func TestNiceStep(t *testing.T) {
	tests := []struct {
		raw  float64
		want int
	}{
		{0.5, 1},
		{1, 1},
		{1.4, 2},
		{3, 5},
		{6.7, 10},
		{13, 20},
		{34, 50},
		{70, 100},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, niceStep(tt.raw), "raw %v", tt.raw)
	}
}

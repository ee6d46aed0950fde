package series

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(y int, m time.Month, d int, values map[string]float64) ParsedRecord {
	return ParsedRecord{
		When:   time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		Values: values,
	}
}

func TestAggregate_DayIdentity(t *testing.T) {
	// 日历日期互不相同的记录按 day 聚合是恒等变换。
	records := []ParsedRecord{
		record(2024, 1, 1, map[string]float64{"visits": 10}),
		record(2024, 1, 2, map[string]float64{"visits": 20}),
		record(2024, 1, 3, map[string]float64{"visits": 30}),
	}

	buckets := Aggregate(records, []string{"visits"}, GranularityDay, MethodSum, 1)
	require.Len(t, buckets, 3)

	for i, bucket := range buckets {
		assert.Equal(t, 1, bucket.SourceCount)
		assert.Equal(t, records[i].Values["visits"], bucket.Values["visits"])
		assert.True(t, bucket.Start.Equal(records[i].When))
	}
}

func TestAggregate_MonthlySumMerge(t *testing.T) {
	// 同一日历月的 3 条记录按 sum 合并为恰好 1 个桶。
	records := []ParsedRecord{
		record(2024, 3, 1, map[string]float64{"visits": 1}),
		record(2024, 3, 15, map[string]float64{"visits": 2}),
		record(2024, 3, 31, map[string]float64{"visits": 4}),
	}

	buckets := Aggregate(records, []string{"visits"}, GranularityMonth, MethodSum, 1)
	require.Len(t, buckets, 1)
	assert.Equal(t, "2024-03", buckets[0].Key)
	assert.Equal(t, 3, buckets[0].SourceCount)
	assert.Equal(t, 7.0, buckets[0].Values["visits"])
	assert.True(t, buckets[0].Start.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
}

func TestAggregate_LosslessSourceCount(t *testing.T) {
	records := []ParsedRecord{
		record(2024, 1, 1, map[string]float64{"a": 1}),
		record(2024, 1, 8, nil),
		record(2024, 2, 1, map[string]float64{"a": 2}),
		record(2024, 2, 2, map[string]float64{"a": 3}),
		record(2025, 6, 1, map[string]float64{"a": 4}),
	}

	for _, g := range []Granularity{GranularityDay, GranularityWeek, GranularityMonth, GranularityQuarter, GranularityYear, GranularityDate} {
		buckets := Aggregate(records, []string{"a"}, g, MethodSum, 1)
		total := 0
		for _, bucket := range buckets {
			total += bucket.SourceCount
		}
		assert.Equal(t, len(records), total, "granularity %s", g)
	}
}

func TestAggregate_Methods(t *testing.T) {
	records := []ParsedRecord{
		record(2024, 3, 1, map[string]float64{"v": 2}),
		record(2024, 3, 2, map[string]float64{"v": 8}),
		record(2024, 3, 3, map[string]float64{"v": 5}),
	}

	tests := []struct {
		method Method
		want   float64
	}{
		{MethodSum, 15},
		{MethodAvg, 5},
		{MethodMin, 2},
		{MethodMax, 8},
		{MethodCount, 3},
	}

	for _, tt := range tests {
		t.Run(string(tt.method), func(t *testing.T) {
			buckets := Aggregate(records, []string{"v"}, GranularityMonth, tt.method, 1)
			require.Len(t, buckets, 1)
			assert.Equal(t, tt.want, buckets[0].Values["v"])
		})
	}
}

func TestAggregate_MissingValuesExcluded(t *testing.T) {
	// 缺失指标不当作零：avg 的分母只含有值的记录。
	records := []ParsedRecord{
		record(2024, 3, 1, map[string]float64{"v": 4}),
		record(2024, 3, 2, nil),
		record(2024, 3, 3, map[string]float64{"v": 8}),
	}

	buckets := Aggregate(records, []string{"v"}, GranularityMonth, MethodAvg, 1)
	require.Len(t, buckets, 1)
	assert.Equal(t, 6.0, buckets[0].Values["v"])
	assert.Equal(t, 3, buckets[0].SourceCount)
}

func TestAggregate_WeekBucketsUseISOWeek(t *testing.T) {
	// 2023-12-31（周日）和 2024-01-01（周一）属于不同 ISO 周。
	records := []ParsedRecord{
		record(2023, 12, 31, map[string]float64{"v": 1}),
		record(2024, 1, 1, map[string]float64{"v": 2}),
	}

	buckets := Aggregate(records, []string{"v"}, GranularityWeek, MethodSum, 1)
	require.Len(t, buckets, 2)
	assert.Equal(t, "2023-W52", buckets[0].Key)
	assert.Equal(t, "2024-W01", buckets[1].Key)
}

func TestAggregate_FiscalQuarterBuckets(t *testing.T) {
	// 4 月起始财年：3 月和 6 月的记录分属 FY2023-Q4 和 FY2024-Q1。
	records := []ParsedRecord{
		record(2024, 3, 10, map[string]float64{"v": 1}),
		record(2024, 6, 10, map[string]float64{"v": 2}),
	}

	buckets := Aggregate(records, []string{"v"}, GranularityQuarter, MethodSum, 4)
	require.Len(t, buckets, 2)
	assert.Equal(t, "2023-Q4", buckets[0].Key)
	assert.Equal(t, "2024-Q1", buckets[1].Key)

	yearBuckets := Aggregate(records, []string{"v"}, GranularityYear, MethodSum, 4)
	require.Len(t, yearBuckets, 2)
	assert.Equal(t, "2023", yearBuckets[0].Key)
	assert.Equal(t, "2024", yearBuckets[1].Key)
}

func TestAggregate_ChronologicalOrder(t *testing.T) {
	records := []ParsedRecord{
		record(2024, 6, 1, map[string]float64{"v": 1}),
		record(2023, 1, 1, map[string]float64{"v": 2}),
		record(2024, 1, 1, map[string]float64{"v": 3}),
	}

	buckets := Aggregate(records, []string{"v"}, GranularityMonth, MethodSum, 1)
	require.Len(t, buckets, 3)
	for i := 1; i < len(buckets); i++ {
		assert.True(t, buckets[i-1].Start.Before(buckets[i].Start))
	}
}

func TestAggregate_Idempotent(t *testing.T) {
	records := []ParsedRecord{
		record(2024, 1, 1, map[string]float64{"a": 1, "b": 2}),
		record(2024, 1, 15, map[string]float64{"a": 3}),
		record(2024, 2, 1, map[string]float64{"b": 4}),
	}

	first := Aggregate(records, []string{"a", "b"}, GranularityMonth, MethodSum, 1)
	second := Aggregate(records, []string{"a", "b"}, GranularityMonth, MethodSum, 1)
	assert.Equal(t, first, second)
}

func TestAggregate_Empty(t *testing.T) {
	buckets := Aggregate(nil, []string{"v"}, GranularityMonth, MethodSum, 1)
	assert.Empty(t, buckets)

	buckets = Aggregate([]ParsedRecord{}, nil, GranularityDay, MethodSum, 1)
	assert.Empty(t, buckets)
}

func TestPerRecordBuckets_Fallback(t *testing.T) {
	records := []ParsedRecord{
		record(2024, 1, 2, map[string]float64{"v": 2}),
		record(2024, 1, 1, map[string]float64{"v": 1}),
		record(2024, 1, 1, map[string]float64{"v": 9}),
	}

	buckets := PerRecordBuckets(records, []string{"v"})
	require.Len(t, buckets, 3)

	// 按时间升序，同一时间点保持稳定顺序，键互不相同。
	assert.True(t, buckets[0].Start.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 1.0, buckets[0].Values["v"])
	assert.Equal(t, 9.0, buckets[1].Values["v"])
	assert.Equal(t, 2.0, buckets[2].Values["v"])
	assert.NotEqual(t, buckets[0].Key, buckets[1].Key)

	for _, bucket := range buckets {
		assert.Equal(t, 1, bucket.SourceCount)
	}
}

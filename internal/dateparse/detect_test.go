package dateparse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect_Priority(t *testing.T) {
	tests := []struct {
		sample string
		want   string
	}{
		{"2024-01-15", "iso"},
		{"01/15/2024", "us-slash"},
		// 日值 > 12 时美式解析失败，落到欧式。
		{"25/12/2024", "eu-slash"},
		// 歧义样本：美式优先于欧式（固定顺序消解歧义）。
		{"03/04/2024", "us-slash"},
		{"Jan 15, 2024", "month-short"},
		{"15 January 2024", "month-long"},
		{"2024-01", "year-month"},
		{"2024", "year"},
		{"2024-W05", "iso-week"},
		{"2024-01-15 09", "date-hour"},
		{"01-15-2024", "us-dash"},
		{"25-12-2024", "eu-dash"},
	}

	for _, tt := range tests {
		t.Run(tt.sample, func(t *testing.T) {
			got := Detect(tt.sample)
			assert.Equal(t, tt.want, got.Name)
		})
	}
}

func TestDetect_AmbiguousSlashReadsAsUS(t *testing.T) {
	f := Detect("03/04/2024")
	require.Equal(t, "us-slash", f.Name)

	got, ok := f.ParseIn("03/04/2024", time.UTC)
	require.True(t, ok)
	// 美式解读：3 月 4 日，而不是 4 月 3 日。
	assert.Equal(t, time.March, got.Month())
	assert.Equal(t, 4, got.Day())
}

func TestDetect_UnknownFallsThroughWithoutPanic(t *testing.T) {
	f := Detect("not-a-date")
	assert.Equal(t, "generic", f.Name)

	_, ok := f.ParseIn("not-a-date", time.UTC)
	assert.False(t, ok)

	// generic 格式仍能解析宽松形式的行。
	got, ok := f.ParseIn("2024/06/01", time.UTC)
	require.True(t, ok)
	assert.True(t, got.Equal(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)), "got %v", got)
}

func TestFormat_ParseAnchorsMidnight(t *testing.T) {
	f := Detect("2024-01-15")

	got, ok := f.ParseIn("2024-03-09", time.UTC)
	require.True(t, ok)
	assert.True(t, got.Equal(time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)), "got %v", got)
	assert.Equal(t, 0, got.Hour())
}

func TestFormat_ISOWeekParsesToMonday(t *testing.T) {
	f := Detect("2024-W05")
	require.Equal(t, "iso-week", f.Name)

	got, ok := f.ParseIn("2024-W01", time.UTC)
	require.True(t, ok)
	assert.True(t, got.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)), "got %v", got)

	_, ok = f.ParseIn("2024-W60", time.UTC)
	assert.False(t, ok, "week out of range should fail")
}

func TestFallbackParse_Chain(t *testing.T) {
	// (a) 严格 ISO 形态。
	got, ok := fallbackParseIn("2024-02-29", time.UTC)
	require.True(t, ok)
	assert.True(t, got.Equal(time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)), "got %v", got)

	// (b) 宽松 layout。
	got, ok = fallbackParseIn("2024-06-01T10:30:00Z", time.UTC)
	require.True(t, ok)
	assert.Equal(t, 2024, got.Year())

	// (c) 彻底失败，不 panic。
	_, ok = fallbackParseIn("definitely not a date", time.UTC)
	assert.False(t, ok)
}

func TestFormat_RowFailureFallsBackIndividually(t *testing.T) {
	// 数据集探测到 us-slash，但个别行是 ISO 形式：
	// 共享格式失败后走 FallbackParse，而不是整批失败。
	f := Detect("01/15/2024")
	require.Equal(t, "us-slash", f.Name)

	_, ok := f.ParseIn("2024-06-01", time.UTC)
	require.False(t, ok)

	got, ok := fallbackParseIn("2024-06-01", time.UTC)
	require.True(t, ok)
	assert.True(t, got.Equal(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)), "got %v", got)
}

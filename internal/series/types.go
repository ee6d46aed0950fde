// Package series 提供时间序列记录的解析和按周期分桶聚合。
package series

import (
	"fmt"
	"strings"
	"time"
)

// RawRecord 表示一行原始输入：字段名到字段值的映射。
// 恰好一个字段是日期字符串，其余指定字段为数值指标。
// 字段顺序无关，但同一数据集内字段集合固定。
type RawRecord map[string]string

// ParsedRecord 表示解析后的记录：绝对时间点加已解析的指标值。
// 缺失或无法解析的指标值不会出现在 Values 中（不当作零参与聚合）。
type ParsedRecord struct {
	When   time.Time
	Values map[string]float64
}

// Granularity 表示聚合/标注使用的周期粒度。
// GranularityDate 是"不聚合"模式：每条记录一个桶，
// 由聚合失败的回退路径和坐标轴标注共用。
type Granularity string

const (
	GranularityDate    Granularity = "date"
	GranularityDay     Granularity = "day"
	GranularityWeek    Granularity = "week"
	GranularityMonth   Granularity = "month"
	GranularityQuarter Granularity = "quarter"
	GranularityYear    Granularity = "year"
)

// ParseGranularity 解析粒度字符串（大小写不敏感）。
func ParseGranularity(s string) (Granularity, error) {
	switch Granularity(strings.ToLower(strings.TrimSpace(s))) {
	case GranularityDate:
		return GranularityDate, nil
	case GranularityDay:
		return GranularityDay, nil
	case GranularityWeek:
		return GranularityWeek, nil
	case GranularityMonth:
		return GranularityMonth, nil
	case GranularityQuarter:
		return GranularityQuarter, nil
	case GranularityYear:
		return GranularityYear, nil
	}
	return "", fmt.Errorf("invalid granularity %q (supported: date, day, week, month, quarter, year)", s)
}

// Method 表示指标值的合并方式，默认为 sum。
type Method string

const (
	MethodSum   Method = "sum"
	MethodAvg   Method = "avg"
	MethodMin   Method = "min"
	MethodMax   Method = "max"
	MethodCount Method = "count"
)

// ParseMethod 解析聚合方式字符串，空串返回默认值 sum。
func ParseMethod(s string) (Method, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return MethodSum, nil
	}
	switch Method(s) {
	case MethodSum, MethodAvg, MethodMin, MethodMax, MethodCount:
		return Method(s), nil
	}
	return "", fmt.Errorf("invalid method %q (supported: sum, avg, min, max, count)", s)
}

// AggregatedBucket 表示一个聚合输出单元：映射到同一周期的全部记录。
// Key 是不透明但按时间可排序的桶标识；Start 是周期起点；
// SourceCount 是合并进该桶的记录数。
type AggregatedBucket struct {
	Key         string             `json:"key"`
	Start       time.Time          `json:"start"`
	Values      map[string]float64 `json:"values"`
	SourceCount int                `json:"sourceCount"`
}

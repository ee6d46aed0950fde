// Package axis 提供坐标轴刻度规划和双层（主/次）标签计算。
package axis

import (
	"fmt"
	"strconv"
	"time"

	"timechart/internal/calendar"
	"timechart/internal/series"
)

// SecondaryAuto 表示由默认查找表决定次级标签粒度。
const SecondaryAuto = "auto"

// SecondaryNone 表示显式关闭次级标签。
const SecondaryNone = "none"

// DefaultDatePattern 是 date 粒度主标签的默认格式。
const DefaultDatePattern = "2006-01-02"

// LabelPair 表示单个刻度的双层标签：逐刻度的主标签，
// 加上跨越连续刻度段的次级标签（可能不存在）。
type LabelPair struct {
	Primary      string
	Secondary    string
	HasSecondary bool
}

// LabelGroup 表示共享同一次级标签的连续刻度段。
// Start/End 是刻度数组上的序数坐标（允许半位小数的分数序数），
// 不是像素值——像素映射是渲染器的职责。
// 全部分组恰好无缝无重叠地铺满 [0, len(ticks))。
type LabelGroup struct {
	Label string  `json:"label"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// secondaryDefaults 是主粒度到次级粒度的固定查找表。
// 用查找表而不是条件链，消除隐藏分支、便于单测。
var secondaryDefaults = map[series.Granularity]series.Granularity{
	series.GranularityDate:    series.GranularityMonth,
	series.GranularityDay:     series.GranularityMonth,
	series.GranularityWeek:    series.GranularityMonth,
	series.GranularityMonth:   series.GranularityQuarter,
	series.GranularityQuarter: series.GranularityYear,
	// year 没有次级标签
}

// SecondaryFor 返回主粒度的默认次级粒度；year 返回 ok=false。
func SecondaryFor(g series.Granularity) (series.Granularity, bool) {
	sec, ok := secondaryDefaults[g]
	return sec, ok
}

// Options 控制标签计算的可选行为。
type Options struct {
	// Secondary 覆盖默认次级粒度：空串或 "auto" 走查找表，
	// "none" 关闭次级标签，否则按粒度名解析。
	Secondary string
	// DatePattern 是 date 粒度主标签的格式，空串使用默认值。
	DatePattern string
}

// resolveSecondary 解析生效的次级粒度；返回空串表示无次级标签。
func resolveSecondary(g series.Granularity, opts Options) series.Granularity {
	switch opts.Secondary {
	case "", SecondaryAuto:
		sec, ok := SecondaryFor(g)
		if !ok {
			return ""
		}
		return sec
	case SecondaryNone:
		return ""
	default:
		sec, err := series.ParseGranularity(opts.Secondary)
		if err != nil {
			sec, _ = SecondaryFor(g)
		}
		return sec
	}
}

// LabelFor 计算单个刻度的双层标签，次级标签走默认查找表。
func LabelFor(tick time.Time, g series.Granularity, fiscalStartMonth int) LabelPair {
	return LabelForWith(tick, g, fiscalStartMonth, Options{})
}

// LabelForWith 与 LabelFor 相同，但允许覆盖次级粒度和日期格式。
func LabelForWith(tick time.Time, g series.Granularity, fiscalStartMonth int, opts Options) LabelPair {
	pair := LabelPair{Primary: primaryText(tick, g, fiscalStartMonth, opts)}

	sec := resolveSecondary(g, opts)
	if sec == "" {
		return pair
	}
	pair.Secondary = secondaryText(tick, sec, fiscalStartMonth)
	pair.HasSecondary = true
	return pair
}

// primaryText 计算逐刻度的主标签文本。
func primaryText(tick time.Time, g series.Granularity, fiscalStartMonth int, opts Options) string {
	switch g {
	case series.GranularityDate:
		pattern := opts.DatePattern
		if pattern == "" {
			pattern = DefaultDatePattern
		}
		return tick.Format(pattern)
	case series.GranularityWeek:
		week, _ := calendar.ISOWeek(tick)
		return strconv.Itoa(week)
	case series.GranularityMonth:
		return strconv.Itoa(int(tick.Month()))
	case series.GranularityQuarter:
		quarter, _ := calendar.FiscalQuarter(tick, fiscalStartMonth)
		return strconv.Itoa(quarter)
	case series.GranularityYear:
		return strconv.Itoa(tick.Year())
	default: // day
		return strconv.Itoa(tick.Day())
	}
}

// secondaryText 按次级粒度计算段标签文本。
func secondaryText(tick time.Time, sec series.Granularity, fiscalStartMonth int) string {
	switch sec {
	case series.GranularityWeek:
		week, _ := calendar.ISOWeek(tick)
		return fmt.Sprintf("Week %d", week)
	case series.GranularityQuarter:
		quarter, fiscalYear := calendar.FiscalQuarter(tick, fiscalStartMonth)
		return fmt.Sprintf("Q%d %02d", quarter, fiscalYear%100)
	case series.GranularityYear:
		return strconv.Itoa(tick.Year())
	default: // month
		return tick.Format("Jan 06")
	}
}

// Group 将刻度序列按次级标签变化切分为连续分组，次级粒度走默认表。
func Group(ticks []time.Time, g series.Granularity, fiscalStartMonth int) []LabelGroup {
	return GroupWith(ticks, g, fiscalStartMonth, Options{})
}

// GroupWith 按序遍历刻度：次级标签相对前一刻度发生变化时开新组。
// 相邻两组的边界取两刻度序数的中点（i-0.5）；第一组从序数 0 开始，
// 最后一组延伸到序数 len(ticks)——即使越过它包含的最后一个刻度，
// 保证分组完整铺满坐标轴、无缝隙。
// 对同一刻度数组重复调用产出逐元素相等的结果（幂等，无隐藏计数器）。
func GroupWith(ticks []time.Time, g series.Granularity, fiscalStartMonth int, opts Options) []LabelGroup {
	if len(ticks) == 0 {
		return nil
	}

	sec := resolveSecondary(g, opts)
	if sec == "" {
		return nil
	}

	var groups []LabelGroup
	current := secondaryText(ticks[0], sec, fiscalStartMonth)
	start := 0.0

	for i := 1; i < len(ticks); i++ {
		label := secondaryText(ticks[i], sec, fiscalStartMonth)
		if label == current {
			continue
		}
		boundary := float64(i) - 0.5
		groups = append(groups, LabelGroup{Label: current, Start: start, End: boundary})
		current = label
		start = boundary
	}

	return append(groups, LabelGroup{Label: current, Start: start, End: float64(len(ticks))})
}

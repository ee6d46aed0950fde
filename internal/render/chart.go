// Package render 将聚合结果渲染为终端图表。
package render

import (
	"math"
	"strconv"
	"strings"
	"time"

	"timechart/internal/axis"
	"timechart/internal/series"
)

// ANSI 颜色代码常量，用于终端柱状图渲染。
const (
	colorReset = "\033[0m" // 重置颜色

	colorEmpty  = "\033[38;5;240m" // 灰色 - 无数据
	colorLow    = "\033[38;5;120m" // 浅绿 - 低于峰值 1/3
	colorMedium = "\033[38;5;76m"  // 中绿 - 低于峰值 2/3
	colorHigh   = "\033[38;5;34m"  // 深绿 - 峰值 2/3 以上
)

// 图表布局常量。
const (
	chartHeight = 12 // 柱体行数
	columnWidth = 3  // 每个桶占用的字符列数（含间隔）
)

// ChartData 是渲染一个指标所需的全部输入。
type ChartData struct {
	Buckets     []series.AggregatedBucket
	Metric      string
	Granularity series.Granularity
	FiscalStart int
	TargetTicks int
	Axis        axis.Options
}

// RenderChart 将聚合桶渲染为纵向柱状图。
// 柱体下方依次是主标签行（逐刻度）和次级标签行（跨连续刻度段），
// 返回包含 ANSI 颜色代码的字符串，可直接输出到终端。
func RenderChart(d ChartData) string {
	if len(d.Buckets) == 0 {
		return ""
	}

	values := make([]float64, len(d.Buckets))
	present := make([]bool, len(d.Buckets))
	maxVal := 0.0
	for i, bucket := range d.Buckets {
		v, ok := bucket.Values[d.Metric]
		values[i] = v
		present[i] = ok
		if ok && v > maxVal {
			maxVal = v
		}
	}

	ticks := axis.PlanTicks(d.Buckets, d.Granularity, d.TargetTicks)
	// 标尺宽度取峰值和半值标签中较宽者，半值带小数时常常更长。
	gutter := max(len(gutterLabel(chartHeight, maxVal)), len(gutterLabel(chartHeight/2, maxVal))) + 1

	var b strings.Builder
	b.WriteString(d.Metric)
	b.WriteByte('\n')

	// 自上而下渲染柱体
	for row := chartHeight; row >= 1; row-- {
		writeGutter(&b, row, maxVal, gutter)
		for i := range d.Buckets {
			b.WriteString(renderColumnCell(values[i], present[i], maxVal, row))
		}
		b.WriteByte('\n')
	}

	// 基线
	b.WriteString(strings.Repeat(" ", gutter))
	b.WriteString(strings.Repeat("─", len(d.Buckets)*columnWidth))
	b.WriteByte('\n')

	writePrimaryLabels(&b, d, ticks, gutter, columnWidth)
	writeSecondaryLabels(&b, d, ticks, gutter, columnWidth)

	return b.String()
}

// gutterLabel 返回某一行的标尺文本：顶行峰值，中行半值，其余为空。
func gutterLabel(row int, maxVal float64) string {
	switch row {
	case chartHeight:
		return formatValue(maxVal)
	case chartHeight / 2:
		return formatValue(math.Round(maxVal/2*100) / 100)
	}
	return ""
}

// writeGutter 写入左侧数值标尺，右对齐到固定宽度。
func writeGutter(b *strings.Builder, row int, maxVal float64, width int) {
	label := gutterLabel(row, maxVal)
	if pad := width - 1 - len(label); pad > 0 {
		b.WriteString(strings.Repeat(" ", pad))
	}
	b.WriteString(label)
	b.WriteByte(' ')
}

// renderColumnCell 渲染柱状图的单个单元格。
// 柱高按峰值比例缩放；颜色按相对峰值的强度分级；
// 无数据的桶在底行显示灰色空心方块以区别于零值。
func renderColumnCell(value float64, present bool, maxVal float64, row int) string {
	if !present {
		if row == 1 {
			return colorEmpty + "░░" + colorReset + " "
		}
		return "   "
	}

	barHeight := 0
	if maxVal > 0 && value > 0 {
		barHeight = int(math.Ceil(value / maxVal * chartHeight))
	}
	if barHeight < row {
		return "   "
	}

	color := colorLow
	switch {
	case value >= maxVal*2/3:
		color = colorHigh
	case value >= maxVal/3:
		color = colorMedium
	}
	return color + "██" + colorReset + " "
}

// writePrimaryLabels 写入逐刻度的主标签行。
// 标签左对齐在刻度所在列；放不下的标签跳过，避免互相覆盖。
// pad 是绘图区左缘的列偏移，colWidth 是每个桶占用的字符列数。
func writePrimaryLabels(b *strings.Builder, d ChartData, ticks []time.Time, pad, colWidth int) {
	columns := tickColumns(d.Buckets, ticks)

	b.WriteString(strings.Repeat(" ", pad))
	cursor := 0
	for i, tick := range ticks {
		pos := columns[i] * colWidth
		if pos < cursor {
			continue
		}
		label := axis.LabelForWith(tick, d.Granularity, d.FiscalStart, d.Axis).Primary
		b.WriteString(strings.Repeat(" ", pos-cursor))
		b.WriteString(label)
		cursor = pos + len(label) + 1
		b.WriteByte(' ')
	}
	b.WriteByte('\n')
}

// writeSecondaryLabels 写入跨连续刻度段的次级标签行。
// 每个分组的标签写在分组起点对应的列上。
func writeSecondaryLabels(b *strings.Builder, d ChartData, ticks []time.Time, pad, colWidth int) {
	groups := axis.GroupWith(ticks, d.Granularity, d.FiscalStart, d.Axis)
	if len(groups) == 0 {
		return
	}
	columns := tickColumns(d.Buckets, ticks)

	b.WriteString(strings.Repeat(" ", pad))
	cursor := 0
	for _, group := range groups {
		// 分组起点序数向上取整到它覆盖的第一个刻度
		first := int(math.Ceil(group.Start))
		if first >= len(columns) {
			break
		}
		pos := columns[first] * colWidth
		if pos < cursor {
			continue
		}
		b.WriteString(strings.Repeat(" ", pos-cursor))
		b.WriteString(group.Label)
		cursor = pos + len(group.Label) + 1
		b.WriteByte(' ')
	}
	b.WriteByte('\n')
}

// tickColumns 计算每个刻度对应的桶下标。
// 密集策略下恒等映射；抽样策略下按起点时间匹配。
func tickColumns(buckets []series.AggregatedBucket, ticks []time.Time) []int {
	columns := make([]int, len(ticks))
	next := 0
	for i, tick := range ticks {
		for next < len(buckets) && !buckets[next].Start.Equal(tick) {
			next++
		}
		if next < len(buckets) {
			columns[i] = next
		}
	}
	return columns
}

// formatValue 将指标值格式化为最短的十进制表示。
func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

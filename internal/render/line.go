package render

import (
	"strings"

	"github.com/guptarohit/asciigraph"

	"timechart/internal/axis"
)

// RenderLine 将聚合桶渲染为 ASCII 折线图，适合趋势观察。
// 无数据的桶以零值参与绘制（折线图需要连续的点序列）。
// 折线下方与柱状图一样依次是主标签行和次级标签行，
// 每个桶占一个字符列，与绘图区左缘对齐。
func RenderLine(d ChartData) string {
	if len(d.Buckets) == 0 {
		return ""
	}

	values := make([]float64, len(d.Buckets))
	for i, bucket := range d.Buckets {
		values[i] = bucket.Values[d.Metric]
	}

	plot := asciigraph.Plot(values, asciigraph.Height(chartHeight))
	pad := axisOffset(strings.Split(plot, "\n"))
	ticks := axis.PlanTicks(d.Buckets, d.Granularity, d.TargetTicks)

	var b strings.Builder
	b.WriteString(d.Metric)
	b.WriteByte('\n')
	b.WriteString(plot)
	b.WriteByte('\n')
	writePrimaryLabels(&b, d, ticks, pad, 1)
	writeSecondaryLabels(&b, d, ticks, pad, 1)

	return b.String()
}

// axisOffset 返回绘图区左缘的列号，即 y 轴字符之后的第一列。
// asciigraph 把数值标尺右对齐到等宽，轴字符在所有行的同一列上。
func axisOffset(lines []string) int {
	for _, line := range lines {
		for i, r := range []rune(line) {
			if r == '┤' || r == '┼' {
				return i + 1
			}
		}
	}
	return 0
}

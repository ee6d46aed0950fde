package render

import "strings"

// RenderLegend 渲染柱状图图例。
// 颜色分级相对于当前图表的峰值，而不是绝对数值。
func RenderLegend() string {
	var b strings.Builder

	b.WriteString("Less ")
	b.WriteString(colorEmpty)
	b.WriteString("░░")
	b.WriteString(colorReset)
	b.WriteByte(' ')
	b.WriteString(colorLow)
	b.WriteString("██")
	b.WriteString(colorReset)
	b.WriteByte(' ')
	b.WriteString(colorMedium)
	b.WriteString("██")
	b.WriteString(colorReset)
	b.WriteByte(' ')
	b.WriteString(colorHigh)
	b.WriteString("██")
	b.WriteString(colorReset)
	b.WriteString(" More\n")

	b.WriteString("     n/a <⅓  <⅔  ≥⅔ of peak\n")
	return b.String()
}

// Package calendar 提供 ISO 周数和财年季度的纯函数日历计算。
package calendar

import "time"

// ISOWeek 返回时间点所属的 ISO-8601 周数和 ISO 年份。
// 第 1 周是包含当年第一个星期四的那一周，周从周一开始。
// 12 月末的日期可能属于下一年的第 1 周，1 月初的日期可能属于上一年的最后一周。
// 返回的 week 取值范围为 [1, 53]。
func ISOWeek(t time.Time) (week, isoYear int) {
	isoYear, week = t.ISOWeek()
	return week, isoYear
}

// FiscalQuarter 返回时间点所属的财年季度（1-4）和财年年份。
// fiscalStartMonth 为财年起始月份（1-12，1 表示自然年）。
// 计算方式：将日历月按 (month - fiscalStartMonth) mod 12 平移，
// 再按 3 个月一组划分季度；财年在财年边界递增，而非自然年边界。
// 超出 [1,12] 的 fiscalStartMonth 被钳制为 1（即自然年），
// 范围校验由配置/命令行层负责。
func FiscalQuarter(t time.Time, fiscalStartMonth int) (quarter, fiscalYear int) {
	fiscalStartMonth = ClampFiscalStart(fiscalStartMonth)

	shifted := (int(t.Month()) - fiscalStartMonth + 12) % 12
	quarter = shifted/3 + 1

	fiscalYear = t.Year()
	if int(t.Month()) < fiscalStartMonth {
		fiscalYear--
	}
	return quarter, fiscalYear
}

// FiscalYearOf 返回时间点所属的财年年份。
func FiscalYearOf(t time.Time, fiscalStartMonth int) int {
	_, fy := FiscalQuarter(t, fiscalStartMonth)
	return fy
}

// ClampFiscalStart 将财年起始月份钳制到合法范围：超出 [1,12] 时退化为 1。
func ClampFiscalStart(fiscalStartMonth int) int {
	if fiscalStartMonth < 1 || fiscalStartMonth > 12 {
		return 1
	}
	return fiscalStartMonth
}

// ISOWeekStart 返回指定 ISO 年份和周数对应周的周一 00:00:00。
// 利用"1 月 4 日总在第 1 周"这一性质定位第 1 周的周一。
func ISOWeekStart(isoYear, week int, loc *time.Location) time.Time {
	jan4 := time.Date(isoYear, time.January, 4, 0, 0, 0, 0, loc)
	weekday := int(jan4.Weekday())
	if weekday == 0 {
		weekday = 7 // 周日按 ISO 记作 7
	}
	week1Monday := jan4.AddDate(0, 0, -(weekday - 1))
	return week1Monday.AddDate(0, 0, (week-1)*7)
}

// ISOWeekStartOf 返回时间点所在 ISO 周的周一 00:00:00。
func ISOWeekStartOf(t time.Time) time.Time {
	week, isoYear := ISOWeek(t)
	return ISOWeekStart(isoYear, week, t.Location())
}

// QuarterStart 返回时间点所属财年季度的第一天 00:00:00。
func QuarterStart(t time.Time, fiscalStartMonth int) time.Time {
	fiscalStartMonth = ClampFiscalStart(fiscalStartMonth)
	quarter, fiscalYear := FiscalQuarter(t, fiscalStartMonth)
	start := time.Date(fiscalYear, time.Month(fiscalStartMonth), 1, 0, 0, 0, 0, t.Location())
	return start.AddDate(0, (quarter-1)*3, 0)
}

// FiscalYearStart 返回时间点所属财年的第一天 00:00:00。
func FiscalYearStart(t time.Time, fiscalStartMonth int) time.Time {
	fiscalStartMonth = ClampFiscalStart(fiscalStartMonth)
	fy := FiscalYearOf(t, fiscalStartMonth)
	return time.Date(fy, time.Month(fiscalStartMonth), 1, 0, 0, 0, 0, t.Location())
}

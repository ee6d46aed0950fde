// Package dateparse 提供日期格式探测和行级解析回退。
//
// 探测按固定优先级顺序尝试候选格式，第一个解析成功的格式胜出。
// 顺序是歧义消解的唯一依据：例如 "03/04/2024" 总是先按美式 MM/DD/YYYY
// 解读，即使它也是合法的欧式 DD/MM/YYYY。这是有意为之并在此记录的
// 策略，不是缺陷。
package dateparse

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"timechart/internal/calendar"
)

// Format 表示一个已选定的日期格式：名称加解析函数。
// Detect 对每个数据集只调用一次，返回的 Format 由调用方显式传入
// 后续每一行的解析，不存在跨调用的隐藏状态。
type Format struct {
	Name  string
	parse func(s string, loc *time.Location) (time.Time, bool)
}

// Parse 按本格式解析输入，时间缺省锚定到本地时区的当日 00:00:00。
// 解析失败时返回 ok=false，调用方应对该行走 FallbackParse 回退链。
func (f Format) Parse(s string) (time.Time, bool) {
	return f.ParseIn(s, time.Local)
}

// ParseIn 与 Parse 相同，但允许指定时区（主要用于测试）。
func (f Format) ParseIn(s string, loc *time.Location) (time.Time, bool) {
	if f.parse == nil {
		return time.Time{}, false
	}
	return f.parse(strings.TrimSpace(s), loc)
}

// layoutFormat 构造基于 time.ParseInLocation 的候选格式。
// 多个 layout 依次尝试，用于同一格式族的变体（如带/不带逗号的月份名形式）。
func layoutFormat(name string, layouts ...string) Format {
	return Format{
		Name: name,
		parse: func(s string, loc *time.Location) (time.Time, bool) {
			for _, layout := range layouts {
				if t, err := time.ParseInLocation(layout, s, loc); err == nil {
					return t, true
				}
			}
			return time.Time{}, false
		},
	}
}

// isoWeekRe 匹配 ISO 周形式，如 "2024-W05"。
var isoWeekRe = regexp.MustCompile(`^(\d{4})-W(\d{1,2})$`)

// isoWeekFormat 解析 ISO 周形式，结果为该周周一 00:00:00。
func isoWeekFormat() Format {
	return Format{
		Name: "iso-week",
		parse: func(s string, loc *time.Location) (time.Time, bool) {
			m := isoWeekRe.FindStringSubmatch(s)
			if m == nil {
				return time.Time{}, false
			}
			year, _ := strconv.Atoi(m[1])
			week, _ := strconv.Atoi(m[2])
			if week < 1 || week > 53 {
				return time.Time{}, false
			}
			return calendar.ISOWeekStart(year, week, loc), true
		},
	}
}

// candidates 返回固定顺序的候选格式列表。
// 顺序即优先级：美式斜杠格式排在欧式之前（见包注释）。
func candidates() []Format {
	return []Format{
		layoutFormat("iso", "2006-01-02"),
		layoutFormat("us-slash", "01/02/2006"),
		layoutFormat("eu-slash", "02/01/2006"),
		layoutFormat("month-short", "Jan 2, 2006", "2 Jan 2006", "Jan 2 2006"),
		layoutFormat("month-long", "January 2, 2006", "2 January 2006"),
		layoutFormat("year-month", "2006-01"),
		layoutFormat("year", "2006"),
		isoWeekFormat(),
		layoutFormat("date-hour", "2006-01-02 15", "2006-01-02T15"),
		layoutFormat("us-dash", "01-02-2006"),
		layoutFormat("eu-dash", "02-01-2006"),
	}
}

// isoDateRe 用于回退链的第一步：严格的 YYYY-MM-DD 形态。
var isoDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// genericLayouts 是回退链第二步使用的宽松 layout 列表。
var genericLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02",
	"2006.01.02",
	"Jan 2 2006",
	"2 January 2006",
	"January 2, 2006",
	"01/02/06",
	time.RFC1123,
	time.RFC822,
}

// Detect 针对一条代表性样本（通常取第一条有效行的日期字段）选择格式。
// 按候选列表顺序返回第一个能解析样本的格式；全部失败时返回名为
// "generic" 的回退格式（其 Parse 走与 FallbackParse 相同的链），
// 保证 Detect 永不失败、永不 panic——解析不了的行由调用方丢弃。
func Detect(sample string) Format {
	sample = strings.TrimSpace(sample)

	for _, candidate := range candidates() {
		if _, ok := candidate.ParseIn(sample, time.Local); ok {
			return candidate
		}
	}

	return Format{
		Name: "generic",
		parse: func(s string, loc *time.Location) (time.Time, bool) {
			return fallbackParseIn(s, loc)
		},
	}
}

// FallbackParse 是行级回退链：当共享格式解析某一行失败时单独调用，
// 而不是让整批解析失败。
// 链路：(a) 严格 YYYY-MM-DD 按 ISO 解析并锚定本地 00:00:00，
// 避免时区偏移；(b) 宽松 layout 列表逐个尝试；(c) 仍失败则 ok=false，
// 该行被丢弃。
func FallbackParse(s string) (time.Time, bool) {
	return fallbackParseIn(strings.TrimSpace(s), time.Local)
}

func fallbackParseIn(s string, loc *time.Location) (time.Time, bool) {
	if isoDateRe.MatchString(s) {
		if t, err := time.ParseInLocation("2006-01-02", s, loc); err == nil {
			return t, true
		}
	}

	for _, layout := range genericLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

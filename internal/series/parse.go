package series

import (
	"strconv"
	"strings"

	"timechart/internal/dateparse"
)

// DetectFormat 针对一个数据集选定日期格式。
// 探测对每个数据集只执行一次：取第一条日期字段非空的行作为样本，
// 返回的格式由调用方传入 ParseRecords 供全部行复用。
func DetectFormat(raw []RawRecord, dateField string) dateparse.Format {
	for _, record := range raw {
		sample := strings.TrimSpace(record[dateField])
		if sample != "" {
			return dateparse.Detect(sample)
		}
	}
	return dateparse.Detect("")
}

// ParseRecords 将原始记录解析为带时间点的记录。
// 共享格式解析失败的行单独走 FallbackParse 回退链；仍失败的行被
// 丢弃并计入 dropped（非致命警告信号），绝不让整条流水线失败。
// 指标字段按数值解析，缺失或非数值的指标不写入 Values。
func ParseRecords(raw []RawRecord, dateField string, metrics []string, format dateparse.Format) (records []ParsedRecord, dropped int) {
	records = make([]ParsedRecord, 0, len(raw))

	for _, row := range raw {
		when, ok := format.Parse(row[dateField])
		if !ok {
			when, ok = dateparse.FallbackParse(row[dateField])
		}
		if !ok {
			dropped++
			continue
		}

		values := make(map[string]float64, len(metrics))
		for _, metric := range metrics {
			s := strings.TrimSpace(row[metric])
			if s == "" {
				continue
			}
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				continue
			}
			values[metric] = v
		}

		records = append(records, ParsedRecord{When: when, Values: values})
	}

	return records, dropped
}

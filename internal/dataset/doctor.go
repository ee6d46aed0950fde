package dataset

import (
	"fmt"
	"os"
	"strings"

	"timechart/internal/dateparse"
	"timechart/internal/series"
)

const (
	datasetCountWarnThreshold = 50
	fileSizeWarnThreshold     = int64(256 << 20) // 256MB
)

// CheckReadable 检查数据集文件的读取权限和表头完整性。
func CheckReadable(path string) error {
	header, err := Header(path)
	if err != nil {
		return err
	}
	if len(header) < 2 {
		return fmt.Errorf("dataset %s needs a date column and at least one metric column", path)
	}
	return nil
}

// CheckDateField 检查数据集表头是否包含指定的日期字段，
// 并验证首条非空样本能被某个已知日期格式识别。
func CheckDateField(path string, dateField string) error {
	header, err := Header(path)
	if err != nil {
		return err
	}

	found := false
	for _, name := range header {
		if name == dateField {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("dataset %s has no %q column", path, dateField)
	}

	records, err := loadFile(path)
	if err != nil {
		return err
	}
	for _, record := range records {
		sample := strings.TrimSpace(record[dateField])
		if sample == "" {
			continue
		}
		if _, ok := series.DetectFormat(records, dateField).Parse(sample); !ok {
			if _, ok := dateparse.FallbackParse(sample); !ok {
				return fmt.Errorf("dataset %s: cannot parse date sample %q", path, sample)
			}
		}
		return nil
	}
	return fmt.Errorf("dataset %s has no values in %q column", path, dateField)
}

// CheckPerformance 检查性能预警项。
func CheckPerformance(paths []string) []string {
	warnings := make([]string, 0)

	if len(paths) > datasetCountWarnThreshold {
		warnings = append(warnings, fmt.Sprintf("large number of datasets (%d) may slow down loading", len(paths)))
	}

	for _, path := range paths {
		st, err := os.Stat(path)
		if err != nil {
			continue
		}
		if st.Size() > fileSizeWarnThreshold {
			warnings = append(warnings, fmt.Sprintf("%s is large (%.1f MB), may be slow", path, float64(st.Size())/float64(1<<20)))
		}
	}

	return warnings
}

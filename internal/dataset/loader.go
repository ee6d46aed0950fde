package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"

	"timechart/internal/series"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

// maxConcurrency 是并发读取文件的最大数量，默认为 CPU 核心数。
var maxConcurrency = runtime.NumCPU()

// Load 并发读取多个 CSV 数据集，返回合并后的原始记录。
// 每个文件的首行作为表头，其余行按表头映射为字段集。
// 如果部分文件读取失败，会返回已成功读取的数据和聚合的错误。
//
// 合并后的记录顺序不保证与输入文件顺序一致，
// 下游聚合器会按时间重新排序。
func Load(paths []string) ([]series.RawRecord, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no datasets registered, add one with 'timechart add <path>'")
	}

	out := make([]series.RawRecord, 0)

	// 并发控制和结果聚合
	var (
		wg   sync.WaitGroup // 等待所有 goroutine 完成
		mu   sync.Mutex     // 保护 out 的写入
		emu  sync.Mutex     // 保护 errs 的写入
		pmu  sync.Mutex     // 保护进度条更新
		errs []error        // 收集所有错误
	)

	bar := newLoadProgressBar(len(paths))
	if bar != nil {
		defer func() { _ = bar.Finish() }()
	}

	// 使用信号量限制并发数
	sem := make(chan struct{}, maxConcurrency)

	for _, path := range paths {
		wg.Add(1)
		go func(path string) {
			sem <- struct{}{}        // 获取信号量
			defer func() { <-sem }() // 释放信号量
			defer wg.Done()
			defer func() {
				if bar == nil {
					return
				}
				pmu.Lock()
				_ = bar.Add(1)
				pmu.Unlock()
			}()

			records, err := loadFile(path)
			if err != nil {
				emu.Lock()
				errs = append(errs, err)
				emu.Unlock()
				return
			}

			mu.Lock()
			out = append(out, records...)
			mu.Unlock()
		}(path)
	}

	wg.Wait()

	return out, errors.Join(errs...)
}

// newLoadProgressBar 创建数据集加载进度条。
// 仅当文件数量 > 1 且在终端环境下才显示。
func newLoadProgressBar(total int) *progressbar.ProgressBar {
	if total <= 1 {
		return nil
	}
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		return nil
	}

	return progressbar.NewOptions(
		total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetDescription("loading datasets"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionThrottle(65*time.Millisecond),
	)
}

// loadFile 读取单个 CSV 文件并按表头映射为原始记录。
// 允许行字段数不足表头（缺失字段视为空值），忽略空行。
func loadFile(path string) ([]series.RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // 逐行校验字段数，容忍缺失的尾部字段
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("dataset %s is empty", path)
	}

	header := rows[0]
	out := make([]series.RawRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		record := make(series.RawRecord, len(header))
		for i, name := range header {
			if i < len(row) {
				record[name] = row[i]
			}
		}
		out = append(out, record)
	}

	return out, nil
}

// Header 读取 CSV 文件的表头行。
func Header(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}
	return header, nil
}

// Package cache 提供基于 JSON 文件的聚合结果缓存。
// 缓存文件存储在 ~/.config/timechart/cache/ 目录下，
// 以数据集名 + 参数哈希命名，通过数据集指纹（文件大小和修改时间）
// 实现自动失效。
package cache

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"timechart/internal/series"
)

// Key 唯一标识一次聚合的上下文参数。
// 任何参数变化（包括数据集文件内容变化）都会产生不同的缓存键，
// 从而自动失效旧缓存。
type Key struct {
	Datasets    []string // 排序后存储，保证顺序无关
	Fingerprint string   // 数据集文件的大小和修改时间摘要
	DateField   string
	Metrics     []string // 排序后存储，保证顺序无关
	Granularity string
	Method      string
	FiscalStart int
	TimeRange   string // 格式 "2024-01-01_2024-06-30"
}

// Entry 是持久化到磁盘的缓存条目。
type Entry struct {
	Key       Key                       `json:"key"`
	Buckets   []series.AggregatedBucket `json:"buckets"`
	CreatedAt time.Time                 `json:"created_at"`
}

// String 返回稳定的短文件名，格式为 "{datasetName}_{hash}.json"。
// 对 key 先做规范化（路径清理、列表排序），再取 SHA-256 前 8 字节
// 作为摘要，保证相同参数（不论列表顺序）总是映射到同一文件。
func (k Key) String() string {
	normalized := normalizeKey(k)

	name := "buckets"
	if len(normalized.Datasets) > 0 {
		if base := sanitizeFileComponent(filepath.Base(normalized.Datasets[0])); base != "" {
			name = base
		}
	}

	payload := strings.Join([]string{
		strings.Join(normalized.Datasets, ","),
		normalized.Fingerprint,
		normalized.DateField,
		strings.Join(normalized.Metrics, ","),
		normalized.Granularity,
		normalized.Method,
		fmt.Sprintf("%d", normalized.FiscalStart),
		normalized.TimeRange,
	}, "\n")
	digest := sha256.Sum256([]byte(payload))
	return fmt.Sprintf("%s_%x.json", name, digest[:8])
}

// Fingerprint 计算数据集文件列表的内容指纹（大小 + 修改时间）。
// 无法访问的文件以错误串参与摘要，保证状态变化同样触发失效。
func Fingerprint(paths []string) string {
	parts := make([]string, 0, len(paths))
	for _, path := range paths {
		st, err := os.Stat(path)
		if err != nil {
			parts = append(parts, fmt.Sprintf("%s:err", path))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s:%d:%d", path, st.Size(), st.ModTime().UnixNano()))
	}
	return strings.Join(parts, ";")
}

// Load 从磁盘读取并反序列化一条缓存。
// 缓存未命中时返回 os.ErrNotExist。
func Load(key Key) (*Entry, error) {
	cachePath, err := getCachePath(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(cachePath)
	if err != nil {
		return nil, err
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// Save 将聚合结果序列化并写入磁盘。
// 写入使用 tmp + rename 的原子策略，避免并发读到半写文件。
func Save(key Key, buckets []series.AggregatedBucket) error {
	cachePath, err := getCachePath(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(cachePath), 0o700); err != nil {
		return err
	}

	entry := Entry{
		Key:       normalizeKey(key),
		Buckets:   buckets,
		CreatedAt: time.Now().UTC(),
	}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return err
	}

	// 原子写入：先写临时文件，再 rename
	tmpPath := cachePath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, cachePath); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}

// getCachePath 返回缓存文件的完整路径。
func getCachePath(key Key) (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	cacheDir := filepath.Join(homeDir, ".config", "timechart", "cache")
	return filepath.Join(cacheDir, key.String()), nil
}

// normalizeKey 规范化缓存键：清理路径、去除空白、列表排序。
// 保证相同语义的参数产生相同的键。
func normalizeKey(key Key) Key {
	normalized := key
	normalized.Datasets = normalizeList(normalized.Datasets, true)
	normalized.Fingerprint = strings.TrimSpace(normalized.Fingerprint)
	normalized.DateField = strings.TrimSpace(normalized.DateField)
	normalized.Metrics = normalizeList(normalized.Metrics, false)
	normalized.Granularity = strings.TrimSpace(normalized.Granularity)
	normalized.Method = strings.TrimSpace(normalized.Method)
	normalized.TimeRange = strings.TrimSpace(normalized.TimeRange)
	return normalized
}

// normalizeList 清洗字符串列表：去空白、去空串、按字典序排序。
// asPath 为真时额外做路径清理。
func normalizeList(items []string, asPath bool) []string {
	if len(items) == 0 {
		return nil
	}

	cleaned := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if asPath {
			item = filepath.Clean(item)
		}
		cleaned = append(cleaned, item)
	}
	sort.Strings(cleaned)
	return cleaned
}

// sanitizeFileComponent 清理文件名组成部分，将路径分隔符、空格、冒号替换为下划线。
func sanitizeFileComponent(name string) string {
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == string(filepath.Separator) {
		return ""
	}
	replacer := strings.NewReplacer(
		string(filepath.Separator), "_",
		" ", "_",
		":", "_",
	)
	return replacer.Replace(name)
}

package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"timechart/internal/config"
)

// datasetsFileName 是存储数据集列表的文件名。
const datasetsFileName = "datasets"

// datasetsFile 返回数据集列表文件的完整路径。
func datasetsFile() (string, error) {
	dir, err := config.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, datasetsFileName), nil
}

// normalizePath 标准化路径：
// 1. 去除首尾空白
// 2. 展开 ~ 为用户主目录
// 3. 转换为绝对路径
// 4. 清理路径（移除多余的分隔符和 . 或 ..）
func normalizePath(p string) (string, error) {
	p = strings.TrimSpace(p)
	if p == "" {
		return "", errors.New("empty path")
	}

	// 展开 ~ 为用户主目录
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		if p == "~" {
			p = home
		} else {
			p = filepath.Join(home, p[2:])
		}
	}

	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	return filepath.Clean(abs), nil
}

// LoadPaths 从存储文件加载数据集路径列表。
// 返回的路径列表已去重和标准化。
// 如果存储文件不存在，返回空列表而不是错误。
func LoadPaths() ([]string, error) {
	path, err := datasetsFile()
	if err != nil {
		return nil, err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}

	lines := strings.Split(string(content), "\n")
	seen := make(map[string]struct{}, len(lines)) // 用于去重
	paths := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		normalized, err := normalizePath(line)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[normalized]; ok {
			continue // 跳过重复项
		}
		seen[normalized] = struct{}{}
		paths = append(paths, normalized)
	}

	return paths, nil
}

// savePaths 将数据集路径列表保存到存储文件。
func savePaths(paths []string) error {
	if err := config.EnsureDir(); err != nil {
		return err
	}

	file, err := datasetsFile()
	if err != nil {
		return err
	}

	data := strings.Join(paths, "\n")
	if len(paths) > 0 {
		data += "\n" // 确保文件以换行符结尾
	}
	return os.WriteFile(file, []byte(data), 0o600)
}

// AddPaths 批量添加数据集到列表（如果不存在）。
// 路径会被标准化后存储，已存在的数据集会被静默忽略。
// 返回实际新增的数据集数量。
func AddPaths(newPaths []string) (added int, err error) {
	paths, err := LoadPaths()
	if err != nil {
		return 0, err
	}

	existing := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		existing[p] = struct{}{}
	}

	toAdd := make([]string, 0, len(newPaths))
	for _, p := range newPaths {
		normalized, err := normalizePath(p)
		if err != nil {
			return 0, err
		}
		if _, ok := existing[normalized]; ok {
			continue
		}
		existing[normalized] = struct{}{}
		toAdd = append(toAdd, normalized)
	}

	if len(toAdd) == 0 {
		return 0, nil
	}

	paths = append(paths, toAdd...)
	if err := savePaths(paths); err != nil {
		return 0, err
	}

	return len(toAdd), nil
}

// AddPath 添加数据集到列表（如果不存在）。
func AddPath(path string) error {
	_, err := AddPaths([]string{path})
	return err
}

// RemovePath 从列表中移除指定数据集。
// 如果数据集不在列表中，静默返回成功。
func RemovePath(path string) error {
	normalized, err := normalizePath(path)
	if err != nil {
		return err
	}

	paths, err := LoadPaths()
	if err != nil {
		return err
	}

	// 过滤掉要移除的数据集
	kept := make([]string, 0, len(paths))
	for _, existing := range paths {
		if existing == normalized {
			continue
		}
		kept = append(kept, existing)
	}

	return savePaths(kept)
}

// isValidDataset 检查路径是否指向可读取的普通文件。
func isValidDataset(path string) bool {
	st, err := os.Stat(path)
	return err == nil && st.Mode().IsRegular()
}

// VerifyPaths 验证所有已添加的数据集，返回有效和无效的路径列表。
func VerifyPaths() (valid []string, invalid []string, err error) {
	paths, err := LoadPaths()
	if err != nil {
		return nil, nil, err
	}

	for _, path := range paths {
		if isValidDataset(path) {
			valid = append(valid, path)
		} else {
			invalid = append(invalid, path)
		}
	}
	return valid, invalid, nil
}

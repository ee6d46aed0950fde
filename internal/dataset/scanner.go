package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Scan 在目录下递归查找 CSV 数据集文件。
// depth 限制递归层级（-1 表示不限制），excludes 支持目录名、
// 相对路径和绝对路径三种写法。结果按字典序排序。
func Scan(root string, depth int, excludes []string) ([]string, error) {
	rootPath, err := normalizePath(root)
	if err != nil {
		return nil, err
	}

	st, err := os.Stat(rootPath)
	if err != nil {
		return nil, err
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", rootPath)
	}

	excludes = normalizeExcludes(excludes)

	var found []string
	seen := make(map[string]struct{})
	if err := scanDir(rootPath, rootPath, 0, depth, excludes, &found, seen); err != nil {
		return nil, err
	}

	sort.Strings(found)
	return found, nil
}

func normalizeExcludes(excludes []string) []string {
	out := make([]string, 0, len(excludes))
	for _, ex := range excludes {
		ex = strings.TrimSpace(ex)
		if ex == "" {
			continue
		}
		out = append(out, ex)
	}
	return out
}

func scanDir(rootPath, dir string, currentDepth, depthLimit int, excludes []string, found *[]string, seen map[string]struct{}) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsPermission(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		name := entry.Name()
		child := filepath.Join(dir, name)

		if !entry.IsDir() {
			if !strings.EqualFold(filepath.Ext(name), ".csv") {
				continue
			}
			if isExcluded(rootPath, child, name, excludes) {
				continue
			}
			if _, ok := seen[child]; !ok {
				seen[child] = struct{}{}
				*found = append(*found, child)
			}
			continue
		}

		if entry.Type()&os.ModeSymlink != 0 {
			continue
		}
		if depthLimit >= 0 && currentDepth >= depthLimit {
			continue
		}
		if isExcluded(rootPath, child, name, excludes) {
			continue
		}

		if err := scanDir(rootPath, child, currentDepth+1, depthLimit, excludes, found, seen); err != nil {
			return err
		}
	}

	return nil
}

func isExcluded(rootPath, path, name string, excludes []string) bool {
	path = filepath.Clean(path)
	sep := string(os.PathSeparator)

	for _, ex := range excludes {
		if ex == name {
			return true
		}

		if ex == "~" || strings.HasPrefix(ex, "~/") {
			expanded, err := normalizePath(ex)
			if err == nil {
				ex = expanded
			}
		}

		var exPath string
		if filepath.IsAbs(ex) {
			exPath = filepath.Clean(ex)
		} else {
			exPath = filepath.Join(rootPath, filepath.Clean(ex))
		}

		if path == exPath || strings.HasPrefix(path, exPath+sep) {
			return true
		}
	}

	return false
}

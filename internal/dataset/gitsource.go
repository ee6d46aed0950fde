package dataset

import (
	"errors"
	"fmt"
	"os"
	"time"

	"timechart/internal/series"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// CommitRecords 从 Git 仓库的提交历史生成原始记录。
// 遍历从 HEAD 开始的提交，每个提交产出一条记录：
// date 为提交日期（ISO 格式），commits 恒为 1，聚合后即为提交数。
// start/end 为零值时表示不限制对应边界。
func CommitRecords(repoPath string, start, end time.Time) ([]series.RawRecord, error) {
	if _, err := os.Stat(repoPath); err != nil {
		return nil, fmt.Errorf("stat repo %s: %w", repoPath, err)
	}

	// 打开 Git 仓库
	repo, err := git.PlainOpen(repoPath)
	if err != nil {
		return nil, fmt.Errorf("open repo %s: %w", repoPath, err)
	}

	// 获取 HEAD 引用
	ref, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("head repo %s: %w", repoPath, err)
	}

	// 获取提交迭代器
	iterator, err := repo.Log(&git.LogOptions{From: ref.Hash()})
	if err != nil {
		return nil, fmt.Errorf("log repo %s: %w", repoPath, err)
	}
	defer iterator.Close()

	out := make([]series.RawRecord, 0)
	err = iterator.ForEach(func(c *object.Commit) error {
		when := c.Author.When
		if !end.IsZero() && when.After(end.AddDate(0, 0, 1)) {
			return nil
		}
		// 提交时间早于范围起点，可以停止遍历（提交按时间倒序排列）
		if !start.IsZero() && when.Before(start) {
			return storer.ErrStop
		}

		out = append(out, series.RawRecord{
			"date":    when.Format("2006-01-02"),
			"commits": "1",
		})
		return nil
	})
	if err != nil && !errors.Is(err, storer.ErrStop) {
		return nil, fmt.Errorf("iterate repo %s: %w", repoPath, err)
	}

	return out, nil
}

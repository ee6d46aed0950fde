package series

import (
	"math"
	"sort"
)

// BucketRank 表示单个桶在排行榜中的统计结果。
type BucketRank struct {
	Key     string  `json:"key"`
	Value   float64 `json:"value"`
	Percent float64 `json:"percent"`
}

// BucketRanking 表示聚合桶排行榜结果。
type BucketRanking struct {
	Buckets []BucketRank `json:"buckets"`
	Total   float64      `json:"total"`
}

type shareRemainder struct {
	index     int
	remainder float64
	value     float64
	key       string
}

// RankBuckets 按指定指标计算桶排行榜。
// limit:
//   - limit <= 0: 返回全部桶
//   - limit > 0: 返回 Top N
//
// 排序规则：按指标值倒序；相同值时按 Key 字符串升序。
// Percent 以 1 位小数输出，并保证所有输出行的百分比之和为 100.0（当 Total > 0）。
func RankBuckets(buckets []AggregatedBucket, metric string, limit int) BucketRanking {
	rows := make([]BucketRank, 0, len(buckets))
	for _, bucket := range buckets {
		v, ok := bucket.Values[metric]
		if !ok {
			continue
		}
		rows = append(rows, BucketRank{Key: bucket.Key, Value: v})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Value != rows[j].Value {
			return rows[i].Value > rows[j].Value
		}
		return rows[i].Key < rows[j].Key
	})

	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}

	total := 0.0
	for _, r := range rows {
		total += r.Value
	}

	if total <= 0 {
		return BucketRanking{Buckets: rows, Total: total}
	}

	// 使用 0.1% 作为最小单位，确保显示到 1 位小数时合计为 100.0%。
	// 100.0% == 1000 units。
	const totalUnits = 1000

	units := make([]int, len(rows))
	rems := make([]shareRemainder, 0, len(rows))

	sumUnits := 0
	for i, r := range rows {
		exact := r.Value * totalUnits / total
		u := int(math.Floor(exact))
		units[i] = u
		sumUnits += u
		rems = append(rems, shareRemainder{
			index:     i,
			remainder: exact - float64(u),
			value:     r.Value,
			key:       r.Key,
		})
	}

	left := totalUnits - sumUnits
	if left > 0 {
		sort.Slice(rems, func(i, j int) bool {
			if rems[i].remainder != rems[j].remainder {
				return rems[i].remainder > rems[j].remainder
			}
			if rems[i].value != rems[j].value {
				return rems[i].value > rems[j].value
			}
			return rems[i].key < rems[j].key
		})
		for i := 0; i < left && i < len(rems); i++ {
			units[rems[i].index]++
		}
	}

	for i := range rows {
		rows[i].Percent = float64(units[i]) / 10.0
	}

	return BucketRanking{Buckets: rows, Total: total}
}

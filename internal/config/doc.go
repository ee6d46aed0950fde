// Package config 提供 timechart 的配置管理功能。
//
// 配置文件存储在 ~/.config/timechart/config.yaml，使用 YAML 格式。
// 支持的配置项包括日期字段名、默认指标、聚合粒度、聚合方式、
// 财年起始月份、统计月份数和目标刻度数。
// 命令行标志始终优先于配置文件中的值。
package config

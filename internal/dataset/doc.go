// Package dataset 管理数据集注册表并负责加载数据记录。
//
// 数据集是包含日期列和若干数值列的 CSV 文件，路径注册在
// ~/.config/timechart/datasets 中，每行一个绝对路径。
// 加载器并发读取多个 CSV 文件；另外支持从 Git 仓库的提交
// 历史生成数据集。
package dataset

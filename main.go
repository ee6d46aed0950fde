// timechart 是一个从 CSV 数据集聚合时间序列，并在终端渲染双层坐标轴标签图表的工具。
package main

import (
	"timechart/cmd"
)

// main 是程序的入口函数，负责启动 CLI 命令执行。
func main() {
	cmd.Execute()
}

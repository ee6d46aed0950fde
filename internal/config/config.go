package config

import (
	"fmt"
	"os"
	"path/filepath"

	"timechart/internal/series"

	"github.com/spf13/viper"
)

// 配置项默认值。
const (
	DefaultDateField   = "date"
	DefaultGranularity = "day"
	DefaultMethod      = "sum"
	DefaultFiscalStart = 1
	DefaultMonths      = 6
	DefaultTicks       = 6
)

// Config 保存图表构建的默认参数。
type Config struct {
	DateField   string   // 日期字段名
	Metrics     []string // 默认指标字段列表
	Granularity string   // 默认聚合粒度
	Method      string   // 默认聚合方式
	FiscalStart int      // 财年起始月份（1-12，1 表示自然年）
	Months      int      // 默认统计月份数
	Ticks       int      // 抽样策略的目标刻度数
}

// Dir 返回配置目录路径 ~/.config/timechart
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "timechart"), nil
}

// File 返回配置文件路径 ~/.config/timechart/config.yaml
func File() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// EnsureDir 确保配置目录存在
func EnsureDir() error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o755)
}

// Validate 校验配置项的合法性。
// 配置层和命令行层负责拒绝非法值；引擎层对漏网的非法财年
// 起始月份采用钳制策略（见 internal/calendar）。
func (c *Config) Validate() error {
	if c.FiscalStart < 1 || c.FiscalStart > 12 {
		return fmt.Errorf("fiscal_start must be in 1..12, got %d", c.FiscalStart)
	}
	if c.Months <= 0 {
		return fmt.Errorf("months must be > 0, got %d", c.Months)
	}
	if c.Ticks <= 0 {
		return fmt.Errorf("ticks must be > 0, got %d", c.Ticks)
	}
	if _, err := series.ParseGranularity(c.Granularity); err != nil {
		return err
	}
	if _, err := series.ParseMethod(c.Method); err != nil {
		return err
	}
	return nil
}

// Load 加载配置文件，文件不存在时返回默认配置
func Load() (*Config, error) {
	configFile, err := File()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigFile(configFile)
	v.SetConfigType("yaml")
	v.SetDefault("date_field", DefaultDateField)
	v.SetDefault("metrics", []string{})
	v.SetDefault("granularity", DefaultGranularity)
	v.SetDefault("method", DefaultMethod)
	v.SetDefault("fiscal_start", DefaultFiscalStart)
	v.SetDefault("months", DefaultMonths)
	v.SetDefault("ticks", DefaultTicks)

	if err := v.ReadInConfig(); err != nil {
		// 文件不存在时返回默认配置
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, err
		}
	}

	return &Config{
		DateField:   v.GetString("date_field"),
		Metrics:     v.GetStringSlice("metrics"),
		Granularity: v.GetString("granularity"),
		Method:      v.GetString("method"),
		FiscalStart: v.GetInt("fiscal_start"),
		Months:      v.GetInt("months"),
		Ticks:       v.GetInt("ticks"),
	}, nil
}

// Save 校验并写入配置文件
func Save(config *Config) error {
	if err := config.Validate(); err != nil {
		return err
	}
	if err := EnsureDir(); err != nil {
		return err
	}

	configFile, err := File()
	if err != nil {
		return err
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.Set("date_field", config.DateField)
	v.Set("metrics", config.Metrics)
	v.Set("granularity", config.Granularity)
	v.Set("method", config.Method)
	v.Set("fiscal_start", config.FiscalStart)
	v.Set("months", config.Months)
	v.Set("ticks", config.Ticks)

	return v.WriteConfigAs(configFile)
}

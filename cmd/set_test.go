package cmd

import (
	"bytes"
	"testing"

	"timechart/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// executeSetCommand 构建独立的 set 命令并执行，返回标准输出。
func executeSetCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	c := newSetCmd()
	var out bytes.Buffer
	c.SetOut(&out)
	c.SetErr(&out)
	c.SetArgs(args)

	err := c.Execute()
	return out.String(), err
}

func TestSet_ShowsConfiguration(t *testing.T) {
	withTempHome(t)
	setTestConfig(t, defaultTestConfig())

	out, err := executeSetCommand(t)
	require.NoError(t, err)

	assert.Contains(t, out, "date_field: date")
	assert.Contains(t, out, "granularity: day")
	assert.Contains(t, out, "method: sum")
	assert.Contains(t, out, "fiscal_start: 1")
	assert.Contains(t, out, "metrics: (from dataset header)")
}

func TestSet_Granularity(t *testing.T) {
	withTempHome(t)
	setTestConfig(t, defaultTestConfig())

	_, err := executeSetCommand(t, "granularity", "month")
	require.NoError(t, err)

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "month", cfg.Granularity)
}

func TestSet_GranularityRejectsUnknown(t *testing.T) {
	withTempHome(t)
	setTestConfig(t, defaultTestConfig())

	_, err := executeSetCommand(t, "granularity", "decade")
	assert.Error(t, err)
}

func TestSet_FiscalStart(t *testing.T) {
	withTempHome(t)
	setTestConfig(t, defaultTestConfig())

	_, err := executeSetCommand(t, "fiscal_start", "4")
	require.NoError(t, err)

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.FiscalStart)
}

func TestSet_FiscalStartRejectsOutOfRange(t *testing.T) {
	withTempHome(t)
	setTestConfig(t, defaultTestConfig())

	for _, val := range []string{"0", "13", "-1"} {
		_, err := executeSetCommand(t, "fiscal_start", val)
		assert.Error(t, err, "fiscal_start=%s", val)
	}
}

func TestSet_Metrics(t *testing.T) {
	withTempHome(t)
	setTestConfig(t, defaultTestConfig())

	_, err := executeSetCommand(t, "metrics", "revenue, units")
	require.NoError(t, err)

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"revenue", "units"}, cfg.Metrics)
}

func TestSet_UnsupportedKey(t *testing.T) {
	withTempHome(t)
	setTestConfig(t, defaultTestConfig())

	_, err := executeSetCommand(t, "color", "green")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported key")
}

func TestSet_WrongArgCount(t *testing.T) {
	withTempHome(t)

	_, err := executeSetCommand(t, "granularity")
	assert.Error(t, err)
}

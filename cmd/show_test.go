package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"timechart/internal/series"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetShowFlags() {
	showFlags = chartFlags{}
	showFormat = "table"
	showSecondary = "auto"
	showPattern = ""
	showNoLegend = false
	showNoSummary = false
	showNoCache = false
}

// executeShowCommand 构建独立的 show 命令并执行，返回标准输出。
func executeShowCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetShowFlags()

	c := &cobra.Command{
		Use:  "show",
		Args: cobra.NoArgs,
		RunE: runShow,
	}
	addChartFlags(c)

	var out bytes.Buffer
	c.SetOut(&out)
	c.SetErr(&out)
	c.SetArgs(args)

	err := c.Execute()
	return out.String(), err
}

func TestShow_NoDatasets(t *testing.T) {
	withTempHome(t)
	setTestConfig(t, defaultTestConfig())

	out, err := executeShowCommand(t)
	require.NoError(t, err)
	assert.Contains(t, out, "no datasets added")
}

func TestShow_UnsupportedFormat(t *testing.T) {
	home := withTempHome(t)
	path := writeDataset(t, "sales.csv", "date,revenue\n2024-01-01,10\n")
	writeDatasetsFile(t, home, []string{path})
	setTestConfig(t, defaultTestConfig())

	_, err := executeShowCommand(t, "--format", "xml", "--since", "2024-01-01", "--until", "2024-12-31")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
}

func TestShow_JSONOutput(t *testing.T) {
	home := withTempHome(t)
	path := writeDataset(t, "sales.csv", "date,revenue\n2024-01-01,10\n2024-01-01,5\n2024-01-02,3\n")
	writeDatasetsFile(t, home, []string{path})
	setTestConfig(t, defaultTestConfig())

	out, err := executeShowCommand(t, "--format", "json", "--since", "2024-01-01", "--until", "2024-12-31", "--no-cache")
	require.NoError(t, err)

	var buckets []series.AggregatedBucket
	require.NoError(t, json.Unmarshal([]byte(out), &buckets))
	require.Len(t, buckets, 2)
	assert.Equal(t, "2024-01-01", buckets[0].Key)
	assert.Equal(t, 15.0, buckets[0].Values["revenue"])
	assert.Equal(t, 2, buckets[0].SourceCount)
}

func TestShow_CSVOutput(t *testing.T) {
	home := withTempHome(t)
	path := writeDataset(t, "sales.csv", "date,revenue\n2024-01-01,10\n")
	writeDatasetsFile(t, home, []string{path})
	setTestConfig(t, defaultTestConfig())

	out, err := executeShowCommand(t, "--format", "csv", "--since", "2024-01-01", "--until", "2024-12-31", "--no-cache")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "key,start,revenue,records", lines[0])
	assert.Equal(t, "2024-01-01,2024-01-01,10,1", lines[1])
}

func TestShow_TableOutput(t *testing.T) {
	home := withTempHome(t)
	path := writeDataset(t, "sales.csv", "date,revenue\n2024-01-01,10\n2024-01-02,4\n")
	writeDatasetsFile(t, home, []string{path})
	setTestConfig(t, defaultTestConfig())

	out, err := executeShowCommand(t, "--since", "2024-01-01", "--until", "2024-12-31", "--no-cache")
	require.NoError(t, err)

	assert.Contains(t, out, "revenue")
	assert.Contains(t, out, "Jan 24", "secondary month label")
	assert.Contains(t, out, "Total: 14 revenue")
	assert.Contains(t, out, "Less", "legend shown by default")
}

func TestShow_NoLegendNoSummary(t *testing.T) {
	home := withTempHome(t)
	path := writeDataset(t, "sales.csv", "date,revenue\n2024-01-01,10\n")
	writeDatasetsFile(t, home, []string{path})
	setTestConfig(t, defaultTestConfig())

	out, err := executeShowCommand(t, "--no-legend", "--no-summary", "--since", "2024-01-01", "--until", "2024-12-31", "--no-cache")
	require.NoError(t, err)

	assert.NotContains(t, out, "Less")
	assert.NotContains(t, out, "Total:")
}

func TestShow_DateOnlyDatasetFallsBackToPerRecord(t *testing.T) {
	home := withTempHome(t)
	path := writeDataset(t, "events.csv", "date\n2024-01-01\n2024-01-02\n")
	writeDatasetsFile(t, home, []string{path})
	setTestConfig(t, defaultTestConfig())

	out, err := executeShowCommand(t, "--since", "2024-01-01", "--until", "2024-12-31", "--no-cache")
	require.NoError(t, err)

	assert.Contains(t, out, "warning: no metric columns resolved")
	assert.Contains(t, out, "records")
	assert.Contains(t, out, "Total: 2 records")
}

func TestShow_EmptyRange(t *testing.T) {
	home := withTempHome(t)
	path := writeDataset(t, "sales.csv", "date,revenue\n2024-01-01,10\n")
	writeDatasetsFile(t, home, []string{path})
	setTestConfig(t, defaultTestConfig())

	out, err := executeShowCommand(t, "--since", "2030-01-01", "--until", "2030-12-31", "--no-cache")
	require.NoError(t, err)
	assert.Contains(t, out, "no records in range")
}

func TestShow_CacheRoundTrip(t *testing.T) {
	home := withTempHome(t)
	path := writeDataset(t, "sales.csv", "date,revenue\n2024-01-01,10\n")
	writeDatasetsFile(t, home, []string{path})
	setTestConfig(t, defaultTestConfig())

	// 第一次运行写缓存，第二次命中缓存，输出一致。
	first, err := executeShowCommand(t, "--format", "json", "--since", "2024-01-01", "--until", "2024-12-31")
	require.NoError(t, err)
	second, err := executeShowCommand(t, "--format", "json", "--since", "2024-01-01", "--until", "2024-12-31")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

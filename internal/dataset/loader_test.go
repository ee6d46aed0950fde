package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeCSV(t, "sales.csv", "date,revenue,units\n2024-01-01,10.5,3\n2024-01-02,7,1\n")

	records, err := loadFile(path)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "2024-01-01", records[0]["date"])
	assert.Equal(t, "10.5", records[0]["revenue"])
	assert.Equal(t, "3", records[0]["units"])
	assert.Equal(t, "7", records[1]["revenue"])
}

func TestLoadFile_ShortRows(t *testing.T) {
	// 行字段数少于表头时，缺失字段视为空值。
	path := writeCSV(t, "sparse.csv", "date,revenue,units\n2024-01-01,10.5\n")

	records, err := loadFile(path)
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, "10.5", records[0]["revenue"])
	_, ok := records[0]["units"]
	assert.False(t, ok)
}

func TestLoadFile_Empty(t *testing.T) {
	path := writeCSV(t, "empty.csv", "")

	_, err := loadFile(path)
	assert.Error(t, err)
}

func TestLoad_MergesFiles(t *testing.T) {
	a := writeCSV(t, "a.csv", "date,revenue\n2024-01-01,1\n")
	b := writeCSV(t, "b.csv", "date,revenue\n2024-01-02,2\n2024-01-03,3\n")

	records, err := Load([]string{a, b})
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestLoad_PartialFailure(t *testing.T) {
	// 部分文件失败时仍返回成功读取的记录和聚合错误。
	good := writeCSV(t, "good.csv", "date,revenue\n2024-01-01,1\n")
	missing := filepath.Join(t.TempDir(), "missing.csv")

	records, err := Load([]string{good, missing})
	assert.Error(t, err)
	assert.Len(t, records, 1)
}

func TestLoad_NoDatasets(t *testing.T) {
	_, err := Load(nil)
	assert.Error(t, err)
}

func TestHeader(t *testing.T) {
	path := writeCSV(t, "sales.csv", "date,revenue,units\n2024-01-01,10.5,3\n")

	header, err := Header(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"date", "revenue", "units"}, header)
}

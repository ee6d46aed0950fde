package cmd

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeDetect(t *testing.T, args ...string) (string, error) {
	t.Helper()
	detectDateField = ""

	var out bytes.Buffer
	c := &cobra.Command{}
	c.SetOut(&out)
	c.SetErr(&out)

	err := runDetect(c, args)
	return out.String(), err
}

func TestDetect_Sample(t *testing.T) {
	out, err := executeDetect(t, "2024-03-09")
	require.NoError(t, err)
	assert.Contains(t, out, "format: iso")
	assert.Contains(t, out, "parsed: 2024-03-09T00:00:00")
}

func TestDetect_AmbiguousSlashPrefersUS(t *testing.T) {
	out, err := executeDetect(t, "03/04/2024")
	require.NoError(t, err)
	assert.Contains(t, out, "format: us-slash")
	assert.Contains(t, out, "parsed: 2024-03-04")
}

func TestDetect_UnparseableSample(t *testing.T) {
	_, err := executeDetect(t, "definitely-not-a-date")
	assert.Error(t, err)
}

func TestDetect_File(t *testing.T) {
	withTempHome(t)
	setTestConfig(t, defaultTestConfig())
	path := writeDataset(t, "sales.csv", "date,revenue\n03/04/2024,10\n")

	out, err := executeDetect(t, path)
	require.NoError(t, err)
	assert.Contains(t, out, "us-slash")
}

func TestDetect_Datasets(t *testing.T) {
	home := withTempHome(t)
	path := writeDataset(t, "sales.csv", "date,revenue\n2024-W10,10\n")
	writeDatasetsFile(t, home, []string{path})
	setTestConfig(t, defaultTestConfig())

	out, err := executeDetect(t)
	require.NoError(t, err)
	assert.Contains(t, out, "iso-week")
}

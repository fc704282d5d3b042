package processor

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportFeatureTable(t *testing.T) {
	frame := frameOf(
		[]time.Time{minute(0), minute(1)},
		map[string][]float64{"a": {1, 2}, "temp_zuz": {1300, 1301}},
		"a", "temp_zuz")
	fileName := filepath.Join(t.TempDir(), "out", "features.csv")

	require.NoError(t, ExportFeatureTable(frame, fileName, "czas", nil))

	file, err := os.Open(fileName)
	require.NoError(t, err)
	defer file.Close()
	df := dataframe.ReadCSV(file, dataframe.DetectTypes(false))
	require.NoError(t, df.Err)
	assert.Equal(t, []string{"czas", "a", "temp_zuz"}, df.Names())
	assert.Equal(t, []string{"2020-10-01 10:00:00", "2020-10-01 10:01:00"}, df.Col("czas").Records())
	assert.Equal(t, []float64{1300, 1301}, df.Col("temp_zuz").Float())
}

func TestExportFeatureTableWithDescriptions(t *testing.T) {
	frame := frameOf(
		[]time.Time{minute(0)},
		map[string][]float64{"A": {1}, "b": {2}, "c": {3}, "temp_zuz": {1300}},
		"A", "b", "c", "temp_zuz")
	descriptions := map[string]string{"a": "Flow m3/h", "b": "Flow m3/h", "c": "Pressure bar"}
	fileName := filepath.Join(t.TempDir(), "features.csv")

	require.NoError(t, ExportFeatureTable(frame, fileName, "czas", descriptions))

	data, err := os.ReadFile(fileName)
	require.NoError(t, err)
	header := strings.SplitN(string(data), "\n", 2)[0]
	// a and b would share a name, so they keep their tags
	assert.Equal(t, "czas,A,b,Pressure bar,temp_zuz", header)
}

func TestExportFeatureTableKeepsHeaderUnique(t *testing.T) {
	frame := frameOf(
		[]time.Time{minute(0)},
		map[string][]float64{"a": {1}, "b": {2}, "c": {3}, "temp_zuz": {1300}},
		"a", "b", "c", "temp_zuz")
	// a would take the name of another column, b the name of the time column
	descriptions := map[string]string{"a": "temp_zuz", "b": "czas", "c": "Pressure bar"}
	fileName := filepath.Join(t.TempDir(), "features.csv")

	require.NoError(t, ExportFeatureTable(frame, fileName, "czas", descriptions))

	data, err := os.ReadFile(fileName)
	require.NoError(t, err)
	header := strings.SplitN(string(data), "\n", 2)[0]
	assert.Equal(t, "czas,a,b,Pressure bar,temp_zuz", header)
}

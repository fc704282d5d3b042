package processor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"heater-inference/config"
)

var fixtureStart = time.Date(2020, 10, 1, 10, 0, 0, 0, time.UTC)

// Minute of the fixture (0..119) whose temperature reading is missing
const fixtureTemperatureGap = 90

// writeFixture writes two hours of one minute readings split in three interval files, a description
// spreadsheet and a temperature file. Column a is the minute number, b twice that and c constant.
// The third file repeats the last timestamp of the second one with a different value.
func writeFixture(t *testing.T, reversed bool) Sources {
	t.Helper()
	dir := t.TempDir()
	dataDir := filepath.Join(dir, "gz_files")
	require.NoError(t, os.Mkdir(dataDir, 0755))

	parts := [][2]int{{0, 39}, {40, 79}, {80, 119}}
	order := []int{0, 1, 2}
	if reversed {
		order = []int{2, 1, 0}
	}
	for _, p := range order {
		from, to := parts[p][0], parts[p][1]
		var sb strings.Builder
		sb.WriteString("czas,a,b,c\n")
		if p == 2 {
			// Duplicate of the last row of the previous file
			fmt.Fprintf(&sb, "%s+00:00,999,999,999\n", minute(79).Format("2006-01-02 15:04:05"))
		}
		for i := from; i <= to; i++ {
			fmt.Fprintf(&sb, "%s.000+00:00,%d,%d,1.0\n", minute(i).Format("2006-01-02 15:04:05"), i, 2*i)
		}
		name := fmt.Sprintf("avg_from_%s_to_%s.gz", minute(from).Format("2006_01_02_15_04_05"), minute(to).Format("2006_01_02_15_04_05"))
		writeGzip(t, filepath.Join(dataDir, name), sb.String())
	}

	descriptionFile := filepath.Join(dir, "opis_zmiennych.xlsx")
	writeDescriptions(t, descriptionFile, [][]interface{}{
		{"Tagname", "opis", "Jednostka"},
		{"A", "Flow A", "m3/h"},
		{"B", "Flow B", "m3/h"},
	})

	var sb strings.Builder
	sb.WriteString("Czas;temp_zuz\n")
	for i := 0; i < 120; i++ {
		if i == fixtureTemperatureGap {
			continue
		}
		fmt.Fprintf(&sb, "%s;%d,0\n", minute(i).Format("2006-01-02 15:04:05"), 1300+i)
	}
	// No measurement at this time, the row is dropped by the join
	fmt.Fprintf(&sb, "%s;1200,0\n", minute(150).Format("2006-01-02 15:04:05"))
	temperatureFile := filepath.Join(dir, "temp_zuz.csv")
	require.NoError(t, os.WriteFile(temperatureFile, []byte(sb.String()), 0644))

	return Sources{
		DataDir:         dataDir,
		DescriptionFile: descriptionFile,
		TemperatureFile: temperatureFile,
		FilePattern:     config.GetIntervalFilePattern(),
		TimeColumn:      config.GetTimeColumn(),
	}
}

func fixtureFeatureSet() config.FeatureSet {
	return config.FeatureSet{
		ROLLING_TAGS:    []string{"a", "b"},
		ROLLING_WINDOW:  15,
		ROLLING_OFFSETS: []int{0, 15, 30, 45},
		LAG_HOURS:       1,
		CORRELATED_COLUMNS: []string{
			"a", "c", "temp_zuz", "temp_last_1", "a_avg_00-15", "b_avg_45-60",
		},
	}
}

func minute(i int) time.Time {
	return fixtureStart.Add(time.Duration(i) * time.Minute)
}

func writeGzip(t *testing.T, fileName, content string) {
	t.Helper()
	file, err := os.Create(fileName)
	require.NoError(t, err)
	defer file.Close()
	writer := gzip.NewWriter(file)
	_, err = writer.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())
}

func writeDescriptions(t *testing.T, fileName string, rows [][]interface{}) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		row := row
		require.NoError(t, f.SetSheetRow("Sheet1", fmt.Sprintf("A%d", i+1), &row))
	}
	require.NoError(t, f.SaveAs(fileName))
}

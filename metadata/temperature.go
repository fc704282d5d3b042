package metadata

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	log "github.com/sirupsen/logrus"

	"heater-inference/config"
	"heater-inference/loader"
	"heater-inference/models"
)

// ReadTemperatures reads the semicolon separated heater temperature file. The returned frame holds only the target column.
func ReadTemperatures(fileName string, target string) (*models.Frame, error) {
	file, err := os.Open(fileName)
	if err != nil {
		log.Error(err)
		return nil, models.MissingFile(fileName, err)
	}
	defer file.Close()

	df := dataframe.ReadCSV(file,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.WithDelimiter(config.GetTemperatureDelimiter()))
	if df.Err != nil {
		log.Error(df.Err)
		return nil, models.ParseFailure(fileName, df.Err)
	}

	timeColumn := config.GetTemperatureTimeColumn()
	for _, required := range []string{timeColumn, target} {
		if !loader.HasName(df.Names(), required) {
			return nil, models.SchemaMismatch(fileName, "column %q not found", required)
		}
	}
	// Other columns are free text
	df = df.Select([]string{timeColumn, target})
	if df.Err != nil {
		log.Error(df.Err)
		return nil, models.SchemaMismatch(fileName, "%v", df.Err)
	}
	return loader.FrameFromDataFrame(fileName, df, timeColumn, ParseTemperatureTimestamp)
}

// ParseTemperatureTimestamp parses the timestamps of the temperature file, which don't follow a single layout
func ParseTemperatureTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if len(value) > 19 {
		value = value[:19]
	}
	for _, layout := range config.GetTemperatureDateLayouts() {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse %q as a timestamp", value)
}

// JoinTemperature adds the target column of temperatures to measurements, matching rows on the timestamp.
// Measurement rows without a temperature get NaN, temperatures without a measurement are dropped.
// When a timestamp appears more than once in temperatures, the first one wins.
func JoinTemperature(measurements, temperatures *models.Frame, target string) (*models.Frame, error) {
	if measurements.HasColumn(target) {
		return nil, models.SchemaMismatch(target, "the measurement files already contain the target column")
	}
	if !temperatures.HasColumn(target) {
		return nil, models.SchemaMismatch(target, "temperature frame has no target column")
	}
	source := temperatures.Column(target)

	lookup := temperatures.RowLookup()
	joined := models.NewNaNSlice(measurements.Nrow())
	matched := 0
	for i, t := range measurements.Index {
		if row, ok := lookup[t.UnixNano()]; ok {
			joined[i] = source[row]
			matched++
		}
	}
	log.Debug("Matched ", matched, " of ", measurements.Nrow(), " measurement rows with a temperature")

	measurements.SetColumn(target, joined)
	return measurements, nil
}

package processor

import (
	"os"
	"path/filepath"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	log "github.com/sirupsen/logrus"

	"heater-inference/config"
	"heater-inference/metadata"
	"heater-inference/models"
)

// ExportFeatureTable writes the frame as csv, timestamp first. When descriptions is given the
// tag columns are written under their description. A description shared with another column,
// a column name or the time column is not used, the column keeps its tag name.
func ExportFeatureTable(frame *models.Frame, fileName string, timeColumn string, descriptions map[string]string) error {
	names := frame.Columns
	if descriptions != nil {
		names = uniqueNames(frame.Columns, metadata.RenameColumns(frame.Columns, descriptions), timeColumn)
	}

	timestamps := make([]string, frame.Nrow())
	for i, t := range frame.Index {
		timestamps[i] = t.Format(config.GetMeasurementDateLayout())
	}
	columns := []series.Series{series.New(timestamps, series.String, timeColumn)}
	for i, column := range frame.Columns {
		columns = append(columns, series.New(frame.Column(column), series.Float, names[i]))
	}
	df := dataframe.New(columns...)
	if df.Err != nil {
		log.Error(df.Err)
		return models.SchemaMismatch(fileName, "%v", df.Err)
	}

	if err := os.MkdirAll(filepath.Dir(fileName), 0755); err != nil {
		log.Error(err)
		return err
	}
	file, err := os.Create(fileName)
	if err != nil {
		log.Error(err)
		return err
	}
	defer file.Close()

	if err = df.WriteCSV(file); err != nil {
		log.Error(err)
		return err
	}
	log.Info("Feature table written to ", fileName)
	return nil
}

func uniqueNames(original, renamed []string, timeColumn string) []string {
	reserved := map[string]bool{timeColumn: true}
	for _, name := range original {
		reserved[name] = true
	}
	count := map[string]int{}
	for i, name := range renamed {
		if name != original[i] {
			count[name]++
		}
	}
	names := make([]string, len(renamed))
	for i, name := range renamed {
		if name == original[i] || count[name] > 1 || reserved[name] {
			names[i] = original[i]
		} else {
			names[i] = name
		}
	}
	return names
}

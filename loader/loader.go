package loader

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/klauspost/compress/gzip"
	log "github.com/sirupsen/logrus"

	"heater-inference/config"
	"heater-inference/models"
)

// ListIntervalFiles returns the interval files of dirPath sorted by name.
// Every entry of the directory must match pattern; anything else fails the load instead of being read as data.
func ListIntervalFiles(dirPath string, pattern *regexp.Regexp) ([]string, error) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		log.Error(err)
		return nil, models.MissingFile(dirPath, err)
	}

	var fileNames []string
	for _, entry := range entries {
		if entry.IsDir() {
			return nil, models.SchemaMismatch(filepath.Join(dirPath, entry.Name()), "unexpected directory in the interval file directory")
		}
		if !pattern.MatchString(entry.Name()) {
			return nil, models.SchemaMismatch(filepath.Join(dirPath, entry.Name()), "file name does not match %s", pattern.String())
		}
		fileNames = append(fileNames, filepath.Join(dirPath, entry.Name()))
	}
	if len(fileNames) == 0 {
		return nil, models.MissingFile(dirPath, fmt.Errorf("no interval files found"))
	}
	sort.Strings(fileNames)
	return fileNames, nil
}

// ReadIntervalDir reads and concatenates all interval files of dirPath into one frame indexed by the time column.
// Columns missing from some files are NaN for the rows of those files.
func ReadIntervalDir(dirPath string, pattern *regexp.Regexp, timeColumn string) (*models.Frame, error) {
	fileNames, err := ListIntervalFiles(dirPath, pattern)
	if err != nil {
		return nil, err
	}

	frames := make([]*models.Frame, 0, len(fileNames))
	for _, fileName := range fileNames {
		frame, err := ReadIntervalFile(fileName, timeColumn)
		if err != nil {
			return nil, err
		}
		log.Debug("Read ", frame.Nrow(), " rows from ", fileName)
		frames = append(frames, frame)
	}
	return Concat(frames...), nil
}

// ReadIntervalFile reads one interval file. Files ending in .gz are decompressed first.
func ReadIntervalFile(fileName string, timeColumn string) (*models.Frame, error) {
	file, err := os.Open(fileName)
	if err != nil {
		log.Error(err)
		return nil, models.MissingFile(fileName, err)
	}
	defer file.Close()

	var reader io.Reader = file
	if strings.EqualFold(filepath.Ext(fileName), ".gz") {
		gzipReader, err := gzip.NewReader(file)
		if err != nil {
			log.Error(err)
			return nil, models.ParseFailure(fileName, err)
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	df := dataframe.ReadCSV(reader, dataframe.HasHeader(true), dataframe.DetectTypes(false))
	if df.Err != nil {
		log.Error(df.Err)
		return nil, models.ParseFailure(fileName, df.Err)
	}
	return FrameFromDataFrame(fileName, df, timeColumn, ParseTimestamp)
}

// FrameFromDataFrame converts a data frame of strings into a frame. The time column is parsed with parseTime,
// every other column as float.
func FrameFromDataFrame(source string, df dataframe.DataFrame, timeColumn string, parseTime func(string) (time.Time, error)) (*models.Frame, error) {
	if !HasName(df.Names(), timeColumn) {
		return nil, models.SchemaMismatch(source, "column %q not found", timeColumn)
	}

	timeSeries := df.Col(timeColumn)
	index := make([]time.Time, timeSeries.Len())
	for i, value := range timeSeries.Records() {
		t, err := parseTime(value)
		if err != nil {
			return nil, models.ParseFailure(fmt.Sprintf("%s row %d", source, i+1), err)
		}
		index[i] = t
	}

	frame := models.NewFrame(index)
	for _, name := range df.Names() {
		if name == timeColumn {
			continue
		}
		values, err := ParseFloatSeries(df.Col(name))
		if err != nil {
			return nil, models.ParseFailure(fmt.Sprintf("%s column %s", source, name), err)
		}
		frame.SetColumn(name, values)
	}
	return frame, nil
}

// ParseTimestamp parses a measurement timestamp. Anything after the first 19 characters (sub-seconds, zone) is ignored.
func ParseTimestamp(value string) (time.Time, error) {
	return time.Parse(config.GetMeasurementDateLayout(), truncate(strings.TrimSpace(value), 19))
}

// ParseFloatSeries parses a string series to floats. Empty cells and NaN are missing values.
// A decimal comma is accepted.
func ParseFloatSeries(s series.Series) ([]float64, error) {
	records := s.Records()
	isNaN := s.IsNaN()
	values := make([]float64, len(records))
	for i, record := range records {
		if isNaN[i] {
			values[i] = math.NaN()
			continue
		}
		value, err := ParseFloat(record)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		values[i] = value
	}
	return values, nil
}

// ParseFloat parses a single cell
func ParseFloat(record string) (float64, error) {
	record = strings.TrimSpace(record)
	if record == "" || strings.EqualFold(record, "nan") || strings.EqualFold(record, "na") {
		return math.NaN(), nil
	}
	value, err := strconv.ParseFloat(record, 64)
	if err != nil {
		value, err = strconv.ParseFloat(strings.Replace(record, ",", ".", 1), 64)
	}
	return value, err
}

// Concat stacks frames on top of each other. The column order is the order in which the columns are first seen.
func Concat(frames ...*models.Frame) *models.Frame {
	var index []time.Time
	var columns []string
	seen := map[string]bool{}
	for _, frame := range frames {
		index = append(index, frame.Index...)
		for _, column := range frame.Columns {
			if !seen[column] {
				seen[column] = true
				columns = append(columns, column)
			}
		}
	}

	result := models.NewFrame(index)
	for _, column := range columns {
		values := make([]float64, 0, len(index))
		for _, frame := range frames {
			if frame.HasColumn(column) {
				values = append(values, frame.Column(column)...)
			} else {
				values = append(values, models.NewNaNSlice(frame.Nrow())...)
			}
		}
		result.SetColumn(column, values)
	}
	return result
}

func truncate(value string, length int) string {
	if len(value) > length {
		return value[:length]
	}
	return value
}

// HasName reports whether name is one of the data frame column names
func HasName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

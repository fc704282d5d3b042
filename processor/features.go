package processor

import (
	"fmt"
	"math"
	"time"

	"heater-inference/config"
	"heater-inference/models"
)

// RollingColumnName returns the name of the rolling average of tag over the window that ends offset minutes before the row
func RollingColumnName(tag string, offset, window int) string {
	return fmt.Sprintf("%s_avg_%02d-%02d", tag, offset, offset+window)
}

// RollingMean returns the mean of the last window values at every position. The first window-1 positions,
// and every window holding a NaN, are NaN.
func RollingMean(values []float64, window int) []float64 {
	means := models.NewNaNSlice(len(values))
	for i := window - 1; i < len(values); i++ {
		sum := 0.0
		for _, value := range values[i-window+1 : i+1] {
			sum += value
		}
		// NaN propagates through the sum
		means[i] = sum / float64(window)
	}
	return means
}

// RollingFeatures adds, for every tag and offset, the trailing window-sample mean of the tag taken at the row
// that lies offset minutes before the current one. Rows without such a row are NaN.
// Columns are added block by block, one block per offset.
func RollingFeatures(frame *models.Frame, tags []string, window int, offsets []int) error {
	means := make(map[string][]float64, len(tags))
	for _, tag := range tags {
		if !frame.HasColumn(tag) {
			return models.SchemaMismatch(tag, "rolling average tag not found")
		}
		means[tag] = RollingMean(frame.Column(tag), window)
	}

	lookup := frame.RowLookup()
	for _, offset := range offsets {
		// Row holding the value offset minutes earlier, -1 when there is none
		sourceRows := make([]int, frame.Nrow())
		for i, t := range frame.Index {
			if row, ok := lookup[t.Add(-time.Duration(offset)*time.Minute).UnixNano()]; ok {
				sourceRows[i] = row
			} else {
				sourceRows[i] = -1
			}
		}
		for _, tag := range tags {
			values := models.NewNaNSlice(frame.Nrow())
			for i, row := range sourceRows {
				if row >= 0 {
					values[i] = means[tag][row]
				}
			}
			frame.SetColumn(RollingColumnName(tag, offset, window), values)
		}
	}
	return nil
}

// SelectColumns returns a frame holding only the given columns, in the given order
func SelectColumns(frame *models.Frame, columns []string) (*models.Frame, error) {
	selected := models.NewFrame(frame.Index)
	for _, column := range columns {
		if !frame.HasColumn(column) {
			return nil, models.SchemaMismatch(column, "selected column not found")
		}
		if selected.HasColumn(column) {
			continue
		}
		selected.SetColumn(column, frame.Column(column))
	}
	return selected, nil
}

// Interpolate fills the NaNs of column linearly, weighted by the time between the surrounding values.
// NaNs before the first value are kept, NaNs after the last value take the last value.
func Interpolate(frame *models.Frame, column string) error {
	if !frame.HasColumn(column) {
		return models.SchemaMismatch(column, "column not found")
	}
	source := frame.Column(column)
	values := make([]float64, len(source))
	copy(values, source)

	previous := -1
	for i, value := range values {
		if math.IsNaN(value) {
			continue
		}
		if previous >= 0 && i-previous > 1 {
			from, to := frame.Index[previous], frame.Index[i]
			span := float64(to.Sub(from))
			for j := previous + 1; j < i; j++ {
				weight := float64(frame.Index[j].Sub(from)) / span
				values[j] = values[previous] + weight*(value-values[previous])
			}
		}
		previous = i
	}
	if previous >= 0 {
		for j := previous + 1; j < len(values); j++ {
			values[j] = values[previous]
		}
	}

	frame.SetColumn(column, values)
	return nil
}

// AddMinute adds the minute of the hour of every row, counting 1..60: a full hour is minute 60, not 0
func AddMinute(frame *models.Frame) {
	minutes := make([]float64, frame.Nrow())
	for i, t := range frame.Index {
		minute := t.Minute()
		if minute == 0 {
			minute = 60
		}
		minutes[i] = float64(minute)
	}
	frame.SetColumn(config.GetMinuteColumn(), minutes)
}

// RemoveWhenOff drops the records around every record where column is at or below minOff:
// margin records before it, the record itself and the margin-1 records after it.
// The window never reaches the last record of the frame.
func RemoveWhenOff(frame *models.Frame, column string, minOff float64, margin int) (*models.Frame, error) {
	if !frame.HasColumn(column) {
		return nil, models.SchemaMismatch(column, "column not found")
	}
	values := frame.Column(column)
	keep := make([]bool, len(values))
	for i := range keep {
		keep[i] = true
	}
	for i, value := range values {
		if value <= minOff {
			from, to := i-margin, i+margin
			if from < 0 {
				from = 0
			}
			if to > len(values)-1 {
				to = len(values) - 1
			}
			for j := from; j < to; j++ {
				keep[j] = false
			}
		}
	}

	var rows []int
	for i, ok := range keep {
		if ok {
			rows = append(rows, i)
		}
	}
	return frame.Take(rows), nil
}

package processor

import (
	"math"
	"sort"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"heater-inference/config"
	"heater-inference/models"
)

// Resample sorts the frame by time, drops duplicated timestamps (the first one is kept) and reindexes it
// to one row per step between the first and the last timestamp. Rows added for gaps are NaN,
// rows that don't fall on the grid are dropped.
func Resample(frame *models.Frame, step time.Duration) *models.Frame {
	if frame.Nrow() == 0 {
		return frame.Take(nil)
	}

	order := make([]int, frame.Nrow())
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return frame.Index[order[a]].Before(frame.Index[order[b]])
	})

	first := map[int64]int{}
	for _, row := range order {
		key := frame.Index[row].UnixNano()
		if _, ok := first[key]; !ok {
			first[key] = row
		}
	}
	duplicates := frame.Nrow() - len(first)

	start := frame.Index[order[0]]
	end := frame.Index[order[len(order)-1]]
	steps := int(end.Sub(start)/step) + 1

	index := make([]time.Time, steps)
	rows := make([]int, steps)
	for i := 0; i < steps; i++ {
		index[i] = start.Add(time.Duration(i) * step)
		if row, ok := first[index[i].UnixNano()]; ok {
			rows[i] = row
		} else {
			rows[i] = -1
		}
	}

	resampled := models.NewFrame(index)
	for _, column := range frame.Columns {
		source := frame.Column(column)
		values := make([]float64, steps)
		for i, row := range rows {
			if row < 0 {
				values[i] = math.NaN()
			} else {
				values[i] = source[row]
			}
		}
		resampled.SetColumn(column, values)
	}
	gaps := 0
	for _, row := range rows {
		if row < 0 {
			gaps++
		}
	}
	log.Debug("Resampled ", frame.Nrow(), " rows to ", steps, " rows (", duplicates, " duplicates dropped, ", gaps, " gap rows added)")
	return resampled
}

// LagColumnName returns the name of the k'th lagged target column
func LagColumnName(k int) string {
	return config.GetLagPrefix() + "_" + strconv.Itoa(k)
}

// AddLagFeatures adds the columns temp_last_1..hours. temp_last_k is the forward filled target shifted
// by 1+60*(k-1) rows, so on a one minute grid it's the temperature k-1 hours and one minute earlier.
// Rows without enough history are NaN.
func AddLagFeatures(frame *models.Frame, target string, hours int) error {
	if !frame.HasColumn(target) {
		return models.SchemaMismatch(target, "target column not found")
	}
	filled := ForwardFill(frame.Column(target))
	for k := 1; k <= hours; k++ {
		frame.SetColumn(LagColumnName(k), Shift(filled, 1+60*(k-1)))
	}
	return nil
}

// ForwardFill returns a copy of values where every NaN is replaced by the last value before it
func ForwardFill(values []float64) []float64 {
	filled := make([]float64, len(values))
	last := math.NaN()
	for i, value := range values {
		if !math.IsNaN(value) {
			last = value
		}
		filled[i] = last
	}
	return filled
}

// Shift moves values down by periods rows. The first periods rows are NaN.
func Shift(values []float64, periods int) []float64 {
	shifted := models.NewNaNSlice(len(values))
	for i := periods; i < len(values); i++ {
		shifted[i] = values[i-periods]
	}
	return shifted
}

// DropMissing returns the rows that have a value in every one of the given columns
func DropMissing(frame *models.Frame, columns []string) (*models.Frame, error) {
	sources := make([][]float64, len(columns))
	for i, column := range columns {
		if !frame.HasColumn(column) {
			return nil, models.SchemaMismatch(column, "column not found")
		}
		sources[i] = frame.Column(column)
	}

	var rows []int
	for row := 0; row < frame.Nrow(); row++ {
		complete := true
		for _, source := range sources {
			if math.IsNaN(source[row]) {
				complete = false
				break
			}
		}
		if complete {
			rows = append(rows, row)
		}
	}
	log.Debug("Dropped ", frame.Nrow()-len(rows), " of ", frame.Nrow(), " rows with missing values")
	return frame.Take(rows), nil
}

// columnsExcept returns the columns of the frame that are not in excluded
func columnsExcept(frame *models.Frame, excluded ...string) []string {
	skip := map[string]bool{}
	for _, column := range excluded {
		skip[column] = true
	}
	var columns []string
	for _, column := range frame.Columns {
		if !skip[column] {
			columns = append(columns, column)
		}
	}
	return columns
}

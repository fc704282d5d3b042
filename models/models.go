package models

import (
	"math"
	"time"
)

//Frame is a table of float columns keyed by timestamp. Missing values are NaN.
type Frame struct {
	Index   []time.Time
	Columns []string
	values  map[string][]float64
}

//PredictionRun defines the row stored in the run table after a scoring run
type PredictionRun struct {
	RunId        string
	PeriodFrom   time.Time
	PeriodTo     time.Time
	RowCount     int
	FeatureCount int
	Rmse         float64
	ModelFile    string
	Status       string
	Details      string
}

// NewFrame returns an empty frame with the given index
func NewFrame(index []time.Time) *Frame {
	return &Frame{
		Index:  index,
		values: map[string][]float64{},
	}
}

// NewNaNSlice returns a slice of n missing values
func NewNaNSlice(n int) []float64 {
	values := make([]float64, n)
	for i := range values {
		values[i] = math.NaN()
	}
	return values
}

func (f *Frame) Nrow() int {
	return len(f.Index)
}

func (f *Frame) Ncol() int {
	return len(f.Columns)
}

func (f *Frame) HasColumn(name string) bool {
	_, ok := f.values[name]
	return ok
}

// Column returns the values of the named column, or nil when it doesn't exist. The slice is shared with the frame.
func (f *Frame) Column(name string) []float64 {
	return f.values[name]
}

// SetColumn adds or replaces a column. New columns are appended to the column order.
func (f *Frame) SetColumn(name string, values []float64) {
	if len(values) != len(f.Index) {
		panic("models: column " + name + " does not match the frame length")
	}
	if !f.HasColumn(name) {
		f.Columns = append(f.Columns, name)
	}
	f.values[name] = values
}

// Take returns a new frame holding the given rows, in the given order
func (f *Frame) Take(rows []int) *Frame {
	index := make([]time.Time, len(rows))
	for i, row := range rows {
		index[i] = f.Index[row]
	}
	taken := NewFrame(index)
	for _, column := range f.Columns {
		source := f.values[column]
		values := make([]float64, len(rows))
		for i, row := range rows {
			values[i] = source[row]
		}
		taken.SetColumn(column, values)
	}
	return taken
}

// RowLookup maps each timestamp to its first row
func (f *Frame) RowLookup() map[int64]int {
	lookup := make(map[int64]int, len(f.Index))
	for i, t := range f.Index {
		key := t.UnixNano()
		if _, ok := lookup[key]; !ok {
			lookup[key] = i
		}
	}
	return lookup
}

// Span returns the first and last timestamp of the frame
func (f *Frame) Span() (time.Time, time.Time) {
	if len(f.Index) == 0 {
		return time.Time{}, time.Time{}
	}
	return f.Index[0], f.Index[len(f.Index)-1]
}

package processor

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"heater-inference/models"
)

func frameOf(index []time.Time, columns map[string][]float64, order ...string) *models.Frame {
	frame := models.NewFrame(index)
	for _, name := range order {
		frame.SetColumn(name, columns[name])
	}
	return frame
}

func TestResampleSortsDedupesAndFillsGaps(t *testing.T) {
	frame := frameOf(
		[]time.Time{minute(3), minute(0), minute(1), minute(3), minute(0)},
		map[string][]float64{"a": {3, 0, 1, 33, 100}},
		"a")

	resampled := Resample(frame, time.Minute)

	assert.Equal(t, []time.Time{minute(0), minute(1), minute(2), minute(3)}, resampled.Index)
	a := resampled.Column("a")
	assert.Equal(t, 0.0, a[0])
	assert.Equal(t, 1.0, a[1])
	assert.True(t, math.IsNaN(a[2]))
	assert.Equal(t, 3.0, a[3])
}

func TestResampleDropsOffGridRows(t *testing.T) {
	frame := frameOf(
		[]time.Time{minute(0), minute(1).Add(30 * time.Second), minute(2)},
		map[string][]float64{"a": {0, 1.5, 2}},
		"a")

	resampled := Resample(frame, time.Minute)

	require.Equal(t, 3, resampled.Nrow())
	assert.True(t, math.IsNaN(resampled.Column("a")[1]))
	assert.Equal(t, 2.0, resampled.Column("a")[2])
}

func TestResampleEmptyFrame(t *testing.T) {
	frame := models.NewFrame(nil)
	frame.SetColumn("a", []float64{})

	resampled := Resample(frame, time.Minute)
	assert.Equal(t, 0, resampled.Nrow())
	assert.Equal(t, []string{"a"}, resampled.Columns)
}

func TestAddLagFeatures(t *testing.T) {
	n := 130
	index := make([]time.Time, n)
	target := make([]float64, n)
	for i := range index {
		index[i] = minute(i)
		target[i] = float64(1000 + i)
	}
	target[5] = math.NaN()
	frame := frameOf(index, map[string][]float64{"temp_zuz": target}, "temp_zuz")

	require.NoError(t, AddLagFeatures(frame, "temp_zuz", 2))

	assert.Equal(t, []string{"temp_zuz", "temp_last_1", "temp_last_2"}, frame.Columns)
	last1 := frame.Column("temp_last_1")
	last2 := frame.Column("temp_last_2")
	assert.True(t, math.IsNaN(last1[0]))
	assert.Equal(t, 1000.0, last1[1])
	// Forward filled before shifting
	assert.Equal(t, 1004.0, last1[6])
	assert.True(t, math.IsNaN(last2[60]))
	assert.Equal(t, 1000.0, last2[61])
	assert.Equal(t, 1068.0, last2[129])
}

func TestAddLagFeaturesMissingTarget(t *testing.T) {
	frame := frameOf([]time.Time{minute(0)}, map[string][]float64{"a": {1}}, "a")
	assert.ErrorIs(t, AddLagFeatures(frame, "temp_zuz", 1), models.ErrSchemaMismatch)
}

func TestForwardFillKeepsLeadingNaN(t *testing.T) {
	nan := math.NaN()
	filled := ForwardFill([]float64{nan, 1, nan, nan, 4, nan})
	assert.True(t, math.IsNaN(filled[0]))
	assert.Equal(t, []float64{1, 1, 1, 4, 4}, filled[1:])
}

func TestShift(t *testing.T) {
	shifted := Shift([]float64{1, 2, 3}, 1)
	assert.True(t, math.IsNaN(shifted[0]))
	assert.Equal(t, []float64{1, 2}, shifted[1:])

	for _, value := range Shift([]float64{1, 2}, 5) {
		assert.True(t, math.IsNaN(value))
	}
}

func TestDropMissingOnlyLooksAtGivenColumns(t *testing.T) {
	nan := math.NaN()
	frame := frameOf(
		[]time.Time{minute(0), minute(1), minute(2)},
		map[string][]float64{"a": {1, nan, 3}, "b": {nan, 2, 3}},
		"a", "b")

	dropped, err := DropMissing(frame, []string{"a"})
	require.NoError(t, err)
	assert.Equal(t, []time.Time{minute(0), minute(2)}, dropped.Index)
	assert.True(t, math.IsNaN(dropped.Column("b")[0]))

	dropped, err = DropMissing(frame, frame.Columns)
	require.NoError(t, err)
	assert.Equal(t, []time.Time{minute(2)}, dropped.Index)

	_, err = DropMissing(frame, []string{"c"})
	assert.ErrorIs(t, err, models.ErrSchemaMismatch)
}

func TestColumnsExcept(t *testing.T) {
	frame := frameOf([]time.Time{minute(0)}, map[string][]float64{"a": {1}, "b": {2}, "c": {3}}, "a", "b", "c")
	assert.Equal(t, []string{"a", "c"}, columnsExcept(frame, "b"))
}

package processor

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"heater-inference/config"
	"heater-inference/models"
)

func TestBuildFeatureTable(t *testing.T) {
	table, err := BuildFeatureTable(writeFixture(t, false), fixtureFeatureSet())
	require.NoError(t, err)
	frame := table.Frame

	// The slowest feature, b_avg_45-60, needs 45+14 minutes of history
	require.Equal(t, 61, frame.Nrow())
	assert.Equal(t, []string{"a", "c", "temp_zuz", "temp_last_1", "a_avg_00-15", "b_avg_45-60", "minute"}, frame.Columns)
	assert.Equal(t, minute(59), frame.Index[0])
	assert.Equal(t, minute(119), frame.Index[frame.Nrow()-1])

	first := 0
	assert.Equal(t, 59.0, frame.Column("a")[first])
	assert.Equal(t, 52.0, frame.Column("a_avg_00-15")[first])
	assert.Equal(t, 14.0, frame.Column("b_avg_45-60")[first])
	assert.Equal(t, 1358.0, frame.Column("temp_last_1")[first])
	assert.Equal(t, 59.0, frame.Column("minute")[first])
	assert.Equal(t, 60.0, frame.Column("minute")[1])

	// The duplicated timestamp keeps the value of the first file
	assert.Equal(t, 79.0, frame.Column("a")[79-59])

	// Missing temperature is interpolated, its lag carries the previous value forward
	gap := fixtureTemperatureGap - 59
	assert.Equal(t, 1390.0, frame.Column("temp_zuz")[gap])
	assert.Equal(t, 1389.0, frame.Column("temp_last_1")[gap+1])

	assert.Equal(t, "Flow A m3/h", table.Descriptions["a"])
	assert.Equal(t, "temp_zuz", table.Target)
}

func TestBuildFeatureTableDoesNotDependOnFileOrder(t *testing.T) {
	forward, err := BuildFeatureTable(writeFixture(t, false), fixtureFeatureSet())
	require.NoError(t, err)
	backward, err := BuildFeatureTable(writeFixture(t, true), fixtureFeatureSet())
	require.NoError(t, err)

	assert.Equal(t, forward.Frame.Index, backward.Frame.Index)
	assert.Equal(t, forward.Frame.Columns, backward.Frame.Columns)
	for _, column := range forward.Frame.Columns {
		assert.Equal(t, forward.Frame.Column(column), backward.Frame.Column(column), column)
	}
}

func TestBuildFeatureTableRejectsForeignFiles(t *testing.T) {
	sources := writeFixture(t, false)
	require.NoError(t, os.WriteFile(filepath.Join(sources.DataDir, "variables_description.xlsx"), []byte("x"), 0644))

	_, err := BuildFeatureTable(sources, fixtureFeatureSet())
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrSchemaMismatch))
	assert.Contains(t, err.Error(), "variables_description.xlsx")
}

func TestBuildFeatureTableMissingInputs(t *testing.T) {
	sources := writeFixture(t, false)
	sources.TemperatureFile = filepath.Join(t.TempDir(), "missing.csv")

	_, err := BuildFeatureTable(sources, fixtureFeatureSet())
	assert.True(t, errors.Is(err, models.ErrMissingFile))
}

func TestBuildFeatureTableUnknownSelectedColumn(t *testing.T) {
	featureSet := fixtureFeatureSet()
	featureSet.CORRELATED_COLUMNS = append(featureSet.CORRELATED_COLUMNS, "001tix01063.daca.pv")

	_, err := BuildFeatureTable(writeFixture(t, false), featureSet)
	assert.True(t, errors.Is(err, models.ErrSchemaMismatch))
}

func TestBuildFeatureTableRemoveWhenOff(t *testing.T) {
	sources := writeFixture(t, false)
	sources.RemoveWhenOff = true

	table, err := BuildFeatureTable(sources, fixtureFeatureSet())
	require.NoError(t, err)
	// The fixture never goes below the heater off temperature
	assert.Equal(t, 61, table.Frame.Nrow())
}

func TestEngineerKeepsRowsMissingOnlyTheTarget(t *testing.T) {
	index := make([]time.Time, 80)
	for i := range index {
		index[i] = minute(i)
	}
	joined := models.NewFrame(index)
	a := make([]float64, 80)
	target := models.NewNaNSlice(80)
	for i := range a {
		a[i] = float64(i)
	}
	target[0], target[79] = 1300, 1379
	joined.SetColumn("a", a)
	joined.SetColumn("temp_zuz", target)

	frame, err := Engineer(joined, "temp_zuz", fixtureSetFor("a"))
	require.NoError(t, err)

	require.Equal(t, 80-14, frame.Nrow())
	// Linear between the two readings
	assert.InDelta(t, 1300+14.0, frame.Column("temp_zuz")[0], 1e-9)
	assert.InDelta(t, 1300+50.0, frame.Column("temp_zuz")[36], 1e-9)
}

func fixtureSetFor(tag string) config.FeatureSet {
	return config.FeatureSet{
		ROLLING_TAGS:       []string{tag},
		ROLLING_WINDOW:     15,
		ROLLING_OFFSETS:    []int{0},
		CORRELATED_COLUMNS: []string{tag, "temp_zuz", tag + "_avg_00-15"},
	}
}

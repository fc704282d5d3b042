package config

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/tkanos/gonfig"
)

// FeatureSet holds the modelling decisions baked into the feature table: which tags get rolling
// averages and which columns survive the final selection. It must match the model being scored.
type FeatureSet struct {
	ROLLING_TAGS       []string
	ROLLING_WINDOW     int
	ROLLING_OFFSETS    []int
	LAG_HOURS          int
	CORRELATED_COLUMNS []string
}

// DefaultFeatureSet returns the feature set the shipped model was trained with
func DefaultFeatureSet() FeatureSet {
	return FeatureSet{
		ROLLING_TAGS: []string{
			"001fcx00211.pv",
			"001fcx00221.pv",
			"001fcx00231.pv",
			"001fcx00241.pv",
			"001fir01307.daca.pv",
			"001fir01308.daca.pv",
			"001fir01309.daca.pv",
			"001fir01310.daca.pv",
			"001fir01311.daca.pv",
			"001fir01312.daca.pv",
			"001fir01313.daca.pv",
			"001fir01315.daca.pv",
			"001nir0szr0.daca.pv",
			"001tir01357.daca.pv",
			"001tir01358.daca.pv",
			"001tir01359.daca.pv",
		},
		ROLLING_WINDOW:  15,
		ROLLING_OFFSETS: []int{0, 15, 30, 45},
		LAG_HOURS:       4,
		CORRELATED_COLUMNS: []string{
			"001fcx00221.pv", "001fir01307.daca.pv", "001fir01308.daca.pv",
			"001fir01309.daca.pv", "001fir01310.daca.pv", "001fir01311.daca.pv",
			"001fir01312.daca.pv", "001fir01315.daca.pv", "001nir0szr0.daca.pv",
			"001tix01063.daca.pv", "001tix01065.daca.pv", "001tix01067.daca.pv",
			"001tix01068.daca.pv", "001tix01071.daca.pv", "001tix01072.daca.pv",
			"001tix01073.daca.pv", "001tix01074.daca.pv", "001tix01075.daca.pv",
			"001tix01079.daca.pv", "001tix01084.daca.pv", "001uxm0rf01.daca.pv",
			"001uxm0rf02.daca.pv", "001uxm0rf03.daca.pv", "temp_zuz", "temp_last_1",
			"temp_last_2", "temp_last_3", "temp_last_4", "001fcx00211.pv_avg_00-15",
			"001fcx00221.pv_avg_00-15", "001fir01307.daca.pv_avg_00-15",
			"001fir01308.daca.pv_avg_00-15", "001fir01309.daca.pv_avg_00-15",
			"001fir01310.daca.pv_avg_00-15", "001fir01311.daca.pv_avg_00-15",
			"001fir01312.daca.pv_avg_00-15", "001fir01315.daca.pv_avg_00-15",
			"001nir0szr0.daca.pv_avg_00-15", "001fcx00211.pv_avg_15-30",
			"001fcx00221.pv_avg_15-30", "001fir01307.daca.pv_avg_15-30",
			"001fir01308.daca.pv_avg_15-30", "001fir01309.daca.pv_avg_15-30",
			"001fir01310.daca.pv_avg_15-30", "001fir01311.daca.pv_avg_15-30",
			"001fir01312.daca.pv_avg_15-30", "001fir01315.daca.pv_avg_15-30",
			"001nir0szr0.daca.pv_avg_15-30", "001fcx00211.pv_avg_30-45",
			"001fcx00221.pv_avg_30-45", "001fir01307.daca.pv_avg_30-45",
			"001fir01308.daca.pv_avg_30-45", "001fir01309.daca.pv_avg_30-45",
			"001fir01310.daca.pv_avg_30-45", "001fir01311.daca.pv_avg_30-45",
			"001fir01312.daca.pv_avg_30-45", "001fir01315.daca.pv_avg_30-45",
			"001nir0szr0.daca.pv_avg_30-45", "001fcx00211.pv_avg_45-60",
			"001fcx00221.pv_avg_45-60", "001fir01308.daca.pv_avg_45-60",
			"001fir01309.daca.pv_avg_45-60", "001fir01310.daca.pv_avg_45-60",
			"001fir01311.daca.pv_avg_45-60", "001fir01312.daca.pv_avg_45-60",
			"001fir01315.daca.pv_avg_45-60", "001nir0szr0.daca.pv_avg_45-60",
		},
	}
}

// GetFeatureSet returns the default feature set, or the one stored in fileName when it is given.
// Fields missing from the file keep their default values.
func GetFeatureSet(fileName string) (FeatureSet, error) {
	featureSet := DefaultFeatureSet()
	if fileName == "" {
		return featureSet, nil
	}
	err := gonfig.GetConf(fileName, &featureSet)
	if err != nil {
		log.Error(err)
		return featureSet, err
	}
	if err = featureSet.Validate(); err != nil {
		return featureSet, err
	}
	log.Info("Using feature set from ", fileName)
	return featureSet, nil
}

// Validate checks that the feature set can produce a feature table
func (f FeatureSet) Validate() error {
	if f.ROLLING_WINDOW < 1 {
		return fmt.Errorf("ROLLING_WINDOW must be positive, got %d", f.ROLLING_WINDOW)
	}
	if f.LAG_HOURS < 0 {
		return fmt.Errorf("LAG_HOURS cannot be negative, got %d", f.LAG_HOURS)
	}
	for _, offset := range f.ROLLING_OFFSETS {
		if offset < 0 {
			return fmt.Errorf("ROLLING_OFFSETS cannot contain negative offsets, got %d", offset)
		}
	}
	if len(f.CORRELATED_COLUMNS) == 0 {
		return fmt.Errorf("CORRELATED_COLUMNS must not be empty")
	}
	return nil
}

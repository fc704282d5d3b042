package processor

import (
	"regexp"
	"time"

	log "github.com/sirupsen/logrus"

	"heater-inference/config"
	"heater-inference/loader"
	"heater-inference/metadata"
	"heater-inference/models"
)

//FeatureTable is the output of the read path
type FeatureTable struct {
	Frame *models.Frame
	// Descriptions maps lower case tag names to "<description> <unit>". Not applied to the frame.
	Descriptions map[string]string
	Target       string
}

//Sources defines where the inputs of the read path are found
type Sources struct {
	DataDir         string
	DescriptionFile string
	TemperatureFile string
	FilePattern     string
	TimeColumn      string
	RemoveWhenOff   bool
}

// SourcesFromConfig returns the sources named in the configuration file
func SourcesFromConfig(configuration config.Configuration) Sources {
	return Sources{
		DataDir:         configuration.DATA_DIR,
		DescriptionFile: configuration.DESCRIPTION_FILE,
		TemperatureFile: configuration.TEMPERATURE_FILE,
		FilePattern:     configuration.FILE_PATTERN,
		TimeColumn:      configuration.TIME_COLUMN,
		RemoveWhenOff:   configuration.REMOVE_WHEN_OFF,
	}
}

// ReadJoined reads the interval files and the temperature file and joins them on the timestamp
func ReadJoined(sources Sources) (*models.Frame, map[string]string, error) {
	pattern, err := regexp.Compile(sources.FilePattern)
	if err != nil {
		log.Error(err)
		return nil, nil, models.SchemaMismatch(sources.FilePattern, "invalid interval file pattern: %v", err)
	}

	measurements, err := loader.ReadIntervalDir(sources.DataDir, pattern, sources.TimeColumn)
	if err != nil {
		return nil, nil, err
	}
	log.Info("Read ", measurements.Nrow(), " measurement rows with ", measurements.Ncol(), " columns from ", sources.DataDir)

	descriptions, err := metadata.ReadDescriptions(sources.DescriptionFile)
	if err != nil {
		return nil, nil, err
	}
	log.Debug("Read ", len(descriptions), " tag descriptions")

	temperatures, err := metadata.ReadTemperatures(sources.TemperatureFile, config.GetTargetColumn())
	if err != nil {
		return nil, nil, err
	}

	joined, err := metadata.JoinTemperature(measurements, temperatures, config.GetTargetColumn())
	if err != nil {
		return nil, nil, err
	}
	return joined, descriptions, nil
}

// BuildFeatureTable runs the whole read path: load, join, resample, lag features, rolling averages,
// column selection, interpolation of the target and the minute column.
func BuildFeatureTable(sources Sources, featureSet config.FeatureSet) (*FeatureTable, error) {
	timer := time.Now()
	target := config.GetTargetColumn()

	joined, descriptions, err := ReadJoined(sources)
	if err != nil {
		return nil, err
	}

	frame, err := Engineer(joined, target, featureSet)
	if err != nil {
		return nil, err
	}

	if sources.RemoveWhenOff {
		before := frame.Nrow()
		frame, err = RemoveWhenOff(frame, target, config.GetHeaterOffTemperature(), config.GetHeaterOffMargin())
		if err != nil {
			return nil, err
		}
		log.Info("Removed ", before-frame.Nrow(), " rows recorded while the heater was off")
	}

	log.Info("Feature table has ", frame.Nrow(), " rows and ", frame.Ncol(), " columns. Built in ", time.Since(timer))
	return &FeatureTable{Frame: frame, Descriptions: descriptions, Target: target}, nil
}

// Engineer turns the joined measurements into the feature table
func Engineer(joined *models.Frame, target string, featureSet config.FeatureSet) (*models.Frame, error) {
	if err := featureSet.Validate(); err != nil {
		return nil, models.SchemaMismatch("feature set", "%v", err)
	}
	frame := Resample(joined, time.Minute)

	// Only measurements are required, the target is interpolated later
	required := columnsExcept(frame, target)

	if err := AddLagFeatures(frame, target, featureSet.LAG_HOURS); err != nil {
		return nil, err
	}

	frame, err := DropMissing(frame, required)
	if err != nil {
		return nil, err
	}

	if err = RollingFeatures(frame, featureSet.ROLLING_TAGS, featureSet.ROLLING_WINDOW, featureSet.ROLLING_OFFSETS); err != nil {
		return nil, err
	}

	frame, err = SelectColumns(frame, featureSet.CORRELATED_COLUMNS)
	if err != nil {
		return nil, err
	}

	if err = Interpolate(frame, target); err != nil {
		return nil, err
	}

	frame, err = DropMissing(frame, frame.Columns)
	if err != nil {
		return nil, err
	}

	AddMinute(frame)
	return frame, nil
}

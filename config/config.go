package config

import (
	"fmt"
	log "github.com/sirupsen/logrus"
	"github.com/tkanos/gonfig"
)

type Configuration struct {
	DB_USERNAME         string
	DB_PASSWORD         string
	DB_PORT             string
	DB_ALIAS            string
	DB_SID              string
	DB_HOST             string
	DEBUG_LOGGING       bool
	SKIP_DB_UPDATE      bool
	MAX_LOGFILE_SIZE    int64
	DATA_DIR            string
	DESCRIPTION_FILE    string
	TEMPERATURE_FILE    string
	MODEL_FILE          string
	PLOT_FILE           string
	FEATURE_EXPORT_FILE string
	FEATURE_SET_FILE    string
	FILE_PATTERN        string
	TIME_COLUMN         string
	DESCRIBE_COLUMNS    bool
	REMOVE_WHEN_OFF     bool
}

// GetConfig reads ./<env>_heater_config.json. Values can be overridden by environment variables with the same name.
func GetConfig(params ...string) (Configuration, error) {
	configuration := Configuration{}
	env := ""
	if len(params) > 0 {
		env = params[0]
	}
	fileName := fmt.Sprintf("./%s_heater_config.json", env)

	err := gonfig.GetConf(fileName, &configuration)
	if err != nil {
		log.Error(err)
		return configuration, err
	}
	configuration.applyDefaults()

	log.Info("Using configurations in config file with prefix: ", env)

	return configuration, nil
}

// GetConfigDB reads the database part of the configuration from ./<env>_config_db.json
func GetConfigDB(params ...string) (Configuration, error) {
	configuration := Configuration{}
	env := ""
	if len(params) > 0 {
		env = params[0]
	}
	fileName := fmt.Sprintf("./%s_config_db.json", env)
	err := gonfig.GetConf(fileName, &configuration)
	if err != nil {
		log.Error(err)
		return configuration, err
	}

	log.Info("Using DB configurations for environment:  ", env)

	return configuration, nil
}

func (c *Configuration) applyDefaults() {
	if c.DATA_DIR == "" {
		c.DATA_DIR = GetDefaultDataDir()
	}
	if c.DESCRIPTION_FILE == "" {
		c.DESCRIPTION_FILE = GetDefaultDescriptionFile()
	}
	if c.TEMPERATURE_FILE == "" {
		c.TEMPERATURE_FILE = GetDefaultTemperatureFile()
	}
	if c.MODEL_FILE == "" {
		c.MODEL_FILE = GetDefaultModelFile()
	}
	if c.PLOT_FILE == "" {
		c.PLOT_FILE = GetDefaultPlotFile()
	}
	if c.FILE_PATTERN == "" {
		c.FILE_PATTERN = GetIntervalFilePattern()
	}
	if c.TIME_COLUMN == "" {
		c.TIME_COLUMN = GetTimeColumn()
	}
	if c.MAX_LOGFILE_SIZE == 0 {
		c.MAX_LOGFILE_SIZE = GetDefaultMaxLogfileSize()
	}
}

//GetDefaultDataDir returns the directory holding the interval files
func GetDefaultDataDir() string {
	return "data/gz_files"
}

//GetDefaultDescriptionFile returns the spreadsheet with the tag descriptions
func GetDefaultDescriptionFile() string {
	return "data/opis_zmiennych.xlsx"
}

//GetDefaultTemperatureFile returns the csv file with the heater temperatures
func GetDefaultTemperatureFile() string {
	return "data/temp_zuz.csv"
}

//GetDefaultModelFile returns the XGBoost model saved as json
func GetDefaultModelFile() string {
	return "model.json"
}

//GetDefaultPlotFile returns where the comparison chart is written
func GetDefaultPlotFile() string {
	return "./out/prediction.png"
}

//GetIntervalFilePattern returns the pattern every file in the data directory must match
func GetIntervalFilePattern() string {
	return `^avg_from_\d{4}(_\d{2}){5}_to_\d{4}(_\d{2}){5}\.(gz|csv)$`
}

//GetTimeColumn returns the name of the timestamp column in the interval files
func GetTimeColumn() string {
	return "czas"
}

//GetTemperatureTimeColumn returns the name of the timestamp column in the temperature file
func GetTemperatureTimeColumn() string {
	return "Czas"
}

//GetTargetColumn returns the name of the heater temperature column
func GetTargetColumn() string {
	return "temp_zuz"
}

//GetLagPrefix returns the prefix of the lagged temperature columns
func GetLagPrefix() string {
	return "temp_last"
}

//GetMinuteColumn returns the name of the minute-of-hour column
func GetMinuteColumn() string {
	return "minute"
}

//GetMeasurementDateLayout returns the layout of the (truncated) timestamps in the interval files
func GetMeasurementDateLayout() string {
	return "2006-01-02 15:04:05"
}

//GetTemperatureDateLayouts returns the layouts tried, in order, on the temperature file timestamps
func GetTemperatureDateLayouts() []string {
	return []string{
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
		"2006-01-02T15:04:05",
		"02.01.2006 15:04:05",
		"02.01.2006 15:04",
	}
}

//GetTemperatureDelimiter returns the delimiter used in the temperature file
func GetTemperatureDelimiter() rune {
	return ';'
}

//GetJSONDateLayoutLong returns the date layout used in logs and the run table
func GetJSONDateLayoutLong() string {
	return "2006-01-02T15:04:05"
}

//GetFileDateLayout returns the date layout to be used in file names
func GetFileDateLayout() string {
	return "20060102150405"
}

//GetHeaterOffTemperature returns the temperature at or below which the heater is considered off
func GetHeaterOffTemperature() float64 {
	return 1270
}

//GetHeaterOffMargin returns the number of records removed around a heater-off record
func GetHeaterOffMargin() int {
	return 15
}

//GetRunTableName returns the name of the table where the prediction runs are stored
func GetRunTableName() string {
	return "HEATER_OWN.PREDICTION_RUN"
}

//GetStatusFinished returns the string used in the DB for finished
func GetStatusFinished() string {
	return "FIN"
}

//GetStatusError returns the string used in the DB for errors
func GetStatusError() string {
	return "ERR"
}

//GetLogFileName return the name of the log file
func GetLogFileName() string {
	return "./out/heater-inference.log"
}

//GetDefaultMaxLogfileSize returns the size in MB after which the log file is archived
func GetDefaultMaxLogfileSize() int64 {
	return 50
}

//GetDefaultEnvironment returns the default environment
func GetDefaultEnvironment() string {
	return "PROD"
}

//GetMaxOpenConnections returns...
func GetMaxOpenConnections() int {
	return 2
}

//GetMaxIdleConnections returns...
func GetMaxIdleConnections() int {
	return 1
}

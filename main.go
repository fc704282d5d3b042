package main

import (
	"flag"
	"fmt"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"heater-inference/chart"
	"heater-inference/config"
	"heater-inference/database"
	"heater-inference/logger"
	"heater-inference/models"
	"heater-inference/predictor"
	"heater-inference/processor"
	"heater-inference/repository"
	"heater-inference/utils"
	"os"
	"strconv"
	"time"
)

var (
	sha1ver   string // sha1 revision used to build the program
	buildTime string // when the executable was built
	version   string // custom version number of the program

	flgVersion bool
)

func main() {

	parseCmdLineFlags()

	//Store the current time before running the program in order to track execution time
	timer := time.Now()

	//The environment is given as a parameter (defaults to PROD)
	environment := getEnvironment()

	//Get the configurations for the given environment
	configurations, err := config.GetConfig(environment)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Create the log file if it doesn't exist. Append to it if it already exists.
	logFileLogger, err := logger.NewLogger(config.GetLogFileName(), configurations.MAX_LOGFILE_SIZE)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Cannot open the log file, logging to stderr:", err)
	}
	defer logFileLogger.Close()

	if configurations.DEBUG_LOGGING {
		log.SetLevel(log.DebugLevel)
	}

	logFileLogger.Info("Using configurations from config files with prefix: " + environment)
	logFileLogger.Info("version = " + version)
	logFileLogger.Info("buildTime = " + buildTime)
	logFileLogger.Info("sha1Version = " + sha1ver)
	logFileLogger.Debug("Skip DB update? " + strconv.FormatBool(configurations.SKIP_DB_UPDATE))

	run := models.PredictionRun{
		RunId:     uuid.New().String(),
		ModelFile: configurations.MODEL_FILE,
		Status:    config.GetStatusFinished(),
	}
	logFileLogger.Info("Starting run id " + run.RunId)

	err = predict(configurations, &run, logFileLogger)
	if err != nil {
		logFileLogger.Error(err)
		run.Status = config.GetStatusError()
		run.Details = err.Error()
	}

	if !configurations.SKIP_DB_UPDATE {
		recordRun(environment, run, logFileLogger)
	}

	logFileLogger.Info("Finished run id " + run.RunId)
	utils.PrintMemUsage(logFileLogger)

	//Print the time it took to run the program
	logFileLogger.Info(" Execution time: " + time.Since(timer).String())

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		logFileLogger.Close()
		os.Exit(1)
	}
}

// predict builds the feature table, scores the model on it and draws the comparison chart
func predict(configurations config.Configuration, run *models.PredictionRun, logFileLogger logger.Logger) error {
	featureSet, err := config.GetFeatureSet(configurations.FEATURE_SET_FILE)
	if err != nil {
		return err
	}

	table, err := processor.BuildFeatureTable(processor.SourcesFromConfig(configurations), featureSet)
	if err != nil {
		return err
	}
	fmt.Println("The data was loaded from files.")

	if configurations.FEATURE_EXPORT_FILE != "" {
		var descriptions map[string]string
		if configurations.DESCRIBE_COLUMNS {
			descriptions = table.Descriptions
		}
		err = processor.ExportFeatureTable(table.Frame, configurations.FEATURE_EXPORT_FILE, configurations.TIME_COLUMN, descriptions)
		if err != nil {
			return err
		}
	}

	dataset, err := predictor.Split(table.Frame, table.Target)
	if err != nil {
		return err
	}
	run.PeriodFrom, run.PeriodTo = table.Frame.Span()
	run.RowCount, run.FeatureCount = dataset.X.Dims()
	logFileLogger.Info("Scoring " + strconv.Itoa(run.RowCount) + " rows from " + utils.FormatDate(run.PeriodFrom) + " to " + utils.FormatDate(run.PeriodTo))

	model, err := predictor.LoadXGBoostModel(configurations.MODEL_FILE)
	if err != nil {
		return err
	}
	fmt.Println("The xgboost model was loaded from " + configurations.MODEL_FILE + ".")

	yPred, err := model.Predict(dataset.X, dataset.Names)
	if err != nil {
		return err
	}
	run.Rmse, err = predictor.RMSE(dataset.Y, yPred)
	if err != nil {
		return err
	}
	fmt.Println("The Root Mean Squared Error score of the model is:", run.Rmse)
	logFileLogger.Info("RMSE = " + strconv.FormatFloat(run.Rmse, 'f', 4, 64))

	baseline, err := predictor.NewMeanRegressor(dataset.Y).Predict(dataset.X, dataset.Names)
	if err != nil {
		return err
	}
	baselineRmse, err := predictor.RMSE(dataset.Y, baseline)
	if err != nil {
		return err
	}
	logFileLogger.Info("RMSE of predicting the mean temperature = " + strconv.FormatFloat(baselineRmse, 'f', 4, 64))

	fmt.Println("Creating graph, please wait.")
	return chart.PlotPredictions(dataset.Index, dataset.Y, yPred, run.Rmse, configurations.PLOT_FILE)
}

// recordRun stores the run in the run table. Failures are logged only: the result was already printed.
func recordRun(environment string, run models.PredictionRun, logFileLogger logger.Logger) {
	DBConfigurations, err := config.GetConfigDB(environment)
	if err != nil {
		logFileLogger.Error(err)
		return
	}
	connectionString, err := database.ConnectionString(DBConfigurations)
	if err != nil {
		logFileLogger.Error(err)
		return
	}
	db, err := database.InitDB(connectionString)
	if err != nil {
		logFileLogger.Error(err)
		return
	}
	repo := repository.NewRepository(db)
	defer repo.Close()

	if err = repo.InitRunTableSQLs(); err != nil {
		logFileLogger.Error(err)
		return
	}

	previous, err := repo.GetLatestRun(run.ModelFile)
	if err != nil {
		logFileLogger.Error(err)
	} else if previous != nil {
		logFileLogger.Info("Previous run " + previous.RunId + " of this model had RMSE " + strconv.FormatFloat(previous.Rmse, 'f', 4, 64))
	}

	if err = repo.RecordRun(run); err != nil {
		logFileLogger.Error(err)
	}
}

func getEnvironment() string {
	environment := config.GetDefaultEnvironment()
	if flag.NArg() > 0 {
		environment = flag.Arg(0)
	}
	return environment
}

func parseCmdLineFlags() {
	flag.BoolVar(&flgVersion, "version", false, "if true, print version and exit")
	flag.Parse()
	if flgVersion {
		fmt.Printf("Version %s - build on %s from sha1 %s\n", version, buildTime, sha1ver)
		os.Exit(0)
	}
}

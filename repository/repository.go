package repository

import (
	"database/sql"
	log "github.com/sirupsen/logrus"
	"heater-inference/models"
	"heater-inference/sqls"
	"heater-inference/utils"
	"sync"
)

var mutexRunTableInserts sync.Mutex

type Repository interface {
	InitRunTableSQLs() error
	RecordRun(run models.PredictionRun) error
	GetLatestRun(modelFile string) (*models.PredictionRun, error)
	Close()
}

var NewRepository = func(db *sql.DB) Repository {
	return &Impl{
		Db: db,
	}
}

type Impl struct {
	Db                     *sql.DB
	sqlstmtInsertRun       *sql.Stmt
	sqlstmtSelectLatestRun *sql.Stmt
}

func (i *Impl) InitRunTableSQLs() error {
	var err error

	//Prepare the SQL query that inserts to the run table
	i.sqlstmtInsertRun, err = i.Db.Prepare(sqls.GetSQLInsertPredictionRun())
	if err != nil {
		log.Error(err)
		return err
	}

	//Prepare the SQL query that reads the last run of a model
	i.sqlstmtSelectLatestRun, err = i.Db.Prepare(sqls.GetSQLSelectLatestRun())
	if err != nil {
		log.Error(err)
		return err
	}

	return nil
}

// RecordRun stores the result of a prediction run
func (i *Impl) RecordRun(run models.PredictionRun) error {
	mutexRunTableInserts.Lock()
	defer mutexRunTableInserts.Unlock()

	_, err := i.sqlstmtInsertRun.Exec(
		run.RunId,
		utils.FormatDate(run.PeriodFrom),
		utils.FormatDate(run.PeriodTo),
		run.RowCount,
		run.FeatureCount,
		run.Rmse,
		run.ModelFile,
		run.Status,
		run.Details)
	if err != nil {
		log.Error(err)
		return err
	}
	log.Debug("Stored prediction run ", run.RunId)

	return nil
}

// GetLatestRun returns the last finished run of the model, or nil when there is none
func (i *Impl) GetLatestRun(modelFile string) (*models.PredictionRun, error) {
	var run models.PredictionRun
	var periodFrom, periodTo string
	var details sql.NullString

	err := i.sqlstmtSelectLatestRun.QueryRow(modelFile).Scan(
		&run.RunId,
		&periodFrom,
		&periodTo,
		&run.RowCount,
		&run.FeatureCount,
		&run.Rmse,
		&run.ModelFile,
		&run.Status,
		&details)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		log.Error(err)
		return nil, err
	}

	run.PeriodFrom, err = utils.ParseDate(periodFrom)
	if err != nil {
		log.Error(err)
		return nil, err
	}
	run.PeriodTo, err = utils.ParseDate(periodTo)
	if err != nil {
		log.Error(err)
		return nil, err
	}
	run.Details = details.String
	return &run, nil
}

func (i *Impl) Close() {
	if i.sqlstmtInsertRun != nil {
		i.sqlstmtInsertRun.Close()
	}
	if i.sqlstmtSelectLatestRun != nil {
		i.sqlstmtSelectLatestRun.Close()
	}
	i.Db.Close()
}

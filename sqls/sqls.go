package sqls

import (
	"heater-inference/config"
)

//GetSQLInsertPredictionRun returns the SQL statement used to store the result of a prediction run
func GetSQLInsertPredictionRun() string {

	//Create the main body of the SQL statement
	sql :=
		`INSERT INTO ` + config.GetRunTableName() + `
    (
        run_id,
        period_from_date,
        period_to_date,
        row_count,
        feature_count,
        rmse,
        model_file,
        status,
        details,
        created_date
    )
VALUES
    (
        :runId,
        :periodFromDate,
        :periodToDate,
        :rowCount,
        :featureCount,
        :rmse,
        :modelFile,
        :status,
        :details,
        SYSDATE
    )`

	return sql
}

//GetSQLSelectLatestRun returns the SQL statement used to find the last finished run for a model file
func GetSQLSelectLatestRun() string {

	sql :=
		`SELECT
    run_id,
    period_from_date,
    period_to_date,
    row_count,
    feature_count,
    rmse,
    model_file,
    status,
    details
FROM
    ` + config.GetRunTableName() + `
WHERE
        model_file = :modelFile
    AND status = '` + config.GetStatusFinished() + `'
ORDER BY
    created_date DESC
FETCH FIRST 1 ROWS ONLY`

	return sql
}

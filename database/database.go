package database

import (
	"database/sql"
	"fmt"
	log "github.com/sirupsen/logrus"
	"heater-inference/config"

	_ "github.com/godror/godror"
)

// InitDB opens a connection to the database holding the prediction run table
func InitDB(dbConnectionString string) (*sql.DB, error) {
	db, err := sql.Open("godror", dbConnectionString)
	if err != nil {
		log.Error(err)
		return nil, err
	}
	db.SetMaxOpenConns(config.GetMaxOpenConnections())
	db.SetMaxIdleConns(config.GetMaxIdleConnections())

	err = db.Ping()
	if err != nil {
		log.Error(err)
		db.Close()
		return nil, err
	}
	return db, nil
}

// ConnectionString builds the godror connection string from the DB configuration
func ConnectionString(configuration config.Configuration) (string, error) {
	if configuration.DB_USERNAME == "" {
		return "", fmt.Errorf("DB_USERNAME must be specified in the configuration file")
	}
	if configuration.DB_PASSWORD == "" {
		return "", fmt.Errorf("DB_PASSWORD must be specified in the configuration file")
	}
	if configuration.DB_ALIAS != "" && configuration.DB_HOST != "" {
		return "", fmt.Errorf("DB_ALIAS and DB_HOST cannot both be specified in the configuration file")
	}

	if configuration.DB_ALIAS != "" {
		return configuration.DB_USERNAME + "/" + configuration.DB_PASSWORD + "@" + configuration.DB_ALIAS, nil
	}
	if configuration.DB_HOST != "" && configuration.DB_PORT != "" && configuration.DB_SID != "" {
		return configuration.DB_USERNAME + "/" + configuration.DB_PASSWORD + "@//" + configuration.DB_HOST + ":" + configuration.DB_PORT + "/" + configuration.DB_SID, nil
	}
	return "", fmt.Errorf("DB_ALIAS or DB_HOST+DB_PORT+DB_SID must be specified in the configuration file")
}

package db

import (
	"fmt"

	gorm_logrus "github.com/onrik/gorm-logrus"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

const (
	DriverPostgres = "postgres"
	DriverMysql    = "mysql"
	DriverSqlite   = "sqlite"
)

type ConnectParams struct {
	Driver    string
	Host      string
	Port      string
	Database  string
	User      string
	Password  string
	DebugMode bool
	Migrate   bool
}

func Connect(params ConnectParams) (err error) {
	if DB != nil {
		return nil
	}
	dialector, err := getDialector(params)
	if err != nil {
		return err
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gorm_logrus.New(),
	})
	if err != nil {
		return errors.Wrap(err, "database connection failed")
	}
	if params.DebugMode {
		db.Logger = logger.Default.LogMode(logger.Info)
		DB = db.Debug()
	} else {
		DB = db
	}
	if params.Migrate {
		if err = Migrate(DB); err != nil {
			return err
		}
	}
	log.WithField("driver", params.Driver).Info("database connected")
	return nil
}

func getDialector(params ConnectParams) (gorm.Dialector, error) {
	switch params.Driver {
	case "", DriverPostgres:
		dsn := fmt.Sprintf("host=%s port=%s user=%s dbname=%s sslmode=disable password=%s",
			params.Host, params.Port, params.User, params.Database, params.Password)
		return postgres.Open(dsn), nil
	case DriverMysql:
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local&clientFoundRows=true",
			params.User, params.Password, params.Host, params.Port, params.Database)
		return mysql.Open(dsn), nil
	case DriverSqlite:
		// Database is the file path, or a file: URI for in-memory databases.
		return sqlite.Open(params.Database), nil
	}
	return nil, errors.Errorf("unsupported database driver: %s", params.Driver)
}

func PingDB() error {
	db, err := DB.DB()
	if err != nil {
		return err
	}
	if err = db.Ping(); err != nil {
		return err
	}
	return nil
}

package initializers

import (
	"travel-order-backend/config"
	"travel-order-backend/db"
)

func InitDBConnection() {
	err := db.Connect(db.ConnectParams{
		Driver:    config.Conf.Database.Driver,
		Host:      config.Conf.Database.Host,
		Port:      config.Conf.Database.Port,
		Database:  config.Conf.Database.Name,
		User:      config.Conf.Database.User,
		Password:  config.Conf.Database.Password,
		DebugMode: *config.Conf.Database.DebugMode,
		Migrate:   *config.Conf.Database.MigrateOnStart,
	})
	if err != nil {
		panic(err.Error())
	}
	db.InitPreload()
}

package initializers

import (
	"travel-order-backend/config"
	"travel-order-backend/fiberlog"

	log "github.com/sirupsen/logrus"
)

func InitLogger() *fiberlog.Config {
	level, err := log.ParseLevel(config.Conf.App.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	formatter := &log.JSONFormatter{
		FieldMap: log.FieldMap{
			log.FieldKeyTime: "@timestamp",
			log.FieldKeyMsg:  "message",
		},
	}
	log.SetFormatter(formatter)
	log.SetLevel(level)

	logger := log.New()
	logger.SetFormatter(formatter)
	logger.SetLevel(level)
	return &fiberlog.Config{
		Logger: logger,
		Tags: []string{
			fiberlog.TagMethod,
			fiberlog.TagPath,
			fiberlog.TagStatus,
			fiberlog.TagLatency,
			fiberlog.TagIP,
			fiberlog.TagUserID,
			fiberlog.TagRole,
			fiberlog.RequestID,
		},
	}
}

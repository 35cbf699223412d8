package config

import (
	"os"

	"github.com/gotify/configor"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

var Conf *Configuration

type Configuration struct {
	App struct {
		ListenAddr  string `default:"" env:"APP_HOST"`
		Port        int    `default:"8080"  env:"APP_PORT"`
		BodyLimitMb int    `default:"25" env:"APP_BODY_LIMIT_MB"`
		LogLevel    string `default:"info" env:"LOG_LEVEL"`
		PublicURL   string `default:"http://localhost:8080" env:"APP_PUBLIC_URL"`
	}
	Database struct {
		Driver         string `default:"postgres" env:"DB_DRIVER"` // postgres | mysql | sqlite
		Host           string `default:"127.0.0.1" env:"DB_HOST"`
		Port           string `default:"5432" env:"DB_PORT"`
		Name           string `default:"travel-order" env:"DB_NAME"`
		User           string `default:"postgres" env:"DB_USER"`
		Password       string `default:"postgres" env:"DB_PASSWORD"`
		MigrateOnStart *bool  `default:"true" env:"DB_MIGRATE_ON_START"`
		DebugMode      *bool  `default:"false" env:"DB_DEBUG_MODE"`
	}
	Auth struct {
		JWTSecret      string `default:"change-me" env:"JWT_SECRET"`
		JWTExpireInSec int64  `default:"43200" env:"JWT_EXPIRE_IN_SEC"`
	}
	Admin struct {
		Username  string `default:"" env:"ADMIN_USERNAME"`
		Password  string `default:"" env:"ADMIN_PASSWORD"`
		FirstName string `default:"ICT" env:"ADMIN_FIRST_NAME"`
		LastName  string `default:"Administrator" env:"ADMIN_LAST_NAME"`
		Email     string `default:"" env:"ADMIN_EMAIL"`
	}
	S3 struct {
		Endpoint        string `default:"" env:"S3_ENDPOINT"`
		AccessKeyID     string `default:"" env:"S3_ACCESS_KEY_ID"`
		SecretAccessKey string `default:"" env:"S3_SECRET_ACCESS_KEY"`
		BucketName      string `default:"travel-order" env:"S3_BUCKET_NAME"`
		UseSSL          *bool  `default:"false" env:"S3_USE_SSL"`
	}
	Smtp struct {
		User       string `default:"" env:"SMTP_USER"`
		Password   string `default:"" env:"SMTP_PASSWORD"`
		Host       string `default:"" env:"SMTP_HOST"`
		Port       string `default:"" env:"SMTP_PORT"`
		TLSEnabled *bool  `default:"true" env:"SMTP_TLS_ENABLED"`
		From       string `default:"" env:"SMTP_FROM"`
	}
	Workflow struct {
		RequireRecommender *bool `default:"true" env:"WORKFLOW_REQUIRE_RECOMMENDER"`
	}
	Export struct {
		FontDir          string `default:"" env:"EXPORT_FONT_DIR"`
		TemplatePath     string `default:"./static/templates/travel_order.xlsx" env:"EXPORT_TEMPLATE_PATH"`
		SignatureEnabled *bool  `default:"true" env:"EXPORT_SIGNATURE_ENABLED"`
	}
	ErrNotify struct {
		Addr string `default:"" env:"ERR_NOTIFY_ADDR"`
	}
}

func configFiles() []string {
	return []string{"config.yml"}
}

func InitConfig() {
	if Conf != nil {
		return
	}
	if _, err := os.Stat(".env"); err == nil {
		if err = godotenv.Load(); err != nil {
			log.WithError(err).Warn("failed to load .env file")
		}
	}
	conf := new(Configuration)
	err := configor.New(&configor.Config{}).Load(conf, configFiles()...)
	if err != nil {
		panic(err)
	}
	Conf = conf
}

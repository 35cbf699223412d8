package initializers

import (
	"travel-order-backend/config"
	"travel-order-backend/lib/smtp"

	log "github.com/sirupsen/logrus"
)

func InitSmtp() {
	err := smtp.Connect(config.Conf.Smtp.User, config.Conf.Smtp.Password,
		config.Conf.Smtp.Host, config.Conf.Smtp.Port, config.Conf.Smtp.From, *config.Conf.Smtp.TLSEnabled)
	if err != nil {
		panic(err.Error())
	}
	if !smtp.Instance.Configured() {
		log.Warn("SMTP is not configured, email notifications are disabled")
	}
}

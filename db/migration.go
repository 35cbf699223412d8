package db

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	dbmodels "travel-order-backend/models/db"
)

func AutoMigrateDB() error {
	return Migrate(DB)
}

// Migrate creates or updates every table of the service on the given connection.
func Migrate(conn *gorm.DB) error {
	log.Info("running migrations")
	tables := []struct {
		name  string
		model interface{}
	}{
		{"IctAdmin", &dbmodels.IctAdmin{}},
		{"Personnel", &dbmodels.Personnel{}},
		{"Director", &dbmodels.Director{}},
		{"TravelOrder", &dbmodels.TravelOrder{}},
		{"TravelOrderApproval", &dbmodels.TravelOrderApproval{}},
		{"TravelOrderAttachment", &dbmodels.TravelOrderAttachment{}},
		{"ApprovalHistory", &dbmodels.ApprovalHistory{}},
		{"TimeLog", &dbmodels.TimeLog{}},
		{"SystemSetting", &dbmodels.SystemSetting{}},
		{"RevokedToken", &dbmodels.RevokedToken{}},
	}
	for _, table := range tables {
		if err := conn.AutoMigrate(table.model); err != nil {
			return errors.Wrapf(err, "failed to migrate %s", table.name)
		}
	}
	log.Info("migrations finished")
	return nil
}

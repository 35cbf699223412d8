package settingsstore

import (
	"travel-order-backend/models"
	dbmodels "travel-order-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Provider interface {
	GetByCode(code models.SystemSettingCode) (rec *dbmodels.SystemSetting, err error)
	GetValue(code models.SystemSettingCode, defaultValue string) (string, error)
	Set(code models.SystemSettingCode, value string) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) GetByCode(code models.SystemSettingCode) (*dbmodels.SystemSetting, error) {
	rec := dbmodels.SystemSetting{}
	err := i.db.
		Where("code = ?", code).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) GetValue(code models.SystemSettingCode, defaultValue string) (string, error) {
	rec, err := i.GetByCode(code)
	if err != nil {
		return "", err
	}
	if rec == nil {
		return defaultValue, nil
	}
	return rec.Value, nil
}

func (i impl) Set(code models.SystemSettingCode, value string) error {
	rec := dbmodels.SystemSetting{
		Code:  code,
		Value: value,
	}
	return i.db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&rec).
		Error
}

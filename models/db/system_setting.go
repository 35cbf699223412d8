package dbmodels

import "travel-order-backend/models"

type SystemSetting struct {
	BaseModel
	Code  models.SystemSettingCode `gorm:"type:varchar(100);uniqueIndex"`
	Value string                   `gorm:"type:text"`
}

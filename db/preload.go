package db

import (
	"travel-order-backend/config"
	ictadminstore "travel-order-backend/lib/ict-admin/store"
	settingsstore "travel-order-backend/lib/settings/store"
	authutils "travel-order-backend/lib/utils/auth-utils"
	"travel-order-backend/models"
	dbmodels "travel-order-backend/models/db"

	log "github.com/sirupsen/logrus"
)

func InitPreload() {
	addIctAdmin()
	fillSystemSettings()
}

func addIctAdmin() {
	if config.Conf.Admin.Username == "" || config.Conf.Admin.Password == "" {
		log.Warn("ict admin not added, ADMIN_USERNAME or ADMIN_PASSWORD is not set")
		return
	}
	adminStore := ictadminstore.NewInstance(DB)
	existedRec, err := adminStore.FindByUsername(config.Conf.Admin.Username)
	if err != nil {
		log.WithError(err).Error("failed to add ict admin")
		return
	}
	if existedRec != nil {
		return
	}
	hash, err := authutils.HashPassword(config.Conf.Admin.Password)
	if err != nil {
		log.WithError(err).Error("failed to add ict admin")
		return
	}
	rec := dbmodels.IctAdmin{
		Account: dbmodels.Account{
			Username:  config.Conf.Admin.Username,
			Password:  hash,
			FirstName: config.Conf.Admin.FirstName,
			LastName:  config.Conf.Admin.LastName,
			Email:     config.Conf.Admin.Email,
			IsActive:  true,
		},
	}
	if _, err = adminStore.Create(rec); err != nil {
		log.WithError(err).Error("failed to add ict admin")
	}
}

var defaultSettings = map[models.SystemSettingCode]string{
	models.BrandingLogoTextSetting: models.DefaultBrandingLogoText,
	models.BrandingLogoPathSetting: "",
}

func fillSystemSettings() {
	store := settingsstore.NewInstance(DB)
	for code, value := range defaultSettings {
		rec, err := store.GetByCode(code)
		if err != nil {
			log.WithError(err).WithField("setting_code", code).Error("failed to read system setting")
			continue
		}
		if rec != nil {
			continue
		}
		if err = store.Set(code, value); err != nil {
			log.WithError(err).WithField("setting_code", code).Error("failed to add system setting")
		}
	}
}

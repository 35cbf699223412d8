package accountquery

import (
	"strings"
	"travel-order-backend/models"
	accountapimodels "travel-order-backend/models/api/account"

	"gorm.io/gorm"
)

// ApplyFilter adds search, status and sort conditions shared by every account list.
func ApplyFilter(tx *gorm.DB, filter accountapimodels.AccountFilter) *gorm.DB {
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		tx = tx.Where("(LOWER(first_name) LIKE ? OR LOWER(middle_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(username) LIKE ? OR LOWER(email) LIKE ? OR LOWER(position) LIKE ?)",
			like, like, like, like, like, like)
	}
	switch filter.Status {
	case models.AccountActive:
		tx = tx.Where("is_active = ?", true)
	case models.AccountInactive:
		tx = tx.Where("is_active = ?", false)
	}
	return tx
}

func OrderBy(filter accountapimodels.AccountFilter) string {
	dir := "ASC"
	if strings.ToLower(filter.SortDir) == "desc" {
		dir = "DESC"
	}
	switch filter.SortBy {
	case accountapimodels.SortByCreatedAt:
		return "created_at " + dir
	case accountapimodels.SortByUsername:
		return "username " + dir
	case accountapimodels.SortByName:
		return "last_name " + dir + ", first_name " + dir
	}
	return "created_at DESC"
}

func Stats(tx *gorm.DB) (stats accountapimodels.AccountStats, err error) {
	if err = tx.Session(&gorm.Session{}).Count(&stats.Total).Error; err != nil {
		return stats, err
	}
	if err = tx.Session(&gorm.Session{}).Where("is_active = ?", true).Count(&stats.Active).Error; err != nil {
		return stats, err
	}
	stats.Inactive = stats.Total - stats.Active
	return stats, nil
}

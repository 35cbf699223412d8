package accountquery

import (
	"strings"
	accountapimodels "travel-order-backend/models/api/account"
	dbmodels "travel-order-backend/models/db"

	"gorm.io/gorm"
)

// Values maps submitted account fields to columns. The password is set by the caller once hashed.
// The active flag and its reason are left untouched when is_active is omitted.
func Values(data accountapimodels.AccountData) map[string]interface{} {
	values := map[string]interface{}{
		"username":            strings.TrimSpace(data.Username),
		"email":               strings.TrimSpace(data.Email),
		"first_name":          strings.TrimSpace(data.FirstName),
		"middle_name":         strings.TrimSpace(data.MiddleName),
		"last_name":           strings.TrimSpace(data.LastName),
		"phone":               data.Phone,
		"contact_information": data.ContactInformation,
		"position":            data.Position,
		"department":          data.Department,
	}
	if data.IsActive == nil {
		return values
	}
	values["is_active"] = *data.IsActive
	if *data.IsActive {
		values["reason_for_deactivation"] = ""
	} else {
		values["reason_for_deactivation"] = strings.TrimSpace(data.ReasonForDeactivation)
	}
	return values
}

// Fill copies submitted fields into a new account row.
func Fill(rec *dbmodels.Account, data accountapimodels.AccountData, passwordHash string) {
	rec.Username = strings.TrimSpace(data.Username)
	rec.Password = passwordHash
	rec.Email = strings.TrimSpace(data.Email)
	rec.FirstName = strings.TrimSpace(data.FirstName)
	rec.MiddleName = strings.TrimSpace(data.MiddleName)
	rec.LastName = strings.TrimSpace(data.LastName)
	rec.Phone = data.Phone
	rec.ContactInformation = data.ContactInformation
	rec.Position = data.Position
	rec.Department = data.Department
	rec.IsActive = data.GetIsActive()
	if !rec.IsActive {
		rec.ReasonForDeactivation = strings.TrimSpace(data.ReasonForDeactivation)
	}
}

// UsernameTaken checks every login table, since login resolves a username across all of them.
func UsernameTaken(tx *gorm.DB, username, exceptID string) (bool, error) {
	username = strings.TrimSpace(username)
	for _, model := range []interface{}{&dbmodels.IctAdmin{}, &dbmodels.Personnel{}, &dbmodels.Director{}} {
		var count int64
		query := tx.Model(model).Where("username = ?", username)
		if exceptID != "" {
			query = query.Where("id <> ?", exceptID)
		}
		if err := query.Count(&count).Error; err != nil {
			return false, err
		}
		if count != 0 {
			return true, nil
		}
	}
	return false, nil
}

package settingsapimodels

import (
	"strings"
	"travel-order-backend/models"
)

type Branding struct {
	LogoText string `json:"logo_text"`
	LogoURL  string `json:"logo_url,omitempty"`
}

type BrandingUpdate struct {
	LogoText   string `json:"logo_text" form:"logo_text"`
	RemoveLogo bool   `json:"remove_logo" form:"remove_logo"`
}

func (r BrandingUpdate) Validate() error {
	if strings.TrimSpace(r.LogoText) == "" {
		return models.NewFieldError("logo_text", "The logo text field is required.")
	}
	if len(r.LogoText) > 100 {
		return models.NewFieldError("logo_text", "The logo text may not be greater than 100 characters.")
	}
	return nil
}

type ChangePassword struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (r ChangePassword) Validate() error {
	verr := models.NewValidationError("The given data was invalid.")
	if r.CurrentPassword == "" {
		verr.Add("current_password", "The current password field is required.")
	}
	if len(r.NewPassword) < 8 {
		verr.Add("new_password", "The new password must be at least 8 characters.")
	}
	if verr.HasErrors() {
		return verr
	}
	return nil
}

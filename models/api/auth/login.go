package authapimodels

import (
	"strings"
	"travel-order-backend/models"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	verr := models.NewValidationError("The given data was invalid.")
	if strings.TrimSpace(r.Username) == "" {
		verr.Add("username", "The username field is required.")
	}
	if r.Password == "" {
		verr.Add("password", "The password field is required.")
	}
	if verr.HasErrors() {
		return verr
	}
	return nil
}

type LoginResponse struct {
	Token     string      `json:"token"`
	TokenType string      `json:"token_type"`
	ExpiresIn int64       `json:"expires_in"`
	Role      string      `json:"role"`
	User      interface{} `json:"user"`
}

type MeResponse struct {
	Role        string                                `json:"role"`
	User        interface{}                           `json:"user"`
	Permissions map[models.Module][]models.Permission `json:"permissions"`
}

type InactiveAccount struct {
	ReasonForDeactivation string `json:"reason_for_deactivation"`
}

package accountapimodels

import (
	"net/mail"
	"strings"
	"time"
	"travel-order-backend/models"
	apimodels "travel-order-backend/models/api"
)

// AccountData holds fields shared by personnel and directors.
type AccountData struct {
	Username              string `json:"username" form:"username"`
	Password              string `json:"password,omitempty" form:"password"`
	Email                 string `json:"email" form:"email"`
	FirstName             string `json:"first_name" form:"first_name"`
	MiddleName            string `json:"middle_name" form:"middle_name"`
	LastName              string `json:"last_name" form:"last_name"`
	Phone                 string `json:"phone" form:"phone"`
	ContactInformation    string `json:"contact_information" form:"contact_information"`
	Position              string `json:"position" form:"position"`
	Department            string `json:"department" form:"department"`
	IsActive              *bool  `json:"is_active" form:"is_active"`
	ReasonForDeactivation string `json:"reason_for_deactivation" form:"reason_for_deactivation"`
	RemoveAvatar          bool   `json:"remove_avatar" form:"remove_avatar"`
}

func (r AccountData) validate(verr *models.ValidationError, isCreate bool) {
	if strings.TrimSpace(r.Username) == "" {
		verr.Add("username", "The username field is required.")
	} else if len(r.Username) > 100 {
		verr.Add("username", "The username may not be greater than 100 characters.")
	}
	if isCreate && len(r.Password) < 8 {
		verr.Add("password", "The password must be at least 8 characters.")
	}
	if !isCreate && r.Password != "" && len(r.Password) < 8 {
		verr.Add("password", "The password must be at least 8 characters.")
	}
	if r.Email != "" {
		if _, err := mail.ParseAddress(r.Email); err != nil {
			verr.Add("email", "The email must be a valid email address.")
		}
	}
	if strings.TrimSpace(r.FirstName) == "" {
		verr.Add("first_name", "The first name field is required.")
	}
	if strings.TrimSpace(r.LastName) == "" {
		verr.Add("last_name", "The last name field is required.")
	}
	if len(r.Phone) > 20 {
		verr.Add("phone", "The phone may not be greater than 20 characters.")
	}
	if r.IsActive != nil && !*r.IsActive && strings.TrimSpace(r.ReasonForDeactivation) == "" {
		verr.Add("reason_for_deactivation", "The reason for deactivation field is required when account is inactive.")
	}
}

func (r AccountData) GetIsActive() bool {
	return r.IsActive == nil || *r.IsActive
}

type PersonnelData struct {
	AccountData
}

func (r PersonnelData) Validate(isCreate bool) error {
	verr := models.NewValidationError("The given data was invalid.")
	r.validate(verr, isCreate)
	if verr.HasErrors() {
		return verr
	}
	return nil
}

type DirectorData struct {
	AccountData
	DirectorLevel string `json:"director_level" form:"director_level"`
}

func (r DirectorData) Validate(isCreate bool) error {
	verr := models.NewValidationError("The given data was invalid.")
	r.validate(verr, isCreate)
	if len(r.DirectorLevel) > 100 {
		verr.Add("director_level", "The director level may not be greater than 100 characters.")
	}
	if verr.HasErrors() {
		return verr
	}
	return nil
}

type AccountView struct {
	ID                    string     `json:"id"`
	Username              string     `json:"username"`
	Email                 string     `json:"email"`
	FirstName             string     `json:"first_name"`
	MiddleName            string     `json:"middle_name"`
	LastName              string     `json:"last_name"`
	FullName              string     `json:"full_name"`
	Phone                 string     `json:"phone"`
	ContactInformation    string     `json:"contact_information"`
	Position              string     `json:"position"`
	Department            string     `json:"department"`
	IsActive              bool       `json:"is_active"`
	ReasonForDeactivation string     `json:"reason_for_deactivation,omitempty"`
	HasAvatar             bool       `json:"has_avatar"`
	LastLoginAt           *time.Time `json:"last_login_at,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
}

type PersonnelView struct {
	AccountView
}

type DirectorView struct {
	AccountView
	DirectorLevel string `json:"director_level"`
	HasSignature  bool   `json:"has_signature"`
}

type AdminView struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	FullName  string `json:"full_name"`
}

type SortField string

const (
	SortByName      SortField = "name"
	SortByCreatedAt SortField = "created_at"
	SortByUsername  SortField = "username"
)

type AccountFilter struct {
	apimodels.Pagination
	Search  string               `query:"search"`
	Status  models.AccountStatus `query:"status"`
	SortBy  SortField            `query:"sort_by"`
	SortDir string               `query:"sort_dir"` // asc | desc
}

func (r AccountFilter) Validate() error {
	verr := models.NewValidationError("The given data was invalid.")
	if !r.Status.IsValid() {
		verr.Add("status", "The selected status is invalid.")
	}
	switch r.SortBy {
	case "", SortByName, SortByCreatedAt, SortByUsername:
	default:
		verr.Add("sort_by", "The selected sort by is invalid.")
	}
	switch strings.ToLower(r.SortDir) {
	case "", "asc", "desc":
	default:
		verr.Add("sort_dir", "The selected sort dir is invalid.")
	}
	if verr.HasErrors() {
		return verr
	}
	return nil
}

type AccountStats struct {
	Total    int64 `json:"total"`
	Active   int64 `json:"active"`
	Inactive int64 `json:"inactive"`
}

type AccountListResponse struct {
	Items interface{}  `json:"items"`
	Stats AccountStats `json:"stats"`
}

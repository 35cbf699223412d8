package dbmodels

import (
	"strings"
	"time"
	accountapimodels "travel-order-backend/models/api/account"
	travelorderapimodels "travel-order-backend/models/api/travel-order"
)

// Account holds the columns shared by every login-capable table.
type Account struct {
	BaseModel
	Username              string `gorm:"type:varchar(100);uniqueIndex"`
	Password              string `gorm:"type:varchar(128)"`
	Email                 string `gorm:"type:varchar(255)"`
	FirstName             string `gorm:"type:varchar(150)"`
	MiddleName            string `gorm:"type:varchar(150)"`
	LastName              string `gorm:"type:varchar(150)"`
	Phone                 string `gorm:"type:varchar(20)"`
	ContactInformation    string `gorm:"type:varchar(255)"`
	Position              string `gorm:"type:varchar(255)"`
	Department            string `gorm:"type:varchar(255)"`
	AvatarPath            string `gorm:"type:varchar(255)"`
	IsActive              bool   `gorm:"index"`
	ReasonForDeactivation string `gorm:"type:text"`
	TokenVersion          int    `gorm:"not null;default:0"` // bumped by logout from all devices
	LastLoginAt           *time.Time
}

func (r Account) GetFullName() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{r.FirstName, r.MiddleName, r.LastName} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

func (r Account) toView() accountapimodels.AccountView {
	return accountapimodels.AccountView{
		ID:                    r.ID,
		Username:              r.Username,
		Email:                 r.Email,
		FirstName:             r.FirstName,
		MiddleName:            r.MiddleName,
		LastName:              r.LastName,
		FullName:              r.GetFullName(),
		Phone:                 r.Phone,
		ContactInformation:    r.ContactInformation,
		Position:              r.Position,
		Department:            r.Department,
		IsActive:              r.IsActive,
		ReasonForDeactivation: r.ReasonForDeactivation,
		HasAvatar:             r.AvatarPath != "",
		LastLoginAt:           r.LastLoginAt,
		CreatedAt:             r.CreatedAt,
	}
}

type Personnel struct {
	Account
}

func (Personnel) TableName() string {
	return "personnel"
}

func (r Personnel) ToModel() accountapimodels.PersonnelView {
	return accountapimodels.PersonnelView{AccountView: r.toView()}
}

func (r Personnel) ToShort() *travelorderapimodels.AccountShort {
	return &travelorderapimodels.AccountShort{
		ID:         r.ID,
		FullName:   r.GetFullName(),
		Position:   r.Position,
		Department: r.Department,
		Email:      r.Email,
	}
}

type Director struct {
	Account
	DirectorLevel string `gorm:"type:varchar(100)"`
	SignaturePath string `gorm:"type:varchar(255)"`
}

func (r Director) ToModel() accountapimodels.DirectorView {
	return accountapimodels.DirectorView{
		AccountView:   r.toView(),
		DirectorLevel: r.DirectorLevel,
		HasSignature:  r.SignaturePath != "",
	}
}

func (r Director) ToShort() *travelorderapimodels.AccountShort {
	return &travelorderapimodels.AccountShort{
		ID:            r.ID,
		FullName:      r.GetFullName(),
		Position:      r.Position,
		Department:    r.Department,
		DirectorLevel: r.DirectorLevel,
		HasSignature:  r.SignaturePath != "",
		Email:         r.Email,
	}
}

type IctAdmin struct {
	Account
}

func (r IctAdmin) ToModel() accountapimodels.AdminView {
	return accountapimodels.AdminView{
		ID:        r.ID,
		Username:  r.Username,
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		FullName:  r.GetFullName(),
	}
}

// RevokedToken is a logged out access token, kept until it would have expired anyway.
type RevokedToken struct {
	TokenID   string    `gorm:"type:varchar(36);primaryKey"`
	ExpiresAt time.Time `gorm:"index"`
	CreatedAt time.Time
}

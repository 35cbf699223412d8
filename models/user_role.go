package models

type UserRole string

const (
	PersonnelRole UserRole = "personnel"
	DirectorRole  UserRole = "director"
	IctAdminRole  UserRole = "ict_admin"
)

var roleHumanName = map[UserRole]string{
	PersonnelRole: "Personnel",
	DirectorRole:  "Director",
	IctAdminRole:  "ICT Administrator",
}

func (r UserRole) ToHuman() string {
	if human, exist := roleHumanName[r]; exist {
		return human
	}
	return string(r)
}

func (r UserRole) IsValid() bool {
	_, ok := roleHumanName[r]
	return ok
}

// Session is the authenticated caller, resolved once from the access token.
type Session struct {
	UserID       string
	Role         UserRole
	Name         string
	TokenVersion int
}

func (s Session) IsPersonnel() bool {
	return s.Role == PersonnelRole
}

func (s Session) IsDirector() bool {
	return s.Role == DirectorRole
}

func (s Session) IsAdmin() bool {
	return s.Role == IctAdminRole
}

type AccountStatus string

const (
	AccountActive   AccountStatus = "active"
	AccountInactive AccountStatus = "inactive"
)

func (s AccountStatus) IsValid() bool {
	return s == "" || s == AccountActive || s == AccountInactive
}

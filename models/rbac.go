package models

type RbacFunc func(userID string, role UserRole, path string) bool

type Module string

const (
	TravelOrderModule Module = "TRAVEL_ORDER"
	ApprovalModule    Module = "APPROVAL"
	PersonnelModule   Module = "PERSONNEL"
	DirectorModule    Module = "DIRECTOR"
	TimeLogModule     Module = "TIME_LOG"
	SettingsModule    Module = "SETTINGS"
	ProfileModule     Module = "PROFILE"
)

type Permission string

const (
	CreatePermission Permission = "CREATE"
	EditPermission   Permission = "EDIT"
	ViewPermission   Permission = "VIEW"
	ManagePermission Permission = "MANAGE"
	FlowPermission   Permission = "FLOW"
	ExportPermission Permission = "EXPORT"
	FilesPermission  Permission = "FILES"
)

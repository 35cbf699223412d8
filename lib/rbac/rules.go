package rbac

import "travel-order-backend/models"

var (
	PersonnelRoleSet = []models.UserRole{models.PersonnelRole}
	DirectorRoleSet  = []models.UserRole{models.DirectorRole}
	AdminRoleSet     = []models.UserRole{models.IctAdminRole}
	AllRoles         = []models.UserRole{models.PersonnelRole, models.DirectorRole, models.IctAdminRole}
)

func (i *impl) initRules() {
	i.auth()
	i.travelOrders()
	i.directorQueue()
	i.profiles()
	i.adminAccounts()
	i.adminTimeLogs()
	i.adminSettings()
}

func (i *impl) auth() {
	i.mustRegister(models.ProfileModule, models.ViewPermission, AllRoles, "/api/v1/auth/me [get]")
	i.mustRegister(models.ProfileModule, models.ViewPermission, AllRoles, "/api/v1/auth/logout [post]")
	i.mustRegister(models.ProfileModule, models.ViewPermission, AllRoles, "/api/v1/auth/logout-all [post]")
	i.mustRegister(models.ProfileModule, models.EditPermission, AllRoles, "/api/v1/settings/password [put]")
}

func (i *impl) travelOrders() {
	i.mustRegister(models.TravelOrderModule, models.ViewPermission, PersonnelRoleSet, "/api/v1/travel-orders [get]")
	i.mustRegister(models.TravelOrderModule, models.CreatePermission, PersonnelRoleSet, "/api/v1/travel-orders [post]")
	i.mustRegister(models.TravelOrderModule, models.CreatePermission, PersonnelRoleSet, "/api/v1/travel-orders/directors/available [get]")
	i.mustRegister(models.TravelOrderModule, models.ViewPermission, AllRoles, "/api/v1/travel-orders/{id} [get]")
	i.mustRegister(models.TravelOrderModule, models.EditPermission, PersonnelRoleSet, "/api/v1/travel-orders/{id} [put]")
	i.mustRegister(models.TravelOrderModule, models.EditPermission, AllRoles, "/api/v1/travel-orders/{id} [delete]")
	i.mustRegister(models.TravelOrderModule, models.FlowPermission, PersonnelRoleSet, "/api/v1/travel-orders/{id}/submit [post]")
	i.mustRegister(models.TravelOrderModule, models.FilesPermission, PersonnelRoleSet, "/api/v1/travel-orders/{id}/attachments [post]")
	i.mustRegister(models.TravelOrderModule, models.FilesPermission, AllRoles, "/api/v1/travel-orders/{id}/attachments/{attachmentId} [get]")
	i.mustRegister(models.TravelOrderModule, models.FilesPermission, PersonnelRoleSet, "/api/v1/travel-orders/{id}/attachments/{attachmentId} [delete]")
	i.mustRegister(models.TravelOrderModule, models.ExportPermission, AllRoles, "/api/v1/travel-orders/{id}/export/pdf [get]")
	i.mustRegister(models.TravelOrderModule, models.ExportPermission, AllRoles, "/api/v1/travel-orders/{id}/export/excel [get]")
}

func (i *impl) directorQueue() {
	i.mustRegister(models.ApprovalModule, models.ViewPermission, DirectorRoleSet, "/api/v1/director/travel-orders/pending [get]")
	i.mustRegister(models.ApprovalModule, models.ViewPermission, DirectorRoleSet, "/api/v1/director/travel-orders/history [get]")
	i.mustRegister(models.ApprovalModule, models.ViewPermission, DirectorRoleSet, "/api/v1/director/travel-orders/recommend-step-completed [get]")
	i.mustRegister(models.ApprovalModule, models.ViewPermission, DirectorRoleSet, "/api/v1/director/travel-orders/{id} [get]")
	i.mustRegister(models.ApprovalModule, models.FlowPermission, DirectorRoleSet, "/api/v1/director/travel-orders/{id}/action [post]")
}

func (i *impl) profiles() {
	i.mustRegister(models.ProfileModule, models.ViewPermission, PersonnelRoleSet, "/api/v1/personnel/profile [get]")
	i.mustRegister(models.ProfileModule, models.ViewPermission, DirectorRoleSet, "/api/v1/director/profile [get]")
	i.mustRegister(models.ProfileModule, models.EditPermission, DirectorRoleSet, "/api/v1/director/profile/signature [get]")
	i.mustRegister(models.ProfileModule, models.EditPermission, DirectorRoleSet, "/api/v1/director/profile/signature [put]")
	i.mustRegister(models.ProfileModule, models.EditPermission, DirectorRoleSet, "/api/v1/director/profile/signature [delete]")
}

func (i *impl) adminAccounts() {
	i.mustRegister(models.TravelOrderModule, models.ManagePermission, AdminRoleSet, "/api/v1/admin/travel-orders [get]")
	for _, prefix := range []struct {
		module models.Module
		path   string
	}{
		{models.PersonnelModule, "/api/v1/admin/personnel"},
		{models.DirectorModule, "/api/v1/admin/directors"},
	} {
		i.mustRegister(prefix.module, models.ViewPermission, AdminRoleSet, prefix.path+" [get]")
		i.mustRegister(prefix.module, models.CreatePermission, AdminRoleSet, prefix.path+" [post]")
		i.mustRegister(prefix.module, models.ViewPermission, AdminRoleSet, prefix.path+"/{id} [get]")
		i.mustRegister(prefix.module, models.EditPermission, AdminRoleSet, prefix.path+"/{id} [put]")
		i.mustRegister(prefix.module, models.EditPermission, AdminRoleSet, prefix.path+"/{id} [delete]")
		i.mustRegister(prefix.module, models.ViewPermission, AdminRoleSet, prefix.path+"/{id}/avatar [get]")
	}
	i.mustRegister(models.DirectorModule, models.ViewPermission, AdminRoleSet, "/api/v1/admin/directors/{id}/signature [get]")
}

func (i *impl) adminTimeLogs() {
	i.mustRegister(models.TimeLogModule, models.ViewPermission, AdminRoleSet, "/api/v1/admin/time-logs [get]")
	i.mustRegister(models.TimeLogModule, models.CreatePermission, AdminRoleSet, "/api/v1/admin/time-logs [post]")
	i.mustRegister(models.TimeLogModule, models.ExportPermission, AdminRoleSet, "/api/v1/admin/time-logs/export [get]")
	i.mustRegister(models.TimeLogModule, models.ViewPermission, AdminRoleSet, "/api/v1/admin/time-logs/{id} [get]")
	i.mustRegister(models.TimeLogModule, models.EditPermission, AdminRoleSet, "/api/v1/admin/time-logs/{id} [put]")
	i.mustRegister(models.TimeLogModule, models.EditPermission, AdminRoleSet, "/api/v1/admin/time-logs/{id} [delete]")
}

func (i *impl) adminSettings() {
	i.mustRegister(models.SettingsModule, models.ViewPermission, AdminRoleSet, "/api/v1/admin/settings/branding [get]")
	i.mustRegister(models.SettingsModule, models.EditPermission, AdminRoleSet, "/api/v1/admin/settings/branding [put]")
}

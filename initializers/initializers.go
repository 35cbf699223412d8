package initializers

import (
	"travel-order-backend/config"
	"travel-order-backend/fiberlog"
	"travel-order-backend/lib/access"
	approvalworkflow "travel-order-backend/lib/approval-workflow"
	authhandler "travel-order-backend/lib/auth"
	directorhandler "travel-order-backend/lib/director"
	"travel-order-backend/lib/export"
	xlsexport "travel-order-backend/lib/export/xls"
	"travel-order-backend/lib/notify"
	personnelhandler "travel-order-backend/lib/personnel"
	"travel-order-backend/lib/rbac"
	settingshandler "travel-order-backend/lib/settings"
	timeloghandler "travel-order-backend/lib/time-log"
	travelorderhandler "travel-order-backend/lib/travel-order"
)

var LoggerConfig *fiberlog.Config

func InitAllServices() {
	config.InitConfig()
	LoggerConfig = InitLogger()
	InitDBConnection()
	InitS3()
	InitSmtp()
	rbac.NewHandler()
	access.NewHandler()
	xlsexport.NewHandler()
	export.NewHandler()
	notify.NewHandler()
	approvalworkflow.NewHandler()
	travelorderhandler.NewHandler()
	personnelhandler.NewHandler()
	directorhandler.NewHandler()
	timeloghandler.NewHandler()
	settingshandler.NewHandler()
	authhandler.NewHandler()
}

package initializers

import (
	"context"

	"miniflow-backend/config"
	"miniflow-backend/fiberlog"
	approvalrequesthandler "miniflow-backend/lib/approval-request"
	approvalstephandler "miniflow-backend/lib/approval-step"
	attachmenthandler "miniflow-backend/lib/attachment"
	audithandler "miniflow-backend/lib/audit"
	authhandler "miniflow-backend/lib/auth"
	departmenthandler "miniflow-backend/lib/dicts/department"
	xlsexport "miniflow-backend/lib/export/xls"
	"miniflow-backend/lib/notification"
	templatehandler "miniflow-backend/lib/template"
	usershandler "miniflow-backend/lib/users"
)

var LoggerConfig *fiberlog.Config

func InitAllServices(ctx context.Context) {
	LoggerConfig = InitLogger()
	config.InitConfig()
	InitDBConnection()
	InitS3(ctx)
	InitSmtp()
	notification.StartDispatcher(ctx)
	audithandler.NewHandler()
	authhandler.NewHandler()
	usershandler.NewHandler()
	departmenthandler.NewHandler()
	templatehandler.NewHandler()
	xlsexport.NewHandler()
	approvalrequesthandler.NewHandler()
	approvalstephandler.NewHandler()
	attachmenthandler.NewHandler()
}

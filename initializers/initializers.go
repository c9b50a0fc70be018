package initializers

import (
	"context"

	"cpm-backend/config"
	"cpm-backend/fiberlog"
	activitylog "cpm-backend/lib/activity-log"
	approvalhandler "cpm-backend/lib/approval"
	documenthandler "cpm-backend/lib/document"
	xlsexport "cpm-backend/lib/export/xls"
	filestorage "cpm-backend/lib/file-storage"
	issuehandler "cpm-backend/lib/issue"
	overdueworker "cpm-backend/lib/issue/overdue-worker"
	projecthandler "cpm-backend/lib/project"
	"cpm-backend/lib/rbac"
	connectionhub "cpm-backend/lib/ws/hub/connection-hub"
)

var LoggerConfig *fiberlog.Config

func InitAllServices(ctx context.Context) {
	LoggerConfig = InitLogger()
	config.InitConfig()
	InitDBConnection()
	InitS3()
	InitSmtp()
	connectionhub.Init()
	rbac.NewHandler()
	filestorage.NewHandler()
	activitylog.NewHandler()
	projecthandler.NewHandler()
	approvalhandler.NewHandler()
	documenthandler.NewHandler()
	issuehandler.NewHandler()
	xlsexport.NewHandler()
	go initWorkers(ctx)
}

func initWorkers(ctx context.Context) {
	if config.Conf.Worker.OverdueDigestEnabled != nil && *config.Conf.Worker.OverdueDigestEnabled {
		overdueworker.Start(ctx)
	}
}

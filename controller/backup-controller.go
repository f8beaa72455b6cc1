package controller

import (
	"errors"

	"inc/app_error"
	"inc/auth"
	"inc/service"

	"github.com/gin-gonic/gin"
)

type BackupController struct {
	backupService *service.BackupService
}

func setupBackupController(deps *Dependencies) []RouteInfo {
	e := &BackupController{backupService: deps.Backup}
	return []RouteInfo{
		{Method: "GET", Path: "/backup/tickets", HandlerFunc: e.backupHandler(), Authenticated: true, RoleRequired: []string{auth.RoleWebMaster}},
	}
}

// @Description Copies tickets changed since the last run to the backup database
// @Tags backup
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} service.BackupResult
// @Router /backup/tickets [get]
func (e *BackupController) backupHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if e.backupService == nil {
			app_error.Respond(c, app_error.DependencyFailure(errors.New("backup database is not configured")))
			return
		}
		result, err := e.backupService.Run(c.Request.Context())
		if err != nil {
			app_error.Respond(c, err)
			return
		}
		c.JSON(200, result)
	}
}

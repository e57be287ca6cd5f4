package handler

import (
	"github.com/go-orz/orz"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/dushixiang/mastiff/internal/service"
)

// BackupHandler 备份状态接口
type BackupHandler struct {
	logger        *zap.Logger
	backupService *service.BackupService
}

func NewBackupHandler(logger *zap.Logger, backupService *service.BackupService) *BackupHandler {
	return &BackupHandler{
		logger:        logger,
		backupService: backupService,
	}
}

// Status 查询最近一次备份的状态
func (h *BackupHandler) Status(c echo.Context) error {
	ctx := c.Request().Context()
	return orz.Ok(c, h.backupService.Status(ctx))
}

package handler

import (
	"errors"

	"github.com/go-orz/orz"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/dushixiang/mastiff/internal/service"
)

// StatusHandler 安全监控数据接口。
// 解析层保证"永不失败",所以这里基本不产生 500:
// 降级信息都在响应的诊断字段里。

type StatusHandler struct {
	logger        *zap.Logger
	statusService *service.StatusService
}

func NewStatusHandler(logger *zap.Logger, statusService *service.StatusService) *StatusHandler {
	return &StatusHandler{
		logger:        logger,
		statusService: statusService,
	}
}

// Overview 总览
func (h *StatusHandler) Overview(c echo.Context) error {
	ctx := c.Request().Context()
	return orz.Ok(c, h.statusService.Overview(ctx))
}

// Jails jail 列表
func (h *StatusHandler) Jails(c echo.Context) error {
	ctx := c.Request().Context()
	return orz.Ok(c, h.statusService.Jails(ctx))
}

// Jail 单个 jail 详情
func (h *StatusHandler) Jail(c echo.Context) error {
	name := c.Param("name")
	if name == "" {
		return orz.NewError(400, "jail 名称不能为空")
	}

	ctx := c.Request().Context()
	jail, err := h.statusService.Jail(ctx, name)
	if err != nil {
		if errors.Is(err, service.ErrJailNotFound) {
			return orz.NewError(404, "jail 不存在: "+name)
		}
		return err
	}
	return orz.Ok(c, jail)
}

// Nginx nginx 攻击统计
func (h *StatusHandler) Nginx(c echo.Context) error {
	ctx := c.Request().Context()
	return orz.Ok(c, h.statusService.Nginx(ctx))
}

// System 系统信息
func (h *StatusHandler) System(c echo.Context) error {
	ctx := c.Request().Context()
	return orz.Ok(c, h.statusService.System(ctx))
}

package internal

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-orz/orz"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/dushixiang/mastiff/internal/config"
	"github.com/dushixiang/mastiff/internal/logging"
)

// Run 加载配置并启动服务,阻塞到收到退出信号
func Run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := logging.NewLogger(cfg.Log)
	defer func() { _ = logger.Sync() }()

	components, err := InitializeApp(logger, cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 配置热更新:脚本白名单变更无需重启
	watcher := config.NewWatcher(logger, configPath, func(next *config.Config) {
		components.Executor.UpdateAllow(next.Scripts.Allow)
	})
	go watcher.Run(ctx)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(ErrorHandler(logger))

	setupApi(e, components)

	go func() {
		logger.Info("服务启动", zap.String("addr", cfg.Server.Addr))
		if err := e.Start(cfg.Server.Addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("服务启动失败", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("收到退出信号,正在关闭")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	return e.Shutdown(shutdownCtx)
}

// setupApi 注册路由。认证、CORS、限流由前置的反向代理负责,
// 本服务只对内网暴露数据接口。
func setupApi(e *echo.Echo, components *AppComponents) {
	api := e.Group("/api")
	{
		api.GET("/overview", components.StatusHandler.Overview)
		api.GET("/jails", components.StatusHandler.Jails)
		api.GET("/jails/:name", components.StatusHandler.Jail)
		api.GET("/nginx", components.StatusHandler.Nginx)
		api.GET("/system", components.StatusHandler.System)
		api.GET("/backup", components.BackupHandler.Status)
	}
}

// ErrorHandler 统一错误处理:业务错误转 JSON,其余记日志回 500
func ErrorHandler(logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err == nil {
				return nil
			}

			if orzErr, ok := err.(*orz.Error); ok {
				return c.JSON(int(orzErr.Code), orz.Map{
					"code":    orzErr.Code,
					"message": orzErr.Message,
				})
			}
			if httpErr, ok := err.(*echo.HTTPError); ok {
				return c.JSON(httpErr.Code, orz.Map{
					"code":    httpErr.Code,
					"message": httpErr.Message,
				})
			}

			logger.Error("请求处理失败",
				zap.String("path", c.Request().URL.Path),
				zap.Error(err))
			return c.JSON(http.StatusInternalServerError, orz.Map{
				"code":    http.StatusInternalServerError,
				"message": "内部错误",
			})
		}
	}
}

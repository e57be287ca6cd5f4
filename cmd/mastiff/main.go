package main

import (
	"fmt"
	"log"
	"os"
	"runtime"

	"github.com/kardianos/service"
	"github.com/spf13/cobra"

	"github.com/dushixiang/mastiff/internal"
	"github.com/dushixiang/mastiff/internal/config"
)

// Version 构建时注入
var Version = "dev"

var configPath string

// rootCmd 根命令
var rootCmd = &cobra.Command{
	Use:   "mastiff",
	Short: "Mastiff 安全监控服务",
	Long:  `Mastiff 是一个安全监控数据服务,读取 fail2ban 状态、nginx 攻击统计、系统健康和备份结果,以稳定的 JSON 接口对外提供。`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// versionCmd 版本命令
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "显示版本信息",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Mastiff v%s\n", Version)
		fmt.Printf("OS: %s\n", runtime.GOOS)
		fmt.Printf("Arch: %s\n", runtime.GOARCH)
		fmt.Printf("Go Version: %s\n", runtime.Version())
	},
}

// runCmd 运行命令
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "运行服务",
	Long:  `在前台启动服务,开始对外提供监控数据接口`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := internal.Run(configPath); err != nil {
			log.Fatalf("❌ 运行失败: %v", err)
		}
	},
}

// installCmd 安装服务命令
var installCmd = &cobra.Command{
	Use:   "install",
	Short: "安装为系统服务",
	Long:  `将 Mastiff 安装为系统服务(systemd),开机自动启动`,
	Run: func(cmd *cobra.Command, args []string) {
		mgr, err := newServiceManager()
		if err != nil {
			log.Fatalf("❌ 创建服务管理器失败: %v", err)
		}
		if err := mgr.Install(); err != nil {
			log.Fatalf("❌ 安装服务失败: %v", err)
		}
		log.Println("✅ 服务安装成功")
		log.Println("   使用 'mastiff start' 启动服务")
	},
}

// uninstallCmd 卸载服务命令
var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "卸载系统服务",
	Run: func(cmd *cobra.Command, args []string) {
		mgr, err := newServiceManager()
		if err != nil {
			log.Fatalf("❌ 创建服务管理器失败: %v", err)
		}
		if err := mgr.Uninstall(); err != nil {
			log.Fatalf("❌ 卸载失败: %v", err)
		}
		log.Println("✅ 服务卸载成功")
	},
}

// startCmd 启动服务命令
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "启动服务",
	Run: func(cmd *cobra.Command, args []string) {
		mgr, err := newServiceManager()
		if err != nil {
			log.Fatalf("❌ 创建服务管理器失败: %v", err)
		}
		if err := mgr.Start(); err != nil {
			log.Fatalf("❌ 启动服务失败: %v", err)
		}
		log.Println("✅ 服务启动成功")
	},
}

// stopCmd 停止服务命令
var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "停止服务",
	Run: func(cmd *cobra.Command, args []string) {
		mgr, err := newServiceManager()
		if err != nil {
			log.Fatalf("❌ 创建服务管理器失败: %v", err)
		}
		if err := mgr.Stop(); err != nil {
			log.Fatalf("❌ 停止服务失败: %v", err)
		}
		log.Println("✅ 服务停止成功")
	},
}

// statusCmd 查看服务状态命令
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "查看服务状态",
	Run: func(cmd *cobra.Command, args []string) {
		mgr, err := newServiceManager()
		if err != nil {
			log.Fatalf("❌ 创建服务管理器失败: %v", err)
		}
		status, err := mgr.Status()
		if err != nil {
			log.Printf("⚠️  获取服务状态失败: %v", err)
			return
		}
		switch status {
		case service.StatusRunning:
			fmt.Println("运行中")
		case service.StatusStopped:
			fmt.Println("已停止")
		default:
			fmt.Println("未知")
		}
	},
}

// configCmd 配置命令
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "配置管理",
}

// configInitCmd 初始化配置命令
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "初始化配置文件",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.DefaultConfig()
		if err := cfg.Save(configPath); err != nil {
			log.Fatalf("❌ 保存配置文件失败: %v", err)
		}
		log.Printf("✅ 配置文件已创建: %s", configPath)
		log.Println("   请编辑配置文件,设置脚本目录和白名单")
	},
}

// configShowCmd 显示配置命令
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "显示配置文件路径",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("配置文件路径: %s\n", configPath)
	},
}

// program kardianos service 适配
type program struct{}

func (p *program) Start(s service.Service) error {
	go func() {
		if err := internal.Run(configPath); err != nil {
			log.Printf("服务退出: %v", err)
		}
	}()
	return nil
}

func (p *program) Stop(s service.Service) error {
	return nil
}

// newServiceManager 创建系统服务管理器
func newServiceManager() (service.Service, error) {
	svcConfig := &service.Config{
		Name:        "mastiff",
		DisplayName: "Mastiff Security Monitor",
		Description: "fail2ban / nginx 安全监控数据服务",
		Arguments:   []string{"run", "-c", configPath},
	}
	return service.New(&program{}, svcConfig)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.GetDefaultConfigPath(), "配置文件路径")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(uninstallCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(statusCmd)

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

package collector

import (
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"

	"github.com/dushixiang/mastiff/internal/parser"
)

// 本地系统信息采集器。
// 没有配置 system-info 脚本时的兜底数据源,输出和脚本解析结果
// 同构(人类可读字符串),走同一条归一化链路。

// LocalSystemCollector 本地系统信息采集器
type LocalSystemCollector struct{}

// NewLocalSystemCollector 创建采集器
func NewLocalSystemCollector() *LocalSystemCollector {
	return &LocalSystemCollector{}
}

// Collect 采集主机名/运行时间/内存/磁盘/负载
func (c *LocalSystemCollector) Collect() parser.Result[parser.SystemInfo] {
	result := parser.NewResult(parser.SystemInfo{})

	if info, err := host.Info(); err == nil {
		hostname := info.Hostname
		uptime := formatUptime(info.Uptime)
		result.Data.Hostname = &hostname
		result.Data.Uptime = &uptime
	} else {
		result.AddError(fmt.Sprintf("采集主机信息失败: %v", err))
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		memory := fmt.Sprintf("%s/%s (%.0f%%)", formatBytes(vm.Used), formatBytes(vm.Total), vm.UsedPercent)
		result.Data.Memory = &memory
	} else {
		result.AddError(fmt.Sprintf("采集内存信息失败: %v", err))
	}

	if usage, err := disk.Usage("/"); err == nil {
		diskInfo := fmt.Sprintf("%s/%s (%.0f%%)", formatBytes(usage.Used), formatBytes(usage.Total), usage.UsedPercent)
		result.Data.Disk = &diskInfo
	} else {
		result.AddError(fmt.Sprintf("采集磁盘信息失败: %v", err))
	}

	if avg, err := load.Avg(); err == nil {
		loadStr := fmt.Sprintf("%.2f %.2f %.2f", avg.Load1, avg.Load5, avg.Load15)
		result.Data.Load = &loadStr
	} else {
		result.AddError(fmt.Sprintf("采集系统负载失败: %v", err))
	}

	return result
}

// formatUptime 秒数转人类可读的运行时长
func formatUptime(seconds uint64) string {
	d := time.Duration(seconds) * time.Second
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	}
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

// formatBytes 字节数转二进制单位字符串
func formatBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%dB", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f%ciB", float64(b)/float64(div), "KMGT"[exp])
}

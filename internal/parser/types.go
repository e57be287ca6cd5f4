package parser

// 各解析器的内部记录类型。
// 这些结构是请求作用域的中间产物,经 schema 包归一化后才对外暴露,
// 字段可空(指针)表示"报告里没找到",由归一化层统一补成 null/默认值。

// GlobalStatus fail2ban 全局状态
type GlobalStatus struct {
	Status string   `json:"status"`
	Jails  []string `json:"jails"`
}

// JailDetail 单个 Jail 的详情
type JailDetail struct {
	Name        string   `json:"name"`
	Enabled     bool     `json:"enabled"`
	Filter      *string  `json:"filter"`
	MaxRetry    *int     `json:"maxRetry"`
	BanTime     *int64   `json:"banTime"`  // 秒
	FindTime    *int64   `json:"findTime"` // 秒
	BannedCount *int     `json:"bannedCount"`
	TotalBanned *int     `json:"totalBanned"`
	BannedIPs   []string `json:"bannedIPs"`
}

// Fail2banSummary 监控报告里的 fail2ban 概览
type Fail2banSummary struct {
	Status      string   `json:"status"`
	Jails       []string `json:"jails"`
	TotalBanned int      `json:"totalBanned"`
}

// JailBans 监控报告里单个 Jail 的封禁列表
type JailBans struct {
	Name        string   `json:"name"`
	BannedCount int      `json:"bannedCount"`
	BannedIPs   []string `json:"bannedIPs"`
}

// NginxStats nginx 攻击统计
type NginxStats struct {
	TotalRequests      int     `json:"totalRequests"`
	TopIPs             []IPHit `json:"topIPs"`
	HiddenFilesAttacks int     `json:"hiddenFilesAttacks"`
	WebdavAttacks      int     `json:"webdavAttacks"`
	AdminScans         int     `json:"adminScans"`
	Errors404          int     `json:"errors404"`
	RobotsScans        int     `json:"robotsScans"`
}

// IPHit 单个来源 IP 的请求计数
type IPHit struct {
	IP    string `json:"ip"`
	Count int    `json:"count"`
}

// SystemInfo 系统信息,全部保留脚本输出的原始字符串
type SystemInfo struct {
	Hostname *string `json:"hostname"`
	Uptime   *string `json:"uptime"`
	Memory   *string `json:"memory"`
	Disk     *string `json:"disk"`
	Load     *string `json:"load"`
}

// MonitorReport 综合监控报告
type MonitorReport struct {
	Fail2ban  Fail2banSummary `json:"fail2ban"`
	Jails     []JailBans      `json:"jails"`
	Nginx     NginxStats      `json:"nginx"`
	System    SystemInfo      `json:"system"`
	Timestamp string          `json:"timestamp"`
	Hostname  string          `json:"hostname"`
}

// QuickCheck 快速巡检摘要
type QuickCheck struct {
	Jails       []string `json:"jails"`
	ActiveJails int      `json:"activeJails"`
	TotalBanned int      `json:"totalBanned"`
}

// BackupResult 备份执行结果
type BackupResult struct {
	Success       bool   `json:"success"`
	Filename      string `json:"filename"`
	Path          string `json:"path"`
	Size          *int64 `json:"size"` // 字节
	SizeFormatted string `json:"sizeFormatted"`
	Timestamp     string `json:"timestamp"`
}

package schema

// 对外响应类型。字段契约:
//   - 文档化字段永远出现,未知的可选值序列化为 null,绝不省略;
//   - 集合字段缺省为空数组,绝不为 null;
//   - 后端诊断字段统一使用 "_" 前缀,外部消费者可以安全忽略。

// 内部 serverStatus 的细粒度取值
const (
	ServerStatusOnline  = "online"
	ServerStatusPartial = "partial"
	ServerStatusOffline = "offline"
	ServerStatusError   = "error"
)

// Diagnostics 后端诊断字段,挂在所有响应上
type Diagnostics struct {
	Errors       []string `json:"_errors,omitempty"`
	Partial      bool     `json:"_partial,omitempty"`
	ServerStatus string   `json:"_serverStatus,omitempty"`
}

// ActiveBans 当前生效的封禁(运行时状态)
type ActiveBans struct {
	Count int      `json:"count"`
	IPs   []string `json:"ips"`
}

// HistoricalBans 累计封禁(历史计数),与"当前"分开,避免混淆 now 和 ever
type HistoricalBans struct {
	Total int `json:"total"`
}

// NormalizedJail 对外的 Jail 实体。
// 封禁计数同时以结构化(active_bans/historical_bans)和扁平旧字段
// (currently_banned/banned_ips/total_banned/banned_count)两种形式暴露,
// 全部派生自同一条优先级链,因此不可能相互矛盾。
type NormalizedJail struct {
	Name     string  `json:"name"`
	Category *string `json:"category"`
	Filter   *string `json:"filter"`
	MaxRetry *int    `json:"max_retry"`
	BanTime  *int64  `json:"ban_time"`
	Enabled  bool    `json:"enabled"`

	ActiveBans     ActiveBans     `json:"active_bans"`
	HistoricalBans HistoricalBans `json:"historical_bans"`

	// 旧版扁平别名,与结构化字段永远一致
	CurrentlyBanned int      `json:"currently_banned"`
	BannedCount     int      `json:"banned_count"`
	BannedIPs       []string `json:"banned_ips"`
	TotalBanned     int      `json:"total_banned"`
}

// JailSource 归一化 Jail 的输入:各解析器产出的松散字段集合。
// 计数字段全部可空,由优先级链裁决。
type JailSource struct {
	Name     string
	Category *string
	Filter   *string
	MaxRetry *int
	BanTime  *int64
	Enabled  bool

	CurrentlyBanned   *int
	BansActive        *int
	BannedCount       *int
	LegacyBannedCount *int
	BannedIPs         []string
	TotalBanned       *int
}

// ServerSummary Overview 里的主机信息
type ServerSummary struct {
	Hostname *string `json:"hostname"`
	Uptime   *string `json:"uptime"`
}

// BanSummary Overview 里的封禁汇总
type BanSummary struct {
	ActiveJails    int `json:"active_jails"`
	TotalBannedIPs int `json:"total_banned_ips"`
}

// NginxCounters nginx 攻击计数,字段名是对外契约的一部分
type NginxCounters struct {
	Count404           int `json:"404_count"`
	AdminScans         int `json:"admin_scans"`
	WebdavAttacks      int `json:"webdav_attacks"`
	HiddenFileAttempts int `json:"hidden_files_attempts"`
}

// SystemSummary Overview 里的系统信息
type SystemSummary struct {
	Memory *string `json:"memory"`
	Disk   *string `json:"disk"`
	Load   *string `json:"load"`
}

// Overview 总览响应
type Overview struct {
	Timestamp string           `json:"timestamp"`
	Server    ServerSummary    `json:"server"`
	Summary   BanSummary       `json:"summary"`
	Jails     []NormalizedJail `json:"jails"`
	Nginx     NginxCounters    `json:"nginx"`
	System    SystemSummary    `json:"system"`
	Diagnostics
}

// JailsResponse Jail 列表响应。ServerStatus 是对外的二值状态,
// 内部的 partial/error 细节只能从诊断字段读取。
type JailsResponse struct {
	Jails        []NormalizedJail `json:"jails"`
	LastUpdated  string           `json:"lastUpdated"`
	ServerStatus string           `json:"serverStatus"`
	Diagnostics
}

// JailResponse 单个 Jail 响应,附带派生的诊断字段
type JailResponse struct {
	NormalizedJail
	Severity     *string `json:"_severity,omitempty"`
	FindTime     *int64  `json:"_findTime,omitempty"`
	LastActivity *string `json:"_lastActivity,omitempty"`
	Diagnostics
}

// NginxResponse nginx 统计响应
type NginxResponse struct {
	NginxCounters
	Diagnostics
}

// SystemResponse 系统信息响应
type SystemResponse struct {
	Hostname *string `json:"hostname"`
	Uptime   *string `json:"uptime"`
	Memory   *string `json:"memory"`
	Disk     *string `json:"disk"`
	Load     *string `json:"load"`
	Diagnostics
}

// BackupResponse 备份状态响应
type BackupResponse struct {
	Success       bool   `json:"success"`
	Filename      string `json:"filename"`
	Path          string `json:"path"`
	Size          *int64 `json:"size"`
	SizeFormatted string `json:"sizeFormatted"`
	Timestamp     string `json:"timestamp"`
	Diagnostics
}

package schema

import (
	"strings"
	"time"

	"github.com/dushixiang/mastiff/internal/parser"
)

// 归一化层:把解析器产出的松散内部记录映射为对外文档化的响应形状。
// 每个映射函数都是纯函数,保证字段齐全、类型正确、集合非 null。
// 这里的缺陷属于程序 bug,应当修复而不是在运行时兜底。

// CoarsenServerStatus 内部四态压缩为对外二值状态。
// partial 和 error 一律归为 offline,这是有意的有损简化;
// 需要细节的调用方应读取诊断字段。
func CoarsenServerStatus(internal string) string {
	if internal == ServerStatusOnline {
		return ServerStatusOnline
	}
	return ServerStatusOffline
}

// resolveBanCount 封禁计数优先级链,固定顺序,首个已定义且非零的值生效:
// currently_banned → bans_active → banned_count → 旧版 bannedCount →
// 封禁 IP 列表长度 → 0。
func resolveBanCount(src JailSource) int {
	for _, candidate := range []*int{src.CurrentlyBanned, src.BansActive, src.BannedCount, src.LegacyBannedCount} {
		if candidate != nil && *candidate != 0 {
			return *candidate
		}
	}
	return len(src.BannedIPs)
}

// deriveCategory 从 jail 名推断类别,未知返回 nil
func deriveCategory(name string) *string {
	lower := strings.ToLower(name)
	var category string
	switch {
	case strings.HasPrefix(lower, "nginx"):
		category = "nginx"
	case strings.HasPrefix(lower, "ssh"):
		category = "ssh"
	case strings.Contains(lower, "-"):
		category = lower[:strings.Index(lower, "-")]
	default:
		return nil
	}
	return &category
}

// NormalizeJail 归一化单个 Jail。
// 同一条优先级链的结果同时写入结构化字段和旧版扁平字段,两者不可能分叉。
func NormalizeJail(src JailSource) NormalizedJail {
	count := resolveBanCount(src)

	ips := src.BannedIPs
	if ips == nil {
		ips = []string{}
	}

	total := count
	if src.TotalBanned != nil {
		total = *src.TotalBanned
	}

	category := src.Category
	if category == nil {
		category = deriveCategory(src.Name)
	}

	return NormalizedJail{
		Name:     src.Name,
		Category: category,
		Filter:   src.Filter,
		MaxRetry: src.MaxRetry,
		BanTime:  src.BanTime,
		Enabled:  src.Enabled,

		ActiveBans:     ActiveBans{Count: count, IPs: ips},
		HistoricalBans: HistoricalBans{Total: total},

		CurrentlyBanned: count,
		BannedCount:     count,
		BannedIPs:       ips,
		TotalBanned:     total,
	}
}

// Source 把已归一化的 Jail 还原为归一化输入。
// NormalizeJail(j.Source()) 与 j 逐字节一致(归一化幂等)。
func (j NormalizedJail) Source() JailSource {
	count := j.CurrentlyBanned
	total := j.TotalBanned
	return JailSource{
		Name:            j.Name,
		Category:        j.Category,
		Filter:          j.Filter,
		MaxRetry:        j.MaxRetry,
		BanTime:         j.BanTime,
		Enabled:         j.Enabled,
		CurrentlyBanned: &count,
		BannedIPs:       j.BannedIPs,
		TotalBanned:     &total,
	}
}

// JailFromDetail fail2ban-client 单 Jail 详情 → 归一化输入
func JailFromDetail(d parser.JailDetail) JailSource {
	return JailSource{
		Name:            d.Name,
		Filter:          d.Filter,
		MaxRetry:        d.MaxRetry,
		BanTime:         d.BanTime,
		Enabled:         d.Enabled,
		CurrentlyBanned: d.BannedCount,
		BannedIPs:       d.BannedIPs,
		TotalBanned:     d.TotalBanned,
	}
}

// JailFromBans 监控报告里的封禁列表 → 归一化输入
func JailFromBans(b parser.JailBans) JailSource {
	count := b.BannedCount
	return JailSource{
		Name:        b.Name,
		Enabled:     true,
		BannedCount: &count,
		BannedIPs:   b.BannedIPs,
	}
}

// NormalizeNginx 内部 nginx 统计 → 对外计数
func NormalizeNginx(n parser.NginxStats) NginxCounters {
	return NginxCounters{
		Count404:           n.Errors404,
		AdminScans:         n.AdminScans,
		WebdavAttacks:      n.WebdavAttacks,
		HiddenFileAttempts: n.HiddenFilesAttacks,
	}
}

// diagnostics 解析诊断 → 响应诊断字段
func diagnostics(errs []string, partial bool, serverStatus string) Diagnostics {
	d := Diagnostics{Partial: partial, ServerStatus: serverStatus}
	if len(errs) > 0 {
		d.Errors = errs
	}
	return d
}

// BuildOverview 综合监控报告 → 总览响应
func BuildOverview(report parser.Result[parser.MonitorReport], internalStatus string) Overview {
	data := report.Data

	jails := make([]NormalizedJail, 0, len(data.Jails))
	for _, j := range data.Jails {
		jails = append(jails, NormalizeJail(JailFromBans(j)))
	}

	timestamp := data.Timestamp
	if timestamp == "" {
		timestamp = time.Now().UTC().Format(time.RFC3339)
	}

	var hostname *string
	if data.System.Hostname != nil {
		hostname = data.System.Hostname
	} else if data.Hostname != "" {
		h := data.Hostname
		hostname = &h
	}

	return Overview{
		Timestamp: timestamp,
		Server:    ServerSummary{Hostname: hostname, Uptime: data.System.Uptime},
		Summary: BanSummary{
			ActiveJails:    len(data.Fail2ban.Jails),
			TotalBannedIPs: data.Fail2ban.TotalBanned,
		},
		Jails: jails,
		Nginx: NormalizeNginx(data.Nginx),
		System: SystemSummary{
			Memory: data.System.Memory,
			Disk:   data.System.Disk,
			Load:   data.System.Load,
		},
		Diagnostics: diagnostics(report.Errors, report.Partial, internalStatus),
	}
}

// BuildJailsResponse 归一化 Jail 列表 → 列表响应
func BuildJailsResponse(jails []NormalizedJail, errs []string, partial bool, internalStatus string) JailsResponse {
	if jails == nil {
		jails = []NormalizedJail{}
	}
	return JailsResponse{
		Jails:        jails,
		LastUpdated:  time.Now().UTC().Format(time.RFC3339),
		ServerStatus: CoarsenServerStatus(internalStatus),
		Diagnostics:  diagnostics(errs, partial, internalStatus),
	}
}

// deriveSeverity 按当前封禁数粗分严重程度
func deriveSeverity(count int) *string {
	var severity string
	switch {
	case count >= 20:
		severity = "high"
	case count >= 5:
		severity = "medium"
	case count > 0:
		severity = "low"
	default:
		severity = "none"
	}
	return &severity
}

// BuildJailResponse 单 Jail 详情 → 单 Jail 响应
func BuildJailResponse(detail parser.Result[parser.JailDetail], internalStatus string) JailResponse {
	jail := NormalizeJail(JailFromDetail(detail.Data))
	return JailResponse{
		NormalizedJail: jail,
		Severity:       deriveSeverity(jail.CurrentlyBanned),
		FindTime:       detail.Data.FindTime,
		Diagnostics:    diagnostics(detail.Errors, detail.Partial, internalStatus),
	}
}

// BuildNginxResponse nginx 统计 → 响应
func BuildNginxResponse(report parser.Result[parser.MonitorReport], internalStatus string) NginxResponse {
	return NginxResponse{
		NginxCounters: NormalizeNginx(report.Data.Nginx),
		Diagnostics:   diagnostics(report.Errors, report.Partial, internalStatus),
	}
}

// BuildSystemResponse 系统信息 → 响应
func BuildSystemResponse(info parser.Result[parser.SystemInfo], internalStatus string) SystemResponse {
	return SystemResponse{
		Hostname:    info.Data.Hostname,
		Uptime:      info.Data.Uptime,
		Memory:      info.Data.Memory,
		Disk:        info.Data.Disk,
		Load:        info.Data.Load,
		Diagnostics: diagnostics(info.Errors, info.Partial, internalStatus),
	}
}

// BuildBackupResponse 备份结果 → 响应
func BuildBackupResponse(backup parser.Result[parser.BackupResult], internalStatus string) BackupResponse {
	return BackupResponse{
		Success:       backup.Data.Success,
		Filename:      backup.Data.Filename,
		Path:          backup.Data.Path,
		Size:          backup.Data.Size,
		SizeFormatted: backup.Data.SizeFormatted,
		Timestamp:     backup.Data.Timestamp,
		Diagnostics:   diagnostics(backup.Errors, backup.Partial, internalStatus),
	}
}

package parser

import (
	"regexp"
	"strings"
	"time"
)

// 综合监控报告解析器。
// 报告由运维脚本生成,中英文混排、带 emoji 标题,形如:
//
//	📊 Fail2ban 状态 (Fail2ban Status)
//	Status: active
//	`- Jail list:	nginx-404, sshd
//	当前封禁总数 (Total banned): 5
//
//	🚫 封禁 IP 列表 (Banned IPs)
//	nginx-404 (3 banned):
//	  1.2.3.4
//
//	🌐 Nginx 攻击统计 (Nginx Attacks)
//	...
//
//	💻 系统状态 (System Status)
//	...
//
// 解析是一次前向扫描,唯一的状态变量是 currentSection。
// 状态只由章节标题行驱动,绝不依赖行号偏移;进入某个章节后
// 一直保持,直到遇到下一个可识别的标题(单向吸收,不会回到 NONE)。

type sectionState int

const (
	sectionNone sectionState = iota
	sectionFail2ban
	sectionBannedIPs
	sectionNginx
	sectionSystem
)

func (s sectionState) String() string {
	switch s {
	case sectionFail2ban:
		return "FAIL2BAN"
	case sectionBannedIPs:
		return "BANNED_IPS"
	case sectionNginx:
		return "NGINX"
	case sectionSystem:
		return "SYSTEM"
	default:
		return "NONE"
	}
}

// 章节标题特征,双语。顺序无关紧要,一行最多命中一个章节。
var sectionHeaders = []struct {
	state   sectionState
	needles []string
}{
	{sectionFail2ban, []string{"fail2ban 状态", "fail2ban status"}},
	{sectionBannedIPs, []string{"封禁 ip", "banned ip"}},
	{sectionNginx, []string{"nginx 攻击", "nginx attack"}},
	{sectionSystem, []string{"系统状态", "system status"}},
}

// detectSectionHeader 判断一行是否为章节标题
func detectSectionHeader(line string) (sectionState, bool) {
	lower := strings.ToLower(line)
	for _, h := range sectionHeaders {
		for _, needle := range h.needles {
			if strings.Contains(lower, needle) {
				return h.state, true
			}
		}
	}
	return sectionNone, false
}

// nginx 数值指标的锚点表,按序尝试,首个可解析的锚点生效。
// 数值一律经 FindValueAfterAnchor 解析,不使用固定行偏移。
var nginxMetricAnchors = []struct {
	anchors []string
	assign  func(*NginxStats, int)
}{
	{[]string{"总请求", "total requests"}, func(n *NginxStats, v int) { n.TotalRequests = v }},
	{[]string{"隐藏文件", "hidden file"}, func(n *NginxStats, v int) { n.HiddenFilesAttacks = v }},
	{[]string{"webdav"}, func(n *NginxStats, v int) { n.WebdavAttacks = v }},
	{[]string{"管理后台", "admin scan"}, func(n *NginxStats, v int) { n.AdminScans = v }},
	{[]string{"404 错误", "404 errors", "404"}, func(n *NginxStats, v int) { n.Errors404 = v }},
	{[]string{"robots"}, func(n *NginxStats, v int) { n.RobotsScans = v }},
}

// jailBansHeaderPattern "jail-name (N banned):" 形式的小节标题
var jailBansHeaderPattern = regexp.MustCompile(`^\s*([A-Za-z0-9._-]+)\s*[（(]\s*(\d+)\s*(?:banned|封禁)?\s*[)）]\s*:?\s*$`)

// topIPPattern NGINX 章节里 "次数 IP" 形式的 top 来源行
var topIPPattern = regexp.MustCompile(`^\s*(\d+)\s+(\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3})\s*$`)

// ParseMonitorReport 解析综合监控报告。
//
// 同一章节内若同一锚点被多行命中(例如标签重复),后出现的覆盖先出现的
// ——重复锚点的裁决策略是"最后命中生效"。经 FindValueAfterAnchor
// 解析的数值指标例外:该工具的契约是定位首个锚点行,即"首个命中生效"。
func ParseMonitorReport(raw string) Result[MonitorReport] {
	report := MonitorReport{
		Fail2ban: Fail2banSummary{Status: "unknown", Jails: []string{}},
		Jails:    []JailBans{},
		Nginx:    NginxStats{TopIPs: []IPHit{}},
	}
	result := NewResult(report)

	if diag := DetectFail2banError(raw, ""); diag.IsError && diag.Kind == ErrorKindEmptyOutput {
		result.Data = report
		result.AddError(diag.Message)
		result.Data.Timestamp = time.Now().UTC().Format(time.RFC3339)
		return result
	}

	lines := SplitLines(raw)
	current := sectionNone
	seen := map[sectionState]bool{}
	sections := map[sectionState][]string{}
	var currentJail *JailBans

	flushJail := func() {
		if currentJail != nil {
			result.Data.Jails = append(result.Data.Jails, *currentJail)
			currentJail = nil
		}
	}

	for _, line := range lines {
		if next, ok := detectSectionHeader(line); ok {
			flushJail()
			current = next
			seen[next] = true
			continue
		}

		sections[current] = append(sections[current], line)

		switch current {
		case sectionFail2ban:
			stripped := stripDecoration(line)
			lower := strings.ToLower(stripped)
			if strings.HasPrefix(lower, "status") {
				if v := valueAfterColon(stripped); v != "" {
					result.Data.Fail2ban.Status = strings.ToLower(v)
				}
			}
			if matchAnchor(stripped, "jail list") {
				if v := valueAfterColon(stripped); v != "" {
					result.Data.Fail2ban.Jails = splitJailList(v)
				}
			}
		case sectionBannedIPs:
			if m := jailBansHeaderPattern.FindStringSubmatch(line); m != nil {
				flushJail()
				count, _ := ExtractNumber(m[2], digitRunPattern)
				currentJail = &JailBans{Name: m[1], BannedCount: count, BannedIPs: []string{}}
				continue
			}
			if currentJail != nil {
				currentJail.BannedIPs = append(currentJail.BannedIPs, ExtractIPs(line)...)
			}
		case sectionNginx:
			if m := topIPPattern.FindStringSubmatch(line); m != nil {
				if count, ok := ExtractNumber(m[1], digitRunPattern); ok {
					for _, ip := range ExtractIPs(m[2]) {
						result.Data.Nginx.TopIPs = append(result.Data.Nginx.TopIPs, IPHit{IP: ip, Count: count})
					}
				}
			}
		}
	}
	flushJail()

	// fail2ban 章节: jail list 可能折行,封禁总数经窗口搜索解析
	if f2bLines := sections[sectionFail2ban]; seen[sectionFail2ban] {
		if len(result.Data.Fail2ban.Jails) == 0 {
			for i, line := range f2bLines {
				if matchAnchor(line, "jail list") && valueAfterColon(stripDecoration(line)) == "" && i+1 < len(f2bLines) {
					result.Data.Fail2ban.Jails = splitJailList(stripDecoration(f2bLines[i+1]))
					break
				}
			}
		}
		if v, ok := FindValueAfterAnchor(f2bLines, "total banned", 3); ok {
			result.Data.Fail2ban.TotalBanned = v
		} else if v, ok := FindValueAfterAnchor(f2bLines, "封禁总数", 3); ok {
			result.Data.Fail2ban.TotalBanned = v
		} else {
			// 锚点缺失时退化为各 jail 计数之和
			for _, jail := range result.Data.Jails {
				result.Data.Fail2ban.TotalBanned += jail.BannedCount
			}
		}
	} else {
		result.AddError("报告缺少 FAIL2BAN 章节")
	}

	if !seen[sectionBannedIPs] {
		result.AddError("报告缺少 BANNED_IPS 章节")
	}

	if nginxLines := sections[sectionNginx]; seen[sectionNginx] {
		for _, metric := range nginxMetricAnchors {
			for _, anchor := range metric.anchors {
				if v, ok := FindValueAfterAnchor(nginxLines, anchor, 3); ok {
					metric.assign(&result.Data.Nginx, v)
					break
				}
			}
		}
	} else {
		result.AddError("报告缺少 NGINX 章节")
	}

	if sysLines := sections[sectionSystem]; seen[sectionSystem] {
		result.Data.System = parseSystemLines(sysLines)
		if result.Data.System.Hostname != nil {
			result.Data.Hostname = *result.Data.System.Hostname
		}
	} else {
		result.AddError("报告缺少 SYSTEM 章节")
	}

	result.Data.Timestamp = time.Now().UTC().Format(time.RFC3339)
	return result
}

// ParseQuickCheck 解析快速巡检摘要,单章节报告,锚点纪律与综合报告一致
func ParseQuickCheck(raw string) Result[QuickCheck] {
	check := QuickCheck{Jails: []string{}}
	result := NewResult(check)

	if diag := DetectFail2banError(raw, ""); diag.IsError {
		result.Data = check
		result.AddError(diag.Message)
		return result
	}

	lines := SplitLines(raw)
	for i, line := range lines {
		stripped := stripDecoration(line)
		if !matchAnchor(stripped, "jail list") {
			continue
		}
		value := valueAfterColon(stripped)
		if value == "" && i+1 < len(lines) {
			value = stripDecoration(lines[i+1])
		}
		result.Data.Jails = splitJailList(value)
	}

	if v, ok := FindValueAfterAnchor(lines, "active jail", 3); ok {
		result.Data.ActiveJails = v
	} else if v, ok := FindValueAfterAnchor(lines, "活跃 jail", 3); ok {
		result.Data.ActiveJails = v
	} else {
		result.Data.ActiveJails = len(result.Data.Jails)
	}

	if v, ok := FindValueAfterAnchor(lines, "total banned", 3); ok {
		result.Data.TotalBanned = v
	} else if v, ok := FindValueAfterAnchor(lines, "封禁总数", 3); ok {
		result.Data.TotalBanned = v
	}

	if len(result.Data.Jails) == 0 {
		result.AddError("巡检输出中未找到 jail list")
	}
	return result
}

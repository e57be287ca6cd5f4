package parser

import (
	"fmt"
	"strings"
)

// fail2ban-client 输出解析。
// 典型输出:
//
//	Status
//	|- Number of jail:	2
//	`- Jail list:	nginx-404, sshd
//
// 行首的 |- `- 以及制表符都是装饰,解析时一律剥掉。

// stripDecoration 剥掉 fail2ban-client 输出行的树状前缀和装饰符
func stripDecoration(line string) string {
	return strings.Trim(strings.TrimSpace(line), "`|- \t")
}

// valueAfterColon 取冒号(半角或全角)之后的内容,没有冒号返回空串
func valueAfterColon(line string) string {
	idx := strings.IndexAny(line, ":：")
	if idx < 0 {
		return ""
	}
	// 全角冒号占三个字节
	rest := line[idx:]
	rest = strings.TrimPrefix(rest, "：")
	rest = strings.TrimPrefix(rest, ":")
	return strings.TrimSpace(rest)
}

// splitJailList 按逗号切分 jail 列表,修剪装饰并丢弃空项
func splitJailList(value string) []string {
	jails := []string{}
	for _, part := range strings.Split(value, ",") {
		name := stripDecoration(part)
		if name != "" {
			jails = append(jails, name)
		}
	}
	return jails
}

// ParseGlobalStatus 解析 `fail2ban-client status` 的全局状态输出
func ParseGlobalStatus(raw string) Result[GlobalStatus] {
	status := GlobalStatus{Status: "unknown", Jails: []string{}}
	result := NewResult(status)

	if diag := DetectFail2banError(raw, ""); diag.IsError {
		result.Data = status
		result.AddError(diag.Message)
		return result
	}

	lines := SplitLines(raw)
	jailListFound := false
	for i, line := range lines {
		stripped := stripDecoration(line)
		lower := strings.ToLower(stripped)

		switch {
		case strings.HasPrefix(lower, "status"):
			// 裸 "Status" 标题行没有值,保持 unknown
			if v := valueAfterColon(stripped); v != "" {
				result.Data.Status = strings.ToLower(v)
			}
		case matchAnchor(stripped, "jail list"):
			jailListFound = true
			value := valueAfterColon(stripped)
			if value == "" && i+1 < len(lines) {
				// 值折行到了下一行
				value = stripDecoration(lines[i+1])
			}
			result.Data.Jails = splitJailList(value)
		}
	}

	if !jailListFound {
		result.AddError("输出中未找到 jail list")
	}
	return result
}

// jail 详情里被封禁 IP 的锚点,两种措辞都可能出现
var bannedIPAnchors = []string{"banned ip list", "currently banned"}

// ParseJailDetail 解析 `fail2ban-client status <jail>` 的单 Jail 详情。
//
// enabled 是推断出来的,不是上游断言的状态:封禁计数可解析、
// 或提取到任何封禁 IP、或(兜底)filter 有值,三者有一即视为启用。
func ParseJailDetail(name, raw string) Result[JailDetail] {
	detail := JailDetail{Name: name, BannedIPs: []string{}}
	result := NewResult(detail)

	if diag := DetectFail2banError(raw, ""); diag.IsError {
		result.Data = detail
		result.AddError(fmt.Sprintf("jail %s: %s", name, diag.Message))
		return result
	}

	lines := SplitLines(raw)
	for i, line := range lines {
		stripped := stripDecoration(line)
		lower := strings.ToLower(stripped)
		value := valueAfterColon(stripped)

		switch {
		case strings.HasPrefix(lower, "filter"):
			if value != "" {
				v := value
				result.Data.Filter = &v
			}
		case matchAnchor(lower, "max retry") || matchAnchor(lower, "maxretry"):
			if v, ok := FindValueAfterAnchor(lines[i:i+1], "retry", 0); ok {
				result.Data.MaxRetry = &v
			}
		case matchAnchor(lower, "ban time") || matchAnchor(lower, "bantime"):
			if v, ok := FindValueAfterAnchor(lines[i:i+1], "time", 0); ok {
				sec := int64(v)
				result.Data.BanTime = &sec
			}
		case matchAnchor(lower, "find time") || matchAnchor(lower, "findtime"):
			if v, ok := FindValueAfterAnchor(lines[i:i+1], "time", 0); ok {
				sec := int64(v)
				result.Data.FindTime = &sec
			}
		}
	}

	if v, ok := FindValueAfterAnchor(lines, "currently banned", 1); ok {
		count := v
		result.Data.BannedCount = &count
	}
	if v, ok := FindValueAfterAnchor(lines, "total banned", 1); ok {
		total := v
		result.Data.TotalBanned = &total
	}

	for _, anchor := range bannedIPAnchors {
		// IP 可能跟在锚点同一行,也可能折到下一行
		for i, line := range lines {
			if !matchAnchor(line, anchor) {
				continue
			}
			ips := ExtractIPs(valueAfterColon(line))
			if len(ips) == 0 && i+1 < len(lines) {
				ips = ExtractIPs(lines[i+1])
			}
			if len(ips) > 0 {
				result.Data.BannedIPs = ips
			}
			break
		}
	}

	result.Data.Enabled = result.Data.BannedCount != nil ||
		len(result.Data.BannedIPs) > 0 ||
		result.Data.Filter != nil
	return result
}

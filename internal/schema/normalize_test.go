package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dushixiang/mastiff/internal/parser"
)

func intPtr(v int) *int { return &v }

func TestCoarsenServerStatus(t *testing.T) {
	// 内部四态全部收敛到对外二值
	assert.Equal(t, ServerStatusOnline, CoarsenServerStatus(ServerStatusOnline))
	assert.Equal(t, ServerStatusOffline, CoarsenServerStatus(ServerStatusPartial))
	assert.Equal(t, ServerStatusOffline, CoarsenServerStatus(ServerStatusError))
	assert.Equal(t, ServerStatusOffline, CoarsenServerStatus(ServerStatusOffline))
	assert.Equal(t, ServerStatusOffline, CoarsenServerStatus("随便什么别的"))
}

func TestResolveBanCountPrecedence(t *testing.T) {
	ips := []string{"1.2.3.4", "5.6.7.8"}

	tests := []struct {
		name string
		src  JailSource
		want int
	}{
		{"currently_banned 优先", JailSource{CurrentlyBanned: intPtr(3), BansActive: intPtr(9), BannedIPs: ips}, 3},
		{"零值跳过,取下一级", JailSource{CurrentlyBanned: intPtr(0), BansActive: intPtr(9)}, 9},
		{"banned_count 第三级", JailSource{BannedCount: intPtr(4)}, 4},
		{"旧版字段第四级", JailSource{LegacyBannedCount: intPtr(2)}, 2},
		{"全部缺失退化为 IP 数", JailSource{BannedIPs: ips}, 2},
		{"什么都没有为 0", JailSource{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolveBanCount(tt.src))
		})
	}
}

func TestNormalizeJailAliasesAgree(t *testing.T) {
	jail := NormalizeJail(JailSource{
		Name:            "nginx-404",
		Enabled:         true,
		CurrentlyBanned: intPtr(5),
		BannedIPs:       []string{"1.2.3.4"},
		TotalBanned:     intPtr(17),
	})

	// 结构化字段与旧版扁平别名来自同一条链,必须一致
	assert.Equal(t, jail.ActiveBans.Count, jail.CurrentlyBanned)
	assert.Equal(t, jail.ActiveBans.Count, jail.BannedCount)
	assert.Equal(t, jail.ActiveBans.IPs, jail.BannedIPs)
	assert.Equal(t, jail.HistoricalBans.Total, jail.TotalBanned)
	assert.Equal(t, 5, jail.CurrentlyBanned)
	assert.Equal(t, 17, jail.TotalBanned)
}

func TestNormalizeJailNilIPsBecomeEmptySlice(t *testing.T) {
	jail := NormalizeJail(JailSource{Name: "sshd"})

	require.NotNil(t, jail.BannedIPs)
	assert.Empty(t, jail.BannedIPs)

	data, err := json.Marshal(jail)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"banned_ips":[]`)
}

func TestNormalizeJailIdempotent(t *testing.T) {
	first := NormalizeJail(JailSource{
		Name:        "nginx-admin-scanners",
		Enabled:     true,
		BannedCount: intPtr(7),
		BannedIPs:   []string{"9.9.9.9"},
	})
	second := NormalizeJail(first.Source())

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestDeriveCategory(t *testing.T) {
	tests := []struct {
		name string
		want *string
	}{
		{"nginx-404", strPtr("nginx")},
		{"sshd", strPtr("ssh")},
		{"postfix-sasl", strPtr("postfix")},
		{"recidive", nil},
	}
	for _, tt := range tests {
		got := deriveCategory(tt.name)
		if tt.want == nil {
			assert.Nil(t, got, tt.name)
			continue
		}
		require.NotNil(t, got, tt.name)
		assert.Equal(t, *tt.want, *got, tt.name)
	}
}

func strPtr(v string) *string { return &v }

func TestDeriveSeverity(t *testing.T) {
	assert.Equal(t, "none", *deriveSeverity(0))
	assert.Equal(t, "low", *deriveSeverity(1))
	assert.Equal(t, "medium", *deriveSeverity(5))
	assert.Equal(t, "high", *deriveSeverity(20))
}

func TestBuildOverview(t *testing.T) {
	hostname := "web-01"
	report := parser.NewResult(parser.MonitorReport{
		Fail2ban: parser.Fail2banSummary{
			Status:      "active",
			Jails:       []string{"nginx-404", "sshd"},
			TotalBanned: 6,
		},
		Jails: []parser.JailBans{
			{Name: "nginx-404", BannedCount: 4, BannedIPs: []string{"1.2.3.4"}},
			{Name: "sshd", BannedCount: 2, BannedIPs: []string{}},
		},
		Nginx:  parser.NginxStats{Errors404: 30, AdminScans: 2},
		System: parser.SystemInfo{Hostname: &hostname},
	})

	overview := BuildOverview(report, ServerStatusOnline)

	assert.Equal(t, 2, overview.Summary.ActiveJails)
	assert.Equal(t, 6, overview.Summary.TotalBannedIPs)
	require.Len(t, overview.Jails, 2)
	assert.Equal(t, 4, overview.Jails[0].CurrentlyBanned)
	assert.Equal(t, 30, overview.Nginx.Count404)
	require.NotNil(t, overview.Server.Hostname)
	assert.Equal(t, "web-01", *overview.Server.Hostname)
	assert.NotEmpty(t, overview.Timestamp)
	assert.False(t, overview.Partial)
	assert.Empty(t, overview.Errors)
}

func TestBuildOverviewCarriesDiagnostics(t *testing.T) {
	report := parser.NewPartialResult(parser.MonitorReport{}, "报告缺少 NGINX 章节")

	overview := BuildOverview(report, ServerStatusPartial)

	assert.True(t, overview.Partial)
	assert.Equal(t, []string{"报告缺少 NGINX 章节"}, overview.Errors)
	assert.Equal(t, ServerStatusPartial, overview.ServerStatus)

	data, err := json.Marshal(overview)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"_partial":true`)
	assert.Contains(t, string(data), `"_serverStatus":"partial"`)
}

func TestBuildJailsResponse(t *testing.T) {
	resp := BuildJailsResponse(nil, nil, false, ServerStatusOnline)

	require.NotNil(t, resp.Jails)
	assert.Empty(t, resp.Jails)
	assert.Equal(t, ServerStatusOnline, resp.ServerStatus)

	degraded := BuildJailsResponse(nil, []string{"脚本超时"}, true, ServerStatusError)
	assert.Equal(t, ServerStatusOffline, degraded.ServerStatus)
	assert.True(t, degraded.Partial)
}

func TestBuildJailResponse(t *testing.T) {
	count := 21
	findTime := int64(600)
	detail := parser.NewResult(parser.JailDetail{
		Name:        "nginx-404",
		Enabled:     true,
		BannedCount: &count,
		FindTime:    &findTime,
		BannedIPs:   []string{"1.2.3.4"},
	})

	resp := BuildJailResponse(detail, ServerStatusOnline)

	assert.Equal(t, 21, resp.CurrentlyBanned)
	require.NotNil(t, resp.Severity)
	assert.Equal(t, "high", *resp.Severity)
	require.NotNil(t, resp.FindTime)
	assert.Equal(t, int64(600), *resp.FindTime)
}

func TestBuildBackupResponse(t *testing.T) {
	size := int64(1024)
	backup := parser.NewResult(parser.BackupResult{
		Success:       true,
		Filename:      "site.tar.gz",
		Path:          "/var/backups/site.tar.gz",
		Size:          &size,
		SizeFormatted: "1 KB",
		Timestamp:     "2025-08-31T00:00:00Z",
	})

	resp := BuildBackupResponse(backup, ServerStatusOnline)

	assert.True(t, resp.Success)
	assert.Equal(t, "site.tar.gz", resp.Filename)
	require.NotNil(t, resp.Size)
	assert.Equal(t, int64(1024), *resp.Size)
	assert.False(t, resp.Partial)
}

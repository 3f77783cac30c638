package mcp

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/calegria/toggl-admin-mcp/internal/domain/report"
)

func TestMoney(t *testing.T) {
	require.Equal(t, "0.00", money(0))
	require.Equal(t, "12.50", money(12.5))
	require.Equal(t, "1,234.50", money(1234.5))
	require.Equal(t, "1,234,567.89", money(1234567.891))
	require.Equal(t, "-9,876.00", money(-9876))
}

func TestRenderProjectAnalysisEmpty(t *testing.T) {
	out := renderProjectAnalysis(&report.ProjectAnalysis{})
	require.Equal(t, "No projects found matching the criteria.", out)
}

func TestRenderProjectAnalysisCapsAtTen(t *testing.T) {
	analysis := &report.ProjectAnalysis{Currency: "USD", SortedBy: report.SortByProfit}
	for i := 0; i < 12; i++ {
		analysis.Projects = append(analysis.Projects, report.ProjectProfitability{
			ProjectID:   int64(i + 1),
			ProjectName: "Project",
			TotalHours:  10,
		})
	}

	out := renderProjectAnalysis(analysis)
	require.Contains(t, out, "Showing 12 projects")
	require.Contains(t, out, "**10. Project**")
	require.NotContains(t, out, "**11. Project**")
}

func TestRenderTeamReportEmpty(t *testing.T) {
	out := renderTeamReport(&report.TeamReport{})
	require.Equal(t, "No team members found or data available for this period.", out)
}

// Package output renders quoting results for the CLI and for export.
package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/benefitflow/ichra-engine/internal/domain"
	"github.com/benefitflow/ichra-engine/internal/engine"
)

// ReportGenerator handles report generation in various formats.
type ReportGenerator struct{}

// NewReportGenerator creates a new report generator.
func NewReportGenerator() *ReportGenerator {
	return &ReportGenerator{}
}

// GenerateReport renders a result in the specified format.
func GenerateReport(result *engine.Result, format string) ([]byte, error) {
	generator := NewReportGenerator()

	switch format {
	case "console":
		return generator.GenerateConsoleReport(result)
	case "json":
		return generator.GenerateJSONReport(result)
	case "csv":
		return generator.GenerateCSVReport(result)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// GenerateConsoleReport renders a human-readable summary with per-member
// detail rows.
func (rg *ReportGenerator) GenerateConsoleReport(result *engine.Result) ([]byte, error) {
	var b strings.Builder
	summary := &result.Summary

	b.WriteString("=====================================================================\n")
	b.WriteString("ICHRA GROUP QUOTE SUMMARY\n")
	b.WriteString("=====================================================================\n\n")

	fmt.Fprintf(&b, "Candidate plans:       %d\n", summary.CandidateCount)
	fmt.Fprintf(&b, "Members resolved:      %d\n", summary.ResolvedCount)
	fmt.Fprintf(&b, "Members without plan:  %d\n", summary.UnresolvedCount)
	fmt.Fprintf(&b, "Total employer cost:   %s/mo\n", FormatCurrency(summary.TotalEmployerCost))
	fmt.Fprintf(&b, "Total employee cost:   %s/mo\n", FormatCurrency(summary.TotalEmployeeCost))
	fmt.Fprintf(&b, "Total savings:         %s/mo\n", FormatCurrency(summary.TotalSavings))
	fmt.Fprintf(&b, "Members saving money:  %d\n", summary.MembersWithSavings)
	fmt.Fprintf(&b, "Members paying more:   %d\n", summary.MembersWithLoss)
	fmt.Fprintf(&b, "Compliance rate:       %s%%\n", summary.ComplianceRate.Mul(decimal.NewFromInt(100)).StringFixed(1))
	b.WriteString("\n")

	b.WriteString("PER-MEMBER OUTCOMES\n")
	b.WriteString("-------------------\n")
	for i := range result.Outcomes {
		o := &result.Outcomes[i]
		if !o.Resolved {
			fmt.Fprintf(&b, "%-20s age %-3d  NO MATCHING PLAN\n", o.MemberName, o.Age)
			continue
		}
		affordable := "affordable"
		if !o.Affordability.IsAffordable {
			affordable = "NOT affordable"
		}
		fmt.Fprintf(&b, "%-20s age %-3d  %s (%s %s)  premium %s  contribution %s  out-of-pocket %s  savings %s  %s\n",
			o.MemberName, o.Age,
			o.Plan.Name, o.Plan.Carrier, o.Plan.MetalLevel,
			FormatCurrency(o.Premium), FormatCurrency(o.Contribution),
			FormatCurrency(o.OutOfPocket), FormatCurrency(o.Savings),
			affordable,
		)
	}
	b.WriteString("\n")

	writeDistribution(&b, "PLANS BY METAL LEVEL", metalRows(summary.ByMetalLevel))
	writeDistribution(&b, "PLANS BY CARRIER", carrierRows(summary.ByCarrier))

	if len(result.Issues) > 0 {
		b.WriteString("DATA ISSUES\n")
		b.WriteString("-----------\n")
		for _, issue := range result.Issues {
			fmt.Fprintf(&b, "  - %s\n", issue.Error())
		}
		b.WriteString("\n")
	}

	return []byte(b.String()), nil
}

type distributionRow struct {
	label string
	stats domain.PremiumStats
}

func metalRows(byMetal map[domain.MetalLevel]domain.PremiumStats) []distributionRow {
	rows := make([]distributionRow, 0, len(byMetal))
	for level, stats := range byMetal {
		rows = append(rows, distributionRow{label: string(level), stats: stats})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].label < rows[j].label })
	return rows
}

func carrierRows(byCarrier map[string]domain.PremiumStats) []distributionRow {
	rows := make([]distributionRow, 0, len(byCarrier))
	for carrier, stats := range byCarrier {
		rows = append(rows, distributionRow{label: carrier, stats: stats})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].label < rows[j].label })
	return rows
}

func writeDistribution(b *strings.Builder, title string, rows []distributionRow) {
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("-", len(title)) + "\n")
	for _, row := range rows {
		fmt.Fprintf(b, "%-20s count %-4d min %s  max %s  avg %s\n",
			row.label, row.stats.Count,
			FormatCurrency(row.stats.Min), FormatCurrency(row.stats.Max), FormatCurrency(row.stats.Average),
		)
	}
	b.WriteString("\n")
}

// GenerateJSONReport renders the full result as indented JSON.
func (rg *ReportGenerator) GenerateJSONReport(result *engine.Result) ([]byte, error) {
	payload := struct {
		Summary  domain.GroupSummary    `json:"summary"`
		Outcomes []domain.MemberOutcome `json:"outcomes"`
		Issues   []string               `json:"issues,omitempty"`
	}{
		Summary:  result.Summary,
		Outcomes: result.Outcomes,
	}
	for _, issue := range result.Issues {
		payload.Issues = append(payload.Issues, issue.Error())
	}
	return json.MarshalIndent(payload, "", "  ")
}

// GenerateCSVReport renders one row per member.
func (rg *ReportGenerator) GenerateCSVReport(result *engine.Result) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"MemberID", "Member", "Age", "Resolved", "Plan", "Carrier", "MetalLevel", "Premium", "Contribution", "OutOfPocket", "PriorCost", "Savings", "Affordable"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for i := range result.Outcomes {
		o := &result.Outcomes[i]
		row := []string{o.MemberID, o.MemberName, strconv.Itoa(o.Age)}
		if !o.Resolved {
			row = append(row, "false", "", "", "", "", o.Contribution.StringFixed(2), "", o.PriorCost.StringFixed(2), "", "")
		} else {
			row = append(row, "true",
				o.Plan.Name, o.Plan.Carrier, string(o.Plan.MetalLevel),
				o.Premium.StringFixed(2), o.Contribution.StringFixed(2),
				o.OutOfPocket.StringFixed(2), o.PriorCost.StringFixed(2),
				o.Savings.StringFixed(2), strconv.FormatBool(o.Affordability.IsAffordable),
			)
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FormatCurrency renders a decimal as a dollar amount.
func FormatCurrency(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

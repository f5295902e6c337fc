package output

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PDG1999/tool-dashboard-samebi/internal/models"
)

// Section renders a styled section header with a horizontal rule.
func Section(title string) string {
	return fmt.Sprintf("\n %s\n %s\n", StyleHeader.Render(title), StyleMuted.Render(strings.Repeat("─", 48)))
}

func metric(label, value string) string {
	return " " + StyleLabel.Render(label) + StyleValue.Render(value) + "\n"
}

func percent(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64) + "%"
}

// riskStyle colors a risk bucket by severity.
func riskStyle(label string) string {
	switch label {
	case models.RiskKritisch:
		return StyleError.Render(label)
	case models.RiskHoch:
		return StyleWarning.Render(label)
	case models.RiskNiedrig:
		return StyleSuccess.Render(label)
	default:
		return label
	}
}

func distributionTable(title string, stats []models.DistributionStat, style func(string) string) string {
	if len(stats) == 0 {
		return Section(title) + " " + StyleMuted.Render("no data") + "\n"
	}
	t := NewTable(title, "Count", "Share").AlignRight(1, 2)
	for _, s := range stats {
		label := s.Label
		if style != nil {
			label = style(label)
		}
		t.AddRow(label, strconv.Itoa(s.Count), percent(s.Percentage))
	}
	return Section(title) + indent(t.Render())
}

func indent(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = " " + l
	}
	return strings.Join(lines, "\n") + "\n"
}

// RenderSnapshot formats a snapshot as a set of terminal tables.
func RenderSnapshot(snap *models.StatsSnapshot) string {
	var sb strings.Builder

	sb.WriteString(Section(fmt.Sprintf("Overview (%s, generation %d)", snap.TimeRange, snap.Generation)))
	sb.WriteString(metric("Tests", strconv.Itoa(snap.TotalTests)))
	sb.WriteString(metric("Completed", fmt.Sprintf("%d (%s)", snap.CompletedTests, percent(snap.CompletionRate))))
	sb.WriteString(metric("Aborted", fmt.Sprintf("%d (%s)", snap.AbortedTests, percent(snap.AbortRate))))
	sb.WriteString(metric("Critical", fmt.Sprintf("%d (%s)", snap.CriticalTests, percent(snap.CriticalShare))))
	sb.WriteString(metric("High risk", strconv.Itoa(snap.HighRiskTests)))
	sb.WriteString(metric("Anonymous", strconv.Itoa(snap.AnonymousTests)))
	sb.WriteString(metric("Clients", strconv.Itoa(snap.TotalClients)))
	sb.WriteString(metric("Counselors", fmt.Sprintf("%d (%d active)", snap.TotalCounselors, snap.ActiveCounselors)))
	if len(snap.Degraded) > 0 {
		sb.WriteString(" " + StyleWarning.Render("degraded: "+strings.Join(snap.Degraded, ", ")) + "\n")
	}

	sb.WriteString(distributionTable("Risk", snap.RiskDistribution, riskStyle))
	sb.WriteString(distributionTable("Device", snap.DeviceDistribution, nil))
	sb.WriteString(distributionTable("City", snap.CityDistribution, nil))
	if snap.SourceDistribution != nil {
		sb.WriteString(distributionTable("Source", snap.SourceDistribution, nil))
	}

	sb.WriteString(Section("Abort hotspots"))
	if len(snap.CriticalQuestions) == 0 {
		sb.WriteString(" " + StyleMuted.Render("no aborted checks") + "\n")
	} else {
		t := NewTable("Question", "Aborts").AlignRight(0, 1)
		for _, h := range snap.CriticalQuestions {
			t.AddRow(fmt.Sprintf("%d/%d", h.QuestionNumber, models.TotalQuestions), strconv.Itoa(h.Count))
		}
		sb.WriteString(indent(t.Render()))
	}

	if len(snap.Counselors) > 0 {
		sb.WriteString(Section("Counselors"))
		t := NewTable("Name", "Role", "Active", "Clients", "Tests").AlignRight(3, 4)
		for _, c := range snap.Counselors {
			active := "no"
			if c.IsActive {
				active = "yes"
			}
			t.AddRow(c.Name, c.Role, active, strconv.Itoa(c.ClientCount), strconv.Itoa(c.TestCount))
		}
		sb.WriteString(indent(t.Render()))
	}
	return sb.String()
}

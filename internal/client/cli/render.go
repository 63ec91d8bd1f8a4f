package cli

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/dmitrijs2005/incidentkeeper/internal/models"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

const noIncidents = "No incidents reported."

// renderIncidents formats incidents as a bordered table, one row per report.
func renderIncidents(incidents []models.Incident) string {
	if len(incidents) == 0 {
		return noIncidents
	}

	rows := make([][]string, 0, len(incidents))
	for _, i := range incidents {
		rows = append(rows, []string{i.ID.String(), i.Date, i.ReportedBy, i.Location, i.Incident})
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers("ID", "DATE", "REPORTED BY", "LOCATION", "INCIDENT").
		Rows(rows...).
		String()
}

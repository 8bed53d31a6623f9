package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/inkstat/printer-snmp-poller/catalog"
	"github.com/inkstat/printer-snmp-poller/models"
)

const barWidth = 25

var (
	labelStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	slotStyles = map[string]lipgloss.Style{
		"black":   lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
		"cyan":    lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		"magenta": lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
		"yellow":  lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		"other":   lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	}
)

type slotLine struct {
	name  string
	label string
	color string
}

var (
	tonerLines = []slotLine{
		{catalog.SlotTonerBlack, "Black", "black"},
		{catalog.SlotTonerCyan, "Cyan", "cyan"},
		{catalog.SlotTonerMagenta, "Magenta", "magenta"},
		{catalog.SlotTonerYellow, "Yellow", "yellow"},
	}
	drumLines = []slotLine{
		{catalog.SlotDrumBlack, "Black", "black"},
		{catalog.SlotDrumCyan, "Cyan", "cyan"},
		{catalog.SlotDrumMagenta, "Magenta", "magenta"},
		{catalog.SlotDrumYellow, "Yellow", "yellow"},
	}
	otherLines = []slotLine{
		{catalog.SlotFuser, "Fuser", "other"},
		{catalog.SlotReservoir, "Reservoir", "other"},
	}
)

func writeText(w io.Writer, r *models.SupplyReport, opts Options) error {
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Printer:"), r.Model)
	if opts.Extra && r.Serial != "" {
		fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Serial:"), r.Serial)
	}
	fmt.Fprintln(w)

	writeSection(w, "Toner:", tonerLines, r, opts.Theme)

	if opts.Extra {
		if anySupported(drumLines, r) {
			fmt.Fprintln(w)
			writeSection(w, "Drum:", drumLines, r, opts.Theme)
		}
		if anySupported(otherLines, r) {
			fmt.Fprintln(w)
			writeSection(w, "Other:", otherLines, r, opts.Theme)
		}
	}

	if opts.Metrics && r.Metrics != nil {
		fmt.Fprintf(w, "\n%s\n", sectionStyle.Render("Metrics:"))
		writeCounter(w, "Total impressions:", r.Metrics.TotalImpressions)
		writeCounter(w, "Mono:", r.Metrics.MonoImpressions)
		writeCounter(w, "Color:", r.Metrics.ColorImpressions)
	}

	return nil
}

func writeSection(w io.Writer, title string, lines []slotLine, r *models.SupplyReport, theme Theme) {
	fmt.Fprintf(w, "%s\n", sectionStyle.Render(title))
	for _, line := range lines {
		slot, ok := r.Slots[line.name]
		if !ok || slot.State == models.SlotUnsupported {
			continue
		}
		style := slotStyles[line.color]
		if slot.State == models.SlotUnknown {
			fmt.Fprintf(w, "  %9s  %s\n", style.Render(line.label), dimStyle.Render("unknown"))
			continue
		}
		fmt.Fprintf(w, "  %9s [%s] %3d%%\n", style.Render(line.label), style.Render(bar(slot.Percent, theme)), slot.Percent)
	}
}

func bar(percent int64, theme Theme) string {
	filled := int(percent) * barWidth / 100
	if filled > barWidth {
		filled = barWidth
	}
	return strings.Repeat(theme.Filled, filled) + strings.Repeat(theme.Empty, barWidth-filled)
}

func anySupported(lines []slotLine, r *models.SupplyReport) bool {
	for _, line := range lines {
		if slot, ok := r.Slots[line.name]; ok && slot.State != models.SlotUnsupported {
			return true
		}
	}
	return false
}

func writeCounter(w io.Writer, label string, v *int64) {
	if v == nil {
		return
	}
	fmt.Fprintf(w, "%s %d pages\n", labelStyle.Render(label), *v)
}

package monitor

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/ma3ke/mu/internal/roster"
	"github.com/ma3ke/mu/internal/view"
)

// Column widths for the machine table.
const (
	colHostname = 8
	colOwner    = 23
	colRoom     = 9
	colCores    = 7
	colMemory   = 10
	colActive   = 30
)

const gaugeWidth = 24

// render assembles the whole dashboard frame.
func (m Model) render() string {
	if m.fleet == nil {
		waiting := fmt.Sprintf("%s waiting for snapshot data (%s)", m.spin.View(), m.path)
		return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), "", waiting, "", m.renderNotes())
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderMachines(),
		"  ",
		lipgloss.JoinVertical(lipgloss.Left, m.renderRanking(), "", m.renderNotes()),
	)
	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), "", body)
}

// renderHeader shows who is watching from where, the clock, and the
// fleet-wide usage gauge.
func (m Model) renderHeader() string {
	info := UserStyle.Render(m.identity.User) +
		DividerStyle.Render(" @ ") +
		HostnameStyle.Render(m.identity.Hostname) +
		OSStyle.Render(" "+m.identity.OS+" "+m.identity.OSVersion)

	clock := ClockStyle.Render(m.now().Format("15:04"))

	usage := 0.0
	if m.fleet != nil {
		usage = m.fleet.TotalUsage
	}
	return info + "  " + clock + "  " + renderGauge(usage, gaugeWidth)
}

// renderGauge draws a thick-line usage bar for a ratio in [0, 1].
func renderGauge(ratio float64, width int) string {
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	filled := int(ratio * float64(width))
	return GaugeFilledStyle.Render(strings.Repeat("━", filled)) +
		GaugeEmptyStyle.Render(strings.Repeat("━", width-filled))
}

// renderMachines draws the legend and one row per machine.
func (m Model) renderMachines() string {
	legend := []string{
		pad("", colHostname),
		pad("", colOwner),
	}
	if m.showRoom {
		legend = append(legend, pad("Room", colRoom))
	}
	legend = append(legend,
		pad("CPU", colCores),
		pad("Mem", colMemory),
		pad("Active process", colActive),
	)

	rows := []string{LegendStyle.Render(strings.Join(legend, " "))}
	for _, machine := range m.fleet.Machines {
		rows = append(rows, m.renderMachineRow(machine))
	}
	return strings.Join(rows, "\n")
}

func (m Model) renderMachineRow(machine view.Machine) string {
	cells := []string{
		HotnessStyle(machine.Hotness).Render(pad(machine.Identity.Hostname, colHostname)),
		ownerCell(machine.Identity.Owner),
	}
	if m.showRoom {
		cells = append(cells, RoomStyle.Render(pad(machine.Identity.Room, colRoom)))
	}
	cells = append(cells,
		coresCell(machine.UsedCores, machine.Snapshot.CoreCount()),
		memoryCell(machine.Snapshot.Memory.Used, machine.Snapshot.Memory.Total),
		activeCell(machine.Active),
	)
	return strings.Join(cells, " ")
}

// ownerCell renders the ownership note with the visitor/student marker.
func ownerCell(o roster.Owner) string {
	switch o.Kind {
	case roster.OwnerReserved:
		return ReservedStyle.Render(pad("Reservation required", colOwner))
	case roster.OwnerUnowned:
		return pad("", colOwner)
	case roster.OwnerStudent:
		return StudentStyle.Render(pad(o.Name+" "+o.Mark(), colOwner))
	case roster.OwnerVisitor:
		return VisitorStyle.Render(pad(o.Name+" "+o.Mark(), colOwner))
	default:
		return OwnerStyle.Render(pad(o.Name, colOwner))
	}
}

func coresCell(used, total int) string {
	cell := CoresUsedStyle.Render(fmt.Sprintf("%3d", used)) +
		CoresDividerStyle.Render("/") +
		CoresTotalStyle.Render(fmt.Sprintf("%-3d", total))
	return cell
}

func memoryCell(used, total uint64) string {
	const gib = 1 << 30
	return pad(fmt.Sprintf("%.1f/%.0fG", float64(used)/gib, float64(total)/gib), colMemory)
}

func activeCell(active *view.ActiveUser) string {
	if active == nil {
		return pad("", colActive)
	}
	text := fmt.Sprintf("%s (%d) %s", active.User, active.Cores, active.Task)
	return ActiveStyle.Render(pad(text, colActive))
}

// renderRanking draws the fleet-wide user leaderboard.
func (m Model) renderRanking() string {
	lines := []string{NotesStyle.Render("User ranking")}
	for _, ranked := range m.fleet.Ranking {
		lines = append(lines,
			RankingPercentStyle.Render(fmt.Sprintf("%4s", ranked.Percent))+" "+
				RankingUserStyle.Render(ranked.User))
	}
	if len(m.fleet.Ranking) == 0 {
		lines = append(lines, LegendStyle.Render("  (nobody)"))
	}
	return strings.Join(lines, "\n")
}

// renderNotes draws the freshness gutter: the age of the data, a face
// reporting whether the last poll worked, and the access-log status.
func (m Model) renderNotes() string {
	age := "never"
	if m.fleet != nil {
		elapsed := m.now().Sub(time.Unix(int64(m.fleet.Timestamp), 0))
		if elapsed < 0 {
			age = fmt.Sprintf("%.3f s in the future", -elapsed.Seconds())
		} else {
			age = fmt.Sprintf("%.0f s ago", elapsed.Seconds())
		}
	}

	face := ":)"
	if !m.success {
		face = ":("
	}
	logged := "Logged."
	if !m.logged {
		logged = "Not logged."
	}

	return strings.Join([]string{
		NotesStyle.Render("Notes"),
		"Last update:",
		"  " + age + ".",
		face,
		logged,
	}, "\n")
}

// pad right-pads or truncates text to a fixed cell width.
func pad(text string, width int) string {
	if len(text) > width {
		return text[:width]
	}
	return text + strings.Repeat(" ", width-len(text))
}

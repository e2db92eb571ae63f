package monitor

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/ma3ke/mu/internal/view"
)

// Terminal color palette.
const (
	ColorDivider     = lipgloss.Color("#999999")
	ColorCoresActive = lipgloss.Color("#eeeeee")
	ColorCoresTotal  = lipgloss.Color("#cccccc")
	ColorNotes       = lipgloss.Color("#70abaf")
	ColorStudent     = lipgloss.Color("14") // light cyan
	ColorVisitor     = lipgloss.Color("13") // light magenta
	ColorMuted       = lipgloss.Color("8")
)

// HotnessGradient maps hotness buckets onto colors, cool chartreuse
// through hot red.
var HotnessGradient = [view.GradientSteps]lipgloss.Color{
	"#b0cd75",
	"#c0cc6c",
	"#cfcb63",
	"#d9cf69",
	"#e3d26f",
	"#d7ae67",
	"#ca895f",
	"#c56355",
	"#bf3d4a",
	"#c41829",
}

// Base styles for the dashboard.
var (
	UserStyle     = lipgloss.NewStyle().Bold(true)
	DividerStyle  = lipgloss.NewStyle().Foreground(ColorDivider)
	HostnameStyle = lipgloss.NewStyle().Bold(true).Italic(true)
	OSStyle       = lipgloss.NewStyle().Foreground(ColorMuted)
	ClockStyle    = lipgloss.NewStyle().Bold(true)

	LegendStyle = lipgloss.NewStyle().Foreground(ColorMuted)
	RoomStyle   = lipgloss.NewStyle().Foreground(ColorMuted)

	OwnerStyle    = lipgloss.NewStyle()
	StudentStyle  = lipgloss.NewStyle().Foreground(ColorStudent)
	VisitorStyle  = lipgloss.NewStyle().Foreground(ColorVisitor)
	ReservedStyle = lipgloss.NewStyle().Italic(true).Foreground(ColorMuted)

	CoresUsedStyle    = lipgloss.NewStyle().Bold(true).Foreground(ColorCoresActive)
	CoresDividerStyle = lipgloss.NewStyle().Foreground(ColorDivider)
	CoresTotalStyle   = lipgloss.NewStyle().Bold(true).Foreground(ColorCoresTotal)

	ActiveStyle = lipgloss.NewStyle().Foreground(ColorMuted)

	RankingPercentStyle = lipgloss.NewStyle().Italic(true).Faint(true)
	RankingUserStyle    = lipgloss.NewStyle().Bold(true)

	NotesStyle = lipgloss.NewStyle().Foreground(ColorNotes)

	GaugeFilledStyle = lipgloss.NewStyle().Foreground(HotnessGradient[view.GradientSteps-1])
	GaugeEmptyStyle  = lipgloss.NewStyle().Faint(true)
)

// HotnessStyle returns the hostname style for a hotness bucket. Out of
// range buckets are clamped rather than trusted.
func HotnessStyle(bucket int) lipgloss.Style {
	if bucket < 0 {
		bucket = 0
	}
	if bucket >= view.GradientSteps {
		bucket = view.GradientSteps - 1
	}
	return lipgloss.NewStyle().Bold(true).Foreground(HotnessGradient[bucket])
}

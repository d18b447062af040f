package dashboard

import "github.com/charmbracelet/lipgloss"

// Colors - the same palette the project's earlier terminal prototype used.
var (
	Primary   = lipgloss.Color("#7C3AED")
	Secondary = lipgloss.Color("#06B6D4")
	Success   = lipgloss.Color("#10B981")
	Warning   = lipgloss.Color("#F59E0B")
	Error     = lipgloss.Color("#EF4444")
	Muted     = lipgloss.Color("#6B7280")

	BgCard    = lipgloss.Color("#1E293B")
	BgHover   = lipgloss.Color("#334155")
	BgSidebar = lipgloss.Color("#18181B")
	BgConsole = lipgloss.Color("#09090B")

	colorTextBright = lipgloss.Color("#F8FAFC")
	colorTextNormal = lipgloss.Color("#CBD5E1")
	colorTextMuted  = lipgloss.Color("#64748B")
)

var (
	TextBright = lipgloss.NewStyle().Foreground(colorTextBright)
	TextMuted  = lipgloss.NewStyle().Foreground(colorTextMuted)

	LogoStyle = lipgloss.NewStyle().Bold(true).Foreground(colorTextBright)

	SidebarStyle = lipgloss.NewStyle().
			Background(BgSidebar).
			Foreground(colorTextNormal).
			Padding(1, 2).
			BorderRight(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(BgHover)

	ContentStyle = lipgloss.NewStyle().Padding(1, 2)

	ConsoleStyle = lipgloss.NewStyle().
			Background(BgConsole).
			Foreground(colorTextNormal).
			Padding(0, 1).
			BorderTop(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(BgHover)

	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Muted).
			Padding(1, 2)

	CardTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(Secondary).MarginBottom(1)

	StatusOnline  = lipgloss.NewStyle().Foreground(Success).SetString("●")
	StatusOffline = lipgloss.NewStyle().Foreground(Error).SetString("●")
	StatusPending = lipgloss.NewStyle().Foreground(Warning).SetString("●")

	HelpStyle    = lipgloss.NewStyle().Foreground(colorTextMuted)
	HelpKeyStyle = lipgloss.NewStyle().Foreground(Secondary).Bold(true)
	HelpBarStyle = lipgloss.NewStyle().Foreground(colorTextMuted).Background(BgCard).Padding(0, 2)

	SpinnerStyle = lipgloss.NewStyle().Foreground(Primary)
)

func RenderKey(key string) string { return HelpKeyStyle.Render(key) }

func RenderHelp(key, desc string) string { return RenderKey(key) + HelpStyle.Render(" "+desc) }

// StatusIcon maps a printer's coarse state to a colored dot.
func StatusIcon(state string) string {
	switch state {
	case "serving":
		return StatusOnline.String()
	case "waiting_refill":
		return StatusPending.String()
	case "idle":
		return TextMuted.Render("●")
	default:
		return StatusOffline.String()
	}
}

func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

// Package dashboard is a live terminal monitor over a running
// simulation: printer pool slot states down the sidebar, derived
// statistics in the content pane, and a scrolling event console along
// the bottom. It polls internal/runtime.Manager for state and drains an
// internal/dashboard.LogFeed for narration, rather than driving the
// simulation itself — start/stop stays the job of the HTTP API or a
// CLI.
package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/printshop/printsim/internal/core"
	"github.com/printshop/printsim/internal/runtime"
)

const maxLogLines = 200

// App is the bubbletea model for the dashboard.
type App struct {
	manager *runtime.Manager
	feed    *LogFeed

	width  int
	height int

	spinner spinner.Model

	status      core.Status
	runID       string
	queueLength int
	printers    []core.PrinterSnapshot
	report      core.Report

	logs []string
}

// NewApp builds a dashboard over manager, narrating events pushed to
// feed. feed may be nil if no event narration is wired up.
func NewApp(manager *runtime.Manager, feed *LogFeed) *App {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	return &App{
		manager: manager,
		feed:    feed,
		spinner: s,
		status:  core.StatusIdle,
		logs:    []string{"dashboard started"},
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.spinner.Tick, a.pollCmd(), a.drainLogCmd())
}

type pollMsg struct {
	status      core.Status
	runID       string
	queueLength int
	printers    []core.PrinterSnapshot
	report      core.Report
}

type logLineMsg string

func (a *App) pollCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(time.Time) tea.Msg {
		statusRes := a.manager.Status()
		printersRes := a.manager.Printers()

		msg := pollMsg{status: core.StatusIdle}
		if st, ok := statusRes.Data["status"].(core.Status); ok {
			msg.status = st
		}
		if runID, ok := statusRes.Data["run_id"].(string); ok {
			msg.runID = runID
		}
		if ql, ok := statusRes.Data["queue_length"].(int); ok {
			msg.queueLength = ql
		}
		if printers, ok := printersRes.Data["printers"].([]core.PrinterSnapshot); ok {
			msg.printers = printers
		}
		if statsRes := a.manager.Statistics(); statsRes.Success {
			if r, ok := statsRes.Data["report"].(core.Report); ok {
				msg.report = r
			}
		}
		return msg
	})
}

func (a *App) drainLogCmd() tea.Cmd {
	if a.feed == nil {
		return nil
	}
	return func() tea.Msg {
		return logLineMsg(<-a.feed.Lines())
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return a, tea.Quit
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case pollMsg:
		a.status = msg.status
		a.runID = msg.runID
		a.queueLength = msg.queueLength
		a.printers = msg.printers
		a.report = msg.report
		cmds = append(cmds, a.pollCmd())

	case logLineMsg:
		a.appendLog(string(msg))
		cmds = append(cmds, a.drainLogCmd())
	}

	return a, tea.Batch(cmds...)
}

func (a *App) appendLog(line string) {
	stamp := time.Now().Format("15:04:05")
	a.logs = append(a.logs, fmt.Sprintf("%s  %s", stamp, line))
	if len(a.logs) > maxLogLines {
		a.logs = a.logs[len(a.logs)-maxLogLines:]
	}
}

func (a *App) View() string {
	if a.width == 0 {
		return "starting dashboard..."
	}

	consoleHeight := 8
	statusHeight := 1
	bodyHeight := a.height - consoleHeight - statusHeight
	if bodyHeight < 3 {
		bodyHeight = 3
	}

	sidebarWidth := 28
	contentWidth := a.width - sidebarWidth
	if contentWidth < 10 {
		contentWidth = 10
	}

	sidebar := lipgloss.NewStyle().Width(sidebarWidth).Height(bodyHeight).Render(
		SidebarStyle.Width(sidebarWidth).Height(bodyHeight).Render(a.renderSidebar()),
	)
	content := lipgloss.NewStyle().Width(contentWidth).Height(bodyHeight).Render(
		ContentStyle.Width(contentWidth).Height(bodyHeight).Render(a.renderContent()),
	)
	body := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, content)

	console := ConsoleStyle.Width(a.width).Height(consoleHeight).Render(a.renderConsole(consoleHeight))
	status := a.renderStatusBar()

	return lipgloss.JoinVertical(lipgloss.Left, body, console, status)
}

func (a *App) renderSidebar() string {
	var b strings.Builder
	b.WriteString(LogoStyle.Render("printsim") + "\n\n")
	b.WriteString(TextMuted.Render("printers") + "\n\n")

	if len(a.printers) == 0 {
		b.WriteString(TextMuted.Render("(none active)\n"))
	}
	for _, p := range a.printers {
		state := "idle"
		if !p.Active {
			state = "off"
		} else if !p.Idle {
			state = "serving"
		}
		label := fmt.Sprintf("%s printer %d", StatusIcon(state), p.ID)
		b.WriteString(label + "\n")
		b.WriteString(TextMuted.Render(fmt.Sprintf("  paper %d/%d", p.CurrentPaperCount, p.Capacity)) + "\n")
	}

	return b.String()
}

func (a *App) renderContent() string {
	var b strings.Builder

	spin := a.spinner.View()
	if a.status != core.StatusRunning {
		spin = " "
	}
	b.WriteString(fmt.Sprintf("%s %s\n\n", spin, CardTitleStyle.Render("simulation status: "+string(a.status))))

	if a.runID != "" {
		b.WriteString(TextMuted.Render("run "+Truncate(a.runID, 13)) + "\n")
	}
	b.WriteString(fmt.Sprintf("queue length: %d\n\n", a.queueLength))

	r := a.report
	b.WriteString(CardTitleStyle.Render("throughput") + "\n")
	b.WriteString(fmt.Sprintf("arrived %d  served %d  dropped %d  removed %d\n\n",
		r.TotalJobsArrived, r.TotalJobsServed, r.TotalJobsDropped, r.TotalJobsRemoved))

	b.WriteString(CardTitleStyle.Render("timing") + "\n")
	b.WriteString(fmt.Sprintf("avg system time %.2fms   avg queue wait %.2fms\n", r.AvgSystemTimeUS/1000, r.AvgQueueWaitUS/1000))
	b.WriteString(fmt.Sprintf("avg queue length %.2f   max queue length %d\n", r.AvgQueueLength, r.MaxQueueLength))
	b.WriteString(fmt.Sprintf("arrival rate %.2f/s   drop probability %.2f%%\n\n", r.ArrivalRatePerSec, r.DropProbability*100))

	b.WriteString(CardTitleStyle.Render("paper") + "\n")
	b.WriteString(fmt.Sprintf("refills %d   papers refilled %d\n", r.PaperRefillEvents, r.PapersRefilled))

	return b.String()
}

func (a *App) renderConsole(height int) string {
	start := 0
	visible := height - 1
	if visible < 1 {
		visible = 1
	}
	if len(a.logs) > visible {
		start = len(a.logs) - visible
	}
	return strings.Join(a.logs[start:], "\n")
}

func (a *App) renderStatusBar() string {
	help := RenderHelp("q", "quit")
	return HelpBarStyle.Width(a.width).Render(help)
}

// Run starts the dashboard program, blocking until the user quits.
func Run(manager *runtime.Manager, feed *LogFeed) error {
	p := tea.NewProgram(NewApp(manager, feed), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

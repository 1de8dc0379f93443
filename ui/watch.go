// Package ui renders a live terminal view of an in-progress collection
// run: target, elapsed time, sample count and running CPU/memory stats.
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/soakops/soakmon/collector"
	"github.com/soakops/soakmon/util"
)

type tickMsg time.Time

// refreshInterval is how often the view re-reads collector state. It is
// independent of the sample rate so a slow sampler still gets a live
// elapsed clock.
const refreshInterval = time.Second

// Model is the bubbletea model for the watch view.
type Model struct {
	col    *collector.Collector
	cancel func()
	width  int
	height int
	done   bool
}

// NewModel builds a watch view over a running collector. cancel stops
// the collection when the user quits the view.
func NewModel(col *collector.Collector, cancel func()) Model {
	return Model{col: col, cancel: cancel}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.done = true
			m.cancel()
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tickMsg:
		return m, tick()
	}
	return m, nil
}

func (m Model) View() string {
	if m.done {
		return ""
	}
	st := m.col.Status()

	var b strings.Builder
	b.WriteString(titleStyle.Render("soakmon"))
	b.WriteString(labelStyle.Render("  watching "))
	b.WriteString(valueStyle.Render(st.Target))
	b.WriteString("\n\n")

	elapsed := time.Duration(0)
	if !st.Started.IsZero() {
		elapsed = time.Since(st.Started)
	}
	b.WriteString(row("Elapsed", util.FormatElapsed(elapsed)))
	b.WriteString(row("Samples", fmt.Sprintf("%d", st.Count)))
	b.WriteString(row("Log", st.LogPath))
	if st.Failures > 0 {
		b.WriteString(labelStyle.Render("  Failures  "))
		b.WriteString(warnStyle.Render(fmt.Sprintf("%d consecutive", st.Failures)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if st.Count > 0 {
		b.WriteString(metricPanel("CPU (%)", st.Latest.CPUPercent, st.CPUMin, st.CPUMax, st.CPUAvg,
			cpuColor(st.Latest.CPUPercent)))
		b.WriteString("\n")
		b.WriteString(metricPanel("Memory (MB)", st.Latest.MemoryMB, st.MemMin, st.MemMax, st.MemAvg, valueStyle))
		b.WriteString("\n")
	} else {
		b.WriteString(labelStyle.Render("  waiting for first sample..."))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("  q quit and stop collection"))
	b.WriteString("\n")
	return b.String()
}

func row(label, value string) string {
	return labelStyle.Render(fmt.Sprintf("  %-9s", label)) + " " + valueStyle.Render(value) + "\n"
}

func metricPanel(name string, latest, min, max, avg float64, latestStyle lipgloss.Style) string {
	body := fmt.Sprintf("%s\n%s %s\n%s %.2f   %s %.2f   %s %.2f",
		titleStyle.Render(name),
		labelStyle.Render("now"), latestStyle.Render(fmt.Sprintf("%.2f", latest)),
		labelStyle.Render("min"), min,
		labelStyle.Render("max"), max,
		labelStyle.Render("avg"), avg,
	)
	return panelStyle.Render(body)
}

// Run starts the watch TUI and blocks until the user quits it.
func Run(col *collector.Collector, cancel func()) error {
	p := tea.NewProgram(NewModel(col, cancel))
	_, err := p.Run()
	return err
}

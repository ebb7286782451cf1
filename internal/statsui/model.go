// Package statsui provides the Bubble Tea stats interface.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/s0u7a/pri-training/internal/model"
	"github.com/s0u7a/pri-training/internal/stats"
	"github.com/s0u7a/pri-training/internal/store"
)

const (
	tabOverview = iota
	tabCurves
)

const (
	plotHeight     = 10
	recentSessions = 15
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

var curveWindows = []int{1, 5, 10, 20, 50}

// Model implements the Bubble Tea stats UI.
type Model struct {
	store *store.Store
	cfg   model.StatsConfig

	report stats.Report
	errMsg string

	tabs      []string
	activeTab int
	viewports []viewport.Model

	width  int
	height int
}

// NewModel constructs a stats UI model.
func NewModel(st *store.Store, cfg model.StatsConfig) *Model {
	m := &Model{
		store: st,
		cfg:   cfg,
		tabs:  []string{"Overview", "Curves"},
	}
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "=":
			m.cfg.CurveWindow = stepCurveWindow(m.cfg.CurveWindow, 1)
			m.renderTabContents()
			return m, nil
		case "-":
			m.cfg.CurveWindow = stepCurveWindow(m.cfg.CurveWindow, -1)
			m.renderTabContents()
			return m, nil
		case "g", "home":
			m.viewports[m.activeTab].GotoTop()
			return m, nil
		case "G", "end":
			m.viewports[m.activeTab].GotoBottom()
			return m, nil
		default:
			vp := m.viewports[m.activeTab]
			var cmd tea.Cmd
			vp, cmd = vp.Update(msg)
			m.viewports[m.activeTab] = vp
			return m, cmd
		}
	default:
		return m, nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.renderNav())
	b.WriteString("\n")
	if m.errMsg != "" {
		b.WriteString(errorStyle.Render(m.errMsg))
		b.WriteString("\n")
	}
	b.WriteString(m.viewports[m.activeTab].View())
	b.WriteString("\n")
	b.WriteString(headerStyle.Render(fmt.Sprintf("←/→ tabs · -/= window (%d) · q quit", m.cfg.CurveWindow)))
	return b.String()
}

func (m *Model) renderNav() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) moveTab(delta int) {
	m.activeTab = (m.activeTab + delta + len(m.tabs)) % len(m.tabs)
}

func (m *Model) refreshReport() {
	report, err := stats.BuildReport(context.Background(), m.store, m.cfg)
	if err != nil {
		// Unreadable history degrades to an empty report.
		m.errMsg = fmt.Sprintf("failed to load history: %v", err)
		m.report = stats.Report{}
	} else {
		m.errMsg = ""
		m.report = report
	}
	m.renderTabContents()
}

func (m *Model) updateLayout() {
	navHeight := lipgloss.Height(m.renderNav())
	vpHeight := m.height - navHeight - 2
	if vpHeight < 1 {
		vpHeight = 1
	}
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = vpHeight
	}
	m.renderTabContents()
}

func (m *Model) renderTabContents() {
	var overview bytes.Buffer
	if err := stats.RenderSummary(&overview, m.report); err != nil {
		m.errMsg = fmt.Sprintf("failed to render summary: %v", err)
	}
	if err := stats.RenderRecent(&overview, m.report, recentSessions); err != nil {
		m.errMsg = fmt.Sprintf("failed to render recent sessions: %v", err)
	}
	m.viewports[tabOverview].SetContent(overview.String())

	var curves bytes.Buffer
	if err := stats.RenderCurves(&curves, m.report, m.cfg.CurveWindow, m.width, plotHeight, true); err != nil {
		m.errMsg = fmt.Sprintf("failed to render curves: %v", err)
	}
	if curves.Len() == 0 {
		curves.WriteString("No sessions found.\n")
	}
	m.viewports[tabCurves].SetContent(curves.String())
}

func stepCurveWindow(current, delta int) int {
	idx := 0
	for i, w := range curveWindows {
		if w <= current {
			idx = i
		}
	}
	idx += delta
	if idx < 0 {
		idx = 0
	}
	if idx >= len(curveWindows) {
		idx = len(curveWindows) - 1
	}
	return curveWindows[idx]
}

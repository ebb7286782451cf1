// Package tui provides the Bubble Tea play interface.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/s0u7a/pri-training/internal/engine"
	"github.com/s0u7a/pri-training/internal/model"
	"github.com/s0u7a/pri-training/internal/scoring"
	"github.com/s0u7a/pri-training/internal/store"
)

type screen int

const (
	screenMenu screen = iota
	screenActive
	screenResult
)

// tickMsg carries the session it was scheduled for; ticks from an
// abandoned session are dropped.
type tickMsg struct {
	session int
}

// advanceMsg ends the feedback delay for one specific trial.
type advanceMsg struct {
	session int
	seq     int
}

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	correctStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")).Bold(true)
	wrongStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
	symbolStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

var menuModes = []model.Mode{model.ModeMatch, model.ModeCoding}

// Model implements the Bubble Tea play UI.
type Model struct {
	eng *engine.Engine
	st  *store.Store

	screen screen
	width  int
	height int

	menuMode  int
	menuLimit int

	// session increments on every start/abandon so stale tick and
	// advance messages become no-ops.
	session int

	lastCorrect  bool
	showFeedback bool

	lastIndex int
	bestIndex int
	haveStats bool
}

// NewModel constructs a play UI model. st may be nil when history is
// unavailable; play continues without persistence.
func NewModel(eng *engine.Engine, st *store.Store, cfg model.PlayConfig) *Model {
	m := &Model{eng: eng, st: st}
	for i, mode := range menuModes {
		if mode == cfg.Mode {
			m.menuMode = i
		}
	}
	for i, limit := range model.TimeLimits {
		if limit == cfg.Limit {
			m.menuLimit = i
		}
	}
	m.loadHistory()
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
		return m, nil
	case tickMsg:
		return m.handleTick(msg)
	case advanceMsg:
		m.handleAdvance(msg)
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	switch m.screen {
	case screenMenu:
		return m.handleMenuKey(msg)
	case screenActive:
		return m.handleActiveKey(msg)
	default:
		return m.handleResultKey(msg)
	}
}

func (m *Model) handleMenuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "left", "h", "right", "l":
		m.menuMode = (m.menuMode + 1) % len(menuModes)
		return m, nil
	case "up", "k":
		m.menuLimit = (m.menuLimit + len(model.TimeLimits) - 1) % len(model.TimeLimits)
		return m, nil
	case "down", "j", "tab":
		m.menuLimit = (m.menuLimit + 1) % len(model.TimeLimits)
		return m, nil
	case "enter":
		return m, m.startSession()
	default:
		return m, nil
	}
}

func (m *Model) startSession() tea.Cmd {
	m.session++
	m.showFeedback = false
	m.screen = screenActive
	m.eng.Start(menuModes[m.menuMode], model.TimeLimits[m.menuLimit])
	return m.tickCmd()
}

func (m *Model) tickCmd() tea.Cmd {
	session := m.session
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{session: session}
	})
}

func (m *Model) handleTick(msg tickMsg) (tea.Model, tea.Cmd) {
	if msg.session != m.session || m.screen != screenActive {
		return m, nil
	}
	finalized, err := m.eng.Tick(context.Background())
	if err != nil {
		logErrf("failed to save session: %v\n", err)
	}
	if finalized {
		m.finishSession()
		return m, nil
	}
	return m, m.tickCmd()
}

func (m *Model) handleAdvance(msg advanceMsg) {
	if msg.session != m.session || m.screen != screenActive {
		return
	}
	if msg.seq != m.eng.Snapshot().Seq {
		return
	}
	m.showFeedback = false
	m.eng.Advance()
}

func (m *Model) handleActiveKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	snap := m.eng.Snapshot()
	switch msg.String() {
	case "esc":
		// Abandon: nothing is persisted, stale callbacks are orphaned.
		m.session++
		m.eng.Reset()
		m.screen = screenMenu
		m.showFeedback = false
		return m, nil
	case "s":
		if !snap.Limit.Bounded() {
			if err := m.eng.Stop(context.Background()); err != nil {
				logErrf("failed to save session: %v\n", err)
			}
			m.finishSession()
			return m, nil
		}
	}
	answer, ok := keyToAnswer(snap, msg.String())
	if !ok {
		return m, nil
	}
	correct, accepted := m.eng.Submit(answer)
	if !accepted {
		return m, nil
	}
	m.lastCorrect = correct
	m.showFeedback = true
	session, seq := m.session, snap.Seq
	return m, tea.Tick(snap.Mode.FeedbackDelay(), func(time.Time) tea.Msg {
		return advanceMsg{session: session, seq: seq}
	})
}

// keyToAnswer maps a key press to a mode-specific answer. Match mode
// uses f (present) and j (absent); coding mode uses 1-5 selecting the
// on-screen button at that position.
func keyToAnswer(snap engine.Snapshot, key string) (engine.Answer, bool) {
	switch snap.Mode {
	case model.ModeMatch:
		switch key {
		case "f":
			return engine.MatchAnswer{Present: true}, true
		case "j":
			return engine.MatchAnswer{Present: false}, true
		}
	case model.ModeCoding:
		if snap.Coding == nil || len(key) != 1 || key[0] < '1' || key[0] > '5' {
			return nil, false
		}
		pos := int(key[0] - '1')
		return engine.CodingAnswer{Digit: snap.Coding.ButtonOrder[pos]}, true
	}
	return nil, false
}

func (m *Model) finishSession() {
	m.screen = screenResult
	m.showFeedback = false
	if result := m.eng.Result(); result != nil && scoring.Measurable(result.ElapsedSeconds) {
		m.lastIndex = result.Index
		if result.Index > m.bestIndex {
			m.bestIndex = result.Index
		}
		m.haveStats = true
	}
}

func (m *Model) handleResultKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "enter", "esc":
		m.eng.Reset()
		m.screen = screenMenu
		return m, nil
	default:
		return m, nil
	}
}

func (m *Model) loadHistory() {
	if m.st == nil {
		return
	}
	summaries, err := m.st.ListSummaries(context.Background(), model.StatsConfig{})
	if err != nil {
		// Unreadable history degrades to an empty one.
		logErrf("failed to load history: %v\n", err)
		return
	}
	for _, s := range summaries {
		m.lastIndex = s.Index
		if s.Index > m.bestIndex {
			m.bestIndex = s.Index
		}
		m.haveStats = true
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	var content string
	switch m.screen {
	case screenMenu:
		content = m.viewMenu()
	case screenActive:
		content = m.viewActive()
	default:
		content = m.viewResult()
	}
	if m.width == 0 || m.height == 0 {
		return content
	}
	footer := m.renderFooter()
	if footer == "" || m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) renderFooter() string {
	if !m.haveStats {
		return ""
	}
	return footerStyle.Render(fmt.Sprintf("Last index %d  Best %d", m.lastIndex, m.bestIndex))
}

func (m *Model) viewMenu() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("pri — processing speed trainer"))
	b.WriteString("\n\n")

	labels := make([]string, len(menuModes))
	for i, mode := range menuModes {
		label := string(mode)
		if i == m.menuMode {
			label = selectedStyle.Render("[" + label + "]")
		} else {
			label = dimStyle.Render(" " + label + " ")
		}
		labels[i] = label
	}
	b.WriteString("Mode:  " + strings.Join(labels, "  "))
	b.WriteString("\n")

	limits := make([]string, len(model.TimeLimits))
	for i, limit := range model.TimeLimits {
		label := limit.String()
		if i == m.menuLimit {
			label = selectedStyle.Render("[" + label + "]")
		} else {
			label = dimStyle.Render(" " + label + " ")
		}
		limits[i] = label
	}
	b.WriteString("Time:  " + strings.Join(limits, "  "))
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render("←/→ mode · ↑/↓ time · enter start · q quit"))
	return b.String()
}

func (m *Model) viewActive() string {
	snap := m.eng.Snapshot()
	var b strings.Builder

	clock := fmt.Sprintf("%ds", snap.DisplayedTime)
	if !snap.Limit.Bounded() {
		clock += " ↑"
	}
	b.WriteString(dimStyle.Render(fmt.Sprintf("%s   score %d   mistakes %d", clock, snap.Score, snap.Mistakes)))
	b.WriteString("\n\n")

	switch snap.Mode {
	case model.ModeCoding:
		b.WriteString(viewCodingTrial(snap))
	default:
		b.WriteString(viewMatchTrial(snap))
	}

	b.WriteString("\n\n")
	if m.showFeedback {
		if m.lastCorrect {
			b.WriteString(correctStyle.Render("✓ correct"))
		} else {
			b.WriteString(wrongStyle.Render("✗ wrong"))
		}
	} else {
		b.WriteString(m.helpLine(snap))
	}
	return b.String()
}

func (m *Model) helpLine(snap engine.Snapshot) string {
	switch {
	case snap.Mode == model.ModeCoding && !snap.Limit.Bounded():
		return dimStyle.Render("1-5 pick button · esc abort")
	case snap.Mode == model.ModeCoding:
		return dimStyle.Render("1-5 pick button · s stop · esc abort")
	case !snap.Limit.Bounded():
		return dimStyle.Render("f present · j absent · s stop · esc abort")
	default:
		return dimStyle.Render("f present · j absent · esc abort")
	}
}

func viewMatchTrial(snap engine.Snapshot) string {
	trial := snap.Match
	if trial == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString("Targets  ")
	b.WriteString(symbolStyle.Render(padGlyph(trial.Targets[0].Glyph()) + " " + padGlyph(trial.Targets[1].Glyph())))
	b.WriteString("\n\n")
	cells := make([]string, len(trial.SearchSet))
	for i, sym := range trial.SearchSet {
		cells[i] = padGlyph(sym.Glyph())
	}
	b.WriteString("Set      ")
	b.WriteString(symbolStyle.Render(strings.Join(cells, " ")))
	return b.String()
}

func viewCodingTrial(snap engine.Snapshot) string {
	trial := snap.Coding
	if trial == nil {
		return ""
	}
	var b strings.Builder
	keyCells := make([]string, 0, 5)
	for digit := 1; digit <= 5; digit++ {
		keyCells = append(keyCells, fmt.Sprintf("%d:%s", digit, padGlyph(trial.SymbolFor(digit).Glyph())))
	}
	b.WriteString(dimStyle.Render("Key   " + strings.Join(keyCells, "  ")))
	b.WriteString("\n\n")
	b.WriteString("Find  " + selectedStyle.Render(fmt.Sprintf("%d", trial.TargetDigit)))
	b.WriteString("\n\n")
	buttons := make([]string, 0, 5)
	for pos, digit := range trial.ButtonOrder {
		buttons = append(buttons, fmt.Sprintf("[%d]%s", pos+1, padGlyph(trial.SymbolFor(digit).Glyph())))
	}
	b.WriteString(symbolStyle.Render(strings.Join(buttons, "  ")))
	return b.String()
}

func (m *Model) viewResult() string {
	result := m.eng.Result()
	if result == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("Session complete"))
	b.WriteString("\n\n")
	if scoring.Measurable(result.ElapsedSeconds) {
		b.WriteString(fmt.Sprintf("Index     %s\n", selectedStyle.Render(fmt.Sprintf("%d", result.Index))))
	} else {
		b.WriteString(wrongStyle.Render("Measurement not possible (under 10s)"))
		b.WriteString("\n")
	}
	b.WriteString(fmt.Sprintf("Mode      %s\n", result.Mode))
	b.WriteString(fmt.Sprintf("Score     %d\n", result.Score))
	b.WriteString(fmt.Sprintf("Mistakes  %d\n", result.Mistakes))
	b.WriteString(fmt.Sprintf("Time      %ds\n\n", result.ElapsedSeconds))
	b.WriteString(dimStyle.Render("enter menu · q quit"))
	return b.String()
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

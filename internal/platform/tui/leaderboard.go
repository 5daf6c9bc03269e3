package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-minesweeper/internal/config"
	"github.com/vovakirdan/tui-minesweeper/internal/stats"
	"github.com/vovakirdan/tui-minesweeper/internal/storage"
)

// Leaderboard layout constants
const (
	minWidthForSidebar = 70 // Minimum width to show the difficulty sidebar
	sidebarWidth       = 18 // Width of the difficulty sidebar
	maxEntries         = 50 // Max leaderboard rows to load
	queryTimeout       = 3 * time.Second
)

// LeaderboardKeyMap defines the key bindings for the leaderboard.
type LeaderboardKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	NextTab key.Binding
	PrevTab key.Binding
	Back    key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k LeaderboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextTab, k.PrevTab, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k LeaderboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextTab, k.PrevTab},
		{k.Back, k.Quit},
	}
}

// DefaultLeaderboardKeyMap returns default key bindings.
func DefaultLeaderboardKeyMap() LeaderboardKeyMap {
	return LeaderboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next difficulty"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev difficulty"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// LeaderboardModel shows the best streaks per difficulty.
type LeaderboardModel struct {
	difficulties []config.Difficulty
	cursor       int
	store        *storage.Store
	player       string
	entries      []storage.LeaderboardEntry
	summary      storage.Summary
	own          *stats.Streak
	err          error
	table        table.Model
	help         help.Model
	keys         LeaderboardKeyMap
	width        int
	height       int
	quitting     bool
	goingBack    bool
	showSidebar  bool
}

// NewLeaderboardModel creates a leaderboard model. player may be empty.
func NewLeaderboardModel(store *storage.Store, player string, width, height int) LeaderboardModel {
	defaults := config.DefaultMinesweeperConfig()
	difficulties := make([]config.Difficulty, 0, len(config.RankedDifficulties()))
	for _, id := range config.RankedDifficulties() {
		d, err := defaults.Preset(id)
		if err != nil {
			d = config.Difficulty{ID: id, Name: string(id)}
		}
		difficulties = append(difficulties, d)
	}

	h := help.New()
	h.ShowAll = false

	m := LeaderboardModel{
		difficulties: difficulties,
		store:        store,
		player:       player,
		keys:         DefaultLeaderboardKeyMap(),
		help:         h,
		width:        width,
		height:       height,
		showSidebar:  width >= minWidthForSidebar,
	}

	m.table = m.createTable()
	m.load()

	return m
}

// createTable creates a new table with appropriate columns.
func (m *LeaderboardModel) createTable() table.Model {
	nameWidth := 20
	tableWidth := m.width - 4
	if m.showSidebar {
		tableWidth -= sidebarWidth + 3
	}
	if tableWidth > 40 {
		nameWidth = min(tableWidth-20, 30)
	}

	columns := []table.Column{
		{Title: "Rank", Width: 6},
		{Title: "Player", Width: nameWidth},
		{Title: "Best streak", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-10, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// current returns the difficulty being shown.
func (m *LeaderboardModel) current() config.Difficulty {
	return m.difficulties[m.cursor]
}

// load fetches the leaderboard, summary and own streak for the current tab.
func (m *LeaderboardModel) load() {
	m.entries, m.summary, m.own, m.err = nil, storage.Summary{}, nil, nil

	if m.store == nil || len(m.difficulties) == 0 {
		m.updateTableRows()
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	id := m.current().ID
	m.entries, m.err = m.store.Leaderboard(ctx, id, maxEntries)
	if m.err == nil {
		m.summary, m.err = m.store.Summarize(ctx, id)
	}
	if m.err == nil && m.player != "" {
		streaks, err := m.store.Streaks(ctx, m.player)
		if err != nil {
			m.err = err
		}
		for i := range streaks {
			if streaks[i].Difficulty == id {
				m.own = &streaks[i]
			}
		}
	}

	m.updateTableRows()
}

// updateTableRows updates the table with current entries.
func (m *LeaderboardModel) updateTableRows() {
	rows := make([]table.Row, len(m.entries))
	for i, e := range m.entries {
		rows[i] = table.Row{
			fmt.Sprintf("#%d", i+1),
			e.Name,
			fmt.Sprintf("%d", e.Score),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the leaderboard model.
func (m LeaderboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the leaderboard.
func (m LeaderboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextTab):
			if len(m.difficulties) > 0 {
				m.cursor = (m.cursor + 1) % len(m.difficulties)
				m.load()
			}
			return m, nil

		case key.Matches(msg, m.keys.PrevTab):
			if len(m.difficulties) > 0 {
				m.cursor = (m.cursor - 1 + len(m.difficulties)) % len(m.difficulties)
				m.load()
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

var (
	lbTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	lbDimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	lbBoxStyle   = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
)

// View renders the leaderboard.
func (m LeaderboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	title := "LEADERBOARD"
	if len(m.difficulties) > 0 {
		title = fmt.Sprintf("LEADERBOARD - %s", m.current().Name)
	}
	b.WriteString(centerText(lbTitleStyle.Render(title), m.width))
	b.WriteString("\n\n")

	if m.showSidebar {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), "  ", lbBoxStyle.Render(m.renderContent())))
	} else {
		b.WriteString(centerText(m.renderTabs(), m.width))
		b.WriteString("\n\n")
		b.WriteString(lbBoxStyle.Render(m.renderContent()))
	}

	b.WriteString("\n")
	b.WriteString(lbDimStyle.Render(m.renderSummary()))
	b.WriteString("\n")
	b.WriteString(lbDimStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderSidebar lists the difficulties.
func (m LeaderboardModel) renderSidebar() string {
	var sb strings.Builder
	sb.WriteString("Difficulty\n")
	sb.WriteString(strings.Repeat("-", sidebarWidth-4))
	sb.WriteString("\n")

	for i, d := range m.difficulties {
		if i == m.cursor {
			sb.WriteString(lbTitleStyle.Render("> " + d.Name))
		} else {
			sb.WriteString("  " + d.Name)
		}
		sb.WriteString("\n")
	}

	return lbBoxStyle.Width(sidebarWidth).Render(sb.String())
}

// renderTabs shows the difficulties in one line for narrow terminals.
func (m LeaderboardModel) renderTabs() string {
	active := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)

	tabs := make([]string, len(m.difficulties))
	for i, d := range m.difficulties {
		if i == m.cursor {
			tabs[i] = active.Render(d.Name)
		} else {
			tabs[i] = lbDimStyle.Render(" " + d.Name + " ")
		}
	}
	return strings.Join(tabs, " ")
}

// renderContent renders the table or a placeholder.
func (m LeaderboardModel) renderContent() string {
	empty := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)

	switch {
	case m.store == nil:
		return empty.Render("Stats are disabled.\nStart with --db to keep streaks.")
	case m.err != nil:
		return empty.Render("Cannot load leaderboard:\n" + m.err.Error())
	case len(m.entries) == 0:
		return empty.Render("No streaks recorded yet.\nWin a game to get on the board!")
	}
	return m.table.View()
}

// renderSummary describes the difficulty's history and the viewer's streak.
func (m LeaderboardModel) renderSummary() string {
	if m.store == nil || m.err != nil {
		return ""
	}

	parts := []string{fmt.Sprintf("%d games, %d wins", m.summary.Games, m.summary.Wins)}
	if m.summary.BestTime > 0 {
		parts = append(parts, fmt.Sprintf("fastest win %ds", m.summary.BestTime))
	}
	if m.own != nil {
		parts = append(parts, fmt.Sprintf("your streak %d (best %d)", m.own.Current, m.own.Best))
	}
	return strings.Join(parts, "  |  ")
}

// IsGoingBack returns true if user wants to go back to menu.
func (m LeaderboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m LeaderboardModel) IsQuitting() bool {
	return m.quitting
}

// RunLeaderboard runs the leaderboard screen.
// Returns true if user wants to go back to menu, false if quitting.
func RunLeaderboard(store *storage.Store, player string, width, height int) (goBack bool, err error) {
	model := NewLeaderboardModel(store, player, width, height)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(LeaderboardModel)
	if !ok {
		return false, nil
	}

	return m.IsGoingBack(), nil
}

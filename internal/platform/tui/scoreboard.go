package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-2048/internal/storage"
)

const maxScores = 100 // Max scores to load

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextGame key.Binding
	PrevGame key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextGame, k.PrevGame, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextGame, k.PrevGame},
		{k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextGame: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab/→", "next size"),
		),
		PrevGame: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab/←", "prev size"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q/esc", "quit"),
		),
	}
}

// ScoreboardModel is the Bubble Tea model for the high score screen. It has
// one tab per board size that has been played.
type ScoreboardModel struct {
	gameIDs    []string
	gameCursor int
	store      *storage.Store
	scores     []storage.Result
	stats      *storage.GameStats
	loadErr    error
	table      table.Model
	help       help.Model
	keys       ScoreboardKeyMap
	width      int
	height     int
	quitting   bool
}

// NewScoreboardModel creates a scoreboard that opens on gameID.
func NewScoreboardModel(store *storage.Store, gameID string, width, height int) ScoreboardModel {
	m := ScoreboardModel{
		store:  store,
		keys:   DefaultScoreboardKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}

	m.gameIDs = []string{gameID}
	if store != nil {
		if all, err := store.GetAllGamesStats(); err == nil {
			for id := range all {
				if id != gameID {
					m.gameIDs = append(m.gameIDs, id)
				}
			}
		}
	}
	sort.Strings(m.gameIDs)
	for i, id := range m.gameIDs {
		if id == gameID {
			m.gameCursor = i
		}
	}

	m.table = m.createTable()
	m.loadScores()
	return m
}

// createTable creates a new table with columns fitted to the width.
func (m *ScoreboardModel) createTable() table.Model {
	dateWidth := min(max(m.width-4-6-10-10-8-6, 12), 18)
	columns := []table.Column{
		{Title: "Rank", Width: 6},
		{Title: "Score", Width: 10},
		{Title: "Max tile", Width: 10},
		{Title: "Moves", Width: 8},
		{Title: "Date", Width: dateWidth},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-10, 3)), // Leave room for header, stats and help
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

// loadScores loads results and stats for the selected board size.
func (m *ScoreboardModel) loadScores() {
	m.scores, m.stats, m.loadErr = nil, nil, nil
	if m.store != nil {
		id := m.gameIDs[m.gameCursor]
		m.scores, m.loadErr = m.store.TopScores(id, maxScores)
		if m.loadErr == nil {
			m.stats, m.loadErr = m.store.GetGameStats(id)
		}
	}
	m.updateTableRows()
}

// updateTableRows updates the table with current scores.
func (m *ScoreboardModel) updateTableRows() {
	rows := make([]table.Row, len(m.scores))
	for i, s := range m.scores {
		tile := fmt.Sprintf("%d", s.MaxTile)
		if s.Won {
			tile += " *"
		}
		rows[i] = table.Row{
			fmt.Sprintf("#%d", i+1),
			fmt.Sprintf("%d", s.Score),
			tile,
			fmt.Sprintf("%d", s.Moves),
			s.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextGame):
			m.gameCursor = (m.gameCursor + 1) % len(m.gameIDs)
			m.loadScores()
			return m, nil

		case key.Matches(msg, m.keys.PrevGame):
			m.gameCursor = (m.gameCursor + len(m.gameIDs) - 1) % len(m.gameIDs)
			m.loadScores()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(centerText(titleStyle.Render("HIGH SCORES"), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(m.renderTabs(), m.width))
	b.WriteString("\n\n")

	if m.stats != nil && m.stats.GamesCount > 0 {
		line := fmt.Sprintf("Games: %d  Wins: %d  Best tile: %d  Avg: %.0f",
			m.stats.GamesCount, m.stats.Wins, m.stats.BestTile, m.stats.AvgScore)
		b.WriteString(centerText(helpStyle.Render(line), m.width))
		b.WriteString("\n")
	}

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(tableStyle.Render(m.renderTableContent()))

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderTabs shows one tab per board size.
func (m ScoreboardModel) renderTabs() string {
	activeTabStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)

	tabs := make([]string, len(m.gameIDs))
	for i, id := range m.gameIDs {
		name := strings.TrimPrefix(id, "2048-")
		if i == m.gameCursor {
			tabs[i] = activeTabStyle.Render(name)
		} else {
			tabs[i] = helpStyle.Render(" " + name + " ")
		}
	}
	return strings.Join(tabs, " ")
}

// renderTableContent renders the table or an empty message.
func (m ScoreboardModel) renderTableContent() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)

	switch {
	case m.loadErr != nil:
		return emptyStyle.Render("Cannot load scores:\n" + m.loadErr.Error())
	case len(m.scores) == 0:
		return emptyStyle.Render("No scores recorded yet.\nPlay a game to set a high score!")
	}
	return m.table.View()
}

// RunScoreboard runs the scoreboard screen.
func RunScoreboard(store *storage.Store, gameID string, width, height int) error {
	p := tea.NewProgram(
		NewScoreboardModel(store, gameID, width, height),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}

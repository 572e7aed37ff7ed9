package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-gemfall/internal/core"
	"github.com/vovakirdan/tui-gemfall/internal/games/gemfall"
	"github.com/vovakirdan/tui-gemfall/internal/games/gemfall/boards"
)

// GemfallMode represents the selected game mode.
type GemfallMode int

const (
	GemfallModeCampaign GemfallMode = iota
	GemfallModeZen
)

// GemfallSelection holds the user's selection from the gemfall menu.
type GemfallSelection struct {
	Mode  GemfallMode
	Level int    // 0 = start from beginning, 1-N = specific campaign level
	Board string // board ID for zen mode, empty for configured default
}

// gemfallMenuPage identifies which submenu is active.
type gemfallMenuPage int

const (
	pageMode gemfallMenuPage = iota
	pageLevel
	pageBoard
)

// GemfallModeModel lets users choose mode, starting level, and zen board.
type GemfallModeModel struct {
	page        gemfallMenuPage
	cursor      int
	levelCursor int
	boardCursor int
	boardList   []boards.Definition
	width       int
	height      int
	keyMapper   *KeyMapper
	selection   GemfallSelection
	choosing    bool
	quitting    bool
	back        bool
}

// NewGemfallModeModel creates a new gemfall mode selection model.
func NewGemfallModeModel(width, height int) GemfallModeModel {
	return GemfallModeModel{
		boardList: boards.Defaults(),
		width:     width,
		height:    height,
		keyMapper: NewKeyMapper(),
		choosing:  true,
	}
}

// Init initializes the model.
func (m GemfallModeModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m GemfallModeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}
	return m, nil
}

func (m GemfallModeModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.keyMapper.MapKeyToMenuAction(msg)

	switch m.page {
	case pageLevel:
		return m.handleLevelKey(action)
	case pageBoard:
		return m.handleBoardKey(action)
	default:
		return m.handleModeKey(action)
	}
}

func (m GemfallModeModel) handleModeKey(action MenuAction) (tea.Model, tea.Cmd) {
	switch action {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case MenuActionDown:
		if m.cursor < 3 { // Campaign, Zen, Select Level, Zen Board
			m.cursor++
		}
	case MenuActionSelect:
		switch m.cursor {
		case 0: // Campaign
			m.choosing = false
			m.selection = GemfallSelection{Mode: GemfallModeCampaign}
			return m, tea.Quit
		case 1: // Zen
			m.choosing = false
			m.selection = GemfallSelection{Mode: GemfallModeZen}
			return m, tea.Quit
		case 2: // Select Level
			m.page = pageLevel
			m.levelCursor = 0
		case 3: // Zen with board pick
			m.page = pageBoard
			m.boardCursor = 0
		}
	case MenuActionBack:
		m.back = true
		return m, nil
	}

	return m, nil
}

func (m GemfallModeModel) handleLevelKey(action MenuAction) (tea.Model, tea.Cmd) {
	levelCount := gemfall.LevelCount()

	switch action {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		if m.levelCursor > 0 {
			m.levelCursor--
		}
	case MenuActionDown:
		if m.levelCursor < levelCount-1 {
			m.levelCursor++
		}
	case MenuActionSelect:
		m.choosing = false
		m.selection = GemfallSelection{
			Mode:  GemfallModeCampaign,
			Level: m.levelCursor + 1, // 1-indexed
		}
		return m, tea.Quit
	case MenuActionBack:
		m.page = pageMode
	}

	return m, nil
}

func (m GemfallModeModel) handleBoardKey(action MenuAction) (tea.Model, tea.Cmd) {
	switch action {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		if m.boardCursor > 0 {
			m.boardCursor--
		}
	case MenuActionDown:
		if m.boardCursor < len(m.boardList)-1 {
			m.boardCursor++
		}
	case MenuActionSelect:
		m.choosing = false
		m.selection = GemfallSelection{
			Mode:  GemfallModeZen,
			Board: m.boardList[m.boardCursor].ID,
		}
		return m, tea.Quit
	case MenuActionBack:
		m.page = pageMode
	}

	return m, nil
}

// View renders the current menu page.
func (m GemfallModeModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.page {
	case pageLevel:
		return m.viewLevelSelect()
	case pageBoard:
		return m.viewBoardSelect()
	default:
		return m.viewModeSelect()
	}
}

func (m GemfallModeModel) viewModeSelect() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("G E M F A L L", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Select game mode:", m.width))
	b.WriteString("\n\n")

	modes := []string{
		fmt.Sprintf("Campaign (%d levels)", gemfall.LevelCount()),
		"Zen Mode",
		"Select Level...",
		"Zen on a Board...",
	}

	for i, mode := range modes {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		b.WriteString(centerText(fmt.Sprintf("%s%s", cursor, mode), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText("Enter: Select  |  Esc: Back  |  Q: Quit", m.width))

	return b.String()
}

func (m GemfallModeModel) viewLevelSelect() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("SELECT LEVEL", m.width))
	b.WriteString("\n\n")

	for i, lvl := range gemfall.Levels {
		cursor := "  "
		if i == m.levelCursor {
			cursor = "> "
		}

		line := fmt.Sprintf("%s%2d. %s (Target: %d)", cursor, i+1, lvl.Name, lvl.Target)
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText("Enter: Select  |  Esc: Back  |  Q: Quit", m.width))

	return b.String()
}

func (m GemfallModeModel) viewBoardSelect() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("SELECT BOARD", m.width))
	b.WriteString("\n\n")

	for i, def := range m.boardList {
		cursor := "  "
		if i == m.boardCursor {
			cursor = "> "
		}

		line := fmt.Sprintf("%s%s (%s)", cursor, def.Name, def.Size())
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText("Enter: Select  |  Esc: Back  |  Q: Quit", m.width))

	return b.String()
}

// Selected returns the selection, or nil if still choosing.
func (m GemfallModeModel) Selected() *GemfallSelection {
	if m.choosing {
		return nil
	}
	return &m.selection
}

// IsQuitting returns true if user wants to quit.
func (m GemfallModeModel) IsQuitting() bool {
	return m.quitting
}

// WantsBack returns true if user pressed back.
func (m GemfallModeModel) WantsBack() bool {
	return m.back
}

// RunGemfallModeSelector runs the mode selection and returns the selection.
func RunGemfallModeSelector(cfg core.RuntimeConfig) (*GemfallSelection, core.RuntimeConfig, error) {
	model := NewGemfallModeModel(cfg.ScreenW, cfg.ScreenH)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return nil, cfg, err
	}

	m, ok := finalModel.(GemfallModeModel)
	if !ok {
		return nil, cfg, nil
	}

	if m.IsQuitting() || m.WantsBack() {
		return nil, cfg, nil
	}

	return m.Selected(), cfg, nil
}

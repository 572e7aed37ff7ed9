package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-gemfall/internal/core"
	"github.com/vovakirdan/tui-gemfall/internal/games/gemfall"
	"github.com/vovakirdan/tui-gemfall/internal/multiplayer"
)

// versusGameID is the synthetic menu entry for online races.
// It is not a registered game; the session model intercepts it.
const versusGameID = "versus"

// raceReportTicks controls how often a race reports its score to the
// coordinator (in simulation ticks, 30 = twice per second at 60 fps).
const raceReportTicks = 30

// OnlineState represents the current state of the online matchmaking flow.
type OnlineState int

const (
	OnlineStateChooseMode    OnlineState = iota // Choose Host or Join
	OnlineStateHostWaiting                      // Hosting, waiting for joiner
	OnlineStateJoinEnterCode                    // Entering join code
	OnlineStateJoinWaiting                      // Waiting to connect to host
	OnlineStateRaceStarting                     // Race is starting
)

// RaceInfo carries what the lobby learned when the race started.
type RaceInfo struct {
	MatchID      multiplayer.MatchID
	Side         core.PlayerID
	Seed         int64
	DurationSecs int
}

// OnlineLobbyModel handles the online matchmaking flow.
// Both players end up with the same board seed; the race itself is
// played locally and only scores travel to the coordinator.
type OnlineLobbyModel struct {
	state       OnlineState
	width       int
	height      int
	sessionID   multiplayer.SessionID
	coordinator *multiplayer.Coordinator

	// Host state
	lobbyCode string

	// Join state
	joinCodeInput string
	joinError     string

	// Set when a RaceStartedEvent arrives
	race *RaceInfo

	backToMenu bool
	quitting   bool

	// For receiving events from coordinator
	eventChan <-chan multiplayer.SessionEvent
}

// NewOnlineLobbyModel creates a new online lobby model.
func NewOnlineLobbyModel(
	sessionID multiplayer.SessionID,
	coordinator *multiplayer.Coordinator,
	eventChan <-chan multiplayer.SessionEvent,
	width, height int,
) OnlineLobbyModel {
	return OnlineLobbyModel{
		state:       OnlineStateChooseMode,
		width:       width,
		height:      height,
		sessionID:   sessionID,
		coordinator: coordinator,
		eventChan:   eventChan,
	}
}

// Init initializes the lobby model.
func (m OnlineLobbyModel) Init() tea.Cmd {
	return m.waitForEvent()
}

// waitForEvent returns a command that waits for coordinator events.
func (m OnlineLobbyModel) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		if m.eventChan == nil {
			return nil
		}
		evt, ok := <-m.eventChan
		if !ok {
			return nil
		}
		return evt
	}
}

// Update handles messages.
func (m OnlineLobbyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case multiplayer.LobbyCreatedEvent:
		m.lobbyCode = msg.Code
		m.state = OnlineStateHostWaiting
		return m, m.waitForEvent()
	case multiplayer.LobbyJoinedEvent:
		return m, m.waitForEvent()
	case multiplayer.LobbyErrorEvent:
		m.joinError = msg.Message
		if m.state == OnlineStateJoinWaiting {
			m.state = OnlineStateJoinEnterCode
		}
		return m, m.waitForEvent()
	case multiplayer.LobbyPlayerLeftEvent:
		// Joiner left before the race started, keep waiting
		return m, m.waitForEvent()
	case multiplayer.RaceStartedEvent:
		m.race = &RaceInfo{
			MatchID:      msg.MatchID,
			Side:         msg.Side,
			Seed:         msg.Seed,
			DurationSecs: msg.DurationSecs,
		}
		m.state = OnlineStateRaceStarting
		return m, nil // Exit to start the race
	}
	return m, nil
}

func (m OnlineLobbyModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// Global quit
	if key == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	switch m.state {
	case OnlineStateChooseMode:
		return m.handleChooseModeKey(msg)
	case OnlineStateHostWaiting:
		return m.handleHostWaitingKey(msg)
	case OnlineStateJoinEnterCode:
		return m.handleJoinCodeKey(msg)
	case OnlineStateJoinWaiting:
		return m.handleJoinWaitingKey(msg)
	}

	return m, nil
}

func (m OnlineLobbyModel) handleChooseModeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "h", "H", "1":
		// Host
		m.coordinator.Send(multiplayer.CreateLobbyMsg{
			SessionID: m.sessionID,
			GameID:    "gemfall_zen",
		})
		return m, m.waitForEvent()
	case "j", "J", "2":
		// Join
		m.state = OnlineStateJoinEnterCode
		m.joinCodeInput = ""
		m.joinError = ""
		return m, nil
	case "esc", "b":
		m.backToMenu = true
		return m, nil
	case "q":
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

func (m OnlineLobbyModel) handleHostWaitingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "esc", "b":
		// Cancel lobby
		m.coordinator.Send(multiplayer.CancelLobbyMsg{
			SessionID: m.sessionID,
			Code:      m.lobbyCode,
		})
		m.backToMenu = true
		return m, nil
	case "q":
		// Cancel and quit
		m.coordinator.Send(multiplayer.CancelLobbyMsg{
			SessionID: m.sessionID,
			Code:      m.lobbyCode,
		})
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

func (m OnlineLobbyModel) handleJoinCodeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "esc", "b":
		m.backToMenu = true
		return m, nil
	case "enter":
		if m.joinCodeInput != "" {
			m.state = OnlineStateJoinWaiting
			m.joinError = ""
			m.coordinator.Send(multiplayer.JoinLobbyMsg{
				SessionID: m.sessionID,
				Code:      m.joinCodeInput,
			})
			return m, m.waitForEvent()
		}
	case "backspace":
		if m.joinCodeInput != "" {
			m.joinCodeInput = m.joinCodeInput[:len(m.joinCodeInput)-1]
		}
	default:
		// Accept alphanumeric input for code
		if len(key) == 1 && len(m.joinCodeInput) < 6 {
			c := strings.ToUpper(key)
			if (c[0] >= 'A' && c[0] <= 'Z') || (c[0] >= '0' && c[0] <= '9') {
				m.joinCodeInput += c
			}
		}
	}

	return m, nil
}

func (m OnlineLobbyModel) handleJoinWaitingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "esc", "b":
		// Leave lobby attempt
		m.coordinator.Send(multiplayer.LeaveLobbyMsg{
			SessionID: m.sessionID,
			Code:      m.joinCodeInput,
		})
		m.state = OnlineStateJoinEnterCode
		return m, nil
	}

	return m, nil
}

// View renders the current state.
func (m OnlineLobbyModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	switch m.state {
	case OnlineStateChooseMode:
		b.WriteString(m.viewChooseMode())
	case OnlineStateHostWaiting:
		b.WriteString(m.viewHostWaiting())
	case OnlineStateJoinEnterCode:
		b.WriteString(m.viewJoinEnterCode())
	case OnlineStateJoinWaiting:
		b.WriteString(m.viewJoinWaiting())
	case OnlineStateRaceStarting:
		b.WriteString(m.viewRaceStarting())
	}

	return b.String()
}

func (m OnlineLobbyModel) viewChooseMode() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("VERSUS RACE", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Both players get the same board. Highest score wins.", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("[H] Host a race", m.width))
	b.WriteString("\n")
	b.WriteString(centerText("[J] Join a race", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Esc: Back  |  Q: Quit", m.width))

	return b.String()
}

func (m OnlineLobbyModel) viewHostWaiting() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("HOSTING RACE", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Share this code with your opponent:", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(fmt.Sprintf("[ %s ]", m.lobbyCode), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Waiting for player to join...", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Esc: Cancel  |  Q: Quit", m.width))

	return b.String()
}

func (m OnlineLobbyModel) viewJoinEnterCode() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("JOIN RACE", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Enter the race code:", m.width))
	b.WriteString("\n\n")

	// Display code input with cursor
	codeDisplay := m.joinCodeInput
	if len(codeDisplay) < 6 {
		codeDisplay += "_"
		codeDisplay += strings.Repeat(" ", 5-len(m.joinCodeInput))
	}
	b.WriteString(centerText(fmt.Sprintf("[ %s ]", codeDisplay), m.width))
	b.WriteString("\n")

	if m.joinError != "" {
		b.WriteString("\n")
		b.WriteString(centerText(fmt.Sprintf("Error: %s", m.joinError), m.width))
	}

	b.WriteString("\n\n")
	b.WriteString(centerText("Enter: Connect  |  Esc: Back", m.width))

	return b.String()
}

func (m OnlineLobbyModel) viewJoinWaiting() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("CONNECTING", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(fmt.Sprintf("Joining race: %s", m.joinCodeInput), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Please wait...", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Esc: Cancel", m.width))

	return b.String()
}

func (m OnlineLobbyModel) viewRaceStarting() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("RACE STARTING", m.width))
	b.WriteString("\n\n")

	side := "PLAYER 1"
	if m.race != nil && m.race.Side == core.Player2 {
		side = "PLAYER 2"
	}
	b.WriteString(centerText(fmt.Sprintf("You are: %s", side), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Get ready!", m.width))

	return b.String()
}

// Race returns race info once a RaceStartedEvent arrived, nil before.
func (m OnlineLobbyModel) Race() *RaceInfo {
	return m.race
}

// BackToMenu returns true if user wants to go back to menu.
func (m OnlineLobbyModel) BackToMenu() bool {
	return m.backToMenu
}

// IsQuitting returns true if user wants to quit entirely.
func (m OnlineLobbyModel) IsQuitting() bool {
	return m.quitting
}

// LobbyCode returns the lobby code.
func (m OnlineLobbyModel) LobbyCode() string {
	return m.lobbyCode
}

// RaceModel plays a timed online race. The game runs entirely locally
// on the shared seed; the model reports its score to the coordinator
// and shows the opponent's score from broadcast updates.
type RaceModel struct {
	coordinator *multiplayer.Coordinator
	sessionID   multiplayer.SessionID
	info        RaceInfo
	eventChan   <-chan multiplayer.SessionEvent

	game       *gemfall.Game
	screen     *core.Screen
	config     core.RuntimeConfig
	keyMapper  *KeyMapper
	inputFrame core.InputFrame

	tick          int
	lastReported  int
	stuckSent     bool
	myScore       int
	oppScore      int
	remainingSecs int

	ended     bool
	endReason multiplayer.RaceEndReason
	winner    core.PlayerID

	backToMenu bool
	quitting   bool
}

// NewRaceModel creates a race model for the given race info.
func NewRaceModel(
	coordinator *multiplayer.Coordinator,
	sessionID multiplayer.SessionID,
	eventChan <-chan multiplayer.SessionEvent,
	info RaceInfo,
	cfg core.RuntimeConfig,
) RaceModel {
	cfg.Seed = info.Seed
	if cfg.TickRate <= 0 {
		cfg.TickRate = 60
	}

	return RaceModel{
		coordinator:   coordinator,
		sessionID:     sessionID,
		info:          info,
		eventChan:     eventChan,
		game:          gemfall.NewZen(),
		screen:        core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		config:        cfg,
		keyMapper:     NewKeyMapper(),
		remainingSecs: info.DurationSecs,
	}
}

// Init starts the race.
func (m RaceModel) Init() tea.Cmd {
	m.game.Reset(m.config)
	return tea.Batch(tickCmd(m.config.TickRate), m.waitForEvent())
}

// waitForEvent waits for coordinator broadcasts.
func (m RaceModel) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		if m.eventChan == nil {
			return nil
		}
		evt, ok := <-m.eventChan
		if !ok {
			return nil
		}
		return evt
	}
}

// Update handles messages.
func (m RaceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		return m.handleTick()

	case multiplayer.ScoreUpdateEvent:
		if m.info.Side == core.Player1 {
			m.oppScore = msg.Score2
		} else {
			m.oppScore = msg.Score1
		}
		m.remainingSecs = msg.RemainingSecs
		return m, m.waitForEvent()

	case multiplayer.RaceEndedEvent:
		m.ended = true
		m.endReason = msg.Reason
		m.winner = msg.Winner
		if m.info.Side == core.Player1 {
			m.myScore, m.oppScore = msg.Score1, msg.Score2
		} else {
			m.myScore, m.oppScore = msg.Score2, msg.Score1
		}
		return m, nil
	}

	return m, nil
}

func (m RaceModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.ended {
		switch msg.String() {
		case "b", "esc", "enter":
			m.backToMenu = true
			return m, nil
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	if m.keyMapper.MapKeyToFrame(msg, &m.inputFrame) {
		// Leaving mid-race forfeits
		m.coordinator.Send(multiplayer.LeaveMatchMsg{
			SessionID: m.sessionID,
			MatchID:   m.info.MatchID,
		})
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

func (m RaceModel) handleTick() (tea.Model, tea.Cmd) {
	if m.ended {
		return m, nil
	}

	m.tick++
	m.game.Step(m.inputFrame)
	m.inputFrame.Clear()
	m.myScore = m.game.Score()

	if m.tick%raceReportTicks == 0 && m.myScore != m.lastReported {
		m.coordinator.Send(multiplayer.ScoreReportMsg{
			MatchID:   m.info.MatchID,
			SessionID: m.sessionID,
			Score:     m.myScore,
		})
		m.lastReported = m.myScore
	}

	if !m.stuckSent && m.game.Stuck() {
		m.coordinator.Send(multiplayer.PlayerStuckMsg{
			MatchID:   m.info.MatchID,
			SessionID: m.sessionID,
		})
		m.stuckSent = true
	}

	return m, tickCmd(m.config.TickRate)
}

// View renders the race.
func (m RaceModel) View() string {
	if m.quitting {
		return ""
	}

	if m.ended {
		return m.viewEnded()
	}

	m.game.Render(m.screen)
	m.drawRaceStatus()
	return RenderScreen(m.screen)
}

// drawRaceStatus overlays the race clock and scores on the bottom row.
func (m RaceModel) drawRaceStatus() {
	h := m.screen.Height()
	if h < 2 {
		return
	}

	status := fmt.Sprintf(" You: %d  Opponent: %d  Time: %s ",
		m.myScore, m.oppScore, formatRaceClock(m.remainingSecs))
	m.screen.DrawTextColored(1, h-1, status, core.ColorBrightCyan)
}

func (m RaceModel) viewEnded() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("RACE OVER", m.config.ScreenW))
	b.WriteString("\n\n")

	var verdict string
	switch {
	case m.winner == 0:
		verdict = "It's a draw!"
	case m.winner == m.info.Side:
		verdict = "You win!"
	default:
		verdict = "You lose."
	}
	b.WriteString(centerText(verdict, m.config.ScreenW))
	b.WriteString("\n\n")
	b.WriteString(centerText(fmt.Sprintf("You: %d    Opponent: %d", m.myScore, m.oppScore), m.config.ScreenW))
	b.WriteString("\n")
	b.WriteString(centerText(fmt.Sprintf("(%s)", m.endReason), m.config.ScreenW))
	b.WriteString("\n\n")
	b.WriteString(centerText("Enter/Esc: Menu  |  Q: Quit", m.config.ScreenW))

	return b.String()
}

// BackToMenu returns true if user wants to go back to menu.
func (m RaceModel) BackToMenu() bool {
	return m.backToMenu
}

// IsQuitting returns true if user wants to quit entirely.
func (m RaceModel) IsQuitting() bool {
	return m.quitting
}

// Ended returns true once the race result arrived.
func (m RaceModel) Ended() bool {
	return m.ended
}

// formatRaceClock renders remaining seconds as m:ss.
func formatRaceClock(secs int) string {
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

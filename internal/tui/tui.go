package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/pebbles/internal/game"
	"github.com/lox/pebbles/internal/session"
)

// TUIModel represents the Bubble Tea model for a game of pebbles
type TUIModel struct {
	backend Backend
	logger  *log.Logger
	config  game.Config

	// UI components
	logViewport viewport.Model
	actionInput textinput.Model

	// State
	gameLog     []string
	state       *game.State
	busy        bool
	quitting    bool
	focusedPane int // 0 = log, 1 = input

	// Dimensions
	width       int
	height      int
	initialized bool // Track if viewport has been properly sized

	// Test mode
	testMode    bool
	capturedLog []string // For test assertions
}

// stateMsg carries the result of init, restart or a state query
type stateMsg struct {
	kind  CommandKind
	state *game.State
	err   error
}

// outcomeMsg carries the result of a turn or give-up with the state after it
type outcomeMsg struct {
	kind    CommandKind
	outcome game.Outcome
	state   *game.State
	err     error
}

// NewTUIModel creates a new TUI model playing cfg games on backend
func NewTUIModel(backend Backend, cfg game.Config, logger *log.Logger) *TUIModel {
	return NewTUIModelWithOptions(backend, cfg, logger, false)
}

// NewTUIModelWithOptions creates a new TUI model with test mode option
func NewTUIModelWithOptions(backend Backend, cfg game.Config, logger *log.Logger, testMode bool) *TUIModel {
	// Create viewport for game log with minimal initial size
	// Will be properly sized when WindowSizeMsg arrives
	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.Placeholder = "How many pebbles? (or: give up, restart, help)"
	ti.Focus()
	ti.CharLimit = 64
	ti.Width = 64
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA"))
	ti.Prompt = "> "

	return &TUIModel{
		backend:     backend,
		logger:      logger.WithPrefix("tui"),
		config:      cfg,
		logViewport: vp,
		actionInput: ti,
		gameLog:     []string{},
		focusedPane: 1, // Start with input focused
		testMode:    testMode,
		capturedLog: []string{},
	}
}

// Init starts the first game
func (m *TUIModel) Init() tea.Cmd {
	m.busy = true
	return tea.Batch(textinput.Blink, m.startGame(CommandNone, m.config))
}

// startGame initialises (CommandNone) or restarts a game on the backend
func (m *TUIModel) startGame(kind CommandKind, cfg game.Config) tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		var state *game.State
		var err error
		if kind == CommandRestart {
			state, err = backend.Restart(cfg)
		} else {
			state, err = backend.Init(cfg)
		}
		return stateMsg{kind: kind, state: state, err: err}
	}
}

func (m *TUIModel) queryState() tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		state, err := backend.State()
		return stateMsg{kind: CommandState, state: state, err: err}
	}
}

// play runs a turn or give-up and fetches the resulting state for the sidebar
func (m *TUIModel) play(cmd Command) tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		var outcome game.Outcome
		var err error
		if cmd.Kind == CommandGiveUp {
			outcome, err = backend.GiveUp()
		} else {
			outcome, err = backend.Turn(cmd.Amount)
		}
		if err != nil {
			return outcomeMsg{kind: cmd.Kind, err: err}
		}

		state, err := backend.State()
		return outcomeMsg{kind: cmd.Kind, outcome: outcome, state: state, err: err}
	}
}

// Update handles messages in the TUI
func (m *TUIModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logger.Debug("Updating dimensions", "width", m.width, "height", m.height)

	case stateMsg:
		m.busy = false
		m.handleState(msg)

	case outcomeMsg:
		m.busy = false
		m.handleOutcome(msg)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Sequence(tea.ClearScreen, tea.Quit)
		case "tab":
			// Switch focus between log and input
			if m.focusedPane == 0 {
				m.focusedPane = 1
				m.actionInput.Focus()
			} else {
				m.focusedPane = 0
				m.actionInput.Blur()
			}
		case "enter":
			if m.focusedPane == 1 {
				input := strings.TrimSpace(m.actionInput.Value())
				m.actionInput.SetValue("")
				if cmd := m.processAction(input); cmd != nil {
					return m, cmd
				}
			}
		case "up", "k":
			if m.focusedPane == 0 {
				m.logViewport.ScrollUp(1)
			}
		case "down", "j":
			if m.focusedPane == 0 {
				m.logViewport.ScrollDown(1)
			}
		case "pgup", "b":
			if m.focusedPane == 0 {
				m.logViewport.HalfPageUp()
			}
		case "pgdown", "f":
			if m.focusedPane == 0 {
				m.logViewport.HalfPageDown()
			}
		case "home", "g":
			if m.focusedPane == 0 {
				m.logViewport.GotoTop()
			}
		case "end", "G":
			if m.focusedPane == 0 {
				m.logViewport.GotoBottom()
			}
		}
	}

	var cmd tea.Cmd

	// Only update input if it's focused
	if m.focusedPane == 1 {
		m.actionInput, cmd = m.actionInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// processAction parses one line of input and returns the command that carries
// it out, if any
func (m *TUIModel) processAction(input string) tea.Cmd {
	cmd, err := ParseCommand(input)
	if err != nil {
		m.addEntry(ErrorStyle, err.Error())
		return nil
	}

	switch cmd.Kind {
	case CommandNone:
		return nil
	case CommandHelp:
		for _, line := range helpLines {
			m.addEntry(InfoStyle, line)
		}
		return nil
	case CommandQuit:
		m.quitting = true
		return tea.Sequence(tea.ClearScreen, tea.Quit)
	}

	if m.busy {
		m.addEntry(WarningStyle, "Still waiting for the last move")
		return nil
	}

	m.logger.Debug("Processing command", "input", input)
	m.busy = true

	switch cmd.Kind {
	case CommandRestart:
		// Without a game the backend only accepts init
		if m.state == nil {
			return m.startGame(CommandNone, cmd.Apply(m.config))
		}
		return m.startGame(CommandRestart, cmd.Apply(m.config))
	case CommandState:
		return m.queryState()
	default:
		m.addEntry(UserMoveStyle, describeCommand(cmd))
		return m.play(cmd)
	}
}

func describeCommand(cmd Command) string {
	if cmd.Kind == CommandGiveUp {
		return "> give up"
	}
	return fmt.Sprintf("> take %d", cmd.Amount)
}

func (m *TUIModel) handleState(msg stateMsg) {
	if msg.err != nil {
		m.addError(msg.err)
		return
	}

	if msg.kind == CommandState {
		m.state = msg.state
		m.addEntry(PileStyle, describePile(msg.state))
		return
	}

	m.state = msg.state
	m.config = msg.state.Config()

	m.addEntry(GameLogStyle, "")
	m.addEntry(HeaderStyle, fmt.Sprintf(" New game: %d pebbles, take 1 to %d per turn, %s ",
		msg.state.PebblesCount, msg.state.MaxPebblesPerTurn, msg.state.Difficulty))

	if msg.state.FirstPlayer == game.Program {
		m.addEntry(InfoStyle, "The program goes first")
	} else {
		m.addEntry(InfoStyle, "You go first")
	}

	m.logMoves(msg.state.Moves)
	m.logResult()
}

func (m *TUIModel) handleOutcome(msg outcomeMsg) {
	if msg.err != nil {
		m.addError(msg.err)
		return
	}

	prev := 0
	if m.state != nil {
		prev = len(m.state.Moves)
	}
	m.state = msg.state
	if prev <= len(msg.state.Moves) {
		m.logMoves(msg.state.Moves[prev:])
	}

	if msg.kind == CommandGiveUp {
		m.addEntry(WarningStyle, "You gave up")
	}
	m.logResult()

	m.logger.Debug("Turn complete", "outcome", msg.outcome, "remaining", msg.state.PebblesRemaining)
}

func (m *TUIModel) logMoves(moves []game.Move) {
	for _, move := range moves {
		if move.Player == game.User {
			m.addEntry(UserMoveStyle, fmt.Sprintf("You take %d, %d left", move.Amount, move.Remaining))
		} else {
			m.addEntry(ProgramMoveStyle, fmt.Sprintf("The program takes %d, %d left", move.Amount, move.Remaining))
		}
	}
}

func (m *TUIModel) logResult() {
	if m.state == nil || m.state.Winner == nil {
		return
	}
	if *m.state.Winner == game.User {
		m.addEntry(SuccessStyle, "You win!")
	} else {
		m.addEntry(ErrorStyle, "The program wins")
	}
	m.addEntry(InfoStyle, "Type 'restart' to play again")
}

// addError explains err in terms of the game
func (m *TUIModel) addError(err error) {
	switch {
	case errors.Is(err, game.ErrInvalidMove):
		limit := m.config.MaxPebblesPerTurn
		m.addEntry(ErrorStyle, fmt.Sprintf("You must take between 1 and %d pebbles", limit))
	case errors.Is(err, game.ErrGameFinished):
		m.addEntry(ErrorStyle, "The game is over, type 'restart' to play again")
	case errors.Is(err, game.ErrInvalidConfig):
		m.addEntry(ErrorStyle, "Both pebble counts must be at least 1")
	case errors.Is(err, session.ErrNotInitialized):
		m.addEntry(ErrorStyle, "No game in progress, type 'restart' to start one")
	default:
		m.logger.Error("Command failed", "error", err)
		m.addEntry(ErrorStyle, fmt.Sprintf("Error: %v", err))
	}
}

func describePile(s *game.State) string {
	switch {
	case s.Winner != nil && *s.Winner == game.User:
		return fmt.Sprintf("%d of %d pebbles left, you won", s.PebblesRemaining, s.PebblesCount)
	case s.Winner != nil:
		return fmt.Sprintf("%d of %d pebbles left, the program won", s.PebblesRemaining, s.PebblesCount)
	default:
		return fmt.Sprintf("%d of %d pebbles left, take 1 to %d", s.PebblesRemaining, s.PebblesCount, s.MaxPebblesPerTurn)
	}
}

// View renders the TUI
func (m *TUIModel) View() string {
	if m.quitting {
		return ""
	}

	// Don't render until we have valid dimensions
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	actionContent := m.renderActionPane()
	actionHeight := lipgloss.Height(actionContent)

	actionStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(max(m.width-2, 1)).
		Height(max(actionHeight, 1))
	if m.focusedPane == 1 {
		actionStyle = actionStyle.BorderForeground(lipgloss.Color("#04B575"))
	}
	actionPane := actionStyle.Render(actionContent)

	sidebarContent := m.renderSidebarPane()
	sidebarWidth := max(lipgloss.Width(sidebarContent), 25)
	paneHeight := max(m.height-actionHeight-4, 1) // Account for border x 2 and action pane

	sidebarPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(sidebarWidth).
		Height(paneHeight).
		Render(sidebarContent)

	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	m.logViewport.Width = max(m.width-sidebarWidth-4, 1)
	m.logViewport.Height = paneHeight

	// On first proper sizing, follow the end of the log
	if !m.initialized && m.logViewport.Width > 1 && m.logViewport.Height > 1 {
		m.logViewport.GotoBottom()
		m.initialized = true
	}

	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(m.logViewport.Width).
		Height(paneHeight)
	if m.focusedPane == 0 {
		logStyle = logStyle.BorderForeground(lipgloss.Color("#04B575"))
	}
	logPane := logStyle.Render(m.logViewport.View())

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, logPane, sidebarPane)
	return lipgloss.JoinVertical(lipgloss.Top, topRow, actionPane)
}

// renderSidebarPane shows the pile and the game settings
func (m *TUIModel) renderSidebarPane() string {
	var content strings.Builder

	content.WriteString(HeaderStyle.Render(" Pebbles "))
	content.WriteString("\n\n")

	if m.state == nil {
		content.WriteString(InfoStyle.Render("No game yet"))
		return content.String()
	}

	content.WriteString(PileStyle.Render(fmt.Sprintf("Pile: %d / %d", m.state.PebblesRemaining, m.state.PebblesCount)))
	content.WriteString("\n")
	content.WriteString(strings.Repeat("●", int(min(m.state.PebblesRemaining, 20))))
	if m.state.PebblesRemaining > 20 {
		content.WriteString("…")
	}
	content.WriteString("\n\n")
	content.WriteString(fmt.Sprintf("Max per turn: %d\n", m.state.MaxPebblesPerTurn))
	content.WriteString(fmt.Sprintf("Difficulty:   %s\n", m.state.Difficulty))
	content.WriteString(fmt.Sprintf("First mover:  %s\n", m.state.FirstPlayer))
	content.WriteString("\n")

	switch {
	case m.state.Winner == nil:
		content.WriteString(WarningStyle.Render("Your move"))
	case *m.state.Winner == game.User:
		content.WriteString(SuccessStyle.Render("You won"))
	default:
		content.WriteString(ErrorStyle.Render("The program won"))
	}

	return content.String()
}

// renderActionPane renders the action input pane
func (m *TUIModel) renderActionPane() string {
	var content strings.Builder

	content.WriteString(m.actionInput.View())
	content.WriteString("\n")

	if m.focusedPane == 0 {
		content.WriteString(InfoStyle.Render("Log focused: ↑↓ scroll, PgUp/PgDn half page, Home/End, Tab to input"))
	} else {
		content.WriteString(InfoStyle.Render("Enter to submit • help for commands • Tab to scroll log • Ctrl+C to quit"))
	}

	return content.String()
}

// addEntry appends a styled line to the game log
func (m *TUIModel) addEntry(style lipgloss.Style, entry string) {
	if m.testMode {
		m.capturedLog = append(m.capturedLog, entry)
		m.gameLog = append(m.gameLog, entry)
		return // Skip UI updates in test mode
	}

	m.gameLog = append(m.gameLog, style.Render(entry))
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))

	// Only call GotoBottom if viewport has valid dimensions
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// AddLogEntry adds an unstyled entry to the game log
func (m *TUIModel) AddLogEntry(entry string) {
	m.addEntry(GameLogStyle, entry)
}

// State returns the last game state the model saw
func (m *TUIModel) State() *game.State {
	return m.state
}

// Quitting reports whether the player asked to leave
func (m *TUIModel) Quitting() bool {
	return m.quitting
}

// GetCapturedLog returns the captured log entries (test mode only)
func (m *TUIModel) GetCapturedLog() []string {
	if !m.testMode {
		return nil
	}
	// Return a copy to prevent modification
	result := make([]string, len(m.capturedLog))
	copy(result, m.capturedLog)
	return result
}

// IsTestMode returns whether the TUI is in test mode
func (m *TUIModel) IsTestMode() bool {
	return m.testMode
}

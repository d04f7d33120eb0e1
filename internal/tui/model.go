// Package tui is the interactive playground: a bubbletea program that draws
// a session's frames full screen and maps keys to window and layout actions.
package tui

import (
	"context"
	"errors"
	"io"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/Gaurav-Gosain/tilecols/internal/config"
	"github.com/Gaurav-Gosain/tilecols/internal/host"
	"github.com/Gaurav-Gosain/tilecols/internal/layout"
	"github.com/Gaurav-Gosain/tilecols/internal/render"
	"github.com/Gaurav-Gosain/tilecols/internal/theme"
	"github.com/charmbracelet/log"
)

// Z index of the help overlay; frames use 1 and 2.
const zIndexHelp = 10

// Model is the playground's bubbletea model.
type Model struct {
	ctx        context.Context
	session    *host.Session
	keys       *config.KeybindRegistry
	dispatcher *ActionDispatcher
	logger     *log.Logger

	width, height int
	showHelp      bool
	notice        string
}

// New creates a playground for session. keys may be nil for the default
// bindings and logger may be nil to discard logs.
func New(ctx context.Context, session *host.Session, keys *config.KeybindRegistry, logger *log.Logger) *Model {
	if keys == nil {
		keys = config.NewKeybindRegistry(nil)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	v := session.Snapshot()
	return &Model{
		ctx:        ctx,
		session:    session,
		keys:       keys,
		dispatcher: NewActionDispatcher(),
		logger:     logger,
		width:      int(v.Screen.Width),
		height:     int(v.Screen.Height) + 1,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		// The bottom row is the status line.
		m.session.SetScreen(layout.Rect{Width: float64(msg.Width), Height: float64(max(msg.Height-1, 0))})
		return m, nil

	case tea.KeyPressMsg:
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	key := msg.String()
	action := m.keys.GetAction(key)
	m.notice = ""

	switch action {
	case config.ActionQuit:
		return tea.Quit
	case config.ActionToggleHelp:
		m.showHelp = !m.showHelp
		return nil
	}

	if m.showHelp {
		m.showHelp = false
		return nil
	}
	if action == "" {
		return nil
	}

	if err := m.dispatcher.Dispatch(m.ctx, action, m.session); err != nil {
		m.logger.Debug("action failed", "action", action, "key", key, "err", err)
		m.notice = noticeFor(err, m.session)
	}
	return nil
}

func noticeFor(err error, s *host.Session) string {
	if errors.Is(err, host.ErrUnknownCommand) {
		return "not available in " + s.Strategy().Title()
	}
	return err.Error()
}

// Render draws the whole screen.
func (m *Model) Render() string {
	v := m.session.Snapshot()
	frameH := max(m.height-1, 1)

	opts := render.DefaultOptions(m.width, frameH)
	frames := render.Frames(v, opts)
	status := render.StatusLine(v, m.width, m.notice)
	base := lipgloss.JoinVertical(lipgloss.Left, frames, status)

	if !m.showHelp {
		return base
	}

	help := m.renderHelp()
	x := max((m.width-lipgloss.Width(help))/2, 0)
	y := max((m.height-lipgloss.Height(help))/2, 0)

	canvas := lipgloss.NewCanvas(m.width, m.height)
	canvas.Compose(lipgloss.NewLayer(base).ID("base"))
	canvas.Compose(lipgloss.NewLayer(help).X(x).Y(y).Z(zIndexHelp).ID("help"))
	return canvas.Render()
}

// View implements tea.Model.
func (m *Model) View() tea.View {
	var view tea.View
	view.SetContent(m.Render())
	view.AltScreen = true
	return view
}

func (m *Model) renderHelp() string {
	keyStyle := lipgloss.NewStyle().Foreground(theme.CLITableKey()).Bold(true)
	titleStyle := lipgloss.NewStyle().Foreground(theme.CLITableHeader()).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(theme.LabelFg())

	keyWidth := 0
	sections := config.GetKeybindings(m.keys)
	for _, s := range sections {
		for _, b := range s.Bindings {
			keyWidth = max(keyWidth, lipgloss.Width(b.Key))
		}
	}

	var lines []string
	for i, s := range sections {
		if i > 0 {
			lines = append(lines, "")
		}
		if s.Title != "" {
			lines = append(lines, titleStyle.Render(s.Title))
		}
		for _, b := range s.Bindings {
			pad := strings.Repeat(" ", keyWidth-lipgloss.Width(b.Key))
			lines = append(lines, keyStyle.Render(b.Key)+pad+"  "+descStyle.Render(b.Description))
		}
	}

	return lipgloss.NewStyle().
		Border(config.GetBorderForStyle()).
		BorderForeground(theme.CLITableBorder()).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}

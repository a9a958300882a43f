// Copyright 2026 The Quarterdeck Authors
// SPDX-License-Identifier: Apache-2.0

package menutui

import (
	"context"
	"log/slog"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/quarterdeck-systems/quarterdeck/menu"
)

// Styles holds the lipgloss styles for the session chrome. Colors use
// ANSI 256-color codes for broad terminal compatibility.
type Styles struct {
	Title  lipgloss.Style
	Frame  lipgloss.Style
	Footer lipgloss.Style
	Error  lipgloss.Style
}

// DefaultStyles is the built-in dark-terminal scheme.
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252")),
		Frame: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1),
		Footer: lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")),
	}
}

// Options configures a TUI session.
type Options struct {
	// Prompt overrides the default "> " prompt.
	Prompt string

	// LineBuffer is the line buffer size in bytes. Zero means 256.
	LineBuffer int

	// Title is shown above the session pane. Empty means "quarterdeck".
	Title string

	// Scrollback caps the retained screen lines. Zero means
	// DefaultScrollback.
	Scrollback int

	// Logger receives engine diagnostics. Nil means slog.Default().
	Logger *slog.Logger
}

// Model is the bubbletea model for one menu session. Keystrokes become
// session input bytes; everything the engine writes lands on the
// Screen, whose lines fill the viewport.
type Model struct {
	ctx      context.Context
	runner   *menu.Runner
	screen   *Screen
	styles   Styles
	title    string
	viewport viewport.Model
	ready    bool
	err      error
}

// NewModel builds a session model for root. The menu's entry callback
// and first prompt run here, so the screen already has content before
// the program starts.
func NewModel(ctx context.Context, root *menu.Menu, options Options) (Model, error) {
	lineBuffer := options.LineBuffer
	if lineBuffer <= 0 {
		lineBuffer = 256
	}
	title := options.Title
	if title == "" {
		title = "quarterdeck"
	}

	screen := NewScreen(options.Scrollback)
	runner, err := menu.NewRunner(ctx, root, make([]byte, lineBuffer), screen, menu.Options{
		Prompt: options.Prompt,
		Logger: options.Logger,
	})
	if err != nil {
		return Model{}, err
	}

	return Model{
		ctx:    ctx,
		runner: runner,
		screen: screen,
		styles: DefaultStyles(),
		title:  title,
	}, nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model. Keys that correspond to session bytes
// go to the engine; the rest (page keys, arrows) scroll the viewport.
func (m Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.WindowSizeMsg:
		frameWidth, frameHeight := m.styles.Frame.GetFrameSize()
		// Title and footer take one line each.
		width := message.Width - frameWidth
		height := message.Height - frameHeight - 2
		if width < 1 {
			width = 1
		}
		if height < 1 {
			height = 1
		}
		if !m.ready {
			m.viewport = viewport.New(width, height)
			m.ready = true
		} else {
			m.viewport.Width = width
			m.viewport.Height = height
		}
		m.refresh()

	case tea.KeyMsg:
		if message.Type == tea.KeyCtrlC || message.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		if input, ok := keyBytes(message); ok {
			m.err = m.runner.InputText(m.ctx, string(input))
			m.refresh()
			return m, nil
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(message)
		return m, cmd
	}

	return m, nil
}

// refresh pushes the current screen contents into the viewport and
// follows the cursor.
func (m *Model) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.screen.String())
	m.viewport.GotoBottom()
}

// keyBytes translates a key press into the bytes a terminal would send
// for it. Keys with no byte representation report false and fall
// through to viewport scrolling.
func keyBytes(message tea.KeyMsg) ([]byte, bool) {
	switch message.Type {
	case tea.KeyRunes:
		return []byte(string(message.Runes)), true
	case tea.KeySpace:
		return []byte{' '}, true
	case tea.KeyEnter:
		return []byte{'\r'}, true
	case tea.KeyBackspace:
		return []byte{0x08}, true
	case tea.KeyTab:
		return []byte{'\t'}, true
	default:
		return nil, false
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "starting session..."
	}

	footer := "ctrl-c quit · pgup/pgdn scroll"
	if m.err != nil {
		footer = m.styles.Error.Render("output error: "+m.err.Error()) + "  " + footer
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Title.Render(m.title),
		m.styles.Frame.Render(m.viewport.View()),
		m.styles.Footer.Render(footer),
	)
}

// Run drives a full-screen session for root until the user quits with
// Ctrl-C or Ctrl-D.
func Run(ctx context.Context, root *menu.Menu, options Options) error {
	model, err := NewModel(ctx, root, options)
	if err != nil {
		return err
	}
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = program.Run()
	return err
}

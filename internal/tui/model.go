package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"moviebot/internal/service"
)

// ChatPort is the TUI-facing subset of the bot.
type ChatPort interface {
	Handle(ctx context.Context, message string) service.Response
}

type turn struct {
	user  string
	reply service.Response
}

// replyMsg carries a finished bot reply back into the update loop.
type replyMsg struct {
	user  string
	reply service.Response
}

// Model is the Bubble Tea model for the chat window.
type Model struct {
	ctx      context.Context
	bot      ChatPort
	input    textinput.Model
	viewport viewport.Model
	turns    []turn
	status   string
	pending  bool
	ready    bool
}

// New creates a new chat model. banner is shown under the header.
func New(ctx context.Context, bot ChatPort, banner string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask for a recommendation or a movie fact, then press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{ctx: ctx, bot: bot, input: ti, viewport: vp, status: banner}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := transcriptStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 2 + qh + 1 // header, status, spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.refresh()
		return m, nil
	case replyMsg:
		m.pending = false
		m.turns = append(m.turns, turn{user: msg.user, reply: msg.reply})
		m.status = fmt.Sprintf("intent=%s source=%s route=%s",
			orDash(string(msg.reply.Intent.Intent)), orDash(string(msg.reply.Intent.Source)), msg.reply.Route)
		m.refresh()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		if msg.Type == tea.KeyEnter {
			if m.pending {
				return m, nil
			}
			q := strings.TrimSpace(m.input.Value())
			m.input.Reset()
			m.pending = true
			m.status = "Thinking..."
			return m, m.ask(q)
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) ask(q string) tea.Cmd {
	bot, ctx := m.bot, m.ctx
	return func() tea.Msg {
		return replyMsg{user: q, reply: bot.Handle(ctx, q)}
	}
}

// View renders the header, transcript, input box and status line.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("MovieBot")
	transcript := transcriptStyle.Render(m.viewport.View())
	input := queryBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + transcript + "\n" + input + "\n" + status
}

func (m *Model) refresh() {
	m.viewport.SetContent(renderTranscript(m.turns))
	m.viewport.GotoBottom()
}

func renderTranscript(turns []turn) string {
	if len(turns) == 0 {
		return "No messages yet."
	}
	var b strings.Builder
	for i, t := range turns {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(userStyle.Render("you: "))
		b.WriteString(t.user)
		b.WriteString("\n")
		b.WriteString(botStyle.Render("bot: "))
		b.WriteString(t.reply.Text)
	}
	return b.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

var (
	transcriptStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	statusStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	userStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	botStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)

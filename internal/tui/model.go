package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yungbote/sutra-starters/internal/chat"
)

// Replier is the part of chat.Assistant the terminal needs.
type Replier interface {
	ReplyStream(ctx context.Context, turn chat.Turn, onDelta func(string)) (chat.Reply, error)
}

type Options struct {
	Title    string
	UserID   string
	Language string
}

type entry struct {
	user bool
	text string
}

// Model is the bubbletea model for the chat screen.
type Model struct {
	ctx     context.Context
	replier Replier
	opts    Options

	sessionID string
	entries   []entry
	partial   string
	streaming bool
	stream    <-chan any
	input     []rune
	err       error

	width  int
	height int
	scroll int
}

func New(ctx context.Context, r Replier, opts Options) Model {
	if opts.Title == "" {
		opts.Title = "Sutra Chat"
	}
	if opts.Language == "" {
		opts.Language = "English"
	}
	return Model{ctx: ctx, replier: r, opts: opts, width: 80, height: 24}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case streamStartedMsg:
		m.stream = msg.ch
		return m, waitForStream(m.stream)

	case deltaMsg:
		m.partial += msg.text
		return m, waitForStream(m.stream)

	case replyDoneMsg:
		m.sessionID = msg.reply.SessionID
		m.entries = append(m.entries, entry{text: msg.reply.Text})
		m.partial = ""
		m.streaming = false
		m.stream = nil
		m.scroll = 0
		return m, nil

	case replyErrMsg:
		m.err = msg.err
		m.partial = ""
		m.streaming = false
		m.stream = nil
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyCtrlC, keyEsc:
		return m, tea.Quit
	case keyCtrlL:
		return m.reset(), nil
	case keyUp:
		m.scroll++
		return m, nil
	case keyDown:
		if m.scroll > 0 {
			m.scroll--
		}
		return m, nil
	}
	if m.streaming {
		return m, nil
	}

	switch msg.Type {
	case tea.KeyEnter:
		text := strings.TrimSpace(string(m.input))
		m.input = nil
		switch text {
		case "":
			return m, nil
		case cmdQuit:
			return m, tea.Quit
		case cmdReset:
			return m.reset(), nil
		}
		m.err = nil
		m.entries = append(m.entries, entry{user: true, text: text})
		m.streaming = true
		m.scroll = 0
		return m, m.send(text)
	case tea.KeyBackspace:
		if n := len(m.input); n > 0 {
			m.input = m.input[:n-1]
		}
	case tea.KeySpace:
		m.input = append(m.input, ' ')
	case tea.KeyRunes:
		m.input = append(m.input, msg.Runes...)
	}
	return m, nil
}

// reset clears the screen; the next message opens a new session.
func (m Model) reset() Model {
	m.entries = nil
	m.partial = ""
	m.sessionID = ""
	m.err = nil
	m.scroll = 0
	return m
}

// send starts the reply on a goroutine and returns the channel it streams on.
func (m Model) send(text string) tea.Cmd {
	turn := chat.Turn{UserID: m.opts.UserID, SessionID: m.sessionID, Language: m.opts.Language, Text: text}
	ctx, replier := m.ctx, m.replier
	return func() tea.Msg {
		ch := make(chan any, 64)
		go func() {
			defer close(ch)
			reply, err := replier.ReplyStream(ctx, turn, func(d string) { ch <- deltaMsg{text: d} })
			if err != nil {
				ch <- replyErrMsg{err: err}
				return
			}
			ch <- replyDoneMsg{reply: reply}
		}()
		return streamStartedMsg{ch: ch}
	}
}

func waitForStream(ch <-chan any) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return replyErrMsg{err: fmt.Errorf("reply stream closed")}
		}
		return msg
	}
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.opts.Title))
	b.WriteString(statusStyle.Render(fmt.Sprintf("  %s · enter to send · /reset · esc to quit", m.opts.Language)))
	b.WriteString("\n\n")

	lines := m.transcriptLines()
	avail := max(m.height-6, 3)
	end := max(len(lines)-m.scroll, 0)
	start := max(end-avail, 0)
	for _, l := range lines[start:end] {
		b.WriteString(l)
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString(errorStyle.Render("error: " + m.err.Error()))
		b.WriteString("\n")
	}
	prompt := "> " + string(m.input)
	if m.streaming {
		prompt = statusStyle.Render("thinking...")
	}
	b.WriteString(inputStyle.Width(max(m.width-2, 10)).Render(prompt))
	return b.String()
}

func (m Model) transcriptLines() []string {
	wrap := lipgloss.NewStyle().Width(max(m.width-2, 10))
	var out []string
	add := func(label, text string) {
		out = append(out, label)
		out = append(out, strings.Split(wrap.Render(text), "\n")...)
		out = append(out, "")
	}
	for _, e := range m.entries {
		if e.user {
			add(userLabelStyle.Render("You"), e.text)
		} else {
			add(botLabelStyle.Render("Assistant"), e.text)
		}
	}
	if m.streaming && m.partial != "" {
		add(botLabelStyle.Render("Assistant"), m.partial)
	}
	return out
}

// Run takes over the terminal until the user quits or ctx ends.
func Run(ctx context.Context, r Replier, opts Options) error {
	p := tea.NewProgram(New(ctx, r, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}

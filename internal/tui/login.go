package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/MKhiriev/go-pantry-keeper/internal/adapter"
	"github.com/MKhiriev/go-pantry-keeper/models"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// LoginModel collects credentials and authenticates against the server.
type LoginModel struct {
	ctx           context.Context
	serverAdapter adapter.ServerAdapter

	inputs  []textinput.Model
	focus   int
	waiting bool
	errMsg  string
}

func NewLoginModel(ctx context.Context, serverAdapter adapter.ServerAdapter) *LoginModel {
	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 128
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 128
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return &LoginModel{
		ctx:           ctx,
		serverAdapter: serverAdapter,
		inputs:        []textinput.Model{email, password},
	}
}

func (m *LoginModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *LoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case authDoneMsg:
		m.waiting = false
		if msg.err != nil {
			m.errMsg = loginErrorText(msg.err)
		}
		return m, nil

	case tea.KeyMsg:
		if m.waiting {
			return m, nil
		}
		switch {
		case key.Matches(msg, keys.esc):
			return m, func() tea.Msg { return NavigateTo{Page: "menu"} }
		case key.Matches(msg, keys.tab), key.Matches(msg, keys.down):
			m.setFocus((m.focus + 1) % len(m.inputs))
			return m, nil
		case key.Matches(msg, keys.backtab), key.Matches(msg, keys.up):
			m.setFocus((m.focus + len(m.inputs) - 1) % len(m.inputs))
			return m, nil
		case key.Matches(msg, keys.enter):
			if m.focus < len(m.inputs)-1 {
				m.setFocus(m.focus + 1)
				return m, nil
			}
			return m, m.submit()
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *LoginModel) submit() tea.Cmd {
	email := strings.TrimSpace(m.inputs[0].Value())
	password := m.inputs[1].Value()
	if email == "" || password == "" {
		m.errMsg = "email and password are required"
		return nil
	}

	m.errMsg = ""
	m.waiting = true

	ctx := m.ctx
	serverAdapter := m.serverAdapter
	return func() tea.Msg {
		user, err := serverAdapter.Login(ctx, models.User{Email: email, Password: password})
		if err != nil {
			return authDoneMsg{err: err}
		}
		return authDoneMsg{session: models.Session{UserID: user.UserID, Authenticated: true}}
	}
}

func (m *LoginModel) setFocus(idx int) {
	m.inputs[m.focus].Blur()
	m.focus = idx
	m.inputs[m.focus].Focus()
}

func (m *LoginModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Sign in"))
	b.WriteString("\n\n")

	labels := []string{"Email", "Password"}
	for i, in := range m.inputs {
		b.WriteString(labels[i])
		b.WriteString("\n")
		b.WriteString(in.View())
		b.WriteString("\n\n")
	}

	if m.waiting {
		b.WriteString(helpStyle.Render("signing in..."))
		b.WriteString("\n")
	}
	if m.errMsg != "" {
		b.WriteString(errorStyle.Render(m.errMsg))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("tab next field · enter submit · esc back"))
	return b.String()
}

func loginErrorText(err error) string {
	switch {
	case errors.Is(err, adapter.ErrUnauthorized):
		return "wrong email or password"
	case errors.Is(err, adapter.ErrNotFound):
		return "no account with that email"
	case errors.Is(err, adapter.ErrBadRequest):
		return "invalid email or password format"
	default:
		return "server unavailable, try again later"
	}
}

package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/budgetly/internal/auth"
	"github.com/MrJamesThe3rd/budgetly/internal/user"
)

const (
	modeSignIn   = "signin"
	modeRegister = "register"
)

// LoggedInMsg carries the session token of a successful sign in.
type LoggedInMsg struct {
	Token string
}

type LoginModel struct {
	CommonModel
	deps Deps

	form    *huh.Form
	loading bool
	err     string
}

func NewLoginModel(deps Deps) LoginModel {
	return LoginModel{deps: deps, form: newLoginForm()}
}

// Field values are read back by key.
func newLoginForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("mode").
				Title("Budgetly").
				Options(
					huh.NewOption("Sign in", modeSignIn),
					huh.NewOption("Create account", modeRegister),
				),

			huh.NewInput().
				Key("email").
				Title("Email").
				Validate(func(s string) error {
					if !strings.Contains(s, "@") {
						return fmt.Errorf("enter an email address")
					}
					return nil
				}),

			huh.NewInput().
				Key("name").
				Title("Name (new accounts only)"),

			huh.NewInput().
				Key("password").
				Title("Password").
				EchoMode(huh.EchoModePassword),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m LoginModel) Title() string { return "Sign in" }

func (m LoginModel) ShortHelp() string { return "Enter/Tab: navigate | Ctrl+C: quit" }

func (m LoginModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m LoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if res, ok := msg.(loginResultMsg); ok {
		m.loading = false

		if res.err != "" {
			m.err = res.err
			m.form = newLoginForm()

			return m, m.form.Init()
		}

		return m, func() tea.Msg { return LoggedInMsg{Token: res.token} }
	}

	if m.loading {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.loading = true
	m.err = ""

	return m, m.submitCmd()
}

func (m LoginModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Signing in...")
	}

	errLine := ""
	if m.err != "" {
		errLine = "\n" + errorStyle.Render(m.err)
	}

	return lipgloss.NewStyle().Padding(1).Render(m.form.View() + errLine)
}

type loginResultMsg struct {
	token string
	err   string
}

func (m LoginModel) submitCmd() tea.Cmd {
	c := m.deps.Client
	mode := m.form.GetString("mode")
	email := m.form.GetString("email")
	name := m.form.GetString("name")
	password := m.form.GetString("password")

	return func() tea.Msg {
		ctx, cancel := RequestCtx()
		defer cancel()

		if mode == modeRegister {
			res, err := c.Register(ctx, user.RegisterParams{Email: email, Name: name, Password: password})
			if err != nil {
				return loginResultMsg{err: fmt.Sprintf("Error: %v", err)}
			}

			if !res.Success {
				return loginResultMsg{err: res.Error}
			}
		}

		res, err := c.Login(ctx, auth.LoginInput{Email: email, Password: password})
		if err != nil {
			return loginResultMsg{err: fmt.Sprintf("Error: %v", err)}
		}

		if !res.Success {
			return loginResultMsg{err: res.Error}
		}

		return loginResultMsg{token: res.Data.Token}
	}
}

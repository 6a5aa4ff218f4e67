package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/catalogctl/internal/models"
)

func textBlink() tea.Cmd {
	return textinput.Blink
}

func loginRequest(username, password string) models.LoginRequest {
	return models.LoginRequest{Username: username, Password: password}
}

// loginForm holds the username and password inputs for [LoginView].
type loginForm struct {
	inputs  []textinput.Model
	focused int
}

func newLoginForm() loginForm {
	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 64
	username.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 128
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return loginForm{inputs: []textinput.Model{username, password}}
}

func (f *loginForm) username() string { return strings.TrimSpace(f.inputs[0].Value()) }
func (f *loginForm) password() string { return f.inputs[1].Value() }

// next moves focus to the following input, wrapping around.
func (f *loginForm) next() {
	f.inputs[f.focused].Blur()
	f.focused = (f.focused + 1) % len(f.inputs)
	f.inputs[f.focused].Focus()
}

func (f *loginForm) reset() {
	for i := range f.inputs {
		f.inputs[i].SetValue("")
		f.inputs[i].Blur()
	}
	f.focused = 0
	f.inputs[0].Focus()
}

func (f *loginForm) render() string {
	return fmt.Sprintf("Username\n%s\n\nPassword\n%s", f.inputs[0].View(), f.inputs[1].View())
}

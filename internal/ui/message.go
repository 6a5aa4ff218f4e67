package ui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/catalogctl/internal/session"
)

// loginResultMsg reports the outcome of a login attempt.
type loginResultMsg struct {
	state session.State
}

// resourceFetchedMsg carries a fetched resource listing, already wrapped
// as [list.Item] values.
type resourceFetchedMsg struct {
	resource Resource
	items    []list.Item
	err      error
}

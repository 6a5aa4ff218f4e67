package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/catalogctl/internal/catalog"
	"github.com/desertthunder/catalogctl/internal/session"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LoginView ViewState = iota
	MenuView
	BrowserView
)

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	view     ViewState
	services *catalog.Services
	session  *session.Store
	guard    *session.Guard
	width    int
	height   int

	menu        list.Model
	browser     list.Model
	resource    Resource
	pendingView ViewState
	pending     Resource
	hasPending  bool
	loading     bool

	form loginForm
	err  error
	help help.Model
	keys keyMap
}

// NewModel creates a new TUI model with the provided dependencies. The
// starting view depends on the guard: a usable credential goes straight to
// the menu, anything else to the login form.
func NewModel(ctx context.Context, services *catalog.Services, store *session.Store, guard *session.Guard) *Model {
	m := &Model{
		ctx:      ctx,
		view:     LoginView,
		services: services,
		session:  store,
		guard:    guard,
		form:     newLoginForm(),
		help:     help.New(),
		keys:     newKeyMap(),
		menu:     newMenu(),
	}

	if guard.Allow() {
		m.view = MenuView
	}

	return m
}

func newMenu() list.Model {
	items := []list.Item{
		resourceItem{UsersResource, "Browse user accounts"},
		resourceItem{TracksResource, "Browse the track catalog"},
		resourceItem{PlaylistsResource, "Browse playlists"},
		resourceItem{ArtistsResource, "Browse artists"},
		resourceItem{AlbumsResource, "Browse albums"},
	}
	menu := list.New(items, list.NewDefaultDelegate(), 0, 0)
	menu.Title = "Catalog"
	return menu
}

// Init starts the TUI; there is nothing to fetch until a resource is picked.
func (m *Model) Init() tea.Cmd {
	if m.view == LoginView {
		return textBlink()
	}
	return nil
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.menu.SetSize(msg.Width-4, msg.Height-8)
		if m.browser.Width() == 0 {
			m.browser.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case LoginView:
			return m.handleLoginKeys(msg)
		case MenuView:
			return m.handleMenuKeys(msg)
		case BrowserView:
			return m.handleBrowserKeys(msg)
		}

	case loginResultMsg:
		m.loading = false
		if !msg.state.IsAuthenticated {
			m.err = fmt.Errorf("%s", msg.state.Err)
			return m, nil
		}
		m.err = nil
		m.form.reset()
		// Resume whatever the guard interrupted.
		if m.hasPending {
			m.hasPending = false
			m.view = m.pendingView
			if m.view == BrowserView {
				m.loading = true
				return m, m.fetchResource(m.pending)
			}
			return m, nil
		}
		m.view = MenuView
		return m, nil

	case resourceFetchedMsg:
		m.loading = false
		if msg.err != nil {
			// A failed refresh logs the session out; send the operator back
			// through login and pick the browse back up afterwards.
			if !m.guard.Allow() {
				m.redirectToLogin(BrowserView, msg.resource)
				return m, textBlink()
			}
			m.err = msg.err
			m.view = MenuView
			return m, nil
		}
		m.err = nil
		m.resource = msg.resource
		m.browser = list.New(msg.items, list.NewDefaultDelegate(), 0, 0)
		m.browser.Title = msg.resource.String()
		m.browser.SetSize(m.width-4, m.height-8)
		m.view = BrowserView
		return m, nil
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case LoginView:
		return m.renderLogin()
	case MenuView:
		return m.renderMenu()
	case BrowserView:
		return m.renderBrowser()
	default:
		return ""
	}
}

func (m *Model) handleLoginKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "tab", "shift+tab", "down", "up":
		m.form.next()
		return m, nil
	case "enter":
		if m.form.focused == 0 {
			m.form.next()
			return m, nil
		}
		if m.form.username() == "" || m.form.password() == "" {
			m.err = fmt.Errorf("username and password are required")
			return m, nil
		}
		m.loading = true
		m.err = nil
		return m, m.login()
	}

	var cmd tea.Cmd
	m.form.inputs[m.form.focused], cmd = m.form.inputs[m.form.focused].Update(msg)
	return m, cmd
}

func (m *Model) handleMenuKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		selected := m.menu.SelectedItem()
		if selected != nil {
			if item, ok := selected.(resourceItem); ok {
				return m.openResource(item.resource)
			}
		}
	}

	var cmd tea.Cmd
	m.menu, cmd = m.menu.Update(msg)
	return m, cmd
}

func (m *Model) handleBrowserKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = MenuView
		return m, nil
	}

	var cmd tea.Cmd
	m.browser, cmd = m.browser.Update(msg)
	return m, cmd
}

// openResource navigates to the browser for the given resource, redirecting
// through login first when the session is not usable.
func (m *Model) openResource(resource Resource) (tea.Model, tea.Cmd) {
	if !m.guard.Allow() {
		m.redirectToLogin(BrowserView, resource)
		return m, textBlink()
	}

	m.loading = true
	return m, m.fetchResource(resource)
}

func (m *Model) redirectToLogin(view ViewState, resource Resource) {
	m.pendingView = view
	m.pending = resource
	m.hasPending = true
	m.view = LoginView
	m.err = fmt.Errorf("session expired, sign in to continue")
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case MenuView:
		m.menu, cmd = m.menu.Update(msg)
	case BrowserView:
		m.browser, cmd = m.browser.Update(msg)
	case LoginView:
		m.form.inputs[m.form.focused], cmd = m.form.inputs[m.form.focused].Update(msg)
	}
	return m, cmd
}

func (m *Model) login() tea.Cmd {
	username, password := m.form.username(), m.form.password()
	return func() tea.Msg {
		m.session.Login(m.ctx, loginRequest(username, password))
		return loginResultMsg{state: m.session.Snapshot()}
	}
}

func (m *Model) fetchResource(resource Resource) tea.Cmd {
	return func() tea.Msg {
		items, err := m.listItems(resource)
		return resourceFetchedMsg{resource: resource, items: items, err: err}
	}
}

func (m *Model) listItems(resource Resource) ([]list.Item, error) {
	switch resource {
	case UsersResource:
		users, err := m.services.Users.List(m.ctx)
		if err != nil {
			return nil, err
		}
		items := make([]list.Item, len(users))
		for i, u := range users {
			items[i] = userItem{user: u}
		}
		return items, nil
	case TracksResource:
		tracks, err := m.services.Tracks.List(m.ctx)
		if err != nil {
			return nil, err
		}
		items := make([]list.Item, len(tracks))
		for i, t := range tracks {
			items[i] = trackItem{track: t}
		}
		return items, nil
	case PlaylistsResource:
		playlists, err := m.services.Playlists.List(m.ctx)
		if err != nil {
			return nil, err
		}
		items := make([]list.Item, len(playlists))
		for i, p := range playlists {
			items[i] = playlistItem{playlist: p}
		}
		return items, nil
	case ArtistsResource:
		artists, err := m.services.Artists.List(m.ctx)
		if err != nil {
			return nil, err
		}
		items := make([]list.Item, len(artists))
		for i, a := range artists {
			items[i] = artistItem{artist: a}
		}
		return items, nil
	case AlbumsResource:
		albums, err := m.services.Albums.List(m.ctx)
		if err != nil {
			return nil, err
		}
		items := make([]list.Item, len(albums))
		for i, a := range albums {
			items[i] = albumItem{album: a}
		}
		return items, nil
	default:
		return nil, fmt.Errorf("unknown resource")
	}
}

func (m *Model) renderLogin() string {
	title := styles.title.Render("Sign in to catalogctl")

	status := ""
	if m.loading {
		status = styles.warn.Render("Signing in...")
	} else if m.err != nil {
		status = styles.err.Render(m.err.Error())
	}

	helpKeys := []key.Binding{m.keys.tab, m.keys.enter, m.keys.back}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n\n%s\n\n%s", title, m.form.render(), status, helpView)
}

func (m *Model) renderMenu() string {
	status := ""
	if m.loading {
		status = styles.warn.Render("Loading...")
	} else if m.err != nil {
		status = styles.err.Render(m.err.Error())
	}

	helpKeys := []key.Binding{m.keys.enter, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n%s\n%s", m.menu.View(), status, helpView)
}

func (m *Model) renderBrowser() string {
	helpKeys := []key.Binding{m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.browser.View(), helpView)
}

// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for catalog administration:
//  1. [LoginView] : Sign in with username and password
//  2. [MenuView] : Pick a catalog resource to browse
//  3. [BrowserView] : Scroll the fetched resource listing
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Opening a resource while logged out redirects to the login view and remembers
// the requested resource; a successful login resumes there. A fetch that comes
// back unauthenticated (the token refresh failed mid-session) triggers the same
// redirect, so the guard holds for expiry during use as well as at startup.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, q) with
// contextual help displayed via charmbracelet/bubbles/help.
package ui

package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/catalogctl/internal/models"
	"github.com/desertthunder/catalogctl/internal/shared"
)

var (
	_ list.Item = resourceItem{}
	_ list.Item = userItem{}
	_ list.Item = trackItem{}
	_ list.Item = playlistItem{}
	_ list.Item = artistItem{}
	_ list.Item = albumItem{}
)

// Resource identifies a browsable catalog entity kind.
type Resource int

const (
	UsersResource Resource = iota
	TracksResource
	PlaylistsResource
	ArtistsResource
	AlbumsResource
)

func (r Resource) String() string {
	switch r {
	case UsersResource:
		return "Users"
	case TracksResource:
		return "Tracks"
	case PlaylistsResource:
		return "Playlists"
	case ArtistsResource:
		return "Artists"
	case AlbumsResource:
		return "Albums"
	default:
		return "Unknown"
	}
}

// resourceItem is a menu entry pointing at a [Resource].
type resourceItem struct {
	resource Resource
	usage    string
}

func (i resourceItem) FilterValue() string { return i.resource.String() }
func (i resourceItem) Title() string       { return i.resource.String() }
func (i resourceItem) Description() string { return i.usage }

// userItem wraps [models.User] to implement [list.Item].
type userItem struct {
	user models.User
}

func (i userItem) FilterValue() string { return i.user.Username }
func (i userItem) Title() string       { return i.user.Username }
func (i userItem) Description() string {
	desc := i.user.Email
	if i.user.DisplayName != "" {
		desc = fmt.Sprintf("%s • %s", i.user.DisplayName, desc)
	}
	return desc
}

// trackItem wraps [models.Track] to implement [list.Item].
type trackItem struct {
	track models.Track
}

func (i trackItem) FilterValue() string { return i.track.Name }
func (i trackItem) Title() string       { return i.track.Name }
func (i trackItem) Description() string {
	desc := shared.FormatDuration(i.track.DurationMS)
	if i.track.ISRC != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.track.ISRC)
	}
	return desc
}

// playlistItem wraps [models.Playlist] to implement [list.Item].
type playlistItem struct {
	playlist models.Playlist
}

func (i playlistItem) FilterValue() string { return i.playlist.Name }
func (i playlistItem) Title() string       { return i.playlist.Name }
func (i playlistItem) Description() string {
	desc := fmt.Sprintf("%d tracks", len(i.playlist.TrackIDs))
	if i.playlist.Description != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.playlist.Description)
	}
	return desc
}

// artistItem wraps [models.Artist] to implement [list.Item].
type artistItem struct {
	artist models.Artist
}

func (i artistItem) FilterValue() string { return i.artist.Name }
func (i artistItem) Title() string       { return i.artist.Name }
func (i artistItem) Description() string {
	return fmt.Sprintf("%d tracks • %d albums", len(i.artist.TrackIDs), len(i.artist.AlbumIDs))
}

// albumItem wraps [models.Album] to implement [list.Item].
type albumItem struct {
	album models.Album
}

func (i albumItem) FilterValue() string { return i.album.Name }
func (i albumItem) Title() string       { return i.album.Name }
func (i albumItem) Description() string {
	desc := i.album.AlbumType
	if i.album.ReleaseDate != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.album.ReleaseDate)
	}
	return desc
}

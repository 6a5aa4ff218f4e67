package catalog

import (
	"context"
	"fmt"
	"net/url"

	"github.com/desertthunder/catalogctl/internal/api"
	"github.com/desertthunder/catalogctl/internal/models"
)

// PlaylistService manages catalog playlists and their track membership.
type PlaylistService struct {
	client *api.Client
}

// List retrieves all playlists.
func (s *PlaylistService) List(ctx context.Context) ([]models.Playlist, error) {
	var playlists []models.Playlist
	if err := s.client.Get(ctx, "/admin/playlists", &playlists); err != nil {
		return nil, err
	}
	return playlists, nil
}

// Get retrieves a playlist by ID.
func (s *PlaylistService) Get(ctx context.Context, id int64) (*models.Playlist, error) {
	var playlist models.Playlist
	if err := s.client.Get(ctx, fmt.Sprintf("/admin/playlists/%d", id), &playlist); err != nil {
		return nil, err
	}
	return &playlist, nil
}

// Search finds playlists by name.
func (s *PlaylistService) Search(ctx context.Context, name string) ([]models.Playlist, error) {
	var playlists []models.Playlist
	if err := s.client.Get(ctx, "/admin/playlists/search?name="+url.QueryEscape(name), &playlists); err != nil {
		return nil, err
	}
	return playlists, nil
}

// Create inserts a new playlist.
func (s *PlaylistService) Create(ctx context.Context, req models.PlaylistRequest) (*models.Playlist, error) {
	var playlist models.Playlist
	if err := s.client.Post(ctx, "/admin/playlists", req, &playlist); err != nil {
		return nil, err
	}
	return &playlist, nil
}

// Update modifies an existing playlist.
func (s *PlaylistService) Update(ctx context.Context, id int64, req models.PlaylistRequest) (*models.Playlist, error) {
	var playlist models.Playlist
	if err := s.client.Put(ctx, fmt.Sprintf("/admin/playlists/%d", id), req, &playlist); err != nil {
		return nil, err
	}
	return &playlist, nil
}

// Delete removes a playlist.
func (s *PlaylistService) Delete(ctx context.Context, id int64) error {
	return s.client.Delete(ctx, fmt.Sprintf("/admin/playlists/%d", id), nil)
}

// Public retrieves all public playlists.
func (s *PlaylistService) Public(ctx context.Context) ([]models.Playlist, error) {
	var playlists []models.Playlist
	if err := s.client.Get(ctx, "/admin/playlists/public", &playlists); err != nil {
		return nil, err
	}
	return playlists, nil
}

// Owned retrieves playlists owned by the authenticated operator.
func (s *PlaylistService) Owned(ctx context.Context) ([]models.Playlist, error) {
	var playlists []models.Playlist
	if err := s.client.Get(ctx, "/admin/playlists/owner", &playlists); err != nil {
		return nil, err
	}
	return playlists, nil
}

// Followed retrieves playlists the operator follows.
func (s *PlaylistService) Followed(ctx context.Context) ([]models.Playlist, error) {
	var playlists []models.Playlist
	if err := s.client.Get(ctx, "/admin/playlists/followed", &playlists); err != nil {
		return nil, err
	}
	return playlists, nil
}

// Collaborative retrieves collaborative playlists.
func (s *PlaylistService) Collaborative(ctx context.Context) ([]models.Playlist, error) {
	var playlists []models.Playlist
	if err := s.client.Get(ctx, "/admin/playlists/collaborative", &playlists); err != nil {
		return nil, err
	}
	return playlists, nil
}

// Follow makes the operator follow a playlist.
func (s *PlaylistService) Follow(ctx context.Context, id int64) error {
	return s.client.Post(ctx, fmt.Sprintf("/admin/playlists/%d/follow", id), nil, nil)
}

// Unfollow reverses Follow.
func (s *PlaylistService) Unfollow(ctx context.Context, id int64) error {
	return s.client.Post(ctx, fmt.Sprintf("/admin/playlists/%d/unfollow", id), nil, nil)
}

// AddTrack appends a track to a playlist.
func (s *PlaylistService) AddTrack(ctx context.Context, playlistID, trackID int64) error {
	return s.client.Post(ctx, fmt.Sprintf("/admin/playlists/%d/tracks/%d", playlistID, trackID), nil, nil)
}

// RemoveTrack removes a track from a playlist.
func (s *PlaylistService) RemoveTrack(ctx context.Context, playlistID, trackID int64) error {
	return s.client.Delete(ctx, fmt.Sprintf("/admin/playlists/%d/tracks/%d", playlistID, trackID), nil)
}

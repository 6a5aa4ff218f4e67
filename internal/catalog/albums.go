package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/desertthunder/catalogctl/internal/api"
	"github.com/desertthunder/catalogctl/internal/models"
)

// AlbumService manages catalog albums and their track listings.
type AlbumService struct {
	client *api.Client
}

// List retrieves all albums.
func (s *AlbumService) List(ctx context.Context) ([]models.Album, error) {
	var albums []models.Album
	if err := s.client.Get(ctx, "/admin/albums", &albums); err != nil {
		return nil, err
	}
	return albums, nil
}

// Get retrieves an album by ID.
func (s *AlbumService) Get(ctx context.Context, id int64) (*models.Album, error) {
	var album models.Album
	if err := s.client.Get(ctx, fmt.Sprintf("/admin/albums/%d", id), &album); err != nil {
		return nil, err
	}
	return &album, nil
}

// Search finds albums by name.
func (s *AlbumService) Search(ctx context.Context, name string) ([]models.Album, error) {
	var albums []models.Album
	if err := s.client.Get(ctx, "/admin/albums/search?name="+url.QueryEscape(name), &albums); err != nil {
		return nil, err
	}
	return albums, nil
}

// Create inserts a new album.
func (s *AlbumService) Create(ctx context.Context, req models.AlbumRequest) (*models.Album, error) {
	var album models.Album
	if err := s.client.Post(ctx, "/admin/albums", req, &album); err != nil {
		return nil, err
	}
	return &album, nil
}

// Update modifies an existing album.
func (s *AlbumService) Update(ctx context.Context, id int64, req models.AlbumRequest) (*models.Album, error) {
	var album models.Album
	if err := s.client.Put(ctx, fmt.Sprintf("/admin/albums/%d", id), req, &album); err != nil {
		return nil, err
	}
	return &album, nil
}

// Delete removes an album.
func (s *AlbumService) Delete(ctx context.Context, id int64) error {
	return s.client.Delete(ctx, fmt.Sprintf("/admin/albums/%d", id), nil)
}

// Tracks retrieves an album's track listing.
func (s *AlbumService) Tracks(ctx context.Context, id int64) ([]models.Track, error) {
	var tracks []models.Track
	if err := s.client.Get(ctx, fmt.Sprintf("/admin/albums/%d/tracks", id), &tracks); err != nil {
		return nil, err
	}
	return tracks, nil
}

// AddTracks appends tracks to an album's listing.
func (s *AlbumService) AddTracks(ctx context.Context, id int64, trackIDs []int64) error {
	return s.client.Post(ctx, fmt.Sprintf("/admin/albums/%d/add-tracks", id), trackIDs, nil)
}

// RemoveTracks removes tracks from an album's listing.
func (s *AlbumService) RemoveTracks(ctx context.Context, id int64, trackIDs []int64) error {
	return s.client.Do(ctx, http.MethodDelete, fmt.Sprintf("/admin/albums/%d/tracks", id), trackIDs, nil)
}

// NewReleases retrieves albums released on or after the given date (YYYY-MM-DD).
func (s *AlbumService) NewReleases(ctx context.Context, date string) ([]models.Album, error) {
	var albums []models.Album
	if err := s.client.Get(ctx, "/admin/albums/new-releases?date="+url.QueryEscape(date), &albums); err != nil {
		return nil, err
	}
	return albums, nil
}

// ByArtist retrieves the albums credited to an artist.
func (s *AlbumService) ByArtist(ctx context.Context, artistID int64) ([]models.Album, error) {
	var albums []models.Album
	if err := s.client.Get(ctx, fmt.Sprintf("/admin/albums/artist/%d", artistID), &albums); err != nil {
		return nil, err
	}
	return albums, nil
}

// Save adds an album to the operator's saved list.
func (s *AlbumService) Save(ctx context.Context, id int64) error {
	return s.client.Post(ctx, fmt.Sprintf("/admin/albums/%d/save", id), nil, nil)
}

// Unsave removes an album from the operator's saved list.
func (s *AlbumService) Unsave(ctx context.Context, id int64) error {
	return s.client.Delete(ctx, fmt.Sprintf("/admin/albums/%d/save", id), nil)
}

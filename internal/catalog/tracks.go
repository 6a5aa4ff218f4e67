package catalog

import (
	"context"
	"fmt"
	"net/url"

	"github.com/desertthunder/catalogctl/internal/api"
	"github.com/desertthunder/catalogctl/internal/models"
)

// TrackService manages catalog tracks and their artist/album relationships.
type TrackService struct {
	client *api.Client
}

// List retrieves all tracks.
func (s *TrackService) List(ctx context.Context) ([]models.Track, error) {
	var tracks []models.Track
	if err := s.client.Get(ctx, "/admin/tracks", &tracks); err != nil {
		return nil, err
	}
	return tracks, nil
}

// Get retrieves a track by ID.
func (s *TrackService) Get(ctx context.Context, id int64) (*models.Track, error) {
	var track models.Track
	if err := s.client.Get(ctx, fmt.Sprintf("/admin/tracks/%d", id), &track); err != nil {
		return nil, err
	}
	return &track, nil
}

// Search finds tracks by name.
func (s *TrackService) Search(ctx context.Context, name string) ([]models.Track, error) {
	var tracks []models.Track
	if err := s.client.Get(ctx, "/admin/tracks/search?name="+url.QueryEscape(name), &tracks); err != nil {
		return nil, err
	}
	return tracks, nil
}

// Create inserts a new track.
func (s *TrackService) Create(ctx context.Context, req models.TrackRequest) (*models.Track, error) {
	var track models.Track
	if err := s.client.Post(ctx, "/admin/tracks", req, &track); err != nil {
		return nil, err
	}
	return &track, nil
}

// Update modifies an existing track.
func (s *TrackService) Update(ctx context.Context, id int64, req models.TrackRequest) (*models.Track, error) {
	var track models.Track
	if err := s.client.Put(ctx, fmt.Sprintf("/admin/tracks/%d", id), req, &track); err != nil {
		return nil, err
	}
	return &track, nil
}

// Delete removes a track.
func (s *TrackService) Delete(ctx context.Context, id int64) error {
	return s.client.Delete(ctx, fmt.Sprintf("/admin/tracks/%d", id), nil)
}

// Saved retrieves the operator's saved tracks.
func (s *TrackService) Saved(ctx context.Context) ([]models.Track, error) {
	var tracks []models.Track
	if err := s.client.Get(ctx, "/admin/tracks/saved", &tracks); err != nil {
		return nil, err
	}
	return tracks, nil
}

// Popular retrieves tracks at or above the given popularity.
func (s *TrackService) Popular(ctx context.Context, minPopularity int) ([]models.Track, error) {
	var tracks []models.Track
	path := fmt.Sprintf("/admin/tracks/popular?minPopularity=%d", minPopularity)
	if err := s.client.Get(ctx, path, &tracks); err != nil {
		return nil, err
	}
	return tracks, nil
}

// ByArtist retrieves all tracks credited to an artist.
func (s *TrackService) ByArtist(ctx context.Context, artistID int64) ([]models.Track, error) {
	var tracks []models.Track
	if err := s.client.Get(ctx, fmt.Sprintf("/admin/tracks/artist/%d", artistID), &tracks); err != nil {
		return nil, err
	}
	return tracks, nil
}

// ByAlbum retrieves all tracks on an album.
func (s *TrackService) ByAlbum(ctx context.Context, albumID int64) ([]models.Track, error) {
	var tracks []models.Track
	if err := s.client.Get(ctx, fmt.Sprintf("/admin/tracks/album/%d", albumID), &tracks); err != nil {
		return nil, err
	}
	return tracks, nil
}

// Save adds a track to the operator's saved list.
func (s *TrackService) Save(ctx context.Context, id int64) error {
	return s.client.Post(ctx, fmt.Sprintf("/admin/tracks/%d/save", id), nil, nil)
}

// Unsave removes a track from the operator's saved list.
func (s *TrackService) Unsave(ctx context.Context, id int64) error {
	return s.client.Post(ctx, fmt.Sprintf("/admin/tracks/%d/unsave", id), nil, nil)
}

package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/desertthunder/catalogctl/internal/api"
	"github.com/desertthunder/catalogctl/internal/models"
)

// ArtistService manages catalog artists and their track/album relationships.
type ArtistService struct {
	client *api.Client
}

// List retrieves all artists.
func (s *ArtistService) List(ctx context.Context) ([]models.Artist, error) {
	var artists []models.Artist
	if err := s.client.Get(ctx, "/admin/artists", &artists); err != nil {
		return nil, err
	}
	return artists, nil
}

// Get retrieves an artist by ID.
func (s *ArtistService) Get(ctx context.Context, id int64) (*models.Artist, error) {
	var artist models.Artist
	if err := s.client.Get(ctx, fmt.Sprintf("/admin/artists/%d", id), &artist); err != nil {
		return nil, err
	}
	return &artist, nil
}

// Search finds artists by name.
func (s *ArtistService) Search(ctx context.Context, name string) ([]models.Artist, error) {
	var artists []models.Artist
	if err := s.client.Get(ctx, "/admin/artists/search?name="+url.QueryEscape(name), &artists); err != nil {
		return nil, err
	}
	return artists, nil
}

// Create inserts a new artist.
func (s *ArtistService) Create(ctx context.Context, req models.ArtistRequest) (*models.Artist, error) {
	var artist models.Artist
	if err := s.client.Post(ctx, "/admin/artists", req, &artist); err != nil {
		return nil, err
	}
	return &artist, nil
}

// Update modifies an existing artist.
func (s *ArtistService) Update(ctx context.Context, id int64, req models.ArtistRequest) (*models.Artist, error) {
	var artist models.Artist
	if err := s.client.Put(ctx, fmt.Sprintf("/admin/artists/%d", id), req, &artist); err != nil {
		return nil, err
	}
	return &artist, nil
}

// Delete removes an artist.
func (s *ArtistService) Delete(ctx context.Context, id int64) error {
	return s.client.Delete(ctx, fmt.Sprintf("/admin/artists/%d", id), nil)
}

// Popular retrieves artists at or above the given popularity.
func (s *ArtistService) Popular(ctx context.Context, minPopularity int) ([]models.Artist, error) {
	var artists []models.Artist
	path := fmt.Sprintf("/admin/artists/popular?minPopularity=%d", minPopularity)
	if err := s.client.Get(ctx, path, &artists); err != nil {
		return nil, err
	}
	return artists, nil
}

// Tracks retrieves the tracks credited to an artist.
func (s *ArtistService) Tracks(ctx context.Context, id int64) ([]models.Track, error) {
	var tracks []models.Track
	if err := s.client.Get(ctx, fmt.Sprintf("/admin/artists/%d/tracks", id), &tracks); err != nil {
		return nil, err
	}
	return tracks, nil
}

// Albums retrieves the albums credited to an artist.
func (s *ArtistService) Albums(ctx context.Context, id int64) ([]models.Album, error) {
	var albums []models.Album
	if err := s.client.Get(ctx, fmt.Sprintf("/admin/artists/%d/albums", id), &albums); err != nil {
		return nil, err
	}
	return albums, nil
}

// AddTracks credits tracks to an artist.
func (s *ArtistService) AddTracks(ctx context.Context, id int64, trackIDs []int64) error {
	return s.client.Post(ctx, fmt.Sprintf("/admin/artists/%d/tracks", id), trackIDs, nil)
}

// RemoveTracks removes track credits from an artist.
func (s *ArtistService) RemoveTracks(ctx context.Context, id int64, trackIDs []int64) error {
	return s.client.Do(ctx, http.MethodDelete, fmt.Sprintf("/admin/artists/%d/tracks", id), trackIDs, nil)
}

// Follow makes the operator follow an artist.
func (s *ArtistService) Follow(ctx context.Context, id int64) error {
	return s.client.Post(ctx, fmt.Sprintf("/admin/artists/%d/follow", id), nil, nil)
}

// Unfollow reverses Follow.
func (s *ArtistService) Unfollow(ctx context.Context, id int64) error {
	return s.client.Post(ctx, fmt.Sprintf("/admin/artists/%d/unfollow", id), nil, nil)
}

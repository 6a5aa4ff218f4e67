package catalog

import (
	"context"

	"github.com/desertthunder/catalogctl/internal/api"
	"github.com/desertthunder/catalogctl/internal/models"
)

// Services bundles one service per catalog entity over a shared client.
type Services struct {
	Auth      *AuthService
	Users     *UserService
	Tracks    *TrackService
	Playlists *PlaylistService
	Artists   *ArtistService
	Albums    *AlbumService
}

// NewServices creates the full service set over the given client.
func NewServices(client *api.Client) *Services {
	return &Services{
		Auth:      &AuthService{client: client},
		Users:     &UserService{client: client},
		Tracks:    &TrackService{client: client},
		Playlists: &PlaylistService{client: client},
		Artists:   &ArtistService{client: client},
		Albums:    &AlbumService{client: client},
	}
}

// AuthService performs the authentication exchanges. It implements
// session.Authenticator.
type AuthService struct {
	client *api.Client
}

// Login exchanges credentials for a token pair and operator profile.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := s.client.Post(ctx, "/auth/login", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates an operator account; same response shape as Login.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := s.client.Post(ctx, "/auth/register", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

package catalog

import (
	"context"
	"fmt"
	"net/url"

	"github.com/desertthunder/catalogctl/internal/api"
	"github.com/desertthunder/catalogctl/internal/models"
)

// UserService manages catalog user accounts and the follow graph.
type UserService struct {
	client *api.Client
}

// List retrieves all users.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.client.Get(ctx, "/admin/users", &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Get retrieves a user by ID.
func (s *UserService) Get(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	if err := s.client.Get(ctx, fmt.Sprintf("/admin/users/%d", id), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByUsername retrieves a user by exact username.
func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := s.client.Get(ctx, "/admin/users/username/"+url.PathEscape(username), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Search finds users matching the query.
func (s *UserService) Search(ctx context.Context, query string) ([]models.User, error) {
	var users []models.User
	if err := s.client.Get(ctx, "/admin/users/search?query="+url.QueryEscape(query), &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Create inserts a new user.
func (s *UserService) Create(ctx context.Context, req models.UserRequest) (*models.User, error) {
	var user models.User
	if err := s.client.Post(ctx, "/admin/users", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Update modifies an existing user.
func (s *UserService) Update(ctx context.Context, id int64, req models.UserRequest) (*models.User, error) {
	var user models.User
	if err := s.client.Put(ctx, fmt.Sprintf("/admin/users/%d", id), req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Delete removes a user.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	return s.client.Delete(ctx, fmt.Sprintf("/admin/users/%d", id), nil)
}

// Followers retrieves the users following the given user.
func (s *UserService) Followers(ctx context.Context, id int64) ([]models.User, error) {
	var users []models.User
	if err := s.client.Get(ctx, fmt.Sprintf("/admin/users/%d/followers", id), &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Following retrieves the users the given user follows.
func (s *UserService) Following(ctx context.Context, id int64) ([]models.User, error) {
	var users []models.User
	if err := s.client.Get(ctx, fmt.Sprintf("/admin/users/%d/following", id), &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Follow makes the authenticated operator follow the given user.
func (s *UserService) Follow(ctx context.Context, id int64) error {
	return s.client.Post(ctx, fmt.Sprintf("/admin/users/%d/follow", id), nil, nil)
}

// Unfollow reverses Follow.
func (s *UserService) Unfollow(ctx context.Context, id int64) error {
	return s.client.Post(ctx, fmt.Sprintf("/admin/users/%d/unfollow", id), nil, nil)
}

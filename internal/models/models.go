// package models defines the data model for the catalog admin console
package models

import (
	"time"
)

// Model defines the base interface for all persistent models in the snapshot store.
// Implementations include PersistedTrack, PersistedArtist, and PersistedAlbum.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
// Implementations handle database interactions for specific model types.
type Repository[T Model] interface {
	Create(model T) error                      // Create inserts a new model into the database
	Get(id string) (T, error)                  // Get retrieves a model by its ID
	Update(model T) error                      // Update modifies an existing model in the database
	Delete(id string) error                    // Delete removes a model from the database by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}

// LoginRequest carries operator credentials to the login endpoint.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest carries the details for creating an operator account.
type RegisterRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName,omitempty"`
	Country     string `json:"country,omitempty"`
}

// AuthResponse is the payload returned by the login and register endpoints:
// the token pair plus display metadata for the signed-in operator.
type AuthResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	Username     string `json:"username"`
	DisplayName  string `json:"displayName,omitempty"`
	Email        string `json:"email"`
}

// User represents a catalog user account as returned by the backend.
type User struct {
	ID                int64   `json:"id"`
	Username          string  `json:"username"`
	Email             string  `json:"email"`
	DisplayName       string  `json:"displayName,omitempty"`
	Bio               string  `json:"bio,omitempty"`
	ImageURL          string  `json:"imageUrl,omitempty"`
	PlaylistIDs       []int64 `json:"playlistIds"`
	SavedTrackIDs     []int64 `json:"savedTrackIds"`
	SavedAlbumIDs     []int64 `json:"savedAlbumIds"`
	FollowedArtistIDs []int64 `json:"followedArtistIds"`
	FollowerIDs       []int64 `json:"followerIds"`
	FollowingIDs      []int64 `json:"followingIds"`
	Created           string  `json:"createdAt"`
	Updated           string  `json:"updatedAt"`
}

// UserRequest is the mutation payload for user create/update.
type UserRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName,omitempty"`
	Bio         string `json:"bio,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// Track represents a catalog track as returned by the backend.
type Track struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	ImageURL       string  `json:"imageUrl,omitempty"`
	DurationMS     int     `json:"durationMs,omitempty"`
	Popularity     int     `json:"popularity,omitempty"`
	TrackURL       string  `json:"trackUrl,omitempty"`
	TrackNumber    string  `json:"trackNumber,omitempty"`
	Explicit       bool    `json:"explicit,omitempty"`
	ISRC           string  `json:"isrc,omitempty"`
	AlbumID        int64   `json:"albumId,omitempty"`
	ArtistIDs      []int64 `json:"artistIds"`
	PlaylistIDs    []int64 `json:"playlistIds"`
	SavedByUserIDs []int64 `json:"savedByUserIds"`
	Created        string  `json:"createdAt"`
	Updated        string  `json:"updatedAt"`
}

// TrackRequest is the mutation payload for track create/update.
type TrackRequest struct {
	Name        string  `json:"name"`
	ImageURL    string  `json:"imageUrl,omitempty"`
	DurationMS  int     `json:"durationMs,omitempty"`
	Popularity  int     `json:"popularity,omitempty"`
	TrackURL    string  `json:"trackUrl,omitempty"`
	TrackNumber string  `json:"trackNumber,omitempty"`
	Explicit    bool    `json:"explicit,omitempty"`
	ISRC        string  `json:"isrc,omitempty"`
	AlbumID     int64   `json:"albumId,omitempty"`
	ArtistIDs   []int64 `json:"artistIds,omitempty"`
}

// Playlist represents a catalog playlist as returned by the backend.
type Playlist struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Description   string  `json:"description,omitempty"`
	ImageURL      string  `json:"imageUrl,omitempty"`
	IsPublic      bool    `json:"isPublic"`
	Collaborative bool    `json:"collaborative"`
	OwnerID       int64   `json:"ownerId"`
	TrackIDs      []int64 `json:"trackIds"`
	FollowerIDs   []int64 `json:"followerIds"`
	Created       string  `json:"createdAt"`
	Updated       string  `json:"updatedAt"`
}

// PlaylistRequest is the mutation payload for playlist create/update.
type PlaylistRequest struct {
	Name          string  `json:"name"`
	Description   string  `json:"description,omitempty"`
	ImageURL      string  `json:"imageUrl,omitempty"`
	IsPublic      bool    `json:"isPublic,omitempty"`
	Collaborative bool    `json:"collaborative,omitempty"`
	TrackIDs      []int64 `json:"trackIds,omitempty"`
}

// Artist represents a catalog artist as returned by the backend.
type Artist struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	ImageURL    string  `json:"imageUrl,omitempty"`
	Description string  `json:"description,omitempty"`
	Popularity  int     `json:"popularity,omitempty"`
	TrackIDs    []int64 `json:"trackIds"`
	AlbumIDs    []int64 `json:"albumIds"`
	FollowerIDs []int64 `json:"followerIds"`
	Created     string  `json:"createdAt"`
	Updated     string  `json:"updatedAt"`
}

// ArtistRequest is the mutation payload for artist create/update.
type ArtistRequest struct {
	Name        string `json:"name"`
	ImageURL    string `json:"imageUrl,omitempty"`
	Description string `json:"description,omitempty"`
	Popularity  int    `json:"popularity,omitempty"`
}

// Album represents a catalog album as returned by the backend.
type Album struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	ImageURL    string  `json:"imageUrl,omitempty"`
	Description string  `json:"description,omitempty"`
	Popularity  int     `json:"popularity,omitempty"`
	ReleaseDate string  `json:"releaseDate,omitempty"`
	AlbumType   string  `json:"albumType,omitempty"`
	ArtistIDs   []int64 `json:"artistIds"`
	TrackIDs    []int64 `json:"trackIds"`
	FollowerIDs []int64 `json:"followerIds"`
	Created     string  `json:"createdAt"`
	Updated     string  `json:"updatedAt"`
}

// AlbumRequest is the mutation payload for album create/update.
type AlbumRequest struct {
	Name        string  `json:"name"`
	ImageURL    string  `json:"imageUrl,omitempty"`
	Description string  `json:"description,omitempty"`
	Popularity  int     `json:"popularity,omitempty"`
	ReleaseDate string  `json:"releaseDate,omitempty"`
	AlbumType   string  `json:"albumType,omitempty"`
	ArtistIDs   []int64 `json:"artistIds,omitempty"`
}

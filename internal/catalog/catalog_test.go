package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/desertthunder/catalogctl/internal/api"
	"github.com/desertthunder/catalogctl/internal/models"
)

// recordingServer captures the method and path of each request and replies
// with a success envelope wrapping the configured payload.
type recordingServer struct {
	*httptest.Server
	method string
	path   string
	query  string
	body   string
}

func newRecordingServer(t *testing.T, payload string) *recordingServer {
	t.Helper()
	rs := &recordingServer{}
	rs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rs.method = r.Method
		rs.path = r.URL.Path
		rs.query = r.URL.RawQuery
		var buf [1024]byte
		n, _ := r.Body.Read(buf[:])
		rs.body = string(buf[:n])

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"statusCode":200,"message":"OK","data":%s,"success":true}`, payload)
	}))
	t.Cleanup(rs.Server.Close)
	return rs
}

func testServices(t *testing.T, payload string) (*Services, *recordingServer) {
	t.Helper()
	server := newRecordingServer(t, payload)
	client := api.New(api.Options{BaseURL: server.URL})
	return NewServices(client), server
}

func TestAuthService(t *testing.T) {
	t.Run("Login", func(t *testing.T) {
		services, server := testServices(t, `{"accessToken":"a","refreshToken":"r","username":"admin"}`)

		resp, err := services.Auth.Login(context.Background(), models.LoginRequest{Username: "admin", Password: "pw"})
		if err != nil {
			t.Fatalf("login failed: %v", err)
		}

		if server.method != http.MethodPost || server.path != "/auth/login" {
			t.Errorf("unexpected request: %s %s", server.method, server.path)
		}
		if resp.AccessToken != "a" || resp.Username != "admin" {
			t.Errorf("unexpected response: %+v", resp)
		}

		var sent models.LoginRequest
		if err := json.Unmarshal([]byte(server.body), &sent); err != nil {
			t.Fatalf("failed to decode sent body: %v", err)
		}
		if sent.Username != "admin" || sent.Password != "pw" {
			t.Errorf("unexpected request body: %+v", sent)
		}
	})

	t.Run("Register", func(t *testing.T) {
		services, server := testServices(t, `{"accessToken":"a","username":"newop"}`)

		if _, err := services.Auth.Register(context.Background(), models.RegisterRequest{Username: "newop"}); err != nil {
			t.Fatalf("register failed: %v", err)
		}
		if server.path != "/auth/register" {
			t.Errorf("unexpected path: %s", server.path)
		}
	})

	t.Run("LoginRejection", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"statusCode":401,"message":"Invalid credentials","data":null,"success":false}`)
		}))
		defer server.Close()

		services := NewServices(api.New(api.Options{BaseURL: server.URL}))
		_, err := services.Auth.Login(context.Background(), models.LoginRequest{})

		var apiErr *api.APIError
		if !errors.As(err, &apiErr) || apiErr.Message != "Invalid credentials" {
			t.Errorf("expected backend rejection message, got %v", err)
		}
	})
}

func TestUserService(t *testing.T) {
	cases := []struct {
		name       string
		call       func(s *Services) error
		wantMethod string
		wantPath   string
		wantQuery  string
	}{
		{"List", func(s *Services) error { _, err := s.Users.List(context.Background()); return err }, "GET", "/admin/users", ""},
		{"Get", func(s *Services) error { _, err := s.Users.Get(context.Background(), 7); return err }, "GET", "/admin/users/7", ""},
		{"GetByUsername", func(s *Services) error { _, err := s.Users.GetByUsername(context.Background(), "admin"); return err }, "GET", "/admin/users/username/admin", ""},
		{"Search", func(s *Services) error { _, err := s.Users.Search(context.Background(), "jo hn"); return err }, "GET", "/admin/users/search", "query=jo+hn"},
		{"Delete", func(s *Services) error { return s.Users.Delete(context.Background(), 7) }, "DELETE", "/admin/users/7", ""},
		{"Followers", func(s *Services) error { _, err := s.Users.Followers(context.Background(), 7); return err }, "GET", "/admin/users/7/followers", ""},
		{"Follow", func(s *Services) error { return s.Users.Follow(context.Background(), 7) }, "POST", "/admin/users/7/follow", ""},
		{"Unfollow", func(s *Services) error { return s.Users.Unfollow(context.Background(), 7) }, "POST", "/admin/users/7/unfollow", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			services, server := testServices(t, `[]`)
			if err := tc.call(services); err != nil {
				t.Fatalf("call failed: %v", err)
			}
			if server.method != tc.wantMethod || server.path != tc.wantPath {
				t.Errorf("expected %s %s, got %s %s", tc.wantMethod, tc.wantPath, server.method, server.path)
			}
			if server.query != tc.wantQuery {
				t.Errorf("expected query %q, got %q", tc.wantQuery, server.query)
			}
		})
	}

	t.Run("Create", func(t *testing.T) {
		services, server := testServices(t, `{"id":9,"username":"newbie"}`)

		user, err := services.Users.Create(context.Background(), models.UserRequest{Username: "newbie", Email: "n@example.com"})
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}
		if server.method != http.MethodPost || server.path != "/admin/users" {
			t.Errorf("unexpected request: %s %s", server.method, server.path)
		}
		if user.ID != 9 {
			t.Errorf("expected created user, got %+v", user)
		}
	})
}

func TestTrackService(t *testing.T) {
	cases := []struct {
		name       string
		call       func(s *Services) error
		wantMethod string
		wantPath   string
		wantQuery  string
	}{
		{"List", func(s *Services) error { _, err := s.Tracks.List(context.Background()); return err }, "GET", "/admin/tracks", ""},
		{"Search", func(s *Services) error { _, err := s.Tracks.Search(context.Background(), "karma"); return err }, "GET", "/admin/tracks/search", "name=karma"},
		{"Saved", func(s *Services) error { _, err := s.Tracks.Saved(context.Background()); return err }, "GET", "/admin/tracks/saved", ""},
		{"Popular", func(s *Services) error { _, err := s.Tracks.Popular(context.Background(), 70); return err }, "GET", "/admin/tracks/popular", "minPopularity=70"},
		{"ByArtist", func(s *Services) error { _, err := s.Tracks.ByArtist(context.Background(), 3); return err }, "GET", "/admin/tracks/artist/3", ""},
		{"ByAlbum", func(s *Services) error { _, err := s.Tracks.ByAlbum(context.Background(), 4); return err }, "GET", "/admin/tracks/album/4", ""},
		{"Save", func(s *Services) error { return s.Tracks.Save(context.Background(), 5) }, "POST", "/admin/tracks/5/save", ""},
		{"Unsave", func(s *Services) error { return s.Tracks.Unsave(context.Background(), 5) }, "POST", "/admin/tracks/5/unsave", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			services, server := testServices(t, `[]`)
			if err := tc.call(services); err != nil {
				t.Fatalf("call failed: %v", err)
			}
			if server.method != tc.wantMethod || server.path != tc.wantPath {
				t.Errorf("expected %s %s, got %s %s", tc.wantMethod, tc.wantPath, server.method, server.path)
			}
			if server.query != tc.wantQuery {
				t.Errorf("expected query %q, got %q", tc.wantQuery, server.query)
			}
		})
	}
}

func TestPlaylistService(t *testing.T) {
	cases := []struct {
		name       string
		call       func(s *Services) error
		wantMethod string
		wantPath   string
	}{
		{"Public", func(s *Services) error { _, err := s.Playlists.Public(context.Background()); return err }, "GET", "/admin/playlists/public"},
		{"Owned", func(s *Services) error { _, err := s.Playlists.Owned(context.Background()); return err }, "GET", "/admin/playlists/owner"},
		{"Followed", func(s *Services) error { _, err := s.Playlists.Followed(context.Background()); return err }, "GET", "/admin/playlists/followed"},
		{"Collaborative", func(s *Services) error { _, err := s.Playlists.Collaborative(context.Background()); return err }, "GET", "/admin/playlists/collaborative"},
		{"AddTrack", func(s *Services) error { return s.Playlists.AddTrack(context.Background(), 2, 9) }, "POST", "/admin/playlists/2/tracks/9"},
		{"RemoveTrack", func(s *Services) error { return s.Playlists.RemoveTrack(context.Background(), 2, 9) }, "DELETE", "/admin/playlists/2/tracks/9"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			services, server := testServices(t, `[]`)
			if err := tc.call(services); err != nil {
				t.Fatalf("call failed: %v", err)
			}
			if server.method != tc.wantMethod || server.path != tc.wantPath {
				t.Errorf("expected %s %s, got %s %s", tc.wantMethod, tc.wantPath, server.method, server.path)
			}
		})
	}
}

func TestArtistAndAlbumServices(t *testing.T) {
	cases := []struct {
		name       string
		call       func(s *Services) error
		wantMethod string
		wantPath   string
		wantQuery  string
	}{
		{"ArtistPopular", func(s *Services) error { _, err := s.Artists.Popular(context.Background(), 80); return err }, "GET", "/admin/artists/popular", "minPopularity=80"},
		{"ArtistTracks", func(s *Services) error { _, err := s.Artists.Tracks(context.Background(), 3); return err }, "GET", "/admin/artists/3/tracks", ""},
		{"ArtistAlbums", func(s *Services) error { _, err := s.Artists.Albums(context.Background(), 3); return err }, "GET", "/admin/artists/3/albums", ""},
		{"ArtistFollow", func(s *Services) error { return s.Artists.Follow(context.Background(), 3) }, "POST", "/admin/artists/3/follow", ""},
		{"AlbumTracks", func(s *Services) error { _, err := s.Albums.Tracks(context.Background(), 4); return err }, "GET", "/admin/albums/4/tracks", ""},
		{"AlbumNewReleases", func(s *Services) error {
			_, err := s.Albums.NewReleases(context.Background(), "2026-01-01")
			return err
		}, "GET", "/admin/albums/new-releases", "date=2026-01-01"},
		{"AlbumByArtist", func(s *Services) error { _, err := s.Albums.ByArtist(context.Background(), 3); return err }, "GET", "/admin/albums/artist/3", ""},
		{"AlbumSave", func(s *Services) error { return s.Albums.Save(context.Background(), 4) }, "POST", "/admin/albums/4/save", ""},
		{"AlbumUnsave", func(s *Services) error { return s.Albums.Unsave(context.Background(), 4) }, "DELETE", "/admin/albums/4/save", ""},
		{"ArtistAddTracks", func(s *Services) error { return s.Artists.AddTracks(context.Background(), 3, []int64{9, 11}) }, "POST", "/admin/artists/3/tracks", ""},
		{"ArtistRemoveTracks", func(s *Services) error { return s.Artists.RemoveTracks(context.Background(), 3, []int64{9, 11}) }, "DELETE", "/admin/artists/3/tracks", ""},
		{"AlbumAddTracks", func(s *Services) error { return s.Albums.AddTracks(context.Background(), 4, []int64{9, 11}) }, "POST", "/admin/albums/4/add-tracks", ""},
		{"AlbumRemoveTracks", func(s *Services) error { return s.Albums.RemoveTracks(context.Background(), 4, []int64{9, 11}) }, "DELETE", "/admin/albums/4/tracks", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			services, server := testServices(t, `[]`)
			if err := tc.call(services); err != nil {
				t.Fatalf("call failed: %v", err)
			}
			if server.method != tc.wantMethod || server.path != tc.wantPath {
				t.Errorf("expected %s %s, got %s %s", tc.wantMethod, tc.wantPath, server.method, server.path)
			}
			if server.query != tc.wantQuery {
				t.Errorf("expected query %q, got %q", tc.wantQuery, server.query)
			}
		})
	}

	t.Run("RemoveTracksBody", func(t *testing.T) {
		// The track IDs ride the request body even on DELETE.
		services, server := testServices(t, `null`)
		if err := services.Albums.RemoveTracks(context.Background(), 4, []int64{9, 11}); err != nil {
			t.Fatalf("remove tracks failed: %v", err)
		}
		if server.body != "[9,11]" {
			t.Errorf("expected track IDs in request body, got %q", server.body)
		}
	})
}

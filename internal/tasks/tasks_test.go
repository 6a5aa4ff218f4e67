package tasks

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/desertthunder/catalogctl/internal/models"
	"github.com/desertthunder/catalogctl/internal/shared"
	tu "github.com/desertthunder/catalogctl/internal/testing"
)

type fakeTrackSource struct {
	tracks []models.Track
	err    error
}

func (f *fakeTrackSource) List(ctx context.Context) ([]models.Track, error) {
	return f.tracks, f.err
}

type fakeArtistSource struct {
	artists []models.Artist
	err     error
}

func (f *fakeArtistSource) List(ctx context.Context) ([]models.Artist, error) {
	return f.artists, f.err
}

type fakeAlbumSource struct {
	albums []models.Album
	err    error
}

func (f *fakeAlbumSource) List(ctx context.Context) ([]models.Album, error) {
	return f.albums, f.err
}

type fakeTrackStore struct {
	mu     sync.Mutex
	rows   []*models.PersistedTrack
	failOn string
}

func (f *fakeTrackStore) Upsert(track *models.PersistedTrack) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn != "" && track.Name() == f.failOn {
		return errors.New("disk full")
	}
	f.rows = append(f.rows, track)
	return nil
}

func (f *fakeTrackStore) List(criteria map[string]any) ([]*models.PersistedTrack, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*models.PersistedTrack{}, f.rows...), nil
}

type fakeArtistStore struct {
	mu   sync.Mutex
	rows []*models.PersistedArtist
}

func (f *fakeArtistStore) Upsert(artist *models.PersistedArtist) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = append(f.rows, artist)
	return nil
}

func (f *fakeArtistStore) List(criteria map[string]any) ([]*models.PersistedArtist, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*models.PersistedArtist{}, f.rows...), nil
}

type fakeAlbumStore struct {
	mu   sync.Mutex
	rows []*models.PersistedAlbum
}

func (f *fakeAlbumStore) Upsert(album *models.PersistedAlbum) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = append(f.rows, album)
	return nil
}

func (f *fakeAlbumStore) List(criteria map[string]any) ([]*models.PersistedAlbum, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*models.PersistedAlbum{}, f.rows...), nil
}

func testCatalog() (*fakeTrackSource, *fakeArtistSource, *fakeAlbumSource) {
	tracks := &fakeTrackSource{tracks: []models.Track{
		{ID: 1, Name: "Pyramid Song", ArtistIDs: []int64{10}, AlbumID: 20, DurationMS: 294000, Popularity: 72, ISRC: "GBAYE0100573"},
		{ID: 2, Name: "Knives Out", ArtistIDs: []int64{10}, AlbumID: 20, DurationMS: 254000, Popularity: 65},
	}}
	artists := &fakeArtistSource{artists: []models.Artist{
		{ID: 10, Name: "Radiohead", Popularity: 88},
	}}
	albums := &fakeAlbumSource{albums: []models.Album{
		{ID: 20, Name: "Amnesiac", AlbumType: "album", ReleaseDate: "2001-06-04", Popularity: 80},
	}}
	return tracks, artists, albums
}

func TestCatalogEngineRun(t *testing.T) {
	t.Run("PersistsAllKinds", func(t *testing.T) {
		tracks, artists, albums := testCatalog()
		trackStore := &fakeTrackStore{}
		artistStore := &fakeArtistStore{}
		albumStore := &fakeAlbumStore{}

		engine := NewCatalogEngine(tracks, artists, albums, trackStore, artistStore, albumStore)

		progress := make(chan ProgressUpdate, 32)
		result, err := engine.Run(context.Background(), progress, SnapshotOpts{NumWorkers: 2, RateLimit: 100})
		if err != nil {
			t.Fatalf("run failed: %v", err)
		}

		if result.TrackCount != 2 || result.ArtistCount != 1 || result.AlbumCount != 1 {
			t.Errorf("unexpected fetch counts: %+v", result)
		}
		if result.Persisted != 4 {
			t.Errorf("expected 4 persisted records, got %d", result.Persisted)
		}
		if result.Failed != 0 {
			t.Errorf("expected 0 failures, got %d", result.Failed)
		}

		if len(trackStore.rows) != 2 {
			t.Fatalf("expected 2 track rows, got %d", len(trackStore.rows))
		}
		for _, row := range trackStore.rows {
			if row.Artist() != "Radiohead" {
				t.Errorf("expected resolved artist name, got %q", row.Artist())
			}
			if row.Album() != "Amnesiac" {
				t.Errorf("expected resolved album name, got %q", row.Album())
			}
		}

		close(progress)
		phases := make(map[Phase]bool)
		for update := range progress {
			phases[update.Phase] = true
		}
		for _, want := range []Phase{FetchArtists, FetchAlbums, FetchTracks, Persist} {
			if !phases[want] {
				t.Errorf("expected progress update for phase %s", want)
			}
		}
	})

	t.Run("CollectsFailures", func(t *testing.T) {
		tracks, artists, albums := testCatalog()
		trackStore := &fakeTrackStore{failOn: "Knives Out"}

		engine := NewCatalogEngine(tracks, artists, albums, trackStore, &fakeArtistStore{}, &fakeAlbumStore{})

		result, err := engine.Run(context.Background(), nil, SnapshotOpts{})
		if err != nil {
			t.Fatalf("run failed: %v", err)
		}

		if result.Failed != 1 {
			t.Fatalf("expected 1 failure, got %d", result.Failed)
		}
		if result.Persisted != 3 {
			t.Errorf("expected 3 persisted records, got %d", result.Persisted)
		}
		failure := result.Failures[0]
		if failure.Kind != "track" || failure.Name != "Knives Out" {
			t.Errorf("unexpected failure: %+v", failure)
		}
	})

	t.Run("FetchError", func(t *testing.T) {
		tracks, artists, albums := testCatalog()
		artists.err = errors.New("boom")

		engine := NewCatalogEngine(tracks, artists, albums, &fakeTrackStore{}, &fakeArtistStore{}, &fakeAlbumStore{})

		if _, err := engine.Run(context.Background(), nil, SnapshotOpts{}); !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})

	t.Run("MissingServices", func(t *testing.T) {
		engine := NewCatalogEngine(nil, nil, nil, nil, nil, nil)
		if _, err := engine.Run(context.Background(), nil, SnapshotOpts{}); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})
}

func TestCatalogEngineDiff(t *testing.T) {
	t.Run("MatchesByISRCAndName", func(t *testing.T) {
		tracks, artists, albums := testCatalog()
		trackStore := &fakeTrackStore{rows: []*models.PersistedTrack{
			models.NewPersistedTrack(1, 1, "Pyramid Song", "Radiohead", "Amnesiac", 294000, 72, "GBAYE0100573", false),
			models.NewPersistedTrack(2, 99, "Gone Track", "Nobody", "", 0, 0, "", false),
		}}

		engine := NewCatalogEngine(tracks, artists, albums, trackStore, &fakeArtistStore{}, &fakeAlbumStore{})

		result, err := engine.Diff(context.Background(), nil)
		if err != nil {
			t.Fatalf("diff failed: %v", err)
		}

		if result.MatchedCount != 1 {
			t.Errorf("expected 1 matched track, got %d", result.MatchedCount)
		}
		if len(result.MissingLocally) != 1 || result.MissingLocally[0].Name != "Knives Out" {
			t.Errorf("unexpected missing tracks: %+v", result.MissingLocally)
		}
		if len(result.StaleLocally) != 1 || result.StaleLocally[0] != "Gone Track" {
			t.Errorf("unexpected stale tracks: %+v", result.StaleLocally)
		}
		if result.LocalCount != 2 || result.RemoteCount != 2 {
			t.Errorf("unexpected counts: %+v", result)
		}
	})

	t.Run("EmptySnapshot", func(t *testing.T) {
		tracks, artists, albums := testCatalog()
		engine := NewCatalogEngine(tracks, artists, albums, &fakeTrackStore{}, &fakeArtistStore{}, &fakeAlbumStore{})

		result, err := engine.Diff(context.Background(), nil)
		if err != nil {
			t.Fatalf("diff failed: %v", err)
		}
		if result.MatchedCount != 0 || len(result.MissingLocally) != 2 {
			t.Errorf("expected all tracks missing locally, got %+v", result)
		}
	})
}

func TestCatalogEngineExport(t *testing.T) {
	seededStores := func() (*fakeTrackStore, *fakeArtistStore, *fakeAlbumStore) {
		trackStore := &fakeTrackStore{rows: []*models.PersistedTrack{
			models.NewPersistedTrack(1, 1, "Pyramid Song", "Radiohead", "Amnesiac", 294000, 72, "GBAYE0100573", false),
		}}
		artistStore := &fakeArtistStore{rows: []*models.PersistedArtist{
			models.NewPersistedArtist(1, 10, "Radiohead", "", 88),
		}}
		albumStore := &fakeAlbumStore{rows: []*models.PersistedAlbum{
			models.NewPersistedAlbum(1, 20, "Amnesiac", "album", "2001-06-04", 80),
		}}
		return trackStore, artistStore, albumStore
	}

	t.Run("JSONDefault", func(t *testing.T) {
		trackStore, artistStore, albumStore := seededStores()
		engine := NewCatalogEngine(nil, nil, nil, trackStore, artistStore, albumStore)

		dir := t.TempDir()
		result, err := engine.Export(context.Background(), nil, ExportOpts{OutputDir: dir})
		if err != nil {
			t.Fatalf("export failed: %v", err)
		}

		if result.Format != "json" {
			t.Errorf("expected json format default, got %s", result.Format)
		}
		if len(result.Files) != 1 {
			t.Fatalf("expected 1 file, got %d", len(result.Files))
		}

		if data := tu.MustReadFile(t, result.Files[0]); !strings.Contains(data, "Pyramid Song") {
			t.Error("expected track in JSON export")
		}

		if result.ManifestPath == "" {
			t.Fatal("expected manifest path")
		}
		tu.AssertFileExists(t, result.ManifestPath)
	})

	t.Run("CreatesOutputDir", func(t *testing.T) {
		trackStore, artistStore, albumStore := seededStores()
		engine := NewCatalogEngine(nil, nil, nil, trackStore, artistStore, albumStore)

		dir := filepath.Join(t.TempDir(), "exports")
		if _, err := engine.Export(context.Background(), nil, ExportOpts{OutputDir: dir}); err != nil {
			t.Fatalf("export failed: %v", err)
		}
		tu.AssertDirExists(t, dir)
	})

	t.Run("CSV", func(t *testing.T) {
		trackStore, artistStore, albumStore := seededStores()
		engine := NewCatalogEngine(nil, nil, nil, trackStore, artistStore, albumStore)

		dir := t.TempDir()
		result, err := engine.Export(context.Background(), nil, ExportOpts{Format: "csv", OutputDir: dir, Label: "backup"})
		if err != nil {
			t.Fatalf("export failed: %v", err)
		}

		if len(result.Files) != 3 {
			t.Fatalf("expected 3 CSV files, got %d", len(result.Files))
		}
		if filepath.Base(result.Files[0]) != "backup_tracks.csv" {
			t.Errorf("unexpected tracks file: %s", result.Files[0])
		}
	})

	t.Run("Markdown", func(t *testing.T) {
		trackStore, artistStore, albumStore := seededStores()
		engine := NewCatalogEngine(nil, nil, nil, trackStore, artistStore, albumStore)

		dir := t.TempDir()
		result, err := engine.Export(context.Background(), nil, ExportOpts{Format: "markdown", OutputDir: dir})
		if err != nil {
			t.Fatalf("export failed: %v", err)
		}
		if len(result.Files) != 1 || filepath.Ext(result.Files[0]) != ".md" {
			t.Errorf("unexpected files: %+v", result.Files)
		}
	})
}

func TestPhaseString(t *testing.T) {
	cases := map[Phase]string{
		FetchArtists: "fetch_artists",
		FetchAlbums:  "fetch_albums",
		FetchTracks:  "fetch_tracks",
		Persist:      "persist",
		Compare:      "compare",
		Export:       "export",
		Phase(99):    "",
	}
	for phase, want := range cases {
		if got := phase.String(); got != want {
			t.Errorf("expected %q for phase %d, got %q", want, int(phase), got)
		}
	}
}

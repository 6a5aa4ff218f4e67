package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/desertthunder/catalogctl/internal/formatter"
	"github.com/desertthunder/catalogctl/internal/models"
	"github.com/desertthunder/catalogctl/internal/shared"
	"golang.org/x/time/rate"
)

// SnapshotOpts contains configuration for snapshot runs.
type SnapshotOpts struct {
	NumWorkers int     // Concurrent persistence workers (default: 5)
	RateLimit  float64 // API requests per second (default: 5)
}

// SnapshotFailure records a single record that could not be persisted.
type SnapshotFailure struct {
	Kind string // track, artist, or album
	Name string
	Err  error
}

// SnapshotRunResult contains all data from a full snapshot run.
type SnapshotRunResult struct {
	ArtistCount int // Artists fetched from the catalog
	AlbumCount  int // Albums fetched from the catalog
	TrackCount  int // Tracks fetched from the catalog
	Persisted   int // Records written to the local store
	Failed      int // Records that could not be written
	Failures    []SnapshotFailure
}

// ExportOpts contains configuration for snapshot exports.
type ExportOpts struct {
	Format    string // Export format: json, csv, markdown, txt
	OutputDir string // Base output directory (default: catalog_export_{epoch})
	Label     string // Snapshot label used in headers and filenames (default: catalog)
}

// ExportRunResult contains the outcome of a snapshot export.
type ExportRunResult struct {
	Format          string   `json:"format"`
	OutputDirectory string   `json:"outputDirectory"`
	Files           []string `json:"files"`
	ManifestPath    string   `json:"manifestPath,omitempty"`
	TrackCount      int      `json:"trackCount"`
	ArtistCount     int      `json:"artistCount"`
	AlbumCount      int      `json:"albumCount"`
}

// snapshotJob is a single persistence operation executed by the worker pool.
type snapshotJob struct {
	kind    string
	name    string
	persist func() error
}

type persistResult struct {
	kind string
	name string
	err  error
}

// Run fetches the full catalog and upserts every record into the local store.
//
// This method implements a worker pool pattern so database writes proceed
// concurrently while the producer respects API rate limits. Partial failures
// are collected rather than aborting the run.
func (e *CatalogEngine) Run(ctx context.Context, progress chan<- ProgressUpdate, opts SnapshotOpts) (*SnapshotRunResult, error) {
	if e.tracks == nil || e.artists == nil || e.albums == nil {
		return nil, fmt.Errorf("%w: catalog services not initialized", shared.ErrServiceUnavailable)
	}
	if e.trackRepo == nil || e.artistRepo == nil || e.albumRepo == nil {
		return nil, fmt.Errorf("%w: snapshot store not initialized", shared.ErrServiceUnavailable)
	}

	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 5
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	e.sendProgress(progress, fetchArtistsUpdate(1, 3))
	if err := limiter.Wait(ctx); err != nil {
		return nil, err
	}
	artists, err := e.artists.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list artists: %v", shared.ErrAPIRequest, err)
	}

	e.sendProgress(progress, fetchAlbumsUpdate(2, 3))
	if err := limiter.Wait(ctx); err != nil {
		return nil, err
	}
	albums, err := e.albums.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list albums: %v", shared.ErrAPIRequest, err)
	}

	e.sendProgress(progress, fetchTracksUpdate(3, 3))
	if err := limiter.Wait(ctx); err != nil {
		return nil, err
	}
	tracks, err := e.tracks.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list tracks: %v", shared.ErrAPIRequest, err)
	}

	result := &SnapshotRunResult{
		ArtistCount: len(artists),
		AlbumCount:  len(albums),
		TrackCount:  len(tracks),
	}

	// Track listings carry artist and album IDs. Resolve them to names so
	// snapshot rows are readable without joins.
	artistNames := make(map[int64]string, len(artists))
	for _, artist := range artists {
		artistNames[artist.ID] = artist.Name
	}
	albumNames := make(map[int64]string, len(albums))
	for _, album := range albums {
		albumNames[album.ID] = album.Name
	}

	total := len(artists) + len(albums) + len(tracks)
	jobs := make(chan snapshotJob, total)
	results := make(chan persistResult, total)

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go persistWorker(ctx, &wg, jobs, results)
	}

	for _, artist := range artists {
		row := models.NewPersistedArtist(0, artist.ID, artist.Name, artist.Description, artist.Popularity)
		jobs <- snapshotJob{kind: "artist", name: artist.Name, persist: func() error { return e.artistRepo.Upsert(row) }}
	}
	for _, album := range albums {
		row := models.NewPersistedAlbum(0, album.ID, album.Name, album.AlbumType, album.ReleaseDate, album.Popularity)
		jobs <- snapshotJob{kind: "album", name: album.Name, persist: func() error { return e.albumRepo.Upsert(row) }}
	}
	for _, track := range tracks {
		artistName := ""
		if len(track.ArtistIDs) > 0 {
			artistName = artistNames[track.ArtistIDs[0]]
		}
		row := models.NewPersistedTrack(0, track.ID, track.Name, artistName, albumNames[track.AlbumID],
			track.DurationMS, track.Popularity, track.ISRC, track.Explicit)
		jobs <- snapshotJob{kind: "track", name: track.Name, persist: func() error { return e.trackRepo.Upsert(row) }}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		if res.err != nil {
			result.Failed++
			result.Failures = append(result.Failures, SnapshotFailure{Kind: res.kind, Name: res.name, Err: res.err})
			e.sendProgress(progress, persistFailedUpdate(completed, total, res.name, res.err))
		} else {
			result.Persisted++
			e.sendProgress(progress, persistUpdate(completed, total, res.name))
		}
	}

	return result, nil
}

// persistWorker is a worker goroutine that executes persistence jobs.
func persistWorker(ctx context.Context, wg *sync.WaitGroup, jobs <-chan snapshotJob, results chan<- persistResult) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			results <- persistResult{kind: job.kind, name: job.name, err: ctx.Err()}
			continue
		default:
		}

		results <- persistResult{kind: job.kind, name: job.name, err: job.persist()}
	}
}

// Export writes the local snapshot to disk in the requested format.
func (e *CatalogEngine) Export(ctx context.Context, progress chan<- ProgressUpdate, opts ExportOpts) (*ExportRunResult, error) {
	if e.trackRepo == nil || e.artistRepo == nil || e.albumRepo == nil {
		return nil, fmt.Errorf("%w: snapshot store not initialized", shared.ErrServiceUnavailable)
	}

	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("catalog_export_%d", time.Now().Unix())
	}
	if opts.Label == "" {
		opts.Label = "catalog"
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	tracks, err := e.trackRepo.List(map[string]any{})
	if err != nil {
		return nil, fmt.Errorf("failed to read track snapshot: %w", err)
	}
	artists, err := e.artistRepo.List(map[string]any{})
	if err != nil {
		return nil, fmt.Errorf("failed to read artist snapshot: %w", err)
	}
	albums, err := e.albumRepo.List(map[string]any{})
	if err != nil {
		return nil, fmt.Errorf("failed to read album snapshot: %w", err)
	}

	export := &formatter.SnapshotExport{
		Label:   opts.Label,
		TakenAt: time.Now(),
		Tracks:  tracks,
		Artists: artists,
		Albums:  albums,
	}

	result := &ExportRunResult{
		Format:          opts.Format,
		OutputDirectory: opts.OutputDir,
		TrackCount:      len(tracks),
		ArtistCount:     len(artists),
		AlbumCount:      len(albums),
	}

	e.sendProgress(progress, exportingUpdate(1, 2, opts.Format))

	switch opts.Format {
	case "csv":
		base := filepath.Join(opts.OutputDir, opts.Label)
		csvRes, err := formatter.WriteCSVExport(export, base)
		if err != nil {
			return nil, fmt.Errorf("CSV export failed: %w", err)
		}
		result.Files = []string{csvRes.TracksFile, csvRes.ArtistsFile, csvRes.AlbumsFile}

	case "markdown":
		path := filepath.Join(opts.OutputDir, opts.Label+".md")
		file, err := formatter.WriteMarkdownExport(export, path)
		if err != nil {
			return nil, fmt.Errorf("markdown export failed: %w", err)
		}
		result.Files = []string{file}

	case "txt":
		path := filepath.Join(opts.OutputDir, opts.Label+"_tracks.txt")
		file, err := formatter.WriteTextExport(export, path)
		if err != nil {
			return nil, fmt.Errorf("text export failed: %w", err)
		}
		result.Files = []string{file}

	case "json":
		fallthrough
	default:
		result.Format = "json"
		path := filepath.Join(opts.OutputDir, opts.Label+".json")
		data, err := formatter.ToJSON(export)
		if err != nil {
			return nil, fmt.Errorf("JSON export failed: %w", err)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return nil, fmt.Errorf("JSON write failed: %w", err)
		}
		result.Files = []string{path}
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	if err := formatter.WriteManifest(result, manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath

	e.sendProgress(progress, exportCompletedUpdate(2, 2, len(result.Files)))
	return result, nil
}

// package tasks implements catalog snapshot operations against the admin API.
//
// The core abstraction is SnapshotEngine, which orchestrates snapshot runs, comparisons, and exports.
// Operations emit progress updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"

	"github.com/desertthunder/catalogctl/internal/models"
	"github.com/desertthunder/catalogctl/internal/shared"
)

// TrackSource lists tracks from the live catalog.
type TrackSource interface {
	List(ctx context.Context) ([]models.Track, error)
}

// ArtistSource lists artists from the live catalog.
type ArtistSource interface {
	List(ctx context.Context) ([]models.Artist, error)
}

// AlbumSource lists albums from the live catalog.
type AlbumSource interface {
	List(ctx context.Context) ([]models.Album, error)
}

// TrackStore persists track snapshot rows.
type TrackStore interface {
	Upsert(track *models.PersistedTrack) error
	List(criteria map[string]any) ([]*models.PersistedTrack, error)
}

// ArtistStore persists artist snapshot rows.
type ArtistStore interface {
	Upsert(artist *models.PersistedArtist) error
	List(criteria map[string]any) ([]*models.PersistedArtist, error)
}

// AlbumStore persists album snapshot rows.
type AlbumStore interface {
	Upsert(album *models.PersistedAlbum) error
	List(criteria map[string]any) ([]*models.PersistedAlbum, error)
}

// SnapshotDiffResult contains the results of comparing the local snapshot with the live catalog.
type SnapshotDiffResult struct {
	LocalCount     int            // Track rows in the local snapshot
	RemoteCount    int            // Tracks on the server
	MatchedCount   int            // Tracks found in both
	MissingLocally []models.Track // Tracks on the server but not in the snapshot
	StaleLocally   []string       // Snapshot track names with no live counterpart
}

// SnapshotEngine defines operations for maintaining the local catalog snapshot.
type SnapshotEngine interface {
	// Run performs a full backend → local snapshot by fetching artists, albums, and tracks, then upserting each record.
	Run(ctx context.Context, progress chan<- ProgressUpdate, opts SnapshotOpts) (*SnapshotRunResult, error)

	// Diff compares the local snapshot against the live catalog by identifying matched, missing, and stale tracks.
	Diff(ctx context.Context, progress chan<- ProgressUpdate) (*SnapshotDiffResult, error)

	// Export writes the local snapshot to disk in the requested format.
	Export(ctx context.Context, progress chan<- ProgressUpdate, opts ExportOpts) (*ExportRunResult, error)
}

// CatalogEngine implements SnapshotEngine for the admin catalog.
// Contains dependencies on the live API services and the local snapshot repositories.
type CatalogEngine struct {
	tracks  TrackSource
	artists ArtistSource
	albums  AlbumSource

	trackRepo  TrackStore
	artistRepo ArtistStore
	albumRepo  AlbumStore
}

// NewCatalogEngine creates a new CatalogEngine with the provided sources and stores.
func NewCatalogEngine(tracks TrackSource, artists ArtistSource, albums AlbumSource, trackRepo TrackStore, artistRepo ArtistStore, albumRepo AlbumStore) *CatalogEngine {
	return &CatalogEngine{
		tracks:     tracks,
		artists:    artists,
		albums:     albums,
		trackRepo:  trackRepo,
		artistRepo: artistRepo,
		albumRepo:  albumRepo,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *CatalogEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// Diff compares local snapshot tracks with the live catalog.
func (e *CatalogEngine) Diff(ctx context.Context, progress chan<- ProgressUpdate) (*SnapshotDiffResult, error) {
	if e.tracks == nil {
		return nil, fmt.Errorf("%w: track service not initialized", shared.ErrServiceUnavailable)
	}
	if e.trackRepo == nil {
		return nil, fmt.Errorf("%w: snapshot store not initialized", shared.ErrServiceUnavailable)
	}

	e.sendProgress(progress, fetchTracksUpdate(1, 2))
	remote, err := e.tracks.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list tracks: %v", shared.ErrAPIRequest, err)
	}

	e.sendProgress(progress, compareUpdate(2, 2))
	local, err := e.trackRepo.List(map[string]any{})
	if err != nil {
		return nil, fmt.Errorf("failed to read local snapshot: %w", err)
	}

	result := &SnapshotDiffResult{
		LocalCount:  len(local),
		RemoteCount: len(remote),
	}

	// Live track listings carry artist IDs rather than names, so name-only
	// keys are used when ISRC is absent.
	localKeyMap := make(map[string]*models.PersistedTrack)
	localISRCMap := make(map[string]*models.PersistedTrack)
	for _, track := range local {
		localKeyMap[shared.NormalizeTrackKey(track.Name(), "")] = track
		if track.ISRC() != "" {
			localISRCMap[track.ISRC()] = track
		}
	}

	remoteKeySet := make(map[string]struct{})
	remoteISRCSet := make(map[string]struct{})

	for _, track := range remote {
		matched := false

		if track.ISRC != "" {
			remoteISRCSet[track.ISRC] = struct{}{}
			if _, found := localISRCMap[track.ISRC]; found {
				matched = true
			}
		}

		key := shared.NormalizeTrackKey(track.Name, "")
		remoteKeySet[key] = struct{}{}
		if !matched {
			if _, found := localKeyMap[key]; found {
				matched = true
			}
		}

		if matched {
			result.MatchedCount++
		} else {
			result.MissingLocally = append(result.MissingLocally, track)
		}
	}

	for _, track := range local {
		if track.ISRC() != "" {
			if _, found := remoteISRCSet[track.ISRC()]; found {
				continue
			}
		}
		key := shared.NormalizeTrackKey(track.Name(), "")
		if _, found := remoteKeySet[key]; found {
			continue
		}
		result.StaleLocally = append(result.StaleLocally, track.Name())
	}

	return result, nil
}

var _ SnapshotEngine = (*CatalogEngine)(nil)

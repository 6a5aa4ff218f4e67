package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/catalogctl/internal/models"
	"github.com/desertthunder/catalogctl/internal/shared"
)

// TrackRepository implements models.Repository[*models.PersistedTrack] for the
// local track snapshot.
//
// Rows are keyed by the backend's numeric ID (remote_id) so repeated snapshot
// runs update in place via Upsert rather than duplicating.
type TrackRepository struct {
	db *sql.DB
}

// NewTrackRepository creates a new TrackRepository with the given database connection
func NewTrackRepository(db *sql.DB) *TrackRepository {
	return &TrackRepository{db: db}
}

// Create inserts a new [models.PersistedTrack] into the database with generated ID and sequence
func (r *TrackRepository) Create(track *models.PersistedTrack) error {
	sequence, err := NextSequence(r.db, "tracks")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	track.SetID(id)

	if err := track.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO tracks (id, sequence, remote_id, name, artist, album, duration_ms, popularity, isrc, explicit, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		track.RemoteID(),
		track.Name(),
		track.Artist(),
		track.Album(),
		track.DurationMS(),
		track.Popularity(),
		track.ISRC(),
		track.Explicit(),
		track.CreatedAt(),
		track.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert track: %w", err)
	}

	return nil
}

// Get retrieves a track by ID, excluding soft-deleted tracks
func (r *TrackRepository) Get(id string) (*models.PersistedTrack, error) {
	query := `
		SELECT id, sequence, remote_id, name, artist, album, duration_ms, popularity, isrc, explicit, created_at, updated_at, deleted_at
		FROM tracks
		WHERE id = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByRemoteID retrieves a track by its backend ID
func (r *TrackRepository) GetByRemoteID(remoteID int64) (*models.PersistedTrack, error) {
	query := `
		SELECT id, sequence, remote_id, name, artist, album, duration_ms, popularity, isrc, explicit, created_at, updated_at, deleted_at
		FROM tracks
		WHERE remote_id = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, remoteID))
}

// GetByISRC retrieves a track by ISRC code
func (r *TrackRepository) GetByISRC(isrc string) (*models.PersistedTrack, error) {
	query := `
		SELECT id, sequence, remote_id, name, artist, album, duration_ms, popularity, isrc, explicit, created_at, updated_at, deleted_at
		FROM tracks
		WHERE isrc = ? AND deleted_at IS NULL
		LIMIT 1
	`

	return r.scanOne(r.db.QueryRow(query, isrc))
}

// Update modifies an existing track in the database
func (r *TrackRepository) Update(track *models.PersistedTrack) error {
	if err := track.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	track.SetUpdatedAt(now)

	query := `
		UPDATE tracks
		SET name = ?, artist = ?, album = ?, duration_ms = ?, popularity = ?, isrc = ?, explicit = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		track.Name(),
		track.Artist(),
		track.Album(),
		track.DurationMS(),
		track.Popularity(),
		track.ISRC(),
		track.Explicit(),
		now,
		track.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update track: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: track %s", shared.ErrNotFound, track.ID())
	}

	return nil
}

// Upsert inserts the track or, when a row with the same remote ID exists,
// updates it in place. The snapshot engine calls this for every fetched record.
func (r *TrackRepository) Upsert(track *models.PersistedTrack) error {
	existing, err := r.GetByRemoteID(track.RemoteID())
	if err != nil {
		return r.Create(track)
	}

	existing.SetName(track.Name())
	existing.SetArtist(track.Artist())
	existing.SetAlbum(track.Album())
	existing.SetDurationMS(track.DurationMS())
	existing.SetPopularity(track.Popularity())
	existing.SetISRC(track.ISRC())
	existing.SetExplicit(track.Explicit())
	return r.Update(existing)
}

// Delete soft-deletes a track by ID
func (r *TrackRepository) Delete(id string) error {
	return softDelete(r.db, "tracks", id)
}

// List retrieves tracks matching the given criteria, newest first
func (r *TrackRepository) List(criteria map[string]any) ([]*models.PersistedTrack, error) {
	query := `
		SELECT id, sequence, remote_id, name, artist, album, duration_ms, popularity, isrc, explicit, created_at, updated_at, deleted_at
		FROM tracks
		WHERE deleted_at IS NULL
	`
	args := []any{}

	if artist, ok := criteria["artist"]; ok {
		query += " AND artist = ?"
		args = append(args, artist)
	}
	if album, ok := criteria["album"]; ok {
		query += " AND album = ?"
		args = append(args, album)
	}

	query += " ORDER BY sequence DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracks: %w", err)
	}
	defer rows.Close()

	var tracks []*models.PersistedTrack
	for rows.Next() {
		track, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, track)
	}

	return tracks, rows.Err()
}

// Count returns the number of active snapshot rows
func (r *TrackRepository) Count() (int, error) {
	return countActive(r.db, "tracks")
}

// Purge removes every snapshot row and resets the sequence
func (r *TrackRepository) Purge() error {
	return purge(r.db, "tracks")
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func (r *TrackRepository) scanOne(row *sql.Row) (*models.PersistedTrack, error) {
	track, err := r.scanRow(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: track", shared.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return track, nil
}

func (r *TrackRepository) scanRow(row rowScanner) (*models.PersistedTrack, error) {
	var (
		id         string
		sequence   int
		remoteID   int64
		name       string
		artist     sql.NullString
		album      sql.NullString
		durationMS sql.NullInt64
		popularity sql.NullInt64
		isrc       sql.NullString
		explicit   bool
		createdAt  time.Time
		updatedAt  time.Time
		deletedAt  sql.NullTime
	)

	err := row.Scan(&id, &sequence, &remoteID, &name, &artist, &album, &durationMS, &popularity, &isrc, &explicit, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan track: %w", err)
	}

	track := models.NewPersistedTrack(sequence, remoteID, name, artist.String, album.String, int(durationMS.Int64), int(popularity.Int64), isrc.String, explicit)
	track.SetID(id)
	track.SetCreatedAt(createdAt)
	track.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		track.SetDeletedAt(&deletedAt.Time)
	}

	return track, nil
}

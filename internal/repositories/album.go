package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/catalogctl/internal/models"
	"github.com/desertthunder/catalogctl/internal/shared"
)

// AlbumRepository implements models.Repository[*models.PersistedAlbum] for the
// local album snapshot.
type AlbumRepository struct {
	db *sql.DB
}

// NewAlbumRepository creates a new AlbumRepository with the given database connection
func NewAlbumRepository(db *sql.DB) *AlbumRepository {
	return &AlbumRepository{db: db}
}

// Create inserts a new [models.PersistedAlbum] into the database with generated ID and sequence
func (r *AlbumRepository) Create(album *models.PersistedAlbum) error {
	sequence, err := NextSequence(r.db, "albums")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	album.SetID(id)

	if err := album.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO albums (id, sequence, remote_id, name, album_type, release_date, popularity, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		album.RemoteID(),
		album.Name(),
		album.AlbumType(),
		album.ReleaseDate(),
		album.Popularity(),
		album.CreatedAt(),
		album.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert album: %w", err)
	}

	return nil
}

// Get retrieves an album by ID, excluding soft-deleted albums
func (r *AlbumRepository) Get(id string) (*models.PersistedAlbum, error) {
	query := `
		SELECT id, sequence, remote_id, name, album_type, release_date, popularity, created_at, updated_at, deleted_at
		FROM albums
		WHERE id = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByRemoteID retrieves an album by its backend ID
func (r *AlbumRepository) GetByRemoteID(remoteID int64) (*models.PersistedAlbum, error) {
	query := `
		SELECT id, sequence, remote_id, name, album_type, release_date, popularity, created_at, updated_at, deleted_at
		FROM albums
		WHERE remote_id = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, remoteID))
}

// Update modifies an existing album in the database
func (r *AlbumRepository) Update(album *models.PersistedAlbum) error {
	if err := album.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	album.SetUpdatedAt(now)

	query := `
		UPDATE albums
		SET name = ?, album_type = ?, release_date = ?, popularity = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		album.Name(),
		album.AlbumType(),
		album.ReleaseDate(),
		album.Popularity(),
		now,
		album.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update album: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: album %s", shared.ErrNotFound, album.ID())
	}

	return nil
}

// Upsert inserts the album or updates the existing row with the same remote ID.
func (r *AlbumRepository) Upsert(album *models.PersistedAlbum) error {
	existing, err := r.GetByRemoteID(album.RemoteID())
	if err != nil {
		return r.Create(album)
	}

	existing.SetName(album.Name())
	existing.SetAlbumType(album.AlbumType())
	existing.SetReleaseDate(album.ReleaseDate())
	existing.SetPopularity(album.Popularity())
	return r.Update(existing)
}

// Delete soft-deletes an album by ID
func (r *AlbumRepository) Delete(id string) error {
	return softDelete(r.db, "albums", id)
}

// List retrieves albums matching the given criteria, newest first
func (r *AlbumRepository) List(criteria map[string]any) ([]*models.PersistedAlbum, error) {
	query := `
		SELECT id, sequence, remote_id, name, album_type, release_date, popularity, created_at, updated_at, deleted_at
		FROM albums
		WHERE deleted_at IS NULL
	`
	args := []any{}

	if albumType, ok := criteria["album_type"]; ok {
		query += " AND album_type = ?"
		args = append(args, albumType)
	}

	query += " ORDER BY sequence DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query albums: %w", err)
	}
	defer rows.Close()

	var albums []*models.PersistedAlbum
	for rows.Next() {
		album, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		albums = append(albums, album)
	}

	return albums, rows.Err()
}

// Count returns the number of active snapshot rows
func (r *AlbumRepository) Count() (int, error) {
	return countActive(r.db, "albums")
}

// Purge removes every snapshot row and resets the sequence
func (r *AlbumRepository) Purge() error {
	return purge(r.db, "albums")
}

func (r *AlbumRepository) scanOne(row *sql.Row) (*models.PersistedAlbum, error) {
	album, err := r.scanRow(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: album", shared.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return album, nil
}

func (r *AlbumRepository) scanRow(row rowScanner) (*models.PersistedAlbum, error) {
	var (
		id          string
		sequence    int
		remoteID    int64
		name        string
		albumType   sql.NullString
		releaseDate sql.NullString
		popularity  sql.NullInt64
		createdAt   time.Time
		updatedAt   time.Time
		deletedAt   sql.NullTime
	)

	err := row.Scan(&id, &sequence, &remoteID, &name, &albumType, &releaseDate, &popularity, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan album: %w", err)
	}

	album := models.NewPersistedAlbum(sequence, remoteID, name, albumType.String, releaseDate.String, int(popularity.Int64))
	album.SetID(id)
	album.SetCreatedAt(createdAt)
	album.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		album.SetDeletedAt(&deletedAt.Time)
	}

	return album, nil
}

package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/catalogctl/internal/models"
	"github.com/desertthunder/catalogctl/internal/shared"
)

// ArtistRepository implements models.Repository[*models.PersistedArtist] for
// the local artist snapshot.
type ArtistRepository struct {
	db *sql.DB
}

// NewArtistRepository creates a new ArtistRepository with the given database connection
func NewArtistRepository(db *sql.DB) *ArtistRepository {
	return &ArtistRepository{db: db}
}

// Create inserts a new [models.PersistedArtist] into the database with generated ID and sequence
func (r *ArtistRepository) Create(artist *models.PersistedArtist) error {
	sequence, err := NextSequence(r.db, "artists")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	artist.SetID(id)

	if err := artist.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO artists (id, sequence, remote_id, name, description, popularity, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		artist.RemoteID(),
		artist.Name(),
		artist.Description(),
		artist.Popularity(),
		artist.CreatedAt(),
		artist.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert artist: %w", err)
	}

	return nil
}

// Get retrieves an artist by ID, excluding soft-deleted artists
func (r *ArtistRepository) Get(id string) (*models.PersistedArtist, error) {
	query := `
		SELECT id, sequence, remote_id, name, description, popularity, created_at, updated_at, deleted_at
		FROM artists
		WHERE id = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByRemoteID retrieves an artist by its backend ID
func (r *ArtistRepository) GetByRemoteID(remoteID int64) (*models.PersistedArtist, error) {
	query := `
		SELECT id, sequence, remote_id, name, description, popularity, created_at, updated_at, deleted_at
		FROM artists
		WHERE remote_id = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, remoteID))
}

// Update modifies an existing artist in the database
func (r *ArtistRepository) Update(artist *models.PersistedArtist) error {
	if err := artist.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	artist.SetUpdatedAt(now)

	query := `
		UPDATE artists
		SET name = ?, description = ?, popularity = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		artist.Name(),
		artist.Description(),
		artist.Popularity(),
		now,
		artist.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update artist: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: artist %s", shared.ErrNotFound, artist.ID())
	}

	return nil
}

// Upsert inserts the artist or updates the existing row with the same remote ID.
func (r *ArtistRepository) Upsert(artist *models.PersistedArtist) error {
	existing, err := r.GetByRemoteID(artist.RemoteID())
	if err != nil {
		return r.Create(artist)
	}

	existing.SetName(artist.Name())
	existing.SetDescription(artist.Description())
	existing.SetPopularity(artist.Popularity())
	return r.Update(existing)
}

// Delete soft-deletes an artist by ID
func (r *ArtistRepository) Delete(id string) error {
	return softDelete(r.db, "artists", id)
}

// List retrieves artists matching the given criteria, newest first
func (r *ArtistRepository) List(criteria map[string]any) ([]*models.PersistedArtist, error) {
	query := `
		SELECT id, sequence, remote_id, name, description, popularity, created_at, updated_at, deleted_at
		FROM artists
		WHERE deleted_at IS NULL
	`
	args := []any{}

	if name, ok := criteria["name"]; ok {
		query += " AND name = ?"
		args = append(args, name)
	}

	query += " ORDER BY sequence DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query artists: %w", err)
	}
	defer rows.Close()

	var artists []*models.PersistedArtist
	for rows.Next() {
		artist, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		artists = append(artists, artist)
	}

	return artists, rows.Err()
}

// Count returns the number of active snapshot rows
func (r *ArtistRepository) Count() (int, error) {
	return countActive(r.db, "artists")
}

// Purge removes every snapshot row and resets the sequence
func (r *ArtistRepository) Purge() error {
	return purge(r.db, "artists")
}

func (r *ArtistRepository) scanOne(row *sql.Row) (*models.PersistedArtist, error) {
	artist, err := r.scanRow(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: artist", shared.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return artist, nil
}

func (r *ArtistRepository) scanRow(row rowScanner) (*models.PersistedArtist, error) {
	var (
		id          string
		sequence    int
		remoteID    int64
		name        string
		description sql.NullString
		popularity  sql.NullInt64
		createdAt   time.Time
		updatedAt   time.Time
		deletedAt   sql.NullTime
	)

	err := row.Scan(&id, &sequence, &remoteID, &name, &description, &popularity, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan artist: %w", err)
	}

	artist := models.NewPersistedArtist(sequence, remoteID, name, description.String, int(popularity.Int64))
	artist.SetID(id)
	artist.SetCreatedAt(createdAt)
	artist.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		artist.SetDeletedAt(&deletedAt.Time)
	}

	return artist, nil
}

package models

import (
	"fmt"
	"time"
)

// base carries the lifecycle fields shared by all persisted snapshot rows.
type base struct {
	id        string
	sequence  int
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

func newBase(sequence int) base {
	now := time.Now()
	return base{sequence: sequence, createdAt: now, updatedAt: now}
}

func (b *base) ID() string                { return b.id }
func (b *base) Sequence() int             { return b.sequence }
func (b *base) CreatedAt() time.Time      { return b.createdAt }
func (b *base) UpdatedAt() time.Time      { return b.updatedAt }
func (b *base) DeletedAt() *time.Time     { return b.deletedAt }
func (b *base) SetID(id string)           { b.id = id }
func (b *base) SetUpdatedAt(t time.Time)  { b.updatedAt = t }
func (b *base) SetDeletedAt(t *time.Time) { b.deletedAt = t }
func (b *base) SetCreatedAt(t time.Time)  { b.createdAt = t }

// PersistedTrack is a locally cached copy of a backend track, kept for
// offline inspection and export after a snapshot run.
type PersistedTrack struct {
	base
	remoteID   int64
	name       string
	artist     string
	album      string
	durationMS int
	popularity int
	isrc       string
	explicit   bool
}

// NewPersistedTrack creates a track snapshot row with lifecycle timestamps initialized.
func NewPersistedTrack(sequence int, remoteID int64, name, artist, album string, durationMS, popularity int, isrc string, explicit bool) *PersistedTrack {
	return &PersistedTrack{
		base:       newBase(sequence),
		remoteID:   remoteID,
		name:       name,
		artist:     artist,
		album:      album,
		durationMS: durationMS,
		popularity: popularity,
		isrc:       isrc,
		explicit:   explicit,
	}
}

func (t *PersistedTrack) RemoteID() int64 { return t.remoteID }
func (t *PersistedTrack) Name() string    { return t.name }
func (t *PersistedTrack) Artist() string  { return t.artist }
func (t *PersistedTrack) Album() string   { return t.album }
func (t *PersistedTrack) DurationMS() int { return t.durationMS }
func (t *PersistedTrack) Popularity() int { return t.popularity }
func (t *PersistedTrack) ISRC() string    { return t.isrc }
func (t *PersistedTrack) Explicit() bool  { return t.explicit }

func (t *PersistedTrack) SetName(name string)     { t.name = name }
func (t *PersistedTrack) SetArtist(artist string) { t.artist = artist }
func (t *PersistedTrack) SetAlbum(album string)   { t.album = album }
func (t *PersistedTrack) SetDurationMS(ms int)    { t.durationMS = ms }
func (t *PersistedTrack) SetPopularity(p int)     { t.popularity = p }
func (t *PersistedTrack) SetISRC(isrc string)     { t.isrc = isrc }
func (t *PersistedTrack) SetExplicit(e bool)      { t.explicit = e }

// Validate checks required fields before persistence.
func (t *PersistedTrack) Validate() error {
	if t.name == "" {
		return fmt.Errorf("track name is required")
	}
	if t.remoteID <= 0 {
		return fmt.Errorf("track remote ID must be positive, got %d", t.remoteID)
	}
	return nil
}

// PersistedArtist is a locally cached copy of a backend artist.
type PersistedArtist struct {
	base
	remoteID    int64
	name        string
	description string
	popularity  int
}

// NewPersistedArtist creates an artist snapshot row with lifecycle timestamps initialized.
func NewPersistedArtist(sequence int, remoteID int64, name, description string, popularity int) *PersistedArtist {
	return &PersistedArtist{
		base:        newBase(sequence),
		remoteID:    remoteID,
		name:        name,
		description: description,
		popularity:  popularity,
	}
}

func (a *PersistedArtist) RemoteID() int64     { return a.remoteID }
func (a *PersistedArtist) Name() string        { return a.name }
func (a *PersistedArtist) Description() string { return a.description }
func (a *PersistedArtist) Popularity() int     { return a.popularity }

func (a *PersistedArtist) SetName(name string)        { a.name = name }
func (a *PersistedArtist) SetDescription(desc string) { a.description = desc }
func (a *PersistedArtist) SetPopularity(p int)        { a.popularity = p }

// Validate checks required fields before persistence.
func (a *PersistedArtist) Validate() error {
	if a.name == "" {
		return fmt.Errorf("artist name is required")
	}
	if a.remoteID <= 0 {
		return fmt.Errorf("artist remote ID must be positive, got %d", a.remoteID)
	}
	return nil
}

// PersistedAlbum is a locally cached copy of a backend album.
type PersistedAlbum struct {
	base
	remoteID    int64
	name        string
	albumType   string
	releaseDate string
	popularity  int
}

// NewPersistedAlbum creates an album snapshot row with lifecycle timestamps initialized.
func NewPersistedAlbum(sequence int, remoteID int64, name, albumType, releaseDate string, popularity int) *PersistedAlbum {
	return &PersistedAlbum{
		base:        newBase(sequence),
		remoteID:    remoteID,
		name:        name,
		albumType:   albumType,
		releaseDate: releaseDate,
		popularity:  popularity,
	}
}

func (a *PersistedAlbum) RemoteID() int64     { return a.remoteID }
func (a *PersistedAlbum) Name() string        { return a.name }
func (a *PersistedAlbum) AlbumType() string   { return a.albumType }
func (a *PersistedAlbum) ReleaseDate() string { return a.releaseDate }
func (a *PersistedAlbum) Popularity() int     { return a.popularity }

func (a *PersistedAlbum) SetName(name string)     { a.name = name }
func (a *PersistedAlbum) SetAlbumType(t string)   { a.albumType = t }
func (a *PersistedAlbum) SetReleaseDate(d string) { a.releaseDate = d }
func (a *PersistedAlbum) SetPopularity(p int)     { a.popularity = p }

// Validate checks required fields before persistence.
func (a *PersistedAlbum) Validate() error {
	if a.name == "" {
		return fmt.Errorf("album name is required")
	}
	if a.remoteID <= 0 {
		return fmt.Errorf("album remote ID must be positive, got %d", a.remoteID)
	}
	return nil
}

var (
	_ Model = (*PersistedTrack)(nil)
	_ Model = (*PersistedArtist)(nil)
	_ Model = (*PersistedAlbum)(nil)
)

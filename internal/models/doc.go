// Package models defines domain entities and persistence interfaces for the catalog admin console.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): Structs mirroring the backend's wire contract
//   - [User], [Track], [Playlist], [Artist], [Album] : Catalog entity responses
//   - [UserRequest], [TrackRequest], [PlaylistRequest], [ArtistRequest], [AlbumRequest] : Mutation payloads
//   - [LoginRequest], [RegisterRequest], [AuthResponse] : Authentication exchange shapes
//
// 2. Persistent Entities: Local snapshot rows with full lifecycle management
//   - [PersistedTrack] : Cached tracks with ISRC for offline inspection
//   - [PersistedArtist] : Cached artists
//   - [PersistedAlbum] : Cached albums
//
// All persistent entities implement the Model interface providing ID generation, timestamps, validation, and soft delete support.
// The Repository[T] interface defines standard CRUD operations for database access.
package models

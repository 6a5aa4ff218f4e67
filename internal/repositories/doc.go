// Package repositories provides persistence for the local catalog snapshot.
//
// Each repository implements models.Repository[T] for one snapshot entity
// (tracks, artists, albums), handling CRUD, soft deletes, sequence
// generation, and remote-ID upserts so repeated snapshot runs converge
// instead of duplicating rows.
package repositories

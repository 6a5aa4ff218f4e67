// Package catalog provides typed access to the backend's admin REST surface.
//
// Each entity (users, tracks, playlists, artists, albums) gets a service with
// CRUD, search, discovery, and relationship operations. Services are thin:
// they pair a path with a payload type and route everything through the
// api.Client, which owns credential decoration and the 401 refresh path.
// Entity records are transient, non-authoritative copies; callers re-fetch
// after every mutation rather than maintaining a client-side cache.
package catalog

// Package session owns the authoritative view of "who is logged in".
//
// The Store holds in-memory session state (profile, authenticated flag,
// loading flag, last error) and is the single writer for both that state and
// the durable token file. UI code never mutates either directly; it calls
// Login, Register, Logout, ClearError, or CheckAuth. The Guard gates
// protected commands and TUI views on the store.
//
// The durable store is a 0600 JSON file keyed "auth_token" whose record
// carries the security attributes it was written with (secure transport,
// strict same-site, root path, 7-day expiry); removal only matches records
// with those exact attributes. Expiry checking decodes the access token's
// embedded exp claim without verifying the signature and fails closed: any
// malformed token is treated as expired.
package session

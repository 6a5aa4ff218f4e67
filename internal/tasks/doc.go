// Package tasks orchestrates catalog snapshot operations with real-time progress reporting.
//
// # Core Operations
//
// The [SnapshotEngine] interface defines three operations:
//
//  1. [SnapshotEngine.Run] : Full backend → local snapshot
//     - Fetches artists, albums, and tracks from the admin API
//     - Resolves artist and album names for each track
//     - Upserts every record into the local store via a worker pool
//     - Returns per-kind persisted and failed counts
//
//  2. [SnapshotEngine.Diff] : Compare the local snapshot against the live catalog
//     - Matches tracks via ISRC (preferred) or normalized title/artist
//     - Reports matched count, tracks missing locally, and stale local rows
//
//  3. [SnapshotEngine.Export] : Write the local snapshot to disk
//     - Supports json, csv, markdown, and txt formats
//     - Generates a manifest file summarizing the export
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
package tasks

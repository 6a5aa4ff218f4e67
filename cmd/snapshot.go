package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/catalogctl/internal/shared"
	"github.com/desertthunder/catalogctl/internal/tasks"
	"github.com/urfave/cli/v3"
)

// requireEngine verifies the snapshot engine and its database are available.
func (r *Runner) requireEngine() error {
	if r.engine == nil || r.tracks == nil {
		return fmt.Errorf("%w: snapshot database not initialized, run 'catalogctl setup'", shared.ErrServiceUnavailable)
	}
	return nil
}

// SnapshotRun fetches the full catalog and persists it locally.
func (r *Runner) SnapshotRun(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}
	if err := r.requireEngine(); err != nil {
		return err
	}

	r.logger.Info("starting catalog snapshot")
	r.writePlain("Starting catalog snapshot...\n\n")

	progressCh := make(chan tasks.ProgressUpdate, 50)
	go func() {
		for update := range progressCh {
			switch update.Phase {
			case tasks.FetchArtists, tasks.FetchAlbums, tasks.FetchTracks:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.Persist:
				r.writePlain("   %s\n", update.Message)
			}
		}
	}()

	opts := tasks.SnapshotOpts{
		NumWorkers: int(cmd.Int("workers")),
		RateLimit:  cmd.Float64("rate-limit"),
	}

	result, err := r.engine.Run(ctx, progressCh, opts)
	close(progressCh)

	if err != nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Snapshot Complete!")
	r.writePlain("Artists: %d\n", result.ArtistCount)
	r.writePlain("Albums: %d\n", result.AlbumCount)
	r.writePlain("Tracks: %d\n", result.TrackCount)
	r.writePlain("Persisted: %d/%d\n", result.Persisted, result.Persisted+result.Failed)

	if result.Failed > 0 {
		r.writePlain("\nFailed to persist %d records:\n", result.Failed)
		for _, failure := range result.Failures {
			r.writePlain("  - [%s] %s: %v\n", failure.Kind, failure.Name, failure.Err)
		}
	}

	return nil
}

// SnapshotDiff compares the local snapshot against the live catalog.
func (r *Runner) SnapshotDiff(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}
	if err := r.requireEngine(); err != nil {
		return err
	}

	r.writePlain("Comparing local snapshot against the live catalog...\n\n")

	progressCh := make(chan tasks.ProgressUpdate, 10)
	go func() {
		for update := range progressCh {
			r.writePlain("📥 %s\n", update.Message)
		}
	}()

	result, err := r.engine.Diff(ctx, progressCh)
	close(progressCh)

	if err != nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Comparison Results")
	r.writePlain("Local tracks: %d\n", result.LocalCount)
	r.writePlain("Live tracks: %d\n", result.RemoteCount)
	r.writePlain("Matched: %d\n", result.MatchedCount)
	r.writePlain("Missing locally: %d\n", len(result.MissingLocally))
	r.writePlain("Stale locally: %d\n\n", len(result.StaleLocally))

	if len(result.MissingLocally) > 0 {
		r.writePlain("Missing from the local snapshot:\n")
		for i, track := range result.MissingLocally {
			r.writePlain("  %d. %s\n", i+1, track.Name)
		}
		r.writePlain("\n")
	}

	if len(result.StaleLocally) > 0 {
		r.writePlain("Stale local rows (no longer in the catalog):\n")
		for i, name := range result.StaleLocally {
			r.writePlain("  %d. %s\n", i+1, name)
		}
	}

	return nil
}

// SnapshotExport writes the local snapshot to files in the chosen format.
func (r *Runner) SnapshotExport(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireEngine(); err != nil {
		return err
	}

	opts := tasks.ExportOpts{
		Format:    cmd.String("format"),
		OutputDir: cmd.String("output"),
		Label:     cmd.String("label"),
	}

	progressCh := make(chan tasks.ProgressUpdate, 10)
	go func() {
		for update := range progressCh {
			r.writePlain("%s\n", update.Message)
		}
	}()

	result, err := r.engine.Export(ctx, progressCh, opts)
	close(progressCh)

	if err != nil {
		return err
	}

	r.writePlainln("✓ Export complete (%s)", result.Format)
	r.writePlain("Directory: %s\n", result.OutputDirectory)
	for _, f := range result.Files {
		r.writePlain("  - %s\n", f)
	}
	if result.ManifestPath != "" {
		r.writePlain("Manifest: %s\n", result.ManifestPath)
	}

	return nil
}

// snapshotCommand handles local catalog snapshot operations
func snapshotCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "snapshot",
		Aliases: []string{"snap"},
		Usage:   "Snapshot the catalog into the local database",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Fetch the full catalog and persist it locally",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent persistence workers",
						Value: 5,
					},
					&cli.Float64Flag{
						Name:  "rate-limit",
						Usage: "API requests per second",
						Value: 5,
					},
				},
				Action: r.SnapshotRun,
			},
			{
				Name:   "diff",
				Usage:  "Compare the local snapshot against the live catalog",
				Action: r.SnapshotDiff,
			},
			{
				Name:  "export",
				Usage: "Export the local snapshot to files",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format: json, csv, markdown, txt",
						Value:   "json",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output directory",
					},
					&cli.StringFlag{
						Name:  "label",
						Usage: "Snapshot label used in headers and filenames",
					},
				},
				Action: r.SnapshotExport,
			},
		},
	}
}

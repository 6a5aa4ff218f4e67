package main

import (
	"context"
	"strconv"

	"github.com/desertthunder/catalogctl/internal/shared"
	"github.com/urfave/cli/v3"
)

// CacheList prints the locally persisted snapshot rows for one entity kind.
func (r *Runner) CacheList(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireEngine(); err != nil {
		return err
	}

	kind := cmd.StringArg("kind")
	if kind == "" {
		kind = "tracks"
	}

	switch kind {
	case "tracks", "track":
		tracks, err := r.tracks.List(nil)
		if err != nil {
			return err
		}
		rows := make([][]string, 0, len(tracks))
		for _, t := range tracks {
			rows = append(rows, []string{
				strconv.FormatInt(t.RemoteID(), 10), t.Name(), t.Artist(), t.Album(),
				shared.FormatDuration(t.DurationMS()),
			})
		}
		return r.writeTable([]string{"Remote ID", "Name", "Artist", "Album", "Duration"}, rows)
	case "artists", "artist":
		artists, err := r.artists.List(nil)
		if err != nil {
			return err
		}
		rows := make([][]string, 0, len(artists))
		for _, a := range artists {
			rows = append(rows, []string{
				strconv.FormatInt(a.RemoteID(), 10), a.Name(), strconv.Itoa(a.Popularity()),
			})
		}
		return r.writeTable([]string{"Remote ID", "Name", "Popularity"}, rows)
	case "albums", "album":
		albums, err := r.albums.List(nil)
		if err != nil {
			return err
		}
		rows := make([][]string, 0, len(albums))
		for _, a := range albums {
			rows = append(rows, []string{
				strconv.FormatInt(a.RemoteID(), 10), a.Name(), a.AlbumType(), a.ReleaseDate(),
			})
		}
		return r.writeTable([]string{"Remote ID", "Name", "Type", "Released"}, rows)
	default:
		return shared.ErrInvalidArgument
	}
}

// CacheCount prints row counts for the local snapshot.
func (r *Runner) CacheCount(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireEngine(); err != nil {
		return err
	}

	trackCount, err := r.tracks.Count()
	if err != nil {
		return err
	}
	artistCount, err := r.artists.Count()
	if err != nil {
		return err
	}
	albumCount, err := r.albums.Count()
	if err != nil {
		return err
	}

	r.writePlain("Tracks: %d\n", trackCount)
	r.writePlain("Artists: %d\n", artistCount)
	r.writePlain("Albums: %d\n", albumCount)
	return nil
}

// CachePurge removes every local snapshot row.
func (r *Runner) CachePurge(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireEngine(); err != nil {
		return err
	}

	r.logger.Info("purging local snapshot")

	if err := r.tracks.Purge(); err != nil {
		return err
	}
	if err := r.artists.Purge(); err != nil {
		return err
	}
	if err := r.albums.Purge(); err != nil {
		return err
	}

	r.writePlain("✓ Local snapshot purged\n")
	return nil
}

// cacheCommand handles inspection of the local snapshot database
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect the local catalog snapshot",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List locally persisted rows (tracks, artists, or albums)",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "kind"},
				},
				Action: r.CacheList,
			},
			{
				Name:   "count",
				Usage:  "Show local snapshot row counts",
				Action: r.CacheCount,
			},
			{
				Name:   "purge",
				Usage:  "Delete every local snapshot row",
				Action: r.CachePurge,
			},
		},
	}
}

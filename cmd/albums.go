package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/desertthunder/catalogctl/internal/models"
	"github.com/desertthunder/catalogctl/internal/shared"
	"github.com/urfave/cli/v3"
)

func (r *Runner) writeAlbums(albums []models.Album, jsonOut, pretty bool) error {
	if jsonOut {
		return r.writeJSON(albums, pretty)
	}

	rows := make([][]string, 0, len(albums))
	for _, a := range albums {
		rows = append(rows, []string{
			strconv.FormatInt(a.ID, 10), a.Name, a.AlbumType, a.ReleaseDate,
			strconv.Itoa(len(a.TrackIDs)), strconv.Itoa(a.Popularity),
		})
	}
	return r.writeTable([]string{"ID", "Name", "Type", "Released", "Tracks", "Popularity"}, rows)
}

// AlbumsList fetches albums, filtered by the optional scope flags.
func (r *Runner) AlbumsList(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	var albums []models.Album
	var err error

	switch {
	case cmd.String("since") != "":
		albums, err = r.services.Albums.NewReleases(ctx, cmd.String("since"))
	case cmd.Int("artist") > 0:
		albums, err = r.services.Albums.ByArtist(ctx, int64(cmd.Int("artist")))
	default:
		albums, err = r.services.Albums.List(ctx)
	}
	if err != nil {
		return err
	}

	return r.writeAlbums(albums, cmd.Bool("json"), cmd.Bool("pretty"))
}

// AlbumsGet fetches a single album by ID.
func (r *Runner) AlbumsGet(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}

	album, err := r.services.Albums.Get(ctx, id)
	if err != nil {
		return err
	}

	return r.writeJSON(album, cmd.Bool("pretty"))
}

// AlbumsSearch searches albums by name.
func (r *Runner) AlbumsSearch(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	query := cmd.StringArg("query")
	if query == "" {
		return fmt.Errorf("%w: query", shared.ErrMissingArgument)
	}

	albums, err := r.services.Albums.Search(ctx, query)
	if err != nil {
		return err
	}

	return r.writeAlbums(albums, cmd.Bool("json"), cmd.Bool("pretty"))
}

// AlbumsCreate creates an album.
func (r *Runner) AlbumsCreate(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: name", shared.ErrMissingArgument)
	}

	req := models.AlbumRequest{
		Name:        name,
		Description: cmd.String("description"),
		AlbumType:   cmd.String("type"),
		ReleaseDate: cmd.String("release-date"),
		Popularity:  int(cmd.Int("popularity")),
	}
	for _, id := range cmd.IntSlice("artist") {
		req.ArtistIDs = append(req.ArtistIDs, int64(id))
	}

	album, err := r.services.Albums.Create(ctx, req)
	if err != nil {
		return err
	}

	r.writePlain("✓ Album created: %s (id %d)\n", album.Name, album.ID)
	return nil
}

// AlbumsDelete removes an album.
func (r *Runner) AlbumsDelete(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}

	if err := r.services.Albums.Delete(ctx, id); err != nil {
		return err
	}

	r.writePlain("✓ Album %d deleted\n", id)
	return nil
}

// AlbumsTracks lists the tracks on an album.
func (r *Runner) AlbumsTracks(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}

	tracks, err := r.services.Albums.Tracks(ctx, id)
	if err != nil {
		return err
	}

	return r.writeTracks(tracks, cmd.Bool("json"), cmd.Bool("pretty"))
}

// AlbumsAddTracks appends or, with --remove, removes tracks on an album.
func (r *Runner) AlbumsAddTracks(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}

	ids := cmd.IntSlice("track")
	if len(ids) == 0 {
		return fmt.Errorf("%w: --track", shared.ErrMissingArgument)
	}
	trackIDs := make([]int64, 0, len(ids))
	for _, trackID := range ids {
		trackIDs = append(trackIDs, int64(trackID))
	}

	if cmd.Bool("remove") {
		if err := r.services.Albums.RemoveTracks(ctx, id, trackIDs); err != nil {
			return err
		}
		r.writePlain("✓ %d track(s) removed from album %d\n", len(trackIDs), id)
		return nil
	}

	if err := r.services.Albums.AddTracks(ctx, id, trackIDs); err != nil {
		return err
	}
	r.writePlain("✓ %d track(s) added to album %d\n", len(trackIDs), id)
	return nil
}

// AlbumsSave saves or, with --undo, unsaves an album for the operator.
func (r *Runner) AlbumsSave(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}

	if cmd.Bool("undo") {
		if err := r.services.Albums.Unsave(ctx, id); err != nil {
			return err
		}
		r.writePlain("✓ Album %d removed from saved\n", id)
		return nil
	}

	if err := r.services.Albums.Save(ctx, id); err != nil {
		return err
	}
	r.writePlain("✓ Album %d saved\n", id)
	return nil
}

// albumsCommand handles album catalog administration
func albumsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "albums",
		Aliases: []string{"album", "al"},
		Usage:   "Manage the album catalog",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List albums",
				Flags: append([]cli.Flag{
					&cli.StringFlag{Name: "since", Usage: "Only albums released on or after this date (YYYY-MM-DD)"},
					&cli.IntFlag{Name: "artist", Usage: "Only albums by this artist ID"},
				}, outputFlags()...),
				Action: r.AlbumsList,
			},
			{
				Name:  "get",
				Usage: "Fetch an album by ID",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags:  outputFlags(),
				Action: r.AlbumsGet,
			},
			{
				Name:  "search",
				Usage: "Search albums by name",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "query"},
				},
				Flags:  outputFlags(),
				Action: r.AlbumsSearch,
			},
			{
				Name:  "create",
				Usage: "Create an album",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "description", Usage: "Album description"},
					&cli.StringFlag{Name: "type", Usage: "Album type (album, single, compilation)"},
					&cli.StringFlag{Name: "release-date", Usage: "Release date (YYYY-MM-DD)"},
					&cli.IntFlag{Name: "popularity", Usage: "Popularity score"},
					&cli.IntSliceFlag{Name: "artist", Usage: "Artist ID (repeatable)"},
				},
				Action: r.AlbumsCreate,
			},
			{
				Name:  "delete",
				Usage: "Delete an album",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.AlbumsDelete,
			},
			{
				Name:  "tracks",
				Usage: "List the tracks on an album",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags:  outputFlags(),
				Action: r.AlbumsTracks,
			},
			{
				Name:  "add-tracks",
				Usage: "Add tracks to an album's listing",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.IntSliceFlag{Name: "track", Usage: "Track ID (repeatable)", Required: true},
					&cli.BoolFlag{Name: "remove", Usage: "Remove the tracks instead"},
				},
				Action: r.AlbumsAddTracks,
			},
			{
				Name:  "save",
				Usage: "Save an album for the signed-in operator",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "undo", Usage: "Remove from saved instead"},
				},
				Action: r.AlbumsSave,
			},
		},
	}
}

package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/desertthunder/catalogctl/internal/models"
	"github.com/desertthunder/catalogctl/internal/shared"
	"github.com/urfave/cli/v3"
)

func (r *Runner) writeTracks(tracks []models.Track, jsonOut, pretty bool) error {
	if jsonOut {
		return r.writeJSON(tracks, pretty)
	}

	rows := make([][]string, 0, len(tracks))
	for _, t := range tracks {
		rows = append(rows, []string{
			strconv.FormatInt(t.ID, 10), t.Name, shared.FormatDuration(t.DurationMS),
			strconv.Itoa(t.Popularity), t.ISRC,
		})
	}
	return r.writeTable([]string{"ID", "Name", "Duration", "Popularity", "ISRC"}, rows)
}

// TracksList fetches tracks, filtered by the optional scope flags.
func (r *Runner) TracksList(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	var tracks []models.Track
	var err error

	switch {
	case cmd.Bool("saved"):
		tracks, err = r.services.Tracks.Saved(ctx)
	case cmd.Int("min-popularity") > 0:
		tracks, err = r.services.Tracks.Popular(ctx, int(cmd.Int("min-popularity")))
	case cmd.Int("artist") > 0:
		tracks, err = r.services.Tracks.ByArtist(ctx, int64(cmd.Int("artist")))
	case cmd.Int("album") > 0:
		tracks, err = r.services.Tracks.ByAlbum(ctx, int64(cmd.Int("album")))
	default:
		tracks, err = r.services.Tracks.List(ctx)
	}
	if err != nil {
		return err
	}

	return r.writeTracks(tracks, cmd.Bool("json"), cmd.Bool("pretty"))
}

// TracksGet fetches a single track by ID.
func (r *Runner) TracksGet(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}

	track, err := r.services.Tracks.Get(ctx, id)
	if err != nil {
		return err
	}

	return r.writeJSON(track, cmd.Bool("pretty"))
}

// TracksSearch searches tracks by name.
func (r *Runner) TracksSearch(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	query := cmd.StringArg("query")
	if query == "" {
		return fmt.Errorf("%w: query", shared.ErrMissingArgument)
	}

	tracks, err := r.services.Tracks.Search(ctx, query)
	if err != nil {
		return err
	}

	return r.writeTracks(tracks, cmd.Bool("json"), cmd.Bool("pretty"))
}

// TracksCreate creates a track.
func (r *Runner) TracksCreate(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: name", shared.ErrMissingArgument)
	}

	req := models.TrackRequest{
		Name:       name,
		DurationMS: int(cmd.Int("duration-ms")),
		Popularity: int(cmd.Int("popularity")),
		ISRC:       cmd.String("isrc"),
		Explicit:   cmd.Bool("explicit"),
		AlbumID:    int64(cmd.Int("album")),
	}
	for _, id := range cmd.IntSlice("artist") {
		req.ArtistIDs = append(req.ArtistIDs, int64(id))
	}

	track, err := r.services.Tracks.Create(ctx, req)
	if err != nil {
		return err
	}

	r.writePlain("✓ Track created: %s (id %d)\n", track.Name, track.ID)
	return nil
}

// TracksDelete removes a track.
func (r *Runner) TracksDelete(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}

	if err := r.services.Tracks.Delete(ctx, id); err != nil {
		return err
	}

	r.writePlain("✓ Track %d deleted\n", id)
	return nil
}

// TracksSave saves or, with --undo, unsaves a track for the operator.
func (r *Runner) TracksSave(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}

	if cmd.Bool("undo") {
		if err := r.services.Tracks.Unsave(ctx, id); err != nil {
			return err
		}
		r.writePlain("✓ Track %d removed from saved\n", id)
		return nil
	}

	if err := r.services.Tracks.Save(ctx, id); err != nil {
		return err
	}
	r.writePlain("✓ Track %d saved\n", id)
	return nil
}

// tracksCommand handles track catalog administration
func tracksCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tracks",
		Aliases: []string{"track", "t"},
		Usage:   "Manage the track catalog",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List tracks",
				Flags: append([]cli.Flag{
					&cli.BoolFlag{Name: "saved", Usage: "Only the operator's saved tracks"},
					&cli.IntFlag{Name: "min-popularity", Usage: "Only tracks at or above this popularity"},
					&cli.IntFlag{Name: "artist", Usage: "Only tracks by this artist ID"},
					&cli.IntFlag{Name: "album", Usage: "Only tracks on this album ID"},
				}, outputFlags()...),
				Action: r.TracksList,
			},
			{
				Name:  "get",
				Usage: "Fetch a track by ID",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags:  outputFlags(),
				Action: r.TracksGet,
			},
			{
				Name:  "search",
				Usage: "Search tracks by name",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "query"},
				},
				Flags:  outputFlags(),
				Action: r.TracksSearch,
			},
			{
				Name:  "create",
				Usage: "Create a track",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "duration-ms", Usage: "Duration in milliseconds"},
					&cli.IntFlag{Name: "popularity", Usage: "Popularity score"},
					&cli.StringFlag{Name: "isrc", Usage: "ISRC code"},
					&cli.BoolFlag{Name: "explicit", Usage: "Mark as explicit"},
					&cli.IntFlag{Name: "album", Usage: "Album ID"},
					&cli.IntSliceFlag{Name: "artist", Usage: "Artist ID (repeatable)"},
				},
				Action: r.TracksCreate,
			},
			{
				Name:  "delete",
				Usage: "Delete a track",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.TracksDelete,
			},
			{
				Name:  "save",
				Usage: "Save a track for the signed-in operator",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "undo", Usage: "Remove from saved instead"},
				},
				Action: r.TracksSave,
			},
		},
	}
}

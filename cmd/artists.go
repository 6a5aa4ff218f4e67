package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/desertthunder/catalogctl/internal/models"
	"github.com/desertthunder/catalogctl/internal/shared"
	"github.com/urfave/cli/v3"
)

func (r *Runner) writeArtists(artists []models.Artist, jsonOut, pretty bool) error {
	if jsonOut {
		return r.writeJSON(artists, pretty)
	}

	rows := make([][]string, 0, len(artists))
	for _, a := range artists {
		rows = append(rows, []string{
			strconv.FormatInt(a.ID, 10), a.Name, strconv.Itoa(a.Popularity),
			strconv.Itoa(len(a.TrackIDs)), strconv.Itoa(len(a.AlbumIDs)),
		})
	}
	return r.writeTable([]string{"ID", "Name", "Popularity", "Tracks", "Albums"}, rows)
}

// ArtistsList fetches artists, filtered by the optional popularity floor.
func (r *Runner) ArtistsList(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	var artists []models.Artist
	var err error

	if min := cmd.Int("min-popularity"); min > 0 {
		artists, err = r.services.Artists.Popular(ctx, int(min))
	} else {
		artists, err = r.services.Artists.List(ctx)
	}
	if err != nil {
		return err
	}

	return r.writeArtists(artists, cmd.Bool("json"), cmd.Bool("pretty"))
}

// ArtistsGet fetches a single artist by ID.
func (r *Runner) ArtistsGet(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}

	artist, err := r.services.Artists.Get(ctx, id)
	if err != nil {
		return err
	}

	return r.writeJSON(artist, cmd.Bool("pretty"))
}

// ArtistsSearch searches artists by name.
func (r *Runner) ArtistsSearch(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	query := cmd.StringArg("query")
	if query == "" {
		return fmt.Errorf("%w: query", shared.ErrMissingArgument)
	}

	artists, err := r.services.Artists.Search(ctx, query)
	if err != nil {
		return err
	}

	return r.writeArtists(artists, cmd.Bool("json"), cmd.Bool("pretty"))
}

// ArtistsCreate creates an artist.
func (r *Runner) ArtistsCreate(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: name", shared.ErrMissingArgument)
	}

	req := models.ArtistRequest{
		Name:        name,
		Description: cmd.String("description"),
		Popularity:  int(cmd.Int("popularity")),
		ImageURL:    cmd.String("image-url"),
	}

	artist, err := r.services.Artists.Create(ctx, req)
	if err != nil {
		return err
	}

	r.writePlain("✓ Artist created: %s (id %d)\n", artist.Name, artist.ID)
	return nil
}

// ArtistsDelete removes an artist.
func (r *Runner) ArtistsDelete(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}

	if err := r.services.Artists.Delete(ctx, id); err != nil {
		return err
	}

	r.writePlain("✓ Artist %d deleted\n", id)
	return nil
}

// ArtistsTracks lists an artist's tracks or, with --albums, their albums.
func (r *Runner) ArtistsTracks(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}

	if cmd.Bool("albums") {
		albums, err := r.services.Artists.Albums(ctx, id)
		if err != nil {
			return err
		}
		return r.writeAlbums(albums, cmd.Bool("json"), cmd.Bool("pretty"))
	}

	tracks, err := r.services.Artists.Tracks(ctx, id)
	if err != nil {
		return err
	}
	return r.writeTracks(tracks, cmd.Bool("json"), cmd.Bool("pretty"))
}

// ArtistsAddTracks credits or, with --remove, removes tracks on an artist.
func (r *Runner) ArtistsAddTracks(ctx context.Context, cmd *cli.Command) error {
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
		if err := r.services.Artists.RemoveTracks(ctx, id, trackIDs); err != nil {
			return err
		}
		r.writePlain("✓ %d track(s) removed from artist %d\n", len(trackIDs), id)
		return nil
	}

	if err := r.services.Artists.AddTracks(ctx, id, trackIDs); err != nil {
		return err
	}
	r.writePlain("✓ %d track(s) added to artist %d\n", len(trackIDs), id)
	return nil
}

// ArtistsFollow follows or, with --undo, unfollows an artist.
func (r *Runner) ArtistsFollow(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}

	if cmd.Bool("undo") {
		if err := r.services.Artists.Unfollow(ctx, id); err != nil {
			return err
		}
		r.writePlain("✓ Unfollowed artist %d\n", id)
		return nil
	}

	if err := r.services.Artists.Follow(ctx, id); err != nil {
		return err
	}
	r.writePlain("✓ Following artist %d\n", id)
	return nil
}

// artistsCommand handles artist catalog administration
func artistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "artists",
		Aliases: []string{"artist", "ar"},
		Usage:   "Manage the artist catalog",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List artists",
				Flags: append([]cli.Flag{
					&cli.IntFlag{Name: "min-popularity", Usage: "Only artists at or above this popularity"},
				}, outputFlags()...),
				Action: r.ArtistsList,
			},
			{
				Name:  "get",
				Usage: "Fetch an artist by ID",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags:  outputFlags(),
				Action: r.ArtistsGet,
			},
			{
				Name:  "search",
				Usage: "Search artists by name",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "query"},
				},
				Flags:  outputFlags(),
				Action: r.ArtistsSearch,
			},
			{
				Name:  "create",
				Usage: "Create an artist",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "description", Usage: "Artist description"},
					&cli.IntFlag{Name: "popularity", Usage: "Popularity score"},
					&cli.StringFlag{Name: "image-url", Usage: "Artist image URL"},
				},
				Action: r.ArtistsCreate,
			},
			{
				Name:  "delete",
				Usage: "Delete an artist",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.ArtistsDelete,
			},
			{
				Name:  "tracks",
				Usage: "List an artist's tracks",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: append([]cli.Flag{
					&cli.BoolFlag{Name: "albums", Usage: "List albums instead of tracks"},
				}, outputFlags()...),
				Action: r.ArtistsTracks,
			},
			{
				Name:  "add-tracks",
				Usage: "Credit tracks to an artist",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.IntSliceFlag{Name: "track", Usage: "Track ID (repeatable)", Required: true},
					&cli.BoolFlag{Name: "remove", Usage: "Remove the tracks instead"},
				},
				Action: r.ArtistsAddTracks,
			},
			{
				Name:  "follow",
				Usage: "Follow an artist as the signed-in operator",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "undo", Usage: "Unfollow instead"},
				},
				Action: r.ArtistsFollow,
			},
		},
	}
}

package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/desertthunder/catalogctl/internal/models"
	"github.com/desertthunder/catalogctl/internal/shared"
	"github.com/urfave/cli/v3"
)

func (r *Runner) writePlaylists(playlists []models.Playlist, jsonOut, pretty bool) error {
	if jsonOut {
		return r.writeJSON(playlists, pretty)
	}

	rows := make([][]string, 0, len(playlists))
	for _, p := range playlists {
		visibility := "private"
		if p.IsPublic {
			visibility = "public"
		}
		if p.Collaborative {
			visibility += ", collaborative"
		}
		rows = append(rows, []string{
			strconv.FormatInt(p.ID, 10), p.Name, visibility,
			strconv.FormatInt(p.OwnerID, 10), strconv.Itoa(len(p.TrackIDs)),
		})
	}
	return r.writeTable([]string{"ID", "Name", "Visibility", "Owner", "Tracks"}, rows)
}

// PlaylistsList fetches playlists, filtered by the optional scope flags.
func (r *Runner) PlaylistsList(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	var playlists []models.Playlist
	var err error

	switch {
	case cmd.Bool("public"):
		playlists, err = r.services.Playlists.Public(ctx)
	case cmd.Bool("owned"):
		playlists, err = r.services.Playlists.Owned(ctx)
	case cmd.Bool("followed"):
		playlists, err = r.services.Playlists.Followed(ctx)
	case cmd.Bool("collaborative"):
		playlists, err = r.services.Playlists.Collaborative(ctx)
	default:
		playlists, err = r.services.Playlists.List(ctx)
	}
	if err != nil {
		return err
	}

	return r.writePlaylists(playlists, cmd.Bool("json"), cmd.Bool("pretty"))
}

// PlaylistsGet fetches a single playlist by ID.
func (r *Runner) PlaylistsGet(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}

	playlist, err := r.services.Playlists.Get(ctx, id)
	if err != nil {
		return err
	}

	return r.writeJSON(playlist, cmd.Bool("pretty"))
}

// PlaylistsSearch searches playlists by name.
func (r *Runner) PlaylistsSearch(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	query := cmd.StringArg("query")
	if query == "" {
		return fmt.Errorf("%w: query", shared.ErrMissingArgument)
	}

	playlists, err := r.services.Playlists.Search(ctx, query)
	if err != nil {
		return err
	}

	return r.writePlaylists(playlists, cmd.Bool("json"), cmd.Bool("pretty"))
}

// PlaylistsCreate creates a playlist owned by the signed-in operator.
func (r *Runner) PlaylistsCreate(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: name", shared.ErrMissingArgument)
	}

	req := models.PlaylistRequest{
		Name:          name,
		Description:   cmd.String("description"),
		IsPublic:      cmd.Bool("public"),
		Collaborative: cmd.Bool("collaborative"),
	}

	playlist, err := r.services.Playlists.Create(ctx, req)
	if err != nil {
		return err
	}

	r.writePlain("✓ Playlist created: %s (id %d)\n", playlist.Name, playlist.ID)
	return nil
}

// PlaylistsDelete removes a playlist.
func (r *Runner) PlaylistsDelete(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}

	if err := r.services.Playlists.Delete(ctx, id); err != nil {
		return err
	}

	r.writePlain("✓ Playlist %d deleted\n", id)
	return nil
}

// PlaylistsFollow follows or, with --undo, unfollows a playlist.
func (r *Runner) PlaylistsFollow(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}

	if cmd.Bool("undo") {
		if err := r.services.Playlists.Unfollow(ctx, id); err != nil {
			return err
		}
		r.writePlain("✓ Unfollowed playlist %d\n", id)
		return nil
	}

	if err := r.services.Playlists.Follow(ctx, id); err != nil {
		return err
	}
	r.writePlain("✓ Following playlist %d\n", id)
	return nil
}

// PlaylistsAddTrack adds or, with --remove, removes a track on a playlist.
func (r *Runner) PlaylistsAddTrack(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	playlistID, err := idArg(cmd, "id")
	if err != nil {
		return err
	}
	trackID := int64(cmd.Int("track"))
	if trackID == 0 {
		return fmt.Errorf("%w: --track", shared.ErrMissingArgument)
	}

	if cmd.Bool("remove") {
		if err := r.services.Playlists.RemoveTrack(ctx, playlistID, trackID); err != nil {
			return err
		}
		r.writePlain("✓ Track %d removed from playlist %d\n", trackID, playlistID)
		return nil
	}

	if err := r.services.Playlists.AddTrack(ctx, playlistID, trackID); err != nil {
		return err
	}
	r.writePlain("✓ Track %d added to playlist %d\n", trackID, playlistID)
	return nil
}

// playlistsCommand handles playlist administration
func playlistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlists",
		Aliases: []string{"playlist", "pl"},
		Usage:   "Manage playlists",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List playlists",
				Flags: append([]cli.Flag{
					&cli.BoolFlag{Name: "public", Usage: "Only public playlists"},
					&cli.BoolFlag{Name: "owned", Usage: "Only the operator's own playlists"},
					&cli.BoolFlag{Name: "followed", Usage: "Only playlists the operator follows"},
					&cli.BoolFlag{Name: "collaborative", Usage: "Only collaborative playlists"},
				}, outputFlags()...),
				Action: r.PlaylistsList,
			},
			{
				Name:  "get",
				Usage: "Fetch a playlist by ID",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags:  outputFlags(),
				Action: r.PlaylistsGet,
			},
			{
				Name:  "search",
				Usage: "Search playlists by name",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "query"},
				},
				Flags:  outputFlags(),
				Action: r.PlaylistsSearch,
			},
			{
				Name:  "create",
				Usage: "Create a playlist",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "description", Usage: "Playlist description"},
					&cli.BoolFlag{Name: "public", Usage: "Make the playlist public"},
					&cli.BoolFlag{Name: "collaborative", Usage: "Allow collaborators"},
				},
				Action: r.PlaylistsCreate,
			},
			{
				Name:  "delete",
				Usage: "Delete a playlist",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.PlaylistsDelete,
			},
			{
				Name:  "follow",
				Usage: "Follow a playlist as the signed-in operator",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "undo", Usage: "Unfollow instead"},
				},
				Action: r.PlaylistsFollow,
			},
			{
				Name:  "add-track",
				Usage: "Add a track to a playlist",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "track", Usage: "Track ID", Required: true},
					&cli.BoolFlag{Name: "remove", Usage: "Remove the track instead"},
				},
				Action: r.PlaylistsAddTrack,
			},
		},
	}
}

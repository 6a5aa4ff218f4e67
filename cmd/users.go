package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/desertthunder/catalogctl/internal/models"
	"github.com/desertthunder/catalogctl/internal/shared"
	"github.com/urfave/cli/v3"
)

// idArg parses the command's "id" argument as an int64.
func idArg(cmd *cli.Command, name string) (int64, error) {
	raw := cmd.StringArg(name)
	if raw == "" {
		return 0, fmt.Errorf("%w: %s", shared.ErrMissingArgument, name)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be numeric", shared.ErrInvalidArgument, name)
	}
	return id, nil
}

func (r *Runner) writeUsers(users []models.User, jsonOut, pretty bool) error {
	if jsonOut {
		return r.writeJSON(users, pretty)
	}

	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{
			strconv.FormatInt(u.ID, 10), u.Username, u.Email, u.DisplayName,
			strconv.Itoa(len(u.PlaylistIDs)), strconv.Itoa(len(u.FollowerIDs)),
		})
	}
	return r.writeTable([]string{"ID", "Username", "Email", "Display Name", "Playlists", "Followers"}, rows)
}

// UsersList fetches all user accounts.
func (r *Runner) UsersList(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	users, err := r.services.Users.List(ctx)
	if err != nil {
		return err
	}

	return r.writeUsers(users, cmd.Bool("json"), cmd.Bool("pretty"))
}

// UsersGet fetches a single user by ID or, with --username, by username.
func (r *Runner) UsersGet(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	var user *models.User
	var err error

	if username := cmd.String("username"); username != "" {
		user, err = r.services.Users.GetByUsername(ctx, username)
	} else {
		var id int64
		if id, err = idArg(cmd, "id"); err != nil {
			return err
		}
		user, err = r.services.Users.Get(ctx, id)
	}
	if err != nil {
		return err
	}

	return r.writeJSON(user, cmd.Bool("pretty"))
}

// UsersSearch searches users by partial username or display name.
func (r *Runner) UsersSearch(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	query := cmd.StringArg("query")
	if query == "" {
		return fmt.Errorf("%w: query", shared.ErrMissingArgument)
	}

	users, err := r.services.Users.Search(ctx, query)
	if err != nil {
		return err
	}

	return r.writeUsers(users, cmd.Bool("json"), cmd.Bool("pretty"))
}

// UsersCreate creates a user account.
func (r *Runner) UsersCreate(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	req := models.UserRequest{
		Username:    cmd.StringArg("username"),
		Email:       cmd.String("email"),
		Password:    cmd.String("password"),
		DisplayName: cmd.String("display-name"),
		Bio:         cmd.String("bio"),
		ImageURL:    cmd.String("image-url"),
	}
	if req.Username == "" {
		return fmt.Errorf("%w: username", shared.ErrMissingArgument)
	}

	user, err := r.services.Users.Create(ctx, req)
	if err != nil {
		return err
	}

	r.writePlain("✓ User created: %s (id %d)\n", user.Username, user.ID)
	return nil
}

// UsersUpdate updates a user account.
func (r *Runner) UsersUpdate(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}

	req := models.UserRequest{
		Username:    cmd.String("username"),
		Email:       cmd.String("email"),
		Password:    cmd.String("password"),
		DisplayName: cmd.String("display-name"),
		Bio:         cmd.String("bio"),
		ImageURL:    cmd.String("image-url"),
	}

	user, err := r.services.Users.Update(ctx, id, req)
	if err != nil {
		return err
	}

	r.writePlain("✓ User updated: %s (id %d)\n", user.Username, user.ID)
	return nil
}

// UsersDelete removes a user account.
func (r *Runner) UsersDelete(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}

	if err := r.services.Users.Delete(ctx, id); err != nil {
		return err
	}

	r.writePlain("✓ User %d deleted\n", id)
	return nil
}

// UsersFollowers lists the followers of a user.
func (r *Runner) UsersFollowers(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}

	var users []models.User
	if cmd.Bool("following") {
		users, err = r.services.Users.Following(ctx, id)
	} else {
		users, err = r.services.Users.Followers(ctx, id)
	}
	if err != nil {
		return err
	}

	return r.writeUsers(users, cmd.Bool("json"), cmd.Bool("pretty"))
}

// UsersFollow follows or, with --undo, unfollows a user.
func (r *Runner) UsersFollow(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}

	if cmd.Bool("undo") {
		if err := r.services.Users.Unfollow(ctx, id); err != nil {
			return err
		}
		r.writePlain("✓ Unfollowed user %d\n", id)
		return nil
	}

	if err := r.services.Users.Follow(ctx, id); err != nil {
		return err
	}
	r.writePlain("✓ Following user %d\n", id)
	return nil
}

// outputFlags returns a fresh --json/--pretty flag pair. Flag values are
// stateful, so instances are never shared between commands.
func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print JSON output",
			Value: true,
		},
	}
}

// usersCommand handles user account administration
func usersCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "users",
		Aliases: []string{"user", "u"},
		Usage:   "Manage user accounts",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List all user accounts",
				Flags:  outputFlags(),
				Action: r.UsersList,
			},
			{
				Name:  "get",
				Usage: "Fetch a user by ID or username",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:  "username",
						Usage: "Look up by username instead of ID",
					},
				}, outputFlags()...),
				Action: r.UsersGet,
			},
			{
				Name:  "search",
				Usage: "Search users by name",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "query"},
				},
				Flags:  outputFlags(),
				Action: r.UsersSearch,
			},
			{
				Name:  "create",
				Usage: "Create a user account",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "username"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Usage: "Account email", Required: true},
					&cli.StringFlag{Name: "password", Usage: "Account password", Required: true},
					&cli.StringFlag{Name: "display-name", Usage: "Display name"},
					&cli.StringFlag{Name: "bio", Usage: "Profile bio"},
					&cli.StringFlag{Name: "image-url", Usage: "Avatar image URL"},
				},
				Action: r.UsersCreate,
			},
			{
				Name:  "update",
				Usage: "Update a user account",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "username", Usage: "New username"},
					&cli.StringFlag{Name: "email", Usage: "New email"},
					&cli.StringFlag{Name: "password", Usage: "New password"},
					&cli.StringFlag{Name: "display-name", Usage: "New display name"},
					&cli.StringFlag{Name: "bio", Usage: "New bio"},
					&cli.StringFlag{Name: "image-url", Usage: "New avatar image URL"},
				},
				Action: r.UsersUpdate,
			},
			{
				Name:  "delete",
				Usage: "Delete a user account",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.UsersDelete,
			},
			{
				Name:  "followers",
				Usage: "List a user's followers",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: append([]cli.Flag{
					&cli.BoolFlag{
						Name:  "following",
						Usage: "List who the user follows instead",
					},
				}, outputFlags()...),
				Action: r.UsersFollowers,
			},
			{
				Name:  "follow",
				Usage: "Follow a user as the signed-in operator",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "undo",
						Usage: "Unfollow instead",
					},
				},
				Action: r.UsersFollow,
			},
		},
	}
}

package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/catalogctl/internal/models"
	"github.com/desertthunder/catalogctl/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthLogin exchanges a username and password for a token pair and stores it.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	username := cmd.StringArg("username")
	password := cmd.String("password")

	if username == "" {
		return fmt.Errorf("%w: username", shared.ErrMissingArgument)
	}
	if password == "" {
		return fmt.Errorf("%w: --password", shared.ErrMissingArgument)
	}

	r.logger.Info("logging in", "username", username)

	if err := r.session.Login(ctx, models.LoginRequest{Username: username, Password: password}); err != nil {
		return err
	}

	state := r.session.Snapshot()
	if !state.IsAuthenticated {
		return fmt.Errorf("%w: %s", shared.ErrAuthFailed, state.Err)
	}

	r.writePlain("✓ Logged in as %s\n", state.User.Username)
	return nil
}

// AuthRegister creates an operator account and signs it in.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	req := models.RegisterRequest{
		Username:    cmd.StringArg("username"),
		Email:       cmd.String("email"),
		Password:    cmd.String("password"),
		DisplayName: cmd.String("display-name"),
		Country:     cmd.String("country"),
	}

	if req.Username == "" {
		return fmt.Errorf("%w: username", shared.ErrMissingArgument)
	}
	if req.Email == "" || req.Password == "" {
		return fmt.Errorf("%w: --email and --password are required", shared.ErrMissingArgument)
	}

	r.logger.Info("registering account", "username", req.Username)

	if err := r.session.Register(ctx, req); err != nil {
		return err
	}

	state := r.session.Snapshot()
	if !state.IsAuthenticated {
		return fmt.Errorf("%w: %s", shared.ErrAuthFailed, state.Err)
	}

	r.writePlain("✓ Account created, logged in as %s\n", state.User.Username)
	return nil
}

// AuthLogout clears the session and the stored credential.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	r.session.Logout()
	r.writePlain("✓ Logged out\n")
	return nil
}

// AuthStatus reports whether a usable credential is present.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if r.session.CheckAuth() {
		r.writePlain("Authentication: ✓ Authenticated\n")
	} else {
		state := r.session.Snapshot()
		r.writePlain("Authentication: ✗ Not authenticated\n")
		if state.Err != "" {
			r.writePlain("Last error: %s\n", state.Err)
		}
	}
	return nil
}

// AuthWhoami prints the signed-in operator's profile.
func (r *Runner) AuthWhoami(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	state := r.session.Snapshot()
	if state.User == nil {
		// Credential on disk from a previous run; profile metadata is only
		// held for the lifetime of the process that performed the login.
		r.writePlain("Authenticated (stored credential)\n")
		return nil
	}

	r.writePlainHeader("Signed in")
	r.writePlain("Username: %s\n", state.User.Username)
	if state.User.DisplayName != "" {
		r.writePlain("Display name: %s\n", state.User.DisplayName)
	}
	r.writePlain("Email: %s\n", state.User.Email)
	return nil
}

// authCommand handles session lifecycle operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage authentication",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Log in with username and password",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "username"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "password",
						Aliases:  []string{"p"},
						Usage:    "Account password",
						Required: true,
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:  "register",
				Usage: "Create an operator account",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "username"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "email",
						Usage:    "Account email",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "password",
						Aliases:  []string{"p"},
						Usage:    "Account password",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "display-name",
						Usage: "Display name",
					},
					&cli.StringFlag{
						Name:  "country",
						Usage: "Country code",
					},
				},
				Action: r.AuthRegister,
			},
			{
				Name:   "logout",
				Usage:  "Clear the session and stored credential",
				Action: r.AuthLogout,
			},
			{
				Name:   "status",
				Usage:  "Check current authentication state",
				Action: r.AuthStatus,
			},
			{
				Name:   "whoami",
				Usage:  "Show the signed-in operator",
				Action: r.AuthWhoami,
			},
		},
	}
}

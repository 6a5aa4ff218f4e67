package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/desertthunder/catalogctl/internal/shared"
	"github.com/urfave/cli/v3"
)

// APIGet makes a direct GET request to the backend through the
// authenticated client. Bearer injection and 401 recovery apply as on
// any other command.
func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path", shared.ErrMissingArgument)
	}

	r.logger.Info("GET request", "path", path)

	var data any
	if err := r.client.Get(ctx, path, &data); err != nil {
		return err
	}

	return r.writeJSON(data, cmd.Bool("pretty"))
}

// APIPost makes a direct POST request with a raw JSON body.
func (r *Runner) APIPost(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path", shared.ErrMissingArgument)
	}

	body := cmd.String("data")
	if body == "" {
		return fmt.Errorf("%w: --data flag is required", shared.ErrMissingArgument)
	}

	var payload any
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return fmt.Errorf("%w: data is not valid JSON: %v", shared.ErrInvalidInput, err)
	}

	r.logger.Info("POST request", "path", path)

	var data any
	if err := r.client.Post(ctx, path, payload, &data); err != nil {
		return err
	}

	return r.writeJSON(data, cmd.Bool("pretty"))
}

// APIDelete makes a direct DELETE request.
func (r *Runner) APIDelete(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path", shared.ErrMissingArgument)
	}

	r.logger.Info("DELETE request", "path", path)

	if err := r.client.Delete(ctx, path, nil); err != nil {
		return err
	}

	r.writePlain("✓ %s %s\n", http.MethodDelete, path)
	return nil
}

// apiCommand exposes raw backend requests for debugging
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Make raw requests against the backend",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "GET an API path and print the envelope payload",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.APIGet,
			},
			{
				Name:  "post",
				Usage: "POST a JSON body to an API path",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "JSON request body",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.APIPost,
			},
			{
				Name:  "delete",
				Usage: "DELETE an API path",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Action: r.APIDelete,
			},
		},
	}
}

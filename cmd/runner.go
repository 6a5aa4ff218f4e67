package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/catalogctl/internal/api"
	"github.com/desertthunder/catalogctl/internal/catalog"
	"github.com/desertthunder/catalogctl/internal/repositories"
	"github.com/desertthunder/catalogctl/internal/session"
	"github.com/desertthunder/catalogctl/internal/shared"
	"github.com/desertthunder/catalogctl/internal/tasks"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config   *shared.Config
	client   *api.Client
	services *catalog.Services
	session  *session.Store
	guard    *session.Guard
	engine   *tasks.CatalogEngine
	tracks   *repositories.TrackRepository
	artists  *repositories.ArtistRepository
	albums   *repositories.AlbumRepository
	logger   *log.Logger
	output   io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config   *shared.Config
	Client   *api.Client
	Services *catalog.Services
	Session  *session.Store
	Guard    *session.Guard
	Tracks   *repositories.TrackRepository
	Artists  *repositories.ArtistRepository
	Albums   *repositories.AlbumRepository
	Logger   *log.Logger
	Output   io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	var engine *tasks.CatalogEngine
	if opts.Services != nil && opts.Tracks != nil && opts.Artists != nil && opts.Albums != nil {
		engine = tasks.NewCatalogEngine(
			opts.Services.Tracks, opts.Services.Artists, opts.Services.Albums,
			opts.Tracks, opts.Artists, opts.Albums,
		)
	}

	return &Runner{
		config:   opts.Config,
		client:   opts.Client,
		services: opts.Services,
		session:  opts.Session,
		guard:    opts.Guard,
		engine:   engine,
		tracks:   opts.Tracks,
		artists:  opts.Artists,
		albums:   opts.Albums,
		logger:   opts.Logger,
		output:   opts.Output,
	}
}

// SetLogger swaps the Runner's logger, used by the TUI to redirect logs to a file.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, usersCommand, tracksCommand, playlistsCommand,
		artistsCommand, albumsCommand, apiCommand, snapshotCommand, cacheCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

func (r *Runner) writeTable(headers []string, rows [][]string) error {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		tr := make(table.Row, len(row))
		for i, cell := range row {
			tr[i] = cell
		}
		tw.AppendRow(tr)
	}

	return r.writePlain("%s\n", tw.Render())
}

// requireAuth gates a command action behind an authenticated session.
func (r *Runner) requireAuth() error {
	if r.guard == nil {
		return fmt.Errorf("%w: session guard not initialized", shared.ErrServiceUnavailable)
	}
	return r.guard.Check()
}

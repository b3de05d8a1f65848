package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mirelvt/vfit/internal/api"
	"github.com/mirelvt/vfit/internal/history"
	"github.com/mirelvt/vfit/internal/repositories"
	"github.com/mirelvt/vfit/internal/services"
	"github.com/mirelvt/vfit/internal/session"
	"github.com/mirelvt/vfit/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config   *shared.Config
	dataDir  string
	client   *api.Client
	session  *session.Store
	wardrobe *services.WardrobeService
	tryons   *services.TryOnService
	advisor  *services.AdvisorService
	logger   *log.Logger
	output   io.Writer

	db       *sql.DB
	notifier *repositories.Notifier
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config   *shared.Config
	DataDir  string
	Client   *api.Client
	Session  *session.Store
	Wardrobe *services.WardrobeService
	TryOns   *services.TryOnService
	Advisor  *services.AdvisorService
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
	if opts.Client == nil {
		var httpClient *http.Client
		if opts.Config.API.TimeoutSeconds > 0 {
			httpClient = &http.Client{Timeout: time.Duration(opts.Config.API.TimeoutSeconds) * time.Second}
		}
		opts.Client = api.NewClient(opts.Config.API.BaseURL, httpClient, shared.WithLogger(opts.Logger, "component", "api"))
	}
	if opts.Session == nil {
		opts.Session = session.NewStore(opts.Client, opts.DataDir, shared.WithLogger(opts.Logger, "component", "session"))
	}
	if opts.Wardrobe == nil {
		opts.Wardrobe = services.NewWardrobeService(opts.Client, opts.Logger)
	}
	if opts.TryOns == nil {
		opts.TryOns = services.NewTryOnService(opts.Client, opts.Logger)
	}
	if opts.Advisor == nil {
		opts.Advisor = services.NewAdvisorService(opts.Client, opts.Logger)
	}

	return &Runner{
		config:   opts.Config,
		dataDir:  opts.DataDir,
		client:   opts.Client,
		session:  opts.Session,
		wardrobe: opts.Wardrobe,
		tryons:   opts.TryOns,
		advisor:  opts.Advisor,
		logger:   opts.Logger,
		output:   opts.Output,
		notifier: repositories.NewNotifier(),
	}
}

// SetLogger swaps the runner's logger, e.g. to a file logger for the TUI.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, profileCommand, wardrobeCommand, tryonCommand, advisorCommand, favCommand, exportCommand, prefsCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// databasePath resolves the SQLite file location: an absolute config path
// wins, otherwise the file lives inside the data directory.
func (r *Runner) databasePath() string {
	path := r.config.Database.Path
	if filepath.IsAbs(path) || r.dataDir == "" {
		return path
	}
	return filepath.Join(r.dataDir, filepath.Base(path))
}

// database lazily opens the local store, running migrations on first use
// so commands work without an explicit setup step.
func (r *Runner) database() (*sql.DB, error) {
	if r.db != nil {
		return r.db, nil
	}

	db, err := shared.NewDatabase(r.databasePath())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	r.db = db
	return db, nil
}

// Close releases the runner's database handle, if one was opened.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}

	err := r.db.Close()
	r.db = nil
	return err
}

func (r *Runner) favoritesRepo() (*repositories.FavoriteRepository, error) {
	db, err := r.database()
	if err != nil {
		return nil, err
	}
	return repositories.NewFavoriteRepository(db, r.notifier), nil
}

func (r *Runner) historyRepo() (*repositories.HistoryRepository, error) {
	db, err := r.database()
	if err != nil {
		return nil, err
	}
	return repositories.NewHistoryRepository(db, r.notifier), nil
}

func (r *Runner) reconciler() (*history.Reconciler, error) {
	mirror, err := r.historyRepo()
	if err != nil {
		return nil, err
	}
	return history.NewReconciler(r.tryons, mirror, r.logger), nil
}

// requireAuth stops a command early with a friendly message instead of
// letting the backend bounce it with a 401.
func (r *Runner) requireAuth() error {
	if !r.session.IsAuthenticated() {
		return fmt.Errorf("%w: run 'vfit auth login' first", shared.ErrNotAuthenticated)
	}
	return nil
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

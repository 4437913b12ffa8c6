package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/spotdash/internal/cache"
	"github.com/desertthunder/spotdash/internal/services"
	"github.com/desertthunder/spotdash/internal/session"
	"github.com/desertthunder/spotdash/internal/shared"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config      *shared.Config
	store       cache.Store
	httpClient  *http.Client
	logger      *log.Logger
	output      io.Writer
	sessionPath string
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config      *shared.Config
	Store       cache.Store
	HTTPClient  *http.Client
	Logger      *log.Logger
	Output      io.Writer
	SessionPath string
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
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.SessionPath == "" {
		opts.SessionPath = defaultSessionPath()
	}

	return &Runner{
		config:      opts.Config,
		store:       opts.Store,
		httpClient:  opts.HTTPClient,
		logger:      opts.Logger,
		output:      opts.Output,
		sessionPath: opts.SessionPath,
	}
}

func defaultSessionPath() string {
	return filepath.Join(os.Getenv("HOME"), ".spotdash", "session.json")
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		loginCommand, profileCommand, topCommand, searchCommand, releasesCommand,
		libraryCommand, followCommand, playlistCommand, cacheCommand, serveCommand, setupCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// loadBag reads the persisted session bag from disk.
func (r *Runner) loadBag() (session.Bag, error) {
	data, err := os.ReadFile(r.sessionPath)
	if err != nil {
		return nil, fmt.Errorf("%w: run 'spotdash login' first", shared.ErrNoSession)
	}
	bag := make(session.Bag)
	if err := json.Unmarshal(data, &bag); err != nil {
		return nil, fmt.Errorf("%w: corrupt session file %s", shared.ErrNoSession, r.sessionPath)
	}
	return bag, nil
}

// saveBag persists the session bag, capturing any token refresh that
// happened during the command.
func (r *Runner) saveBag(bag session.Bag) error {
	data, err := json.MarshalIndent(bag, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(r.sessionPath), 0755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	if err := os.WriteFile(r.sessionPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// client builds a Spotify client over the given bag.
func (r *Runner) client(bag session.Bag) *services.SpotifyClient {
	creds := r.config.Credentials.Spotify
	return services.NewSpotifyClient(services.ClientOpts{
		Session:      session.NewView(bag),
		Store:        r.store,
		HTTPClient:   r.httpClient,
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		RateLimit:    r.config.Client.RateLimit,
	})
}

// withClient loads the session, runs fn with a client over it and saves the
// session back so refreshed tokens survive the process.
func (r *Runner) withClient(fn func(*services.SpotifyClient) error) error {
	bag, err := r.loadBag()
	if err != nil {
		return err
	}
	runErr := fn(r.client(bag))
	if saveErr := r.saveBag(bag); saveErr != nil {
		r.logger.Warn("failed to persist session", "error", saveErr)
	}
	return runErr
}

// openStore builds the cache store the config selects. An unknown backend
// falls back to the in-memory store.
func openStore(cfg *shared.Config, logger *log.Logger) cache.Store {
	switch cfg.Cache.Backend {
	case "sqlite":
		store, err := cache.NewSQLiteStore(cfg.Cache.SQLitePath)
		if err != nil {
			logger.Warn("sqlite cache unavailable, using memory", "error", err)
			return cache.NewMemoryStore()
		}
		return store
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.Cache.RedisAddr})
		return cache.NewRedisStore(client)
	default:
		return cache.NewMemoryStore()
	}
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

func (r *Runner) writeBytes(data []byte) error {
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

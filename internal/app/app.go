package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/five82/maitre/internal/api"
	"github.com/five82/maitre/internal/config"
	"github.com/five82/maitre/internal/logging"
	"github.com/five82/maitre/internal/prefs"
	"github.com/five82/maitre/internal/queuesync"
	"github.com/five82/maitre/internal/state"
	"github.com/five82/maitre/internal/telemetry"
	"github.com/five82/maitre/internal/ui"
)

// Options configure the maitre application. Non-zero fields override the
// config file.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/maitre/prefs.toml
	APIURL     string
	LogFile    string
	PollEvery  time.Duration
	Version    string

	Stdout io.Writer // RunOnce and Status output; nil uses os.Stdout
	Stderr io.Writer // warnings outside the TUI; nil uses os.Stderr
}

const shutdownTimeout = 5 * time.Second

type session struct {
	cfg      config.Config
	logger   *slog.Logger
	store    *state.Store
	ctrl     *queuesync.Controller
	notifier *ui.ProgramNotifier
	theme    string
	closers  []func(context.Context) error
}

// open loads configuration and builds the controller stack. console, when
// set, also receives warnings and errors.
func open(ctx context.Context, opts Options, console io.Writer) (*session, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load maitre config: %w", err)
	}
	if opts.APIURL != "" {
		cfg.APIURL = opts.APIURL
	}
	if opts.LogFile != "" {
		expanded, err := config.ExpandPath(opts.LogFile)
		if err != nil {
			return nil, fmt.Errorf("log file: %w", err)
		}
		cfg.LogFile = expanded
	}
	if opts.PollEvery > 0 {
		cfg.PollInterval = opts.PollEvery
	}

	s := &session{cfg: cfg}

	var handlers logging.Fanout
	if console != nil {
		handlers = append(handlers, slog.NewTextHandler(console, &slog.HandlerOptions{Level: slog.LevelWarn}))
	}
	fileHandler, closeFile, err := logging.OpenFile(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		if console != nil {
			fmt.Fprintf(console, "maitre: logging disabled: %v\n", err)
		}
		s.cfg.LogFile = ""
	} else {
		handlers = append(handlers, fileHandler)
		s.closers = append(s.closers, func(context.Context) error { return closeFile() })
	}
	if len(handlers) == 0 {
		s.logger = logging.Discard()
	} else {
		s.logger = slog.New(handlers)
	}

	shutdown := telemetry.Setup(ctx, cfg.ServiceName, opts.Version, s.logger)
	s.closers = append(s.closers, shutdown)

	userAgent := ""
	if opts.Version != "" {
		userAgent = "maitre/" + opts.Version
	}
	client, err := api.NewClient(cfg.APIURL, api.Options{
		Timeout:   cfg.RequestTimeout,
		Logger:    s.logger,
		UserAgent: userAgent,
	})
	if err != nil {
		s.close()
		return nil, fmt.Errorf("init queue client: %w", err)
	}

	userPrefs, _ := prefs.Load(opts.PrefsPath)
	s.theme = userPrefs.Theme

	s.store = &state.Store{}
	if filter, err := state.ParseFilter(userPrefs.Filter); err != nil {
		s.logger.Warn("ignoring saved filter", "filter", userPrefs.Filter, "error", err)
	} else {
		s.store.SetFilter(filter)
	}

	s.notifier = ui.NewNotifier()
	s.ctrl = queuesync.New(client, s.store, queuesync.Options{
		Notifier:     s.notifier,
		Logger:       s.logger,
		DiscardStale: cfg.DiscardStaleReloads,
		SMSTemplate:  cfg.SMSTemplate,
	})

	s.logger.Info("maitre started",
		"api", client.BaseURL(),
		"poll", cfg.PollInterval,
		"version", opts.Version,
	)
	return s, nil
}

// close releases resources in reverse order of acquisition.
func (s *session) close() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	for i := len(s.closers) - 1; i >= 0; i-- {
		_ = s.closers[i](ctx)
	}
}

// Run boots the maitre TUI until the context is cancelled or the user quits.
func Run(ctx context.Context, opts Options) error {
	s, err := open(ctx, opts, nil)
	if err != nil {
		return err
	}
	defer s.close()

	// Populate the store before the UI starts; a failure shows as offline.
	_ = s.ctrl.Reload(ctx)

	stop := s.ctrl.PeriodicRefresh(ctx, s.cfg.PollInterval)
	defer stop()

	return ui.Run(ui.Options{
		Context:    ctx,
		Controller: s.ctrl,
		Notifier:   s.notifier,
		PollTick:   ui.DefaultUIInterval,
		ThemeName:  s.theme,
		PrefsPath:  opts.PrefsPath,
		LogPath:    s.cfg.LogFile,
		APIURL:     s.cfg.APIURL,
	})
}

// RunOnce reloads the queue and prints it as a table. The table is still
// written when the reload fails, and the error is returned.
func RunOnce(ctx context.Context, opts Options) error {
	s, err := open(ctx, opts, stderr(opts))
	if err != nil {
		return err
	}
	defer s.close()

	reloadErr := s.ctrl.Reload(ctx)
	if err := ui.RenderPlain(stdout(opts), s.store.Snapshot(), time.Now()); err != nil {
		return err
	}
	if reloadErr != nil {
		return fmt.Errorf("reload queue: %s", api.UserMessage(reloadErr))
	}
	return nil
}

// Status prints the customer-facing status of one queue number.
func Status(ctx context.Context, opts Options, queueNumber string) error {
	s, err := open(ctx, opts, stderr(opts))
	if err != nil {
		return err
	}
	defer s.close()

	status, err := s.ctrl.CustomerStatus(ctx, queueNumber)
	if err != nil {
		return err
	}
	return ui.RenderStatus(stdout(opts), status, time.Now())
}

func stdout(opts Options) io.Writer {
	if opts.Stdout != nil {
		return opts.Stdout
	}
	return os.Stdout
}

func stderr(opts Options) io.Writer {
	if opts.Stderr != nil {
		return opts.Stderr
	}
	return os.Stderr
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentShell/internal/event"
	"github.com/GriffinCanCode/AgentShell/internal/infrastructure/config"
	"github.com/GriffinCanCode/AgentShell/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AgentShell/internal/infrastructure/server"
	"github.com/GriffinCanCode/AgentShell/internal/shell"
	"github.com/GriffinCanCode/AgentShell/internal/store/sqlite"
)

var (
	flagDB      string
	flagServe   bool
	flagAddr    string
	flagQuiet   bool
	flagJSON    bool
	flagNoColor bool
)

func main() {
	root := &cobra.Command{
		Use:   "agentshell",
		Short: "Interactive shell with a persistent scriptable namespace",
		Long: `agentshell is an interactive script shell whose root namespace
persists across restarts. Assignments to home.* are written to SQLite
before they become visible; shortcuts and saved modules come back on
the next boot.`,
		Version:       shell.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(cmd.Context())
		},
	}

	root.PersistentFlags().StringVar(&flagDB, "db", "", "database path (overrides SHELL_DB)")
	root.Flags().BoolVar(&flagServe, "serve", false, "also start the HTTP control plane")
	root.PersistentFlags().StringVar(&flagAddr, "addr", "", "control plane address (overrides SERVER_ADDR)")
	root.Flags().BoolVar(&flagQuiet, "quiet", false, "suppress banner and notices")
	root.Flags().BoolVar(&flagJSON, "json", false, "machine-readable output")
	root.Flags().BoolVar(&flagNoColor, "no-color", false, "disable colored output")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the control plane without the interactive loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}

	runCmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Evaluate a script file against the persistent namespace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFile(cmd.Context(), args[0])
		},
	}

	root.AddCommand(serveCmd, runCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// boot loads config, opens the store, and builds a session.
func boot() (*config.Config, *shell.Session, *logging.Logger, func(), error) {
	_ = godotenv.Load()

	cfg := config.LoadOrDefault()
	if flagDB != "" {
		cfg.Shell.DBPath = flagDB
	}
	if flagAddr != "" {
		cfg.Server.Addr = flagAddr
	}

	var log *logging.Logger
	if cfg.Logging.Development {
		log = logging.NewDevelopment()
	} else {
		log = logging.NewDefault()
	}

	db, err := sqlite.Open(cfg.Shell.DBPath)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to open store: %w", err)
	}

	bus := event.New()
	session, err := shell.NewSession(cfg, db, bus, log, shell.SessionOptions{})
	if err != nil {
		_ = db.Close()
		_ = bus.Close()
		return nil, nil, nil, nil, err
	}

	cleanup := func() {
		_ = session.Close()
		_ = bus.Close()
		_ = db.Close()
		_ = log.Sync()
	}
	return cfg, session, log, cleanup, nil
}

func runShell(ctx context.Context) error {
	cfg, session, log, cleanup, err := boot()
	if err != nil {
		return err
	}
	defer cleanup()

	if flagServe || cfg.Server.Enabled {
		srv := server.New(cfg, session, log)
		go func() {
			if err := srv.Run(); err != nil {
				log.Error("control plane failed", zap.Error(err))
			}
		}()
		defer func() { _ = srv.Shutdown(context.Background()) }()
	}

	renderer := shell.NewRenderer(shell.RenderOptions{
		NoColor: flagNoColor,
		Quiet:   flagQuiet,
		JSON:    flagJSON,
	})
	return shell.NewREPL(session, renderer, nil).Run(ctx)
}

func runServe(ctx context.Context) error {
	cfg, session, log, cleanup, err := boot()
	if err != nil {
		return err
	}
	defer cleanup()

	srv := server.New(cfg, session, log)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Run() }()

	select {
	case <-ctx.Done():
		log.Info("shutting down")
		return srv.Shutdown(context.Background())
	case err := <-errCh:
		return err
	}
}

func runFile(ctx context.Context, path string) error {
	_, session, _, cleanup, err := boot()
	if err != nil {
		return err
	}
	defer cleanup()

	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if _, err := session.Engine.Eval(ctx, string(src)); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

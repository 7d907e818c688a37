// Package shell assembles the interactive assistant: one script
// engine, the persistent namespace kernel mounted as `home`, the
// provider subsystems, and the REPL front end.
package shell

import (
	"fmt"
	"os"
	"time"

	"github.com/dop251/goja"
	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/GriffinCanCode/AgentShell/internal/event"
	"github.com/GriffinCanCode/AgentShell/internal/infrastructure/config"
	"github.com/GriffinCanCode/AgentShell/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AgentShell/internal/namespace"
	"github.com/GriffinCanCode/AgentShell/internal/providers/ai"
	"github.com/GriffinCanCode/AgentShell/internal/providers/clipboard"
	"github.com/GriffinCanCode/AgentShell/internal/providers/computer"
	"github.com/GriffinCanCode/AgentShell/internal/providers/filesystem"
	"github.com/GriffinCanCode/AgentShell/internal/providers/system"
	"github.com/GriffinCanCode/AgentShell/internal/providers/ui"
	"github.com/GriffinCanCode/AgentShell/internal/script"
	"github.com/GriffinCanCode/AgentShell/internal/service"
	"github.com/GriffinCanCode/AgentShell/internal/shared/types"
	"github.com/GriffinCanCode/AgentShell/internal/store/sqlite"
)

// Session is one booted shell: engine, kernel, providers, and the
// surfaces the REPL and control plane share.
type Session struct {
	ID        string
	Engine    *script.Engine
	DB        *sqlite.DB
	Port      *namespace.Port
	Shortcuts *namespace.Registry
	Modules   *Modules
	Providers *service.Registry
	AI        *ai.Client
	Bus       *event.Bus
	Boot      *namespace.BootReport

	cfg     *config.Config
	log     *logging.Logger
	started time.Time
}

// SessionOptions overrides parts of the default wiring.
type SessionOptions struct {
	// FS backs the filesystem provider. Defaults to the OS filesystem.
	FS afero.Fs
	// UIClients reports connected UI clients; nil means zero.
	UIClients ui.ClientCounter
}

// NewSession boots a session: engine, providers, namespace kernel,
// then bootstrap. The namespace is fully rehydrated when this returns.
func NewSession(cfg *config.Config, db *sqlite.DB, bus *event.Bus, log *logging.Logger, opts SessionOptions) (*Session, error) {
	engine, err := script.New(script.Config{EvalTimeout: cfg.Engine.EvalTimeout}, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}
	rt := engine.Runtime()

	ser, err := namespace.NewSerializer(rt)
	if err != nil {
		return nil, err
	}

	port := namespace.NewPort(rt, db, ser, bus, log)
	shortcuts := namespace.NewRegistry(rt, db, port, bus, log)

	s := &Session{
		ID:        uuid.NewString(),
		Engine:    engine,
		DB:        db,
		Port:      port,
		Shortcuts: shortcuts,
		Providers: service.NewRegistry(),
		Bus:       bus,
		cfg:       cfg,
		log:       log.Component("shell"),
		started:   time.Now(),
	}

	fs := opts.FS
	if fs == nil {
		fs = afero.NewOsFs()
	}

	s.AI = ai.NewClient(cfg.AI, log)
	providers := []service.Provider{
		computer.NewProvider(cfg.Shell.WorkDir, log),
		filesystem.NewProvider(fs, cfg.Shell.WorkDir, log),
		clipboard.NewProvider(),
		system.NewProvider(log),
		ai.NewProvider(s.AI, bus),
		ui.NewProvider(bus, opts.UIClients),
	}
	for _, p := range providers {
		if err := s.Providers.Register(p); err != nil {
			return nil, err
		}
	}

	appCtx := s.Context()
	BindProviders(rt, port, s.Providers, appCtx)

	s.Modules = NewModules(rt, shortcuts, db, log)
	port.Bind("modules", s.Modules.Object())
	s.bindBuiltins(rt)

	if err := port.Install(); err != nil {
		return nil, err
	}

	report, err := namespace.NewBootstrapper(db, port, shortcuts, ser, log).Run()
	if err != nil {
		return nil, fmt.Errorf("bootstrap failed: %w", err)
	}
	s.Boot = report
	return s, nil
}

// Context is the provider execution context for this session.
func (s *Session) Context() *types.Context {
	workDir := s.cfg.Shell.WorkDir
	user := os.Getenv("USER")
	return &types.Context{SessionID: &s.ID, WorkDir: &workDir, User: &user}
}

// Status summarizes the running session.
func (s *Session) Status() map[string]interface{} {
	status := map[string]interface{}{
		"session":   s.ID,
		"uptime_ms": time.Since(s.started).Milliseconds(),
		"db":        s.DB.Path(),
		"ai":        map[string]interface{}{"url": s.cfg.AI.BaseURL, "breaker": s.AI.BreakerState()},
		"services":  s.Providers.Stats(),
	}
	if s.Boot != nil {
		status["boot"] = map[string]interface{}{
			"shortcuts":  s.Boot.Shortcuts,
			"properties": s.Boot.Properties,
			"skipped":    len(s.Boot.Skipped),
		}
	}
	if stats, err := s.DB.Stats(); err == nil {
		status["tables"] = stats
	}
	return status
}

// bindBuiltins installs the reserved help/status/context entry points
// and the db inspection object.
func (s *Session) bindBuiltins(rt *goja.Runtime) {
	s.Port.Bind("help", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) > 0 && !goja.IsUndefined(call.Argument(0)) {
			return rt.ToValue(s.helpFor(call.Argument(0).String()))
		}
		return rt.ToValue(s.helpText())
	})

	s.Port.Bind("status", func(call goja.FunctionCall) goja.Value {
		return rt.ToValue(s.Status())
	})

	s.Port.Bind("context", func(call goja.FunctionCall) goja.Value {
		ctx := s.Context()
		return rt.ToValue(map[string]interface{}{
			"session_id": *ctx.SessionID,
			"work_dir":   *ctx.WorkDir,
			"user":       *ctx.User,
		})
	})

	dbObj := rt.NewObject()
	_ = dbObj.Set("tables", func(call goja.FunctionCall) goja.Value {
		tables, err := s.DB.Tables()
		if err != nil {
			panic(rt.NewGoError(err))
		}
		return rt.ToValue(tables)
	})
	_ = dbObj.Set("stats", func(call goja.FunctionCall) goja.Value {
		stats, err := s.DB.Stats()
		if err != nil {
			panic(rt.NewGoError(err))
		}
		return rt.ToValue(stats)
	})
	s.Port.Bind("db", dbObj)
}

func (s *Session) helpText() string {
	out := "Built-in namespaces on home:\n"
	for _, def := range s.Providers.List(nil) {
		out += fmt.Sprintf("  home.%-10s %s\n", def.ID, def.Description)
	}
	out += "  home.modules    shortcuts and saved script modules\n"
	out += "  home.db         storage inspection\n"
	out += "Reserved names: "
	for i, name := range namespace.ReservedNames() {
		if i > 0 {
			out += ", "
		}
		out += name
	}
	return out
}

func (s *Session) helpFor(query string) string {
	matches := s.Providers.Discover(query, 3)
	if len(matches) == 0 {
		return "nothing matches " + query
	}
	out := ""
	for _, def := range matches {
		out += fmt.Sprintf("home.%s: %s\n", def.ID, def.Description)
		for _, tool := range def.Tools {
			out += fmt.Sprintf("  %-24s %s\n", tool.ID, tool.Description)
		}
	}
	return out
}

// Close tears down the session's runtime state. The store and bus are
// owned by the caller.
func (s *Session) Close() error {
	s.Shortcuts.Teardown()
	return s.Engine.Close()
}

package app

import (
	"fmt"
	"os"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/scriv/internal/config"
	"github.com/dshills/scriv/internal/engine"
	"github.com/dshills/scriv/internal/macro"
	"github.com/dshills/scriv/internal/session"
)

// App wires the configuration, logger, engine, session store, and terminal
// UI together.
type App struct {
	cfg    config.Config
	log    *Logger
	eng    *engine.Engine
	store  *session.Store
	runner *macro.Runner

	screen tcell.Screen
	cursor int // byte offset of the insertion point
	top    int // first visible line
	status string

	macroPath string

	shutdownOnce sync.Once
}

// New creates the application from startup options.
func New(opts Options) (*App, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	level := ParseLogLevel(cfg.Logging.Level)
	if opts.LogLevel != "" {
		level = ParseLogLevel(opts.LogLevel)
	}
	if opts.Debug {
		level = LogLevelDebug
	}
	log := NewLogger(level, os.Stderr)

	a := &App{
		cfg:       cfg,
		log:       log,
		macroPath: opts.MacroPath,
	}

	sessionPath := cfg.Session.Path
	if opts.SessionPath != "" {
		sessionPath = opts.SessionPath
	}
	if sessionPath != "" {
		a.store = session.NewStore(sessionPath)
	}

	if err := a.initEngine(opts); err != nil {
		return nil, err
	}

	if cfg.Macro.Enabled {
		a.runner = macro.NewRunner(a.eng, macro.WithTimeout(cfg.MacroTimeout()))
	} else if opts.MacroPath != "" {
		return nil, fmt.Errorf("macro script given but macros are disabled in config")
	}

	a.cursor = a.eng.Len()
	return a, nil
}

// initEngine restores a saved session when one exists, otherwise seeds a
// fresh engine from the optional input file.
func (a *App) initEngine(opts Options) error {
	maxHistory := engine.WithMaxHistory(a.cfg.History.MaxEntries)

	if a.store != nil && a.store.Exists() {
		eng, err := a.store.Load(maxHistory)
		if err == nil {
			a.log.Info("session restored from %s", a.store.Path())
			a.eng = eng
			return nil
		}
		a.log.Warn("session restore failed, starting fresh: %v", err)
	}

	if opts.File != "" {
		data, err := os.ReadFile(opts.File)
		if err != nil {
			return fmt.Errorf("read input file: %w", err)
		}
		a.eng = engine.NewFromString(string(data), maxHistory)
		return nil
	}

	a.eng = engine.New(maxHistory)
	return nil
}

// Engine exposes the editing engine, mainly for tests.
func (a *App) Engine() *engine.Engine {
	return a.eng
}

// Run starts the terminal UI and blocks until quit or error.
// A user-requested exit returns ErrQuit.
func (a *App) Run() error {
	if a.macroPath != "" {
		if err := a.runner.RunFile(a.macroPath); err != nil {
			return fmt.Errorf("startup macro: %w", err)
		}
		a.log.Info("startup macro applied: %s", a.macroPath)
		a.cursor = a.eng.Len()
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	a.screen = screen
	defer a.Shutdown()

	a.setStatus("Ctrl-Q quit | Ctrl-Z undo | Ctrl-Y redo | Ctrl-S save")

	for {
		a.draw()

		ev := a.screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventResize:
			a.screen.Sync()
		case *tcell.EventKey:
			if err := a.handleKey(ev); err != nil {
				return err
			}
		case nil:
			// Screen was finalized from another goroutine.
			return ErrQuit
		}
	}
}

// Shutdown releases the terminal. Safe to call multiple times.
func (a *App) Shutdown() {
	a.shutdownOnce.Do(func() {
		if a.screen != nil {
			a.screen.Fini()
		}
	})
}

// saveSession persists the session when a store is configured.
func (a *App) saveSession() {
	if a.store == nil {
		a.setStatus("no session path configured")
		return
	}
	if err := a.store.Save(a.eng); err != nil {
		a.log.Error("session save failed: %v", err)
		a.setStatus(fmt.Sprintf("save failed: %v", err))
		return
	}
	a.log.Info("session saved to %s", a.store.Path())
	a.setStatus("session saved")
}

func (a *App) setStatus(msg string) {
	a.status = msg
}

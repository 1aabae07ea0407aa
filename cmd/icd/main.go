package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/icd-sh/icd/internal/config"
	"github.com/icd-sh/icd/internal/core"
	"github.com/icd-sh/icd/internal/history"
	"github.com/icd-sh/icd/internal/pathresolve"
	"github.com/icd-sh/icd/internal/selector"
	"github.com/icd-sh/icd/internal/session"
	"github.com/icd-sh/icd/internal/styles"
	"github.com/icd-sh/icd/internal/widget"
)

var BUILD_VERSION = "dev"

var lineFlag = flag.String("line", "", "editing buffer content (defaults to $ICD_BUFFER)")
var cursorFlag = flag.Int("cursor", -1, "cursor offset into the buffer (defaults to $ICD_CURSOR)")
var recentFlag = flag.Int("recent", 0, "print the N most recently visited directories and exit")

var helpFlag = flag.Bool("h", false, "display help information")
var versionFlag = flag.Bool("ver", false, "display build version")

const helpText = `icd - interactive directory completion for cd

USAGE:
  icd -line 'cd pro' -cursor 6    Complete the buffer; on acceptance the
                                  new buffer and cursor offset are printed
                                  on stdout, one per line
  icd -recent 10                  Print recently visited directories

The shell widget binds a key that invokes icd with the current editing
buffer. When icd prints nothing, the widget leaves the buffer untouched.

OPTIONS:
`

func main() {
	flag.Parse()

	if *versionFlag {
		fmt.Println(BUILD_VERSION)
		return
	}

	if *helpFlag {
		fmt.Print(helpText)
		flag.PrintDefaults()
		return
	}

	cfg, err := config.Load(core.ConfigFile())
	if err != nil {
		fmt.Fprintln(os.Stderr, styles.ERROR(err.Error()))
		os.Exit(1)
	}

	logger, err := initializeLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer logger.Sync() // Flush any buffered log entries

	logger.Info("-------- new icd invocation --------", zap.Any("args", os.Args))

	if *recentFlag > 0 {
		if err := printRecent(*recentFlag); err != nil {
			logger.Error("failed to list recent directories", zap.Error(err))
			os.Exit(1)
		}
		return
	}

	if err := run(cfg, logger); err != nil {
		fmt.Fprintln(os.Stderr, styles.ERROR(err.Error()))
		logger.Error("unhandled error", zap.Error(err))
		os.Exit(1)
	}
}

// bufferEditor adapts the invocation protocol to the widget: the buffer
// comes in as a flag or environment variable, and goes back out on stdout
// only when the widget rewrote it.
type bufferEditor struct {
	line    string
	cursor  int
	updated bool
}

func (e *bufferEditor) Line() (string, int) { return e.line, e.cursor }

func (e *bufferEditor) SetLine(line string, cursor int) {
	e.line = line
	e.cursor = cursor
	e.updated = true
}

func run(cfg *config.Config, logger *zap.Logger) error {
	// The built-in selector draws on the terminal; without one there is
	// nothing interactive to do.
	if !term.IsTerminal(int(os.Stdin.Fd())) && cfg.Selector == config.SelectorBuiltin {
		return fmt.Errorf("stdin is not a terminal")
	}

	editor := &bufferEditor{line: *lineFlag, cursor: *cursorFlag}
	if editor.line == "" {
		editor.line = os.Getenv("ICD_BUFFER")
	}
	if editor.cursor < 0 {
		editor.cursor = len(editor.line)
		if v, err := strconv.Atoi(os.Getenv("ICD_CURSOR")); err == nil && v >= 0 {
			editor.cursor = v
		}
	}

	// A broken history database degrades to plain enumeration order.
	historyManager, err := history.NewManager(core.HistoryFile())
	if err != nil {
		logger.Warn("failed to open visit history", zap.Error(err))
		historyManager = nil
	}

	sessions := session.NewStore(core.SessionDir(), session.DefaultID(), logger)

	w := widget.New(cfg, pathresolve.New(), newSelector(cfg, logger), sessions, historyManager, logger)
	if err := w.Complete(context.Background(), editor); err != nil {
		return err
	}

	if editor.updated {
		fmt.Println(editor.line)
		fmt.Println(editor.cursor)
	}
	return nil
}

func newSelector(cfg *config.Config, logger *zap.Logger) selector.Selector {
	if cfg.Selector == config.SelectorExec {
		return &selector.ExecSelector{Command: cfg.SelectorCommand, Logger: logger}
	}
	return &selector.TUI{LocaleTag: cfg.LocaleTag, Logger: logger}
}

func printRecent(limit int) error {
	historyManager, err := history.NewManager(core.HistoryFile())
	if err != nil {
		return err
	}
	paths, err := historyManager.RecentPaths(limit)
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Println(p)
	}
	return nil
}

func initializeLogger(cfg *config.Config) (*zap.Logger, error) {
	logLevel, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		logLevel = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	if BUILD_VERSION == "dev" {
		logLevel = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	loggerConfig := zap.NewProductionConfig()
	loggerConfig.Level = logLevel
	loggerConfig.OutputPaths = []string{
		core.LogFile(),
	}

	// Logs only go to file to avoid interfering with the Bubble Tea UI.
	// Use `tail -f ~/.icd/icd.log` to monitor logs in real-time.

	return loggerConfig.Build()
}

// Package main is the entry point for the fresh editor.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/freshkit/fresh/internal/align"
	"github.com/freshkit/fresh/internal/asyncbridge"
	"github.com/freshkit/fresh/internal/cliarg"
	"github.com/freshkit/fresh/internal/clock"
	"github.com/freshkit/fresh/internal/composite"
	"github.com/freshkit/fresh/internal/cursorset"
	"github.com/freshkit/fresh/internal/diagnostic"
	"github.com/freshkit/fresh/internal/dispatch"
	"github.com/freshkit/fresh/internal/editorstate"
	"github.com/freshkit/fresh/internal/eventlog"
	"github.com/freshkit/fresh/internal/frameloop"
	"github.com/freshkit/fresh/internal/keyinput"
	"github.com/freshkit/fresh/internal/piecetree"
	"github.com/freshkit/fresh/internal/scrollsync"
	"github.com/freshkit/fresh/internal/warning"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

// Options is parseFlags' result, mirroring cmd/keystorm/main.go's
// app.Options shape narrowed to what fresh's entry point itself
// consumes rather than an application package.
type Options struct {
	ConfigPath    string
	WorkspacePath string
	Debug         bool
	LogLevel      string
	Diff          bool
	Targets       []string
}

func run() int {
	opts := parseFlags()

	log := diagnostic.Discard()
	if opts.Debug {
		log = diagnostic.New(os.Stderr, slog.LevelDebug)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	buffers, err := openTargets(ctx, opts.Targets)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if len(buffers) == 0 {
		buffers = []*openBuffer{{state: editorstate.New("", piecetree.Empty(), clock.System{}), label: "[scratch]"}}
	}

	resolver, err := loadConfigResolver(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: loading configuration: %v\n", err)
		return 1
	}
	resolved, _ := resolver.Resolve()

	warnings := warning.New(clock.System{}, warning.DefaultDedupeAfter, warning.DefaultDedupeWindow)
	app := newApplication(buffers, warnings, log, cancel, readEditorSettings(resolved))

	if opts.Diff && len(buffers) == 2 {
		app.enableDiffView(buffers[0].state, buffers[1].state)
	}

	term, err := newTermSource()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize terminal: %v\n", err)
		return 1
	}
	defer term.Shutdown()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		// Shutdown unblocks a PollEvent already in flight; cancel stops
		// Run's loop from starting another one.
		term.Shutdown()
		cancel()
	}()

	app.buildScheduler(term).Run(ctx)

	return 0
}

func parseFlags() Options {
	var opts Options
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.WorkspacePath, "workspace", "", "Workspace/project directory")
	flag.StringVar(&opts.WorkspacePath, "w", "", "Workspace/project directory (shorthand)")
	flag.BoolVar(&opts.Debug, "debug", false, "Enable debug tracing to stderr")
	flag.BoolVar(&opts.Debug, "d", false, "Enable debug tracing to stderr (shorthand)")
	flag.StringVar(&opts.LogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.BoolVar(&opts.Diff, "diff", false, "Open exactly two targets as a composite diff view")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "fresh - a modal, terminal-based source editor\n\n")
		fmt.Fprintf(os.Stderr, "Usage: fresh [options] [targets...]\n\n")
		fmt.Fprintf(os.Stderr, "A target is a local path, path:line[:col], or\n")
		fmt.Fprintf(os.Stderr, "user@host[:port]:path[:line[:col]] for remote editing.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}
	if showVersion {
		fmt.Printf("fresh %s (%s)\n", version, commit)
		os.Exit(0)
	}

	switch opts.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.LogLevel)
		os.Exit(1)
	}

	opts.Targets = flag.Args()
	if opts.WorkspacePath == "" && len(opts.Targets) > 0 {
		if t, err := cliarg.Parse(opts.Targets[0]); err == nil && t.Kind == cliarg.KindLocal {
			if absPath, err := filepath.Abs(t.Path); err == nil {
				opts.WorkspacePath = filepath.Dir(absPath)
			}
		}
	}

	return opts
}

// openBuffer pairs an opened EditorState with the cursor position its
// target requested and a display label (remote targets are labeled
// with their host since Path alone would collide with a same-named
// local file).
type openBuffer struct {
	state *editorstate.State
	label string
	line  int
	col   int
}

func openTargets(ctx context.Context, args []string) ([]*openBuffer, error) {
	var out []*openBuffer
	for _, arg := range args {
		target, err := cliarg.Parse(arg)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", arg, err)
		}

		var buf *openBuffer
		switch target.Kind {
		case cliarg.KindLocal:
			buf, err = openLocalTarget(target)
		case cliarg.KindRemote:
			buf, err = openRemoteTarget(ctx, target)
		}
		if err != nil {
			return nil, err
		}
		out = append(out, buf)
	}
	return out, nil
}

func openLocalTarget(target cliarg.Target) (*openBuffer, error) {
	state, err := editorstate.Open(target.Path, clock.System{})
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", target.Path, err)
		}
		state = editorstate.New(target.Path, piecetree.Empty(), clock.System{})
	}
	return &openBuffer{state: state, label: target.Path, line: target.Line, col: target.Column}, nil
}

func openRemoteTarget(ctx context.Context, target cliarg.Target) (*openBuffer, error) {
	dialCtx, cancel := context.WithTimeout(ctx, remoteDialTimeout)
	defer cancel()

	client, err := dialRemoteAgent(dialCtx, target.User, target.Host, target.Port)
	if err != nil {
		return nil, fmt.Errorf("%s@%s: %w", target.User, target.Host, err)
	}
	defer client.Close()

	content, err := readRemoteFile(ctx, client, target.Path)
	if err != nil {
		return nil, fmt.Errorf("%s@%s:%s: %w", target.User, target.Host, target.Path, err)
	}

	label := fmt.Sprintf("%s@%s:%s", target.User, target.Host, target.Path)
	state := editorstate.New(target.Path, piecetree.FromString(content), clock.System{})
	return &openBuffer{state: state, label: label, line: target.Line, col: target.Column}, nil
}

// application owns every open buffer, the shared subsystems each
// buffer's dispatcher and the frame scheduler draw on, and the
// currently focused buffer index.
type application struct {
	buffers  []*openBuffer
	dispatch []*dispatch.Dispatcher
	active   int

	warnings *warning.Registry
	log      *diagnostic.Logger
	bridge   *asyncbridge.Bridge
	scroll   *scrollsync.Manager

	composite *composite.Buffer

	translator *keyinput.KeyTranslator
	resolver   *keyinput.KeymapResolver

	quit context.CancelFunc
}

func newApplication(buffers []*openBuffer, warnings *warning.Registry, log *diagnostic.Logger, quit context.CancelFunc, cfg editorSettings) *application {
	registry := keyinput.NewRegistry()
	registry.AddNamedKeymap("default", buildNormalKeymap())

	app := &application{
		buffers:    buffers,
		warnings:   warnings,
		log:        log,
		bridge:     asyncbridge.New(),
		scroll:     scrollsync.NewManager(),
		translator: keyinput.NewKeyTranslator(buildBaselineTable()),
		resolver:   keyinput.NewKeymapResolver(registry),
		quit:       quit,
	}

	app.dispatch = make([]*dispatch.Dispatcher, len(buffers))
	for i, b := range buffers {
		burst := dispatch.NewBurstCoalescer(clock.System{}, eventlog.CoalesceWindow, 8)
		d := dispatch.New(b.state, burst)
		d.Register(keyinput.Normal, newNormalHandler(func() { app.quit() }, warnings, cfg))
		app.dispatch[i] = d

		seekCursor(b)
	}
	return app
}

// seekCursor places b.state's cursor at the 1-based line/column its
// target requested, per spec §6's path:line[:col] grammar. A target
// with no line given leaves the default zero-offset cursor New
// already created the state with.
func seekCursor(b *openBuffer) {
	if b.line <= 0 {
		return
	}
	snap := b.state.Snapshot()
	line := uint32(b.line - 1)
	if max := snap.LineCount(); max > 0 && line >= max {
		line = max - 1
	}
	col := uint32(0)
	if b.col > 0 {
		col = uint32(b.col - 1)
	}
	at := snap.PointToOffset(piecetree.Point{Line: line, Column: col})
	b.state.Cursors().SetAll([]cursorset.Selection{cursorset.NewCursor(at)})
}

// enableDiffView builds a CompositeBuffer over the first two open
// buffers, per spec §4.9's split/composite-pane view.
func (a *application) enableDiffView(old, new *editorstate.State) {
	a.composite = composite.New(old, new, align.DefaultContextThreshold)
}

func (a *application) activeDispatcher() *dispatch.Dispatcher {
	return a.dispatch[a.active]
}

// dispatchAction intercepts the buffer-switching actions frameloop has
// no owner for (they move focus across dispatchers rather than acting
// within one) and routes everything else to the focused buffer's
// Dispatcher. ErrNoHandler is swallowed rather than surfaced: an
// action with no handler for the current context is simply a no-op,
// not a failure worth tearing down the frame loop over.
func (a *application) dispatchAction(action dispatch.Action) error {
	switch action.Name {
	case "next_buffer":
		a.active = (a.active + 1) % len(a.buffers)
		return nil
	case "prev_buffer":
		a.active = (a.active - 1 + len(a.buffers)) % len(a.buffers)
		return nil
	}
	_, err := a.activeDispatcher().Dispatch(action)
	if errors.Is(err, dispatch.ErrNoHandler) {
		return nil
	}
	return err
}

func (a *application) buildScheduler(source frameloop.Source) *frameloop.Scheduler {
	return &frameloop.Scheduler{
		Source:         source,
		Translator:     a.translator,
		Resolver:       a.resolver,
		ContextOf:      func() keyinput.Context { return a.activeDispatcher().TopContext() },
		ActiveKeymap:   "default",
		DispatchAction: a.dispatchAction,

		Bridge:      a.bridge,
		DrainBudget: 0,
		HandleAsync: func(msg asyncbridge.Message) {
			a.log.AsyncDrain(context.Background(), 1, a.bridge.Pending())
		},

		ScrollManager: a.scroll,
		ScrollViews:   map[scrollsync.PaneID]scrollsync.Viewport{},

		Recompute: []func(){
			func() {
				if a.composite != nil {
					a.composite.Resync()
				}
			},
		},

		Log: a.log,
	}
}

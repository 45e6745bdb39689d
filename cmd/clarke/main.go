package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/ddfreyne/clarke/internal/analyzer"
	"github.com/ddfreyne/clarke/internal/backend"
	"github.com/ddfreyne/clarke/internal/config"
	"github.com/ddfreyne/clarke/internal/diagnostics"
	"github.com/ddfreyne/clarke/internal/lexer"
	"github.com/ddfreyne/clarke/internal/logutil"
	"github.com/ddfreyne/clarke/internal/parser"
	"github.com/ddfreyne/clarke/internal/pipeline"
	"github.com/ddfreyne/clarke/internal/prettyprinter"
	"github.com/ddfreyne/clarke/internal/service"
	"github.com/ddfreyne/clarke/internal/xref"
	"github.com/dustin/go-humanize"
)

const usage = `Usage: clarke <command> [flags] [file]

Commands:
  run FILE       analyze and run a program (also: clarke FILE)
  check FILE     analyze a program without running it
  dump FILE      print the annotated syntax tree as YAML
  fmt FILE       print a program in canonical layout (-w rewrites FILE)
  xref FILE      index declarations and references (-db PATH, -at LINE:COL)
  serve          serve clarke.Evaluator over gRPC (-addr HOST:PORT)
  remote FILE    run a program on a clarke server (-addr HOST:PORT)
  help           show this message

Common flags:
  -config PATH   configuration file (default clarke.yaml if present)
  -log PATH      write the debug log to PATH
  -v             log stage timings
`

func main() {
	// Catch panics and show user-friendly error
	defer func() {
		if r := recover(); r != nil {
			if os.Getenv("DEBUG") == "1" {
				panic(r) // Re-panic to get stack trace
			}
			fmt.Fprintf(os.Stderr, "Internal error: %v\n", r)
			fmt.Fprintln(os.Stderr, "This is a bug. Please report it.")
			os.Exit(1)
		}
	}()

	os.Exit(Main(os.Args, os.Stdout, os.Stderr))
}

// app holds what every command shares: output streams, the loaded
// configuration and the logger.
type app struct {
	stdout io.Writer
	stderr io.Writer

	configPath string
	logPath    string
	verbose    bool

	cfg    *config.Config
	logger *log.Logger
}

// Main runs the command line args and returns the exit status.
func Main(args []string, stdout, stderr io.Writer) int {
	if len(args) < 2 {
		fmt.Fprint(stderr, usage)
		return 2
	}
	a := &app{stdout: stdout, stderr: stderr, logger: logutil.GetLogger("[clarke] ")}

	cmd, rest := args[1], args[2:]
	switch cmd {
	case "help", "-h", "-help", "--help":
		fmt.Fprint(stdout, usage)
		return 0
	case "run":
		return a.handleRun(rest)
	case "check":
		return a.handleCheck(rest)
	case "dump":
		return a.handleDump(rest)
	case "fmt":
		return a.handleFmt(rest)
	case "xref":
		return a.handleXref(rest)
	case "serve":
		return a.handleServe(rest)
	case "remote":
		return a.handleRemote(rest)
	}
	if isSourceFile(cmd) {
		return a.handleRun(args[1:])
	}
	fmt.Fprintf(stderr, "unknown command %q\n\n%s", cmd, usage)
	return 2
}

// isSourceFile checks if a file has a recognized source extension
func isSourceFile(path string) bool {
	for _, ext := range config.SourceFileExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

func (a *app) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	fs.StringVar(&a.configPath, "config", "", "configuration file")
	fs.StringVar(&a.logPath, "log", "", "debug log file")
	fs.BoolVar(&a.verbose, "v", false, "log stage timings")
	return fs
}

// setup parses args, loads the configuration and points the log at its
// destination. It reports false after printing the problem.
func (a *app) setup(fs *flag.FlagSet, args []string) bool {
	if err := fs.Parse(args); err != nil {
		return false
	}
	cfg, err := config.Load(a.configPath)
	if err != nil {
		fmt.Fprintln(a.stderr, err)
		return false
	}
	a.cfg = cfg

	logPath := a.logPath
	if logPath == "" {
		logPath = cfg.LogFile
	}
	switch {
	case logPath != "":
		if err := logutil.SetOutputFile(logPath); err != nil {
			fmt.Fprintln(a.stderr, err)
			return false
		}
	case a.verbose:
		logutil.SetOutput(a.stderr)
	default:
		logutil.SetOutput(io.Discard)
	}
	return true
}

// source reads the single file argument.
func (a *app) source(fs *flag.FlagSet) (path, src string, ok bool) {
	if fs.NArg() != 1 {
		fmt.Fprintf(a.stderr, "%s: expected one file argument\n", fs.Name())
		return "", "", false
	}
	path = fs.Arg(0)
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(a.stderr, "Error reading source file: %s\n", err)
		return "", "", false
	}
	a.logger.Printf("read %s (%s)", path, humanize.Bytes(uint64(len(data))))
	return path, string(data), true
}

// runPipeline runs source through the given stages.
func (a *app) runPipeline(path, src string, stages ...pipeline.Processor) *pipeline.PipelineContext {
	ctx := pipeline.NewPipelineContext(src)
	ctx.FilePath = path
	ctx.Config = a.cfg
	ctx.Output = a.stdout

	p := pipeline.New(stages...)
	if a.verbose {
		p.OnStage = func(stage string, elapsed time.Duration) {
			a.logger.Printf("%s: %v", stage, elapsed)
		}
	}
	return p.Run(ctx)
}

func frontEnd() []pipeline.Processor {
	return []pipeline.Processor{
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
		&analyzer.SemanticAnalyzerProcessor{},
	}
}

// report prints the errors of ctx and returns the exit status.
func (a *app) report(ctx *pipeline.PipelineContext) int {
	if !ctx.Failed() {
		return 0
	}
	color := false
	if f, ok := a.stderr.(*os.File); ok {
		color = diagnostics.ColorEnabled(a.cfg.Color, f)
	}
	for _, err := range ctx.Errors {
		fmt.Fprintf(a.stderr, "%s: %s\n", ctx.FilePath, err.Render(ctx.SourceCode, color))
	}
	return 1
}

func (a *app) handleRun(args []string) int {
	fs := a.flagSet("run")
	if !a.setup(fs, args) {
		return 2
	}
	path, src, ok := a.source(fs)
	if !ok {
		return 2
	}

	exec := backend.NewExecutionProcessor(backend.NewTreeWalk())
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	exec.Context = ctx

	return a.report(a.runPipeline(path, src, append(frontEnd(), exec)...))
}

func (a *app) handleCheck(args []string) int {
	fs := a.flagSet("check")
	if !a.setup(fs, args) {
		return 2
	}
	path, src, ok := a.source(fs)
	if !ok {
		return 2
	}
	return a.report(a.runPipeline(path, src, frontEnd()...))
}

func (a *app) handleDump(args []string) int {
	fs := a.flagSet("dump")
	if !a.setup(fs, args) {
		return 2
	}
	path, src, ok := a.source(fs)
	if !ok {
		return 2
	}
	ctx := a.runPipeline(path, src, frontEnd()...)
	if ctx.Failed() {
		return a.report(ctx)
	}

	out, err := prettyprinter.Dump(ctx.AstRoot, prettyprinter.DumpOptions{SymbolIDs: a.cfg.Dump.SymbolIDs})
	if err != nil {
		fmt.Fprintln(a.stderr, err)
		return 1
	}
	a.logger.Printf("dumped %s (%s)", path, humanize.Bytes(uint64(len(out))))
	a.stdout.Write(out)
	return 0
}

func (a *app) handleFmt(args []string) int {
	fs := a.flagSet("fmt")
	write := fs.Bool("w", false, "write the result to the file instead of stdout")
	if !a.setup(fs, args) {
		return 2
	}
	path, src, ok := a.source(fs)
	if !ok {
		return 2
	}
	ctx := a.runPipeline(path, src, &lexer.LexerProcessor{}, &parser.ParserProcessor{})
	if ctx.Failed() {
		return a.report(ctx)
	}

	formatted := prettyprinter.Format(ctx.AstRoot)
	if !*write {
		fmt.Fprint(a.stdout, formatted)
		return 0
	}
	if formatted == src {
		return 0
	}
	if err := os.WriteFile(path, []byte(formatted), 0644); err != nil {
		fmt.Fprintln(a.stderr, err)
		return 1
	}
	return 0
}

func (a *app) handleXref(args []string) int {
	fs := a.flagSet("xref")
	dbPath := fs.String("db", "", "index database (default from config)")
	at := fs.String("at", "", "look up the symbol at LINE:COL")
	if !a.setup(fs, args) {
		return 2
	}
	path, src, ok := a.source(fs)
	if !ok {
		return 2
	}
	ctx := a.runPipeline(path, src, frontEnd()...)
	if ctx.Failed() {
		return a.report(ctx)
	}

	if *dbPath == "" {
		*dbPath = a.cfg.Xref.DB
	}
	idx, err := xref.Open(*dbPath)
	if err != nil {
		fmt.Fprintln(a.stderr, err)
		return 1
	}
	defer idx.Close()

	if err := idx.Record(path, ctx.AstRoot); err != nil {
		fmt.Fprintln(a.stderr, err)
		return 1
	}
	if *at == "" {
		if fi, err := os.Stat(*dbPath); err == nil {
			a.logger.Printf("indexed %s into %s (%s)", path, *dbPath, humanize.Bytes(uint64(fi.Size())))
		} else {
			a.logger.Printf("indexed %s into %s", path, *dbPath)
		}
		return 0
	}

	line, col, err := parsePosition(*at)
	if err != nil {
		fmt.Fprintln(a.stderr, err)
		return 2
	}
	entry, err := idx.Lookup(path, line, col)
	if err != nil {
		fmt.Fprintln(a.stderr, err)
		return 1
	}
	if entry == nil {
		fmt.Fprintf(a.stderr, "%s:%d:%d: no symbol here\n", path, line, col)
		return 1
	}
	printEntry(a.stdout, entry)

	refs, err := idx.References(entry.ID)
	if err != nil {
		fmt.Fprintln(a.stderr, err)
		return 1
	}
	for _, r := range refs {
		fmt.Fprintf(a.stdout, "  ref %s:%d:%d\n", r.File, r.Span.Start.Line, r.Span.Start.Column)
	}
	return 0
}

func parsePosition(s string) (line, col int, err error) {
	l, c, found := strings.Cut(s, ":")
	if !found {
		return 0, 0, fmt.Errorf("position %q: want LINE:COL", s)
	}
	if line, err = strconv.Atoi(l); err != nil {
		return 0, 0, fmt.Errorf("position %q: %v", s, err)
	}
	if col, err = strconv.Atoi(c); err != nil {
		return 0, 0, fmt.Errorf("position %q: %v", s, err)
	}
	return line, col, nil
}

func printEntry(w io.Writer, e *xref.Entry) {
	where := "built-in"
	if e.File != "" {
		where = fmt.Sprintf("%s:%d:%d", e.File, e.Line, e.Column)
	}
	fmt.Fprintf(w, "%s %s: %s (%s)\n", e.Kind, e.Name, e.Type, where)
}

func (a *app) handleServe(args []string) int {
	fs := a.flagSet("serve")
	addr := fs.String("addr", "", "listen address (default from config)")
	if !a.setup(fs, args) {
		return 2
	}
	if *addr == "" {
		*addr = a.cfg.Serve.Addr
	}

	lis, err := net.Listen("tcp", *addr)
	if err != nil {
		fmt.Fprintln(a.stderr, err)
		return 1
	}
	gs := service.NewGRPCServer(service.NewServer(a.cfg))

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigs
		a.logger.Printf("shutting down")
		gs.GracefulStop()
	}()

	fmt.Fprintf(a.stderr, "serving %s on %s\n", service.ServiceName, lis.Addr())
	if err := gs.Serve(lis); err != nil {
		fmt.Fprintln(a.stderr, err)
		return 1
	}
	return 0
}

func (a *app) handleRemote(args []string) int {
	fs := a.flagSet("remote")
	addr := fs.String("addr", "", "server address (default from config)")
	if !a.setup(fs, args) {
		return 2
	}
	_, src, ok := a.source(fs)
	if !ok {
		return 2
	}
	if *addr == "" {
		*addr = a.cfg.Serve.Addr
	}

	client, err := service.NewClient(*addr)
	if err != nil {
		fmt.Fprintln(a.stderr, err)
		return 1
	}
	defer client.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	res, err := client.Eval(ctx, src)
	if err != nil {
		fmt.Fprintln(a.stderr, err)
		return 1
	}
	fmt.Fprint(a.stdout, res.Output)
	if res.Error != "" {
		fmt.Fprintln(a.stderr, res.Error)
		return 1
	}
	return 0
}

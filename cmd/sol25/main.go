// SOL25 CLI - runs a program given as a parsed XML (or CBOR) program tree
package main

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/chazu/sol25/cache"
	"github.com/chazu/sol25/compiler"
	"github.com/chazu/sol25/manifest"
	"github.com/chazu/sol25/vm"
)

// Exit statuses for failures outside the interpreter.
const (
	exitBadArguments = 10
	exitCannotOpen   = 11
)

var log = commonlog.GetLogger("sol25.cli")

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// options holds the merged flag and sol25.toml settings.
type options struct {
	source    string
	input     string
	format    string
	dumpCBOR  string
	cachePath string
	useCache  bool
	maxDepth  int
	verbosity int
	logFile   string
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, code := parseOptions(args, stderr)
	if code >= 0 {
		return code
	}

	var logPath *string
	if opts.logFile != "" {
		logPath = &opts.logFile
	}
	commonlog.Configure(opts.verbosity, logPath)

	source, err := readSource(opts, stdin)
	if err != nil {
		fmt.Fprintf(stderr, "sol25: %v\n", err)
		return exitCannotOpen
	}

	tree, err := decodeTree(opts, source)
	if err != nil {
		return fail(stderr, err)
	}

	if opts.dumpCBOR != "" {
		data, err := compiler.MarshalTree(tree)
		if err == nil {
			err = os.WriteFile(opts.dumpCBOR, data, 0o644)
		}
		if err != nil {
			fmt.Fprintf(stderr, "sol25: writing %s: %v\n", opts.dumpCBOR, err)
			return vm.ErrInternal.ExitCode()
		}
		log.Infof("wrote %d nodes to %s", tree.Count(), opts.dumpCBOR)
		return 0
	}

	prog, err := compiler.Build(tree)
	if err != nil {
		return fail(stderr, err)
	}

	input := stdin
	if opts.input != "" && opts.input != "-" {
		f, err := os.Open(opts.input)
		if err != nil {
			fmt.Fprintf(stderr, "sol25: %v\n", err)
			return exitCannotOpen
		}
		defer f.Close()
		input = f
	}

	machine := vm.NewVM()
	machine.MaxDepth = opts.maxDepth
	if err := machine.Load(prog); err != nil {
		return fail(stderr, err)
	}

	out := bufio.NewWriter(stdout)
	interp := machine.NewInterpreter(vm.NewLineInput(input), out)
	_, runErr := interp.Run()
	if err := out.Flush(); err != nil && runErr == nil {
		runErr = vm.Errorf(vm.ErrInternal, "writing output: %v", err)
	}
	if runErr != nil {
		return fail(stderr, runErr)
	}
	return 0
}

func fail(stderr io.Writer, err error) int {
	fmt.Fprintf(stderr, "sol25: %v\n", err)
	return vm.ExitCode(err)
}

// parseOptions merges flags over the configuration file. It returns a
// non-negative exit status when the process should stop.
func parseOptions(args []string, stderr io.Writer) (*options, int) {
	fs := flag.NewFlagSet("sol25", flag.ContinueOnError)
	fs.SetOutput(stderr)

	sourceFlag := fs.String("source", "", "Program tree file (- for standard input)")
	inputFlag := fs.String("input", "", "Input file read by String read (default standard input)")
	formatFlag := fs.String("format", "", "Program tree format: auto, xml or cbor")
	dumpFlag := fs.String("dump-cbor", "", "Write the program tree as CBOR to this file and exit")
	cacheFlag := fs.String("cache", "", "Program cache database (enables caching)")
	noCacheFlag := fs.Bool("no-cache", false, "Disable the program cache")
	configFlag := fs.String("config", "", "Configuration file (default: nearest sol25.toml)")
	verboseFlag := fs.Bool("v", false, "Verbose logging")
	verbosityFlag := fs.Int("verbosity", 0, "Log verbosity (overrides -v)")
	logFileFlag := fs.String("log-file", "", "Log file (default standard error)")
	maxDepthFlag := fs.Int("max-depth", 0, "Maximum frame depth")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: sol25 [options] [program.xml]\n\n")
		fmt.Fprintf(stderr, "Runs Main>>run of a SOL25 program given as a parsed program tree.\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  sol25 prog.xml < input.txt\n")
		fmt.Fprintf(stderr, "  sol25 -input input.txt < prog.xml\n")
		fmt.Fprintf(stderr, "  sol25 -dump-cbor prog.cbor prog.xml && sol25 prog.cbor\n")
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, 0
		}
		return nil, exitBadArguments
	}
	if fs.NArg() > 1 {
		fmt.Fprintf(stderr, "sol25: expected at most one program, got %d\n", fs.NArg())
		return nil, exitBadArguments
	}

	cfg, err := loadConfig(*configFlag)
	if err != nil {
		fmt.Fprintf(stderr, "sol25: %v\n", err)
		return nil, exitBadArguments
	}

	opts := &options{
		source:    cfg.SourcePath(),
		input:     cfg.InputPath(),
		format:    cfg.Run.Format,
		dumpCBOR:  *dumpFlag,
		cachePath: cfg.CachePath(),
		useCache:  cfg.Cache.Enabled,
		maxDepth:  cfg.Run.MaxDepth,
		verbosity: cfg.Log.Verbosity,
		logFile:   cfg.LogPath(),
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if fs.NArg() == 1 {
		opts.source = fs.Arg(0)
	}
	if set["source"] {
		if fs.NArg() == 1 {
			fmt.Fprintf(stderr, "sol25: -source and a program argument are exclusive\n")
			return nil, exitBadArguments
		}
		opts.source = *sourceFlag
	}
	if set["input"] {
		opts.input = *inputFlag
	}
	if set["format"] {
		opts.format = *formatFlag
	}
	if set["cache"] {
		opts.cachePath = *cacheFlag
		opts.useCache = true
	}
	if *noCacheFlag {
		opts.useCache = false
	}
	if *verboseFlag && opts.verbosity < 1 {
		opts.verbosity = 1
	}
	if set["verbosity"] {
		opts.verbosity = *verbosityFlag
	}
	if set["log-file"] {
		opts.logFile = *logFileFlag
	}
	if set["max-depth"] {
		opts.maxDepth = *maxDepthFlag
	}

	switch opts.format {
	case "", "auto", "xml", "cbor":
	default:
		fmt.Fprintf(stderr, "sol25: unknown format %q\n", opts.format)
		return nil, exitBadArguments
	}
	if opts.maxDepth < 0 {
		fmt.Fprintf(stderr, "sol25: -max-depth must not be negative\n")
		return nil, exitBadArguments
	}

	// Program and input cannot both come from standard input.
	stdinSource := opts.source == "" || opts.source == "-"
	stdinInput := opts.input == "" || opts.input == "-"
	if stdinSource && stdinInput {
		fmt.Fprintf(stderr, "sol25: give a program file or -input; both cannot be standard input\n")
		fs.Usage()
		return nil, exitBadArguments
	}
	return opts, -1
}

func loadConfig(path string) (*manifest.Manifest, error) {
	if path != "" {
		return manifest.LoadFile(path)
	}
	wd, err := os.Getwd()
	if err != nil {
		return manifest.Default(), nil
	}
	m, err := manifest.FindAndLoad(wd)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return manifest.Default(), nil
	}
	log.Debugf("using configuration %s", filepath.Join(m.Dir, manifest.FileName))
	return m, nil
}

func readSource(opts *options, stdin io.Reader) ([]byte, error) {
	if opts.source == "" || opts.source == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(opts.source)
}

// decodeTree reads the program tree in the configured format, through the
// cache when one is enabled.
func decodeTree(opts *options, source []byte) (*compiler.Node, error) {
	format := treeFormat(opts)
	decode := compiler.DecodeXML
	if format == "cbor" {
		decode = compiler.DecodeCBOR
	}
	decodeBytes := func(data []byte) (*compiler.Node, error) {
		return decode(bytes.NewReader(data))
	}

	if !opts.useCache {
		return decodeBytes(source)
	}
	store, err := cache.Open(opts.cachePath)
	if err != nil {
		log.Warningf("program cache disabled: %s", err)
		return decodeBytes(source)
	}
	defer store.Close()
	return store.Load(context.Background(), format, source, decodeBytes)
}

func treeFormat(opts *options) string {
	if opts.format == "xml" || opts.format == "cbor" {
		return opts.format
	}
	if strings.EqualFold(filepath.Ext(opts.source), ".cbor") {
		return "cbor"
	}
	return "xml"
}

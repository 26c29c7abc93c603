// Package config holds the analyzer's command-line options, parsed with
// the standard flag package into a package-level struct and exposed
// through a small accessor interface.
package config

import (
	"flag"
	"log"
	"strconv"
)

type options struct {
	irPath       string
	tracePath    string
	entryFunc    string
	watchIP      string
	messageLimit int
	debugIPRaw   string
	debugIP      uint64
	hasDebugIP   bool
	logDir       string
	noColorize   bool
	dotOut       string
	dotFormat    string
	verbose      bool
}

var opts = &options{}

type optInterface struct{}

// Opts returns the accessor for the parsed configuration. Call ParseArgs
// before reading from it.
func Opts() optInterface { return optInterface{} }

func (optInterface) IRPath() string    { return opts.irPath }
func (optInterface) TracePath() string { return opts.tracePath }
func (optInterface) EntryFunc() string { return opts.entryFunc }
func (optInterface) MessageLimit() int { return opts.messageLimit }
func (optInterface) LogDir() string    { return opts.logDir }
func (optInterface) NoColorize() bool  { return opts.noColorize }
func (optInterface) DotOut() string    { return opts.dotOut }
func (optInterface) DotFormat() string { return opts.dotFormat }
func (optInterface) Verbose() bool     { return opts.verbose }

// WatchIP returns the parsed -watch-ip value and whether one was given.
func (optInterface) WatchIP() (uint64, bool) {
	return parseGuestAddr(opts.watchIP, "-watch-ip")
}

// DebugIP returns the configured debug IP and whether one was set at all
// (the zero IP is a legitimate address, so presence can't be read off the
// value alone).
func (optInterface) DebugIP() (uint64, bool) { return opts.debugIP, opts.hasDebugIP }

func (optInterface) OnVerbose(do func()) {
	if Opts().Verbose() {
		do()
	}
}

func init() {
	flag.StringVar(&opts.irPath, "ir", "", "path to the IR module to evaluate")
	flag.StringVar(&opts.tracePath, "trace", "", "path to the binary trace log")
	flag.StringVar(&opts.entryFunc, "entry", "main", "name of the function the trace starts in")
	flag.StringVar(&opts.watchIP, "watch-ip", "", "guest instruction pointer to print messages for (decimal or 0x-prefixed hex)")
	flag.IntVar(&opts.messageLimit, "limit", 0, "maximum number of messages to print for -watch-ip (0 = unlimited)")
	flag.StringVar(&opts.debugIPRaw, "debug-ip", "", "guest instruction pointer to trace to the debug side channel")
	flag.StringVar(&opts.logDir, "logdir", "", "directory to write diagnostic logs to (default: stderr)")
	flag.BoolVar(&opts.noColorize, "no-colorize", false, "disable pretty-printer colorization")
	flag.StringVar(&opts.dotOut, "dot", "", "write a Graphviz rendering of the associated memlog to this path")
	flag.StringVar(&opts.dotFormat, "dot-format", "", "also render the -dot output to this image format (e.g. svg, png) via graphviz")
	flag.BoolVar(&opts.verbose, "verbose", false, "enable verbose output")

	log.SetFlags(log.Ltime | log.Lshortfile)
}

// ParseArgs parses the command line into opts. Call once from main.
func ParseArgs() {
	flag.Parse()

	if opts.irPath == "" || opts.tracePath == "" {
		log.Fatal("both -ir and -trace are required")
	}

	if opts.debugIPRaw != "" {
		ip, ok := parseGuestAddr(opts.debugIPRaw, "-debug-ip")
		if !ok {
			log.Fatalf("invalid -debug-ip %q", opts.debugIPRaw)
		}
		opts.debugIP = ip
		opts.hasDebugIP = true
	}
}

func parseGuestAddr(s, flagName string) (uint64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		log.Fatalf("invalid %s %q: %v", flagName, s, err)
	}
	return v, true
}

// Command symtrace is the thin driver wiring the analyzer's pipeline
// together: load an IR module and a binary trace log, align them, run the
// symbolic evaluator over the result, then print whatever -watch-ip asks
// for. The JSON/TCP query server described in the wire interfaces is a
// separate, out-of-scope concern; this binary answers one query and exits.
package main

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/symtrace/symtrace/addr"
	"github.com/symtrace/symtrace/assoc"
	"github.com/symtrace/symtrace/config"
	"github.com/symtrace/symtrace/dotviz"
	"github.com/symtrace/symtrace/eval"
	"github.com/symtrace/symtrace/ir"
	"github.com/symtrace/symtrace/message"
	"github.com/symtrace/symtrace/query"
	"github.com/symtrace/symtrace/tracefmt"
	"github.com/symtrace/symtrace/utils"
	"github.com/symtrace/symtrace/utils/dot"
)

func main() {
	config.ParseArgs()
	opts := config.Opts()

	if dir := opts.LogDir(); dir != "" {
		f, err := os.OpenFile(filepath.Join(dir, "symtrace.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			log.Fatalf("opening -logdir: %v", err)
		}
		log.SetOutput(f)
	}

	mod, err := loadModule(opts.IRPath())
	if err != nil {
		log.Fatalf("loading IR module: %v", err)
	}

	traceFile, err := os.Open(opts.TracePath())
	if err != nil {
		log.Fatalf("opening trace log: %v", err)
	}
	defer traceFile.Close()

	trace, err := tracefmt.ReadAll(traceFile)
	if err != nil {
		log.Fatalf("reading trace log: %v", err)
	}

	interesting := map[string]bool{opts.EntryFunc(): true}
	list, err := associate(mod, opts.EntryFunc(), trace, interesting)
	if err != nil {
		log.Fatalf("associating trace with IR: %v", err)
	}

	evalOpts := eval.Options{MessageLimit: opts.MessageLimit()}
	if ip, ok := opts.DebugIP(); ok {
		evalOpts.DebugIP = &ip
	}

	state := eval.NewState(evalOpts, 1)
	runEval(state, list)
	state.RecordFuncProcessed()

	renderOpts := message.DefaultRenderOptions
	renderOpts.Colorize = !opts.NoColorize()
	q := query.New(state, renderOpts)

	if watchIP, ok := opts.WatchIP(); ok {
		for _, r := range q.WatchIP(watchIP, opts.MessageLimit()) {
			fmt.Printf("[%s] %s\n", r.Kind, r.Text)
		}
	}

	if out := opts.DotOut(); out != "" {
		if err := writeDot(list, out, opts.DotFormat()); err != nil {
			log.Fatalf("writing -dot output: %v", err)
		}
	}
}

// loadModule would deserialize an emulator-produced IR module from disk.
// That parser is an external collaborator this analyzer never implements:
// callers that want to drive the pipeline programmatically build an
// *ir.Module directly with ir.NewModule and its builder methods, the way
// the test fixtures throughout this repo do.
func loadModule(path string) (*ir.Module, error) {
	return nil, fmt.Errorf("no IR module parser is wired in; construct one with ir.NewModule instead of -ir %q", path)
}

func associate(mod *ir.Module, entry string, trace []addr.MemlogOp, interesting map[string]bool) (*assoc.MemlogList, error) {
	defer utils.TimeTrack(time.Now(), "associate trace with IR")
	return assoc.Associate(mod, entry, trace, interesting)
}

func runEval(state *eval.State, list *assoc.MemlogList) {
	defer utils.TimeTrack(time.Now(), "symbolic evaluation")
	state.RunBlocks(list)
}

// writeDot writes the block graph as DOT source to path, and, when format
// is non-empty, additionally rasterizes it to path+"."+format via
// dot.DotToImage.
func writeDot(list *assoc.MemlogList, path, format string) error {
	g := dotviz.BlockGraph(list)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := g.WriteDot(&buf); err != nil {
		f.Close()
		return err
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	if format == "" {
		return nil
	}
	img, err := dot.DotToImage(path, format, buf.Bytes())
	if err != nil {
		return err
	}
	log.Printf("wrote %s rendering to %s", format, img)
	return nil
}

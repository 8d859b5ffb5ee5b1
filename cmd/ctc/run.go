package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/google/uuid"

	"ctclang.dev/go/ctc/baseline"
	"ctclang.dev/go/ctc/cparser"
	"ctclang.dev/go/ctc/errors"
	"ctclang.dev/go/ctc/pipeline"
	"ctclang.dev/go/internal/ctcdebug"
	"ctclang.dev/go/internal/watch"
)

const (
	verdictOk  = "Program correctly typed ✅"
	verdictBad = "Program typing error ❌"
)

func printVerdict(ok bool) {
	if ok {
		fmt.Println(verdictOk)
	} else {
		fmt.Println(verdictBad)
	}
}

// runStandalone runs the non-incremental baseline checker once and exits
// with status 1 if the program does not type-check.
func runStandalone(path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	tr, err := cparser.Parse(path, src)
	if err != nil {
		return err
	}
	ok, err := baseline.CheckProgram(tr)
	if err != nil {
		return err
	}
	printVerdict(ok)
	if !ok {
		os.Exit(1)
	}
	return nil
}

// runWatch runs the incremental pipeline once immediately, then again every
// time path changes on disk, until interrupted.
func runWatch(path string) error {
	runID := uuid.New()
	cfg := ctcdebug.Flags()

	p := pipeline.New()
	if err := stepAndReport(p, path, runID.String(), cfg); err != nil {
		return err
	}

	w, err := watch.New(path)
	if err != nil {
		return err
	}
	defer w.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-w.Errs():
			log.Printf("ctc[%s]: watch error: %v", runID, err)
		case <-w.Changed:
			if err := stepAndReport(p, path, runID.String(), cfg); err != nil {
				log.Printf("ctc[%s]: %v", runID, err)
				if errors.IsFatal(err) || (cfg.Strict && stderrors.Is(err, errors.ErrUnsupported)) {
					return err
				}
			}
		}
	}
}

func stepAndReport(p *pipeline.Pipeline, path, runID string, cfg ctcdebug.Config) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	ok, err := p.Step(path, src)
	if err != nil {
		return err
	}
	if cfg.Trace {
		log.Printf("ctc[%s]: step committed, ok=%v", runID, ok)
	}
	if cfg.DumpTree && p.Tree() != nil {
		fmt.Println(p.Tree().Dump())
	}
	printVerdict(ok)
	return nil
}

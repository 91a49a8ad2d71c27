// Command bcu-engine reads TestInputs (JSON, or YAML for .yaml/.yml files)
// from file arguments or stdin, runs the brake tests, and writes either a
// console report or the TestLog JSON to stdout. Several files run
// concurrently, each with its own seed.
//
// Environment variables (see internal/config): BCU_FORMAT, BCU_ENVIRONMENT,
// BCU_SEED, BCU_VERBOSE.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/cxd309/bcu-engine/internal/config"
	"github.com/cxd309/bcu-engine/internal/engine"
	"github.com/cxd309/bcu-engine/internal/environment"
	"github.com/cxd309/bcu-engine/internal/report"
)

func main() {
	logger := log.New(os.Stderr, "bcu: ", 0)

	cfg, err := config.LoadCLI()
	if err != nil {
		logger.Fatalf("config: %v", err)
	}

	paths := os.Args[1:]
	if len(paths) == 0 {
		paths = []string{""}
	}
	inputs := make([]engine.TestInput, 0, len(paths))
	for _, path := range paths {
		input, err := readInput(path)
		if err != nil {
			logger.Fatal(err)
		}
		if err := applyOverrides(&input, cfg); err != nil {
			logger.Fatal(err)
		}
		inputs = append(inputs, input)
	}

	var leakLog *log.Logger
	if cfg.Verbose {
		leakLog = logger
	}
	var results []engine.TestLog
	if len(inputs) == 1 {
		result, err := engine.Run(inputs[0], leakLog)
		if err != nil {
			logger.Fatalf("brake test error: %v", err)
		}
		results = append(results, result)
	} else {
		results, err = engine.Sweep(context.Background(), inputs, leakLog)
		if err != nil {
			logger.Fatalf("brake test error: %v", err)
		}
	}
	if cfg.Verbose {
		for _, r := range results {
			logger.Printf("run %s seed %d: %d phases in %s", r.Meta.RunID, *r.Meta.Seed, len(r.Phases), r.Environment)
		}
	}

	if err := writeResults(os.Stdout, cfg.Format, results); err != nil {
		logger.Fatalf("writing output: %v", err)
	}
}

// readInput loads one TestInput; an empty path reads JSON from stdin.
func readInput(path string) (engine.TestInput, error) {
	var (
		data []byte
		err  error
	)
	if path != "" {
		data, err = os.ReadFile(path)
	} else {
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return engine.TestInput{}, fmt.Errorf("error reading input: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return engine.DecodeYAML(data)
	default:
		return engine.DecodeJSON(data)
	}
}

func applyOverrides(input *engine.TestInput, cfg config.CLI) error {
	if cfg.Environment != "" {
		c, err := environment.ParseCondition(cfg.Environment)
		if err != nil {
			return fmt.Errorf("BCU_ENVIRONMENT: %w", err)
		}
		input.Environment = c
	}
	if cfg.Seed != nil {
		input.Meta.Seed = cfg.Seed
	}
	return nil
}

func writeResults(w io.Writer, format string, results []engine.TestLog) error {
	if format == config.FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		for _, r := range results {
			if err := enc.Encode(r); err != nil {
				return err
			}
		}
		return nil
	}
	for _, r := range results {
		if err := report.Write(w, r); err != nil {
			return err
		}
	}
	return nil
}

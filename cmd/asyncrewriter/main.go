package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	asyncrewriter "github.com/tumtumtum/AsyncRewriter"
	"github.com/tumtumtum/AsyncRewriter/rewrite"
)

func main() {
	var (
		outFile     = flag.String("out", "", "Output file for generated code (default: stdout)")
		refFiles    = flag.String("ref", "", "Reference-only source files (comma-separated)")
		exclude     = flag.String("exclude", "", "Fully qualified types to exclude (comma-separated)")
		logLevel    = flag.String("log-level", "warn", "Log level (debug, info, warn, error)")
		logJSON     = flag.Bool("log-json", false, "JSON log output")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	files := flag.Args()
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: asyncrewriter [flags] <file.cs> [file.cs ...]")
		fmt.Fprintln(os.Stderr, "       asyncrewriter -i <file.cs> ...  (interactive mode)")
		fmt.Fprintln(os.Stderr)
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := setupLogging(*logLevel, *logJSON); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg := asyncrewriter.Config{
		Files:         files,
		References:    splitList(*refFiles),
		ExcludedTypes: splitList(*exclude),
	}

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode needs a terminal")
			os.Exit(1)
		}
		if err := runInteractive(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(cfg, *outFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg asyncrewriter.Config, outFile string) error {
	output, err := asyncrewriter.Rewrite(context.Background(), cfg)
	if err != nil {
		return err
	}
	if output == "" {
		fmt.Fprintln(os.Stderr, "no marked methods found, nothing generated")
		return nil
	}

	if outFile == "" {
		fmt.Print(output)
		return nil
	}
	if err := os.WriteFile(outFile, []byte(output), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", outFile, err)
	}
	fmt.Fprintf(os.Stderr, "wrote %s\n", outFile)
	return nil
}

func setupLogging(level string, json bool) error {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return fmt.Errorf("log level %q: %w", level, err)
	}

	zcfg := zap.NewDevelopmentConfig()
	if json {
		zcfg = zap.NewProductionConfig()
	}
	zcfg.Level = lvl

	logger, err := zcfg.Build()
	if err != nil {
		return err
	}
	rewrite.SetLogger(logger)
	return nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"reflect"

	"github.com/joho/godotenv"

	"github.com/hengadev/flattenx"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		printUsage(stderr)
		return 1
	}

	var err error
	switch command := args[0]; command {
	case "convert":
		err = convertCommand(args[1:], stdin, stdout, stderr)
	case "init":
		err = initCommand(args[1:], stdout, stderr)
	case "version":
		fmt.Fprintln(stdout, flattenx.VersionInfo())
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", command)
		printUsage(stderr)
		return 1
	}

	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, "Usage: flattenx <command> [options]\n")
	fmt.Fprintf(w, "\nCommands:\n")
	fmt.Fprintf(w, "  convert   Rewrite a JSON object, unwrapping nested objects into the top level\n")
	fmt.Fprintf(w, "  init      Initialize configuration file\n")
	fmt.Fprintf(w, "  version   Show version information\n")
	fmt.Fprintf(w, "\nRun 'flattenx <command> -h' for help on a specific command.\n")
}

func convertCommand(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "Path to configuration file (default: flattenx.yaml when present)")
	envPath := fs.String("env", ".env", "Path to a .env file loaded when present")
	inPath := fs.String("in", "", "Input file (default: stdin)")
	format := fs.String("format", "", "Output format: json or yaml")
	indent := fs.Int("indent", -1, "JSON indent width")
	var unwrap unwrapFlags
	fs.Var(&unwrap, "unwrap", "Unwrap a top-level key, as key[:prefix]; repeatable")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if _, err := os.Stat(*envPath); err == nil {
		if err := godotenv.Load(*envPath); err != nil {
			return fmt.Errorf("loading %s: %w", *envPath, err)
		}
	}

	fileConfig, err := loadOptionalConfig(*configPath)
	if err != nil {
		return err
	}
	if *format != "" {
		fileConfig.Output.Format = *format
	}
	if *indent >= 0 {
		fileConfig.Output.Indent = *indent
	}
	fileConfig.Unwrap = append(fileConfig.Unwrap, unwrap...)
	if err := fileConfig.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	envConfig, err := flattenx.LoadConfigFromEnvironment()
	if err != nil {
		return err
	}
	cfg, err := fileConfig.Apply(envConfig)
	if err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	outFormat, err := flattenx.ParseFormat(fileConfig.Output.Format)
	if err != nil {
		return err
	}

	in := stdin
	if *inPath != "" {
		f, err := os.Open(*inPath)
		if err != nil {
			return fmt.Errorf("opening input: %w", err)
		}
		defer f.Close()
		in = f
	}

	doc, err := decodeDocument(in)
	if err != nil {
		return err
	}

	logger := newLogger(stderr, cfg.LogLevel)
	cfg.Logger = logger
	cfg.ObservabilityHook = flattenx.NewLoggingHook(logger)

	mapper, err := flattenx.NewMapper(flattenx.WithConfig(cfg))
	if err != nil {
		return err
	}
	ser := doc.serializer(fileConfig.Unwrap, cfg.DefaultInclusion)
	if err := mapper.Provider().Register(reflect.TypeOf(doc), ser); err != nil {
		return err
	}

	if err := mapper.Encode(context.Background(), stdout, outFormat, doc); err != nil {
		return err
	}
	if outFormat == flattenx.FormatJSON {
		fmt.Fprintln(stdout)
	}
	return nil
}

// newLogger writes text logs to w at level, falling back to warn for levels
// slog does not know.
func newLogger(w io.Writer, level string) *slog.Logger {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		l = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l}))
}

// loadOptionalConfig reads path, or flattenx.yaml when path is empty and the
// file exists. Without a file the output defaults are used and serialization
// settings come from the environment alone.
func loadOptionalConfig(path string) (*Config, error) {
	if path == "" {
		if _, err := os.Stat(defaultConfigPath); err != nil {
			return &Config{Version: "1", Output: DefaultConfig().Output}, nil
		}
		path = defaultConfigPath
	}
	return LoadConfig(path)
}

func initCommand(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	fs.SetOutput(stderr)
	force := fs.Bool("force", false, "Overwrite existing configuration file")
	path := fs.String("path", defaultConfigPath, "Where to write the configuration file")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if !*force {
		if _, err := os.Stat(*path); err == nil {
			return fmt.Errorf("configuration file %s already exists, use -force to overwrite", *path)
		}
	}

	fmt.Fprintf(stdout, "Creating configuration file at %s...\n", *path)
	if err := SaveConfig(DefaultConfig(), *path); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	fmt.Fprintln(stdout, "Configuration file created!")
	return nil
}

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"

	"git.home.luguber.info/inful/mdxwriter/internal/config"
	"git.home.luguber.info/inful/mdxwriter/internal/ingest"
	"git.home.luguber.info/inful/mdxwriter/internal/logfields"
	"git.home.luguber.info/inful/mdxwriter/internal/mdx"
	"git.home.luguber.info/inful/mdxwriter/internal/textwrap"
)

const defaultConfigPath = "config.yaml"

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"config.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Convert struct {
		Input  string `arg:"" optional:"" help:"Markdown input file (stdin when omitted)"`
		Output string `short:"o" help:"Output file (stdout when omitted)"`
		Width  int    `short:"w" help:"Maximum output line width, overrides the config file"`
	} `cmd:"" help:"Convert a Markdown document to MDX"`

	Wrap struct {
		Input string `arg:"" optional:"" help:"Text input file (stdin when omitted)"`
		Width int    `short:"w" default:"120" help:"Maximum line width in display columns"`
	} `cmd:"" help:"Wrap plain text at a display-column width"`
}

func main() {
	ctx := kong.Parse(&CLI)

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	var err error
	switch ctx.Command() {
	case "convert", "convert <input>":
		err = runConvert(logger)
	case "wrap", "wrap <input>":
		err = runWrap(logger)
	default:
		err = fmt.Errorf("unknown command: %s", ctx.Command())
	}
	if err != nil {
		logger.Error("command failed", logfields.Error(err))
		os.Exit(1)
	}
}

// loadConfig loads the configured file. A missing file is only an error
// when the user pointed at it explicitly.
func loadConfig() (*config.Config, error) {
	if _, err := os.Stat(CLI.Config); err != nil {
		if os.IsNotExist(err) && CLI.Config == defaultConfigPath {
			return config.Default(), nil
		}
		return nil, fmt.Errorf("config %s: %w", CLI.Config, err)
	}
	return config.Load(CLI.Config)
}

func runConvert(logger *slog.Logger) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	width := cfg.MaxLineWidth
	if CLI.Convert.Width > 0 {
		width = CLI.Convert.Width
	}

	log := logger.With(logfields.RunID(uuid.NewString()))
	start := time.Now()

	source, err := readInput(CLI.Convert.Input)
	if err != nil {
		return err
	}
	tree, err := ingest.Parse(source)
	if err != nil {
		return fmt.Errorf("parse markdown: %w", err)
	}

	translator := mdx.New(mdx.Options{
		MaxLineWidth: width,
		Labels:       cfg.AdmonitionLabels,
		Logger:       log,
	})
	body, err := translator.Translate(tree)
	if err != nil {
		return err
	}

	if err := writeOutput(CLI.Convert.Output, body+"\n"); err != nil {
		return err
	}
	log.Debug("converted document",
		logfields.Path(inputName(CLI.Convert.Input)),
		logfields.Output(outputName(CLI.Convert.Output)),
		logfields.Width(width),
		logfields.DurationMS(float64(time.Since(start).Microseconds())/1000.0),
	)
	return nil
}

func runWrap(logger *slog.Logger) error {
	source, err := readInput(CLI.Wrap.Input)
	if err != nil {
		return err
	}
	lines, err := textwrap.Wrap(string(source), CLI.Wrap.Width)
	if err != nil {
		return err
	}
	logger.Debug("wrapped text",
		logfields.Path(inputName(CLI.Wrap.Input)),
		logfields.Width(CLI.Wrap.Width),
		logfields.LineCount(len(lines)),
	)
	return writeOutput("", strings.Join(lines, "\n")+"\n")
}

func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return data, nil
}

func writeOutput(path, content string) error {
	if path == "" || path == "-" {
		_, err := io.WriteString(os.Stdout, content)
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func inputName(path string) string {
	if path == "" || path == "-" {
		return "<stdin>"
	}
	return path
}

func outputName(path string) string {
	if path == "" || path == "-" {
		return "<stdout>"
	}
	return path
}

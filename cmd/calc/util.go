package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/hokaccha/go-prettyjson"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var (
	red    = color.New(color.FgRed).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

// friendlyError is implemented by parser and VM errors that can render a
// multi-line report.
type friendlyError interface {
	FriendlyErrorMessage() string
}

func errorMessage(err error) string {
	if fe, ok := err.(friendlyError); ok {
		return fe.FriendlyErrorMessage()
	}
	return err.Error()
}

func fatal(msg interface{}) {
	var s string
	switch msg := msg.(type) {
	case string:
		s = msg
	case error:
		s = errorMessage(msg)
	default:
		s = fmt.Sprintf("%v", msg)
	}
	fmt.Fprintf(os.Stderr, "%s\n", red(s))
	os.Exit(1)
}

func isTerminalIO() bool {
	stdin := os.Stdin.Fd()
	stdout := os.Stdout.Fd()
	inTerm := isatty.IsTerminal(stdin) || isatty.IsCygwinTerminal(stdin)
	outTerm := isatty.IsTerminal(stdout) || isatty.IsCygwinTerminal(stdout)
	return inTerm && outTerm
}

var outputFormatsCompletion = []string{"json", "text", "yaml"}

func checkOutputFormat(format string) error {
	switch format {
	case "", "json", "text", "yaml":
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

func getOutputJSON(v any) ([]byte, error) {
	if viper.GetBool("no-color") || color.NoColor {
		return json.MarshalIndent(v, "", "  ")
	}
	return prettyjson.Marshal(v)
}

func writeJSON(w io.Writer, v any) error {
	data, err := getOutputJSON(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// isStructured reports whether the output format is a data format rather
// than text for people.
func isStructured(format string) bool {
	return format == "json" || format == "yaml"
}

// writeOutput writes v in the given structured format.
func writeOutput(w io.Writer, format string, v any) error {
	if format != "yaml" {
		return writeJSON(w, v)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func getLogger() zerolog.Logger {
	level, err := zerolog.ParseLevel(viper.GetString("log-level"))
	if err != nil || viper.GetString("log-level") == "" {
		level = zerolog.WarnLevel
	}
	out := zerolog.ConsoleWriter{Out: os.Stderr, NoColor: color.NoColor}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// Reads global flags from Viper and adjusts the environment accordingly.
func processGlobalFlags() {
	if viper.GetBool("no-color") {
		color.NoColor = true
	}
}

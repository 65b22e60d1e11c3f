package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/OWNER/ringboot/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	flagSet := flag.NewFlagSet("ringboot", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
ringboot - staged startup simulator with interdependency resolution.

Usage:
  ringboot [options] [PROFILE_PATH]

Arguments:
  PROFILE_PATH
    Path to a deployment profile file or directory. When omitted, the
    built-in reference profile (8 units, 8-node boot tree) is used.

Options:
`)
		flagSet.PrintDefaults()
	}

	profileFlag := flagSet.String("profile", "", "Path to the deployment profile file or directory.")
	formatFlag := flagSet.String("format", "hcl", "Profile format. Options: 'hcl' or 'toml'.")
	imageFlag := flagSet.String("image", "", "Write the 512-byte boot sector image to this path after the run.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	path := *profileFlag
	if path == "" && flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	config, err := app.NewConfig(app.Config{
		ProfilePath:   path,
		ProfileFormat: strings.ToLower(*formatFlag),
		ImagePath:     *imageFlag,
		LogFormat:     logFormat,
		LogLevel:      logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	return config, false, nil
}

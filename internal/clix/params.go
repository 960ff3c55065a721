package clix

import (
	"errors"
	"strings"

	"github.com/spf13/pflag"
)

// OutputParams controls how commands print their results.
type OutputParams struct {
	JSON bool
}

func ParseOutput(flags *pflag.FlagSet) (OutputParams, error) {
	asJSON, err := flags.GetBool("json")
	if err != nil {
		return OutputParams{}, err
	}
	return OutputParams{JSON: asJSON}, nil
}

// TitleFromArgs joins positional args into one title, so quoting is optional.
func TitleFromArgs(args []string) (string, error) {
	parts := make([]string, 0, len(args))
	for _, a := range args {
		if trimmed := strings.TrimSpace(a); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	if len(parts) == 0 {
		return "", errors.New("a project title is required")
	}
	return strings.Join(parts, " "), nil
}

// ParseServerAddr reads --addr and --port, falling back to the given defaults
// when the flags were not set explicitly.
func ParseServerAddr(flags *pflag.FlagSet, defaultAddr string, defaultPort int) (string, int) {
	addr, port := defaultAddr, defaultPort
	if flags.Changed("addr") {
		addr, _ = flags.GetString("addr")
	}
	if flags.Changed("port") {
		port, _ = flags.GetInt("port")
	}
	return addr, port
}

// Package cli is the command tree for the foxsync CLI app.
package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/foxpass-community/foxsync/rest"
)

const rootCLI = "foxsync"

// envPrefix maps flags to environment variables, so the credential for
// -api-key arrives as FOXPASS_API_KEY.
const envPrefix = "FOXPASS"

// Config holds the flags shared by every subcommand.
type Config struct {
	LogLevel string
	APIKey   string
	BaseURL  string
	Log      logr.Logger
}

// Root returns the root command for the foxsync CLI app.
func Root() *ffcli.Command {
	return &ffcli.Command{
		Name:        rootCLI,
		ShortUsage:  rootCLI + " <subcommand>",
		FlagSet:     flag.NewFlagSet(rootCLI, flag.ExitOnError),
		Subcommands: []*ffcli.Command{Sync(), Group(), Entry()},
		Exec: func(context.Context, []string) error {
			return flag.ErrHelp
		},
	}
}

// RegisterFlags registers the flags shared by every subcommand.
func RegisterFlags(cfg *Config, fs *flag.FlagSet) {
	fs.StringVar(&cfg.LogLevel, "loglevel", "info", "log level (optional)")
	fs.StringVar(&cfg.APIKey, "api-key", "", "Foxpass API key (required, or set FOXPASS_API_KEY)")
	fs.StringVar(&cfg.BaseURL, "base-url", rest.DefaultBaseURL, "Foxpass API base URL (optional)")
}

func ffOptions() []ff.Option {
	return []ff.Option{ff.WithEnvVarPrefix(envPrefix)}
}

func defaultConfig() Config {
	return Config{
		LogLevel: "info",
		BaseURL:  rest.DefaultBaseURL,
		Log:      defaultLogger("info"),
	}
}

func (c Config) restOptions() []rest.Option {
	return []rest.Option{rest.WithBaseURL(c.BaseURL), rest.WithLogger(c.Log)}
}

func printJSON(v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}

// defaultLogger is a zap logr implementation writing to stdout and to a
// file under logs/.
func defaultLogger(level string) logr.Logger {
	config := zap.NewProductionConfig()
	config.OutputPaths = []string{"stdout"}
	if err := os.MkdirAll("logs", 0755); err == nil {
		config.OutputPaths = append(config.OutputPaths, filepath.Join("logs", rootCLI+".log"))
	}
	switch level {
	case "debug":
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	default:
		config.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}
	zapLogger, err := config.Build()
	if err != nil {
		panic(fmt.Sprintf("who watches the watchmen (%v)?", err))
	}

	return zapr.NewLogger(zapLogger)
}

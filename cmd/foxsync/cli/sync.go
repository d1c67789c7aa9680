package cli

import (
	"context"
	"flag"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/imdario/mergo"
	"github.com/peterbourgon/ff/v3/ffcli"
	"github.com/pkg/errors"

	"github.com/foxpass-community/foxsync"
	"github.com/foxpass-community/foxsync/foxpass"
)

const syncCLI = "sync"

// SyncCfg is the configuration for the sync command.
type SyncCfg struct {
	Config
	Group string
	File  string
}

// Sync returns the command that synchronizes a MAC address file into a
// MAC group.
func Sync() *ffcli.Command {
	cfg := &SyncCfg{}
	fs := flag.NewFlagSet(syncCLI, flag.ExitOnError)
	RegisterFlagsSync(cfg, fs)

	return &ffcli.Command{
		Name:       syncCLI,
		ShortUsage: rootCLI + " sync -mac-group <name> -mac-address-file <file>",
		FlagSet:    fs,
		Options:    ffOptions(),
		Exec: func(ctx context.Context, _ []string) error {
			return cfg.Exec(ctx, nil)
		},
	}
}

// RegisterFlagsSync registers the flags for the sync command.
func RegisterFlagsSync(cfg *SyncCfg, fs *flag.FlagSet) {
	RegisterFlags(&cfg.Config, fs)
	fs.StringVar(&cfg.Group, "mac-group", "", "name of the MAC address group (required)")
	fs.StringVar(&cfg.File, "mac-address-file", "", "file containing the MAC addresses to add (required)")
}

// Exec runs the sync.
func (s *SyncCfg) Exec(ctx context.Context, _ []string) error {
	defaults := SyncCfg{Config: defaultConfig()}
	if err := mergo.Merge(s, defaults); err != nil {
		return err
	}
	if s.Log.GetSink() == nil {
		s.Log = defaultLogger(s.LogLevel)
	}
	s.Log = s.Log.WithName(rootCLI)

	if err := s.validate(); err != nil {
		s.Log.Error(err, "invalid arguments")
		return err
	}

	file, err := os.Open(s.File)
	if err != nil {
		err = errors.Wrapf(err, "could not read file %q", s.File)
		s.Log.Error(err, "cannot sync")
		return err
	}
	defer file.Close()

	s.Log.Info("starting sync", "group", s.Group, "file", s.File)
	c := foxpass.New(s.APIKey, s.restOptions()...)
	if _, err := foxsync.Sync(ctx, s.Log, c, s.Group, file); err != nil {
		s.Log.Error(err, "sync failed")
		return err
	}
	return nil
}

func (s *SyncCfg) validate() error {
	var result *multierror.Error
	if s.APIKey == "" {
		result = multierror.Append(result, errors.New("api-key is required, set the FOXPASS_API_KEY environment variable"))
	}
	if s.Group == "" {
		result = multierror.Append(result, errors.New("mac-group is required"))
	}
	if s.File == "" {
		result = multierror.Append(result, errors.New("mac-address-file is required"))
	}
	return result.ErrorOrNil()
}

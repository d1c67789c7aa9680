package cli

import (
	"context"
	"flag"

	"github.com/hashicorp/go-multierror"
	"github.com/imdario/mergo"
	"github.com/peterbourgon/ff/v3/ffcli"
	"github.com/pkg/errors"

	"github.com/foxpass-community/foxsync/foxpass"
	"github.com/foxpass-community/foxsync/mac"
)

const entryCLI = "entry"

// EntryCfg is the configuration for the entry subcommands.
type EntryCfg struct {
	Config
	Group string
	MAC   string
}

// Entry returns the command tree for single MAC entry management.
func Entry() *ffcli.Command {
	return &ffcli.Command{
		Name:        entryCLI,
		ShortUsage:  rootCLI + " entry <subcommand>",
		FlagSet:     flag.NewFlagSet(entryCLI, flag.ExitOnError),
		Subcommands: []*ffcli.Command{entryAdd(), entryDelete(), entryList(), entryCheck()},
		Exec: func(context.Context, []string) error {
			return flag.ErrHelp
		},
	}
}

// RegisterFlagsEntry registers the flags for the entry subcommands.
func RegisterFlagsEntry(cfg *EntryCfg, fs *flag.FlagSet, withMAC bool) {
	RegisterFlags(&cfg.Config, fs)
	fs.StringVar(&cfg.Group, "mac-group", "", "name of the MAC address group (required)")
	if withMAC {
		fs.StringVar(&cfg.MAC, "mac", "", "MAC address (required)")
	}
}

func entryAdd() *ffcli.Command {
	cfg := &EntryCfg{}
	fs := flag.NewFlagSet(entryCLI+" add", flag.ExitOnError)
	RegisterFlagsEntry(cfg, fs, true)

	return &ffcli.Command{
		Name:       "add",
		ShortUsage: rootCLI + " entry add -mac-group <name> -mac <address>",
		FlagSet:    fs,
		Options:    ffOptions(),
		Exec: func(ctx context.Context, _ []string) error {
			c, err := cfg.setup(true)
			if err != nil {
				return err
			}
			out, err := c.AddEntry(ctx, cfg.Group, cfg.MAC)
			if err != nil {
				cfg.Log.Error(err, "could not add entry", "group", cfg.Group, "mac", cfg.MAC)
				return err
			}
			return printJSON(out)
		},
	}
}

func entryDelete() *ffcli.Command {
	cfg := &EntryCfg{}
	fs := flag.NewFlagSet(entryCLI+" delete", flag.ExitOnError)
	RegisterFlagsEntry(cfg, fs, true)

	return &ffcli.Command{
		Name:       "delete",
		ShortUsage: rootCLI + " entry delete -mac-group <name> -mac <address>",
		FlagSet:    fs,
		Options:    ffOptions(),
		Exec: func(ctx context.Context, _ []string) error {
			c, err := cfg.setup(true)
			if err != nil {
				return err
			}
			if err := c.DeleteEntry(ctx, cfg.Group, cfg.MAC); err != nil {
				cfg.Log.Error(err, "could not delete entry", "group", cfg.Group, "mac", cfg.MAC)
				return err
			}
			cfg.Log.Info("entry deleted", "group", cfg.Group, "mac", cfg.MAC)
			return nil
		},
	}
}

func entryList() *ffcli.Command {
	cfg := &EntryCfg{}
	fs := flag.NewFlagSet(entryCLI+" list", flag.ExitOnError)
	RegisterFlagsEntry(cfg, fs, false)

	return &ffcli.Command{
		Name:       "list",
		ShortUsage: rootCLI + " entry list -mac-group <name>",
		FlagSet:    fs,
		Options:    ffOptions(),
		Exec: func(ctx context.Context, _ []string) error {
			c, err := cfg.setup(false)
			if err != nil {
				return err
			}
			return printJSON(c.ListEntries(ctx, cfg.Group))
		},
	}
}

// entryCheck exits zero when the address is registered in the group and
// non-zero when it is not.
func entryCheck() *ffcli.Command {
	cfg := &EntryCfg{}
	fs := flag.NewFlagSet(entryCLI+" check", flag.ExitOnError)
	RegisterFlagsEntry(cfg, fs, true)

	return &ffcli.Command{
		Name:       "check",
		ShortUsage: rootCLI + " entry check -mac-group <name> -mac <address>",
		FlagSet:    fs,
		Options:    ffOptions(),
		Exec: func(ctx context.Context, _ []string) error {
			c, err := cfg.setup(true)
			if err != nil {
				return err
			}
			if !c.IsEntryPresent(ctx, cfg.Group, cfg.MAC) {
				return errors.Errorf("%s is not in group %q", cfg.MAC, cfg.Group)
			}
			cfg.Log.Info("entry present", "group", cfg.Group, "mac", cfg.MAC)
			return nil
		},
	}
}

// setup applies defaults, builds the logger and validates the flags,
// normalizing the MAC address when one is expected.
func (e *EntryCfg) setup(needMAC bool) (*foxpass.Client, error) {
	defaults := EntryCfg{Config: defaultConfig()}
	if err := mergo.Merge(e, defaults); err != nil {
		return nil, err
	}
	if e.Log.GetSink() == nil {
		e.Log = defaultLogger(e.LogLevel)
	}
	e.Log = e.Log.WithName(rootCLI)

	var result *multierror.Error
	if e.APIKey == "" {
		result = multierror.Append(result, errors.New("api-key is required, set the FOXPASS_API_KEY environment variable"))
	}
	if e.Group == "" {
		result = multierror.Append(result, errors.New("mac-group is required"))
	}
	if needMAC {
		addr, err := mac.Parse(e.MAC)
		if err != nil {
			result = multierror.Append(result, err)
		} else {
			e.MAC = addr.String()
		}
	}
	if err := result.ErrorOrNil(); err != nil {
		e.Log.Error(err, "invalid arguments")
		return nil, err
	}
	return foxpass.New(e.APIKey, e.restOptions()...), nil
}

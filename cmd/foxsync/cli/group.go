package cli

import (
	"context"
	"flag"

	"github.com/hashicorp/go-multierror"
	"github.com/imdario/mergo"
	"github.com/peterbourgon/ff/v3/ffcli"
	"github.com/pkg/errors"

	"github.com/foxpass-community/foxsync/foxpass"
)

const groupCLI = "group"

// GroupCfg is the configuration for the group subcommands.
type GroupCfg struct {
	Config
	Name string
}

// Group returns the command tree for MAC group management.
func Group() *ffcli.Command {
	return &ffcli.Command{
		Name:        groupCLI,
		ShortUsage:  rootCLI + " group <subcommand>",
		FlagSet:     flag.NewFlagSet(groupCLI, flag.ExitOnError),
		Subcommands: []*ffcli.Command{groupAdd(), groupDelete(), groupList()},
		Exec: func(context.Context, []string) error {
			return flag.ErrHelp
		},
	}
}

// RegisterFlagsGroup registers the flags for the group subcommands.
func RegisterFlagsGroup(cfg *GroupCfg, fs *flag.FlagSet) {
	RegisterFlags(&cfg.Config, fs)
	fs.StringVar(&cfg.Name, "name", "", "name of the MAC address group (required)")
}

func groupAdd() *ffcli.Command {
	cfg := &GroupCfg{}
	fs := flag.NewFlagSet(groupCLI+" add", flag.ExitOnError)
	RegisterFlagsGroup(cfg, fs)

	return &ffcli.Command{
		Name:       "add",
		ShortUsage: rootCLI + " group add -name <name>",
		FlagSet:    fs,
		Options:    ffOptions(),
		Exec: func(ctx context.Context, _ []string) error {
			c, err := cfg.setup(true)
			if err != nil {
				return err
			}
			out, err := c.AddGroup(ctx, cfg.Name)
			if err != nil {
				cfg.Log.Error(err, "could not add group", "name", cfg.Name)
				return err
			}
			return printJSON(out)
		},
	}
}

func groupDelete() *ffcli.Command {
	cfg := &GroupCfg{}
	fs := flag.NewFlagSet(groupCLI+" delete", flag.ExitOnError)
	RegisterFlagsGroup(cfg, fs)

	return &ffcli.Command{
		Name:       "delete",
		ShortUsage: rootCLI + " group delete -name <name>",
		FlagSet:    fs,
		Options:    ffOptions(),
		Exec: func(ctx context.Context, _ []string) error {
			c, err := cfg.setup(true)
			if err != nil {
				return err
			}
			out, err := c.DeleteGroup(ctx, cfg.Name)
			if err != nil {
				cfg.Log.Error(err, "could not delete group", "name", cfg.Name)
				return err
			}
			return printJSON(out)
		},
	}
}

func groupList() *ffcli.Command {
	cfg := &GroupCfg{}
	fs := flag.NewFlagSet(groupCLI+" list", flag.ExitOnError)
	RegisterFlags(&cfg.Config, fs)

	return &ffcli.Command{
		Name:       "list",
		ShortUsage: rootCLI + " group list",
		FlagSet:    fs,
		Options:    ffOptions(),
		Exec: func(ctx context.Context, _ []string) error {
			c, err := cfg.setup(false)
			if err != nil {
				return err
			}
			return printJSON(c.ListGroups(ctx))
		},
	}
}

// setup applies defaults, builds the logger and validates the flags before
// handing back a ready client.
func (g *GroupCfg) setup(needName bool) (*foxpass.Client, error) {
	defaults := GroupCfg{Config: defaultConfig()}
	if err := mergo.Merge(g, defaults); err != nil {
		return nil, err
	}
	if g.Log.GetSink() == nil {
		g.Log = defaultLogger(g.LogLevel)
	}
	g.Log = g.Log.WithName(rootCLI)

	var result *multierror.Error
	if g.APIKey == "" {
		result = multierror.Append(result, errors.New("api-key is required, set the FOXPASS_API_KEY environment variable"))
	}
	if needName && g.Name == "" {
		result = multierror.Append(result, errors.New("name is required"))
	}
	if err := result.ErrorOrNil(); err != nil {
		g.Log.Error(err, "invalid arguments")
		return nil, err
	}
	return foxpass.New(g.APIKey, g.restOptions()...), nil
}

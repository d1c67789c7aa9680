// Package foxsync synchronizes MAC addresses from a local file into a
// Foxpass MAC group.
package foxsync

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/go-logr/logr"
	"github.com/pkg/errors"

	"github.com/foxpass-community/foxsync/mac"
)

// GroupClient is the slice of the Foxpass API the sync needs.
type GroupClient interface {
	GetGroup(ctx context.Context, name string) (map[string]interface{}, error)
	AddEntry(ctx context.Context, group, mac string) (map[string]interface{}, error)
}

// ErrGroupNotFound reports that the target group does not exist. Entries
// cannot be created under a nonexistent group, so this is fatal to a sync.
var ErrGroupNotFound = errors.New("MAC group not found")

// Result counts what happened to each non-blank input line.
type Result struct {
	Added   int
	Skipped int
	Failed  int
}

// Sync reads one MAC address per line from src and registers each valid
// address in the named group. Blank lines are skipped silently, invalid
// addresses are skipped with a warning, and a failed registration is
// absorbed so the remaining lines are still processed. The group must
// already exist; nothing is registered when it does not.
func Sync(ctx context.Context, l logr.Logger, c GroupClient, group string, src io.Reader) (Result, error) {
	if l.GetSink() == nil {
		l = logr.Discard()
	}
	grp, err := c.GetGroup(ctx, group)
	if err != nil || len(grp) == 0 {
		return Result{}, errors.Wrapf(ErrGroupNotFound, "group %q", group)
	}

	var res Result
	scanner := bufio.NewScanner(src)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		addr, err := mac.Parse(line)
		if err != nil {
			l.Info("skipping invalid MAC address", "line", line)
			res.Skipped++
			continue
		}
		if _, err := c.AddEntry(ctx, group, addr.String()); err != nil {
			l.V(1).Info("could not add MAC entry", "mac", addr.String(), "err", err.Error())
			res.Failed++
			continue
		}
		res.Added++
	}
	if err := scanner.Err(); err != nil {
		return res, errors.Wrap(err, "reading MAC address list")
	}
	l.Info("sync complete", "group", group, "added", res.Added, "skipped", res.Skipped, "failed", res.Failed)
	return res, nil
}

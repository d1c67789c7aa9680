// Package foxpass manipulates Foxpass MAC address groups and their entries.
package foxpass

import (
	"context"

	"github.com/foxpass-community/foxsync/rest"
)

// Endpoint is the resource collection for MAC groups and entries.
const Endpoint = "mac_entries/"

// Client is a MAC-group view of the Foxpass API.
type Client struct {
	*rest.Client
}

// New builds a Client for the given API key. Options are passed through to
// the underlying REST client.
func New(apiKey string, opts ...rest.Option) *Client {
	return &Client{Client: rest.NewClient(apiKey, opts...)}
}

// AddGroup creates a MAC group.
func (c *Client) AddGroup(ctx context.Context, name string) (map[string]interface{}, error) {
	return c.Create(ctx, Endpoint, map[string]string{"name": name})
}

// DeleteGroup removes a MAC group by name.
func (c *Client) DeleteGroup(ctx context.Context, name string) (map[string]interface{}, error) {
	return c.Delete(ctx, Endpoint, name)
}

// GetGroup looks a group up by name. An empty mapping means the group does
// not exist or the lookup failed; the two are not distinguished.
func (c *Client) GetGroup(ctx context.Context, name string) (map[string]interface{}, error) {
	return c.Get(ctx, Endpoint, name)
}

// ListGroups returns every MAC group.
func (c *Client) ListGroups(ctx context.Context) []map[string]interface{} {
	return c.ListAll(ctx, Endpoint)
}

// ListEntries returns every MAC entry in a group.
func (c *Client) ListEntries(ctx context.Context, group string) []map[string]interface{} {
	return c.ListAll(ctx, Endpoint+group+"/prefixes/")
}

// AddEntry registers a MAC address in a group. The backend treats this PUT
// as an idempotent upsert, so re-adding an existing address succeeds.
func (c *Client) AddEntry(ctx context.Context, group, mac string) (map[string]interface{}, error) {
	return c.Update(ctx, Endpoint, group+"/prefixes/", map[string]string{"prefix": mac})
}

// DeleteEntry removes a MAC address from a group.
func (c *Client) DeleteEntry(ctx context.Context, group, mac string) error {
	_, err := c.Delete(ctx, Endpoint+group+"/", mac)
	return err
}

// IsEntryPresent reports whether a MAC address is registered in a group.
func (c *Client) IsEntryPresent(ctx context.Context, group, mac string) bool {
	return c.Probe(ctx, Endpoint, group+"/prefixes/"+mac+"/")
}

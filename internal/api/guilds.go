package api

import (
	"context"
	"net/http"
	"net/url"
)

// GuildConfig is the per-server configuration owned by the API.
type GuildConfig struct {
	ID     string `json:"_id"`
	Prefix string `json:"prefix"`
}

// GuildConfig fetches a guild's configuration. Guilds without stored
// configuration return a nil config and no error; callers apply defaults.
func (c *Client) GuildConfig(ctx context.Context, guildID string) (*GuildConfig, error) {
	cfg := &GuildConfig{}
	err := c.do(ctx, http.MethodGet, "/guilds/"+url.PathEscape(guildID), nil, cfg)
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// SetGuildPrefix stores a guild's command prefix.
func (c *Client) SetGuildPrefix(ctx context.Context, guildID, prefix string) error {
	body := struct {
		Prefix string `json:"prefix"`
	}{Prefix: prefix}
	return c.do(ctx, http.MethodPut, "/guilds/"+url.PathEscape(guildID)+"/prefix", body, nil)
}
